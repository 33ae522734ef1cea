package store

import (
	"fmt"
	"strings"

	"github.com/mkrupp/homegallery/internal/domain"
)

// Operator enumerates the supported filter comparisons. An operator outside
// this set is rejected when the query is built, before any statement reaches
// the database.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNE    Operator = "ne"
	OpGE    Operator = "ge"
	OpLE    Operator = "le"
	OpGT    Operator = "gt"
	OpLT    Operator = "lt"
	OpIn    Operator = "in"
	OpLike  Operator = "like"
	OpILike Operator = "ilike"
)

//nolint:gochecknoglobals
var operatorSQL = map[Operator]string{
	OpEq: "=",
	OpNE: "!=",
	OpGE: ">=",
	OpLE: "<=",
	OpGT: ">",
	OpLT: "<",
}

// Filter is one field/operator/value predicate. All filters of a call are
// AND-ed together.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Where builds a filter for use with the store operations.
func Where(field string, op Operator, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// buildWhere renders filters into a WHERE clause and its arguments. Unknown
// fields or operators fail with ErrValueInvalid before touching storage.
func buildWhere(e Entity, filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	var (
		cols    = columnSet(e)
		clauses = make([]string, 0, len(filters))
		args    = make([]any, 0, len(filters))
	)

	for _, f := range filters {
		if _, ok := cols[f.Field]; !ok {
			return "", nil, fmt.Errorf("%w: unknown field %q on %q",
				domain.ErrValueInvalid, f.Field, e.Table())
		}

		switch f.Op {
		case OpEq, OpNE, OpGE, OpLE, OpGT, OpLT:
			clauses = append(clauses, fmt.Sprintf("%s %s ?", f.Field, operatorSQL[f.Op]))
			args = append(args, f.Value)

		case OpIn:
			items := splitList(f.Value)
			if len(items) == 0 {
				clauses = append(clauses, "1 = 0")

				continue
			}

			clauses = append(clauses, fmt.Sprintf("%s IN (%s)",
				f.Field, strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", ")))

			for _, item := range items {
				args = append(args, item)
			}

		case OpLike:
			clauses = append(clauses, fmt.Sprintf("%s LIKE ?", f.Field))
			args = append(args, "%"+fmt.Sprint(f.Value)+"%")

		case OpILike:
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", f.Field))
			args = append(args, "%"+fmt.Sprint(f.Value)+"%")

		default:
			return "", nil, fmt.Errorf("%w: unknown operator %q",
				domain.ErrValueInvalid, f.Op)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// splitList turns a comma-separated value into trimmed items, dropping
// empties.
func splitList(value any) []string {
	var items []string

	for _, item := range strings.Split(fmt.Sprint(value), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
