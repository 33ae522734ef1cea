package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkrupp/homegallery/internal/domain"
)

// Order is the direction of an ordered select.
type Order string

const (
	Asc  Order = "ASC"
	Desc Order = "DESC"
)

// ListOptions controls ordering and pagination of SelectAll. Results are
// deterministic only when OrderBy is set.
type ListOptions struct {
	OrderBy string
	Order   Order
	Offset  int64
	Limit   int64
}

// Insert stores the record and assigns its id before returning; the
// surrounding transaction decides whether it persists.
func Insert(ctx context.Context, q Querier, e Entity) error {
	e.StampCreated(time.Now().Unix())

	cols := e.Columns()[1:]
	vals := e.Values()[1:]

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		e.Table(),
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

	var id int64
	if err := q.QueryRowContext(ctx, query, vals...).Scan(&id); err != nil {
		return fmt.Errorf("insert %s: %w", e.Table(), translateErr(err))
	}

	e.SetEntityID(id)

	return nil
}

// Update writes every non-id column of the record back to its row.
func Update(ctx context.Context, q Querier, e Entity) error {
	e.StampUpdated(time.Now().Unix())

	cols := e.Columns()[1:]
	vals := e.Values()[1:]

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = col + " = ?"
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?",
		e.Table(), strings.Join(assignments, ", "))

	if _, err := q.ExecContext(ctx, query, append(vals, e.EntityID())...); err != nil {
		return fmt.Errorf("update %s: %w", e.Table(), translateErr(err))
	}

	return nil
}

// Delete removes the record's row. Constraint violations from existing
// dependents surface as ErrValueLocked.
func Delete(ctx context.Context, q Querier, e Entity) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", e.Table())

	if _, err := q.ExecContext(ctx, query, e.EntityID()); err != nil {
		return fmt.Errorf("delete %s: %w", e.Table(), translateErr(err))
	}

	return nil
}

// Exists reports whether at least one row matches the filters.
func Exists(ctx context.Context, q Querier, probe Entity, filters ...Filter) (bool, error) {
	where, args, err := buildWhere(probe, filters)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT 1 FROM %s%s LIMIT 1", probe.Table(), where)

	var one int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("exists %s: %w", probe.Table(), err)
	}

	return true, nil
}

// SelectByID fetches one record by id, or nil when absent.
func SelectByID[E any, P EntityPtr[E]](ctx context.Context, q Querier, id int64) (P, error) {
	return SelectBy[E, P](ctx, q, Where("id", OpEq, id))
}

// SelectBy fetches the first record matching the filters, or nil when none
// match. With non-unique filters the tie-break is undefined.
func SelectBy[E any, P EntityPtr[E]](ctx context.Context, q Querier, filters ...Filter) (P, error) {
	var e E
	p := P(&e)

	where, args, err := buildWhere(p, filters)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1",
		strings.Join(p.Columns(), ", "), p.Table(), where)

	if err := q.QueryRowContext(ctx, query, args...).Scan(p.Pointers()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("select %s: %w", p.Table(), err)
	}

	return p, nil
}

// SelectAll fetches every record matching the filters, honoring ordering and
// pagination.
func SelectAll[E any, P EntityPtr[E]](
	ctx context.Context,
	q Querier,
	opts ListOptions,
	filters ...Filter,
) ([]P, error) {
	var probe E
	table := P(&probe).Table()

	where, args, err := buildWhere(P(&probe), filters)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s",
		strings.Join(P(&probe).Columns(), ", "), table, where)

	if opts.OrderBy != "" {
		if _, ok := columnSet(P(&probe))[opts.OrderBy]; !ok {
			return nil, fmt.Errorf("%w: unknown order column %q on %q",
				domain.ErrValueInvalid, opts.OrderBy, table)
		}

		order := opts.Order
		if order != Desc {
			order = Asc
		}

		query += fmt.Sprintf(" ORDER BY %s %s", opts.OrderBy, order)
	}

	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1 // no limit, offset only
		}

		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, opts.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select all %s: %w", table, err)
	}
	defer rows.Close()

	var records []P

	for rows.Next() {
		var e E
		p := P(&e)

		if err := rows.Scan(p.Pointers()...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return records, nil
}

// DeleteAll removes every matching row in fixed-size pages ordered by id
// ascending, bounding peak memory and lock duration. Returns the number of
// rows deleted.
func DeleteAll[E any, P EntityPtr[E]](
	ctx context.Context,
	q Querier,
	batchSize int,
	filters ...Filter,
) (int, error) {
	if batchSize <= 0 {
		batchSize = 200
	}

	deleted := 0

	for {
		page, err := SelectAll[E, P](ctx, q, ListOptions{
			OrderBy: "id",
			Order:   Asc,
			Limit:   int64(batchSize),
		}, filters...)
		if err != nil {
			return deleted, err
		}

		if len(page) == 0 {
			return deleted, nil
		}

		for _, record := range page {
			if err := Delete(ctx, q, record); err != nil {
				return deleted, err
			}

			deleted++
		}
	}
}

// CountAll returns the number of rows matching the filters.
func CountAll(ctx context.Context, q Querier, probe Entity, filters ...Filter) (int64, error) {
	where, args, err := buildWhere(probe, filters)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", probe.Table(), where)

	var count int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", probe.Table(), err)
	}

	return count, nil
}

// SumAll returns the sum of a column over matching rows, 0 when none match.
func SumAll(ctx context.Context, q Querier, probe Entity, column string, filters ...Filter) (int64, error) {
	if _, ok := columnSet(probe)[column]; !ok {
		return 0, fmt.Errorf("%w: unknown sum column %q on %q",
			domain.ErrValueInvalid, column, probe.Table())
	}

	where, args, err := buildWhere(probe, filters)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s%s",
		column, probe.Table(), where)

	var sum int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum %s: %w", probe.Table(), err)
	}

	return sum, nil
}
