// Package store is the filtered persistence layer. It provides generic CRUD,
// aggregate queries, batched bulk delete and whole-table locking over any
// record type that describes its own table and columns.
package store

import (
	"context"
	"database/sql"
)

// Entity describes one storable record kind: its table name, surrogate id,
// and the full column set. Columns, Values and Pointers are aligned, with
// "id" always first. Every domain model implements this explicitly; there is
// no reflection over struct fields.
type Entity interface {
	Table() string
	EntityID() int64
	SetEntityID(id int64)

	// Columns returns every column name, "id" first.
	Columns() []string

	// Values returns the current column values, aligned with Columns.
	Values() []any

	// Pointers returns scan destinations, aligned with Columns.
	Pointers() []any

	// StampCreated and StampUpdated record unix-second timestamps; the store
	// calls them on insert and update respectively.
	StampCreated(now int64)
	StampUpdated(now int64)
}

// EntityPtr constrains a pointer-to-record type so generic selects can
// allocate the record themselves.
type EntityPtr[E any] interface {
	*E
	Entity
}

// Querier is the subset of database/sql used by the store operations.
// Both *sql.DB and *Tx satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func columnSet(e Entity) map[string]struct{} {
	cols := e.Columns()
	set := make(map[string]struct{}, len(cols))

	for _, col := range cols {
		set[col] = struct{}{}
	}

	return set
}
