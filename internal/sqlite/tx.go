package sqlite

import (
	"context"
	"database/sql"
)

// querier is the subset of *sql.DB and *sql.Tx the tables need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx exposes both tables bound to one unit of work. Inside Backend.Update
// every statement runs in the same transaction.
type Tx struct {
	Products *ProductsTable
	Activity *ActivityTable
}

func newTx(q querier) *Tx {
	return &Tx{
		Products: &ProductsTable{q: q},
		Activity: &ActivityTable{q: q},
	}
}
