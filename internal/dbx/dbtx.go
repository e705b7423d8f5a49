// Package dbx holds the SQLite plumbing of the upload ledger: opening and
// migrating the database and running multi-statement work atomically.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so a query helper can run
// inside or outside WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a transaction and returns its result once the
// transaction commits. An error from fn, a failed commit or a panic rolls the
// transaction back; the panic is re-raised and the result is discarded.
//
//	n, err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
//	    res, err := tx.ExecContext(ctx, "UPDATE uploads SET ...")
//	    if err != nil {
//	        return 0, err
//	    }
//	    return res.RowsAffected()
//	})
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}
	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	result, err := fn(ctx, tx)
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		// A failed commit has already ended the transaction.
		done = true
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	done = true
	return result, nil
}
