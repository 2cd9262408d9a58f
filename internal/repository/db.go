package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// DB wraps sqlx and carries transactions through context so that a
// validator read and its subsequent write run against the same
// transaction. Repositories resolve their executor via ext(ctx).
type DB struct {
	*sqlx.DB
}

func NewDB(db *sqlx.DB) *DB {
	return &DB{DB: db}
}

type txKey struct{}

// WithinTx runs fn inside a single transaction. A nested call reuses the
// transaction already carried by ctx, so service methods compose.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFrom(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func txFrom(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

// ext returns the transaction carried by ctx, or the base pool.
func (d *DB) ext(ctx context.Context) sqlx.ExtContext {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return d.DB
}

// placeholder renders the n-th positional bindvar for dynamically built
// filter queries.
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
