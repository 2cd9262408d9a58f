package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// Transactor runs a function inside one storage transaction so that a
// balance-validator read and the write it guards are consistent under
// concurrent writers. repository.DB satisfies it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// getErr maps a repository read failure: missing rows become typed
// not-found errors, everything else a persistence failure.
func getErr(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(entity, id)
	}
	return apperrors.Persistence(err)
}
