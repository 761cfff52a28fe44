package store

import (
	"context"
	"errors"
)

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RetryOnConflict runs fn in a fresh transaction up to attempts times while it fails
// with ErrVersionConflict. The last conflict is returned when attempts run out.
func RetryOnConflict(ctx context.Context, tx Transactor, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = tx.WithinTransaction(ctx, fn)
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
