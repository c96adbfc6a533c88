package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrConflictUnresolved is returned by GetOrCreate when every attempt lost the
// insert race and the conflicting row could not be read back.
var ErrConflictUnresolved = errors.New("conflicting row could not be resolved")

// GetOrCreate resolves a row keyed by a unique constraint without a
// check-then-insert race. insert must either return the created row or signal
// a conflict, by returning sql.ErrNoRows (INSERT ... ON CONFLICT DO NOTHING
// RETURNING) or a unique violation. On conflict find re-reads the surviving
// row. If that row disappeared in the meantime the sequence is retried, up to
// attempts times. The boolean result reports whether insert created the row.
//
// Inside a PostgreSQL transaction insert must use ON CONFLICT DO NOTHING: a
// raised unique violation aborts the transaction and the follow-up read fails.
func GetOrCreate[T any](
	ctx context.Context,
	attempts int,
	insert func(context.Context) (T, error),
	find func(context.Context) (T, error),
) (T, bool, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	for range attempts {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		created, err := insert(ctx)
		if err == nil {
			return created, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) && !IsUniqueViolation(err) {
			return zero, false, fmt.Errorf("insert: %w", err)
		}

		existing, err := find(ctx)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return zero, false, fmt.Errorf("find after conflict: %w", err)
		}
	}

	return zero, false, ErrConflictUnresolved
}
