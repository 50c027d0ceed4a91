package storage

import (
	"context"
	"errors"
	"log/slog"
)

// MaxConflictRetries is how many times a read-modify-write is repeated after
// its first attempt lost a version race.
const MaxConflictRetries = 3

// RetryOnConflict runs fn and repeats it while it fails with
// ErrVersionConflict, at most MaxConflictRetries more times. fn must re-read
// the document it updates on every call.
func RetryOnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= MaxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn(ctx)
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}

		slog.Debug("[Storage] Version conflict, retrying", "attempt", attempt+1)
	}
	return err
}
