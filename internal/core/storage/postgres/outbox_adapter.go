package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
)

// OutboxAdapter implements storage.OutboxStore. One table serves every
// service; rows are partitioned by the service column.
type OutboxAdapter struct {
	db *sql.DB
}

func NewOutboxAdapter(db *sql.DB) *OutboxAdapter {
	return &OutboxAdapter{db: db}
}

func (a *OutboxAdapter) Enqueue(ctx context.Context, op *v1.PendingOperation) error {
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}
	op.UpdatedAt = op.CreatedAt

	var id string
	err := a.db.QueryRowContext(ctx, queryInsertOperation,
		op.ID,
		op.Service,
		op.Kind,
		op.Principal,
		[]byte(op.Payload),
		op.CreatedAt,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert pending operation: %w", err)
	}
	return nil
}

func (a *OutboxAdapter) PendingOperations(
	ctx context.Context,
	service string,
	maxAttempts int,
	before time.Time,
	limit int,
) ([]*v1.PendingOperation, error) {
	rows, err := a.db.QueryContext(ctx, queryPendingOperations, service, maxAttempts, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending operations: %w", err)
	}
	defer rows.Close()

	var ops []*v1.PendingOperation
	for rows.Next() {
		var op v1.PendingOperation
		var payload []byte
		if err := rows.Scan(
			&op.ID,
			&op.Service,
			&op.Kind,
			&op.Principal,
			&payload,
			&op.Attempts,
			&op.LastError,
			&op.CreatedAt,
			&op.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pending operation: %w", err)
		}
		op.Payload = payload
		ops = append(ops, &op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending operations: %w", err)
	}
	return ops, nil
}

func (a *OutboxAdapter) CompleteOperation(ctx context.Context, id string) error {
	if _, err := a.db.ExecContext(ctx, queryDeleteOperation, id); err != nil {
		return fmt.Errorf("failed to delete pending operation: %w", err)
	}
	return nil
}

func (a *OutboxAdapter) FailOperation(ctx context.Context, id string, lastError string) error {
	res, err := a.db.ExecContext(ctx, queryFailOperation, id, lastError, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update pending operation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (a *OutboxAdapter) CountOperations(ctx context.Context, service string, maxAttempts int) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, queryCountOperations, service, maxAttempts).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending operations: %w", err)
	}
	return n, nil
}
