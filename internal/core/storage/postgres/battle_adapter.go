package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
)

// BattleAdapter implements storage.BattleStore. Records are insert-only.
type BattleAdapter struct {
	db *sql.DB
}

func NewBattleAdapter(db *sql.DB) *BattleAdapter {
	return &BattleAdapter{db: db}
}

func (a *BattleAdapter) SaveBattle(ctx context.Context, r *v1.BattleRecord) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal battle: %w", err)
	}

	var id string
	err = a.db.QueryRowContext(ctx, queryInsertBattle, r.ID, r.Initiator, doc, r.Timestamp).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert battle: %w", err)
	}
	return nil
}

func (a *BattleAdapter) GetBattle(ctx context.Context, id string) (*v1.BattleRecord, error) {
	var doc []byte
	err := a.db.QueryRowContext(ctx, querySelectBattle, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select battle: %w", err)
	}

	var r v1.BattleRecord
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal battle: %w", err)
	}
	return &r, nil
}

func (a *BattleAdapter) ListBattles(ctx context.Context, limit int) ([]*v1.BattleRecord, error) {
	rows, err := a.db.QueryContext(ctx, queryListBattles, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query battles: %w", err)
	}
	defer rows.Close()

	records := []*v1.BattleRecord{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan battle row: %w", err)
		}

		var r v1.BattleRecord
		if err := json.Unmarshal(doc, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal battle: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating battles: %w", err)
	}
	return records, nil
}
