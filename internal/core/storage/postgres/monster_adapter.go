package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
)

// MonsterAdapter implements storage.MonsterStore on the monsters table.
type MonsterAdapter struct {
	db *sql.DB
}

func NewMonsterAdapter(db *sql.DB) *MonsterAdapter {
	return &MonsterAdapter{db: db}
}

func (a *MonsterAdapter) CreateMonster(ctx context.Context, m *v1.Monster) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal monster: %w", err)
	}

	var version int64
	err = a.db.QueryRowContext(ctx, queryInsertMonster, m.ID, m.Owner, doc, time.Now().UTC()).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert monster: %w", err)
	}

	m.Version = version
	return nil
}

func (a *MonsterAdapter) GetMonster(ctx context.Context, id string) (*v1.Monster, error) {
	var m v1.Monster
	version, err := scanDocument(a.db.QueryRowContext(ctx, querySelectMonster, id), &m)
	if err != nil {
		return nil, err
	}
	m.Version = version
	return &m, nil
}

func (a *MonsterAdapter) UpdateMonster(ctx context.Context, m *v1.Monster) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal monster: %w", err)
	}

	res, err := a.db.ExecContext(ctx, queryUpdateMonster, m.ID, m.Owner, doc, time.Now().UTC(), m.Version)
	if err != nil {
		return fmt.Errorf("failed to update monster: %w", err)
	}
	if err := checkSwapped(res); err != nil {
		return err
	}

	m.Version++
	return nil
}

func (a *MonsterAdapter) DeleteMonster(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, queryDeleteMonster, id)
	if err != nil {
		return fmt.Errorf("failed to delete monster: %w", err)
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
