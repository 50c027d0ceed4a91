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

// PlayerAdapter implements storage.PlayerStore on the players table.
type PlayerAdapter struct {
	db *sql.DB
}

func NewPlayerAdapter(db *sql.DB) *PlayerAdapter {
	return &PlayerAdapter{db: db}
}

func (a *PlayerAdapter) CreatePlayer(ctx context.Context, p *v1.Player) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	var version int64
	err = a.db.QueryRowContext(ctx, queryInsertPlayer, p.Username, doc, time.Now().UTC()).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	p.Version = version
	return nil
}

func (a *PlayerAdapter) GetPlayer(ctx context.Context, username string) (*v1.Player, error) {
	var p v1.Player
	version, err := scanDocument(a.db.QueryRowContext(ctx, querySelectPlayer, username), &p)
	if err != nil {
		return nil, err
	}
	p.Version = version
	return &p, nil
}

func (a *PlayerAdapter) UpdatePlayer(ctx context.Context, p *v1.Player) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	res, err := a.db.ExecContext(ctx, queryUpdatePlayer, p.Username, doc, time.Now().UTC(), p.Version)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if err := checkSwapped(res); err != nil {
		return err
	}

	p.Version++
	return nil
}
