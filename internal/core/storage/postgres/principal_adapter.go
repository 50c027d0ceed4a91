package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
)

// PrincipalAdapter implements storage.PrincipalStore.
type PrincipalAdapter struct {
	db *sql.DB
}

func NewPrincipalAdapter(db *sql.DB) *PrincipalAdapter {
	return &PrincipalAdapter{db: db}
}

func (a *PrincipalAdapter) CreatePrincipal(ctx context.Context, p *v1.Principal) error {
	var username string
	err := a.db.QueryRowContext(ctx, queryInsertPrincipal, p.Username, p.PasswordHash, p.CreatedAt).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert principal: %w", err)
	}
	return nil
}

func (a *PrincipalAdapter) GetPrincipal(ctx context.Context, username string) (*v1.Principal, error) {
	var p v1.Principal
	err := a.db.QueryRowContext(ctx, querySelectPrincipal, username).Scan(&p.Username, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select principal: %w", err)
	}
	return &p, nil
}
