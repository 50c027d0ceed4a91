package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
)

var (
	// ErrNotFound is returned when no record matches the key.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a record with the same key already exists.
	ErrDuplicate = errors.New("record already exists")

	// ErrVersionConflict is returned by compare-and-swap updates when the
	// stored version no longer matches the version that was read.
	ErrVersionConflict = errors.New("version conflict")
)

// PrincipalStore persists registered identities.
type PrincipalStore interface {
	// CreatePrincipal returns ErrDuplicate if the username is taken.
	CreatePrincipal(ctx context.Context, p *v1.Principal) error
	GetPrincipal(ctx context.Context, username string) (*v1.Principal, error)
}

// TokenStore binds bearer tokens to principals with a sliding expiry.
type TokenStore interface {
	SaveToken(ctx context.Context, token, username string, ttl time.Duration) error

	// TouchToken resolves token and pushes its expiry ttl into the future.
	// Unknown and expired tokens both return ErrNotFound.
	TouchToken(ctx context.Context, token string, ttl time.Duration) (string, error)
}

// PlayerStore persists player documents.
//
// UpdatePlayer only succeeds when p.Version equals the stored version. On
// success the stored and the in-memory version are both incremented.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *v1.Player) error
	GetPlayer(ctx context.Context, username string) (*v1.Player, error)
	UpdatePlayer(ctx context.Context, p *v1.Player) error
}

// MonsterStore persists monster documents with the same versioning rules as
// PlayerStore.
type MonsterStore interface {
	CreateMonster(ctx context.Context, m *v1.Monster) error
	GetMonster(ctx context.Context, id string) (*v1.Monster, error)
	UpdateMonster(ctx context.Context, m *v1.Monster) error
	DeleteMonster(ctx context.Context, id string) error
}

// BattleStore persists immutable battle records.
type BattleStore interface {
	SaveBattle(ctx context.Context, r *v1.BattleRecord) error
	GetBattle(ctx context.Context, id string) (*v1.BattleRecord, error)

	// ListBattles returns up to limit records, newest first, without logs.
	ListBattles(ctx context.Context, limit int) ([]*v1.BattleRecord, error)
}

// OutboxStore persists pending saga operations of every service.
type OutboxStore interface {
	Enqueue(ctx context.Context, op *v1.PendingOperation) error

	// PendingOperations returns the oldest records of service that have been
	// attempted fewer than maxAttempts times and were last touched before
	// the given instant.
	PendingOperations(ctx context.Context, service string, maxAttempts int, before time.Time, limit int) ([]*v1.PendingOperation, error)

	// CompleteOperation removes a record after its retry succeeded.
	CompleteOperation(ctx context.Context, id string) error

	// FailOperation counts one more failed attempt and keeps the error.
	FailOperation(ctx context.Context, id string, lastError string) error

	// CountOperations returns the number of records still eligible for a retry.
	CountOperations(ctx context.Context, service string, maxAttempts int) (int, error)
}
