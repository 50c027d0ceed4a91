// Package memory provides in-process implementations of every storage
// interface. It backs the memory database type and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
)

type token struct {
	username string
	expires  time.Time
}

// Store keeps deep copies of every document so callers never share state
// with it.
type Store struct {
	mu sync.RWMutex

	principals map[string]*v1.Principal
	tokens     map[string]token
	players    map[string]*v1.Player
	monsters   map[string]*v1.Monster
	battles    map[string]*v1.BattleRecord
	outbox     map[string]*v1.PendingOperation

	now func() time.Time
}

var (
	_ storage.PrincipalStore = (*Store)(nil)
	_ storage.TokenStore     = (*Store)(nil)
	_ storage.PlayerStore    = (*Store)(nil)
	_ storage.MonsterStore   = (*Store)(nil)
	_ storage.BattleStore    = (*Store)(nil)
	_ storage.OutboxStore    = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		principals: make(map[string]*v1.Principal),
		tokens:     make(map[string]token),
		players:    make(map[string]*v1.Player),
		monsters:   make(map[string]*v1.Monster),
		battles:    make(map[string]*v1.BattleRecord),
		outbox:     make(map[string]*v1.PendingOperation),
		now:        time.Now,
	}
}

// SetClock replaces the time source used for token expiry and outbox
// timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) CreatePrincipal(ctx context.Context, p *v1.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.principals[p.Username]; ok {
		return storage.ErrDuplicate
	}
	c := *p
	s.principals[p.Username] = &c
	return nil
}

func (s *Store) GetPrincipal(ctx context.Context, username string) (*v1.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.principals[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *Store) SaveToken(ctx context.Context, value, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[value] = token{username: username, expires: s.now().Add(ttl)}
	return nil
}

func (s *Store) TouchToken(ctx context.Context, value string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[value]
	if !ok {
		return "", storage.ErrNotFound
	}

	now := s.now()
	if !now.Before(t.expires) {
		delete(s.tokens, value)
		return "", storage.ErrNotFound
	}

	t.expires = now.Add(ttl)
	s.tokens[value] = t
	return t.username, nil
}

func (s *Store) CreatePlayer(ctx context.Context, p *v1.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[p.Username]; ok {
		return storage.ErrDuplicate
	}
	p.Version = 1
	s.players[p.Username] = p.Clone()
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, username string) (*v1.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) UpdatePlayer(ctx context.Context, p *v1.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.players[p.Username]
	if !ok || stored.Version != p.Version {
		return storage.ErrVersionConflict
	}
	p.Version++
	s.players[p.Username] = p.Clone()
	return nil
}

func (s *Store) CreateMonster(ctx context.Context, m *v1.Monster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.monsters[m.ID]; ok {
		return storage.ErrDuplicate
	}
	m.Version = 1
	s.monsters[m.ID] = m.Clone()
	return nil
}

func (s *Store) GetMonster(ctx context.Context, id string) (*v1.Monster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.monsters[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *Store) UpdateMonster(ctx context.Context, m *v1.Monster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.monsters[m.ID]
	if !ok || stored.Version != m.Version {
		return storage.ErrVersionConflict
	}
	m.Version++
	s.monsters[m.ID] = m.Clone()
	return nil
}

func (s *Store) DeleteMonster(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.monsters[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.monsters, id)
	return nil
}

func (s *Store) SaveBattle(ctx context.Context, r *v1.BattleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.battles[r.ID]; ok {
		return storage.ErrDuplicate
	}
	c := *r
	c.Logs = append([]string(nil), r.Logs...)
	s.battles[r.ID] = &c
	return nil
}

func (s *Store) GetBattle(ctx context.Context, id string) (*v1.BattleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.battles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *r
	c.Logs = append([]string(nil), r.Logs...)
	return &c, nil
}

func (s *Store) ListBattles(ctx context.Context, limit int) ([]*v1.BattleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*v1.BattleRecord, 0, len(s.battles))
	for _, r := range s.battles {
		records = append(records, r.Summary())
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID > records[j].ID
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Store) Enqueue(ctx context.Context, op *v1.PendingOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[op.ID]; ok {
		return storage.ErrDuplicate
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = s.now().UTC()
	}
	op.UpdatedAt = op.CreatedAt

	c := *op
	c.Payload = append([]byte(nil), op.Payload...)
	s.outbox[op.ID] = &c
	return nil
}

func (s *Store) PendingOperations(ctx context.Context, service string, maxAttempts int, before time.Time, limit int) ([]*v1.PendingOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ops []*v1.PendingOperation
	for _, op := range s.outbox {
		if op.Service != service || op.Attempts >= maxAttempts || !op.UpdatedAt.Before(before) {
			continue
		}
		c := *op
		c.Payload = append([]byte(nil), op.Payload...)
		ops = append(ops, &c)
	}

	sort.Slice(ops, func(i, j int) bool {
		if !ops[i].CreatedAt.Equal(ops[j].CreatedAt) {
			return ops[i].CreatedAt.Before(ops[j].CreatedAt)
		}
		return ops[i].ID < ops[j].ID
	})

	if limit > 0 && len(ops) > limit {
		ops = ops[:limit]
	}
	return ops, nil
}

func (s *Store) CompleteOperation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.outbox, id)
	return nil
}

func (s *Store) FailOperation(ctx context.Context, id string, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, ok := s.outbox[id]
	if !ok {
		return storage.ErrNotFound
	}
	op.Attempts++
	op.LastError = lastError
	op.UpdatedAt = s.now().UTC()
	return nil
}

func (s *Store) CountOperations(ctx context.Context, service string, maxAttempts int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, op := range s.outbox {
		if op.Service == service && op.Attempts < maxAttempts {
			n++
		}
	}
	return n, nil
}
