// Package redis stores bearer tokens in Redis. Key expiry implements the
// sliding validity window.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "arena:token:"

// TokenStore implements storage.TokenStore.
type TokenStore struct {
	rdb *redis.Client
}

var _ storage.TokenStore = (*TokenStore)(nil)

// NewTokenStore connects to redisURL (redis://host:port/db) and pings it.
func NewTokenStore(ctx context.Context, redisURL string) (*TokenStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("[Redis] Connected token store", "addr", opt.Addr, "db", opt.DB)
	return &TokenStore{rdb: rdb}, nil
}

func (s *TokenStore) SaveToken(ctx context.Context, token, username string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, keyPrefix+token, username, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// TouchToken reads the token and resets its TTL in a single GETEX.
func (s *TokenStore) TouchToken(ctx context.Context, token string, ttl time.Duration) (string, error) {
	username, err := s.rdb.GetEx(ctx, keyPrefix+token, ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis getex failed: %w", err)
	}
	return username, nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *TokenStore) Close() error {
	return s.rdb.Close()
}
