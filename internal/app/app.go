// Package app assembles one arena service process from its configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/monster-arena/internal/auth"
	"github.com/aevon-lab/monster-arena/internal/battle"
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/catalog"
	corecfg "github.com/aevon-lab/monster-arena/internal/core/config"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/core/storage/memory"
	"github.com/aevon-lab/monster-arena/internal/core/storage/postgres"
	"github.com/aevon-lab/monster-arena/internal/core/storage/redis"
	"github.com/aevon-lab/monster-arena/internal/migrations"
	"github.com/aevon-lab/monster-arena/internal/monster"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/aevon-lab/monster-arena/internal/player"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/aevon-lab/monster-arena/internal/summon"
	"github.com/gin-gonic/gin"
)

// Stores holds the persistence backends selected by the configuration.
type Stores struct {
	Principals storage.PrincipalStore
	Tokens     storage.TokenStore
	Players    storage.PlayerStore
	Monsters   storage.MonsterStore
	Battles    storage.BattleStore
	Outbox     storage.OutboxStore

	// Checks are the backends /health pings.
	Checks  map[string]server.HealthChecker
	closers []func() error
}

func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}
}

// OpenStores connects the configured database and token store. Postgres is
// migrated and its schema validated before use.
func OpenStores(cfg *corecfg.Config) (*Stores, error) {
	st := &Stores{Checks: make(map[string]server.HealthChecker)}

	switch cfg.Database.Type {
	case "postgres":
		db, err := postgres.NewAdapter(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, db.Close)
		if err := migrations.RunMigrations(db.DB(), cfg.Database.AutoMigrate); err != nil {
			st.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		if err := db.ValidateSchema(context.Background()); err != nil {
			st.Close()
			return nil, err
		}
		st.Principals = postgres.NewPrincipalAdapter(db.DB())
		st.Players = postgres.NewPlayerAdapter(db.DB())
		st.Monsters = postgres.NewMonsterAdapter(db.DB())
		st.Battles = postgres.NewBattleAdapter(db.DB())
		st.Outbox = postgres.NewOutboxAdapter(db.DB())
		st.Checks["database"] = db
	default:
		slog.Warn("Using in-memory storage; data is lost on restart")
		mem := memory.NewStore()
		st.Principals, st.Players, st.Monsters, st.Battles, st.Outbox = mem, mem, mem, mem, mem
		st.Tokens = mem
	}

	if cfg.Auth.TokenStore == "redis" {
		tokens, err := redis.NewTokenStore(context.Background(), cfg.Redis.URL)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, tokens.Close)
		st.Tokens = tokens
		st.Checks["redis"] = tokens
	} else if st.Tokens == nil {
		st.Tokens = memory.NewStore()
	}

	return st, nil
}

// Service is one process's handler set plus how its gate is configured.
type Service struct {
	Name   string
	Routes interface {
		RegisterRoutes(r gin.IRouter)
	}
	Validator server.TokenValidator
	Public    []string

	// Processor is nil for services without deferred work.
	Processor *outbox.Processor
}

// Mount installs the principal gate and the service routes. Routes added to
// r before Mount, such as /health, stay ungated.
func (s *Service) Mount(r *gin.Engine, serviceKey string) {
	r.Use(server.RequirePrincipal(server.AuthConfig{
		Validator:  s.Validator,
		ServiceKey: serviceKey,
		Public:     s.Public,
	}))
	s.Routes.RegisterRoutes(r)
}

// Build wires the named service to its stores and peer clients.
func Build(name string, cfg *corecfg.Config, st *Stores) (*Service, error) {
	timeout := cfg.Services.Timeout
	authClient := clients.NewAuthClient(cfg.Services.Auth, timeout)
	players := clients.NewPlayerClient(cfg.Services.Player, cfg.Services.APIKey, timeout)
	monsters := clients.NewMonsterClient(cfg.Services.Monster, cfg.Services.APIKey, timeout)

	newProcessor := func() *outbox.Processor {
		return outbox.NewProcessor(name, st.Outbox, outbox.Options{
			BatchSize:   cfg.Outbox.BatchSize,
			MaxAttempts: cfg.Outbox.MaxAttempts,
		})
	}

	switch name {
	case corecfg.ServiceAuth:
		processor := newProcessor()
		svc := auth.NewService(st.Principals, st.Tokens, players, processor, auth.Options{
			TokenTTL:   cfg.Auth.TokenTTL,
			BcryptCost: cfg.Auth.BcryptCost,
		})
		// Auth validates its own tokens in process.
		return &Service{Name: name, Routes: svc, Validator: svc, Public: auth.PublicRoutes, Processor: processor}, nil

	case corecfg.ServicePlayer:
		svc := player.NewService(st.Players, monsters)
		return &Service{Name: name, Routes: svc, Validator: authClient}, nil

	case corecfg.ServiceMonster:
		svc := monster.NewService(st.Monsters, players, cfg.Services.APIKey)
		return &Service{Name: name, Routes: svc, Validator: authClient, Public: monster.PublicRoutes}, nil

	case corecfg.ServiceSummon:
		cat, err := catalog.Load(cfg.Summon.CatalogPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Catalog loaded", "templates", cat.Len(), "total_rate", cat.TotalRate())
		processor := newProcessor()
		svc := summon.NewService(cat, monsters, players, processor)
		return &Service{Name: name, Routes: svc, Validator: authClient, Processor: processor}, nil

	case corecfg.ServiceBattle:
		processor := newProcessor()
		svc := battle.NewService(st.Battles, monsters, players, processor, battle.Options{
			MaxRounds: cfg.Battle.MaxRounds,
			ListLimit: cfg.Battle.ListLimit,
		})
		return &Service{Name: name, Routes: svc, Validator: authClient, Processor: processor}, nil
	}

	return nil, fmt.Errorf("unknown service %q", name)
}
