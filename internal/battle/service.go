// Package battle resolves battles between two monsters of the caller,
// awards experience and keeps replays.
package battle

import (
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/combat"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/gin-gonic/gin"
)

const (
	DefaultListLimit = 100

	KindGrantMonsterXP = "grant_monster_xp"
	KindGrantPlayerXP  = "grant_player_xp"
)

type Options struct {
	MaxRounds int
	ListLimit int
}

type Service struct {
	store     storage.BattleStore
	monsters  clients.MonsterAPI
	players   clients.PlayerAPI
	outbox    *outbox.Processor
	engine    *combat.Engine
	listLimit int
}

func NewService(
	store storage.BattleStore,
	monsters clients.MonsterAPI,
	players clients.PlayerAPI,
	processor *outbox.Processor,
	opts Options,
) *Service {
	if store == nil {
		panic("battle: store must not be nil")
	}
	if monsters == nil {
		panic("battle: monster client must not be nil")
	}
	if players == nil {
		panic("battle: player client must not be nil")
	}
	if processor == nil {
		panic("battle: outbox processor must not be nil")
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = DefaultListLimit
	}

	s := &Service{
		store:     store,
		monsters:  monsters,
		players:   players,
		outbox:    processor,
		engine:    combat.NewEngine(opts.MaxRounds),
		listLimit: opts.ListLimit,
	}
	processor.Handle(KindGrantMonsterXP, s.retryMonsterGrant)
	processor.Handle(KindGrantPlayerXP, s.retryPlayerGrant)
	return s
}

// RegisterRoutes registers the battle service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/battle", s.BattleHandler)
	r.GET("/battle/:id", s.ReplayBattleHandler)
	r.GET("/battles", s.ListHandler)
	r.POST("/replay", s.ReplayPendingHandler)
}
