// Package summon acquires monsters for players: a weighted draw from the
// catalog, creation in the monster service and attachment to the player.
package summon

import (
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/catalog"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/gin-gonic/gin"
)

const (
	// KindCreateMonster retries a summon whose monster was never created.
	KindCreateMonster = "create_monster"
	// KindAttachMonster repairs an orphan monster missing from its owner's
	// inventory.
	KindAttachMonster = "attach_monster"
)

type Service struct {
	catalog  *catalog.Catalog
	monsters clients.MonsterAPI
	players  clients.PlayerAPI
	outbox   *outbox.Processor
}

func NewService(
	cat *catalog.Catalog,
	monsters clients.MonsterAPI,
	players clients.PlayerAPI,
	processor *outbox.Processor,
) *Service {
	if cat == nil {
		panic("summon: catalog must not be nil")
	}
	if monsters == nil {
		panic("summon: monster client must not be nil")
	}
	if players == nil {
		panic("summon: player client must not be nil")
	}
	if processor == nil {
		panic("summon: outbox processor must not be nil")
	}

	s := &Service{
		catalog:  cat,
		monsters: monsters,
		players:  players,
		outbox:   processor,
	}
	processor.Handle(KindCreateMonster, s.retryCreate)
	processor.Handle(KindAttachMonster, s.retryAttach)
	return s
}

// RegisterRoutes registers the summon service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/summon", s.SummonHandler)
	r.POST("/replay", s.ReplayHandler)
}
