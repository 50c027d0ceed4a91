// Package player serves player profiles and monster inventories.
package player

import (
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/gin-gonic/gin"
)

type Service struct {
	store    storage.PlayerStore
	monsters clients.MonsterAPI
}

func NewService(store storage.PlayerStore, monsters clients.MonsterAPI) *Service {
	if store == nil {
		panic("player: store must not be nil")
	}
	if monsters == nil {
		panic("player: monster client must not be nil")
	}
	return &Service{store: store, monsters: monsters}
}

// RegisterRoutes registers the player service routes. Every route acts on
// the calling principal's own player.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/player", s.CreateHandler)
	r.GET("/player", s.GetHandler)
	r.PUT("/player/experience", s.ExperienceHandler)
	r.POST("/player/monsters", s.AddMonsterHandler)
	r.DELETE("/player/monsters/:id", s.RemoveMonsterHandler)
}
