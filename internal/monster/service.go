// Package monster owns monster documents: creation for summons, ownership
// checked reads, leveling and skill upgrades.
package monster

import (
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
)

// PublicRoutes skip the token gate. Creation is guarded by the service key
// instead.
var PublicRoutes = []string{"/monsters"}

type Service struct {
	store      storage.MonsterStore
	players    clients.PlayerAPI
	serviceKey string
	nameFn     func() string
}

func NewService(store storage.MonsterStore, players clients.PlayerAPI, serviceKey string) *Service {
	if store == nil {
		panic("monster: store must not be nil")
	}
	if players == nil {
		panic("monster: player client must not be nil")
	}
	return &Service{
		store:      store,
		players:    players,
		serviceKey: serviceKey,
		nameFn:     generateName,
	}
}

// RegisterRoutes registers the monster service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/monsters", server.RequireServiceKey(s.serviceKey), s.CreateHandler)
	r.GET("/monsters/:id", s.GetHandler)
	r.DELETE("/monsters/:id", s.DeleteHandler)
	r.PUT("/monsters/:id/experience", s.ExperienceHandler)
	r.PUT("/monsters/:id/skills/:num", s.UpgradeSkillHandler)
}
