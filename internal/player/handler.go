package player

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/leveling"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
)

const (
	msgPlayerExists      = "Player already exists"
	msgPlayerNotFound    = "Player not found"
	msgInventoryFull     = "Maximum monster capacity reached"
	msgAlreadyOwned      = "Monster already in inventory"
	msgNotInInventory    = "Monster not found in inventory"
	msgExperienceUpdated = "Experience updated"
	msgMonsterAdded      = "Monster added"
	msgMonsterRemoved    = "Monster removed"
)

// CreateHandler creates the caller's player at level 1.
func (s *Service) CreateHandler(c *gin.Context) {
	username := server.PrincipalFrom(c)

	p := &v1.Player{
		Username:    username,
		Level:       1,
		Monsters:    []string{},
		MaxMonsters: leveling.Capacity(1),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreatePlayer(c.Request.Context(), p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(c, apperrors.Conflict(msgPlayerExists))
			return
		}
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "creating player"))
		return
	}

	slog.Info("[Player] Player created", "username", username)
	c.JSON(http.StatusCreated, p)
}

func (s *Service) GetHandler(c *gin.Context) {
	p, err := s.load(c.Request.Context(), server.PrincipalFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ExperienceHandler grants experience. A grant id that was already applied
// leaves the player unchanged.
func (s *Service) ExperienceHandler(c *gin.Context) {
	var req v1.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	username := server.PrincipalFrom(c)

	var updated *v1.Player
	var leveled bool
	err := s.update(c.Request.Context(), username, func(p *v1.Player) (bool, error) {
		grants, fresh := leveling.RecordGrant(p.AppliedGrants, req.GrantID)
		if !fresh {
			updated = p
			return false, nil
		}
		p.AppliedGrants = grants
		leveled = leveling.GrantPlayer(p, req.Experience)
		updated = p
		return true, nil
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if leveled {
		slog.Info("[Player] Level up", "username", username, "level", updated.Level)
	}
	c.JSON(http.StatusOK, v1.PlayerResponse{Message: msgExperienceUpdated, Player: updated})
}

// AddMonsterHandler attaches a monster after the monster service confirmed
// it exists and belongs to the caller.
func (s *Service) AddMonsterHandler(c *gin.Context) {
	var req v1.AddMonsterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	ctx := c.Request.Context()
	username := server.PrincipalFrom(c)

	m, err := s.monsters.GetMonster(ctx, clients.CallerFrom(c), req.MonsterID)
	if err != nil {
		writeError(c, err)
		return
	}
	if m.Owner != username {
		writeError(c, apperrors.Forbidden("Monster belongs to another player"))
		return
	}

	var monsters []string
	err = s.update(ctx, username, func(p *v1.Player) (bool, error) {
		if p.HasMonster(req.MonsterID) {
			return false, apperrors.Conflict(msgAlreadyOwned).WithCode(apperrors.HttpAlreadyOwnedError)
		}
		if len(p.Monsters) >= p.MaxMonsters {
			return false, apperrors.Conflict(msgInventoryFull)
		}
		p.Monsters = append(p.Monsters, req.MonsterID)
		monsters = p.Monsters
		return true, nil
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Player] Monster added", "username", username, "monster_id", req.MonsterID)
	c.JSON(http.StatusCreated, v1.MonstersResponse{Message: msgMonsterAdded, Monsters: monsters})
}

func (s *Service) RemoveMonsterHandler(c *gin.Context) {
	monsterID := c.Param("id")
	username := server.PrincipalFrom(c)

	var monsters []string
	err := s.update(c.Request.Context(), username, func(p *v1.Player) (bool, error) {
		i := slices.Index(p.Monsters, monsterID)
		if i < 0 {
			return false, apperrors.NotFound(msgNotInInventory)
		}
		p.Monsters = slices.Delete(p.Monsters, i, i+1)
		monsters = p.Monsters
		return true, nil
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Player] Monster removed", "username", username, "monster_id", monsterID)
	c.JSON(http.StatusOK, v1.MonstersResponse{Message: msgMonsterRemoved, Monsters: monsters})
}

func (s *Service) load(ctx context.Context, username string) (*v1.Player, error) {
	p, err := s.store.GetPlayer(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound(msgPlayerNotFound)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "loading player")
	}
	return p, nil
}

// update runs a read-modify-write on the player and repeats it when another
// writer got in between. mutate reports whether the player must be saved.
func (s *Service) update(ctx context.Context, username string, mutate func(p *v1.Player) (bool, error)) error {
	err := storage.RetryOnConflict(ctx, func(ctx context.Context) error {
		p, err := s.load(ctx, username)
		if err != nil {
			return err
		}

		changed, err := mutate(p)
		if err != nil || !changed {
			return err
		}
		return s.store.UpdatePlayer(ctx, p)
	})
	if errors.Is(err, storage.ErrVersionConflict) {
		return apperrors.Wrap(apperrors.KindConflict, err, "Player was modified concurrently, please retry")
	}
	return err
}

func writeError(c *gin.Context, err error) {
	if apperrors.Is(err, apperrors.KindUpstream) {
		slog.Warn("[Player] Dependency call failed", "path", c.FullPath(), "error", err)
	}
	apperrors.Write(c, err)
}
