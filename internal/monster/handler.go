package monster

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/leveling"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgMonsterNotFound   = "Monster not found or not owned by the caller"
	msgMonsterCreated    = "Monster created"
	msgMonsterDeleted    = "Monster deleted"
	msgExperienceAdded   = "Experience added"
	msgSkillUpgraded     = "Skill upgraded"
	msgAcquisitionReused = "Acquisition id already used by another owner"
)

// CreateHandler materializes a monster for a summon. The acquisition id
// becomes the monster id, so replaying the same acquisition returns the
// monster created the first time.
func (s *Service) CreateHandler(c *gin.Context) {
	var req v1.CreateMonsterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, apperrors.Validation("%s", err.Error()))
		return
	}
	ctx := c.Request.Context()

	id := req.AcquisitionID
	if id == "" {
		id = uuid.NewString()
	}

	m := newMonster(id, s.nameFn(), &req)
	err := s.store.CreateMonster(ctx, m)
	if errors.Is(err, storage.ErrDuplicate) {
		existing, gerr := s.store.GetMonster(ctx, id)
		if gerr != nil {
			writeError(c, apperrors.Wrap(apperrors.KindInternal, gerr, "loading existing monster"))
			return
		}
		if existing.Owner != req.Owner {
			writeError(c, apperrors.Conflict(msgAcquisitionReused))
			return
		}
		slog.Info("[Monster] Acquisition replayed", "monster_id", id, "owner", req.Owner)
		c.JSON(http.StatusCreated, v1.CreateMonsterResponse{ID: id})
		return
	}
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "creating monster"))
		return
	}

	slog.Info("[Monster] Monster created", "monster_id", id, "owner", req.Owner, "name", m.Name)
	c.JSON(http.StatusCreated, v1.CreateMonsterResponse{ID: id})
}

func newMonster(id, name string, req *v1.CreateMonsterRequest) *v1.Monster {
	skills := make([]v1.Skill, len(req.Skills))
	for i, sk := range req.Skills {
		sk.Level = sk.CurrentLevel()
		skills[i] = sk
	}

	return &v1.Monster{
		ID:          id,
		Name:        name,
		MonsterType: req.MonsterType,
		Element:     req.Element,
		Owner:       req.Owner,
		Stats:       v1.Stats{HP: req.HP, Atk: req.Atk, Def: req.Def, Vit: req.Vit},
		Skills:      skills,
		Level:       1,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *Service) GetHandler(c *gin.Context) {
	m, err := s.owned(c.Request.Context(), c.Param("id"), server.PrincipalFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteHandler removes the monster from its owner's inventory first and
// deletes it only when that succeeded. A monster missing from the
// inventory is an orphan and is deleted directly.
func (s *Service) DeleteHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	m, err := s.owned(ctx, id, server.PrincipalFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if _, err := s.players.RemoveMonster(ctx, clients.CallerFrom(c), m.ID); err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			writeError(c, err)
			return
		}
		slog.Info("[Monster] Deleting monster absent from inventory", "monster_id", id, "owner", m.Owner)
	}

	if err := s.store.DeleteMonster(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, apperrors.NotFound(msgMonsterNotFound))
			return
		}
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "deleting monster"))
		return
	}

	slog.Info("[Monster] Monster deleted", "monster_id", id, "owner", m.Owner)
	c.JSON(http.StatusOK, gin.H{"message": msgMonsterDeleted})
}

// ExperienceHandler grants experience and applies every level-up it pays
// for. A grant id that was already applied leaves the monster unchanged.
func (s *Service) ExperienceHandler(c *gin.Context) {
	var req v1.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	id := c.Param("id")

	var updated *v1.Monster
	var gained int
	err := s.update(c.Request.Context(), id, server.PrincipalFrom(c), func(m *v1.Monster) (bool, error) {
		updated = m
		grants, fresh := leveling.RecordGrant(m.AppliedGrants, req.GrantID)
		if !fresh {
			return false, nil
		}
		m.AppliedGrants = grants
		gained = leveling.GrantMonster(m, req.Experience)
		return true, nil
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if gained > 0 {
		slog.Info("[Monster] Level up", "monster_id", id, "levels", gained, "level", updated.Level)
	}
	c.JSON(http.StatusOK, v1.MonsterResponse{Message: msgExperienceAdded, Monster: updated})
}

// UpgradeSkillHandler spends a skill point on skill :num (1-based).
func (s *Service) UpgradeSkillHandler(c *gin.Context) {
	num, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		writeError(c, apperrors.Validation("Invalid skill number %q", c.Param("num")))
		return
	}
	id := c.Param("id")

	var updated *v1.Monster
	err = s.update(c.Request.Context(), id, server.PrincipalFrom(c), func(m *v1.Monster) (bool, error) {
		if err := leveling.UpgradeSkill(m, num-1); err != nil {
			return false, skillError(err, num)
		}
		updated = m
		return true, nil
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Monster] Skill upgraded", "monster_id", id, "skill", num, "level", updated.Skills[num-1].Level)
	c.JSON(http.StatusOK, v1.MonsterResponse{Message: msgSkillUpgraded, Monster: updated})
}

func skillError(err error, num int) error {
	switch {
	case errors.Is(err, leveling.ErrSkillIndex):
		return apperrors.Validation("Invalid skill number %d", num)
	case errors.Is(err, leveling.ErrNoSkillPoints):
		return apperrors.Conflict("No skill points available")
	case errors.Is(err, leveling.ErrSkillMaxed):
		return apperrors.Conflict("Skill %d is already at its maximum level", num)
	default:
		return err
	}
}

// owned loads a monster and hides monsters of other owners.
func (s *Service) owned(ctx context.Context, id, principal string) (*v1.Monster, error) {
	m, err := s.store.GetMonster(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound(msgMonsterNotFound)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "loading monster")
	}
	if m.Owner != principal {
		return nil, apperrors.NotFound(msgMonsterNotFound)
	}
	return m, nil
}

// update runs a read-modify-write on an owned monster, repeating it when
// another writer got in between. mutate reports whether to save.
func (s *Service) update(ctx context.Context, id, principal string, mutate func(m *v1.Monster) (bool, error)) error {
	err := storage.RetryOnConflict(ctx, func(ctx context.Context) error {
		m, err := s.owned(ctx, id, principal)
		if err != nil {
			return err
		}

		changed, err := mutate(m)
		if err != nil || !changed {
			return err
		}
		return s.store.UpdateMonster(ctx, m)
	})
	if errors.Is(err, storage.ErrVersionConflict) {
		return apperrors.Wrap(apperrors.KindConflict, err, "Monster was modified concurrently, please retry")
	}
	return err
}

func writeError(c *gin.Context, err error) {
	if apperrors.Is(err, apperrors.KindUpstream) {
		slog.Warn("[Monster] Dependency call failed", "path", c.FullPath(), "error", err)
	}
	apperrors.Write(c, err)
}
