package battle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/combat"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	msgBattleFinished = "Battle finished"
	msgBattleNotFound = "Battle not found"
	msgNotYourMonster = "One or both monsters do not belong to you"
)

// BattleHandler fetches both monsters, simulates the battle, saves the
// record and then grants the experience.
func (s *Service) BattleHandler(c *gin.Context) {
	var req v1.BattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	ctx := c.Request.Context()
	caller := clients.CallerFrom(c)

	first, second, err := s.fetchPair(ctx, caller, req.Monster1ID, req.Monster2ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if first.Owner != caller.Principal || second.Owner != caller.Principal {
		writeError(c, apperrors.Forbidden(msgNotYourMonster))
		return
	}

	result := s.engine.Simulate(first, second)
	reward := combat.ComputeReward(result.Winner, result.Loser)

	record := &v1.BattleRecord{
		ID:            uuid.NewString(),
		Monster1:      first.ID,
		Monster2:      second.ID,
		Initiator:     caller.Principal,
		Logs:          result.Log,
		WinnerID:      result.Winner.ID,
		WinnerName:    result.Winner.Name,
		MonsterXPGain: reward.MonsterXP,
		PlayerXPGain:  reward.PlayerXP,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.store.SaveBattle(ctx, record); err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "saving battle"))
		return
	}
	metrics.BattlesTotal.Inc()

	slog.Info("[Battle] Battle finished",
		"battle_id", record.ID,
		"initiator", record.Initiator,
		"winner_id", record.WinnerID,
		"rounds", result.Rounds,
		"monster_xp", record.MonsterXPGain,
		"player_xp", record.PlayerXPGain,
	)

	// The battle is committed: grants must outlive a disconnected client.
	s.distribute(context.WithoutCancel(ctx), caller, record)

	c.JSON(http.StatusOK, v1.BattleResponse{
		Message:       msgBattleFinished,
		CombatID:      record.ID,
		WinnerID:      record.WinnerID,
		WinnerName:    record.WinnerName,
		MonsterXPGain: record.MonsterXPGain,
		PlayerXPGain:  record.PlayerXPGain,
		Logs:          record.Logs,
	})
}

// fetchPair loads both snapshots concurrently with the caller's identity.
func (s *Service) fetchPair(ctx context.Context, caller clients.Caller, firstID, secondID string) (*v1.Monster, *v1.Monster, error) {
	var first, second *v1.Monster

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.monsters.GetMonster(gctx, caller, firstID)
		first = m
		return err
	})
	g.Go(func() error {
		m, err := s.monsters.GetMonster(gctx, caller, secondID)
		second = m
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// ReplayBattleHandler returns a stored battle with its full log.
func (s *Service) ReplayBattleHandler(c *gin.Context) {
	record, err := s.store.GetBattle(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(c, apperrors.NotFound(msgBattleNotFound))
		return
	}
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "loading battle"))
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListHandler returns the most recent battles, newest first, without logs.
func (s *Service) ListHandler(c *gin.Context) {
	records, err := s.store.ListBattles(c.Request.Context(), s.listLimit)
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "listing battles"))
		return
	}
	if records == nil {
		records = []*v1.BattleRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// ReplayPendingHandler retries the experience grants that failed.
func (s *Service) ReplayPendingHandler(c *gin.Context) {
	report, err := s.outbox.Drain(c.Request.Context())
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "draining pending operations"))
		return
	}

	c.JSON(http.StatusOK, v1.ReplayResponse{
		Message:   "Replay complete",
		Processed: report.Processed,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	})
}

func writeError(c *gin.Context, err error) {
	if apperrors.Is(err, apperrors.KindUpstream) {
		slog.Warn("[Battle] Dependency call failed", "path", c.FullPath(), "error", err)
	}
	apperrors.Write(c, err)
}
