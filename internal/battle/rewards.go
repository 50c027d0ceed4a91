package battle

import (
	"context"
	"log/slog"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"golang.org/x/sync/errgroup"
)

type grantPayload struct {
	MonsterID string `json:"monster_id,omitempty"`
	Amount    int    `json:"amount"`
	GrantID   string `json:"grant_id"`
}

func monsterGrantID(battleID string) string { return battleID + ":monster" }
func playerGrantID(battleID string) string  { return battleID + ":player" }

// distribute sends both experience grants of a committed battle. Failures
// never undo the battle: they are logged and queued for retry.
func (s *Service) distribute(ctx context.Context, caller clients.Caller, record *v1.BattleRecord) {
	var g errgroup.Group

	if record.MonsterXPGain > 0 {
		g.Go(func() error {
			grant := grantPayload{
				MonsterID: record.WinnerID,
				Amount:    record.MonsterXPGain,
				GrantID:   monsterGrantID(record.ID),
			}
			_, err := s.monsters.AddExperience(ctx, caller, grant.MonsterID, grant.Amount, grant.GrantID)
			if err != nil {
				s.deferGrant(ctx, KindGrantMonsterXP, caller.Principal, record.ID, grant, err)
			}
			return nil
		})
	}

	if record.PlayerXPGain > 0 {
		g.Go(func() error {
			grant := grantPayload{Amount: record.PlayerXPGain, GrantID: playerGrantID(record.ID)}
			_, err := s.players.AddExperience(ctx, caller, grant.Amount, grant.GrantID)
			if err != nil {
				s.deferGrant(ctx, KindGrantPlayerXP, caller.Principal, record.ID, grant, err)
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (s *Service) deferGrant(ctx context.Context, kind, principal, battleID string, grant grantPayload, cause error) {
	metrics.PartialSuccessTotal.WithLabelValues("battle", kind).Inc()

	opID, err := s.outbox.Enqueue(ctx, kind, principal, grant, cause)
	if err != nil {
		slog.Error("[Battle] Failed to queue experience grant",
			"battle_id", battleID,
			"kind", kind,
			"error", err,
		)
	}
	slog.Warn("[Battle] Partial success: battle saved but experience not granted",
		"battle_id", battleID,
		"kind", kind,
		"monster_id", grant.MonsterID,
		"principal", principal,
		"operation_id", opID,
		"error", cause,
	)
}

func (s *Service) retryMonsterGrant(ctx context.Context, op *v1.PendingOperation) error {
	var grant grantPayload
	if err := outbox.Decode(op, &grant); err != nil {
		return err
	}
	_, err := s.monsters.AddExperience(ctx, clients.ServiceCaller(op.Principal), grant.MonsterID, grant.Amount, grant.GrantID)
	return err
}

func (s *Service) retryPlayerGrant(ctx context.Context, op *v1.PendingOperation) error {
	var grant grantPayload
	if err := outbox.Decode(op, &grant); err != nil {
		return err
	}
	_, err := s.players.AddExperience(ctx, clients.ServiceCaller(op.Principal), grant.Amount, grant.GrantID)
	return err
}
