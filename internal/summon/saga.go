package summon

import (
	"context"
	"log/slog"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/aevon-lab/monster-arena/internal/outbox"
)

type createMonsterPayload struct {
	AcquisitionID string      `json:"acquisition_id"`
	Template      v1.Template `json:"template"`
}

type attachMonsterPayload struct {
	MonsterID string `json:"monster_id"`
}

// create asks the monster service for a monster built from tpl. The
// acquisition id makes repeated calls return the same monster.
func (s *Service) create(ctx context.Context, acquisitionID, owner string, tpl v1.Template) (string, error) {
	return s.monsters.CreateMonster(ctx, tpl.CreateRequest(acquisitionID, owner))
}

// attach adds the monster to the owner's inventory. A monster that is
// already there counts as attached.
func (s *Service) attach(ctx context.Context, caller clients.Caller, monsterID string) error {
	_, err := s.players.AddMonster(ctx, caller, monsterID)
	if err != nil && apperrors.CodeOf(err) == apperrors.HttpAlreadyOwnedError {
		return nil
	}
	return err
}

func (s *Service) deferCreate(ctx context.Context, owner, acquisitionID string, tpl v1.Template, cause error) {
	payload := createMonsterPayload{AcquisitionID: acquisitionID, Template: tpl}
	opID, err := s.outbox.Enqueue(ctx, KindCreateMonster, owner, payload, cause)
	if err != nil {
		slog.Error("[Summon] Failed to queue monster creation",
			"owner", owner,
			"acquisition_id", acquisitionID,
			"error", err,
		)
		return
	}
	slog.Warn("[Summon] Monster creation failed, queued for retry",
		"owner", owner,
		"acquisition_id", acquisitionID,
		"operation_id", opID,
		"error", cause,
	)
}

// deferAttach records an orphan: the monster exists but is in no inventory.
func (s *Service) deferAttach(ctx context.Context, owner, monsterID string, cause error) {
	metrics.PartialSuccessTotal.WithLabelValues("summon", KindAttachMonster).Inc()

	opID, err := s.outbox.Enqueue(ctx, KindAttachMonster, owner, attachMonsterPayload{MonsterID: monsterID}, cause)
	if err != nil {
		slog.Error("[Summon] Failed to queue orphan repair",
			"owner", owner,
			"monster_id", monsterID,
			"error", err,
		)
		return
	}
	slog.Warn("[Summon] Partial success: monster created but not attached",
		"owner", owner,
		"monster_id", monsterID,
		"operation_id", opID,
		"error", cause,
	)
}

func (s *Service) retryCreate(ctx context.Context, op *v1.PendingOperation) error {
	var payload createMonsterPayload
	if err := outbox.Decode(op, &payload); err != nil {
		return err
	}

	monsterID, err := s.create(ctx, payload.AcquisitionID, op.Principal, payload.Template)
	if err != nil {
		return err
	}
	return s.attach(ctx, clients.ServiceCaller(op.Principal), monsterID)
}

func (s *Service) retryAttach(ctx context.Context, op *v1.PendingOperation) error {
	var payload attachMonsterPayload
	if err := outbox.Decode(op, &payload); err != nil {
		return err
	}
	return s.attach(ctx, clients.ServiceCaller(op.Principal), payload.MonsterID)
}
