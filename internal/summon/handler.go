package summon

import (
	"errors"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	"github.com/aevon-lab/monster-arena/internal/core/catalog"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgSummoned       = "Monster summoned"
	msgCatalogEmpty   = "No monster available to summon"
	msgCreateDeferred = "Monster creation failed; the summon will be retried"
	msgAttachDeferred = "Monster created but could not be added to the inventory; it will be retried"
)

// SummonHandler draws a template, creates the monster and attaches it to the
// caller. Steps are not rolled back: a failed step is queued for retry and
// the caller is told the summon did not complete.
func (s *Service) SummonHandler(c *gin.Context) {
	ctx := c.Request.Context()
	owner := server.PrincipalFrom(c)

	tpl, err := s.catalog.Draw(nil)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyCatalog) {
			metrics.SummonsTotal.WithLabelValues("catalog_empty").Inc()
			writeError(c, apperrors.New(apperrors.KindInternal, msgCatalogEmpty).WithCode(apperrors.HttpCatalogEmptyError))
			return
		}
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "drawing template"))
		return
	}

	acquisitionID := uuid.NewString()
	monsterID, err := s.create(ctx, acquisitionID, owner, tpl)
	if err != nil {
		metrics.SummonsTotal.WithLabelValues("create_failed").Inc()
		s.deferCreate(ctx, owner, acquisitionID, tpl, err)
		writeError(c, apperrors.Upstream(err, msgCreateDeferred))
		return
	}

	if err := s.attach(ctx, clients.CallerFrom(c), monsterID); err != nil {
		metrics.SummonsTotal.WithLabelValues("attach_failed").Inc()
		s.deferAttach(ctx, owner, monsterID, err)
		if apperrors.Is(err, apperrors.KindConflict) {
			writeError(c, err)
			return
		}
		writeError(c, apperrors.Upstream(err, msgAttachDeferred))
		return
	}

	metrics.SummonsTotal.WithLabelValues("success").Inc()
	slog.Info("[Summon] Monster summoned", "owner", owner, "monster_id", monsterID, "template", tpl.Name)
	c.JSON(http.StatusCreated, v1.SummonResponse{Message: msgSummoned, MonsterID: monsterID})
}

// ReplayHandler retries the pending summon steps now.
func (s *Service) ReplayHandler(c *gin.Context) {
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
		slog.Warn("[Summon] Dependency call failed", "path", c.FullPath(), "error", err)
	}
	apperrors.Write(c, err)
}
