package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgRegistered         = "User registered successfully"
	msgLoggedIn           = "Login successful"
	msgInvalidCredentials = "Invalid username or password"
	msgUserExists         = "User already exists"
	msgPlayerPending      = "User registered but the player profile could not be created; it will be retried"
)

// RegisterHandler creates a principal, logs it in and creates its player.
// Once the principal is committed, any later failure queues the player step
// for retry; the principal can still log in.
func (s *Service) RegisterHandler(c *gin.Context) {
	var creds v1.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	ctx := c.Request.Context()

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "hashing password"))
		return
	}

	principal := &v1.Principal{
		Username:     creds.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.principals.CreatePrincipal(ctx, principal); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(c, apperrors.Conflict(msgUserExists))
			return
		}
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "creating principal"))
		return
	}

	token, err := s.issueToken(ctx, creds.Username)
	if err != nil {
		s.deferPlayerCreation(ctx, creds.Username, err)
		writeError(c, err)
		return
	}

	_, err = s.players.CreatePlayer(ctx, clients.Caller{Token: token, Principal: creds.Username})
	if err != nil && !apperrors.Is(err, apperrors.KindConflict) {
		s.deferPlayerCreation(ctx, creds.Username, err)
		writeError(c, apperrors.Upstream(err, msgPlayerPending))
		return
	}

	slog.Info("[Auth] User registered", "username", creds.Username)
	c.JSON(http.StatusCreated, v1.TokenResponse{Message: msgRegistered, Token: token})
}

func (s *Service) deferPlayerCreation(ctx context.Context, username string, cause error) {
	metrics.PartialSuccessTotal.WithLabelValues("auth", KindCreatePlayer).Inc()

	opID, err := s.outbox.Enqueue(ctx, KindCreatePlayer, username, struct{}{}, cause)
	if err != nil {
		slog.Error("[Auth] Failed to queue player creation", "username", username, "error", err)
		return
	}
	slog.Warn("[Auth] Partial registration",
		"username", username,
		"operation_id", opID,
		"error", cause,
	)
}

// LoginHandler exchanges valid credentials for a fresh token.
func (s *Service) LoginHandler(c *gin.Context) {
	var creds v1.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}
	ctx := c.Request.Context()

	principal, err := s.principals.GetPrincipal(ctx, creds.Username)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(c, apperrors.Unauthorized(msgInvalidCredentials))
		return
	}
	if err != nil {
		writeError(c, apperrors.Wrap(apperrors.KindInternal, err, "loading principal"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(creds.Password)); err != nil {
		writeError(c, apperrors.Unauthorized(msgInvalidCredentials))
		return
	}

	token, err := s.issueToken(ctx, creds.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, v1.TokenResponse{Message: msgLoggedIn, Token: token})
}

// ValidateHandler resolves a token for peer services.
func (s *Service) ValidateHandler(c *gin.Context) {
	var req v1.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BindingError(err))
		return
	}

	username, err := s.Validate(c.Request.Context(), req.Token)
	if err != nil {
		if apperrors.Is(err, apperrors.KindAuth) {
			err = apperrors.Unauthorized("Invalid or expired token").WithCode(apperrors.HttpInvalidTokenError)
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, v1.ValidateResponse{Username: username})
}

// ReplayHandler retries the pending registrations now.
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

func (s *Service) issueToken(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	if err := s.tokens.SaveToken(ctx, token, username, s.tokenTTL); err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, err, "storing token")
	}
	return token, nil
}

func writeError(c *gin.Context, err error) {
	if apperrors.Is(err, apperrors.KindUpstream) {
		slog.Warn("[Auth] Dependency call failed", "path", c.FullPath(), "error", err)
	}
	apperrors.Write(c, err)
}
