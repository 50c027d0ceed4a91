// Package auth registers principals and issues and validates bearer tokens.
package auth

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL = time.Hour

	// KindCreatePlayer retries the player creation step of a registration.
	KindCreatePlayer = "create_player"
)

// PublicRoutes are reachable without a token.
var PublicRoutes = []string{"/register", "/login", "/validate"}

type Options struct {
	TokenTTL   time.Duration
	BcryptCost int
}

type Service struct {
	principals storage.PrincipalStore
	tokens     storage.TokenStore
	players    clients.PlayerAPI
	outbox     *outbox.Processor

	tokenTTL   time.Duration
	bcryptCost int
}

func NewService(
	principals storage.PrincipalStore,
	tokens storage.TokenStore,
	players clients.PlayerAPI,
	processor *outbox.Processor,
	opts Options,
) *Service {
	if principals == nil {
		panic("auth: principal store must not be nil")
	}
	if tokens == nil {
		panic("auth: token store must not be nil")
	}
	if players == nil {
		panic("auth: player client must not be nil")
	}
	if processor == nil {
		panic("auth: outbox processor must not be nil")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	s := &Service{
		principals: principals,
		tokens:     tokens,
		players:    players,
		outbox:     processor,
		tokenTTL:   opts.TokenTTL,
		bcryptCost: opts.BcryptCost,
	}
	processor.Handle(KindCreatePlayer, s.retryCreatePlayer)
	return s
}

// RegisterRoutes registers the auth service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/register", s.RegisterHandler)
	r.POST("/login", s.LoginHandler)
	r.POST("/validate", s.ValidateHandler)
	r.POST("/replay", s.ReplayHandler)
}

// Validate resolves a token for the local gatekeeper and slides its expiry.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	username, err := s.tokens.TouchToken(ctx, token, s.tokenTTL)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return "", apperrors.Upstream(err, "Token store unavailable")
	}
	return username, nil
}

// retryCreatePlayer finishes a registration whose player was never created.
// A player that already exists means an earlier attempt got through.
func (s *Service) retryCreatePlayer(ctx context.Context, op *v1.PendingOperation) error {
	_, err := s.players.CreatePlayer(ctx, clients.ServiceCaller(op.Principal))
	if apperrors.Is(err, apperrors.KindConflict) {
		return nil
	}
	return err
}
