package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderAPIKey        = "X-API-Key"
	HeaderOnBehalfOf    = "X-On-Behalf-Of"

	principalKey = "arena_principal"
	tokenKey     = "arena_token"
)

// TokenValidator resolves a bearer token to the username it was issued to.
// Invalid or expired tokens must be reported with apperrors.KindAuth; any
// other failure is treated as the token service being unavailable.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// AuthConfig configures RequirePrincipal.
type AuthConfig struct {
	Validator TokenValidator

	// ServiceKey is the shared key accepted from peer services together with
	// X-On-Behalf-Of. Empty disables service calls.
	ServiceKey string

	// Public lists route templates (as registered, e.g. "/monsters/:id")
	// that skip the gate.
	Public []string
}

// RequirePrincipal resolves the calling principal before any handler runs.
//
// A request either carries a token in Authorization (with or without the
// "Bearer " prefix) or a service key with the user it acts for.
func RequirePrincipal(cfg AuthConfig) gin.HandlerFunc {
	public := make(map[string]struct{}, len(cfg.Public))
	for _, p := range cfg.Public {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.FullPath()]; ok {
			c.Next()
			return
		}

		if key := c.GetHeader(HeaderAPIKey); key != "" {
			if !ValidServiceKey(cfg.ServiceKey, key) {
				apperrors.Write(c, apperrors.Unauthorized("Invalid service key").WithCode(apperrors.HttpInvalidTokenError))
				return
			}
			user := strings.TrimSpace(c.GetHeader(HeaderOnBehalfOf))
			if user == "" {
				apperrors.Write(c, apperrors.Unauthorized("%s is required with %s", HeaderOnBehalfOf, HeaderAPIKey))
				return
			}
			c.Set(principalKey, user)
			c.Next()
			return
		}

		token := BearerToken(c.GetHeader(HeaderAuthorization))
		if token == "" {
			apperrors.Write(c, apperrors.Unauthorized("Missing token").WithCode(apperrors.HttpMissingTokenError))
			return
		}

		username, err := cfg.Validator.Validate(c.Request.Context(), token)
		if err != nil {
			if apperrors.Is(err, apperrors.KindAuth) {
				apperrors.Write(c, apperrors.Unauthorized("Invalid or expired token").WithCode(apperrors.HttpInvalidTokenError))
				return
			}
			slog.Warn("[Gate] Token validation unavailable", "path", c.FullPath(), "error", err)
			if apperrors.KindOf(err) != apperrors.KindUpstream {
				err = apperrors.Upstream(err, "Token service unavailable")
			}
			apperrors.Write(c, err)
			return
		}

		c.Set(principalKey, username)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// RequireServiceKey admits only peer services presenting the shared key.
func RequireServiceKey(serviceKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ValidServiceKey(serviceKey, c.GetHeader(HeaderAPIKey)) {
			apperrors.Write(c, apperrors.Forbidden("Access restricted to internal services"))
			return
		}
		c.Next()
	}
}

// ValidServiceKey compares in constant time. An unset expected key never
// matches.
func ValidServiceKey(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

// BearerToken strips an optional "Bearer " scheme from an Authorization
// header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// PrincipalFrom returns the username set by RequirePrincipal.
func PrincipalFrom(c *gin.Context) string {
	return c.GetString(principalKey)
}

// TokenFrom returns the caller's bearer token, or "" for service calls.
func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}
