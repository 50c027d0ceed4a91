package clients

import (
	"context"
	"errors"
	"net/http"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"golang.org/x/sync/singleflight"
)

// AuthClient validates tokens against the auth service. It satisfies
// server.TokenValidator.
type AuthClient struct {
	baseClient

	// inflight collapses concurrent validations of the same token, as issued
	// by a battle fetching both monsters at once.
	inflight singleflight.Group
}

func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{baseClient: newBaseClient("auth", baseURL, "", timeout)}
}

// Validate returns the token's principal. A 401 from the auth service
// becomes an auth error; everything else unexpected is upstream.
//
// The shared call is detached from any single caller's cancellation and is
// bounded by the client timeout; each caller stops waiting on its own ctx.
func (c *AuthClient) Validate(ctx context.Context, token string) (string, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(token, func() (interface{}, error) {
		return c.validate(shared, token)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", apperrors.Upstream(ctx.Err(), "auth validate interrupted")
	}
}

func (c *AuthClient) validate(ctx context.Context, token string) (string, error) {
	var resp v1.ValidateResponse
	err := c.do(ctx, http.MethodPost, "/validate", nil, v1.ValidateRequest{Token: token}, &resp, http.StatusOK)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			return "", apperrors.Unauthorized("Invalid or expired token")
		}
		return "", err
	}
	return resp.Username, nil
}
