// Package clients holds the HTTP clients services use to call each other.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
)

// Caller identifies who an outbound call is made for. Interactive requests
// forward the user's token. Background workers have no token and act on
// behalf of Principal with the shared service key.
type Caller struct {
	Token     string
	Principal string
}

// ServiceCaller builds a Caller for work done without a user token.
func ServiceCaller(principal string) Caller {
	return Caller{Principal: principal}
}

// CallerFrom forwards the identity the gatekeeper resolved for c. Requests
// that arrived with the service key are forwarded the same way.
func CallerFrom(c *gin.Context) Caller {
	return Caller{Token: server.TokenFrom(c), Principal: server.PrincipalFrom(c)}
}

type baseClient struct {
	service string
	baseURL string
	apiKey  string
	http    *http.Client
}

func newBaseClient(service, baseURL, apiKey string, timeout time.Duration) baseClient {
	return baseClient{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// StatusError is an unexpected answer from a peer service.
type StatusError struct {
	Service string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s service returned %d: %s", e.Service, e.Status, e.Message)
}

// do sends body as JSON and decodes a response with one of the expected
// statuses into out. A nil caller sends only the service key.
//
// Dependency answers of 403, 404 and 409 keep their kind; anything else
// unexpected is an upstream failure wrapping a *StatusError.
func (b *baseClient) do(ctx context.Context, method, path string, caller *Caller, body, out interface{}, expected ...int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", b.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", b.service, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch {
	case caller != nil && caller.Token != "":
		req.Header.Set(server.HeaderAuthorization, caller.Token)
	case b.apiKey != "":
		req.Header.Set(server.HeaderAPIKey, b.apiKey)
		if caller != nil {
			req.Header.Set(server.HeaderOnBehalfOf, caller.Principal)
		}
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return apperrors.Upstream(err, "%s service unreachable", b.service)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Upstream(err, "reading %s response", b.service)
	}

	if slices.Contains(expected, resp.StatusCode) {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.Upstream(err, "decoding %s response", b.service)
		}
		return nil
	}

	return b.statusError(resp.StatusCode, raw)
}

func (b *baseClient) statusError(status int, raw []byte) error {
	var body apperrors.ErrorResponse
	_ = json.Unmarshal(raw, &body)

	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}

	var e *apperrors.Error
	switch status {
	case http.StatusForbidden:
		e = apperrors.Forbidden("%s", message)
	case http.StatusNotFound:
		e = apperrors.NotFound("%s", message)
	case http.StatusConflict:
		e = apperrors.Conflict("%s", message)
	default:
		return apperrors.Upstream(&StatusError{Service: b.service, Status: status, Message: message},
			"%s service call failed", b.service)
	}
	e.Code = body.ErrorType
	e.Details = body.Details
	return e
}
