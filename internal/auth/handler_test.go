package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/storage"
	"github.com/aevon-lab/monster-arena/internal/core/storage/memory"
	clientmocks "github.com/aevon-lab/monster-arena/internal/mocks/clients"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router  *gin.Engine
	store   *memory.Store
	players *clientmocks.PlayerAPI
}

// flakyTokens fails SaveToken while down is set.
type flakyTokens struct {
	*memory.Store
	down bool
}

func (f *flakyTokens) SaveToken(ctx context.Context, token, username string, ttl time.Duration) error {
	if f.down {
		return errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	}
	return f.Store.SaveToken(ctx, token, username, ttl)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithTokens(t, nil)
}

// newTestEnvWithTokens uses tokens instead of the shared memory store when
// it is not nil.
func newTestEnvWithTokens(t *testing.T, tokens func(*memory.Store) storage.TokenStore) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	var tokenStore storage.TokenStore = store
	if tokens != nil {
		tokenStore = tokens(store)
	}
	players := clientmocks.NewPlayerAPI(t)
	processor := outbox.NewProcessor("auth", store, outbox.Options{})
	svc := NewService(store, tokenStore, players, processor, Options{
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})

	r := gin.New()
	r.Use(server.RequirePrincipal(server.AuthConfig{
		Validator:  svc,
		ServiceKey: "secret",
		Public:     PublicRoutes,
	}))
	svc.RegisterRoutes(r)

	return &testEnv{router: r, store: store, players: players}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(server.HeaderAuthorization, "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func creds(user, password string) v1.Credentials {
	return v1.Credentials{Username: user, Password: password}
}

func decodeToken(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body v1.TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func callerFor(user string) interface{} {
	return mock.MatchedBy(func(c clients.Caller) bool {
		return c.Principal == user && c.Token != ""
	})
}

func TestRegister_CreatesPrincipalTokenAndPlayer(t *testing.T) {
	env := newTestEnv(t)
	env.players.EXPECT().
		CreatePlayer(mock.Anything, callerFor("alice")).
		Return(&v1.Player{Username: "alice", Level: 1}, nil).
		Once()

	resp := env.do(http.MethodPost, "/register", "", creds("alice", "pw"))
	require.Equal(t, http.StatusCreated, resp.Code)
	token := decodeToken(t, resp)

	resp = env.do(http.MethodPost, "/validate", "", v1.ValidateRequest{Token: token})
	require.Equal(t, http.StatusOK, resp.Code)
	var body v1.ValidateResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "alice", body.Username)

	principal, err := env.store.GetPrincipal(t.Context(), "alice")
	require.NoError(t, err)
	require.NotEqual(t, "pw", principal.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.players.EXPECT().CreatePlayer(mock.Anything, mock.Anything).Return(&v1.Player{}, nil).Once()

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/register", "", creds("alice", "pw")).Code)

	resp := env.do(http.MethodPost, "/register", "", creds("alice", "other"))
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Equal(t, apperrors.HttpConflictError, decodeError(t, resp).ErrorType)
}

func TestRegister_ExistingPlayerCountsAsCreated(t *testing.T) {
	env := newTestEnv(t)
	env.players.EXPECT().
		CreatePlayer(mock.Anything, mock.Anything).
		Return(nil, apperrors.Conflict("Player already exists")).
		Once()

	resp := env.do(http.MethodPost, "/register", "", creds("alice", "pw"))
	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestRegister_PlayerFailureIsQueuedAndReplayed(t *testing.T) {
	env := newTestEnv(t)
	env.players.EXPECT().
		CreatePlayer(mock.Anything, callerFor("alice")).
		Return(nil, apperrors.Upstream(errors.New("connection refused"), "player service unreachable")).
		Once()

	resp := env.do(http.MethodPost, "/register", "", creds("alice", "pw"))
	require.Equal(t, http.StatusBadGateway, resp.Code)
	require.Equal(t, apperrors.HttpUpstreamError, decodeError(t, resp).ErrorType)

	// The principal survives and can log in.
	resp = env.do(http.MethodPost, "/login", "", creds("alice", "pw"))
	require.Equal(t, http.StatusOK, resp.Code)
	token := decodeToken(t, resp)

	n, err := env.store.CountOperations(t.Context(), "auth", outbox.DefaultMaxAttempts)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	env.players.EXPECT().
		CreatePlayer(mock.Anything, clients.ServiceCaller("alice")).
		Return(&v1.Player{Username: "alice"}, nil).
		Once()

	resp = env.do(http.MethodPost, "/replay", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var report v1.ReplayResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Succeeded)

	n, err = env.store.CountOperations(t.Context(), "auth", outbox.DefaultMaxAttempts)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRegister_TokenFailureQueuesPlayerCreation(t *testing.T) {
	tokens := &flakyTokens{down: true}
	env := newTestEnvWithTokens(t, func(store *memory.Store) storage.TokenStore {
		tokens.Store = store
		return tokens
	})

	resp := env.do(http.MethodPost, "/register", "", creds("bob", "pw"))
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	_, err := env.store.GetPrincipal(t.Context(), "bob")
	require.NoError(t, err)

	pending, err := env.store.PendingOperations(t.Context(), "auth", outbox.DefaultMaxAttempts, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, KindCreatePlayer, pending[0].Kind)
	require.Equal(t, "bob", pending[0].Principal)

	// Registering again is refused, so the queued step is the only way the
	// player gets created.
	resp = env.do(http.MethodPost, "/register", "", creds("bob", "pw"))
	require.Equal(t, http.StatusConflict, resp.Code)

	tokens.down = false
	resp = env.do(http.MethodPost, "/login", "", creds("bob", "pw"))
	require.Equal(t, http.StatusOK, resp.Code)
	token := decodeToken(t, resp)

	env.players.EXPECT().
		CreatePlayer(mock.Anything, clients.ServiceCaller("bob")).
		Return(&v1.Player{Username: "bob", Level: 1}, nil).
		Once()

	resp = env.do(http.MethodPost, "/replay", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var report v1.ReplayResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	require.Equal(t, 1, report.Succeeded)

	n, err := env.store.CountOperations(t.Context(), "auth", outbox.DefaultMaxAttempts)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRegister_RejectsInvalidBodies(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "missing password", body: map[string]string{"identifiant": "alice"}},
		{name: "empty username", body: creds("", "pw")},
		{name: "unknown field", body: map[string]string{"identifiant": "alice", "password": "pw", "role": "admin"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(http.MethodPost, "/register", "", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.Equal(t, apperrors.HttpValidationError, decodeError(t, resp).ErrorType)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.players.EXPECT().CreatePlayer(mock.Anything, mock.Anything).Return(&v1.Player{}, nil).Once()
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/register", "", creds("alice", "pw")).Code)

	resp := env.do(http.MethodPost, "/login", "", creds("alice", "pw"))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeToken(t, resp)

	resp = env.do(http.MethodPost, "/login", "", creds("alice", "wrong"))
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = env.do(http.MethodPost, "/login", "", creds("nobody", "pw"))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestValidate_ExpiredAndUnknownTokens(t *testing.T) {
	env := newTestEnv(t)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	env.store.SetClock(func() time.Time { return now })
	require.NoError(t, env.store.SaveToken(t.Context(), "tok", "alice", time.Hour))

	// Each validation slides the window.
	now = now.Add(50 * time.Minute)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/validate", "", v1.ValidateRequest{Token: "tok"}).Code)
	now = now.Add(50 * time.Minute)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/validate", "", v1.ValidateRequest{Token: "tok"}).Code)

	now = now.Add(61 * time.Minute)
	resp := env.do(http.MethodPost, "/validate", "", v1.ValidateRequest{Token: "tok"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, apperrors.HttpInvalidTokenError, decodeError(t, resp).ErrorType)

	resp = env.do(http.MethodPost, "/validate", "", v1.ValidateRequest{Token: "never-issued"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestReplay_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/replay", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, apperrors.HttpMissingTokenError, decodeError(t, resp).ErrorType)

	resp = env.do(http.MethodPost, "/replay", "bogus", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, apperrors.HttpInvalidTokenError, decodeError(t, resp).ErrorType)
}
