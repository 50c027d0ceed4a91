package player

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
	"github.com/aevon-lab/monster-arena/internal/clients"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/storage/memory"
	clientmocks "github.com/aevon-lab/monster-arena/internal/mocks/clients"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const serviceKey = "secret"

// tokens maps token -> username.
type tokens map[string]string

func (t tokens) Validate(ctx context.Context, token string) (string, error) {
	if user, ok := t[token]; ok {
		return user, nil
	}
	return "", apperrors.Unauthorized("Invalid or expired token")
}

type testEnv struct {
	router   *gin.Engine
	store    *memory.Store
	monsters *clientmocks.MonsterAPI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	monsters := clientmocks.NewMonsterAPI(t)
	svc := NewService(store, monsters)

	r := gin.New()
	r.Use(server.RequirePrincipal(server.AuthConfig{
		Validator:  tokens{"tok-alice": "alice", "tok-bob": "bob"},
		ServiceKey: serviceKey,
	}))
	svc.RegisterRoutes(r)

	return &testEnv{router: r, store: store, monsters: monsters}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	return e.doWithHeaders(method, path, map[string]string{server.HeaderAuthorization: token}, body)
}

func (e *testEnv) doWithHeaders(method, path string, headers map[string]string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) seed(t *testing.T, p *v1.Player) {
	t.Helper()
	require.NoError(t, e.store.CreatePlayer(context.Background(), p))
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

func TestCreatePlayer(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/player", "tok-alice", nil)
	require.Equal(t, http.StatusCreated, resp.Code)

	p := decode[v1.Player](t, resp)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, 1, p.Level)
	require.Zero(t, p.Experience)
	require.Empty(t, p.Monsters)
	require.Equal(t, 11, p.MaxMonsters)

	resp = env.do(http.MethodPost, "/player", "tok-alice", nil)
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestGetPlayer(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/player", "tok-alice", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	env.seed(t, &v1.Player{Username: "alice", Level: 3, MaxMonsters: 13, Monsters: []string{"m-1"}})

	resp = env.do(http.MethodGet, "/player", "tok-alice", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	p := decode[v1.Player](t, resp)
	require.Equal(t, 3, p.Level)
	require.Equal(t, []string{"m-1"}, p.Monsters)
}

func TestGetPlayer_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/player", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, apperrors.HttpMissingTokenError, decode[apperrors.ErrorResponse](t, resp).ErrorType)
}

func TestExperience_SingleLevelUpResetsExperience(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, &v1.Player{Username: "alice", Level: 1, MaxMonsters: 11, Monsters: []string{}})

	// threshold(1) = 55
	resp := env.do(http.MethodPut, "/player/experience", "tok-alice", v1.ExperienceRequest{Experience: 54})
	require.Equal(t, http.StatusOK, resp.Code)
	p := decode[v1.PlayerResponse](t, resp).Player
	require.Equal(t, 1, p.Level)
	require.Equal(t, 54, p.Experience)

	// Far past threshold(2) too, still a single level.
	resp = env.do(http.MethodPut, "/player/experience", "tok-alice", v1.ExperienceRequest{Experience: 500})
	require.Equal(t, http.StatusOK, resp.Code)
	p = decode[v1.PlayerResponse](t, resp).Player
	require.Equal(t, 2, p.Level)
	require.Zero(t, p.Experience)
	require.Equal(t, 12, p.MaxMonsters)
}

func TestExperience_GrantIDAppliesOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, &v1.Player{Username: "alice", Level: 1, MaxMonsters: 11, Monsters: []string{}})

	req := v1.ExperienceRequest{Experience: 7, GrantID: "battle-1:player"}
	for i := 0; i < 3; i++ {
		resp := env.do(http.MethodPut, "/player/experience", "tok-alice", req)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	p, err := env.store.GetPlayer(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, 7, p.Experience)
	require.Equal(t, []string{"battle-1:player"}, p.AppliedGrants)
}

func TestExperience_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, &v1.Player{Username: "alice", Level: 1, MaxMonsters: 11})

	for _, body := range []interface{}{
		v1.ExperienceRequest{Experience: 0},
		v1.ExperienceRequest{Experience: -5},
		map[string]interface{}{"experience": 5, "bonus": true},
	} {
		resp := env.do(http.MethodPut, "/player/experience", "tok-alice", body)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	}
}

func TestExperience_UnknownPlayer(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPut, "/player/experience", "tok-alice", v1.ExperienceRequest{Experience: 5})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddMonster(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, &v1.Player{Username: "alice", Level: 1, MaxMonsters: 11, Monsters: []string{}})
	env.monsters.EXPECT().
		GetMonster(mock.Anything, clients.Caller{Token: "tok-alice", Principal: "alice"}, "m-1").
		Return(&v1.Monster{ID: "m-1", Owner: "alice"}, nil).
		Twice()

	resp := env.do(http.MethodPost, "/player/monsters", "tok-alice", v1.AddMonsterRequest{MonsterID: "m-1"})
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, []string{"m-1"}, decode[v1.MonstersResponse](t, resp).Monsters)

	resp = env.do(http.MethodPost, "/player/monsters", "tok-alice", v1.AddMonsterRequest{MonsterID: "m-1"})
	require.Equal(t, http.StatusConflict, resp.Code)
	errResp := decode[apperrors.ErrorResponse](t, resp)
	require.Equal(t, msgAlreadyOwned, errResp.Message)
	require.Equal(t, apperrors.HttpAlreadyOwnedError, errResp.ErrorType)
}

func TestAddMonster_CapacityExceeded(t *testing.T) {
	env := newTestEnv(t)

	owned := make([]string, 11)
	for i := range owned {
		owned[i] = fmt.Sprintf("m-%d", i)
	}
	env.seed(t, &v1.Player{Username: "alice", Level: 1, MaxMonsters: 11, Monsters: owned})
	env.monsters.EXPECT().
		GetMonster(mock.Anything, mock.Anything, "m-new").
		Return(&v1.Monster{ID: "m-new", Owner: "alice"}, nil).
		Once()

	resp := env.do(http.MethodPost, "/player/monsters", "tok-alice", v1.AddMonsterRequest{MonsterID: "m-new"})
	require.Equal(t, http.StatusConflict, resp.Code)
	errResp := decode[apperrors.ErrorResponse](t, resp)
	require.Equal(t, msgInventoryFull, errResp.Message)
	require.Equal(t, apperrors.HttpConflictError, errResp.ErrorType)

	p, err := env.store.GetPlayer(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, p.Monsters, 11)
}

func TestAddMonster_VerificationFailures(t *testing.T) {
	tests := []struct {
		name       string
		monster    *v1.Monster
		err        error
		wantStatus int
	}{
		{
			name:       "unknown monster",
			err:        apperrors.NotFound("Monster not found"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "owned by someone else",
			monster:    &v1.Monster{ID: "m-1", Owner: "bob"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "monster service down",
			err:        apperrors.Upstream(errors.New("dial tcp: connection refused"), "monster service unreachable"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed(t, &v1.Player{Username: "alice", Level: 1, MaxMonsters: 11, Monsters: []string{}})
			env.monsters.EXPECT().GetMonster(mock.Anything, mock.Anything, "m-1").Return(tc.monster, tc.err).Once()

			resp := env.do(http.MethodPost, "/player/monsters", "tok-alice", v1.AddMonsterRequest{MonsterID: "m-1"})
			require.Equal(t, tc.wantStatus, resp.Code)

			p, err := env.store.GetPlayer(context.Background(), "alice")
			require.NoError(t, err)
			require.Empty(t, p.Monsters)
		})
	}
}

func TestAddMonster_OnBehalfOfWithServiceKey(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, &v1.Player{Username: "bob", Level: 1, MaxMonsters: 11, Monsters: []string{}})
	env.monsters.EXPECT().
		GetMonster(mock.Anything, clients.ServiceCaller("bob"), "m-9").
		Return(&v1.Monster{ID: "m-9", Owner: "bob"}, nil).
		Once()

	resp := env.doWithHeaders(http.MethodPost, "/player/monsters", map[string]string{
		server.HeaderAPIKey:     serviceKey,
		server.HeaderOnBehalfOf: "bob",
	}, v1.AddMonsterRequest{MonsterID: "m-9"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = env.doWithHeaders(http.MethodGet, "/player", map[string]string{
		server.HeaderAPIKey:     "wrong",
		server.HeaderOnBehalfOf: "bob",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRemoveMonster(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, &v1.Player{
		Username:    "alice",
		Level:       1,
		MaxMonsters: 11,
		Monsters:    []string{"m-1", "m-2", "m-3"},
		CreatedAt:   time.Now(),
	})

	resp := env.do(http.MethodDelete, "/player/monsters/m-2", "tok-alice", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, []string{"m-1", "m-3"}, decode[v1.MonstersResponse](t, resp).Monsters)

	resp = env.do(http.MethodDelete, "/player/monsters/m-2", "tok-alice", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	// bob has no player at all
	resp = env.do(http.MethodDelete, "/player/monsters/m-1", "tok-bob", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}
