package summon

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
	"github.com/aevon-lab/monster-arena/internal/core/catalog"
	apperrors "github.com/aevon-lab/monster-arena/internal/core/errors"
	"github.com/aevon-lab/monster-arena/internal/core/storage/memory"
	clientmocks "github.com/aevon-lab/monster-arena/internal/mocks/clients"
	"github.com/aevon-lab/monster-arena/internal/outbox"
	"github.com/aevon-lab/monster-arena/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var aquarion = v1.Template{
	Name:    "Aquarion",
	Element: "water",
	HP:      1300,
	Atk:     400,
	Def:     350,
	Vit:     80,
	Skills: []v1.Skill{
		{Damage: 35, Ratio: v1.Ratio{Percent: 22, Stat: "def"}, Cooldown: 0, MaxLevel: 4},
	},
	LootRate: 1,
}

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
	players  *clientmocks.PlayerAPI
}

func newTestEnv(t *testing.T, templates ...v1.Template) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.New(templates)
	require.NoError(t, err)

	store := memory.NewStore()
	monsters := clientmocks.NewMonsterAPI(t)
	players := clientmocks.NewPlayerAPI(t)
	svc := NewService(cat, monsters, players, outbox.NewProcessor("summon", store, outbox.Options{}))

	r := gin.New()
	r.Use(server.RequirePrincipal(server.AuthConfig{Validator: tokens{"tok-alice": "alice"}}))
	svc.RegisterRoutes(r)

	return &testEnv{router: r, store: store, monsters: monsters, players: players}
}

func (e *testEnv) post(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(nil))
	req.Header.Set(server.HeaderAuthorization, "Bearer tok-alice")
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) pending(t *testing.T) []*v1.PendingOperation {
	t.Helper()
	ops, err := e.store.PendingOperations(context.Background(), "summon", outbox.DefaultMaxAttempts, farFuture, 100)
	require.NoError(t, err)
	return ops
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

var farFuture = time.Now().Add(24 * time.Hour)

var userCaller = clients.Caller{Token: "tok-alice", Principal: "alice"}

func forAlice(req *v1.CreateMonsterRequest) bool {
	return req.Owner == "alice" && req.AcquisitionID != "" && req.Element == "water" && req.HP == 1300
}

func TestSummon_CreatesAndAttaches(t *testing.T) {
	env := newTestEnv(t, aquarion)

	var acquisitionID string
	env.monsters.EXPECT().
		CreateMonster(mock.Anything, mock.MatchedBy(forAlice)).
		RunAndReturn(func(ctx context.Context, req *v1.CreateMonsterRequest) (string, error) {
			acquisitionID = req.AcquisitionID
			return req.AcquisitionID, nil
		}).
		Once()
	env.players.EXPECT().
		AddMonster(mock.Anything, userCaller, mock.Anything).
		Return([]string{"whatever"}, nil).
		Once()

	resp := env.post("/summon")
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, acquisitionID, decode[v1.SummonResponse](t, resp).MonsterID)
	require.Empty(t, env.pending(t))
}

func TestSummon_CreateFailureSkipsAttachAndQueuesRetry(t *testing.T) {
	env := newTestEnv(t, aquarion)
	env.monsters.EXPECT().
		CreateMonster(mock.Anything, mock.Anything).
		Return("", apperrors.Upstream(errors.New("connection refused"), "monster service unreachable")).
		Once()
	// No AddMonster expectation: any attach call fails the test.

	resp := env.post("/summon")
	require.Equal(t, http.StatusBadGateway, resp.Code)

	ops := env.pending(t)
	require.Len(t, ops, 1)
	require.Equal(t, KindCreateMonster, ops[0].Kind)
	require.Equal(t, "alice", ops[0].Principal)

	var payload createMonsterPayload
	require.NoError(t, json.Unmarshal(ops[0].Payload, &payload))
	require.NotEmpty(t, payload.AcquisitionID)
	require.Equal(t, "Aquarion", payload.Template.Name)
}

func TestSummon_AttachFailureLeavesOrphanAndQueuesRepair(t *testing.T) {
	env := newTestEnv(t, aquarion)
	env.monsters.EXPECT().CreateMonster(mock.Anything, mock.Anything).Return("m-orphan", nil).Once()
	env.players.EXPECT().
		AddMonster(mock.Anything, userCaller, "m-orphan").
		Return(nil, apperrors.Upstream(errors.New("timeout"), "player service unreachable")).
		Once()

	resp := env.post("/summon")
	require.Equal(t, http.StatusBadGateway, resp.Code)

	ops := env.pending(t)
	require.Len(t, ops, 1)
	require.Equal(t, KindAttachMonster, ops[0].Kind)
	require.JSONEq(t, `{"monster_id":"m-orphan"}`, string(ops[0].Payload))

	// The worker repairs the orphan on behalf of alice.
	env.players.EXPECT().
		AddMonster(mock.Anything, clients.ServiceCaller("alice"), "m-orphan").
		Return([]string{"m-orphan"}, nil).
		Once()

	resp = env.post("/replay")
	require.Equal(t, http.StatusOK, resp.Code)
	report := decode[v1.ReplayResponse](t, resp)
	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Succeeded)
	require.Empty(t, env.pending(t))
}

func TestSummon_CapacityExceededIsReportedAndQueued(t *testing.T) {
	env := newTestEnv(t, aquarion)
	env.monsters.EXPECT().CreateMonster(mock.Anything, mock.Anything).Return("m-1", nil).Once()
	env.players.EXPECT().
		AddMonster(mock.Anything, mock.Anything, "m-1").
		Return(nil, apperrors.Conflict("Maximum monster capacity reached")).
		Once()

	resp := env.post("/summon")
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Len(t, env.pending(t), 1)
}

func TestReplay_CreateRetryReusesAcquisitionID(t *testing.T) {
	env := newTestEnv(t, aquarion)

	var firstID string
	env.monsters.EXPECT().
		CreateMonster(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, req *v1.CreateMonsterRequest) (string, error) {
			firstID = req.AcquisitionID
			return "", apperrors.Upstream(errors.New("503"), "monster service call failed")
		}).
		Once()
	require.Equal(t, http.StatusBadGateway, env.post("/summon").Code)

	env.monsters.EXPECT().
		CreateMonster(mock.Anything, mock.MatchedBy(func(req *v1.CreateMonsterRequest) bool {
			return req.AcquisitionID == firstID && req.Owner == "alice"
		})).
		Return(firstID, nil).
		Once()
	// The attach already went through on an earlier attempt.
	env.players.EXPECT().
		AddMonster(mock.Anything, clients.ServiceCaller("alice"), mock.Anything).
		Return(nil, apperrors.Conflict("Monster already in inventory").WithCode(apperrors.HttpAlreadyOwnedError)).
		Once()

	resp := env.post("/replay")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, decode[v1.ReplayResponse](t, resp).Succeeded)
	require.Empty(t, env.pending(t))
}

func TestReplay_StillFailingStaysQueued(t *testing.T) {
	env := newTestEnv(t, aquarion)
	env.monsters.EXPECT().CreateMonster(mock.Anything, mock.Anything).Return("m-1", nil).Once()
	env.players.EXPECT().
		AddMonster(mock.Anything, mock.Anything, "m-1").
		Return(nil, apperrors.Conflict("Maximum monster capacity reached")).
		Twice()

	require.Equal(t, http.StatusConflict, env.post("/summon").Code)

	resp := env.post("/replay")
	require.Equal(t, http.StatusOK, resp.Code)
	report := decode[v1.ReplayResponse](t, resp)
	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Failed)

	ops := env.pending(t)
	require.Len(t, ops, 1)
	require.Equal(t, 1, ops[0].Attempts)
}

func TestSummon_EmptyCatalog(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/summon")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Equal(t, apperrors.HttpCatalogEmptyError, decode[apperrors.ErrorResponse](t, resp).ErrorType)
}

func TestSummon_RequiresToken(t *testing.T) {
	env := newTestEnv(t, aquarion)

	req := httptest.NewRequest(http.MethodPost, "/summon", nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
