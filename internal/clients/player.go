package clients

import (
	"context"
	"net/http"
	"net/url"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
)

// PlayerAPI is the part of the player service other services depend on.
type PlayerAPI interface {
	CreatePlayer(ctx context.Context, caller Caller) (*v1.Player, error)
	AddExperience(ctx context.Context, caller Caller, amount int, grantID string) (*v1.Player, error)
	AddMonster(ctx context.Context, caller Caller, monsterID string) ([]string, error)
	RemoveMonster(ctx context.Context, caller Caller, monsterID string) ([]string, error)
}

type PlayerClient struct {
	baseClient
}

var _ PlayerAPI = (*PlayerClient)(nil)

func NewPlayerClient(baseURL, apiKey string, timeout time.Duration) *PlayerClient {
	return &PlayerClient{baseClient: newBaseClient("player", baseURL, apiKey, timeout)}
}

func (c *PlayerClient) CreatePlayer(ctx context.Context, caller Caller) (*v1.Player, error) {
	var p v1.Player
	if err := c.do(ctx, http.MethodPost, "/player", &caller, nil, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *PlayerClient) AddExperience(ctx context.Context, caller Caller, amount int, grantID string) (*v1.Player, error) {
	var resp v1.PlayerResponse
	req := v1.ExperienceRequest{Experience: amount, GrantID: grantID}
	if err := c.do(ctx, http.MethodPut, "/player/experience", &caller, req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Player, nil
}

func (c *PlayerClient) AddMonster(ctx context.Context, caller Caller, monsterID string) ([]string, error) {
	var resp v1.MonstersResponse
	req := v1.AddMonsterRequest{MonsterID: monsterID}
	if err := c.do(ctx, http.MethodPost, "/player/monsters", &caller, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return resp.Monsters, nil
}

func (c *PlayerClient) RemoveMonster(ctx context.Context, caller Caller, monsterID string) ([]string, error) {
	var resp v1.MonstersResponse
	path := "/player/monsters/" + url.PathEscape(monsterID)
	if err := c.do(ctx, http.MethodDelete, path, &caller, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Monsters, nil
}
