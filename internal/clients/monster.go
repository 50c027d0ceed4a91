package clients

import (
	"context"
	"net/http"
	"net/url"
	"time"

	v1 "github.com/aevon-lab/monster-arena/internal/api/v1"
)

// MonsterAPI is the part of the monster service other services depend on.
type MonsterAPI interface {
	// CreateMonster is a privileged call authenticated by the service key.
	CreateMonster(ctx context.Context, req *v1.CreateMonsterRequest) (string, error)
	GetMonster(ctx context.Context, caller Caller, id string) (*v1.Monster, error)
	AddExperience(ctx context.Context, caller Caller, id string, amount int, grantID string) (*v1.Monster, error)
}

type MonsterClient struct {
	baseClient
}

var _ MonsterAPI = (*MonsterClient)(nil)

func NewMonsterClient(baseURL, apiKey string, timeout time.Duration) *MonsterClient {
	return &MonsterClient{baseClient: newBaseClient("monster", baseURL, apiKey, timeout)}
}

func (c *MonsterClient) CreateMonster(ctx context.Context, req *v1.CreateMonsterRequest) (string, error) {
	var resp v1.CreateMonsterResponse
	if err := c.do(ctx, http.MethodPost, "/monsters", nil, req, &resp, http.StatusCreated); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *MonsterClient) GetMonster(ctx context.Context, caller Caller, id string) (*v1.Monster, error) {
	var m v1.Monster
	if err := c.do(ctx, http.MethodGet, "/monsters/"+url.PathEscape(id), &caller, nil, &m, http.StatusOK); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *MonsterClient) AddExperience(ctx context.Context, caller Caller, id string, amount int, grantID string) (*v1.Monster, error) {
	var resp v1.MonsterResponse
	path := "/monsters/" + url.PathEscape(id) + "/experience"
	req := v1.ExperienceRequest{Experience: amount, GrantID: grantID}
	if err := c.do(ctx, http.MethodPut, path, &caller, req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Monster, nil
}
