package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.Database.Type)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 5*time.Second, cfg.Services.Timeout)
	require.Equal(t, 30*time.Second, cfg.Outbox.Interval)
	require.Equal(t, 1000, cfg.Battle.MaxRounds)
	require.Equal(t, "0.0.0.0:5003", cfg.Addr(ServiceSummon))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  host: "127.0.0.1"
database:
  type: "memory"
auth:
  token_store: "memory"
  token_ttl: "15m"
services:
  api_key: "s3cret"
outbox:
  max_attempts: 3
  interval: "5s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Database.Type)
	require.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	require.Equal(t, "s3cret", cfg.Services.APIKey)
	require.Equal(t, 3, cfg.Outbox.MaxAttempts)
	require.Equal(t, "127.0.0.1:9000", cfg.Addr(ServiceBattle))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
outbox:
  batch_size: 10
`)
	t.Setenv("ARENA_OUTBOX__BATCH_SIZE", "25")
	t.Setenv("ARENA_SERVICES__PLAYER", "http://player:5001")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 25, cfg.Outbox.BatchSize)
	require.Equal(t, "http://player:5001", cfg.Services.Player)
}

func TestLoad_InvalidConfigFailsStartup(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "port", body: "server:\n  port: -1\n", wantErr: "invalid server.port"},
		{name: "database type", body: "database:\n  type: mongo\n", wantErr: "unsupported database.type"},
		{name: "token store", body: "auth:\n  token_store: file\n", wantErr: "unsupported auth.token_store"},
		{name: "bcrypt cost", body: "auth:\n  bcrypt_cost: 2\n", wantErr: "invalid auth.bcrypt_cost"},
		{name: "service url", body: "services:\n  monster: \"monster:5002\"\n", wantErr: "invalid services.monster URL"},
		{name: "api key", body: "services:\n  api_key: \"\"\n", wantErr: "services.api_key is required"},
		{name: "max rounds", body: "battle:\n  max_rounds: 0\n", wantErr: "battle.max_rounds must be > 0"},
		{name: "outbox attempts", body: "outbox:\n  max_attempts: 0\n", wantErr: "outbox.max_attempts must be > 0"},
		{name: "log format", body: "log:\n  format: xml\n", wantErr: "invalid log.format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to load config file")
}
