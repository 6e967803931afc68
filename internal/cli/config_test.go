package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: https://api.ecocycle.test
token: tok-abc
user_id: user-42
store_path: /var/lib/ecocycle/pending.db
probe_interval: 5s
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.ecocycle.test", cfg.ServerURL)
	assert.Equal(t, "tok-abc", cfg.Token)
	assert.Equal(t, "user-42", cfg.UserID)
	assert.Equal(t, "/var/lib/ecocycle/pending.db", cfg.StorePath)
	assert.Equal(t, 5*time.Second, cfg.ProbeInterval)
}

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{UserID: "user-1"}
	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Contains(t, cfg.StorePath, ".ecocycle")
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval)
	assert.NoError(t, cfg.validate())
}

func TestValidateRequiresUserID(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.validate())
}
