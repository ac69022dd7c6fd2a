package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://json:1","request_timeout":"3s"}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "http://json:1", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)

	env := func(k string) string {
		if k == "API_URL" {
			return "http://env:2"
		}
		return ""
	}
	cfg, err = LoadConfig([]string{"-config", path}, env)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.ServerURL)

	cfg, err = LoadConfig([]string{"-config", path, "-a", "http://flag:3", "-t", "7"}, env)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:3", cfg.ServerURL)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-unknown"}, noEnv)
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}, noEnv)
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, err = LoadConfig([]string{"-c", bad}, noEnv)
	require.Error(t, err)

	_, err = LoadConfig([]string{"-t", "0"}, noEnv)
	require.Error(t, err)
}
