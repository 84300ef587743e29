package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stash/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Load with no config files should use defaults
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8083, cfg.Server.Port)
	assert.Equal(t, int64(10485760), cfg.Server.MaxUploadSize)
	assert.Equal(t, 10, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 120, cfg.Server.IdleTimeout)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.Empty(t, cfg.Auth.Token)
	assert.Empty(t, cfg.Auth.File)
	assert.True(t, cfg.Paste.Enabled)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
env: production
server:
  port: 8080
  max_upload_size: 1024
  read_header_timeout: 5
  idle_timeout: 60
storage:
  path: /tmp/storage
auth:
  token: from-file-config
  token_file: /run/secrets/stash_token
paste:
  enabled: false
log:
  level: debug
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadSize)
	assert.Equal(t, 5, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 60, cfg.Server.IdleTimeout)
	assert.Equal(t, "/tmp/storage", cfg.Storage.Path)
	assert.Equal(t, "from-file-config", cfg.Auth.Token)
	assert.Equal(t, "/run/secrets/stash_token", cfg.Auth.File)
	assert.False(t, cfg.Paste.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	basePath := writeConfig(t, "base.yaml", `
server:
  port: 8080
storage:
  path: /base/storage
log:
  level: info
`)
	overridePath := writeConfig(t, "override.yaml", `
server:
  port: 9090
log:
  level: debug
`)

	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "override should win")
	assert.Equal(t, "/base/storage", cfg.Storage.Path, "base value should be kept")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "port too large",
			content: "server:\n  port: 70000\n",
		},
		{
			name:    "negative upload size",
			content: "server:\n  max_upload_size: -1\n",
		},
		{
			name:    "unknown log level",
			content: "log:\n  level: verbose\n",
		},
		{
			name:    "unknown env",
			content: "env: staging\n",
		},
		{
			name:    "empty storage path",
			content: "storage:\n  path: \"\"\n",
		},
		{
			name:    "zero idle timeout",
			content: "server:\n  idle_timeout: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, "config.yaml", tt.content)

			_, err := config.Load([]string{configPath}, nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_ZeroUploadSizeDisablesCap(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", "server:\n  max_upload_size: 0\n")

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.Server.MaxUploadSize)
}

func TestLoad_WithCORS(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
    - https://app.example.com
  allowed_methods:
    - GET
    - POST
  allowed_headers:
    - Authorization
  allow_credentials: true
  max_age: 600
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Authorization"}, cfg.CORS.AllowedHeaders)
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("STASH_SERVER_PORT", "9090")
	t.Setenv("STASH_STORAGE_PATH", "/env/storage")
	t.Setenv("STASH_AUTH_TOKEN", "env-token")
	t.Setenv("STASH_PASTE_ENABLED", "false")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/env/storage", cfg.Storage.Path)
	assert.Equal(t, "env-token", cfg.Auth.Token)
	assert.False(t, cfg.Paste.Enabled)
}

func TestLoad_LegacyAuthToken(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "legacy")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Auth.Token)

	t.Setenv("STASH_AUTH_TOKEN", "prefixed")

	cfg, err = config.Load(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Auth.Token, "prefixed variable should win")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", "server:\n  port: 8080\n")
	t.Setenv("STASH_SERVER_PORT", "7070")

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_Flags(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", "server:\n  port: 8080\nstorage:\n  path: /file/storage\n")
	t.Setenv("STASH_SERVER_PORT", "7070")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("storage-path", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "6060"}))

	cfg, err := config.Load([]string{configPath}, flags)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Server.Port, "explicit flag should win over env")
	assert.Equal(t, "/file/storage", cfg.Storage.Path, "unset flag should not override")
	assert.Equal(t, "info", cfg.Log.Level, "unset flag should not override default")
}

func TestLoad_MissingConfigFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load([]string{"/nonexistent/config.yaml"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.Port)
}

func TestContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{Env: "test"}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
