package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable Load reads and points the XDG dirs at temp dirs.
func isolate(t *testing.T) (dataHome, configHome string) {
	t.Helper()
	for _, name := range plainEnv {
		t.Setenv(name, "")
	}
	for _, name := range []string{
		"BREWJOURNAL_SERVER_PORT",
		"BREWJOURNAL_SERVER_ALLOWED_ORIGINS",
		"BREWJOURNAL_STORAGE_BACKEND",
		"BREWJOURNAL_STORAGE_PATH",
		"BREWJOURNAL_STORAGE_DSN",
		"BREWJOURNAL_AUTOFILL_CACHE_TTL",
		"BREWJOURNAL_TRACING_ENABLED",
		"BREWJOURNAL_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
	dataHome = t.TempDir()
	configHome = t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	return dataHome, configHome
}

func TestLoad_Defaults(t *testing.T) {
	dataHome, _ := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:18910", cfg.Server.Addr())
	assert.Equal(t, "http://localhost:18910", cfg.Server.PublicURL)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dataHome, "brewjournal", "brewjournal.db"), cfg.Storage.Path)
	assert.Equal(t, DefaultModel, cfg.Autofill.Model)
	assert.Equal(t, DefaultCacheTTL, cfg.Autofill.CacheTTL)
	assert.False(t, cfg.Autofill.Enabled())
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, DefaultTracingEndpoint, cfg.Tracing.Endpoint)
	assert.Equal(t, time.Minute, cfg.Metrics.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  allowed_origins:
    - https://coffee.example
storage:
  backend: sqlite
  path: /var/lib/brewjournal/journal.sqlite
autofill:
  api_key: secret
  cache_ttl: 2h
tracing:
  enabled: true
`), 0o644))

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://coffee.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/brewjournal/journal.sqlite", cfg.Storage.Path)
	assert.True(t, cfg.Autofill.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.Autofill.CacheTTL)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoad_ConfigFileFromXDGConfigHome(t *testing.T) {
	_, configHome := isolate(t)

	dir := filepath.Join(configHome, "brewjournal")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brewjournal.yaml"), []byte("storage:\n  backend: memory\n"), 0o644))

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_PlainEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PUBLIC_URL", "https://journal.example")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "key", cfg.Autofill.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "https://journal.example", cfg.Server.PublicURL)
}

func TestLoad_PrefixedEnvironmentWins(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("BREWJOURNAL_SERVER_PORT", "7070")
	t.Setenv("BREWJOURNAL_STORAGE_BACKEND", "Memory")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_StorageErrors(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    error
	}{
		{"postgres without dsn", "postgres", ErrDSNRequired},
		{"unknown backend", "mongo", ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("BREWJOURNAL_STORAGE_BACKEND", tt.backend)

			_, err := Load(Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_SQLiteDefaultPath(t *testing.T) {
	dataHome, _ := isolate(t)
	t.Setenv("BREWJOURNAL_STORAGE_BACKEND", "sqlite")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataHome, "brewjournal", "brewjournal.sqlite"), cfg.Storage.Path)
}

func TestServerConfig_Origins(t *testing.T) {
	s := ServerConfig{
		PublicURL:      "https://journal.example/",
		AllowedOrigins: []string{"https://journal.example", " http://localhost:5173 ", ""},
	}
	assert.Equal(t, []string{"https://journal.example", "http://localhost:5173"}, s.Origins())
}
