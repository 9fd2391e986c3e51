package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "finanalysis.db", cfg.Store.DatabaseURL)
	assert.EqualValues(t, 10, cfg.Store.MaxConns)
	assert.Equal(t, 1, cfg.Engine.Parallelism)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.ProgressInterval())
	assert.Equal(t, "comprehensive", cfg.Engine.DefaultTier)
	assert.Equal(t, "ar", cfg.Engine.DefaultLanguage)
	assert.Equal(t, 5*time.Minute, cfg.Benchmarks.CacheTTL())
	assert.Equal(t, 3, cfg.Benchmarks.Retry.MaxAttempts)
	assert.InDelta(t, 2.0, cfg.Benchmarks.Retry.Multiplier, 0.001)
	assert.Equal(t, 5, cfg.Benchmarks.Circuit.FailureThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.InDelta(t, 0.25, cfg.Monitoring.FailureRateThreshold, 0.001)
	assert.Equal(t, 30, cfg.Monitoring.StaleRunMins)
	assert.Equal(t, 24, cfg.Monitoring.LookbackWindowHours)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/fin
engine:
  parallelism: 4
  default_tier: basic
benchmarks:
  seed_file: seeds/benchmarks.yaml
  retry:
    max_attempts: 5
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/fin", cfg.Store.DatabaseURL)
	assert.Equal(t, 4, cfg.Engine.Parallelism)
	assert.Equal(t, "basic", cfg.Engine.DefaultTier)
	assert.Equal(t, "seeds/benchmarks.yaml", cfg.Benchmarks.SeedFile)
	assert.Equal(t, 5, cfg.Benchmarks.Retry.MaxAttempts)
	assert.Equal(t, 200, cfg.Benchmarks.Retry.InitialBackoffMs, "defaults still apply")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0o644))

	t.Setenv("FINANALYSIS_LOG_LEVEL", "warn")
	t.Setenv("FINANALYSIS_ENGINE_PARALLELISM", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Engine.Parallelism)
}

func TestLoadBadFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [oops"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}

func validConfig() *Config {
	return &Config{
		Store:  StoreConfig{Driver: "sqlite", DatabaseURL: "fin.db"},
		Engine: EngineConfig{Parallelism: 1, DefaultTier: "comprehensive"},
		Server: ServerConfig{Port: 8080},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		mutate func(*Config)
		want   string
	}{
		{"ok analyze", "analyze", func(*Config) {}, ""},
		{"ok store", "store", func(c *Config) { c.Engine.DefaultTier = "" }, ""},
		{"bad driver", "store", func(c *Config) { c.Store.Driver = "mongo" }, "store.driver"},
		{"no url", "analyze", func(c *Config) { c.Store.DatabaseURL = "" }, "store.database_url is required"},
		{"bad tier", "analyze", func(c *Config) { c.Engine.DefaultTier = "premium" }, "engine.default_tier"},
		{"parallelism", "serve", func(c *Config) { c.Engine.Parallelism = 0 }, "engine.parallelism"},
		{"jitter", "analyze", func(c *Config) { c.Benchmarks.Retry.Jitter = 2 }, "jitter"},
		{"port", "serve", func(c *Config) { c.Server.Port = 0 }, "server.port must be > 0"},
		{"port ignored for analyze", "analyze", func(c *Config) { c.Server.Port = 0 }, ""},
		{"unknown mode", "geocode", func(*Config) {}, "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate(tt.mode)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Driver = ""
	cfg.Store.DatabaseURL = ""
	err := cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
	assert.Contains(t, err.Error(), "store.database_url")
}
