package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/finanalysis/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Engine     EngineConfig     `yaml:"engine" mapstructure:"engine"`
	Benchmarks BenchmarksConfig `yaml:"benchmarks" mapstructure:"benchmarks"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// EngineConfig configures the analysis runner.
type EngineConfig struct {
	Parallelism        int    `yaml:"parallelism" mapstructure:"parallelism"`
	ProgressIntervalMs int    `yaml:"progress_interval_ms" mapstructure:"progress_interval_ms"`
	DefaultTier        string `yaml:"default_tier" mapstructure:"default_tier"`
	DefaultLanguage    string `yaml:"default_language" mapstructure:"default_language"`
}

// ProgressInterval returns the minimum spacing of persisted progress writes.
func (e EngineConfig) ProgressInterval() time.Duration {
	return time.Duration(e.ProgressIntervalMs) * time.Millisecond
}

// BenchmarksConfig configures the benchmark provider.
type BenchmarksConfig struct {
	SeedFile     string        `yaml:"seed_file" mapstructure:"seed_file"`
	CacheTTLSecs int           `yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
	RatePerSec   float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Retry        RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Circuit      CircuitConfig `yaml:"circuit" mapstructure:"circuit"`
}

// CacheTTL returns the benchmark cache lifetime.
func (b BenchmarksConfig) CacheTTL() time.Duration {
	return time.Duration(b.CacheTTLSecs) * time.Second
}

// RetryConfig configures retries of benchmark lookups.
type RetryConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	Jitter           float64 `yaml:"jitter" mapstructure:"jitter"`
}

// CircuitConfig configures the benchmark circuit breaker. A zero threshold
// disables it.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSec     float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst          int      `yaml:"burst" mapstructure:"burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// MonitoringConfig configures run health checks and alerting.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	StaleRunMins         int     `yaml:"stale_run_mins" mapstructure:"stale_run_mins"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	LookbackWindowHours  int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FINANALYSIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "finanalysis.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("engine.parallelism", 1)
	v.SetDefault("engine.progress_interval_ms", 250)
	v.SetDefault("engine.default_tier", string(model.TierComprehensive))
	v.SetDefault("engine.default_language", string(model.LanguageArabic))
	v.SetDefault("benchmarks.seed_file", "")
	v.SetDefault("benchmarks.cache_ttl_secs", 300)
	v.SetDefault("benchmarks.rate_per_sec", 50.0)
	v.SetDefault("benchmarks.retry.max_attempts", 3)
	v.SetDefault("benchmarks.retry.initial_backoff_ms", 200)
	v.SetDefault("benchmarks.retry.max_backoff_ms", 5000)
	v.SetDefault("benchmarks.retry.multiplier", 2.0)
	v.SetDefault("benchmarks.retry.jitter", 0.2)
	v.SetDefault("benchmarks.circuit.failure_threshold", 5)
	v.SetDefault("benchmarks.circuit.reset_timeout_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_sec", 5.0)
	v.SetDefault("server.burst", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("monitoring.failure_rate_threshold", 0.25)
	v.SetDefault("monitoring.stale_run_mins", 30)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.lookback_window_hours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

var validTiers = map[string]bool{
	string(model.TierBasic):         true,
	string(model.TierIntermediate):  true,
	string(model.TierAdvanced):      true,
	string(model.TierComprehensive): true,
}

// Validate checks the settings a command depends on. mode is one of
// "analyze", "serve" or "store".
func (c *Config) Validate(mode string) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		add("store.driver must be sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Store.DatabaseURL == "" {
		add("store.database_url is required")
	}

	switch mode {
	case "store":
	case "analyze", "serve":
		if !validTiers[c.Engine.DefaultTier] {
			add("engine.default_tier %q is not a known tier", c.Engine.DefaultTier)
		}
		if c.Engine.Parallelism < 1 || c.Engine.Parallelism > 64 {
			add("engine.parallelism must be between 1 and 64")
		}
		if c.Engine.ProgressIntervalMs < 0 {
			add("engine.progress_interval_ms must be >= 0")
		}
		if c.Benchmarks.Retry.Jitter < 0 || c.Benchmarks.Retry.Jitter > 1 {
			add("benchmarks.retry.jitter must be between 0 and 1")
		}
		if mode == "serve" {
			if c.Server.Port <= 0 {
				add("server.port must be > 0")
			}
			if c.Server.RatePerSec < 0 {
				add("server.rate_per_sec must be >= 0")
			}
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Wrap(errors.Join(errs...), "config: invalid")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
