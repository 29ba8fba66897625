package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/triage/internal/logging"
	"github.com/papapumpkin/triage/internal/scoring"
)

// ErrInvalidConfig wraps every problem reported by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// AnalysisConfig holds scoring and ranking settings.
type AnalysisConfig struct {
	DefaultStrategy    string `mapstructure:"default_strategy"`
	StrictDependencies bool   `mapstructure:"strict_dependencies"`
	SuggestLimit       int    `mapstructure:"suggest_limit"`
	// Timezone is an IANA zone name whose calendar date counts as today.
	Timezone string `mapstructure:"timezone"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelemetryConfig controls the JSONL event log. An empty Path disables it.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds all runtime configuration for triage.
// Values are populated from .triage.toml, TRIAGE_* env vars, and CLI flags.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// EnvPrefix is the prefix of environment variables that override config
// keys. Nested keys use underscores, e.g. TRIAGE_SERVER_ADDR.
const EnvPrefix = "TRIAGE"

// EnvKeyReplacer maps dotted config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// SetDefaults registers the built-in default of every key with viper.
func SetDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.max_body_bytes", 1<<20)
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("analysis.default_strategy", scoring.SmartBalance.String())
	viper.SetDefault("analysis.strict_dependencies", false)
	viper.SetDefault("analysis.suggest_limit", 3)
	viper.SetDefault("analysis.timezone", "Local")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", logging.FormatText)
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("telemetry.path", "")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. The result is
// validated.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting in c.
func (c Config) Validate() error {
	var errs []error
	bad := func(key, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...)))
	}

	if c.Server.Addr == "" {
		bad("server.addr", "must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		bad("server.read_timeout", "must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		bad("server.write_timeout", "must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		bad("server.shutdown_timeout", "must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		bad("server.max_body_bytes", "must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if _, ok := scoring.LookupStrategy(c.Analysis.DefaultStrategy); !ok {
		bad("analysis.default_strategy", "unknown strategy %q", c.Analysis.DefaultStrategy)
	}
	if c.Analysis.SuggestLimit <= 0 {
		bad("analysis.suggest_limit", "must be positive, got %d", c.Analysis.SuggestLimit)
	}
	if _, err := c.Location(); err != nil {
		bad("analysis.timezone", "%v", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		bad("log.level", "%v", err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		bad("log.format", "must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		bad("metrics.path", "must start with /, got %q", c.Metrics.Path)
	}

	return errors.Join(errs...)
}

// Location resolves Analysis.Timezone. An empty name means the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Analysis.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Analysis.Timezone)
}

// Strategy returns the configured default strategy.
func (c Config) Strategy() scoring.Strategy {
	return scoring.ParseStrategy(c.Analysis.DefaultStrategy)
}

// Clock returns the system clock for the configured time zone.
func (c Config) Clock() (scoring.Clock, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return scoring.SystemClock{Location: loc}, nil
}
