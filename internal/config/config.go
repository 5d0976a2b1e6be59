// Package config provides configuration loading and validation for the CLI, server and worker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (TALENT_MATCH_DATABASE_URL, TALENT_MATCH_CACHE_TTL, ...).
const EnvPrefix = "TALENT_MATCH"

// Cache backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the merged configuration from defaults, config file, environment and flags.
type Config struct {
	Port        int             `mapstructure:"port"`
	DatabaseURL string          `mapstructure:"database-url"`
	Cache       CacheConfig     `mapstructure:"cache"`
	AMQP        AMQPConfig      `mapstructure:"amqp"`
	Export      ExportConfig    `mapstructure:"export"`
	Scoring     ScoringConfig   `mapstructure:"scoring"`
	RateLimit   RateLimitConfig `mapstructure:"rate-limit"`
	Log         LogConfig       `mapstructure:"log"`
}

// CacheConfig configures the read-through score cache
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	SQLitePath string        `mapstructure:"sqlite-path"`
}

// AMQPConfig configures the candidate refresh consumer
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Queue    string `mapstructure:"queue"`
	Prefetch int    `mapstructure:"prefetch"`
	// Exchange receives score.refreshed notifications. Empty disables them.
	Exchange string `mapstructure:"exchange"`
}

// ExportConfig configures shortlist uploads to S3-compatible storage
type ExportConfig struct {
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
	Prefix   string `mapstructure:"prefix"`
	// Static credentials. When empty the default AWS credential chain is used.
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
}

// ScoringConfig configures batch scoring
type ScoringConfig struct {
	Workers int `mapstructure:"workers"`
	// CriteriaFile holds the criteria recomputed by the refresh worker. Empty means the neutral filter.
	CriteriaFile string `mapstructure:"criteria-file"`
}

// RateLimitConfig configures per-client HTTP rate limiting
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultLimit  int           `mapstructure:"default-limit"`
	DefaultWindow time.Duration `mapstructure:"default-window"`
	Whitelist     []string      `mapstructure:"whitelist"`
	Blacklist     []string      `mapstructure:"blacklist"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database-url", "")
	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.sqlite-path", "talent-match.db")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.queue", "candidate.updated")
	v.SetDefault("amqp.prefetch", 10)
	v.SetDefault("amqp.exchange", "")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.region", "eu-central-1")
	v.SetDefault("export.prefix", "shortlists")
	v.SetDefault("export.access-key", "")
	v.SetDefault("export.secret-key", "")
	v.SetDefault("scoring.workers", 0)
	v.SetDefault("scoring.criteria-file", "")
	v.SetDefault("rate-limit.enabled", true)
	v.SetDefault("rate-limit.default-limit", 1000)
	v.SetDefault("rate-limit.default-window", "1m")
	v.SetDefault("rate-limit.whitelist", []string{})
	v.SetDefault("rate-limit.blacklist", []string{})
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// NewViper returns a viper instance with defaults and environment overrides registered.
// Callers may bind command flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from an optional file (yaml or json) plus environment overrides.
func LoadConfig(path string) (*Config, error) {
	return Load(NewViper(), path)
}

// Load reads the optional config file into v and decodes the merged settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config error: 'cache.ttl' must be positive")
	}
	if c.Scoring.Workers < 0 {
		return fmt.Errorf("config error: 'scoring.workers' must be non-negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'rate-limit.default-limit' and 'rate-limit.default-window' must be positive")
	}
	if c.AMQP.Prefetch < 0 {
		return fmt.Errorf("config error: 'amqp.prefetch' must be non-negative")
	}

	switch c.Cache.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Cache.SQLitePath == "" {
			return fmt.Errorf("config error: 'cache.sqlite-path' is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database-url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown cache backend %q", c.Cache.Backend)
	}

	if c.Export.Endpoint != "" && c.Export.Bucket == "" {
		return fmt.Errorf("config error: 'export.endpoint' requires 'export.bucket'")
	}

	if c.Scoring.CriteriaFile != "" {
		if _, err := os.Stat(c.Scoring.CriteriaFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: criteria file not found: %s", c.Scoring.CriteriaFile)
		}
	}

	return nil
}
