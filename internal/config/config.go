package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures storage, paging, authentication and observability settings.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type StorageConfig struct {
	// SQLite database file. If empty, read from env SQLTWEET_DB
	DBPath string `yaml:"dbPath"`
}

type DisplayConfig struct {
	// Rows per batch for feeds, tweet search, user search and follower lists
	PageSize int `yaml:"pageSize"`
	// Rows per batch when browsing one author's tweets
	AuthorPageSize int `yaml:"authorPageSize"`
	// Recent tweets shown on a user's detail screen
	RecentTweets int `yaml:"recentTweets"`
}

type AuthConfig struct {
	// Failed logins allowed before returning to the start screen
	MaxAttempts int `yaml:"maxAttempts"`
	BcryptCost  int `yaml:"bcryptCost"`
	// Accept rows whose pwd column still holds a plaintext password and re-hash them
	LegacyPlaintext bool `yaml:"legacyPlaintext"`
	// Credential checks per second; 0 disables pacing
	AttemptsPerSecond float64 `yaml:"attemptsPerSecond"`
}

type LoggingConfig struct {
	// Log file; empty discards logs. Env SQLTWEET_LOG overrides
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug, info, warn, error
}

type MetricsConfig struct {
	// Listen address for /metrics, e.g. ":9090". Empty disables the endpoint
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{DBPath: ""},
		Display: DisplayConfig{PageSize: 5, AuthorPageSize: 3, RecentTweets: 3},
		Auth:    AuthConfig{MaxAttempts: 3, BcryptCost: 10, LegacyPlaintext: true},
		Logging: LoggingConfig{Path: "./sqltweet.log", Level: "info"},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = os.Getenv("SQLTWEET_DB")
	}
	if v := os.Getenv("SQLTWEET_LOG"); v != "" {
		c.Logging.Path = v
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("SQLTWEET_METRICS_ADDR")
	}
}

// Normalize replaces unusable zero values with defaults.
func (c *Config) Normalize() {
	d := Default()
	if c.Display.PageSize <= 0 {
		c.Display.PageSize = d.Display.PageSize
	}
	if c.Display.AuthorPageSize <= 0 {
		c.Display.AuthorPageSize = d.Display.AuthorPageSize
	}
	if c.Display.RecentTweets <= 0 {
		c.Display.RecentTweets = d.Display.RecentTweets
	}
	if c.Auth.MaxAttempts <= 0 {
		c.Auth.MaxAttempts = d.Auth.MaxAttempts
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = d.Auth.BcryptCost
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.ResolveEnv()
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	cfg.Normalize()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
