package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	WriteKey        string  `toml:"write_key"`
	ReadKey         string  `toml:"read_key"`
	EventsEndpoint  string  `toml:"events_endpoint"`
	RulesEndpoint   string  `toml:"rules_endpoint"`
	Timeout         string  `toml:"timeout"`
	MaxBatchSize    int     `toml:"max_batch_size"`
	RateLimit       float64 `toml:"rate_limit"`
	RateBurst       int     `toml:"rate_burst"`
	BreakerFailures int     `toml:"breaker_failures"`
	BreakerReset    string  `toml:"breaker_reset"`
	SpoolDir        string  `toml:"spool_dir"`
	SpoolAttempts   int     `toml:"spool_attempts"`
	LogLevel        string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.connecto/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".connecto", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("write-key", fc.WriteKey, &cfg.WriteKey)
	s.setString("read-key", fc.ReadKey, &cfg.ReadKey)
	s.setString("events-endpoint", fc.EventsEndpoint, &cfg.EventsEndpoint)
	s.setString("rules-endpoint", fc.RulesEndpoint, &cfg.RulesEndpoint)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("breaker-reset", fc.BreakerReset, &cfg.BreakerReset); err != nil {
		return err
	}

	s.setFloat("rate-limit", fc.RateLimit, &cfg.RateLimit)

	s.setInt("max-batch-size", fc.MaxBatchSize, &cfg.MaxBatchSize)
	s.setInt("rate-burst", fc.RateBurst, &cfg.RateBurst)
	s.setInt("breaker-failures", fc.BreakerFailures, &cfg.BreakerFailures)
	s.setInt("spool-attempts", fc.SpoolAttempts, &cfg.SpoolAttempts)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Load builds the effective configuration: defaults, then the file at
// path (if it exists), then CONNECTO_* environment variables, each layer
// skipping fields whose flag was set explicitly. Flag values must already
// be in cfg.
func Load(cfg *Config, path string, changed map[string]bool) error {
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return err
		}
		if err := ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}
	return ApplyEnvConfig(cfg, changed)
}
