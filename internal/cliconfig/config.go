package cliconfig

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/connecto-io/connecto-go/pkg/connecto"
	"github.com/connecto-io/connecto-go/pkg/log"
	"github.com/connecto-io/connecto-go/pkg/sender"
)

// Errors for missing credentials.
var (
	ErrMissingWriteKey = errors.New("write-key is required")
	ErrMissingReadKey  = errors.New("read-key is required")
)

// Config holds CLI configuration for connecto.
type Config struct {
	WriteKey string
	ReadKey  string

	EventsEndpoint string
	RulesEndpoint  string
	Timeout        time.Duration
	MaxBatchSize   int

	// RateLimit caps batch requests per second; zero disables pacing.
	RateLimit float64
	RateBurst int

	// BreakerFailures opens the circuit after that many consecutive
	// transport failures; zero disables the breaker.
	BreakerFailures int
	BreakerReset    time.Duration

	SpoolDir      string
	SpoolAttempts int

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		EventsEndpoint: connecto.DefaultEventsEndpoint,
		RulesEndpoint:  connecto.DefaultRulesEndpoint,
		Timeout:        connecto.DefaultTimeout,
		MaxBatchSize:   connecto.DefaultMaxBatchSize,
		RateBurst:      1,
		BreakerReset:   30 * time.Second,
		SpoolAttempts:  5,
		LogLevel:       "info",
	}
}

// Validate checks the settings shared by every command. Credentials are
// checked per command with RequireWriteKey and RequireReadKey.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("max batch size must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.BreakerFailures < 0 {
		return fmt.Errorf("breaker failures must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	client := c.ClientConfig()
	return client.Validate()
}

// RequireWriteKey returns ErrMissingWriteKey if no write key is set.
func (c *Config) RequireWriteKey() error {
	if c.WriteKey == "" {
		return ErrMissingWriteKey
	}
	return nil
}

// RequireReadKey returns ErrMissingReadKey if no read key is set.
func (c *Config) RequireReadKey() error {
	if c.ReadKey == "" {
		return ErrMissingReadKey
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log-level: %w", err)
	}
	return lvl, nil
}

// ClientConfig returns the library configuration.
func (c *Config) ClientConfig() connecto.Config {
	return connecto.Config{
		EventsEndpoint: c.EventsEndpoint,
		RulesEndpoint:  c.RulesEndpoint,
		Timeout:        c.Timeout,
		MaxBatchSize:   c.MaxBatchSize,
	}
}

// ClientOptions returns the library options implied by the configuration.
func (c *Config) ClientOptions(logger log.Logger) []connecto.Option {
	opts := []connecto.Option{connecto.WithLogger(logger)}
	if c.RateLimit > 0 {
		opts = append(opts, connecto.WithRateLimit(c.RateLimit, c.RateBurst))
	}
	if c.BreakerFailures > 0 {
		opts = append(opts, connecto.WithCircuitBreaker(sender.BreakerConfig{
			FailureThreshold: uint32(c.BreakerFailures),
			ResetTimeout:     c.BreakerReset,
		}))
	}
	return opts
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if positive.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if positive.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}
