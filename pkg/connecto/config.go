package connecto

import (
	"fmt"
	"net/url"
	"time"

	"github.com/connecto-io/connecto-go/internal/app"
	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/pkg/segment"
)

// Default configuration values.
const (
	DefaultEventsEndpoint = "https://api.connecto.io/import"
	DefaultRulesEndpoint  = segment.DefaultEndpoint
	DefaultTimeout        = 120 * time.Second
	DefaultMaxBatchSize   = app.DefaultMaxBatchSize
)

// Config holds the client configuration.
type Config struct {
	// EventsEndpoint receives track and identify batches.
	EventsEndpoint string

	// RulesEndpoint is the segment query URL; the user id is appended.
	RulesEndpoint string

	// Timeout bounds each HTTP request. It can be changed later with
	// Client.SetTimeout.
	Timeout time.Duration

	// MaxBatchSize is the maximum number of messages per request.
	MaxBatchSize int
}

// DefaultConfig returns a Config pointing at the production service.
func DefaultConfig() Config {
	return Config{
		EventsEndpoint: DefaultEventsEndpoint,
		RulesEndpoint:  DefaultRulesEndpoint,
		Timeout:        DefaultTimeout,
		MaxBatchSize:   DefaultMaxBatchSize,
	}
}

// SetDefaults fills zero fields with their defaults.
func (c *Config) SetDefaults() {
	if c.EventsEndpoint == "" {
		c.EventsEndpoint = DefaultEventsEndpoint
	}
	if c.RulesEndpoint == "" {
		c.RulesEndpoint = DefaultRulesEndpoint
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validateEndpoint("events endpoint", c.EventsEndpoint); err != nil {
		return err
	}
	if err := validateEndpoint("rules endpoint", c.RulesEndpoint); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", domain.ErrInvalidConfig)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("%w: max batch size must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

func validateEndpoint(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidConfig, name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", domain.ErrInvalidConfig, name)
	}
	return nil
}
