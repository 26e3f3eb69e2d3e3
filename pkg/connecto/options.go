package connecto

import (
	"github.com/connecto-io/connecto-go/pkg/log"
	"github.com/connecto-io/connecto-go/pkg/message"
	"github.com/connecto-io/connecto-go/pkg/sender"
)

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	httpClient   sender.HTTPClient
	sender       sender.Sender
	logger       log.Logger
	destination  func(message.Type) string
	eventHandler EventHandler
	breaker      *sender.BreakerConfig
	rateLimit    *rateLimit
	metadata     *message.Metadata
}

type rateLimit struct {
	perSecond float64
	burst     int
}

// WithHTTPClient sets the HTTP client used for both endpoints.
// If not provided, http.DefaultClient is used; timeouts come from Config.
func WithHTTPClient(client sender.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSender replaces the HTTP transport for message batches. SetTimeout
// then only affects segment queries.
func WithSender(s sender.Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithLogger sets a structured logger. If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDestination routes batches of each message type to its own URL.
// By default every batch goes to Config.EventsEndpoint.
func WithDestination(fn func(t message.Type) string) Option {
	return func(o *options) {
		o.destination = fn
	}
}

// WithEventHandler sets a handler for batch events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithCircuitBreaker makes sends fail fast after repeated transport
// failures.
func WithCircuitBreaker(cfg sender.BreakerConfig) Option {
	return func(o *options) {
		o.breaker = &cfg
	}
}

// WithRateLimit paces batch requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = &rateLimit{perSecond: perSecond, burst: burst}
	}
}

// WithMetadata overrides the provenance stamped by Client.Builder.
func WithMetadata(meta message.Metadata) Option {
	return func(o *options) {
		o.metadata = &meta
	}
}
