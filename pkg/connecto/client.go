package connecto

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/connecto-io/connecto-go/internal/app"
	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/log"
	"github.com/connecto-io/connecto-go/pkg/message"
	"github.com/connecto-io/connecto-go/pkg/segment"
	"github.com/connecto-io/connecto-go/pkg/sender"
)

// Client sends deliveries to Connecto and queries user segments.
// A Client is safe for concurrent use.
type Client struct {
	config   Config
	opts     options
	engine   *app.Engine
	http     *sender.HTTPSender
	segments *segment.Client
	logger   log.Logger
	timeout  atomic.Int64
}

// New creates a client. Zero Config fields take their defaults; an
// invalid configuration returns an error wrapping ErrInvalidConfig.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = http.DefaultClient
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.destination == nil {
		endpoint := cfg.EventsEndpoint
		o.destination = func(message.Type) string { return endpoint }
	}

	c := &Client{
		config:   cfg,
		opts:     o,
		logger:   o.logger,
		segments: segment.NewClient(o.httpClient, cfg.RulesEndpoint, cfg.Timeout, o.logger),
	}
	c.timeout.Store(int64(cfg.Timeout))

	s := o.sender
	if s == nil {
		c.http = sender.NewHTTPSender(o.httpClient, cfg.Timeout, o.logger)
		s = c.http
	}
	if o.rateLimit != nil {
		s = sender.NewRateLimitedSender(s, o.rateLimit.perSecond, o.rateLimit.burst)
	}
	if o.breaker != nil {
		s = sender.NewBreakerSender(s, *o.breaker, o.logger)
	}

	var emitter app.BatchEmitter
	if o.eventHandler != nil {
		emitter = batchEmitter{handler: o.eventHandler}
	}

	c.engine = app.NewEngine(app.EngineConfig{
		MaxBatchSize: cfg.MaxBatchSize,
		Destination:  o.destination,
	}, s, o.logger, emitter)

	return c, nil
}

// Deliver sends every message in d: all track messages, then all
// identify messages, in batches of at most MaxBatchSize. It stops at the
// first batch that fails, returning a *ServerRejectionError or a
// *TransportError that carries it. A nil or empty delivery sends nothing.
func (c *Client) Deliver(ctx context.Context, d *delivery.Delivery) error {
	return c.engine.Deliver(ctx, d)
}

// SendMessage delivers a single message. It returns an
// *InvalidMessageError without sending when m is not valid.
func (c *Client) SendMessage(ctx context.Context, m message.Message) error {
	return c.engine.SendMessage(ctx, m)
}

// Segments returns the segments userID belongs to, authenticating with
// readKey.
func (c *Client) Segments(ctx context.Context, readKey, userID string) (*segment.Response, error) {
	return c.segments.Get(ctx, readKey, userID)
}

// SetTimeout changes the per-request timeout for subsequent requests. It
// may be called while another goroutine is delivering.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout.Store(int64(d))
	if c.http != nil {
		c.http.SetTimeout(d)
	}
	c.segments.SetTimeout(d)
	c.logger.Debug("timeout updated", log.Duration("timeout", d))
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.timeout.Load())
}

// MaxBatchSize returns the number of messages sent per request.
func (c *Client) MaxBatchSize() int {
	return c.engine.MaxBatchSize()
}

// Config returns the configuration the client was created with. Timeout
// reflects the initial value; see Timeout for the current one.
func (c *Client) Config() Config {
	return c.config
}

// Builder returns a message builder for writeKey that stamps the
// client's metadata.
func (c *Client) Builder(writeKey string) *message.Builder {
	if c.opts.metadata != nil {
		return message.NewBuilder(writeKey, message.WithMetadata(*c.opts.metadata))
	}
	return message.NewBuilder(writeKey)
}

// validateModuleVersions checks that all module versions are compatible.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"message":  {message.Version, message.MinCompatibleVersion},
		"delivery": {delivery.Version, delivery.MinCompatibleVersion},
		"sender":   {sender.Version, sender.MinCompatibleVersion},
		"segment":  {segment.Version, segment.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible reports whether version >= minVersion, both in
// "major.minor.patch" form.
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
