package app

import (
	"context"
	"fmt"
	"time"

	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/internal/ports"
	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/log"
	"github.com/connecto-io/connecto-go/pkg/message"
)

// DefaultMaxBatchSize is the number of messages sent per request unless
// configured otherwise.
const DefaultMaxBatchSize = 50

// Destination returns the URL that batches of type t are posted to.
type Destination func(t message.Type) string

// BatchEmitter is notified after every batch send attempt.
type BatchEmitter interface {
	OnBatchSent(batch *domain.Batch, url string, duration time.Duration)
	OnBatchFailed(batch *domain.Batch, url string, err error)
}

// EngineConfig contains configuration for the transmission engine.
type EngineConfig struct {
	MaxBatchSize int
	Destination  Destination
}

// Engine sends the contents of a Delivery in size-bounded batches.
//
// All track batches are sent before any identify batch, each group in
// insertion order. The first refused or failed batch stops the delivery;
// batches already accepted stay accepted.
type Engine struct {
	config  EngineConfig
	sender  ports.Sender
	logger  log.Logger
	emitter BatchEmitter
}

// NewEngine creates an engine. A non-positive MaxBatchSize uses
// DefaultMaxBatchSize.
func NewEngine(config EngineConfig, sender ports.Sender, logger log.Logger, emitter BatchEmitter) *Engine {
	if config.MaxBatchSize < 1 {
		config.MaxBatchSize = DefaultMaxBatchSize
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Engine{
		config:  config,
		sender:  sender,
		logger:  logger,
		emitter: emitter,
	}
}

// MaxBatchSize returns the configured batch size.
func (e *Engine) MaxBatchSize() int {
	return e.config.MaxBatchSize
}

// Deliver transmits every message held by d. A nil or empty delivery
// sends nothing and succeeds.
//
// It returns a *domain.ServerRejectionError when the destination refuses a
// batch and a *domain.TransportError when a batch cannot be transmitted.
func (e *Engine) Deliver(ctx context.Context, d *delivery.Delivery) error {
	if d == nil || d.Empty() {
		return nil
	}

	for _, t := range []message.Type{message.TypeTrack, message.TypeIdentify} {
		url := e.config.Destination(t)
		for _, batch := range Chunk(t, d.Messages(t), e.config.MaxBatchSize) {
			if err := e.send(ctx, batch, url); err != nil {
				return err
			}
		}
	}
	return nil
}

// SendMessage delivers a single message, as if it were the only message of
// a delivery.
func (e *Engine) SendMessage(ctx context.Context, m message.Message) error {
	d := delivery.New()
	if err := d.Add(m); err != nil {
		return err
	}
	return e.Deliver(ctx, d)
}

func (e *Engine) send(ctx context.Context, batch *domain.Batch, url string) error {
	payload, err := batch.Payload()
	if err != nil {
		// Validated messages always encode.
		return e.fail(batch, url, &domain.TransportError{
			Batch: batch,
			URL:   url,
			Err:   fmt.Errorf("encode batch: %w", err),
		})
	}

	start := time.Now()
	accepted, err := e.sender.Send(ctx, payload, url)
	duration := time.Since(start)

	if err != nil {
		return e.fail(batch, url, &domain.TransportError{Batch: batch, URL: url, Err: err})
	}
	if !accepted {
		return e.fail(batch, url, &domain.ServerRejectionError{Batch: batch, URL: url})
	}

	e.logger.Debug("batch sent",
		log.String("type", batch.Type.String()),
		log.Int("index", batch.Index),
		log.Int("messages", batch.Size()),
		log.Int("bytes", len(payload)),
		log.Duration("duration", duration),
	)
	if e.emitter != nil {
		e.emitter.OnBatchSent(batch, url, duration)
	}
	return nil
}

func (e *Engine) fail(batch *domain.Batch, url string, err error) error {
	e.logger.Warn("batch not delivered",
		log.String("type", batch.Type.String()),
		log.Int("index", batch.Index),
		log.Int("messages", batch.Size()),
		log.Err(err),
	)
	if e.emitter != nil {
		e.emitter.OnBatchFailed(batch, url, err)
	}
	return err
}
