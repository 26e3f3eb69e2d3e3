package connecto

import (
	"errors"
	"time"

	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/pkg/message"
)

// EventHandler receives notifications about batch sends.
// Methods are called synchronously from Deliver and should return quickly.
type EventHandler interface {
	OnBatchSent(event BatchSentEvent)
	OnBatchFailed(event BatchFailedEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to
// handle only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnBatchSent(BatchSentEvent)     {}
func (BaseEventHandler) OnBatchFailed(BatchFailedEvent) {}

// BatchSentEvent describes an accepted batch.
type BatchSentEvent struct {
	Type         message.Type
	Index        int
	MessageCount int
	URL          string
	Duration     time.Duration
}

// BatchFailedEvent describes a batch that was refused or not transmitted.
type BatchFailedEvent struct {
	Type         message.Type
	Index        int
	MessageCount int
	URL          string
	Error        error

	// Rejected is true when the endpoint refused the batch, false when it
	// never reached the endpoint.
	Rejected bool
}

// batchEmitter adapts EventHandler to the engine's emitter.
type batchEmitter struct {
	handler EventHandler
}

func (e batchEmitter) OnBatchSent(b *domain.Batch, url string, d time.Duration) {
	e.handler.OnBatchSent(BatchSentEvent{
		Type:         b.Type,
		Index:        b.Index,
		MessageCount: b.Size(),
		URL:          url,
		Duration:     d,
	})
}

func (e batchEmitter) OnBatchFailed(b *domain.Batch, url string, err error) {
	e.handler.OnBatchFailed(BatchFailedEvent{
		Type:         b.Type,
		Index:        b.Index,
		MessageCount: b.Size(),
		URL:          url,
		Error:        err,
		Rejected:     errors.Is(err, domain.ErrServerRejection),
	})
}
