package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/message"
)

func newTestBuilder() *message.Builder {
	var mu sync.Mutex
	n := 0
	return message.NewBuilder("a token", message.WithIDGenerator(func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n), nil
	}))
}

func fillDelivery(t *testing.T, tracks, identifies int) *delivery.Delivery {
	t.Helper()
	b := newTestBuilder()
	d := delivery.New()
	for i := 0; i < tracks; i++ {
		m, err := b.Event("user", fmt.Sprintf("event-%d", i), nil)
		require.NoError(t, err)
		require.NoError(t, d.Add(m))
	}
	for i := 0; i < identifies; i++ {
		m, err := b.Set("user", map[string]any{"n": i})
		require.NoError(t, err)
		require.NoError(t, d.Add(m))
	}
	return d
}

type sentPayload struct {
	URL     string
	Records []map[string]any
}

// recordingSender records every payload and answers from a script.
type recordingSender struct {
	mu      sync.Mutex
	sent    []sentPayload
	answers []answer
}

type answer struct {
	accepted bool
	err      error
}

func (r *recordingSender) Send(ctx context.Context, payload []byte, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []map[string]any
	if err := json.Unmarshal(payload, &records); err != nil {
		return false, err
	}
	r.sent = append(r.sent, sentPayload{URL: url, Records: records})

	i := len(r.sent) - 1
	if i < len(r.answers) {
		return r.answers[i].accepted, r.answers[i].err
	}
	return true, nil
}

func (r *recordingSender) Sent() []sentPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentPayload(nil), r.sent...)
}

type recordingEmitter struct {
	sent   []*domain.Batch
	failed []*domain.Batch
	errs   []error
}

func (e *recordingEmitter) OnBatchSent(b *domain.Batch, url string, d time.Duration) {
	e.sent = append(e.sent, b)
}

func (e *recordingEmitter) OnBatchFailed(b *domain.Batch, url string, err error) {
	e.failed = append(e.failed, b)
	e.errs = append(e.errs, err)
}

func testDestination(t message.Type) string {
	return "http://test/" + string(t)
}
