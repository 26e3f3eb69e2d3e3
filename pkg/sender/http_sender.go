package sender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/connecto-io/connecto-go/pkg/log"
)

// UserAgent identifies this library to the events endpoint.
const UserAgent = "connecto-go/" + Version

// maxResponseBytes bounds how much of a response body is read; the
// endpoint answers with a short acknowledgement.
const maxResponseBytes = 64 << 10

// HTTPSender implements Sender by POSTing the payload as application/json.
//
// A 2xx response whose body could be read counts as accepted. Any other
// status counts as refused. Network failures, timeouts and body read
// errors are returned as errors.
type HTTPSender struct {
	client  HTTPClient
	logger  log.Logger
	timeout atomic.Int64
}

// NewHTTPSender creates an HTTP sender. timeout bounds each request,
// connection and response included; zero disables it.
func NewHTTPSender(client HTTPClient, timeout time.Duration, logger log.Logger) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	s := &HTTPSender{client: client, logger: logger}
	s.timeout.Store(int64(timeout))
	return s
}

// SetTimeout changes the per-request timeout. It is safe to call while
// other goroutines are sending.
func (s *HTTPSender) SetTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

// Timeout returns the per-request timeout.
func (s *HTTPSender) Timeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// Send posts payload to url.
func (s *HTTPSender) Send(ctx context.Context, payload []byte, url string) (bool, error) {
	if d := s.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		s.logger.Debug("events endpoint refused payload",
			log.Int("status", resp.StatusCode),
			log.String("body", string(body)))
		return false, nil
	}
	return true, nil
}
