package segment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/connecto-io/connecto-go/internal/ports"
	"github.com/connecto-io/connecto-go/pkg/log"
)

// DefaultEndpoint is the production rules endpoint. The user id is
// appended to it.
const DefaultEndpoint = "https://api.connecto.io/api/rules?userId="

// ErrRequestFailed is returned when the endpoint answers with a non-2xx status.
var ErrRequestFailed = errors.New("segment: request failed")

// StatusError carries the status of a failed request.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrRequestFailed, e.URL, e.StatusCode)
}

// Unwrap makes errors.Is(err, ErrRequestFailed) hold.
func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// Client fetches segments from the rules endpoint.
type Client struct {
	client   ports.HTTPClient
	endpoint string
	logger   log.Logger
	timeout  atomic.Int64
}

// NewClient creates a segment client. A nil client uses
// http.DefaultClient; an empty endpoint uses DefaultEndpoint.
func NewClient(client ports.HTTPClient, endpoint string, timeout time.Duration, logger log.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	c := &Client{client: client, endpoint: endpoint, logger: logger}
	c.timeout.Store(int64(timeout))
	return c
}

// SetTimeout changes the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout.Store(int64(d))
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.timeout.Load())
}

// Get returns the segments userID belongs to.
//
// Transport failures and non-2xx statuses are returned as errors. A 2xx
// body that is not a segment list is logged and reported as a Response
// with Available false.
func (c *Client) Get(ctx context.Context, readKey, userID string) (*Response, error) {
	if d := c.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	target := c.endpoint + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", AuthorizationHeader(readKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target}
	}

	segments, err := parse(body)
	if err != nil {
		c.logger.Warn("unreadable segment response",
			log.String("user_id", userID),
			log.Err(err))
		return &Response{}, nil
	}
	return &Response{Available: true, Segments: segments}, nil
}

// AuthorizationHeader returns the Basic authorization value for readKey.
func AuthorizationHeader(readKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(readKey))
}
