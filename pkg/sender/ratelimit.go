package sender

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedSender paces requests to the wrapped sender.
type RateLimitedSender struct {
	next    Sender
	limiter *rate.Limiter
}

// NewRateLimitedSender allows perSecond requests per second on average
// with bursts of up to burst requests.
func NewRateLimitedSender(next Sender, perSecond float64, burst int) *RateLimitedSender {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Send waits for a token and then forwards. It returns an error without
// sending if ctx ends first.
func (s *RateLimitedSender) Send(ctx context.Context, payload []byte, url string) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return s.next.Send(ctx, payload, url)
}
