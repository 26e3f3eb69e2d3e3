package sender

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/connecto-io/connecto-go/pkg/log"
)

// BreakerConfig configures a BreakerSender.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive transport failures
	// that opens the circuit.
	FailureThreshold uint32

	// ResetTimeout is how long the circuit stays open before a single
	// probe request is let through.
	ResetTimeout time.Duration
}

// DefaultBreakerConfig opens after 5 consecutive failures for 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
	}
}

// BreakerSender fails fast while the destination is unreachable.
//
// Only transport errors count as failures; a refused batch proves the
// destination is up. While the circuit is open Send returns
// gobreaker.ErrOpenState without calling the wrapped sender.
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSender wraps next with a circuit breaker.
func NewBreakerSender(next Sender, cfg BreakerConfig, logger log.Logger) *BreakerSender {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = def.ResetTimeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "connecto-events",
		MaxRequests: 1,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				log.String("breaker", name),
				log.String("from", from.String()),
				log.String("to", to.String()))
		},
	})
	return &BreakerSender{next: next, cb: cb}
}

// Send forwards to the wrapped sender unless the circuit is open.
func (b *BreakerSender) Send(ctx context.Context, payload []byte, url string) (bool, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Send(ctx, payload, url)
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// State returns the current circuit state.
func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}
