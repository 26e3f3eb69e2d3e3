package ports

import "context"

// Sender transmits one encoded batch to a destination URL.
//
// Send blocks until the destination answers or the transport fails.
// accepted is false when the destination refused the payload. A non-nil
// error means the payload could not be transmitted (DNS, connection,
// timeout) and accepted is meaningless.
type Sender interface {
	Send(ctx context.Context, payload []byte, url string) (accepted bool, err error)
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(ctx context.Context, payload []byte, url string) (bool, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, payload []byte, url string) (bool, error) {
	return f(ctx, payload, url)
}
