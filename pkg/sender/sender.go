package sender

import "github.com/connecto-io/connecto-go/internal/ports"

// Sender transmits one encoded batch and reports whether it was accepted.
// A non-nil error means the batch never reached the destination.
type Sender = ports.Sender

// Func adapts an ordinary function to the Sender interface.
type Func = ports.SenderFunc
