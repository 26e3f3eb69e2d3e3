package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent the ways a delivery can fail.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrServerRejection is returned when the endpoint refuses a batch.
	ErrServerRejection = errors.New("connecto: server refused to accept messages, they may be malformed")

	// ErrTransport is returned when a batch could not be transmitted.
	ErrTransport = errors.New("connecto: transport failure")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("connecto: invalid configuration")

	// ErrAlreadyRunning is returned when starting a spooler that is running.
	ErrAlreadyRunning = errors.New("connecto: spooler already running")

	// ErrNotRunning is returned when stopping a spooler that is not running.
	ErrNotRunning = errors.New("connecto: spooler not running")

	// ErrShutdownTimeout is returned when in-flight spool files do not
	// finish before the shutdown deadline.
	ErrShutdownTimeout = errors.New("connecto: shutdown timeout exceeded")
)

// ServerRejectionError carries the batch the endpoint refused. Batches
// sent before it were accepted and are not rolled back; batches after it
// were not attempted.
type ServerRejectionError struct {
	Batch *Batch
	URL   string
}

func (e *ServerRejectionError) Error() string {
	return fmt.Sprintf("%s (%s batch %d, %d messages, %s)",
		ErrServerRejection, e.Batch.Type, e.Batch.Index, e.Batch.Size(), e.URL)
}

// Unwrap makes errors.Is(err, ErrServerRejection) hold.
func (e *ServerRejectionError) Unwrap() error {
	return ErrServerRejection
}

// TransportError carries the batch that could not be transmitted and the
// underlying network error.
type TransportError struct {
	Batch *Batch
	URL   string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s batch %d, %s): %v",
		ErrTransport, e.Batch.Type, e.Batch.Index, e.URL, e.Err)
}

// Unwrap returns both ErrTransport and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
