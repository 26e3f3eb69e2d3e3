package connecto

import (
	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/pkg/message"
)

// Errors returned by the client. Check them with errors.Is.
var (
	ErrServerRejection = domain.ErrServerRejection
	ErrTransport       = domain.ErrTransport
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrInvalidMessage  = message.ErrInvalidMessage
	ErrInvalidArgument = message.ErrInvalidArgument
)

type (
	// Batch is a run of same-type messages sent in one request.
	Batch = domain.Batch

	// ServerRejectionError carries the batch the endpoint refused.
	ServerRejectionError = domain.ServerRejectionError

	// TransportError carries the batch that could not be transmitted.
	TransportError = domain.TransportError

	// InvalidMessageError carries a record that is not a valid message.
	InvalidMessageError = message.InvalidMessageError
)
