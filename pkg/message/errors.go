package message

import "errors"

// Errors returned by the message module. Check them with errors.Is.
var (
	// ErrInvalidMessage is returned when a record does not have the shape
	// of a track or identify message.
	ErrInvalidMessage = errors.New("connecto: invalid message")

	// ErrInvalidArgument is returned when a Builder receives an unusable input.
	ErrInvalidArgument = errors.New("connecto: invalid argument")

	// ErrConstruction is returned when a Builder fails for reasons unrelated
	// to its inputs. It should not happen in practice.
	ErrConstruction = errors.New("connecto: cannot construct message")
)

// InvalidMessageError reports a rejected record.
type InvalidMessageError struct {
	// Record is the rejected Message, or the raw JSON when the record
	// could not be parsed into one.
	Record any

	// Reason describes the first shape violation found.
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return "connecto: invalid message: " + e.Reason
}

// Unwrap makes errors.Is(err, ErrInvalidMessage) hold.
func (e *InvalidMessageError) Unwrap() error {
	return ErrInvalidMessage
}
