package delivery

import "github.com/connecto-io/connecto-go/pkg/message"

// Delivery accumulates messages awaiting transmission, split by type and
// kept in insertion order within each type.
//
// A Delivery is not safe for concurrent Add calls. It may be delivered any
// number of times; each delivery sends every message it holds.
type Delivery struct {
	track    []message.Message
	identify []message.Message
}

// New creates an empty Delivery.
func New() *Delivery {
	return &Delivery{}
}

// Add appends m to the sequence of its type. It returns a
// *message.InvalidMessageError, and leaves the Delivery unchanged, when m
// is not a valid message.
func (d *Delivery) Add(m message.Message) error {
	if err := message.Validate(m); err != nil {
		return err
	}

	switch m.Type() {
	case message.TypeTrack:
		d.track = append(d.track, m)
	case message.TypeIdentify:
		d.identify = append(d.identify, m)
	}
	return nil
}

// AddJSON parses a message record and adds it.
func (d *Delivery) AddJSON(data []byte) error {
	m, err := message.Parse(data)
	if err != nil {
		return err
	}
	return d.Add(m)
}

// IsValid reports whether Add would accept m. It has no side effects.
func (d *Delivery) IsValid(m message.Message) bool {
	return message.IsValid(m)
}

// TrackMessages returns the track messages in insertion order.
func (d *Delivery) TrackMessages() []message.Message {
	return clone(d.track)
}

// IdentifyMessages returns the identify messages in insertion order.
func (d *Delivery) IdentifyMessages() []message.Message {
	return clone(d.identify)
}

// Messages returns the messages of type t in insertion order.
func (d *Delivery) Messages(t message.Type) []message.Message {
	switch t {
	case message.TypeTrack:
		return d.TrackMessages()
	case message.TypeIdentify:
		return d.IdentifyMessages()
	default:
		return nil
	}
}

// Len returns the total number of messages held.
func (d *Delivery) Len() int {
	return len(d.track) + len(d.identify)
}

// Empty returns true if the delivery holds no messages.
func (d *Delivery) Empty() bool {
	return d.Len() == 0
}

// Reset removes every message so the Delivery can be reused.
func (d *Delivery) Reset() {
	d.track = d.track[:0]
	d.identify = d.identify[:0]
}

func clone(msgs []message.Message) []message.Message {
	out := make([]message.Message, len(msgs))
	copy(out, msgs)
	return out
}
