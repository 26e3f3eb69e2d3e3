package domain

import "github.com/connecto-io/connecto-go/pkg/message"

// Batch is a contiguous run of same-type messages sent in one request.
type Batch struct {
	// Type is the message type shared by every message in the batch.
	Type message.Type

	// Index is the 0-based position of the batch among the batches of its type.
	Index int

	// Messages are in insertion order.
	Messages []message.Message
}

// NewBatch creates an empty batch for messages of type t.
func NewBatch(t message.Type, index int) *Batch {
	return &Batch{
		Type:     t,
		Index:    index,
		Messages: make([]message.Message, 0),
	}
}

// Add appends a message to the batch.
func (b *Batch) Add(m message.Message) {
	b.Messages = append(b.Messages, m)
}

// Size returns the number of messages in the batch.
func (b *Batch) Size() int {
	return len(b.Messages)
}

// Empty returns true if the batch has no messages.
func (b *Batch) Empty() bool {
	return len(b.Messages) == 0
}

// MessageIDs returns the ids of the batched messages, in order.
func (b *Batch) MessageIDs() []string {
	ids := make([]string, 0, len(b.Messages))
	for _, m := range b.Messages {
		ids = append(ids, m.Header().MessageID)
	}
	return ids
}

// Payload encodes the batch as the JSON array sent on the wire.
func (b *Batch) Payload() ([]byte, error) {
	return message.Marshal(b.Messages)
}
