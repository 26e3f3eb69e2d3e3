package app

import (
	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/pkg/message"
)

// Chunk splits msgs into consecutive batches of at most size messages,
// preserving order. The last batch holds the remainder. No batch is
// empty, so an empty input yields no batches. A non-positive size puts
// every message in one batch. Every message is assumed to be of type t.
func Chunk(t message.Type, msgs []message.Message, size int) []*domain.Batch {
	if len(msgs) == 0 {
		return nil
	}
	if size < 1 {
		size = len(msgs)
	}

	batches := make([]*domain.Batch, 0, (len(msgs)+size-1)/size)
	current := domain.NewBatch(t, 0)
	for _, m := range msgs {
		if current.Size() == size {
			batches = append(batches, current)
			current = domain.NewBatch(t, len(batches))
		}
		current.Add(m)
	}
	return append(batches, current)
}
