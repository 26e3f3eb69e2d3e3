// Package domain contains the transmission-side entities of connecto.
//
// It has no dependencies on infrastructure concerns (HTTP, logging) and
// holds only the batch aggregate and the errors a delivery can end with.
//
// # Entities
//
//   - [Batch]: a size-bounded, ordered slice of same-type messages sent in one request
//   - [ServerRejectionError]: the endpoint refused a batch
//   - [TransportError]: a batch could not be transmitted at all
package domain
