// Package connecto sends analytics events and profile updates to the
// Connecto service.
//
// This root package re-exports the most common entry points of
// pkg/connecto, pkg/message and pkg/delivery:
//
//	client, err := connecto.New(connecto.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := connecto.NewBuilder("your-write-key")
//	d := connecto.NewDelivery()
//	m, _ := b.Event("user-42", "login", nil)
//	_ = d.Add(m)
//	if err := client.Deliver(ctx, d); err != nil {
//	    log.Fatal(err)
//	}
package connecto

import (
	"github.com/connecto-io/connecto-go/pkg/connecto"
	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/message"
)

// Client sends deliveries and queries segments.
type Client = connecto.Client

// Config holds the client configuration.
type Config = connecto.Config

// Option configures optional behavior of a Client.
type Option = connecto.Option

// New creates a client.
func New(cfg Config, opts ...Option) (*Client, error) {
	return connecto.New(cfg, opts...)
}

// DefaultConfig returns a Config pointing at the production service.
func DefaultConfig() Config {
	return connecto.DefaultConfig()
}

// NewBuilder creates a message builder for writeKey.
func NewBuilder(writeKey string, opts ...message.BuilderOption) *message.Builder {
	return message.NewBuilder(writeKey, opts...)
}

// NewDelivery creates an empty delivery.
func NewDelivery() *delivery.Delivery {
	return delivery.New()
}
