// Package ports defines the interfaces that connect the transmission
// engine to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Sender]: hands one encoded batch to a destination and reports acceptance
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The engine (internal/app) depends only on these interfaces. Concrete
// implementations live in pkg/sender, which re-exports them for callers
// who want to plug in their own transport or a test double.
package ports
