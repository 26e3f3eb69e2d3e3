// Package log is the logging abstraction used by connecto.
//
// The client never writes to stdout or stderr on its own. Pass a Logger
// through connecto.WithLogger to see what Deliver is doing:
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//	client, err := connecto.New(cfg, connecto.WithLogger(logger))
//
// Any logging library can be plugged in by implementing Logger. The
// NoopLogger is the default.
package log
