// Package sender transmits encoded message batches.
//
// A Sender receives one JSON array payload and a destination URL, and
// reports whether the destination accepted it. The HTTPSender posts the
// payload to the Connecto events endpoint. Decorators add behavior around
// any Sender without the engine knowing about it:
//
//	var s sender.Sender = sender.NewHTTPSender(http.DefaultClient, 2*time.Minute, logger)
//	s = sender.NewRateLimitedSender(s, 5, 1)
//	s = sender.NewBreakerSender(s, sender.DefaultBreakerConfig(), logger)
//
// # Custom Senders
//
// Implement Sender, or wrap a function with Func, to send to alternative
// destinations or to record payloads in tests.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package sender
