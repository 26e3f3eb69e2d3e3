// Package message builds and validates Connecto messages.
//
// A message is either a track message (an event that happened to an
// actor) or an identify message (an update to an actor's profile traits).
// Both share a common scaffold carrying the message id, the send
// timestamp, the write key and provenance metadata.
//
// # Usage
//
// Build messages with a Builder bound to your write key:
//
//	b := message.NewBuilder("write-key")
//
//	login, err := b.Event("user-42", "login", map[string]any{"plan": "pro"})
//	if err != nil {
//	    return err
//	}
//
//	profile, err := b.Identify("user-42", map[string]any{"company": "Acme"})
//	if err != nil {
//	    return err
//	}
//
// To set a trait payload to JSON null, pass Null. A nil traits value is
// rejected with ErrInvalidArgument.
//
// # Validation
//
// Validate checks a message structurally. Records rebuilt from JSON with
// Parse are judged by the same rules as records produced by a Builder.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package message
