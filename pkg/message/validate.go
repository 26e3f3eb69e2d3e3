package message

import (
	"encoding/json"
	"fmt"
)

// Validate checks m structurally: the type must be track or identify, it
// must agree with the concrete variant, and the variant's required field
// must be present. It returns an *InvalidMessageError on failure.
func Validate(m Message) error {
	reason := violation(m)
	if reason == "" {
		return nil
	}
	return &InvalidMessageError{Record: m, Reason: reason}
}

// IsValid reports whether Validate(m) succeeds.
func IsValid(m Message) bool {
	return violation(m) == ""
}

func violation(m Message) string {
	switch v := m.(type) {
	case nil:
		return "message is nil"
	case *Track:
		if v == nil {
			return "message is nil"
		}
		if v.Kind != TypeTrack {
			return fmt.Sprintf("track record has type %q", v.Kind)
		}
		if v.Event == "" {
			return "track message has no event"
		}
	case *Identify:
		if v == nil {
			return "message is nil"
		}
		if v.Kind != TypeIdentify {
			return fmt.Sprintf("identify record has type %q", v.Kind)
		}
		if len(v.Traits) == 0 {
			return "identify message has no traits"
		}
		if !json.Valid(v.Traits) {
			return "identify traits are not valid JSON"
		}
	default:
		return fmt.Sprintf("unsupported message variant %T", m)
	}
	return ""
}
