package message

import "encoding/json"

// Type discriminates the message variants.
type Type string

const (
	// TypeTrack marks an event-occurrence record.
	TypeTrack Type = "track"

	// TypeIdentify marks a profile-attribute update record.
	TypeIdentify Type = "identify"
)

// Valid reports whether t is a known message type.
func (t Type) Valid() bool {
	return t == TypeTrack || t == TypeIdentify
}

func (t Type) String() string {
	return string(t)
}

// Message is a track or identify record. It is implemented by *Track and
// *Identify; any other implementation fails Validate.
type Message interface {
	// Type returns the discriminant carried by the record.
	Type() Type

	// Header returns the scaffold shared by every variant.
	Header() *Scaffold
}

// Library names the client library that produced a message.
type Library struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Context carries provenance metadata.
type Context struct {
	Library Library `json:"library"`
}

// Scaffold holds the fields common to every message.
type Scaffold struct {
	Kind      Type    `json:"type"`
	MessageID string  `json:"messageId"`
	SentAt    string  `json:"sentAt"`
	WriteKey  string  `json:"writeKey"`
	Channel   string  `json:"channel"`
	Context   Context `json:"context"`

	// UserID and ProfileID are both set to the distinct id, or both omitted.
	UserID    string `json:"userId,omitempty"`
	ProfileID string `json:"profileId,omitempty"`
}

// Type returns the message discriminant.
func (s *Scaffold) Type() Type {
	return s.Kind
}

// Header returns s.
func (s *Scaffold) Header() *Scaffold {
	return s
}

// DistinctID returns the actor id the message is correlated with, or ""
// when the message is anonymous.
func (s *Scaffold) DistinctID() string {
	return s.UserID
}

// Track records that an event happened to an actor.
type Track struct {
	Scaffold

	// Event is the human readable event name, e.g. "Viewed Dashboard".
	Event string `json:"event"`

	// Properties is a private deep copy of the caller's properties.
	// Numbers are held as json.Number.
	Properties map[string]any `json:"properties"`
}

// MarshalJSON encodes nil Properties as an empty object.
func (t Track) MarshalJSON() ([]byte, error) {
	type plain Track
	p := plain(t)
	if p.Properties == nil {
		p.Properties = map[string]any{}
	}
	return json.Marshal(p)
}

// Identify updates traits on an actor's profile.
type Identify struct {
	Scaffold

	// Traits is the encoded trait payload. It may be any JSON value,
	// including null.
	Traits json.RawMessage `json:"traits"`
}

// Metadata is the provenance stamped on every message a Builder produces.
type Metadata struct {
	Channel        string
	LibraryName    string
	LibraryVersion string

	// TimeFormat is the time.Format layout used for sentAt.
	TimeFormat string
}

// SentAtLayout formats sentAt as an ISO-8601 UTC timestamp with minute precision.
const SentAtLayout = "2006-01-02T15:04Z"

// DefaultMetadata returns the provenance used when none is configured.
func DefaultMetadata() Metadata {
	return Metadata{
		Channel:        "Go",
		LibraryName:    "connecto-go",
		LibraryVersion: Version,
		TimeFormat:     SentAtLayout,
	}
}
