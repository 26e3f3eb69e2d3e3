package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"
)

type nullValue struct{}

func (nullValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Null is an explicit JSON null. Pass it as traits to send "traits": null.
var Null json.Marshaler = nullValue{}

// Builder produces track and identify messages for one write key.
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	writeKey string
	meta     Metadata
	now      func() time.Time
	newID    func() (string, error)
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMetadata overrides the provenance stamped on messages.
// Empty fields keep their defaults.
func WithMetadata(meta Metadata) BuilderOption {
	return func(b *Builder) {
		if meta.Channel != "" {
			b.meta.Channel = meta.Channel
		}
		if meta.LibraryName != "" {
			b.meta.LibraryName = meta.LibraryName
		}
		if meta.LibraryVersion != "" {
			b.meta.LibraryVersion = meta.LibraryVersion
		}
		if meta.TimeFormat != "" {
			b.meta.TimeFormat = meta.TimeFormat
		}
	}
}

// WithClock sets the time source used for sentAt.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator sets the message id source.
func WithIDGenerator(fn func() (string, error)) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// NewBuilder creates a Builder that stamps writeKey on every message.
func NewBuilder(writeKey string, opts ...BuilderOption) *Builder {
	b := &Builder{
		writeKey: writeKey,
		meta:     DefaultMetadata(),
		now:      time.Now,
		newID:    newUUID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WriteKey returns the write key stamped on messages.
func (b *Builder) WriteKey() string {
	return b.writeKey
}

// Event builds a track message.
//
// distinctID correlates the event with an actor; pass "" for an anonymous
// event. properties is deep copied, so the caller may keep mutating its
// map. A nil map is replaced by an empty one.
func (b *Builder) Event(distinctID, eventName string, properties map[string]any) (*Track, error) {
	s, err := b.scaffold(TypeTrack, distinctID)
	if err != nil {
		return nil, err
	}

	props, err := copyProperties(properties)
	if err != nil {
		return nil, fmt.Errorf("%w: properties: %w", ErrInvalidArgument, err)
	}

	return &Track{
		Scaffold:   s,
		Event:      eventName,
		Properties: props,
	}, nil
}

// Identify builds an identify message that overwrites the given traits on
// the actor's profile.
//
// traits may be any JSON-encodable value. nil, including a nil map, slice
// or pointer, is rejected with ErrInvalidArgument; use Null to send an
// explicit null. NaN, infinities and other values encoding/json refuses are
// rejected with ErrInvalidArgument.
func (b *Builder) Identify(distinctID string, traits any) (*Identify, error) {
	if isNil(traits) {
		return nil, fmt.Errorf("%w: traits must not be nil, use message.Null instead", ErrInvalidArgument)
	}

	raw, err := json.Marshal(traits)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot interpret traits as JSON: %w", ErrInvalidArgument, err)
	}

	s, err := b.scaffold(TypeIdentify, distinctID)
	if err != nil {
		return nil, err
	}

	return &Identify{
		Scaffold: s,
		Traits:   raw,
	}, nil
}

// isNil reports whether v is nil or a nil map, slice, pointer or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Set is Identify under the name callers usually give profile updates.
func (b *Builder) Set(distinctID string, traits any) (*Identify, error) {
	return b.Identify(distinctID, traits)
}

func (b *Builder) scaffold(t Type, distinctID string) (Scaffold, error) {
	id, err := b.newID()
	if err != nil {
		return Scaffold{}, fmt.Errorf("%w: message id: %w", ErrConstruction, err)
	}

	s := Scaffold{
		Kind:      t,
		MessageID: id,
		SentAt:    b.now().UTC().Format(b.meta.TimeFormat),
		WriteKey:  b.writeKey,
		Channel:   b.meta.Channel,
		Context: Context{
			Library: Library{
				Name:    b.meta.LibraryName,
				Version: b.meta.LibraryVersion,
			},
		},
	}
	if distinctID != "" {
		s.UserID = distinctID
		s.ProfileID = distinctID
	}
	return s, nil
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// copyProperties deep copies in through its JSON form.
func copyProperties(in map[string]any) (map[string]any, error) {
	if in == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(in))
	if err := decodeJSON(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as
// json.Number so that integers survive a copy unchanged.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after JSON value")
	}
	return nil
}
