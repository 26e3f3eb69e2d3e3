package message

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 9, 17, 45, 31, 0, time.FixedZone("CET", 3600))

func newTestBuilder() *Builder {
	return NewBuilder("a token",
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() (string, error) { return "id-1", nil }),
	)
}

func TestBuilder_Event(t *testing.T) {
	b := newTestBuilder()

	m, err := b.Event("u1", "login", map[string]any{"k": "v"})
	require.NoError(t, err)

	assert.Equal(t, TypeTrack, m.Type())
	assert.Equal(t, "login", m.Event)
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, "u1", m.ProfileID)
	assert.Equal(t, map[string]any{"k": "v"}, m.Properties)
	assert.Equal(t, "id-1", m.MessageID)
	assert.Equal(t, "a token", m.WriteKey)
	assert.Equal(t, "2024-03-09T16:45Z", m.SentAt)
	assert.Equal(t, "Go", m.Channel)
	assert.Equal(t, Library{Name: "connecto-go", Version: Version}, m.Context.Library)
	assert.True(t, IsValid(m))
}

func TestBuilder_EventNilProperties(t *testing.T) {
	m, err := newTestBuilder().Event("a distinct id", "empty event", nil)
	require.NoError(t, err)

	require.NotNil(t, m.Properties)
	assert.Empty(t, m.Properties)
	assert.True(t, IsValid(m))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"properties":{}`)
}

func TestBuilder_EventAnonymous(t *testing.T) {
	m, err := newTestBuilder().Event("", "page view", nil)
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "userId")
	assert.NotContains(t, string(data), "profileId")
}

func TestBuilder_EventDeepCopiesProperties(t *testing.T) {
	nested := map[string]any{"color": "red"}
	props := map[string]any{"item": nested, "count": 3}

	m, err := newTestBuilder().Event("u1", "Add to Cart", props)
	require.NoError(t, err)

	nested["color"] = "blue"
	props["count"] = 4
	props["extra"] = true

	assert.Equal(t, json.Number("3"), m.Properties["count"])
	assert.Equal(t, map[string]any{"color": "red"}, m.Properties["item"])
	assert.NotContains(t, m.Properties, "extra")
}

func TestBuilder_EventUnencodableProperties(t *testing.T) {
	_, err := newTestBuilder().Event("u1", "login", map[string]any{"ratio": math.NaN()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuilder_IdentifyTraits(t *testing.T) {
	tests := []struct {
		name   string
		traits any
		want   string
	}{
		{name: "object", traits: map[string]any{"Company": "Uneeda Medical Supply"}, want: `{"Company":"Uneeda Medical Supply"}`},
		{name: "empty object", traits: map[string]any{}, want: `{}`},
		{name: "array", traits: []any{"a", 1}, want: `["a",1]`},
		{name: "primitive", traits: "gold", want: `"gold"`},
		{name: "explicit null", traits: Null, want: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newTestBuilder().Identify("id", tt.traits)
			require.NoError(t, err)
			assert.Equal(t, TypeIdentify, m.Type())
			assert.JSONEq(t, tt.want, string(m.Traits))
			assert.True(t, IsValid(m))
		})
	}
}

func TestBuilder_IdentifyBadArguments(t *testing.T) {
	tests := []struct {
		name   string
		traits any
	}{
		{name: "nil", traits: nil},
		{name: "nil map", traits: map[string]any(nil)},
		{name: "nil slice", traits: []any(nil)},
		{name: "nil pointer", traits: (*struct{ Name string })(nil)},
		{name: "NaN", traits: math.NaN()},
		{name: "negative infinity", traits: math.Inf(-1)},
		{name: "positive infinity", traits: math.Inf(1)},
		{name: "channel", traits: make(chan int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newTestBuilder().Identify("id", tt.traits)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestBuilder_SetIsIdentify(t *testing.T) {
	traits := map[string]any{"Easter Eggs": "Hatched"}
	b := newTestBuilder()

	set, err := b.Set("ABCD", traits)
	require.NoError(t, err)
	identify, err := b.Identify("ABCD", traits)
	require.NoError(t, err)

	assert.Equal(t, identify, set)
	assert.Equal(t, "ABCD", set.UserID)
	assert.Equal(t, "ABCD", set.ProfileID)
}

func TestBuilder_IDFailure(t *testing.T) {
	b := NewBuilder("key", WithIDGenerator(func() (string, error) {
		return "", errors.New("entropy exhausted")
	}))

	_, err := b.Event("u1", "login", nil)
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = b.Identify("u1", Null)
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestBuilder_DefaultIDsAreUnique(t *testing.T) {
	b := NewBuilder("key")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m, err := b.Event("u1", "tick", nil)
		require.NoError(t, err)
		require.False(t, seen[m.MessageID], "duplicate id %s", m.MessageID)
		seen[m.MessageID] = true
	}
}

func TestBuilder_WithMetadata(t *testing.T) {
	b := NewBuilder("key", WithMetadata(Metadata{Channel: "JDK", LibraryVersion: "9.9"}))

	m, err := b.Identify("", map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "JDK", m.Channel)
	assert.Equal(t, "connecto-go", m.Context.Library.Name)
	assert.Equal(t, "9.9", m.Context.Library.Version)
}
