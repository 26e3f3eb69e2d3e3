package delivery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecto-io/connecto-go/pkg/message"
)

var sampleProps = map[string]any{"prop key": "prop value", "ratio": "π"}

func TestDelivery_AddClassifies(t *testing.T) {
	b := message.NewBuilder("a token")
	d := New()

	event, err := b.Event("a distinct id", "login", sampleProps)
	require.NoError(t, err)
	set, err := b.Set("a distinct id", sampleProps)
	require.NoError(t, err)
	second, err := b.Event("a distinct id", "logout", nil)
	require.NoError(t, err)

	require.NoError(t, d.Add(event))
	require.NoError(t, d.Add(set))
	require.NoError(t, d.Add(second))

	assert.Equal(t, []message.Message{event, second}, d.TrackMessages())
	assert.Equal(t, []message.Message{set}, d.IdentifyMessages())
	assert.Equal(t, 3, d.Len())
	assert.False(t, d.Empty())
}

func TestDelivery_AddRejectsInvalid(t *testing.T) {
	d := New()
	bad := &message.Track{Scaffold: message.Scaffold{Kind: "alias"}, Event: "x"}

	err := d.Add(bad)
	require.ErrorIs(t, err, message.ErrInvalidMessage)

	var invalid *message.InvalidMessageError
	require.ErrorAs(t, err, &invalid)
	assert.Same(t, bad, invalid.Record)
	assert.True(t, d.Empty())

	require.ErrorIs(t, d.Add(nil), message.ErrInvalidMessage)
	assert.True(t, d.Empty())
}

func TestDelivery_AddJSON(t *testing.T) {
	b := message.NewBuilder("a token")
	event, err := b.Event("a distinct id", "login", sampleProps)
	require.NoError(t, err)

	rebuilt, err := json.Marshal(event)
	require.NoError(t, err)

	d := New()
	assert.Empty(t, d.TrackMessages())
	require.NoError(t, d.AddJSON(rebuilt))
	require.Len(t, d.TrackMessages(), 1)
	assert.Equal(t, event.MessageID, d.TrackMessages()[0].Header().MessageID)

	props, err := json.Marshal(sampleProps)
	require.NoError(t, err)
	err = d.AddJSON(props)
	require.ErrorIs(t, err, message.ErrInvalidMessage)

	var invalid *message.InvalidMessageError
	require.ErrorAs(t, err, &invalid)
	assert.JSONEq(t, string(props), string(invalid.Record.(json.RawMessage)))
	assert.Equal(t, 1, d.Len())
}

func TestDelivery_IsValid(t *testing.T) {
	b := message.NewBuilder("a token")
	d := New()

	event, err := b.Event("a distinct id", "login", sampleProps)
	require.NoError(t, err)
	set, err := b.Set("a distinct id", sampleProps)
	require.NoError(t, err)
	empty, err := b.Event("a distinct id", "empty event", nil)
	require.NoError(t, err)

	assert.True(t, d.IsValid(event))
	assert.True(t, d.IsValid(set))
	assert.True(t, d.IsValid(empty))
	assert.False(t, d.IsValid(&message.Identify{}))
	assert.True(t, d.Empty(), "IsValid must not add")
}

func TestDelivery_AccessorsReturnCopies(t *testing.T) {
	b := message.NewBuilder("a token")
	d := New()
	event, err := b.Event("u1", "login", nil)
	require.NoError(t, err)
	require.NoError(t, d.Add(event))

	got := d.TrackMessages()
	got[0] = nil

	assert.Same(t, event, d.TrackMessages()[0])
}

func TestDelivery_Messages(t *testing.T) {
	b := message.NewBuilder("a token")
	d := New()
	set, err := b.Identify("u1", message.Null)
	require.NoError(t, err)
	require.NoError(t, d.Add(set))

	assert.Len(t, d.Messages(message.TypeIdentify), 1)
	assert.Empty(t, d.Messages(message.TypeTrack))
	assert.Nil(t, d.Messages("alias"))

	d.Reset()
	assert.True(t, d.Empty())
}
