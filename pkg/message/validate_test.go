package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foreignMessage struct {
	Scaffold
}

func TestValidate(t *testing.T) {
	var nilTrack *Track

	tests := []struct {
		name  string
		msg   Message
		valid bool
	}{
		{name: "nil interface", msg: nil},
		{name: "nil track pointer", msg: nilTrack},
		{name: "zero track", msg: &Track{}},
		{name: "track without event", msg: &Track{Scaffold: Scaffold{Kind: TypeTrack}}},
		{name: "track with identify type", msg: &Track{Scaffold: Scaffold{Kind: TypeIdentify}, Event: "x"}},
		{name: "track", msg: &Track{Scaffold: Scaffold{Kind: TypeTrack}, Event: "x"}, valid: true},
		{name: "identify without traits", msg: &Identify{Scaffold: Scaffold{Kind: TypeIdentify}}},
		{name: "identify with garbage traits", msg: &Identify{Scaffold: Scaffold{Kind: TypeIdentify}, Traits: json.RawMessage("{")}},
		{name: "identify with unknown type", msg: &Identify{Scaffold: Scaffold{Kind: "engage"}, Traits: json.RawMessage("{}")}},
		{name: "identify with null traits", msg: &Identify{Scaffold: Scaffold{Kind: TypeIdentify}, Traits: json.RawMessage("null")}, valid: true},
		{name: "foreign variant", msg: &foreignMessage{Scaffold: Scaffold{Kind: TypeTrack}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.msg))

			err := Validate(tt.msg)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidMessage)
			var invalid *InvalidMessageError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.msg, invalid.Record)
		})
	}
}

func TestType_Valid(t *testing.T) {
	assert.True(t, TypeTrack.Valid())
	assert.True(t, TypeIdentify.Valid())
	assert.False(t, Type("").Valid())
	assert.False(t, Type("alias").Valid())
}
