package app

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecto-io/connecto-go/pkg/delivery"
)

func TestReadNDJSON(t *testing.T) {
	b := newTestBuilder()
	event, err := b.Event("u1", "login", map[string]any{"n": 1})
	require.NoError(t, err)
	set, err := b.Set("u1", map[string]any{"plan": "pro"})
	require.NoError(t, err)

	e, _ := json.Marshal(event)
	s, _ := json.Marshal(set)
	input := strings.Join([]string{string(e), "", "  ", `{"type":"track"}`, string(s), "garbage"}, "\n")

	d := delivery.New()
	res, err := ReadNDJSON(strings.NewReader(input), d, nil)
	require.NoError(t, err)

	assert.Equal(t, ReadResult{Added: 2, Skipped: 2}, res)
	assert.Len(t, d.TrackMessages(), 1)
	assert.Len(t, d.IdentifyMessages(), 1)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReadNDJSON_ReadError(t *testing.T) {
	_, err := ReadNDJSON(failingReader{}, delivery.New(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
