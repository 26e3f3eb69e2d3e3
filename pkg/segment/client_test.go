package segment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r.Clone(context.Background())
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestClient_Get(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `[{"title":"Power users","_id":"r1"},{"title":"Churn risk","_id":"r2"}]`)

	c := NewClient(srv.Client(), srv.URL+"/api/rules?userId=", time.Second, nil)
	resp, err := c.Get(context.Background(), "read-key", "user 42")
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.Equal(t, []Segment{{Title: "Power users", ID: "r1"}, {Title: "Churn risk", ID: "r2"}}, resp.Segments)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/rules", got.URL.Path)
	assert.Equal(t, "user 42", got.URL.Query().Get("userId"))
	assert.Equal(t, "Basic cmVhZC1rZXk=", got.Header.Get("Authorization"))
}

func TestClient_GetTolerantParsing(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		available bool
		count     int
	}{
		{"empty array", `[]`, true, 0},
		{"not json", `<html>`, false, 0},
		{"object", `{"title":"x","_id":"y"}`, false, 0},
		{"null", `null`, false, 0},
		{"missing id", `[{"title":"x"}]`, false, 0},
		{"numeric title", `[{"title":1,"_id":"y"}]`, false, 0},
		{"extra fields", `[{"title":"x","_id":"y","rank":3}]`, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusOK, tt.body)
			c := NewClient(srv.Client(), srv.URL+"/?userId=", time.Second, nil)

			resp, err := c.Get(context.Background(), "k", "u")
			require.NoError(t, err)
			assert.Equal(t, tt.available, resp.Available)
			assert.Len(t, resp.Segments, tt.count)
		})
	}
}

func TestClient_GetStatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"error":"bad key"}`)
	c := NewClient(srv.Client(), srv.URL+"/?userId=", time.Second, nil)

	resp, err := c.Get(context.Background(), "k", "u")
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Nil(t, resp)

	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusUnauthorized, status.StatusCode)
}

func TestClient_GetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/?userId="
	srv.Close()

	c := NewClient(nil, endpoint, time.Second, nil)
	_, err := c.Get(context.Background(), "k", "u")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRequestFailed)
}

func TestClient_Defaults(t *testing.T) {
	c := NewClient(nil, "", time.Minute, nil)
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Equal(t, time.Minute, c.Timeout())

	c.SetTimeout(time.Second)
	assert.Equal(t, time.Second, c.Timeout())
}

func TestAuthorizationHeader(t *testing.T) {
	assert.Equal(t, "Basic YWJj", AuthorizationHeader("abc"))
	assert.Equal(t, "Basic ", AuthorizationHeader(""))
}
