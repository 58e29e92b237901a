package fcapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchesResources(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL+"/", "secret")

	payload, err := c.PowerRankings(context.Background(), "abc", "50", 20)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))
	assert.Equal(t, "/rankings/power", gotPath)
	assert.Contains(t, gotQuery, "ouid=abc")
	assert.Contains(t, gotQuery, "matchtype=50")
	assert.Contains(t, gotQuery, "limit=20")
	assert.Equal(t, "secret", gotKey)

	_, err = c.MatchDetail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "/matches/m1", gotPath)

	_, err = c.MatchHeatmap(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "/matches/m1/heatmap", gotPath)

	_, err = c.Breakdown(context.Background(), "abc", "50", BreakdownShot)
	require.NoError(t, err)
	assert.Equal(t, "/users/abc/breakdowns/shot", gotPath)
}

func TestClientUnknownBreakdownKind(t *testing.T) {
	c := NewClient("http://localhost:0", "")
	_, err := c.Breakdown(context.Background(), "abc", "50", "dribble")
	assert.ErrorContains(t, err, "unknown breakdown kind")
}

func TestClientUpstreamErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "error envelope",
			status:      http.StatusNotFound,
			body:        `{"error":{"name":"NOT_FOUND","message":"match not found"}}`,
			wantMessage: "match not found",
		},
		{
			name:        "no envelope",
			status:      http.StatusBadGateway,
			body:        "upstream exploded",
			wantMessage: http.StatusText(http.StatusBadGateway),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer upstream.Close()

			c := NewClient(upstream.URL, "")
			_, err := c.MatchDetail(context.Background(), "m1")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClientRejectsNonJSONPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "")
	_, err := c.MatchDetail(context.Background(), "m1")
	assert.ErrorContains(t, err, "not valid JSON")
}
