package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tifye/dugout/bullpen"
)

func TestClientDisabledWithoutAPIKey(t *testing.T) {
	client := NewClient(log.New(io.Discard), "", "", "http://localhost:0")
	assert.False(t, client.Enabled())

	text, err := client.Commentary(context.Background(), "Strike three!", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, text, "a disabled client never reaches the network")
}

func TestClientCompletion(t *testing.T) {
	var (
		calls    int
		lastBody chatRequest
		lastAuth string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		lastAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Aiko Tanaka owns this matchup.  "}}]}`))
	}))
	defer server.Close()

	client := NewClient(log.New(io.Discard), "test-key", "", server.URL)
	require.True(t, client.Enabled())

	req := bullpen.RecommendationRequest{
		Batter:   bullpen.HandLeft,
		Leverage: bullpen.LeverageHigh,
	}
	top := []bullpen.Reliever{{Name: "Aiko Tanaka", Throws: bullpen.HandRight, Score: 0.81}}

	text, err := client.Explanation(context.Background(), req, top)
	require.NoError(t, err)
	assert.Equal(t, "Aiko Tanaka owns this matchup.", text, "content is trimmed")

	assert.Equal(t, "Bearer test-key", lastAuth)
	assert.Equal(t, DefaultModel, lastBody.Model)
	assert.InDelta(t, completionTemperature, lastBody.Temperature, 1e-9)
	require.Len(t, lastBody.Messages, 2)
	assert.Equal(t, "system", lastBody.Messages[0].Role)
	assert.Contains(t, lastBody.Messages[0].Content, "80-120 words")
	assert.Equal(t, "user", lastBody.Messages[1].Role)
	assert.Contains(t, lastBody.Messages[1].Content, "Aiko Tanaka")
	assert.Contains(t, lastBody.Messages[1].Content, `"leverage":"high"`)

	// the identical exchange is served from cache
	text, err = client.Explanation(context.Background(), req, top)
	require.NoError(t, err)
	assert.Equal(t, "Aiko Tanaka owns this matchup.", text)
	assert.Equal(t, 1, calls)
}

func TestClientSurfacesUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(log.New(io.Discard), "test-key", "", server.URL)

	_, err := client.SituationalStrategy(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClientExplanationTrimsToTopThree(t *testing.T) {
	var lastBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewClient(log.New(io.Discard), "test-key", "", server.URL)

	top := []bullpen.Reliever{
		{Name: "One"}, {Name: "Two"}, {Name: "Three"}, {Name: "Four"},
	}
	_, err := client.Explanation(context.Background(), bullpen.RecommendationRequest{Batter: bullpen.HandRight}, top)
	require.NoError(t, err)

	assert.Contains(t, lastBody.Messages[1].Content, "Three")
	assert.NotContains(t, lastBody.Messages[1].Content, "Four")
}
