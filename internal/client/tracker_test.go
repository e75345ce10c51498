package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackPageView(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analytics/pageview", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	tracker := NewTracker(New(server.URL, nil))
	tracker.TrackPageView("/", "")
	tracker.TrackPageView("/settings", "https://example.com/")
	tracker.Wait()

	require.Len(t, bodies, 2)
	byPath := map[string]map[string]any{}
	for _, b := range bodies {
		byPath[b["path"].(string)] = b
	}

	referrer, present := byPath["/"]["referrer"]
	assert.True(t, present)
	assert.Nil(t, referrer)
	assert.Equal(t, "https://example.com/", byPath["/settings"]["referrer"])
}

func TestTrackPageViewSwallowsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close()

	tracker := NewTracker(New(server.URL, nil))
	assert.NotPanics(t, func() {
		tracker.TrackPageView("/", "")
		tracker.Wait()
	})
}
