package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSerperClient(t *testing.T, handler http.HandlerFunc) *SerperClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSerperClientWithConfig(SerperConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, nil)
}

func TestSerperSearch_Success(t *testing.T) {
	var gotKey string
	var gotBody serperRequest
	client := newTestSerperClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(SearchResponse{
			Organic: []OrganicResult{
				{Title: "Result 1", Link: "https://one", Snippet: "snippet one"},
				{Title: "Result 2", Link: "https://two", Snippet: "snippet two"},
			},
		})
	})

	resp, err := client.Search(context.Background(), "iphone 15 review", 10)

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "iphone 15 review", gotBody.Query)
	assert.Equal(t, 10, gotBody.Num)
	require.Len(t, resp.Organic, 2)
	assert.Equal(t, "snippet one", resp.Organic[0].Snippet)
}

func TestSerperSearch_NonSuccessStatus(t *testing.T) {
	client := newTestSerperClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), "q", 10)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "serper", provErr.Provider)
	assert.Equal(t, http.StatusForbidden, provErr.Status)
}

func TestSerperSearch_MissingAPIKey(t *testing.T) {
	client := NewSerperClient("", nil)

	_, err := client.Search(context.Background(), "q", 10)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Error(), "API key not configured")
}

func TestSerperSearch_MalformedBody(t *testing.T) {
	client := newTestSerperClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Search(context.Background(), "q", 10)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Error(), "failed to parse response")
}
