package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerperSearch_Invoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req serperRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "acme robotics funding", req.Q)
		assert.Equal(t, 5, req.Num)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]string{
				{"title": "Acme raises $50M", "link": "https://news.example.com/acme", "snippet": "Series B round"},
				{"title": "Acme Robotics", "link": "https://acme.example.com", "snippet": "Official site"},
			},
		})
	}))
	defer srv.Close()

	s := NewSerperSearch("test-key", func(o *SerperSearchOptions) {
		o.Endpoint = srv.URL
		o.NumResults = 5
	})

	out, err := s.Invoke(context.Background(), "acme robotics funding")
	require.NoError(t, err)
	assert.Contains(t, out, "Search results for: acme robotics funding")
	assert.Contains(t, out, "1. Acme raises $50M")
	assert.Contains(t, out, "URL: https://news.example.com/acme")
	assert.Contains(t, out, "2. Acme Robotics")
}

func TestSerperSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"organic": []any{}})
	}))
	defer srv.Close()

	s := NewSerperSearch("test-key", func(o *SerperSearchOptions) {
		o.Endpoint = srv.URL
	})

	out, err := s.Invoke(context.Background(), "nothing at all")
	require.NoError(t, err)
	assert.Equal(t, "No search results found for: nothing at all", out)
}

func TestSerperSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSerperSearch("bad-key", func(o *SerperSearchOptions) {
		o.Endpoint = srv.URL
	})

	_, err := s.Invoke(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestSerperSearch_MissingKey(t *testing.T) {
	s := NewSerperSearch("")
	_, err := s.Invoke(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing API key")
}
