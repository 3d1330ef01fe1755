package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/venturescope/venturescope/core"
)

const defaultSerperEndpoint = "https://google.serper.dev/search"

// SerperSearchOptions configures a SerperSearch backend.
type SerperSearchOptions struct {
	// Endpoint overrides the Serper API URL. Intended for tests.
	Endpoint string
	// NumResults is how many organic results to request per query.
	NumResults int
	// HTTPClient overrides the HTTP client used for API calls.
	HTTPClient *http.Client
}

// SerperSearch is a web search backend over the Serper Google Search API.
// Results are formatted as numbered text blocks the reasoning model can
// cite directly.
type SerperSearch struct {
	apiKey     string
	endpoint   string
	numResults int
	httpClient *http.Client
}

var _ Backend = (*SerperSearch)(nil)

// NewSerperSearch constructs a search backend. The API key is required;
// with an empty key the backend still constructs but every call fails,
// so callers should gate registration on key presence.
func NewSerperSearch(apiKey string, optFns ...func(o *SerperSearchOptions)) *SerperSearch {
	opts := SerperSearchOptions{
		Endpoint:   defaultSerperEndpoint,
		NumResults: 10,
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SerperSearch{
		apiKey:     apiKey,
		endpoint:   opts.Endpoint,
		numResults: opts.NumResults,
		httpClient: opts.HTTPClient,
	}
}

// Capability returns core.CapabilitySearch.
func (s *SerperSearch) Capability() core.Capability { return core.CapabilitySearch }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Invoke runs one search query and returns the organic results as numbered
// text. An empty result set is reported as text, not as an error, so the
// model can decide how to proceed.
func (s *SerperSearch) Invoke(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("serper: missing API key")
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: s.numResults})
	if err != nil {
		return "", fmt.Errorf("serper: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("serper: build request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("serper: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("serper: decode response: %w", err)
	}

	if len(parsed.Organic) == 0 {
		return fmt.Sprintf("No search results found for: %s", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n\n", query)
	for i, r := range parsed.Organic {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   %s\n\n", i+1, r.Title, r.Link, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
