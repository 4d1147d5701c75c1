package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultEndpoint is the Serper search API.
const DefaultEndpoint = "https://google.serper.dev/search"

// Serper queries the Serper Google search API.
type Serper struct {
	endpoint string
	apiKey   string
	results  int
	client   *http.Client
}

// NewSerper creates a Serper client. An empty endpoint uses DefaultEndpoint
// and a nil client uses http.DefaultClient.
func NewSerper(endpoint, apiKey string, results int, client *http.Client) *Serper {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Serper{
		endpoint: endpoint,
		apiKey:   apiKey,
		results:  results,
		client:   client,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []Result `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: s.results})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrSearch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrSearch, err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSearch, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrSearch, err)
	}

	if s.results > 0 && len(out.Organic) > s.results {
		out.Organic = out.Organic[:s.results]
	}

	return out.Organic, nil
}
