// Package search provides the web search collaborator used to ground stage
// generations.
package search

import (
	"context"
	"errors"
)

// ErrSearch wraps failures from a search provider.
var ErrSearch = errors.New("search failed")

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher runs a web query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
