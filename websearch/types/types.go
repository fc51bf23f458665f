package types

import (
	"context"
	"time"
)

// Search types reported on each result. The scholar type covers publication
// search; everything else goes through general web search.
const (
	TypeScholar = "google_scholar"
	TypeWeb     = "google_search"
)

// SearchResult is the unified per-query result shape shared by every
// provider and persisted verbatim into research-context files.
type SearchResult struct {
	Query     string       `json:"query"`
	Type      string       `json:"search_type"`
	Found     bool         `json:"found"`
	Results   []SearchItem `json:"results"`
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
	Source    string       `json:"source"`
	Timestamp time.Time    `json:"timestamp"`
}

// SearchItem is one ranked hit.
type SearchItem struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}

// SearchProviderInterface is implemented by every search backend.
// Defined here to avoid circular imports between the client and providers.
type SearchProviderInterface interface {
	// Search executes one query.
	Search(ctx context.Context, query string) (*SearchResult, error)

	// GetName returns the provider name recorded as the result source.
	GetName() string

	// IsAvailable reports whether the provider is configured and usable.
	IsAvailable() bool

	// GetRateLimit returns the minimum spacing between requests.
	GetRateLimit() time.Duration
}
