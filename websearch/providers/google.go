package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"seedpipeline/websearch/types"
)

// GoogleProvider queries the Google Custom Search JSON API.
type GoogleProvider struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	rateLimit  time.Duration
}

// NewGoogleProvider creates a Custom Search provider. An empty API key or
// engine ID leaves the provider unavailable rather than failing.
func NewGoogleProvider(apiKey, engineID string, timeout, rateLimit time.Duration) *GoogleProvider {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if rateLimit == 0 {
		rateLimit = time.Second
	}
	return &GoogleProvider{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  "https://www.googleapis.com/customsearch/v1",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Every(rateLimit), 1),
		rateLimit: rateLimit,
	}
}

func (g *GoogleProvider) GetName() string {
	return "google_custom_search"
}

func (g *GoogleProvider) IsAvailable() bool {
	return g.apiKey != "" && g.engineID != ""
}

func (g *GoogleProvider) GetRateLimit() time.Duration {
	return g.rateLimit
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (g *GoogleProvider) SetBaseURL(u string) {
	g.baseURL = u
}

// googleResponse is the subset of the Custom Search response we read.
type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search executes one Custom Search query and returns up to 10 hits.
func (g *GoogleProvider) Search(ctx context.Context, query string) (*types.SearchResult, error) {
	if !g.IsAvailable() {
		return nil, fmt.Errorf("google provider is not configured")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := url.Values{}
	params.Add("key", g.apiKey)
	params.Add("cx", g.engineID)
	params.Add("q", query)
	params.Add("num", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "seedpipeline/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &types.SearchResult{
		Query:     query,
		Type:      types.TypeWeb,
		Source:    g.GetName(),
		Success:   true,
		Timestamp: time.Now(),
	}
	for i, item := range body.Items {
		result.Results = append(result.Results, types.SearchItem{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			// Rank-derived relevance, top hit first.
			Relevance: 1.0 - float64(i)*0.1,
		})
	}
	result.Found = len(result.Results) > 0
	return result, nil
}
