package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"seedpipeline/websearch/types"
)

// scholarMaxResults caps how many publications a single query returns.
const scholarMaxResults = 5

// ScholarProvider scrapes the Google Scholar results page. Scholar has no
// API, so results are parsed out of the HTML; the provider is deliberately
// rate limited well below the web-search provider.
type ScholarProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	rateLimit  time.Duration
}

func NewScholarProvider(timeout, rateLimit time.Duration) *ScholarProvider {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if rateLimit == 0 {
		rateLimit = 2 * time.Second
	}
	return &ScholarProvider{
		baseURL: "https://scholar.google.com/scholar",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Every(rateLimit), 1),
		rateLimit: rateLimit,
	}
}

func (s *ScholarProvider) GetName() string {
	return "google_scholar"
}

func (s *ScholarProvider) IsAvailable() bool {
	return true
}

func (s *ScholarProvider) GetRateLimit() time.Duration {
	return s.rateLimit
}

// SetBaseURL overrides the results-page endpoint. Used by tests.
func (s *ScholarProvider) SetBaseURL(u string) {
	s.baseURL = u
}

// Search fetches one Scholar results page and parses the publication list.
func (s *ScholarProvider) Search(ctx context.Context, query string) (*types.SearchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("hl", "en")
	params.Add("as_ylo", "2008")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	result := &types.SearchResult{
		Query:     query,
		Type:      types.TypeScholar,
		Source:    s.GetName(),
		Success:   true,
		Timestamp: time.Now(),
	}
	doc.Find(".gs_ri").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= scholarMaxResults {
			return false
		}
		title := sel.Find(".gs_rt a")
		href, _ := title.Attr("href")
		item := types.SearchItem{
			Title:     strings.TrimSpace(title.Text()),
			URL:       href,
			Snippet:   strings.TrimSpace(sel.Find(".gs_rs").Text()),
			Relevance: 1.0 - float64(i)*0.2,
		}
		if item.Title == "" {
			return true
		}
		result.Results = append(result.Results, item)
		return true
	})
	result.Found = len(result.Results) > 0
	return result, nil
}
