package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	apperrors "seedpipeline/errors"
	"seedpipeline/websearch/types"
)

// VarietyInfo identifies the variety a research context belongs to.
type VarietyInfo struct {
	VarietyName string `json:"variety_name"`
	CropName    string `json:"crop_name"`
}

// ResearchContext is the compiled search-result bundle for one variety.
// It is persisted as a standalone JSON file and later fed to the LLM
// synthesizer together with the variety record.
type ResearchContext struct {
	VarietyInfo    VarietyInfo          `json:"variety_info"`
	SearchResults  []types.SearchResult `json:"search_results"`
	TotalQueries   int                  `json:"total_queries"`
	SuccessQueries int                  `json:"successful_queries"`
	FailedQueries  int                  `json:"failed_queries"`
	ScholarQueries int                  `json:"google_scholar_queries"`
	CompiledAt     time.Time            `json:"compiled_at"`
}

// ContextBuilder executes the query battery for varieties and compiles
// research contexts. Provider failures are recoverable: the failed query is
// recorded with its error and the batch continues.
type ContextBuilder struct {
	webProvider     types.SearchProviderInterface
	scholarProvider types.SearchProviderInterface
	logger          *slog.Logger
}

func NewContextBuilder(web, scholar types.SearchProviderInterface, logger *slog.Logger) *ContextBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextBuilder{
		webProvider:     web,
		scholarProvider: scholar,
		logger:          logger,
	}
}

// Build runs the full 30-query battery for one variety.
func (b *ContextBuilder) Build(ctx context.Context, info VarietyInfo) (*ResearchContext, error) {
	queries := GenerateQueries(info.VarietyName, info.CropName)

	rc := &ResearchContext{
		VarietyInfo:  info,
		TotalQueries: len(queries),
		CompiledAt:   time.Now(),
	}

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := b.execute(ctx, q)
		if err != nil {
			rc.FailedQueries++
			failure := apperrors.NewEnrichmentFailure(
				fmt.Sprintf("search query failed: %s", q.Query), err)
			b.logger.Warn("search query failed",
				"variety", info.VarietyName, "query", q.Query, "error", failure)
			result = &types.SearchResult{
				Query:     q.Query,
				Type:      q.Type,
				Success:   false,
				Error:     err.Error(),
				Timestamp: time.Now(),
			}
		} else {
			rc.SuccessQueries++
		}
		if q.Type == types.TypeScholar {
			rc.ScholarQueries++
		}
		rc.SearchResults = append(rc.SearchResults, *result)
	}

	b.logger.Info("research context compiled",
		"variety", info.VarietyName,
		"queries", rc.TotalQueries,
		"successful", rc.SuccessQueries,
		"failed", rc.FailedQueries)
	return rc, nil
}

func (b *ContextBuilder) execute(ctx context.Context, q Query) (*types.SearchResult, error) {
	provider := b.webProvider
	if q.Type == types.TypeScholar {
		provider = b.scholarProvider
	}
	if provider == nil || !provider.IsAvailable() {
		return nil, fmt.Errorf("no available provider for search type %q", q.Type)
	}
	return provider.Search(ctx, q.Query)
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// ContextFilename derives the per-variety context file name.
func ContextFilename(varietyName string) string {
	slug := unsafeFilename.ReplaceAllString(strings.ToLower(varietyName), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "unknown"
	}
	return slug + "_context.json"
}

// SaveContext writes one research context under dir.
func SaveContext(dir string, rc *ResearchContext) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create context directory: %w", err)
	}
	path := filepath.Join(dir, ContextFilename(rc.VarietyInfo.VarietyName))
	data, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal research context: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write research context: %w", err)
	}
	return path, nil
}

// LoadContexts reads every context JSON under dir. Files that fail to
// decode are skipped with a warning rather than aborting the batch.
func LoadContexts(dir string, logger *slog.Logger) ([]ResearchContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*_context.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob context directory: %w", err)
	}

	contexts := make([]ResearchContext, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable context file", "path", path, "error", err)
			continue
		}
		var rc ResearchContext
		if err := json.Unmarshal(data, &rc); err != nil {
			logger.Warn("skipping malformed context file", "path", path, "error", err)
			continue
		}
		contexts = append(contexts, rc)
	}
	return contexts, nil
}

// FindContext returns the context whose variety name matches, ignoring case.
func FindContext(contexts []ResearchContext, varietyName string) (*ResearchContext, bool) {
	for i := range contexts {
		if strings.EqualFold(contexts[i].VarietyInfo.VarietyName, varietyName) {
			return &contexts[i], true
		}
	}
	return nil, false
}
