package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "seedpipeline/errors"
	"seedpipeline/matching"
	"seedpipeline/websearch"
)

// maxErrorSamples caps how many error strings a run keeps for the report.
const maxErrorSamples = 20

// EnrichedRecord pairs a matched variety with its research context and the
// model's structured analysis. This is the row shape of batch files.
type EnrichedRecord struct {
	OriginalData        matching.MatchRecord       `json:"original_data"`
	ContextData         *websearch.ResearchContext `json:"context_data,omitempty"`
	AnalysisResult      *VarietyAnalysis           `json:"analysis_result,omitempty"`
	EnrichmentTimestamp string                     `json:"enrichment_timestamp"`
}

// Stats accumulates per-run enrichment counters for the summary report.
type Stats struct {
	TotalVarieties int      `json:"total_varieties_loaded"`
	Processed      int      `json:"varieties_processed"`
	Successful     int      `json:"successful_enrichments"`
	Failed         int      `json:"failed_enrichments"`
	MissingContext int      `json:"missing_context"`
	APICalls       int      `json:"api_calls_made"`
	Errors         []string `json:"errors"`
}

func (s *Stats) addError(msg string) {
	if len(s.Errors) < maxErrorSamples {
		s.Errors = append(s.Errors, msg)
	}
}

// Runner drives enrichment over a record batch with bounded parallelism.
// Collaborator failures never abort the batch: failed records are counted
// and sampled into Stats, and everything else continues.
type Runner struct {
	synth   Synthesizer
	workers int
	limiter *rate.Limiter
	retry   RetryConfig
	logger  *slog.Logger
}

// NewRunner creates a batch runner. ratePerSecond bounds synthesizer calls
// across all workers; zero disables the limiter.
func NewRunner(synth Synthesizer, workers int, ratePerSecond float64, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &Runner{
		synth:   synth,
		workers: workers,
		limiter: limiter,
		retry:   DefaultRetryConfig(),
		logger:  logger,
	}
}

// Run enriches every record that has a matching research context. Input
// order is preserved in the output. The only fatal error is context
// cancellation.
func (r *Runner) Run(ctx context.Context, records []matching.MatchRecord, contexts []websearch.ResearchContext) ([]EnrichedRecord, *Stats, error) {
	stats := &Stats{TotalVarieties: len(records)}

	type job struct {
		index int
		rec   matching.MatchRecord
		rc    *websearch.ResearchContext
	}

	jobs := make([]job, 0, len(records))
	for i, rec := range records {
		rc, ok := websearch.FindContext(contexts, rec.VarietyOriginal)
		if !ok {
			r.logger.Warn("no research context for variety", "variety", rec.VarietyOriginal)
			stats.MissingContext++
			continue
		}
		jobs = append(jobs, job{index: i, rec: rec, rc: rc})
	}

	results := make([]*EnrichedRecord, len(records))
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobCh := make(chan job)

	worker := func() {
		defer wg.Done()
		for j := range jobCh {
			enriched, err := r.enrichOne(ctx, j.rec, j.rc)

			mu.Lock()
			stats.Processed++
			stats.APICalls++
			if err != nil {
				stats.Failed++
				stats.addError(fmt.Sprintf("%s: %v", j.rec.VarietyOriginal, err))
				r.logger.Error("enrichment failed",
					"variety", j.rec.VarietyOriginal, "error", err)
			} else {
				stats.Successful++
				results[j.index] = enriched
			}
			mu.Unlock()
		}
	}

	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go worker()
	}

	for _, j := range jobs {
		select {
		case <-ctx.Done():
			close(jobCh)
			wg.Wait()
			return nil, stats, ctx.Err()
		case jobCh <- j:
		}
	}
	close(jobCh)
	wg.Wait()

	enriched := make([]EnrichedRecord, 0, len(jobs))
	for _, res := range results {
		if res != nil {
			enriched = append(enriched, *res)
		}
	}

	r.logger.Info("enrichment batch complete",
		"total", stats.TotalVarieties,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"missing_context", stats.MissingContext)
	return enriched, stats, nil
}

func (r *Runner) enrichOne(ctx context.Context, rec matching.MatchRecord, rc *websearch.ResearchContext) (*EnrichedRecord, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	info := websearch.VarietyInfo{
		VarietyName: rec.VarietyOriginal,
		CropName:    rec.CropOriginal,
	}

	var analysis *VarietyAnalysis
	err := Retry(ctx, func() error {
		var synthErr error
		analysis, synthErr = r.synth.Synthesize(ctx, info, rc)
		return synthErr
	}, r.retry)
	if err != nil {
		return nil, err
	}

	return &EnrichedRecord{
		OriginalData:        rec,
		ContextData:         rc,
		AnalysisResult:      analysis,
		EnrichmentTimestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// BatchFilename names the batch artifact for one batch number.
func BatchFilename(batchNum int) string {
	return fmt.Sprintf("batch_%03d_enriched.json", batchNum)
}

// SaveBatch writes one enriched batch under dir.
func SaveBatch(dir string, batchNum int, records []EnrichedRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create batch directory: %w", err)
	}
	path := filepath.Join(dir, BatchFilename(batchNum))
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write batch: %w", err)
	}
	return path, nil
}

// ConsolidateBatches loads every batch_*_enriched.json under dir into one
// record list, in sorted filename order. A file that does not decode as a
// record array is skipped with a warning; the batch as a whole never fails
// on one malformed artifact.
func ConsolidateBatches(dir string, logger *slog.Logger) ([]map[string]any, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := filepath.Glob(filepath.Join(dir, "batch_*_enriched.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob batch directory: %w", err)
	}
	sort.Strings(paths)

	consolidated := make([]map[string]any, 0)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable batch file", "path", path, "error", err)
			continue
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(data, &rows); err != nil {
			malformed := apperrors.NewMalformedRecordError(
				fmt.Sprintf("batch file %s is not a record array", filepath.Base(path)), err)
			logger.Warn("skipping malformed batch file", "path", path, "error", malformed)
			continue
		}
		for i, row := range rows {
			var rec map[string]any
			if err := json.Unmarshal(row, &rec); err != nil {
				logger.Warn("skipping malformed batch record",
					"path", path, "index", i, "error", err)
				continue
			}
			consolidated = append(consolidated, rec)
		}
	}

	logger.Info("batch consolidation complete",
		"files", len(paths), "records", len(consolidated))
	return consolidated, nil
}
