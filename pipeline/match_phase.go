package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	apperrors "seedpipeline/errors"
	"seedpipeline/ingest"
	"seedpipeline/internal/config"
	"seedpipeline/matching"
	"seedpipeline/quality"
)

// sampleSeed keeps manual-review samples reproducible across reruns on the
// same match table.
const sampleSeed = 42

const matchTableFile = "matched_varieties.json"

// CompletionReport summarizes a matching run for the reports/ folder.
type CompletionReport struct {
	Timestamp               string         `json:"timestamp"`
	TotalRecords            int            `json:"total_records"`
	Matched                 int            `json:"matched"`
	Unmatched               int            `json:"unmatched"`
	MatchRate               float64        `json:"match_rate"`
	Threshold               int            `json:"threshold"`
	ConfidenceHistogram     map[string]int `json:"confidence_histogram"`
	ReviewPriorityHistogram map[string]int `json:"review_priority_histogram"`
	ManualReviewCount       int            `json:"manual_review_count"`
	OutputFiles             []string       `json:"output_files"`
}

// MatchPhase ingests both source tables and produces the match table plus
// review samples and a completion report. Validation failures are fatal and
// abort before any analysis output is written.
type MatchPhase struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewMatchPhase(cfg *config.Config, logger *slog.Logger) *MatchPhase {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchPhase{cfg: cfg, logger: logger}
}

func (p *MatchPhase) Run(run *RunDir) ([]matching.MatchRecord, error) {
	left, err := p.loadDataset(run, p.cfg.CSCFile, ingest.CSCSpec)
	if err != nil {
		return nil, err
	}
	right, err := p.loadDataset(run, p.cfg.SeedNetFile, ingest.SeedNetSpec)
	if err != nil {
		return nil, err
	}

	matcher := matching.NewMatcher(p.cfg.MatchThreshold, p.logger)
	matches := matcher.Match(left, right)

	if err := quality.ValidateMatchCoverage(left, matches); err != nil {
		return nil, err
	}
	if err := quality.ValidateReviewFlags(matches); err != nil {
		return nil, err
	}

	matchPath := run.Analysis(matchTableFile)
	if err := writeJSON(matchPath, matches); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	matchedSample := sampleByStatus(matches, matching.StatusMatched, p.cfg.SampleSize, rng)
	unmatchedSample := sampleByStatus(matches, matching.StatusUnmatched, p.cfg.SampleSize, rng)

	matchedPath := run.ManualReview("matched_sample.json")
	unmatchedPath := run.ManualReview("unmatched_sample.json")
	if err := writeJSON(matchedPath, matchedSample); err != nil {
		return nil, err
	}
	if err := writeJSON(unmatchedPath, unmatchedSample); err != nil {
		return nil, err
	}

	report := buildCompletionReport(matches, matcher.Threshold(),
		[]string{matchPath, matchedPath, unmatchedPath})
	reportPath := run.Reports("matching_completion_report.json")
	if err := writeJSON(reportPath, report); err != nil {
		return nil, err
	}

	p.logger.Info("matching phase complete",
		"total", report.TotalRecords, "matched", report.Matched,
		"match_rate", report.MatchRate, "report", reportPath)
	return matches, nil
}

func (p *MatchPhase) loadDataset(run *RunDir, path string, spec ingest.DatasetSpec) ([]ingest.SourceRecord, error) {
	if path == "" {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("no input file configured for %s", spec.Name), nil)
	}
	if err := run.CopyInput(path); err != nil {
		return nil, err
	}

	table, err := ingest.LoadTable(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s table: %w", spec.Name, err)
	}
	records, err := ingest.NewNormalizer(spec, p.logger).Normalize(table)
	if err != nil {
		return nil, err
	}
	if err := quality.ValidateRawIDs(records); err != nil {
		return nil, err
	}
	return records, nil
}

func buildCompletionReport(matches []matching.MatchRecord, threshold int, outputs []string) *CompletionReport {
	report := &CompletionReport{
		Timestamp:               time.Now().UTC().Format(time.RFC3339),
		TotalRecords:            len(matches),
		Threshold:               threshold,
		ConfidenceHistogram:     make(map[string]int),
		ReviewPriorityHistogram: make(map[string]int),
		OutputFiles:             outputs,
	}
	for _, m := range matches {
		if m.Status == matching.StatusMatched {
			report.Matched++
		}
		report.ConfidenceHistogram[string(m.Confidence)]++
		report.ReviewPriorityHistogram[string(m.ReviewPriority)]++
		if m.ManualReviewNeeded {
			report.ManualReviewCount++
		}
	}
	report.Unmatched = report.TotalRecords - report.Matched
	if report.TotalRecords > 0 {
		report.MatchRate = float64(report.Matched) / float64(report.TotalRecords)
	}
	return report
}

// sampleByStatus draws up to n records of one status, in random order.
func sampleByStatus(matches []matching.MatchRecord, status matching.MatchStatus, n int, rng *rand.Rand) []matching.MatchRecord {
	pool := make([]matching.MatchRecord, 0)
	for _, m := range matches {
		if m.Status == status {
			pool = append(pool, m)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > 0 && len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

// LoadMatches reads back a match table written by a previous phase.
func LoadMatches(path string) ([]matching.MatchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match table: %w", err)
	}
	var matches []matching.MatchRecord
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, apperrors.NewMalformedRecordError("match table is not valid JSON", err)
	}
	return matches, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
