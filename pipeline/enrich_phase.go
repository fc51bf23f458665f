package pipeline

import (
	"context"
	"log/slog"

	"seedpipeline/enrichment"
	"seedpipeline/matching"
	"seedpipeline/websearch"
)

const (
	batchesSubdir = "enriched_batches"
	batchSize     = 10
)

// EnrichPhase feeds matched records and their saved research contexts
// through the LLM synthesizer and persists the enriched records in
// fixed-size batch files.
type EnrichPhase struct {
	runner *enrichment.Runner
	logger *slog.Logger
}

func NewEnrichPhase(runner *enrichment.Runner, logger *slog.Logger) *EnrichPhase {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichPhase{runner: runner, logger: logger}
}

func (p *EnrichPhase) Run(ctx context.Context, run *RunDir, matches []matching.MatchRecord) (*enrichment.Stats, error) {
	contexts, err := websearch.LoadContexts(run.Analysis(contextsSubdir), p.logger)
	if err != nil {
		return nil, err
	}

	enriched, stats, err := p.runner.Run(ctx, matches, contexts)
	if err != nil {
		return stats, err
	}

	dir := run.Analysis(batchesSubdir)
	batchNum := 1
	for start := 0; start < len(enriched); start += batchSize {
		end := start + batchSize
		if end > len(enriched) {
			end = len(enriched)
		}
		if _, err := enrichment.SaveBatch(dir, batchNum, enriched[start:end]); err != nil {
			return stats, err
		}
		batchNum++
	}

	p.logger.Info("enrichment phase complete",
		"processed", stats.Processed, "successful", stats.Successful,
		"failed", stats.Failed, "missing_context", stats.MissingContext,
		"batches", batchNum-1)
	return stats, nil
}
