package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"seedpipeline/matching"
	"seedpipeline/websearch"
)

const contextsSubdir = "research_contexts"

// ContextPhase runs the research query battery for every distinct matched
// variety and persists one context file per variety. A variety that fails
// is logged and skipped; the batch keeps going.
type ContextPhase struct {
	builder *websearch.ContextBuilder
	logger  *slog.Logger
}

func NewContextPhase(builder *websearch.ContextBuilder, logger *slog.Logger) *ContextPhase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextPhase{builder: builder, logger: logger}
}

func (p *ContextPhase) Run(ctx context.Context, run *RunDir, matches []matching.MatchRecord) ([]websearch.ResearchContext, error) {
	dir := run.Analysis(contextsSubdir)
	contexts := make([]websearch.ResearchContext, 0)

	seen := make(map[string]bool)
	for _, m := range matches {
		if m.Status != matching.StatusMatched {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(m.VarietyOriginal))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		info := websearch.VarietyInfo{
			VarietyName: m.VarietyOriginal,
			CropName:    m.CropOriginal,
		}
		rc, err := p.builder.Build(ctx, info)
		if err != nil {
			if ctx.Err() != nil {
				return contexts, ctx.Err()
			}
			p.logger.Warn("research context failed",
				"variety", info.VarietyName, "error", err)
			continue
		}
		if _, err := websearch.SaveContext(dir, rc); err != nil {
			return contexts, err
		}
		contexts = append(contexts, *rc)
	}

	p.logger.Info("context phase complete",
		"varieties", len(seen), "contexts", len(contexts), "dir", dir)
	return contexts, nil
}
