package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"seedpipeline/database"
	"seedpipeline/dedup"
	"seedpipeline/enrichment"
	"seedpipeline/finaldb"
	"seedpipeline/internal/config"
	"seedpipeline/quality"
)

// GeneratePhase consolidates enriched batches into the final variety
// database: duplicate analysis, consolidation, schema mapping, artifact
// emission and the SQLite store swap. Validation failures abort before any
// final artifact is written.
type GeneratePhase struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewGeneratePhase(cfg *config.Config, logger *slog.Logger) *GeneratePhase {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeneratePhase{cfg: cfg, logger: logger}
}

func (p *GeneratePhase) Run(run *RunDir, enrichStats *enrichment.Stats) (*finaldb.SummaryReport, error) {
	records, err := enrichment.ConsolidateBatches(run.Analysis(batchesSubdir), p.logger)
	if err != nil {
		return nil, err
	}
	initial := len(records)

	groups := dedup.NewAnalyzer(p.logger).Analyze(records)
	ambiguous := 0
	for _, g := range groups {
		if g.Ambiguous {
			ambiguous++
		}
	}

	emitter := finaldb.NewEmitter(p.logger)
	if err := emitter.WritePreConsolidation(run.Analysis("pre_consolidation_data.json"), records); err != nil {
		return nil, err
	}

	result := dedup.NewConsolidator(p.logger).Consolidate(records)
	table := finaldb.NewMapper(p.logger).Map(result.Kept)

	if err := quality.ValidateVarietyIDs(table); err != nil {
		return nil, err
	}

	csvPath := run.Final("final_seed_database.csv")
	if err := emitter.WriteCSV(csvPath, table); err != nil {
		return nil, err
	}
	if err := emitter.WriteXLSX(run.Final("final_seed_database.xlsx"), table); err != nil {
		return nil, err
	}
	if err := emitter.WriteSchemaDoc(run.Reports("database_schema.json")); err != nil {
		return nil, err
	}

	report := &finaldb.SummaryReport{
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		InitialRowCount:   initial,
		FinalRowCount:     len(table.Rows),
		DuplicateAnalysis: dedup.CategoryHistogram(records),
		AmbiguousGroups:   ambiguous,
		Enrichment:        enrichStats,
		Metadata: finaldb.ProcessingMetadata{
			DataSource:     "CSC gazette extraction + SeedNet registry",
			OutputLocation: csvPath,
			Version:        "1.0",
		},
	}
	if err := emitter.WriteSummaryReport(run.Reports("summary_report.json"), report); err != nil {
		return nil, err
	}

	if p.cfg.DatabasePath != "" {
		if err := os.MkdirAll(filepath.Dir(p.cfg.DatabasePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := database.NewDB(p.cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if err := db.ReplaceFinalVarieties(table); err != nil {
			return nil, err
		}
		if err := db.SaveRunReport(report); err != nil {
			return nil, err
		}
	}

	p.logger.Info("database generation complete",
		"initial_rows", initial, "final_rows", len(table.Rows),
		"dropped", result.DroppedCount, "ambiguous_groups", ambiguous)
	return report, nil
}
