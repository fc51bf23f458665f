package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedpipeline/database"
	"seedpipeline/enrichment"
	"seedpipeline/internal/config"
	"seedpipeline/matching"
	"seedpipeline/websearch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunDirLayout(t *testing.T) {
	run, err := NewRunDir(t.TempDir())
	require.NoError(t, err)

	for _, dir := range []string{
		"raw_data", "analysis", "final_datasets", "manual_review", "reports",
	} {
		info, err := os.Stat(filepath.Join(run.Root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestRunDirCopyInput(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "input.csv", "a,b\n1,2\n")

	run, err := NewRunDir(dir)
	require.NoError(t, err)
	require.NoError(t, run.CopyInput(src))

	data, err := os.ReadFile(run.RawData("input.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func matchPhaseFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cscPath := writeFixture(t, dir, "csc.csv",
		"variety_standardized,crop_standardized,extracted_year\n"+
			"Pusa Basmati 1,Rice,2010\n"+
			"DBGS-54,Bitter Gourd,2015\n"+
			"Totally Unknown Thing,Okra,2012\n")
	seednetPath := writeFixture(t, dir, "seednet.csv",
		"variety_name,crop_name\n"+
			"Pusa Basmati 1,Rice\n"+
			"DBGS 54,Bitter Gourd\n")

	cfg := config.DefaultConfig()
	cfg.CSCFile = cscPath
	cfg.SeedNetFile = seednetPath
	cfg.MatchThreshold = 80
	cfg.SampleSize = 10
	return cfg
}

func TestMatchPhaseProducesArtifacts(t *testing.T) {
	cfg := matchPhaseFixtures(t)
	run, err := NewRunDir(t.TempDir())
	require.NoError(t, err)

	matches, err := NewMatchPhase(cfg, testLogger()).Run(run)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// Provenance copies of both inputs.
	assert.FileExists(t, run.RawData("csc.csv"))
	assert.FileExists(t, run.RawData("seednet.csv"))

	// The match table round-trips through LoadMatches.
	reloaded, err := LoadMatches(run.Analysis(matchTableFile))
	require.NoError(t, err)
	require.Len(t, reloaded, 3)
	assert.Equal(t, matches[0].RawID, reloaded[0].RawID)

	assert.FileExists(t, run.ManualReview("matched_sample.json"))
	assert.FileExists(t, run.ManualReview("unmatched_sample.json"))

	var report CompletionReport
	data, err := os.ReadFile(run.Reports("matching_completion_report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, report.Matched+report.Unmatched, report.TotalRecords)
	assert.InDelta(t, float64(report.Matched)/3, report.MatchRate, 1e-9)
	assert.NotEmpty(t, report.ConfidenceHistogram)
}

func TestMatchPhaseMissingInputFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CSCFile = ""
	run, err := NewRunDir(t.TempDir())
	require.NoError(t, err)

	_, err = NewMatchPhase(cfg, testLogger()).Run(run)
	require.Error(t, err)
}

func TestSampleByStatusLimitsAndFilters(t *testing.T) {
	matches := make([]matching.MatchRecord, 0, 30)
	for i := 0; i < 20; i++ {
		matches = append(matches, matching.MatchRecord{Status: matching.StatusMatched})
	}
	for i := 0; i < 10; i++ {
		matches = append(matches, matching.MatchRecord{Status: matching.StatusUnmatched})
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	matched := sampleByStatus(matches, matching.StatusMatched, 5, rng)
	assert.Len(t, matched, 5)

	unmatched := sampleByStatus(matches, matching.StatusUnmatched, 100, rng)
	assert.Len(t, unmatched, 10)
	for _, m := range unmatched {
		assert.Equal(t, matching.StatusUnmatched, m.Status)
	}
}

func TestLoadMatchesRejectsMalformedFile(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "matches.json", "{not json")
	_, err := LoadMatches(path)
	require.Error(t, err)
}

func enrichedFixture(variety, clean, crop string) enrichment.EnrichedRecord {
	return enrichment.EnrichedRecord{
		OriginalData: matching.MatchRecord{
			RawID:           "CSC_000001",
			VarietyOriginal: variety,
			VarietyClean:    clean,
			CropOriginal:    crop,
			Status:          matching.StatusMatched,
			SimilarityScore: 100,
		},
		AnalysisResult: &enrichment.VarietyAnalysis{
			VarietyIdentification: enrichment.VarietyIdentification{
				VarietyName: variety,
				CropType:    crop,
			},
		},
		EnrichmentTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestGeneratePhaseEndToEnd(t *testing.T) {
	run, err := NewRunDir(t.TempDir())
	require.NoError(t, err)

	batchDir := run.Analysis(batchesSubdir)
	_, err = enrichment.SaveBatch(batchDir, 1, []enrichment.EnrichedRecord{
		enrichedFixture("DBGS-54", "dbgs 54", "bitter gourd"),
		enrichedFixture("DBGS-54", "dbgs 54", "bitter gourd"),
		enrichedFixture("Pusa Basmati 1", "pusa basmati 1", "rice"),
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "final.db")

	stats := &enrichment.Stats{TotalVarieties: 3, Successful: 3}
	report, err := NewGeneratePhase(cfg, testLogger()).Run(run, stats)
	require.NoError(t, err)

	assert.Equal(t, 3, report.InitialRowCount)
	assert.Equal(t, 2, report.FinalRowCount)
	assert.Equal(t, 2, report.DuplicateAnalysis["Exact Match"])

	assert.FileExists(t, run.Final("final_seed_database.csv"))
	assert.FileExists(t, run.Final("final_seed_database.xlsx"))
	assert.FileExists(t, run.Reports("database_schema.json"))
	assert.FileExists(t, run.Reports("summary_report.json"))
	assert.FileExists(t, run.Analysis("pre_consolidation_data.json"))

	db, err := database.NewDB(cfg.DatabasePath)
	require.NoError(t, err)
	defer db.Close()

	varieties, total, err := db.ListVarieties(database.VarietyFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, varieties, 2)
	assert.Equal(t, "STS_000001", varieties[0].VarietyID)

	stored, ok, err := db.LatestRunReport()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, stored.InitialRowCount)
}

func TestContextPhaseSkipsUnmatchedAndDuplicates(t *testing.T) {
	web := &stubSearchProvider{}
	builder := websearch.NewContextBuilder(web, web, testLogger())
	phase := NewContextPhase(builder, testLogger())

	run, err := NewRunDir(t.TempDir())
	require.NoError(t, err)

	matches := []matching.MatchRecord{
		{VarietyOriginal: "Pusa Basmati 1", CropOriginal: "Rice", Status: matching.StatusMatched},
		{VarietyOriginal: "pusa basmati 1", CropOriginal: "Rice", Status: matching.StatusMatched},
		{VarietyOriginal: "Lost Variety", CropOriginal: "Okra", Status: matching.StatusUnmatched},
	}

	contexts, err := phase.Run(context.Background(), run, matches)
	require.NoError(t, err)
	require.Len(t, contexts, 1)
	assert.Equal(t, "Pusa Basmati 1", contexts[0].VarietyInfo.VarietyName)

	loaded, err := websearch.LoadContexts(run.Analysis(contextsSubdir), testLogger())
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestEnrichPhaseWritesBatchFiles(t *testing.T) {
	run, err := NewRunDir(t.TempDir())
	require.NoError(t, err)

	// Context saved beforehand, as the context phase would.
	rc := &websearch.ResearchContext{
		VarietyInfo: websearch.VarietyInfo{VarietyName: "Pusa Basmati 1", CropName: "Rice"},
	}
	_, err = websearch.SaveContext(run.Analysis(contextsSubdir), rc)
	require.NoError(t, err)

	runner := enrichment.NewRunner(&stubSynth{}, 2, 100, testLogger())
	phase := NewEnrichPhase(runner, testLogger())

	matches := []matching.MatchRecord{
		{VarietyOriginal: "Pusa Basmati 1", CropOriginal: "Rice", Status: matching.StatusMatched},
	}
	stats, err := phase.Run(context.Background(), run, matches)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Successful)

	assert.FileExists(t, filepath.Join(run.Analysis(batchesSubdir), enrichment.BatchFilename(1)))
}
