package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidateDropsRedundantRows(t *testing.T) {
	records := []map[string]any{
		record("dbgs-54", "DBGS-54"),
		record("dbgs-54", "DBGS-54 "),
		record("sona masuri", "Sona Masuri"),
	}
	NewAnalyzer(nil).Analyze(records)

	result := NewConsolidator(nil).Consolidate(records)
	require.Len(t, result.Kept, 2)
	assert.Equal(t, 1, result.DroppedCount)
	assert.Equal(t, 1, result.DroppedByGroup[1])

	// First-encountered row of the group survives.
	records[0]["kept_marker"] = true
	assert.Equal(t, true, result.Kept[0]["kept_marker"])
}

func TestConsolidateKeepsFirstRowPerGroup(t *testing.T) {
	records := []map[string]any{
		record("dup", "AAA-1"),
		record("other", "Solo"),
		record("dup", "AAA-1"),
		record("dup", "AAA-1"),
	}
	NewAnalyzer(nil).Analyze(records)

	result := NewConsolidator(nil).Consolidate(records)
	require.Len(t, result.Kept, 2)
	assert.Equal(t, 2, result.DroppedCount)

	kept := result.Kept[0]["original_data"].(map[string]any)
	assert.Equal(t, "dup", kept["csc_variety_clean"])
}

func TestConsolidateNeverDropsRelatedOrUnique(t *testing.T) {
	records := []map[string]any{
		record("dbgs series", "DBGS-54"),
		record("dbgs series", "DBGS-61"),
		record("pusa basmati 1", "Pusa Basmati 1"),
	}
	NewAnalyzer(nil).Analyze(records)

	result := NewConsolidator(nil).Consolidate(records)
	assert.Len(t, result.Kept, 3)
	assert.Zero(t, result.DroppedCount)
}

func TestConsolidateTypoGroupCollapses(t *testing.T) {
	records := []map[string]any{
		record("dbgs-54", "DBGS-54"),
		record("dbgs-54", "Bitter Gourd 54"),
	}
	NewAnalyzer(nil).Analyze(records)

	result := NewConsolidator(nil).Consolidate(records)
	require.Len(t, result.Kept, 1)
	assert.Equal(t, string(CategoryTypo), result.Kept[0][FieldCategory])
}

func TestConsolidateToleratesJSONNumericMatchID(t *testing.T) {
	// Records round-tripped through JSON carry float64 match ids.
	records := []map[string]any{
		{FieldMatchID: float64(1), FieldCategory: string(CategoryExactMatch)},
		{FieldMatchID: float64(1), FieldCategory: string(CategoryExactMatch)},
	}

	result := NewConsolidator(nil).Consolidate(records)
	assert.Len(t, result.Kept, 1)
	assert.Equal(t, 1, result.DroppedCount)
}
