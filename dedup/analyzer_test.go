package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(cleanVariety, identifiedName string) map[string]any {
	rec := map[string]any{
		"original_data": map[string]any{
			"csc_variety_clean":    cleanVariety,
			"csc_variety_original": identifiedName,
		},
	}
	if identifiedName != "" {
		rec["analysis_result"] = map[string]any{
			"variety_identification": map[string]any{
				"variety_name": identifiedName,
			},
		}
	}
	return rec
}

func TestAnalyzeExactMatchGroup(t *testing.T) {
	records := []map[string]any{
		record("dbgs-54", "Bitter Gourd C.v. DBGS-54"),
		record("dbgs-54", "DBGS-54"),
	}

	groups := NewAnalyzer(nil).Analyze(records)
	require.Len(t, groups, 1)
	assert.Equal(t, CategoryExactMatch, groups[0].Category)
	assert.Equal(t, 1, groups[0].MatchID)
	assert.False(t, groups[0].Ambiguous)

	for _, rec := range records {
		assert.Equal(t, 1, rec[FieldMatchID])
		assert.Equal(t, string(CategoryExactMatch), rec[FieldCategory])
		assert.Equal(t, false, rec[FieldReviewRequired])
	}
}

func TestAnalyzeRelatedButDistinct(t *testing.T) {
	// Same standardized key, same prefix, different numeric ids: separate
	// varieties that must never be merged.
	records := []map[string]any{
		record("dbgs series", "DBGS-54"),
		record("dbgs series", "DBGS-61"),
	}

	groups := NewAnalyzer(nil).Analyze(records)
	require.Len(t, groups, 1)
	assert.Equal(t, CategoryRelatedDistinct, groups[0].Category)
	assert.False(t, groups[0].Ambiguous)
}

func TestAnalyzeTypoFormatting(t *testing.T) {
	// One member lost its prefix in formatting; numeric id agrees.
	records := []map[string]any{
		record("dbgs-54", "DBGS-54"),
		record("dbgs-54", "Bitter Gourd 54"),
	}

	groups := NewAnalyzer(nil).Analyze(records)
	require.Len(t, groups, 1)
	assert.Equal(t, CategoryTypo, groups[0].Category)
	assert.False(t, groups[0].Ambiguous)
}

func TestAnalyzeAmbiguousGroupFlagged(t *testing.T) {
	// Mixed prefixes and mixed numeric ids: the heuristic cannot decide, so
	// the group stays in the typo bucket but demands manual review.
	records := []map[string]any{
		record("mixed key", "DBGS-54"),
		record("mixed key", "XYZ-61"),
	}

	groups := NewAnalyzer(nil).Analyze(records)
	require.Len(t, groups, 1)
	assert.Equal(t, CategoryTypo, groups[0].Category)
	assert.True(t, groups[0].Ambiguous)
	for _, rec := range records {
		assert.Equal(t, true, rec[FieldReviewRequired])
	}
}

func TestAnalyzeSingletonsStayUnique(t *testing.T) {
	records := []map[string]any{
		record("pusa basmati 1", "Pusa Basmati 1"),
		record("sona masuri", "Sona Masuri"),
		{"unrelated": "no grouping key at all"},
	}

	groups := NewAnalyzer(nil).Analyze(records)
	assert.Empty(t, groups)
	for _, rec := range records {
		assert.Equal(t, UnmatchedID, rec[FieldMatchID])
		assert.Equal(t, string(CategoryUnique), rec[FieldCategory])
	}
}

func TestAnalyzeMatchIDsIncrementInFirstSeenOrder(t *testing.T) {
	records := []map[string]any{
		record("group a", "AAA-1"),
		record("group b", "BBB-2"),
		record("group a", "AAA-1"),
		record("group b", "BBB-2"),
	}

	groups := NewAnalyzer(nil).Analyze(records)
	require.Len(t, groups, 2)
	assert.Equal(t, "group a", groups[0].Key)
	assert.Equal(t, 1, groups[0].MatchID)
	assert.Equal(t, "group b", groups[1].Key)
	assert.Equal(t, 2, groups[1].MatchID)
}

func TestAnalyzeFallbackKeyField(t *testing.T) {
	// No standardized field: grouping falls back to the identified name.
	recs := []map[string]any{
		{"analysis_result": map[string]any{"variety_identification": map[string]any{"variety_name": "IR-64"}}},
		{"analysis_result": map[string]any{"variety_identification": map[string]any{"variety_name": "IR-64"}}},
	}

	groups := NewAnalyzer(nil).Analyze(recs)
	require.Len(t, groups, 1)
	assert.Equal(t, "IR-64", groups[0].Key)
	assert.Equal(t, CategoryExactMatch, groups[0].Category)
}

func TestCategoryHistogram(t *testing.T) {
	records := []map[string]any{
		record("dbgs-54", "DBGS-54"),
		record("dbgs-54", "DBGS-54"),
		record("sona masuri", "Sona Masuri"),
	}
	NewAnalyzer(nil).Analyze(records)

	hist := CategoryHistogram(records)
	assert.Equal(t, 2, hist[string(CategoryExactMatch)])
	assert.Equal(t, 1, hist[string(CategoryUnique)])
}
