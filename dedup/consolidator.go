package dedup

import "log/slog"

// ConsolidationResult reports what the consolidation pass kept and dropped.
type ConsolidationResult struct {
	Kept           []map[string]any
	DroppedCount   int
	DroppedByGroup map[int]int // match_id -> rows dropped
}

// Consolidator removes redundant rows from duplicate groups. Only groups
// classified Exact Match or Typo/Formatting Issue lose rows; Related but
// Distinct and Unique records always survive.
type Consolidator struct {
	logger *slog.Logger
}

func NewConsolidator(logger *slog.Logger) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{logger: logger}
}

// Consolidate keeps the first-encountered row per redundant match_id, in
// original row order, and drops the rest. Input records must already carry
// the fields written by Analyzer.Analyze.
func (c *Consolidator) Consolidate(records []map[string]any) ConsolidationResult {
	result := ConsolidationResult{
		Kept:           make([]map[string]any, 0, len(records)),
		DroppedByGroup: make(map[int]int),
	}
	seen := make(map[int]bool)
	for _, rec := range records {
		if !redundant(rec) {
			result.Kept = append(result.Kept, rec)
			continue
		}
		id, ok := matchID(rec)
		if !ok || id == UnmatchedID {
			result.Kept = append(result.Kept, rec)
			continue
		}
		if seen[id] {
			result.DroppedCount++
			result.DroppedByGroup[id]++
			continue
		}
		seen[id] = true
		result.Kept = append(result.Kept, rec)
	}

	c.logger.Info("consolidation complete",
		"input", len(records), "kept", len(result.Kept), "dropped", result.DroppedCount)
	return result
}

// redundant reports whether the record's category allows dropping siblings.
func redundant(rec map[string]any) bool {
	cat, _ := rec[FieldCategory].(string)
	return cat == string(CategoryExactMatch) || cat == string(CategoryTypo)
}

// matchID reads the match id, tolerating the numeric types JSON decoding
// can produce.
func matchID(rec map[string]any) (int, bool) {
	switch v := rec[FieldMatchID].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
