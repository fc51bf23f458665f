package matching

import (
	"log/slog"

	"seedpipeline/ingest"
)

// MatchStatus is the outcome of matching one left-dataset record.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "MATCHED"
	StatusUnmatched MatchStatus = "UNMATCHED"
)

// MatchRecord is the per-CSC-row matching result. Every source row yields
// exactly one MatchRecord; rows are never dropped at this stage.
type MatchRecord struct {
	RawID           string `json:"csc_raw_id"`
	VarietyOriginal string `json:"csc_variety_original"`
	VarietyClean    string `json:"csc_variety_clean"`
	CropOriginal    string `json:"csc_crop_original"`
	CropClean       string `json:"csc_crop_clean"`
	Year            *int   `json:"csc_year,omitempty"`

	Status          MatchStatus `json:"match_status"`
	SimilarityScore int         `json:"similarity_score"`
	Confidence      Confidence  `json:"match_confidence"`

	MatchedRawID           string `json:"seednet_raw_id,omitempty"`
	MatchedVarietyOriginal string `json:"seednet_variety_original,omitempty"`
	MatchedVarietyClean    string `json:"seednet_variety_clean,omitempty"`
	MatchedCropOriginal    string `json:"seednet_crop_original,omitempty"`
	MatchedCropClean       string `json:"seednet_crop_clean,omitempty"`

	ManualReviewNeeded bool           `json:"manual_review_needed"`
	ReviewPriority     ReviewPriority `json:"review_priority"`
}

// Matcher finds the best SeedNet candidate for each CSC record using
// crop-scoped candidate pools and an edit-distance ratio.
type Matcher struct {
	threshold int
	stemmer   *CropStemmer
	logger    *slog.Logger
}

// NewMatcher creates a matcher with the given MATCHED threshold (0-100).
func NewMatcher(threshold int, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		threshold: threshold,
		stemmer:   NewCropStemmer(),
		logger:    logger,
	}
}

// Match produces exactly one MatchRecord per left record. Candidates are
// restricted to right records whose stemmed crop key matches; an empty pool
// falls back to the full right dataset rather than failing. The first
// candidate at the maximum score wins, and candidate order is the right
// dataset's ingestion order, so results are deterministic.
func (m *Matcher) Match(left, right []ingest.SourceRecord) []MatchRecord {
	pools := make(map[string][]*ingest.SourceRecord)
	for i := range right {
		key := m.stemmer.Key(right[i].CropClean)
		pools[key] = append(pools[key], &right[i])
	}

	results := make([]MatchRecord, 0, len(left))
	matched := 0
	for i := range left {
		rec := m.matchOne(&left[i], pools, right)
		if rec.Status == StatusMatched {
			matched++
		}
		results = append(results, rec)
	}

	m.logger.Info("fuzzy matching complete",
		"total", len(results), "matched", matched, "unmatched", len(results)-matched,
		"threshold", m.threshold)
	return results
}

func (m *Matcher) matchOne(left *ingest.SourceRecord, pools map[string][]*ingest.SourceRecord, right []ingest.SourceRecord) MatchRecord {
	rec := MatchRecord{
		RawID:           left.RawID,
		VarietyOriginal: left.VarietyOriginal,
		VarietyClean:    left.VarietyClean,
		CropOriginal:    left.CropOriginal,
		CropClean:       left.CropClean,
		Year:            left.Year,
	}

	pool := pools[m.stemmer.Key(left.CropClean)]
	if len(pool) == 0 {
		// Fall back to the full right-side pool rather than failing.
		pool = make([]*ingest.SourceRecord, 0, len(right))
		for i := range right {
			pool = append(pool, &right[i])
		}
	}

	var best *ingest.SourceRecord
	bestScore := -1
	for _, cand := range pool {
		// Strict greater-than keeps the first candidate at the maximum score.
		if score := Ratio(left.VarietyClean, cand.VarietyClean); score > bestScore {
			bestScore = score
			best = cand
		}
	}

	if best != nil && bestScore >= m.threshold {
		rec.Status = StatusMatched
		rec.SimilarityScore = bestScore
		rec.MatchedRawID = best.RawID
		rec.MatchedVarietyOriginal = best.VarietyOriginal
		rec.MatchedVarietyClean = best.VarietyClean
		rec.MatchedCropOriginal = best.CropOriginal
		rec.MatchedCropClean = best.CropClean
	} else {
		rec.Status = StatusUnmatched
		rec.SimilarityScore = 0
	}

	rec.Confidence = ClassifyConfidence(rec.SimilarityScore)
	rec.ManualReviewNeeded = rec.Status == StatusUnmatched || rec.SimilarityScore < 95
	rec.ReviewPriority = AssignReviewPriority(rec.Status, rec.SimilarityScore)
	return rec
}

// Threshold returns the configured MATCHED threshold.
func (m *Matcher) Threshold() int {
	return m.threshold
}
