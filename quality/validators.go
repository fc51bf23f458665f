package quality

import (
	"fmt"
	"strings"

	apperrors "seedpipeline/errors"
	"seedpipeline/finaldb"
	"seedpipeline/ingest"
	"seedpipeline/matching"
)

// ValidateRawIDs checks that generated raw ids are unique within a dataset.
// A collision is a logic bug, fatal before any downstream write.
func ValidateRawIDs(records []ingest.SourceRecord) error {
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		if rec.RawID == "" {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("record %d has an empty raw id", i), nil)
		}
		if prev, dup := seen[rec.RawID]; dup {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("raw id %s assigned to records %d and %d", rec.RawID, prev, i), nil)
		}
		seen[rec.RawID] = i
	}
	return nil
}

// ValidateMatchCoverage checks the matched/unmatched partition is total:
// exactly one match record per source row, keyed by raw id.
func ValidateMatchCoverage(sources []ingest.SourceRecord, matches []matching.MatchRecord) error {
	if len(sources) != len(matches) {
		return apperrors.NewDataValidationError(
			fmt.Sprintf("match coverage broken: %d source rows, %d match records",
				len(sources), len(matches)), nil)
	}

	matched := make(map[string]bool, len(matches))
	for _, m := range matches {
		if matched[m.RawID] {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("raw id %s has multiple match records", m.RawID), nil)
		}
		matched[m.RawID] = true
	}
	for _, src := range sources {
		if !matched[src.RawID] {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("source row %s has no match record", src.RawID), nil)
		}
	}
	return nil
}

// ValidateReviewFlags checks that every unmatched or sub-95 record carries
// the manual-review flag.
func ValidateReviewFlags(matches []matching.MatchRecord) error {
	for _, m := range matches {
		needsReview := m.Status == matching.StatusUnmatched || m.SimilarityScore < 95
		if needsReview && !m.ManualReviewNeeded {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("record %s (score %d, status %s) missing manual review flag",
					m.RawID, m.SimilarityScore, m.Status), nil)
		}
	}
	return nil
}

// ValidateVarietyIDs checks that emitted variety ids are present, unique
// and strictly increasing in final row order.
func ValidateVarietyIDs(table *finaldb.Table) error {
	seen := make(map[string]bool, len(table.Rows))
	prev := ""
	for i, row := range table.Rows {
		id := row[finaldb.VarietyIDColumn]
		if !strings.HasPrefix(id, "STS_") {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("row %d has malformed variety id %q", i, id), nil)
		}
		if seen[id] {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("variety id %s emitted twice", id), nil)
		}
		seen[id] = true
		if id <= prev {
			return apperrors.NewDataValidationError(
				fmt.Sprintf("variety id %s out of order after %s", id, prev), nil)
		}
		prev = id
	}
	return nil
}
