package matching

// Confidence buckets a similarity score. Ordering: VERY_LOW < LOW < MEDIUM < HIGH.
type Confidence string

const (
	ConfidenceHigh    Confidence = "HIGH"
	ConfidenceMedium  Confidence = "MEDIUM"
	ConfidenceLow     Confidence = "LOW"
	ConfidenceVeryLow Confidence = "VERY_LOW"
)

// ReviewPriority drives the manual-review triage queue.
type ReviewPriority string

const (
	PriorityHigh   ReviewPriority = "HIGH"
	PriorityMedium ReviewPriority = "MEDIUM"
	PriorityLow    ReviewPriority = "LOW"
)

// ClassifyConfidence is a pure function of the similarity score. It is
// independent of the match threshold: a MATCHED record at 85 is MEDIUM and
// still flagged for review.
func ClassifyConfidence(score int) Confidence {
	switch {
	case score >= 95:
		return ConfidenceHigh
	case score >= 80:
		return ConfidenceMedium
	case score >= 60:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// Rank maps a confidence bucket onto its position in the ordering, for
// monotonicity checks and sorting.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// AssignReviewPriority assigns the triage priority for a match record:
// unmatched rows first, then anything under 90.
func AssignReviewPriority(status MatchStatus, score int) ReviewPriority {
	if status == StatusUnmatched {
		return PriorityHigh
	}
	if score < 90 {
		return PriorityMedium
	}
	return PriorityLow
}
