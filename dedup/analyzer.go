package dedup

import (
	"fmt"
	"log/slog"
	"strings"

	"seedpipeline/extractors"
)

// Category classifies a duplicate group.
type Category string

const (
	// CategoryUnique marks a record whose grouping key appears exactly once.
	CategoryUnique Category = "Unique"
	// CategoryExactMatch marks a group where every member carries the same
	// (prefix, numeric id) feature pair.
	CategoryExactMatch Category = "Exact Match"
	// CategoryRelatedDistinct marks a group sharing one prefix but spanning
	// multiple numeric ids. These are genuinely separate varieties and are
	// never merged.
	CategoryRelatedDistinct Category = "Related but Distinct"
	// CategoryTypo marks near-duplicates differing by formatting noise.
	CategoryTypo Category = "Typo/Formatting Issue"
)

// UnmatchedID is the match_id sentinel for records outside any duplicate group.
const UnmatchedID = -1

// Field names written back onto each analyzed record.
const (
	FieldMatchID        = "match_id"
	FieldCategory       = "duplicate_category"
	FieldReviewRequired = "duplicate_review_required"
)

// DefaultKeyFields is the ordered list of grouping-key fields. The first
// field present on a record wins; dotted names descend into nested objects.
var DefaultKeyFields = []string{
	"original_data.csc_variety_clean",
	"analysis_result.variety_identification.variety_name",
}

// DefaultFeatureFields is the ordered list of fields feature tokens are
// parsed from. Distinct from the grouping key: records grouped under one
// standardized key can still differ in their identified variety names, and
// that difference is what the classification inspects.
var DefaultFeatureFields = []string{
	"analysis_result.variety_identification.variety_name",
	"original_data.csc_variety_original",
}

// Group is one cluster of records sharing a grouping key.
type Group struct {
	Key      string
	Category Category
	MatchID  int
	Members  []int // original row indexes, in input order
	// Ambiguous is set when the group mixes both prefixes and numeric ids,
	// so the surface-token heuristic cannot tell typo from distinct variety.
	// Such groups keep the typo classification but require manual review.
	Ambiguous bool
}

// Analyzer groups records by standardized variety key and classifies each
// group by comparing the feature tokens of its members.
type Analyzer struct {
	keyFields     []string
	featureFields []string
	logger        *slog.Logger
}

// NewAnalyzer creates an analyzer using the default key and feature fields.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		keyFields:     DefaultKeyFields,
		featureFields: DefaultFeatureFields,
		logger:        logger,
	}
}

// Analyze assigns a category and match_id to every record, in place, and
// returns the multi-member groups. Records with no resolvable grouping key
// are treated as singletons. Match ids increment from 1 in first-occurrence
// order of each group's key; singletons keep UnmatchedID.
func (a *Analyzer) Analyze(records []map[string]any) []Group {
	byKey := make(map[string][]int)
	keyOrder := make([]string, 0)
	for i, rec := range records {
		key, ok := a.groupingKey(rec)
		if !ok {
			continue
		}
		if _, seen := byKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], i)
	}

	// Default everything to a singleton before group assignment so records
	// with a missing key are covered too.
	for _, rec := range records {
		rec[FieldMatchID] = UnmatchedID
		rec[FieldCategory] = string(CategoryUnique)
		rec[FieldReviewRequired] = false
	}

	groups := make([]Group, 0)
	matchID := 0
	ambiguous := 0
	for _, key := range keyOrder {
		members := byKey[key]
		if len(members) < 2 {
			continue
		}
		matchID++
		group := Group{Key: key, MatchID: matchID, Members: members}
		group.Category, group.Ambiguous = a.classify(records, members)
		if group.Ambiguous {
			ambiguous++
		}
		for _, idx := range members {
			records[idx][FieldMatchID] = group.MatchID
			records[idx][FieldCategory] = string(group.Category)
			records[idx][FieldReviewRequired] = group.Ambiguous
		}
		groups = append(groups, group)
	}

	a.logger.Info("duplicate analysis complete",
		"records", len(records), "groups", len(groups), "ambiguous_groups", ambiguous)
	return groups
}

// classify compares (prefix, numeric id) pairs across the group members.
func (a *Analyzer) classify(records []map[string]any, members []int) (Category, bool) {
	pairs := make(map[string]struct{})
	prefixes := make(map[string]struct{})
	numerics := make(map[string]struct{})
	for _, idx := range members {
		f := extractors.ParseVarietyName(a.featureName(records[idx]))
		pairs[f.GroupKey()] = struct{}{}
		prefixes[f.Prefix] = struct{}{}
		numerics[f.NumericID] = struct{}{}
	}

	switch {
	case len(pairs) == 1:
		return CategoryExactMatch, false
	case len(prefixes) == 1 && len(numerics) > 1:
		return CategoryRelatedDistinct, false
	default:
		// Mixed prefixes with mixed numeric ids cannot be resolved from
		// surface tokens alone; keep the record but force a human decision.
		ambiguous := len(prefixes) > 1 && len(numerics) > 1
		return CategoryTypo, ambiguous
	}
}

// featureName resolves the variety name feature tokens are parsed from,
// falling back to the grouping key when no feature field is present.
func (a *Analyzer) featureName(rec map[string]any) string {
	if s, ok := firstField(rec, a.featureFields); ok {
		return s
	}
	s, _ := a.groupingKey(rec)
	return s
}

// groupingKey resolves the first non-empty key field on the record.
func (a *Analyzer) groupingKey(rec map[string]any) (string, bool) {
	return firstField(rec, a.keyFields)
}

func firstField(rec map[string]any, fields []string) (string, bool) {
	for _, field := range fields {
		v, ok := lookupPath(rec, field)
		if !ok || v == nil {
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			s = fmt.Sprint(v)
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "nan") {
			continue
		}
		return s, true
	}
	return "", false
}

// lookupPath descends a dotted field path through nested map[string]any.
func lookupPath(rec map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = rec
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// CategoryHistogram counts records per assigned category, reading the
// fields Analyze wrote back. Records never analyzed count as Unique.
func CategoryHistogram(records []map[string]any) map[string]int {
	hist := make(map[string]int)
	for _, rec := range records {
		cat, _ := rec[FieldCategory].(string)
		if cat == "" {
			cat = string(CategoryUnique)
		}
		hist[cat]++
	}
	return hist
}
