package extractors

import (
	"regexp"
	"strings"
)

// Unknown is the sentinel for any token that could not be parsed.
const Unknown = "Unknown"

// VarietyFeatures are the structured tokens parsed out of a canonical variety
// name, e.g. "Bitter Gourd C.v. DBGS-54" -> crop "Bitter Gourd", prefix
// "DBGS", numeric id "54", abbreviation "C.v.". A pure function of the name
// string; recomputed on demand, never persisted on its own.
type VarietyFeatures struct {
	CropName     string `json:"crop_name"`
	Prefix       string `json:"prefix"`
	NumericID    string `json:"numeric_id"`
	Abbreviation string `json:"abbreviation"`
}

var (
	numericIDPattern = regexp.MustCompile(`(\d+)`)
	prefixPattern    = regexp.MustCompile(`([A-Z]+)-`)
	abbrPattern      = regexp.MustCompile(`(?i)\b(c\.?v\.?|var\.)`)
	cropNamePattern  = regexp.MustCompile(`^[A-Za-z\s]+`)
)

// ParseVarietyName extracts the four feature tokens from a variety name.
// Every token defaults to Unknown when its pattern does not match; an empty
// name yields all four as Unknown without error.
func ParseVarietyName(name string) VarietyFeatures {
	features := VarietyFeatures{
		CropName:     Unknown,
		Prefix:       Unknown,
		NumericID:    Unknown,
		Abbreviation: Unknown,
	}
	if strings.TrimSpace(name) == "" {
		return features
	}

	// The numeric identifier is the strongest grouping key, extract it first.
	if m := numericIDPattern.FindStringSubmatch(name); m != nil {
		features.NumericID = m[1]
	}

	if m := prefixPattern.FindStringSubmatch(name); m != nil {
		features.Prefix = m[1]
	}

	if m := abbrPattern.FindStringSubmatch(name); m != nil {
		features.Abbreviation = m[1]
	}

	if m := cropNamePattern.FindString(name); m != "" {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			features.CropName = trimmed
		}
	}

	return features
}

// GroupKey is the (prefix, numeric id) pair used by duplicate classification.
func (f VarietyFeatures) GroupKey() string {
	return f.Prefix + "|" + f.NumericID
}
