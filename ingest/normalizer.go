package ingest

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	apperrors "seedpipeline/errors"
)

// SourceRecord is one cleaned row from either source dataset. It is immutable
// once created; RawID is assigned at ingestion and never reused or reassigned.
type SourceRecord struct {
	RawID           string         `json:"raw_id"`
	VarietyOriginal string         `json:"variety_original"`
	VarietyClean    string         `json:"variety_clean"`
	CropOriginal    string         `json:"crop_original"`
	CropClean       string         `json:"crop_clean"`
	Year            *int           `json:"year,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
}

// DatasetSpec names a source dataset and the ordered column aliases accepted
// for its logical fields. Aliases are tried in order; the first present column
// wins.
type DatasetSpec struct {
	Name           string
	IDPrefix       string
	VarietyAliases []string
	CropAliases    []string
	YearColumn     string // optional explicit year column
}

// CSCSpec describes the left dataset extracted from regulatory gazette documents.
var CSCSpec = DatasetSpec{
	Name:           "CSC",
	IDPrefix:       "CSC",
	VarietyAliases: []string{"variety_standardized", "crop_variety", "variety_name"},
	CropAliases:    []string{"crop_standardized", "crop", "crop_type"},
	YearColumn:     "extracted_year",
}

// SeedNetSpec describes the right dataset scraped from the government variety registry.
var SeedNetSpec = DatasetSpec{
	Name:           "SeedNet",
	IDPrefix:       "SDN",
	VarietyAliases: []string{"variety_name", "variety", "name"},
	CropAliases:    []string{"crop_name", "crop", "crop_type"},
}

var yearPattern = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

// Normalizer cleans one source dataset into comparable SourceRecords.
type Normalizer struct {
	spec   DatasetSpec
	logger *slog.Logger
}

// NewNormalizer creates a normalizer for the given dataset spec.
func NewNormalizer(spec DatasetSpec, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{spec: spec, logger: logger}
}

// Normalize assigns sequential raw IDs, resolves the variety/crop columns,
// cleans the fields and drops rows whose cleaned variety is empty or "nan".
// IDs are assigned over the full input before filtering, so surviving IDs are
// stable even when invalid rows are removed.
func (n *Normalizer) Normalize(t *Table) ([]SourceRecord, error) {
	varietyIdx, varietyCol, err := n.resolveColumn(t, n.spec.VarietyAliases, "variety")
	if err != nil {
		return nil, err
	}
	cropIdx, cropCol, err := n.resolveColumn(t, n.spec.CropAliases, "crop")
	if err != nil {
		return nil, err
	}
	n.logger.Info("resolved source columns",
		"dataset", n.spec.Name, "variety_column", varietyCol, "crop_column", cropCol)

	yearIdx := -1
	if n.spec.YearColumn != "" {
		yearIdx = t.ColumnIndex(n.spec.YearColumn)
	}

	records := make([]SourceRecord, 0, len(t.Rows))
	dropped := 0
	for i, row := range t.Rows {
		rec := SourceRecord{
			RawID:           fmt.Sprintf("%s_%06d", n.spec.IDPrefix, i+1),
			VarietyOriginal: row[varietyIdx],
			VarietyClean:    CleanString(row[varietyIdx]),
			CropOriginal:    row[cropIdx],
			CropClean:       CleanString(row[cropIdx]),
		}

		if rec.VarietyClean == "" || rec.VarietyClean == "nan" {
			dropped++
			continue
		}

		if yearIdx >= 0 {
			rec.Year = parseYear(row[yearIdx])
		} else {
			rec.Year = scanYear(t.Headers, row)
		}

		rec.Extra = extraColumns(t.Headers, row, varietyIdx, cropIdx)
		records = append(records, rec)
	}

	n.logger.Info("normalized source dataset",
		"dataset", n.spec.Name, "rows_in", len(t.Rows), "rows_out", len(records), "dropped", dropped)
	return records, nil
}

func (n *Normalizer) resolveColumn(t *Table, aliases []string, field string) (int, string, error) {
	for _, alias := range aliases {
		if idx := t.ColumnIndex(alias); idx >= 0 {
			return idx, alias, nil
		}
	}
	return -1, "", apperrors.NewSchemaError(
		fmt.Sprintf("no %s column found in %s data, tried %v, have %v",
			field, n.spec.Name, aliases, t.Headers), nil)
}

// CleanString trims whitespace, lowercases and NFC-normalizes a raw field.
// Cleaning an already-clean value is a no-op.
func CleanString(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// parseYear parses an explicit year value; invalid input yields nil, not an error.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Tolerate float-formatted years ("2014.0") from upstream exports.
	if dot := strings.IndexByte(s, '.'); dot > 0 {
		s = s[:dot]
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &y
}

// scanYear scans all columns in order and returns the first 19xx/20xx token.
func scanYear(headers []string, row []string) *int {
	for i := range headers {
		if m := yearPattern.FindString(row[i]); m != "" {
			y, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			return &y
		}
	}
	return nil
}

func extraColumns(headers []string, row []string, varietyIdx, cropIdx int) map[string]string {
	extra := make(map[string]string)
	for i, h := range headers {
		if i == varietyIdx || i == cropIdx {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			extra[h] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
