package finaldb

import (
	"fmt"
	"testing"
)

func enrichedRecord(variety, crop string) map[string]any {
	return map[string]any{
		"original_data": map[string]any{
			"csc_variety_original": variety,
			"csc_crop_original":    crop,
		},
		"analysis_result": map[string]any{
			"stress_tolerance_profile": map[string]any{
				"drought_tolerance": map[string]any{"tolerance_level": "high"},
			},
			"evidence_quality_assessment": map[string]any{
				"reliability_score":     7.5,
				"peer_reviewed_sources": float64(5),
				"total_sources":         float64(12),
			},
		},
		"enrichment_timestamp": "2026-08-31T12:00:00Z",
	}
}

func TestMapBuildsFinalTable(t *testing.T) {
	records := []map[string]any{
		enrichedRecord("pusa basmati 1", "rice"),
		enrichedRecord("DBGS-54", "bitter gourd"),
	}

	table := NewMapper(nil).Map(records)

	if len(table.Columns) != 22 {
		t.Fatalf("expected 22 columns, got %d", len(table.Columns))
	}
	if table.Columns[0] != VarietyIDColumn {
		t.Errorf("first column = %q, want variety_id", table.Columns[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	first := table.Rows[0]
	if first["variety_id"] != "STS_000001" {
		t.Errorf("variety_id = %q", first["variety_id"])
	}
	if first["variety_name"] != "Pusa Basmati 1" {
		t.Errorf("variety_name = %q, want title-cased name", first["variety_name"])
	}
	if first["crop_type"] != "Rice" {
		t.Errorf("crop_type = %q", first["crop_type"])
	}
	if first["stress_tolerance_drought"] != "high" {
		t.Errorf("drought = %q", first["stress_tolerance_drought"])
	}
	if first["evidence_quality_score"] != "7.5" {
		t.Errorf("evidence score = %q", first["evidence_quality_score"])
	}
	if first["peer_reviewed_sources"] != "5" {
		t.Errorf("peer reviewed = %q", first["peer_reviewed_sources"])
	}
	if first["processing_timestamp"] != "2026-08-31T12:00:00Z" {
		t.Errorf("timestamp = %q", first["processing_timestamp"])
	}
}

func TestMapFillsAbsentPathsWithUnknown(t *testing.T) {
	table := NewMapper(nil).Map([]map[string]any{{}})

	row := table.Rows[0]
	for _, col := range []string{
		"variety_name", "approval_status", "stress_tolerance_heat",
		"genetic_markers", "principal_breeder", "total_sources",
	} {
		if row[col] != Unknown {
			t.Errorf("%s = %q, want Unknown", col, row[col])
		}
	}
	if row["variety_id"] != "STS_000001" {
		t.Errorf("variety_id = %q even for an empty record", row["variety_id"])
	}
}

func TestMapVarietyIDsUniqueAndIncreasing(t *testing.T) {
	records := make([]map[string]any, 250)
	for i := range records {
		records[i] = enrichedRecord(fmt.Sprintf("Variety %d", i), "Rice")
	}

	table := NewMapper(nil).Map(records)

	seen := make(map[string]bool)
	prev := ""
	for _, row := range table.Rows {
		id := row["variety_id"]
		if seen[id] {
			t.Fatalf("duplicate variety_id %s", id)
		}
		seen[id] = true
		if id <= prev {
			t.Fatalf("variety_id %s not strictly increasing after %s", id, prev)
		}
		prev = id
	}
	if table.Rows[249]["variety_id"] != "STS_000250" {
		t.Errorf("last id = %q", table.Rows[249]["variety_id"])
	}
}

func TestMapBlankAndNaNBecomeUnknown(t *testing.T) {
	rec := map[string]any{
		"original_data": map[string]any{
			"csc_variety_original": "   ",
			"csc_crop_original":    "nan",
		},
	}
	row := NewMapper(nil).Map([]map[string]any{rec}).Rows[0]

	if row["variety_name"] != Unknown {
		t.Errorf("blank variety = %q", row["variety_name"])
	}
	if row["crop_type"] != Unknown {
		t.Errorf("nan crop = %q", row["crop_type"])
	}
}
