package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadTableCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	payload := "variety_name,crop_name\nPusa Basmati 1,Rice\nDBGS-54,Bitter Gourd\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if len(table.Headers) != 2 || table.Headers[0] != "variety_name" {
		t.Errorf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if table.Rows[1][0] != "DBGS-54" {
		t.Errorf("unexpected cell: %q", table.Rows[1][0])
	}
}

func TestLoadTableCSVPadsRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	payload := "variety_name,crop_name,notes\nIR-64,Rice\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if len(table.Rows[0]) != 3 {
		t.Fatalf("row not padded to header width: %v", table.Rows[0])
	}
	if table.Rows[0][2] != "" {
		t.Errorf("padding cell = %q, want empty", table.Rows[0][2])
	}
}

func TestLoadTableExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "variety_name")
	f.SetCellValue(sheet, "B1", "crop_name")
	f.SetCellValue(sheet, "A2", "Pusa 12")
	f.SetCellValue(sheet, "B2", "Wheat")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save xlsx: %v", err)
	}
	f.Close()

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if table.ColumnIndex("crop_name") != 1 {
		t.Errorf("crop_name index = %d, want 1", table.ColumnIndex("crop_name"))
	}
	if table.Rows[0][0] != "Pusa 12" {
		t.Errorf("unexpected cell: %q", table.Rows[0][0])
	}
}

func TestLoadTableUnsupportedFormat(t *testing.T) {
	if _, err := LoadTable("input.parquet"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
