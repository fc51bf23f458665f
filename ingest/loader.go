package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a header-first tabular input. Rows are padded/truncated to the
// header width so column lookups by index are always safe.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the index of an exactly named column, or -1.
// Lookup is exact-match and case-sensitive.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// LoadTable reads a CSV or XLSX file into a Table. The format is chosen by
// file extension; the first row is always treated as the header.
func LoadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xlsm":
		return loadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported table format: %s", path)
	}
}

func loadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are padded below

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty CSV file: %s", path)
	}

	return buildTable(all), nil
}

func loadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file: %s", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet %q in Excel file: %s", sheetName, path)
	}

	return buildTable(rows), nil
}

func buildTable(all [][]string) *Table {
	headers := all[0]
	width := len(headers)

	rows := make([][]string, 0, len(all)-1)
	for _, r := range all[1:] {
		row := make([]string, width)
		copy(row, r)
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}
}
