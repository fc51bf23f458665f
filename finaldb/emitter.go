package finaldb

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"seedpipeline/enrichment"
)

// SummaryReport is the per-run JSON report emitted next to the final table.
type SummaryReport struct {
	Timestamp         string             `json:"timestamp"`
	InitialRowCount   int                `json:"initial_row_count"`
	FinalRowCount     int                `json:"final_row_count"`
	DuplicateAnalysis map[string]int     `json:"duplicate_analysis"`
	AmbiguousGroups   int                `json:"ambiguous_groups"`
	Enrichment        *enrichment.Stats  `json:"enrichment_stats,omitempty"`
	Metadata          ProcessingMetadata `json:"processing_metadata"`
}

type ProcessingMetadata struct {
	DataSource     string `json:"data_source"`
	OutputLocation string `json:"output_location"`
	Version        string `json:"processing_version"`
}

// Emitter writes the final artifacts. All writes are atomic: content goes
// to a temp file in the target directory first and is renamed into place,
// so a failed run never leaves a truncated artifact under the published
// name.
type Emitter struct {
	logger *slog.Logger
}

func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{logger: logger}
}

// WriteCSV emits the table as CSV at path.
func (e *Emitter) WriteCSV(path string, table *Table) error {
	return e.atomicWrite(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write(table.Columns); err != nil {
			return err
		}
		for _, row := range table.Rows {
			cells := make([]string, len(table.Columns))
			for i, col := range table.Columns {
				cells[i] = row[col]
			}
			if err := w.Write(cells); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// WriteXLSX emits the table as a styled workbook at path.
func (e *Emitter) WriteXLSX(path string, table *Table) error {
	return e.atomicWrite(path, func(tmp string) error {
		f := excelize.NewFile()
		defer f.Close()

		sheet := "Final Varieties"
		index, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}

		for i, col := range table.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, col)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		for rowIdx, row := range table.Rows {
			for colIdx, col := range table.Columns {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(sheet, cell, row[col])
			}
		}
		for i := range table.Columns {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(sheet, col, col, 22)
		}

		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")
		return f.SaveAs(tmp)
	})
}

// WriteSchemaDoc emits the column-documentation JSON at path.
func (e *Emitter) WriteSchemaDoc(path string) error {
	return e.writeJSON(path, SchemaDoc)
}

// WriteSummaryReport emits the run-summary JSON at path.
func (e *Emitter) WriteSummaryReport(path string, report *SummaryReport) error {
	if report.Timestamp == "" {
		report.Timestamp = time.Now().Format(time.RFC3339)
	}
	return e.writeJSON(path, report)
}

// WritePreConsolidation persists the pre-consolidation record set for
// audit, so dropped duplicate rows stay traceable by match_id.
func (e *Emitter) WritePreConsolidation(path string, records []map[string]any) error {
	return e.writeJSON(path, records)
}

func (e *Emitter) writeJSON(path string, v any) error {
	return e.atomicWrite(path, func(tmp string) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal: %w", err)
		}
		return os.WriteFile(tmp, data, 0o644)
	})
}

// atomicWrite runs write against a temp path, then renames into place.
func (e *Emitter) atomicWrite(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish %s: %w", filepath.Base(path), err)
	}

	e.logger.Info("artifact written", "path", path)
	return nil
}
