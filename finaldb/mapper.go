package finaldb

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is the final variety table: fixed column order, string cells.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Mapper projects consolidated enriched records onto the final schema.
type Mapper struct {
	titler cases.Caser
	logger *slog.Logger
}

func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{
		titler: cases.Title(language.English),
		logger: logger,
	}
}

// titleCased columns get consistent casing applied during mapping.
var titleCased = map[string]bool{
	"variety_name": true,
	"crop_type":    true,
}

// Map builds the final table. Every record yields exactly one row; absent
// source paths fill with Unknown, and variety ids run STS_000001 upward in
// row order.
func (m *Mapper) Map(records []map[string]any) *Table {
	table := &Table{
		Columns: Columns(),
		Rows:    make([]map[string]string, 0, len(records)),
	}

	for i, rec := range records {
		row := make(map[string]string, len(table.Columns))
		row[VarietyIDColumn] = fmt.Sprintf("STS_%06d", i+1)
		for _, mapping := range Mappings {
			value := m.cellValue(rec, mapping.SourcePath)
			if titleCased[mapping.Target] && value != Unknown {
				value = m.titler.String(value)
			}
			row[mapping.Target] = value
		}
		table.Rows = append(table.Rows, row)
	}

	m.logger.Info("final schema mapped",
		"rows", len(table.Rows), "columns", len(table.Columns))
	return table
}

func (m *Mapper) cellValue(rec map[string]any, path string) string {
	v, ok := resolvePath(rec, path)
	if !ok || v == nil {
		return Unknown
	}
	switch value := v.(type) {
	case string:
		value = strings.TrimSpace(value)
		if value == "" || strings.EqualFold(value, "nan") {
			return Unknown
		}
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

// resolvePath descends a dotted field path through nested objects.
func resolvePath(rec map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = rec
	for _, part := range parts {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
