package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"seedpipeline/finaldb"
)

// Variety is one row of the final variety table.
type Variety struct {
	VarietyID               string `json:"variety_id"`
	VarietyName             string `json:"variety_name"`
	CropType                string `json:"crop_type"`
	ApprovalStatus          string `json:"approval_status"`
	StressToleranceDrought  string `json:"stress_tolerance_drought"`
	StressToleranceHeat     string `json:"stress_tolerance_heat"`
	StressToleranceSalinity string `json:"stress_tolerance_salinity"`
	StressToleranceFlood    string `json:"stress_tolerance_flood"`
	StressToleranceDisease  string `json:"stress_tolerance_disease"`
	StressTolerancePest     string `json:"stress_tolerance_pest"`
	GeneticMarkers          string `json:"genetic_markers"`
	QTLInformation          string `json:"qtl_information"`
	YieldPotential          string `json:"yield_potential"`
	MaturityDays            string `json:"maturity_days"`
	DevelopmentInstitution  string `json:"development_institution"`
	PrincipalBreeder        string `json:"principal_breeder"`
	TestingLocations        string `json:"testing_locations"`
	CommercialAvailability  string `json:"commercial_availability"`
	EvidenceQualityScore    string `json:"evidence_quality_score"`
	PeerReviewedSources     string `json:"peer_reviewed_sources"`
	TotalSources            string `json:"total_sources"`
	ProcessingTimestamp     string `json:"processing_timestamp"`
}

// stressColumns whitelists the stress filter columns exposed to queries.
var stressColumns = map[string]bool{
	"stress_tolerance_drought":  true,
	"stress_tolerance_heat":     true,
	"stress_tolerance_salinity": true,
	"stress_tolerance_flood":    true,
	"stress_tolerance_disease":  true,
	"stress_tolerance_pest":     true,
}

// VarietyFilter narrows ListVarieties results. Zero values mean no filter.
type VarietyFilter struct {
	Crop        string
	StressField string // one of the stress_tolerance_* columns
	StressLevel string
	Search      string // substring match on variety name
	Limit       int
	Offset      int
}

// ReplaceFinalVarieties swaps the stored table for the given one in a
// single transaction.
func (db *DB) ReplaceFinalVarieties(table *finaldb.Table) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM final_varieties`); err != nil {
		return fmt.Errorf("failed to clear final varieties: %w", err)
	}

	cols := finaldb.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO final_varieties (%s) VALUES (%s)`,
		strings.Join(cols, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		args := make([]any, len(cols))
		for i, col := range cols {
			args[i] = row[col]
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert variety %s: %w", row[finaldb.VarietyIDColumn], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit final varieties: %w", err)
	}
	return nil
}

const varietySelect = `SELECT variety_id, variety_name, crop_type, approval_status,
	stress_tolerance_drought, stress_tolerance_heat, stress_tolerance_salinity,
	stress_tolerance_flood, stress_tolerance_disease, stress_tolerance_pest,
	genetic_markers, qtl_information, yield_potential, maturity_days,
	development_institution, principal_breeder, testing_locations,
	commercial_availability, evidence_quality_score, peer_reviewed_sources,
	total_sources, processing_timestamp
	FROM final_varieties`

func scanVariety(scanner interface{ Scan(...any) error }) (Variety, error) {
	var v Variety
	err := scanner.Scan(
		&v.VarietyID, &v.VarietyName, &v.CropType, &v.ApprovalStatus,
		&v.StressToleranceDrought, &v.StressToleranceHeat, &v.StressToleranceSalinity,
		&v.StressToleranceFlood, &v.StressToleranceDisease, &v.StressTolerancePest,
		&v.GeneticMarkers, &v.QTLInformation, &v.YieldPotential, &v.MaturityDays,
		&v.DevelopmentInstitution, &v.PrincipalBreeder, &v.TestingLocations,
		&v.CommercialAvailability, &v.EvidenceQualityScore, &v.PeerReviewedSources,
		&v.TotalSources, &v.ProcessingTimestamp,
	)
	return v, err
}

// ListVarieties returns the filtered page plus the unpaged total count.
func (db *DB) ListVarieties(filter VarietyFilter) ([]Variety, int, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.Crop != "" {
		where = append(where, "crop_type = ?")
		args = append(args, filter.Crop)
	}
	if filter.StressField != "" {
		if !stressColumns[filter.StressField] {
			return nil, 0, fmt.Errorf("unknown stress filter column %q", filter.StressField)
		}
		where = append(where, filter.StressField+" = ?")
		args = append(args, filter.StressLevel)
	}
	if filter.Search != "" {
		where = append(where, "variety_name LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM final_varieties`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count varieties: %w", err)
	}

	query := varietySelect + clause + " ORDER BY variety_id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list varieties: %w", err)
	}
	defer rows.Close()

	varieties := make([]Variety, 0)
	for rows.Next() {
		v, err := scanVariety(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan variety: %w", err)
		}
		varieties = append(varieties, v)
	}
	return varieties, total, rows.Err()
}

// GetVariety fetches one variety by id; ok is false when it is absent.
func (db *DB) GetVariety(varietyID string) (Variety, bool, error) {
	v, err := scanVariety(db.conn.QueryRow(varietySelect+` WHERE variety_id = ?`, varietyID))
	if err == sql.ErrNoRows {
		return Variety{}, false, nil
	}
	if err != nil {
		return Variety{}, false, fmt.Errorf("failed to get variety %s: %w", varietyID, err)
	}
	return v, true, nil
}

// CropCounts returns variety counts per crop type.
func (db *DB) CropCounts() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT crop_type, COUNT(*) FROM final_varieties GROUP BY crop_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count crops: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var crop string
		var n int
		if err := rows.Scan(&crop, &n); err != nil {
			return nil, err
		}
		counts[crop] = n
	}
	return counts, rows.Err()
}

// StressLevelCounts returns counts per level for one stress column.
func (db *DB) StressLevelCounts(column string) (map[string]int, error) {
	if !stressColumns[column] {
		return nil, fmt.Errorf("unknown stress column %q", column)
	}

	rows, err := db.conn.Query(fmt.Sprintf(
		`SELECT %s, COUNT(*) FROM final_varieties GROUP BY %s`, column, column))
	if err != nil {
		return nil, fmt.Errorf("failed to count stress levels: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

// SaveRunReport stores one run-summary report as JSON.
func (db *DB) SaveRunReport(report *finaldb.SummaryReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if _, err := db.conn.Exec(`INSERT INTO run_reports (report_json) VALUES (?)`, string(data)); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}
	return nil
}

// LatestRunReport returns the most recent run report, ok=false when none.
func (db *DB) LatestRunReport() (*finaldb.SummaryReport, bool, error) {
	var raw string
	err := db.conn.QueryRow(
		`SELECT report_json FROM run_reports ORDER BY id DESC LIMIT 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load run report: %w", err)
	}

	var report finaldb.SummaryReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, false, fmt.Errorf("failed to decode run report: %w", err)
	}
	return &report, true, nil
}
