package database

import (
	"database/sql"
	"fmt"
	"time"
)

const migrationsTableName = "schema_migrations"

// migration is one named, idempotent schema change.
type migration struct {
	name string
	stmt string
}

var migrations = []migration{
	{
		name: "create_final_varieties",
		stmt: `CREATE TABLE IF NOT EXISTS final_varieties (
			variety_id TEXT PRIMARY KEY,
			variety_name TEXT NOT NULL,
			crop_type TEXT NOT NULL,
			approval_status TEXT,
			stress_tolerance_drought TEXT,
			stress_tolerance_heat TEXT,
			stress_tolerance_salinity TEXT,
			stress_tolerance_flood TEXT,
			stress_tolerance_disease TEXT,
			stress_tolerance_pest TEXT,
			genetic_markers TEXT,
			qtl_information TEXT,
			yield_potential TEXT,
			maturity_days TEXT,
			development_institution TEXT,
			principal_breeder TEXT,
			testing_locations TEXT,
			commercial_availability TEXT,
			evidence_quality_score TEXT,
			peer_reviewed_sources TEXT,
			total_sources TEXT,
			processing_timestamp TEXT
		)`,
	},
	{
		name: "create_final_varieties_indexes",
		stmt: `CREATE INDEX IF NOT EXISTS idx_final_varieties_crop
			ON final_varieties(crop_type)`,
	},
	{
		name: "create_run_reports",
		stmt: `CREATE TABLE IF NOT EXISTS run_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			report_json TEXT NOT NULL
		)`,
	},
}

func (db *DB) migrate() error {
	for _, m := range migrations {
		applied, err := isMigrationApplied(db.conn, m.name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if _, err := db.conn.Exec(m.stmt); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
		if err := markMigrationApplied(db.conn, m.name); err != nil {
			return err
		}
	}
	return nil
}

func ensureMigrationTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, migrationsTableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

func isMigrationApplied(db *sql.DB, name string) (bool, error) {
	if err := ensureMigrationTable(db); err != nil {
		return false, err
	}

	var appliedAt sql.NullTime
	query := fmt.Sprintf(`SELECT applied_at FROM %s WHERE name = ?`, migrationsTableName)
	err := db.QueryRow(query, name).Scan(&appliedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}
	return appliedAt.Valid, nil
}

func markMigrationApplied(db *sql.DB, name string) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s(name, applied_at) VALUES(?, ?)`, migrationsTableName)
	if _, err := db.Exec(query, name, time.Now()); err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
	}
	return nil
}
