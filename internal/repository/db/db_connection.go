package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates the SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite tolerates a single writer poorly beyond one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TIMESTAMP NOT NULL,
    esp_current REAL,
    esp_voltage REAL,
    esp_rpm REAL,
    env_temp_c REAL,
    env_humidity REAL,
    plc_motor_temp REAL,
    plc_motor_voltage REAL,
    esp_connected BOOLEAN NOT NULL DEFAULT 0,
    plc_connected BOOLEAN NOT NULL DEFAULT 0,
    overall_health REAL NOT NULL,
    electrical_health REAL NOT NULL,
    thermal_health REAL NOT NULL,
    mechanical_health REAL NOT NULL,
    predictive_health REAL NOT NULL,
    efficiency_score REAL NOT NULL,
    power_kw REAL NOT NULL
);
`

const schemaSensorReadingsTSIndex = `
CREATE INDEX IF NOT EXISTS idx_sensor_readings_ts ON sensor_readings (ts);
`

const schemaMaintenanceAlerts = `
CREATE TABLE IF NOT EXISTS maintenance_alerts (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    alert_type TEXT NOT NULL,
    category TEXT NOT NULL,
    severity TEXT NOT NULL,
    priority TEXT NOT NULL,
    description TEXT NOT NULL,
    recommended_action TEXT NOT NULL,
    confidence REAL NOT NULL,
    acknowledged BOOLEAN NOT NULL DEFAULT 0
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// Rollback on panic to avoid leaving an open transaction.
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSensorReadings,
		schemaSensorReadingsTSIndex,
		schemaMaintenanceAlerts,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
