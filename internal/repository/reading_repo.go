package repository

import (
	"context"
	"database/sql"
	"time"

	mm "motor_monitoring"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `
		INSERT INTO sensor_readings (
			ts, esp_current, esp_voltage, esp_rpm, env_temp_c, env_humidity,
			plc_motor_temp, plc_motor_voltage, esp_connected, plc_connected,
			overall_health, electrical_health, thermal_health,
			mechanical_health, predictive_health, efficiency_score, power_kw
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRecentReadingsSQL = `
		SELECT id, ts, esp_current, esp_voltage, esp_rpm, env_temp_c,
			env_humidity, plc_motor_temp, plc_motor_voltage,
			esp_connected, plc_connected,
			overall_health, electrical_health, thermal_health,
			mechanical_health, predictive_health, efficiency_score, power_kw
		FROM sensor_readings
		WHERE ts >= ?
		ORDER BY ts DESC
	`
)

// Append inserts one reading. A zero Timestamp is stamped at write time.
func (r *ReadingSQLite) Append(ctx context.Context, rec mm.HistoricalReading) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		ts,
		rec.EspCurrent,
		rec.EspVoltage,
		rec.EspRPM,
		rec.EnvTempC,
		rec.EnvHumidity,
		rec.PlcMotorTemp,
		rec.PlcMotorVoltage,
		rec.EspConnected,
		rec.PlcConnected,
		rec.OverallScore,
		rec.ElectricalHealth,
		rec.ThermalHealth,
		rec.MechanicalHealth,
		rec.PredictiveHealth,
		rec.EfficiencyScore,
		rec.PowerKW,
	)
	return err
}

// Recent returns readings from the trailing window, newest first.
func (r *ReadingSQLite) Recent(ctx context.Context, window time.Duration) ([]mm.HistoricalReading, error) {
	cutoff := time.Now().UTC().Add(-window)

	rows, err := r.db.QueryContext(ctx, selectRecentReadingsSQL, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]mm.HistoricalReading, 0, 64)
	for rows.Next() {
		var (
			rec                             mm.HistoricalReading
			espCur, espVol, espRPM          sql.NullFloat64
			envTemp, envHum                 sql.NullFloat64
			plcTemp, plcVol                 sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Timestamp,
			&espCur, &espVol, &espRPM,
			&envTemp, &envHum,
			&plcTemp, &plcVol,
			&rec.EspConnected, &rec.PlcConnected,
			&rec.OverallScore, &rec.ElectricalHealth, &rec.ThermalHealth,
			&rec.MechanicalHealth, &rec.PredictiveHealth, &rec.EfficiencyScore,
			&rec.PowerKW,
		); err != nil {
			return nil, err
		}

		rec.Timestamp = rec.Timestamp.UTC()
		rec.EspCurrent = nullableFloat(espCur)
		rec.EspVoltage = nullableFloat(espVol)
		rec.EspRPM = nullableFloat(espRPM)
		rec.EnvTempC = nullableFloat(envTemp)
		rec.EnvHumidity = nullableFloat(envHum)
		rec.PlcMotorTemp = nullableFloat(plcTemp)
		rec.PlcMotorVoltage = nullableFloat(plcVol)

		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
