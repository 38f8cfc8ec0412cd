package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	mm "motor_monitoring"

	"motor_monitoring/internal/repository"
)

const (
	defaultHistoryHours = 24
	maxHistoryHours     = 24 * 7
)

// HistoryService reads back the persisted timeseries.
type HistoryService struct {
	readings repository.ReadingRepo
}

func NewHistoryService(readings repository.ReadingRepo) *HistoryService {
	return &HistoryService{readings: readings}
}

// Recent returns readings from the trailing window, newest first.
// Out-of-range hours fall back to the 24h default.
func (s *HistoryService) Recent(ctx context.Context, hours int) ([]mm.HistoricalReading, error) {
	if hours <= 0 || hours > maxHistoryHours {
		hours = defaultHistoryHours
	}
	return s.readings.Recent(ctx, time.Duration(hours)*time.Hour)
}

var csvHeader = []string{
	"timestamp",
	"current_a", "voltage_v", "rpm", "ambient_temp_c", "humidity",
	"motor_temp_c", "motor_voltage_v",
	"esp_connected", "plc_connected",
	"overall_health", "electrical", "thermal", "mechanical", "predictive",
	"efficiency", "power_kw",
}

// ExportCSV streams the trailing window as CSV. Absent readings become
// empty cells, not zeros, so a spreadsheet does not mistake gaps for data.
func (s *HistoryService) ExportCSV(ctx context.Context, w io.Writer, hours int) error {
	rows, err := s.Recent(ctx, hours)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			csvFloat(r.EspCurrent), csvFloat(r.EspVoltage), csvFloat(r.EspRPM),
			csvFloat(r.EnvTempC), csvFloat(r.EnvHumidity),
			csvFloat(r.PlcMotorTemp), csvFloat(r.PlcMotorVoltage),
			strconv.FormatBool(r.EspConnected), strconv.FormatBool(r.PlcConnected),
			formatScore(r.OverallScore), formatScore(r.ElectricalHealth),
			formatScore(r.ThermalHealth), formatScore(r.MechanicalHealth),
			formatScore(r.PredictiveHealth), formatScore(r.EfficiencyScore),
			strconv.FormatFloat(r.PowerKW, 'f', 3, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
