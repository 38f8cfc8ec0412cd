package service

import (
	"context"
	"errors"
	"time"

	mm "motor_monitoring"

	"motor_monitoring/internal/ingest"
	"motor_monitoring/internal/logger"
	"motor_monitoring/internal/repository"
	"motor_monitoring/internal/state"
	"motor_monitoring/internal/ws"
)

// ErrEmptyPayload rejects an ingest request with no body at all. Individual
// malformed fields degrade to absent instead; only total absence is an error.
var ErrEmptyPayload = errors.New("empty sensor payload")

// TelemetryService handles readings pushed by the ESP sensor module.
type TelemetryService struct {
	store    *state.Store
	readings repository.ReadingRepo
	hub      Broadcaster
	log      *logger.Logger
}

func NewTelemetryService(store *state.Store, readings repository.ReadingRepo, hub Broadcaster, log *logger.Logger) *TelemetryService {
	return &TelemetryService{store: store, readings: readings, hub: hub, log: log}
}

// Ingest parses the 12-field payload, merges it into the shared snapshot,
// appends a historical record and broadcasts the updated snapshot.
// A persistence failure is logged, not returned: the live path must keep
// flowing and the next cycle overwrites the gap.
func (s *TelemetryService) Ingest(ctx context.Context, payload map[string]any) (mm.SensorSnapshot, error) {
	if len(payload) == 0 {
		return mm.SensorSnapshot{}, ErrEmptyPayload
	}

	patch := ingest.Parse(payload)
	snap := s.store.ApplySensorPatch(patch, time.Now())

	if err := s.readings.Append(ctx, s.buildRecord(snap)); err != nil {
		s.log.Errorw("reading_append_failed", "err", err)
	}

	s.hub.Broadcast(ws.EventSensorUpdate, snap)
	return snap, nil
}

// buildRecord flattens the snapshot plus the latest health breakdown into
// one timeseries row, deriving power from the best available voltage.
func (s *TelemetryService) buildRecord(snap mm.SensorSnapshot) mm.HistoricalReading {
	_, cs, h := s.store.View()
	return mm.HistoricalReading{
		EspCurrent:  snap.EspCurrent,
		EspVoltage:  snap.EspVoltage,
		EspRPM:      snap.EspRPM,
		EnvTempC:    snap.EnvTempC,
		EnvHumidity: snap.EnvHumidity,

		PlcMotorTemp:    snap.PlcMotorTemp,
		PlcMotorVoltage: snap.PlcMotorVoltage,

		EspConnected: cs.EspConnected,
		PlcConnected: cs.PlcConnected,

		OverallScore:     h.OverallScore,
		ElectricalHealth: h.ElectricalHealth,
		ThermalHealth:    h.ThermalHealth,
		MechanicalHealth: h.MechanicalHealth,
		PredictiveHealth: h.PredictiveHealth,
		EfficiencyScore:  h.EfficiencyScore,

		PowerKW: powerKW(snap),
	}
}

// powerKW is the instantaneous electrical power estimate in kilowatts.
// ESP voltage is preferred; the controller's register is the fallback.
func powerKW(snap mm.SensorSnapshot) float64 {
	v := snap.EspVoltage
	if v == nil {
		v = snap.PlcMotorVoltage
	}
	if v == nil || snap.EspCurrent == nil {
		return 0
	}
	return (*v * *snap.EspCurrent) / 1000.0
}
