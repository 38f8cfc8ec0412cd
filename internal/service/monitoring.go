package service

import (
	mm "motor_monitoring"

	"motor_monitoring/internal/health"
	"motor_monitoring/internal/state"
)

// MonitoringService serves the live state to the dashboard API.
type MonitoringService struct {
	store *state.Store
}

func NewMonitoringService(store *state.Store) *MonitoringService {
	return &MonitoringService{store: store}
}

// Current returns the combined live view: snapshot, connectivity, health.
func (s *MonitoringService) Current() Overview {
	snap, cs, h := s.store.View()
	return Overview{Sensors: snap, Connectivity: cs, Health: h}
}

// Health returns the latest health breakdown on its own.
func (s *MonitoringService) Health() mm.HealthBreakdown {
	_, _, h := s.store.View()
	return h
}

// Recommendations re-evaluates the rule list against the latest state.
// The list is cheap to derive, so it is never cached.
func (s *MonitoringService) Recommendations() []mm.Recommendation {
	_, cs, h := s.store.View()
	return health.Recommendations(h, cs)
}
