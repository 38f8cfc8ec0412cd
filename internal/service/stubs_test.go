package service

import (
	"context"
	"sync"
	"time"

	mm "motor_monitoring"

	"motor_monitoring/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.Get("error")
}

// memReadingRepo is an in-memory repository.ReadingRepo.
type memReadingRepo struct {
	mu         sync.Mutex
	appended   []mm.HistoricalReading
	recent     []mm.HistoricalReading
	appendErr  error
	recentErr  error
	lastWindow time.Duration
}

func (m *memReadingRepo) Append(ctx context.Context, r mm.HistoricalReading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, r)
	return nil
}

func (m *memReadingRepo) Recent(ctx context.Context, window time.Duration) ([]mm.HistoricalReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastWindow = window
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.recent, nil
}

// memAlertRepo is an in-memory repository.AlertRepo with real dedup
// semantics so the window property can be tested end to end.
type memAlertRepo struct {
	mu       sync.Mutex
	alerts   []mm.MaintenanceAlert
	dedupErr error
}

func (m *memAlertRepo) Append(ctx context.Context, a mm.MaintenanceAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, a)
	return nil
}

func (m *memAlertRepo) HasRecentUnacknowledged(ctx context.Context, alertType string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dedupErr != nil {
		return false, m.dedupErr
	}
	for _, a := range m.alerts {
		if a.Type == alertType && !a.Acknowledged && !a.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAlertRepo) ListUnacknowledged(ctx context.Context, limit int) ([]mm.MaintenanceAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mm.MaintenanceAlert
	for _, a := range m.alerts {
		if !a.Acknowledged {
			out = append(out, a)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memAlertRepo) Acknowledge(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].Acknowledged = true
			return true, nil
		}
	}
	return false, nil
}

// recordBroadcaster captures broadcast events for assertions.
type recordBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	event string
	data  any
}

func (b *recordBroadcaster) Broadcast(event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{event: event, data: data})
}

func (b *recordBroadcaster) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (b *recordBroadcaster) last(event string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].event == event {
			return b.events[i].data, true
		}
	}
	return nil, false
}

// stubReader fakes the controller register reader.
type stubReader struct {
	ReadFn func() (mm.ControllerReading, error)
}

func (r *stubReader) Read() (mm.ControllerReading, error) { return r.ReadFn() }

func fptr(v float64) *float64 { return &v }

func controllerReading(voltage, temp float64) mm.ControllerReading {
	return mm.ControllerReading{VoltageV: voltage, TempC: temp, At: time.Now().UTC()}
}
