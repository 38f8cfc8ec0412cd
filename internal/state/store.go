// Package state owns the single shared mutable container the three
// scheduler loops work against: the latest sensor snapshot, per-device
// connectivity and the most recent health breakdown.
//
// Every mutation goes through one of the methods below under a single
// mutex. Critical sections are short and never perform I/O; device and
// persistence reads happen outside and are merged back in.
package state

import (
	"sync"
	"time"

	mm "motor_monitoring"
)

// Transition records one edge-triggered connectivity loss found by a sweep.
type Transition struct {
	Device  string        // DeviceESP or DevicePLC
	Elapsed time.Duration // time since the device was last seen
}

// Store is the mutex-guarded shared state container.
type Store struct {
	espTimeout time.Duration
	plcTimeout time.Duration

	mu       sync.RWMutex
	snapshot mm.SensorSnapshot
	status   mm.ConnectivityStatus
	health   mm.HealthBreakdown
	hasData  bool
}

// New builds a store with both devices initially disconnected.
func New(espTimeout, plcTimeout time.Duration) *Store {
	return &Store{
		espTimeout: espTimeout,
		plcTimeout: plcTimeout,
		health: mm.HealthBreakdown{
			Status:      "No Data",
			StatusClass: "secondary",
			Issues:      map[string][]string{},
		},
	}
}

// ApplySensorPatch merges a parsed push payload into the snapshot, marks
// the ESP connected and refreshes its last-seen timestamp. Returns a copy
// of the combined snapshot for persistence and broadcast.
func (s *Store) ApplySensorPatch(p mm.SensorPatch, now time.Time) mm.SensorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.EspCurrent != nil {
		s.snapshot.EspCurrent = p.EspCurrent
	}
	if p.EspVoltage != nil {
		s.snapshot.EspVoltage = p.EspVoltage
	}
	if p.EspRPM != nil {
		s.snapshot.EspRPM = p.EspRPM
	}
	if p.EnvTempC != nil {
		s.snapshot.EnvTempC = p.EnvTempC
	}
	if p.EnvHumidity != nil {
		s.snapshot.EnvHumidity = p.EnvHumidity
	}
	if p.EnvTempF != nil {
		s.snapshot.EnvTempF = p.EnvTempF
	}
	if p.HeatIndexC != nil {
		s.snapshot.HeatIndexC = p.HeatIndexC
	}
	if p.HeatIndexF != nil {
		s.snapshot.HeatIndexF = p.HeatIndexF
	}

	// Relay and alarm states always arrive with a defaulted value.
	s.snapshot.Relay1Status = strPtr(p.Relay1Status)
	s.snapshot.Relay2Status = strPtr(p.Relay2Status)
	s.snapshot.Relay3Status = strPtr(p.Relay3Status)
	s.snapshot.CombinedStatus = strPtr(p.CombinedStatus)

	t := now.UTC()
	s.status.EspConnected = true
	s.status.EspLastSeen = &t
	s.status.LastUpdate = &t
	s.hasData = true

	return s.snapshot
}

// ApplyControllerReading merges a successful poll into the snapshot and
// refreshes the controller's liveness.
func (s *Store) ApplyControllerReading(r mm.ControllerReading, now time.Time) mm.SensorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	temp, volts := r.TempC, r.VoltageV
	s.snapshot.PlcMotorTemp = &temp
	s.snapshot.PlcMotorVoltage = &volts

	t := now.UTC()
	s.status.PlcConnected = true
	s.status.PlcLastSeen = &t
	s.status.LastUpdate = &t
	s.hasData = true

	return s.snapshot
}

// MarkControllerDown clears the controller-owned fields after a failed
// poll. Returns true only on the connected→disconnected edge so the caller
// can log the loss once.
func (s *Store) MarkControllerDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.status.PlcConnected
	s.status.PlcConnected = false
	s.snapshot.PlcMotorTemp = nil
	s.snapshot.PlcMotorVoltage = nil
	return was
}

// Sweep checks both device timeouts and downgrades devices whose last-seen
// timestamp is older than their timeout. Edge-triggered: a device already
// marked disconnected never re-fires. On a transition the fields owned by
// that device are reset to absent.
func (s *Store) Sweep(now time.Time) []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transitions []Transition

	if s.status.EspConnected && s.status.EspLastSeen != nil {
		if elapsed := now.Sub(*s.status.EspLastSeen); elapsed > s.espTimeout {
			s.status.EspConnected = false
			s.clearESPFieldsLocked()
			transitions = append(transitions, Transition{Device: mm.DeviceESP, Elapsed: elapsed})
		}
	}
	if s.status.PlcConnected && s.status.PlcLastSeen != nil {
		if elapsed := now.Sub(*s.status.PlcLastSeen); elapsed > s.plcTimeout {
			s.status.PlcConnected = false
			s.snapshot.PlcMotorTemp = nil
			s.snapshot.PlcMotorVoltage = nil
			transitions = append(transitions, Transition{Device: mm.DevicePLC, Elapsed: elapsed})
		}
	}

	return transitions
}

// SetHealth swaps in the breakdown produced by the latest scoring cycle.
func (s *Store) SetHealth(h mm.HealthBreakdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = h
}

// View returns copies of the snapshot, connectivity and latest health.
// Pointer fields in the snapshot are only ever replaced wholesale, never
// written through, so sharing them with callers is safe.
func (s *Store) View() (mm.SensorSnapshot, mm.ConnectivityStatus, mm.HealthBreakdown) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.status, s.health
}

// HasData reports whether any reading has ever been merged in. The scoring
// cycle idles until the first reading arrives.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasData
}

func (s *Store) clearESPFieldsLocked() {
	s.snapshot.EspCurrent = nil
	s.snapshot.EspVoltage = nil
	s.snapshot.EspRPM = nil
	s.snapshot.EnvTempC = nil
	s.snapshot.EnvHumidity = nil
	s.snapshot.EnvTempF = nil
	s.snapshot.HeatIndexC = nil
	s.snapshot.HeatIndexF = nil
	s.snapshot.Relay1Status = nil
	s.snapshot.Relay2Status = nil
	s.snapshot.Relay3Status = nil
	s.snapshot.CombinedStatus = nil
}

func strPtr(v string) *string { return &v }
