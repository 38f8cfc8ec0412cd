package service

import (
	"context"
	"errors"
	"testing"
	"time"

	mm "motor_monitoring"

	"motor_monitoring/internal/health"
	"motor_monitoring/internal/state"
	"motor_monitoring/internal/ws"
)

type schedFixture struct {
	sched    *SchedulerService
	store    *state.Store
	readings *memReadingRepo
	alerts   *memAlertRepo
	hub      *recordBroadcaster
	reader   *stubReader
}

func newSchedFixture() *schedFixture {
	store := state.New(30*time.Second, 60*time.Second)
	readings := &memReadingRepo{}
	alertRepo := &memAlertRepo{}
	hub := &recordBroadcaster{}
	reader := &stubReader{
		ReadFn: func() (mm.ControllerReading, error) {
			return controllerReading(23.9, 41.0), nil
		},
	}
	log := testLogger()
	sched := NewSchedulerService(
		store,
		readings,
		health.NewScorer(health.DefaultConfig()),
		reader,
		hub,
		NewAlertService(alertRepo, log),
		log,
		Intervals{},
	)
	return &schedFixture{sched: sched, store: store, readings: readings, alerts: alertRepo, hub: hub, reader: reader}
}

func TestScheduler_PollSuccessUpdatesStateAndBroadcasts(t *testing.T) {
	f := newSchedFixture()

	f.sched.pollOnce(context.Background())

	snap, cs, _ := f.store.View()
	if !cs.PlcConnected {
		t.Fatal("successful poll must mark PLC connected")
	}
	if snap.PlcMotorVoltage == nil || *snap.PlcMotorVoltage != 23.9 {
		t.Fatalf("snapshot motor voltage = %v, want 23.9", snap.PlcMotorVoltage)
	}
	if f.hub.count(ws.EventSensorUpdate) != 1 {
		t.Fatalf("sensor_update broadcasts = %d, want 1", f.hub.count(ws.EventSensorUpdate))
	}
}

func TestScheduler_PollFailureEmitsConnectionLostOnce(t *testing.T) {
	f := newSchedFixture()
	ctx := context.Background()

	f.sched.pollOnce(ctx) // connect first
	f.reader.ReadFn = func() (mm.ControllerReading, error) {
		return mm.ControllerReading{}, errors.New("dial tcp: timeout")
	}

	f.sched.pollOnce(ctx)
	f.sched.pollOnce(ctx) // already down: no second event

	if got := f.hub.count(ws.EventConnectionLost); got != 1 {
		t.Fatalf("connection_lost broadcasts = %d, want 1", got)
	}
	_, cs, _ := f.store.View()
	if cs.PlcConnected {
		t.Fatal("failed poll must mark PLC disconnected")
	}
}

func TestScheduler_AnalysisSkippedWithoutData(t *testing.T) {
	f := newSchedFixture()

	f.sched.analysisOnce(context.Background())

	if f.hub.count(ws.EventHealthUpdate) != 0 {
		t.Fatal("analysis must not run before any reading arrives")
	}
	_, _, h := f.store.View()
	if h.Status != "No Data" {
		t.Fatalf("status = %q, want No Data", h.Status)
	}
}

func TestScheduler_AnalysisScoresAndBroadcasts(t *testing.T) {
	f := newSchedFixture()
	ctx := context.Background()

	// optimal ESP reading plus controller data
	f.store.ApplySensorPatch(mm.SensorPatch{
		EspCurrent:  fptr(6.25),
		EspVoltage:  fptr(24.0),
		EspRPM:      fptr(2750),
		EnvTempC:    fptr(24.0),
		EnvHumidity: fptr(40.0),
	}, time.Now())
	f.sched.pollOnce(ctx)

	f.sched.analysisOnce(ctx)

	_, _, h := f.store.View()
	if h.Status == "No Data" {
		t.Fatal("analysis did not store a health breakdown")
	}
	if h.ElectricalHealth != 100 || h.MechanicalHealth != 100 {
		t.Fatalf("sub-scores = %v/%v, want 100/100", h.ElectricalHealth, h.MechanicalHealth)
	}
	if f.hub.count(ws.EventHealthUpdate) != 1 {
		t.Fatalf("health_update broadcasts = %d, want 1", f.hub.count(ws.EventHealthUpdate))
	}
	if f.hub.count(ws.EventRecommendationsUpdate) != 1 {
		t.Fatalf("recommendations_update broadcasts = %d, want 1", f.hub.count(ws.EventRecommendationsUpdate))
	}
}

func TestScheduler_AnalysisSurvivesHistoryLoadFailure(t *testing.T) {
	f := newSchedFixture()
	ctx := context.Background()
	f.readings.recentErr = errors.New("db locked")

	f.store.ApplySensorPatch(mm.SensorPatch{EspVoltage: fptr(24.0)}, time.Now())
	f.sched.analysisOnce(ctx)

	if f.hub.count(ws.EventHealthUpdate) != 1 {
		t.Fatal("analysis must still score when the history load fails")
	}
	_, _, h := f.store.View()
	if h.PredictiveHealth != 50 {
		t.Fatalf("predictive = %v, want neutral 50 without history", h.PredictiveHealth)
	}
}

func TestScheduler_AnalysisPromotesAndBroadcastsAlerts(t *testing.T) {
	f := newSchedFixture()
	ctx := context.Background()

	// ESP connected but every metric terrible: overall drops below 60
	f.store.ApplySensorPatch(mm.SensorPatch{
		EspCurrent: fptr(13.0), // overload critical
		EspVoltage: fptr(15.0), // critical low
		EspRPM:     fptr(2000), // critical low
	}, time.Now())

	f.sched.analysisOnce(ctx)

	if len(f.alerts.alerts) == 0 {
		t.Fatal("expected at least one promoted alert")
	}
	if f.hub.count(ws.EventMaintenanceAlert) != len(f.alerts.alerts) {
		t.Fatalf("maintenance_alert broadcasts = %d, want %d",
			f.hub.count(ws.EventMaintenanceAlert), len(f.alerts.alerts))
	}

	// second cycle inside the dedup window adds nothing
	before := len(f.alerts.alerts)
	f.sched.analysisOnce(ctx)
	if len(f.alerts.alerts) != before {
		t.Fatalf("dedup failed: alerts grew from %d to %d", before, len(f.alerts.alerts))
	}
}

func TestScheduler_SweepExpiresDevicesAndPublishesStatus(t *testing.T) {
	f := newSchedFixture()
	ctx := context.Background()

	f.store.ApplySensorPatch(mm.SensorPatch{EspVoltage: fptr(24.0)}, time.Now().Add(-2*time.Minute))

	f.sched.sweepOnce(ctx)
	f.sched.sweepOnce(ctx) // second sweep must not re-fire the transition

	if got := f.hub.count(ws.EventConnectionLost); got != 1 {
		t.Fatalf("connection_lost broadcasts = %d, want 1", got)
	}
	if got := f.hub.count(ws.EventStatusUpdate); got != 2 {
		t.Fatalf("status_update broadcasts = %d, want 2 (one per sweep)", got)
	}

	data, ok := f.hub.last(ws.EventStatusUpdate)
	if !ok {
		t.Fatal("missing status_update payload")
	}
	cs, ok := data.(mm.ConnectivityStatus)
	if !ok {
		t.Fatalf("status_update payload = %T, want ConnectivityStatus", data)
	}
	if cs.EspConnected {
		t.Fatal("ESP should be expired after the sweep")
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	f := newSchedFixture()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.sched.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
