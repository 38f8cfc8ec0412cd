package service

import (
	"context"
	"sync"
	"time"

	mm "motor_monitoring"

	"motor_monitoring/internal/health"
	"motor_monitoring/internal/logger"
	"motor_monitoring/internal/repository"
	"motor_monitoring/internal/state"
	"motor_monitoring/internal/ws"
)

// Default loop intervals; overridable through config.
const (
	DefaultPollInterval     = 5 * time.Second
	DefaultAnalysisInterval = 15 * time.Second
	DefaultSweepInterval    = 10 * time.Second

	// analysisWindow is how far back the predictive component looks when
	// loading the persisted timeseries.
	analysisWindow = 2 * time.Hour
)

// SchedulerService drives the three periodic loops. Each loop runs
// independently: a stalled controller read must never delay the health
// cycle or the liveness sweep. All device and database I/O happens outside
// the state store's lock; results are merged back in a short locked update.
type SchedulerService struct {
	store    *state.Store
	readings repository.ReadingRepo
	scorer   *health.Scorer
	reader   RegisterReader
	hub      Broadcaster
	alerts   Alerts
	log      *logger.Logger
	ivals    Intervals
}

func NewSchedulerService(
	store *state.Store,
	readings repository.ReadingRepo,
	scorer *health.Scorer,
	reader RegisterReader,
	hub Broadcaster,
	alerts Alerts,
	log *logger.Logger,
	ivals Intervals,
) *SchedulerService {
	if ivals.Poll <= 0 {
		ivals.Poll = DefaultPollInterval
	}
	if ivals.Analysis <= 0 {
		ivals.Analysis = DefaultAnalysisInterval
	}
	if ivals.Sweep <= 0 {
		ivals.Sweep = DefaultSweepInterval
	}
	return &SchedulerService{
		store:    store,
		readings: readings,
		scorer:   scorer,
		reader:   reader,
		hub:      hub,
		alerts:   alerts,
		log:      log,
		ivals:    ivals,
	}
}

// Run blocks until ctx is cancelled. No per-tick error is ever fatal:
// each is logged and the loop continues on its next tick.
func (s *SchedulerService) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)

	go s.loop(ctx, &wg, s.ivals.Poll, s.pollOnce)
	go s.loop(ctx, &wg, s.ivals.Analysis, s.analysisOnce)
	go s.loop(ctx, &wg, s.ivals.Sweep, s.sweepOnce)

	wg.Wait()
}

func (s *SchedulerService) loop(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, tick func(context.Context)) {
	defer wg.Done()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tick(ctx)
		}
	}
}

// pollOnce reads the controller registers. Failure marks the controller
// disconnected; the transition fires side effects exactly once.
func (s *SchedulerService) pollOnce(ctx context.Context) {
	reading, err := s.reader.Read()
	if err != nil {
		s.log.Warnw("plc_poll_failed", "err", err)
		if s.store.MarkControllerDown() {
			s.broadcastConnectionLost(mm.DevicePLC, 0)
		}
		return
	}

	snap := s.store.ApplyControllerReading(reading, time.Now())
	s.hub.Broadcast(ws.EventSensorUpdate, snap)
}

// analysisOnce runs one scoring cycle: load history, score, publish,
// promote alerts. Skipped until the first reading arrives so the dashboard
// keeps its "No Data" state instead of a synthetic zero score.
func (s *SchedulerService) analysisOnce(ctx context.Context) {
	if !s.store.HasData() {
		return
	}

	history, err := s.readings.Recent(ctx, analysisWindow)
	if err != nil {
		// score from live state alone; predictive degrades to its
		// insufficient-data path
		s.log.Warnw("history_load_failed", "err", err)
		history = nil
	}

	snap, cs, _ := s.store.View()
	breakdown := s.scorer.Comprehensive(snap, history)
	s.store.SetHealth(breakdown)

	s.hub.Broadcast(ws.EventHealthUpdate, breakdown)

	recs := health.Recommendations(breakdown, cs)
	s.hub.Broadcast(ws.EventRecommendationsUpdate, recs)

	for _, alert := range s.alerts.Promote(ctx, recs) {
		s.log.Infow("maintenance_alert",
			"type", alert.Type,
			"severity", alert.Severity,
			"confidence", alert.Confidence,
		)
		s.hub.Broadcast(ws.EventMaintenanceAlert, alert)
	}
}

// sweepOnce expires silent devices and publishes the connectivity status.
func (s *SchedulerService) sweepOnce(ctx context.Context) {
	for _, tr := range s.store.Sweep(time.Now()) {
		s.broadcastConnectionLost(tr.Device, tr.Elapsed)
	}

	_, cs, _ := s.store.View()
	s.hub.Broadcast(ws.EventStatusUpdate, cs)
}

func (s *SchedulerService) broadcastConnectionLost(device string, elapsed time.Duration) {
	s.log.Warnw("device_disconnected", "device", device, "elapsed", elapsed.Round(time.Second))
	s.hub.Broadcast(ws.EventConnectionLost, map[string]any{
		"device":          device,
		"elapsed_seconds": int(elapsed.Seconds()),
	})
}
