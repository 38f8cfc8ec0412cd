package service

import (
	"context"
	"io"
	"time"

	mm "motor_monitoring"

	"motor_monitoring/internal/health"
	"motor_monitoring/internal/logger"
	"motor_monitoring/internal/repository"
	"motor_monitoring/internal/state"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Telemetry handles the push-device ingest path.
type Telemetry interface {
	Ingest(ctx context.Context, payload map[string]any) (mm.SensorSnapshot, error)
}

// Monitoring exposes read-only live state for the dashboard API.
type Monitoring interface {
	Current() Overview
	Health() mm.HealthBreakdown
	Recommendations() []mm.Recommendation
}

// History exposes the persisted timeseries.
type History interface {
	Recent(ctx context.Context, hours int) ([]mm.HistoricalReading, error)
	ExportCSV(ctx context.Context, w io.Writer, hours int) error
}

// Alerts exposes persisted maintenance alerts. Promote is the dedup gate
// the analysis cycle pushes candidate recommendations through.
type Alerts interface {
	Promote(ctx context.Context, recs []mm.Recommendation) []mm.MaintenanceAlert
	Unacknowledged(ctx context.Context, limit int) ([]mm.MaintenanceAlert, error)
	Acknowledge(ctx context.Context, id string) (bool, error)
}

// Scheduler runs the three periodic loops (controller poll, health
// analysis, liveness sweep). Stop via context cancellation in main().
type Scheduler interface {
	Run(ctx context.Context)
}

// Broadcaster pushes fire-and-forget events to live subscribers.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// RegisterReader is one poll of the controller's holding registers.
type RegisterReader interface {
	Read() (mm.ControllerReading, error)
}

// Overview is the dashboard's combined live view.
type Overview struct {
	Sensors      mm.SensorSnapshot     `json:"sensor_data"`
	Connectivity mm.ConnectivityStatus `json:"connectivity"`
	Health       mm.HealthBreakdown    `json:"health"`
}

type Service struct {
	Telemetry
	Monitoring
	History
	Alerts
	Scheduler
	Authorization
}

// Intervals configures the scheduler's periodic loops.
type Intervals struct {
	Poll     time.Duration
	Analysis time.Duration
	Sweep    time.Duration
}

// Deps carries everything the services are wired from.
type Deps struct {
	Repos      *repository.Repository
	Store      *state.Store
	Scorer     *health.Scorer
	Reader     RegisterReader
	Hub        Broadcaster
	Log        *logger.Logger
	Intervals  Intervals
	SigningKey string
}

func NewService(d Deps) *Service {
	alerts := NewAlertService(d.Repos.Alerts, d.Log)
	return &Service{
		Telemetry:     NewTelemetryService(d.Store, d.Repos.Readings, d.Hub, d.Log),
		Monitoring:    NewMonitoringService(d.Store),
		History:       NewHistoryService(d.Repos.Readings),
		Alerts:        alerts,
		Scheduler:     NewSchedulerService(d.Store, d.Repos.Readings, d.Scorer, d.Reader, d.Hub, alerts, d.Log, d.Intervals),
		Authorization: NewAuthService(d.Repos.Auth, d.SigningKey),
	}
}
