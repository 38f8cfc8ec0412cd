package repository

import (
	"context"
	"database/sql"
	"time"

	mm "motor_monitoring"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*mm.User, error)
}

// ReadingRepo is the append-only reading/health timeseries.
type ReadingRepo interface {
	Append(ctx context.Context, r mm.HistoricalReading) error
	// Recent returns readings newer than now-window, newest first.
	Recent(ctx context.Context, window time.Duration) ([]mm.HistoricalReading, error)
}

// AlertRepo stores promoted maintenance alerts.
type AlertRepo interface {
	Append(ctx context.Context, a mm.MaintenanceAlert) error
	// HasRecentUnacknowledged reports whether an unacknowledged alert of the
	// given type was created at or after since. Used for deduplication.
	HasRecentUnacknowledged(ctx context.Context, alertType string, since time.Time) (bool, error)
	ListUnacknowledged(ctx context.Context, limit int) ([]mm.MaintenanceAlert, error)
	// Acknowledge flips the acknowledged flag; returns false when no alert
	// with that id exists.
	Acknowledge(ctx context.Context, id string) (bool, error)
}

type Repository struct {
	Readings ReadingRepo
	Alerts   AlertRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Readings: NewReadingSQLite(db),
		Alerts:   NewAlertSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
