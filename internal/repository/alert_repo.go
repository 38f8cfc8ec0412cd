package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	mm "motor_monitoring"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite {
	return &AlertSQLite{db: db}
}

var _ AlertRepo = (*AlertSQLite)(nil)

const (
	insertAlertSQL = `
		INSERT INTO maintenance_alerts (
			id, created_at, alert_type, category, severity, priority,
			description, recommended_action, confidence, acknowledged
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	countRecentUnackedSQL = `
		SELECT COUNT(1) FROM maintenance_alerts
		WHERE alert_type = ? AND acknowledged = 0 AND created_at >= ?
	`

	selectUnackedSQL = `
		SELECT id, created_at, alert_type, category, severity, priority,
			description, recommended_action, confidence, acknowledged
		FROM maintenance_alerts
		WHERE acknowledged = 0
		ORDER BY created_at DESC
		LIMIT ?
	`

	acknowledgeAlertSQL = `UPDATE maintenance_alerts SET acknowledged = 1 WHERE id = ?`
)

// Append inserts a new alert. Missing ID or CreatedAt are filled in.
func (r *AlertSQLite) Append(ctx context.Context, a mm.MaintenanceAlert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	} else {
		a.CreatedAt = a.CreatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.ID,
		a.CreatedAt,
		a.Type,
		a.Category,
		a.Severity,
		a.Priority,
		a.Description,
		a.Action,
		a.Confidence,
		a.Acknowledged,
	)
	return err
}

// HasRecentUnacknowledged reports whether an open alert of the same type
// exists at or after since.
func (r *AlertSQLite) HasRecentUnacknowledged(ctx context.Context, alertType string, since time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countRecentUnackedSQL, alertType, since.UTC()).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListUnacknowledged returns open alerts, newest first.
func (r *AlertSQLite) ListUnacknowledged(ctx context.Context, limit int) ([]mm.MaintenanceAlert, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, selectUnackedSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]mm.MaintenanceAlert, 0, limit)
	for rows.Next() {
		var a mm.MaintenanceAlert
		if err := rows.Scan(
			&a.ID, &a.CreatedAt, &a.Type, &a.Category, &a.Severity,
			&a.Priority, &a.Description, &a.Action, &a.Confidence,
			&a.Acknowledged,
		); err != nil {
			return nil, err
		}
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// Acknowledge marks the alert handled. Returns false for an unknown id.
func (r *AlertSQLite) Acknowledge(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, acknowledgeAlertSQL, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
