package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	mm "motor_monitoring"

	"motor_monitoring/internal/logger"
	"motor_monitoring/internal/repository"
)

const (
	// promoteConfidence is the minimum confidence for a recommendation to
	// become a persisted alert.
	promoteConfidence = 0.8

	// dedupWindow suppresses repeat alerts of the same type while an
	// unacknowledged one from this window is still open.
	dedupWindow = 30 * time.Minute

	defaultAlertLimit = 10
)

// AlertService persists promoted recommendations and serves acknowledgment.
type AlertService struct {
	alerts repository.AlertRepo
	log    *logger.Logger
}

func NewAlertService(alerts repository.AlertRepo, log *logger.Logger) *AlertService {
	return &AlertService{alerts: alerts, log: log}
}

// Promote filters the cycle's recommendations down to HIGH/CRITICAL ones
// with confidence above the threshold, deduplicates each by type against
// the trailing window, and persists the survivors. Returns what was
// actually persisted so the caller can broadcast them.
func (s *AlertService) Promote(ctx context.Context, recs []mm.Recommendation) []mm.MaintenanceAlert {
	var promoted []mm.MaintenanceAlert
	now := time.Now().UTC()

	for _, rec := range recs {
		if !promotable(rec) {
			continue
		}

		dup, err := s.alerts.HasRecentUnacknowledged(ctx, rec.Type, now.Add(-dedupWindow))
		if err != nil {
			s.log.Errorw("alert_dedup_check_failed", "type", rec.Type, "err", err)
			continue
		}
		if dup {
			continue
		}

		alert := mm.MaintenanceAlert{
			ID:          uuid.NewString(),
			CreatedAt:   now,
			Type:        rec.Type,
			Category:    rec.Category,
			Severity:    rec.Severity,
			Priority:    rec.Priority,
			Description: rec.Description,
			Action:      rec.Action,
			Confidence:  rec.Confidence,
		}
		if err := s.alerts.Append(ctx, alert); err != nil {
			s.log.Errorw("alert_append_failed", "type", rec.Type, "err", err)
			continue
		}
		promoted = append(promoted, alert)
	}
	return promoted
}

func promotable(rec mm.Recommendation) bool {
	if rec.Severity != mm.SeverityHigh && rec.Severity != mm.SeverityCritical {
		return false
	}
	return rec.Confidence > promoteConfidence
}

// Unacknowledged lists open alerts, newest first.
func (s *AlertService) Unacknowledged(ctx context.Context, limit int) ([]mm.MaintenanceAlert, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	return s.alerts.ListUnacknowledged(ctx, limit)
}

// Acknowledge marks an alert handled; false means no such alert.
func (s *AlertService) Acknowledge(ctx context.Context, id string) (bool, error) {
	return s.alerts.Acknowledge(ctx, id)
}
