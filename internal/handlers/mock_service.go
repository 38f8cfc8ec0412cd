package handlers

import (
	"context"
	"io"

	mm "motor_monitoring"

	"motor_monitoring/internal/service"
)

// ---- Service mocks shared by the handler tests ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockTelemetry struct {
	snap        mm.SensorSnapshot
	err         error
	lastPayload map[string]any
	calls       int
}

func (m *mockTelemetry) Ingest(ctx context.Context, payload map[string]any) (mm.SensorSnapshot, error) {
	m.calls++
	m.lastPayload = payload
	return m.snap, m.err
}

type mockMonitoring struct {
	overview service.Overview
	health   mm.HealthBreakdown
	recs     []mm.Recommendation
}

func (m *mockMonitoring) Current() service.Overview            { return m.overview }
func (m *mockMonitoring) Health() mm.HealthBreakdown           { return m.health }
func (m *mockMonitoring) Recommendations() []mm.Recommendation { return m.recs }

type mockHistory struct {
	rows      []mm.HistoricalReading
	err       error
	csvBody   string
	csvErr    error
	lastHours int
}

func (m *mockHistory) Recent(ctx context.Context, hours int) ([]mm.HistoricalReading, error) {
	m.lastHours = hours
	return m.rows, m.err
}

func (m *mockHistory) ExportCSV(ctx context.Context, w io.Writer, hours int) error {
	m.lastHours = hours
	if m.csvErr != nil {
		return m.csvErr
	}
	_, err := io.WriteString(w, m.csvBody)
	return err
}

type mockAlerts struct {
	alerts  []mm.MaintenanceAlert
	listErr error
	ackOK   bool
	ackErr  error
	lastAck string
}

func (m *mockAlerts) Promote(ctx context.Context, recs []mm.Recommendation) []mm.MaintenanceAlert {
	return nil
}

func (m *mockAlerts) Unacknowledged(ctx context.Context, limit int) ([]mm.MaintenanceAlert, error) {
	return m.alerts, m.listErr
}

func (m *mockAlerts) Acknowledge(ctx context.Context, id string) (bool, error) {
	m.lastAck = id
	return m.ackOK, m.ackErr
}

type mockScheduler struct{}

func (m *mockScheduler) Run(ctx context.Context) { <-ctx.Done() }
