package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	mm "motor_monitoring"
)

func TestHistory_Recent_ClampsWindow(t *testing.T) {
	cases := []struct {
		name  string
		hours int
		want  time.Duration
	}{
		{"default", 0, defaultHistoryHours * time.Hour},
		{"negative", -3, defaultHistoryHours * time.Hour},
		{"too large", maxHistoryHours + 1, defaultHistoryHours * time.Hour},
		{"explicit", 6, 6 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memReadingRepo{}
			svc := NewHistoryService(repo)

			if _, err := svc.Recent(context.Background(), tc.hours); err != nil {
				t.Fatalf("Recent returned error: %v", err)
			}
			if repo.lastWindow != tc.want {
				t.Fatalf("window = %v, want %v", repo.lastWindow, tc.want)
			}
		})
	}
}

func TestHistory_ExportCSV(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	repo := &memReadingRepo{
		recent: []mm.HistoricalReading{
			{
				Timestamp:    ts,
				EspCurrent:   fptr(6.2),
				EspVoltage:   fptr(24.1),
				EspRPM:       fptr(2750),
				EspConnected: true,
				OverallScore: 95.5,
				PowerKW:      0.149,
			},
			{
				// a gap reading: everything absent
				Timestamp: ts.Add(-5 * time.Minute),
			},
		},
	}
	svc := NewHistoryService(repo)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf, 24); err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("exported %d rows, want header + 2", len(rows))
	}
	if len(rows[0]) != len(csvHeader) {
		t.Fatalf("header has %d columns, want %d", len(rows[0]), len(csvHeader))
	}

	first := rows[1]
	if first[0] != "2026-03-14T09:30:00Z" {
		t.Errorf("timestamp cell = %q", first[0])
	}
	if first[1] != "6.2" {
		t.Errorf("current cell = %q, want 6.2", first[1])
	}
	if first[8] != "true" {
		t.Errorf("esp_connected cell = %q, want true", first[8])
	}
	if first[10] != "95.5" {
		t.Errorf("overall cell = %q, want 95.5", first[10])
	}

	// absent readings export as empty cells, not zeros
	gap := rows[2]
	for i := 1; i <= 7; i++ {
		if gap[i] != "" {
			t.Errorf("gap column %d = %q, want empty", i, gap[i])
		}
	}
}
