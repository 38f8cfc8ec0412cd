package health

import (
	"testing"

	mm "motor_monitoring"
)

func fp(v float64) *float64 { return &v }

// optimalSnapshot matches the configured operating point exactly.
func optimalSnapshot() mm.SensorSnapshot {
	return mm.SensorSnapshot{
		EspVoltage:   fp(24),
		EspCurrent:   fp(6.25),
		EspRPM:       fp(2750),
		EnvTempC:     fp(24),
		EnvHumidity:  fp(40),
		PlcMotorTemp: fp(38),
	}
}

func TestElectrical_OptimalIsPerfect(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	score, issues := s.Electrical(optimalSnapshot())
	if score != 100 {
		t.Errorf("electrical score = %v, want 100", score)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestElectrical_CriticalUndervoltage(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	snap := optimalSnapshot()
	snap.EspVoltage = fp(15) // below the 20V critical floor

	score, issues := s.Electrical(snap)
	if score != 60 {
		t.Errorf("electrical score = %v, want 60 (100 - 40)", score)
	}
	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly one voltage issue", issues)
	}
	if issues[0] != "Critical undervoltage: 15.0V" {
		t.Errorf("issue = %q", issues[0])
	}
}

func TestElectrical_BandsAreMutuallyExclusive(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	// 19V is below both the warning (22) and critical (20) floors; only the
	// most severe band may fire.
	snap := mm.SensorSnapshot{EspVoltage: fp(19)}
	score, issues := s.Electrical(snap)
	if score != 60 {
		t.Errorf("score = %v, want 60 (single -40 deduction)", score)
	}
	if len(issues) != 1 {
		t.Errorf("issues = %v, want one", issues)
	}
}

func TestElectrical_FallsBackToControllerVoltage(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	snap := mm.SensorSnapshot{PlcMotorVoltage: fp(15)}
	score, issues := s.Electrical(snap)
	if score != 60 {
		t.Errorf("score = %v, want 60 via controller voltage", score)
	}
	if len(issues) != 1 {
		t.Errorf("issues = %v", issues)
	}
}

func TestElectrical_NoData(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	score, issues := s.Electrical(mm.SensorSnapshot{})
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
	if len(issues) != 1 || issues[0] != "No electrical data available" {
		t.Errorf("issues = %v", issues)
	}
}

func TestElectrical_ClampEvenForExtremes(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	// Critical overvoltage (-40) plus critical overcurrent (-50) leaves 10,
	// and the clamp must hold for absurd magnitudes.
	snap := mm.SensorSnapshot{EspVoltage: fp(1e9), EspCurrent: fp(1e9)}
	score, _ := s.Electrical(snap)
	if score < 0 || score > 100 {
		t.Errorf("score = %v, out of [0,100]", score)
	}
	if score != 10 {
		t.Errorf("score = %v, want 10", score)
	}
}

func TestThermal_Bands(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	cases := []struct {
		name      string
		snap      mm.SensorSnapshot
		wantScore float64
		wantNIss  int
	}{
		{"optimal", optimalSnapshot(), 100, 0},
		{"no thermal data", mm.SensorSnapshot{EspVoltage: fp(24)}, 0, 1},
		{
			"critical motor temp",
			mm.SensorSnapshot{PlcMotorTemp: fp(65)},
			50, 1,
		},
		{
			"elevated motor temp plus high humidity",
			mm.SensorSnapshot{PlcMotorTemp: fp(45), EnvTempC: fp(24), EnvHumidity: fp(75)},
			75, 2, // -15 and -10
		},
		{
			"low humidity only",
			mm.SensorSnapshot{PlcMotorTemp: fp(38), EnvTempC: fp(24), EnvHumidity: fp(20)},
			95, 1,
		},
		{
			"everything burning still clamps at 0",
			mm.SensorSnapshot{PlcMotorTemp: fp(500), EnvTempC: fp(100), EnvHumidity: fp(99)},
			5, 3, // -50 -25 -20
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, issues := s.Thermal(tc.snap)
			if score != tc.wantScore {
				t.Errorf("score = %v, want %v", score, tc.wantScore)
			}
			if len(issues) != tc.wantNIss {
				t.Errorf("issues = %v, want %d", issues, tc.wantNIss)
			}
		})
	}
}

func TestMechanical_OptimalIsPerfect(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	score, issues := s.Mechanical(optimalSnapshot())
	if score != 100 {
		t.Errorf("mechanical score = %v, want 100", score)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestMechanical_NoRPM(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	score, issues := s.Mechanical(mm.SensorSnapshot{EspCurrent: fp(6)})
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
	if len(issues) != 1 || issues[0] != "No RPM data available" {
		t.Errorf("issues = %v", issues)
	}
}

func TestMechanical_Imbalance(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	// At 2750 RPM the expected current is 6.25A; 12A is a 92% deviation but
	// stays inside the current bands handled by the electrical score.
	snap := mm.SensorSnapshot{EspRPM: fp(2750), EspCurrent: fp(12)}
	score, issues := s.Mechanical(snap)
	if score != 80 {
		t.Errorf("score = %v, want 80 (imbalance -20)", score)
	}
	found := false
	for _, is := range issues {
		if is == "Current/RPM imbalance detected" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected imbalance issue, got %v", issues)
	}
}

func TestMechanical_RPMBands(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	cases := []struct {
		rpm  float64
		want float64
	}{
		{2300, 50}, // critical low
		{2500, 70}, // warning low
		{3000, 70}, // warning high
		{3200, 50}, // critical high
	}
	for _, tc := range cases {
		snap := mm.SensorSnapshot{EspRPM: fp(tc.rpm)}
		if score, _ := s.Mechanical(snap); score != tc.want {
			t.Errorf("rpm %v: score = %v, want %v", tc.rpm, score, tc.want)
		}
	}
}

func TestPredictive_InsufficientHistoryIsNeutral(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	history := []mm.HistoricalReading{{}, {}, {}, {}} // 4 < 5
	score, issues, results := s.Predictive(history)
	if score != 50 {
		t.Errorf("score = %v, want neutral 50", score)
	}
	if len(issues) != 1 || issues[0] != "Insufficient data for prediction" {
		t.Errorf("issues = %v", issues)
	}
	if results != nil {
		t.Errorf("no trend checks should run, got %v", results)
	}
}

func TestEfficiency(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	cases := []struct {
		name string
		snap mm.SensorSnapshot
		want float64
	}{
		{"optimal point scores 100", optimalSnapshot(), 100},
		{"missing rpm scores 0", mm.SensorSnapshot{EspVoltage: fp(24), EspCurrent: fp(6.25)}, 0},
		{"missing current scores 0", mm.SensorSnapshot{EspVoltage: fp(24), EspRPM: fp(2750)}, 0},
		{
			// rpm factor 50%, power factor capped at 100 (actual below optimal)
			"half speed at low power",
			mm.SensorSnapshot{EspVoltage: fp(12), EspCurrent: fp(6.25), EspRPM: fp(1375)},
			75,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Efficiency(tc.snap); got != tc.want {
				t.Errorf("Efficiency = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComprehensive_WeightsAndStatus(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	// Optimal live metrics, short history: 100/100/100 live scores with the
	// neutral predictive 50 → 0.30*100 + 0.35*100 + 0.25*100 + 0.10*50 = 95.
	got := s.Comprehensive(optimalSnapshot(), nil)

	if got.OverallScore != 95 {
		t.Errorf("OverallScore = %v, want 95", got.OverallScore)
	}
	if got.Status != "Excellent" || got.StatusClass != "success" {
		t.Errorf("status = %q/%q, want Excellent/success", got.Status, got.StatusClass)
	}
	if got.EfficiencyScore != 100 {
		t.Errorf("EfficiencyScore = %v, want 100", got.EfficiencyScore)
	}
	for _, cat := range []string{CategoryElectrical, CategoryThermal, CategoryMechanical} {
		if issues := got.Issues[cat]; len(issues) != 0 {
			t.Errorf("issues[%s] = %v, want none", cat, issues)
		}
	}
	if len(got.Issues[CategoryPredictive]) != 1 {
		t.Errorf("issues[predictive] = %v, want insufficient-data notice", got.Issues[CategoryPredictive])
	}
}

func TestComprehensive_EmptySnapshotIsCritical(t *testing.T) {
	t.Parallel()
	s := NewScorer(DefaultConfig())

	got := s.Comprehensive(mm.SensorSnapshot{}, nil)

	// 0/0/0 live scores with neutral predictive → 0.10*50 = 5.
	if got.OverallScore != 5 {
		t.Errorf("OverallScore = %v, want 5", got.OverallScore)
	}
	if got.Status != "Critical" || got.StatusClass != "danger" {
		t.Errorf("status = %q/%q, want Critical/danger", got.Status, got.StatusClass)
	}
}

func TestStatusBucketBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{90, "Excellent"},
		{89.9, "Good"},
		{75, "Good"},
		{74.9, "Warning"},
		{60, "Warning"},
		{59.9, "Critical"},
		{0, "Critical"},
	}
	for _, tc := range cases {
		if got, _ := statusBucket(tc.score); got != tc.want {
			t.Errorf("statusBucket(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
