package health

import (
	"math"

	mm "motor_monitoring"
)

// Issue category keys in HealthBreakdown.Issues.
const (
	CategoryElectrical = "electrical"
	CategoryThermal    = "thermal"
	CategoryMechanical = "mechanical"
	CategoryPredictive = "predictive"
)

// Overall score weights. Must sum to 1.0.
const (
	weightElectrical = 0.30
	weightThermal    = 0.35
	weightMechanical = 0.25
	weightPredictive = 0.10
)

// Status bucket boundaries.
const (
	statusExcellentMin = 90.0
	statusGoodMin      = 75.0
	statusWarningMin   = 60.0
)

// Minimum history length before trend prediction is attempted. Below this
// the predictive score is a neutral 50, not a punitive 0 like the other
// sub-scores; the asymmetry is deliberate and pinned by tests.
const minPredictionSamples = 5

const neutralPredictiveScore = 50.0

// Relative current deviation from the RPM-scaled expectation that counts as
// a load imbalance.
const imbalanceDeviation = 0.5

// Scorer computes health sub-scores against a fixed threshold configuration.
// All methods are pure; the scorer carries no mutable state.
type Scorer struct {
	cfg Config

	voltage   []band
	current   []band
	motorTemp []band
	envTemp   []band
	humidity  []band
	rpm       []band

	trends []trendCheck
}

// NewScorer builds a scorer with its band tables materialized once.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{
		cfg:       cfg,
		voltage:   voltageBands(cfg),
		current:   currentBands(cfg),
		motorTemp: motorTempBands(cfg),
		envTemp:   envTempBands(cfg),
		humidity:  humidityBands(cfg),
		rpm:       rpmBands(cfg),
		trends:    trendChecks(),
	}
}

// Electrical scores voltage and current. Voltage prefers the ESP reading and
// falls back to the controller's. No data for either metric scores 0.
func (s *Scorer) Electrical(snap mm.SensorSnapshot) (float64, []string) {
	voltage := coalesce(snap.EspVoltage, snap.PlcMotorVoltage)
	current := snap.EspCurrent

	if voltage == nil && current == nil {
		return 0, []string{"No electrical data available"}
	}

	score := 100.0
	var issues []string

	if voltage != nil {
		if d, issue, ok := evalBands(*voltage, s.voltage); ok {
			score -= d
			issues = append(issues, issue)
		}
	}
	if current != nil {
		if d, issue, ok := evalBands(*current, s.current); ok {
			score -= d
			issues = append(issues, issue)
		}
	}

	return clamp100(score), issues
}

// Thermal scores motor temperature, ambient temperature and humidity
// independently. Missing both temperatures scores 0.
func (s *Scorer) Thermal(snap mm.SensorSnapshot) (float64, []string) {
	if snap.PlcMotorTemp == nil && snap.EnvTempC == nil {
		return 0, []string{"No thermal data available"}
	}

	score := 100.0
	var issues []string

	for _, m := range []struct {
		v     *float64
		bands []band
	}{
		{snap.PlcMotorTemp, s.motorTemp},
		{snap.EnvTempC, s.envTemp},
		{snap.EnvHumidity, s.humidity},
	} {
		if m.v == nil {
			continue
		}
		if d, issue, ok := evalBands(*m.v, m.bands); ok {
			score -= d
			issues = append(issues, issue)
		}
	}

	return clamp100(score), issues
}

// Mechanical scores RPM and cross-checks the current draw against the
// RPM-scaled expectation. Missing RPM scores 0.
func (s *Scorer) Mechanical(snap mm.SensorSnapshot) (float64, []string) {
	if snap.EspRPM == nil {
		return 0, []string{"No RPM data available"}
	}

	rpm := *snap.EspRPM
	score := 100.0
	var issues []string

	if d, issue, ok := evalBands(rpm, s.rpm); ok {
		score -= d
		issues = append(issues, issue)
	}

	// Load balance: actual current should scale linearly with RPM around
	// the configured operating point.
	if snap.EspCurrent != nil && rpm > 0 {
		expected := rpm / s.cfg.OptimalRPM * s.cfg.OptimalCurrent
		if expected > 0 {
			deviation := math.Abs(*snap.EspCurrent-expected) / expected
			if deviation > imbalanceDeviation {
				score -= 20
				issues = append(issues, "Current/RPM imbalance detected")
			}
		}
	}

	return clamp100(score), issues
}

// Predictive runs the trend checks over the recent history window. With
// fewer than minPredictionSamples readings it returns the neutral mid score
// rather than the punitive zero used by the live sub-scores.
func (s *Scorer) Predictive(history []mm.HistoricalReading) (float64, []string, []TrendResult) {
	if len(history) < minPredictionSamples {
		return neutralPredictiveScore, []string{"Insufficient data for prediction"}, nil
	}

	score := 100.0
	var issues []string
	results := make([]TrendResult, 0, len(s.trends))

	for _, ck := range s.trends {
		res := analyzeTrend(history, ck)
		results = append(results, res)

		switch res.Outcome {
		case TrendDetected:
			score -= res.Deduct
			issues = append(issues, res.Issue)
		case TrendComputationError:
			issues = append(issues, "Predictive analysis error")
		}
	}

	return clamp100(score), issues, results
}

// Efficiency is a separate score, not part of the weighted overall. It
// requires voltage, current and RPM all present and non-zero, else 0.
func (s *Scorer) Efficiency(snap mm.SensorSnapshot) float64 {
	voltage := coalesce(snap.EspVoltage, snap.PlcMotorVoltage)
	current := snap.EspCurrent
	rpm := snap.EspRPM

	if voltage == nil || current == nil || rpm == nil ||
		*voltage == 0 || *current == 0 || *rpm == 0 {
		return 0
	}

	rpmEff := math.Min(100, *rpm/s.cfg.OptimalRPM*100)

	actualKW := *voltage * *current / 1000
	theoreticalKW := s.cfg.OptimalVoltage * s.cfg.OptimalCurrent / 1000
	powerEff := 0.0
	if actualKW > 0 {
		powerEff = math.Min(100, theoreticalKW/actualKW*100)
	}

	return clamp100((rpmEff + powerEff) / 2)
}

// Comprehensive produces the full breakdown for one scoring cycle.
func (s *Scorer) Comprehensive(snap mm.SensorSnapshot, history []mm.HistoricalReading) mm.HealthBreakdown {
	electrical, electricalIssues := s.Electrical(snap)
	thermal, thermalIssues := s.Thermal(snap)
	mechanical, mechanicalIssues := s.Mechanical(snap)
	predictive, predictiveIssues, _ := s.Predictive(history)

	overall := clamp100(electrical*weightElectrical +
		thermal*weightThermal +
		mechanical*weightMechanical +
		predictive*weightPredictive)

	status, statusClass := statusBucket(overall)

	return mm.HealthBreakdown{
		OverallScore:     round1(overall),
		ElectricalHealth: round1(electrical),
		ThermalHealth:    round1(thermal),
		MechanicalHealth: round1(mechanical),
		PredictiveHealth: round1(predictive),
		EfficiencyScore:  round1(s.Efficiency(snap)),
		Status:           status,
		StatusClass:      statusClass,
		Issues: map[string][]string{
			CategoryElectrical: electricalIssues,
			CategoryThermal:    thermalIssues,
			CategoryMechanical: mechanicalIssues,
			CategoryPredictive: predictiveIssues,
		},
	}
}

func statusBucket(score float64) (status, class string) {
	switch {
	case score >= statusExcellentMin:
		return "Excellent", "success"
	case score >= statusGoodMin:
		return "Good", "info"
	case score >= statusWarningMin:
		return "Warning", "warning"
	default:
		return "Critical", "danger"
	}
}

func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
