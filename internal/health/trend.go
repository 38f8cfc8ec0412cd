package health

import (
	"errors"
	"fmt"
	"math"

	mm "motor_monitoring"
)

// TrendOutcome classifies one per-metric trend check. The predictive block
// never propagates errors upward; a failed computation becomes an explicit
// outcome instead of a swallowed exception.
type TrendOutcome int

const (
	// TrendNone: enough samples, slope within limits.
	TrendNone TrendOutcome = iota
	// TrendDetected: the slope breached the metric's threshold.
	TrendDetected
	// TrendInsufficientData: too few clean samples in the window.
	TrendInsufficientData
	// TrendComputationError: the regression itself failed.
	TrendComputationError
)

// TrendResult is the outcome of one metric's trend analysis.
type TrendResult struct {
	Metric  string
	Outcome TrendOutcome
	Slope   float64
	Issue   string // set when Outcome is TrendDetected
	Deduct  float64
}

// trendCheck describes one tracked metric: which field to extract, how many
// trailing samples to regress over, how many clean samples are required and
// what slope breaches the limit.
type trendCheck struct {
	metric   string
	window   int
	minClean int
	extract  func(r mm.HistoricalReading) (float64, bool)
	breach   func(slope float64) bool
	deduct   float64
	issue    func(slope float64) string
}

// trendChecks holds the three tracked metrics: motor temperature, current
// draw, and the overall health score itself.
func trendChecks() []trendCheck {
	return []trendCheck{
		{
			metric:   "motor_temp",
			window:   10,
			minClean: 5,
			extract: func(r mm.HistoricalReading) (float64, bool) {
				if r.PlcMotorTemp == nil {
					return 0, false
				}
				return *r.PlcMotorTemp, true
			},
			breach: func(s float64) bool { return s > 1.0 },
			deduct: 30,
			issue: func(s float64) string {
				return fmt.Sprintf("Rising temperature trend: +%.1f°C/reading", s)
			},
		},
		{
			metric:   "current",
			window:   10,
			minClean: 5,
			extract: func(r mm.HistoricalReading) (float64, bool) {
				if r.EspCurrent == nil {
					return 0, false
				}
				return *r.EspCurrent, true
			},
			breach: func(s float64) bool { return math.Abs(s) > 0.5 },
			deduct: 25,
			issue: func(s float64) string {
				return fmt.Sprintf("Current instability: ±%.1fA/reading", math.Abs(s))
			},
		},
		{
			metric:   "overall_health",
			window:   20,
			minClean: 10,
			extract: func(r mm.HistoricalReading) (float64, bool) {
				return r.OverallScore, true
			},
			breach: func(s float64) bool { return s < -1.0 },
			deduct: 35,
			issue: func(s float64) string {
				return fmt.Sprintf("Health degradation trend: %.1f points/reading", s)
			},
		},
	}
}

var errDegenerateSeries = errors.New("trend: need at least two samples")

// leastSquaresSlope fits y = a + b*x over x = 0..n-1 and returns b.
func leastSquaresSlope(ys []float64) (float64, error) {
	n := float64(len(ys))
	if len(ys) < 2 {
		return 0, errDegenerateSeries
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, errDegenerateSeries
	}
	return (n*sumXY - sumX*sumY) / denom, nil
}

// tailClean extracts up to window clean samples for a metric, in
// chronological order. history arrives newest first (repository order).
func tailClean(history []mm.HistoricalReading, ck trendCheck) []float64 {
	// Newest-first in, so collect forward then reverse into chronological.
	vals := make([]float64, 0, ck.window)
	for _, r := range history {
		if len(vals) == ck.window {
			break
		}
		if v, ok := ck.extract(r); ok {
			vals = append(vals, v)
		}
	}
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
	return vals
}

// analyzeTrend runs one metric's check against the history window.
func analyzeTrend(history []mm.HistoricalReading, ck trendCheck) TrendResult {
	res := TrendResult{Metric: ck.metric}

	vals := tailClean(history, ck)
	if len(vals) < ck.minClean {
		res.Outcome = TrendInsufficientData
		return res
	}

	slope, err := leastSquaresSlope(vals)
	if err != nil {
		res.Outcome = TrendComputationError
		return res
	}
	res.Slope = slope

	if ck.breach(slope) {
		res.Outcome = TrendDetected
		res.Issue = ck.issue(slope)
		res.Deduct = ck.deduct
	}
	return res
}
