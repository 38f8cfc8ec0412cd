package health

import (
	"fmt"
	"sort"

	mm "motor_monitoring"
)

// Rule thresholds for the recommendation engine.
const (
	overallCriticalBelow = 60.0
	subScoreWarnBelow    = 70.0
	maxRecommendations   = 10
)

var priorityRank = map[string]int{
	mm.SeverityCritical: 4,
	mm.SeverityHigh:     3,
	mm.SeverityMedium:   2,
	mm.SeverityLow:      1,
}

// Recommendations evaluates the deterministic rule list against the latest
// breakdown and connectivity flags. Rules are independent: several may fire
// in one cycle. The result is stably sorted by priority, highest first, and
// truncated to the top ten.
func Recommendations(h mm.HealthBreakdown, cs mm.ConnectivityStatus) []mm.Recommendation {
	var recs []mm.Recommendation

	if !cs.EspConnected {
		recs = append(recs, mm.Recommendation{
			Type:        "Connection Alert",
			Category:    "System",
			Severity:    mm.SeverityHigh,
			Priority:    mm.SeverityHigh,
			Title:       "ESP/Arduino Disconnected",
			Description: "ESP sensor module not responding",
			Action:      "Check ESP power and network connectivity",
			Confidence:  1.0,
		})
	}
	if !cs.PlcConnected {
		recs = append(recs, mm.Recommendation{
			Type:        "Connection Alert",
			Category:    "System",
			Severity:    mm.SeverityHigh,
			Priority:    mm.SeverityHigh,
			Title:       "FX5U PLC Disconnected",
			Description: "FX5U PLC not responding on port 5007",
			Action:      "Check FX5U network and MC protocol settings",
			Confidence:  1.0,
		})
	}

	if h.OverallScore < overallCriticalBelow {
		recs = append(recs, mm.Recommendation{
			Type:        "Critical Alert",
			Category:    "Health",
			Severity:    mm.SeverityCritical,
			Priority:    mm.SeverityCritical,
			Title:       "Motor Health Critical",
			Description: fmt.Sprintf("Overall health: %.1f%% - Immediate attention required", h.OverallScore),
			Action:      "Stop motor and perform immediate inspection",
			Confidence:  0.95,
		})
	}

	if h.ElectricalHealth < subScoreWarnBelow {
		recs = append(recs, mm.Recommendation{
			Type:        "Electrical Warning",
			Category:    "Electrical",
			Severity:    mm.SeverityMedium,
			Priority:    mm.SeverityMedium,
			Title:       "Electrical System Issues",
			Description: "Voltage or current outside optimal range",
			Action:      "Check 24V motor connections and measure with multimeter",
			Confidence:  0.8,
		})
	}
	if h.ThermalHealth < subScoreWarnBelow {
		recs = append(recs, mm.Recommendation{
			Type:        "Temperature Warning",
			Category:    "Thermal",
			Severity:    mm.SeverityMedium,
			Priority:    mm.SeverityMedium,
			Title:       "Thermal Issues",
			Description: "Temperature above optimal levels",
			Action:      "Improve ventilation and check cooling system",
			Confidence:  0.85,
		})
	}
	if h.MechanicalHealth < subScoreWarnBelow {
		recs = append(recs, mm.Recommendation{
			Type:        "Mechanical Warning",
			Category:    "Mechanical",
			Severity:    mm.SeverityMedium,
			Priority:    mm.SeverityMedium,
			Title:       "Mechanical Issues",
			Description: "RPM or load outside optimal range",
			Action:      "Inspect bearings and check coupling alignment",
			Confidence:  0.8,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] > priorityRank[recs[j].Priority]
	})

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
