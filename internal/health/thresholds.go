// Package health computes the multi-factor equipment health breakdown,
// trend-based prediction and maintenance recommendations.
package health

import "fmt"

// Config holds the operating optimum and every scoring threshold for the
// 24V motor system. Values mirror the commissioning sheet for the rig.
type Config struct {
	OptimalMotorTempC float64
	OptimalVoltage    float64
	OptimalCurrent    float64
	OptimalEnvTempC   float64
	OptimalHumidity   float64
	OptimalRPM        float64

	MotorTempGood     float64
	MotorTempWarning  float64
	MotorTempCritical float64

	VoltageMinCritical float64
	VoltageMinWarning  float64
	VoltageMaxWarning  float64
	VoltageMaxCritical float64

	CurrentMinWarning float64
	CurrentMaxWarning float64
	CurrentMaxCritical float64

	RPMMinCritical float64
	RPMMinWarning  float64
	RPMMaxWarning  float64
	RPMMaxCritical float64

	EnvTempMaxWarning  float64
	EnvTempMaxCritical float64

	HumidityMinWarning  float64
	HumidityMaxWarning  float64
	HumidityMaxCritical float64
}

// DefaultConfig returns the thresholds for the 24V / 2750 RPM motor rig.
func DefaultConfig() Config {
	return Config{
		OptimalMotorTempC: 40.0,
		OptimalVoltage:    24.0,
		OptimalCurrent:    6.25,
		OptimalEnvTempC:   24.0,
		OptimalHumidity:   40.0,
		OptimalRPM:        2750.0,

		MotorTempGood:     40.0,
		MotorTempWarning:  50.0,
		MotorTempCritical: 60.0,

		VoltageMinCritical: 20.0,
		VoltageMinWarning:  22.0,
		VoltageMaxWarning:  26.0,
		VoltageMaxCritical: 28.0,

		CurrentMinWarning:  4.0,
		CurrentMaxWarning:  9.0,
		CurrentMaxCritical: 12.0,

		RPMMinCritical: 2400.0,
		RPMMinWarning:  2600.0,
		RPMMaxWarning:  2900.0,
		RPMMaxCritical: 3100.0,

		EnvTempMaxWarning:  30.0,
		EnvTempMaxCritical: 35.0,

		HumidityMinWarning:  30.0,
		HumidityMaxWarning:  70.0,
		HumidityMaxCritical: 80.0,
	}
}

// band is one row of a threshold table: a predicate, a fixed deduction and
// an issue template. Tables are evaluated top to bottom and the first match
// wins, so per metric at most one band fires per cycle.
type band struct {
	match  func(v float64) bool
	deduct float64
	issue  func(v float64) string
}

func below(limit float64) func(float64) bool { return func(v float64) bool { return v < limit } }
func above(limit float64) func(float64) bool { return func(v float64) bool { return v > limit } }

func issuef(format string) func(float64) string {
	return func(v float64) string { return fmt.Sprintf(format, v) }
}

// evalBands applies the first matching band to the running score and issue
// list. Returns the deduction and issue, with ok=false when no band fired.
func evalBands(v float64, bands []band) (deduct float64, issue string, ok bool) {
	for _, b := range bands {
		if b.match(v) {
			return b.deduct, b.issue(v), true
		}
	}
	return 0, "", false
}

// voltageBands: most extreme first, mutually exclusive.
func voltageBands(c Config) []band {
	return []band{
		{below(c.VoltageMinCritical), 40, issuef("Critical undervoltage: %.1fV")},
		{below(c.VoltageMinWarning), 20, issuef("Low voltage: %.1fV")},
		{above(c.VoltageMaxCritical), 40, issuef("Critical overvoltage: %.1fV")},
		{above(c.VoltageMaxWarning), 20, issuef("High voltage: %.1fV")},
	}
}

func currentBands(c Config) []band {
	return []band{
		{below(c.CurrentMinWarning), 30, issuef("Motor underloaded: %.1fA")},
		{above(c.CurrentMaxCritical), 50, issuef("Critical overcurrent: %.1fA")},
		{above(c.CurrentMaxWarning), 25, issuef("Motor overloaded: %.1fA")},
	}
}

func motorTempBands(c Config) []band {
	return []band{
		{above(c.MotorTempCritical), 50, issuef("Critical motor temperature: %.1f°C")},
		{above(c.MotorTempWarning), 30, issuef("High motor temperature: %.1f°C")},
		{above(c.MotorTempGood), 15, issuef("Elevated motor temperature: %.1f°C")},
	}
}

func envTempBands(c Config) []band {
	return []band{
		{above(c.EnvTempMaxCritical), 25, issuef("Critical ambient temperature: %.1f°C")},
		{above(c.EnvTempMaxWarning), 15, issuef("High ambient temperature: %.1f°C")},
	}
}

func humidityBands(c Config) []band {
	return []band{
		{above(c.HumidityMaxCritical), 20, issuef("Critical humidity: %.1f%%")},
		{above(c.HumidityMaxWarning), 10, issuef("High humidity: %.1f%%")},
		{below(c.HumidityMinWarning), 5, issuef("Low humidity: %.1f%%")},
	}
}

func rpmBands(c Config) []band {
	return []band{
		{below(c.RPMMinCritical), 50, issuef("Critical low RPM: %.0f")},
		{below(c.RPMMinWarning), 30, issuef("Low RPM: %.0f")},
		{above(c.RPMMaxCritical), 50, issuef("Critical high RPM: %.0f")},
		{above(c.RPMMaxWarning), 30, issuef("High RPM: %.0f")},
	}
}
