package plc

import "math"

// Conversion constants for the FX5U analog registers.
// D100 is a 12-bit register spanning a 0-30V range; D102 uses the
// vendor-documented linear factor Temperature(°C) = 0.05175 × raw.
const (
	voltageRawMax   = 4095.0
	voltageRangeV   = 30.0
	tempFactorCPerU = 0.05175
)

// VoltageFromRaw converts the D100 register value to volts, rounded to one
// decimal. Non-positive raw values degrade to 0.0 rather than failing; the
// caller must use the connectivity flag, not the zero, to decide validity.
func VoltageFromRaw(raw int) float64 {
	if raw <= 0 {
		return 0.0
	}
	return round1(float64(raw) / voltageRawMax * voltageRangeV)
}

// TemperatureFromRaw converts the D102 register value to °C, rounded to one
// decimal. There is no upper clamp; register noise is the caller's problem.
func TemperatureFromRaw(raw int) float64 {
	if raw <= 0 {
		return 0.0
	}
	return round1(tempFactorCPerU * float64(raw))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
