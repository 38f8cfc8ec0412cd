// Package ingest turns the ESP module's loosely typed push payload into a
// typed sensor patch.
package ingest

import (
	"strconv"
	"strings"

	mm "motor_monitoring"
)

// Payload keys. The ESP firmware sends twelve positional fields.
const (
	keyCurrent     = "VAL1"
	keyVoltage     = "VAL2"
	keyRPM         = "VAL3"
	keyEnvTempC    = "VAL4"
	keyHumidity    = "VAL5"
	keyEnvTempF    = "VAL6"
	keyHeatIndexC  = "VAL7"
	keyHeatIndexF  = "VAL8"
	keyRelay1      = "VAL9"
	keyRelay2      = "VAL10"
	keyRelay3      = "VAL11"
	keyCombined    = "VAL12"
	defaultRelay   = "OFF"
	defaultAlarmOK = "NOR"
)

// Parse maps a flat payload to a SensorPatch.
//
// Numeric fields follow the sentinel-zero rule: a missing key, an empty
// string, an unparsable value, or a literal zero all map to nil. The
// physical quantities are never legitimately exactly zero while the motor
// runs, so zero means "no reading". Parsing never fails; a malformed field
// degrades to absent instead of rejecting the whole patch.
func Parse(payload map[string]any) mm.SensorPatch {
	return mm.SensorPatch{
		EspCurrent:  numField(payload, keyCurrent),
		EspVoltage:  numField(payload, keyVoltage),
		EspRPM:      numField(payload, keyRPM),
		EnvTempC:    numField(payload, keyEnvTempC),
		EnvHumidity: numField(payload, keyHumidity),
		EnvTempF:    numField(payload, keyEnvTempF),
		HeatIndexC:  numField(payload, keyHeatIndexC),
		HeatIndexF:  numField(payload, keyHeatIndexF),

		Relay1Status:   strField(payload, keyRelay1, defaultRelay),
		Relay2Status:   strField(payload, keyRelay2, defaultRelay),
		Relay3Status:   strField(payload, keyRelay3, defaultRelay),
		CombinedStatus: strField(payload, keyCombined, defaultAlarmOK),
	}
}

// numField extracts a numeric field, applying the sentinel-zero rule.
func numField(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if f == 0 {
		return nil
	}
	return &f
}

// strField extracts an enumerated status string, falling back to def when
// the key is absent, empty, or not a string.
func strField(m map[string]any, key, def string) string {
	v, ok := m[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
