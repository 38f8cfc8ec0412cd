package motor_monitoring

import "time"

// Device identifiers used in connectivity tracking and events.
const (
	DeviceESP = "ESP"
	DevicePLC = "PLC"
)

// Severity / priority levels for recommendations and alerts.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

// SensorSnapshot is the latest known value per metric. Every field is
// independently nullable: nil means "no reading", never a literal zero.
// The snapshot is owned by the state store; all writers go through it.
type SensorSnapshot struct {
	// ESP sensor module (push device)
	EspCurrent  *float64 `json:"esp_current"`
	EspVoltage  *float64 `json:"esp_voltage"`
	EspRPM      *float64 `json:"esp_rpm"`
	EnvTempC    *float64 `json:"env_temp_c"`
	EnvHumidity *float64 `json:"env_humidity"`
	EnvTempF    *float64 `json:"env_temp_f"`
	HeatIndexC  *float64 `json:"heat_index_c"`
	HeatIndexF  *float64 `json:"heat_index_f"`

	Relay1Status   *string `json:"relay1_status"`
	Relay2Status   *string `json:"relay2_status"`
	Relay3Status   *string `json:"relay3_status"`
	CombinedStatus *string `json:"combined_status"`

	// FX5U controller (poll device)
	PlcMotorTemp    *float64 `json:"plc_motor_temp"`
	PlcMotorVoltage *float64 `json:"plc_motor_voltage"`
}

// SensorPatch is a partial snapshot produced by the reading parser.
// nil fields are "not present in this payload" and leave the snapshot as-is.
type SensorPatch struct {
	EspCurrent  *float64
	EspVoltage  *float64
	EspRPM      *float64
	EnvTempC    *float64
	EnvHumidity *float64
	EnvTempF    *float64
	HeatIndexC  *float64
	HeatIndexF  *float64

	Relay1Status   string
	Relay2Status   string
	Relay3Status   string
	CombinedStatus string
}

// ControllerReading is one successful poll of the controller registers,
// already converted to physical units.
type ControllerReading struct {
	RawVoltage uint16    `json:"raw_voltage"`
	RawTemp    uint16    `json:"raw_temp"`
	VoltageV   float64   `json:"voltage_v"`
	TempC      float64   `json:"temp_c"`
	At         time.Time `json:"at"`
}

// ConnectivityStatus tracks per-device liveness, independent per device.
type ConnectivityStatus struct {
	EspConnected bool       `json:"esp_connected"`
	PlcConnected bool       `json:"plc_connected"`
	EspLastSeen  *time.Time `json:"esp_last_seen"`
	PlcLastSeen  *time.Time `json:"plc_last_seen"`
	LastUpdate   *time.Time `json:"last_update"`
}

// HealthBreakdown is the result of one scoring cycle. Immutable once
// produced; only the newest instance is kept live.
type HealthBreakdown struct {
	OverallScore     float64             `json:"overall_health_score"`
	ElectricalHealth float64             `json:"electrical_health"`
	ThermalHealth    float64             `json:"thermal_health"`
	MechanicalHealth float64             `json:"mechanical_health"`
	PredictiveHealth float64             `json:"predictive_health"`
	EfficiencyScore  float64             `json:"efficiency_score"`
	Status           string              `json:"status"` // Excellent | Good | Warning | Critical
	StatusClass      string              `json:"status_class"`
	Issues           map[string][]string `json:"issues"`
}

// Recommendation is one maintenance suggestion produced by the rule engine.
type Recommendation struct {
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Priority    string  `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Action      string  `json:"action"`
	Confidence  float64 `json:"confidence"` // 0..1
}

// MaintenanceAlert is a persisted promotion of a high-confidence
// HIGH/CRITICAL recommendation, deduplicated by type within a window.
type MaintenanceAlert struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	Priority     string    `json:"priority"`
	Description  string    `json:"description"`
	Action       string    `json:"action"`
	Confidence   float64   `json:"confidence"`
	Acknowledged bool      `json:"acknowledged"`
}

// User is a dashboard account.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose the hash
}

// HistoricalReading is the append-only persisted record: a snapshot, the
// health breakdown computed for it, and the derived power figure.
type HistoricalReading struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	EspCurrent  *float64 `json:"esp_current"`
	EspVoltage  *float64 `json:"esp_voltage"`
	EspRPM      *float64 `json:"esp_rpm"`
	EnvTempC    *float64 `json:"env_temp_c"`
	EnvHumidity *float64 `json:"env_humidity"`

	PlcMotorTemp    *float64 `json:"plc_motor_temp"`
	PlcMotorVoltage *float64 `json:"plc_motor_voltage"`

	EspConnected bool `json:"esp_connected"`
	PlcConnected bool `json:"plc_connected"`

	OverallScore     float64 `json:"overall_health_score"`
	ElectricalHealth float64 `json:"electrical_health"`
	ThermalHealth    float64 `json:"thermal_health"`
	MechanicalHealth float64 `json:"mechanical_health"`
	PredictiveHealth float64 `json:"predictive_health"`
	EfficiencyScore  float64 `json:"efficiency_score"`

	PowerKW float64 `json:"power_consumption"`
}
