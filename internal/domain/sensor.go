package domain

import "time"

// SensorReading is a single set of flood sensor measurements.
// Water level is in centimeters, rainfall in millimeters and river
// flow in cubic meters per second. Readings are immutable once built.
type SensorReading struct {
	WaterLevel float64 `json:"water_level"`
	Rainfall   float64 `json:"rainfall"`
	RiverFlow  float64 `json:"river_flow"`
}

// RiskLevel is the three-tier flood risk classification, ordered by
// severity.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns the wire representation used by the API and stores.
func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// ParseRiskLevel maps a stored string back to a RiskLevel. Unknown
// values fall back to Low.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "High":
		return RiskHigh
	case "Medium":
		return RiskMedium
	default:
		return RiskLow
	}
}

// ZoneRisk is the multi-class zone classification used by the city
// monitor. It is distinct from RiskLevel: different formula, different
// thresholds, different channel set.
type ZoneRisk int

const (
	ZoneSafe ZoneRisk = iota
	ZoneModerate
	ZoneCritical
)

func (z ZoneRisk) String() string {
	switch z {
	case ZoneCritical:
		return "Critical"
	case ZoneModerate:
		return "Moderate"
	default:
		return "Safe"
	}
}

// RiskFactors is the per-channel impact breakdown returned with a
// prediction.
type RiskFactors struct {
	WaterLevelImpact string `json:"water_level_impact"`
	RainfallImpact   string `json:"rainfall_impact"`
	RiverFlowImpact  string `json:"river_flow_impact"`
}

// Prediction is the outcome of classifying one sensor reading.
type Prediction struct {
	RiskLevel  RiskLevel   `json:"-"`
	Risk       string      `json:"risk_level"`
	Confidence float64     `json:"confidence"`
	Factors    RiskFactors `json:"factors"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Alert is a persisted prediction record.
type Alert struct {
	ID         int64     `json:"id"`
	WaterLevel float64   `json:"water_level"`
	Rainfall   float64   `json:"rainfall"`
	RiverFlow  float64   `json:"river_flow"`
	RiskLevel  string    `json:"risk_level"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// AlertSummary aggregates alert counts per risk level.
type AlertSummary struct {
	Total  int64 `json:"total"`
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}
