package domain

import "time"

// City describes a monitored city and its flood characteristics.
// FloodRiskFactor, MonsoonIntensity and DrainageCapacity are all in
// [0, 1]; a lower drainage capacity increases risk.
type City struct {
	Name             string  `json:"city" yaml:"name"`
	Lat              float64 `json:"lat" yaml:"lat"`
	Lng              float64 `json:"lng" yaml:"lng"`
	FloodRiskFactor  float64 `json:"flood_risk_factor" yaml:"flood_risk_factor"`
	MonsoonIntensity float64 `json:"monsoon_intensity" yaml:"monsoon_intensity"`
	DrainageCapacity float64 `json:"drainage_capacity" yaml:"drainage_capacity"`
}

// CitySnapshot is one monitoring observation for a city. WaterLevelM
// is in meters (the zone classifier's scale), unlike SensorReading
// which carries centimeters.
type CitySnapshot struct {
	ID               int64     `json:"id"`
	City             string    `json:"city"`
	WaterLevelM      float64   `json:"water_level_m"`
	RainfallMM       float64   `json:"rainfall_mm"`
	DrainageCapacity float64   `json:"drainage_capacity"`
	Risk             string    `json:"risk"`
	Timestamp        time.Time `json:"timestamp"`
}
