// Package engine implements the risk classification and rescue
// dispatch core: a deterministic threshold-sum classifier over sensor
// readings, a weighted zone classifier for city monitoring, and a
// nearest-unit dispatcher with an optimistic claim protocol.
package engine

import (
	"math"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// Channel breakpoints for the threshold-sum classifier. A reading
// strictly above a breakpoint earns that tier's points; the highest
// matching tier wins, tiers are not cumulative within a channel.
type channelThresholds struct {
	tier1, tier2, tier3 float64
}

var (
	waterLevelThresholds = channelThresholds{tier1: 40, tier2: 60, tier3: 80}   // cm
	rainfallThresholds   = channelThresholds{tier1: 40, tier2: 70, tier3: 100}  // mm
	riverFlowThresholds  = channelThresholds{tier1: 100, tier2: 200, tier3: 300} // m³/s
)

// Score boundaries: risk_score >= 6 is High, >= 3 is Medium.
const (
	highScoreBoundary   = 6
	mediumScoreBoundary = 3
	maxChannelScore     = 3
)

// channelScore maps one measurement to its 0-3 point contribution.
// NaN counts as the maximal contribution: an undefined reading in a
// life-safety scoring path must never lower the risk. Infinities fall
// out of the comparisons naturally (+Inf earns 3, -Inf earns 0).
func channelScore(value float64, t channelThresholds) int {
	if math.IsNaN(value) {
		return maxChannelScore
	}
	switch {
	case value > t.tier3:
		return 3
	case value > t.tier2:
		return 2
	case value > t.tier1:
		return 1
	default:
		return 0
	}
}

// Score sums the three channel contributions into a risk score in
// [0, 9]. Pure function: identical input always yields identical
// output, no iteration-order dependence.
func Score(r domain.SensorReading) int {
	return channelScore(r.WaterLevel, waterLevelThresholds) +
		channelScore(r.Rainfall, rainfallThresholds) +
		channelScore(r.RiverFlow, riverFlowThresholds)
}

// Classify maps a sensor reading to a risk level. Boundary scores
// belong to the higher bucket.
func Classify(r domain.SensorReading) domain.RiskLevel {
	return levelForScore(Score(r))
}

func levelForScore(score int) domain.RiskLevel {
	switch {
	case score >= highScoreBoundary:
		return domain.RiskHigh
	case score >= mediumScoreBoundary:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Confidence derives a deterministic confidence value in [0.75, 0.95]
// from the risk score: scores deep inside their bucket are reported
// with more confidence than scores sitting on a classification
// boundary. Replaces the random placeholder confidence of earlier
// revisions with a value tied to the actual score.
func Confidence(score int) float64 {
	d := score - mediumScoreBoundary
	if b := score - highScoreBoundary; abs(b) < abs(d) {
		d = b
	}
	margin := abs(d)
	if margin > 3 {
		margin = 3
	}
	return 0.75 + float64(margin)*(0.20/3.0)
}

// Factors reports the per-channel impact tier for a reading: a
// channel at its top tier reads High, at its middle tier Medium and
// Low otherwise.
func Factors(r domain.SensorReading) domain.RiskFactors {
	return domain.RiskFactors{
		WaterLevelImpact: impact(channelScore(r.WaterLevel, waterLevelThresholds)),
		RainfallImpact:   impact(channelScore(r.Rainfall, rainfallThresholds)),
		RiverFlowImpact:  impact(channelScore(r.RiverFlow, riverFlowThresholds)),
	}
}

func impact(points int) string {
	switch points {
	case 3:
		return "High"
	case 2:
		return "Medium"
	default:
		return "Low"
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
