package engine

import (
	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/pkg/utils"
)

// Weighted zone scoring. Water level is in meters here (the city
// monitor's scale), rainfall in mm, drainage capacity in [0, 1] where
// lower capacity increases risk.
const (
	zoneWaterScaleM  = 8.0
	zoneRainScaleMM  = 200.0
	zoneWaterWeight  = 0.4
	zoneRainWeight   = 0.3
	zoneDrainWeight  = 0.3
	zoneCriticalOver = 0.7
	zoneModerateOver = 0.4
)

// ZoneScore computes the weighted zone risk score in [0, 1]. Each
// channel ratio is clamped to [0, 1], so out-of-range and non-finite
// inputs contribute at most their full weight.
func ZoneScore(waterLevelM, rainfallMM, drainageCapacity float64) float64 {
	return zoneWaterWeight*utils.Clamp(waterLevelM/zoneWaterScaleM, 0, 1) +
		zoneRainWeight*utils.Clamp(rainfallMM/zoneRainScaleMM, 0, 1) +
		zoneDrainWeight*utils.Clamp(1-drainageCapacity, 0, 1)
}

// ClassifyZone maps city conditions to a zone risk class. This is the
// multi-class variant and stays fully separate from Classify: a
// different formula over a different channel set with its own
// thresholds.
func ClassifyZone(waterLevelM, rainfallMM, drainageCapacity float64) domain.ZoneRisk {
	score := ZoneScore(waterLevelM, rainfallMM, drainageCapacity)
	switch {
	case score > zoneCriticalOver:
		return domain.ZoneCritical
	case score > zoneModerateOver:
		return domain.ZoneModerate
	default:
		return domain.ZoneSafe
	}
}
