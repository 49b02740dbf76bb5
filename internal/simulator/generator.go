// Package simulator produces synthetic sensor data for demos and for
// the background city monitor.
package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/pkg/utils"
)

// Sensor value ranges for uncalibrated live readings.
const (
	waterLevelMinCM = 20.0
	waterLevelMaxCM = 120.0
	rainfallMinMM   = 10.0
	rainfallMaxMM   = 150.0
	riverFlowMin    = 50.0
	riverFlowMax    = 400.0
)

// Generator emits pseudo sensor readings. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator seeded from the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a generator with a fixed seed, for reproducible
// sequences in tests.
func NewSeeded(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

// Reading returns one synthetic station reading with water level in
// cm, rainfall in mm and river flow in m3/s.
func (g *Generator) Reading() domain.SensorReading {
	g.mu.Lock()
	defer g.mu.Unlock()
	return domain.SensorReading{
		WaterLevel: utils.RoundTo(g.uniform(waterLevelMinCM, waterLevelMaxCM), 1),
		Rainfall:   utils.RoundTo(g.uniform(rainfallMinMM, rainfallMaxMM), 1),
		RiverFlow:  utils.RoundTo(g.uniform(riverFlowMin, riverFlowMax), 1),
	}
}

// CityReading returns water level in meters, rainfall in mm and an
// effective drainage capacity, conditioned on the city's profile. A
// flood-prone city during monsoon yields systematically worse values
// than a well-drained one.
func (g *Generator) CityReading(c domain.City) (waterLevelM, rainfallMM, drainage float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	baseWater := 1.0 + c.FloodRiskFactor*4.0
	waterLevelM = utils.Clamp(baseWater+g.uniform(-1.0, 1.0), 0.5, 8.0)

	baseRain := c.MonsoonIntensity * 100.0
	rainfallMM = utils.Clamp(baseRain+g.uniform(-30.0, 30.0), 0.0, 200.0)

	drainage = utils.Clamp(c.DrainageCapacity+g.uniform(-0.2, 0.2), 0.1, 1.0)

	return utils.RoundTo(waterLevelM, 2), utils.RoundTo(rainfallMM, 1), utils.RoundTo(drainage, 2)
}
