package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

func TestScoreChannelBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		reading domain.SensorReading
		want    int
	}{
		{"all zero", domain.SensorReading{}, 0},
		{"water at threshold scores nothing", domain.SensorReading{WaterLevel: 40}, 0},
		{"water just over threshold", domain.SensorReading{WaterLevel: 41}, 1},
		{"water mid tier", domain.SensorReading{WaterLevel: 60}, 1},
		{"water second tier", domain.SensorReading{WaterLevel: 61}, 2},
		{"water top tier", domain.SensorReading{WaterLevel: 81}, 3},
		{"rainfall at threshold", domain.SensorReading{Rainfall: 40}, 0},
		{"rainfall just over", domain.SensorReading{Rainfall: 41}, 1},
		{"rainfall second tier", domain.SensorReading{Rainfall: 71}, 2},
		{"rainfall top tier", domain.SensorReading{Rainfall: 101}, 3},
		{"river flow at threshold", domain.SensorReading{RiverFlow: 100}, 0},
		{"river flow just over", domain.SensorReading{RiverFlow: 101}, 1},
		{"river flow second tier", domain.SensorReading{RiverFlow: 201}, 2},
		{"river flow top tier", domain.SensorReading{RiverFlow: 301}, 3},
		{"channels sum", domain.SensorReading{WaterLevel: 81, Rainfall: 71, RiverFlow: 101}, 6},
		{"everything maxed", domain.SensorReading{WaterLevel: 120, Rainfall: 150, RiverFlow: 400}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.reading); got != tt.want {
				t.Fatalf("Score(%+v) = %d, want %d", tt.reading, got, tt.want)
			}
		})
	}
}

func TestClassifyScoreBuckets(t *testing.T) {
	tests := []struct {
		name    string
		reading domain.SensorReading
		score   int
		want    domain.RiskLevel
	}{
		{"score 0 is low", domain.SensorReading{}, 0, domain.RiskLow},
		{"score 2 is low", domain.SensorReading{WaterLevel: 61}, 2, domain.RiskLow},
		{"score 3 is medium", domain.SensorReading{WaterLevel: 81}, 3, domain.RiskMedium},
		{"score 5 is medium", domain.SensorReading{WaterLevel: 81, Rainfall: 71}, 5, domain.RiskMedium},
		{"score 6 is high", domain.SensorReading{WaterLevel: 81, Rainfall: 101}, 6, domain.RiskHigh},
		{"score 9 is high", domain.SensorReading{WaterLevel: 120, Rainfall: 150, RiverFlow: 400}, 9, domain.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.reading); got != tt.score {
				t.Fatalf("Score(%+v) = %d, want %d", tt.reading, got, tt.score)
			}
			if got := Classify(tt.reading); got != tt.want {
				t.Fatalf("Classify(%+v) = %v, want %v", tt.reading, got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	r := domain.SensorReading{WaterLevel: 75.5, Rainfall: 88.2, RiverFlow: 210.0}
	first := Classify(r)
	for i := 0; i < 100; i++ {
		if got := Classify(r); got != first {
			t.Fatalf("Classify changed between calls: %v then %v", first, got)
		}
	}
}

func TestClassifyNonFiniteInputs(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	// An undefined measurement must count as the worst case.
	if got := Score(domain.SensorReading{WaterLevel: nan}); got != 3 {
		t.Fatalf("Score with NaN water level = %d, want 3", got)
	}
	if got := Classify(domain.SensorReading{WaterLevel: nan, Rainfall: nan, RiverFlow: nan}); got != domain.RiskHigh {
		t.Fatalf("Classify with all NaN = %v, want RiskHigh", got)
	}
	if got := Classify(domain.SensorReading{WaterLevel: inf, Rainfall: inf, RiverFlow: inf}); got != domain.RiskHigh {
		t.Fatalf("Classify with all +Inf = %v, want RiskHigh", got)
	}
	if got := Classify(domain.SensorReading{WaterLevel: math.Inf(-1)}); got != domain.RiskLow {
		t.Fatalf("Classify with -Inf water level = %v, want RiskLow", got)
	}
}

func TestConfidenceRangeAndBoundaries(t *testing.T) {
	for score := 0; score <= 9; score++ {
		c := Confidence(score)
		if c < 0.75 || c > 0.95 {
			t.Fatalf("Confidence(%d) = %v, outside [0.75, 0.95]", score, c)
		}
	}

	// On a classification boundary the margin is zero.
	if got := Confidence(3); got != 0.75 {
		t.Fatalf("Confidence(3) = %v, want 0.75", got)
	}
	if got := Confidence(6); got != 0.75 {
		t.Fatalf("Confidence(6) = %v, want 0.75", got)
	}

	// Far from both boundaries the margin caps out.
	if got := Confidence(0); math.Abs(got-0.95) > 1e-9 {
		t.Fatalf("Confidence(0) = %v, want 0.95", got)
	}
	if got := Confidence(9); math.Abs(got-0.95) > 1e-9 {
		t.Fatalf("Confidence(9) = %v, want 0.95", got)
	}

	// Deterministic: the same score always yields the same value.
	if Confidence(4) != Confidence(4) {
		t.Fatal("Confidence(4) is not deterministic")
	}
}

func TestFactors(t *testing.T) {
	r := domain.SensorReading{WaterLevel: 85, Rainfall: 75, RiverFlow: 50}
	want := domain.RiskFactors{
		WaterLevelImpact: "High",
		RainfallImpact:   "Medium",
		RiverFlowImpact:  "Low",
	}
	if got := Factors(r); !reflect.DeepEqual(got, want) {
		t.Fatalf("Factors(%+v) = %+v, want %+v", r, got, want)
	}
}
