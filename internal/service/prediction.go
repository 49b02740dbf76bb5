package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/engine"
	"github.com/Aakashvish187/jalrakshak.ai/internal/observability/metrics"
)

// PredictionService classifies sensor readings and records the
// resulting alerts.
type PredictionService struct {
	alerts domain.AlertStore

	wgBg sync.WaitGroup // tracks background save goroutines for graceful shutdown
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(alerts domain.AlertStore) *PredictionService {
	return &PredictionService{alerts: alerts}
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *PredictionService) WaitBackground() {
	s.wgBg.Wait()
}

// Predict classifies one reading. Persistence happens asynchronously
// so a slow store never delays the caller.
func (s *PredictionService) Predict(ctx context.Context, r domain.SensorReading) domain.Prediction {
	score := engine.Score(r)
	level := engine.Classify(r)
	confidence := engine.Confidence(score)

	p := domain.Prediction{
		RiskLevel:  level,
		Risk:       level.String(),
		Confidence: confidence,
		Factors:    engine.Factors(r),
		Timestamp:  time.Now().UTC(),
	}

	metrics.IncPrediction(p.Risk)

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		alert := domain.Alert{
			WaterLevel: r.WaterLevel,
			Rainfall:   r.Rainfall,
			RiverFlow:  r.RiverFlow,
			RiskLevel:  p.Risk,
			Confidence: p.Confidence,
			Timestamp:  p.Timestamp,
		}
		if _, err := s.alerts.SaveAlert(bgCtx, alert); err != nil {
			log.Printf("Failed to save alert: %v", err)
		}
	}()

	return p
}

// Alerts returns stored alerts matching the filter.
func (s *PredictionService) Alerts(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, error) {
	return s.alerts.ListAlerts(ctx, f)
}

// Alert returns one stored alert by id.
func (s *PredictionService) Alert(ctx context.Context, id int64) (domain.Alert, error) {
	return s.alerts.GetAlert(ctx, id)
}

// DeleteAlert removes one stored alert by id.
func (s *PredictionService) DeleteAlert(ctx context.Context, id int64) error {
	return s.alerts.DeleteAlert(ctx, id)
}

// Summary aggregates stored alert counts per risk level.
func (s *PredictionService) Summary(ctx context.Context) (domain.AlertSummary, error) {
	return s.alerts.AlertSummary(ctx)
}
