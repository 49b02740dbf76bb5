package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/engine"
	"github.com/Aakashvish187/jalrakshak.ai/internal/notify"
	"github.com/Aakashvish187/jalrakshak.ai/internal/observability/metrics"
)

// RescueService assigns rescue units to incidents and tracks fleet
// status.
type RescueService struct {
	dispatcher *engine.Dispatcher
	registry   domain.TeamRegistry
	notifier   notify.Notifier
}

// NewRescueService creates a new rescue service.
func NewRescueService(dispatcher *engine.Dispatcher, registry domain.TeamRegistry, notifier notify.Notifier) *RescueService {
	return &RescueService{
		dispatcher: dispatcher,
		registry:   registry,
		notifier:   notifier,
	}
}

// Assign dispatches the nearest available unit to the given incident
// location and announces the assignment.
func (s *RescueService) Assign(ctx context.Context, lat, lng float64) (domain.DispatchResult, error) {
	start := time.Now()
	result, err := s.dispatcher.Dispatch(ctx, lat, lng)
	switch {
	case errors.Is(err, domain.ErrNoAvailableUnits):
		metrics.ObserveDispatch(metrics.DispatchOutcomeNoUnits, time.Since(start))
		return domain.DispatchResult{}, err
	case errors.Is(err, domain.ErrRaceLost):
		metrics.ObserveDispatch(metrics.DispatchOutcomeRaceLost, time.Since(start))
		return domain.DispatchResult{}, err
	case err != nil:
		metrics.ObserveDispatch(metrics.ResultError, time.Since(start))
		return domain.DispatchResult{}, err
	}
	metrics.ObserveDispatch(metrics.DispatchOutcomeAssigned, time.Since(start))

	text := fmt.Sprintf("🚁 %s dispatched to (%.4f, %.4f)\nDistance: %.2f km\nETA: %d min",
		result.Team, lat, lng, result.DistanceKM, result.ETAMinutes)
	if err := s.notifier.Notify(text); err != nil {
		metrics.IncNotify(metrics.ResultError)
		log.Printf("Failed to announce dispatch: %v", err)
	} else {
		metrics.IncNotify(metrics.ResultSuccess)
	}

	return result, nil
}

// ResetAll returns the whole fleet to available and reports how many
// units were written.
func (s *RescueService) ResetAll(ctx context.Context) (int64, error) {
	return s.dispatcher.ResetAll(ctx)
}

// Status returns every unit regardless of state.
func (s *RescueService) Status(ctx context.Context) ([]domain.RescueUnit, error) {
	return s.registry.AllUnits(ctx)
}
