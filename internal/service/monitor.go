package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/engine"
	"github.com/Aakashvish187/jalrakshak.ai/internal/notify"
	"github.com/Aakashvish187/jalrakshak.ai/internal/observability/metrics"
	"github.com/Aakashvish187/jalrakshak.ai/internal/simulator"
)

// MonitorService periodically sweeps the city roster, records an
// observation per city and raises an alarm when a city turns critical.
type MonitorService struct {
	cities    []domain.City
	generator *simulator.Generator
	snapshots domain.SnapshotStore
	notifier  notify.Notifier
	spec      string

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewMonitorService creates a stopped monitor. spec is a cron
// expression, for example "@every 30s".
func NewMonitorService(cities []domain.City, generator *simulator.Generator, snapshots domain.SnapshotStore, notifier notify.Notifier, spec string) *MonitorService {
	return &MonitorService{
		cities:    cities,
		generator: generator,
		snapshots: snapshots,
		notifier:  notifier,
		spec:      spec,
	}
}

// Start schedules the periodic sweep. Starting an already running
// monitor is an error.
func (s *MonitorService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("monitor: already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, s.Sweep); err != nil {
		return fmt.Errorf("monitor: schedule %q: %w", s.spec, err)
	}
	c.Start()

	s.cron = c
	s.running = true
	log.Printf("City monitor started (%s, %d cities)", s.spec, len(s.cities))
	return nil
}

// Stop halts the sweep and waits for an in-flight run to finish.
func (s *MonitorService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("monitor: not running")
	}

	<-s.cron.Stop().Done()
	s.cron = nil
	s.running = false
	log.Println("City monitor stopped")
	return nil
}

// Running reports whether the monitor is scheduled.
func (s *MonitorService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Cities returns the monitored roster.
func (s *MonitorService) Cities() []domain.City {
	out := make([]domain.City, len(s.cities))
	copy(out, s.cities)
	return out
}

// Sweep runs one monitoring pass over every city.
func (s *MonitorService) Sweep() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := metrics.ResultSuccess
	for _, city := range s.cities {
		if err := s.observeCity(ctx, city); err != nil {
			result = metrics.ResultError
			log.Printf("Monitor sweep failed for %s: %v", city.Name, err)
		}
	}
	metrics.ObserveMonitorRun(result, time.Since(start))
}

func (s *MonitorService) observeCity(ctx context.Context, city domain.City) error {
	waterLevelM, rainfallMM, drainage := s.generator.CityReading(city)
	risk := engine.ClassifyZone(waterLevelM, rainfallMM, drainage)

	snap := domain.CitySnapshot{
		City:             city.Name,
		WaterLevelM:      waterLevelM,
		RainfallMM:       rainfallMM,
		DrainageCapacity: drainage,
		Risk:             risk.String(),
		Timestamp:        time.Now().UTC(),
	}
	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if risk == domain.ZoneCritical {
		text := fmt.Sprintf("⚠️ %s is CRITICAL\nWater level: %.2f m\nRainfall: %.1f mm\nDrainage: %.2f",
			city.Name, waterLevelM, rainfallMM, drainage)
		if err := s.notifier.Notify(text); err != nil {
			metrics.IncNotify(metrics.ResultError)
			log.Printf("Failed to announce critical city %s: %v", city.Name, err)
		} else {
			metrics.IncNotify(metrics.ResultSuccess)
		}
	}
	return nil
}

// LatestSnapshots returns the most recent observation per city.
func (s *MonitorService) LatestSnapshots(ctx context.Context) ([]domain.CitySnapshot, error) {
	return s.snapshots.LatestSnapshots(ctx)
}

// CityHistory returns recent observations for one city.
func (s *MonitorService) CityHistory(ctx context.Context, city string, limit int) ([]domain.CitySnapshot, error) {
	return s.snapshots.CityHistory(ctx, city, limit)
}
