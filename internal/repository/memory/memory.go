// Package memory implements the persistence interfaces in process
// memory, for demo mode without a database and for tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/registry"
)

// Store implements domain.Store without external storage.
type Store struct {
	*registry.Memory

	mu        sync.Mutex
	alerts    []domain.Alert
	reports   []domain.Report
	zones     []domain.FloodZone
	sos       []domain.SOSRequest
	snapshots []domain.CitySnapshot

	// Per-collection counters, matching the SQL backends' per-table
	// AUTOINCREMENT ids.
	alertID    serial
	reportID   serial
	sosID      serial
	snapshotID serial
}

// serial hands out ids starting at 1. Callers hold the store mutex.
type serial int64

func (s *serial) next() int64 {
	*s++
	return int64(*s)
}

// New creates an empty in-memory store seeded with the given teams
// and zones.
func New(units []domain.RescueUnit, zones []domain.FloodZone) *Store {
	s := &Store{
		Memory: registry.NewMemory(units),
	}
	for i, z := range zones {
		z.ID = int64(i + 1)
		s.zones = append(s.zones, z)
	}
	return s
}

// SaveAlert stores a prediction record.
func (s *Store) SaveAlert(ctx context.Context, a domain.Alert) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.alertID.next()
	s.alerts = append(s.alerts, a)
	return a.ID, nil
}

// ListAlerts returns alerts newest first.
func (s *Store) ListAlerts(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []domain.Alert
	for _, a := range s.alerts {
		if f.RiskLevel != "" && a.RiskLevel != f.RiskLevel {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetAlert returns one alert by id.
func (s *Store) GetAlert(ctx context.Context, id int64) (domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Alert{}, domain.ErrNotFound
}

// DeleteAlert removes one alert by id.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// AlertSummary aggregates alert counts per risk level.
func (s *Store) AlertSummary(ctx context.Context) (domain.AlertSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary domain.AlertSummary
	for _, a := range s.alerts {
		summary.Total++
		switch a.RiskLevel {
		case "High":
			summary.High++
		case "Medium":
			summary.Medium++
		case "Low":
			summary.Low++
		}
	}
	return summary, nil
}

// SaveReport stores a citizen report.
func (s *Store) SaveReport(ctx context.Context, r domain.Report) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.reportID.next()
	s.reports = append(s.reports, r)
	return r.ID, nil
}

// ListReports returns the latest reports, newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 5
	}
	out := make([]domain.Report, len(s.reports))
	copy(out, s.reports)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListZones returns the seeded flood zones.
func (s *Store) ListZones(ctx context.Context) ([]domain.FloodZone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FloodZone, len(s.zones))
	copy(out, s.zones)
	return out, nil
}

// SaveSOS stores a distress request.
func (s *Store) SaveSOS(ctx context.Context, req domain.SOSRequest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.sosID.next()
	s.sos = append(s.sos, req)
	return req.ID, nil
}

// ListSOS returns distress requests newest first.
func (s *Store) ListSOS(ctx context.Context, status string, limit int) ([]domain.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	var out []domain.SOSRequest
	for _, req := range s.sos {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetSOS returns one distress request by id.
func (s *Store) GetSOS(ctx context.Context, id int64) (domain.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.sos {
		if req.ID == id {
			return req, nil
		}
	}
	return domain.SOSRequest{}, domain.ErrNotFound
}

// ResolveSOS marks a request resolved.
func (s *Store) ResolveSOS(ctx context.Context, id int64, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sos {
		if s.sos[i].ID == id {
			s.sos[i].Status = domain.SOSResolved
			s.sos[i].Notes = notes
			return nil
		}
	}
	return domain.ErrNotFound
}

// SaveSnapshot stores one city monitoring observation.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.CitySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.ID = s.snapshotID.next()
	s.snapshots = append(s.snapshots, snap)
	return nil
}

// LatestSnapshots returns the most recent observation per city.
func (s *Store) LatestSnapshots(ctx context.Context) ([]domain.CitySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := map[string]domain.CitySnapshot{}
	for _, snap := range s.snapshots {
		if cur, ok := latest[snap.City]; !ok || snap.ID > cur.ID {
			latest[snap.City] = snap
		}
	}

	cities := make([]string, 0, len(latest))
	for city := range latest {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	out := make([]domain.CitySnapshot, 0, len(cities))
	for _, city := range cities {
		out = append(out, latest[city])
	}
	return out, nil
}

// CityHistory returns recent observations for one city, newest first.
func (s *Store) CityHistory(ctx context.Context, city string, limit int) ([]domain.CitySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	var out []domain.CitySnapshot
	for _, snap := range s.snapshots {
		if snap.City == city {
			out = append(out, snap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Health always succeeds in memory mode.
func (s *Store) Health(ctx context.Context) error { return nil }

// Close is a no-op in memory mode.
func (s *Store) Close() error { return nil }
