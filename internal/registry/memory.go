// Package registry provides an in-memory rescue team registry, used
// in tests and as the DB-less fallback mode.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// Memory is a mutex-guarded domain.TeamRegistry keeping units in
// insertion order.
type Memory struct {
	mu    sync.Mutex
	units []domain.RescueUnit
	next  int64
}

// NewMemory creates a registry seeded with the given units. Units
// without an id are assigned ascending ids in input order.
func NewMemory(seed []domain.RescueUnit) *Memory {
	m := &Memory{next: 1}
	for _, u := range seed {
		if u.ID == 0 {
			u.ID = m.next
		}
		if u.ID >= m.next {
			m.next = u.ID + 1
		}
		if u.Status == "" {
			u.Status = domain.UnitAvailable
		}
		m.units = append(m.units, u)
	}
	return m
}

// AvailableUnits returns a snapshot of units in Available status, in
// insertion order.
func (m *Memory) AvailableUnits(ctx context.Context) ([]domain.RescueUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.RescueUnit
	for _, u := range m.units {
		if u.Status == domain.UnitAvailable {
			out = append(out, u)
		}
	}
	return out, nil
}

// AllUnits returns a snapshot of every unit in insertion order.
func (m *Memory) AllUnits(ctx context.Context) ([]domain.RescueUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.RescueUnit, len(m.units))
	copy(out, m.units)
	return out, nil
}

// Claim performs the Available -> Dispatched transition under the
// registry lock. Reports false when the unit is missing or no longer
// Available.
func (m *Memory) Claim(ctx context.Context, unitID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.units {
		if m.units[i].ID != unitID {
			continue
		}
		if m.units[i].Status != domain.UnitAvailable {
			return false, nil
		}
		m.units[i].Status = domain.UnitDispatched
		m.units[i].LastUpdated = time.Now().UTC()
		return true, nil
	}
	return false, nil
}

// ResetAll moves every unit back to Available.
func (m *Memory) ResetAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for i := range m.units {
		m.units[i].Status = domain.UnitAvailable
		m.units[i].LastUpdated = now
	}
	return int64(len(m.units)), nil
}
