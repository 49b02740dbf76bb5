package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/pkg/utils"
)

// ETABufferFactor converts kilometers to an ETA in minutes: roughly
// 1 km per minute of travel plus a 20% buffer.
const ETABufferFactor = 1.2

// DefaultClaimAttempts bounds the optimistic-claim retry loop in
// Dispatch. Unbounded retry risks livelock under sustained contention.
const DefaultClaimAttempts = 3

// Dispatcher selects the nearest available rescue unit for a distress
// coordinate and claims it. Constructed explicitly with its registry
// so tests get isolated instances instead of process-wide state.
type Dispatcher struct {
	registry    domain.TeamRegistry
	maxAttempts int
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry domain.TeamRegistry) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		maxAttempts: DefaultClaimAttempts,
	}
}

// Dispatch assigns the nearest Available unit to the target
// coordinate and transitions it to Dispatched.
//
// The select-then-claim sequence is optimistic: the registry's Claim
// only succeeds if the unit is still Available at write time, so no
// two concurrent calls can win the same unit. A lost claim triggers a
// fresh snapshot and another attempt, up to maxAttempts, after which
// domain.ErrRaceLost surfaces. An empty snapshot at any attempt fails
// with domain.ErrNoAvailableUnits. On success exactly one unit has
// changed state and its id is the one returned; on failure nothing
// was mutated.
func (d *Dispatcher) Dispatch(ctx context.Context, lat, lng float64) (domain.DispatchResult, error) {
	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		units, err := d.registry.AvailableUnits(ctx)
		if err != nil {
			return domain.DispatchResult{}, fmt.Errorf("dispatch: snapshot failed: %w", err)
		}
		if len(units) == 0 {
			return domain.DispatchResult{}, domain.ErrNoAvailableUnits
		}

		nearest, distance := nearestUnit(units, lat, lng)

		claimed, err := d.registry.Claim(ctx, nearest.ID)
		if err != nil {
			return domain.DispatchResult{}, fmt.Errorf("dispatch: claim failed: %w", err)
		}
		if !claimed {
			// Lost the race for this unit; re-snapshot and retry.
			continue
		}

		return domain.DispatchResult{
			UnitID:       nearest.ID,
			Team:         nearest.Name,
			DistanceKM:   distance,
			ETAMinutes:   etaMinutes(distance),
			DispatchedAt: time.Now().UTC(),
		}, nil
	}

	return domain.DispatchResult{}, domain.ErrRaceLost
}

// ResetAll moves every unit back to Available. Testing/demo utility.
func (d *Dispatcher) ResetAll(ctx context.Context) (int64, error) {
	count, err := d.registry.ResetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("dispatch: reset failed: %w", err)
	}
	return count, nil
}

// nearestUnit scans the snapshot once and keeps the first strict
// minimum. Ties at the exact minimal distance resolve to the earliest
// unit in the snapshot's stable order.
func nearestUnit(units []domain.RescueUnit, lat, lng float64) (domain.RescueUnit, float64) {
	nearest := units[0]
	minDistance := utils.Haversine(lat, lng, nearest.Lat, nearest.Lng)
	for _, u := range units[1:] {
		if d := utils.Haversine(lat, lng, u.Lat, u.Lng); d < minDistance {
			nearest = u
			minDistance = d
		}
	}
	return nearest, minDistance
}

func etaMinutes(distanceKM float64) int {
	return int(math.Floor(distanceKM * ETABufferFactor))
}
