package domain

import (
	"context"
	"errors"
	"time"
)

// UnitStatus is the lifecycle state of a rescue unit. Units start
// Available (or Standby), are moved to Dispatched by an assignment and
// return to Available only through an explicit reset.
type UnitStatus string

const (
	UnitAvailable  UnitStatus = "available"
	UnitStandby    UnitStatus = "standby"
	UnitDispatched UnitStatus = "dispatched"
)

// RescueUnit is a deployable rescue team with a home coordinate.
type RescueUnit struct {
	ID          int64      `json:"id"`
	Name        string     `json:"team"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Status      UnitStatus `json:"status"`
	LastUpdated time.Time  `json:"last_updated"`
}

// DispatchResult describes a successful rescue assignment.
type DispatchResult struct {
	UnitID       int64     `json:"team_id"`
	Team         string    `json:"team"`
	DistanceKM   float64   `json:"distance_km"`
	ETAMinutes   int       `json:"eta_minutes"`
	DispatchedAt time.Time `json:"dispatch_time"`
}

var (
	// ErrNoAvailableUnits is returned when no unit is in Available
	// status at dispatch time. Recoverable: the caller can retry later
	// or escalate to standby units.
	ErrNoAvailableUnits = errors.New("no available rescue units")

	// ErrRaceLost is returned when every claim attempt lost to a
	// concurrent dispatch within the bounded retry budget.
	ErrRaceLost = errors.New("rescue unit claimed concurrently")

	// ErrNotFound is returned by stores for missing records.
	ErrNotFound = errors.New("record not found")

	// ErrNotDistress is returned when an SOS message carries no distress
	// keyword and no explicit priority.
	ErrNotDistress = errors.New("message does not look like a distress request")
)

// TeamRegistry is the mutable store of rescue units. Implementations
// must return units in a stable insertion order (ascending id) so that
// the dispatcher's first-minimum tie break is deterministic, and must
// make Claim a conditional write: it succeeds only if the unit is
// still Available at write time.
type TeamRegistry interface {
	// AvailableUnits returns a snapshot of all Available units,
	// ordered by ascending id.
	AvailableUnits(ctx context.Context) ([]RescueUnit, error)

	// AllUnits returns every unit regardless of status, ordered by
	// ascending id.
	AllUnits(ctx context.Context) ([]RescueUnit, error)

	// Claim transitions the unit from Available to Dispatched. It
	// reports false (without error) when the unit was no longer
	// Available, which signals a lost race.
	Claim(ctx context.Context, unitID int64) (bool, error)

	// ResetAll moves every unit back to Available and returns the
	// number of units written. Idempotent: a second call leaves the
	// registry in the same end state.
	ResetAll(ctx context.Context) (int64, error)
}
