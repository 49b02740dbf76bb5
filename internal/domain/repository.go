package domain

import "context"

// AlertFilter narrows alert listings.
type AlertFilter struct {
	Limit     int
	Offset    int
	RiskLevel string
}

// AlertStore persists prediction records.
// The domain defines the interfaces so that storage backends stay
// swappable (SQLite by default, PostgreSQL when configured).
type AlertStore interface {
	SaveAlert(ctx context.Context, a Alert) (int64, error)
	ListAlerts(ctx context.Context, f AlertFilter) ([]Alert, error)
	GetAlert(ctx context.Context, id int64) (Alert, error)
	DeleteAlert(ctx context.Context, id int64) error
	AlertSummary(ctx context.Context) (AlertSummary, error)
}

// ReportStore persists citizen reports.
type ReportStore interface {
	SaveReport(ctx context.Context, r Report) (int64, error)
	ListReports(ctx context.Context, limit int) ([]Report, error)
}

// ZoneStore reads the seeded flood zone table.
type ZoneStore interface {
	ListZones(ctx context.Context) ([]FloodZone, error)
}

// SOSStore persists distress requests.
type SOSStore interface {
	SaveSOS(ctx context.Context, req SOSRequest) (int64, error)
	ListSOS(ctx context.Context, status string, limit int) ([]SOSRequest, error)
	GetSOS(ctx context.Context, id int64) (SOSRequest, error)
	ResolveSOS(ctx context.Context, id int64, notes string) error
}

// SnapshotStore persists city monitoring observations.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s CitySnapshot) error
	LatestSnapshots(ctx context.Context) ([]CitySnapshot, error)
	CityHistory(ctx context.Context, city string, limit int) ([]CitySnapshot, error)
}

// Store is the full persistence surface the server wires at startup.
type Store interface {
	TeamRegistry
	AlertStore
	ReportStore
	ZoneStore
	SOSStore
	SnapshotStore

	// Health checks connectivity to the underlying storage.
	Health(ctx context.Context) error

	// Close releases the underlying storage handle.
	Close() error
}
