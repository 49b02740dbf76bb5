package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// SaveReport persists a citizen report and returns its id.
func (s *Store) SaveReport(ctx context.Context, r domain.Report) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (location, description, severity, contact)
		VALUES (?, ?, ?, ?)
	`, r.Location, r.Description, r.Severity, r.Contact)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to save report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to read report id: %w", err)
	}
	return id, nil
}

// ListReports returns the latest reports, newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location, description, severity, contact, timestamp
		FROM reports
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var (
			r       domain.Report
			contact sql.NullString
			ts      sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Location, &r.Description, &r.Severity, &contact, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan report row: %w", err)
		}
		r.Contact = contact.String
		r.Timestamp = parseTimestamp(ts)
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error during report row iteration: %w", err)
	}
	return reports, nil
}

// ListZones returns the seeded flood zones.
func (s *Store) ListZones(ctx context.Context) ([]domain.FloodZone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, zone_name, lat, lng, radius, risk_level
		FROM flood_zones
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query flood zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.FloodZone
	for rows.Next() {
		var z domain.FloodZone
		if err := rows.Scan(&z.ID, &z.ZoneName, &z.Lat, &z.Lng, &z.RadiusKM, &z.RiskLevel); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan zone row: %w", err)
		}
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error during zone row iteration: %w", err)
	}
	return zones, nil
}

// SaveSnapshot persists one city monitoring observation.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.CitySnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO city_snapshots (city, water_level_m, rainfall_mm, drainage_capacity, risk, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.City, snap.WaterLevelM, snap.RainfallMM, snap.DrainageCapacity, snap.Risk, snap.Timestamp)
	if err != nil {
		return fmt.Errorf("sqlite: failed to save snapshot for %s: %w", snap.City, err)
	}
	return nil
}

// LatestSnapshots returns the most recent observation per city.
func (s *Store) LatestSnapshots(ctx context.Context) ([]domain.CitySnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, water_level_m, rainfall_mm, drainage_capacity, risk, timestamp
		FROM city_snapshots
		WHERE id IN (
			SELECT MAX(id) FROM city_snapshots GROUP BY city
		)
		ORDER BY city
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// CityHistory returns recent observations for one city, newest first.
func (s *Store) CityHistory(ctx context.Context, city string, limit int) ([]domain.CitySnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, water_level_m, rainfall_mm, drainage_capacity, risk, timestamp
		FROM city_snapshots
		WHERE city = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, city, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query history for %s: %w", city, err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]domain.CitySnapshot, error) {
	var snaps []domain.CitySnapshot
	for rows.Next() {
		var (
			snap domain.CitySnapshot
			ts   sql.NullString
		)
		if err := rows.Scan(&snap.ID, &snap.City, &snap.WaterLevelM, &snap.RainfallMM, &snap.DrainageCapacity, &snap.Risk, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan snapshot row: %w", err)
		}
		snap.Timestamp = parseTimestamp(ts)
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error during snapshot row iteration: %w", err)
	}
	return snaps, nil
}
