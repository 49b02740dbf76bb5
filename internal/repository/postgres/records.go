package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// SaveAlert persists a prediction record and returns its id.
func (s *Store) SaveAlert(ctx context.Context, a domain.Alert) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO alerts (water_level, rainfall, river_flow, risk_level, confidence, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, a.WaterLevel, a.Rainfall, a.RiverFlow, a.RiskLevel, a.Confidence, a.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to save alert: %w", err)
	}
	return id, nil
}

// ListAlerts returns alerts newest first, optionally filtered by risk
// level.
func (s *Store) ListAlerts(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, water_level, rainfall, river_flow, risk_level, confidence, timestamp
		FROM alerts`
	args := []any{}
	if f.RiskLevel != "" {
		query += ` WHERE risk_level = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`
		args = append(args, f.RiskLevel, limit, f.Offset)
	} else {
		query += ` ORDER BY timestamp DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.WaterLevel, &a.Rainfall, &a.RiverFlow, &a.RiskLevel, &a.Confidence, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: error during alert row iteration: %w", err)
	}
	return alerts, nil
}

// GetAlert returns one alert by id.
func (s *Store) GetAlert(ctx context.Context, id int64) (domain.Alert, error) {
	var a domain.Alert
	err := s.pool.QueryRow(ctx, `
		SELECT id, water_level, rainfall, river_flow, risk_level, confidence, timestamp
		FROM alerts WHERE id = $1
	`, id).Scan(&a.ID, &a.WaterLevel, &a.Rainfall, &a.RiverFlow, &a.RiskLevel, &a.Confidence, &a.Timestamp)
	if isNoRows(err) {
		return domain.Alert{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Alert{}, fmt.Errorf("postgres: failed to get alert %d: %w", id, err)
	}
	return a, nil
}

// DeleteAlert removes one alert by id.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete alert %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AlertSummary aggregates alert counts per risk level.
func (s *Store) AlertSummary(ctx context.Context) (domain.AlertSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT risk_level, COUNT(*)
		FROM alerts
		GROUP BY risk_level
	`)
	if err != nil {
		return domain.AlertSummary{}, fmt.Errorf("postgres: failed to query alert summary: %w", err)
	}
	defer rows.Close()

	var summary domain.AlertSummary
	for rows.Next() {
		var (
			level string
			count int64
		)
		if err := rows.Scan(&level, &count); err != nil {
			return domain.AlertSummary{}, fmt.Errorf("postgres: failed to scan summary row: %w", err)
		}
		summary.Total += count
		switch level {
		case "High":
			summary.High = count
		case "Medium":
			summary.Medium = count
		case "Low":
			summary.Low = count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.AlertSummary{}, fmt.Errorf("postgres: error during summary iteration: %w", err)
	}
	return summary, nil
}

// SaveReport persists a citizen report and returns its id.
func (s *Store) SaveReport(ctx context.Context, r domain.Report) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reports (location, description, severity, contact)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.Location, r.Description, r.Severity, r.Contact).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to save report: %w", err)
	}
	return id, nil
}

// ListReports returns the latest reports, newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, location, description, severity, contact, timestamp
		FROM reports
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		if err := rows.Scan(&r.ID, &r.Location, &r.Description, &r.Severity, &r.Contact, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: error during report row iteration: %w", err)
	}
	return reports, nil
}

// ListZones returns the seeded flood zones.
func (s *Store) ListZones(ctx context.Context) ([]domain.FloodZone, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, zone_name, lat, lng, radius, risk_level
		FROM flood_zones
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query flood zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.FloodZone
	for rows.Next() {
		var z domain.FloodZone
		if err := rows.Scan(&z.ID, &z.ZoneName, &z.Lat, &z.Lng, &z.RadiusKM, &z.RiskLevel); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan zone row: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: error during zone row iteration: %w", err)
	}
	return zones, nil
}

// SaveSOS persists a distress request and returns its id.
func (s *Store) SaveSOS(ctx context.Context, req domain.SOSRequest) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sos_requests (source, user_id, username, message, location, latitude, longitude, priority, status, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, req.Source, req.UserID, req.Username, req.Message, req.Location, req.Lat, req.Lng, req.Priority, req.Status, req.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to save sos request: %w", err)
	}
	return id, nil
}

// ListSOS returns distress requests newest first, optionally filtered
// by status.
func (s *Store) ListSOS(ctx context.Context, status string, limit int) ([]domain.SOSRequest, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, source, user_id, username, message, location, latitude, longitude, priority, status, notes, timestamp
		FROM sos_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY timestamp DESC LIMIT $2`
		args = append(args, status, limit)
	} else {
		query += ` ORDER BY timestamp DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query sos requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.SOSRequest
	for rows.Next() {
		var req domain.SOSRequest
		if err := rows.Scan(&req.ID, &req.Source, &req.UserID, &req.Username, &req.Message, &req.Location,
			&req.Lat, &req.Lng, &req.Priority, &req.Status, &req.Notes, &req.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan sos row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: error during sos row iteration: %w", err)
	}
	return requests, nil
}

// GetSOS returns one distress request by id.
func (s *Store) GetSOS(ctx context.Context, id int64) (domain.SOSRequest, error) {
	var req domain.SOSRequest
	err := s.pool.QueryRow(ctx, `
		SELECT id, source, user_id, username, message, location, latitude, longitude, priority, status, notes, timestamp
		FROM sos_requests WHERE id = $1
	`, id).Scan(&req.ID, &req.Source, &req.UserID, &req.Username, &req.Message, &req.Location,
		&req.Lat, &req.Lng, &req.Priority, &req.Status, &req.Notes, &req.Timestamp)
	if isNoRows(err) {
		return domain.SOSRequest{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SOSRequest{}, fmt.Errorf("postgres: failed to get sos request %d: %w", id, err)
	}
	return req, nil
}

// ResolveSOS marks a request resolved with optional notes.
func (s *Store) ResolveSOS(ctx context.Context, id int64, notes string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sos_requests
		SET status = $1, notes = $2
		WHERE id = $3
	`, domain.SOSResolved, notes, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to resolve sos request %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveSnapshot persists one city monitoring observation.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.CitySnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO city_snapshots (city, water_level_m, rainfall_mm, drainage_capacity, risk, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, snap.City, snap.WaterLevelM, snap.RainfallMM, snap.DrainageCapacity, snap.Risk, snap.Timestamp)
	if err != nil {
		return fmt.Errorf("postgres: failed to save snapshot for %s: %w", snap.City, err)
	}
	return nil
}

// LatestSnapshots returns the most recent observation per city.
func (s *Store) LatestSnapshots(ctx context.Context) ([]domain.CitySnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (city) id, city, water_level_m, rainfall_mm, drainage_capacity, risk, timestamp
		FROM city_snapshots
		ORDER BY city, timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	return s.scanSnapshots(rows)
}

// CityHistory returns recent observations for one city, newest first.
func (s *Store) CityHistory(ctx context.Context, city string, limit int) ([]domain.CitySnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, city, water_level_m, rainfall_mm, drainage_capacity, risk, timestamp
		FROM city_snapshots
		WHERE city = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, city, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query history for %s: %w", city, err)
	}
	defer rows.Close()

	return s.scanSnapshots(rows)
}

func (s *Store) scanSnapshots(rows pgx.Rows) ([]domain.CitySnapshot, error) {
	var snaps []domain.CitySnapshot
	for rows.Next() {
		var snap domain.CitySnapshot
		if err := rows.Scan(&snap.ID, &snap.City, &snap.WaterLevelM, &snap.RainfallMM, &snap.DrainageCapacity, &snap.Risk, &snap.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: error during snapshot row iteration: %w", err)
	}
	return snaps, nil
}
