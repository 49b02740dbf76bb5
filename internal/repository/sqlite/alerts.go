package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// SaveAlert persists a prediction record and returns its id.
func (s *Store) SaveAlert(ctx context.Context, a domain.Alert) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (water_level, rainfall, river_flow, risk_level, confidence, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.WaterLevel, a.Rainfall, a.RiverFlow, a.RiskLevel, a.Confidence, a.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to save alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to read alert id: %w", err)
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
		query += ` WHERE risk_level = ?`
		args = append(args, f.RiskLevel)
	}
	query += ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var (
			a  domain.Alert
			ts sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.WaterLevel, &a.Rainfall, &a.RiverFlow, &a.RiskLevel, &a.Confidence, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan alert row: %w", err)
		}
		a.Timestamp = parseTimestamp(ts)
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error during alert row iteration: %w", err)
	}
	return alerts, nil
}

// GetAlert returns one alert by id.
func (s *Store) GetAlert(ctx context.Context, id int64) (domain.Alert, error) {
	var (
		a  domain.Alert
		ts sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, water_level, rainfall, river_flow, risk_level, confidence, timestamp
		FROM alerts WHERE id = ?
	`, id).Scan(&a.ID, &a.WaterLevel, &a.Rainfall, &a.RiverFlow, &a.RiskLevel, &a.Confidence, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Alert{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Alert{}, fmt.Errorf("sqlite: failed to get alert %d: %w", id, err)
	}
	a.Timestamp = parseTimestamp(ts)
	return a, nil
}

// DeleteAlert removes one alert by id.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: failed to delete alert %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AlertSummary aggregates alert counts per risk level.
func (s *Store) AlertSummary(ctx context.Context) (domain.AlertSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT risk_level, COUNT(*)
		FROM alerts
		GROUP BY risk_level
	`)
	if err != nil {
		return domain.AlertSummary{}, fmt.Errorf("sqlite: failed to query alert summary: %w", err)
	}
	defer rows.Close()

	var summary domain.AlertSummary
	for rows.Next() {
		var (
			level string
			count int64
		)
		if err := rows.Scan(&level, &count); err != nil {
			return domain.AlertSummary{}, fmt.Errorf("sqlite: failed to scan summary row: %w", err)
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
		return domain.AlertSummary{}, fmt.Errorf("sqlite: error during summary iteration: %w", err)
	}
	return summary, nil
}
