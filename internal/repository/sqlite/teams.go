package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

const teamColumns = `id, team_name, lat, lng, status, last_updated`

// AvailableUnits returns every team in available status, id ascending
// so the dispatcher's tie break stays deterministic.
func (s *Store) AvailableUnits(ctx context.Context) ([]domain.RescueUnit, error) {
	return s.queryUnits(ctx, `
		SELECT `+teamColumns+`
		FROM rescue_teams
		WHERE status = ?
		ORDER BY id`, string(domain.UnitAvailable))
}

// AllUnits returns every team, id ascending.
func (s *Store) AllUnits(ctx context.Context) ([]domain.RescueUnit, error) {
	return s.queryUnits(ctx, `
		SELECT `+teamColumns+`
		FROM rescue_teams
		ORDER BY id`)
}

// Claim transitions a team from available to dispatched. The WHERE
// clause carries the compare-and-swap: the write only lands if the
// status is still available, so concurrent dispatches cannot both win
// the same team.
func (s *Store) Claim(ctx context.Context, unitID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rescue_teams
		SET status = ?, last_updated = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, string(domain.UnitDispatched), unitID, string(domain.UnitAvailable))
	if err != nil {
		return false, fmt.Errorf("sqlite: failed to claim team %d: %w", unitID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: failed to read claim result: %w", err)
	}
	return affected == 1, nil
}

// ResetAll moves every team back to available.
func (s *Store) ResetAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rescue_teams
		SET status = ?, last_updated = CURRENT_TIMESTAMP
	`, string(domain.UnitAvailable))
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to reset team statuses: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to read reset result: %w", err)
	}
	return count, nil
}

func (s *Store) queryUnits(ctx context.Context, query string, args ...any) ([]domain.RescueUnit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query rescue teams: %w", err)
	}
	defer rows.Close()

	var units []domain.RescueUnit
	for rows.Next() {
		var (
			u       domain.RescueUnit
			status  string
			updated sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Lat, &u.Lng, &status, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan team row: %w", err)
		}
		u.Status = domain.UnitStatus(status)
		u.LastUpdated = parseTimestamp(updated)
		units = append(units, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error during team row iteration: %w", err)
	}
	return units, nil
}

// parseTimestamp handles the DATETIME formats SQLite hands back for
// CURRENT_TIMESTAMP columns.
func parseTimestamp(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05-07:00",
	} {
		if ts, err := time.Parse(layout, v.String); err == nil {
			return ts
		}
	}
	return time.Time{}
}
