// Package postgres implements the persistence interfaces on
// PostgreSQL, used when DATABASE_URL is configured.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// Store implements domain.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL store and applies the schema.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS rescue_teams (
		id BIGSERIAL PRIMARY KEY,
		team_name TEXT UNIQUE NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'available',
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS alerts (
		id BIGSERIAL PRIMARY KEY,
		water_level DOUBLE PRECISION NOT NULL,
		rainfall DOUBLE PRECISION NOT NULL,
		river_flow DOUBLE PRECISION NOT NULL,
		risk_level TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS reports (
		id BIGSERIAL PRIMARY KEY,
		location TEXT NOT NULL,
		description TEXT NOT NULL,
		severity TEXT NOT NULL DEFAULT 'medium',
		contact TEXT NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS flood_zones (
		id BIGSERIAL PRIMARY KEY,
		zone_name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		radius DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		risk_level TEXT NOT NULL DEFAULT 'medium'
	);
	CREATE TABLE IF NOT EXISTS sos_requests (
		id BIGSERIAL PRIMARY KEY,
		source TEXT NOT NULL,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		priority TEXT NOT NULL DEFAULT 'Medium',
		status TEXT NOT NULL DEFAULT 'PENDING',
		notes TEXT NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS city_snapshots (
		id BIGSERIAL PRIMARY KEY,
		city TEXT NOT NULL,
		water_level_m DOUBLE PRECISION NOT NULL,
		rainfall_mm DOUBLE PRECISION NOT NULL,
		drainage_capacity DOUBLE PRECISION NOT NULL,
		risk TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create tables: %w", err)
	}
	return nil
}

// SeedUnits inserts rescue teams, skipping names that already exist.
func (s *Store) SeedUnits(ctx context.Context, units []domain.RescueUnit) error {
	for _, u := range units {
		status := u.Status
		if status == "" {
			status = domain.UnitAvailable
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO rescue_teams (team_name, lat, lng, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (team_name) DO NOTHING
		`, u.Name, u.Lat, u.Lng, string(status))
		if err != nil {
			return fmt.Errorf("postgres: failed to seed team %s: %w", u.Name, err)
		}
	}
	return nil
}

// SeedZones inserts flood zones when the table is still empty.
func (s *Store) SeedZones(ctx context.Context, zones []domain.FloodZone) error {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM flood_zones`).Scan(&count); err != nil {
		return fmt.Errorf("postgres: failed to count flood zones: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, z := range zones {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO flood_zones (zone_name, lat, lng, radius, risk_level)
			VALUES ($1, $2, $3, $4, $5)
		`, z.ZoneName, z.Lat, z.Lng, z.RadiusKM, z.RiskLevel)
		if err != nil {
			return fmt.Errorf("postgres: failed to seed zone %s: %w", z.ZoneName, err)
		}
	}
	return nil
}

// AvailableUnits returns every team in available status, id ascending.
func (s *Store) AvailableUnits(ctx context.Context) ([]domain.RescueUnit, error) {
	return s.queryUnits(ctx, `
		SELECT id, team_name, lat, lng, status, last_updated
		FROM rescue_teams
		WHERE status = $1
		ORDER BY id`, string(domain.UnitAvailable))
}

// AllUnits returns every team, id ascending.
func (s *Store) AllUnits(ctx context.Context) ([]domain.RescueUnit, error) {
	return s.queryUnits(ctx, `
		SELECT id, team_name, lat, lng, status, last_updated
		FROM rescue_teams
		ORDER BY id`)
}

// Claim transitions a team from available to dispatched; the status
// predicate in the WHERE clause makes the write a compare-and-swap.
func (s *Store) Claim(ctx context.Context, unitID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE rescue_teams
		SET status = $1, last_updated = NOW()
		WHERE id = $2 AND status = $3
	`, string(domain.UnitDispatched), unitID, string(domain.UnitAvailable))
	if err != nil {
		return false, fmt.Errorf("postgres: failed to claim team %d: %w", unitID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ResetAll moves every team back to available.
func (s *Store) ResetAll(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE rescue_teams
		SET status = $1, last_updated = NOW()
	`, string(domain.UnitAvailable))
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to reset team statuses: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) queryUnits(ctx context.Context, query string, args ...any) ([]domain.RescueUnit, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query rescue teams: %w", err)
	}
	defer rows.Close()

	var units []domain.RescueUnit
	for rows.Next() {
		var (
			u      domain.RescueUnit
			status string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Lat, &u.Lng, &status, &u.LastUpdated); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan team row: %w", err)
		}
		u.Status = domain.UnitStatus(status)
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: error during team row iteration: %w", err)
	}
	return units, nil
}

// Health checks database connectivity.
func (s *Store) Health(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// isNoRows normalizes pgx's not-found error.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
