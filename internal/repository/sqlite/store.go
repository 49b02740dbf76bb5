// Package sqlite implements the persistence interfaces on a local
// SQLite database, the default storage backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// Store implements domain.Store over a SQLite database file.
type Store struct {
	db     *sql.DB
	DBPath string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rescue_teams (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	team_name TEXT UNIQUE NOT NULL,
	lat REAL NOT NULL,
	lng REAL NOT NULL,
	status TEXT DEFAULT 'available',
	last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	water_level REAL NOT NULL,
	rainfall REAL NOT NULL,
	river_flow REAL NOT NULL,
	risk_level TEXT NOT NULL,
	confidence REAL NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp);
CREATE INDEX IF NOT EXISTS idx_alerts_risk ON alerts(risk_level);

CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	location TEXT NOT NULL,
	description TEXT NOT NULL,
	severity TEXT DEFAULT 'medium',
	contact TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS flood_zones (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	zone_name TEXT NOT NULL,
	lat REAL NOT NULL,
	lng REAL NOT NULL,
	radius REAL DEFAULT 1.0,
	risk_level TEXT DEFAULT 'medium'
);

CREATE TABLE IF NOT EXISTS sos_requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	user_id TEXT NOT NULL,
	username TEXT,
	message TEXT NOT NULL,
	location TEXT,
	latitude REAL,
	longitude REAL,
	priority TEXT DEFAULT 'Medium',
	status TEXT DEFAULT 'PENDING',
	notes TEXT DEFAULT '',
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sos_status ON sos_requests(status);

CREATE TABLE IF NOT EXISTS city_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city TEXT NOT NULL,
	water_level_m REAL NOT NULL,
	rainfall_mm REAL NOT NULL,
	drainage_capacity REAL NOT NULL,
	risk TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_snapshots_city ON city_snapshots(city, timestamp);
`

// DefaultDBPath is where the database lives when no explicit path is
// configured.
const DefaultDBPath = "data/jalraksha.db"

// New opens (creating if necessary) the SQLite database at dbPath and
// applies the schema. An empty path defaults to DefaultDBPath.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("sqlite: failed to create database directory: %w", err)
		}
	}

	log.Printf("Opening database at %s", dbPath)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create tables: %w", err)
	}

	return &Store{db: db, DBPath: dbPath}, nil
}

// SeedUnits inserts the given rescue teams, skipping names that
// already exist.
func (s *Store) SeedUnits(ctx context.Context, units []domain.RescueUnit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO rescue_teams (team_name, lat, lng, status)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	for _, u := range units {
		status := u.Status
		if status == "" {
			status = domain.UnitAvailable
		}
		if _, err := stmt.Exec(u.Name, u.Lat, u.Lng, string(status)); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: failed to seed team %s: %w", u.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit seed: %w", err)
	}
	return nil
}

// SeedZones inserts flood zones when the table is still empty.
func (s *Store) SeedZones(ctx context.Context, zones []domain.FloodZone) error {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flood_zones`).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: failed to count flood zones: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, z := range zones {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO flood_zones (zone_name, lat, lng, radius, risk_level)
			VALUES (?, ?, ?, ?, ?)
		`, z.ZoneName, z.Lat, z.Lng, z.RadiusKM, z.RiskLevel)
		if err != nil {
			return fmt.Errorf("sqlite: failed to seed zone %s: %w", z.ZoneName, err)
		}
	}
	return nil
}

// Health checks database connectivity.
func (s *Store) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
