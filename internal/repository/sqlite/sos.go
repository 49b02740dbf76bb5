package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

const sosColumns = `id, source, user_id, username, message, location, latitude, longitude, priority, status, notes, timestamp`

// SaveSOS persists a distress request and returns its id.
func (s *Store) SaveSOS(ctx context.Context, req domain.SOSRequest) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sos_requests (source, user_id, username, message, location, latitude, longitude, priority, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Source, req.UserID, req.Username, req.Message, req.Location, req.Lat, req.Lng, req.Priority, req.Status, req.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to save sos request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to read sos id: %w", err)
	}
	return id, nil
}

// ListSOS returns distress requests newest first, optionally filtered
// by status.
func (s *Store) ListSOS(ctx context.Context, status string, limit int) ([]domain.SOSRequest, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + sosColumns + ` FROM sos_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query sos requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.SOSRequest
	for rows.Next() {
		req, err := scanSOS(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error during sos row iteration: %w", err)
	}
	return requests, nil
}

// GetSOS returns one distress request by id.
func (s *Store) GetSOS(ctx context.Context, id int64) (domain.SOSRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sosColumns+` FROM sos_requests WHERE id = ?`, id)
	req, err := scanSOS(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SOSRequest{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SOSRequest{}, fmt.Errorf("sqlite: failed to get sos request %d: %w", id, err)
	}
	return req, nil
}

// ResolveSOS marks a request resolved with optional notes.
func (s *Store) ResolveSOS(ctx context.Context, id int64, notes string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sos_requests
		SET status = ?, notes = ?
		WHERE id = ?
	`, domain.SOSResolved, notes, id)
	if err != nil {
		return fmt.Errorf("sqlite: failed to resolve sos request %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to read resolve result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSOS(scan func(dest ...any) error) (domain.SOSRequest, error) {
	var (
		req      domain.SOSRequest
		username sql.NullString
		location sql.NullString
		lat, lng sql.NullFloat64
		notes    sql.NullString
		ts       sql.NullString
	)
	err := scan(&req.ID, &req.Source, &req.UserID, &username, &req.Message, &location,
		&lat, &lng, &req.Priority, &req.Status, &notes, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SOSRequest{}, err
		}
		return domain.SOSRequest{}, fmt.Errorf("sqlite: failed to scan sos row: %w", err)
	}

	req.Username = username.String
	req.Location = location.String
	req.Notes = notes.String
	if lat.Valid {
		req.Lat = &lat.Float64
	}
	if lng.Valid {
		req.Lng = &lng.Float64
	}
	req.Timestamp = parseTimestamp(ts)
	return req, nil
}
