package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no snapshot matches a query.
var ErrNotFound = errors.New("snapshot not found")

// Record is one stored snapshot.
type Record struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	BuildType string    `json:"build_type"`
	Hash      string    `json:"hash"`
	Body      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Save appends a snapshot and returns the stored record.
// body is expected to be canonical JSON; hash its domain-separated hash.
func (s *Store) Save(ctx context.Context, buildType, hash string, body []byte) (*Record, error) {
	rec := &Record{
		ID:        s.ids.Generate(),
		BuildType: buildType,
		Hash:      hash,
		Body:      string(body),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, build_type, hash, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.BuildType, rec.Hash, rec.Body, rec.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	rec.Seq, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return rec, nil
}

// Latest returns the most recent snapshot for buildType.
// An empty buildType matches any build.
func (s *Store) Latest(ctx context.Context, buildType string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, build_type, hash, body, created_at
		FROM snapshots
		WHERE ? = '' OR build_type = ?
		ORDER BY seq DESC
		LIMIT 1
	`, buildType, buildType)
	return scanRecord(row)
}

// Get returns the snapshot with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, build_type, hash, body, created_at
		FROM snapshots
		WHERE id = ?
	`, id)
	return scanRecord(row)
}

// List returns up to limit snapshots, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, build_type, hash, body, created_at
		FROM snapshots
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec       Record
		createdAt int64
	)
	err := row.Scan(&rec.Seq, &rec.ID, &rec.BuildType, &rec.Hash, &rec.Body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &rec, nil
}
