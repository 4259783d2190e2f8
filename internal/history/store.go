// Package history records a summary row for every ranked run so operators
// can browse recent matching activity without loading the archived blobs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no run row exists for an ID.
var ErrNotFound = errors.New("run not found")

// Store provides run history backed by Postgres or SQLite.
type Store struct {
	db *sql.DB
}

// Run is one ranked run as recorded in history.
type Run struct {
	ID               string    `json:"id"`
	Medicine         string    `json:"medicine"`
	Location         string    `json:"location"`
	DonationCount    int       `json:"donation_count"`
	RecommendedCount int       `json:"recommended_count"`
	FlaggedCount     int       `json:"flagged_count"`
	TopMatchScore    int       `json:"top_match_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewStore creates a new history Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordRun inserts a run row. A zero CreatedAt is set to now.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_runs (id, medicine, location, donation_count,
		        recommended_count, flagged_count, top_match_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Medicine, r.Location, r.DonationCount,
		r.RecommendedCount, r.FlaggedCount, r.TopMatchScore, r.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// GetRun returns a single run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, medicine, location, donation_count,
		        recommended_count, flagged_count, top_match_score, created_at
		 FROM match_runs WHERE id = $1`,
		runID,
	).Scan(
		&r.ID, &r.Medicine, &r.Location, &r.DonationCount,
		&r.RecommendedCount, &r.FlaggedCount, &r.TopMatchScore, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, medicine, location, donation_count,
		        recommended_count, flagged_count, top_match_score, created_at
		 FROM match_runs ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Medicine, &r.Location, &r.DonationCount,
			&r.RecommendedCount, &r.FlaggedCount, &r.TopMatchScore, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
