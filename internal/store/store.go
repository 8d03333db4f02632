// Package store persists digest run history in Postgres. The engine itself
// keeps nothing across requests; runs are recorded so the scheduler can tell
// when a user's next weekly digest is due.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Store struct {
	DB *sql.DB
}

// Run statuses persisted for digest runs.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

type Run struct {
	ID         string
	UserID     string
	Status     string
	Rendered   string
	StartedAt  time.Time
	FinishedAt *time.Time
	Error      *string
}

func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) CreateRun(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO digest_runs (id, user_id, status) VALUES ($1,$2,$3)`,
		id, userID, RunStatusRunning)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID, status, rendered string, errMsg *string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE digest_runs SET status=$1, rendered=$2, error=$3, finished_at=NOW() WHERE id=$4`,
		status, rendered, errMsg, runID)
	return err
}

func (s *Store) LatestRunTime(ctx context.Context, userID string) (*time.Time, error) {
	var ts *time.Time
	err := s.DB.QueryRowContext(ctx,
		`SELECT MAX(COALESCE(finished_at, started_at)) FROM digest_runs WHERE user_id=$1 AND status=$2`,
		userID, RunStatusSucceeded).Scan(&ts)
	return ts, err
}

func (s *Store) ListRuns(ctx context.Context, userID string) ([]Run, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_id, status, rendered, started_at, finished_at, error FROM digest_runs WHERE user_id=$1 ORDER BY started_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.UserID, &r.Status, &r.Rendered, &r.StartedAt, &r.FinishedAt, &r.Error); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
