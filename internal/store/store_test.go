package store

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestCreateRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	s := &Store{DB: db}

	mock.ExpectExec(`INSERT INTO digest_runs \(id, user_id, status\) VALUES \(\$1,\$2,\$3\)`).
		WithArgs(sqlmock.AnyArg(), "alice", RunStatusRunning).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.CreateRun(context.Background(), "alice")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFinishRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	s := &Store{DB: db}

	mock.ExpectExec(`UPDATE digest_runs SET status=\$1, rendered=\$2, error=\$3, finished_at=NOW\(\) WHERE id=\$4`).
		WithArgs(RunStatusSucceeded, "digest text", nil, "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.FinishRun(context.Background(), "run-1", RunStatusSucceeded, "digest text", nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLatestRunTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	s := &Store{DB: db}

	when := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT MAX\(COALESCE\(finished_at, started_at\)\) FROM digest_runs WHERE user_id=\$1 AND status=\$2`).
		WithArgs("alice", RunStatusSucceeded).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(when))

	got, err := s.LatestRunTime(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LatestRunTime: %v", err)
	}
	if got == nil || !got.Equal(when) {
		t.Fatalf("unexpected time: %v", got)
	}
}

func TestListRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	s := &Store{DB: db}

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, user_id, status, rendered, started_at, finished_at, error FROM digest_runs`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "rendered", "started_at", "finished_at", "error"}).
			AddRow("run-1", "alice", RunStatusSucceeded, "digest text", started, nil, nil))

	runs, err := s.ListRuns(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" || runs[0].Rendered != "digest text" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
