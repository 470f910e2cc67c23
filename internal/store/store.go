// Package store keeps the invocation history in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/store/migrations"
)

// timeLayout is fixed-width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements domain.HistoryStore.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at path and runs pending migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	setDBPermissions(path)

	if err = migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// NewWithDB wraps an existing, already migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// setDBPermissions restricts the database and its WAL/SHM files to the owner.
func setDBPermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}

// Record inserts a finished run. Recording the same id twice updates it.
func (s *Store) Record(run domain.Run) error {
	args, err := json.Marshal(nonNil(run.Args))
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (id, namespace, command, args, resolved, exit_code, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			exit_code = excluded.exit_code,
			duration_ms = excluded.duration_ms`,
		run.ID,
		run.Namespace,
		run.Command,
		string(args),
		boolToInt(run.Resolved),
		run.ExitCode,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(),
	)
	return err
}

// Recent returns up to limit runs, newest first. A non-positive limit means all.
func (s *Store) Recent(limit int) ([]domain.Run, error) {
	query := `
		SELECT id, namespace, command, args, resolved, exit_code, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC, rowid DESC`
	var qargs []any
	if limit > 0 {
		query += " LIMIT ?"
		qargs = append(qargs, limit)
	}

	rows, err := s.db.Query(query, qargs...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []domain.Run
	for rows.Next() {
		var (
			run        domain.Run
			args       string
			resolved   int
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &run.Namespace, &run.Command, &args, &resolved, &run.ExitCode, &startedAt, &durationMS); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(args), &run.Args); err != nil {
			return nil, fmt.Errorf("decode args of run %s: %w", run.ID, err)
		}
		run.Resolved = resolved != 0
		run.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", run.ID, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune keeps the newest keep runs and deletes the rest.
func (s *Store) Prune(keep int) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ domain.HistoryStore = (*Store)(nil)
