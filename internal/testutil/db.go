// Package testutil holds helpers shared by package tests.
package testutil

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/store"
	"github.com/footprint-tools/cmdr/internal/store/migrations"
)

// NewTestDB creates an in-memory SQLite database with migrations applied.
// The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "failed to open in-memory database")
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, migrations.Run(db), "failed to run migrations")
	return db
}

// NewTestStore wraps NewTestDB in a history store.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewWithDB(NewTestDB(t))
}

// SeedRuns records runs in order, spacing their start times one second apart
// from base when StartedAt is zero.
func SeedRuns(t *testing.T, s domain.HistoryStore, base time.Time, runs ...domain.Run) {
	t.Helper()

	for i, run := range runs {
		if run.StartedAt.IsZero() {
			run.StartedAt = base.Add(time.Duration(i) * time.Second)
		}
		require.NoError(t, s.Record(run), "failed to seed run: %+v", run)
	}
}
