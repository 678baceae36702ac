package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string) *DB {
	t.Helper()
	db, err := New(Config{
		Path: filepath.Join(t.TempDir(), name+".db"),
		Name: name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestConnectionString(t *testing.T) {
	tests := []struct {
		name string
		path string
		busy time.Duration
		want string
	}{
		{
			name: "plain path",
			path: "/tmp/x.db",
			busy: 5 * time.Second,
			want: "/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)" +
				"&_pragma=temp_store(MEMORY)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		{
			name: "uri with query",
			path: "file:mem?mode=memory",
			busy: 250 * time.Millisecond,
			want: "file:mem?mode=memory&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)" +
				"&_pragma=temp_store(MEMORY)&_pragma=foreign_keys(1)&_pragma=busy_timeout(250)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connectionString(tt.path, tt.busy))
		})
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, err := New(Config{Path: filepath.Join(dir, "history.db"), Name: "history"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "history", db.Name())
	assert.True(t, filepath.IsAbs(db.Path()))
	assert.FileExists(t, filepath.Join(dir, "history.db"))
}

func TestMigrate_HistorySchema(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "history")

	require.NoError(t, db.Migrate(ctx))
	// Second run sees the recorded version and does nothing
	require.NoError(t, db.Migrate(ctx))

	for _, table := range []string{"simulation_runs", "simulation_years"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, stats.SchemaVersion)
	assert.Positive(t, stats.SizeBytes)
}

func TestMigrate_UnknownSchemaIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "scratch")
	require.NoError(t, db.Migrate(ctx))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.SchemaVersion)
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "scratch")
	_, err := db.Conn().Exec("CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	count := func() int {
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM t").Scan(&n))
		return n
	}

	t.Run("commits on success", func(t *testing.T) {
		err := WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO t (v) VALUES (1)")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
			_, _ = tx.Exec("INSERT INTO t (v) VALUES (2)")
			return boom
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		err := WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
			_, _ = tx.Exec("INSERT INTO t (v) VALUES (3)")
			panic("unexpected")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in transaction")
		assert.Equal(t, 1, count())
	})

	t.Run("nil connection", func(t *testing.T) {
		assert.Error(t, WithTransaction(ctx, nil, func(*sql.Tx) error { return nil }))
	})
}

func TestQuickCheck(t *testing.T) {
	db := newTestDB(t, "history")
	assert.NoError(t, db.QuickCheck(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.QuickCheck(context.Background()))
}
