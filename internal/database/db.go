// Package database opens the SQLite history store and applies its schema.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schemas/*.sql
var schemaFiles embed.FS

// SchemaVersion is stored in PRAGMA user_version once a schema is applied
const SchemaVersion = 1

const (
	defaultBusyTimeout = 5 * time.Second
	openTimeout        = 5 * time.Second
)

// Config holds database configuration
type Config struct {
	Path string
	// Name selects schemas/<name>_schema.sql, e.g. "history"
	Name string
	// BusyTimeout defaults to 5s
	BusyTimeout time.Duration
}

// DB wraps a SQLite connection pool
type DB struct {
	conn *sql.DB
	path string
	name string
}

// Stats describes the on-disk state of a database
type Stats struct {
	SizeBytes     int64 `json:"size_bytes"`
	SchemaVersion int   `json:"schema_version"`
}

// New opens the database and verifies it with a ping.
// Plain paths are made absolute and their directory is created; file: URIs are used as-is.
func New(cfg Config) (*DB, error) {
	path := cfg.Path
	if !strings.HasPrefix(path, "file:") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = abs
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	conn, err := sql.Open("sqlite", connectionString(path, busy))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	// Writers serialize in SQLite; a small pool avoids lock churn
	conn.SetMaxOpenConns(8)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{conn: conn, path: path, name: cfg.Name}, nil
}

// connectionString appends the pragmas every connection of the pool needs
func connectionString(path string, busy time.Duration) string {
	pragmas := []string{
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		"temp_store(MEMORY)",
		"foreign_keys(1)",
		fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()),
	}

	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying pool for repositories
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Name returns the database name for logging
func (db *DB) Name() string {
	return db.name
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate applies the embedded schema named after the database and records
// SchemaVersion. Already migrated databases and names without a schema file
// are left untouched.
func (db *DB) Migrate(ctx context.Context) error {
	content, err := schemaFiles.ReadFile("schemas/" + db.name + "_schema.sql")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema for %s: %w", db.name, err)
	}

	current, err := db.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current >= SchemaVersion {
		return nil
	}

	return WithTransaction(ctx, db.conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute schema for %s: %w", db.name, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("failed to record schema version for %s: %w", db.name, err)
		}
		return nil
	})
}

func (db *DB) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := db.conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version for %s: %w", db.name, err)
	}
	return v, nil
}

// WithTransaction runs fn in a transaction. It rolls back when fn returns an
// error or panics and commits otherwise.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) (err error) {
	if db == nil {
		return errors.New("database connection is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
			return
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rbErr)
				return
			}
			err = fmt.Errorf("transaction failed: %w", err)
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// QuickCheck pings the database
func (db *DB) QuickCheck(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Stats reports the database size and applied schema version
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var pages, pageSize int64
	if err := db.conn.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err != nil {
		return Stats{}, fmt.Errorf("failed to read page count for %s: %w", db.name, err)
	}
	if err := db.conn.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return Stats{}, fmt.Errorf("failed to read page size for %s: %w", db.name, err)
	}

	version, err := db.schemaVersion(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{SizeBytes: pages * pageSize, SchemaVersion: version}, nil
}
