// Package storage owns the embedded SQLite store: the single connection
// handle, the schema, and the transaction repository built on top of it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Error categories. Callers distinguish them with errors.Is; the
// underlying engine message is always preserved in the chain.
var (
	// ErrUnavailable means the store file could not be created or opened.
	// Fatal at startup; there is no retry path.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrSchema means schema setup was rejected by the engine.
	ErrSchema = errors.New("schema setup failed")

	// ErrQuery means a statement was rejected: malformed SQL or a
	// constraint violation.
	ErrQuery = errors.New("query failed")
)

// Gateway owns the one database handle for the process and guarantees
// the schema exists before queries run against it. It is injected into
// the repository rather than held as a package global, so each test can
// use an isolated store.
type Gateway struct {
	db   *sql.DB
	path string
}

// Open creates the parent directory if needed, opens the store file and
// verifies the connection. The returned gateway is ready for
// EnsureSchema; opening the same path twice from one process is not
// supported.
func Open(dbPath string) (*Gateway, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create db directory: %w", ErrUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", ErrUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", ErrUnavailable, err)
	}

	return &Gateway{db: db, path: dbPath}, nil
}

// EnsureSchema applies the embedded migrations. Safe to call on every
// process start; an already current schema is a no-op.
func (g *Gateway) EnsureSchema() error {
	if err := RunMigrations(g.path); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

// Reset drops the schema entirely. Maintenance operation only, exposed
// through the reset binary; there is no per-row delete in the app.
func (g *Gateway) Reset() error {
	if err := DropMigrations(g.path); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

// Exec runs a parameterized statement. Arguments are always bound,
// never interpolated into the SQL text.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return res, nil
}

// Query runs a parameterized query returning rows.
func (g *Gateway) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return rows, nil
}

// QueryRow runs a parameterized single-row query. Errors surface at
// Scan time; callers wrap them with ErrQuery context.
func (g *Gateway) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return g.db.QueryRowContext(ctx, query, args...)
}

func (g *Gateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}
