package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

const memoryPath = ":memory:"

type dbOptions struct {
	readOnly bool
}

type DBOption func(*dbOptions)

// WithReadOnly opens a database file in read-only mode so several processes
// can validate against it at once. In-memory databases ignore it.
func WithReadOnly() DBOption {
	return func(o *dbOptions) {
		o.readOnly = true
	}
}

// NewDB opens the DuckDB database queries are validated against.
// An empty path or ":memory:" opens an empty in-memory catalog.
func NewDB(path string, opts ...DBOption) (*sql.DB, error) {
	var o dbOptions
	for _, opt := range opts {
		opt(&o)
	}

	inMemory := path == "" || path == memoryPath
	dsn := path
	switch {
	case inMemory:
		dsn = ""
	case o.readOnly:
		dsn = path + "?access_mode=read_only"
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, err
	}

	// One connection: an in-memory catalog is private to its connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}

	if !inMemory {
		extDir := filepath.Dir(path)
		if _, err := conn.Exec(fmt.Sprintf("SET extension_directory = '%s'", extDir)); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("setting extension directory: %w", err)
		}
	}

	return conn, nil
}
