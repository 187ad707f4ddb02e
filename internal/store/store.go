// Package store is the sqlite-backed record store behind the
// data-backed chat intents. It exposes one read path per record
// category; the dispatcher never touches SQL directly.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed migration.sql
var migrationSQL string

//go:embed seed.sql
var seedSQL string

// Store wraps the sqlite database connection.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates the database file if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite works best with a single writer connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	s := &Store{conn: conn, path: dbPath}
	if err := s.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

// Migrate applies the embedded schema. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.conn.Exec(migrationSQL); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

// Seed loads the embedded demo dataset. Intended for -init and tests;
// running it twice duplicates rows.
func (s *Store) Seed() error {
	if _, err := s.conn.Exec(seedSQL); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Conn returns the underlying connection for advanced operations.
func (s *Store) Conn() *sql.DB {
	return s.conn
}
