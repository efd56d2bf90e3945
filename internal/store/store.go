// Package store owns the sales SQLite database: opening it, ensuring the
// schema, seeding demo data, and running the read-only queries the agent
// produces.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested table or row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the sales database connection.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open connects to the SQLite database at path, creating the parent
// directory when needed. Pass ":memory:" for an in-memory database (tests).
func Open(path string) (*Store, error) {
	var dsn string
	if path == ":memory:" {
		dsn = ":memory:?_journal_mode=WAL"
	} else {
		if dir := filepath.Dir(path); dir != "." && dir != "/" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sales database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the filesystem path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates the sales tables if they do not exist. Safe to run on
// every startup; an existing populated database is left untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sales_people (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			region TEXT NOT NULL,
			hire_date DATE NOT NULL,
			quota REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sales_person_id INTEGER NOT NULL,
			sale_date DATE NOT NULL,
			amount REAL NOT NULL,
			product_category TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			FOREIGN KEY (sales_person_id) REFERENCES sales_people(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sales_person_id ON sales(sales_person_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Counts returns the row counts of the two seeded tables.
func (s *Store) Counts(ctx context.Context) (people, sales int64, err error) {
	if err = s.db.GetContext(ctx, &people, "SELECT COUNT(*) FROM sales_people"); err != nil {
		return 0, 0, fmt.Errorf("count sales_people: %w", err)
	}
	if err = s.db.GetContext(ctx, &sales, "SELECT COUNT(*) FROM sales"); err != nil {
		return 0, 0, fmt.Errorf("count sales: %w", err)
	}
	return people, sales, nil
}
