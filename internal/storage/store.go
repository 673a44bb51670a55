// Package storage is the SQLite-backed record store for salons, users,
// bookings and reviews.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Store wraps the database connection.
type Store struct {
	*sql.DB
	logger *zerolog.Logger
}

// Open initializes the database, creating the file and schema when needed.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode and a busy timeout so availability reads can run alongside
	// booking writes.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{DB: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS salons (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_name TEXT,
			email TEXT,
			phone TEXT,
			location TEXT,
			open_time TEXT NOT NULL,
			close_time TEXT NOT NULL,
			services TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			last_activity DATETIME NOT NULL,
			closed_dates TEXT NOT NULL DEFAULT '[]',
			custom_slots TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'CUSTOMER',
			name TEXT,
			phone TEXT,
			salon_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			salon_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			customer_name TEXT,
			customer_phone TEXT,
			service_id TEXT NOT NULL,
			service_name TEXT,
			price REAL NOT NULL DEFAULT 0,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			customer_confirmed BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(salon_id) REFERENCES salons(id)
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			salon_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			customer_name TEXT,
			rating INTEGER NOT NULL,
			comment TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(salon_id) REFERENCES salons(id)
		)`,

		// Enforces the core invariant at the store: at most one
		// non-cancelled booking per (salon, date, time). Two concurrent
		// creators can both pass the application pre-check; this index
		// rejects the second insert.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_slot
			ON bookings(salon_id, date, time)
			WHERE status != 'CANCELLED'`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_salon_date ON bookings(salon_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_salon ON reviews(salon_id)`,
		`CREATE INDEX IF NOT EXISTS idx_salons_status ON salons(status)`,
	}

	for _, query := range queries {
		if _, err := s.Exec(query); err != nil {
			return fmt.Errorf("exec %q: %w", query, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
