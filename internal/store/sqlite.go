package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSlot is the save slot used when none is configured.
const DefaultSlot = "default"

// SQLite keeps snapshots in a SQLite database, one row per save slot.
type SQLite struct {
	db   *sql.DB
	slot string
}

// NewSQLite opens the database at path and runs migrations.
func NewSQLite(path, slot string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if slot == "" {
		slot = DefaultSlot
	}
	s := &SQLite{db: db, slot: slot}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the snapshot table.
func (s *SQLite) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			slot TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Load returns the slot's snapshot, or nil if the slot is empty.
func (s *SQLite) Load() ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE slot = ?`, s.slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return []byte(data), nil
}

// Save upserts the slot's snapshot.
func (s *SQLite) Save(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (slot, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.slot, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}
