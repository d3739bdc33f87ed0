// ABOUTME: SQLite key/value table used as client-side session storage
// ABOUTME: Implements session.Storage so the token can live in a database file

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2389/articles/internal/session"
)

// LocalStorage is a session.Storage backed by a SQLite kv table.
type LocalStorage struct {
	db *sql.DB
}

var _ session.Storage = (*LocalStorage)(nil)

// NewLocalStorage opens or creates the database at path.
func NewLocalStorage(path string) (*LocalStorage, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &LocalStorage{db: db}, nil
}

// Get returns the value stored under key.
func (l *LocalStorage) Get(key string) (string, bool, error) {
	var value string
	err := l.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (l *LocalStorage) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", session.ErrInvalidKey)
	}
	_, err := l.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (l *LocalStorage) Remove(key string) error {
	if _, err := l.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key.
func (l *LocalStorage) Clear() error {
	if _, err := l.db.Exec(`DELETE FROM kv`); err != nil {
		return fmt.Errorf("clearing storage: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (l *LocalStorage) Close() error {
	return l.db.Close()
}
