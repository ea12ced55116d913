package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// schema is the key-value table definition. Created lazily on open so the
// store works on a fresh database file.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Well-known keys.
const (
	// KeyConfigNumber is the accessory-protocol configuration number.
	// Controllers use it to detect topology changes.
	KeyConfigNumber = "hap.cn"
)

// Store is a persistent key-value store over SQLite.
//
// It replaces the flat-file key-value store of earlier firmware revisions
// and holds small accessory-protocol state that must survive reboots.
type Store struct {
	db *sql.DB
}

// New creates a Store on the given database, creating the table if needed.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating kv table: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value for key.
// Returns ErrKeyNotFound if the key does not exist.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value for key, replacing any existing value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// ConfigNumber returns the persisted accessory configuration number.
// Returns ErrKeyNotFound if none has been stored yet.
func (s *Store) ConfigNumber(ctx context.Context) (uint16, error) {
	value, err := s.Get(ctx, KeyConfigNumber)
	if err != nil {
		return 0, err
	}
	var cn uint16
	if _, err := fmt.Sscanf(value, "%d", &cn); err != nil {
		return 0, fmt.Errorf("parsing configuration number %q: %w", value, err)
	}
	return cn, nil
}

// SetConfigNumber persists the accessory configuration number.
func (s *Store) SetConfigNumber(ctx context.Context, cn uint16) error {
	return s.Set(ctx, KeyConfigNumber, fmt.Sprintf("%d", cn))
}

// IncrementConfigNumber bumps the configuration number by one, wrapping at
// the uint16 boundary back to 1 (zero is reserved for "never stored").
// A missing value is treated as zero.
func (s *Store) IncrementConfigNumber(ctx context.Context) (uint16, error) {
	cn, err := s.ConfigNumber(ctx)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return 0, err
	}
	cn++
	if cn == 0 {
		cn = 1
	}
	if err := s.SetConfigNumber(ctx, cn); err != nil {
		return 0, err
	}
	return cn, nil
}
