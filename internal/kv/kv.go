// Package kv exposes the durable key-value slots that every shoplist record
// lives in. Values are JSON blobs; reads tolerate missing or corrupt slots by
// returning a caller-supplied fallback, and writes are best-effort.
package kv

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// getRaw returns the raw JSON stored under key, or ok=false when the slot
// is absent or unreadable.
func (s *Store) getRaw(key string) ([]byte, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("read slot", "key", key, "error", err)
		return nil, false
	}
	return []byte(value), true
}

// setRaw stores raw JSON under key, overwriting any previous value.
func (s *Store) setRaw(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the slot. Deleting an absent slot is not an error.
func (s *Store) Delete(key string) {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		s.logger.Warn("delete slot", "key", key, "error", err)
	}
}

// Keys returns every slot key with the given prefix.
func (s *Store) Keys(prefix string) []string {
	rows, err := s.db.Query(`SELECT key FROM slots WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		s.logger.Warn("list slot keys", "prefix", prefix, "error", err)
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			s.logger.Warn("scan slot key", "error", err)
			return keys
		}
		keys = append(keys, k)
	}
	return keys
}

// Reset deletes every slot. Intended for debug and test teardown.
func (s *Store) Reset() {
	if _, err := s.db.Exec(`DELETE FROM slots`); err != nil {
		s.logger.Warn("reset slots", "error", err)
	}
}

// Read decodes the slot into T, returning fallback when the slot is absent
// or does not decode. It never fails.
func Read[T any](s *Store, key string, fallback T) T {
	raw, ok := s.getRaw(key)
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("decode slot", "key", key, "error", err)
		return fallback
	}
	return v
}

// ReadNullable decodes the slot into T, returning nil when the slot is
// absent or does not decode. Use it when "not present" must be distinguishable
// from a legitimate zero value.
func ReadNullable[T any](s *Store, key string) *T {
	raw, ok := s.getRaw(key)
	if !ok {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("decode slot", "key", key, "error", err)
		return nil
	}
	return &v
}

// Write encodes v as JSON and stores it under key. Persistence is
// best-effort: failures are logged and swallowed so callers never fail an
// operation solely because a write did not stick.
func Write[T any](s *Store, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("encode slot", "key", key, "error", err)
		return
	}
	if err := s.setRaw(key, data); err != nil {
		s.logger.Warn("write slot", "key", key, "error", err)
	}
}
