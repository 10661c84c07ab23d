package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS compile_cache (
	source_hash TEXT PRIMARY KEY,
	generated   TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);`

// SQLiteStore is the default, local, file-based cache backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if absent) a SQLite-backed store at
// path. Pass ":memory:" for an ephemeral cache, e.g. in tests.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening sqlite store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key Key) (*Entry, bool, error) {
	row := s.db.QueryRow(`SELECT generated, created_at FROM compile_cache WHERE source_hash = ?`, string(key))
	var e Entry
	e.SourceHash = key
	if err := row.Scan(&e.Generated, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	return &e, true, nil
}

func (s *SQLiteStore) Put(e *Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO compile_cache (source_hash, generated, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET generated = excluded.generated, created_at = excluded.created_at`,
		string(e.SourceHash), e.Generated, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", e.SourceHash, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Clear drops every cached entry, used by `plc cache -clear`.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM compile_cache`); err != nil {
		return fmt.Errorf("cache: clearing store: %w", err)
	}
	return nil
}
