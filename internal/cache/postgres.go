package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS compile_cache (
	source_hash TEXT PRIMARY KEY,
	generated   TEXT NOT NULL,
	created_at  BIGINT NOT NULL
);`

// PostgresStore is the optional shared/team cache backend, selected via
// `-cache=postgres://...`.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore connects to the database at connString and ensures
// the cache table exists.
func OpenPostgresStore(connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("cache: opening postgres store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: connecting to postgres: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(key Key) (*Entry, bool, error) {
	row := s.db.QueryRow(`SELECT generated, created_at FROM compile_cache WHERE source_hash = $1`, string(key))
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

func (s *PostgresStore) Put(e *Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO compile_cache (source_hash, generated, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (source_hash) DO UPDATE SET generated = excluded.generated, created_at = excluded.created_at`,
		string(e.SourceHash), e.Generated, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", e.SourceHash, err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
