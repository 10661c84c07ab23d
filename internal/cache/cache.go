// Package cache memoizes compile results keyed by a content hash of the
// source text. It sits above internal/toolchain, never inside it: the
// core pipeline stays a pure function, and the cache is purely an
// ambient optimization for the CLI.
package cache

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Key is a compile cache key: the blake2b-256 hash of the source bytes,
// hex-encoded for use as a SQL column value.
type Key string

// HashSource computes the cache key for source.
func HashSource(source string) Key {
	sum := blake2b.Sum256([]byte(source))
	return Key(hex.EncodeToString(sum[:]))
}

// Entry is one memoized compile result.
type Entry struct {
	SourceHash Key
	Generated  string
	CreatedAt  int64 // unix seconds
}

// Store is implemented by every cache backend.
type Store interface {
	Get(key Key) (*Entry, bool, error)
	Put(entry *Entry) error
	Close() error
}
