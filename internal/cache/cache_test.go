package cache

import "testing"

func TestHashSourceIsDeterministic(t *testing.T) {
	a := HashSource("LET x = 1;")
	b := HashSource("LET x = 1;")
	c := HashSource("LET x = 2;")
	if a != b {
		t.Fatal("expected identical source to hash identically")
	}
	if a == c {
		t.Fatal("expected different source to hash differently")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key := HashSource("LET x = 1;")
	if _, ok, err := store.Get(key); err != nil || ok {
		t.Fatalf("expected cache miss, got ok=%v err=%v", ok, err)
	}

	entry := &Entry{SourceHash: key, Generated: "public final class Main {}", CreatedAt: 1}
	if err := store.Put(entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if got.Generated != entry.Generated {
		t.Fatalf("got %q", got.Generated)
	}
}

func TestSQLiteStorePutUpserts(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key := HashSource("LET x = 1;")
	store.Put(&Entry{SourceHash: key, Generated: "first", CreatedAt: 1})
	store.Put(&Entry{SourceHash: key, Generated: "second", CreatedAt: 2})

	got, ok, err := store.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Generated != "second" {
		t.Fatalf("expected upsert to replace value, got %q", got.Generated)
	}
}
