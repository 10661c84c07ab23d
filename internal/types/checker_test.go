package types

import "testing"

func TestRequireSubtypeReflexive(t *testing.T) {
	for _, typ := range []Type{Any, Nil, Comparable, Equatable, Iterable, Boolean, Integer, Decimal, String} {
		if err := RequireSubtype(typ, typ); err != nil {
			t.Fatalf("RequireSubtype(%s, %s): %v", typ, typ, err)
		}
	}
}

func TestRequireSubtypeAny(t *testing.T) {
	for _, typ := range []Type{Nil, Comparable, Equatable, Iterable, Boolean, Integer, Decimal, String} {
		if err := RequireSubtype(typ, Any); err != nil {
			t.Fatalf("RequireSubtype(%s, Any): %v", typ, err)
		}
	}
}

func TestRequireSubtypeEquatable(t *testing.T) {
	ok := []Type{Nil, Comparable, Iterable, Boolean, Integer, Decimal, String}
	for _, typ := range ok {
		if err := RequireSubtype(typ, Equatable); err != nil {
			t.Fatalf("RequireSubtype(%s, Equatable): %v", typ, err)
		}
	}
	if err := RequireSubtype(Equatable, Equatable); err != nil {
		t.Fatalf("RequireSubtype(Equatable, Equatable): %v", err)
	}
}

func TestRequireSubtypeComparable(t *testing.T) {
	ok := []Type{Boolean, Integer, Decimal, String}
	for _, typ := range ok {
		if err := RequireSubtype(typ, Comparable); err != nil {
			t.Fatalf("RequireSubtype(%s, Comparable): %v", typ, err)
		}
	}
	// Iterable is not <: Comparable.
	if err := RequireSubtype(Iterable, Comparable); err == nil {
		t.Fatal("expected RequireSubtype(Iterable, Comparable) to fail")
	}
}

func TestRequireSubtypeNoTransitiveClosure(t *testing.T) {
	// Comparable <: Equatable holds, but that must not chain further:
	// Integer <: Comparable and Comparable <: Equatable does NOT imply any
	// additional derived relation beyond what's enumerated directly.
	if err := RequireSubtype(Integer, Equatable); err != nil {
		t.Fatalf("Integer should be directly enumerated as <: Equatable: %v", err)
	}
	if err := RequireSubtype(String, Iterable); err == nil {
		t.Fatal("String is not <: Iterable and must fail")
	}
}

func TestScopeDefineRejectsRedefinition(t *testing.T) {
	s := NewScope(nil)
	if err := s.Define("x", Integer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Define("x", String); err == nil {
		t.Fatal("expected error redefining x")
	}
}

func TestScopeIsolation(t *testing.T) {
	parent := NewScope(nil)
	parent.Define("x", Integer)
	child := NewScope(parent)
	child.Define("y", String)

	if _, ok := parent.Get("y", true); ok {
		t.Fatal("child binding leaked into parent with currentOnly=true")
	}
	if _, ok := child.Get("x", true); ok {
		t.Fatal("currentOnly lookup should not walk to parent")
	}
	if _, ok := child.Get("x", false); !ok {
		t.Fatal("chain lookup should find parent binding")
	}
}

func TestScopeSetMutatesNearestEnclosing(t *testing.T) {
	parent := NewScope(nil)
	parent.Define("x", Integer)
	child := NewScope(parent)

	if ok := child.Set("x", String); !ok {
		t.Fatal("expected Set to find x in parent")
	}
	got, _ := parent.Get("x", true)
	if !Equal(got, String) {
		t.Fatalf("expected parent's x to be mutated to String, got %s", got)
	}
}

func TestFunctionInvariantEquality(t *testing.T) {
	f1 := &Function{Params: []Type{Integer}, Return: Boolean}
	f2 := &Function{Params: []Type{Integer}, Return: Boolean}
	f3 := &Function{Params: []Type{String}, Return: Boolean}

	if !Equal(f1, f2) {
		t.Fatal("structurally identical Functions should be equal")
	}
	if Equal(f1, f3) {
		t.Fatal("Functions with different param types should not be equal")
	}
}

func TestObjectInvariantEquality(t *testing.T) {
	s1 := NewScope(nil)
	s2 := NewScope(nil)
	o1 := &Object{Scope: s1}
	o2 := &Object{Scope: s1}
	o3 := &Object{Scope: s2}

	if !Equal(o1, o2) {
		t.Fatal("Objects sharing a scope should be equal")
	}
	if Equal(o1, o3) {
		t.Fatal("Objects with distinct scopes should not be equal")
	}
}
