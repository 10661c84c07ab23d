package types

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// ReturnsName is the reserved pseudo-binding the analyzer uses to thread
// a function's expected return type down to nested Return checks. It can
// never collide with a user-declared name because '$' is not a valid
// identifier start.
const ReturnsName = "$RETURNS"

// Scope is a node in the lexical environment tree, binding names to
// types. Scopes are created at block/function/object entry and mutated
// only by their owning analyzer, only during the call that created them.
type Scope struct {
	parent  *Scope
	symbols map[string]Type
}

// NewScope creates a scope with the given parent (nil for a root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]Type)}
}

// Define binds name to t in this scope. It fails if name is already
// bound in this node (not the chain).
func (s *Scope) Define(name string, t Type) error {
	if _, exists := s.symbols[name]; exists {
		return fmt.Errorf("%q already declared", name)
	}
	s.symbols[name] = t
	return nil
}

// Get searches the current node (if currentOnly) or the chain up to the
// root for name, returning its type and whether it was found.
func (s *Scope) Get(name string, currentOnly bool) (Type, bool) {
	if currentOnly {
		t, ok := s.symbols[name]
		return t, ok
	}
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.symbols[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Set mutates the nearest enclosing binding for name, reporting whether
// such a binding existed.
func (s *Scope) Set(name string, t Type) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.symbols[name]; ok {
			sc.symbols[name] = t
			return true
		}
	}
	return false
}

// Dump renders this scope's own bindings (not its ancestors') as sorted
// "name: type" lines, for diagnostics. No CLI command or flag prints it.
// Key order is made deterministic via golang.org/x/exp/maps rather than
// relying on Go's randomized map iteration.
func (s *Scope) Dump() []string {
	names := maps.Keys(s.symbols)
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %s", name, s.symbols[name].String())
	}
	return lines
}

// RequireSubtype succeeds iff s = t, or t = Any, or (t = Equatable and s
// is one of the types Equatable covers), or (t = Comparable and s is one
// of the types Comparable covers). This is a flat enumeration, not a
// transitive closure: Comparable <: Equatable holds, but that does not
// chain through any further relation.
func RequireSubtype(s, t Type) error {
	if Equal(s, t) {
		return nil
	}
	if Equal(t, Any) {
		return nil
	}
	if Equal(t, Equatable) {
		switch {
		case Equal(s, Nil), Equal(s, Comparable), Equal(s, Iterable),
			Equal(s, Boolean), Equal(s, Integer), Equal(s, Decimal), Equal(s, String):
			return nil
		}
	}
	if Equal(t, Comparable) {
		switch {
		case Equal(s, Boolean), Equal(s, Integer), Equal(s, Decimal), Equal(s, String):
			return nil
		}
	}
	return fmt.Errorf("%s is not a subtype of %s", s.String(), t.String())
}
