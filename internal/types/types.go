// Package types implements the fixed type lattice and lexical scope
// chains used by the analyzer.
package types

// Type is implemented by every member of the lattice.
type Type interface {
	String() string
	equal(Type) bool
}

// BasicKind identifies one of the nine atomic, non-parameterized types.
type BasicKind int

const (
	KindAny BasicKind = iota
	KindNil
	KindComparable
	KindEquatable
	KindIterable
	KindBoolean
	KindInteger
	KindDecimal
	KindString
)

// Basic is an atomic type identified by kind; two Basics are equal iff
// their kinds match.
type Basic struct {
	Kind BasicKind
	Name string
}

func (b *Basic) String() string { return b.Name }

func (b *Basic) equal(other Type) bool {
	o, ok := other.(*Basic)
	return ok && b.Kind == o.Kind
}

// The nine atomic types, as process-wide singletons.
var (
	Any        = &Basic{Kind: KindAny, Name: "Any"}
	Nil        = &Basic{Kind: KindNil, Name: "Nil"}
	Comparable = &Basic{Kind: KindComparable, Name: "Comparable"}
	Equatable  = &Basic{Kind: KindEquatable, Name: "Equatable"}
	Iterable   = &Basic{Kind: KindIterable, Name: "Iterable"}
	Boolean    = &Basic{Kind: KindBoolean, Name: "Boolean"}
	Integer    = &Basic{Kind: KindInteger, Name: "Integer"}
	Decimal    = &Basic{Kind: KindDecimal, Name: "Decimal"}
	String     = &Basic{Kind: KindString, Name: "String"}
)

// Function is invariant: equal only to another Function with identical
// parameter types (in order) and identical return type.
type Function struct {
	Params []Type
	Return Type
}

func (f *Function) String() string {
	s := "Function("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ") -> "
	if f.Return != nil {
		s += f.Return.String()
	} else {
		s += "Any"
	}
	return s
}

func (f *Function) equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok || len(f.Params) != len(o.Params) {
		return false
	}
	for i, p := range f.Params {
		if !Equal(p, o.Params[i]) {
			return false
		}
	}
	return Equal(f.Return, o.Return)
}

// Object is invariant: its identity is the Scope it carries, since every
// ObjectExpr analysis creates a fresh scope. Two Object types are equal
// only when they share the same underlying scope.
type Object struct {
	Scope *Scope
}

func (o *Object) String() string { return "Object" }

func (o *Object) equal(other Type) bool {
	p, ok := other.(*Object)
	return ok && o.Scope == p.Scope
}

// Equal reports whether a and b denote the same type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.equal(b)
}

// Environment is the process-wide, read-only mapping from declared-type
// name literals to their atomic type. It is the only table consulted
// when resolving a type annotation; it is initialized once and never
// mutated thereafter.
var Environment = map[string]Type{
	"Any":        Any,
	"Nil":        Nil,
	"Comparable": Comparable,
	"Equatable":  Equatable,
	"Iterable":   Iterable,
	"Boolean":    Boolean,
	"Integer":    Integer,
	"Decimal":    Decimal,
	"String":     String,
}

// LookupTypeName resolves a declared type-annotation name against
// Environment.
func LookupTypeName(name string) (Type, bool) {
	t, ok := Environment[name]
	return t, ok
}
