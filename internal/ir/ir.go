// Package ir defines the typed intermediate representation produced by
// the analyzer: a mirror of internal/ast in which every expression node
// carries a resolved types.Type.
package ir

import (
	"math/big"

	"plc/internal/ast"
	"plc/internal/bignum"
	"plc/internal/token"
	"plc/internal/types"
)

// Node is implemented by every IR node.
type Node interface {
	Pos() token.Position
}

// Stmt is implemented by every IR statement variant.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every IR expression variant; every Expr carries
// its resolved Type.
type Expr interface {
	Node
	exprNode()
	Type() types.Type
}

// Source is a fully analyzed program.
type Source struct {
	Statements []Stmt
	StartPos   token.Position
}

func (s *Source) Pos() token.Position { return s.StartPos }

// Let is a variable declaration with its resolved effective type.
type Let struct {
	Name        string
	VarType     types.Type
	Init        Expr // nil if absent
	DeclaredPos token.Position
}

func (s *Let) Pos() token.Position { return s.DeclaredPos }
func (s *Let) stmtNode()           {}

// Param is a resolved Def parameter.
type Param struct {
	Name string
	Type types.Type
}

// Def is a resolved function (or method) declaration.
type Def struct {
	Name        string
	Params      []Param
	ReturnType  types.Type
	Body        []Stmt
	DeclaredPos token.Position
}

func (s *Def) Pos() token.Position { return s.DeclaredPos }
func (s *Def) stmtNode()           {}

// If is a resolved conditional.
type If struct {
	Cond        Expr
	Then        []Stmt
	Else        []Stmt
	DeclaredPos token.Position
}

func (s *If) Pos() token.Position { return s.DeclaredPos }
func (s *If) stmtNode()           {}

// For is a resolved loop; VarType is always types.Integer, since the
// analyzer binds every loop variable as Integer whatever the iterable.
type For struct {
	Name        string
	VarType     types.Type
	Iterable    Expr
	Body        []Stmt
	DeclaredPos token.Position
}

func (s *For) Pos() token.Position { return s.DeclaredPos }
func (s *For) stmtNode()           {}

// Return is a resolved return statement.
type Return struct {
	Value       Expr // nil if absent
	DeclaredPos token.Position
}

func (s *Return) Pos() token.Position { return s.DeclaredPos }
func (s *Return) stmtNode()           {}

// Expression is a resolved bare-expression statement.
type Expression struct {
	Expr        Expr
	DeclaredPos token.Position
}

func (s *Expression) Pos() token.Position { return s.DeclaredPos }
func (s *Expression) stmtNode()           {}

// AssignVariable is an assignment whose target resolved to a Variable.
type AssignVariable struct {
	Target      *Variable
	Value       Expr
	DeclaredPos token.Position
}

func (s *AssignVariable) Pos() token.Position { return s.DeclaredPos }
func (s *AssignVariable) stmtNode()           {}

// AssignProperty is an assignment whose target resolved to a Property.
type AssignProperty struct {
	Target      *Property
	Value       Expr
	DeclaredPos token.Position
}

func (s *AssignProperty) Pos() token.Position { return s.DeclaredPos }
func (s *AssignProperty) stmtNode()           {}

// Literal is a resolved constant; Kind selects which typed field is
// meaningful, mirroring ast.Literal.
type Literal struct {
	Kind        ast.LiteralKind
	Bool        bool
	BigInt      *big.Int
	BigDec      *bignum.Decimal
	Char        rune
	Str         string
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *Literal) Pos() token.Position { return e.DeclaredPos }
func (e *Literal) exprNode()           {}
func (e *Literal) Type() types.Type    { return e.Typ }

// Group is a resolved parenthesized expression.
type Group struct {
	Inner       Expr
	DeclaredPos token.Position
}

func (e *Group) Pos() token.Position { return e.DeclaredPos }
func (e *Group) exprNode()           {}
func (e *Group) Type() types.Type    { return e.Inner.Type() }

// Binary is a resolved binary operation.
type Binary struct {
	Operator    string
	Left        Expr
	Right       Expr
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *Binary) Pos() token.Position { return e.DeclaredPos }
func (e *Binary) exprNode()           {}
func (e *Binary) Type() types.Type    { return e.Typ }

// Variable is a resolved name reference.
type Variable struct {
	Name        string
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *Variable) Pos() token.Position { return e.DeclaredPos }
func (e *Variable) exprNode()           {}
func (e *Variable) Type() types.Type    { return e.Typ }

// Property is a resolved field access.
type Property struct {
	Receiver    Expr
	Name        string
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *Property) Pos() token.Position { return e.DeclaredPos }
func (e *Property) exprNode()           {}
func (e *Property) Type() types.Type    { return e.Typ }

// Function is a resolved free-function call.
type Function struct {
	Name        string
	Args        []Expr
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *Function) Pos() token.Position { return e.DeclaredPos }
func (e *Function) exprNode()           {}
func (e *Function) Type() types.Type    { return e.Typ }

// Method is a resolved call on a receiver.
type Method struct {
	Receiver    Expr
	Name        string
	Args        []Expr
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *Method) Pos() token.Position { return e.DeclaredPos }
func (e *Method) exprNode()           {}
func (e *Method) Type() types.Type    { return e.Typ }

// ObjectExpr is a resolved object literal; Typ is always a *types.Object
// wrapping the object's own scope.
type ObjectExpr struct {
	Name        string
	Fields      []*Let
	Methods     []*Def
	Typ         types.Type
	DeclaredPos token.Position
}

func (e *ObjectExpr) Pos() token.Position { return e.DeclaredPos }
func (e *ObjectExpr) exprNode()           {}
func (e *ObjectExpr) Type() types.Type    { return e.Typ }
