// Package generator lowers a typed IR tree to Java source text: the
// fixed schema described by spec.md §4.4, translated line for line from
// the reference project's Java Generator.
package generator

import (
	"fmt"
	"strings"

	"plc/internal/ast"
	"plc/internal/ir"
	"plc/internal/types"
)

// imports is the fixed preamble every generated program needs for the
// arbitrary-precision and equality helpers the lowering schema emits
// calls to.
const imports = `import java.math.BigDecimal;
import java.math.BigInteger;
import java.math.RoundingMode;
import java.util.Objects;`

// Generate lowers src to a single Java compilation unit defining
// `public final class Main`. Declarations are hoisted to static members
// ahead of a synthesized main method, since the source language allows
// top-level statements that Java does not.
func Generate(src *ir.Source) string {
	g := &generator{}
	g.visitSource(src)
	return g.b.String()
}

// GenerateStatement lowers a single IR statement to its Java text, with
// no compilation-unit wrapper and no hoisting: the fragment a REPL front
// end echoes back for one entered statement.
func GenerateStatement(stmt ir.Stmt) string {
	g := &generator{}
	g.visitStmt(stmt)
	return g.b.String()
}

type generator struct {
	b      strings.Builder
	indent int
}

func (g *generator) newline(indent int) {
	g.b.WriteByte('\n')
	g.b.WriteString(strings.Repeat("    ", indent))
}

func (g *generator) visitSource(src *ir.Source) {
	g.b.WriteString(imports)
	g.b.WriteString("\n\n")
	g.b.WriteString("public final class Main {\n")

	g.indent = 1
	inMain := false
	for _, stmt := range src.Statements {
		g.newline(g.indent)
		if !inMain {
			switch stmt.(type) {
			case *ir.Let, *ir.Def:
				g.b.WriteString("static ")
			default:
				g.b.WriteString("public static void main(String[] args) {")
				inMain = true
				g.indent = 2
				g.newline(g.indent)
			}
		}
		g.visitStmt(stmt)
	}
	if inMain {
		g.b.WriteString("\n    }")
	}
	g.indent = 0
	g.b.WriteString("\n\n}")
}

func (g *generator) visitStmt(s ir.Stmt) {
	switch s := s.(type) {
	case *ir.Let:
		g.visitLet(s)
	case *ir.Def:
		g.visitDef(s)
	case *ir.If:
		g.visitIf(s)
	case *ir.For:
		g.visitFor(s)
	case *ir.Return:
		g.visitReturn(s)
	case *ir.Expression:
		g.visitExpr(s.Expr)
		g.b.WriteByte(';')
	case *ir.AssignVariable:
		g.visitExpr(s.Target)
		g.b.WriteString(" = ")
		g.visitExpr(s.Value)
		g.b.WriteByte(';')
	case *ir.AssignProperty:
		g.visitExpr(s.Target)
		g.b.WriteString(" = ")
		g.visitExpr(s.Value)
		g.b.WriteByte(';')
	default:
		panic(fmt.Sprintf("generator: unhandled statement type %T", s))
	}
}

func (g *generator) visitLet(s *ir.Let) {
	if _, ok := s.VarType.(*types.Object); ok {
		g.b.WriteString("var ")
		g.b.WriteString(s.Name)
	} else {
		g.b.WriteString(jvmName(s.VarType))
		g.b.WriteByte(' ')
		g.b.WriteString(s.Name)
	}
	if s.Init != nil {
		g.b.WriteString(" = ")
		g.visitExpr(s.Init)
	}
	g.b.WriteByte(';')
}

func (g *generator) visitDef(s *ir.Def) {
	g.b.WriteString(jvmName(s.ReturnType))
	g.b.WriteByte(' ')
	g.b.WriteString(s.Name)
	g.b.WriteByte('(')
	for i, p := range s.Params {
		g.b.WriteString(jvmName(p.Type))
		g.b.WriteByte(' ')
		g.b.WriteString(p.Name)
		if i < len(s.Params)-1 {
			g.b.WriteString(", ")
		}
	}
	g.b.WriteString(") {")
	g.indent++
	for _, stmt := range s.Body {
		g.newline(g.indent)
		g.visitStmt(stmt)
	}
	g.indent--
	g.newline(g.indent)
	g.b.WriteByte('}')
}

func (g *generator) visitBlock(stmts []ir.Stmt) {
	g.indent++
	for i, stmt := range stmts {
		if i == 0 {
			g.newline(g.indent)
		}
		g.visitStmt(stmt)
		if i < len(stmts)-1 {
			g.newline(g.indent)
		}
	}
	g.indent--
	g.newline(g.indent)
}

func (g *generator) visitIf(s *ir.If) {
	g.b.WriteString("if (")
	g.visitExpr(s.Cond)
	g.b.WriteString(") {")
	g.visitBlock(s.Then)
	g.b.WriteByte('}')
	if len(s.Else) > 0 {
		g.b.WriteString(" else {")
		g.visitBlock(s.Else)
		g.b.WriteByte('}')
	}
}

func (g *generator) visitFor(s *ir.For) {
	g.b.WriteString("for (")
	g.b.WriteString(jvmName(s.VarType))
	g.b.WriteByte(' ')
	g.b.WriteString(s.Name)
	g.b.WriteString(" : ")
	g.visitExpr(s.Iterable)
	g.b.WriteString(") {")
	g.visitBlock(s.Body)
	g.b.WriteByte('}')
}

func (g *generator) visitReturn(s *ir.Return) {
	g.b.WriteString("return ")
	if s.Value != nil {
		g.visitExpr(s.Value)
	} else {
		g.b.WriteString("null")
	}
	g.b.WriteByte(';')
}

func (g *generator) visitExpr(e ir.Expr) {
	switch e := e.(type) {
	case *ir.Literal:
		g.visitLiteral(e)
	case *ir.Group:
		g.b.WriteByte('(')
		g.visitExpr(e.Inner)
		g.b.WriteByte(')')
	case *ir.Binary:
		g.visitBinary(e)
	case *ir.Variable:
		g.b.WriteString(e.Name)
	case *ir.Property:
		g.visitExpr(e.Receiver)
		g.b.WriteByte('.')
		g.b.WriteString(e.Name)
	case *ir.Function:
		g.visitCall(e.Name, e.Args)
	case *ir.Method:
		g.visitExpr(e.Receiver)
		g.b.WriteByte('.')
		g.visitCall(e.Name, e.Args)
	case *ir.ObjectExpr:
		g.visitObjectExpr(e)
	default:
		panic(fmt.Sprintf("generator: unhandled expression type %T", e))
	}
}

func (g *generator) visitCall(name string, args []ir.Expr) {
	g.b.WriteString(name)
	g.b.WriteByte('(')
	for i, arg := range args {
		g.visitExpr(arg)
		if i < len(args)-1 {
			g.b.WriteString(", ")
		}
	}
	g.b.WriteByte(')')
}

func (g *generator) visitLiteral(e *ir.Literal) {
	switch e.Kind {
	case ast.LiteralNil:
		g.b.WriteString("null")
	case ast.LiteralBool:
		if e.Bool {
			g.b.WriteString("true")
		} else {
			g.b.WriteString("false")
		}
	case ast.LiteralBigInt:
		g.b.WriteString(`new BigInteger("`)
		g.b.WriteString(e.BigInt.String())
		g.b.WriteString(`")`)
	case ast.LiteralBigDec:
		g.b.WriteString(`new BigDecimal("`)
		g.b.WriteString(e.BigDec.String())
		g.b.WriteString(`")`)
	case ast.LiteralString:
		g.b.WriteByte('"')
		g.b.WriteString(e.Str)
		g.b.WriteByte('"')
	default:
		panic(fmt.Sprintf("generator: literal kind %v has no lowering", e.Kind))
	}
}

func (g *generator) visitBinary(e *ir.Binary) {
	switch e.Operator {
	case "+":
		if types.Equal(e.Typ, types.Integer) || types.Equal(e.Typ, types.Decimal) {
			g.b.WriteByte('(')
			g.visitExpr(e.Left)
			g.b.WriteString(").add(")
			g.visitExpr(e.Right)
			g.b.WriteByte(')')
			return
		}
		g.visitExpr(e.Left)
		g.b.WriteString(" + ")
		g.visitExpr(e.Right)

	case "-":
		g.b.WriteByte('(')
		g.visitExpr(e.Left)
		g.b.WriteString(").subtract(")
		g.visitExpr(e.Right)
		g.b.WriteByte(')')

	case "*":
		g.b.WriteByte('(')
		g.visitExpr(e.Left)
		g.b.WriteString(").multiply(")
		g.visitExpr(e.Right)
		g.b.WriteByte(')')

	case "/":
		g.b.WriteByte('(')
		g.visitExpr(e.Left)
		g.b.WriteString(").divide(")
		g.visitExpr(e.Right)
		if types.Equal(e.Typ, types.Integer) {
			g.b.WriteByte(')')
		} else {
			g.b.WriteString(", RoundingMode.HALF_EVEN)")
		}

	case "<", ">", "<=", ">=":
		g.b.WriteByte('(')
		g.visitExpr(e.Left)
		g.b.WriteString(").compareTo(")
		g.visitExpr(e.Right)
		g.b.WriteString(") ")
		g.b.WriteString(e.Operator)
		g.b.WriteString(" 0")

	case "==", "!=":
		if e.Operator == "!=" {
			g.b.WriteByte('!')
		}
		g.b.WriteString("Objects.equals(")
		g.visitExpr(e.Left)
		g.b.WriteString(", ")
		g.visitExpr(e.Right)
		g.b.WriteByte(')')

	case "AND":
		// The left operand is parenthesized only when it is itself an OR,
		// since && binds tighter than || in the target language and the
		// source's AND/OR share one precedence level.
		leftIsOr := false
		if bin, ok := e.Left.(*ir.Binary); ok && bin.Operator == "OR" {
			leftIsOr = true
		}
		if leftIsOr {
			g.b.WriteByte('(')
		}
		g.visitExpr(e.Left)
		if leftIsOr {
			g.b.WriteByte(')')
		}
		g.b.WriteString(" && ")
		g.visitExpr(e.Right)

	case "OR":
		g.visitExpr(e.Left)
		g.b.WriteString(" || ")
		g.visitExpr(e.Right)

	default:
		panic(fmt.Sprintf("generator: unhandled binary operator %q", e.Operator))
	}
}

func (g *generator) visitObjectExpr(e *ir.ObjectExpr) {
	g.b.WriteString("new Object() {")
	g.indent++
	for i, f := range e.Fields {
		if i == 0 {
			g.newline(g.indent)
		}
		g.visitLet(f)
	}
	if len(e.Fields) > 0 && len(e.Methods) > 0 {
		g.newline(g.indent)
	}
	for i, m := range e.Methods {
		if i == 0 {
			g.newline(g.indent)
		}
		g.visitDef(m)
	}
	g.indent--
	g.newline(g.indent)
	g.b.WriteByte('}')
}

// jvmName maps a lattice type to the Java type used to declare a
// variable, parameter, or return of that type.
func jvmName(t types.Type) string {
	switch {
	case types.Equal(t, types.Boolean):
		return "boolean"
	case types.Equal(t, types.Integer):
		return "BigInteger"
	case types.Equal(t, types.Decimal):
		return "BigDecimal"
	case types.Equal(t, types.String):
		return "String"
	case types.Equal(t, types.Comparable):
		return "Comparable"
	case types.Equal(t, types.Iterable):
		return "Iterable<BigInteger>"
	default:
		// Any, Nil, Equatable, and Object all lower to the universal
		// reference type; Object-typed Lets are special-cased to `var`
		// by their caller before jvmName is ever consulted for them.
		return "Object"
	}
}
