// Package lint offers one optional, non-blocking check: flagging LET/DEF
// names whose casing convention disagrees with the majority convention
// used elsewhere in the same file. It never affects analysis results.
package lint

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"plc/internal/ast"
	"plc/internal/token"
)

var fold = cases.Lower(language.Und)

// Style is an identifier casing convention.
type Style int

const (
	StyleUnknown Style = iota
	StyleLower         // single lowercase word, e.g. "x"
	StyleSnake         // snake_case
	StyleCamel         // camelCase
	StylePascal        // PascalCase
)

func (s Style) String() string {
	switch s {
	case StyleLower:
		return "lower"
	case StyleSnake:
		return "snake_case"
	case StyleCamel:
		return "camelCase"
	case StylePascal:
		return "PascalCase"
	default:
		return "unknown"
	}
}

func classify(name string) Style {
	if name == "" {
		return StyleUnknown
	}
	hasUpper := fold.String(name) != name
	hasUnderscore := strings.Contains(name, "_")

	switch {
	case hasUnderscore && !hasUpper:
		return StyleSnake
	case !hasUnderscore && !hasUpper:
		return StyleLower
	case !hasUnderscore && hasUpper && unicode.IsUpper([]rune(name)[0]):
		return StylePascal
	case !hasUnderscore && hasUpper:
		return StyleCamel
	default:
		return StyleUnknown
	}
}

// Finding reports one identifier whose casing style disagrees with the
// file's majority style.
type Finding struct {
	Name     string
	Pos      token.Position
	Style    Style
	Majority Style
}

// Check collects every LET/DEF name in src (including names nested
// inside function bodies, branches, loops, and object literals) and
// flags any whose casing style differs from the file's majority style.
// Single-word lowercase names never conflict with either convention and
// are excluded from both the vote and the findings.
func Check(src *ast.Source) []Finding {
	names := collectNames(src.Statements)

	counts := make(map[Style]int)
	for _, n := range names {
		st := classify(n.name)
		if st == StyleLower || st == StyleUnknown {
			continue
		}
		counts[st]++
	}

	var majority Style
	best := 0
	for st, count := range counts {
		if count > best {
			best, majority = count, st
		}
	}
	if best == 0 {
		return nil
	}

	var findings []Finding
	for _, n := range names {
		st := classify(n.name)
		if st == StyleLower || st == StyleUnknown || st == majority {
			continue
		}
		findings = append(findings, Finding{Name: n.name, Pos: n.pos, Style: st, Majority: majority})
	}
	return findings
}

type namedDecl struct {
	name string
	pos  token.Position
}

func collectNames(stmts []ast.Stmt) []namedDecl {
	var out []namedDecl
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.Let:
			out = append(out, namedDecl{s.Name, s.DeclaredPos})
			if s.Init != nil {
				out = append(out, collectExprNames(s.Init)...)
			}
		case *ast.Def:
			out = append(out, namedDecl{s.Name, s.DeclaredPos})
			out = append(out, collectNames(s.Body)...)
		case *ast.If:
			out = append(out, collectExprNames(s.Cond)...)
			out = append(out, collectNames(s.Then)...)
			out = append(out, collectNames(s.Else)...)
		case *ast.For:
			out = append(out, collectExprNames(s.Iterable)...)
			out = append(out, collectNames(s.Body)...)
		case *ast.Return:
			if s.Value != nil {
				out = append(out, collectExprNames(s.Value)...)
			}
		case *ast.Expression:
			out = append(out, collectExprNames(s.Expr)...)
		case *ast.Assignment:
			out = append(out, collectExprNames(s.Value)...)
		}
	}
	return out
}

func collectExprNames(e ast.Expr) []namedDecl {
	switch e := e.(type) {
	case *ast.ObjectExpr:
		var out []namedDecl
		for _, f := range e.Fields {
			out = append(out, namedDecl{f.Name, f.DeclaredPos})
			if f.Init != nil {
				out = append(out, collectExprNames(f.Init)...)
			}
		}
		for _, m := range e.Methods {
			out = append(out, namedDecl{m.Name, m.DeclaredPos})
			out = append(out, collectNames(m.Body)...)
		}
		return out
	case *ast.Binary:
		return append(collectExprNames(e.Left), collectExprNames(e.Right)...)
	case *ast.Group:
		return collectExprNames(e.Inner)
	case *ast.Function:
		var out []namedDecl
		for _, a := range e.Args {
			out = append(out, collectExprNames(a)...)
		}
		return out
	case *ast.Method:
		out := collectExprNames(e.Receiver)
		for _, a := range e.Args {
			out = append(out, collectExprNames(a)...)
		}
		return out
	case *ast.Property:
		return collectExprNames(e.Receiver)
	default:
		return nil
	}
}
