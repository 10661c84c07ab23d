// Package toolchain chains the four pipeline stages — lex, parse,
// analyze, generate — behind two entry points, Compile and Check, which
// `cmd/plc` uses to run whole programs. `cmd/plc`'s REPL also calls
// internal/lexer and internal/generator directly; internal/cache does
// not call this package.
package toolchain

import (
	"plc/internal/analyzer"
	"plc/internal/ast"
	"plc/internal/generator"
	"plc/internal/ir"
	"plc/internal/lexer"
	"plc/internal/parser"
	"plc/internal/token"
	"plc/internal/types"
)

// Result captures every intermediate artifact of a successful compile,
// so a caller that wants to inspect the tokens, AST or IR doesn't need to
// re-run stages. `cmd/plc` reads only Generated.
type Result struct {
	Tokens    []token.Token
	AST       *ast.Source
	IR        *ir.Source
	Generated string
}

// Compile runs source through lex, parse, analyze, and generate in
// order, stopping at the first error. root is the scope the analyzer
// resolves names against; pass types.NewScope(nil) for no pre-bound
// builtins.
func Compile(source string, root *types.Scope) (*Result, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}

	src, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}

	irSrc, err := analyzer.Analyze(src, root)
	if err != nil {
		return nil, err
	}

	generated := generator.Generate(irSrc)

	return &Result{Tokens: tokens, AST: src, IR: irSrc, Generated: generated}, nil
}

// Check runs lex, parse, and analyze only, for callers that want
// diagnostics without paying for code generation (`plc check`).
func Check(source string, root *types.Scope) (*ast.Source, *ir.Source, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, nil, err
	}
	src, err := parser.Parse(tokens)
	if err != nil {
		return nil, nil, err
	}
	irSrc, err := analyzer.Analyze(src, root)
	if err != nil {
		return src, nil, err
	}
	return src, irSrc, nil
}
