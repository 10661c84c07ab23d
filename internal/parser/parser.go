// Package parser builds an untyped AST from a token sequence via
// recursive descent with a fixed precedence cascade.
package parser

import (
	"fmt"
	"strings"

	"plc/internal/ast"
	"plc/internal/bignum"
	"plc/internal/token"
)

// ParseError reports an unexpected or missing token in the grammar.
type ParseError struct {
	Pos token.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// pattern matches a token either by Kind or by exact Literal, mirroring
// the reference TokenStream.peek's dual Token.Type/String matching.
type pattern interface{}

// tokenStream is a read-ahead cursor over a token slice.
type tokenStream struct {
	tokens []token.Token
	index  int
}

func (s *tokenStream) has(offset int) bool {
	return s.index+offset < len(s.tokens)
}

func (s *tokenStream) get(offset int) token.Token {
	return s.tokens[s.index+offset]
}

func matchesPattern(tok token.Token, p pattern) bool {
	switch v := p.(type) {
	case token.Kind:
		return tok.Kind == v
	case string:
		return tok.Literal == v
	default:
		panic(fmt.Sprintf("parser: invalid pattern %v", p))
	}
}

func (s *tokenStream) peek(patterns ...pattern) bool {
	if !s.has(len(patterns) - 1) {
		return false
	}
	for offset, p := range patterns {
		if !matchesPattern(s.get(offset), p) {
			return false
		}
	}
	return true
}

func (s *tokenStream) match(patterns ...pattern) bool {
	if !s.peek(patterns...) {
		return false
	}
	s.index += len(patterns)
	return true
}

func (s *tokenStream) posAt(offset int) token.Position {
	if s.has(offset) {
		return s.get(offset).Pos
	}
	if len(s.tokens) > 0 {
		return s.tokens[len(s.tokens)-1].Pos
	}
	return token.Position{Line: 1, Column: 1}
}

// Parse consumes the full token sequence and returns the parsed source or
// the first ParseError encountered.
func Parse(tokens []token.Token) (src *ast.Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				src, err = nil, pe
				return
			}
			panic(r)
		}
	}()

	s := &tokenStream{tokens: tokens}
	startPos := token.Position{Line: 1, Column: 1}
	if len(tokens) > 0 {
		startPos = tokens[0].Pos
	}

	var statements []ast.Stmt
	for s.has(0) {
		statements = append(statements, parseStmt(s))
	}
	return &ast.Source{Statements: statements, StartPos: startPos}, nil
}

func fail(s *tokenStream, msg string) {
	panic(&ParseError{Pos: s.posAt(0), Msg: msg})
}

func expect(s *tokenStream, msg string, patterns ...pattern) {
	if !s.match(patterns...) {
		fail(s, msg)
	}
}

func parseStmt(s *tokenStream) ast.Stmt {
	switch {
	case s.peek("LET"):
		return parseLetStmt(s)
	case s.peek("DEF"):
		return parseDefStmt(s)
	case s.peek("IF"):
		return parseIfStmt(s)
	case s.peek("FOR"):
		return parseForStmt(s)
	case s.peek("RETURN"):
		return parseReturnStmt(s)
	default:
		return parseExpressionOrAssignmentStmt(s)
	}
}

func parseLetStmt(s *tokenStream) *ast.Let {
	pos := s.posAt(0)
	expect(s, "expected LET", "LET")

	expect(s, "expected identifier after 'LET'", token.Identifier)
	name := s.tokens[s.index-1].Literal

	typeName := ""
	if s.match(":") {
		expect(s, "expected identifier after ':'", token.Identifier)
		typeName = s.tokens[s.index-1].Literal
	}

	var init ast.Expr
	if s.match("=") {
		init = parseExpr(s)
	}

	expect(s, "expected ';' at end of let statement", ";")

	return &ast.Let{Name: name, Type: typeName, Init: init, DeclaredPos: pos}
}

func parseParam(s *tokenStream) ast.Param {
	expect(s, "expected identifier in parameter list", token.Identifier)
	name := s.tokens[s.index-1].Literal

	typeName := ""
	if s.match(":") {
		expect(s, "expected identifier after ':'", token.Identifier)
		typeName = s.tokens[s.index-1].Literal
	}
	return ast.Param{Name: name, Type: typeName}
}

func parseDefStmt(s *tokenStream) *ast.Def {
	pos := s.posAt(0)
	expect(s, "DEF expected", "DEF")

	expect(s, "expected identifier after 'DEF'", token.Identifier)
	name := s.tokens[s.index-1].Literal

	expect(s, "expected '('", "(")

	var params []ast.Param
	if !s.peek(")") {
		params = append(params, parseParam(s))
		for s.match(",") {
			if !s.peek(token.Identifier) {
				fail(s, "expected parameter after ','")
			}
			params = append(params, parseParam(s))
		}
	}

	expect(s, "expected ')'", ")")

	returnType := ""
	if s.match(":") {
		expect(s, "expected identifier after ':'", token.Identifier)
		returnType = s.tokens[s.index-1].Literal
	}

	expect(s, "DO expected", "DO")

	var body []ast.Stmt
	for !s.peek("END") {
		if !s.has(0) {
			fail(s, "END expected")
		}
		body = append(body, parseStmt(s))
	}
	expect(s, "END expected", "END")

	return &ast.Def{Name: name, Params: params, ReturnType: returnType, Body: body, DeclaredPos: pos}
}

func parseIfStmt(s *tokenStream) *ast.If {
	pos := s.posAt(0)
	expect(s, "IF expected", "IF")

	cond := parseExpr(s)

	expect(s, "DO expected", "DO")

	var thenBody []ast.Stmt
	for !s.peek("END") && !s.peek("ELSE") {
		if !s.has(0) {
			fail(s, "END expected")
		}
		thenBody = append(thenBody, parseStmt(s))
	}

	var elseBody []ast.Stmt
	if s.match("ELSE") {
		elseBody = []ast.Stmt{}
		for !s.peek("END") {
			if !s.has(0) {
				fail(s, "END expected")
			}
			elseBody = append(elseBody, parseStmt(s))
		}
	}

	expect(s, "END expected", "END")

	return &ast.If{Cond: cond, Then: thenBody, Else: elseBody, DeclaredPos: pos}
}

func parseForStmt(s *tokenStream) *ast.For {
	pos := s.posAt(0)
	expect(s, "FOR expected", "FOR")

	expect(s, "expected identifier after 'FOR'", token.Identifier)
	name := s.tokens[s.index-1].Literal

	expect(s, "IN expected", "IN")
	iterable := parseExpr(s)

	expect(s, "DO expected", "DO")

	var body []ast.Stmt
	for !s.peek("END") {
		if !s.has(0) {
			fail(s, "END expected")
		}
		body = append(body, parseStmt(s))
	}
	expect(s, "END expected", "END")

	return &ast.For{Name: name, Iterable: iterable, Body: body, DeclaredPos: pos}
}

func parseReturnStmt(s *tokenStream) *ast.Return {
	pos := s.posAt(0)
	expect(s, "expected 'RETURN' keyword", "RETURN")

	var value ast.Expr
	if !s.peek(";") {
		value = parseExpr(s)
	}

	expect(s, "expected ';' at end of return statement", ";")

	return &ast.Return{Value: value, DeclaredPos: pos}
}

func parseExpressionOrAssignmentStmt(s *tokenStream) ast.Stmt {
	pos := s.posAt(0)
	left := parseExpr(s)
	if s.match("=") {
		right := parseExpr(s)
		expect(s, "missing semicolon at end of statement", ";")
		return &ast.Assignment{Target: left, Value: right, DeclaredPos: pos}
	}
	expect(s, "missing semicolon at end of statement", ";")
	return &ast.Expression{Expr: left, DeclaredPos: pos}
}

// parseExpr is the entry point into the precedence cascade.
func parseExpr(s *tokenStream) ast.Expr {
	return parseLogicalExpr(s)
}

func parseLogicalExpr(s *tokenStream) ast.Expr {
	left := parseComparisonExpr(s)
	for s.peek("AND") || s.peek("OR") {
		pos := s.posAt(0)
		operator := s.get(0).Literal
		s.match(operator)
		right := parseComparisonExpr(s)
		left = &ast.Binary{Operator: operator, Left: left, Right: right, DeclaredPos: pos}
	}
	return left
}

func parseComparisonExpr(s *tokenStream) ast.Expr {
	left := parseAdditiveExpr(s)
	for s.peek("<") || s.peek("<=") || s.peek(">") || s.peek(">=") || s.peek("==") || s.peek("!=") {
		pos := s.posAt(0)
		operator := s.get(0).Literal
		s.match(operator)
		right := parseAdditiveExpr(s)
		left = &ast.Binary{Operator: operator, Left: left, Right: right, DeclaredPos: pos}
	}
	return left
}

func parseAdditiveExpr(s *tokenStream) ast.Expr {
	left := parseMultiplicativeExpr(s)
	for s.peek("+") || s.peek("-") {
		pos := s.posAt(0)
		operator := s.get(0).Literal
		s.match(operator)
		right := parseMultiplicativeExpr(s)
		left = &ast.Binary{Operator: operator, Left: left, Right: right, DeclaredPos: pos}
	}
	return left
}

func parseMultiplicativeExpr(s *tokenStream) ast.Expr {
	left := parseSecondaryExpr(s)
	for s.peek("*") || s.peek("/") {
		pos := s.posAt(0)
		operator := s.get(0).Literal
		s.match(operator)
		right := parseSecondaryExpr(s)
		left = &ast.Binary{Operator: operator, Left: left, Right: right, DeclaredPos: pos}
	}
	return left
}

func parseSecondaryExpr(s *tokenStream) ast.Expr {
	expr := parsePrimaryExpr(s)

	for s.peek(".") {
		pos := s.posAt(0)
		s.match(".")
		expect(s, "expected identifier in secondary expression", token.Identifier)
		name := s.tokens[s.index-1].Literal

		if s.match("(") {
			args := parseArgs(s)
			expect(s, "missing ')' at end of method arguments", ")")
			expr = &ast.Method{Receiver: expr, Name: name, Args: args, DeclaredPos: pos}
		} else {
			expr = &ast.Property{Receiver: expr, Name: name, DeclaredPos: pos}
		}
	}
	return expr
}

func parseArgs(s *tokenStream) []ast.Expr {
	var args []ast.Expr
	if s.peek(")") {
		return args
	}
	args = append(args, parseExpr(s))
	for s.match(",") {
		if s.peek(")") {
			fail(s, "expected expression after ','")
		}
		args = append(args, parseExpr(s))
	}
	return args
}

func parsePrimaryExpr(s *tokenStream) ast.Expr {
	switch {
	case s.peek(token.Integer), s.peek(token.Decimal), s.peek(token.Character),
		s.peek(token.String), s.peek("NIL"), s.peek("TRUE"), s.peek("FALSE"):
		return parseLiteralExpr(s)
	case s.peek("("):
		return parseGroupExpr(s)
	case s.peek("OBJECT"):
		return parseObjectExpr(s)
	case s.peek(token.Identifier):
		return parseVariableOrFunctionExpr(s)
	default:
		if s.has(0) {
			fail(s, fmt.Sprintf("unexpected token: %s", s.get(0).Literal))
		}
		fail(s, "unexpected end of input")
		return nil
	}
}

func parseLiteralExpr(s *tokenStream) *ast.Literal {
	pos := s.posAt(0)

	switch {
	case s.match("NIL"):
		return &ast.Literal{Kind: ast.LiteralNil, DeclaredPos: pos}
	case s.match("TRUE"):
		return &ast.Literal{Kind: ast.LiteralBool, Bool: true, DeclaredPos: pos}
	case s.match("FALSE"):
		return &ast.Literal{Kind: ast.LiteralBool, Bool: false, DeclaredPos: pos}
	case s.peek(token.Integer):
		literal := s.get(0).Literal
		s.match(token.Integer)
		v, err := bignum.ParseInteger(literal)
		if err != nil {
			fail(s, err.Error())
		}
		return &ast.Literal{Kind: ast.LiteralBigInt, BigInt: v, DeclaredPos: pos}
	case s.peek(token.Decimal):
		literal := s.get(0).Literal
		s.match(token.Decimal)
		v, err := bignum.Parse(literal)
		if err != nil {
			fail(s, err.Error())
		}
		return &ast.Literal{Kind: ast.LiteralBigDec, BigDec: v, DeclaredPos: pos}
	case s.peek(token.Character):
		literal := s.get(0).Literal
		s.match(token.Character)
		content := processEscapes(literal[1 : len(literal)-1])
		r := []rune(content)[0]
		return &ast.Literal{Kind: ast.LiteralChar, Char: r, DeclaredPos: pos}
	case s.peek(token.String):
		literal := s.get(0).Literal
		s.match(token.String)
		content := processEscapes(literal[1 : len(literal)-1])
		return &ast.Literal{Kind: ast.LiteralString, Str: content, DeclaredPos: pos}
	default:
		fail(s, "unexpected token in literal expression")
		return nil
	}
}

// processEscapes resolves backslash escapes with a single left-to-right
// scan (rather than sequential whole-string replacements), since the
// escape set contains '\\' itself: an already-resolved backslash must
// never be reinterpreted as the start of a second escape.
func processEscapes(literal string) string {
	var sb strings.Builder
	runes := []rune(literal)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) {
			sb.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'b':
			sb.WriteRune('\b')
		case 'n':
			sb.WriteRune('\n')
		case 'r':
			sb.WriteRune('\r')
		case 't':
			sb.WriteRune('\t')
		case '\'':
			sb.WriteRune('\'')
		case '"':
			sb.WriteRune('"')
		case '\\':
			sb.WriteRune('\\')
		default:
			sb.WriteRune('\\')
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}

func parseGroupExpr(s *tokenStream) *ast.Group {
	pos := s.posAt(0)
	expect(s, "expected '('", "(")
	inner := parseExpr(s)
	expect(s, "expected ')'", ")")
	return &ast.Group{Inner: inner, DeclaredPos: pos}
}

func parseObjectExpr(s *tokenStream) *ast.ObjectExpr {
	pos := s.posAt(0)
	expect(s, "expected OBJECT", "OBJECT")

	name := ""
	if s.peek(token.Identifier) && !s.peek("DO") {
		s.match(token.Identifier)
		name = s.tokens[s.index-1].Literal
	}

	expect(s, "expected DO", "DO")

	var fields []*ast.Let
	for s.peek("LET") {
		fields = append(fields, parseLetStmt(s))
	}

	var methods []*ast.Def
	for s.peek("DEF") {
		methods = append(methods, parseDefStmt(s))
	}

	expect(s, "expected END", "END")

	return &ast.ObjectExpr{Name: name, Fields: fields, Methods: methods, DeclaredPos: pos}
}

func parseVariableOrFunctionExpr(s *tokenStream) ast.Expr {
	pos := s.posAt(0)
	expect(s, "expected identifier in variable/function expression", token.Identifier)
	name := s.tokens[s.index-1].Literal

	if s.match("(") {
		args := parseArgs(s)
		expect(s, "expected ')'", ")")
		return &ast.Function{Name: name, Args: args, DeclaredPos: pos}
	}

	return &ast.Variable{Name: name, DeclaredPos: pos}
}
