// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token. Keywords are not
// distinct kinds: they are lexed as Identifier tokens and distinguished by
// their Literal (see the parser's tokenStream.peek, which matches on
// literal strings as well as Kind).
type Kind int

const (
	Illegal Kind = iota
	EOF

	Identifier // identifiers and keywords (LET, IF, TRUE, ...)
	Integer    // arbitrary-precision integer literal
	Decimal    // arbitrary-precision decimal literal
	Character  // single-quoted character literal
	String     // double-quoted string literal
	Operator   // punctuation and symbolic operators
)

func (k Kind) String() string {
	switch k {
	case Illegal:
		return "Illegal"
	case EOF:
		return "EOF"
	case Identifier:
		return "Identifier"
	case Integer:
		return "Integer"
	case Decimal:
		return "Decimal"
	case Character:
		return "Character"
	case String:
		return "String"
	case Operator:
		return "Operator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Position is a 1-based line/column pair used only for diagnostics; it
// plays no part in lexing, parsing, or analysis semantics.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical unit: a kind plus the exact matched source substring.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
}

// Keywords are the literals the parser treats specially, even though the
// lexer emits them all as plain Identifier tokens. Neither the lexer nor
// the parser consults this table, and no package of this module calls
// IsKeyword.
var Keywords = map[string]bool{
	"LET": true, "DEF": true, "IF": true, "ELSE": true, "FOR": true,
	"IN": true, "RETURN": true, "DO": true, "END": true, "OBJECT": true,
	"AND": true, "OR": true, "NIL": true, "TRUE": true, "FALSE": true,
}

// IsKeyword reports whether literal is one of the reserved keyword
// literals lexed as an Identifier kind.
func IsKeyword(literal string) bool {
	return Keywords[literal]
}
