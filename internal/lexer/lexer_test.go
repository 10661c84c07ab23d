package lexer

import (
	"testing"

	"plc/internal/token"
)

func literals(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Literal
	}
	return out
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	tokens, err := Lex("LET x = 1 + 2;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"LET", "x", "=", "1", "+", "2", ";"}
	got := literals(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
	for _, tok := range tokens[:2] {
		if tok.Kind != token.Identifier {
			t.Fatalf("expected Identifier kind, got %s", tok.Kind)
		}
	}
}

func TestLexNumberKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"1", token.Integer},
		{"1.5", token.Decimal},
		{"1e3", token.Integer},
		{"1.5e3", token.Decimal},
		{"-42", token.Integer},
	}
	for _, tt := range tests {
		tokens, err := Lex(tt.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.input, err)
		}
		if len(tokens) != 1 {
			t.Fatalf("%s: expected 1 token, got %d", tt.input, len(tokens))
		}
		if tokens[0].Kind != tt.kind {
			t.Fatalf("%s: got kind %s, want %s", tt.input, tokens[0].Kind, tt.kind)
		}
		if tokens[0].Literal != tt.input {
			t.Fatalf("%s: got literal %q", tt.input, tokens[0].Literal)
		}
	}
}

func TestLexDotLookahead(t *testing.T) {
	// scenario G: "1." lexes to Integer "1" then Operator "."
	tokens, err := Lex("1.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Kind != token.Integer || tokens[0].Literal != "1" {
		t.Fatalf("token 0: got %+v", tokens[0])
	}
	if tokens[1].Kind != token.Operator || tokens[1].Literal != "." {
		t.Fatalf("token 1: got %+v", tokens[1])
	}
}

func TestLexStringEscape(t *testing.T) {
	// scenario F: "ab\nc" lexes to one String token, literal preserved verbatim
	tokens, err := Lex(`"ab\nc"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Kind != token.String {
		t.Fatalf("got kind %s", tokens[0].Kind)
	}
	if tokens[0].Literal != `"ab\nc"` {
		t.Fatalf("got literal %q", tokens[0].Literal)
	}
}

func TestLexCharacter(t *testing.T) {
	tokens, err := Lex(`'a'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != token.Character {
		t.Fatalf("got %v", tokens)
	}
}

func TestLexOperators(t *testing.T) {
	tests := []string{"<", "<=", ">", ">=", "==", "!=", "=", "!", "(", ")"}
	for _, in := range tests {
		tokens, err := Lex(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if len(tokens) != 1 || tokens[0].Kind != token.Operator || tokens[0].Literal != in {
			t.Fatalf("%s: got %v", in, tokens)
		}
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := Lex(`"abc`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestLexInvalidEscape(t *testing.T) {
	_, err := Lex(`"\q"`)
	if err == nil {
		t.Fatal("expected error for invalid escape")
	}
}

func TestLexComment(t *testing.T) {
	tokens, err := Lex("LET x = 1; // trailing comment\nLET y = 2;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := literals(tokens)
	want := []string{"LET", "x", "=", "1", ";", "LET", "y", "=", "2", ";"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexTotalityConcatenation(t *testing.T) {
	// property 1: concatenating literals yields the source minus whitespace
	// and comments, in order, for well-formed input.
	source := "LET x: Integer = 1 + 2;"
	tokens, err := Lex(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ""
	for _, tok := range tokens {
		got += tok.Literal
	}
	want := "LETx:Integer=1+2;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
