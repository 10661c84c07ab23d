package lint

import (
	"testing"

	"plc/internal/ast"
	"plc/internal/lexer"
	"plc/internal/parser"
)

func mustParse(t *testing.T, source string) *ast.Source {
	t.Helper()
	toks, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	src, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return src
}

func TestCheckFlagsMinorityCasingStyle(t *testing.T) {
	src := mustParse(t, `
		LET first_name = "a";
		LET last_name = "b";
		LET middleName = "c";
	`)
	findings := Check(src)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
	}
	if findings[0].Name != "middleName" {
		t.Fatalf("expected middleName flagged, got %q", findings[0].Name)
	}
	if findings[0].Majority != StyleSnake {
		t.Fatalf("expected majority snake_case, got %v", findings[0].Majority)
	}
}

func TestCheckAllowsUniformCasing(t *testing.T) {
	src := mustParse(t, `
		LET first_name = "a";
		LET last_name = "b";
	`)
	if findings := Check(src); len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestCheckIgnoresSingleWordLowerNames(t *testing.T) {
	src := mustParse(t, `
		LET first_name = "a";
		LET x = "b";
	`)
	if findings := Check(src); len(findings) != 0 {
		t.Fatalf("expected single-word lowercase name to be exempt, got %+v", findings)
	}
}

func TestCheckWalksNestedDefBodies(t *testing.T) {
	src := mustParse(t, `
		DEF outer_fn() DO
			LET inner_value = 1;
			LET badName = 2;
		END
		DEF another_fn() DO
			LET more_value = 3;
		END
	`)
	findings := Check(src)
	var names []string
	for _, f := range findings {
		names = append(names, f.Name)
	}
	found := false
	for _, n := range names {
		if n == "badName" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected nested badName to be flagged, findings: %+v", findings)
	}
}

func TestClassifyStyles(t *testing.T) {
	cases := map[string]Style{
		"snake_case_name": StyleSnake,
		"camelCaseName":   StyleCamel,
		"PascalCaseName":  StylePascal,
		"lower":           StyleLower,
		"":                StyleUnknown,
	}
	for name, want := range cases {
		if got := classify(name); got != want {
			t.Errorf("classify(%q) = %v, want %v", name, got, want)
		}
	}
}
