package toolchain

import (
	"strings"
	"testing"

	"plc/internal/types"
)

func TestCompileEndToEnd(t *testing.T) {
	res, err := Compile("LET x = 1 + 2;", types.NewScope(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Tokens) == 0 {
		t.Fatal("expected non-empty token list")
	}
	if !strings.Contains(res.Generated, "BigInteger x") {
		t.Fatalf("got:\n%s", res.Generated)
	}
}

func TestCompileStopsAtFirstError(t *testing.T) {
	_, err := Compile("LET x = 1; LET x = 2;", types.NewScope(nil))
	if err == nil {
		t.Fatal("expected AnalyzeError for redeclaration")
	}
}

func TestCheckSkipsGeneration(t *testing.T) {
	_, irSrc, err := Check("LET x = 1;", types.NewScope(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if irSrc == nil || len(irSrc.Statements) != 1 {
		t.Fatalf("got %+v", irSrc)
	}
}
