package analyzer

import (
	"testing"

	"plc/internal/ir"
	"plc/internal/lexer"
	"plc/internal/parser"
	"plc/internal/types"
)

func mustAnalyze(t *testing.T, source string) *ir.Source {
	t.Helper()
	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	src, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out, err := Analyze(src, types.NewScope(nil))
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	return out
}

func analyzeErr(t *testing.T, source string) error {
	t.Helper()
	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	src, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = Analyze(src, types.NewScope(nil))
	return err
}

func TestAnalyzeLetBinaryInteger(t *testing.T) {
	// scenario A
	out := mustAnalyze(t, "LET x = 1 + 2;")
	let := out.Statements[0].(*ir.Let)
	bin := let.Init.(*ir.Binary)
	if !types.Equal(bin.Type(), types.Integer) {
		t.Fatalf("expected Integer, got %s", bin.Type())
	}
}

func TestAnalyzeLetDeclaredString(t *testing.T) {
	// scenario B
	out := mustAnalyze(t, `LET s: String = "hi";`)
	let := out.Statements[0].(*ir.Let)
	if !types.Equal(let.VarType, types.String) {
		t.Fatalf("expected String, got %s", let.VarType)
	}
}

func TestAnalyzeDuplicateLetFails(t *testing.T) {
	// scenario C
	err := analyzeErr(t, "LET x = 1; LET x = 2;")
	if err == nil {
		t.Fatal("expected AnalyzeError for redeclaration")
	}
}

func TestAnalyzeDefResolvesParamAndReturn(t *testing.T) {
	// scenario D
	out := mustAnalyze(t, "DEF f(x: Integer): Integer DO RETURN x + 1; END")
	def := out.Statements[0].(*ir.Def)
	if len(def.Params) != 1 || !types.Equal(def.Params[0].Type, types.Integer) {
		t.Fatalf("got params %+v", def.Params)
	}
	ret := def.Body[0].(*ir.Return)
	if !types.Equal(ret.Value.Type(), types.Integer) {
		t.Fatalf("expected Integer return, got %s", ret.Value.Type())
	}
}

func TestAnalyzeIfConditionMustBeBoolean(t *testing.T) {
	// scenario E
	err := analyzeErr(t, "IF 1 DO END")
	if err == nil {
		t.Fatal("expected AnalyzeError for non-Boolean condition")
	}
}

func TestAnalyzeReturnOutsideFunctionFails(t *testing.T) {
	err := analyzeErr(t, "RETURN 1;")
	if err == nil {
		t.Fatal("expected AnalyzeError for RETURN outside a function")
	}
}

func TestAnalyzeForRequiresIterable(t *testing.T) {
	err := analyzeErr(t, "FOR i IN 1 DO END")
	if err == nil {
		t.Fatal("expected AnalyzeError: Integer is not Iterable")
	}
}

func TestAnalyzeAssignmentToUndeclaredVariable(t *testing.T) {
	err := analyzeErr(t, "x = 1;")
	if err == nil {
		t.Fatal("expected AnalyzeError for undefined variable")
	}
}

func TestAnalyzeScopeIsolationAcrossIfBranches(t *testing.T) {
	// A name defined in the then-branch must not leak into the else-branch's
	// scope, since each branch gets its own child scope.
	err := analyzeErr(t, "IF TRUE DO LET x = 1; ELSE x = 1; END")
	if err == nil {
		t.Fatal("expected AnalyzeError: x from then-branch invisible in else-branch")
	}
}

func TestAnalyzeObjectExprFieldsAndMethods(t *testing.T) {
	out := mustAnalyze(t, "LET o = OBJECT Point DO LET x = 1; DEF get(): Integer DO RETURN x; END END;")
	let := out.Statements[0].(*ir.Let)
	obj := let.Init.(*ir.ObjectExpr)
	if len(obj.Fields) != 1 || len(obj.Methods) != 1 {
		t.Fatalf("got %+v", obj)
	}
	objType, ok := obj.Type().(*types.Object)
	if !ok {
		t.Fatalf("expected *types.Object, got %T", obj.Type())
	}
	if _, ok := objType.Scope.Get("x", true); !ok {
		t.Fatal("expected field x defined in object scope")
	}
}

func TestAnalyzeObjectFieldInitializerUsesEnclosingScope(t *testing.T) {
	// A field's initializer cannot see the object's own fields; it is
	// analyzed against the scope enclosing the OBJECT expression.
	err := analyzeErr(t, "LET y = 1; LET o = OBJECT DO LET x = y; END;")
	if err != nil {
		t.Fatalf("unexpected error referencing outer y: %v", err)
	}
}

func TestAnalyzePropertyAccessRequiresObjectReceiver(t *testing.T) {
	err := analyzeErr(t, "LET x = 1; x.field;")
	if err == nil {
		t.Fatal("expected AnalyzeError: Integer receiver is not an object")
	}
}

func TestAnalyzeMethodCallArityMismatch(t *testing.T) {
	err := analyzeErr(t, "LET o = OBJECT DO DEF get(a: Integer): Integer DO RETURN a; END END; o.get();")
	if err == nil {
		t.Fatal("expected AnalyzeError: arity mismatch")
	}
}

func TestAnalyzeBinaryStringConcatWithNonString(t *testing.T) {
	out := mustAnalyze(t, `LET s = "x" + 1;`)
	let := out.Statements[0].(*ir.Let)
	if !types.Equal(let.Init.Type(), types.String) {
		t.Fatalf("expected String, got %s", let.Init.Type())
	}
}

func TestAnalyzeComparisonRequiresMatchingOperands(t *testing.T) {
	err := analyzeErr(t, `LET b = 1 < "x";`)
	if err == nil {
		t.Fatal("expected AnalyzeError: right operand must match left's type")
	}
}

func TestAnalyzeShortCircuitOperandsMustBeBoolean(t *testing.T) {
	err := analyzeErr(t, "LET b = TRUE AND 1;")
	if err == nil {
		t.Fatal("expected AnalyzeError: AND operands must be Boolean")
	}
}

func TestAnalyzeUnknownTypeAnnotation(t *testing.T) {
	err := analyzeErr(t, "LET x: Bogus = 1;")
	if err == nil {
		t.Fatal("expected AnalyzeError: unknown type annotation")
	}
}

func TestAnalyzeFunctionCallUnknownName(t *testing.T) {
	err := analyzeErr(t, "missing(1);")
	if err == nil {
		t.Fatal("expected AnalyzeError: undefined function")
	}
}

func TestAnalyzeRootScopeBuiltinIsUsableNotMutable(t *testing.T) {
	root := types.NewScope(nil)
	logType := &types.Function{Params: []types.Type{types.Any}, Return: types.Any}
	root.Define("log", logType)

	tokens, err := lexer.Lex("log(1);")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	src, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out, err := Analyze(src, root)
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	call := out.Statements[0].(*ir.Expression).Expr.(*ir.Function)
	if call.Name != "log" || !types.Equal(call.Type(), types.Any) {
		t.Fatalf("got %+v", call)
	}
	if got, ok := root.Get("log", true); !ok || got != types.Type(logType) {
		t.Fatalf("expected root binding for log to be left unchanged, got %v", got)
	}
}

func TestAnalyzeAssignmentToPropertyResolvesTarget(t *testing.T) {
	out := mustAnalyze(t, "LET o = OBJECT DO LET x = 1; END; o.x = 2;")
	assign, ok := out.Statements[1].(*ir.AssignProperty)
	if !ok {
		t.Fatalf("expected *ir.AssignProperty, got %T", out.Statements[1])
	}
	if assign.Target.Name != "x" || !types.Equal(assign.Target.Type(), types.Integer) {
		t.Fatalf("got %+v", assign.Target)
	}
}

func TestAnalyzeLetWithoutTypeOrInitIsAny(t *testing.T) {
	out := mustAnalyze(t, "LET x;")
	let := out.Statements[0].(*ir.Let)
	if !types.Equal(let.VarType, types.Any) {
		t.Fatalf("expected Any, got %s", let.VarType)
	}
}
