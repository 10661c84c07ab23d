// Package analyzer walks a parsed AST, resolving names against lexical
// scopes and checking every expression against the fixed type lattice,
// producing a typed IR tree or the first semantic error encountered.
package analyzer

import (
	"fmt"

	"plc/internal/ast"
	"plc/internal/ir"
	"plc/internal/token"
	"plc/internal/types"
)

// AnalyzeError reports a semantic error with the source position that
// triggered it.
type AnalyzeError struct {
	Pos token.Position
	Msg string
}

func (e *AnalyzeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

func fail(pos token.Position, format string, args ...any) error {
	return &AnalyzeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// analyzer walks statements and expressions against a single scope. A
// fresh analyzer is created for each child scope (function body, if
// branch, for body, method body), mirroring the way the scope chain
// itself is built one node at a time.
type analyzer struct {
	scope *types.Scope
}

// Analyze resolves src against root, returning the typed IR or the first
// semantic error encountered. root is typically a scope pre-populated
// with any builtins the host program wants in every analysis.
func Analyze(src *ast.Source, root *types.Scope) (*ir.Source, error) {
	a := &analyzer{scope: root}
	statements := make([]ir.Stmt, 0, len(src.Statements))
	for _, stmt := range src.Statements {
		s, err := a.stmt(stmt)
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return &ir.Source{Statements: statements, StartPos: src.StartPos}, nil
}

func (a *analyzer) stmt(s ast.Stmt) (ir.Stmt, error) {
	switch s := s.(type) {
	case *ast.Let:
		return a.letStmt(s)
	case *ast.Def:
		return a.defStmt(s)
	case *ast.If:
		return a.ifStmt(s)
	case *ast.For:
		return a.forStmt(s)
	case *ast.Return:
		return a.returnStmt(s)
	case *ast.Expression:
		return a.expressionStmt(s)
	case *ast.Assignment:
		return a.assignmentStmt(s)
	default:
		panic(fmt.Sprintf("analyzer: unhandled statement type %T", s))
	}
}

func (a *analyzer) body(stmts []ast.Stmt, scope *types.Scope) ([]ir.Stmt, error) {
	inner := &analyzer{scope: scope}
	out := make([]ir.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		s, err := inner.stmt(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (a *analyzer) letStmt(s *ast.Let) (*ir.Let, error) {
	if _, ok := a.scope.Get(s.Name, true); ok {
		return nil, fail(s.DeclaredPos, "variable %s is already declared", s.Name)
	}

	var declared types.Type
	if s.Type != "" {
		t, ok := types.LookupTypeName(s.Type)
		if !ok {
			return nil, fail(s.DeclaredPos, "type %s is not defined", s.Type)
		}
		declared = t
	}

	var value ir.Expr
	if s.Init != nil {
		v, err := a.expr(s.Init)
		if err != nil {
			return nil, err
		}
		value = v
	}

	variableType := declared
	if variableType == nil {
		if value != nil {
			variableType = value.Type()
		} else {
			variableType = types.Any
		}
	}

	if value != nil {
		if err := types.RequireSubtype(value.Type(), variableType); err != nil {
			return nil, fail(s.DeclaredPos, "%s", err)
		}
	}

	if err := a.scope.Define(s.Name, variableType); err != nil {
		return nil, fail(s.DeclaredPos, "%s", err)
	}

	return &ir.Let{Name: s.Name, VarType: variableType, Init: value, DeclaredPos: s.DeclaredPos}, nil
}

func resolveReturnType(name string) types.Type {
	if name == "" {
		return types.Any
	}
	if t, ok := types.LookupTypeName(name); ok {
		return t
	}
	return types.Any
}

func (a *analyzer) defStmt(s *ast.Def) (*ir.Def, error) {
	if _, ok := a.scope.Get(s.Name, true); ok {
		return nil, fail(s.DeclaredPos, "function %s is already defined in the current scope", s.Name)
	}

	paramTypes, err := a.resolveParamTypesAt(s.Params, s.DeclaredPos)
	if err != nil {
		return nil, err
	}
	returnType := resolveReturnType(s.ReturnType)

	if err := a.scope.Define(s.Name, &types.Function{Params: paramTypes, Return: returnType}); err != nil {
		return nil, fail(s.DeclaredPos, "%s", err)
	}

	fnScope := types.NewScope(a.scope)
	for i, p := range s.Params {
		if err := fnScope.Define(p.Name, paramTypes[i]); err != nil {
			return nil, fail(s.DeclaredPos, "duplicate parameter: %s", p.Name)
		}
	}
	fnScope.Define(types.ReturnsName, returnType)

	body, err := a.body(s.Body, fnScope)
	if err != nil {
		return nil, err
	}

	irParams := make([]ir.Param, len(s.Params))
	for i, p := range s.Params {
		irParams[i] = ir.Param{Name: p.Name, Type: paramTypes[i]}
	}

	return &ir.Def{Name: s.Name, Params: irParams, ReturnType: returnType, Body: body, DeclaredPos: s.DeclaredPos}, nil
}

// resolveParamTypesAt checks that parameter names are unique and resolves
// each declared parameter type (Any when absent), attaching pos to its
// errors, since Def/Method parameters need diagnostics anchored to the
// declaration, not a zero position.
func (a *analyzer) resolveParamTypesAt(params []ast.Param, pos token.Position) ([]types.Type, error) {
	seen := make(map[string]bool, len(params))
	paramTypes := make([]types.Type, len(params))
	for i, p := range params {
		if seen[p.Name] {
			return nil, fail(pos, "function parameters must be unique")
		}
		seen[p.Name] = true
		if p.Type != "" {
			t, ok := types.LookupTypeName(p.Type)
			if !ok {
				return nil, fail(pos, "unknown parameter type: %s", p.Type)
			}
			paramTypes[i] = t
		} else {
			paramTypes[i] = types.Any
		}
	}
	return paramTypes, nil
}

func (a *analyzer) ifStmt(s *ast.If) (*ir.If, error) {
	cond, err := a.expr(s.Cond)
	if err != nil {
		return nil, err
	}
	if err := types.RequireSubtype(cond.Type(), types.Boolean); err != nil {
		return nil, fail(s.DeclaredPos, "%s", err)
	}

	thenBody, err := a.body(s.Then, types.NewScope(a.scope))
	if err != nil {
		return nil, err
	}
	elseBody, err := a.body(s.Else, types.NewScope(a.scope))
	if err != nil {
		return nil, err
	}

	return &ir.If{Cond: cond, Then: thenBody, Else: elseBody, DeclaredPos: s.DeclaredPos}, nil
}

func (a *analyzer) forStmt(s *ast.For) (*ir.For, error) {
	iterable, err := a.expr(s.Iterable)
	if err != nil {
		return nil, err
	}
	if err := types.RequireSubtype(iterable.Type(), types.Iterable); err != nil {
		return nil, fail(s.DeclaredPos, "%s", err)
	}

	loopScope := types.NewScope(a.scope)
	if err := loopScope.Define(s.Name, types.Integer); err != nil {
		return nil, fail(s.DeclaredPos, "%s", err)
	}

	body, err := a.body(s.Body, loopScope)
	if err != nil {
		return nil, err
	}

	return &ir.For{Name: s.Name, VarType: types.Integer, Iterable: iterable, Body: body, DeclaredPos: s.DeclaredPos}, nil
}

func (a *analyzer) returnStmt(s *ast.Return) (*ir.Return, error) {
	expected, ok := a.scope.Get(types.ReturnsName, false)
	if !ok {
		return nil, fail(s.DeclaredPos, "RETURN statement used outside of a function")
	}

	var value ir.Expr
	if s.Value != nil {
		v, err := a.expr(s.Value)
		if err != nil {
			return nil, err
		}
		if err := types.RequireSubtype(v.Type(), expected); err != nil {
			return nil, fail(s.DeclaredPos, "%s", err)
		}
		value = v
	} else if err := types.RequireSubtype(types.Nil, expected); err != nil {
		return nil, fail(s.DeclaredPos, "%s", err)
	}

	return &ir.Return{Value: value, DeclaredPos: s.DeclaredPos}, nil
}

func (a *analyzer) expressionStmt(s *ast.Expression) (*ir.Expression, error) {
	e, err := a.expr(s.Expr)
	if err != nil {
		return nil, err
	}
	return &ir.Expression{Expr: e, DeclaredPos: s.DeclaredPos}, nil
}

func (a *analyzer) assignmentStmt(s *ast.Assignment) (ir.Stmt, error) {
	value, err := a.expr(s.Value)
	if err != nil {
		return nil, err
	}

	switch target := s.Target.(type) {
	case *ast.Variable:
		varType, ok := a.scope.Get(target.Name, false)
		if !ok {
			return nil, fail(s.DeclaredPos, "variable %s is not defined", target.Name)
		}
		if err := types.RequireSubtype(value.Type(), varType); err != nil {
			return nil, fail(s.DeclaredPos, "%s", err)
		}
		irTarget := &ir.Variable{Name: target.Name, Typ: varType, DeclaredPos: target.DeclaredPos}
		return &ir.AssignVariable{Target: irTarget, Value: value, DeclaredPos: s.DeclaredPos}, nil

	case *ast.Property:
		receiver, err := a.expr(target.Receiver)
		if err != nil {
			return nil, err
		}
		if types.Equal(receiver.Type(), types.Nil) {
			return nil, fail(s.DeclaredPos, "cannot assign property on Nil receiver")
		}
		obj, ok := receiver.Type().(*types.Object)
		if !ok {
			return nil, fail(s.DeclaredPos, "receiver of property %s must be of object type", target.Name)
		}
		propType, ok := obj.Scope.Get(target.Name, false)
		if !ok {
			return nil, fail(s.DeclaredPos, "property %s is not defined in object", target.Name)
		}
		if err := types.RequireSubtype(value.Type(), propType); err != nil {
			return nil, fail(s.DeclaredPos, "%s", err)
		}
		irTarget := &ir.Property{Receiver: receiver, Name: target.Name, Typ: propType, DeclaredPos: target.DeclaredPos}
		return &ir.AssignProperty{Target: irTarget, Value: value, DeclaredPos: s.DeclaredPos}, nil

	default:
		return nil, fail(s.DeclaredPos, "assignment target must be a variable or property")
	}
}

func (a *analyzer) expr(e ast.Expr) (ir.Expr, error) {
	switch e := e.(type) {
	case *ast.Literal:
		return a.literalExpr(e)
	case *ast.Group:
		return a.groupExpr(e)
	case *ast.Binary:
		return a.binaryExpr(e)
	case *ast.Variable:
		return a.variableExpr(e)
	case *ast.Property:
		return a.propertyExpr(e)
	case *ast.Function:
		return a.functionExpr(e)
	case *ast.Method:
		return a.methodExpr(e)
	case *ast.ObjectExpr:
		return a.objectExpr(e)
	default:
		panic(fmt.Sprintf("analyzer: unhandled expression type %T", e))
	}
}

func (a *analyzer) literalExpr(e *ast.Literal) (*ir.Literal, error) {
	var typ types.Type
	switch e.Kind {
	case ast.LiteralNil:
		typ = types.Nil
	case ast.LiteralBool:
		typ = types.Boolean
	case ast.LiteralBigInt:
		typ = types.Integer
	case ast.LiteralBigDec:
		typ = types.Decimal
	case ast.LiteralString:
		typ = types.String
	default:
		// Character literals have no member in the type lattice; the
		// lexer/parser never hand one to the analyzer in a well-formed
		// pipeline, so reaching here is a parser bug, not a user error.
		panic(fmt.Sprintf("analyzer: literal kind %v has no lattice type", e.Kind))
	}
	return &ir.Literal{
		Kind: e.Kind, Bool: e.Bool, BigInt: e.BigInt, BigDec: e.BigDec, Char: e.Char, Str: e.Str,
		Typ: typ, DeclaredPos: e.DeclaredPos,
	}, nil
}

func (a *analyzer) groupExpr(e *ast.Group) (*ir.Group, error) {
	inner, err := a.expr(e.Inner)
	if err != nil {
		return nil, err
	}
	return &ir.Group{Inner: inner, DeclaredPos: e.DeclaredPos}, nil
}

func (a *analyzer) binaryExpr(e *ast.Binary) (*ir.Binary, error) {
	left, err := a.expr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.expr(e.Right)
	if err != nil {
		return nil, err
	}

	var resultType types.Type
	switch e.Operator {
	case "+":
		switch {
		case types.Equal(left.Type(), types.String) || types.Equal(right.Type(), types.String):
			resultType = types.String
		case types.Equal(left.Type(), types.Integer) && types.Equal(right.Type(), types.Integer):
			resultType = types.Integer
		case types.Equal(left.Type(), types.Decimal) && types.Equal(right.Type(), types.Decimal):
			resultType = types.Decimal
		default:
			return nil, fail(e.DeclaredPos, "invalid operand types for +: %s, %s", left.Type(), right.Type())
		}

	case "-", "*", "/":
		switch {
		case types.Equal(left.Type(), types.Integer) && types.Equal(right.Type(), types.Integer):
			resultType = types.Integer
		case types.Equal(left.Type(), types.Decimal) && types.Equal(right.Type(), types.Decimal):
			resultType = types.Decimal
		default:
			return nil, fail(e.DeclaredPos, "invalid operand types for arithmetic: %s, %s", left.Type(), right.Type())
		}

	case "<", "<=", ">", ">=":
		if err := types.RequireSubtype(left.Type(), types.Comparable); err != nil {
			return nil, fail(e.DeclaredPos, "%s", err)
		}
		if err := types.RequireSubtype(right.Type(), left.Type()); err != nil {
			return nil, fail(e.DeclaredPos, "%s", err)
		}
		resultType = types.Boolean

	case "==", "!=":
		if err := types.RequireSubtype(left.Type(), types.Equatable); err != nil {
			return nil, fail(e.DeclaredPos, "%s", err)
		}
		if err := types.RequireSubtype(right.Type(), types.Equatable); err != nil {
			return nil, fail(e.DeclaredPos, "%s", err)
		}
		resultType = types.Boolean

	case "AND", "OR":
		if err := types.RequireSubtype(left.Type(), types.Boolean); err != nil {
			return nil, fail(e.DeclaredPos, "%s", err)
		}
		if err := types.RequireSubtype(right.Type(), types.Boolean); err != nil {
			return nil, fail(e.DeclaredPos, "%s", err)
		}
		resultType = types.Boolean

	default:
		return nil, fail(e.DeclaredPos, "unknown binary operator: %s", e.Operator)
	}

	return &ir.Binary{Operator: e.Operator, Left: left, Right: right, Typ: resultType, DeclaredPos: e.DeclaredPos}, nil
}

func (a *analyzer) variableExpr(e *ast.Variable) (*ir.Variable, error) {
	t, ok := a.scope.Get(e.Name, false)
	if !ok {
		return nil, fail(e.DeclaredPos, "variable %s is not defined", e.Name)
	}
	return &ir.Variable{Name: e.Name, Typ: t, DeclaredPos: e.DeclaredPos}, nil
}

func (a *analyzer) propertyExpr(e *ast.Property) (*ir.Property, error) {
	receiver, err := a.expr(e.Receiver)
	if err != nil {
		return nil, err
	}
	if types.Equal(receiver.Type(), types.Nil) {
		return nil, fail(e.DeclaredPos, "cannot access property on Nil receiver")
	}
	obj, ok := receiver.Type().(*types.Object)
	if !ok {
		return nil, fail(e.DeclaredPos, "receiver must be an object type to access property %s", e.Name)
	}
	propType, ok := obj.Scope.Get(e.Name, false)
	if !ok {
		return nil, fail(e.DeclaredPos, "property %s is not defined in object", e.Name)
	}
	return &ir.Property{Receiver: receiver, Name: e.Name, Typ: propType, DeclaredPos: e.DeclaredPos}, nil
}

func (a *analyzer) analyzeArgs(args []ast.Expr, params []types.Type, pos token.Position, what, name string) ([]ir.Expr, error) {
	if len(args) != len(params) {
		return nil, fail(pos, "%s %s expects %d arguments but got %d", what, name, len(params), len(args))
	}
	out := make([]ir.Expr, len(args))
	for i, arg := range args {
		v, err := a.expr(arg)
		if err != nil {
			return nil, err
		}
		if err := types.RequireSubtype(v.Type(), params[i]); err != nil {
			return nil, fail(pos, "%s", err)
		}
		out[i] = v
	}
	return out, nil
}

func (a *analyzer) functionExpr(e *ast.Function) (*ir.Function, error) {
	t, ok := a.scope.Get(e.Name, false)
	if !ok {
		return nil, fail(e.DeclaredPos, "function %s is not defined", e.Name)
	}
	fn, ok := t.(*types.Function)
	if !ok {
		return nil, fail(e.DeclaredPos, "%s is not a function", e.Name)
	}
	args, err := a.analyzeArgs(e.Args, fn.Params, e.DeclaredPos, "function", e.Name)
	if err != nil {
		return nil, err
	}
	return &ir.Function{Name: e.Name, Args: args, Typ: fn.Return, DeclaredPos: e.DeclaredPos}, nil
}

func (a *analyzer) methodExpr(e *ast.Method) (*ir.Method, error) {
	receiver, err := a.expr(e.Receiver)
	if err != nil {
		return nil, err
	}
	if types.Equal(receiver.Type(), types.Nil) {
		return nil, fail(e.DeclaredPos, "cannot call method on Nil receiver")
	}
	obj, ok := receiver.Type().(*types.Object)
	if !ok {
		return nil, fail(e.DeclaredPos, "receiver must be an object type to call method %s", e.Name)
	}
	mt, ok := obj.Scope.Get(e.Name, false)
	if !ok {
		return nil, fail(e.DeclaredPos, "method %s is not defined in object", e.Name)
	}
	fn, ok := mt.(*types.Function)
	if !ok {
		return nil, fail(e.DeclaredPos, "%s is not a function in object", e.Name)
	}
	args, err := a.analyzeArgs(e.Args, fn.Params, e.DeclaredPos, "method", e.Name)
	if err != nil {
		return nil, err
	}
	return &ir.Method{Receiver: receiver, Name: e.Name, Args: args, Typ: fn.Return, DeclaredPos: e.DeclaredPos}, nil
}

func (a *analyzer) objectExpr(e *ast.ObjectExpr) (*ir.ObjectExpr, error) {
	if e.Name != "" {
		if _, ok := types.LookupTypeName(e.Name); ok {
			return nil, fail(e.DeclaredPos, "object name cannot be a built-in type name: %s", e.Name)
		}
	}

	objScope := types.NewScope(nil)
	objType := &types.Object{Scope: objScope}

	irFields := make([]*ir.Let, 0, len(e.Fields))
	for _, field := range e.Fields {
		if _, ok := objScope.Get(field.Name, true); ok {
			return nil, fail(field.DeclaredPos, "field is already defined in object: %s", field.Name)
		}

		var declared types.Type
		if field.Type != "" {
			if t, ok := types.LookupTypeName(field.Type); ok {
				declared = t
			}
		}

		// Field initializers are analyzed against the enclosing scope, not
		// the object's own scope: an object literal cannot reference its
		// own fields from within another field's initializer.
		var value ir.Expr
		if field.Init != nil {
			v, err := a.expr(field.Init)
			if err != nil {
				return nil, err
			}
			value = v
		}

		variableType := declared
		if variableType == nil {
			if value != nil {
				variableType = value.Type()
			} else {
				variableType = types.Any
			}
		}
		if value != nil {
			if err := types.RequireSubtype(value.Type(), variableType); err != nil {
				return nil, fail(field.DeclaredPos, "%s", err)
			}
		}

		objScope.Define(field.Name, variableType)
		irFields = append(irFields, &ir.Let{Name: field.Name, VarType: variableType, Init: value, DeclaredPos: field.DeclaredPos})
	}

	irMethods := make([]*ir.Def, 0, len(e.Methods))
	for _, method := range e.Methods {
		if _, ok := objScope.Get(method.Name, true); ok {
			return nil, fail(method.DeclaredPos, "method is already defined in object: %s", method.Name)
		}

		paramTypes, err := a.resolveParamTypesAt(method.Params, method.DeclaredPos)
		if err != nil {
			return nil, err
		}
		returnType := resolveReturnType(method.ReturnType)

		objScope.Define(method.Name, &types.Function{Params: paramTypes, Return: returnType})

		methodScope := types.NewScope(objScope)
		methodScope.Define("this", objType)
		for i, p := range method.Params {
			methodScope.Define(p.Name, paramTypes[i])
		}
		methodScope.Define(types.ReturnsName, returnType)

		body, err := a.body(method.Body, methodScope)
		if err != nil {
			return nil, err
		}

		irParams := make([]ir.Param, len(method.Params))
		for i, p := range method.Params {
			irParams[i] = ir.Param{Name: p.Name, Type: paramTypes[i]}
		}

		irMethods = append(irMethods, &ir.Def{
			Name: method.Name, Params: irParams, ReturnType: returnType, Body: body, DeclaredPos: method.DeclaredPos,
		})
	}

	return &ir.ObjectExpr{Name: e.Name, Fields: irFields, Methods: irMethods, Typ: objType, DeclaredPos: e.DeclaredPos}, nil
}
