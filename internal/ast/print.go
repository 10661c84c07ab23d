package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump returns a human-readable, indented representation of the AST.
// Neither the CLI nor the REPL front end calls it.
func Dump(node Node) string {
	var sb strings.Builder
	fprintNode(&sb, node, 0)
	return sb.String()
}

func fprintNode(w io.Writer, n Node, indent int) {
	if n == nil {
		return
	}

	ind := strings.Repeat("  ", indent)

	switch n := n.(type) {
	case *Source:
		fmt.Fprintf(w, "%sSource\n", ind)
		for _, s := range n.Statements {
			fprintNode(w, s, indent+1)
		}

	case *Let:
		fmt.Fprintf(w, "%sLet name=%s type=%s\n", ind, n.Name, orNone(n.Type))
		if n.Init != nil {
			fprintNode(w, n.Init, indent+1)
		}

	case *Def:
		fmt.Fprintf(w, "%sDef name=%s return=%s\n", ind, n.Name, orNone(n.ReturnType))
		for _, p := range n.Params {
			fmt.Fprintf(w, "%s  Param %s:%s\n", ind, p.Name, orNone(p.Type))
		}
		for _, s := range n.Body {
			fprintNode(w, s, indent+1)
		}

	case *If:
		fmt.Fprintf(w, "%sIf\n", ind)
		fmt.Fprintf(w, "%s  Cond:\n", ind)
		fprintNode(w, n.Cond, indent+2)
		fmt.Fprintf(w, "%s  Then:\n", ind)
		for _, s := range n.Then {
			fprintNode(w, s, indent+2)
		}
		if n.Else != nil {
			fmt.Fprintf(w, "%s  Else:\n", ind)
			for _, s := range n.Else {
				fprintNode(w, s, indent+2)
			}
		}

	case *For:
		fmt.Fprintf(w, "%sFor name=%s\n", ind, n.Name)
		fmt.Fprintf(w, "%s  Iterable:\n", ind)
		fprintNode(w, n.Iterable, indent+2)
		for _, s := range n.Body {
			fprintNode(w, s, indent+1)
		}

	case *Return:
		fmt.Fprintf(w, "%sReturn\n", ind)
		if n.Value != nil {
			fprintNode(w, n.Value, indent+1)
		}

	case *Expression:
		fmt.Fprintf(w, "%sExpression\n", ind)
		fprintNode(w, n.Expr, indent+1)

	case *Assignment:
		fmt.Fprintf(w, "%sAssignment\n", ind)
		fmt.Fprintf(w, "%s  Target:\n", ind)
		fprintNode(w, n.Target, indent+2)
		fmt.Fprintf(w, "%s  Value:\n", ind)
		fprintNode(w, n.Value, indent+2)

	case *Literal:
		switch n.Kind {
		case LiteralNil:
			fmt.Fprintf(w, "%sLiteral nil\n", ind)
		case LiteralBool:
			fmt.Fprintf(w, "%sLiteral bool=%v\n", ind, n.Bool)
		case LiteralBigInt:
			fmt.Fprintf(w, "%sLiteral int=%s\n", ind, n.BigInt.String())
		case LiteralBigDec:
			fmt.Fprintf(w, "%sLiteral dec=%s\n", ind, n.BigDec.String())
		case LiteralChar:
			fmt.Fprintf(w, "%sLiteral char=%q\n", ind, n.Char)
		case LiteralString:
			fmt.Fprintf(w, "%sLiteral string=%q\n", ind, n.Str)
		}

	case *Group:
		fmt.Fprintf(w, "%sGroup\n", ind)
		fprintNode(w, n.Inner, indent+1)

	case *Binary:
		fmt.Fprintf(w, "%sBinary op=%s\n", ind, n.Operator)
		fprintNode(w, n.Left, indent+1)
		fprintNode(w, n.Right, indent+1)

	case *Variable:
		fmt.Fprintf(w, "%sVariable name=%s\n", ind, n.Name)

	case *Property:
		fmt.Fprintf(w, "%sProperty name=%s\n", ind, n.Name)
		fprintNode(w, n.Receiver, indent+1)

	case *Function:
		fmt.Fprintf(w, "%sFunction name=%s\n", ind, n.Name)
		for _, a := range n.Args {
			fprintNode(w, a, indent+1)
		}

	case *Method:
		fmt.Fprintf(w, "%sMethod name=%s\n", ind, n.Name)
		fmt.Fprintf(w, "%s  Receiver:\n", ind)
		fprintNode(w, n.Receiver, indent+2)
		for _, a := range n.Args {
			fprintNode(w, a, indent+1)
		}

	case *ObjectExpr:
		fmt.Fprintf(w, "%sObjectExpr name=%s\n", ind, orNone(n.Name))
		for _, f := range n.Fields {
			fprintNode(w, f, indent+1)
		}
		for _, m := range n.Methods {
			fprintNode(w, m, indent+1)
		}

	default:
		fmt.Fprintf(w, "%s<unknown node %T>\n", ind, n)
	}
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
