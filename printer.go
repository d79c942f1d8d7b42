// printer.go — user-facing value formatting and debug dumps.
package dncl

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders v the way 表示 prints it: integers in decimal, reals
// in shortest round-trip form, strings without quotes, arrays in braces.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTUndef:
		return "undefined"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTArr:
		arr := v.Data.(*ArrayObject)
		parts := make([]string, len(arr.Elems))
		for i, el := range arr.Elems {
			parts[i] = FormatValue(el)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<unknown>"
	}
}

// TokensString renders a token stream one token per line, for the CLI's
// verbose mode.
func TokensString(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&b, "%3d:%-3d %-12s %q\n", t.Line, t.Col, t.Type, t.Lexeme)
	}
	return b.String()
}

// FormatProgram renders the syntax tree as an indented outline.
func FormatProgram(prog *Program) string {
	var b strings.Builder
	for _, s := range prog.Stmts {
		writeStmt(&b, s, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func writeStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	switch node := s.(type) {
	case *AssignStmt:
		if node.Indices == nil {
			fmt.Fprintf(b, "assign %s ← %s\n", node.Target, exprString(node.Value))
		} else {
			fmt.Fprintf(b, "assign %s[%s] ← %s\n", node.Target, exprListString(node.Indices), exprString(node.Value))
		}
	case *FillStmt:
		fmt.Fprintf(b, "fill %s ← %s\n", node.Name, exprString(node.Value))
	case *IncStmt:
		fmt.Fprintf(b, "increase %s by %s\n", node.Name, exprString(node.Amount))
	case *DecStmt:
		fmt.Fprintf(b, "decrease %s by %s\n", node.Name, exprString(node.Amount))
	case *DisplayStmt:
		fmt.Fprintf(b, "display %s\n", exprListString(node.Exprs))
	case *IfStmt:
		fmt.Fprintf(b, "if %s\n", exprString(node.Cond))
		writeBlock(b, node.Then, depth+1)
		for _, clause := range node.Elifs {
			indent(b, depth)
			fmt.Fprintf(b, "elif %s\n", exprString(clause.Cond))
			writeBlock(b, clause.Body, depth+1)
		}
		if node.Else != nil {
			indent(b, depth)
			b.WriteString("else\n")
			writeBlock(b, node.Else, depth+1)
		}
	case *WhileStmt:
		fmt.Fprintf(b, "while %s\n", exprString(node.Cond))
		writeBlock(b, node.Body, depth+1)
	case *DoUntilStmt:
		b.WriteString("repeat\n")
		writeBlock(b, node.Body, depth+1)
		indent(b, depth)
		fmt.Fprintf(b, "until %s\n", exprString(node.Cond))
	case *ForStmt:
		dir := "up"
		if node.Down {
			dir = "down"
		}
		fmt.Fprintf(b, "for %s from %s to %s by %s (%s)\n",
			node.Var, exprString(node.From), exprString(node.To), exprString(node.Step), dir)
		writeBlock(b, node.Body, depth+1)
	case *FuncDef:
		fmt.Fprintf(b, "func %s(%s)\n", node.Name, strings.Join(node.Params, ", "))
		writeBlock(b, node.Body, depth+1)
	case *CallStmt:
		fmt.Fprintf(b, "call %s\n", exprString(node.Call))
	default:
		fmt.Fprintf(b, "stmt %T\n", s)
	}
}

func writeBlock(b *strings.Builder, body []Stmt, depth int) {
	for _, s := range body {
		writeStmt(b, s, depth)
	}
}

func exprListString(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

func exprString(e Expr) string {
	switch node := e.(type) {
	case *IntLit:
		return strconv.FormatInt(node.Value, 10)
	case *NumLit:
		return strconv.FormatFloat(node.Value, 'g', -1, 64)
	case *StrLit:
		return strconv.Quote(node.Value)
	case *VarRef:
		return node.Name
	case *ArrayRef:
		return fmt.Sprintf("%s[%s]", node.Name, exprListString(node.Indices))
	case *ArrayLit:
		return "{" + exprListString(node.Elems) + "}"
	case *BinaryOp:
		return fmt.Sprintf("(%s %s %s)", exprString(node.Left), node.Op, exprString(node.Right))
	case *UnaryOp:
		return fmt.Sprintf("(%s %s)", node.Op, exprString(node.Operand))
	case *LogicalOp:
		return fmt.Sprintf("(%s %s %s)", exprString(node.Left), node.Op, exprString(node.Right))
	case *CallExpr:
		return fmt.Sprintf("%s(%s)", node.Name, exprListString(node.Args))
	case *BuiltinCall:
		return fmt.Sprintf("%s(%s)", node.Name, exprListString(node.Args))
	default:
		return fmt.Sprintf("%T", e)
	}
}
