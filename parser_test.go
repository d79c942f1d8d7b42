// parser_test.go
package dncl

import (
	"errors"
	"testing"
)

func parseProg(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return prog
}

func parseErr(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("want parse error, got none\nsource:\n%s", src)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %v", err)
	}
	return pe
}

func onlyStmt(t *testing.T, src string) Stmt {
	t.Helper()
	prog := parseProg(t, src)
	if len(prog.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Stmts))
	}
	return prog.Stmts[0]
}

func Test_Parser_Assignment(t *testing.T) {
	s, ok := onlyStmt(t, "x ← 3").(*AssignStmt)
	if !ok {
		t.Fatalf("want *AssignStmt, got %T", s)
	}
	if s.Target != "x" || s.Indices != nil {
		t.Fatalf("unexpected target: %+v", s)
	}
	if lit, ok := s.Value.(*IntLit); !ok || lit.Value != 3 {
		t.Fatalf("want IntLit 3, got %#v", s.Value)
	}
}

func Test_Parser_ArrayElementAssignment(t *testing.T) {
	s := onlyStmt(t, "A[1, 2] ← 5").(*AssignStmt)
	if s.Target != "A" || len(s.Indices) != 2 {
		t.Fatalf("unexpected assignment: %+v", s)
	}
}

func Test_Parser_ArrayLiteral(t *testing.T) {
	s := onlyStmt(t, "A ← {1, {2, 3}}").(*AssignStmt)
	lit := s.Value.(*ArrayLit)
	if len(lit.Elems) != 2 {
		t.Fatalf("want 2 elements, got %d", len(lit.Elems))
	}
	if inner, ok := lit.Elems[1].(*ArrayLit); !ok || len(inner.Elems) != 2 {
		t.Fatalf("want nested literal, got %#v", lit.Elems[1])
	}
}

func Test_Parser_Display(t *testing.T) {
	s := onlyStmt(t, "「答えは」 と x と 「です」 を表示する").(*DisplayStmt)
	if len(s.Exprs) != 3 {
		t.Fatalf("want 3 display parts, got %d", len(s.Exprs))
	}
}

func Test_Parser_Precedence(t *testing.T) {
	s := onlyStmt(t, "x ← 1 ＋ 2 × 3").(*AssignStmt)
	add := s.Value.(*BinaryOp)
	if add.Op != "+" {
		t.Fatalf("want + at root, got %s", add.Op)
	}
	mul := add.Right.(*BinaryOp)
	if mul.Op != "*" {
		t.Fatalf("want * on the right, got %s", mul.Op)
	}
}

func Test_Parser_ComparisonBelowLogic(t *testing.T) {
	s := onlyStmt(t, "x ← a ＞ 1 かつ b ＜ 2 または c ＝ 3").(*AssignStmt)
	or := s.Value.(*LogicalOp)
	if or.Op != "または" {
		t.Fatalf("want または at root, got %s", or.Op)
	}
	and := or.Left.(*LogicalOp)
	if and.Op != "かつ" {
		t.Fatalf("want かつ on the left, got %s", and.Op)
	}
}

func Test_Parser_ComparisonNotChainable(t *testing.T) {
	parseErr(t, "x ← 1 ＜ 2 ＜ 3")
}

func Test_Parser_UnaryMinusAndNot(t *testing.T) {
	s := onlyStmt(t, "x ← でない a かつ －b ＞ 0").(*AssignStmt)
	and := s.Value.(*LogicalOp)
	if _, ok := and.Left.(*UnaryOp); !ok {
		t.Fatalf("want でない on the left, got %#v", and.Left)
	}
}

func Test_Parser_IfElifElse(t *testing.T) {
	src := `
もし x ＞ 10 ならば
  「big」 を表示する
を実行し，そうでなくもし x ＞ 3 ならば
  「mid」 を表示する
を実行し，そうでなければ
  「small」 を表示する
を実行する
`
	s := onlyStmt(t, src).(*IfStmt)
	if len(s.Then) != 1 || len(s.Elifs) != 1 || len(s.Else) != 1 {
		t.Fatalf("unexpected branch shape: then=%d elifs=%d else=%d", len(s.Then), len(s.Elifs), len(s.Else))
	}
}

func Test_Parser_IfWithoutElse(t *testing.T) {
	src := `
もし x ＝ 0 ならば
  「zero」 を表示する
を実行する
`
	s := onlyStmt(t, src).(*IfStmt)
	if s.Else != nil || len(s.Elifs) != 0 {
		t.Fatalf("want bare if, got %+v", s)
	}
}

func Test_Parser_While(t *testing.T) {
	src := `
x ＜ 10 の間，
  x を 1 増やす
を繰り返す
`
	s := onlyStmt(t, src).(*WhileStmt)
	if len(s.Body) != 1 {
		t.Fatalf("want 1 body statement, got %d", len(s.Body))
	}
	if _, ok := s.Body[0].(*IncStmt); !ok {
		t.Fatalf("want *IncStmt body, got %T", s.Body[0])
	}
}

func Test_Parser_DoUntil(t *testing.T) {
	src := `
繰り返し，
  x を 1 減らす
を，x ＝ 0 になるまで実行する
`
	s := onlyStmt(t, src).(*DoUntilStmt)
	if len(s.Body) != 1 {
		t.Fatalf("want 1 body statement, got %d", len(s.Body))
	}
	if _, ok := s.Body[0].(*DecStmt); !ok {
		t.Fatalf("want *DecStmt body, got %T", s.Body[0])
	}
}

func Test_Parser_CountedLoopUp(t *testing.T) {
	src := `
i を 1 から 10 まで 2 ずつ増やしながら，
  i を表示する
を繰り返す
`
	s := onlyStmt(t, src).(*ForStmt)
	if s.Var != "i" || s.Down {
		t.Fatalf("unexpected loop header: %+v", s)
	}
}

func Test_Parser_CountedLoopDown(t *testing.T) {
	src := `
i を 10 から 1 まで 1 ずつ減らしながら，
  i を表示する
を繰り返す
`
	s := onlyStmt(t, src).(*ForStmt)
	if !s.Down {
		t.Fatalf("want Down loop")
	}
}

func Test_Parser_FuncDefAndCall(t *testing.T) {
	src := `
関数 挨拶(名前, 回数) を
  名前 を表示する
と定義する
挨拶(「太郎」, 2)
`
	prog := parseProg(t, src)
	if len(prog.Stmts) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Stmts))
	}
	def := prog.Stmts[0].(*FuncDef)
	if def.Name != "挨拶" || len(def.Params) != 2 {
		t.Fatalf("unexpected definition: %+v", def)
	}
	call := prog.Stmts[1].(*CallStmt)
	if _, ok := call.Call.(*CallExpr); !ok {
		t.Fatalf("want *CallExpr, got %T", call.Call)
	}
}

func Test_Parser_BuiltinClassification(t *testing.T) {
	s := onlyStmt(t, "x ← 乱数(1, 6)").(*AssignStmt)
	if _, ok := s.Value.(*BuiltinCall); !ok {
		t.Fatalf("want *BuiltinCall, got %T", s.Value)
	}
}

func Test_Parser_InputMarker(t *testing.T) {
	s := onlyStmt(t, "x ← 【外部からの入力】").(*AssignStmt)
	call, ok := s.Value.(*BuiltinCall)
	if !ok || call.Name != "input" {
		t.Fatalf("want input builtin, got %#v", s.Value)
	}
}

func Test_Parser_Fill(t *testing.T) {
	s := onlyStmt(t, "Data のすべての要素に 0 を代入する").(*FillStmt)
	if s.Name != "Data" {
		t.Fatalf("unexpected fill target: %+v", s)
	}
}

func Test_Parser_IncDec(t *testing.T) {
	if _, ok := onlyStmt(t, "x を 3 増やす").(*IncStmt); !ok {
		t.Fatalf("want *IncStmt")
	}
	if _, ok := onlyStmt(t, "x を 1 減らす").(*DecStmt); !ok {
		t.Fatalf("want *DecStmt")
	}
}

func Test_Parser_ExpectedFound(t *testing.T) {
	pe := parseErr(t, "もし x ＞ 10\n「big」 を表示する\nを実行する")
	if pe.Expected != "ならば" {
		t.Fatalf("want expected ならば, got %q", pe.Expected)
	}
}

func Test_Parser_IncompleteOnlyInteractive(t *testing.T) {
	src := "もし x ＞ 1 ならば"

	_, err := ParseInteractive(src)
	if !IsIncomplete(err) {
		t.Fatalf("interactive: want incomplete, got %v", err)
	}

	_, err = Parse(src)
	if err == nil || IsIncomplete(err) {
		t.Fatalf("batch: want hard parse error, got %v", err)
	}
}

func Test_Parser_IncompleteLoop(t *testing.T) {
	_, err := ParseInteractive("x ＜ 10 の間，\nx を 1 増やす")
	if !IsIncomplete(err) {
		t.Fatalf("want incomplete, got %v", err)
	}
}

func Test_Parser_CompleteInteractive(t *testing.T) {
	prog, err := ParseInteractive("もし x ＞ 1 ならば\nx を表示する\nを実行する")
	if err != nil {
		t.Fatalf("want success, got %v", err)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Stmts))
	}
}
