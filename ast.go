// ast.go — the closed set of DNCL syntax tree nodes.
//
// Nodes are plain structs implementing the Expr or Stmt marker interfaces.
// Every node records the source position of its first token so the evaluator
// can attach locations to runtime errors. Composite nodes exclusively own
// their children; the tree has no sharing and no cycles.
package dncl

// Pos is a 1-based source location (line, rune column).
type Pos struct {
	Line int
	Col  int
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Pos
}

// Expr marks expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt marks statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root node: an ordered sequence of statements.
type Program struct {
	Stmts []Stmt
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	At    Pos
	Value int64
}

// NumLit is a real-number literal.
type NumLit struct {
	At    Pos
	Value float64
}

// StrLit is a string literal (「…」 or "…").
type StrLit struct {
	At    Pos
	Value string
}

// VarRef reads a variable.
type VarRef struct {
	At   Pos
	Name string
}

// ArrayRef reads an array element: name[i] or name[i, j].
type ArrayRef struct {
	At      Pos
	Name    string
	Indices []Expr
}

// ArrayLit is an array literal: {e1, e2, …}. Nested literals form 2-D arrays.
type ArrayLit struct {
	At    Pos
	Elems []Expr
}

// BinaryOp applies an arithmetic or comparison operator. Op is the canonical
// ASCII spelling: + - * / // % = != > >= < <=.
type BinaryOp struct {
	At    Pos
	Op    string
	Left  Expr
	Right Expr
}

// UnaryOp is prefix negation ("-") or logical でない ("not").
type UnaryOp struct {
	At      Pos
	Op      string
	Operand Expr
}

// LogicalOp is かつ ("and") or または ("or") with short-circuit evaluation:
// the right operand is not evaluated when the left already decides the
// result.
type LogicalOp struct {
	At    Pos
	Op    string
	Left  Expr
	Right Expr
}

// CallExpr invokes a user-defined function.
type CallExpr struct {
	At   Pos
	Name string
	Args []Expr
}

// BuiltinCall invokes one of the fixed built-in functions (乱数, 奇数, 二乗,
// べき乗, input). The parser classifies calls against the builtin name table.
type BuiltinCall struct {
	At   Pos
	Name string
	Args []Expr
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// AssignStmt is target ← value. Indices is nil for a plain variable and
// holds one or two index expressions for an array element target.
type AssignStmt struct {
	At      Pos
	Target  string
	Indices []Expr
	Value   Expr
}

// FillStmt assigns one value to every element of an array
// (x のすべての要素に v を代入する), recursing into 2-D rows.
type FillStmt struct {
	At    Pos
	Name  string
	Value Expr
}

// IncStmt is x を n 増やす.
type IncStmt struct {
	At     Pos
	Name   string
	Amount Expr
}

// DecStmt is x を n 減らす.
type DecStmt struct {
	At     Pos
	Name   string
	Amount Expr
}

// DisplayStmt prints the concatenation of its expressions as one line
// (e1 と e2 と … を表示する).
type DisplayStmt struct {
	At    Pos
	Exprs []Expr
}

// ElifClause is one そうでなくもし branch of an IfStmt.
type ElifClause struct {
	Cond Expr
	Body []Stmt
}

// IfStmt executes at most one branch: the first true condition in written
// order, else the Else block when present.
type IfStmt struct {
	At    Pos
	Cond  Expr
	Then  []Stmt
	Elifs []ElifClause
	Else  []Stmt
}

// WhileStmt is the pretest loop: cond の間， body を繰り返す.
type WhileStmt struct {
	At   Pos
	Cond Expr
	Body []Stmt
}

// DoUntilStmt is the posttest loop: 繰り返し， body を，cond
// になるまで実行する. The body runs once unconditionally; Cond is an
// until-condition (true stops the loop).
type DoUntilStmt struct {
	At   Pos
	Body []Stmt
	Cond Expr
}

// ForStmt is the counted loop. Down selects 減らしながら (step applied
// negatively).
type ForStmt struct {
	At   Pos
	Var  string
	From Expr
	To   Expr
	Step Expr
	Down bool
	Body []Stmt
}

// FuncDef defines (or redefines) a user function.
type FuncDef struct {
	At     Pos
	Name   string
	Params []string
	Body   []Stmt
}

// CallStmt is a bare call used as a statement; any result is discarded.
type CallStmt struct {
	At   Pos
	Call Expr // *CallExpr or *BuiltinCall
}

// ---------------------------------------------------------------------------
// Marker methods
// ---------------------------------------------------------------------------

func (n *IntLit) Pos() Pos      { return n.At }
func (n *NumLit) Pos() Pos      { return n.At }
func (n *StrLit) Pos() Pos      { return n.At }
func (n *VarRef) Pos() Pos      { return n.At }
func (n *ArrayRef) Pos() Pos    { return n.At }
func (n *ArrayLit) Pos() Pos    { return n.At }
func (n *BinaryOp) Pos() Pos    { return n.At }
func (n *UnaryOp) Pos() Pos     { return n.At }
func (n *LogicalOp) Pos() Pos   { return n.At }
func (n *CallExpr) Pos() Pos    { return n.At }
func (n *BuiltinCall) Pos() Pos { return n.At }

func (n *IntLit) exprNode()      {}
func (n *NumLit) exprNode()      {}
func (n *StrLit) exprNode()      {}
func (n *VarRef) exprNode()      {}
func (n *ArrayRef) exprNode()    {}
func (n *ArrayLit) exprNode()    {}
func (n *BinaryOp) exprNode()    {}
func (n *UnaryOp) exprNode()     {}
func (n *LogicalOp) exprNode()   {}
func (n *CallExpr) exprNode()    {}
func (n *BuiltinCall) exprNode() {}

func (n *AssignStmt) Pos() Pos  { return n.At }
func (n *FillStmt) Pos() Pos    { return n.At }
func (n *IncStmt) Pos() Pos     { return n.At }
func (n *DecStmt) Pos() Pos     { return n.At }
func (n *DisplayStmt) Pos() Pos { return n.At }
func (n *IfStmt) Pos() Pos      { return n.At }
func (n *WhileStmt) Pos() Pos   { return n.At }
func (n *DoUntilStmt) Pos() Pos { return n.At }
func (n *ForStmt) Pos() Pos     { return n.At }
func (n *FuncDef) Pos() Pos     { return n.At }
func (n *CallStmt) Pos() Pos    { return n.At }

func (n *AssignStmt) stmtNode()  {}
func (n *FillStmt) stmtNode()    {}
func (n *IncStmt) stmtNode()     {}
func (n *DecStmt) stmtNode()     {}
func (n *DisplayStmt) stmtNode() {}
func (n *IfStmt) stmtNode()      {}
func (n *WhileStmt) stmtNode()   {}
func (n *DoUntilStmt) stmtNode() {}
func (n *ForStmt) stmtNode()     {}
func (n *FuncDef) stmtNode()     {}
func (n *CallStmt) stmtNode()    {}
