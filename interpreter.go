// interpreter.go — tree-walking evaluator for DNCL programs.
//
// OVERVIEW
// --------
// The Interpreter owns the runtime state of one program or REPL session:
//
//   - Global      — the single global environment frame. Function calls get
//     one fresh local frame whose parent is Global (never the caller's
//     frame); DNCL has no closures, so a body sees only its parameters,
//     locals, and globals.
//   - the function table — name → *FuncDef, populated by executing 関数
//     definitions; redefinition overwrites.
//   - the seedable random source backing 乱数.
//
// Entry points:
//
//   - Run(src)        — lex, parse, execute persistently in Global. Feeding
//     successive statements to the same Interpreter gives REPL continuity.
//   - Execute(prog)   — execute an already-parsed program.
//
// Both return the lines printed by 表示 statements in execution order; the
// core never writes to the console itself. Failures surface as *RuntimeError
// (evaluation) or the lexer/parser error types. A runtime error aborts the
// current Run/Execute but leaves the environment accumulated so far intact,
// so an interactive session can continue.
//
// Values are a small tagged union (Undefined, Bool, Int, Num, Str, Array).
// Arrays are held by pointer so that element assignment through any binding
// mutates the one shared object, and they grow lazily: assigning past the
// current length extends the array, filling the gap with Undefined.
package dncl

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTUndef ValueTag = iota // no payload
	VTBool                  // bool
	VTInt                   // int64
	VTNum                   // float64
	VTStr                   // string
	VTArr                   // *ArrayObject
)

// Value is the universal runtime carrier. Tag determines which Go type Data
// holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Undefined is the singleton undefined Value.
var Undefined = Value{Tag: VTUndef}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value   { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ArrayObject backs a DNCL array. Elements are Values; a 2-D array is an
// array whose elements are themselves arrays.
type ArrayObject struct {
	Elems []Value
}

// Arr wraps a fresh array object around the given elements.
func Arr(elems []Value) Value { return Value{Tag: VTArr, Data: &ArrayObject{Elems: elems}} }

// String renders a debug representation; FormatValue (printer.go) renders
// the user-facing form used by 表示.
func (v Value) String() string {
	switch v.Tag {
	case VTUndef:
		return "<undefined>"
	case VTBool:
		return fmt.Sprintf("%v", v.Data.(bool))
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return fmt.Sprintf("%q", v.Data.(string))
	case VTArr:
		return fmt.Sprintf("<array len=%d>", len(v.Data.(*ArrayObject).Elems))
	default:
		return "<unknown>"
	}
}

// Env is an environment frame with a parent link. Lookups walk parent-ward.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name in this frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	if v, ok := e.table[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, false
}

// Update rebinds the nearest existing binding of name, or defines it in this
// frame when no binding exists anywhere.
func (e *Env) Update(name string, v Value) {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return
		}
	}
	e.table[name] = v
}

// DefaultMaxDepth bounds function-call nesting so runaway recursion in DNCL
// code surfaces as a RuntimeError instead of exhausting the host stack.
const DefaultMaxDepth = 256

// Interpreter executes DNCL programs against a persistent environment.
type Interpreter struct {
	Global *Env

	// Input supplies values for 【外部からの入力】. The CLI wires it to
	// stdin; tests inject canned values. When nil, using the construct is a
	// runtime error.
	Input func() (string, error)

	// MaxDepth is the function-call nesting limit.
	MaxDepth int

	funcs map[string]*FuncDef
	rng   *rand.Rand
	env   *Env // current frame
	depth int
	out   []string
}

// NewInterpreter creates a ready-to-use interpreter with an empty global
// environment and a time-seeded random source (use Seed for determinism).
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Global:   NewEnv(nil),
		MaxDepth: DefaultMaxDepth,
		funcs:    map[string]*FuncDef{},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	ip.env = ip.Global
	return ip
}

// Seed fixes the random source for 乱数, making runs deterministic.
func (ip *Interpreter) Seed(n int64) { ip.rng = rand.New(rand.NewSource(n)) }

// Run lexes, parses and executes src in the persistent global environment
// and returns the lines printed during execution.
func (ip *Interpreter) Run(src string) ([]string, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return ip.Execute(prog)
}

// Execute runs an already-parsed program. On a runtime error the lines
// printed before the failure are returned alongside the error.
func (ip *Interpreter) Execute(prog *Program) (lines []string, err error) {
	ip.out = nil
	defer func() {
		lines = ip.out
		if r := recover(); r != nil {
			re, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			err = re
		}
	}()
	for _, s := range prog.Stmts {
		ip.exec(s)
	}
	return ip.out, nil
}

func throw(kind RuntimeErrorKind, p Pos, format string, args ...interface{}) {
	panic(&RuntimeError{Kind: kind, Line: p.Line, Col: p.Col, Msg: fmt.Sprintf(format, args...)})
}

// ──────────────────────────────── statements ────────────────────────────────

func (ip *Interpreter) exec(s Stmt) {
	switch node := s.(type) {
	case *AssignStmt:
		v := ip.eval(node.Value)
		if node.Indices == nil {
			ip.env.Define(node.Target, v)
		} else {
			ip.assignIndexed(node, v)
		}

	case *FillStmt:
		v := ip.eval(node.Value)
		arr := ip.lookupArray(node.Name, node.At)
		fillArray(arr, v)

	case *IncStmt:
		cur := ip.lookup(node.Name, node.At)
		ip.env.Update(node.Name, ip.addNumeric(cur, ip.eval(node.Amount), node.At))

	case *DecStmt:
		cur := ip.lookup(node.Name, node.At)
		amount := ip.eval(node.Amount)
		ip.env.Update(node.Name, ip.addNumeric(cur, ip.negate(amount, node.At), node.At))

	case *DisplayStmt:
		var b strings.Builder
		for _, e := range node.Exprs {
			b.WriteString(FormatValue(ip.eval(e)))
		}
		ip.out = append(ip.out, b.String())

	case *IfStmt:
		if ip.truthy(ip.eval(node.Cond)) {
			ip.execBlock(node.Then)
			return
		}
		for _, clause := range node.Elifs {
			if ip.truthy(ip.eval(clause.Cond)) {
				ip.execBlock(clause.Body)
				return
			}
		}
		ip.execBlock(node.Else)

	case *WhileStmt:
		for ip.truthy(ip.eval(node.Cond)) {
			ip.execBlock(node.Body)
		}

	case *DoUntilStmt:
		for {
			ip.execBlock(node.Body)
			if ip.truthy(ip.eval(node.Cond)) {
				break
			}
		}

	case *ForStmt:
		ip.execFor(node)

	case *FuncDef:
		ip.funcs[node.Name] = node

	case *CallStmt:
		ip.eval(node.Call) // result discarded

	default:
		throw(ErrTypeMismatch, s.Pos(), "unknown statement %T", s)
	}
}

func (ip *Interpreter) execBlock(body []Stmt) {
	for _, s := range body {
		ip.exec(s)
	}
}

// execFor runs the counted loop: var starts at from and is stepped by ±step
// while (step>0 ∧ var≤to) ∨ (step<0 ∧ var≥to) holds. A zero step would never
// terminate and is rejected.
func (ip *Interpreter) execFor(node *ForStmt) {
	from := ip.wantNumeric(ip.eval(node.From), node.From.Pos())
	to := ip.wantNumeric(ip.eval(node.To), node.To.Pos())
	step := ip.wantNumeric(ip.eval(node.Step), node.Step.Pos())
	if node.Down {
		step = ip.negate(step, node.Step.Pos())
	}
	if asFloat(step) == 0 {
		throw(ErrBadStep, node.Step.Pos(), "loop step must not be zero")
	}

	ip.env.Define(node.Var, from)
	for {
		cur := ip.wantNumeric(ip.lookup(node.Var, node.At), node.At)
		if asFloat(step) > 0 {
			if asFloat(cur) > asFloat(to) {
				break
			}
		} else if asFloat(cur) < asFloat(to) {
			break
		}
		ip.execBlock(node.Body)
		cur = ip.wantNumeric(ip.lookup(node.Var, node.At), node.At)
		ip.env.Define(node.Var, ip.addNumeric(cur, step, node.At))
	}
}

// ─────────────────────────────── expressions ────────────────────────────────

func (ip *Interpreter) eval(e Expr) Value {
	switch node := e.(type) {
	case *IntLit:
		return Int(node.Value)
	case *NumLit:
		return Num(node.Value)
	case *StrLit:
		return Str(node.Value)

	case *VarRef:
		return ip.lookup(node.Name, node.At)

	case *ArrayRef:
		return ip.readIndexed(node)

	case *ArrayLit:
		elems := make([]Value, len(node.Elems))
		for i, el := range node.Elems {
			elems[i] = ip.eval(el)
		}
		return Arr(elems)

	case *BinaryOp:
		return ip.evalBinary(node)

	case *UnaryOp:
		switch node.Op {
		case "-":
			return ip.negate(ip.eval(node.Operand), node.At)
		case "でない":
			return Bool(!ip.truthy(ip.eval(node.Operand)))
		}
		throw(ErrTypeMismatch, node.At, "unknown unary operator %s", node.Op)

	case *LogicalOp:
		left := ip.truthy(ip.eval(node.Left))
		// short circuit: the right operand is only evaluated when needed
		if node.Op == "かつ" {
			if !left {
				return Bool(false)
			}
			return Bool(ip.truthy(ip.eval(node.Right)))
		}
		if left {
			return Bool(true)
		}
		return Bool(ip.truthy(ip.eval(node.Right)))

	case *CallExpr:
		return ip.callFunction(node)

	case *BuiltinCall:
		return ip.callBuiltin(node)
	}
	throw(ErrTypeMismatch, e.Pos(), "unknown expression %T", e)
	return Undefined
}

func (ip *Interpreter) lookup(name string, p Pos) Value {
	v, ok := ip.env.Get(name)
	if !ok {
		throw(ErrUndefinedRef, p, "variable %s is not defined", name)
	}
	return v
}

func (ip *Interpreter) lookupArray(name string, p Pos) *ArrayObject {
	v := ip.lookup(name, p)
	if v.Tag != VTArr {
		throw(ErrTypeMismatch, p, "%s is not an array", name)
	}
	return v.Data.(*ArrayObject)
}

func fillArray(arr *ArrayObject, v Value) {
	for i, el := range arr.Elems {
		if el.Tag == VTArr {
			fillArray(el.Data.(*ArrayObject), v)
		} else {
			arr.Elems[i] = v
		}
	}
}

// readIndexed validates every index at access time: each must be numeric and
// within the current bounds. Reading never grows an array.
func (ip *Interpreter) readIndexed(node *ArrayRef) Value {
	cur := ip.lookup(node.Name, node.At)
	for _, idxExpr := range node.Indices {
		if cur.Tag != VTArr {
			throw(ErrTypeMismatch, node.At, "%s is not an array", node.Name)
		}
		arr := cur.Data.(*ArrayObject)
		i := ip.indexOf(idxExpr)
		if i < 0 || int(i) >= len(arr.Elems) {
			throw(ErrBadIndex, idxExpr.Pos(), "index %d out of range for %s (length %d)", i, node.Name, len(arr.Elems))
		}
		cur = arr.Elems[i]
	}
	return cur
}

// assignIndexed writes through an ArrayRef target. Assigning past the
// current bounds grows the array, exposing Undefined in the gap; assigning
// through an Undefined slot of a 2-D target materializes the inner array.
func (ip *Interpreter) assignIndexed(node *AssignStmt, v Value) {
	target, ok := ip.env.Get(node.Target)
	if !ok || target.Tag == VTUndef {
		target = Arr(nil)
		ip.env.Update(node.Target, target)
	}
	if target.Tag != VTArr {
		throw(ErrTypeMismatch, node.At, "%s is not an array", node.Target)
	}
	arr := target.Data.(*ArrayObject)

	for d := 0; d < len(node.Indices)-1; d++ {
		i := ip.indexOf(node.Indices[d])
		if i < 0 {
			throw(ErrBadIndex, node.Indices[d].Pos(), "negative index %d", i)
		}
		growTo(arr, int(i)+1)
		elem := arr.Elems[i]
		switch elem.Tag {
		case VTArr:
			arr = elem.Data.(*ArrayObject)
		case VTUndef:
			inner := Arr(nil)
			arr.Elems[i] = inner
			arr = inner.Data.(*ArrayObject)
		default:
			throw(ErrTypeMismatch, node.Indices[d].Pos(), "element %d of %s is not an array", i, node.Target)
		}
	}

	last := node.Indices[len(node.Indices)-1]
	i := ip.indexOf(last)
	if i < 0 {
		throw(ErrBadIndex, last.Pos(), "negative index %d", i)
	}
	growTo(arr, int(i)+1)
	arr.Elems[i] = v
}

func growTo(arr *ArrayObject, n int) {
	for len(arr.Elems) < n {
		arr.Elems = append(arr.Elems, Undefined)
	}
}

func (ip *Interpreter) indexOf(e Expr) int64 {
	v := ip.eval(e)
	switch v.Tag {
	case VTInt:
		return v.Data.(int64)
	case VTNum:
		return int64(v.Data.(float64))
	default:
		throw(ErrBadIndex, e.Pos(), "array index must be a number, got %s", v)
		return 0
	}
}

// ──────────────────────────────── operators ─────────────────────────────────

func isNumeric(v Value) bool { return v.Tag == VTInt || v.Tag == VTNum }

func asFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

// asInt truncates toward zero, matching the integer coercion of ÷ and ％.
func asInt(v Value) int64 {
	if v.Tag == VTInt {
		return v.Data.(int64)
	}
	return int64(v.Data.(float64))
}

func (ip *Interpreter) wantNumeric(v Value, p Pos) Value {
	if !isNumeric(v) {
		throw(ErrTypeMismatch, p, "expected a number, got %s", v)
	}
	return v
}

// addNumeric adds two numbers, keeping Int when both operands are Int.
func (ip *Interpreter) addNumeric(l, r Value, p Pos) Value {
	ip.wantNumeric(l, p)
	ip.wantNumeric(r, p)
	if l.Tag == VTInt && r.Tag == VTInt {
		return Int(l.Data.(int64) + r.Data.(int64))
	}
	return Num(asFloat(l) + asFloat(r))
}

func (ip *Interpreter) negate(v Value, p Pos) Value {
	switch v.Tag {
	case VTInt:
		return Int(-v.Data.(int64))
	case VTNum:
		return Num(-v.Data.(float64))
	default:
		throw(ErrTypeMismatch, p, "cannot negate %s", v)
		return Undefined
	}
}

// floorDiv and floorMod implement floored division, so negative operands
// behave like the reference semantics of ÷ and ％.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func (ip *Interpreter) evalBinary(node *BinaryOp) Value {
	l := ip.eval(node.Left)
	r := ip.eval(node.Right)

	switch node.Op {
	case "+":
		if l.Tag == VTStr && r.Tag == VTStr {
			return Str(l.Data.(string) + r.Data.(string))
		}
		return ip.addNumeric(l, r, node.At)

	case "-":
		return ip.addNumeric(l, ip.negate(ip.wantNumeric(r, node.At), node.At), node.At)

	case "*":
		ip.wantNumeric(l, node.At)
		ip.wantNumeric(r, node.At)
		if l.Tag == VTInt && r.Tag == VTInt {
			return Int(l.Data.(int64) * r.Data.(int64))
		}
		return Num(asFloat(l) * asFloat(r))

	case "/":
		ip.wantNumeric(l, node.At)
		ip.wantNumeric(r, node.At)
		if asFloat(r) == 0 {
			throw(ErrDivideByZero, node.At, "division by zero")
		}
		return Num(asFloat(l) / asFloat(r))

	case "//":
		ip.wantNumeric(l, node.At)
		ip.wantNumeric(r, node.At)
		if asInt(r) == 0 {
			throw(ErrDivideByZero, node.At, "integer division by zero")
		}
		return Int(floorDiv(asInt(l), asInt(r)))

	case "%":
		ip.wantNumeric(l, node.At)
		ip.wantNumeric(r, node.At)
		if asInt(r) == 0 {
			throw(ErrDivideByZero, node.At, "modulo by zero")
		}
		return Int(floorMod(asInt(l), asInt(r)))

	case "=":
		return Bool(valueEquals(l, r))
	case "!=":
		return Bool(!valueEquals(l, r))

	case ">", ">=", "<", "<=":
		return Bool(ip.compare(node.Op, l, r, node.At))
	}
	throw(ErrTypeMismatch, node.At, "unknown operator %s", node.Op)
	return Undefined
}

func valueEquals(l, r Value) bool {
	if isNumeric(l) && isNumeric(r) {
		if l.Tag == VTInt && r.Tag == VTInt {
			return l.Data.(int64) == r.Data.(int64)
		}
		return asFloat(l) == asFloat(r)
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case VTUndef:
		return true
	case VTBool:
		return l.Data.(bool) == r.Data.(bool)
	case VTStr:
		return l.Data.(string) == r.Data.(string)
	case VTArr:
		la, ra := l.Data.(*ArrayObject), r.Data.(*ArrayObject)
		if len(la.Elems) != len(ra.Elems) {
			return false
		}
		for i := range la.Elems {
			if !valueEquals(la.Elems[i], ra.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (ip *Interpreter) compare(op string, l, r Value, p Pos) bool {
	if l.Tag == VTStr && r.Tag == VTStr {
		ls, rs := l.Data.(string), r.Data.(string)
		switch op {
		case ">":
			return ls > rs
		case ">=":
			return ls >= rs
		case "<":
			return ls < rs
		case "<=":
			return ls <= rs
		}
	}
	ip.wantNumeric(l, p)
	ip.wantNumeric(r, p)
	lf, rf := asFloat(l), asFloat(r)
	switch op {
	case ">":
		return lf > rf
	case ">=":
		return lf >= rf
	case "<":
		return lf < rf
	default:
		return lf <= rf
	}
}

func (ip *Interpreter) truthy(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return len(v.Data.(string)) > 0
	case VTArr:
		return len(v.Data.(*ArrayObject).Elems) > 0
	default:
		return false
	}
}

// ───────────────────────────── function calls ───────────────────────────────

// callFunction invokes a user-defined function: arguments are evaluated in
// the caller's frame and bound positionally in a fresh frame whose parent is
// Global. DNCL has no return statement; the call result is Undefined and
// functions communicate through 表示 or global/array side effects.
func (ip *Interpreter) callFunction(node *CallExpr) Value {
	fn, ok := ip.funcs[node.Name]
	if !ok {
		throw(ErrUndefinedRef, node.At, "function %s is not defined", node.Name)
	}
	if len(node.Args) != len(fn.Params) {
		throw(ErrArity, node.At, "%s expects %d argument(s), got %d", node.Name, len(fn.Params), len(node.Args))
	}

	args := make([]Value, len(node.Args))
	for i, a := range node.Args {
		args[i] = ip.eval(a)
	}

	ip.depth++
	if ip.depth > ip.MaxDepth {
		ip.depth--
		throw(ErrCallDepth, node.At, "call depth limit (%d) exceeded", ip.MaxDepth)
	}

	frame := NewEnv(ip.Global)
	for i, p := range fn.Params {
		frame.Define(p, args[i])
	}

	saved := ip.env
	ip.env = frame
	defer func() {
		ip.env = saved
		ip.depth--
	}()

	ip.execBlock(fn.Body)
	return Undefined
}
