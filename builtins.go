// builtins.go — the fixed built-in function table.
//
// Builtin names are resolved at parse time, before user-defined functions, so
// a 関数 definition cannot shadow them. Each builtin validates its own
// argument count and types.
package dncl

import (
	"math"
	"strconv"
	"strings"
)

// builtinArity maps builtin name to (min, max) argument count. 乱数 accepts
// one bound (0..n) or two (m..n).
var builtinArity = map[string][2]int{
	"乱数":  {1, 2},
	"奇数":  {1, 1},
	"二乗":  {1, 1},
	"べき乗": {2, 2},
	"input": {0, 0},
}

// isBuiltinName reports whether name is one of the fixed builtins.
func isBuiltinName(name string) bool {
	_, ok := builtinArity[name]
	return ok
}

func (ip *Interpreter) callBuiltin(node *BuiltinCall) Value {
	bounds := builtinArity[node.Name]
	if len(node.Args) < bounds[0] || len(node.Args) > bounds[1] {
		throw(ErrArity, node.At, "%s expects %d to %d argument(s), got %d",
			node.Name, bounds[0], bounds[1], len(node.Args))
	}

	args := make([]Value, len(node.Args))
	for i, a := range node.Args {
		args[i] = ip.eval(a)
	}

	switch node.Name {
	case "乱数":
		return ip.builtinRand(node, args)
	case "奇数":
		n := ip.builtinInt(node, args[0])
		return Bool(floorMod(n, 2) == 1)
	case "二乗":
		v := ip.wantNumeric(args[0], node.At)
		if v.Tag == VTInt {
			n := v.Data.(int64)
			return Int(n * n)
		}
		f := v.Data.(float64)
		return Num(f * f)
	case "べき乗":
		return ip.builtinPow(node, args[0], args[1])
	case "input":
		return ip.builtinInput(node)
	}
	throw(ErrUndefinedRef, node.At, "builtin %s is not defined", node.Name)
	return Undefined
}

// builtinRand returns a uniform integer in [0, n] for one argument and
// [m, n] for two. An empty range is a bad argument.
func (ip *Interpreter) builtinRand(node *BuiltinCall, args []Value) Value {
	var lo, hi int64
	if len(args) == 1 {
		lo, hi = 0, ip.builtinInt(node, args[0])
	} else {
		lo, hi = ip.builtinInt(node, args[0]), ip.builtinInt(node, args[1])
	}
	if hi < lo {
		throw(ErrBadArgument, node.At, "乱数 range [%d, %d] is empty", lo, hi)
	}
	return Int(lo + ip.rng.Int63n(hi-lo+1))
}

// builtinPow stays in integer arithmetic for an integer base with a
// non-negative integer exponent, and falls back to math.Pow otherwise.
func (ip *Interpreter) builtinPow(node *BuiltinCall, base, exp Value) Value {
	ip.wantNumeric(base, node.At)
	ip.wantNumeric(exp, node.At)
	if base.Tag == VTInt && exp.Tag == VTInt && exp.Data.(int64) >= 0 {
		result := int64(1)
		b := base.Data.(int64)
		for i := int64(0); i < exp.Data.(int64); i++ {
			result *= b
		}
		return Int(result)
	}
	return Num(math.Pow(asFloat(base), asFloat(exp)))
}

// builtinInput reads one line through the injected Input hook and converts
// it to the narrowest matching value: integer, then real, then string.
func (ip *Interpreter) builtinInput(node *BuiltinCall) Value {
	if ip.Input == nil {
		throw(ErrBadArgument, node.At, "no input source is connected")
	}
	line, err := ip.Input()
	if err != nil {
		throw(ErrBadArgument, node.At, "reading input: %v", err)
	}
	return parseScalar(line)
}

// parseScalar converts an input line to the narrowest matching value.
// Full-width digits and signs are folded so 「１２」 reads as the integer 12.
func parseScalar(line string) Value {
	var b strings.Builder
	for _, r := range strings.TrimSpace(line) {
		b.WriteRune(foldRune(r))
	}
	s := b.String()
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Num(f)
	}
	return Str(strings.TrimSpace(line))
}

func (ip *Interpreter) builtinInt(node *BuiltinCall, v Value) int64 {
	if !isNumeric(v) {
		throw(ErrBadArgument, node.At, "%s expects a number, got %s", node.Name, v)
	}
	return asInt(v)
}
