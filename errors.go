// errors.go: error taxonomy and caret-snippet rendering.
//
// The three pipeline stages each surface their own error type:
//
//   - *LexError     — strictly invalid character, unterminated string.
//   - *ParseError   — grammar violation with expected/found context. The
//     Incomplete flag marks constructs truncated at EOF in interactive
//     parsing, so a REPL can keep prompting instead of reporting an error.
//   - *RuntimeError — evaluation failure with a closed Kind enum.
//
// All positions are 1-based (line, rune column). WrapErrorWithSource turns a
// typed error into a multi-line snippet with a caret under the offending
// column:
//
//	PARSE ERROR at 3:5: expected ならば, found を表示する
//
//	   2 | もし x ＞ 10
//	   3 |     を表示する
//	     |     ^
//
// Anything that is not one of the three typed errors is returned unchanged.
package dncl

import (
	"errors"
	"fmt"
	"strings"
)

// LexError reports a scanning failure at a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEX ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError reports a grammar violation. Expected describes the construct
// the parser was looking for; Found is the token it saw instead.
type ParseError struct {
	Line       int
	Col        int
	Expected   string
	Found      string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: expected %s, found %s", e.Line, e.Col, e.Expected, e.Found)
}

// IsIncomplete reports whether err is a ParseError caused by input that was
// cut off at EOF (an unclosed block or unfinished statement). The REPL uses
// this to read continuation lines.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

// RuntimeErrorKind classifies evaluation failures.
type RuntimeErrorKind int

const (
	ErrUndefinedRef RuntimeErrorKind = iota // undefined variable or function
	ErrTypeMismatch                         // operator applied to incompatible values
	ErrDivideByZero                         // ÷, ／ or ％ with zero divisor
	ErrBadIndex                             // array index invalid or out of range
	ErrArity                                // call with wrong argument count
	ErrBadStep                              // counted loop with zero step
	ErrCallDepth                            // function call nesting limit exceeded
	ErrBadArgument                          // builtin argument invalid
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case ErrUndefinedRef:
		return "undefined reference"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrDivideByZero:
		return "division by zero"
	case ErrBadIndex:
		return "bad index"
	case ErrArity:
		return "arity mismatch"
	case ErrBadStep:
		return "bad loop step"
	case ErrCallDepth:
		return "call depth exceeded"
	case ErrBadArgument:
		return "bad argument"
	default:
		return "runtime error"
	}
}

// RuntimeError aborts the current top-level statement. In a REPL session the
// environment accumulated so far is preserved and the session continues.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Msg)
}

// WrapErrorWithSource returns err augmented with a caret-annotated snippet of
// src. Lex, parse and runtime errors are recognized; other errors are
// returned unchanged. Out-of-range positions are clamped so rendering never
// fails on short or empty sources.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		msg := fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", e.Line, e.Col, msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", e.Line, e.Col, fmt.Sprintf("%s: %s", e.Kind, e.Msg)))
	default:
		return err
	}
}

// snippet renders a header, up to one line of context either side, and a
// caret under the 1-based rune column.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}
	runes := []rune(lines[line-1])
	if col > len(runes)+1 {
		col = len(runes) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
