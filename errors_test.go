// errors_test.go
package dncl

import (
	"fmt"
	"strings"
	"testing"
)

func Test_Errors_ParseErrorMessage(t *testing.T) {
	_, err := Parse("もし x ＞ 10\nを実行する")
	if err == nil {
		t.Fatalf("want error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "PARSE ERROR") || !strings.Contains(msg, "ならば") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func Test_Errors_RuntimeErrorMessage(t *testing.T) {
	ip := NewInterpreter()
	_, err := ip.Run("1 ÷ 0 を表示する")
	if err == nil {
		t.Fatalf("want error")
	}
	if !strings.Contains(err.Error(), "RUNTIME ERROR") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func Test_Errors_SnippetCaret(t *testing.T) {
	src := "x ← 1\nもし x ＞ 10\nを実行する"
	_, err := Parse(src)
	wrapped := WrapErrorWithSource(err, src)
	out := wrapped.Error()
	// the error token is を実行する on line 3; line 2 is shown as context
	if !strings.Contains(out, "   3 | を実行する") {
		t.Fatalf("snippet missing error line:\n%s", out)
	}
	if !strings.Contains(out, "   2 | もし x ＞ 10") {
		t.Fatalf("snippet missing context line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("snippet missing caret:\n%s", out)
	}
}

func Test_Errors_SnippetClampsPosition(t *testing.T) {
	e := &RuntimeError{Kind: ErrTypeMismatch, Line: 99, Col: 99, Msg: "x"}
	out := WrapErrorWithSource(e, "short").Error()
	if !strings.Contains(out, "short") {
		t.Fatalf("clamped snippet must still render:\n%s", out)
	}
}

func Test_Errors_WrapLeavesForeignErrorsAlone(t *testing.T) {
	foreign := fmt.Errorf("disk on fire")
	if WrapErrorWithSource(foreign, "x") != foreign {
		t.Fatalf("foreign errors must pass through unchanged")
	}

	lex := &LexError{Line: 1, Col: 1, Msg: "m"}
	if WrapErrorWithSource(lex, "x") == error(lex) {
		t.Fatalf("lex errors must be wrapped")
	}
}
