// printer_test.go
package dncl

import (
	"strings"
	"testing"
)

func Test_Printer_FormatValue(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{Undefined, "undefined"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(-42), "-42"},
		{Num(3.5), "3.5"},
		{Num(3), "3"},
		{Str("hello"), "hello"},
		{Arr([]Value{Int(1), Str("a"), Undefined}), "{1, a, undefined}"},
		{Arr(nil), "{}"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Errorf("FormatValue(%v): want %q, got %q", c.in, c.want, got)
		}
	}
}

func Test_Printer_NestedArray(t *testing.T) {
	v := Arr([]Value{Int(1), Arr([]Value{Int(2), Int(3)})})
	if got := FormatValue(v); got != "{1, {2, 3}}" {
		t.Fatalf("got %q", got)
	}
}

func Test_Printer_TokensString(t *testing.T) {
	ts := toks(t, "x ← 1")
	out := TokensString(ts)
	if !strings.Contains(out, "IDENT") || !strings.Contains(out, "NUMBER") {
		t.Fatalf("token dump incomplete:\n%s", out)
	}
}

func Test_Printer_FormatProgram(t *testing.T) {
	prog := parseProg(t, `
もし x ＞ 1 ならば
  x を表示する
を実行する
`)
	out := FormatProgram(prog)
	if !strings.Contains(out, "if (x > 1)") {
		t.Fatalf("missing if header:\n%s", out)
	}
	if !strings.Contains(out, "  display x") {
		t.Fatalf("body must be indented:\n%s", out)
	}
}

func Test_Printer_FormatProgramLoop(t *testing.T) {
	prog := parseProg(t, `
i を 1 から 9 まで 2 ずつ増やしながら，
  i を表示する
を繰り返す
`)
	out := FormatProgram(prog)
	if !strings.Contains(out, "for i from 1 to 9 by 2 (up)") {
		t.Fatalf("loop header:\n%s", out)
	}
}
