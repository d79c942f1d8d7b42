// lexer_test.go
package dncl

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return ts
}

// typesWithoutLayout drops NEWLINE and the trailing EOF so tests can state
// just the payload tokens.
func typesWithoutLayout(tokens []Token) []TokenType {
	var out []TokenType
	for _, tok := range tokens {
		if tok.Type == NEWLINE || tok.Type == EOF {
			continue
		}
		out = append(out, tok.Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutLayout(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_AssignmentFullWidth(t *testing.T) {
	got := wantTypes(t, "x ← １２ ＋ ３", []TokenType{IDENT, ASSIGN, NUMBER, PLUS, NUMBER})
	if got[2].Literal.(int64) != 12 || got[4].Literal.(int64) != 3 {
		t.Fatalf("full-width digits not folded: %v, %v", got[2].Literal, got[4].Literal)
	}
}

func Test_Lexer_AssignmentASCII(t *testing.T) {
	wantTypes(t, "x ← 12 + 3", []TokenType{IDENT, ASSIGN, NUMBER, PLUS, NUMBER})
}

func Test_Lexer_RealNumber(t *testing.T) {
	got := wantTypes(t, "pi ← 3.14", []TokenType{IDENT, ASSIGN, NUMBER})
	if got[2].Literal.(float64) != 3.14 {
		t.Fatalf("want 3.14, got %v", got[2].Literal)
	}
}

func Test_Lexer_LongestMatch_Display(t *testing.T) {
	// を表示する must win over を even with no space before it.
	wantTypes(t, "kosu を表示する", []TokenType{IDENT, DISPLAY})
	wantTypes(t, "kosuを表示する", []TokenType{IDENT, DISPLAY})
}

func Test_Lexer_LongestMatch_Define(t *testing.T) {
	// と定義する must win over と.
	wantTypes(t, "と定義する", []TokenType{DEFINE})
	wantTypes(t, "x と y を表示する", []TokenType{IDENT, CONCAT, IDENT, DISPLAY})
}

func Test_Lexer_LongestMatch_Increase(t *testing.T) {
	// 増やしながら must win over 増やす.
	wantTypes(t, "増やしながら", []TokenType{INCREASING})
	wantTypes(t, "x を 1 増やす", []TokenType{IDENT, WO, NUMBER, INCREASE})
}

func Test_Lexer_IfHeader(t *testing.T) {
	wantTypes(t, "もし x ＞ 10 ならば", []TokenType{IF, IDENT, GT, NUMBER, THEN})
}

func Test_Lexer_CountedLoopHeader(t *testing.T) {
	wantTypes(t, "i を 1 から 10 まで 2 ずつ増やしながら，",
		[]TokenType{IDENT, WO, NUMBER, FROM, NUMBER, TO, NUMBER, BY, INCREASING, COMMA})
}

func Test_Lexer_InputMarker(t *testing.T) {
	wantTypes(t, "x ← 【外部からの入力】", []TokenType{IDENT, ASSIGN, INPUT})
}

func Test_Lexer_Strings(t *testing.T) {
	got := wantTypes(t, "「こんにちは」 と \"world\" を表示する",
		[]TokenType{STRING, CONCAT, STRING, DISPLAY})
	if got[0].Literal.(string) != "こんにちは" {
		t.Fatalf("corner-bracket string literal: %q", got[0].Literal)
	}
	if got[2].Literal.(string) != "world" {
		t.Fatalf("double-quote string literal: %q", got[2].Literal)
	}
}

func Test_Lexer_UnterminatedString(t *testing.T) {
	_, err := Tokenize("x ← 「abc")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("want *LexError, got %v", err)
	}
}

func Test_Lexer_Comments(t *testing.T) {
	src := "# 説明\nx ← 1  # 代入\n"
	wantTypes(t, src, []TokenType{IDENT, ASSIGN, NUMBER})
}

func Test_Lexer_OperatorSpellings(t *testing.T) {
	wantTypes(t, "a ≠ b", []TokenType{IDENT, NEQ, IDENT})
	wantTypes(t, "a != b", []TokenType{IDENT, NEQ, IDENT})
	wantTypes(t, "a ≧ b", []TokenType{IDENT, GE, IDENT})
	wantTypes(t, "a >= b", []TokenType{IDENT, GE, IDENT})
	wantTypes(t, "a ≦ b", []TokenType{IDENT, LE, IDENT})
	wantTypes(t, "a <= b", []TokenType{IDENT, LE, IDENT})
	wantTypes(t, "a ＝ b", []TokenType{IDENT, EQ, IDENT})
	wantTypes(t, "a == b", []TokenType{IDENT, EQ, IDENT})
}

func Test_Lexer_DivisionOperators(t *testing.T) {
	// ／ is real division, ÷ is integer division.
	wantTypes(t, "7 ／ 2", []TokenType{NUMBER, DIV, NUMBER})
	wantTypes(t, "7 / 2", []TokenType{NUMBER, DIV, NUMBER})
	wantTypes(t, "7 ÷ 2", []TokenType{NUMBER, INTDIV, NUMBER})
	wantTypes(t, "7 ％ 2", []TokenType{NUMBER, MOD, NUMBER})
	wantTypes(t, "7 × 2", []TokenType{NUMBER, MULT, NUMBER})
}

func Test_Lexer_Newlines(t *testing.T) {
	got := toks(t, "x ← 1\ny ← 2")
	want := []TokenType{IDENT, ASSIGN, NUMBER, NEWLINE, IDENT, ASSIGN, NUMBER, EOF}
	var gotTypes []TokenType
	for _, tok := range got {
		gotTypes = append(gotTypes, tok.Type)
	}
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("want %v, got %v", want, gotTypes)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	got := toks(t, "x ← 1\ny ← 2")
	last := got[len(got)-2] // NUMBER 2
	if last.Line != 2 || last.Col != 5 {
		t.Fatalf("want 2:5, got %d:%d", last.Line, last.Col)
	}
}

func Test_Lexer_ArrayBrackets(t *testing.T) {
	wantTypes(t, "A[1, 2] ← 5", []TokenType{IDENT, LBRACKET, NUMBER, COMMA, NUMBER, RBRACKET, ASSIGN, NUMBER})
	wantTypes(t, "A ← {1, 2, 3}", []TokenType{IDENT, ASSIGN, LBRACE, NUMBER, COMMA, NUMBER, COMMA, NUMBER, RBRACE})
}

func Test_Lexer_FullWidthComma(t *testing.T) {
	wantTypes(t, "f(a，b)", []TokenType{IDENT, LPAREN, IDENT, COMMA, IDENT, RPAREN})
}

func Test_Lexer_UnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("x ← @")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("want *LexError, got %v", err)
	}
	if le.Line != 1 {
		t.Fatalf("want line 1, got %d", le.Line)
	}
}
