// lexer.go — rune scanner for DNCL source.
//
// OVERVIEW
// --------
// Converts raw source text into an ordered token sequence. DNCL is written in
// Japanese school-test notation, which makes two things unusual compared to a
// conventional scanner:
//
//   - Operators, digits and punctuation may be spelled in full-width
//     typography (＋ ％ １２３ （） ，). Every rune is folded to its canonical
//     narrow form via golang.org/x/text/width before classification, so
//     full-width and ASCII spellings produce identical token kinds. Runes
//     with no narrow counterpart (← × ÷ ≠ ≧ ≦) have their own table entries.
//
//   - Keywords are multi-character phrases (を表示する, そうでなくもし, …),
//     not reserved words. They are matched by exact text, longest phrase
//     first, and an identifier run ends wherever a keyword phrase begins, so
//     "kosuを表示する" lexes as IDENT(kosu) DISPLAY.
//
// Newlines are significant separators in the surface syntax and are preserved
// as NEWLINE tokens; '#' starts a comment running to end of line. String
// literals are delimited by 「…」 or "…" with no escape sequences.
package dncl

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota
	NEWLINE

	// Literals & identifiers
	NUMBER
	STRING
	IDENT

	// Keywords
	IF           // もし
	THEN         // ならば
	ELIF         // そうでなくもし
	ELSE         // そうでなければ
	EXECUTE      // を実行する
	AND_EXECUTE  // を実行し
	WHILE        // の間
	REPEAT       // を繰り返す
	DO_REPEAT    // 繰り返し
	UNTIL        // になるまで実行する
	WO           // を
	FROM         // から
	TO           // まで
	BY           // ずつ
	INCREASING   // 増やしながら
	DECREASING   // 減らしながら
	DISPLAY      // を表示する
	CONCAT       // と
	FUNCTION     // 関数
	DEFINE       // と定義する
	ALL_ELEMENTS // のすべての要素に
	ASSIGN_TO    // を代入する
	INCREASE     // 増やす
	DECREASE     // 減らす
	AND          // かつ
	OR           // または
	NOT          // でない
	INPUT        // 【外部からの入力】

	// Operators
	ASSIGN // ←
	PLUS
	MINUS
	MULT   // × or *
	DIV    // ／ or / (real division)
	INTDIV // ÷
	MOD    // ％ or %
	EQ     // ＝
	NEQ    // ≠ or !=
	GT     // ＞
	GE     // ≧ or >=
	LT     // ＜
	LE     // ≦ or <=

	// Delimiters
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
)

var tokenNames = map[TokenType]string{
	EOF: "EOF", NEWLINE: "NEWLINE",
	NUMBER: "NUMBER", STRING: "STRING", IDENT: "IDENT",
	IF: "もし", THEN: "ならば", ELIF: "そうでなくもし", ELSE: "そうでなければ",
	EXECUTE: "を実行する", AND_EXECUTE: "を実行し",
	WHILE: "の間", REPEAT: "を繰り返す", DO_REPEAT: "繰り返し", UNTIL: "になるまで実行する",
	WO: "を", FROM: "から", TO: "まで", BY: "ずつ",
	INCREASING: "増やしながら", DECREASING: "減らしながら",
	DISPLAY: "を表示する", CONCAT: "と", FUNCTION: "関数", DEFINE: "と定義する",
	ALL_ELEMENTS: "のすべての要素に", ASSIGN_TO: "を代入する",
	INCREASE: "増やす", DECREASE: "減らす",
	AND: "かつ", OR: "または", NOT: "でない", INPUT: "【外部からの入力】",
	ASSIGN: "←", PLUS: "＋", MINUS: "－", MULT: "×", DIV: "／", INTDIV: "÷", MOD: "％",
	EQ: "＝", NEQ: "≠", GT: "＞", GE: "≧", LT: "＜", LE: "≦",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	LBRACE: "{", RBRACE: "}", COMMA: "，",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw source slice
	Literal interface{} // int64 or float64 for NUMBER, string for STRING
	Line    int         // 1-based
	Col     int         // 1-based rune column
}

// keywords maps DNCL keyword phrases to token types. Matching is performed
// longest phrase first (see keywordList).
var keywords = map[string]TokenType{
	"もし":        IF,
	"ならば":       THEN,
	"そうでなくもし":   ELIF,
	"そうでなければ":   ELSE,
	"を実行する":     EXECUTE,
	"を実行し":      AND_EXECUTE,
	"の間":        WHILE,
	"を繰り返す":     REPEAT,
	"繰り返し":      DO_REPEAT,
	"になるまで実行する": UNTIL,
	"を":         WO,
	"から":        FROM,
	"まで":        TO,
	"ずつ":        BY,
	"増やしながら":    INCREASING,
	"減らしながら":    DECREASING,
	"を表示する":     DISPLAY,
	"と":         CONCAT,
	"関数":        FUNCTION,
	"と定義する":     DEFINE,
	"のすべての要素に":  ALL_ELEMENTS,
	"を代入する":     ASSIGN_TO,
	"増やす":       INCREASE,
	"減らす":       DECREASE,
	"かつ":        AND,
	"または":       OR,
	"でない":       NOT,
	"【外部からの入力】": INPUT,
}

// keywordList holds the keyword phrases sorted longest first, so that phrases
// sharing a prefix (を表示する vs を, と定義する vs と) resolve to the longest
// match.
var keywordList = func() []string {
	ks := make([]string, 0, len(keywords))
	for k := range keywords {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool {
		if len(ks[i]) != len(ks[j]) {
			return len(ks[i]) > len(ks[j])
		}
		return ks[i] < ks[j]
	})
	return ks
}()

// Lexer scans a DNCL source string into tokens.
type Lexer struct {
	src    string
	pos    int // byte offset
	line   int // 1-based
	col    int // 1-based rune column
	tokens []Token
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the entire source and returns its tokens (EOF included).
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// foldRune maps a full-width rune to its canonical narrow form (＋→+, １→1,
// （→(, ，→,). Runes without a narrow counterpart are returned unchanged.
func foldRune(r rune) rune {
	folded := width.Fold.String(string(r))
	fr, _ := utf8.DecodeRuneInString(folded)
	if fr == utf8.RuneError {
		return r
	}
	return fr
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

func (l *Lexer) add(tt TokenType, startPos int, lit interface{}, line, col int) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[startPos:l.pos],
		Literal: lit,
		Line:    line,
		Col:     col,
	})
}

// keywordAt returns the longest keyword phrase starting at byte offset pos.
func keywordAt(src string, pos int) (string, TokenType, bool) {
	rest := src[pos:]
	for _, kw := range keywordList {
		if strings.HasPrefix(rest, kw) {
			return kw, keywords[kw], true
		}
	}
	return "", 0, false
}

func isDigitRune(r rune) bool {
	f := foldRune(r)
	return f >= '0' && f <= '9'
}

// isIdentRune accepts identifier constituents: letters (Japanese included),
// digits and underscore.
func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (l *Lexer) scanNumber() error {
	startPos, line, col := l.pos, l.line, l.col
	var b strings.Builder
	for !l.atEnd() && isDigitRune(l.peek()) {
		b.WriteRune(foldRune(l.advance()))
	}
	// one optional decimal point followed by at least one digit
	if !l.atEnd() && foldRune(l.peek()) == '.' {
		save := *l
		l.advance()
		if !l.atEnd() && isDigitRune(l.peek()) {
			b.WriteByte('.')
			for !l.atEnd() && isDigitRune(l.peek()) {
				b.WriteRune(foldRune(l.advance()))
			}
		} else {
			*l = save
		}
	}
	text := b.String()
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.err("malformed number literal: " + text)
		}
		l.add(NUMBER, startPos, f, line, col)
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return l.err("malformed number literal: " + text)
	}
	l.add(NUMBER, startPos, n, line, col)
	return nil
}

// scanString consumes a string literal. The opening delimiter has not been
// consumed yet. DNCL strings have no escape sequences.
func (l *Lexer) scanString(close rune) error {
	startPos, line, col := l.pos, l.line, l.col
	l.advance() // opening delimiter
	var b strings.Builder
	for {
		if l.atEnd() {
			return &LexError{Line: line, Col: col, Msg: "unterminated string"}
		}
		r := l.advance()
		if r == close || (close == '"' && foldRune(r) == '"') {
			break
		}
		b.WriteRune(r)
	}
	l.add(STRING, startPos, b.String(), line, col)
	return nil
}

func (l *Lexer) scanIdentifier() {
	startPos, line, col := l.pos, l.line, l.col
	for !l.atEnd() {
		if _, _, ok := keywordAt(l.src, l.pos); ok {
			break
		}
		if !isIdentRune(l.peek()) {
			break
		}
		l.advance()
	}
	l.add(IDENT, startPos, l.src[startPos:l.pos], line, col)
}

// Scan tokenizes the whole source. The returned sequence always ends with an
// EOF token. The only failures are strictly invalid characters and
// unterminated strings.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.atEnd() {
		r := l.peek()
		f := foldRune(r)

		// whitespace (full-width space folds to ' ')
		if f == ' ' || f == '\t' || f == '\r' {
			l.advance()
			continue
		}
		if r == '\n' {
			line, col, startPos := l.line, l.col, l.pos
			l.advance()
			l.add(NEWLINE, startPos, nil, line, col)
			continue
		}
		// comment to end of line
		if f == '#' {
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}

		// keyword phrases (tried before identifiers so もし, を表示する etc.
		// never become identifier prefixes)
		if kw, tt, ok := keywordAt(l.src, l.pos); ok {
			line, col, startPos := l.line, l.col, l.pos
			for i := 0; i < utf8.RuneCountInString(kw); i++ {
				l.advance()
			}
			l.add(tt, startPos, kw, line, col)
			continue
		}

		if isDigitRune(r) {
			if err := l.scanNumber(); err != nil {
				return nil, err
			}
			continue
		}

		if r == '「' {
			if err := l.scanString('」'); err != nil {
				return nil, err
			}
			continue
		}
		if f == '"' {
			if err := l.scanString('"'); err != nil {
				return nil, err
			}
			continue
		}

		if ok, err := l.scanOperator(f); ok {
			continue
		} else if err != nil {
			return nil, err
		}

		if isIdentRune(r) {
			l.scanIdentifier()
			continue
		}

		return nil, l.err("unexpected character: " + strconv.QuoteRune(r))
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens, nil
}

// scanOperator classifies operator and delimiter runes. f is the folded form
// of the current rune. ASCII two-character spellings (>=, <=, !=, ==) are
// consumed greedily.
func (l *Lexer) scanOperator(f rune) (bool, error) {
	line, col, startPos := l.line, l.col, l.pos

	simple := map[rune]TokenType{
		'←': ASSIGN,
		'+': PLUS,
		'-': MINUS,
		'×': MULT, '*': MULT,
		'/': DIV,
		'÷': INTDIV,
		'%': MOD,
		'≠': NEQ,
		'≧': GE,
		'≦': LE,
		'(': LPAREN, ')': RPAREN,
		'[': LBRACKET, ']': RBRACKET,
		'{': LBRACE, '}': RBRACE,
		',': COMMA,
	}
	if tt, ok := simple[f]; ok {
		l.advance()
		l.add(tt, startPos, nil, line, col)
		return true, nil
	}

	switch f {
	case '=':
		l.advance()
		if !l.atEnd() && foldRune(l.peek()) == '=' {
			l.advance()
		}
		l.add(EQ, startPos, nil, line, col)
		return true, nil
	case '!':
		l.advance()
		if !l.atEnd() && foldRune(l.peek()) == '=' {
			l.advance()
			l.add(NEQ, startPos, nil, line, col)
			return true, nil
		}
		return false, &LexError{Line: line, Col: col, Msg: "unexpected character: '!'"}
	case '>':
		l.advance()
		if !l.atEnd() && foldRune(l.peek()) == '=' {
			l.advance()
			l.add(GE, startPos, nil, line, col)
		} else {
			l.add(GT, startPos, nil, line, col)
		}
		return true, nil
	case '<':
		l.advance()
		if !l.atEnd() && foldRune(l.peek()) == '=' {
			l.advance()
			l.add(LE, startPos, nil, line, col)
		} else {
			l.add(LT, startPos, nil, line, col)
		}
		return true, nil
	}
	return false, nil
}
