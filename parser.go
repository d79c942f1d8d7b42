// parser.go — recursive-descent parser for DNCL.
//
// OVERVIEW
// --------
// Consumes the token sequence from lexer.go and builds the AST defined in
// ast.go. The parser is a pure function of the token sequence; it never
// touches interpreter state.
//
// Statement dispatch is keyword-driven. DNCL closes blocks with trailing
// marker phrases rather than braces, so each block parse carries an explicit
// set of closing token types and stops (without consuming) when one appears:
//
//	もし cond ならば … を実行する            (intermediate blocks end を実行し)
//	cond の間， … を繰り返す
//	繰り返し， … を，cond になるまで実行する
//	var を a から b まで c ずつ 増やしながら， … を繰り返す
//	関数 name(params) を … と定義する
//
// Indentation is never consulted. NEWLINE tokens are discarded up front:
// the closing phrases make statement boundaries unambiguous, so newlines are
// pure formatting (this matches the reference behavior of the language).
//
// Expression parsing uses precedence climbing: または < かつ < でない <
// comparison < additive < multiplicative < unary minus < primary.
//
// In interactive mode, a construct truncated at EOF yields a *ParseError
// with Incomplete set, which the REPL uses to prompt for continuation lines.
package dncl

import "fmt"

// Parse tokenizes and parses a complete DNCL source string.
func Parse(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-lexed token sequence.
func ParseTokens(toks []Token) (*Program, error) {
	return newParser(toks, false).program()
}

// ParseInteractive parses REPL input. Unterminated constructs at EOF produce
// a *ParseError with Incomplete set instead of a hard parse error.
func ParseInteractive(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return newParser(toks, true).program()
}

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

func newParser(toks []Token, interactive bool) *parser {
	// Newlines separate statements in the surface syntax but carry no
	// information the closing keyword phrases don't already provide.
	kept := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Type != NEWLINE {
			kept = append(kept, t)
		}
	}
	return &parser{toks: kept, interactive: interactive}
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) check(tt ...TokenType) bool {
	cur := p.peek().Type
	for _, t := range tt {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *parser) match(tt ...TokenType) bool {
	if p.check(tt...) {
		p.i++
		return true
	}
	return false
}

func (p *parser) need(tt TokenType, expected string) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), expected)
}

func (p *parser) errAt(found Token, expected string) error {
	return &ParseError{
		Line:       found.Line,
		Col:        found.Col,
		Expected:   expected,
		Found:      describeToken(found),
		Incomplete: p.interactive && found.Type == EOF,
	}
}

func describeToken(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	case NUMBER, STRING, IDENT:
		return fmt.Sprintf("%q", t.Lexeme)
	default:
		return t.Type.String()
	}
}

func at(t Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

// ────────────────────────────── program & blocks ────────────────────────────

func (p *parser) program() (*Program, error) {
	prog := &Program{}
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, nil
}

// block parses statements until one of the closing token types (or EOF) is
// next. The closing token is left for the caller to consume, so shared
// closers like を繰り返す stay unambiguous per construct.
func (p *parser) block(ends ...TokenType) ([]Stmt, error) {
	var body []Stmt
	for !p.atEnd() && !p.check(ends...) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	return body, nil
}

// ──────────────────────────────── statements ────────────────────────────────

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case FUNCTION:
		return p.funcDef()
	case IF:
		return p.ifStmt()
	case DO_REPEAT:
		return p.doUntil()
	case IDENT:
		return p.identStmt()
	case NUMBER, STRING, LPAREN, LBRACE, INPUT, MINUS, NOT:
		return p.exprStmt(nil)
	default:
		return nil, p.errAt(p.peek(), "文")
	}
}

// identStmt disambiguates the statement forms that begin with an identifier:
// assignment, array-element assignment, array fill, increment/decrement,
// counted loop, or an expression statement (display / while / bare call).
func (p *parser) identStmt() (Stmt, error) {
	name := p.peek()
	p.i++

	switch {
	case p.match(ALL_ELEMENTS):
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(ASSIGN_TO, "を代入する"); err != nil {
			return nil, err
		}
		return &FillStmt{At: at(name), Name: name.Lexeme, Value: value}, nil

	case p.check(LBRACKET):
		indices, err := p.arrayIndices()
		if err != nil {
			return nil, err
		}
		if p.match(ASSIGN) {
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &AssignStmt{At: at(name), Target: name.Lexeme, Indices: indices, Value: value}, nil
		}
		ref := &ArrayRef{At: at(name), Name: name.Lexeme, Indices: indices}
		return p.exprStmt(ref)

	case p.match(ASSIGN):
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{At: at(name), Target: name.Lexeme, Value: value}, nil

	case p.match(WO):
		first, err := p.expression()
		if err != nil {
			return nil, err
		}
		switch {
		case p.match(FROM):
			return p.countedLoop(name, first)
		case p.match(INCREASE):
			return &IncStmt{At: at(name), Name: name.Lexeme, Amount: first}, nil
		case p.match(DECREASE):
			return &DecStmt{At: at(name), Name: name.Lexeme, Amount: first}, nil
		default:
			return nil, p.errAt(p.peek(), "から, 増やす または 減らす")
		}

	default:
		// Statement begins with a plain expression (x ＜ 10 の間, x を表示する
		// after longest-match lexing, or a bare call).
		p.i--
		return p.exprStmt(nil)
	}
}

// exprStmt parses display statements, pretest loops, and bare calls. start
// (optional) is an expression prefix already consumed by identStmt.
func (p *parser) exprStmt(start Expr) (Stmt, error) {
	var first Expr
	var err error
	if start != nil {
		first, err = p.climbFrom(start)
	} else {
		first, err = p.expression()
	}
	if err != nil {
		return nil, err
	}

	if p.match(WHILE) {
		p.match(COMMA)
		body, err := p.block(REPEAT)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(REPEAT, "を繰り返す"); err != nil {
			return nil, err
		}
		return &WhileStmt{At: first.Pos(), Cond: first, Body: body}, nil
	}

	exprs := []Expr{first}
	for p.match(CONCAT) {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	if p.match(DISPLAY) {
		return &DisplayStmt{At: first.Pos(), Exprs: exprs}, nil
	}

	if len(exprs) == 1 {
		switch call := first.(type) {
		case *CallExpr:
			return &CallStmt{At: call.At, Call: call}, nil
		case *BuiltinCall:
			return &CallStmt{At: call.At, Call: call}, nil
		}
	}
	return nil, p.errAt(p.peek(), "を表示する")
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // もし
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "ならば"); err != nil {
		return nil, err
	}
	then, err := p.block(EXECUTE, AND_EXECUTE)
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{At: at(kw), Cond: cond, Then: then}
	if p.match(AND_EXECUTE) {
		p.match(COMMA) // を実行し，そうでなくもし
		for p.match(ELIF) {
			elifCond, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(THEN, "ならば"); err != nil {
				return nil, err
			}
			body, err := p.block(EXECUTE, AND_EXECUTE)
			if err != nil {
				return nil, err
			}
			stmt.Elifs = append(stmt.Elifs, ElifClause{Cond: elifCond, Body: body})
			if !p.match(AND_EXECUTE) {
				break
			}
			p.match(COMMA)
		}
		if p.match(ELSE) {
			stmt.Else, err = p.block(EXECUTE)
			if err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.need(EXECUTE, "を実行する"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) doUntil() (Stmt, error) {
	kw := p.peek()
	p.i++ // 繰り返し
	p.match(COMMA)
	body, err := p.block(WO)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(WO, "を"); err != nil {
		return nil, err
	}
	p.match(COMMA)
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(UNTIL, "になるまで実行する"); err != nil {
		return nil, err
	}
	return &DoUntilStmt{At: at(kw), Body: body, Cond: cond}, nil
}

// countedLoop parses the remainder of var を from から to まで step ずつ
// (増やしながら|減らしながら)， body を繰り返す. The identifier and the
// from-expression are already consumed.
func (p *parser) countedLoop(name Token, from Expr) (Stmt, error) {
	to, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TO, "まで"); err != nil {
		return nil, err
	}
	step, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(BY, "ずつ"); err != nil {
		return nil, err
	}

	var down bool
	switch {
	case p.match(INCREASING):
		down = false
	case p.match(DECREASING):
		down = true
	default:
		return nil, p.errAt(p.peek(), "増やしながら または 減らしながら")
	}
	p.match(COMMA)

	body, err := p.block(REPEAT)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(REPEAT, "を繰り返す"); err != nil {
		return nil, err
	}
	return &ForStmt{At: at(name), Var: name.Lexeme, From: from, To: to, Step: step, Down: down, Body: body}, nil
}

func (p *parser) funcDef() (Stmt, error) {
	kw := p.peek()
	p.i++ // 関数
	name, err := p.need(IDENT, "関数名")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "("); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(RPAREN) {
		for {
			param, err := p.need(IDENT, "仮引数名")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, ")"); err != nil {
		return nil, err
	}
	if _, err := p.need(WO, "を"); err != nil {
		return nil, err
	}
	body, err := p.block(DEFINE)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(DEFINE, "と定義する"); err != nil {
		return nil, err
	}
	return &FuncDef{At: at(kw), Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *parser) arrayIndices() ([]Expr, error) {
	if _, err := p.need(LBRACKET, "["); err != nil {
		return nil, err
	}
	var indices []Expr
	for {
		idx, err := p.expression()
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RBRACKET, "]"); err != nil {
		return nil, err
	}
	return indices, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expression() (Expr, error) { return p.orExpr() }

// climbFrom resumes the operator-precedence climb above an already-parsed
// primary expression.
func (p *parser) climbFrom(primary Expr) (Expr, error) {
	left, err := p.multiplicativeFrom(primary)
	if err != nil {
		return nil, err
	}
	left, err = p.additiveFrom(left)
	if err != nil {
		return nil, err
	}
	left, err = p.comparisonFrom(left)
	if err != nil {
		return nil, err
	}
	for p.check(AND) {
		op := p.peek()
		p.i++
		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		left = &LogicalOp{At: at(op), Op: "かつ", Left: left, Right: right}
	}
	for p.check(OR) {
		op := p.peek()
		p.i++
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &LogicalOp{At: at(op), Op: "または", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) orExpr() (Expr, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.check(OR) {
		op := p.peek()
		p.i++
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &LogicalOp{At: at(op), Op: "または", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) andExpr() (Expr, error) {
	left, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	for p.check(AND) {
		op := p.peek()
		p.i++
		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		left = &LogicalOp{At: at(op), Op: "かつ", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) notExpr() (Expr, error) {
	if p.check(NOT) {
		op := p.peek()
		p.i++
		operand, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{At: at(op), Op: "でない", Operand: operand}, nil
	}
	return p.comparison()
}

var comparisonOps = map[TokenType]string{
	EQ: "=", NEQ: "!=", GT: ">", GE: ">=", LT: "<", LE: "<=",
}

func (p *parser) comparison() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	return p.comparisonFrom(left)
}

func (p *parser) comparisonFrom(left Expr) (Expr, error) {
	if p.check(EQ, NEQ, GT, GE, LT, LE) {
		op := p.peek()
		p.i++
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		return &BinaryOp{At: at(op), Op: comparisonOps[op.Type], Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	return p.additiveFrom(left)
}

func (p *parser) additiveFrom(left Expr) (Expr, error) {
	for p.check(PLUS, MINUS) {
		op := p.peek()
		p.i++
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		text := "+"
		if op.Type == MINUS {
			text = "-"
		}
		left = &BinaryOp{At: at(op), Op: text, Left: left, Right: right}
	}
	return left, nil
}

var multiplicativeOps = map[TokenType]string{
	MULT: "*", DIV: "/", INTDIV: "//", MOD: "%",
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	return p.multiplicativeFrom(left)
}

func (p *parser) multiplicativeFrom(left Expr) (Expr, error) {
	for p.check(MULT, DIV, INTDIV, MOD) {
		op := p.peek()
		p.i++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{At: at(op), Op: multiplicativeOps[op.Type], Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	if p.check(MINUS) {
		op := p.peek()
		p.i++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{At: at(op), Op: "-", Operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.i++
		switch v := tok.Literal.(type) {
		case int64:
			return &IntLit{At: at(tok), Value: v}, nil
		case float64:
			return &NumLit{At: at(tok), Value: v}, nil
		}
		return nil, p.errAt(tok, "数値")

	case STRING:
		p.i++
		return &StrLit{At: at(tok), Value: tok.Literal.(string)}, nil

	case INPUT:
		p.i++
		return &BuiltinCall{At: at(tok), Name: "input"}, nil

	case LPAREN:
		p.i++
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, ")"); err != nil {
			return nil, err
		}
		return e, nil

	case LBRACE:
		return p.arrayLit()

	case IDENT:
		p.i++
		name := tok.Lexeme
		if p.check(LBRACKET) {
			indices, err := p.arrayIndices()
			if err != nil {
				return nil, err
			}
			return &ArrayRef{At: at(tok), Name: name, Indices: indices}, nil
		}
		if p.match(LPAREN) {
			var args []Expr
			if !p.check(RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.need(RPAREN, ")"); err != nil {
				return nil, err
			}
			if isBuiltinName(name) {
				return &BuiltinCall{At: at(tok), Name: name, Args: args}, nil
			}
			return &CallExpr{At: at(tok), Name: name, Args: args}, nil
		}
		return &VarRef{At: at(tok), Name: name}, nil
	}
	return nil, p.errAt(tok, "式")
}

func (p *parser) arrayLit() (Expr, error) {
	open := p.peek()
	p.i++ // {
	lit := &ArrayLit{At: at(open)}
	if !p.check(RBRACE) {
		for {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			lit.Elems = append(lit.Elems, e)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RBRACE, "}"); err != nil {
		return nil, err
	}
	return lit, nil
}
