// parser.go — precedence-climbing parser for Suvawa.
//
// OVERVIEW
// --------
// The parser consumes the token stream produced by the lexer (see lexer.go)
// and builds the typed AST defined in ast.go. Statements dispatch on their
// leading token; expressions are parsed by a Pratt loop driven by the binding
// power table `lbp`, so precedence is data, not grammar plumbing:
//
//	assignment (10, right-assoc) < or (20) < and (30)
//	  < == != (40) < comparisons (50) < + - (60) < * / % (70)
//
// Unary "-"/"not" bind tighter than any binary operator; postfix call, index
// and member access bind tighter still.
//
// Errors are *ParseError values carrying the 1-based position of the first
// offending token. On failure no partial AST is returned. In interactive mode
// (ParseInteractive) a failure caused purely by running out of input is marked
// Incomplete, which the REPL uses to keep prompting for more lines.
//
// Semantic checks done here rather than at evaluation time: assignment targets
// must be an identifier, index, or member access; function literals must not
// declare duplicate parameter names.
package suvawa

import "fmt"

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse parses a complete Suvawa source string and returns its AST.
func Parse(src string) (*Program, error) {
	lex := NewLexer(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

// ParseInteractive parses in REPL-friendly mode: constructs left unterminated
// at end of input produce an error for which IsIncomplete reports true.
func ParseInteractive(src string) (*Program, error) {
	lex := NewLexerInteractive(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, interactive: true}
	return p.program()
}

// ParseError reports the first token that violates the grammar.
// Line and Col are 1-based.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool // failure caused by end of input (interactive mode)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a lex or parse failure caused by input
// ending mid-construct, as produced by the interactive entry points.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *LexError:
		return e.Incomplete
	case *ParseError:
		return e.Incomplete
	}
	return false
}

////////////////////////////////////////////////////////////////////////////////
//                             PRIVATE IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

// maxParseDepth bounds expression/statement nesting so pathological input
// fails with a ParseError instead of exhausting the host stack.
const maxParseDepth = 500

type parser struct {
	toks        []Token
	i           int
	depth       int
	interactive bool
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekNext() Token {
	if p.i+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+1]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *parser) errAt(tok Token, msg string) error {
	return &ParseError{
		Line:       tok.Line,
		Col:        tok.Col,
		Msg:        fmt.Sprintf("%s, found %s", msg, describeToken(tok)),
		Incomplete: p.interactive && tok.Type == EOF,
	}
}

func describeToken(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case STRING:
		return fmt.Sprintf("string %q", t.Literal)
	case NUMBER:
		return fmt.Sprintf("number %v", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Lexeme)
	}
}

func (p *parser) enter(tok Token) error {
	p.depth++
	if p.depth > maxParseDepth {
		return &ParseError{Line: tok.Line, Col: tok.Col, Msg: "expression nesting too deep"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// ───────────────────────── precedence / associativity ──────────────────────

func lbp(t TokenType) (int, bool) {
	switch t {
	case MULT, DIV, MOD:
		return 70, true
	case PLUS, MINUS:
		return 60, true
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 50, true
	case EQ, NEQ:
		return 40, true
	case AND:
		return 30, true
	case OR:
		return 20, true
	case ASSIGN:
		return 10, true
	}
	return 0, false
}

func isRightAssoc(tt TokenType) bool { return tt == ASSIGN }

// canStartExpr reports whether a token can begin an expression; used to decide
// whether `return` carries a value.
func canStartExpr(t TokenType) bool {
	switch t {
	case ID, NUMBER, STRING, BOOLEAN, NULL, MINUS, NOT, LROUND, LSQUARE, LCURLY, FUNCTION:
		return true
	}
	return false
}

// ────────────────────────────────── program ────────────────────────────────

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

// ───────────────────────────────── statements ──────────────────────────────

func (p *parser) statement() (Stmt, error) {
	tok := p.peek()
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()

	switch tok.Type {
	case LET:
		return p.letStmt()
	case FUNCTION:
		if p.peekNext().Type == ID {
			return p.funStmt()
		}
		return p.exprStmt()
	case DO:
		p.i++
		return p.block(tok)
	case IF:
		p.i++
		return p.ifStmt(tok)
	case WHILE:
		p.i++
		return p.whileStmt(tok)
	case FOR:
		p.i++
		return p.forStmt(tok)
	case RETURN:
		p.i++
		return p.returnStmt(tok)
	case BREAK:
		p.i++
		return &BreakStmt{at: at{tok.Line, tok.Col}}, nil
	case CONTINUE:
		p.i++
		return &ContinueStmt{at: at{tok.Line, tok.Col}}, nil
	default:
		return p.exprStmt()
	}
}

func (p *parser) letStmt() (Stmt, error) {
	let := p.peek()
	p.i++
	name, err := p.need(ID, "expected variable name after 'let'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "expected '=' in let declaration"); err != nil {
		return nil, err
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{at: at{let.Line, let.Col}, Name: name.Lexeme, Value: val}, nil
}

func (p *parser) funStmt() (Stmt, error) {
	funTok := p.peek()
	p.i++ // FUNCTION
	name := p.peek()
	p.i++ // ID (checked by caller)
	fn, err := p.funRest(funTok)
	if err != nil {
		return nil, err
	}
	return &FunStmt{at: at{funTok.Line, funTok.Col}, Name: name.Lexeme, Fn: fn}, nil
}

// funRest parses "(params) stmts end" after the `fun` keyword (and optional
// name) have been consumed.
func (p *parser) funRest(funTok Token) (*FunLit, error) {
	if _, err := p.need(LROUND, "expected '(' after 'fun'"); err != nil {
		return nil, err
	}
	var params []string
	seen := map[string]bool{}
	for !p.match(RROUND) {
		if len(params) > 0 {
			if _, err := p.need(COMMA, "expected ',' between parameters"); err != nil {
				return nil, err
			}
		}
		nameTok, err := p.need(ID, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if seen[nameTok.Lexeme] {
			return nil, &ParseError{Line: nameTok.Line, Col: nameTok.Col,
				Msg: fmt.Sprintf("duplicate parameter name %q", nameTok.Lexeme)}
		}
		seen[nameTok.Lexeme] = true
		params = append(params, nameTok.Lexeme)
	}
	body, err := p.stmtsUntilEnd(funTok, "expected 'end' to close function body")
	if err != nil {
		return nil, err
	}
	return &FunLit{at: at{funTok.Line, funTok.Col}, Params: params, Body: body}, nil
}

// block parses statements after `do` up to the matching `end`.
func (p *parser) block(doTok Token) (*BlockStmt, error) {
	return p.stmtsUntilEnd(doTok, "expected 'end' to close block")
}

func (p *parser) stmtsUntilEnd(open Token, msg string) (*BlockStmt, error) {
	blk := &BlockStmt{at: at{open.Line, open.Col}}
	for !p.atEnd() && p.peek().Type != END {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, s)
	}
	if _, err := p.need(END, msg); err != nil {
		return nil, err
	}
	return blk, nil
}

// ifStmt parses "cond then stmts (elif ...)* (else stmts)? end" after `if`.
// Each `elif` becomes a nested IfStmt in the Else slot.
func (p *parser) ifStmt(ifTok Token) (Stmt, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "expected 'then' after if condition"); err != nil {
		return nil, err
	}
	then := &BlockStmt{at: at{ifTok.Line, ifTok.Col}}
body:
	for !p.atEnd() {
		switch p.peek().Type {
		case END, ELIF, ELSE:
			break body
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		then.Stmts = append(then.Stmts, s)
	}
	node := &IfStmt{at: at{ifTok.Line, ifTok.Col}, Cond: cond, Then: then}
	switch {
	case p.match(ELIF):
		elifTok := p.prev()
		rest, err := p.ifStmt(elifTok)
		if err != nil {
			return nil, err
		}
		node.Else = rest
		return node, nil
	case p.match(ELSE):
		elseTok := p.prev()
		blk, err := p.stmtsUntilEnd(elseTok, "expected 'end' to close if statement")
		if err != nil {
			return nil, err
		}
		node.Else = blk
		return node, nil
	default:
		if _, err := p.need(END, "expected 'end' to close if statement"); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func (p *parser) whileStmt(whileTok Token) (Stmt, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(DO, "expected 'do' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.stmtsUntilEnd(whileTok, "expected 'end' to close while loop")
	if err != nil {
		return nil, err
	}
	return &WhileStmt{at: at{whileTok.Line, whileTok.Col}, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt(forTok Token) (Stmt, error) {
	name, err := p.need(ID, "expected loop variable after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN, "expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iter, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(DO, "expected 'do' after for iterable"); err != nil {
		return nil, err
	}
	body, err := p.stmtsUntilEnd(forTok, "expected 'end' to close for loop")
	if err != nil {
		return nil, err
	}
	return &ForStmt{at: at{forTok.Line, forTok.Col}, Name: name.Lexeme, Iter: iter, Body: body}, nil
}

// returnStmt parses an optional return value. The value must start on the same
// line as `return`; otherwise the next line is a separate statement.
func (p *parser) returnStmt(retTok Token) (Stmt, error) {
	node := &ReturnStmt{at: at{retTok.Line, retTok.Col}}
	if canStartExpr(p.peek().Type) && p.peek().Line == retTok.Line {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		node.Value = v
	}
	return node, nil
}

func (p *parser) exprStmt() (Stmt, error) {
	tok := p.peek()
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{at: at{tok.Line, tok.Col}, X: e}, nil
}

// ──────────────────────────────── expressions ──────────────────────────────

func (p *parser) expression() (Expr, error) {
	return p.exprBP(0)
}

// exprBP is the precedence-climbing core: parse a prefix expression, then
// fold in binary operators whose binding power exceeds minBP.
func (p *parser) exprBP(minBP int) (Expr, error) {
	tok := p.peek()
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		bp, ok := lbp(op.Type)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.i++

		nextBP := bp
		if isRightAssoc(op.Type) {
			nextBP = bp - 1
		}
		right, err := p.exprBP(nextBP)
		if err != nil {
			return nil, err
		}

		switch op.Type {
		case ASSIGN:
			switch left.(type) {
			case *Ident, *IndexExpr, *GetExpr:
			default:
				return nil, &ParseError{Line: op.Line, Col: op.Col, Msg: "invalid assignment target"}
			}
			left = &AssignExpr{at: at{op.Line, op.Col}, Target: left, Value: right}
		case AND, OR:
			left = &LogicalExpr{at: at{op.Line, op.Col}, Op: op.Lexeme, Left: left, Right: right}
		default:
			left = &BinaryExpr{at: at{op.Line, op.Col}, Op: op.Lexeme, Left: left, Right: right}
		}
	}
}

func (p *parser) unary() (Expr, error) {
	tok := p.peek()
	if tok.Type == MINUS || tok.Type == NOT {
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()
		p.i++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		op := "-"
		if tok.Type == NOT {
			op = "not"
		}
		return &UnaryExpr{at: at{tok.Line, tok.Col}, Op: op, Right: operand}, nil
	}
	return p.postfix()
}

// postfix parses a primary expression followed by any chain of calls,
// index accesses, and member accesses. A call "(" or index "[" attaches only
// when it starts on the same line as the token it extends; a "("- or "["-led
// next line is a new statement, not a call/index on the previous expression
// (the same line rule `return` uses for its value).
func (p *parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		if t := p.peek(); (t.Type == LROUND || t.Type == LSQUARE) && t.Line != p.prev().Line {
			return e, nil
		}
		switch {
		case p.match(LROUND):
			open := p.prev()
			var args []Expr
			for !p.match(RROUND) {
				if len(args) > 0 {
					if _, err := p.need(COMMA, "expected ',' between arguments"); err != nil {
						return nil, err
					}
				}
				a, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			e = &CallExpr{at: at{open.Line, open.Col}, Callee: e, Args: args}
		case p.match(LSQUARE):
			open := p.prev()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RSQUARE, "expected ']' after index"); err != nil {
				return nil, err
			}
			e = &IndexExpr{at: at{open.Line, open.Col}, Obj: e, Index: idx}
		case p.match(PERIOD):
			dot := p.prev()
			name, err := p.need(ID, "expected member name after '.'")
			if err != nil {
				return nil, err
			}
			e = &GetExpr{at: at{dot.Line, dot.Col}, Obj: e, Name: name.Lexeme}
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.i++
		return &NumberLit{at: at{tok.Line, tok.Col}, Value: tok.Literal.(float64)}, nil
	case STRING:
		p.i++
		return &StringLit{at: at{tok.Line, tok.Col}, Value: tok.Literal.(string)}, nil
	case BOOLEAN:
		p.i++
		return &BoolLit{at: at{tok.Line, tok.Col}, Value: tok.Literal.(bool)}, nil
	case NULL:
		p.i++
		return &NullLit{at: at{tok.Line, tok.Col}}, nil
	case ID:
		p.i++
		return &Ident{at: at{tok.Line, tok.Col}, Name: tok.Lexeme}, nil
	case LROUND:
		p.i++
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return e, nil
	case LSQUARE:
		p.i++
		return p.listLit(tok)
	case LCURLY:
		p.i++
		return p.mapLit(tok)
	case FUNCTION:
		p.i++
		fn, err := p.funRest(tok)
		if err != nil {
			return nil, err
		}
		return fn, nil
	}
	return nil, p.errAt(tok, "expected expression")
}

func (p *parser) listLit(open Token) (Expr, error) {
	lit := &ListLit{at: at{open.Line, open.Col}}
	for !p.match(RSQUARE) {
		if len(lit.Elems) > 0 {
			if _, err := p.need(COMMA, "expected ',' between list elements"); err != nil {
				return nil, err
			}
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, e)
	}
	return lit, nil
}

// mapLit parses "{key: value, ...}". Keys are identifiers or string literals.
func (p *parser) mapLit(open Token) (Expr, error) {
	lit := &MapLit{at: at{open.Line, open.Col}}
	for !p.match(RCURLY) {
		if len(lit.Keys) > 0 {
			if _, err := p.need(COMMA, "expected ',' between map entries"); err != nil {
				return nil, err
			}
		}
		keyTok := p.peek()
		var key string
		switch keyTok.Type {
		case ID:
			key = keyTok.Lexeme
		case STRING:
			key = keyTok.Literal.(string)
		default:
			return nil, p.errAt(keyTok, "expected map key (identifier or string)")
		}
		p.i++
		if _, err := p.need(COLON, "expected ':' after map key"); err != nil {
			return nil, err
		}
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, v)
	}
	return lit, nil
}
