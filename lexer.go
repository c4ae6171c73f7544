// lexer.go — byte-level scanner for Suvawa source text.
//
// The lexer turns raw UTF-8 source into a flat token stream terminated by an
// EOF token. Every token records the 1-based line and column of its first
// character; those positions flow unchanged into parse and runtime
// diagnostics. Multi-character operators use maximal munch ("==" wins over
// "="), keywords take priority over identifiers, and '#' line comments are
// consumed without emitting tokens.
package suvawa

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND  // "("
	RROUND  // ")"
	LSQUARE // "["
	RSQUARE // "]"
	LCURLY  // "{"
	RCURLY  // "}"
	COLON   // ":"
	COMMA   // ","
	PERIOD  // "."

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	STRING
	NUMBER
	BOOLEAN
	NULL

	// Keywords
	AND
	OR
	NOT
	LET
	DO
	END
	RETURN
	BREAK
	CONTINUE
	IF
	THEN
	ELIF
	ELSE
	FUNCTION
	FOR
	IN
	WHILE
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 1-based
}

// keywords map
var keywords = map[string]TokenType{
	"null":     NULL,
	"false":    BOOLEAN,
	"true":     BOOLEAN,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"let":      LET,
	"do":       DO,
	"end":      END,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"if":       IF,
	"then":     THEN,
	"elif":     ELIF,
	"else":     ELSE,
	"fun":      FUNCTION,
	"for":      FOR,
	"in":       IN,
	"while":    WHILE,
}

// Lexer scans a Suvawa source string into tokens.
type Lexer struct {
	src         string
	start       int // start index of current token
	cur         int // current index
	line        int // 1-based
	col         int // 1-based column within line
	tokens      []Token
	interactive bool // at-EOF failures become "incomplete" diagnostics

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  1,
	}
}

// NewLexerInteractive creates a lexer whose end-of-input failures (e.g. an
// unterminated string) are marked incomplete, for REPL continuation prompts.
func NewLexerInteractive(src string) *Lexer {
	l := NewLexer(src)
	l.interactive = true
	return l
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) rewindToStart() {
	// Only within the current token; tokStartLine/Col were set before scanning.
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		case '#':
			for {
				b, ok := l.peek()
				if !ok || b == '\n' {
					break
				}
				l.advance()
			}
			l.start = l.cur
		default:
			return
		}
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// ----- errors -----

// LexError reports the first character that cannot begin any valid token.
// Line and Col are 1-based.
type LexError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool // failure caused by end of input (interactive mode)
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LexError at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

func (l *Lexer) errAtEnd(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg, Incomplete: l.interactive}
}

// ----- scanners -----

// scanString parses a JSON-style string literal (single or double quotes).
func (l *Lexer) scanString() (string, error) {
	del := l.src[l.start]
	// consume the delimiter
	l.advance()

	var out []rune
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == del {
			return string(out), nil
		}
		if ch == '\\' {
			if l.isAtEnd() {
				return "", l.errAtEnd("unfinished escape sequence")
			}
			esc, _ := l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case '\\':
				out = append(out, '\\')
			case '/':
				out = append(out, '/')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'u':
				r, err := l.scanUnicodeEscape()
				if err != nil {
					return "", err
				}
				out = append(out, r)
			default:
				return "", l.err(fmt.Sprintf("invalid escape sequence: \\%c", esc))
			}
			continue
		}
		if ch < utf8.RuneSelf {
			out = append(out, rune(ch))
			continue
		}
		// Non-ASCII byte: step back one byte and decode the full rune.
		l.cur--
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if r == utf8.RuneError && size == 1 {
			return "", l.err("invalid UTF-8 in source")
		}
		out = append(out, r)
		l.cur += size
		l.col += size - 1
	}
	return "", l.errAtEnd("string was not terminated")
}

// scanUnicodeEscape reads 4 hex digits after "\u", combining surrogate pairs.
func (l *Lexer) scanUnicodeEscape() (rune, error) {
	hex4 := func() (rune, error) {
		var hex string
		for i := 0; i < 4; i++ {
			b, ok := l.peek()
			if !ok || !isHex(b) {
				return 0, l.err("unicode escape was not terminated (expect 4 hex digits)")
			}
			hex += string(b)
			l.advance()
		}
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return 0, l.err("invalid unicode escape")
		}
		return rune(v), nil
	}

	r, err := hex4()
	if err != nil {
		return 0, err
	}
	if r < 0xD800 || r > 0xDBFF {
		return r, nil
	}
	// High surrogate: try to pair with a following \uXXXX low surrogate.
	saveCur, saveLine, saveCol := l.cur, l.line, l.col
	if b1, ok := l.peek(); ok && b1 == '\\' {
		l.advance()
		if b2, ok := l.peek(); ok && b2 == 'u' {
			l.advance()
			r2, err := hex4()
			if err != nil {
				return 0, err
			}
			if 0xDC00 <= r2 && r2 <= 0xDFFF {
				return utf16.DecodeRune(r, r2), nil
			}
		}
	}
	// Not a valid pair; rewind and emit the lone surrogate as-is.
	l.cur, l.line, l.col = saveCur, saveLine, saveCol
	return r, nil
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses a numeric literal; supports .5, 1., 1.23e-4, etc.
func (l *Lexer) scanNumber() (float64, error) {
	sawDigits := false
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
		sawDigits = true
	}

	// decimal point with optional digits
	if b, ok := l.peek(); ok && b == '.' {
		l.advance()
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
			sawDigits = true
		}
	}

	// exponent
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		save := l.cur
		l.advance()
		if b2, ok := l.peek(); ok && (b2 == '+' || b2 == '-') {
			l.advance()
		}
		if b3, ok := l.peek(); ok && isDigit(b3) {
			for {
				b4, ok := l.peek()
				if !ok || !isDigit(b4) {
					break
				}
				l.advance()
			}
		} else {
			l.cur = save
		}
	}

	if !sawDigits {
		return 0, l.err("malformed number")
	}
	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return 0, l.err("invalid number literal")
	}
	return v, nil
}

// dotStartsNumber reports whether a leading '.' begins a fractional literal
// such as ".5" (as opposed to member access).
func (l *Lexer) dotStartsNumber() bool {
	b, ok := l.peek()
	return ok && isDigit(b)
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	l.skipWhitespaceAndComments()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.addToken(LROUND, "("), nil
	case ')':
		return l.addToken(RROUND, ")"), nil
	case '[':
		return l.addToken(LSQUARE, "["), nil
	case ']':
		return l.addToken(RSQUARE, "]"), nil
	case '{':
		return l.addToken(LCURLY, "{"), nil
	case '}':
		return l.addToken(RCURLY, "}"), nil
	case '+':
		return l.addToken(PLUS, "+"), nil
	case '-':
		return l.addToken(MINUS, "-"), nil
	case '*':
		return l.addToken(MULT, "*"), nil
	case '/':
		return l.addToken(DIV, "/"), nil
	case '%':
		return l.addToken(MOD, "%"), nil
	case ':':
		return l.addToken(COLON, ":"), nil
	case ',':
		return l.addToken(COMMA, ","), nil
	}

	// '.' : either decimal-starting float or PERIOD
	if ch == '.' {
		if l.dotStartsNumber() {
			l.rewindToStart()
			v, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(NUMBER, v), nil
		}
		return l.addToken(PERIOD, "."), nil
	}

	// Two-char operators and fallbacks
	switch ch {
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ, "=="), nil
		}
		return l.addToken(ASSIGN, "="), nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ, "!="), nil
		}
		return Token{}, &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: "unexpected character: '!' (did you mean 'not' or '!='?)"}
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(LESS_EQ, "<="), nil
		}
		return l.addToken(LESS, "<"), nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ, ">="), nil
		}
		return l.addToken(GREATER, ">"), nil
	}

	// Strings
	if ch == '"' || ch == '\'' {
		l.rewindToStart()
		text, err := l.scanString()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(STRING, text), nil
	}

	// Numbers (starting with digit)
	if isDigit(ch) {
		l.rewindToStart()
		v, err := l.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(NUMBER, v), nil
	}

	// Identifiers / Keywords
	if isAlpha(ch) {
		l.rewindToStart()
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			switch tt {
			case NULL:
				return l.addToken(NULL, nil), nil
			case BOOLEAN:
				return l.addToken(BOOLEAN, lex == "true"), nil
			default:
				return l.addToken(tt, lex), nil
			}
		}
		return l.addToken(ID, lex), nil
	}

	return Token{}, &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: fmt.Sprintf("unexpected character: %q", ch)}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
