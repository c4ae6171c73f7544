// lexer_test.go
package suvawa

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_HelloWorld(t *testing.T) {
	src := `
# Say hello.
let greet = fun(name)
    return "Hello, " + name
end
`
	want := []TokenType{
		LET, ID, ASSIGN, FUNCTION, LROUND, ID, RROUND,
		RETURN, STRING, PLUS, ID,
		END,
	}
	wantTypes(t, src, want)
}

func Test_Lexer_MaximalMunch(t *testing.T) {
	got := wantTypes(t, "= == != < <= > >=", []TokenType{
		ASSIGN, EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ,
	})
	if got[1].Lexeme != "==" || got[4].Lexeme != "<=" {
		t.Fatalf("maximal munch lexemes wrong: %q %q", got[1].Lexeme, got[4].Lexeme)
	}
}

func Test_Lexer_Numbers(t *testing.T) {
	ts := wantTypes(t, "42 1.5 .5 5. 1e3 1.25e-2", []TokenType{
		NUMBER, NUMBER, NUMBER, NUMBER, NUMBER, NUMBER,
	})
	want := []float64{42, 1.5, 0.5, 5, 1000, 0.0125}
	for i, w := range want {
		if ts[i].Literal.(float64) != w {
			t.Fatalf("number %d: want %v, got %v", i, w, ts[i].Literal)
		}
	}
}

func Test_Lexer_Keywords_Priority_Over_Identifiers(t *testing.T) {
	ts := wantTypes(t, "let letter while whiled", []TokenType{LET, ID, WHILE, ID})
	if ts[1].Lexeme != "letter" || ts[3].Lexeme != "whiled" {
		t.Fatalf("identifier lexemes wrong: %q %q", ts[1].Lexeme, ts[3].Lexeme)
	}
}

func Test_Lexer_String_Escapes(t *testing.T) {
	ts := toks(t, `"a\nb\t\"q\" é 😀"`)
	got := ts[0].Literal.(string)
	want := "a\nb\t\"q\" é \U0001F600"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_Lexer_SingleQuoted_Strings(t *testing.T) {
	ts := wantTypes(t, `'hi there'`, []TokenType{STRING})
	if ts[0].Literal.(string) != "hi there" {
		t.Fatalf("got %q", ts[0].Literal)
	}
}

func Test_Lexer_Comments_Are_Skipped(t *testing.T) {
	src := `
# a comment line
let x = 1 # trailing comment
# another
`
	wantTypes(t, src, []TokenType{LET, ID, ASSIGN, NUMBER})
}

func Test_Lexer_Positions(t *testing.T) {
	src := "let x = 1\n  x + 2"
	ts := toks(t, src)
	// let @1:1, x @1:5, = @1:7, 1 @1:9, x @2:3, + @2:5, 2 @2:7
	wantPos := []struct{ line, col int }{
		{1, 1}, {1, 5}, {1, 7}, {1, 9}, {2, 3}, {2, 5}, {2, 7},
	}
	for i, wp := range wantPos {
		if ts[i].Line != wp.line || ts[i].Col != wp.col {
			t.Fatalf("token %d (%q): want %d:%d, got %d:%d",
				i, ts[i].Lexeme, wp.line, wp.col, ts[i].Line, ts[i].Col)
		}
	}
}

func Test_Lexer_Error_UnexpectedCharacter(t *testing.T) {
	_, err := NewLexer("let x = 1 @ 2").Scan()
	le, isLex := err.(*LexError)
	if !isLex {
		t.Fatalf("want *LexError, got %v", err)
	}
	if le.Line != 1 || le.Col != 11 {
		t.Fatalf("want position 1:11, got %d:%d", le.Line, le.Col)
	}
}

func Test_Lexer_Error_UnterminatedString(t *testing.T) {
	_, err := NewLexer(`let s = "abc`).Scan()
	le, isLex := err.(*LexError)
	if !isLex || !strings.Contains(le.Msg, "not terminated") {
		t.Fatalf("want unterminated-string LexError, got %v", err)
	}
	if le.Incomplete {
		t.Fatalf("non-interactive lexer must not mark errors incomplete")
	}
	_, err = NewLexerInteractive(`let s = "abc`).Scan()
	if !IsIncomplete(err) {
		t.Fatalf("interactive lexer should mark unterminated string incomplete, got %v", err)
	}
}

// Re-lexing the concatenated lexemes must reproduce the token stream: tokens
// are lossless modulo whitespace and comments.
func Test_Lexer_Lossless_Modulo_Trivia(t *testing.T) {
	src := `
# build a map
let m = {a: 1, "b c": 2.5}
while m.a < 10 do
  m.a = m.a + 1
end
`
	first := toks(t, src)
	var b strings.Builder
	for _, tok := range first {
		if tok.Type == EOF {
			break
		}
		b.WriteString(tok.Lexeme)
		b.WriteByte(' ')
	}
	second := toks(t, b.String())
	ft, st := typesWithoutEOF(first), typesWithoutEOF(second)
	if !reflect.DeepEqual(ft, st) {
		t.Fatalf("re-lex types diverge:\nfirst:  %v\nsecond: %v", ft, st)
	}
	for i := range ft {
		if !reflect.DeepEqual(first[i].Literal, second[i].Literal) {
			t.Fatalf("re-lex literal %d diverges: %v vs %v", i, first[i].Literal, second[i].Literal)
		}
	}
}
