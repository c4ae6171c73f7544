// errors.go — runtime error taxonomy and caret-snippet rendering.
//
// What this file does
// -------------------
// It defines *RuntimeError, the structured error produced by the evaluator,
// and turns lexer/parser/runtime diagnostics into readable error snippets with
// a caret pointing at the offending column. The entry point is
// `WrapErrorWithSource`, which recognizes `*LexError` (lexer.go),
// `*ParseError` (parser.go), and `*RuntimeError` (this file), formats them,
// and returns a new `error` containing a multi-line snippet:
//
//	ParseError at 3:14: expected 'end' to close block, found ')'
//
//	   2 | let x = do
//	   3 |   let y = 1 )
//	     |              ^
//	   4 | print(y)
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the 1-based column. Output is
// plain text, no ANSI colors. Any other error is returned unchanged.
package suvawa

import (
	"fmt"
	"strings"
)

// ErrorKind discriminates the evaluation-time failure taxonomy. The string is
// the user-visible kind name used in rendered messages.
type ErrorKind string

const (
	ErrUndefinedVariable ErrorKind = "UndefinedVariable"
	ErrType              ErrorKind = "TypeError"
	ErrArity             ErrorKind = "ArityError"
	ErrDivisionByZero    ErrorKind = "DivisionByZeroError"
	ErrIndex             ErrorKind = "IndexError"
	ErrKey               ErrorKind = "KeyError"
	ErrStackOverflow     ErrorKind = "StackOverflowError"
	// ErrRuntime covers malformed control flow and anything without a more
	// specific kind (e.g. `break` outside a loop).
	ErrRuntime ErrorKind = "RuntimeError"
)

// RuntimeError represents an execution-time failure with a source location.
// Line and Col are 1-based.
type RuntimeError struct {
	Kind ErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

/* ===========================
   PUBLIC API
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lex/parse/runtime errors and
// leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("main.sua",
// "<repl>", ...) included in the header line.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LexError", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "ParseError", srcName, e.Line, e.Col, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, string(e.Kind), srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

/* ===========================
   PRIVATE: rendering
   =========================== */

// prettyErrorStringLabeled builds a snippet with a header and a caret. It
// shows at most one previous and one next line when available. Coordinates
// are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
