// errors_test.go
package suvawa

import (
	"strings"
	"testing"
)

func Test_Errors_Snippet_Shape(t *testing.T) {
	src := "let a = 1\nlet b = a @ 2\nlet c = 3"
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected a lex error")
	}
	out := WrapErrorWithSource(err, src).Error()

	for _, want := range []string{
		"LexError at 2:11",
		"   1 | let a = 1",
		"   2 | let b = a @ 2",
		"   3 | let c = 3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("snippet missing %q:\n%s", want, out)
		}
	}
	// Caret sits under column 11.
	caret := "     | " + strings.Repeat(" ", 10) + "^"
	if !strings.Contains(out, caret) {
		t.Fatalf("caret misplaced:\n%s", out)
	}
}

func Test_Errors_Snippet_With_Name(t *testing.T) {
	src := "boom"
	_, err := NewInterpreter().EvalSource(src)
	out := WrapErrorWithName(err, "main.sua", src).Error()
	if !strings.Contains(out, "UndefinedVariable in main.sua at 1:1") {
		t.Fatalf("header missing name: %s", out)
	}
}

func Test_Errors_Snippet_First_And_Last_Line(t *testing.T) {
	// No context line exists before line 1 or after the last line; the
	// renderer must not panic or invent lines.
	src := "zzz"
	_, err := NewInterpreter().EvalSource(src)
	out := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(out, "   1 | zzz") || strings.Contains(out, "   2 |") {
		t.Fatalf("unexpected snippet:\n%s", out)
	}
}

func Test_Errors_Wrap_Passes_Unknown_Errors_Through(t *testing.T) {
	err := WrapErrorWithSource(errFake{}, "src")
	if _, still := err.(errFake); !still {
		t.Fatalf("unrelated errors must pass through unchanged, got %T", err)
	}
}

type errFake struct{}

func (errFake) Error() string { return "fake" }

func Test_Errors_RuntimeError_String(t *testing.T) {
	e := &RuntimeError{Kind: ErrKey, Line: 4, Col: 7, Msg: `missing key: "x"`}
	want := `KeyError at 4:7: missing key: "x"`
	if e.Error() != want {
		t.Fatalf("want %q, got %q", want, e.Error())
	}
}

func Test_Errors_Out_Of_Range_Positions_Are_Clamped(t *testing.T) {
	out := WrapErrorWithSource(&RuntimeError{Kind: ErrRuntime, Line: 99, Col: 99, Msg: "x"}, "one line").Error()
	if !strings.Contains(out, "   1 | one line") {
		t.Fatalf("position clamping failed:\n%s", out)
	}
}
