// printer_test.go
package suvawa

import "testing"

func fmtSrc(t *testing.T, src string) string {
	t.Helper()
	return FormatValue(evalSrc(t, src))
}

func Test_Printer_Scalars(t *testing.T) {
	cases := []struct{ src, want string }{
		{"null", "null"},
		{"true", "true"},
		{"false", "false"},
		{"42", "42"},
		{"-0.5", "-0.5"},
		{"1 / 3", "0.3333333333333333"},
		{"1e21", "1e+21"},
		{`"hi"`, `"hi"`},
		{`"tab\there"`, `"tab\there"`},
	}
	for _, c := range cases {
		if got := fmtSrc(t, c.src); got != c.want {
			t.Fatalf("%s: want %s, got %s", c.src, c.want, got)
		}
	}
}

func Test_Printer_Number_Integral_Drops_Fraction(t *testing.T) {
	if got := FormatNumber(3.0); got != "3" {
		t.Fatalf("want 3, got %s", got)
	}
	if got := FormatNumber(-7.0); got != "-7" {
		t.Fatalf("want -7, got %s", got)
	}
	if got := FormatNumber(2.5); got != "2.5" {
		t.Fatalf("want 2.5, got %s", got)
	}
}

func Test_Printer_Composites(t *testing.T) {
	cases := []struct{ src, want string }{
		{"[]", "[]"},
		{`[1, "a", [true]]`, `[1, "a", [true]]`},
		{"{}", "{}"},
		{`{b: 2, a: 1}`, "{a: 1, b: 2}"},              // keys sorted
		{`{"not an id": 1}`, `{"not an id": 1}`},      // quoted when not bare
		{`{"if": 1}`, `{"if": 1}`},                    // keywords never bare
		{`{nested: {x: [1, 2]}}`, "{nested: {x: [1, 2]}}"},
	}
	for _, c := range cases {
		if got := fmtSrc(t, c.src); got != c.want {
			t.Fatalf("%s: want %s, got %s", c.src, c.want, got)
		}
	}
}

func Test_Printer_Functions(t *testing.T) {
	if got := fmtSrc(t, "fun f() end\nf"); got != "<fun f>" {
		t.Fatalf("got %s", got)
	}
	if got := fmtSrc(t, "fun() end"); got != "<fun>" {
		t.Fatalf("got %s", got)
	}
	if got := fmtSrc(t, "len"); got != "<native len>" {
		t.Fatalf("got %s", got)
	}
}

func Test_Printer_Cyclic_Containers(t *testing.T) {
	src := `
let l = [1]
push(l, l)
l
`
	if got := fmtSrc(t, src); got != "[1, [...]]" {
		t.Fatalf("got %s", got)
	}

	src = `
let m = {}
m.self = m
m
`
	if got := fmtSrc(t, src); got != "{self: {...}}" {
		t.Fatalf("got %s", got)
	}
}

func Test_Printer_Shared_NonCyclic_Values_Render_Fully(t *testing.T) {
	// The same list appearing twice without a cycle prints twice.
	src := `
let inner = [1]
[inner, inner]
`
	if got := fmtSrc(t, src); got != "[[1], [1]]" {
		t.Fatalf("got %s", got)
	}
}
