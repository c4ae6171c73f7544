// interpreter.go — public API surface of the Suvawa runtime.
//
// OVERVIEW
// --------
// This file exposes the entry points a host needs to run Suvawa programs:
//
//   - The Interpreter type with its two well-known environments:
//     Core (builtins, sealed against assignment) and Global (program state).
//   - EvalSource: parse + evaluate in a fresh child of Global (sandboxed —
//     top-level `let`s land in a throwaway frame, Global stays clean).
//   - EvalPersistentSource: parse + evaluate in Global itself (REPL-style;
//     `let` and assignment update persistent state).
//   - EvalProgram: evaluate a pre-parsed AST in an explicit environment,
//     for hosts that control scoping themselves.
//   - Apply: call a function Value from host code.
//   - RegisterNative: install a host callable into Core.
//
// All entry points return (Value, error); on failure the error is a
// structured *LexError, *ParseError, or *RuntimeError carrying a 1-based
// source position. Pretty caret snippets are opt-in via WrapErrorWithSource
// (errors.go). There is no ambient global state: each Interpreter owns its
// environment tree, so independent instances never interfere.
package suvawa

import (
	"fmt"
	"io"
	"os"
)

// Version is the release tag reported by the CLI.
const Version = "0.3.1"

// Interpreter is the entry point for evaluating Suvawa programs.
//
// Core holds builtins and registered natives and is the parent of Global;
// Global holds user-visible program state. Stdout is where print/println
// natives write (os.Stdout unless a host redirects it, e.g. in tests).
type Interpreter struct {
	Core   *Env
	Global *Env
	Stdout io.Writer

	// recursion guards (see eval.go)
	evalDepth int
	callDepth int
}

// NewInterpreter constructs an engine with core natives installed and an
// empty Global (child of Core). Global is sealed so program code cannot
// reassign builtins; shadowing them with `let` remains legal.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{Stdout: os.Stdout}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	ip.Global.SealParentWrites()
	ip.initCore()
	return ip
}

// EvalSource parses and evaluates source in a fresh child of Global.
// Top-level bindings land in that ephemeral child; Global is unchanged.
// The returned Value is the value of the program's final expression
// statement, or null.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.EvalProgram(prog, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates source in Global (REPL-style).
// Effects directly mutate Global.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.EvalProgram(prog, ip.Global)
}

// EvalProgram evaluates a parsed program in the provided environment exactly
// as given. A return/break/continue escaping the top level is a RuntimeError.
func (ip *Interpreter) EvalProgram(prog *Program, env *Env) (Value, error) {
	r := ip.evalStmts(prog.Stmts, env)
	if r.err != nil {
		return Null, r.err
	}
	switch r.sig {
	case ctrlReturn:
		return Null, &RuntimeError{Kind: ErrRuntime, Line: r.sigLine, Col: r.sigCol, Msg: "'return' outside of a function"}
	case ctrlBreak:
		return Null, &RuntimeError{Kind: ErrRuntime, Line: r.sigLine, Col: r.sigCol, Msg: "'break' outside of a loop"}
	case ctrlContinue:
		return Null, &RuntimeError{Kind: ErrRuntime, Line: r.sigLine, Col: r.sigCol, Msg: "'continue' outside of a loop"}
	}
	return r.v, nil
}

// Apply calls a function or native Value with the given arguments. Hosts use
// this to invoke Suvawa callbacks. The arguments must match the callee's
// arity exactly.
func (ip *Interpreter) Apply(fn Value, args []Value) (Value, error) {
	// Synthetic call site; failures inside the body report their own
	// positions.
	site := &CallExpr{at: at{1, 1}}
	var r result
	switch fn.Tag {
	case VTFun:
		r = ip.callFun(site, fn.Data.(*Fun), args)
	case VTNative:
		r = ip.callNative(site, fn.Data.(*NativeFn), args)
	default:
		return Null, &RuntimeError{Kind: ErrType, Line: 1, Col: 1, Msg: fmt.Sprintf("cannot call %s", fn.Tag)}
	}
	if r.err != nil {
		return Null, r.err
	}
	return r.v, nil
}

// RegisterNative installs a host function into Core under name, exposing it
// as a first-class callable to programs. arity is the exact required argument
// count, or -1 for variadic natives. The callable participates in the normal
// arity checks and error discipline.
func (ip *Interpreter) RegisterNative(name string, arity int, impl func(ip *Interpreter, args []Value) (Value, error)) {
	ip.Core.Define(name, NativeVal(&NativeFn{Name: name, Arity: arity, Impl: impl}))
}
