// eval.go — the tree-walking evaluator.
//
// OVERVIEW
// --------
// Evaluation walks the typed AST (ast.go) against an environment chain
// (env.go) and produces a `result`: exactly one of a plain Value, a runtime
// error, or a control-flow signal (return/break/continue). Signals are plain
// data, not panics: every evaluation step checks `done()` and propagates a
// non-value result unchanged until it reaches the construct that consumes it —
// the function-call boundary for return, the nearest enclosing loop for
// break/continue. A signal that escapes past every handler is a RuntimeError
// (malformed program, e.g. `return` at top level).
//
// Call semantics: callee and arguments evaluate left to right before
// invocation; the argument count must match the parameter count exactly
// (ArityError otherwise); the new call frame's parent is the closure's
// captured defining environment, never the caller's frame. A body that
// completes without `return` yields null.
//
// Two explicit counters bound recursion so pathological programs fail with
// StackOverflowError instead of corrupting the host stack: `evalDepth` (AST
// nesting) and `callDepth` (function calls).
package suvawa

import (
	"fmt"
	"math"
	"sort"
)

const (
	maxEvalDepth = 20000
	maxCallDepth = 1000
)

// ctrl is the control-flow signal kind carried by a result.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// result is the single evaluation outcome type. Invariant: at most one of
// (sig != ctrlNone, err != nil) holds; when both are zero the result is the
// Value in v. sigLine/sigCol remember where a break/continue/return was
// raised, for diagnostics when it escapes every handler.
type result struct {
	v       Value
	sig     ctrl
	err     *RuntimeError
	sigLine int
	sigCol  int
}

// done reports whether r must be propagated instead of used as a value.
func (r result) done() bool { return r.sig != ctrlNone || r.err != nil }

func ok(v Value) result { return result{v: v} }

func errAt(n Node, kind ErrorKind, format string, a ...interface{}) result {
	line, col := n.Pos()
	return result{err: &RuntimeError{Kind: kind, Line: line, Col: col, Msg: fmt.Sprintf(format, a...)}}
}

// ───────────────────────────────── statements ──────────────────────────────

func (ip *Interpreter) evalStmt(s Stmt, env *Env) result {
	ip.evalDepth++
	defer func() { ip.evalDepth-- }()
	if ip.evalDepth > maxEvalDepth {
		return errAt(s, ErrStackOverflow, "evaluation nesting exceeds %d", maxEvalDepth)
	}

	switch n := s.(type) {
	case *LetStmt:
		r := ip.evalExpr(n.Value, env)
		if r.done() {
			return r
		}
		env.Define(n.Name, r.v)
		return ok(Null)

	case *ExprStmt:
		return ip.evalExpr(n.X, env)

	case *BlockStmt:
		return ip.evalStmts(n.Stmts, NewEnv(env))

	case *IfStmt:
		c := ip.evalExpr(n.Cond, env)
		if c.done() {
			return c
		}
		if Truthy(c.v) {
			return ip.evalStmts(n.Then.Stmts, NewEnv(env))
		}
		if n.Else != nil {
			switch alt := n.Else.(type) {
			case *BlockStmt:
				return ip.evalStmts(alt.Stmts, NewEnv(env))
			default:
				return ip.evalStmt(alt, env) // elif chain
			}
		}
		return ok(Null)

	case *WhileStmt:
		for {
			c := ip.evalExpr(n.Cond, env)
			if c.done() {
				return c
			}
			if !Truthy(c.v) {
				return ok(Null)
			}
			r := ip.evalStmts(n.Body.Stmts, NewEnv(env))
			switch r.sig {
			case ctrlBreak:
				return ok(Null)
			case ctrlContinue:
				continue
			}
			if r.done() {
				return r
			}
		}

	case *ForStmt:
		return ip.evalFor(n, env)

	case *FunStmt:
		env.Define(n.Name, FunVal(&Fun{
			Params: n.Fn.Params,
			Body:   n.Fn.Body,
			Env:    env,
			Name:   n.Name,
		}))
		return ok(Null)

	case *ReturnStmt:
		v := Null
		if n.Value != nil {
			r := ip.evalExpr(n.Value, env)
			if r.done() {
				return r
			}
			v = r.v
		}
		line, col := n.Pos()
		return result{v: v, sig: ctrlReturn, sigLine: line, sigCol: col}

	case *BreakStmt:
		line, col := n.Pos()
		return result{sig: ctrlBreak, sigLine: line, sigCol: col}

	case *ContinueStmt:
		line, col := n.Pos()
		return result{sig: ctrlContinue, sigLine: line, sigCol: col}

	default:
		return errAt(s, ErrRuntime, "unhandled statement %T", s)
	}
}

// evalStmts runs a statement sequence in env. The value of the sequence is
// the value of its final expression statement (null for anything else), which
// is what the REPL prints.
func (ip *Interpreter) evalStmts(stmts []Stmt, env *Env) result {
	last := Null
	for _, s := range stmts {
		r := ip.evalStmt(s, env)
		if r.done() {
			return r
		}
		if _, isExpr := s.(*ExprStmt); isExpr {
			last = r.v
		} else {
			last = Null
		}
	}
	return ok(last)
}

// evalFor iterates lists by element, strings by rune, and maps by sorted key.
// The loop variable is bound in a fresh frame per iteration so closures
// created in the body capture per-iteration values.
func (ip *Interpreter) evalFor(n *ForStmt, env *Env) result {
	it := ip.evalExpr(n.Iter, env)
	if it.done() {
		return it
	}

	var items []Value
	switch it.v.Tag {
	case VTList:
		items = it.v.Data.(*ListObject).Elems
	case VTStr:
		for _, r := range it.v.Data.(string) {
			items = append(items, Str(string(r)))
		}
	case VTMap:
		entries := it.v.Data.(*MapObject).Entries
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			items = append(items, Str(k))
		}
	default:
		return errAt(n.Iter, ErrType, "cannot iterate over %s", it.v.Tag)
	}

	for _, item := range items {
		frame := NewEnv(env)
		frame.Define(n.Name, item)
		r := ip.evalStmts(n.Body.Stmts, frame)
		switch r.sig {
		case ctrlBreak:
			return ok(Null)
		case ctrlContinue:
			continue
		}
		if r.done() {
			return r
		}
	}
	return ok(Null)
}

// ──────────────────────────────── expressions ──────────────────────────────

func (ip *Interpreter) evalExpr(e Expr, env *Env) result {
	ip.evalDepth++
	defer func() { ip.evalDepth-- }()
	if ip.evalDepth > maxEvalDepth {
		return errAt(e, ErrStackOverflow, "evaluation nesting exceeds %d", maxEvalDepth)
	}

	switch n := e.(type) {
	case *NumberLit:
		return ok(Num(n.Value))
	case *StringLit:
		return ok(Str(n.Value))
	case *BoolLit:
		return ok(Bool(n.Value))
	case *NullLit:
		return ok(Null)

	case *Ident:
		v, err := env.Get(n.Name)
		if err != nil {
			return errAt(n, ErrUndefinedVariable, "undefined variable: %s", n.Name)
		}
		return ok(v)

	case *UnaryExpr:
		r := ip.evalExpr(n.Right, env)
		if r.done() {
			return r
		}
		switch n.Op {
		case "-":
			if r.v.Tag != VTNum {
				return errAt(n, ErrType, "unary '-' requires a number, got %s", r.v.Tag)
			}
			return ok(Num(-r.v.Data.(float64)))
		case "not":
			return ok(Bool(!Truthy(r.v)))
		}
		return errAt(n, ErrRuntime, "unknown unary operator %q", n.Op)

	case *BinaryExpr:
		l := ip.evalExpr(n.Left, env)
		if l.done() {
			return l
		}
		r := ip.evalExpr(n.Right, env)
		if r.done() {
			return r
		}
		return ip.evalBinary(n, l.v, r.v)

	case *LogicalExpr:
		l := ip.evalExpr(n.Left, env)
		if l.done() {
			return l
		}
		// Short-circuit: the right operand is not evaluated when the left
		// already decides the outcome.
		if n.Op == "and" {
			if !Truthy(l.v) {
				return l
			}
		} else {
			if Truthy(l.v) {
				return l
			}
		}
		return ip.evalExpr(n.Right, env)

	case *AssignExpr:
		return ip.evalAssign(n, env)

	case *CallExpr:
		return ip.evalCall(n, env)

	case *IndexExpr:
		return ip.evalIndex(n, env)

	case *GetExpr:
		obj := ip.evalExpr(n.Obj, env)
		if obj.done() {
			return obj
		}
		if obj.v.Tag != VTMap {
			return errAt(n, ErrType, "member access requires a map, got %s", obj.v.Tag)
		}
		v, exists := obj.v.Data.(*MapObject).Entries[n.Name]
		if !exists {
			return errAt(n, ErrKey, "missing key: %q", n.Name)
		}
		return ok(v)

	case *FunLit:
		return ok(FunVal(&Fun{Params: n.Params, Body: n.Body, Env: env}))

	case *ListLit:
		elems := make([]Value, 0, len(n.Elems))
		for _, el := range n.Elems {
			r := ip.evalExpr(el, env)
			if r.done() {
				return r
			}
			elems = append(elems, r.v)
		}
		return ok(List(elems))

	case *MapLit:
		entries := make(map[string]Value, len(n.Keys))
		for i, k := range n.Keys {
			r := ip.evalExpr(n.Values[i], env)
			if r.done() {
				return r
			}
			entries[k] = r.v
		}
		return ok(Map(entries))

	default:
		return errAt(e, ErrRuntime, "unhandled expression %T", e)
	}
}

// ─────────────────────────────── operators ─────────────────────────────────

func (ip *Interpreter) evalBinary(n *BinaryExpr, l, r Value) result {
	switch n.Op {
	case "+":
		switch {
		case l.Tag == VTNum && r.Tag == VTNum:
			return ok(Num(l.Data.(float64) + r.Data.(float64)))
		case l.Tag == VTStr && r.Tag == VTStr:
			return ok(Str(l.Data.(string) + r.Data.(string)))
		case l.Tag == VTList && r.Tag == VTList:
			lx := l.Data.(*ListObject).Elems
			rx := r.Data.(*ListObject).Elems
			out := make([]Value, 0, len(lx)+len(rx))
			out = append(out, lx...)
			out = append(out, rx...)
			return ok(List(out))
		}
		return errAt(n, ErrType, "'+' requires two numbers, two strings, or two lists, got %s and %s", l.Tag, r.Tag)

	case "-", "*", "/", "%":
		if l.Tag != VTNum || r.Tag != VTNum {
			return errAt(n, ErrType, "'%s' requires two numbers, got %s and %s", n.Op, l.Tag, r.Tag)
		}
		a, b := l.Data.(float64), r.Data.(float64)
		switch n.Op {
		case "-":
			return ok(Num(a - b))
		case "*":
			return ok(Num(a * b))
		case "/":
			if b == 0 {
				return errAt(n, ErrDivisionByZero, "division by zero")
			}
			return ok(Num(a / b))
		default: // "%"
			if b == 0 {
				return errAt(n, ErrDivisionByZero, "modulo by zero")
			}
			return ok(Num(math.Mod(a, b)))
		}

	case "==":
		return ok(Bool(valuesEqual(l, r)))
	case "!=":
		return ok(Bool(!valuesEqual(l, r)))

	case "<", "<=", ">", ">=":
		switch {
		case l.Tag == VTNum && r.Tag == VTNum:
			a, b := l.Data.(float64), r.Data.(float64)
			return ok(Bool(compareOrd(n.Op, a < b, a == b)))
		case l.Tag == VTStr && r.Tag == VTStr:
			a, b := l.Data.(string), r.Data.(string)
			return ok(Bool(compareOrd(n.Op, a < b, a == b)))
		}
		return errAt(n, ErrType, "'%s' requires two numbers or two strings, got %s and %s", n.Op, l.Tag, r.Tag)
	}
	return errAt(n, ErrRuntime, "unknown binary operator %q", n.Op)
}

func compareOrd(op string, less, eq bool) bool {
	switch op {
	case "<":
		return less
	case "<=":
		return less || eq
	case ">":
		return !less && !eq
	default: // ">="
		return !less
	}
}

// ─────────────────────────────── assignment ────────────────────────────────

func (ip *Interpreter) evalAssign(n *AssignExpr, env *Env) result {
	val := ip.evalExpr(n.Value, env)
	if val.done() {
		return val
	}

	switch target := n.Target.(type) {
	case *Ident:
		if err := env.Set(target.Name, val.v); err != nil {
			if _, getErr := env.Get(target.Name); getErr == nil {
				// Name is visible but not writable (sealed Core builtin).
				return errAt(target, ErrRuntime, "cannot assign to builtin: %s", target.Name)
			}
			return errAt(target, ErrUndefinedVariable, "undefined variable: %s", target.Name)
		}
		return ok(val.v)

	case *IndexExpr:
		obj := ip.evalExpr(target.Obj, env)
		if obj.done() {
			return obj
		}
		idx := ip.evalExpr(target.Index, env)
		if idx.done() {
			return idx
		}
		switch obj.v.Tag {
		case VTList:
			elems := obj.v.Data.(*ListObject).Elems
			i, isInt := indexOf(idx.v)
			if !isInt {
				return errAt(target, ErrIndex, "list index must be an integer, got %s", idx.v.String())
			}
			if i < 0 || i >= len(elems) {
				return errAt(target, ErrIndex, "index %d out of range [0, %d)", i, len(elems))
			}
			elems[i] = val.v
			return ok(val.v)
		case VTMap:
			if idx.v.Tag != VTStr {
				return errAt(target, ErrType, "map key must be a string, got %s", idx.v.Tag)
			}
			obj.v.Data.(*MapObject).Entries[idx.v.Data.(string)] = val.v
			return ok(val.v)
		}
		return errAt(target, ErrType, "cannot index-assign into %s", obj.v.Tag)

	case *GetExpr:
		obj := ip.evalExpr(target.Obj, env)
		if obj.done() {
			return obj
		}
		if obj.v.Tag != VTMap {
			return errAt(target, ErrType, "member assignment requires a map, got %s", obj.v.Tag)
		}
		obj.v.Data.(*MapObject).Entries[target.Name] = val.v
		return ok(val.v)
	}
	return errAt(n, ErrRuntime, "invalid assignment target")
}

// ───────────────────────────── calls & indexing ────────────────────────────

func (ip *Interpreter) evalCall(n *CallExpr, env *Env) result {
	callee := ip.evalExpr(n.Callee, env)
	if callee.done() {
		return callee
	}

	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		r := ip.evalExpr(a, env)
		if r.done() {
			return r
		}
		args = append(args, r.v)
	}

	switch callee.v.Tag {
	case VTFun:
		return ip.callFun(n, callee.v.Data.(*Fun), args)
	case VTNative:
		return ip.callNative(n, callee.v.Data.(*NativeFn), args)
	}
	return errAt(n, ErrType, "cannot call %s", callee.v.Tag)
}

func (ip *Interpreter) callFun(n *CallExpr, f *Fun, args []Value) result {
	if len(args) != len(f.Params) {
		name := f.Name
		if name == "" {
			name = "function"
		}
		return errAt(n, ErrArity, "%s expects %d argument(s), got %d", name, len(f.Params), len(args))
	}
	if ip.callDepth >= maxCallDepth {
		return errAt(n, ErrStackOverflow, "call depth exceeds %d", maxCallDepth)
	}
	ip.callDepth++
	defer func() { ip.callDepth-- }()

	// Lexical scoping: the frame's parent is the closure's defining
	// environment, not the caller's.
	frame := NewEnv(f.Env)
	for i, p := range f.Params {
		frame.Define(p, args[i])
	}

	r := ip.evalStmts(f.Body.Stmts, frame)
	switch r.sig {
	case ctrlReturn:
		return ok(r.v)
	case ctrlBreak:
		return result{err: &RuntimeError{Kind: ErrRuntime, Line: r.sigLine, Col: r.sigCol, Msg: "'break' outside of a loop"}}
	case ctrlContinue:
		return result{err: &RuntimeError{Kind: ErrRuntime, Line: r.sigLine, Col: r.sigCol, Msg: "'continue' outside of a loop"}}
	}
	if r.err != nil {
		return r
	}
	// Body completed without an explicit return.
	return ok(Null)
}

func (ip *Interpreter) callNative(n *CallExpr, f *NativeFn, args []Value) result {
	if f.Arity >= 0 && len(args) != f.Arity {
		return errAt(n, ErrArity, "%s expects %d argument(s), got %d", f.Name, f.Arity, len(args))
	}
	v, err := f.Impl(ip, args)
	if err != nil {
		if re, isRT := err.(*RuntimeError); isRT {
			if re.Line == 0 {
				re.Line, re.Col = n.Pos()
			}
			return result{err: re}
		}
		line, col := n.Pos()
		return result{err: &RuntimeError{Kind: ErrRuntime, Line: line, Col: col, Msg: fmt.Sprintf("%s: %v", f.Name, err)}}
	}
	return ok(v)
}

func indexOf(v Value) (int, bool) {
	if v.Tag != VTNum {
		return 0, false
	}
	return numToIndex(v.Data.(float64))
}

func (ip *Interpreter) evalIndex(n *IndexExpr, env *Env) result {
	obj := ip.evalExpr(n.Obj, env)
	if obj.done() {
		return obj
	}
	idx := ip.evalExpr(n.Index, env)
	if idx.done() {
		return idx
	}

	switch obj.v.Tag {
	case VTList:
		elems := obj.v.Data.(*ListObject).Elems
		if idx.v.Tag != VTNum {
			return errAt(n, ErrType, "list index must be a number, got %s", idx.v.Tag)
		}
		i, isInt := numToIndex(idx.v.Data.(float64))
		if !isInt {
			return errAt(n, ErrIndex, "list index must be an integer, got %s", idx.v.String())
		}
		if i < 0 || i >= len(elems) {
			return errAt(n, ErrIndex, "index %d out of range [0, %d)", i, len(elems))
		}
		return ok(elems[i])

	case VTStr:
		s := idx.v
		if s.Tag != VTNum {
			return errAt(n, ErrType, "string index must be a number, got %s", s.Tag)
		}
		i, isInt := numToIndex(s.Data.(float64))
		if !isInt {
			return errAt(n, ErrIndex, "string index must be an integer, got %s", s.String())
		}
		runes := []rune(obj.v.Data.(string))
		if i < 0 || i >= len(runes) {
			return errAt(n, ErrIndex, "index %d out of range [0, %d)", i, len(runes))
		}
		return ok(Str(string(runes[i])))

	case VTMap:
		if idx.v.Tag != VTStr {
			return errAt(n, ErrType, "map key must be a string, got %s", idx.v.Tag)
		}
		key := idx.v.Data.(string)
		v, exists := obj.v.Data.(*MapObject).Entries[key]
		if !exists {
			return errAt(n, ErrKey, "missing key: %q", key)
		}
		return ok(v)
	}
	return errAt(n, ErrType, "cannot index into %s", obj.v.Tag)
}
