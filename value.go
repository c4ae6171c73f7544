// value.go — the tagged runtime value model.
//
// Value is a small tagged union covering every first-class Suvawa value:
// null, booleans, IEEE-754 numbers, immutable strings, mutable lists, mutable
// maps, user closures, and host-provided natives. The tag determines which
// shape Data holds; constructors below are the only way values are built.
package suvawa

import (
	"fmt"
	"strconv"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull   ValueTag = iota // null (no payload)
	VTBool                   // bool
	VTNum                    // float64 (integral and fractional magnitudes)
	VTStr                    // string (immutable, UTF-8)
	VTList                   // *ListObject (ordered, mutable, 0-indexed)
	VTMap                    // *MapObject (unique keys, mutable)
	VTFun                    // *Fun (closure over its defining environment)
	VTNative                 // *NativeFn (host-provided builtin)
)

func (t ValueTag) String() string {
	switch t {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTList:
		return "list"
	case VTMap:
		return "map"
	case VTFun:
		return "function"
	case VTNative:
		return "native function"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier used by the evaluator.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders a compact debug representation; FormatValue (printer.go)
// renders the user-facing form.
func (v Value) String() string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return fmt.Sprintf("%q", v.Data.(string))
	case VTList:
		return fmt.Sprintf("<list len=%d>", len(v.Data.(*ListObject).Elems))
	case VTMap:
		return "<map>"
	case VTFun:
		return "<fun>"
	case VTNative:
		return fmt.Sprintf("<native %s>", v.Data.(*NativeFn).Name)
	default:
		return "<unknown>"
	}
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ListObject is the mutable backing store of a list value. Lists are shared
// by reference: assigning a list to two names aliases one ListObject.
type ListObject struct {
	Elems []Value
}

// List wraps a slice into a VTList value (the slice is not copied).
func List(xs []Value) Value { return Value{Tag: VTList, Data: &ListObject{Elems: xs}} }

// MapObject is the mutable backing store of a map value. Key order is not
// observable; iteration surfaces (the `for` loop, `keys`) sort keys so program
// behavior stays deterministic.
type MapObject struct {
	Entries map[string]Value
}

// Map wraps a Go map into a VTMap value (the map is not copied).
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Tag: VTMap, Data: &MapObject{Entries: m}}
}

// Fun represents a user-defined function: a closure pairing the parameter
// list and body AST with the environment in force at its definition site.
// That captured environment — not the caller's — becomes the parent of each
// call frame, which is what makes scoping lexical.
type Fun struct {
	Params []string
	Body   *BlockStmt
	Env    *Env
	Name   string // bound name for diagnostics; "" for anonymous literals
}

// FunVal wraps *Fun into a Value (Tag=VTFun).
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// NativeFn is a host-provided callable registered into the Core environment.
// Arity is the exact required argument count, or -1 for variadic natives.
type NativeFn struct {
	Name  string
	Arity int
	Impl  func(ip *Interpreter, args []Value) (Value, error)
}

// NativeVal wraps *NativeFn into a Value (Tag=VTNative).
func NativeVal(f *NativeFn) Value { return Value{Tag: VTNative, Data: f} }

// Truthy applies the single fixed truthiness rule: only null and false are
// falsy. Zero, the empty string, and empty collections are truthy.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNull:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// valuesEqual defines "==" for every pair of tags. Values of different kinds
// are unequal rather than erroring; lists and maps compare by deep structural
// equality; functions compare by identity. Identical containers short-circuit
// on pointer identity, and a seen-pair set keeps the walk finite on cyclic
// values (a pair already under comparison is taken as equal).
func valuesEqual(a, b Value) bool { return valuesEqualSeen(a, b, nil) }

type eqPair struct{ a, b interface{} }

func valuesEqualSeen(a, b Value, seen map[eqPair]bool) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		if a.Data == b.Data {
			return true
		}
		ax := a.Data.(*ListObject).Elems
		bx := b.Data.(*ListObject).Elems
		if len(ax) != len(bx) {
			return false
		}
		if seen == nil {
			seen = make(map[eqPair]bool)
		}
		pair := eqPair{a.Data, b.Data}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		for i := range ax {
			if !valuesEqualSeen(ax[i], bx[i], seen) {
				return false
			}
		}
		return true
	case VTMap:
		if a.Data == b.Data {
			return true
		}
		am := a.Data.(*MapObject).Entries
		bm := b.Data.(*MapObject).Entries
		if len(am) != len(bm) {
			return false
		}
		if seen == nil {
			seen = make(map[eqPair]bool)
		}
		pair := eqPair{a.Data, b.Data}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !valuesEqualSeen(av, bv, seen) {
				return false
			}
		}
		return true
	case VTFun, VTNative:
		return a.Data == b.Data
	default:
		return false
	}
}

// numToIndex converts an integral number to a list index.
func numToIndex(f float64) (int, bool) {
	i := int(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}
