// builtin_core.go — the standard natives installed into Core.
//
// Natives are ordinary NativeFn values registered by initCore during
// interpreter construction. They live in the Core environment (parent of
// Global), so every program and REPL session sees them; Global is sealed, so
// programs cannot reassign them, though `let` may shadow them locally.
// Failures are returned as *RuntimeError without a position — the call
// machinery stamps the call site in (see callNative in eval.go).
package suvawa

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

func rtErr(kind ErrorKind, format string, a ...interface{}) error {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

func (ip *Interpreter) initCore() {
	ip.RegisterNative("print", -1, nativePrint)
	ip.RegisterNative("println", -1, nativePrintln)
	ip.RegisterNative("len", 1, nativeLen)
	ip.RegisterNative("str", 1, nativeStr)
	ip.RegisterNative("num", 1, nativeNum)
	ip.RegisterNative("type", 1, nativeType)
	ip.RegisterNative("push", 2, nativePush)
	ip.RegisterNative("pop", 1, nativePop)
	ip.RegisterNative("keys", 1, nativeKeys)
	ip.RegisterNative("has", 2, nativeHas)
	ip.RegisterNative("del", 2, nativeDel)
	ip.RegisterNative("range", -1, nativeRange)
	ip.RegisterNative("clock", 0, nativeClock)
	ip.RegisterNative("abs", 1, nativeAbs)
	ip.RegisterNative("floor", 1, nativeFloor)
	ip.RegisterNative("ceil", 1, nativeCeil)
}

// print writes its arguments separated by single spaces, no newline.
// Strings print raw (unquoted); everything else uses FormatValue.
func nativePrint(ip *Interpreter, args []Value) (Value, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, displayString(a))
	}
	fmt.Fprint(ip.Stdout, strings.Join(parts, " "))
	return Null, nil
}

func nativePrintln(ip *Interpreter, args []Value) (Value, error) {
	if _, err := nativePrint(ip, args); err != nil {
		return Null, err
	}
	fmt.Fprintln(ip.Stdout)
	return Null, nil
}

func displayString(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return FormatValue(v)
}

func nativeLen(_ *Interpreter, args []Value) (Value, error) {
	switch args[0].Tag {
	case VTStr:
		return Num(float64(len([]rune(args[0].Data.(string))))), nil
	case VTList:
		return Num(float64(len(args[0].Data.(*ListObject).Elems))), nil
	case VTMap:
		return Num(float64(len(args[0].Data.(*MapObject).Entries))), nil
	}
	return Null, rtErr(ErrType, "len expects a string, list, or map, got %s", args[0].Tag)
}

func nativeStr(_ *Interpreter, args []Value) (Value, error) {
	return Str(displayString(args[0])), nil
}

// num converts a string to a number; numbers pass through unchanged.
func nativeNum(_ *Interpreter, args []Value) (Value, error) {
	switch args[0].Tag {
	case VTNum:
		return args[0], nil
	case VTStr:
		s := strings.TrimSpace(args[0].Data.(string))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Null, rtErr(ErrType, "num: cannot parse %q as a number", s)
		}
		return Num(f), nil
	}
	return Null, rtErr(ErrType, "num expects a string or number, got %s", args[0].Tag)
}

func nativeType(_ *Interpreter, args []Value) (Value, error) {
	return Str(args[0].Tag.String()), nil
}

// push appends in place and returns the list.
func nativePush(_ *Interpreter, args []Value) (Value, error) {
	if args[0].Tag != VTList {
		return Null, rtErr(ErrType, "push expects a list, got %s", args[0].Tag)
	}
	lo := args[0].Data.(*ListObject)
	lo.Elems = append(lo.Elems, args[1])
	return args[0], nil
}

// pop removes and returns the last element.
func nativePop(_ *Interpreter, args []Value) (Value, error) {
	if args[0].Tag != VTList {
		return Null, rtErr(ErrType, "pop expects a list, got %s", args[0].Tag)
	}
	lo := args[0].Data.(*ListObject)
	if len(lo.Elems) == 0 {
		return Null, rtErr(ErrIndex, "pop from empty list")
	}
	last := lo.Elems[len(lo.Elems)-1]
	lo.Elems = lo.Elems[:len(lo.Elems)-1]
	return last, nil
}

// keys returns the map's keys as a sorted list of strings.
func nativeKeys(_ *Interpreter, args []Value) (Value, error) {
	if args[0].Tag != VTMap {
		return Null, rtErr(ErrType, "keys expects a map, got %s", args[0].Tag)
	}
	entries := args[0].Data.(*MapObject).Entries
	ks := make([]string, 0, len(entries))
	for k := range entries {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	out := make([]Value, 0, len(ks))
	for _, k := range ks {
		out = append(out, Str(k))
	}
	return List(out), nil
}

func nativeHas(_ *Interpreter, args []Value) (Value, error) {
	if args[0].Tag != VTMap {
		return Null, rtErr(ErrType, "has expects a map, got %s", args[0].Tag)
	}
	if args[1].Tag != VTStr {
		return Null, rtErr(ErrType, "has expects a string key, got %s", args[1].Tag)
	}
	_, exists := args[0].Data.(*MapObject).Entries[args[1].Data.(string)]
	return Bool(exists), nil
}

// del removes a key, reporting whether it was present.
func nativeDel(_ *Interpreter, args []Value) (Value, error) {
	if args[0].Tag != VTMap {
		return Null, rtErr(ErrType, "del expects a map, got %s", args[0].Tag)
	}
	if args[1].Tag != VTStr {
		return Null, rtErr(ErrType, "del expects a string key, got %s", args[1].Tag)
	}
	entries := args[0].Data.(*MapObject).Entries
	key := args[1].Data.(string)
	_, exists := entries[key]
	delete(entries, key)
	return Bool(exists), nil
}

// range(stop) or range(start, stop): integers start..stop-1 as a list.
func nativeRange(_ *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return Null, rtErr(ErrArity, "range expects 1 or 2 argument(s), got %d", len(args))
	}
	bound := func(v Value) (int, error) {
		if v.Tag != VTNum {
			return 0, rtErr(ErrType, "range expects numbers, got %s", v.Tag)
		}
		i, isInt := numToIndex(v.Data.(float64))
		if !isInt {
			return 0, rtErr(ErrType, "range expects integers, got %s", v.String())
		}
		return i, nil
	}
	start := 0
	var stop int
	var err error
	if len(args) == 1 {
		stop, err = bound(args[0])
	} else {
		start, err = bound(args[0])
		if err == nil {
			stop, err = bound(args[1])
		}
	}
	if err != nil {
		return Null, err
	}
	var out []Value
	for i := start; i < stop; i++ {
		out = append(out, Num(float64(i)))
	}
	return List(out), nil
}

// clock returns seconds since the Unix epoch as a fractional number.
func nativeClock(_ *Interpreter, args []Value) (Value, error) {
	return Num(float64(time.Now().UnixNano()) / 1e9), nil
}

func oneNumber(name string, args []Value) (float64, error) {
	if args[0].Tag != VTNum {
		return 0, rtErr(ErrType, "%s expects a number, got %s", name, args[0].Tag)
	}
	return args[0].Data.(float64), nil
}

func nativeAbs(_ *Interpreter, args []Value) (Value, error) {
	f, err := oneNumber("abs", args)
	if err != nil {
		return Null, err
	}
	return Num(math.Abs(f)), nil
}

func nativeFloor(_ *Interpreter, args []Value) (Value, error) {
	f, err := oneNumber("floor", args)
	if err != nil {
		return Null, err
	}
	return Num(math.Floor(f)), nil
}

func nativeCeil(_ *Interpreter, args []Value) (Value, error) {
	f, err := oneNumber("ceil", args)
	if err != nil {
		return Null, err
	}
	return Num(math.Ceil(f)), nil
}
