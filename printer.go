// printer.go — user-facing rendering of runtime values.
//
// FormatValue is what the REPL echoes and what `str`/`print` use for
// non-string values. Numbers render without a trailing ".0" when integral,
// strings are double-quoted with escapes inside composites, map keys are
// sorted so output is deterministic, and self-referencing containers render
// as "..." instead of recursing forever.
package suvawa

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatValue renders v in Suvawa literal syntax.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v, map[interface{}]bool{})
	return b.String()
}

// FormatNumber renders a number the way the language prints it: integral
// values without a fractional part, everything else in shortest form.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func writeValue(b *strings.Builder, v Value, seen map[interface{}]bool) {
	switch v.Tag {
	case VTNull:
		b.WriteString("null")
	case VTBool:
		b.WriteString(strconv.FormatBool(v.Data.(bool)))
	case VTNum:
		b.WriteString(FormatNumber(v.Data.(float64)))
	case VTStr:
		b.WriteString(strconv.Quote(v.Data.(string)))
	case VTList:
		lo := v.Data.(*ListObject)
		if seen[lo] {
			b.WriteString("[...]")
			return
		}
		seen[lo] = true
		b.WriteByte('[')
		for i, el := range lo.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el, seen)
		}
		b.WriteByte(']')
		delete(seen, lo)
	case VTMap:
		mo := v.Data.(*MapObject)
		if seen[mo] {
			b.WriteString("{...}")
			return
		}
		seen[mo] = true
		keys := make([]string, 0, len(mo.Entries))
		for k := range mo.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			if isBareKey(k) {
				b.WriteString(k)
			} else {
				b.WriteString(strconv.Quote(k))
			}
			b.WriteString(": ")
			writeValue(b, mo.Entries[k], seen)
		}
		b.WriteByte('}')
		delete(seen, mo)
	case VTFun:
		f := v.Data.(*Fun)
		if f.Name != "" {
			fmt.Fprintf(b, "<fun %s>", f.Name)
		} else {
			b.WriteString("<fun>")
		}
	case VTNative:
		fmt.Fprintf(b, "<native %s>", v.Data.(*NativeFn).Name)
	default:
		b.WriteString("<unknown>")
	}
}

// isBareKey reports whether k can render unquoted in map syntax.
func isBareKey(k string) bool {
	if k == "" {
		return false
	}
	if !isAlpha(k[0]) {
		return false
	}
	for i := 1; i < len(k); i++ {
		if !isAlphaNum(k[i]) {
			return false
		}
	}
	_, reserved := keywords[k]
	return !reserved
}
