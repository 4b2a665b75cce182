package evaluator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KString Kind = iota
	KInt
	KFloat
	KBool
	KList
)

// Value is the target AST's element type: a closed sum of string, 64-bit
// integer, IEEE-754 double, boolean, or a nested list of Value. This
// replaces the dynamically-typed container the reference implementation
// uses with an exhaustive, JSON-serialisable Go type.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
	List []Value
}

func Str(s string) Value    { return Value{Kind: KString, Str: s} }
func Int(i int64) Value     { return Value{Kind: KInt, Int: i} }
func Float(f float64) Value { return Value{Kind: KFloat, Flt: f} }
func Bool(b bool) Value     { return Value{Kind: KBool, Bool: b} }

func List(items ...Value) Value {
	return Value{Kind: KList, List: items}
}

// AsString returns the value's string form, valid for KString.
func (v Value) AsString() string { return v.Str }

// String renders a human-readable form, used for terminal display rather
// than wire serialisation (see MarshalJSON for that).
func (v Value) String() string {
	switch v.Kind {
	case KString:
		return v.Str
	case KInt:
		return strconv.FormatInt(v.Int, 10)
	case KFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case KBool:
		return strconv.FormatBool(v.Bool)
	case KList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KString:
		return json.Marshal(v.Str)
	case KInt:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case KFloat:
		return json.Marshal(v.Flt)
	case KBool:
		return json.Marshal(v.Bool)
	case KList:
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}
