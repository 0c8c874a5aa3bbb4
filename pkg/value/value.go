// Package value defines the runtime values and source-level types of minilang,
// together with the static and dynamic type assertions shared by the
// typechecker and the interpreter.
package value

import (
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNum Kind = iota
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNum:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a tagged union of a number and a boolean.
// The zero Value is the number 0.
//
// Value is comparable, so it can be used directly as a map key
// (switch statements index their cases by Value).
type Value struct {
	kind Kind
	num  float64
	b    bool
}

// Num returns a numeric Value.
func Num(f float64) Value {
	return Value{kind: KindNum, num: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNum reports whether v holds a number.
func (v Value) IsNum() bool { return v.kind == KindNum }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.kind == KindBool }

// AsNum returns the numeric payload. It returns 0 for booleans; callers
// guard with DynamicAssertNum first.
func (v Value) AsNum() float64 { return v.num }

// AsBool returns the boolean payload. It returns false for numbers.
func (v Value) AsBool() bool { return v.b }

// Type returns the source-level type tag of v.
func (v Value) Type() SourceType {
	if v.kind == KindBool {
		return BoolType
	}
	return NumType
}

// Equal reports whether v and other have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindBool {
		return v.b == other.b
	}
	return v.num == other.num
}

// String returns the textual form written by print statements.
func (v Value) String() string {
	if v.kind == KindBool {
		return strconv.FormatBool(v.b)
	}
	return FormatNum(v.num)
}

// FormatNum renders a number in its shortest decimal form.
//
// Example:
//
//	FormatNum(1)           // "1"
//	FormatNum(0.5)         // "0.5"
//	FormatNum(math.Inf(1)) // "Infinity"
func FormatNum(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		// -0 prints as 0
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
