package value

import "fmt"

// SourceType is the static type of an expression: num or bool.
type SourceType string

const (
	NumType  SourceType = "num"
	BoolType SourceType = "bool"
)

// ReturnType is a SourceType extended with void, used for function results.
type ReturnType string

const (
	ReturnNum  ReturnType = "num"
	ReturnBool ReturnType = "bool"
	Void       ReturnType = "void"
)

// Return widens t to a ReturnType.
func (t SourceType) Return() ReturnType { return ReturnType(t) }

func (t SourceType) String() string { return string(t) }

// Source narrows t to a SourceType. ok is false for void.
func (t ReturnType) Source() (SourceType, bool) {
	switch t {
	case ReturnNum:
		return NumType, true
	case ReturnBool:
		return BoolType, true
	default:
		return "", false
	}
}

func (t ReturnType) String() string { return string(t) }

// ParseSourceType converts a type keyword into a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case NumType, BoolType:
		return SourceType(s), nil
	}
	return "", fmt.Errorf("unknown type: %q", s)
}

// ParseReturnType converts a type keyword (including void) into a ReturnType.
func ParseReturnType(s string) (ReturnType, error) {
	switch ReturnType(s) {
	case ReturnNum, ReturnBool, Void:
		return ReturnType(s), nil
	}
	return "", fmt.Errorf("unknown return type: %q", s)
}
