package vm

import (
	"fmt"
	"math"
	"strings"

	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/value"
)

// Rules selects the typing of && and ||.
type Rules int

const (
	// StrictBoolean types && and || as bool x bool -> bool.
	StrictBoolean Rules = iota
	// NumericOverload additionally accepts num x num -> num, computed as
	// bitwise and/or of the operands truncated to integers.
	NumericOverload
)

func (r Rules) String() string {
	if r == NumericOverload {
		return "overload"
	}
	return "strict"
}

// ParseRules parses "strict" or "overload".
func ParseRules(s string) (Rules, error) {
	switch strings.ToLower(s) {
	case "strict":
		return StrictBoolean, nil
	case "overload":
		return NumericOverload, nil
	}
	return StrictBoolean, fmt.Errorf("unknown operator rules: %s (expected strict or overload)", s)
}

func assertNumType(t value.SourceType) error {
	return value.StaticAssertType(value.ReturnNum, t.Return())
}

func assertBoolType(t value.SourceType) error {
	return value.StaticAssertType(value.ReturnBool, t.Return())
}

// binaryType is the static rule of a binary operator.
func (r Rules) binaryType(op ast.BinaryOp, left, right value.SourceType) (value.SourceType, error) {
	switch op {
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDivide, ast.OpExponent:
		if err := assertNumType(left); err != nil {
			return "", err
		}
		if err := assertNumType(right); err != nil {
			return "", err
		}
		return value.NumType, nil

	case ast.OpLessThan:
		if err := assertNumType(left); err != nil {
			return "", err
		}
		if err := assertNumType(right); err != nil {
			return "", err
		}
		return value.BoolType, nil

	case ast.OpEqual:
		if err := value.StaticAssertType(left.Return(), right.Return()); err != nil {
			return "", err
		}
		return value.BoolType, nil

	case ast.OpAnd, ast.OpOr:
		if r == NumericOverload {
			if err := value.StaticAssertType(left.Return(), right.Return()); err != nil {
				return "", err
			}
			return left, nil
		}
		if err := assertBoolType(left); err != nil {
			return "", err
		}
		if err := assertBoolType(right); err != nil {
			return "", err
		}
		return value.BoolType, nil
	}
	return "", fmt.Errorf("unknown binary operator %s", op)
}

// applyBinary is the dynamic rule of a binary operator. Every operand is
// guarded, so running a program that skipped type checking fails with a
// DYNAMIC_TYPE_ERROR instead of producing a value of the wrong kind.
func (r Rules) applyBinary(op ast.BinaryOp, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDivide, ast.OpExponent, ast.OpLessThan:
		if err := value.DynamicAssertNum(left); err != nil {
			return value.Value{}, err
		}
		if err := value.DynamicAssertNum(right); err != nil {
			return value.Value{}, err
		}
		return arithmetic(op, left.AsNum(), right.AsNum()), nil

	case ast.OpEqual:
		if err := value.DynamicAssertSameType(left, right); err != nil {
			return value.Value{}, err
		}
		return value.Bool(left.Equal(right)), nil

	case ast.OpAnd, ast.OpOr:
		if r == NumericOverload && left.IsNum() {
			if err := value.DynamicAssertNum(right); err != nil {
				return value.Value{}, err
			}
			l, rr := int64(left.AsNum()), int64(right.AsNum())
			if op == ast.OpAnd {
				return value.Num(float64(l & rr)), nil
			}
			return value.Num(float64(l | rr)), nil
		}
		if err := value.DynamicAssertBool(left); err != nil {
			return value.Value{}, err
		}
		if err := value.DynamicAssertBool(right); err != nil {
			return value.Value{}, err
		}
		if op == ast.OpAnd {
			return value.Bool(left.AsBool() && right.AsBool()), nil
		}
		return value.Bool(left.AsBool() || right.AsBool()), nil
	}
	return value.Value{}, fmt.Errorf("unknown binary operator %s", op)
}

func arithmetic(op ast.BinaryOp, l, r float64) value.Value {
	switch op {
	case ast.OpPlus:
		return value.Num(l + r)
	case ast.OpMinus:
		return value.Num(l - r)
	case ast.OpTimes:
		return value.Num(l * r)
	case ast.OpDivide:
		return value.Num(l / r)
	case ast.OpExponent:
		return value.Num(math.Pow(l, r))
	default: // ast.OpLessThan
		return value.Bool(l < r)
	}
}

// unaryType is the static rule of a prefix operator.
func unaryType(op ast.UnaryOp, sub value.SourceType) (value.SourceType, error) {
	if op == ast.OpNot {
		if err := assertBoolType(sub); err != nil {
			return "", err
		}
		return value.BoolType, nil
	}
	if err := assertNumType(sub); err != nil {
		return "", err
	}
	return value.NumType, nil
}

// applyUnary is the dynamic rule of a prefix operator.
func applyUnary(op ast.UnaryOp, sub value.Value) (value.Value, error) {
	if op == ast.OpNot {
		if err := value.DynamicAssertBool(sub); err != nil {
			return value.Value{}, err
		}
		return value.Bool(!sub.AsBool()), nil
	}
	if err := value.DynamicAssertNum(sub); err != nil {
		return value.Value{}, err
	}
	return value.Num(-sub.AsNum()), nil
}

// dynamicAssertType guards a value crossing a typed boundary (parameter,
// return value) when the program was not type checked first.
func dynamicAssertType(t value.SourceType, v value.Value) error {
	if t == value.BoolType {
		return value.DynamicAssertBool(v)
	}
	return value.DynamicAssertNum(v)
}
