package ast

import (
	"strings"

	"github.com/zurustar/minilang/pkg/value"
)

// NumLeaf is a numeric literal.
type NumLeaf struct {
	Value float64
}

// BoolLeaf is a boolean literal.
type BoolLeaf struct {
	Value bool
}

// VarLeaf is a variable reference.
type VarLeaf struct {
	Name string
}

// InputExpr requests one value of Type from the input source.
type InputExpr struct {
	Type value.SourceType
}

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp int

const (
	OpPlus BinaryOp = iota
	OpMinus
	OpTimes
	OpDivide
	OpExponent
	OpAnd
	OpOr
	OpEqual
	OpLessThan
)

var binaryOpSymbols = map[BinaryOp]string{
	OpPlus:     "+",
	OpMinus:    "-",
	OpTimes:    "*",
	OpDivide:   "/",
	OpExponent: "^",
	OpAnd:      "&&",
	OpOr:       "||",
	OpEqual:    "==",
	OpLessThan: "<",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return "?"
}

// BinaryExpr applies a binary operator. Left is always evaluated before Right.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// UnaryOp is the operator of a UnaryExpr.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op  UnaryOp
	Sub Expr
}

// CallExpr calls a non-void function and uses its result.
type CallExpr struct {
	Func string
	Args []Expr
}

func (*NumLeaf) exprNode()    {}
func (*BoolLeaf) exprNode()   {}
func (*VarLeaf) exprNode()    {}
func (*InputExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}

func (n *NumLeaf) String() string   { return value.FormatNum(n.Value) }
func (b *BoolLeaf) String() string  { return value.Bool(b.Value).String() }
func (v *VarLeaf) String() string   { return v.Name }
func (i *InputExpr) String() string { return "input<" + string(i.Type) + ">" }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + b.Op.String() + b.Right.String() + ")"
}
func (u *UnaryExpr) String() string { return "(" + u.Op.String() + u.Sub.String() + ")" }
func (c *CallExpr) String() string  { return callString(c.Func, c.Args) }

func callString(name string, args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Constructors used by the parser and by hand-built trees in tests.

func Num(f float64) *NumLeaf              { return &NumLeaf{Value: f} }
func Bool(b bool) *BoolLeaf               { return &BoolLeaf{Value: b} }
func Var(name string) *VarLeaf            { return &VarLeaf{Name: name} }
func Input(t value.SourceType) *InputExpr { return &InputExpr{Type: t} }

func Binary(op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

func Plus(l, r Expr) *BinaryExpr     { return Binary(OpPlus, l, r) }
func Minus(l, r Expr) *BinaryExpr    { return Binary(OpMinus, l, r) }
func Times(l, r Expr) *BinaryExpr    { return Binary(OpTimes, l, r) }
func Divide(l, r Expr) *BinaryExpr   { return Binary(OpDivide, l, r) }
func Exponent(l, r Expr) *BinaryExpr { return Binary(OpExponent, l, r) }
func And(l, r Expr) *BinaryExpr      { return Binary(OpAnd, l, r) }
func Or(l, r Expr) *BinaryExpr       { return Binary(OpOr, l, r) }
func Equal(l, r Expr) *BinaryExpr    { return Binary(OpEqual, l, r) }
func LessThan(l, r Expr) *BinaryExpr { return Binary(OpLessThan, l, r) }

func Negate(sub Expr) *UnaryExpr { return &UnaryExpr{Op: OpNegate, Sub: sub} }
func Not(sub Expr) *UnaryExpr    { return &UnaryExpr{Op: OpNot, Sub: sub} }

func CallE(name string, args ...Expr) *CallExpr { return &CallExpr{Func: name, Args: args} }
