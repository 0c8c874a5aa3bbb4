// Package ast defines the syntax tree of minilang programs.
//
// Expressions and statements are closed sum types: the Expr and Stmt
// interfaces carry unexported marker methods, so the only variants are the
// ones declared in this package. Evaluation phases (typechecking,
// interpretation) live elsewhere as exhaustive type switches over these
// variants. Every node is immutable once built.
package ast

import (
	"strings"

	"github.com/zurustar/minilang/pkg/value"
)

// Node is implemented by every syntax tree node.
type Node interface {
	String() string
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Param is a function parameter.
type Param struct {
	Name string
	Type value.SourceType
}

func (p Param) String() string { return string(p.Type) + " " + p.Name }

// Func is a function definition.
// ReturnExpr is nil for functions that end with a bare "return;" or none.
type Func struct {
	Name       string
	ReturnType value.ReturnType
	Params     []Param
	Body       *Block
	ReturnExpr Expr
}

func (f *Func) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}

	var out strings.Builder
	out.WriteString(string(f.ReturnType) + " " + f.Name + "(" + strings.Join(params, ", ") + ") {")
	for _, s := range f.Body.Stmts {
		out.WriteString(" " + s.String())
	}
	if f.ReturnExpr != nil {
		out.WriteString(" return " + f.ReturnExpr.String() + ";")
	}
	out.WriteString(" }")
	return out.String()
}

// Program is the parsed form of a source file: its function definitions in
// declaration order. Name uniqueness is enforced when the program is loaded
// into a function registry, not here.
type Program struct {
	Funcs []*Func
}

func (p *Program) String() string {
	parts := make([]string, len(p.Funcs))
	for i, f := range p.Funcs {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n")
}

// Merge concatenates the functions of several programs, preserving order.
func Merge(programs ...*Program) *Program {
	merged := &Program{}
	for _, p := range programs {
		if p != nil {
			merged.Funcs = append(merged.Funcs, p.Funcs...)
		}
	}
	return merged
}
