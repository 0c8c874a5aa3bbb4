package ast

import (
	"strings"

	"github.com/zurustar/minilang/pkg/value"
)

// VarDecl declares a new variable in the innermost frame.
type VarDecl struct {
	Name string
	Init Expr
}

// VarUpdate assigns to an already declared variable.
type VarUpdate struct {
	Name string
	Expr Expr
}

// Print writes the value of Expr as one output line.
type Print struct {
	Expr Expr
}

// Block runs its statements in order inside a nested frame.
type Block struct {
	Stmts []Stmt
}

// If runs Then or Else depending on Cond. Else may be nil.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// While runs Body as long as Cond evaluates to true.
type While struct {
	Cond Expr
	Body Stmt
}

// Call calls a function and discards its result.
type Call struct {
	Func string
	Args []Expr
}

// Case is one "case literal: body" arm of a switch.
type Case struct {
	Value value.Value
	Body  Stmt
}

// Switch selects a case by the value of Scrutinee. Build it with NewSwitch;
// cases with repeated literals are resolved at construction time.
type Switch struct {
	Scrutinee Expr
	Default   Stmt

	cases map[value.Value]Stmt
	keys  []value.Value
}

// NewSwitch builds a Switch from cases in source order. When several cases
// share a literal, the last one wins and the earlier ones are dropped; the
// surviving case keeps the position of the literal's first appearance.
func NewSwitch(scrutinee Expr, cases []Case, defaultCase Stmt) *Switch {
	s := &Switch{
		Scrutinee: scrutinee,
		Default:   defaultCase,
		cases:     make(map[value.Value]Stmt, len(cases)),
	}
	for _, c := range cases {
		if _, seen := s.cases[c.Value]; !seen {
			s.keys = append(s.keys, c.Value)
		}
		s.cases[c.Value] = c.Body
	}
	return s
}

// Lookup returns the case body selected by v.
func (s *Switch) Lookup(v value.Value) (Stmt, bool) {
	body, ok := s.cases[v]
	return body, ok
}

// Cases returns the resolved cases.
func (s *Switch) Cases() []Case {
	out := make([]Case, len(s.keys))
	for i, k := range s.keys {
		out[i] = Case{Value: k, Body: s.cases[k]}
	}
	return out
}

func (*VarDecl) stmtNode()   {}
func (*VarUpdate) stmtNode() {}
func (*Print) stmtNode()     {}
func (*Block) stmtNode()     {}
func (*If) stmtNode()        {}
func (*While) stmtNode()     {}
func (*Switch) stmtNode()    {}
func (*Call) stmtNode()      {}

func (d *VarDecl) String() string   { return "let " + d.Name + " = " + d.Init.String() + ";" }
func (u *VarUpdate) String() string { return u.Name + " = " + u.Expr.String() + ";" }
func (p *Print) String() string     { return "print " + p.Expr.String() + ";" }
func (c *Call) String() string      { return callString(c.Func, c.Args) + ";" }

func (b *Block) String() string {
	var out strings.Builder
	out.WriteString("{")
	for _, s := range b.Stmts {
		out.WriteString(" " + s.String())
	}
	out.WriteString(" }")
	return out.String()
}

func (i *If) String() string {
	s := "if (" + i.Cond.String() + ") " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

func (w *While) String() string {
	return "while (" + w.Cond.String() + ") " + w.Body.String()
}

func (s *Switch) String() string {
	var out strings.Builder
	out.WriteString("switch (" + s.Scrutinee.String() + ") {")
	for _, c := range s.Cases() {
		out.WriteString(" case " + c.Value.String() + ": " + c.Body.String())
	}
	if s.Default != nil {
		out.WriteString(" default: " + s.Default.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Constructors used by the parser and by hand-built trees in tests.

func Let(name string, init Expr) *VarDecl   { return &VarDecl{Name: name, Init: init} }
func Assign(name string, e Expr) *VarUpdate { return &VarUpdate{Name: name, Expr: e} }
func PrintS(e Expr) *Print                  { return &Print{Expr: e} }
func BlockS(stmts ...Stmt) *Block           { return &Block{Stmts: stmts} }
func IfS(cond Expr, then, els Stmt) *If     { return &If{Cond: cond, Then: then, Else: els} }
func WhileS(cond Expr, body Stmt) *While    { return &While{Cond: cond, Body: body} }
func CallS(name string, args ...Expr) *Call { return &Call{Func: name, Args: args} }
