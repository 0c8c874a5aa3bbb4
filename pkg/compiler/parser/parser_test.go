package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/compiler/lexer"
	"github.com/zurustar/minilang/pkg/value"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("parser error: %v", err)
		}
		t.FailNow()
	}
	return program
}

func parseExpr(t *testing.T, expr string) ast.Expr {
	t.Helper()
	program := parse(t, "num f() { return "+expr+"; }")
	if len(program.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(program.Funcs))
	}
	return program.Funcs[0].ReturnExpr
}

func TestParseFunctionHeader(t *testing.T) {
	program := parse(t, `
num add(num a, bool b) { return a; }
void main() { }
bool flag() { return true; }
noType() { }
`)
	if len(program.Funcs) != 4 {
		t.Fatalf("expected 4 functions, got %d", len(program.Funcs))
	}

	tests := []struct {
		name       string
		returnType value.ReturnType
		params     []ast.Param
		hasReturn  bool
	}{
		{"add", value.ReturnNum, []ast.Param{{Name: "a", Type: value.NumType}, {Name: "b", Type: value.BoolType}}, true},
		{"main", value.Void, nil, false},
		{"flag", value.ReturnBool, nil, true},
		{"noType", value.Void, nil, false},
	}

	for i, tt := range tests {
		fn := program.Funcs[i]
		if fn.Name != tt.name {
			t.Errorf("func %d: name = %q, want %q", i, fn.Name, tt.name)
		}
		if fn.ReturnType != tt.returnType {
			t.Errorf("%s: return type = %s, want %s", tt.name, fn.ReturnType, tt.returnType)
		}
		if len(fn.Params) != len(tt.params) {
			t.Errorf("%s: %d params, want %d", tt.name, len(fn.Params), len(tt.params))
			continue
		}
		for j, p := range tt.params {
			if fn.Params[j] != p {
				t.Errorf("%s: param %d = %v, want %v", tt.name, j, fn.Params[j], p)
			}
		}
		if (fn.ReturnExpr != nil) != tt.hasReturn {
			t.Errorf("%s: has return expr = %v, want %v", tt.name, fn.ReturnExpr != nil, tt.hasReturn)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1+(2*3))"},
		{"1 * 2 + 3", "((1*2)+3)"},
		{"1 - 2 - 3", "((1-2)-3)"},
		{"2 ^ 3 ^ 2", "(2^(3^2))"},
		{"2 * 3 ^ 2", "(2*(3^2))"},
		{"a < b == c < d", "((a<b)==(c<d))"},
		{"a || b && c", "(a||(b&&c))"},
		{"a && b || c", "((a&&b)||c)"},
		{"1 + 2 < 4", "((1+2)<4)"},
		{"(1 + 2) * 3", "((1+2)*3)"},
		{"-x ^ 2", "(-(x^2))"},
		{"-x * 2", "((-x)*2)"},
		{"!a && b", "((!a)&&b)"},
		{"!!a", "(!(!a))"},
		{"f(1, 2 + 3) * 2", "(f(1, (2+3))*2)"},
		{"input<num> + 1", "(input<num>+1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseExpr(t, tt.input).String()
			if got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestNegativeLiteralFolding(t *testing.T) {
	e := parseExpr(t, "-5")
	lit, ok := e.(*ast.NumLeaf)
	if !ok {
		t.Fatalf("expected *ast.NumLeaf, got %T", e)
	}
	if lit.Value != -5 {
		t.Errorf("value = %v, want -5", lit.Value)
	}

	e = parseExpr(t, "-(5)")
	if _, ok := e.(*ast.NumLeaf); !ok {
		t.Errorf("-(5): expected folded literal, got %T", e)
	}

	e = parseExpr(t, "-x")
	if u, ok := e.(*ast.UnaryExpr); !ok || u.Op != ast.OpNegate {
		t.Errorf("-x: expected negation, got %s", e)
	}
}

func TestParseStatements(t *testing.T) {
	program := parse(t, `
void main() {
  let x = 1;
  x = x + 1;
  print x;
  { let y = true; }
  if (x == 2) print 1; else { print 0; }
  if (true) print 3;
  while (x < 10) x = x + 1;
  helper(x, false);
}
`)
	body := program.Funcs[0].Body.Stmts
	expected := []string{
		"let x = 1;",
		"x = (x+1);",
		"print x;",
		"{ let y = true; }",
		"if ((x==2)) print 1; else { print 0; }",
		"if (true) print 3;",
		"while ((x<10)) x = (x+1);",
		"helper(x, false);",
	}
	if len(body) != len(expected) {
		t.Fatalf("expected %d statements, got %d", len(expected), len(body))
	}

	for i, want := range expected {
		if got := body[i].String(); got != want {
			t.Errorf("stmt %d: got %q, want %q", i, got, want)
		}
	}
}

func TestParseSwitch(t *testing.T) {
	program := parse(t, `
void main() {
  switch (x) {
    case 1: print 10;
    case -2: print 20;
    case 1: print 30;
    default: print 0;
  }
  switch (b) { case true: print 1; }
}
`)
	body := program.Funcs[0].Body.Stmts
	sw, ok := body[0].(*ast.Switch)
	if !ok {
		t.Fatalf("expected *ast.Switch, got %T", body[0])
	}

	cases := sw.Cases()
	if len(cases) != 2 {
		t.Fatalf("expected 2 distinct cases, got %d", len(cases))
	}
	if got := cases[0].Body.String(); got != "print 30;" {
		t.Errorf("case 1 body = %q, want last definition", got)
	}
	if _, ok := sw.Lookup(value.Num(-2)); !ok {
		t.Errorf("case -2 not found")
	}
	if sw.Default == nil {
		t.Errorf("expected default case")
	}

	sw2 := body[1].(*ast.Switch)
	if sw2.Default != nil {
		t.Errorf("expected no default case")
	}
	if _, ok := sw2.Lookup(value.Bool(true)); !ok {
		t.Errorf("case true not found")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"missing semicolon", "void main() { print 1 }", "expected ;"},
		{"return not last", "num f() { return 1; print 2; }", "return must be the last statement"},
		{"nested return", "void f() { if (true) return; }", "return must be the last statement"},
		{"bad input type", "num f() { return input<void>; }", "expected num or bool"},
		{"bad param type", "void f(void x) { }", "expected parameter type"},
		{"missing function name", "num () { }", "expected function name"},
		{"bare identifier", "void f() { x; }", "expected = or ("},
		{"unterminated body", "void f() { print 1;", "unexpected end of input"},
		{"bad case literal", "void f() { switch (x) { case y: print 1; } }", "expected literal after case"},
		{"illegal character", "void f() { print 1 $ 2; }", "illegal character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := New(lexer.New(tt.input)).ParseProgram()
			if len(errs) == 0 {
				t.Fatalf("expected error containing %q", tt.message)
			}
			if !strings.Contains(errs[0].Error(), tt.message) {
				t.Errorf("error = %q, want it to contain %q", errs[0], tt.message)
			}
			var pe *ParserError
			if !errors.As(errs[0], &pe) {
				t.Fatalf("expected *ParserError, got %T", errs[0])
			}
			if pe.Line < 1 || pe.Column < 1 {
				t.Errorf("invalid position %d:%d", pe.Line, pe.Column)
			}
		})
	}
}

func TestErrorRecoveryReportsEveryFunction(t *testing.T) {
	input := `
void a() { print 1 }
void b() { print 2; }
void c() { let = 3; }
void d() { }
`
	program, errs := New(lexer.New(input)).ParseProgram()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}

	var names []string
	for _, fn := range program.Funcs {
		names = append(names, fn.Name)
	}
	if strings.Join(names, ",") != "b,d" {
		t.Errorf("recovered functions = %v, want [b d]", names)
	}

	pe := errs[1].(*ParserError)
	if pe.Line != 4 {
		t.Errorf("second error line = %d, want 4", pe.Line)
	}
}
