package vm

import (
	"fmt"

	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/value"
)

// ValueScope binds variable names to their runtime values.
type ValueScope = Scope[value.Value]

// interpreter is the dynamic phase. It fails with DYNAMIC_TYPE_ERROR,
// SCOPE_ERROR or DISPATCH_ERROR, or with an I/O error from its Output or
// Input.
type interpreter struct {
	registry *Registry
	strategy Strategy
	rules    Rules
	out      Output
	in       Input
}

func (in *interpreter) interpret(e ast.Expr, scope ValueScope) (value.Value, error) {
	switch e := e.(type) {
	case *ast.NumLeaf:
		return value.Num(e.Value), nil

	case *ast.BoolLeaf:
		return value.Bool(e.Value), nil

	case *ast.VarLeaf:
		return scope.Lookup(e.Name)

	case *ast.InputExpr:
		return in.in.Input(e.Type)

	case *ast.BinaryExpr:
		left, err := in.interpret(e.Left, scope)
		if err != nil {
			return value.Value{}, err
		}
		right, err := in.interpret(e.Right, scope)
		if err != nil {
			return value.Value{}, err
		}
		return in.rules.applyBinary(e.Op, left, right)

	case *ast.UnaryExpr:
		sub, err := in.interpret(e.Sub, scope)
		if err != nil {
			return value.Value{}, err
		}
		return applyUnary(e.Op, sub)

	case *ast.CallExpr:
		v, ok, err := in.interpretCall(e.Func, e.Args, scope)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.Value{}, value.NewDynamicTypeError("function %s returns void and cannot be used as a value", e.Func)
		}
		return v, nil
	}
	return value.Value{}, fmt.Errorf("unknown expression %T", e)
}

func (in *interpreter) exec(s ast.Stmt, scope ValueScope) error {
	switch s := s.(type) {
	case *ast.VarDecl:
		v, err := in.interpret(s.Init, scope)
		if err != nil {
			return err
		}
		return scope.Declare(s.Name, v)

	case *ast.VarUpdate:
		v, err := in.interpret(s.Expr, scope)
		if err != nil {
			return err
		}
		return scope.Update(s.Name, v)

	case *ast.Print:
		v, err := in.interpret(s.Expr, scope)
		if err != nil {
			return err
		}
		return in.out.PrintLine(v)

	case *ast.Block:
		return scope.Nested(func() error {
			return in.execStmts(s.Stmts, scope)
		})

	case *ast.If:
		cond, err := in.condition(s.Cond, scope)
		if err != nil {
			return err
		}
		branch := s.Then
		if !cond {
			branch = s.Else
		}
		if branch == nil {
			return nil
		}
		return scope.Nested(func() error { return in.exec(branch, scope) })

	case *ast.While:
		return scope.Nested(func() error {
			for {
				cond, err := in.condition(s.Cond, scope)
				if err != nil {
					return err
				}
				if !cond {
					return nil
				}
				if err := scope.Nested(func() error { return in.exec(s.Body, scope) }); err != nil {
					return err
				}
			}
		})

	case *ast.Switch:
		v, err := in.interpret(s.Scrutinee, scope)
		if err != nil {
			return err
		}
		body, ok := s.Lookup(v)
		if !ok {
			body = s.Default
		}
		if body == nil {
			return nil
		}
		return scope.Nested(func() error { return in.exec(body, scope) })

	case *ast.Call:
		_, _, err := in.interpretCall(s.Func, s.Args, scope)
		return err
	}
	return fmt.Errorf("unknown statement %T", s)
}

func (in *interpreter) execStmts(stmts []ast.Stmt, scope ValueScope) error {
	for _, s := range stmts {
		if err := in.exec(s, scope); err != nil {
			return err
		}
	}
	return nil
}

func (in *interpreter) condition(cond ast.Expr, scope ValueScope) (bool, error) {
	v, err := in.interpret(cond, scope)
	if err != nil {
		return false, err
	}
	if err := value.DynamicAssertBool(v); err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

// interpretCall evaluates the arguments in the caller's scope, binds them
// in a new root scope and runs the callee there. ok is false for a void
// function.
func (in *interpreter) interpretCall(name string, args []ast.Expr, scope ValueScope) (v value.Value, ok bool, err error) {
	f, err := in.registry.Dispatch(name)
	if err != nil {
		return value.Value{}, false, err
	}
	if len(args) != len(f.Params) {
		return value.Value{}, false, value.NewDynamicTypeError("wrong number of arguments in call to function: %s", name)
	}

	callScope := NewScope[value.Value](in.strategy)
	for i, p := range f.Params {
		arg, err := in.interpret(args[i], scope)
		if err != nil {
			return value.Value{}, false, err
		}
		if err := dynamicAssertType(p.Type, arg); err != nil {
			return value.Value{}, false, err
		}
		if err := callScope.Declare(p.Name, arg); err != nil {
			return value.Value{}, false, err
		}
	}

	if err := in.execStmts(f.Body.Stmts, callScope); err != nil {
		return value.Value{}, false, err
	}

	if f.ReturnExpr == nil {
		return value.Value{}, false, nil
	}
	v, err = in.interpret(f.ReturnExpr, callScope)
	if err != nil {
		return value.Value{}, false, err
	}
	if t, ok := f.ReturnType.Source(); ok {
		if err := dynamicAssertType(t, v); err != nil {
			return value.Value{}, false, err
		}
	}
	return v, true, nil
}
