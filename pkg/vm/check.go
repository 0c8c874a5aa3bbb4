package vm

import (
	"fmt"

	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/value"
)

// TypeScope binds variable names to their static types.
type TypeScope = Scope[value.SourceType]

// checker is the static phase. It fails with STATIC_TYPE_ERROR,
// SCOPE_ERROR or DISPATCH_ERROR.
type checker struct {
	registry *Registry
	strategy Strategy
	rules    Rules
}

func (c *checker) inferType(e ast.Expr, scope TypeScope) (value.SourceType, error) {
	switch e := e.(type) {
	case *ast.NumLeaf:
		return value.NumType, nil

	case *ast.BoolLeaf:
		return value.BoolType, nil

	case *ast.VarLeaf:
		return scope.Lookup(e.Name)

	case *ast.InputExpr:
		return e.Type, nil

	case *ast.BinaryExpr:
		left, err := c.inferType(e.Left, scope)
		if err != nil {
			return "", err
		}
		right, err := c.inferType(e.Right, scope)
		if err != nil {
			return "", err
		}
		return c.rules.binaryType(e.Op, left, right)

	case *ast.UnaryExpr:
		sub, err := c.inferType(e.Sub, scope)
		if err != nil {
			return "", err
		}
		return unaryType(e.Op, sub)

	case *ast.CallExpr:
		rt, err := c.typecheckCall(e.Func, e.Args, scope)
		if err != nil {
			return "", err
		}
		t, ok := rt.Source()
		if !ok {
			return "", value.NewStaticTypeError("function %s returns void and cannot be used as a value", e.Func)
		}
		return t, nil
	}
	return "", fmt.Errorf("unknown expression %T", e)
}

func (c *checker) typecheckStmt(s ast.Stmt, scope TypeScope) error {
	switch s := s.(type) {
	case *ast.VarDecl:
		t, err := c.inferType(s.Init, scope)
		if err != nil {
			return err
		}
		return scope.Declare(s.Name, t)

	case *ast.VarUpdate:
		t, err := c.inferType(s.Expr, scope)
		if err != nil {
			return err
		}
		current, err := scope.Lookup(s.Name)
		if err != nil {
			return errUndeclared(s.Name)
		}
		if err := value.StaticAssertType(current.Return(), t.Return()); err != nil {
			return err
		}
		return scope.Update(s.Name, t)

	case *ast.Print:
		_, err := c.inferType(s.Expr, scope)
		return err

	case *ast.Block:
		return scope.Nested(func() error {
			return c.typecheckStmts(s.Stmts, scope)
		})

	case *ast.If:
		if err := c.typecheckCondition(s.Cond, scope); err != nil {
			return err
		}
		if err := scope.Nested(func() error { return c.typecheckStmt(s.Then, scope) }); err != nil {
			return err
		}
		if s.Else == nil {
			return nil
		}
		return scope.Nested(func() error { return c.typecheckStmt(s.Else, scope) })

	case *ast.While:
		return scope.Nested(func() error {
			if err := c.typecheckCondition(s.Cond, scope); err != nil {
				return err
			}
			return scope.Nested(func() error { return c.typecheckStmt(s.Body, scope) })
		})

	case *ast.Switch:
		scrutinee, err := c.inferType(s.Scrutinee, scope)
		if err != nil {
			return err
		}
		for _, cs := range s.Cases() {
			if err := value.StaticAssertType(scrutinee.Return(), cs.Value.Type().Return()); err != nil {
				return err
			}
			if err := scope.Nested(func() error { return c.typecheckStmt(cs.Body, scope) }); err != nil {
				return err
			}
		}
		if s.Default == nil {
			return nil
		}
		return scope.Nested(func() error { return c.typecheckStmt(s.Default, scope) })

	case *ast.Call:
		_, err := c.typecheckCall(s.Func, s.Args, scope)
		return err
	}
	return fmt.Errorf("unknown statement %T", s)
}

func (c *checker) typecheckStmts(stmts []ast.Stmt, scope TypeScope) error {
	for _, s := range stmts {
		if err := c.typecheckStmt(s, scope); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) typecheckCondition(cond ast.Expr, scope TypeScope) error {
	t, err := c.inferType(cond, scope)
	if err != nil {
		return err
	}
	return assertBoolType(t)
}

// typecheckDefinition checks a function body in a fresh scope holding
// only its parameters.
func (c *checker) typecheckDefinition(f *ast.Func) error {
	scope := NewScope[value.SourceType](c.strategy)
	for _, p := range f.Params {
		if err := scope.Declare(p.Name, p.Type); err != nil {
			return err
		}
	}

	if err := c.typecheckStmts(f.Body.Stmts, scope); err != nil {
		return err
	}

	if f.ReturnExpr == nil {
		return value.StaticAssertType(f.ReturnType, value.Void)
	}
	t, err := c.inferType(f.ReturnExpr, scope)
	if err != nil {
		return err
	}
	return value.StaticAssertType(f.ReturnType, t.Return())
}

// typecheckCall checks the arguments of a call against the callee's
// parameters and yields its return type. The body is checked once by
// typecheckDefinition, not per call site.
func (c *checker) typecheckCall(name string, args []ast.Expr, scope TypeScope) (value.ReturnType, error) {
	f, err := c.registry.Dispatch(name)
	if err != nil {
		return "", err
	}
	if len(args) != len(f.Params) {
		return "", value.NewStaticTypeError("wrong number of arguments in call to function: %s", name)
	}
	for i, p := range f.Params {
		t, err := c.inferType(args[i], scope)
		if err != nil {
			return "", err
		}
		if err := value.StaticAssertType(p.Type.Return(), t.Return()); err != nil {
			return "", err
		}
	}
	return f.ReturnType, nil
}
