package vm

import (
	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/value"
)

// Registry is the immutable name to function table shared by the type
// checker and the interpreter.
type Registry struct {
	funcs map[string]*ast.Func
	order []*ast.Func
}

// NewRegistry builds a registry. Two functions with the same name are a
// SCOPE_ERROR.
func NewRegistry(funcs []*ast.Func) (*Registry, error) {
	r := &Registry{funcs: make(map[string]*ast.Func, len(funcs))}
	for _, f := range funcs {
		if _, ok := r.funcs[f.Name]; ok {
			return nil, value.NewScopeError("duplicate definition for function: %s", f.Name)
		}
		r.funcs[f.Name] = f
		r.order = append(r.order, f)
	}
	return r, nil
}

// Dispatch resolves a function name.
func (r *Registry) Dispatch(name string) (*ast.Func, error) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, value.NewDispatchError("function is not defined: %s", name)
	}
	return f, nil
}

// Functions returns every function in declaration order.
func (r *Registry) Functions() []*ast.Func {
	out := make([]*ast.Func, len(r.order))
	copy(out, r.order)
	return out
}
