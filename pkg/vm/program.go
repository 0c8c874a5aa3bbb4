package vm

import (
	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/value"
)

// EntryPoint is the function a program starts from. It takes no arguments.
const EntryPoint = "main"

// Options configures a Program. The zero value uses chained scopes, strict
// boolean operators, discards output and has no input.
type Options struct {
	Strategy Strategy
	Rules    Rules
	Output   Output
	Input    Input
}

// Program is a set of functions ready to be type checked or interpreted.
type Program struct {
	registry *Registry
	opts     Options
}

// NewProgram builds the function registry. Duplicate function names fail
// with a SCOPE_ERROR.
func NewProgram(p *ast.Program, opts Options) (*Program, error) {
	registry, err := NewRegistry(p.Funcs)
	if err != nil {
		return nil, err
	}
	if opts.Output == nil {
		opts.Output = discardOutput{}
	}
	if opts.Input == nil {
		opts.Input = noInput{}
	}
	return &Program{registry: registry, opts: opts}, nil
}

// Registry returns the program's function registry.
func (p *Program) Registry() *Registry {
	return p.registry
}

// Typecheck checks every function definition in declaration order, then a
// call to main with no arguments in an empty scope.
func (p *Program) Typecheck() error {
	c := &checker{registry: p.registry, strategy: p.opts.Strategy, rules: p.opts.Rules}

	for _, f := range p.registry.Functions() {
		if err := c.typecheckDefinition(f); err != nil {
			return err
		}
	}

	_, err := c.typecheckCall(EntryPoint, nil, NewScope[value.SourceType](p.opts.Strategy))
	return err
}

// Interpret runs main with no arguments in an empty scope.
func (p *Program) Interpret() error {
	in := &interpreter{
		registry: p.registry,
		strategy: p.opts.Strategy,
		rules:    p.opts.Rules,
		out:      p.opts.Output,
		in:       p.opts.Input,
	}

	_, _, err := in.interpretCall(EntryPoint, nil, NewScope[value.Value](p.opts.Strategy))
	return err
}
