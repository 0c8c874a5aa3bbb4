// Package vm type checks and interprets minilang programs.
//
// Both phases walk the same tree in the same left-to-right order. The type
// checker binds variables to value.SourceType and the interpreter binds them
// to value.Value, through one generic Scope implementation.
package vm

import (
	"fmt"
	"strings"

	"github.com/zurustar/minilang/pkg/value"
)

// Strategy selects whether a nested frame may declare a name that is
// already bound in an enclosing frame.
type Strategy int

const (
	// Chained allows shadowing: Declare only checks the innermost frame.
	Chained Strategy = iota
	// Flat forbids shadowing: Declare fails if the name is active anywhere.
	Flat
)

func (s Strategy) String() string {
	if s == Flat {
		return "flat"
	}
	return "chained"
}

// ParseStrategy parses "flat" or "chained".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "chained":
		return Chained, nil
	case "flat":
		return Flat, nil
	}
	return Chained, fmt.Errorf("unknown scope strategy: %s (expected flat or chained)", s)
}

// Scope maps variable names to entries over a stack of frames.
// E is value.SourceType during type checking and value.Value during
// interpretation.
type Scope[E any] interface {
	// Lookup returns the entry bound to name in the innermost frame that has it.
	Lookup(name string) (E, error)
	// Declare binds name in the current frame.
	Declare(name string, entry E) error
	// Update rebinds an existing name.
	Update(name string, entry E) error
	// Nested runs action inside a new frame. The frame is popped when action
	// returns, also when it fails.
	Nested(action func() error) error
}

// NewScope returns an empty root scope using the given strategy.
func NewScope[E any](s Strategy) Scope[E] {
	if s == Flat {
		return newFlatScope[E]()
	}
	return newChainedScope[E]()
}

func errNotInScope(name string) error {
	return value.NewScopeError("name is not in scope: %s", name)
}

func errDuplicate(name string) error {
	return value.NewScopeError("declaring duplicate variable name: %s", name)
}

func errUndeclared(name string) error {
	return value.NewScopeError("updating undeclared variable name: %s", name)
}
