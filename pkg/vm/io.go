package vm

import (
	"errors"

	"github.com/zurustar/minilang/pkg/value"
)

// Output receives the value of every executed print statement, in order.
type Output interface {
	PrintLine(v value.Value) error
}

// Input supplies the value of an input<T> expression. Implementations
// re-prompt until they obtain a well formed value of type t; an error means
// no value can ever be produced (for example end of input).
type Input interface {
	Input(t value.SourceType) (value.Value, error)
}

// ErrNoInput is returned by input<T> when the program has no Input.
var ErrNoInput = errors.New("no input source configured")

type discardOutput struct{}

func (discardOutput) PrintLine(value.Value) error { return nil }

type noInput struct{}

func (noInput) Input(value.SourceType) (value.Value, error) {
	return value.Value{}, ErrNoInput
}
