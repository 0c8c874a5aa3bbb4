package vm

import (
	"errors"
	"testing"

	"github.com/zurustar/minilang/pkg/compiler"
	"github.com/zurustar/minilang/pkg/value"
)

// recorder collects printed lines.
type recorder struct {
	lines []string
}

func (r *recorder) PrintLine(v value.Value) error {
	r.lines = append(r.lines, v.String())
	return nil
}

// scripted answers input<T> from a fixed list of values.
type scripted struct {
	values []value.Value
}

func (s *scripted) Input(t value.SourceType) (value.Value, error) {
	if len(s.values) == 0 {
		return value.Value{}, errors.New("input exhausted")
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v, nil
}

func build(t *testing.T, source string, opts Options) (*Program, *recorder) {
	t.Helper()
	program, errs := compiler.Parse(source)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	out := &recorder{}
	if opts.Output == nil {
		opts.Output = out
	}
	p, err := NewProgram(program, opts)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	return p, out
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
