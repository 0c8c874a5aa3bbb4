package vm

// flatScope keeps every active binding in one table. Each frame records
// the names it introduced so that popping it removes exactly those.
type flatScope[E any] struct {
	variables map[string]E
	frames    []map[string]struct{}
}

func newFlatScope[E any]() *flatScope[E] {
	return &flatScope[E]{
		variables: make(map[string]E),
		frames:    []map[string]struct{}{{}},
	}
}

func (s *flatScope[E]) Lookup(name string) (E, error) {
	entry, ok := s.variables[name]
	if !ok {
		var zero E
		return zero, errNotInScope(name)
	}
	return entry, nil
}

func (s *flatScope[E]) Declare(name string, entry E) error {
	if _, ok := s.variables[name]; ok {
		return errDuplicate(name)
	}
	s.variables[name] = entry
	s.frames[len(s.frames)-1][name] = struct{}{}
	return nil
}

func (s *flatScope[E]) Update(name string, entry E) error {
	if _, ok := s.variables[name]; !ok {
		return errUndeclared(name)
	}
	s.variables[name] = entry
	return nil
}

func (s *flatScope[E]) Nested(action func() error) error {
	s.frames = append(s.frames, map[string]struct{}{})
	defer s.pop()
	return action()
}

func (s *flatScope[E]) pop() {
	top := s.frames[len(s.frames)-1]
	for name := range top {
		delete(s.variables, name)
	}
	s.frames = s.frames[:len(s.frames)-1]
}
