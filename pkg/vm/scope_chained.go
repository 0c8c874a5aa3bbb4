package vm

// frame is one table in a chainedScope.
type frame[E any] struct {
	variables map[string]E
	parent    *frame[E]
}

// find returns the innermost frame binding name, or nil.
func (f *frame[E]) find(name string) *frame[E] {
	for cur := f; cur != nil; cur = cur.parent {
		if _, ok := cur.variables[name]; ok {
			return cur
		}
	}
	return nil
}

// chainedScope is a linked chain of independent frames.
type chainedScope[E any] struct {
	current *frame[E]
}

func newChainedScope[E any]() *chainedScope[E] {
	return &chainedScope[E]{current: &frame[E]{variables: make(map[string]E)}}
}

func (s *chainedScope[E]) Lookup(name string) (E, error) {
	f := s.current.find(name)
	if f == nil {
		var zero E
		return zero, errNotInScope(name)
	}
	return f.variables[name], nil
}

func (s *chainedScope[E]) Declare(name string, entry E) error {
	if _, ok := s.current.variables[name]; ok {
		return errDuplicate(name)
	}
	s.current.variables[name] = entry
	return nil
}

func (s *chainedScope[E]) Update(name string, entry E) error {
	f := s.current.find(name)
	if f == nil {
		return errUndeclared(name)
	}
	f.variables[name] = entry
	return nil
}

func (s *chainedScope[E]) Nested(action func() error) error {
	outer := s.current
	s.current = &frame[E]{variables: make(map[string]E), parent: outer}
	defer func() { s.current = outer }()
	return action()
}
