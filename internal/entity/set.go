package entity

// MethodSet is an immutable set of method entities keyed by name.
// It answers membership queries only; iteration order is not part of
// its contract. Validators return a fresh MethodSet every round.
type MethodSet struct {
	byName map[string]*Entity
}

// NewMethodSet builds a set from the given methods. Later duplicates
// (same name) are ignored.
func NewMethodSet(methods ...*Entity) *MethodSet {
	s := &MethodSet{byName: make(map[string]*Entity, len(methods))}
	for _, m := range methods {
		if _, ok := s.byName[m.Name]; !ok {
			s.byName[m.Name] = m
		}
	}
	return s
}

// Contains reports whether the method is a member.
func (s *MethodSet) Contains(m *Entity) bool {
	if s == nil || m == nil {
		return false
	}
	_, ok := s.byName[m.Name]
	return ok
}

// ContainsAll reports whether every given method is a member.
func (s *MethodSet) ContainsAll(methods []*Entity) bool {
	for _, m := range methods {
		if !s.Contains(m) {
			return false
		}
	}
	return true
}

// Len returns the number of members.
func (s *MethodSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byName)
}
