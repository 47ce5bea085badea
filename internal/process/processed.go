package process

import "github.com/provc/provc/internal/entity"

// ProcessedSet tracks the modules that have had their one real
// processing attempt. It is session-scoped state owned by the Step:
// initialized empty at construction, append-only, never reset.
// Insertion order is preserved for deterministic inspection.
type ProcessedSet struct {
	names map[string]bool
	order []*entity.Entity
}

// NewProcessedSet returns an empty set.
func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{names: make(map[string]bool)}
}

// Contains reports whether the module has been processed.
func (s *ProcessedSet) Contains(module *entity.Entity) bool {
	return s.names[module.Name]
}

// Add marks the module processed. Adding an already-present module is
// a no-op.
func (s *ProcessedSet) Add(module *entity.Entity) {
	if s.names[module.Name] {
		return
	}
	s.names[module.Name] = true
	s.order = append(s.order, module)
}

// Modules returns the processed modules in insertion order.
func (s *ProcessedSet) Modules() []*entity.Entity {
	return s.order
}

// Len returns the number of processed modules.
func (s *ProcessedSet) Len() int {
	return len(s.order)
}
