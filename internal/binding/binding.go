// Package binding builds immutable provision-binding descriptors from
// validated provider methods.
package binding

import (
	"fmt"

	"github.com/provc/provc/internal/entity"
)

// DependencyRequest names one dependency a provider method consumes.
type DependencyRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Binding describes one unit of generated code: a factory for the type
// a provider method produces. One Binding maps to exactly one generated
// artifact. Bindings are immutable after construction.
type Binding struct {
	// ID is the content-addressed descriptor identity. Equal inputs
	// yield equal IDs across sessions, so artifact emission can be
	// keyed by it.
	ID string `json:"id"`

	Module       string              `json:"module"`        // enclosing module entity name
	Method       string              `json:"method"`        // originating method entity name
	ProvidedType string              `json:"provided_type"` // type the factory provides
	Dependencies []DependencyRequest `json:"dependencies"`

	method *entity.Entity
	module *entity.Entity
}

// MethodEntity returns the originating method entity.
func (b *Binding) MethodEntity() *entity.Entity {
	return b.method
}

// ModuleEntity returns the enclosing module entity.
func (b *Binding) ModuleEntity() *entity.Entity {
	return b.module
}

// FactoryName returns the stable name of the generated factory type.
func (b *Binding) FactoryName() string {
	return fmt.Sprintf("%s_%sFactory", b.module.Name, exportName(b.method.LocalName()))
}

// Factory constructs bindings from validated provider methods. It is
// stateless; both methods are pure functions of their inputs.
type Factory struct{}

// NewFactory returns a binding Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// ForProvidingMethod builds the binding for a produces-marked method
// declared on the given module.
//
// Precondition: the method passed its validator this round. The
// orchestrator enforces this; the factory does not re-check.
func (f *Factory) ForProvidingMethod(method, module *entity.Entity) (*Binding, error) {
	deps := make([]DependencyRequest, 0, len(method.Params))
	for _, p := range method.Params {
		deps = append(deps, DependencyRequest{Name: p.Name, Type: p.Type})
	}

	b := &Binding{
		Module:       module.Name,
		Method:       method.Name,
		ProvidedType: method.Returns,
		Dependencies: deps,
		method:       method,
		module:       module,
	}

	id, err := descriptorID(b)
	if err != nil {
		return nil, fmt.Errorf("binding for %s: %w", method.Name, err)
	}
	b.ID = id
	return b, nil
}

// exportName uppercases the first byte of an ASCII identifier.
func exportName(name string) string {
	if name == "" {
		return name
	}
	c := name[0]
	if c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return name
}
