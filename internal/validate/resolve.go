package validate

import "github.com/provc/provc/internal/entity"

// Resolver is the structural pre-check collaborator. FullyResolved
// reports whether an entity's declaration is complete enough to
// validate: a false result means the entity should be deferred to a
// later round, not rejected.
type Resolver interface {
	FullyResolved(e *entity.Entity) bool
}

// DeclaredResolver resolves from the Resolved flag carried on the
// entity declaration itself. Manifests mark a module resolved: false
// to stand in for a type whose dependencies have not been discovered
// yet.
type DeclaredResolver struct{}

// FullyResolved implements Resolver.
func (DeclaredResolver) FullyResolved(e *entity.Entity) bool {
	return e.Resolved
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(e *entity.Entity) bool

// FullyResolved implements Resolver.
func (f ResolverFunc) FullyResolved(e *entity.Entity) bool {
	return f(e)
}
