package entity

// Kind classifies a program entity.
type Kind uint8

const (
	// KindType is a declared type (provider modules are types).
	KindType Kind = iota
	// KindMethod is a method declared on a type.
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	}
	return "unknown"
}

// Marker is an annotation-like tag attached to a declared entity.
type Marker string

const (
	// MarkerProducerModule tags a type as a provider module.
	MarkerProducerModule Marker = "producer_module"
	// MarkerProduces tags a method as a provider of its return type.
	MarkerProduces Marker = "produces"
	// MarkerBinds tags an abstract method as a delegating binding.
	MarkerBinds Marker = "binds"
)

// Param is a named method parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Entity is an opaque handle for a declared type or method.
//
// Name is the stable identity: "Module" for types, "Module.method" for
// methods. Identity must not change across rounds.
//
// Enclosing is a weak back-reference from a method to its declaring type
// (lookup only, the type owns its Methods slice). Methods preserves
// declaration order, which the pipeline relies on for deterministic
// iteration.
type Entity struct {
	Name      string
	Kind      Kind
	Markers   []Marker
	Enclosing *Entity
	Methods   []*Entity

	// Method shape metadata, set for KindMethod only.
	Returns  string
	Params   []Param
	Abstract bool
	Static   bool
	Private  bool

	// Type shape metadata, set for KindType only.
	Supertype string
	Resolved  bool
}

// HasMarker reports whether the entity carries the given marker.
func (e *Entity) HasMarker(m Marker) bool {
	for _, have := range e.Markers {
		if have == m {
			return true
		}
	}
	return false
}

// LocalName returns the name without the enclosing-type prefix.
func (e *Entity) LocalName() string {
	if e.Enclosing == nil {
		return e.Name
	}
	prefix := e.Enclosing.Name + "."
	if len(e.Name) > len(prefix) && e.Name[:len(prefix)] == prefix {
		return e.Name[len(prefix):]
	}
	return e.Name
}

// MethodsWithMarker returns the directly-declared methods carrying the
// marker, in declaration order.
func (e *Entity) MethodsWithMarker(m Marker) []*Entity {
	var out []*Entity
	for _, method := range e.Methods {
		if method.HasMarker(m) {
			out = append(out, method)
		}
	}
	return out
}

// Grouping maps each marker to the entities carrying it, in a stable
// order. A Grouping represents one round's snapshot of known entities
// and is rebuilt by the host every round.
type Grouping map[Marker][]*Entity

// Add appends an entity under every marker it carries.
func (g Grouping) Add(e *Entity) {
	for _, m := range e.Markers {
		g[m] = append(g[m], e)
	}
}

// GroupModules builds a round's grouping from module entities and
// their declared methods, preserving declaration order.
func GroupModules(modules []*Entity) Grouping {
	g := make(Grouping)
	for _, m := range modules {
		g.Add(m)
		for _, method := range m.Methods {
			g.Add(method)
		}
	}
	return g
}

// MethodsIn filters the entities under a marker down to methods.
func (g Grouping) MethodsIn(m Marker) []*Entity {
	var out []*Entity
	for _, e := range g[m] {
		if e.Kind == KindMethod {
			out = append(out, e)
		}
	}
	return out
}

// Modules returns the entities carrying the producer-module marker.
func (g Grouping) Modules() []*Entity {
	return g[MarkerProducerModule]
}
