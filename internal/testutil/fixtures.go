// Package testutil provides entity fixture builders shared by tests.
package testutil

import "github.com/provc/provc/internal/entity"

// Module builds a resolved module entity and attaches the given
// methods, qualifying their names and setting the enclosing
// back-reference.
func Module(name string, methods ...*entity.Entity) *entity.Entity {
	module := &entity.Entity{
		Name:     name,
		Kind:     entity.KindType,
		Markers:  []entity.Marker{entity.MarkerProducerModule},
		Resolved: true,
	}
	for _, m := range methods {
		m.Name = name + "." + m.Name
		m.Enclosing = module
		module.Methods = append(module.Methods, m)
	}
	return module
}

// Unresolved marks a module as not fully resolved and returns it.
func Unresolved(module *entity.Entity) *entity.Entity {
	module.Resolved = false
	return module
}

// ProducesMethod builds a well-formed produces-marked method. The name
// is local; Module qualifies it on attachment.
func ProducesMethod(name, returns string, params ...entity.Param) *entity.Entity {
	return &entity.Entity{
		Name:    name,
		Kind:    entity.KindMethod,
		Markers: []entity.Marker{entity.MarkerProduces},
		Returns: returns,
		Params:  params,
	}
}

// BindsMethod builds a well-formed binds-marked method (abstract,
// single parameter).
func BindsMethod(name, returns string, param entity.Param) *entity.Entity {
	return &entity.Entity{
		Name:     name,
		Kind:     entity.KindMethod,
		Markers:  []entity.Marker{entity.MarkerBinds},
		Returns:  returns,
		Params:   []entity.Param{param},
		Abstract: true,
	}
}

// Grouping builds a round grouping from modules, including their
// methods.
func Grouping(modules ...*entity.Entity) entity.Grouping {
	return entity.GroupModules(modules)
}
