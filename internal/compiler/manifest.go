// Package compiler parses CUE entity manifests into the program-entity
// graph the pipeline processes.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/provc/provc/internal/entity"
)

// CompileModule parses a CUE value into a module entity with its
// declared methods.
//
// The CUE value should be the module struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`module: Orders: { ... }`)
//	mod, err := CompileModule(v.LookupPath(cue.ParsePath("module.Orders")))
func CompileModule(v cue.Value) (*entity.Entity, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	module := &entity.Entity{
		Kind:     entity.KindType,
		Markers:  []entity.Marker{entity.MarkerProducerModule},
		Resolved: true,
	}

	// Module name comes from the struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		module.Name = labels[len(labels)-1].String()
	}
	if module.Name == "" {
		return nil, &CompileError{
			Field:   "module",
			Message: "module name is required",
			Pos:     v.Pos(),
		}
	}

	// resolved defaults to true; manifests set false to model a type
	// whose dependencies are still being discovered
	if resolved, ok, err := lookupBool(v, "resolved"); err != nil {
		return nil, err
	} else if ok {
		module.Resolved = resolved
	}

	if private, ok, err := lookupBool(v, "private"); err != nil {
		return nil, err
	} else if ok {
		module.Private = private
	}

	supertypeVal := v.LookupPath(cue.ParsePath("supertype"))
	if supertypeVal.Exists() {
		supertype, err := supertypeVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		module.Supertype = supertype
	}

	methods, err := parseMethods(v, module)
	if err != nil {
		return nil, err
	}
	module.Methods = methods

	return module, nil
}

// parseMethods extracts method declarations in declaration order.
func parseMethods(v cue.Value, module *entity.Entity) ([]*entity.Entity, error) {
	var methods []*entity.Entity

	methodVal := v.LookupPath(cue.ParsePath("method"))
	if !methodVal.Exists() {
		return methods, nil // methods are optional
	}

	iter, err := methodVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		methodName := iter.Label()
		methodValue := iter.Value()

		method := &entity.Entity{
			Name:      module.Name + "." + methodName,
			Kind:      entity.KindMethod,
			Enclosing: module,
		}

		markers, err := parseMarkers(methodValue)
		if err != nil {
			return nil, err
		}
		method.Markers = markers

		returnsVal := methodValue.LookupPath(cue.ParsePath("returns"))
		if returnsVal.Exists() {
			returns, err := returnsVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			method.Returns = returns
		}

		params, err := parseParams(methodValue, methodName)
		if err != nil {
			return nil, err
		}
		method.Params = params

		for _, flag := range []struct {
			path string
			dst  *bool
		}{
			{"abstract", &method.Abstract},
			{"static", &method.Static},
			{"private", &method.Private},
		} {
			if b, ok, err := lookupBool(methodValue, flag.path); err != nil {
				return nil, err
			} else if ok {
				*flag.dst = b
			}
		}

		methods = append(methods, method)
	}

	return methods, nil
}

// parseMarkers parses the marker declaration. Supports:
//   - marker: "produces" (single marker)
//   - markers: ["produces", "binds"] (marker list)
func parseMarkers(v cue.Value) ([]entity.Marker, error) {
	var markers []entity.Marker

	singleVal := v.LookupPath(cue.ParsePath("marker"))
	if singleVal.Exists() {
		s, err := singleVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		markers = append(markers, entity.Marker(s))
	}

	listVal := v.LookupPath(cue.ParsePath("markers"))
	if listVal.Exists() {
		iter, err := listVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			markers = append(markers, entity.Marker(s))
		}
	}

	return markers, nil
}

// parseParams extracts the method's parameter list.
func parseParams(v cue.Value, methodName string) ([]entity.Param, error) {
	var params []entity.Param

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if !paramsVal.Exists() {
		return params, nil
	}

	iter, err := paramsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		paramVal := iter.Value()
		name, err := paramVal.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("method.%s.params", methodName),
				Message: "parameter name is required",
				Pos:     paramVal.Pos(),
			}
		}
		typ, err := paramVal.LookupPath(cue.ParsePath("type")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("method.%s.params", methodName),
				Message: fmt.Sprintf("parameter %q type is required", name),
				Pos:     paramVal.Pos(),
			}
		}
		params = append(params, entity.Param{Name: name, Type: typ})
	}

	return params, nil
}

// lookupBool reads an optional bool field. The second return reports
// whether the field exists.
func lookupBool(v cue.Value, path string) (bool, bool, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return false, false, nil
	}
	b, err := val.Bool()
	if err != nil {
		return false, false, formatCUEError(err)
	}
	return b, true, nil
}

// CompileError represents a manifest compilation error with source
// position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
