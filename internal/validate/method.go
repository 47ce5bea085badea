// Package validate implements the per-method and per-module validators
// of the provider pipeline.
package validate

import (
	"regexp"

	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/entity"
)

// methodRule checks one aspect of a candidate method and returns the
// diagnostics it found. Rules collect everything wrong; they never
// fail fast.
type methodRule func(m *entity.Entity) []diag.Diagnostic

// MethodValidator validates candidate methods carrying one marker kind.
// One instance exists per marker (produces, binds); both share this
// type and differ only in their rule set.
//
// Validate handles each call independently: candidates repeat across
// rounds and there is no memoization here. A candidate with no
// error-severity finding is included in the returned set. Diagnostics
// go to the sink immediately; invalid input never produces an error
// return.
type MethodValidator struct {
	marker entity.Marker
	rules  []methodRule
}

// Marker returns the marker kind this validator is keyed by.
func (v *MethodValidator) Marker() entity.Marker {
	return v.marker
}

// Validate checks each candidate in order and returns the set of
// methods with no error-severity finding.
func (v *MethodValidator) Validate(sink diag.Sink, candidates []*entity.Entity) *entity.MethodSet {
	var valid []*entity.Entity
	for _, m := range candidates {
		clean := true
		for _, rule := range v.rules {
			for _, d := range rule(m) {
				sink.Report(d)
				if d.Severity >= diag.SevError {
					clean = false
				}
			}
		}
		if clean {
			valid = append(valid, m)
		}
	}
	return entity.NewMethodSet(valid...)
}

// ForMarker returns the validator instance for a marker kind, or nil
// for markers without method-level validation.
func ForMarker(m entity.Marker) *MethodValidator {
	switch m {
	case entity.MarkerProduces:
		return NewProducesValidator()
	case entity.MarkerBinds:
		return NewBindsValidator()
	default:
		return nil
	}
}

// NewProducesValidator builds the validator for produces-marked methods.
func NewProducesValidator() *MethodValidator {
	return &MethodValidator{
		marker: entity.MarkerProduces,
		rules: []methodRule{
			ruleHasReturn(ErrProducesNoReturn, "provider method must declare a provided type"),
			ruleNotPrivate,
			ruleNotAbstract,
			ruleNotStatic(ErrProducesStatic),
			ruleUniqueParams,
			ruleExportedReturn,
		},
	}
}

// NewBindsValidator builds the validator for binds-marked methods.
func NewBindsValidator() *MethodValidator {
	return &MethodValidator{
		marker: entity.MarkerBinds,
		rules: []methodRule{
			ruleHasReturn(ErrBindsNoReturn, "binds method must declare a bound type"),
			ruleAbstract,
			ruleSingleParam,
			ruleNotStatic(ErrBindsStatic),
		},
	}
}

func ruleHasReturn(code, msg string) methodRule {
	return func(m *entity.Entity) []diag.Diagnostic {
		if m.Returns == "" {
			return []diag.Diagnostic{diag.Errorf(code, m.Name, "%s", msg)}
		}
		return nil
	}
}

func ruleNotPrivate(m *entity.Entity) []diag.Diagnostic {
	if m.Private {
		return []diag.Diagnostic{diag.Errorf(ErrProducesPrivate, m.Name,
			"provider method %q must not be private", m.LocalName())}
	}
	return nil
}

func ruleNotAbstract(m *entity.Entity) []diag.Diagnostic {
	if m.Abstract {
		return []diag.Diagnostic{diag.Errorf(ErrProducesAbstract, m.Name,
			"provider method %q must have a body", m.LocalName())}
	}
	return nil
}

func ruleAbstract(m *entity.Entity) []diag.Diagnostic {
	if !m.Abstract {
		return []diag.Diagnostic{diag.Errorf(ErrBindsNotAbstract, m.Name,
			"binds method %q must be abstract", m.LocalName())}
	}
	return nil
}

func ruleNotStatic(code string) methodRule {
	return func(m *entity.Entity) []diag.Diagnostic {
		if m.Static {
			return []diag.Diagnostic{diag.Errorf(code, m.Name,
				"method %q must not be static", m.LocalName())}
		}
		return nil
	}
}

func ruleUniqueParams(m *entity.Entity) []diag.Diagnostic {
	var errs []diag.Diagnostic
	seen := make(map[string]bool, len(m.Params))
	for _, p := range m.Params {
		if seen[p.Name] {
			errs = append(errs, diag.Errorf(ErrProducesDuplicateParam, m.Name,
				"duplicate parameter name %q", p.Name))
		}
		seen[p.Name] = true
	}
	return errs
}

func ruleSingleParam(m *entity.Entity) []diag.Diagnostic {
	if len(m.Params) != 1 {
		return []diag.Diagnostic{diag.Errorf(ErrBindsParamCount, m.Name,
			"binds method %q must take exactly one parameter, got %d", m.LocalName(), len(m.Params))}
	}
	return nil
}

// typeRefPattern matches an exported type reference: an uppercase
// identifier, optionally package qualified.
var typeRefPattern = regexp.MustCompile(`^([a-z][a-zA-Z0-9]*\.)?[A-Z][a-zA-Z0-9]*$`)

func ruleExportedReturn(m *entity.Entity) []diag.Diagnostic {
	if m.Returns == "" {
		return nil // reported by ruleHasReturn
	}
	if !typeRefPattern.MatchString(m.Returns) {
		return []diag.Diagnostic{diag.Errorf(ErrProducesBadType, m.Name,
			"provided type %q is not an exported type reference", m.Returns)}
	}
	return nil
}
