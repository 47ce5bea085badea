package validate

import (
	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/entity"
)

// ModuleValidator performs aggregate checks over a module type as a
// whole: constraints that only make sense at the type level, spanning
// its declared methods and supertype.
//
// Validate returns a report and never touches a sink; the caller
// decides whether and where to print it.
type ModuleValidator struct{}

// NewModuleValidator returns a ModuleValidator.
func NewModuleValidator() *ModuleValidator {
	return &ModuleValidator{}
}

// Validate checks the module entity and returns its report.
func (v *ModuleValidator) Validate(module *entity.Entity) *diag.Report[*entity.Entity] {
	var items []diag.Diagnostic

	// E201: the producer-module marker belongs on types only
	if module.Kind != entity.KindType {
		items = append(items, diag.Errorf(ErrModuleNotType, module.Name,
			"producer module %q must be a type, got %s", module.Name, module.Kind))
		// Remaining checks assume a type; stop here.
		return diag.NewReport(module, items)
	}

	// E202: private modules cannot be referenced by generated factories
	if module.Private {
		items = append(items, diag.Errorf(ErrModulePrivate, module.Name,
			"producer module %q must not be private", module.Name))
	}

	// E203: module inheritance is disallowed
	if module.Supertype != "" {
		items = append(items, diag.Errorf(ErrModuleSupertype, module.Name,
			"producer module %q must not extend %q", module.Name, module.Supertype))
	}

	providers := 0
	for _, m := range module.Methods {
		produces := m.HasMarker(entity.MarkerProduces)
		binds := m.HasMarker(entity.MarkerBinds)
		if produces || binds {
			providers++
		}
		// E204: the two marker kinds are mutually exclusive on a method
		if produces && binds {
			items = append(items, diag.Errorf(ErrModuleDualMarker, m.Name,
				"method %q cannot be marked both produces and binds", m.LocalName()))
		}
	}

	// W205: an empty module is suspicious but not an error
	if providers == 0 {
		items = append(items, diag.Warningf(WarnModuleNoProviders, module.Name,
			"producer module %q declares no provider methods", module.Name))
	}

	return diag.NewReport(module, items)
}
