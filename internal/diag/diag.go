// Package diag provides the diagnostic model and the append-only sink
// the pipeline reports into.
package diag

import "fmt"

// Diagnostic is a single message attributed to a program entity.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Entity   string   `json:"entity,omitempty"` // entity name the message points at
}

func (d Diagnostic) String() string {
	if d.Entity != "" {
		return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Entity, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}

// Errorf builds an error-severity diagnostic.
func Errorf(code, entity, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Entity:   entity,
	}
}

// Warningf builds a warning-severity diagnostic.
func Warningf(code, entity, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SevWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Entity:   entity,
	}
}

// Sink receives diagnostics as they are produced. Implementations must
// preserve report order; the pipeline's determinism guarantees depend
// on it.
type Sink interface {
	Report(d Diagnostic)
}
