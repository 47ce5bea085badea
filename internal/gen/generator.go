// Package gen renders generated factory sources from provision
// bindings and emits them through an artifact sink.
package gen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/provc/provc/internal/binding"
)

// GenerationError reports a failed generation attempt for one binding.
// It carries the binding so the caller can attribute a diagnostic to
// the originating method.
type GenerationError struct {
	Binding *binding.Binding
	Cause   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating factory for %s: %v", e.Binding.Method, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Generator renders one Go factory source artifact per binding.
//
// Generate is safe to re-attempt with an equal binding: artifacts are
// keyed by the binding's content-addressed ID and sinks treat emission
// as write-once. In practice the orchestrator's processed set prevents
// re-attempts.
type Generator struct {
	pkg  string
	sink ArtifactSink
}

// NewGenerator returns a Generator writing artifacts for the given
// package name through sink.
func NewGenerator(pkg string, sink ArtifactSink) *Generator {
	return &Generator{pkg: pkg, sink: sink}
}

// Generate renders the factory for b and emits it. A non-nil return is
// always a *GenerationError; the caller reports it and moves on to the
// next binding.
func (g *Generator) Generate(b *binding.Binding) error {
	src, err := g.render(b)
	if err != nil {
		return &GenerationError{Binding: b, Cause: err}
	}

	artifact := Artifact{
		ID:     b.ID,
		Name:   b.FactoryName(),
		Module: b.Module,
		Method: b.Method,
		Source: src,
	}
	if err := g.sink.Emit(artifact); err != nil {
		return &GenerationError{Binding: b, Cause: err}
	}
	return nil
}

// identPattern matches a plain or package-qualified Go identifier.
var identPattern = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*\.)?[a-zA-Z_][a-zA-Z0-9_]*$`)

func (g *Generator) render(b *binding.Binding) (string, error) {
	idents := []string{b.Module, b.ProvidedType}
	for _, d := range b.Dependencies {
		idents = append(idents, d.Name, d.Type)
	}
	for _, id := range idents {
		if !identPattern.MatchString(id) {
			return "", fmt.Errorf("invalid identifier %q in descriptor", id)
		}
	}

	var sb strings.Builder
	sb.WriteString("// Code generated by provc. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", g.pkg)

	name := b.FactoryName()
	methodName := b.MethodEntity().LocalName()

	fmt.Fprintf(&sb, "// %s provides %s by calling %s.\n", name, b.ProvidedType, b.Method)
	fmt.Fprintf(&sb, "type %s struct {\n", name)
	fmt.Fprintf(&sb, "\tmodule *%s\n", b.Module)
	for _, d := range b.Dependencies {
		fmt.Fprintf(&sb, "\t%s %s\n", d.Name, d.Type)
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, "func New%s(module *%s", name, b.Module)
	for _, d := range b.Dependencies {
		fmt.Fprintf(&sb, ", %s %s", d.Name, d.Type)
	}
	fmt.Fprintf(&sb, ") *%s {\n", name)
	fmt.Fprintf(&sb, "\treturn &%s{\n", name)
	sb.WriteString("\t\tmodule: module,\n")
	for _, d := range b.Dependencies {
		fmt.Fprintf(&sb, "\t\t%s: %s,\n", d.Name, d.Name)
	}
	sb.WriteString("\t}\n}\n\n")

	fmt.Fprintf(&sb, "// Get returns the provided %s.\n", b.ProvidedType)
	fmt.Fprintf(&sb, "func (f *%s) Get() %s {\n", name, b.ProvidedType)
	fmt.Fprintf(&sb, "\treturn f.module.%s(", methodName)
	for i, d := range b.Dependencies {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "f.%s", d.Name)
	}
	sb.WriteString(")\n}\n")

	return sb.String(), nil
}
