package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is one generated source unit, keyed by its binding's
// content-addressed ID.
type Artifact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`   // generated factory type name
	Module string `json:"module"` // enclosing module entity name
	Method string `json:"method"` // originating method entity name
	Source string `json:"source"`
}

// FileName returns the stable file name for the artifact.
func (a Artifact) FileName() string {
	return fmt.Sprintf("%s_gen.go", a.Name)
}

// ArtifactSink receives generated artifacts. Emission is write-once
// per artifact ID: re-emitting an artifact with an ID the sink has
// already seen must succeed without observable effect.
type ArtifactSink interface {
	Emit(a Artifact) error
}

// DirSink writes artifacts as files under a directory.
type DirSink struct {
	Dir string
}

// Emit implements ArtifactSink. The file name derives from the
// artifact name, so re-emitting an equal artifact rewrites identical
// content.
func (s DirSink) Emit(a Artifact) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("artifact dir: %w", err)
	}
	path := filepath.Join(s.Dir, a.FileName())
	if err := os.WriteFile(path, []byte(a.Source), 0644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", a.Name, err)
	}
	return nil
}

// MemorySink collects artifacts in emission order, deduplicated by ID.
// Used by tests and the harness.
type MemorySink struct {
	artifacts []Artifact
	seen      map[string]bool
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: make(map[string]bool)}
}

// Emit implements ArtifactSink.
func (s *MemorySink) Emit(a Artifact) error {
	if s.seen[a.ID] {
		return nil
	}
	s.seen[a.ID] = true
	s.artifacts = append(s.artifacts, a)
	return nil
}

// Artifacts returns the emitted artifacts in order.
func (s *MemorySink) Artifacts() []Artifact {
	return s.artifacts
}

// MultiSink fans an emission out to several sinks, stopping at the
// first failure.
type MultiSink []ArtifactSink

// Emit implements ArtifactSink.
func (s MultiSink) Emit(a Artifact) error {
	for _, sink := range s {
		if err := sink.Emit(a); err != nil {
			return err
		}
	}
	return nil
}
