// Package harness runs multi-round pipeline scenarios described in
// YAML, for conformance and golden-trace testing.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a multi-round processing scenario. Each round
// offers a manifest directory to the pipeline; expectations assert on
// the cumulative state after the round.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file
	// name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rounds lists the rounds in order.
	Rounds []Round `yaml:"rounds"`

	// dir is the directory the scenario file was loaded from;
	// manifest paths resolve relative to it.
	dir string
}

// Round is one pipeline invocation.
type Round struct {
	// Manifests is the manifest directory for this round, relative to
	// the scenario file.
	Manifests string `yaml:"manifests"`

	// Expect optionally asserts on state after the round.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect asserts on cumulative pipeline state after a round.
type Expect struct {
	// Processed is the expected total of processed modules.
	Processed int `yaml:"processed"`

	// Deferred lists the module names deferred by this round.
	Deferred []string `yaml:"deferred,omitempty"`

	// Artifacts is the expected total of emitted artifacts.
	Artifacts int `yaml:"artifacts"`

	// Errors is the expected total of error diagnostics.
	Errors int `yaml:"errors"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(s.Rounds) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one round is required", path)
	}

	s.dir = filepath.Dir(path)
	return &s, nil
}

// manifestDir resolves a round's manifest directory.
func (s *Scenario) manifestDir(r Round) string {
	if filepath.IsAbs(r.Manifests) || s.dir == "" {
		return r.Manifests
	}
	return filepath.Join(s.dir, r.Manifests)
}
