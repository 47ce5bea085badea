package harness

import (
	"fmt"

	"github.com/provc/provc/internal/cli"
	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/gen"
	"github.com/provc/provc/internal/process"
)

// Result captures the per-round trace of a scenario run.
type Result struct {
	ScenarioName string       `json:"scenario_name"`
	Rounds       []RoundTrace `json:"rounds"`
}

// RoundTrace records what one round did. Processed is cumulative in
// insertion order; Artifacts and Diagnostics list only what the round
// added, in emission/report order.
type RoundTrace struct {
	Round       int      `json:"round"`
	Deferred    []string `json:"deferred,omitempty"`
	Processed   []string `json:"processed"`
	Artifacts   []string `json:"artifacts,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Run executes the scenario: one Step for the whole run, one Process
// call per round. Returns an error for scenario-level failures (bad
// manifests); expectation mismatches are reported by Verify.
func Run(scenario *Scenario) (*Result, error) {
	sink := diag.NewCollector()
	memory := gen.NewMemorySink()
	generator := gen.NewGenerator("factories", memory)
	step := process.NewStep(sink, generator)

	result := &Result{ScenarioName: scenario.Name}
	seenDiags := 0
	seenArtifacts := 0

	for i, round := range scenario.Rounds {
		loadResult, loadErrors := cli.LoadManifests(scenario.manifestDir(round), cli.LoadModeFailFast)
		if len(loadErrors) > 0 {
			return nil, fmt.Errorf("round %d manifests: %w", i+1, loadErrors[0])
		}

		deferred := step.Process(loadResult.Grouping())

		trace := RoundTrace{Round: i + 1}
		for _, m := range deferred {
			trace.Deferred = append(trace.Deferred, m.Name)
		}
		for _, m := range step.Processed().Modules() {
			trace.Processed = append(trace.Processed, m.Name)
		}
		for _, a := range memory.Artifacts()[seenArtifacts:] {
			trace.Artifacts = append(trace.Artifacts, a.Name)
		}
		seenArtifacts = len(memory.Artifacts())
		for _, d := range sink.Items()[seenDiags:] {
			trace.Diagnostics = append(trace.Diagnostics, d.String())
		}
		seenDiags = sink.Len()

		result.Rounds = append(result.Rounds, trace)
	}

	return result, nil
}

// Verify checks every round's expectations against the trace.
func Verify(scenario *Scenario, result *Result) error {
	for i, round := range scenario.Rounds {
		if round.Expect == nil {
			continue
		}
		trace := result.Rounds[i]
		if got := len(trace.Processed); got != round.Expect.Processed {
			return fmt.Errorf("round %d: processed = %d, want %d", i+1, got, round.Expect.Processed)
		}
		if err := sameNames(trace.Deferred, round.Expect.Deferred); err != nil {
			return fmt.Errorf("round %d deferred: %w", i+1, err)
		}
		artifacts := 0
		errors := 0
		for _, t := range result.Rounds[:i+1] {
			artifacts += len(t.Artifacts)
			for _, d := range t.Diagnostics {
				if isErrorDiagnostic(d) {
					errors++
				}
			}
		}
		if artifacts != round.Expect.Artifacts {
			return fmt.Errorf("round %d: artifacts = %d, want %d", i+1, artifacts, round.Expect.Artifacts)
		}
		if errors != round.Expect.Errors {
			return fmt.Errorf("round %d: errors = %d, want %d", i+1, errors, round.Expect.Errors)
		}
	}
	return nil
}

func sameNames(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("got %v, want %v", got, want)
		}
	}
	return nil
}

// isErrorDiagnostic matches the rendered form of error diagnostics.
func isErrorDiagnostic(rendered string) bool {
	return len(rendered) >= 5 && rendered[:5] == diag.SevError.String()
}
