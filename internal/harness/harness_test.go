package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeferredRetry(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "deferred_retry.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Rounds, 2)

	first := result.Rounds[0]
	assert.Equal(t, 1, first.Round)
	assert.Equal(t, []string{"Billing"}, first.Deferred)
	assert.Equal(t, []string{"Orders"}, first.Processed)
	assert.Equal(t, []string{"Orders_CreateFactory"}, first.Artifacts)
	assert.Empty(t, first.Diagnostics, "deferral is not a diagnostic")

	second := result.Rounds[1]
	assert.Equal(t, 2, second.Round)
	assert.Empty(t, second.Deferred)
	assert.Equal(t, []string{"Orders", "Billing"}, second.Processed)
	assert.Equal(t, []string{"Billing_InvoiceFactory"}, second.Artifacts,
		"already-processed modules emit nothing new")

	require.NoError(t, Verify(scenario, result))
}

func TestRunInvalidMethodScenario(t *testing.T) {
	manifests := t.TempDir()
	writeTestManifest(t, manifests, `
package manifests

module: Bad: {
	method: broken: {
		marker: "produces"
	}
}
`)

	scenario := &Scenario{
		Name: "invalid_method",
		Rounds: []Round{
			{
				Manifests: manifests,
				Expect:    &Expect{Processed: 1, Artifacts: 0, Errors: 1},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Rounds, 1)

	trace := result.Rounds[0]
	assert.Equal(t, []string{"Bad"}, trace.Processed, "invalid modules still count as processed")
	assert.Empty(t, trace.Artifacts)
	require.Len(t, trace.Diagnostics, 1)
	assert.Contains(t, trace.Diagnostics[0], "E101")

	require.NoError(t, Verify(scenario, result))
}

func TestRunBadManifests(t *testing.T) {
	scenario := &Scenario{
		Name:   "bad_manifests",
		Rounds: []Round{{Manifests: t.TempDir()}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round 1 manifests")
}

func TestVerifyMismatch(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "deferred_retry.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	scenario.Rounds[0].Expect.Processed = 5
	err = Verify(scenario, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round 1: processed = 1, want 5")
}

func TestVerifySkipsRoundsWithoutExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:   "no_expectations",
		Rounds: []Round{{Manifests: "x"}},
	}
	result := &Result{
		ScenarioName: "no_expectations",
		Rounds:       []RoundTrace{{Round: 1}},
	}

	assert.NoError(t, Verify(scenario, result))
}

func writeTestManifest(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "modules.cue"), []byte(content), 0644)
	require.NoError(t, err)
}
