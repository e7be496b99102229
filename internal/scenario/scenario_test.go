package scenario_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/filetrack/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return sc
}

func runFixture(t *testing.T, name string) *scenario.Result {
	t.Helper()
	var buf bytes.Buffer
	res, err := scenario.Run(loadFixture(t, name), t.TempDir(), &buf)
	require.NoError(t, err)
	return res
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nstep:\n  - op: open\n"), 0644))

	_, err := scenario.Load(path)
	assert.Error(t, err)
}

func TestLoadValidates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", "steps:\n  - op: dump\n"},
		{"empty steps", "name: x\nsteps: []\n"},
		{"unknown op", "name: x\nsteps:\n  - op: frob\n"},
		{"open without handle", "name: x\nsteps:\n  - op: open\n    name: a.txt\n    mode: w\n"},
		{"unknown expect", "name: x\nsteps:\n  - op: dump\n    expect: explodes\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0644))
			_, err := scenario.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDeletionGuardScenario(t *testing.T) {
	res := runFixture(t, "deletion_guard.yaml")
	assert.True(t, res.Passed())
	assert.Zero(t, res.Leaks)
}

func TestDoubleCloseScenario(t *testing.T) {
	res := runFixture(t, "double_close.yaml")
	assert.True(t, res.Passed())
}

func TestLeakSweepScenario(t *testing.T) {
	res := runFixture(t, "leak_sweep.yaml")
	assert.True(t, res.Passed())
	assert.Equal(t, 2, res.Leaks)
}

func TestReopenCycleScenario(t *testing.T) {
	res := runFixture(t, "reopen_cycle.yaml")
	assert.True(t, res.Passed(), "failures: %+v", res.Steps)
}

func TestExplicitShutdownStepCountsLeaks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	body := `name: explicit-shutdown
steps:
  - op: open
    handle: h1
    name: a.txt
    mode: w
  - op: shutdown
expect_leaks: 1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	sc, err := scenario.Load(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := scenario.Run(sc, t.TempDir(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Leaks)
	assert.True(t, res.Passed(), "failures: %+v", res.Steps)
}

func TestExpectationMismatchFailsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	body := "name: mismatch\nsteps:\n  - op: open\n    handle: h1\n    name: a.txt\n    mode: w\n    expect: open_failed\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	sc, err := scenario.Load(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := scenario.Run(sc, t.TempDir(), &buf)
	require.NoError(t, err)

	assert.False(t, res.Passed())
	require.Len(t, res.Steps, 1)
	assert.Equal(t, scenario.ExpectOpenFailed, res.Steps[0].Want)
	assert.Equal(t, scenario.ExpectOK, res.Steps[0].Got)
}

func TestReportNamesFailedSteps(t *testing.T) {
	res := &scenario.Result{
		Scenario: "demo",
		Steps: []scenario.StepResult{
			{Index: 0, Op: "open", Want: scenario.ExpectOK, Got: scenario.ExpectOK, Passed: true},
			{Index: 1, Op: "remove", Want: scenario.ExpectStillOpen, Got: scenario.ExpectOK},
		},
		Failed: 1,
		Leaks:  1,
	}

	var buf bytes.Buffer
	scenario.Report(&buf, res)

	out := buf.String()
	assert.Contains(t, out, `scenario "demo": 2 steps, 1 failed`)
	assert.Contains(t, out, "step 2 (remove): want still_open, got ok")
	assert.Contains(t, out, "sweep: 1 leaked stream(s)")
}
