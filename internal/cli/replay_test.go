package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

const passingScenario = `name: guard
steps:
  - op: open
    handle: h1
    name: a.txt
    mode: w
  - op: remove
    name: a.txt
    expect: still_open
  - op: close
    handle: h1
  - op: remove
    name: a.txt
expect_leaks: 0
`

func TestReplayPassingScenario(t *testing.T) {
	path := writeScenario(t, passingScenario)

	out, _, err := execute(t, "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, `scenario "guard": 4 steps, passed`)
	assert.Contains(t, out, "sweep: 0 leaked stream(s)")
}

func TestReplayDivergenceExitsNonZero(t *testing.T) {
	path := writeScenario(t, `name: wrong
steps:
  - op: open
    handle: h1
    name: a.txt
    mode: w
    expect: open_failed
`)

	out, _, err := execute(t, "replay", path)
	require.Error(t, err)
	assert.Equal(t, ExitReplayFailed, GetExitCode(err))
	assert.Contains(t, out, "want open_failed, got ok")
}

func TestReplayJSONOutput(t *testing.T) {
	path := writeScenario(t, passingScenario)

	out, _, err := execute(t, "replay", path, "--format", "json")
	require.NoError(t, err)

	var res struct {
		Scenario string `json:"scenario"`
		Passed   bool   `json:"passed"`
		Leaks    int    `json:"leaks"`
		Steps    []struct {
			Op     string `json:"op"`
			Passed bool   `json:"passed"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "guard", res.Scenario)
	assert.True(t, res.Passed)
	assert.Zero(t, res.Leaks)
	assert.Len(t, res.Steps, 4)
}

func TestReplayMissingScenarioFile(t *testing.T) {
	_, _, err := execute(t, "replay", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayHonoursSandboxDir(t *testing.T) {
	path := writeScenario(t, `name: sandbox
steps:
  - op: open
    handle: h1
    name: out.txt
    mode: w
  - op: close
    handle: h1
`)
	dir := t.TempDir()

	_, _, err := execute(t, "replay", path, "--dir", dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "out.txt"))
	assert.NoError(t, statErr)
}
