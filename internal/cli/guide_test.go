package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideDefaultPage(t *testing.T) {
	out, _, err := execute(t, "guide")
	require.NoError(t, err)
	assert.Contains(t, out, "filetrack")
	assert.Contains(t, out, "double close")
}

func TestGuideReplayPage(t *testing.T) {
	out, _, err := execute(t, "guide", "replay")
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario format")
}

func TestGuideUnknownPage(t *testing.T) {
	_, _, err := execute(t, "guide", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available:")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVersionShort(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
