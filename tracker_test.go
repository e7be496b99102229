package filetrack

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/jpl-au/filetrack/internal/config"
	"github.com/jpl-au/filetrack/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a config that keeps tests out of the user's home
// directory: audit persistence off, defaults otherwise.
func testConfig() *config.Config {
	off := false
	return &config.Config{Audit: config.Audit{Enabled: &off}}
}

// setupTracker creates a tracker with diagnostics discarded and audit
// logging disabled.
func setupTracker(t *testing.T, opts ...Option) *Tracker {
	t.Helper()
	all := append([]Option{WithConfig(testConfig()), WithDiagnostics(io.Discard)}, opts...)
	tr, err := New(all...)
	require.NoError(t, err)
	return tr
}

// tmpname returns a path for a file that does not exist yet.
func tmpname(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestNewDefaults(t *testing.T) {
	tr := setupTracker(t)
	assert.True(t, tr.retain)
	assert.Nil(t, tr.reg, "registry is created lazily")
}

func TestWithRetainOverridesConfig(t *testing.T) {
	tr := setupTracker(t, WithRetain(false))
	assert.False(t, tr.retain)
}

func TestLastFailure(t *testing.T) {
	tr := setupTracker(t)

	op, err := tr.LastFailure()
	assert.Empty(t, op)
	assert.NoError(t, err)

	_, openErr := tr.Open("", "r")
	require.Error(t, openErr)

	op, err = tr.LastFailure()
	assert.Equal(t, "tracker:open", op)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// A successful call clears the channel.
	f, openErr := tr.Open(tmpname(t, "ok.txt"), "w")
	require.NoError(t, openErr)
	defer tr.Close(f)

	op, err = tr.LastFailure()
	assert.Empty(t, op)
	assert.NoError(t, err)
}

func TestMetricsCountOperations(t *testing.T) {
	met := metrics.New(prometheus.NewRegistry())
	tr := setupTracker(t, WithMetrics(met))
	path := tmpname(t, "a.txt")

	f, err := tr.Open(path, "w")
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Remove(path), ErrStillOpen)
	require.NoError(t, tr.Close(f))
	assert.ErrorIs(t, tr.Close(f), ErrMisuse)

	g, err := tr.Open(tmpname(t, "b.txt"), "w")
	require.NoError(t, err)
	_, err = tr.Shutdown(io.Discard)
	require.NoError(t, err)
	_ = g

	assert.Equal(t, float64(2), testutil.ToFloat64(met.Opens))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.Closes))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.DoubleCloses))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.DeniedRemoves))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.Leaks))
}

func TestDefaultTrackerSingleton(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // keep lazy init out of the real home

	a := Default()
	b := Default()
	assert.Same(t, a, b)
}
