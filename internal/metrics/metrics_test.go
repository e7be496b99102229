package metrics_test

import (
	"testing"

	"github.com/jpl-au/filetrack/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	set := metrics.New(reg)

	set.Opens.Inc()
	set.Opens.Inc()
	set.Leaks.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(set.Opens))
	assert.Equal(t, float64(1), testutil.ToFloat64(set.Leaks))
	assert.Equal(t, float64(0), testutil.ToFloat64(set.DoubleCloses))
}

func TestIndependentSets(t *testing.T) {
	a := metrics.New(prometheus.NewRegistry())
	b := metrics.New(prometheus.NewRegistry())

	a.Closes.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(a.Closes))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.Closes))
}
