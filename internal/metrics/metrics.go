// Package metrics exposes lifecycle counters for instrumented processes
// that already run a Prometheus registry.
//
// The counters are grouped in a Set constructed against an explicit
// Registerer rather than the default registry, so independent trackers
// (and tests) can own independent metric sets.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Set holds the tracker's lifecycle counters.
type Set struct {
	Opens         prometheus.Counter
	TempOpens     prometheus.Counter
	Reopens       prometheus.Counter
	Closes        prometheus.Counter
	DoubleCloses  prometheus.Counter
	DeniedRemoves prometheus.Counter
	Leaks         prometheus.Counter
}

// New creates and registers the counter set on reg.
func New(reg prometheus.Registerer) *Set {
	f := promauto.With(reg)
	return &Set{
		Opens: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_opens_total",
			Help: "Total number of tracked file opens",
		}),
		TempOpens: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_temp_opens_total",
			Help: "Total number of tracked anonymous temporary file opens",
		}),
		Reopens: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_reopens_total",
			Help: "Total number of tracked reopens (mode changes included)",
		}),
		Closes: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_closes_total",
			Help: "Total number of tracked file closes",
		}),
		DoubleCloses: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_double_closes_total",
			Help: "Total number of rejected attempts to close an already-closed handle",
		}),
		DeniedRemoves: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_denied_removes_total",
			Help: "Total number of removals denied because the file was still open",
		}),
		Leaks: f.NewCounter(prometheus.CounterOpts{
			Name: "filetrack_leaks_total",
			Help: "Total number of handles found open during the shutdown sweep",
		}),
	}
}
