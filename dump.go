// dump.go implements the snapshot report and the shutdown sweep.

package filetrack

import (
	"io"

	"github.com/jpl-au/filetrack/internal/log"
	"github.com/jpl-au/filetrack/internal/registry"
	"github.com/jpl-au/filetrack/internal/report"
	"github.com/jpl-au/filetrack/internal/site"
)

// DumpAll writes a best-effort report of every tracked entry, live and
// closed, to w. Internal corruption found on the way is reported inline;
// the dump never fails because of it.
func (t *Tracker) DumpAll(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearFailure()

	var entries []registry.Entry
	if t.reg != nil {
		entries = t.reg.Snapshot()
	}
	err := report.Dump(w, entries)
	t.record("tracker:dump", err)
	log.Event("tracker:dump", "dump").Detail("entries", len(entries)).Write(err)
	return err
}

// Shutdown runs the leak sweep: every surviving entry not marked closed is
// reported to w as a leak and force-closed, so the platform resource is
// released even though the caller never closed it. Both backing stores are
// then destroyed; the tracker must not be used afterwards.
//
// Shutdown is meant for single-threaded teardown (a deferred call in main,
// a TestMain epilogue). It returns the number of leaks found.
func (t *Tracker) Shutdown(w io.Writer) (int, error) {
	s := site.Capture(1)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearFailure()

	if t.reg == nil {
		return 0, nil
	}

	leaks, err := t.reg.Sweep(
		func(h registry.Handle) error { return h.Close() },
		func(e registry.Entry) {
			if w != nil {
				report.Leak(w, e)
			}
			if t.met != nil {
				t.met.Leaks.Inc()
			}
		},
	)
	t.reg = nil
	t.record("tracker:shutdown", err)
	log.Event("tracker:shutdown", "sweep").Site(s).Detail("leaks", leaks).Echo(t.diag).Write(err)
	return leaks, err
}
