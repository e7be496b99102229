// open.go implements the tracked open, temp-open and reopen wrappers.
//
// The wrappers validate arguments, perform the real platform call while
// holding the global lock, and drive the registry's lifecycle transitions
// on the outcome. Tracking failures after a successful platform call are
// recorded and echoed but never turn the call into a failure: the caller
// still gets a live handle.

package filetrack

import (
	"fmt"
	"os"

	"github.com/jpl-au/filetrack/internal/fmode"
	"github.com/jpl-au/filetrack/internal/log"
	"github.com/jpl-au/filetrack/internal/registry"
	"github.com/jpl-au/filetrack/internal/site"
	"github.com/jpl-au/filetrack/internal/validate"
)

// Open opens name with a C-style mode string ("r", "w+", "ab", ...) and
// tracks the resulting handle. A failed open creates no entry.
func (t *Tracker) Open(name, mode string) (*os.File, error) {
	s := site.Capture(1)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearFailure()
	return t.open(name, mode, s)
}

func (t *Tracker) open(name, mode string, s site.Site) (*os.File, error) {
	const op = "tracker:open"
	f, err := t.openLocked(name, mode, s)
	t.record(op, err)
	log.Event(op, "open").Path(name).Mode(mode).Site(s).Echo(t.diag).Write(err)
	return f, err
}

func (t *Tracker) openLocked(name, mode string, s site.Site) (*os.File, error) {
	if err := validate.Name(name); err != nil {
		return nil, err
	}
	if err := validate.NameLimit(t.cfg.MaxName()); err != nil {
		return nil, err
	}
	flags, err := fmode.Parse(mode)
	if err != nil {
		return nil, err
	}
	if err := t.ensureRegistry(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(name, flags, fmode.Perm)
	if err != nil {
		return nil, fmt.Errorf("%w: %q mode %q: %v", ErrOpenFailed, name, mode, err)
	}

	t.track(f, registry.OpenFile, name, mode, t.cfg.MaxName(), s)
	if t.met != nil {
		t.met.Opens.Inc()
	}
	return f, nil
}

// CreateTemp opens an anonymous temporary file and tracks it. No filename
// is knowable, so the entry carries the "unknown" placeholder and is
// exempt from filename indexing (a temp file cannot veto a removal).
func (t *Tracker) CreateTemp() (*os.File, error) {
	s := site.Capture(1)
	t.mu.Lock()
	defer t.mu.Unlock()

	const op = "tracker:createtemp"
	t.clearFailure()
	f, err := t.createTempLocked(s)
	t.record(op, err)
	log.Event(op, "open").Site(s).Echo(t.diag).Write(err)
	return f, err
}

func (t *Tracker) createTempLocked(s site.Site) (*os.File, error) {
	if err := t.ensureRegistry(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "filetrack-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temporary file: %v", ErrOpenFailed, err)
	}

	t.track(f, registry.OpenTemp, registry.UnknownName, fmode.TempSentinel, 8, s)
	if t.met != nil {
		t.met.TempOpens.Inc()
	}
	return f, nil
}

// Reopen is the close-and-reopen / change-mode operation.
//
// With a non-empty name, the original handle is closed (its entry marked
// closed with the reopen kind, matching the platform contract that a
// failed reopen still closes the original stream) and a fresh entry is
// created for the new handle — even when the new handle's identity equals
// the old one.
//
// With an empty name the mode of the same file is changed: the underlying
// file is reopened by its own name, and the existing entry is re-keyed to
// the handle the platform returns, preserving the original open site and
// open kind while recording the mode-change site.
//
// Standard streams are exempt from all tracking.
func (t *Tracker) Reopen(name, mode string, f *os.File) (*os.File, error) {
	s := site.Capture(1)
	t.mu.Lock()
	defer t.mu.Unlock()

	const op = "tracker:reopen"
	t.clearFailure()
	nf, err := t.reopenLocked(name, mode, f, s)
	t.record(op, err)
	log.Event(op, "reopen").Path(name).Mode(mode).Site(s).Echo(t.diag).Write(err)
	return nf, err
}

func (t *Tracker) reopenLocked(name, mode string, f *os.File, s site.Site) (*os.File, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil handle", ErrInvalidArgument)
	}
	flags, err := fmode.Parse(mode)
	if err != nil {
		return nil, err
	}
	if err := t.ensureRegistry(); err != nil {
		return nil, err
	}

	if isStd(f) {
		return t.reopenStd(name, flags, f)
	}

	if name == "" {
		return t.changeMode(mode, flags, f, s)
	}

	nf, err := os.OpenFile(name, flags, fmode.Perm)

	// Win or lose, the original stream is retired: real-close it and mark
	// its entry closed with the reopen kind.
	f.Close()
	if cerr := t.reg.Close(f, registry.CloseReopen, s); cerr != nil {
		t.echoTrackingError("tracker:reopen", name, cerr, s)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %q mode %q: %v", ErrReopenFailed, name, mode, err)
	}

	t.track(nf, registry.OpenReopen, name, mode, t.cfg.MaxName(), s)
	if t.met != nil {
		t.met.Reopens.Inc()
	}
	return nf, nil
}

// changeMode reopens the same file under a new mode. The handle identity
// the platform returns differs from the original, so the entry is tracked
// under the new value.
func (t *Tracker) changeMode(mode string, flags int, f *os.File, s site.Site) (*os.File, error) {
	nf, err := os.OpenFile(f.Name(), flags, fmode.Perm)
	if err != nil {
		// A failed reopen still closes the original stream.
		f.Close()
		if cerr := t.reg.Close(f, registry.CloseReopen, s); cerr != nil {
			t.echoTrackingError("tracker:reopen", f.Name(), cerr, s)
		}
		return nil, fmt.Errorf("%w: mode %q: %v", ErrReopenFailed, mode, err)
	}

	f.Close()
	if uerr := t.reg.Update(f, nf, "", mode, s); uerr != nil {
		t.echoTrackingError("tracker:reopen", f.Name(), uerr, s)
	}
	if t.met != nil {
		t.met.Reopens.Inc()
	}
	return nf, nil
}

// reopenStd handles the standard streams, which are never tracked. A
// redirect (non-empty name) still performs the real open so the caller
// can wire the result up; a bare mode change has no expressible effect.
func (t *Tracker) reopenStd(name string, flags int, f *os.File) (*os.File, error) {
	if name == "" {
		return f, nil
	}
	nf, err := os.OpenFile(name, flags, fmode.Perm)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReopenFailed, name, err)
	}
	return nf, nil
}

// track adds a registry entry for a successfully opened handle. Tracking
// failure is recorded and echoed but does not fail the open.
func (t *Tracker) track(f *os.File, kind registry.OpenKind, name, mode string, limit int, s site.Site) {
	if err := t.reg.Add(f, kind, name, mode, limit, s); err != nil {
		t.echoTrackingError("tracker:track", name, err, s)
	}
}

// echoTrackingError surfaces a registry-side failure that must not fail
// the platform operation it accompanied.
func (t *Tracker) echoTrackingError(op, name string, err error, s site.Site) {
	t.lastOp = op
	t.lastErr = err
	log.Event(op, "track").Path(name).Site(s).Echo(t.diag).Write(err)
}
