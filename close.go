// close.go implements the tracked close wrapper.

package filetrack

import (
	"fmt"
	"os"

	"github.com/jpl-au/filetrack/internal/log"
	"github.com/jpl-au/filetrack/internal/registry"
	"github.com/jpl-au/filetrack/internal/site"
)

// Close closes a tracked handle and marks its entry closed.
//
// Misuse cases are rejected without touching the platform: a nil handle, a
// standard stream (stdin/stdout/stderr must never be closed through the
// tracked path), and a handle whose entry is already closed — the real
// close must not run twice. Closing an untracked handle is recorded as a
// not-found condition but the real close is still performed: the handle's
// identity is retired either way.
func (t *Tracker) Close(f *os.File) error {
	s := site.Capture(1)
	t.mu.Lock()
	defer t.mu.Unlock()

	const op = "tracker:close"
	t.clearFailure()
	err := t.closeLocked(f, s)
	t.record(op, err)

	name := ""
	if f != nil {
		name = f.Name()
	}
	log.Event(op, "close").Path(name).Site(s).Echo(t.diag).Write(err)
	return err
}

func (t *Tracker) closeLocked(f *os.File, s site.Site) error {
	switch {
	case f == nil:
		return fmt.Errorf("%w: nil handle", ErrMisuse)
	case f == os.Stdin:
		return fmt.Errorf("%w: cannot close the standard input stream", ErrMisuse)
	case f == os.Stdout:
		return fmt.Errorf("%w: cannot close the standard output stream", ErrMisuse)
	case f == os.Stderr:
		return fmt.Errorf("%w: cannot close the standard error stream", ErrMisuse)
	}

	if err := t.ensureRegistry(); err != nil {
		return err
	}

	entry, tracked := t.reg.Lookup(f)
	if tracked && entry.Closed {
		if t.met != nil {
			t.met.DoubleCloses.Inc()
		}
		return fmt.Errorf("%w: handle already closed at %s", ErrMisuse, entry.CloseSite)
	}

	if !tracked {
		// Retire the untracked handle anyway, and record that the
		// registry never saw it.
		t.record("tracker:close", fmt.Errorf("%w: closing untracked handle", ErrNotFound))
		if err := f.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrCloseFailed, err)
		}
		return nil
	}

	closeErr := f.Close()

	// The lifecycle transition happens regardless of the platform result.
	if err := t.reg.Close(f, registry.CloseFile, s); err != nil {
		t.echoTrackingError("tracker:close", entry.Filename, err, s)
	}
	if t.met != nil {
		t.met.Closes.Inc()
	}

	if closeErr != nil {
		return fmt.Errorf("%w: %v", ErrCloseFailed, closeErr)
	}
	return nil
}
