// remove.go implements the guarded remove wrapper: the check that catches
// a program deleting a file it still has open.

package filetrack

import (
	"fmt"
	"os"

	"github.com/jpl-au/filetrack/internal/log"
	"github.com/jpl-au/filetrack/internal/site"
	"github.com/jpl-au/filetrack/internal/validate"
)

// Remove deletes name, unless the registry knows a live handle that still
// has it open — then the removal is denied with ErrStillOpen and the
// offending open's call site in the error. A stale index row (the handle
// since closed) and a never-tracked name both allow the removal; registry
// corruption found on the way is reported but never blocks.
func (t *Tracker) Remove(name string) error {
	s := site.Capture(1)
	t.mu.Lock()
	defer t.mu.Unlock()

	const op = "tracker:remove"
	t.clearFailure()
	err := t.removeLocked(name, s)
	t.record(op, err)
	log.Event(op, "remove").Path(name).Site(s).Echo(t.diag).Write(err)
	return err
}

func (t *Tracker) removeLocked(name string, s site.Site) error {
	if err := validate.Name(name); err != nil {
		return err
	}
	if err := validate.NameLimit(t.cfg.MaxName()); err != nil {
		return err
	}

	// Without a registry there is no conflicting knowledge; the guard
	// only runs against tracked state. The index keys are bounded copies,
	// so the lookup key must be bounded the same way or a long name would
	// slip past the guard.
	if t.reg != nil {
		openSite, open, err := t.reg.StillOpen(validate.Truncate(name, t.cfg.MaxName()))
		if err != nil {
			t.echoTrackingError("tracker:remove", name, err, s)
		}
		if open {
			if t.met != nil {
				t.met.DeniedRemoves.Inc()
			}
			return fmt.Errorf("%w: %q opened at %s", ErrStillOpen, name, openSite)
		}
	}

	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrRemoveFailed, name, err)
	}
	return nil
}
