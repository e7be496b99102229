// sweep.go implements the shutdown-time leak sweep, the terminal state of
// the registry: enumerate → check each entry → force-close leaks → destroy
// both stores.

package registry

import (
	"errors"
	"fmt"

	"github.com/jpl-au/filetrack/internal/validate"
)

// Sweep enumerates all surviving entries, reports every entry not marked
// closed as a leak, and force-closes it through forceClose so the platform
// resource is released even though the caller never closed it. Both stores
// are destroyed afterwards.
//
// The sweep runs in a single-threaded teardown context: the caller holds
// (and later discards) the global lock. It must tolerate a corrupted or
// partial registry — nil entries and nil handles are recorded and skipped,
// never allowed to abort the sweep for the remaining entries.
func (r *Registry) Sweep(forceClose func(Handle) error, report func(Entry)) (int, error) {
	var errs []error
	leaks := 0

	for _, entry := range r.entries.All() {
		switch {
		case entry == nil:
			errs = append(errs, fmt.Errorf("%w: nil entry in store", validate.ErrCorrupt))
		case entry.Handle == nil:
			errs = append(errs, fmt.Errorf("%w: entry %q has nil handle", validate.ErrCorrupt, entry.Filename))
		case !entry.Closed:
			leaks++
			if report != nil {
				report(*entry)
			}
			if forceClose != nil {
				if err := forceClose(entry.Handle); err != nil {
					errs = append(errs, fmt.Errorf("%w: force-closing %q: %v",
						validate.ErrCloseFailed, entry.Filename, err))
				}
			}
			entry.Closed = true
			entry.CloseKind = CloseUnknown
		}
	}

	r.entries.Destroy()
	if r.names != nil {
		r.names.Destroy()
	}
	return leaks, errors.Join(errs...)
}
