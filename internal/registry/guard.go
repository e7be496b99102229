// guard.go implements the deletion guard: the check that catches a program
// removing a file it still has open, a common source of platform-dependent
// data loss.

package registry

import (
	"fmt"

	"github.com/jpl-au/filetrack/internal/site"
	"github.com/jpl-au/filetrack/internal/validate"
)

// StillOpen reports whether a file by this name is still open according to
// the filename index. It returns the offending open site when the deletion
// must be denied.
//
// Allow cases: index unavailable or no row for the name (no conflicting
// knowledge), the indexed entry already closed (stale row, tolerated by
// design rather than eagerly deleted), or the indexed entry vanished from
// the primary store — the last is a violated invariant, reported as
// ErrCorrupt, but it must not block the caller's deletion.
func (r *Registry) StillOpen(name string) (site.Site, bool, error) {
	if r.names == nil {
		return site.Site{}, false, nil
	}

	row, ok := r.names.Get(name)
	if !ok {
		return site.Site{}, false, nil
	}

	entry, ok := r.entries.Get(row.handle)
	if !ok || entry == nil {
		return site.Site{}, false, fmt.Errorf(
			"%w: filename %q is indexed but its entry is gone", validate.ErrCorrupt, name)
	}

	if entry.Closed {
		return site.Site{}, false, nil
	}
	return entry.OpenSite, true, nil
}
