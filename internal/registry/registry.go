// Package registry implements the entry lifecycle engine at the core of
// filetrack: the mapping from live stream handles to tracking entries, the
// filename index used to veto unsafe deletions, the transition rules that
// open, update and close entries, and the shutdown-time leak sweep.
//
// The registry performs no locking and no platform I/O of its own. The
// Tracker in the root package serializes every call under its global lock
// and performs the real open/close; the registry only mutates tracking
// state and reports contract violations as errors from the validate
// taxonomy.
package registry

import (
	"fmt"

	"github.com/jpl-au/filetrack/internal/fmode"
	"github.com/jpl-au/filetrack/internal/site"
	"github.com/jpl-au/filetrack/internal/store"
	"github.com/jpl-au/filetrack/internal/validate"
)

const (
	// entriesCap is the capacity hint for both backing stores.
	entriesCap = 64

	// initTrials bounds store-construction retries before the failure is
	// treated as STORAGE_FAILURE.
	initTrials = 4
)

// Registry owns all tracking entries and the filename index.
type Registry struct {
	entries *store.Map[Handle, *Entry]
	names   *store.Map[string, indexEntry]

	// retain keeps closed entries in the store for later leak and
	// double-close inspection (diagnostic mode). When false, entries are
	// deleted on close to bound memory.
	retain bool
}

// New creates a Registry. Store construction is retried a bounded number
// of times; if the primary store cannot be created the registry cannot
// provide any of its guarantees and ErrStorage is returned. A failed
// filename index is tolerated: tracking still works, only the deletion
// guard is disabled.
func New(retain bool) (*Registry, error) {
	var entries *store.Map[Handle, *Entry]
	var err error
	for i := 0; i < initTrials; i++ {
		entries, err = store.New[Handle, *Entry](entriesCap)
		if err == nil {
			break
		}
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: %v", validate.ErrStorage, err)
	}

	r := &Registry{entries: entries, retain: retain}
	if names, err := store.New[string, indexEntry](entriesCap); err == nil {
		r.names = names
	}
	return r, nil
}

// Add creates a tracking entry for a successfully opened handle, keyed by
// the handle and overwriting any prior entry for that key (handle reuse).
// Unless the mode is the anonymous-temp-file sentinel, the entry is also
// indexed by filename for the deletion guard.
//
// The filename and mode are stored as bounded copies: filename to
// nameLimit bytes, mode to fmode.LenMax.
func (r *Registry) Add(h Handle, kind OpenKind, filename, mode string, nameLimit int, s site.Site) error {
	if h == nil {
		return fmt.Errorf("%w: nil handle, file cannot be tracked", validate.ErrInvalidArgument)
	}
	if err := validate.NameLimit(nameLimit); err != nil {
		return err
	}

	name := validate.Truncate(filename, nameLimit)
	entry := &Entry{
		Handle:   h,
		Filename: name,
		Mode:     validate.Truncate(mode, fmode.LenMax),
		OpenKind: kind,
		OpenSite: s,
	}
	r.entries.Set(h, entry)

	// Anonymous temporary files have no knowable name to index.
	if mode != fmode.TempSentinel && r.names != nil {
		r.names.Set(name, indexEntry{filename: name, handle: h})
	}
	return nil
}

// Update handles the "change access mode of an already-open handle"
// transition. filename must be absent: a non-empty filename here means the
// wrapper contract was violated, which is fatal programmer misuse, not an
// ordinary runtime failure.
//
// The platform may hand back a different handle identity for the same
// stream; when it does, the entry is re-keyed under the new handle (and
// the filename index re-pointed) while the open site and open kind are
// preserved. A missing entry is reported as ErrNotFound, but a best-effort
// UNKNOWN-origin entry is synthesized so the handle keeps being tracked.
func (r *Registry) Update(oldh, newh Handle, filename, mode string, s site.Site) error {
	if filename != "" {
		panic("filetrack: filename must be absent when updating mode via reopen")
	}
	if newh == nil {
		return fmt.Errorf("%w: nil handle, mode cannot be updated", validate.ErrInvalidArgument)
	}

	entry, ok := r.entries.Get(oldh)
	if !ok {
		if err := r.Add(newh, OpenUnknown, UnknownName, mode, unknownNameLimit, s); err != nil {
			return err
		}
		return fmt.Errorf("%w: no entry to update, tracking handle as unknown", validate.ErrNotFound)
	}

	if newh != oldh {
		r.entries.Delete(oldh)
		entry.Handle = newh
		r.entries.Set(newh, entry)
		if r.names != nil && entry.Mode != fmode.TempSentinel {
			if row, ok := r.names.Get(entry.Filename); ok && row.handle == oldh {
				row.handle = newh
				r.names.Set(entry.Filename, row)
			}
		}
	}

	entry.Mode = validate.Truncate(mode, fmode.LenMax)
	entry.ModeChangeSite = s
	return nil
}

// Close marks the entry for h closed. In retain mode the entry stays in
// the store with its close kind and site recorded, so later double-close
// and leak inspection can see it; otherwise it is deleted outright.
// A missing entry is an ErrNotFound no-op: there is nothing to mark.
func (r *Registry) Close(h Handle, kind CloseKind, s site.Site) error {
	if h == nil {
		return fmt.Errorf("%w: nil handle, file cannot be closed", validate.ErrInvalidArgument)
	}

	entry, ok := r.entries.Get(h)
	if !ok {
		return fmt.Errorf("%w: no entry to close", validate.ErrNotFound)
	}

	if !r.retain {
		r.entries.Delete(h)
		return nil
	}

	entry.Closed = true
	entry.CloseKind = kind
	entry.CloseSite = s
	return nil
}

// Lookup returns a copy of the entry for h.
func (r *Registry) Lookup(h Handle) (Entry, bool) {
	entry, ok := r.entries.Get(h)
	if !ok || entry == nil {
		return Entry{}, false
	}
	return *entry, true
}

// Snapshot returns copies of every entry, in no particular order.
func (r *Registry) Snapshot() []Entry {
	all := r.entries.All()
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if e == nil {
			continue
		}
		out = append(out, *e)
	}
	return out
}

// Len returns the number of entries currently in the primary store.
func (r *Registry) Len() int {
	return r.entries.Len()
}
