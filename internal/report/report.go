// Package report formats entry snapshots for human consumption.
//
// Centralises presentation so the registry and wrappers focus on lifecycle
// logic. Consumers hand in read-only snapshots; nothing here mutates
// tracking state. Output ordering is deterministic (filename, then open
// site, then mode) so dumps are diffable and testable against golden
// files.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jpl-au/filetrack/internal/registry"
)

// fdString renders a handle's identity. A package variable so tests can
// pin it to a stable value; file descriptors are only meaningful within a
// single process run.
var fdString = func(h registry.Handle) string {
	if h == nil {
		return "fd=?"
	}
	return fmt.Sprintf("fd=%d", h.Fd())
}

// Dump writes a snapshot report of every entry. Corrupted rows (nil
// handles) are reported inline and skipped; the dump itself is best-effort
// and never aborts early.
func Dump(w io.Writer, entries []registry.Entry) error {
	sorted := make([]registry.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Filename != sorted[j].Filename {
			return sorted[i].Filename < sorted[j].Filename
		}
		if a, b := sorted[i].OpenSite.String(), sorted[j].OpenSite.String(); a != b {
			return a < b
		}
		return sorted[i].Mode < sorted[j].Mode
	})

	if _, err := fmt.Fprintf(w, "filetrack dump: %d entries\n", len(sorted)); err != nil {
		return err
	}
	for _, e := range sorted {
		if e.Handle == nil {
			if _, err := fmt.Fprintf(w, "\n!! corrupt entry: nil handle (file %q)\n", e.Filename); err != nil {
				return err
			}
			continue
		}
		if err := writeEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w io.Writer, e registry.Entry) error {
	if _, err := fmt.Fprintf(w, "\n%s  %s  mode=%s\n", fdString(e.Handle), e.Filename, e.Mode); err != nil {
		return err
	}
	if e.Closed {
		if _, err := fmt.Fprintf(w, "  closed: true (%s at %s)\n", e.CloseKind, e.CloseSite.Short()); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "  closed: false\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  opened: %s at %s\n", e.OpenKind, e.OpenSite.Short()); err != nil {
		return err
	}
	if !e.ModeChangeSite.IsZero() {
		if _, err := fmt.Fprintf(w, "  mode changed at %s\n", e.ModeChangeSite.Short()); err != nil {
			return err
		}
	}
	return nil
}

// Leak writes the shutdown-sweep line for an entry that was never closed.
func Leak(w io.Writer, e registry.Entry) {
	fmt.Fprintf(w, "filetrack: leaked %s %q (mode %s), opened %s at %s\n",
		fdString(e.Handle), e.Filename, e.Mode, e.OpenKind, e.OpenSite.Short())
}
