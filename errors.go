// errors.go re-exports the failure taxonomy so callers can classify
// results with errors.Is without importing internal packages.

package filetrack

import "github.com/jpl-au/filetrack/internal/validate"

var (
	// ErrInvalidArgument covers empty filenames, empty or malformed
	// modes, and invalid limits.
	ErrInvalidArgument = validate.ErrInvalidArgument

	// ErrNotFound is recorded for operations on untracked handles; the
	// operation itself still completes best-effort.
	ErrNotFound = validate.ErrNotFound

	// ErrMisuse flags hard usage-contract violations: closing a nil
	// handle or a standard stream, double-closing a handle.
	ErrMisuse = validate.ErrMisuse

	// ErrStillOpen denies removal of a file this process still has open.
	ErrStillOpen = validate.ErrStillOpen

	// Platform failures, one per operation.
	ErrOpenFailed   = validate.ErrOpenFailed
	ErrReopenFailed = validate.ErrReopenFailed
	ErrCloseFailed  = validate.ErrCloseFailed
	ErrRemoveFailed = validate.ErrRemoveFailed

	// ErrCorrupt signals a violated registry invariant.
	ErrCorrupt = validate.ErrCorrupt

	// ErrStorage signals that the registry's backing store could not be
	// created.
	ErrStorage = validate.ErrStorage
)
