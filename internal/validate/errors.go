// errors.go defines sentinel errors for tracking failures.
//
// Separated to centralise error definitions. These errors are used with
// errors.Is() for type-safe error checking. Each error represents a
// distinct failure category from the tracker's taxonomy.
//
// Design: Sentinel errors (not error types) because most failures don't
// carry context beyond the category; detailed messages and the offending
// call site are added by wrapping these with fmt.Errorf at the point of
// failure. Platform failures additionally wrap the underlying os error so
// callers can reach it with errors.As.

package validate

import "errors"

var (
	// ErrInvalidArgument covers nil/empty/zero-length inputs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned for operations on untracked handles or
	// filenames.
	ErrNotFound = errors.New("handle not tracked")

	// ErrMisuse flags hard usage-contract violations: closing a standard
	// stream, double-closing a handle.
	ErrMisuse = errors.New("misuse")

	// ErrStillOpen denies removal of a file the process still has open.
	ErrStillOpen = errors.New("file still open")

	// Platform failures, split per operation as the public surface
	// reports them.
	ErrOpenFailed   = errors.New("open failed")
	ErrReopenFailed = errors.New("reopen failed")
	ErrCloseFailed  = errors.New("close failed")
	ErrRemoveFailed = errors.New("remove failed")

	// ErrCorrupt signals a violated registry invariant, such as an
	// indexed entry that vanished from the primary table.
	ErrCorrupt = errors.New("registry corrupted")

	// ErrStorage signals that a backing store could not be created or
	// used after bounded retries. Fatal at lazy initialisation.
	ErrStorage = errors.New("registry storage failure")
)
