// Package validate provides input validation for the tracker's public
// operation surface.
//
// This package enforces the argument contracts shared by the open, reopen
// and remove wrappers. Each validation function returns nil on success or
// an error wrapping one of the sentinels in errors.go, so callers use
// errors.Is() for type-safe checking:
//
//	if errors.Is(err, validate.ErrInvalidArgument) {
//	    // reject before touching the platform
//	}
//
// Validation is deliberately minimal: it rejects the inputs the platform
// call would otherwise turn into undefined or confusing behaviour (empty
// names, empty modes, nonsensical length limits) and nothing more.
package validate

import (
	"fmt"
	"strings"
)

// Name validates a filename argument.
//
// Validation rules:
//   - Empty names rejected (nothing to open or remove)
//   - Null bytes rejected (would silently truncate at the platform boundary)
func Name(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty filename", ErrInvalidArgument)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: null byte in filename", ErrInvalidArgument)
	}
	return nil
}

// Mode validates an open-mode argument. Only presence is checked here;
// the fmode package decides whether the string is a well-formed mode.
func Mode(mode string) error {
	if mode == "" {
		return fmt.Errorf("%w: empty mode", ErrInvalidArgument)
	}
	return nil
}

// NameLimit validates a stored-filename length bound.
func NameLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("%w: name length limit must be at least 1, got %d", ErrInvalidArgument, limit)
	}
	return nil
}

// Truncate bounds s to at most limit bytes. Stored copies of filenames and
// modes are bounded so a hostile or buggy caller cannot bloat the registry.
func Truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
