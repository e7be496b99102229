// Package fmode parses C-style stream mode strings ("r", "w+", "ab") into
// os.OpenFile flags.
//
// The tracker's wrappers accept the mode in the form call sites already use
// with the platform's stream API, so instrumented code keeps its mode
// literals unchanged. The parsed string is also stored (bounded) in the
// tracking entry for reporting.
package fmode

import (
	"fmt"
	"os"

	"github.com/jpl-au/filetrack/internal/validate"
)

// LenMax bounds the stored copy of a mode string.
const LenMax = 16

// TempSentinel is the mode recorded for anonymous temporary files. Entries
// carrying it are exempt from filename indexing since no name is knowable.
const TempSentinel = "(tmpfile)"

// Perm is the permission applied to files the tracker creates.
const Perm = 0644

// Parse converts a stream mode string into os.OpenFile flags.
//
// Recognised bases are "r" (read), "w" (truncate/create) and "a" (append/
// create), optionally followed by "+" (read-write) and/or "b" (accepted and
// ignored; byte streams are the only kind Go has). Anything else is an
// invalid-argument failure.
func Parse(mode string) (int, error) {
	if err := validate.Mode(mode); err != nil {
		return 0, err
	}

	base := mode[0]
	var flags int
	switch base {
	case 'r':
		flags = os.O_RDONLY
	case 'w':
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case 'a':
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", validate.ErrInvalidArgument, mode)
	}

	plus := false
	for _, c := range mode[1:] {
		switch c {
		case '+':
			if plus {
				return 0, fmt.Errorf("%w: malformed mode %q", validate.ErrInvalidArgument, mode)
			}
			plus = true
		case 'b':
			// Binary modifier: no effect, kept for source compatibility.
		default:
			return 0, fmt.Errorf("%w: unknown mode %q", validate.ErrInvalidArgument, mode)
		}
	}

	if plus {
		flags &^= os.O_RDONLY | os.O_WRONLY
		flags |= os.O_RDWR
	}
	return flags, nil
}
