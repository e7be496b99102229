// Package site captures and represents source call sites.
//
// Every tracked lifecycle transition is attributed to the file:line that
// triggered it. Wrappers capture the site once at the public API boundary
// and thread it through the engine, so a report line always points at the
// caller's code rather than at filetrack internals.
package site

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Site identifies a source location. The zero value means "unknown/absent".
type Site struct {
	File string
	Line int
}

// Capture returns the call site skip frames above the caller of Capture.
// skip=0 is the caller itself, skip=1 its caller, and so on.
func Capture(skip int) Site {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{}
	}
	return Site{File: file, Line: line}
}

// IsZero reports whether the site is absent.
func (s Site) IsZero() bool {
	return s.File == "" && s.Line == 0
}

// String renders the site as "file:line", or "unknown" when absent.
func (s Site) String() string {
	if s.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// Short renders the site with only the file's base name, for compact
// report lines.
func (s Site) Short() string {
	if s.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(s.File), s.Line)
}
