// Package filetrack is a diagnostic layer over file-stream lifecycle
// operations. It wraps open, reopen, close and remove, maintaining an
// in-memory registry of every live and historical handle so that leaks
// (files left open at shutdown), double-closes, use of untracked handles
// and premature deletion of still-open files are detected and reported
// with the call site responsible.
//
// # Usage
//
// Replace direct platform calls with the tracked wrappers:
//
//	ft, err := filetrack.New()
//	if err != nil { ... }
//
//	f, err := ft.Open("data.txt", "w")   // instead of os.OpenFile
//	...
//	if err := ft.Close(f); err != nil { ... }
//
//	defer ft.Shutdown(os.Stderr)          // leak sweep at teardown
//
// Every wrapper records the caller's file:line, so a leak reported at
// shutdown points at the open that was never closed, and a denied remove
// points at the open that still holds the file.
//
// A process-wide tracker is available through Default() for call sites
// that cannot thread a Tracker value through.
//
// Errors are returned per call and classified with errors.Is against the
// sentinel set re-exported in errors.go (ErrMisuse, ErrStillOpen, ...).
// Each failure is additionally echoed to the tracker's diagnostic stream
// and recorded in the audit log, so misuse is visible even when a call
// site drops the returned error.
package filetrack
