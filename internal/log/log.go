// Package log provides centralised diagnostic and audit logging for
// filetrack operations. Audit entries are stored in
// ~/.filetrack/log/filetrack-log.db and track lifecycle events across
// instrumented processes; failures are additionally echoed as
// human-readable lines with the responsible call site, so they are visible
// even when the caller ignores the returned error.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("tracker:open", "open").
//		Path(name).
//		Mode(mode).
//		Site(s).
//		Echo(diagWriter).
//		Write(err)
//
// The source parameter follows the format "tracker:{operation}" for library
// wrappers or "cli:{command}" for CLI commands.
package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jpl-au/filetrack/internal/site"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single audit log entry.
type Entry struct {
	Source string // e.g., "tracker:open", "cli:replay"
	Action string // verb: open, reopen, close, remove, dump, sweep
	Path   string // filename the operation targeted, if any
	Mode   string // stream mode, if any
	Site   string // responsible call site as "file:line"

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether the operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API. Create with [Event],
// chain methods to set fields, then call [Builder.Write] to complete it.
type Builder struct {
	entry Entry
	echo  io.Writer
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Path sets the filename this operation affects.
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Mode sets the stream mode involved in this operation.
func (b *Builder) Mode(mode string) *Builder {
	b.entry.Mode = mode
	return b
}

// Site sets the call site responsible for this operation.
func (b *Builder) Site(s site.Site) *Builder {
	b.entry.Site = s.String()
	return b
}

// Echo selects a diagnostic stream. When the completing error is non-nil,
// a human-readable line with the call site is written there in addition to
// the audit record. A nil writer disables the echo.
func (b *Builder) Echo(w io.Writer) *Builder {
	b.echo = w
	return b
}

// Detail adds a key-value pair to the log entry's detail map. Can be
// called multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write completes the log entry, deriving success/failure from err.
//
// If err is non-nil the entry is logged as failed, and echoed to the
// diagnostic stream when one was set. Audit persistence is best-effort and
// never fails the operation being logged.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
		if b.echo != nil {
			if b.entry.Path != "" {
				fmt.Fprintf(b.echo, "filetrack: %s: %v\n  file: %s\n  site: %s\n",
					b.entry.Source, err, b.entry.Path, b.entry.Site)
			} else {
				fmt.Fprintf(b.echo, "filetrack: %s: %v\n  site: %s\n",
					b.entry.Source, err, b.entry.Site)
			}
		}
	}
	Log(b.entry)
}

// Log writes an entry. Safe to call if the logger is not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}
