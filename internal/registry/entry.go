// entry.go defines the tracking entry and its lifecycle enums.
//
// Separated from registry.go so the data model is readable on its own.
// Enum string forms match the names the report layer prints; they are part
// of the observable output, not just debug labels.

package registry

import (
	"os"

	"github.com/jpl-au/filetrack/internal/site"
)

// Handle is the opaque identity of an underlying stream. The pointer value
// is the registry's primary key; once the platform frees a handle the same
// value may be reassigned to an unrelated stream, an accepted aliasing risk
// the add path tolerates by overwriting.
type Handle = *os.File

// UnknownName is the filename recorded when the originating name is not
// knowable (anonymous temporary files, synthesized entries).
const UnknownName = "unknown"

// unknownNameLimit bounds the stored copy of UnknownName on synthesized
// entries.
const unknownNameLimit = 8

// OpenKind records how an entry came to exist.
type OpenKind int

const (
	OpenNone OpenKind = iota
	OpenFile
	OpenTemp
	OpenReopen
	OpenUnknown
)

var openKindNames = map[OpenKind]string{
	OpenNone:    "not_open",
	OpenFile:    "fopen",
	OpenTemp:    "tmpfile",
	OpenReopen:  "freopen",
	OpenUnknown: "unknown",
}

func (k OpenKind) String() string {
	if s, ok := openKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// CloseKind records how an entry was closed.
type CloseKind int

const (
	CloseNone CloseKind = iota
	CloseFile
	CloseReopen
	CloseUnknown
)

var closeKindNames = map[CloseKind]string{
	CloseNone:    "not_closed",
	CloseFile:    "fclose",
	CloseReopen:  "freopen",
	CloseUnknown: "unknown",
}

func (k CloseKind) String() string {
	if s, ok := closeKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Entry is one currently-or-formerly-tracked stream handle.
//
// Invariants: Closed == false ⇔ CloseKind == CloseNone ⇔ CloseSite absent.
// The registry owns entry memory exclusively; lookups and snapshots hand
// out copies only.
type Entry struct {
	Handle   Handle
	Filename string // bounded copy of the opening name
	Mode     string // bounded copy of the mode string

	OpenKind  OpenKind
	CloseKind CloseKind
	Closed    bool

	OpenSite       site.Site
	ModeChangeSite site.Site // absent until a mode change occurs
	CloseSite      site.Site
}

// indexEntry is a secondary-index row mapping a filename to the live handle
// that currently owns it. Rows are not maintained for anonymous temporary
// files, and stale rows (entry closed) are tolerated on lookup rather than
// eagerly deleted.
type indexEntry struct {
	filename string
	handle   Handle
}
