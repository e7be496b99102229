package log

import (
	"bytes"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jpl-au/filetrack/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Use temp directory for test database
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	defer func() { dbPathFunc = origDBPath }()

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		Event("tracker:open", "open").
			Path("a.txt").
			Mode("w").
			Site(site.Site{File: "main.go", Line: 12}).
			Write(nil)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var source, action, path, mode, callSite string
		var success int
		err = db.QueryRow("SELECT source, action, path, mode, call_site, success FROM log ORDER BY id DESC LIMIT 1").
			Scan(&source, &action, &path, &mode, &callSite, &success)
		require.NoError(t, err)
		assert.Equal(t, "tracker:open", source)
		assert.Equal(t, "open", action)
		assert.Equal(t, "a.txt", path)
		assert.Equal(t, "w", mode)
		assert.Equal(t, "main.go:12", callSite)
		assert.Equal(t, 1, success)
	})

	t.Run("failure echoes to diagnostic stream", func(t *testing.T) {
		Close()
		require.NoError(t, Open())
		defer Close()

		var buf bytes.Buffer
		Event("tracker:close", "close").
			Path("a.txt").
			Site(site.Site{File: "main.go", Line: 30}).
			Echo(&buf).
			Write(errors.New("already closed"))

		out := buf.String()
		assert.Contains(t, out, "tracker:close")
		assert.Contains(t, out, "already closed")
		assert.Contains(t, out, "main.go:30")
	})

	t.Run("success does not echo", func(t *testing.T) {
		var buf bytes.Buffer
		Event("tracker:open", "open").Echo(&buf).Write(nil)
		assert.Empty(t, buf.String())
	})

	t.Run("recent", func(t *testing.T) {
		Close()
		require.NoError(t, Open())
		defer Close()

		Event("tracker:open", "open").Path("b.txt").Write(nil)
		Event("tracker:remove", "remove").Path("b.txt").Write(errors.New("denied"))

		entries, err := Recent(2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		// Newest first.
		assert.Equal(t, "tracker:remove", entries[0].Source)
		assert.False(t, entries[0].Success)
		assert.Equal(t, "denied", entries[0].Error)
	})
}

func TestLogWithoutOpenIsNoop(t *testing.T) {
	Close()
	Log(Entry{Source: "tracker:open"}) // must not panic
	_, err := Recent(1)
	assert.Error(t, err)
}
