package fmode_test

import (
	"os"
	"testing"

	"github.com/jpl-au/filetrack/internal/fmode"
	"github.com/jpl-au/filetrack/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		mode  string
		flags int
	}{
		{"r", os.O_RDONLY},
		{"rb", os.O_RDONLY},
		{"r+", os.O_RDWR},
		{"r+b", os.O_RDWR},
		{"rb+", os.O_RDWR},
		{"w", os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		{"wb", os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		{"w+", os.O_RDWR | os.O_CREATE | os.O_TRUNC},
		{"a", os.O_WRONLY | os.O_CREATE | os.O_APPEND},
		{"a+", os.O_RDWR | os.O_CREATE | os.O_APPEND},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			flags, err := fmode.Parse(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.flags, flags)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, mode := range []string{"", "x", "rw", "r++", "w+x", "+r"} {
		t.Run("invalid_"+mode, func(t *testing.T) {
			_, err := fmode.Parse(mode)
			assert.ErrorIs(t, err, validate.ErrInvalidArgument)
		})
	}
}
