package store_test

import (
	"testing"

	"github.com/jpl-au/filetrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidCapacity(t *testing.T) {
	_, err := store.New[string, int](0)
	assert.ErrorIs(t, err, store.ErrCapacity)

	_, err = store.New[string, int](-3)
	assert.ErrorIs(t, err, store.ErrCapacity)
}

func TestSetGetDelete(t *testing.T) {
	s, err := store.New[string, int](8)
	require.NoError(t, err)

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", 1)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// Overwrite keeps a single entry per key.
	s.Set("a", 2)
	v, _ = s.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestAllSnapshot(t *testing.T) {
	s, err := store.New[int, string](4)
	require.NoError(t, err)

	s.Set(1, "x")
	s.Set(2, "y")

	all := s.All()
	assert.Len(t, all, 2)
	assert.ElementsMatch(t, []string{"x", "y"}, all)

	// The snapshot is detached from later mutation.
	s.Delete(1)
	assert.Len(t, all, 2)
}

func TestDestroy(t *testing.T) {
	s, err := store.New[int, int](2)
	require.NoError(t, err)
	s.Set(1, 1)
	s.Destroy()
	assert.Equal(t, 0, s.Len())
}
