// Package store provides the associative tables backing the tracking
// registry.
//
// The registry consumes this as an opaque key→value store: capacity-hinted
// construction, point get/set/delete, and a snapshot enumeration of all
// values. Two instances exist at runtime, one keyed by stream handle and
// one keyed by filename. The store performs no locking of its own; the
// registry serializes access under its global lock.
package store

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned when a store is constructed with an invalid
// capacity hint.
var ErrCapacity = errors.New("invalid store capacity")

// Map is a generic key→value table.
type Map[K comparable, V any] struct {
	m map[K]V
}

// New creates a Map sized for at least capacity entries.
// The capacity must be at least 1.
func New[K comparable, V any](capacity int) (*Map[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	return &Map[K, V]{m: make(map[K]V, capacity)}, nil
}

// Get returns the value for key and whether it was present.
func (s *Map[K, V]) Get(key K) (V, bool) {
	v, ok := s.m[key]
	return v, ok
}

// Set inserts or overwrites the value for key.
func (s *Map[K, V]) Set(key K, value V) {
	s.m[key] = value
}

// Delete removes key. Removing an absent key is a no-op and returns false.
func (s *Map[K, V]) Delete(key K) bool {
	if _, ok := s.m[key]; !ok {
		return false
	}
	delete(s.m, key)
	return true
}

// All returns a snapshot of every stored value. Mutating the store after
// the call does not affect the returned slice.
func (s *Map[K, V]) All() []V {
	out := make([]V, 0, len(s.m))
	for _, v := range s.m {
		out = append(out, v)
	}
	return out
}

// Len returns the number of stored entries.
func (s *Map[K, V]) Len() int {
	return len(s.m)
}

// Destroy releases the table. The store must not be used afterwards.
func (s *Map[K, V]) Destroy() {
	s.m = nil
}
