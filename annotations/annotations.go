// Package annotations provides the metadata store that provider-specific
// settings are attached to.
//
// Annotations are namespaced keys on entities, keys, indexes and properties:
//
//	SqlServer:MemoryOptimized = true
//	SqlServer:HiLoSequenceName = "OrderNumbers"
//	Oracle:ValueGenerationStrategy = "Sequence"
//
// A Store keeps insertion order so dumps and comparisons are deterministic.
// Dialect packages expose typed accessors as Key values over a shared Store.
package annotations

import "strings"

// Separator splits the provider namespace from the annotation name.
const Separator = ":"

// Store is an ordered mapping from namespaced key to value.
// The zero value is ready to use. A nil *Store reads as empty.
type Store struct {
	keys   []string
	values map[string]any
}

// New creates a store from alternating key/value pairs.
func New(pairs ...any) *Store {
	s := &Store{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if k, ok := pairs[i].(string); ok {
			s.Set(k, pairs[i+1])
		}
	}
	return s
}

// Get returns the value for a key and whether it was found.
func (s *Store) Get(key string) (any, bool) {
	if s == nil || s.values == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has returns true if the key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores a value, keeping the original position of existing keys.
func (s *Store) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Remove deletes a key. Removing a missing key is a no-op.
func (s *Store) Remove(key string) {
	if s == nil || s.values == nil {
		return
	}
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Namespace returns the keys belonging to one provider namespace.
func (s *Store) Namespace(ns string) []string {
	prefix := ns + Separator
	var out []string
	for _, k := range s.Keys() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	c := &Store{}
	for _, k := range s.Keys() {
		c.Set(k, s.values[k])
	}
	return c
}

// Key is a typed accessor for one well-known annotation.
type Key[T any] struct {
	Name    string
	Default T
}

// Lookup returns the typed value and whether it was set with the right type.
func (k Key[T]) Lookup(s *Store) (T, bool) {
	v, ok := s.Get(k.Name)
	if !ok {
		return k.Default, false
	}
	t, ok := v.(T)
	if !ok {
		return k.Default, false
	}
	return t, true
}

// Get returns the typed value, or the key's default.
func (k Key[T]) Get(s *Store) T {
	v, _ := k.Lookup(s)
	return v
}

// Set stores a typed value.
func (k Key[T]) Set(s *Store, v T) {
	s.Set(k.Name, v)
}

// Clear removes the annotation.
func (k Key[T]) Clear(s *Store) {
	s.Remove(k.Name)
}
