// Package typemap maps value kinds and store type names onto store types.
//
// A Registry is filled by each dialect with kind resolvers, which pick a
// store type from a column's facts, and store type entries, which parse an
// explicitly configured store type name. Every Mapping knows how to render
// its values as SQL literals.
package typemap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
)

var (
	// ErrAmbiguousStoreType is returned when a store type name does not
	// determine a value kind without further facets.
	ErrAmbiguousStoreType = errors.New("ambiguous store type")
	// ErrUnknownStoreType is returned when a store type name is not known.
	ErrUnknownStoreType = errors.New("unknown store type")
	// ErrNoMapping is returned when a value kind has no store type.
	ErrNoMapping = errors.New("no mapping for kind")
)

// LiteralFunc renders a non-nil value as a SQL literal.
type LiteralFunc func(v any) (string, error)

// Mapping is a resolved store type.
type Mapping struct {
	literal     LiteralFunc
	StoreType   string
	Base        string
	Kind        types.Kind
	Size        int // 0 when unsized, -1 for max
	Precision   int
	Scale       int
	Unicode     bool
	FixedLength bool
}

// WithLiteral returns a copy of m rendering literals through fn.
func (m Mapping) WithLiteral(fn LiteralFunc) Mapping {
	m.literal = fn
	return m
}

// Literal renders v in this mapping's literal grammar. Nil renders NULL.
func (m Mapping) Literal(v any) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	if m.literal == nil {
		return "", fmt.Errorf("%s: no literal grammar", m.StoreType)
	}
	s, err := m.literal(v)
	if err != nil {
		return "", fmt.Errorf("%s literal: %w", m.StoreType, err)
	}
	return s, nil
}

// KindFunc picks a mapping for a column from its facts.
type KindFunc func(c Column, sink diag.Sink) (Mapping, error)

// StoreFunc builds a mapping for an explicitly named store type.
type StoreFunc func(st StoreType, c Column) (Mapping, error)

// Registry resolves columns to mappings for one dialect.
type Registry struct {
	kinds   map[types.Kind]KindFunc
	stores  map[string]StoreFunc
	Sink    diag.Sink
	Dialect string
}

// NewRegistry creates an empty registry.
func NewRegistry(dialect string, sink diag.Sink) *Registry {
	return &Registry{
		kinds:   make(map[types.Kind]KindFunc),
		stores:  make(map[string]StoreFunc),
		Sink:    diag.OrNop(sink),
		Dialect: dialect,
	}
}

// RegisterKind sets the resolver used for columns of kind.
func (r *Registry) RegisterKind(kind types.Kind, fn KindFunc) {
	r.kinds[kind] = fn
}

// RegisterStore sets the builder used for a store type base name.
// Names are matched case-insensitively.
func (r *Registry) RegisterStore(base string, fn StoreFunc) {
	r.stores[normalize(base)] = fn
}

// StoreTypes returns the registered store type base names, sorted.
func (r *Registry) StoreTypes() []string {
	names := make([]string, 0, len(r.stores))
	for n := range r.stores {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FindMapping resolves a column. An explicit (or inherited) store type
// name takes precedence over the kind.
func (r *Registry) FindMapping(c Column) (Mapping, error) {
	if name := c.ResolvedStoreType(); name != "" {
		return r.FindByStoreType(name, c)
	}
	fn, ok := r.kinds[c.Kind]
	if !ok {
		return Mapping{}, fmt.Errorf("%s: %w %s", r.Dialect, ErrNoMapping, c.Kind)
	}
	return fn(c, r.Sink)
}

// FindByKind resolves the default mapping for a kind.
func (r *Registry) FindByKind(kind types.Kind) (Mapping, error) {
	return r.FindMapping(Column{Kind: kind})
}

// FindByStoreType resolves a store type name such as "nvarchar(450)".
func (r *Registry) FindByStoreType(name string, c Column) (Mapping, error) {
	st, err := ParseStoreType(name)
	if err != nil {
		return Mapping{}, fmt.Errorf("%s: %w", r.Dialect, err)
	}
	fn, ok := r.stores[st.Base]
	if !ok {
		return Mapping{}, fmt.Errorf("%s: %w %q", r.Dialect, ErrUnknownStoreType, name)
	}
	m, err := fn(st, c)
	if err != nil {
		return Mapping{}, fmt.Errorf("%s: store type %q: %w", r.Dialect, name, err)
	}
	return m, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
