package typemap

import "github.com/zoobzio/dialectql/internal/types"

// Column carries the facts a mapper uses to choose a store type.
// Unset facets fall back to the principal column, which is the column a
// foreign key references.
//
//nolint:govet // fieldalignment: grouped by role
type Column struct {
	Kind      types.Kind
	StoreType string

	MaxLength   *int
	Unicode     *bool
	FixedLength *bool
	Precision   *int
	Scale       *int

	Nullable     bool
	IsKey        bool
	IsIndexed    bool
	IsRowVersion bool

	Principal *Column
}

// Ptr returns a pointer to v for populating optional facets.
func Ptr[T any](v T) *T {
	return &v
}

func resolve[T any](c *Column, get func(*Column) *T) (T, bool) {
	for p := c; p != nil; p = p.Principal {
		if v := get(p); v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

// ResolvedStoreType returns the explicit store type of the column or its principal.
func (c Column) ResolvedStoreType() string {
	for p := &c; p != nil; p = p.Principal {
		if p.StoreType != "" {
			return p.StoreType
		}
	}
	return ""
}

// ResolvedMaxLength returns the maximum length, if set.
func (c Column) ResolvedMaxLength() (int, bool) {
	return resolve(&c, func(p *Column) *int { return p.MaxLength })
}

// ResolvedUnicode returns whether text is unicode. Unset means unicode.
func (c Column) ResolvedUnicode() bool {
	v, ok := resolve(&c, func(p *Column) *bool { return p.Unicode })
	return !ok || v
}

// ResolvedFixedLength returns whether the column is fixed length.
func (c Column) ResolvedFixedLength() bool {
	v, _ := resolve(&c, func(p *Column) *bool { return p.FixedLength })
	return v
}

// ResolvedPrecision returns the numeric precision, if set.
func (c Column) ResolvedPrecision() (int, bool) {
	return resolve(&c, func(p *Column) *int { return p.Precision })
}

// ResolvedScale returns the numeric scale, if set.
func (c Column) ResolvedScale() (int, bool) {
	return resolve(&c, func(p *Column) *int { return p.Scale })
}

// KeyOrIndex reports whether the column participates in a key or index,
// which bounds the size of variable-length types.
func (c Column) KeyOrIndex() bool {
	return c.IsKey || c.IsIndexed
}
