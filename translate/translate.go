// Package translate resolves source-level member accesses and method calls
// into store expressions.
//
// A Registry holds ordered translator lists. Lookup asks each translator in
// registration order and the first non-nil result wins. Registries are
// add-only and built fresh by each dialect.
package translate

import (
	"github.com/zoobzio/dialectql/internal/types"
)

// MemberTranslator translates a member access, or returns nil to pass.
type MemberTranslator interface {
	TranslateMember(m types.MemberAccess) types.Expression
}

// MethodTranslator translates a method call, or returns nil to pass.
type MethodTranslator interface {
	TranslateMethod(m types.MethodCall) types.Expression
}

// MemberFunc adapts a function to a MemberTranslator.
type MemberFunc func(m types.MemberAccess) types.Expression

// TranslateMember calls f(m).
func (f MemberFunc) TranslateMember(m types.MemberAccess) types.Expression { return f(m) }

// MethodFunc adapts a function to a MethodTranslator.
type MethodFunc func(m types.MethodCall) types.Expression

// TranslateMethod calls f(m).
func (f MethodFunc) TranslateMethod(m types.MethodCall) types.Expression { return f(m) }

// Registry is an ordered, add-only set of translators.
type Registry struct {
	members []MemberTranslator
	methods []MethodTranslator
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// AddMember appends member translators.
func (r *Registry) AddMember(ts ...MemberTranslator) *Registry {
	r.members = append(r.members, ts...)
	return r
}

// AddMethod appends method translators.
func (r *Registry) AddMethod(ts ...MethodTranslator) *Registry {
	r.methods = append(r.methods, ts...)
	return r
}

// Len returns the number of registered member and method translators.
func (r *Registry) Len() (members, methods int) {
	return len(r.members), len(r.methods)
}

// TranslateMember returns the first non-nil translation, or nil.
func (r *Registry) TranslateMember(m types.MemberAccess) types.Expression {
	if r == nil {
		return nil
	}
	for _, t := range r.members {
		if e := t.TranslateMember(m); e != nil {
			return e
		}
	}
	return nil
}

// TranslateMethod returns the first non-nil translation, or nil.
func (r *Registry) TranslateMethod(m types.MethodCall) types.Expression {
	if r == nil {
		return nil
	}
	for _, t := range r.methods {
		if e := t.TranslateMethod(m); e != nil {
			return e
		}
	}
	return nil
}
