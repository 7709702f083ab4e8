// Package update builds batched INSERT, UPDATE and DELETE scripts from
// modification commands.
//
// A Generator appends each command's statements to a Script and reports
// the ResultSetMapping the caller must expect. A Batch bounds how many
// commands and parameters one script may carry and groups consecutive
// same-shape inserts into bulk inserts.
package update

import (
	"strings"
)

// Script accumulates the text of one batch.
// Declarations are kept apart from the body for dialects that hoist them
// into a block header.
type Script struct {
	body         strings.Builder
	declarations []string
	declared     map[string]bool
	params       []string
	seenParams   map[string]bool
	counters     map[string]int
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{
		declared:   make(map[string]bool),
		seenParams: make(map[string]bool),
		counters:   make(map[string]int),
	}
}

// Declare adds a declaration once.
func (s *Script) Declare(decl string) {
	if s.declared[decl] {
		return
	}
	s.declared[decl] = true
	s.declarations = append(s.declarations, decl)
}

// Write appends text to the body.
func (s *Script) Write(text ...string) *Script {
	for _, t := range text {
		s.body.WriteString(t)
	}
	return s
}

// Line appends text and a newline to the body.
func (s *Script) Line(text ...string) *Script {
	s.Write(text...)
	s.body.WriteByte('\n')
	return s
}

// Param records a bound parameter in first-use order.
func (s *Script) Param(name string) {
	if s.seenParams[name] {
		return
	}
	s.seenParams[name] = true
	s.params = append(s.params, name)
}

// Next returns the next sequence number for a name prefix, starting at 0.
func (s *Script) Next(prefix string) int {
	n := s.counters[prefix]
	s.counters[prefix] = n + 1
	return n
}

// Declarations returns the declarations in order.
func (s *Script) Declarations() []string {
	return append([]string(nil), s.declarations...)
}

// Body returns the body text.
func (s *Script) Body() string {
	return s.body.String()
}

// Parameters returns the bound parameter names in first-use order.
func (s *Script) Parameters() []string {
	return append([]string(nil), s.params...)
}

// Empty reports whether nothing was written.
func (s *Script) Empty() bool {
	return s.body.Len() == 0 && len(s.declarations) == 0
}
