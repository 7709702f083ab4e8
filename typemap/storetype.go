package typemap

import (
	"fmt"
	"strconv"
	"strings"
)

// StoreType is a parsed store type name. Parenthesized facets are removed
// from Base and collected in Args, so "TIMESTAMP(7) WITH TIME ZONE" parses
// to base "timestamp with time zone" and args [7].
type StoreType struct {
	Name string
	Base string
	Args []int
	Max  bool
}

// ParseStoreType parses a store type name.
func ParseStoreType(name string) (StoreType, error) {
	st := StoreType{Name: strings.TrimSpace(name)}
	var base strings.Builder
	rest := st.Name
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			base.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], ')')
		if end < 0 {
			return StoreType{}, fmt.Errorf("store type %q: unbalanced parentheses", name)
		}
		base.WriteString(rest[:open])
		base.WriteByte(' ')
		for _, arg := range strings.Split(rest[open+1:open+end], ",") {
			arg = strings.TrimSpace(arg)
			if strings.EqualFold(arg, "max") {
				st.Max = true
				continue
			}
			n, err := strconv.Atoi(arg)
			if err != nil {
				return StoreType{}, fmt.Errorf("store type %q: invalid facet %q", name, arg)
			}
			st.Args = append(st.Args, n)
		}
		rest = rest[open+end+1:]
	}
	st.Base = normalize(base.String())
	if st.Base == "" {
		return StoreType{}, fmt.Errorf("store type %q: missing name", name)
	}
	return st, nil
}

// Arg returns the i-th facet, if present.
func (s StoreType) Arg(i int) (int, bool) {
	if i < len(s.Args) {
		return s.Args[i], true
	}
	return 0, false
}

// Size returns the declared size: -1 for max, 0 when absent.
func (s StoreType) Size() int {
	if s.Max {
		return -1
	}
	n, _ := s.Arg(0)
	return n
}
