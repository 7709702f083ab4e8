package types

import "github.com/zoobzio/dialectql/annotations"

// ResultSetMapping describes the result set produced by a rendered command.
type ResultSetMapping int

const (
	// NoResultSet means the command produces no rows.
	NoResultSet ResultSetMapping = iota
	// NotLastInResultSet means the command's rows share a result set with
	// the commands that follow it.
	NotLastInResultSet
	// LastInResultSet means the command's rows end the current result set.
	LastInResultSet
)

func (m ResultSetMapping) String() string {
	switch m {
	case NoResultSet:
		return "NoResultSet"
	case NotLastInResultSet:
		return "NotLastInResultSet"
	case LastInResultSet:
		return "LastInResultSet"
	}
	return "Unknown"
}

// EntityState is the pending change a command applies.
type EntityState int

const (
	Added EntityState = iota + 1
	Modified
	Deleted
)

func (s EntityState) String() string {
	switch s {
	case Added:
		return "Added"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	}
	return "Unknown"
}

// ColumnModification is one mutation to one column of one row.
//
//nolint:govet // fieldalignment: grouped by role
type ColumnModification struct {
	ColumnName string
	Kind       Kind

	// ParameterName binds the current value, OriginalParameterName the
	// value last read from the store (used by concurrency checks).
	ParameterName         string
	OriginalParameterName string
	Value                 any
	OriginalValue         any

	IsRead             bool
	IsWrite            bool
	IsKey              bool
	IsCondition        bool
	IsConcurrencyToken bool

	// Annotations carries property-level provider annotations.
	Annotations *annotations.Store
}

// UseOriginalValue reports whether conditions compare against the original value.
func (c ColumnModification) UseOriginalValue() bool {
	return c.IsConcurrencyToken && c.OriginalParameterName != ""
}

// ConditionParameter returns the parameter a WHERE condition binds.
func (c ColumnModification) ConditionParameter() string {
	if c.UseOriginalValue() {
		return c.OriginalParameterName
	}
	return c.ParameterName
}

// ConditionValue returns the value a WHERE condition compares against.
func (c ColumnModification) ConditionValue() any {
	if c.UseOriginalValue() {
		return c.OriginalValue
	}
	return c.Value
}

// ModificationCommand is the ordered set of column modifications for one row.
type ModificationCommand struct {
	Table       string
	Schema      string
	State       EntityState
	Columns     []ColumnModification
	Annotations *annotations.Store
}

func (m *ModificationCommand) filter(keep func(ColumnModification) bool) []ColumnModification {
	var out []ColumnModification
	for _, c := range m.Columns {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// ReadColumns returns the columns whose store values must be read back.
func (m *ModificationCommand) ReadColumns() []ColumnModification {
	return m.filter(func(c ColumnModification) bool { return c.IsRead })
}

// WriteColumns returns the columns whose values are supplied.
func (m *ModificationCommand) WriteColumns() []ColumnModification {
	return m.filter(func(c ColumnModification) bool { return c.IsWrite })
}

// KeyColumns returns the columns that identify the row.
func (m *ModificationCommand) KeyColumns() []ColumnModification {
	return m.filter(func(c ColumnModification) bool { return c.IsKey })
}

// ConditionColumns returns the columns used to match the affected row.
func (m *ModificationCommand) ConditionColumns() []ColumnModification {
	return m.filter(func(c ColumnModification) bool { return c.IsCondition || c.IsKey })
}

// ParameterCount returns how many distinct parameters the command binds.
func (m *ModificationCommand) ParameterCount() int {
	seen := make(map[string]bool)
	for _, c := range m.Columns {
		if c.IsWrite && c.ParameterName != "" {
			seen[c.ParameterName] = true
		}
		if (c.IsCondition || c.IsKey) && c.ConditionValue() != nil && c.ConditionParameter() != "" {
			seen[c.ConditionParameter()] = true
		}
	}
	return len(seen)
}

// SameShape reports whether two commands insert into the same table with
// the same read and write column sets, in the same order.
func (m *ModificationCommand) SameShape(o *ModificationCommand) bool {
	if m.Table != o.Table || m.Schema != o.Schema || m.State != o.State || len(m.Columns) != len(o.Columns) {
		return false
	}
	for i := range m.Columns {
		a, b := m.Columns[i], o.Columns[i]
		if a.ColumnName != b.ColumnName || a.IsRead != b.IsRead || a.IsWrite != b.IsWrite || a.IsKey != b.IsKey {
			return false
		}
	}
	return true
}
