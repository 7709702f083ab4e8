package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
)

// ErrNoCondition is returned for updates and deletes that would match
// rows without any key or condition column.
var ErrNoCondition = errors.New("command has no key or condition columns")

// ErrNoWrites is returned for updates that set no columns.
var ErrNoWrites = errors.New("update has no write columns")

// Generator renders modification commands for one dialect.
// Position is the index of the (first) command within the batch.
type Generator interface {
	AppendInsert(s *Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error)
	AppendUpdate(s *Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error)
	AppendDelete(s *Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error)
	// AppendBulkInsert renders several same-shape inserts. NotLastInResultSet
	// means all rows share one result set; LastInResultSet means every
	// command produced its own.
	AppendBulkInsert(s *Script, cmds []*types.ModificationCommand, position int) (types.ResultSetMapping, error)
	// Finish produces the final batch text.
	Finish(s *Script) string
	Capabilities() render.Capabilities
}

// Syntax renders the fragments shared by dialect generators.
type Syntax struct {
	QuoteIdentifier func(name string) string
	ParameterPrefix string
}

// Ident quotes a single identifier.
func (x Syntax) Ident(name string) string {
	return x.QuoteIdentifier(name)
}

// Table quotes a schema-qualified table name.
func (x Syntax) Table(name, schema string) string {
	if schema == "" {
		return x.QuoteIdentifier(name)
	}
	return x.QuoteIdentifier(schema) + "." + x.QuoteIdentifier(name)
}

// Param renders and records a parameter reference.
func (x Syntax) Param(s *Script, name string) string {
	s.Param(name)
	return x.ParameterPrefix + name
}

// ColumnList renders "a, b, c", each name prefixed by prefix.
func (x Syntax) ColumnList(cols []types.ColumnModification, prefix string) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = prefix + x.QuoteIdentifier(c.ColumnName)
	}
	return strings.Join(names, ", ")
}

// Values renders "(@p0, @p1)"; columns without a parameter render DEFAULT.
func (x Syntax) Values(s *Script, cols []types.ColumnModification, extra ...string) string {
	vals := make([]string, 0, len(cols)+len(extra))
	for _, c := range cols {
		if c.IsWrite && c.ParameterName != "" {
			vals = append(vals, x.Param(s, c.ParameterName))
		} else {
			vals = append(vals, "DEFAULT")
		}
	}
	vals = append(vals, extra...)
	return "(" + strings.Join(vals, ", ") + ")"
}

// InsertHeader renders "INSERT INTO t (a, b)".
func (x Syntax) InsertHeader(table, schema string, cols []types.ColumnModification) string {
	h := "INSERT INTO " + x.Table(table, schema)
	if len(cols) > 0 {
		h += " (" + x.ColumnList(cols, "") + ")"
	}
	return h
}

// ValuesHeader renders the keyword that introduces the row values.
func ValuesHeader(cols []types.ColumnModification) string {
	if len(cols) == 0 {
		return "DEFAULT VALUES"
	}
	return "VALUES "
}

// SetClause renders "a = @p0, b = @p1".
func (x Syntax) SetClause(s *Script, cols []types.ColumnModification) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = x.QuoteIdentifier(c.ColumnName) + " = " + x.Param(s, c.ParameterName)
	}
	return strings.Join(parts, ", ")
}

// Conditions renders the row-matching predicate. A condition whose
// comparison value is NULL renders IS NULL, since = NULL never matches.
func (x Syntax) Conditions(s *Script, cmd *types.ModificationCommand) (string, error) {
	cols := cmd.ConditionColumns()
	if len(cols) == 0 {
		return "", fmt.Errorf("%s: %w", cmd.Table, ErrNoCondition)
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = x.Condition(s, c)
	}
	return strings.Join(parts, " AND "), nil
}

// Condition renders one column comparison.
func (x Syntax) Condition(s *Script, c types.ColumnModification) string {
	col := x.QuoteIdentifier(c.ColumnName)
	if c.ConditionValue() == nil {
		return col + " IS NULL"
	}
	return col + " = " + x.Param(s, c.ConditionParameter())
}

// UpdateStatement renders "UPDATE t SET ...\nWHERE ..." without a terminator.
func (x Syntax) UpdateStatement(s *Script, cmd *types.ModificationCommand) (string, error) {
	writes := cmd.WriteColumns()
	if len(writes) == 0 {
		return "", fmt.Errorf("%s: %w", cmd.Table, ErrNoWrites)
	}
	set := x.SetClause(s, writes)
	where, err := x.Conditions(s, cmd)
	if err != nil {
		return "", err
	}
	return "UPDATE " + x.Table(cmd.Table, cmd.Schema) + " SET " + set + "\nWHERE " + where, nil
}

// DeleteStatement renders "DELETE FROM t\nWHERE ..." without a terminator.
func (x Syntax) DeleteStatement(s *Script, cmd *types.ModificationCommand) (string, error) {
	where, err := x.Conditions(s, cmd)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + x.Table(cmd.Table, cmd.Schema) + "\nWHERE " + where, nil
}
