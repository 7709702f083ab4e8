package mssql

import (
	"strconv"
	"strings"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
	"github.com/zoobzio/dialectql/update"
)

const (
	insertedTable  = "@inserted"
	positionColumn = "_Position"
	rowCount       = "@@ROWCOUNT"
)

// Generator renders SQL Server update batches.
type Generator struct {
	types *typemap.Registry
	caps  render.Capabilities
}

var _ update.Generator = (*Generator)(nil)

// NewGenerator creates a SQL Server update generator.
func NewGenerator(opts ...Option) *Generator {
	o := buildOptions(opts)
	return &Generator{types: NewTypeMapper(o.sink), caps: capabilities(o)}
}

// Capabilities returns the SQL features supported by SQL Server.
func (g *Generator) Capabilities() render.Capabilities {
	return g.caps
}

// Finish returns the statements in order.
func (g *Generator) Finish(s *update.Script) string {
	body := strings.TrimRight(s.Body(), "\n")
	if body == "" {
		return ""
	}
	return body + "\n"
}

// AppendInsert renders a single-row insert. Generated columns are read
// back with a SELECT guarded by @@ROWCOUNT, locating the row through
// scope_identity() for identity keys and through the key parameters
// otherwise.
func (g *Generator) AppendInsert(s *update.Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	reads := cmd.ReadColumns()
	if len(reads) > 0 && hasServerKey(cmd.Columns) {
		return g.appendInsertWithServerKeys(s, cmd, position)
	}
	g.appendInsertValues(s, cmd, cmd.WriteColumns())
	s.Line(";")
	if len(reads) == 0 {
		s.Line()
		return types.NoResultSet, nil
	}
	return g.appendSelectAffected(s, cmd, reads), nil
}

// AppendUpdate renders an update followed by either the read-back of
// generated columns or the affected row count.
func (g *Generator) AppendUpdate(s *update.Script, cmd *types.ModificationCommand, _ int) (types.ResultSetMapping, error) {
	stmt, err := syntax.UpdateStatement(s, cmd)
	if err != nil {
		return types.NoResultSet, err
	}
	s.Line(stmt, ";")
	if reads := cmd.ReadColumns(); len(reads) > 0 {
		return g.appendSelectAffected(s, cmd, reads), nil
	}
	return appendSelectRowCount(s), nil
}

// AppendDelete renders a delete followed by the affected row count.
func (g *Generator) AppendDelete(s *update.Script, cmd *types.ModificationCommand, _ int) (types.ResultSetMapping, error) {
	stmt, err := syntax.DeleteStatement(s, cmd)
	if err != nil {
		return types.NoResultSet, err
	}
	s.Line(stmt, ";")
	return appendSelectRowCount(s), nil
}

// AppendBulkInsert renders several same-shape inserts into one table.
//
// Without generated columns the rows go into one multi-row VALUES list.
// With generated columns the rows are inserted through MERGE, whose OUTPUT
// clause captures the keys and each row's position into a table variable;
// the generated values are then selected in position order so the result
// rows line up with the commands.
func (g *Generator) AppendBulkInsert(s *update.Script, cmds []*types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	first := cmds[0]
	if len(cmds) == 1 && !hasServerKey(first.Columns) {
		return g.AppendInsert(s, first, position)
	}

	reads := first.ReadColumns()
	writes := first.WriteColumns()
	keys := first.KeyColumns()
	defaultValuesOnly := len(writes) == 0

	var nonIdentity []types.ColumnModification
	for _, c := range first.Columns {
		if !isIdentity(c) {
			nonIdentity = append(nonIdentity, c)
		}
	}

	if defaultValuesOnly {
		if len(nonIdentity) == 0 || len(reads) == 0 {
			for i, cmd := range cmds {
				if _, err := g.AppendInsert(s, cmd, position+i); err != nil {
					return types.NoResultSet, err
				}
			}
			if len(reads) == 0 {
				return types.NoResultSet, nil
			}
			return types.LastInResultSet, nil
		}
		// Every row takes its defaults, so naming one non-identity column
		// is enough to get a VALUES list of DEFAULT markers.
		if len(nonIdentity) > 1 {
			nonIdentity = nonIdentity[:1]
		}
	}

	if len(reads) == 0 {
		g.appendInsertValues(s, first, writes)
		for _, cmd := range cmds[1:] {
			s.Line(",")
			s.Write(syntax.Values(s, cmd.WriteColumns()))
		}
		s.Line(";").Line()
		return types.NoResultSet, nil
	}

	if defaultValuesOnly {
		return g.appendBulkInsertDefaultValues(s, cmds, position, nonIdentity, keys, reads), nil
	}

	if MemoryOptimized.Get(first.Annotations) {
		for i, cmd := range cmds {
			var err error
			if hasServerKey(nonIdentity) {
				_, err = g.appendInsertWithServerKeys(s, cmd, position+i)
			} else {
				_, err = g.AppendInsert(s, cmd, position+i)
			}
			if err != nil {
				return types.NoResultSet, err
			}
		}
		return types.LastInResultSet, nil
	}

	return g.appendMerge(s, cmds, position, writes, keys, reads), nil
}

// appendInsertValues writes an INSERT up to its first row of values,
// leaving the statement open for further rows.
func (g *Generator) appendInsertValues(s *update.Script, cmd *types.ModificationCommand, writes []types.ColumnModification) {
	s.Line(syntax.InsertHeader(cmd.Table, cmd.Schema, writes))
	s.Write(update.ValuesHeader(writes))
	if len(writes) > 0 {
		s.Write(syntax.Values(s, writes))
	}
}

// appendSelectAffected reads generated columns back from the row just
// written, only if exactly one row was affected.
func (g *Generator) appendSelectAffected(s *update.Script, cmd *types.ModificationCommand, reads []types.ColumnModification) types.ResultSetMapping {
	conds := []string{rowCount + " = 1"}
	for _, k := range cmd.KeyColumns() {
		if k.IsRead {
			conds = append(conds, syntax.Ident(k.ColumnName)+" = scope_identity()")
			continue
		}
		conds = append(conds, syntax.Condition(s, k))
	}
	s.Line("SELECT ", syntax.ColumnList(reads, ""))
	s.Line("FROM ", syntax.Table(cmd.Table, cmd.Schema))
	s.Line("WHERE ", strings.Join(conds, " AND "), ";")
	s.Line()
	return types.LastInResultSet
}

func appendSelectRowCount(s *update.Script) types.ResultSetMapping {
	s.Line("SELECT ", rowCount, ";")
	s.Line()
	return types.LastInResultSet
}

// appendInsertWithServerKeys inserts one row whose key is generated by
// the server but is not an identity, capturing the key through OUTPUT.
func (g *Generator) appendInsertWithServerKeys(s *update.Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	keys := cmd.KeyColumns()
	writes := cmd.WriteColumns()
	g.appendDeclareOutputTable(s, keys, position, false)
	s.Line(syntax.InsertHeader(cmd.Table, cmd.Schema, writes))
	appendOutputClause(s, keys, position, "")
	s.Line()
	s.Write(update.ValuesHeader(writes))
	if len(writes) > 0 {
		s.Write(syntax.Values(s, writes))
	}
	s.Line(";")
	appendSelectInserted(s, cmd, cmd.ReadColumns(), keys, position, "")
	return types.LastInResultSet, nil
}

// appendBulkInsertDefaultValues inserts rows that supply no values,
// capturing their keys through OUTPUT.
func (g *Generator) appendBulkInsertDefaultValues(s *update.Script, cmds []*types.ModificationCommand, position int,
	columns, keys, reads []types.ColumnModification,
) types.ResultSetMapping {
	first := cmds[0]
	g.appendDeclareOutputTable(s, keys, position, false)
	s.Line(syntax.InsertHeader(first.Table, first.Schema, columns))
	appendOutputClause(s, keys, position, "")
	s.Line()
	s.Write("VALUES ")
	for i := range cmds {
		if i > 0 {
			s.Line(",")
		}
		s.Write(syntax.Values(s, columns))
	}
	s.Line(";")
	appendSelectInserted(s, first, reads, keys, position, "")
	return types.NotLastInResultSet
}

// appendMerge inserts rows through MERGE so the OUTPUT clause can refer
// to the source row position.
func (g *Generator) appendMerge(s *update.Script, cmds []*types.ModificationCommand, position int,
	writes, keys, reads []types.ColumnModification,
) types.ResultSetMapping {
	first := cmds[0]
	g.appendDeclareOutputTable(s, keys, position, true)

	s.Line("MERGE ", syntax.Table(first.Table, first.Schema), " USING (")
	s.Write("VALUES ")
	for i, cmd := range cmds {
		if i > 0 {
			s.Line(",")
		}
		s.Write(syntax.Values(s, cmd.WriteColumns(), strconv.Itoa(i)))
	}
	s.Line(") AS i (", syntax.ColumnList(writes, ""), ", ", positionColumn, ") ON 1=0")
	s.Line("WHEN NOT MATCHED THEN")
	s.Line("INSERT (", syntax.ColumnList(writes, ""), ")")
	s.Line("VALUES (", syntax.ColumnList(writes, "i."), ")")
	appendOutputClause(s, keys, position, "i."+positionColumn)
	s.Line(";")
	appendSelectInserted(s, first, reads, keys, position, syntax.Ident(positionColumn))
	return types.NotLastInResultSet
}

// appendDeclareOutputTable declares the table variable that receives the
// generated keys: DECLARE @inserted0 TABLE ([Id] int, [_Position] [int]);
func (g *Generator) appendDeclareOutputTable(s *update.Script, keys []types.ColumnModification, position int, withPosition bool) {
	cols := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		cols = append(cols, syntax.Ident(k.ColumnName)+" "+g.declareType(k))
	}
	if withPosition {
		cols = append(cols, syntax.Ident(positionColumn)+" "+syntax.Ident("int"))
	}
	s.Line("DECLARE ", insertedTable, strconv.Itoa(position), " TABLE (", strings.Join(cols, ", "), ");")
}

// declareType returns the store type of a key column for the table
// variable. Row versions are copied as varbinary(8) since a table variable
// would generate its own.
func (g *Generator) declareType(c types.ColumnModification) string {
	m, err := g.types.FindMapping(typemap.Column{
		Kind:         c.Kind,
		StoreType:    ColumnType.Get(c.Annotations),
		IsKey:        c.IsKey,
		IsRowVersion: c.IsConcurrencyToken && c.IsRead && c.Kind == types.KindBytes,
	})
	if err != nil {
		g.types.Sink.Emit(diag.New(diag.Warn, diag.KeyTypeUnmapped, "no store type for key column; declaring sql_variant",
			"column", c.ColumnName, "kind", c.Kind.String(), "error", err.Error()))
		return "sql_variant"
	}
	if m.Base == "rowversion" || m.Base == "timestamp" {
		return "varbinary(8)"
	}
	return m.StoreType
}

func appendOutputClause(s *update.Script, keys []types.ColumnModification, position int, extra string) {
	s.Write("OUTPUT ", syntax.ColumnList(keys, "INSERTED."))
	if extra != "" {
		s.Write(", ", extra)
	}
	s.Line()
	s.Write("INTO ", insertedTable, strconv.Itoa(position))
}

// appendSelectInserted joins the captured keys back to the table to read
// the generated columns, ordered by position when one was captured.
func appendSelectInserted(s *update.Script, cmd *types.ModificationCommand, reads, keys []types.ColumnModification,
	position int, orderColumn string,
) {
	joins := make([]string, len(keys))
	for i, k := range keys {
		col := syntax.Ident(k.ColumnName)
		joins[i] = "t." + col + " = i." + col
	}
	s.Line()
	s.Line("SELECT ", syntax.ColumnList(reads, "t."), " FROM ", syntax.Table(cmd.Table, cmd.Schema), " t")
	s.Write("INNER JOIN ", insertedTable, strconv.Itoa(position), " i ON (", strings.Join(joins, " AND "), ")")
	if orderColumn != "" {
		s.Line()
		s.Write("ORDER BY i.", orderColumn)
	}
	s.Line(";")
	s.Line()
}

// isIdentity reports whether the store generates the column as an
// identity. Without an explicit strategy, generated integer keys are
// identities.
func isIdentity(c types.ColumnModification) bool {
	if strategy, ok := ValueGenerationStrategy.Lookup(c.Annotations); ok {
		return strategy == IdentityColumn
	}
	return c.IsKey && c.IsRead && c.Kind.IsInteger()
}

// hasServerKey reports whether a key is generated by the server through
// something other than an identity, such as a default constraint.
func hasServerKey(cols []types.ColumnModification) bool {
	for _, c := range cols {
		if c.IsKey && c.IsRead && !isIdentity(c) {
			return true
		}
	}
	return false
}
