package oracle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/update"
)

const (
	rowIDVariable  = "v_RowId"
	cursorVariable = "v_Cursor"
	rowCount       = "v_RowCount"
	indent         = "    "
)

// ErrNoColumns is returned for inserts into a table without columns,
// which Oracle cannot express.
var ErrNoColumns = errors.New("insert has no columns")

// ErrHiLoKeyNotAssigned is returned for inserts that leave a hi-lo key to
// the store.
var ErrHiLoKeyNotAssigned = errors.New("hi-lo key must be assigned before insert")

// Generator renders Oracle update batches as one anonymous PL/SQL block.
// Generated values and row counts come back as implicit result sets
// opened on cursors and returned through DBMS_SQL.RETURN_RESULT.
type Generator struct {
	syntax update.Syntax
	caps   render.Capabilities
}

var _ update.Generator = (*Generator)(nil)

// NewGenerator creates an Oracle update generator.
func NewGenerator(opts ...Option) *Generator {
	o := buildOptions(opts)
	return &Generator{
		syntax: update.Syntax{QuoteIdentifier: quoter(o.quoteReservedOnly), ParameterPrefix: ":"},
		caps:   capabilities(o),
	}
}

// Capabilities returns the SQL features supported by Oracle.
func (g *Generator) Capabilities() render.Capabilities {
	return g.caps
}

// Finish wraps the statements in a PL/SQL block, hoisting the variable
// declarations into its header.
func (g *Generator) Finish(s *update.Script) string {
	body := strings.TrimRight(s.Body(), "\n")
	if body == "" {
		return ""
	}
	var b strings.Builder
	if decls := s.Declarations(); len(decls) > 0 {
		b.WriteString("DECLARE\n")
		for _, d := range decls {
			b.WriteString(indent + d + "\n")
		}
	}
	b.WriteString("BEGIN\n")
	for _, line := range strings.Split(body, "\n") {
		if line != "" {
			b.WriteString(indent + line)
		}
		b.WriteByte('\n')
	}
	b.WriteString("END;\n")
	return b.String()
}

// AppendInsert renders a single-row insert. Generated columns are read
// back through the ROWID the insert returns.
func (g *Generator) AppendInsert(s *update.Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	for _, c := range cmd.Columns {
		if c.IsKey && c.IsRead && !c.IsWrite && ValueGenerationStrategy.Get(c.Annotations) == SequenceHiLo {
			return types.NoResultSet, fmt.Errorf("%s.%s: %w", cmd.Table, c.ColumnName, ErrHiLoKeyNotAssigned)
		}
	}
	cols := cmd.WriteColumns()
	if len(cols) == 0 {
		// Oracle has no DEFAULT VALUES; one column taking its default is
		// equivalent.
		if len(cmd.Columns) == 0 {
			return types.NoResultSet, fmt.Errorf("%s: %w", cmd.Table, ErrNoColumns)
		}
		cols = cmd.Columns[:1]
	}
	s.Line(g.syntax.InsertHeader(cmd.Table, cmd.Schema, cols))
	s.Write("VALUES ", g.syntax.Values(s, cols))

	reads := cmd.ReadColumns()
	if len(reads) == 0 {
		s.Line(";")
		s.Line()
		return types.NoResultSet, nil
	}
	rowID := g.declareRowID(s, position)
	s.Line()
	s.Line("RETURNING ROWID INTO ", rowID, ";")
	g.appendSelect(s, cmd, reads, position, "ROWID = "+rowID)
	return types.LastInResultSet, nil
}

// AppendUpdate renders an update followed by either the read-back of
// generated columns or the affected row count. The read-back is empty
// when the update matched no row.
func (g *Generator) AppendUpdate(s *update.Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	stmt, err := g.syntax.UpdateStatement(s, cmd)
	if err != nil {
		return types.NoResultSet, err
	}
	reads := cmd.ReadColumns()
	if len(reads) == 0 {
		s.Line(stmt, ";")
		return g.appendRowCount(s, position), nil
	}
	rowID := g.declareRowID(s, position)
	s.Declare(rowCount + " INTEGER;")
	s.Line(stmt)
	s.Line("RETURNING ROWID INTO ", rowID, ";")
	s.Line(rowCount, " := SQL%ROWCOUNT;")
	g.appendSelect(s, cmd, reads, position, rowCount+" = 1 AND ROWID = "+rowID)
	return types.LastInResultSet, nil
}

// AppendDelete renders a delete followed by the affected row count.
func (g *Generator) AppendDelete(s *update.Script, cmd *types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	stmt, err := g.syntax.DeleteStatement(s, cmd)
	if err != nil {
		return types.NoResultSet, err
	}
	s.Line(stmt, ";")
	return g.appendRowCount(s, position), nil
}

// AppendBulkInsert renders the rows one insert at a time. RETURNING INTO
// binds a single row, so each command reads its own result set.
func (g *Generator) AppendBulkInsert(s *update.Script, cmds []*types.ModificationCommand, position int) (types.ResultSetMapping, error) {
	m := types.NoResultSet
	for i, cmd := range cmds {
		var err error
		m, err = g.AppendInsert(s, cmd, position+i)
		if err != nil {
			return types.NoResultSet, err
		}
	}
	return m, nil
}

func (g *Generator) declareRowID(s *update.Script, position int) string {
	v := rowIDVariable + strconv.Itoa(position)
	s.Declare(v + " ROWID;")
	return v
}

func (g *Generator) declareCursor(s *update.Script, position int) string {
	v := cursorVariable + strconv.Itoa(position)
	s.Declare(v + " SYS_REFCURSOR;")
	return v
}

// appendSelect opens a cursor over the generated columns of the row
// matched by where and returns it to the caller.
func (g *Generator) appendSelect(s *update.Script, cmd *types.ModificationCommand, reads []types.ColumnModification, position int, where string) {
	cursor := g.declareCursor(s, position)
	s.Line("OPEN ", cursor, " FOR")
	s.Line("SELECT ", g.syntax.ColumnList(reads, ""))
	s.Line("FROM ", g.syntax.Table(cmd.Table, cmd.Schema))
	s.Line("WHERE ", where, ";")
	s.Line("DBMS_SQL.RETURN_RESULT(", cursor, ");")
	s.Line()
}

// appendRowCount returns the affected row count as a one-row result set.
func (g *Generator) appendRowCount(s *update.Script, position int) types.ResultSetMapping {
	s.Declare(rowCount + " INTEGER;")
	cursor := g.declareCursor(s, position)
	s.Line(rowCount, " := SQL%ROWCOUNT;")
	s.Line("OPEN ", cursor, " FOR SELECT ", rowCount, " FROM DUAL;")
	s.Line("DBMS_SQL.RETURN_RESULT(", cursor, ");")
	s.Line()
	return types.LastInResultSet
}
