package mssql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/dialectql/annotations"
	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
	dqltest "github.com/zoobzio/dialectql/testing"
	"github.com/zoobzio/dialectql/update"
)

func compile(t *testing.T, gen update.Generator, cmds ...*types.ModificationCommand) *update.Compiled {
	t.Helper()
	b := update.NewBatch(0, 0)
	for _, cmd := range cmds {
		require.True(t, b.TryAdd(cmd), "batch rejected command")
	}
	c, err := b.Compile(gen)
	require.NoError(t, err)
	return c
}

func mappings(ms ...types.ResultSetMapping) []types.ResultSetMapping { return ms }

// defaultsOnly inserts a row supplying no values; every column is read back.
func defaultsOnly(extra ...types.ColumnModification) *types.ModificationCommand {
	cols := append([]types.ColumnModification{{ColumnName: "Id", Kind: types.KindInt32, IsKey: true, IsRead: true}}, extra...)
	return &types.ModificationCommand{Table: "Ducks", State: types.Added, Columns: cols}
}

func TestGenerator_InsertReadsIdentity(t *testing.T) {
	c := compile(t, NewGenerator(), dqltest.InsertDuck(0, "Donald", 3))
	expected := "INSERT INTO [Ducks] ([Name], [Quacks])\nVALUES (@p0, @p1);\n" +
		"SELECT [Id]\nFROM [Ducks]\nWHERE @@ROWCOUNT = 1 AND [Id] = scope_identity();\n"
	dqltest.AssertSQL(t, expected, c.SQL)
	dqltest.AssertParams(t, []string{"p0", "p1"}, c.Parameters)
	assert.Equal(t, mappings(types.LastInResultSet), c.Mappings)
}

func TestGenerator_InsertWithoutReads(t *testing.T) {
	cmd := &types.ModificationCommand{Table: "Ducks", Schema: "dbo", State: types.Added, Columns: []types.ColumnModification{
		{ColumnName: "Name", Kind: types.KindString, ParameterName: "p0", Value: "Daisy", IsWrite: true},
	}}
	c := compile(t, NewGenerator(), cmd)
	dqltest.AssertSQL(t, "INSERT INTO [dbo].[Ducks] ([Name])\nVALUES (@p0);\n", c.SQL)
	assert.Equal(t, mappings(types.NoResultSet), c.Mappings)
}

func TestGenerator_InsertReadsByKeyParameter(t *testing.T) {
	cmd := &types.ModificationCommand{Table: "Ducks", State: types.Added, Columns: []types.ColumnModification{
		{ColumnName: "Id", Kind: types.KindInt32, ParameterName: "p0", Value: 7, IsKey: true, IsWrite: true},
		{ColumnName: "Created", Kind: types.KindDateTime, IsRead: true},
	}}
	c := compile(t, NewGenerator(), cmd)
	expected := "INSERT INTO [Ducks] ([Id])\nVALUES (@p0);\n" +
		"SELECT [Created]\nFROM [Ducks]\nWHERE @@ROWCOUNT = 1 AND [Id] = @p0;\n"
	dqltest.AssertSQL(t, expected, c.SQL)
}

func TestGenerator_Update(t *testing.T) {
	c := compile(t, NewGenerator(), dqltest.UpdateDuck(1, "Scrooge"))
	dqltest.AssertSQL(t, "UPDATE [Ducks] SET [Name] = @p0\nWHERE [Id] = @p1;\nSELECT @@ROWCOUNT;\n", c.SQL)
	dqltest.AssertParams(t, []string{"p0", "p1"}, c.Parameters)
	assert.Equal(t, mappings(types.LastInResultSet), c.Mappings)
}

func TestGenerator_DeleteNullConcurrencyToken(t *testing.T) {
	c := compile(t, NewGenerator(), dqltest.DeleteDuck(1, nil))
	dqltest.AssertSQL(t, "DELETE FROM [Ducks]\nWHERE [Id] = @p0 AND [ConcurrencyToken] IS NULL;\nSELECT @@ROWCOUNT;\n", c.SQL)
	dqltest.AssertParams(t, []string{"p0"}, c.Parameters)
}

func TestGenerator_DeleteConcurrencyToken(t *testing.T) {
	c := compile(t, NewGenerator(), dqltest.DeleteDuck(1, []byte{1, 2}))
	dqltest.AssertSQL(t, "DELETE FROM [Ducks]\nWHERE [Id] = @p0 AND [ConcurrencyToken] = @p1;\nSELECT @@ROWCOUNT;\n", c.SQL)
	dqltest.AssertParams(t, []string{"p0", "p1"}, c.Parameters)
}

func TestGenerator_UpdateWithoutConditionFails(t *testing.T) {
	cmd := &types.ModificationCommand{Table: "Ducks", State: types.Modified, Columns: []types.ColumnModification{
		{ColumnName: "Name", Kind: types.KindString, ParameterName: "p0", Value: "x", IsWrite: true},
	}}
	b := update.NewBatch(0, 0)
	require.True(t, b.TryAdd(cmd))
	_, err := b.Compile(NewGenerator())
	assert.ErrorIs(t, err, update.ErrNoCondition)
}

func TestGenerator_MergeInsert(t *testing.T) {
	c := compile(t, NewGenerator(),
		dqltest.InsertDuck(0, "Huey", 1),
		dqltest.InsertDuck(1, "Dewey", 2),
		dqltest.InsertDuck(2, "Louie", 3),
	)
	dqltest.AssertGolden(t, "merge_insert", c.SQL)
	dqltest.AssertParams(t, []string{"p0", "p1", "p2", "p3", "p4", "p5"}, c.Parameters)
	assert.Equal(t, mappings(types.NotLastInResultSet, types.NotLastInResultSet, types.LastInResultSet), c.Mappings)
	assert.Equal(t, 1, c.ResultSets())
}

func TestGenerator_MultiRowInsertWithoutReads(t *testing.T) {
	row := func(p string) *types.ModificationCommand {
		return &types.ModificationCommand{Table: "Ducks", State: types.Added, Columns: []types.ColumnModification{
			{ColumnName: "Name", Kind: types.KindString, ParameterName: p, Value: p, IsWrite: true},
		}}
	}
	c := compile(t, NewGenerator(), row("p0"), row("p1"), row("p2"))
	dqltest.AssertSQL(t, "INSERT INTO [Ducks] ([Name])\nVALUES (@p0),\n(@p1),\n(@p2);\n", c.SQL)
	assert.Equal(t, mappings(types.NoResultSet, types.NoResultSet, types.NoResultSet), c.Mappings)
	assert.Equal(t, 0, c.ResultSets())
}

func TestGenerator_DefaultValuesInsert(t *testing.T) {
	// Only the first non-identity column is named in the INSERT.
	generated := []types.ColumnModification{
		{ColumnName: "Created", Kind: types.KindDateTime, IsRead: true},
		{ColumnName: "Flag", Kind: types.KindBool, IsRead: true},
	}
	c := compile(t, NewGenerator(), defaultsOnly(generated...), defaultsOnly(generated...))
	dqltest.AssertGolden(t, "default_values_insert", c.SQL)
	assert.Empty(t, c.Parameters)
	assert.Equal(t, mappings(types.NotLastInResultSet, types.LastInResultSet), c.Mappings)
}

func TestGenerator_IdentityOnlyInsert(t *testing.T) {
	c := compile(t, NewGenerator(), defaultsOnly(), defaultsOnly())
	dqltest.AssertGolden(t, "identity_only_insert", c.SQL)
	assert.Equal(t, mappings(types.LastInResultSet, types.LastInResultSet), c.Mappings)
	assert.Equal(t, 2, c.ResultSets())
}

func TestGenerator_MemoryOptimizedInsert(t *testing.T) {
	a := annotations.New()
	MemoryOptimized.Set(a, true)
	first, second := dqltest.InsertDuck(0, "Huey", 1), dqltest.InsertDuck(1, "Dewey", 2)
	first.Annotations, second.Annotations = a, a

	c := compile(t, NewGenerator(), first, second)
	dqltest.AssertGolden(t, "memory_optimized_insert", c.SQL)
	assert.Equal(t, mappings(types.LastInResultSet, types.LastInResultSet), c.Mappings)
}

func serverKeyDuck(kind types.Kind) *types.ModificationCommand {
	return &types.ModificationCommand{Table: "Ducks", State: types.Added, Columns: []types.ColumnModification{
		{ColumnName: "Id", Kind: kind, IsKey: true, IsRead: true},
		{ColumnName: "Name", Kind: types.KindString, ParameterName: "p0", Value: "Donald", IsWrite: true},
	}}
}

func TestGenerator_ServerKeyInsert(t *testing.T) {
	c := compile(t, NewGenerator(), serverKeyDuck(types.KindGuid))
	dqltest.AssertGolden(t, "server_key_insert", c.SQL)
	assert.Equal(t, mappings(types.LastInResultSet), c.Mappings)
}

func TestGenerator_IdentityStrategyAnnotation(t *testing.T) {
	// A Guid key explicitly marked as identity is read with scope_identity().
	cmd := serverKeyDuck(types.KindGuid)
	cmd.Columns[0].Annotations = annotations.New()
	ValueGenerationStrategy.Set(cmd.Columns[0].Annotations, IdentityColumn)

	c := compile(t, NewGenerator(), cmd)
	assert.Contains(t, c.SQL, "[Id] = scope_identity()")
	assert.NotContains(t, c.SQL, "DECLARE")
}

func TestGenerator_UnmappedKeyType(t *testing.T) {
	rec := &diag.Recorder{}
	c := compile(t, NewGenerator(WithSink(rec)), serverKeyDuck(types.KindObject))
	assert.Contains(t, c.SQL, "DECLARE @inserted0 TABLE ([Id] sql_variant);")
	assert.Equal(t, []string{diag.KeyTypeUnmapped}, rec.Codes())
}

func TestGenerator_KeyColumnTypeAnnotation(t *testing.T) {
	cmd := serverKeyDuck(types.KindString)
	cmd.Columns[0].Annotations = annotations.New()
	ColumnType.Set(cmd.Columns[0].Annotations, "varchar(20)")

	c := compile(t, NewGenerator(), cmd)
	assert.Contains(t, c.SQL, "DECLARE @inserted0 TABLE ([Id] varchar(20));")
}

func TestGenerator_MixedBatch(t *testing.T) {
	upd := &types.ModificationCommand{Table: "Ducks", State: types.Modified, Columns: []types.ColumnModification{
		{ColumnName: "Name", Kind: types.KindString, ParameterName: "p2", Value: "Gladstone", IsWrite: true},
		{ColumnName: "Id", Kind: types.KindInt32, ParameterName: "p3", Value: 2, IsKey: true},
	}}
	del := &types.ModificationCommand{Table: "Ducks", State: types.Deleted, Columns: []types.ColumnModification{
		{ColumnName: "Id", Kind: types.KindInt32, ParameterName: "p4", Value: 3, IsKey: true},
	}}
	c := compile(t, NewGenerator(), dqltest.InsertDuck(0, "Donald", 3), upd, del)
	dqltest.AssertGolden(t, "mixed_batch", c.SQL)
	dqltest.AssertParams(t, []string{"p0", "p1", "p2", "p3", "p4"}, c.Parameters)
	assert.Equal(t, 3, c.ResultSets())
}

func TestGenerator_FinishEmpty(t *testing.T) {
	assert.Equal(t, "", NewGenerator().Finish(update.NewScript()))
}

func TestSequenceSQL(t *testing.T) {
	assert.Equal(t, "SELECT NEXT VALUE FOR [EntityFrameworkHiLoSequence]", NextSequenceValueSQL(DefaultHiLoSequenceName, ""))
	assert.Equal(t, "SELECT NEXT VALUE FOR [sales].[OrderIds]", NextSequenceValueSQL("OrderIds", "sales"))

	name, schema := HiLoSequence(nil)
	assert.Equal(t, DefaultHiLoSequenceName, name)
	assert.Empty(t, schema)

	a := annotations.New()
	HiLoSequenceName.Set(a, "OrderIds")
	HiLoSequenceSchema.Set(a, "sales")
	name, schema = HiLoSequence(a)
	assert.Equal(t, "OrderIds", name)
	assert.Equal(t, "sales", schema)

	src := SequenceSource(nil, "OrderIds", "sales")
	assert.Equal(t, "SELECT NEXT VALUE FOR [sales].[OrderIds]", src.Query)
}
