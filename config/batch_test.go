package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/mssql"
)

func TestLoadBatch(t *testing.T) {
	cmds, err := LoadBatch(filepath.Join("testdata", "ducks.yaml"))
	require.NoError(t, err)
	require.Len(t, cmds, 4)

	assert.Equal(t, types.Added, cmds[0].State)
	assert.True(t, cmds[0].SameShape(cmds[1]))
	assert.Equal(t, []string{"Id"}, names(cmds[0].ReadColumns()))
	assert.Equal(t, []string{"Name", "Quacks"}, names(cmds[0].WriteColumns()))
	assert.Equal(t, "Daisy", cmds[1].Columns[1].Value)

	assert.Equal(t, types.Modified, cmds[2].State)

	del := cmds[3]
	assert.Equal(t, types.Deleted, del.State)
	assert.Equal(t, "dbo", del.Schema)
	token := del.Columns[1]
	assert.True(t, token.UseOriginalValue())
	assert.Nil(t, token.ConditionValue())
	assert.Equal(t, types.KindBytes, token.Kind)
	optimized, ok := mssql.MemoryOptimized.Lookup(del.Annotations)
	assert.True(t, ok)
	assert.False(t, optimized)
}

func TestParseBatch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		substr string
	}{
		{"empty", "", "commands list is required"},
		{"unknown field", "commands:\n  - tabel: Ducks", "field tabel not found"},
		{"no table", "commands:\n  - state: added\n    columns: [{name: Id}]", "commands[0]: table is required"},
		{"bad state", "commands:\n  - table: Ducks\n    state: merged\n    columns: [{name: Id}]", "state must be"},
		{"no columns", "commands:\n  - table: Ducks\n    state: deleted", "columns list is required"},
		{"bad kind", "commands:\n  - table: Ducks\n    state: added\n    columns: [{name: Id, kind: int128}]", `unknown kind "int128"`},
		{"missing param", "commands:\n  - table: Ducks\n    state: added\n    columns: [{name: Name, kind: string, write: true}]", "needs a param"},
		{"key without param", "commands:\n  - table: Ducks\n    state: deleted\n    columns: [{name: Id, kind: int32, key: true}]", "column Id binds a value and needs a param"},
		{"key without value", "commands:\n  - table: Ducks\n    state: deleted\n    columns: [{name: Id, kind: int32, param: p0, key: true}]", "column Id matches on p0 but has no value"},
		{"condition without value", "commands:\n  - table: Ducks\n    state: modified\n    columns:\n      - {name: Name, kind: string, param: p0, value: Daisy, write: true}\n      - {name: Quacks, kind: int32, param: p1, condition: true}", "column Quacks matches on p1 but has no value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestParseBatch_GeneratedKey(t *testing.T) {
	doc := `commands:
  - table: Ducks
    state: added
    columns:
      - {name: Id, kind: int32, key: true, read: true}
      - {name: Name, kind: string, param: p0, value: Donald, write: true}
`
	cmds, err := ParseBatch([]byte(doc))
	require.NoError(t, err)
	require.Len(t, cmds, 1)

	id := cmds[0].Columns[0]
	assert.True(t, id.IsKey)
	assert.True(t, id.IsRead)
	assert.Empty(t, id.ParameterName)
	assert.Equal(t, 1, cmds[0].ParameterCount())
}

func TestParseBatch_NullConcurrencyToken(t *testing.T) {
	doc := `commands:
  - table: Ducks
    state: deleted
    columns:
      - {name: Id, kind: int32, param: p0, value: 1, key: true}
      - {name: Token, kind: bytes, param: p1, condition: true, concurrency_token: true}
`
	cmds, err := ParseBatch([]byte(doc))
	require.NoError(t, err)
	assert.Nil(t, cmds[0].Columns[1].ConditionValue())
}

func names(cols []types.ColumnModification) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.ColumnName)
	}
	return out
}
