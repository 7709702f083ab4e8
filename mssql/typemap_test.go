package mssql

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

func TestTypeMapper_Kinds(t *testing.T) {
	tm := NewTypeMapper(nil)
	tests := []struct {
		kind types.Kind
		want string
	}{
		{types.KindBool, "bit"},
		{types.KindByte, "tinyint"},
		{types.KindInt16, "smallint"},
		{types.KindInt32, "int"},
		{types.KindInt64, "bigint"},
		{types.KindUInt64, "decimal(20, 0)"},
		{types.KindSingle, "real"},
		{types.KindDouble, "float"},
		{types.KindDateTime, "datetime2"},
		{types.KindDateTimeOffset, "datetimeoffset"},
		{types.KindTimeSpan, "time"},
		{types.KindGuid, "uniqueidentifier"},
		{types.KindChar, "nchar(1)"},
		{types.KindString, "nvarchar(max)"},
		{types.KindBytes, "varbinary(max)"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m, err := tm.FindByKind(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.StoreType)
		})
	}
}

func TestTypeMapper_Strings(t *testing.T) {
	tm := NewTypeMapper(nil)
	tests := []struct {
		name   string
		column typemap.Column
		want   string
		size   int
	}{
		{"unbounded", typemap.Column{Kind: types.KindString}, "nvarchar(max)", -1},
		{"sized", typemap.Column{Kind: types.KindString, MaxLength: typemap.Ptr(100)}, "nvarchar(100)", 100},
		{"too long", typemap.Column{Kind: types.KindString, MaxLength: typemap.Ptr(5000)}, "nvarchar(max)", -1},
		{"ansi sized", typemap.Column{Kind: types.KindString, MaxLength: typemap.Ptr(5000), Unicode: typemap.Ptr(false)}, "varchar(5000)", 5000},
		{"key", typemap.Column{Kind: types.KindString, IsKey: true}, "nvarchar(450)", 450},
		{"ansi index", typemap.Column{Kind: types.KindString, IsIndexed: true, Unicode: typemap.Ptr(false)}, "varchar(900)", 900},
		{"fixed", typemap.Column{Kind: types.KindString, MaxLength: typemap.Ptr(10), FixedLength: typemap.Ptr(true)}, "nchar(10)", 10},
		{"principal", typemap.Column{Kind: types.KindString, Principal: &typemap.Column{Kind: types.KindString, MaxLength: typemap.Ptr(64), Unicode: typemap.Ptr(false)}}, "varchar(64)", 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tm.FindMapping(tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.StoreType)
			assert.Equal(t, tt.size, m.Size)
		})
	}
}

func TestTypeMapper_RowVersion(t *testing.T) {
	tm := NewTypeMapper(nil)

	m, err := tm.FindMapping(typemap.Column{Kind: types.KindBytes, IsRowVersion: true})
	require.NoError(t, err)
	assert.Equal(t, "rowversion", m.StoreType)
	assert.Equal(t, 8, m.Size)
	assert.True(t, m.FixedLength)

	m, err = tm.FindMapping(typemap.Column{Kind: types.KindBytes, IsRowVersion: true, Nullable: true})
	require.NoError(t, err)
	assert.Equal(t, "binary(8)", m.StoreType)
	assert.Equal(t, 8, m.Size)
	assert.True(t, m.FixedLength)
}

func TestTypeMapper_Binary(t *testing.T) {
	tm := NewTypeMapper(nil)

	m, err := tm.FindMapping(typemap.Column{Kind: types.KindBytes, IsKey: true})
	require.NoError(t, err)
	assert.Equal(t, "varbinary(900)", m.StoreType)

	m, err = tm.FindMapping(typemap.Column{Kind: types.KindBytes, MaxLength: typemap.Ptr(16), FixedLength: typemap.Ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "binary(16)", m.StoreType)
}

func TestTypeMapper_DecimalDefault(t *testing.T) {
	rec := &diag.Recorder{}
	tm := NewTypeMapper(rec)

	m, err := tm.FindMapping(typemap.Column{Kind: types.KindDecimal})
	require.NoError(t, err)
	assert.Equal(t, "decimal(18, 2)", m.StoreType)
	assert.Equal(t, []string{diag.DecimalTypeDefaulted}, rec.Codes())

	rec.Reset()
	m, err = tm.FindMapping(typemap.Column{Kind: types.KindDecimal, Precision: typemap.Ptr(10), Scale: typemap.Ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, "decimal(10, 3)", m.StoreType)
	assert.Empty(t, rec.Codes())

	_, err = tm.FindMapping(typemap.Column{Kind: types.KindDecimal, Precision: typemap.Ptr(2), Scale: typemap.Ptr(4)})
	assert.Error(t, err)
}

func TestTypeMapper_StoreTypes(t *testing.T) {
	tm := NewTypeMapper(nil)

	m, err := tm.FindByStoreType("nvarchar(450)", typemap.Column{})
	require.NoError(t, err)
	assert.Equal(t, types.KindString, m.Kind)
	assert.Equal(t, 450, m.Size)
	assert.True(t, m.Unicode)

	m, err = tm.FindByStoreType("varchar(max)", typemap.Column{})
	require.NoError(t, err)
	assert.Equal(t, -1, m.Size)
	assert.False(t, m.Unicode)

	m, err = tm.FindByStoreType("float(10)", typemap.Column{})
	require.NoError(t, err)
	assert.Equal(t, types.KindSingle, m.Kind)

	m, err = tm.FindByStoreType("float", typemap.Column{})
	require.NoError(t, err)
	assert.Equal(t, types.KindDouble, m.Kind)

	m, err = tm.FindByStoreType("decimal(10, 4)", typemap.Column{})
	require.NoError(t, err)
	assert.Equal(t, 10, m.Precision)
	assert.Equal(t, 4, m.Scale)

	m, err = tm.FindByStoreType("timestamp", typemap.Column{})
	require.NoError(t, err)
	assert.Equal(t, types.KindBytes, m.Kind)
	assert.Equal(t, 8, m.Size)

	m, err = tm.FindByStoreType("sql_variant", typemap.Column{Kind: types.KindInt32})
	require.NoError(t, err)
	assert.Equal(t, "sql_variant", m.StoreType)

	_, err = tm.FindByStoreType("sql_variant", typemap.Column{})
	assert.ErrorIs(t, err, typemap.ErrAmbiguousStoreType)

	_, err = tm.FindByStoreType("geography", typemap.Column{})
	assert.ErrorIs(t, err, typemap.ErrUnknownStoreType)
}

func TestTypeMapper_ExplicitStoreTypeWins(t *testing.T) {
	tm := NewTypeMapper(nil)
	m, err := tm.FindMapping(typemap.Column{Kind: types.KindString, StoreType: "varchar(20)"})
	require.NoError(t, err)
	assert.Equal(t, "varchar(20)", m.StoreType)
	assert.False(t, m.Unicode)
}

func TestTypeMapper_Literals(t *testing.T) {
	tm := NewTypeMapper(nil)
	plus1 := time.FixedZone("", 3600)
	g := uuid.MustParse("8f2b2d4c-3b6a-4b8e-9a0e-1d2c3b4a5f60")

	tests := []struct {
		name  string
		kind  types.Kind
		value any
		want  string
	}{
		{"datetime", types.KindDateTime, time.Date(2017, 1, 2, 3, 4, 5, 0, time.UTC), "'2017-01-02T03:04:05.0000000'"},
		{"datetimeoffset", types.KindDateTimeOffset, time.Date(2017, 1, 2, 3, 4, 5, 0, plus1), "'2017-01-02T03:04:05.0000000+01:00'"},
		{"time", types.KindTimeSpan, 3*time.Hour + 4*time.Minute + 5*time.Second, "'03:04:05.0000000'"},
		{"guid", types.KindGuid, g, "'8f2b2d4c-3b6a-4b8e-9a0e-1d2c3b4a5f60'"},
		{"bytes", types.KindBytes, []byte{0x01, 0xAB}, "0x01AB"},
		{"string", types.KindString, "O'Brien", "N'O''Brien'"},
		{"bool", types.KindBool, true, "1"},
		{"null", types.KindInt32, nil, "NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tm.FindByKind(tt.kind)
			require.NoError(t, err)
			got, err := m.Literal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	m, err := tm.FindByKind(types.KindTimeSpan)
	require.NoError(t, err)
	_, err = m.Literal(25 * time.Hour)
	assert.Error(t, err)

	m, err = tm.FindMapping(typemap.Column{Kind: types.KindString, Unicode: typemap.Ptr(false)})
	require.NoError(t, err)
	got, err := m.Literal("x")
	require.NoError(t, err)
	assert.Equal(t, "'x'", got)
}
