package mssql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

const (
	maxUnicodeLength = 4000
	maxAnsiLength    = 8000
	maxBinaryLength  = 8000
	keyUnicodeLength = 450
	keyAnsiLength    = 900
	keyBinaryLength  = 900
)

const (
	dateTimeFormat       = "2006-01-02T15:04:05.0000000"
	dateTimeOffsetFormat = "2006-01-02T15:04:05.0000000-07:00"
)

// NewTypeMapper builds the SQL Server store type registry.
func NewTypeMapper(sink diag.Sink) *typemap.Registry {
	r := typemap.NewRegistry(Name, sink)

	fixed := func(storeType string, kind types.Kind, lit typemap.LiteralFunc) typemap.KindFunc {
		m := simple(storeType, kind, lit)
		return func(typemap.Column, diag.Sink) (typemap.Mapping, error) { return m, nil }
	}
	r.RegisterKind(types.KindBool, fixed("bit", types.KindBool, typemap.BoolLiteral))
	r.RegisterKind(types.KindByte, fixed("tinyint", types.KindByte, typemap.IntegerLiteral))
	r.RegisterKind(types.KindSByte, fixed("smallint", types.KindSByte, typemap.IntegerLiteral))
	r.RegisterKind(types.KindInt16, fixed("smallint", types.KindInt16, typemap.IntegerLiteral))
	r.RegisterKind(types.KindUInt16, fixed("int", types.KindUInt16, typemap.IntegerLiteral))
	r.RegisterKind(types.KindInt32, fixed("int", types.KindInt32, typemap.IntegerLiteral))
	r.RegisterKind(types.KindUInt32, fixed("bigint", types.KindUInt32, typemap.IntegerLiteral))
	r.RegisterKind(types.KindInt64, fixed("bigint", types.KindInt64, typemap.IntegerLiteral))
	r.RegisterKind(types.KindSingle, fixed("real", types.KindSingle, typemap.FloatLiteral))
	r.RegisterKind(types.KindDouble, fixed("float", types.KindDouble, typemap.FloatLiteral))
	r.RegisterKind(types.KindDateTime, fixed("datetime2", types.KindDateTime, timeLiteral(dateTimeFormat)))
	r.RegisterKind(types.KindDateTimeOffset, fixed("datetimeoffset", types.KindDateTimeOffset, timeLiteral(dateTimeOffsetFormat)))
	r.RegisterKind(types.KindTimeSpan, fixed("time", types.KindTimeSpan, timeSpanLiteral))
	r.RegisterKind(types.KindGuid, fixed("uniqueidentifier", types.KindGuid, guidLiteral))

	uint64Mapping := decimalMapping(20, 0, types.KindUInt64).WithLiteral(typemap.IntegerLiteral)
	r.RegisterKind(types.KindUInt64, func(typemap.Column, diag.Sink) (typemap.Mapping, error) { return uint64Mapping, nil })
	r.RegisterKind(types.KindDecimal, decimalForColumn)
	r.RegisterKind(types.KindChar, func(c typemap.Column, _ diag.Sink) (typemap.Mapping, error) {
		return textMapping(1, c.ResolvedUnicode(), true, types.KindChar), nil
	})
	r.RegisterKind(types.KindString, stringForColumn)
	r.RegisterKind(types.KindBytes, bytesForColumn)

	registerStoreTypes(r)
	return r
}

func simple(storeType string, kind types.Kind, lit typemap.LiteralFunc) typemap.Mapping {
	return typemap.Mapping{StoreType: storeType, Base: storeType, Kind: kind}.WithLiteral(lit)
}

func decimalMapping(precision, scale int, kind types.Kind) typemap.Mapping {
	return typemap.Mapping{
		StoreType: fmt.Sprintf("decimal(%d, %d)", precision, scale),
		Base:      "decimal",
		Kind:      kind,
		Precision: precision,
		Scale:     scale,
	}.WithLiteral(typemap.DecimalLiteral)
}

// decimalForColumn uses the column's precision and scale, defaulting to
// decimal(18, 2). The default is reported since it may truncate values.
func decimalForColumn(c typemap.Column, sink diag.Sink) (typemap.Mapping, error) {
	p, hasP := c.ResolvedPrecision()
	s, hasS := c.ResolvedScale()
	if !hasP && !hasS {
		sink.Emit(diag.New(diag.Warn, diag.DecimalTypeDefaulted,
			"no store type was specified for the decimal column; values will be truncated if they do not fit the default precision and scale",
			"dialect", Name, "store_type", "decimal(18, 2)"))
		return decimalMapping(18, 2, types.KindDecimal), nil
	}
	if !hasP {
		p = 18
	}
	if s > p {
		return typemap.Mapping{}, fmt.Errorf("decimal scale %d exceeds precision %d", s, p)
	}
	return decimalMapping(p, s, types.KindDecimal), nil
}

func textMapping(size int, unicode, fixedLength bool, kind types.Kind) typemap.Mapping {
	base := "varchar"
	if fixedLength {
		base = "char"
	}
	if unicode {
		base = "n" + base
	}
	facet := "max"
	if size > 0 {
		facet = strconv.Itoa(size)
	}
	return typemap.Mapping{
		StoreType:   base + "(" + facet + ")",
		Base:        base,
		Kind:        kind,
		Size:        size,
		Unicode:     unicode,
		FixedLength: fixedLength,
	}.WithLiteral(typemap.StringLiteral(unicode))
}

// stringForColumn sizes text columns: explicit lengths up to the type's
// limit, 450/900 characters for keys and indexes, max otherwise.
func stringForColumn(c typemap.Column, _ diag.Sink) (typemap.Mapping, error) {
	unicode := c.ResolvedUnicode()
	limit, keySize := maxAnsiLength, keyAnsiLength
	if unicode {
		limit, keySize = maxUnicodeLength, keyUnicodeLength
	}
	size := -1
	if n, ok := c.ResolvedMaxLength(); ok && n <= limit {
		size = n
	} else if !ok && c.KeyOrIndex() {
		size = keySize
	}
	fixedLength := c.ResolvedFixedLength() && size > 0
	return textMapping(size, unicode, fixedLength, types.KindString), nil
}

func binaryMapping(storeType, base string, size int, fixedLength bool) typemap.Mapping {
	return typemap.Mapping{
		StoreType:   storeType,
		Base:        base,
		Kind:        types.KindBytes,
		Size:        size,
		FixedLength: fixedLength,
	}.WithLiteral(bytesLiteral)
}

// bytesForColumn maps binary columns. Row versions are eight fixed bytes:
// rowversion when the column is required, binary(8) when nullable since a
// rowversion column cannot hold NULL.
func bytesForColumn(c typemap.Column, _ diag.Sink) (typemap.Mapping, error) {
	if c.IsRowVersion {
		if c.Nullable {
			return binaryMapping("binary(8)", "binary", 8, true), nil
		}
		return binaryMapping("rowversion", "rowversion", 8, true), nil
	}
	size := -1
	if n, ok := c.ResolvedMaxLength(); ok && n <= maxBinaryLength {
		size = n
	} else if !ok && c.KeyOrIndex() {
		size = keyBinaryLength
	}
	if size < 0 {
		return binaryMapping("varbinary(max)", "varbinary", -1, false), nil
	}
	if c.ResolvedFixedLength() {
		return binaryMapping("binary("+strconv.Itoa(size)+")", "binary", size, true), nil
	}
	return binaryMapping("varbinary("+strconv.Itoa(size)+")", "varbinary", size, false), nil
}

func registerStoreTypes(r *typemap.Registry) {
	named := func(kind types.Kind, lit typemap.LiteralFunc) typemap.StoreFunc {
		return func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
			return typemap.Mapping{StoreType: st.Name, Base: st.Base, Kind: kind}.WithLiteral(lit), nil
		}
	}
	r.RegisterStore("bit", named(types.KindBool, typemap.BoolLiteral))
	r.RegisterStore("tinyint", named(types.KindByte, typemap.IntegerLiteral))
	r.RegisterStore("smallint", named(types.KindInt16, typemap.IntegerLiteral))
	r.RegisterStore("int", named(types.KindInt32, typemap.IntegerLiteral))
	r.RegisterStore("bigint", named(types.KindInt64, typemap.IntegerLiteral))
	r.RegisterStore("real", named(types.KindSingle, typemap.FloatLiteral))
	r.RegisterStore("money", named(types.KindDecimal, typemap.DecimalLiteral))
	r.RegisterStore("smallmoney", named(types.KindDecimal, typemap.DecimalLiteral))
	r.RegisterStore("uniqueidentifier", named(types.KindGuid, guidLiteral))
	r.RegisterStore("datetime2", named(types.KindDateTime, timeLiteral(dateTimeFormat)))
	r.RegisterStore("datetime", named(types.KindDateTime, timeLiteral("2006-01-02T15:04:05.000")))
	r.RegisterStore("smalldatetime", named(types.KindDateTime, timeLiteral("2006-01-02T15:04:05")))
	r.RegisterStore("date", named(types.KindDateTime, timeLiteral("2006-01-02")))
	r.RegisterStore("datetimeoffset", named(types.KindDateTimeOffset, timeLiteral(dateTimeOffsetFormat)))
	r.RegisterStore("time", named(types.KindTimeSpan, timeSpanLiteral))

	// float(1) through float(24) is stored as real.
	r.RegisterStore("float", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		kind := types.KindDouble
		if n, ok := st.Arg(0); ok && n <= 24 {
			kind = types.KindSingle
		}
		return typemap.Mapping{StoreType: st.Name, Base: st.Base, Kind: kind}.WithLiteral(typemap.FloatLiteral), nil
	})

	exact := func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		p, ok := st.Arg(0)
		if !ok {
			p = 18
		}
		s, _ := st.Arg(1)
		m := decimalMapping(p, s, types.KindDecimal)
		m.StoreType, m.Base = st.Name, st.Base
		return m, nil
	}
	r.RegisterStore("decimal", exact)
	r.RegisterStore("numeric", exact)

	text := func(unicode, fixedLength bool) typemap.StoreFunc {
		return func(st typemap.StoreType, c typemap.Column) (typemap.Mapping, error) {
			kind := types.KindString
			if c.Kind == types.KindChar {
				kind = types.KindChar
			}
			size := st.Size()
			if size == 0 {
				size = 1
			}
			m := textMapping(size, unicode, fixedLength, kind)
			m.StoreType = st.Name
			return m, nil
		}
	}
	r.RegisterStore("nvarchar", text(true, false))
	r.RegisterStore("varchar", text(false, false))
	r.RegisterStore("nchar", text(true, true))
	r.RegisterStore("char", text(false, true))
	r.RegisterStore("ntext", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		m := textMapping(-1, true, false, types.KindString)
		m.StoreType, m.Base = st.Name, st.Base
		return m, nil
	})
	r.RegisterStore("text", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		m := textMapping(-1, false, false, types.KindString)
		m.StoreType, m.Base = st.Name, st.Base
		return m, nil
	})

	binary := func(fixedLength bool) typemap.StoreFunc {
		return func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
			size := st.Size()
			if size == 0 {
				size = 1
			}
			return binaryMapping(st.Name, st.Base, size, fixedLength), nil
		}
	}
	r.RegisterStore("varbinary", binary(false))
	r.RegisterStore("binary", binary(true))
	r.RegisterStore("image", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		return binaryMapping(st.Name, st.Base, -1, false), nil
	})
	rowVersion := func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		return binaryMapping(st.Name, st.Base, 8, true), nil
	}
	r.RegisterStore("rowversion", rowVersion)
	r.RegisterStore("timestamp", rowVersion)

	// sql_variant holds values of any kind; the column must say which.
	r.RegisterStore("sql_variant", func(st typemap.StoreType, c typemap.Column) (typemap.Mapping, error) {
		if c.Kind == types.KindUnknown || c.Kind == types.KindObject {
			return typemap.Mapping{}, typemap.ErrAmbiguousStoreType
		}
		m, err := r.FindByKind(c.Kind)
		if err != nil {
			return typemap.Mapping{}, err
		}
		m.StoreType, m.Base = st.Name, st.Base
		return m, nil
	})
}

func timeLiteral(layout string) typemap.LiteralFunc {
	return func(v any) (string, error) {
		t, err := typemap.Time(v)
		if err != nil {
			return "", err
		}
		return "'" + t.Format(layout) + "'", nil
	}
}

func timeSpanLiteral(v any) (string, error) {
	d, err := typemap.Duration(v)
	if err != nil {
		return "", err
	}
	if d < 0 || d >= 24*time.Hour {
		return "", fmt.Errorf("time span %s is outside the range of time", d)
	}
	return "'" + typemap.FormatTimeSpan(d, false) + "'", nil
}

func guidLiteral(v any) (string, error) {
	g, err := typemap.Guid(v)
	if err != nil {
		return "", err
	}
	return "'" + g.String() + "'", nil
}

func bytesLiteral(v any) (string, error) {
	b, err := typemap.Bytes(v)
	if err != nil {
		return "", err
	}
	return "0x" + typemap.Hex(b), nil
}
