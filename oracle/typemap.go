package oracle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

const (
	maxUnicodeLength = 2000
	maxAnsiLength    = 4000
	maxRawLength     = 2000
	keyUnicodeLength = 450
	keyAnsiLength    = 900
	keyRawLength     = 900
)

const (
	timestampFormat   = "2006-01-02 15:04:05.0000000"
	timestampTZFormat = "2006-01-02 15:04:05.0000000 -07:00"
)

// NewTypeMapper builds the Oracle store type registry.
func NewTypeMapper(sink diag.Sink) *typemap.Registry {
	r := typemap.NewRegistry(Name, sink)

	fixed := func(m typemap.Mapping) typemap.KindFunc {
		return func(typemap.Column, diag.Sink) (typemap.Mapping, error) { return m, nil }
	}
	r.RegisterKind(types.KindBool, fixed(numberMapping(1, 0, types.KindBool)))
	r.RegisterKind(types.KindByte, fixed(numberMapping(3, 0, types.KindByte)))
	r.RegisterKind(types.KindSByte, fixed(numberMapping(3, 0, types.KindSByte)))
	r.RegisterKind(types.KindInt16, fixed(numberMapping(6, 0, types.KindInt16)))
	r.RegisterKind(types.KindUInt16, fixed(numberMapping(5, 0, types.KindUInt16)))
	r.RegisterKind(types.KindInt32, fixed(numberMapping(10, 0, types.KindInt32)))
	r.RegisterKind(types.KindUInt32, fixed(numberMapping(10, 0, types.KindUInt32)))
	r.RegisterKind(types.KindInt64, fixed(numberMapping(19, 0, types.KindInt64)))
	r.RegisterKind(types.KindUInt64, fixed(numberMapping(20, 0, types.KindUInt64)))
	r.RegisterKind(types.KindSingle, fixed(simple("BINARY_FLOAT", types.KindSingle, typemap.FloatLiteral)))
	r.RegisterKind(types.KindDouble, fixed(simple("BINARY_DOUBLE", types.KindDouble, typemap.FloatLiteral)))
	r.RegisterKind(types.KindDateTime, fixed(timestampMapping("TIMESTAMP(7)", "timestamp", types.KindDateTime, timestampLiteral)))
	r.RegisterKind(types.KindDateTimeOffset, fixed(timestampMapping("TIMESTAMP(7) WITH TIME ZONE", "timestamp with time zone", types.KindDateTimeOffset, timestampTZLiteral)))
	r.RegisterKind(types.KindTimeSpan, fixed(intervalMapping("INTERVAL DAY(2) TO SECOND(6)", "interval day to second")))
	r.RegisterKind(types.KindGuid, fixed(rawMapping(16, types.KindGuid).WithLiteral(guidLiteral)))
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
	return typemap.Mapping{StoreType: storeType, Base: strings.ToLower(storeType), Kind: kind}.WithLiteral(lit)
}

func numberMapping(precision, scale int, kind types.Kind) typemap.Mapping {
	storeType := fmt.Sprintf("NUMBER(%d, %d)", precision, scale)
	var lit typemap.LiteralFunc
	switch {
	case kind == types.KindBool:
		storeType, lit = "NUMBER("+strconv.Itoa(precision)+")", typemap.BoolLiteral
	case kind.IsInteger():
		storeType, lit = "NUMBER("+strconv.Itoa(precision)+")", typemap.IntegerLiteral
	case kind == types.KindSingle || kind == types.KindDouble:
		lit = typemap.FloatLiteral
	default:
		lit = typemap.DecimalLiteral
	}
	return typemap.Mapping{
		StoreType: storeType,
		Base:      "number",
		Kind:      kind,
		Precision: precision,
		Scale:     scale,
	}.WithLiteral(lit)
}

func timestampMapping(storeType, base string, kind types.Kind, lit typemap.LiteralFunc) typemap.Mapping {
	return typemap.Mapping{StoreType: storeType, Base: base, Kind: kind, Precision: 7}.WithLiteral(lit)
}

func intervalMapping(storeType, base string) typemap.Mapping {
	return typemap.Mapping{StoreType: storeType, Base: base, Kind: types.KindTimeSpan}.WithLiteral(intervalLiteral)
}

func rawMapping(size int, kind types.Kind) typemap.Mapping {
	return typemap.Mapping{
		StoreType:   "RAW(" + strconv.Itoa(size) + ")",
		Base:        "raw",
		Kind:        kind,
		Size:        size,
		FixedLength: kind == types.KindGuid,
	}.WithLiteral(bytesLiteral)
}

func lobMapping(storeType string, kind types.Kind, unicode bool) typemap.Mapping {
	m := typemap.Mapping{StoreType: storeType, Base: strings.ToLower(storeType), Kind: kind, Size: -1, Unicode: unicode}
	if kind == types.KindBytes {
		return m.WithLiteral(bytesLiteral)
	}
	return m.WithLiteral(typemap.StringLiteral(unicode))
}

// decimalForColumn uses the column's precision and scale, defaulting to
// NUMBER(29, 4).
func decimalForColumn(c typemap.Column, sink diag.Sink) (typemap.Mapping, error) {
	p, hasP := c.ResolvedPrecision()
	s, hasS := c.ResolvedScale()
	if !hasP && !hasS {
		sink.Emit(diag.New(diag.Warn, diag.DecimalTypeDefaulted,
			"no store type was specified for the decimal column; values will be truncated if they do not fit the default precision and scale",
			"dialect", Name, "store_type", "NUMBER(29, 4)"))
		return numberMapping(29, 4, types.KindDecimal), nil
	}
	if !hasP {
		p = 29
	}
	if p > 38 {
		return typemap.Mapping{}, fmt.Errorf("NUMBER precision %d exceeds 38", p)
	}
	if s > p {
		return typemap.Mapping{}, fmt.Errorf("decimal scale %d exceeds precision %d", s, p)
	}
	return numberMapping(p, s, types.KindDecimal), nil
}

func textMapping(size int, unicode, fixedLength bool, kind types.Kind) typemap.Mapping {
	base := "varchar2"
	switch {
	case fixedLength && unicode:
		base = "nchar"
	case fixedLength:
		base = "char"
	case unicode:
		base = "nvarchar2"
	}
	return typemap.Mapping{
		StoreType:   strings.ToUpper(base) + "(" + strconv.Itoa(size) + ")",
		Base:        base,
		Kind:        kind,
		Size:        size,
		Unicode:     unicode,
		FixedLength: fixedLength,
	}.WithLiteral(typemap.StringLiteral(unicode))
}

// stringForColumn sizes text columns: explicit lengths up to the type's
// limit, 450/900 characters for keys and indexes, the limit otherwise.
// Explicit lengths over the limit need a CLOB.
func stringForColumn(c typemap.Column, _ diag.Sink) (typemap.Mapping, error) {
	unicode := c.ResolvedUnicode()
	limit, keySize := maxAnsiLength, keyAnsiLength
	if unicode {
		limit, keySize = maxUnicodeLength, keyUnicodeLength
	}
	n, ok := c.ResolvedMaxLength()
	switch {
	case ok && n > limit:
		if unicode {
			return lobMapping("NCLOB", types.KindString, true), nil
		}
		return lobMapping("CLOB", types.KindString, false), nil
	case ok:
		return textMapping(n, unicode, c.ResolvedFixedLength(), types.KindString), nil
	case c.KeyOrIndex():
		return textMapping(keySize, unicode, false, types.KindString), nil
	}
	return textMapping(limit, unicode, false, types.KindString), nil
}

// bytesForColumn maps binary columns. Row versions are eight bytes
// maintained by a trigger, nullable or not.
func bytesForColumn(c typemap.Column, _ diag.Sink) (typemap.Mapping, error) {
	if c.IsRowVersion {
		m := rawMapping(8, types.KindBytes)
		m.FixedLength = true
		return m, nil
	}
	n, ok := c.ResolvedMaxLength()
	switch {
	case ok && n <= maxRawLength:
		m := rawMapping(n, types.KindBytes)
		m.FixedLength = c.ResolvedFixedLength()
		return m, nil
	case !ok && c.KeyOrIndex():
		return rawMapping(keyRawLength, types.KindBytes), nil
	}
	return lobMapping("BLOB", types.KindBytes, false), nil
}

func registerStoreTypes(r *typemap.Registry) {
	named := func(kind types.Kind, lit typemap.LiteralFunc) typemap.StoreFunc {
		return func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
			return typemap.Mapping{StoreType: st.Name, Base: st.Base, Kind: kind}.WithLiteral(lit), nil
		}
	}

	// NUMBER(p, s) carries every exact numeric kind; the column's kind
	// decides when present, the precision otherwise.
	r.RegisterStore("number", func(st typemap.StoreType, c typemap.Column) (typemap.Mapping, error) {
		p, hasP := st.Arg(0)
		s, _ := st.Arg(1)
		kind := c.Kind
		if !(kind.IsNumeric() || kind == types.KindBool) {
			kind = numberKind(p, s, hasP)
		}
		if !hasP {
			p = 38
		}
		m := numberMapping(p, s, kind)
		m.StoreType = st.Name
		return m, nil
	})
	r.RegisterStore("integer", named(types.KindInt64, typemap.IntegerLiteral))
	r.RegisterStore("binary_float", named(types.KindSingle, typemap.FloatLiteral))
	r.RegisterStore("binary_double", named(types.KindDouble, typemap.FloatLiteral))
	r.RegisterStore("float", named(types.KindDouble, typemap.FloatLiteral))
	r.RegisterStore("date", named(types.KindDateTime, dateLiteral))
	r.RegisterStore("timestamp", named(types.KindDateTime, timestampLiteral))
	r.RegisterStore("timestamp with time zone", named(types.KindDateTimeOffset, timestampTZLiteral))
	r.RegisterStore("timestamp with local time zone", named(types.KindDateTime, timestampLiteral))
	r.RegisterStore("interval day to second", named(types.KindTimeSpan, intervalLiteral))

	text := func(unicode, fixedLength bool) typemap.StoreFunc {
		return func(st typemap.StoreType, c typemap.Column) (typemap.Mapping, error) {
			kind := types.KindString
			if c.Kind == types.KindChar {
				kind = types.KindChar
			}
			size := st.Size()
			if size <= 0 {
				size = 1
			}
			m := textMapping(size, unicode, fixedLength, kind)
			m.StoreType = st.Name
			return m, nil
		}
	}
	r.RegisterStore("nvarchar2", text(true, false))
	r.RegisterStore("varchar2", text(false, false))
	r.RegisterStore("nchar", text(true, true))
	r.RegisterStore("char", text(false, true))
	r.RegisterStore("nclob", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		return lobMapping(st.Name, types.KindString, true), nil
	})
	r.RegisterStore("clob", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		return lobMapping(st.Name, types.KindString, false), nil
	})
	r.RegisterStore("blob", func(st typemap.StoreType, _ typemap.Column) (typemap.Mapping, error) {
		return lobMapping(st.Name, types.KindBytes, false), nil
	})

	// RAW(16) holds guids or bytes; the column decides.
	r.RegisterStore("raw", func(st typemap.StoreType, c typemap.Column) (typemap.Mapping, error) {
		size := st.Size()
		if size <= 0 {
			return typemap.Mapping{}, fmt.Errorf("RAW requires a size")
		}
		kind := types.KindBytes
		if c.Kind == types.KindGuid {
			kind = types.KindGuid
		}
		m := rawMapping(size, kind)
		if kind == types.KindGuid {
			m = m.WithLiteral(guidLiteral)
		}
		m.StoreType = st.Name
		return m, nil
	})
}

// numberKind infers the kind of an unannotated NUMBER(p, s) column.
func numberKind(p, s int, hasP bool) types.Kind {
	switch {
	case !hasP || s > 0:
		return types.KindDecimal
	case p == 1:
		return types.KindBool
	case p <= 3:
		return types.KindByte
	case p <= 5:
		return types.KindInt16
	case p <= 10:
		return types.KindInt32
	case p <= 19:
		return types.KindInt64
	}
	return types.KindDecimal
}

func timestampLiteral(v any) (string, error) {
	t, err := typemap.Time(v)
	if err != nil {
		return "", err
	}
	return "TO_TIMESTAMP('" + t.Format(timestampFormat) + "', 'YYYY-MM-DD HH24:MI:SS.FF')", nil
}

func timestampTZLiteral(v any) (string, error) {
	t, err := typemap.Time(v)
	if err != nil {
		return "", err
	}
	return "TO_TIMESTAMP_TZ('" + t.Format(timestampTZFormat) + "', 'YYYY-MM-DD HH24:MI:SS.FF TZH:TZM')", nil
}

func dateLiteral(v any) (string, error) {
	t, err := typemap.Time(v)
	if err != nil {
		return "", err
	}
	return "TO_DATE('" + t.Format("2006-01-02 15:04:05") + "', 'YYYY-MM-DD HH24:MI:SS')", nil
}

// intervalLiteral renders a day to second interval with six fractional
// digits, the precision of the default store type.
func intervalLiteral(v any) (string, error) {
	d, err := typemap.Duration(v)
	if err != nil {
		return "", err
	}
	s := typemap.FormatTimeSpan(d, true)
	return "INTERVAL '" + s[:len(s)-1] + "' DAY(9) TO SECOND(6)", nil
}

func guidLiteral(v any) (string, error) {
	g, err := typemap.Guid(v)
	if err != nil {
		return "", err
	}
	return "HEXTORAW('" + typemap.Hex(g[:]) + "')", nil
}

func bytesLiteral(v any) (string, error) {
	b, err := typemap.Bytes(v)
	if err != nil {
		return "", err
	}
	return "HEXTORAW('" + typemap.Hex(b) + "')", nil
}
