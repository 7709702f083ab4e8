package mssql

import (
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/translate"
)

var datePartNames = map[string]string{
	"Year":        "year",
	"Month":       "month",
	"DayOfYear":   "dayofyear",
	"Day":         "day",
	"Hour":        "hour",
	"Minute":      "minute",
	"Second":      "second",
	"Millisecond": "millisecond",
}

// toStringTypes lists the kinds ToString may convert and the varchar
// width each needs.
var toStringTypes = map[types.Kind]string{
	types.KindByte:           "VARCHAR(3)",
	types.KindSByte:          "VARCHAR(4)",
	types.KindInt16:          "VARCHAR(6)",
	types.KindUInt16:         "VARCHAR(5)",
	types.KindInt32:          "VARCHAR(11)",
	types.KindUInt32:         "VARCHAR(10)",
	types.KindInt64:          "VARCHAR(20)",
	types.KindUInt64:         "VARCHAR(20)",
	types.KindChar:           "VARCHAR(1)",
	types.KindSingle:         "VARCHAR(100)",
	types.KindDouble:         "VARCHAR(100)",
	types.KindDecimal:        "VARCHAR(100)",
	types.KindDateTime:       "VARCHAR(100)",
	types.KindDateTimeOffset: "VARCHAR(100)",
	types.KindTimeSpan:       "VARCHAR(14)",
	types.KindGuid:           "VARCHAR(36)",
	types.KindBytes:          "VARCHAR(5000)",
}

// Translators builds the SQL Server member and method translators.
func Translators() *translate.Registry {
	getDate := translate.Function("GETDATE", types.KindDateTime)
	r := translate.New()
	r.AddMember(
		translate.Static("DateTime", "Now", getDate),
		translate.Static("DateTime", "UtcNow", translate.Function("GETUTCDATE", types.KindDateTime)),
		translate.Static("DateTime", "Today", translate.Function("CONVERT", types.KindDateTime, types.Fragment{Text: "date"}, getDate)),
		translate.Static("DateTimeOffset", "Now", translate.Function("SYSDATETIMEOFFSET", types.KindDateTimeOffset)),
		translate.Static("DateTimeOffset", "UtcNow", translate.Function("SYSUTCDATETIME", types.KindDateTimeOffset)),
		translate.MemberFunc(length),
		translate.DatePart("DateTime", datePartNames, datePart),
		translate.DatePart("DateTimeOffset", datePartNames, datePart),
		translate.Member("DateTime", "Date", func(instance types.Expression, kind types.Kind) types.Expression {
			return translate.Function("CONVERT", kind, types.Fragment{Text: "date"}, instance)
		}),
	)
	r.AddMethod(
		translate.ToString(toStringTypes, func(storeType string, instance types.Expression) types.Expression {
			return translate.Function("CONVERT", types.KindString, types.Fragment{Text: storeType}, instance)
		}),
		translate.Rename("String", "Replace", 2, "REPLACE"),
		translate.Rename("String", "ToUpper", 0, "UPPER"),
		translate.Rename("String", "ToLower", 0, "LOWER"),
		translate.Rename("String", "TrimStart", 0, "LTRIM"),
		translate.Rename("String", "TrimEnd", 0, "RTRIM"),
		translate.Method("String", "Trim", 0, func(instance types.Expression, _ []types.Expression, kind types.Kind) types.Expression {
			return translate.Function("LTRIM", kind, translate.Function("RTRIM", kind, instance))
		}),
		translate.Method("String", "Substring", 2, func(instance types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			start := types.Binary{Left: args[0], Op: types.OpAdd, Right: types.Literal{Value: 1, Kind: types.KindInt32}}
			return translate.Function("SUBSTRING", kind, instance, start, args[1])
		}),
		translate.Method("String", "IndexOf", 1, func(instance types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			return types.Binary{
				Left:  translate.Function("CHARINDEX", types.KindInt32, args[0], instance),
				Op:    types.OpSubtract,
				Right: types.Literal{Value: 1, Kind: types.KindInt32},
			}
		}),
		translate.Method("String", "Contains", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			return types.Binary{
				Left:  translate.Function("CHARINDEX", types.KindInt32, args[0], instance),
				Op:    types.OpGreaterThan,
				Right: types.Literal{Value: 0, Kind: types.KindInt32},
			}
		}),
		translate.Method("String", "StartsWith", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			pattern := types.Binary{Left: args[0], Op: types.OpAdd, Right: types.Literal{Value: "%", Kind: types.KindString}}
			prefix := translate.Function("LEFT", types.KindString, instance, translate.Function("LEN", types.KindInt32, args[0]))
			return types.Binary{
				Left:  types.Like{Match: instance, Pattern: pattern},
				Op:    types.OpAndAlso,
				Right: types.Binary{Left: prefix, Op: types.OpEqual, Right: args[0]},
			}
		}),
		translate.Method("String", "EndsWith", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			suffix := translate.Function("RIGHT", types.KindString, instance, translate.Function("LEN", types.KindInt32, args[0]))
			return types.Binary{Left: suffix, Op: types.OpEqual, Right: args[0]}
		}),
		translate.Method("String", "IsNullOrWhiteSpace", 1, func(_ types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			trimmed := translate.Function("LTRIM", types.KindString, translate.Function("RTRIM", types.KindString, args[0]))
			return types.Binary{
				Left:  types.Unary{Op: types.OpIsNull, Operand: args[0]},
				Op:    types.OpOrElse,
				Right: types.Binary{Left: trimmed, Op: types.OpEqual, Right: types.Literal{Value: "", Kind: types.KindString}},
			}
		}),
		translate.Method("Guid", "NewGuid", 0, func(_ types.Expression, _ []types.Expression, _ types.Kind) types.Expression {
			return translate.Function("NEWID", types.KindGuid)
		}),
		translate.Rename("Math", "Abs", 1, "ABS"),
		translate.Rename("Math", "Ceiling", 1, "CEILING"),
		translate.Rename("Math", "Floor", 1, "FLOOR"),
		translate.Rename("Math", "Power", 2, "POWER"),
		translate.Rename("Math", "Sqrt", 1, "SQRT"),
		translate.Rename("Math", "Sign", 1, "SIGN"),
		translate.Rename("Math", "Exp", 1, "EXP"),
		translate.Rename("Math", "Log10", 1, "LOG10"),
		translate.Rename("Math", "Log", 1, "LOG"),
		translate.Rename("Math", "Round", 2, "ROUND"),
		translate.Method("Math", "Round", 1, func(_ types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			return translate.Function("ROUND", kind, args[0], types.Literal{Value: 0, Kind: types.KindInt32})
		}),
		translate.Method("Math", "Truncate", 1, func(_ types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			return translate.Function("ROUND", kind, args[0], types.Literal{Value: 0, Kind: types.KindInt32}, types.Literal{Value: 1, Kind: types.KindInt32})
		}),
	)
	return r
}

// length translates Length on text to LEN and on binary to DATALENGTH.
// Both return bigint for max types, hence the cast.
func length(m types.MemberAccess) types.Expression {
	if m.Member != "Length" || m.Instance == nil {
		return nil
	}
	var fn string
	switch k := m.Instance.Type(); {
	case k.IsText():
		fn = "LEN"
	case k == types.KindBytes:
		fn = "DATALENGTH"
	default:
		return nil
	}
	return types.Cast{
		Operand:   translate.Function(fn, types.KindInt64, m.Instance),
		StoreType: "int",
		Kind:      types.KindInt32,
	}
}

func datePart(part string, instance types.Expression, kind types.Kind) types.Expression {
	if kind == types.KindUnknown {
		kind = types.KindInt32
	}
	return translate.Function("DATEPART", kind, types.Fragment{Text: part}, instance)
}
