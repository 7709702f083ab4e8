package oracle

import (
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/translate"
)

var datePartNames = map[string]string{
	"Year":   "YEAR",
	"Month":  "MONTH",
	"Day":    "DAY",
	"Hour":   "HOUR",
	"Minute": "MINUTE",
	"Second": "SECOND",
}

// toStringTypes lists the kinds ToString may convert. Oracle converts
// with TO_CHAR, so the width is unused except for guids.
var toStringTypes = map[types.Kind]string{
	types.KindByte:           "",
	types.KindSByte:          "",
	types.KindInt16:          "",
	types.KindUInt16:         "",
	types.KindInt32:          "",
	types.KindUInt32:         "",
	types.KindInt64:          "",
	types.KindUInt64:         "",
	types.KindChar:           "",
	types.KindSingle:         "",
	types.KindDouble:         "",
	types.KindDecimal:        "",
	types.KindDateTime:       "",
	types.KindDateTimeOffset: "",
	types.KindGuid:           "RAW(16)",
}

// Translators builds the Oracle member and method translators.
func Translators() *translate.Registry {
	sysdate := translate.NiladicFunction("SYSDATE", types.KindDateTime)
	systimestamp := translate.NiladicFunction("SYSTIMESTAMP", types.KindDateTimeOffset)
	one := types.Literal{Value: 1, Kind: types.KindInt32}

	r := translate.New()
	r.AddMember(
		translate.Static("DateTime", "Now", sysdate),
		translate.Static("DateTime", "UtcNow", translate.Function("SYS_EXTRACT_UTC", types.KindDateTime, systimestamp)),
		translate.Static("DateTime", "Today", translate.Function("TRUNC", types.KindDateTime, sysdate)),
		translate.Static("DateTimeOffset", "Now", systimestamp),
		translate.Static("DateTimeOffset", "UtcNow", translate.Function("SYS_EXTRACT_UTC", types.KindDateTime, systimestamp)),
		translate.MemberFunc(length),
		translate.DatePart("DateTime", datePartNames, datePart),
		translate.DatePart("DateTimeOffset", datePartNames, datePart),
		translate.Member("DateTime", "Date", func(instance types.Expression, kind types.Kind) types.Expression {
			return translate.Function("TRUNC", kind, instance)
		}),
	)
	r.AddMethod(
		translate.ToString(toStringTypes, func(storeType string, instance types.Expression) types.Expression {
			if storeType != "" {
				return translate.Function("RAWTOHEX", types.KindString, instance)
			}
			return translate.Function("TO_CHAR", types.KindString, instance)
		}),
		translate.Rename("String", "Replace", 2, "REPLACE"),
		translate.Rename("String", "ToUpper", 0, "UPPER"),
		translate.Rename("String", "ToLower", 0, "LOWER"),
		translate.Rename("String", "TrimStart", 0, "LTRIM"),
		translate.Rename("String", "TrimEnd", 0, "RTRIM"),
		translate.Rename("String", "Trim", 0, "TRIM"),
		translate.Method("String", "Substring", 1, func(instance types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			start := types.Binary{Left: args[0], Op: types.OpAdd, Right: one}
			return translate.Function("SUBSTR", kind, instance, start)
		}),
		translate.Method("String", "Substring", 2, func(instance types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			start := types.Binary{Left: args[0], Op: types.OpAdd, Right: one}
			return translate.Function("SUBSTR", kind, instance, start, args[1])
		}),
		translate.Method("String", "IndexOf", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			return types.Binary{
				Left:  translate.Function("INSTR", types.KindInt32, instance, args[0]),
				Op:    types.OpSubtract,
				Right: one,
			}
		}),
		translate.Method("String", "Contains", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			return types.Binary{
				Left:  translate.Function("INSTR", types.KindInt32, instance, args[0]),
				Op:    types.OpGreaterThan,
				Right: types.Literal{Value: 0, Kind: types.KindInt32},
			}
		}),
		translate.Method("String", "StartsWith", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			pattern := types.Binary{Left: args[0], Op: types.OpAdd, Right: types.Literal{Value: "%", Kind: types.KindString}}
			prefix := translate.Function("SUBSTR", types.KindString, instance, one, translate.Function("LENGTH", types.KindInt32, args[0]))
			return types.Binary{
				Left:  types.Like{Match: instance, Pattern: pattern},
				Op:    types.OpAndAlso,
				Right: types.Binary{Left: prefix, Op: types.OpEqual, Right: args[0]},
			}
		}),
		translate.Method("String", "EndsWith", 1, func(instance types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			from := types.Unary{Op: types.OpNegate, Operand: translate.Function("LENGTH", types.KindInt32, args[0])}
			suffix := translate.Function("SUBSTR", types.KindString, instance, from)
			return types.Binary{Left: suffix, Op: types.OpEqual, Right: args[0]}
		}),
		// Oracle stores empty strings as NULL, so a trimmed blank is NULL.
		translate.Method("String", "IsNullOrWhiteSpace", 1, func(_ types.Expression, args []types.Expression, _ types.Kind) types.Expression {
			return types.Binary{
				Left:  types.Unary{Op: types.OpIsNull, Operand: args[0]},
				Op:    types.OpOrElse,
				Right: types.Unary{Op: types.OpIsNull, Operand: translate.Function("TRIM", types.KindString, args[0])},
			}
		}),
		translate.Method("Guid", "NewGuid", 0, func(_ types.Expression, _ []types.Expression, _ types.Kind) types.Expression {
			return translate.Function("SYS_GUID", types.KindGuid)
		}),
		translate.Rename("Math", "Abs", 1, "ABS"),
		translate.Rename("Math", "Ceiling", 1, "CEIL"),
		translate.Rename("Math", "Floor", 1, "FLOOR"),
		translate.Rename("Math", "Power", 2, "POWER"),
		translate.Rename("Math", "Sqrt", 1, "SQRT"),
		translate.Rename("Math", "Sign", 1, "SIGN"),
		translate.Rename("Math", "Exp", 1, "EXP"),
		translate.Rename("Math", "Log", 1, "LN"),
		translate.Method("Math", "Log10", 1, func(_ types.Expression, args []types.Expression, kind types.Kind) types.Expression {
			return translate.Function("LOG", kind, types.Literal{Value: 10, Kind: types.KindInt32}, args[0])
		}),
		translate.Rename("Math", "Round", 1, "ROUND"),
		translate.Rename("Math", "Round", 2, "ROUND"),
		translate.Rename("Math", "Truncate", 1, "TRUNC"),
	)
	return r
}

// length translates Length on text to LENGTH. Binary lengths are left
// untranslated.
func length(m types.MemberAccess) types.Expression {
	if m.Member != "Length" || m.Instance == nil || !m.Instance.Type().IsText() {
		return nil
	}
	return types.Cast{
		Operand:   translate.Function("LENGTH", types.KindInt64, m.Instance),
		StoreType: "NUMBER(10)",
		Kind:      types.KindInt32,
	}
}

func datePart(part string, instance types.Expression, kind types.Kind) types.Expression {
	if kind == types.KindUnknown {
		kind = types.KindInt32
	}
	return translate.Function("EXTRACT", kind, types.Fragment{Text: part}, instance)
}
