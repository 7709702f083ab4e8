package types

// Kind is the static value type of an expression or column.
// Renderers and translators branch on Kind, never on runtime values.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindByte
	KindSByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindChar
	KindSingle
	KindDouble
	KindDecimal
	KindString
	KindBytes
	KindDateTime
	KindDateTimeOffset
	KindTimeSpan
	KindGuid
	KindObject
)

var kindNames = [...]string{
	KindUnknown:        "unknown",
	KindBool:           "bool",
	KindByte:           "byte",
	KindSByte:          "sbyte",
	KindInt16:          "int16",
	KindUInt16:         "uint16",
	KindInt32:          "int32",
	KindUInt32:         "uint32",
	KindInt64:          "int64",
	KindUInt64:         "uint64",
	KindChar:           "char",
	KindSingle:         "single",
	KindDouble:         "double",
	KindDecimal:        "decimal",
	KindString:         "string",
	KindBytes:          "bytes",
	KindDateTime:       "datetime",
	KindDateTimeOffset: "datetimeoffset",
	KindTimeSpan:       "timespan",
	KindGuid:           "guid",
	KindObject:         "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a kind by its String() name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}

// IsText reports whether values of the kind are character data.
func (k Kind) IsText() bool {
	return k == KindString || k == KindChar
}

// IsInteger reports whether the kind is an integral number.
func (k Kind) IsInteger() bool {
	switch k {
	case KindByte, KindSByte, KindInt16, KindUInt16, KindInt32, KindUInt32, KindInt64, KindUInt64:
		return true
	}
	return false
}

// IsNumeric reports whether the kind is any number.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k == KindSingle || k == KindDouble || k == KindDecimal
}
