package dialectql

import "github.com/zoobzio/dialectql/internal/types"

// Kind is the static value type of an expression or column.
type Kind = types.Kind

// Re-export kind constants for public API.
const (
	KindUnknown        = types.KindUnknown
	KindBool           = types.KindBool
	KindByte           = types.KindByte
	KindSByte          = types.KindSByte
	KindInt16          = types.KindInt16
	KindUInt16         = types.KindUInt16
	KindInt32          = types.KindInt32
	KindUInt32         = types.KindUInt32
	KindInt64          = types.KindInt64
	KindUInt64         = types.KindUInt64
	KindChar           = types.KindChar
	KindSingle         = types.KindSingle
	KindDouble         = types.KindDouble
	KindDecimal        = types.KindDecimal
	KindString         = types.KindString
	KindBytes          = types.KindBytes
	KindDateTime       = types.KindDateTime
	KindDateTimeOffset = types.KindDateTimeOffset
	KindTimeSpan       = types.KindTimeSpan
	KindGuid           = types.KindGuid
	KindObject         = types.KindObject
)

// ParseKind resolves a kind by name, e.g. "int32" or "datetimeoffset".
func ParseKind(name string) (Kind, bool) {
	return types.ParseKind(name)
}
