package typemap

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zoobzio/dialectql/internal/types"
)

// QuoteString renders s as a string literal, doubling embedded quotes.
// Unicode literals carry the N prefix.
func QuoteString(s string, unicode bool) string {
	q := "'" + strings.ReplaceAll(s, "'", "''") + "'"
	if unicode {
		return "N" + q
	}
	return q
}

// StringLiteral returns a LiteralFunc for text values.
func StringLiteral(unicode bool) LiteralFunc {
	return func(v any) (string, error) {
		switch s := v.(type) {
		case string:
			return QuoteString(s, unicode), nil
		case rune:
			return QuoteString(string(s), unicode), nil
		case []byte:
			return QuoteString(string(s), unicode), nil
		case fmt.Stringer:
			return QuoteString(s.String(), unicode), nil
		}
		return "", fmt.Errorf("cannot render %T as text", v)
	}
}

// BoolLiteral renders booleans as 1 and 0.
func BoolLiteral(v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("cannot render %T as bool", v)
	}
	if b {
		return "1", nil
	}
	return "0", nil
}

// IntegerLiteral renders any Go integer.
func IntegerLiteral(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), nil
	case int8:
		return strconv.FormatInt(int64(n), 10), nil
	case int16:
		return strconv.FormatInt(int64(n), 10), nil
	case int32:
		return strconv.FormatInt(int64(n), 10), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case bool:
		return BoolLiteral(n)
	}
	return "", fmt.Errorf("cannot render %T as integer", v)
}

// Float converts a Go number to float64.
func Float(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case decimal.Decimal:
		return n.InexactFloat64(), nil
	}
	s, err := IntegerLiteral(v)
	if err != nil {
		return 0, fmt.Errorf("cannot render %T as float", v)
	}
	return strconv.ParseFloat(s, 64)
}

// FloatLiteral renders floating point values in round-trip form.
// Exponent notation is forced so the engine types the literal as float.
func FloatLiteral(v any) (string, error) {
	f, err := Float(v)
	if err != nil {
		return "", err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("cannot render %v as a literal", f)
	}
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, "Ee") {
		s += "E0"
	}
	return s, nil
}

// Decimal converts a Go number or numeric string to a decimal.
func Decimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		return *n, nil
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	}
	s, err := IntegerLiteral(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot render %T as decimal", v)
	}
	return decimal.NewFromString(s)
}

// DecimalLiteral renders exact numeric values.
func DecimalLiteral(v any) (string, error) {
	d, err := Decimal(v)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// Bytes extracts a byte slice.
func Bytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case uuid.UUID:
		return b[:], nil
	}
	return nil, fmt.Errorf("cannot render %T as binary", v)
}

// Hex returns the upper-case hexadecimal form of b.
func Hex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// Guid converts a uuid, a canonical string or 16 bytes to a uuid.
func Guid(v any) (uuid.UUID, error) {
	switch g := v.(type) {
	case uuid.UUID:
		return g, nil
	case string:
		return uuid.Parse(g)
	case [16]byte:
		return uuid.UUID(g), nil
	case []byte:
		return uuid.FromBytes(g)
	}
	return uuid.Nil, fmt.Errorf("cannot render %T as guid", v)
}

// Time extracts a time value.
func Time(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		return *t, nil
	}
	return time.Time{}, fmt.Errorf("cannot render %T as a date", v)
}

// Duration extracts a duration value.
func Duration(v any) (time.Duration, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return 0, fmt.Errorf("cannot render %T as a time span", v)
	}
	return d, nil
}

// FormatTimeSpan renders d as [-][d.]hh:mm:ss.fffffff.
func FormatTimeSpan(d time.Duration, withDays bool) string {
	var sign string
	if d < 0 {
		sign = "-"
		d = -d
	}
	ticks := int64(d / 100)
	frac := ticks % 10_000_000
	secs := ticks / 10_000_000
	days := secs / 86400
	h := (secs % 86400) / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if !withDays {
		h += days * 24
		return fmt.Sprintf("%s%02d:%02d:%02d.%07d", sign, h, m, s, frac)
	}
	return fmt.Sprintf("%s%d %02d:%02d:%02d.%07d", sign, days, h, m, s, frac)
}

// KindOf infers the value kind of a Go value, for literals built without one.
func KindOf(v any) types.Kind {
	switch v.(type) {
	case bool:
		return types.KindBool
	case uint8:
		return types.KindByte
	case int8:
		return types.KindSByte
	case int16:
		return types.KindInt16
	case uint16:
		return types.KindUInt16
	case int32:
		return types.KindInt32
	case uint32:
		return types.KindUInt32
	case int, int64:
		return types.KindInt64
	case uint, uint64:
		return types.KindUInt64
	case float32:
		return types.KindSingle
	case float64:
		return types.KindDouble
	case decimal.Decimal, *decimal.Decimal:
		return types.KindDecimal
	case string:
		return types.KindString
	case []byte:
		return types.KindBytes
	case uuid.UUID:
		return types.KindGuid
	case time.Time, *time.Time:
		return types.KindDateTime
	case time.Duration:
		return types.KindTimeSpan
	}
	return types.KindUnknown
}
