package dialectql

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dialectql/internal/types"
)

// TryP creates a parameter reference. The dialect adds its own prefix.
func TryP(name string, kind Kind) (Parameter, error) {
	if !isValidParamName(name) {
		return Parameter{}, fmt.Errorf("invalid parameter name '%s': must be alphanumeric with underscores, starting with letter", name)
	}
	return types.Parameter{Name: name, Kind: kind}, nil
}

// P creates a parameter reference. This is the primary way to reference
// user values in queries. Panics on invalid names.
func P(name string, kind Kind) Parameter {
	p, err := TryP(name, kind)
	if err != nil {
		panic(err)
	}
	return p
}

// Only allows alphanumeric characters and underscores, must start with letter.
func isValidParamName(name string) bool {
	if name == "" {
		return false
	}

	first := name[0]
	if !((first >= 'a' && first <= 'z') ||
		(first >= 'A' && first <= 'Z')) {
		return false
	}

	for i := 1; i < len(name); i++ {
		ch := name[i]
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '_') {
			return false
		}
	}

	// Reject SQL keywords that could be confusing
	lower := strings.ToLower(name)
	sqlKeywords := []string{
		"select", "insert", "update", "delete", "drop",
		"create", "alter", "table", "from", "where",
		"and", "or", "not", "null", "true", "false",
		"union", "join", "having", "group", "order",
	}
	for _, keyword := range sqlKeywords {
		if lower == keyword {
			return false
		}
	}

	return true
}
