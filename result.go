package dialectql

import "github.com/zoobzio/dialectql/internal/types"

// ResultSetMapping describes the result set produced by a rendered command.
type ResultSetMapping = types.ResultSetMapping

// Re-export result set mappings for public API.
const (
	NoResultSet        = types.NoResultSet
	NotLastInResultSet = types.NotLastInResultSet
	LastInResultSet    = types.LastInResultSet
)

// ColumnModification is one mutation to one column of one row.
type ColumnModification = types.ColumnModification

// ModificationCommand is the ordered set of column modifications for one row.
type ModificationCommand = types.ModificationCommand
