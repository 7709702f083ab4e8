package dialectql

import "github.com/zoobzio/dialectql/internal/types"

// EntityState is the pending change a modification command applies.
type EntityState = types.EntityState

// Re-export entity states for public API.
const (
	Added    = types.Added
	Modified = types.Modified
	Deleted  = types.Deleted
)
