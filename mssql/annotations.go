package mssql

import "github.com/zoobzio/dialectql/annotations"

// Prefix is the annotation namespace of the dialect.
const Prefix = "SqlServer"

// Value generation strategies.
const (
	IdentityColumn = "IdentityColumn"
	SequenceHiLo   = "SequenceHiLo"
)

// DefaultHiLoSequenceName is the sequence used when none is configured.
const DefaultHiLoSequenceName = "EntityFrameworkHiLoSequence"

// Well-known SQL Server annotations.
var (
	// MemoryOptimized marks a table as memory-optimized. Such tables
	// cannot OUTPUT into a table variable, so bulk inserts run row by row.
	MemoryOptimized = annotations.Key[bool]{Name: Prefix + ":MemoryOptimized"}

	ValueGenerationStrategy = annotations.Key[string]{Name: Prefix + ":ValueGenerationStrategy"}
	HiLoSequenceName        = annotations.Key[string]{Name: Prefix + ":HiLoSequenceName", Default: DefaultHiLoSequenceName}
	HiLoSequenceSchema      = annotations.Key[string]{Name: Prefix + ":HiLoSequenceSchema"}

	// ColumnType overrides the store type chosen by the type mapper.
	ColumnType = annotations.Key[string]{Name: Prefix + ":ColumnType"}
)
