package oracle

import "github.com/zoobzio/dialectql/annotations"

// Prefix is the annotation namespace of the dialect.
const Prefix = "Oracle"

// Value generation strategies.
const (
	IdentityColumn = "IdentityColumn"
	SequenceHiLo   = "SequenceHiLo"
)

// DefaultHiLoSequenceName is the sequence used when none is configured.
const DefaultHiLoSequenceName = "EntityFrameworkHiLoSequence"

// Well-known Oracle annotations.
var (
	// ValueGenerationStrategy set to SequenceHiLo marks a key the client
	// assigns from a hi-lo sequence before inserting.
	ValueGenerationStrategy = annotations.Key[string]{Name: Prefix + ":ValueGenerationStrategy"}
	HiLoSequenceName        = annotations.Key[string]{Name: Prefix + ":HiLoSequenceName", Default: DefaultHiLoSequenceName}
	HiLoSequenceSchema      = annotations.Key[string]{Name: Prefix + ":HiLoSequenceSchema"}
)
