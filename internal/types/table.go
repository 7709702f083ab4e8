package types

// Source is an entry of a Select's FROM list.
type Source interface {
	isSource()
}

// Table references a base table.
type Table struct {
	Schema string
	Name   string
	Alias  string
}

// Join joins a source to the preceding sources.
// On is ignored for cross joins and required otherwise.
type Join struct {
	Source Source
	On     Expression
	Kind   JoinKind
}

func (Table) isSource()   {}
func (Join) isSource()    {}
func (*Select) isSource() {}
