package types

// QueryResult contains the rendered SQL and the bound parameter names
// in order of first use.
type QueryResult struct {
	SQL        string
	Parameters []string
}
