package render

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	BooleanType     bool // native boolean column type
	NativeBitwise   bool // & | ^ operators
	Top             bool // SELECT TOP(n)
	OffsetFetch     bool // OFFSET .. ROWS FETCH NEXT .. ROWS ONLY
	RowNumberPaging bool // offsets emulated with ROW_NUMBER()
	MultiRowValues  bool // INSERT ... VALUES (..), (..)
	Merge           bool // MERGE with OUTPUT into a table variable
	Returning       bool // OUTPUT INSERTED or RETURNING INTO
	Sequences       bool // sequence objects usable for hi-lo
	MaxParameters   int  // bound parameters per batch
}
