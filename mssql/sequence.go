package mssql

import (
	"github.com/zoobzio/dialectql/annotations"
	"github.com/zoobzio/dialectql/hilo"
	"github.com/zoobzio/dialectql/update"
)

var syntax = update.Syntax{QuoteIdentifier: quoteIdentifier, ParameterPrefix: "@"}

// NextSequenceValueSQL returns the query that reads the next value of a
// sequence.
func NextSequenceValueSQL(name, schema string) string {
	return "SELECT NEXT VALUE FOR " + syntax.Table(name, schema)
}

// SequenceSource reads hi-lo blocks from a sequence.
func SequenceSource(db hilo.QueryRower, name, schema string) *hilo.SQLSource {
	return &hilo.SQLSource{DB: db, Query: NextSequenceValueSQL(name, schema)}
}

// HiLoSequence returns the sequence configured on an entity or property,
// falling back to the default sequence.
func HiLoSequence(a *annotations.Store) (name, schema string) {
	return HiLoSequenceName.Get(a), HiLoSequenceSchema.Get(a)
}
