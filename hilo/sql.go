package hilo

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryRower is the part of *sql.DB, *sql.Conn and *sql.Tx a SQLSource uses.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLSource reserves blocks by running a dialect's next-sequence-value query.
type SQLSource struct {
	DB    QueryRower
	Query string
}

// NextBlock runs the query and scans the single value it returns.
func (s SQLSource) NextBlock(ctx context.Context) (int64, error) {
	var v int64
	if err := s.DB.QueryRowContext(ctx, s.Query).Scan(&v); err != nil {
		return 0, fmt.Errorf("%s: %w", s.Query, err)
	}
	return v, nil
}
