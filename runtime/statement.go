package runtime

import (
	"database/sql"
	"fmt"
)

// Database runs statements and queries. *sql.DB, *sql.Tx and *sql.Conn
// wrappers implementing the same methods satisfy it.
type Database interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
}

var (
	_ Database = (*sql.DB)(nil)
	_ Database = (*sql.Tx)(nil)
)

// Statement is a query with positional arguments. Positions are 1-based as
// in SQLite; unbound positions below the highest bound one are NULL.
type Statement struct {
	query string
	args  []any
}

// NewStatement returns a statement of query without arguments.
func NewStatement(query string) *Statement {
	return &Statement{query: query}
}

// Query returns the SQL text of the statement.
func (s *Statement) Query() string { return s.query }

// Args returns the bound arguments in position order.
func (s *Statement) Args() []any { return s.args }

func (s *Statement) bind(idx int, v any) {
	if idx < 1 {
		panic(fmt.Sprintf("runtime: bind position %d out of range", idx))
	}
	for len(s.args) < idx {
		s.args = append(s.args, nil)
	}
	s.args[idx-1] = v
}

// BindNull binds NULL at idx.
func (s *Statement) BindNull(idx int) { s.bind(idx, nil) }

// BindBool binds v as 0 or 1 at idx.
func (s *Statement) BindBool(idx int, v bool) { s.bind(idx, BoolInt(v)) }

// BindInt binds v at idx.
func (s *Statement) BindInt(idx int, v int) { s.bind(idx, int64(v)) }

// BindInt32 binds v at idx.
func (s *Statement) BindInt32(idx int, v int32) { s.bind(idx, int64(v)) }

// BindInt64 binds v at idx.
func (s *Statement) BindInt64(idx int, v int64) { s.bind(idx, v) }

// BindFloat32 binds v at idx.
func (s *Statement) BindFloat32(idx int, v float32) { s.bind(idx, float64(v)) }

// BindFloat64 binds v at idx.
func (s *Statement) BindFloat64(idx int, v float64) { s.bind(idx, v) }

// BindString binds v at idx.
func (s *Statement) BindString(idx int, v string) { s.bind(idx, v) }

// BindBytes binds v at idx. A nil slice binds NULL.
func (s *Statement) BindBytes(idx int, v []byte) {
	if v == nil {
		s.bind(idx, nil)
		return
	}
	s.bind(idx, v)
}

// BindOrNull binds *v with bind, or NULL when v is nil.
func BindOrNull[T any](s *Statement, bind func(int, T), idx int, v *T) {
	if v == nil {
		s.BindNull(idx)
		return
	}
	bind(idx, *v)
}

// Exec runs the statement on db.
func (s *Statement) Exec(db Database) (sql.Result, error) {
	res, err := db.Exec(s.query, s.args...)
	if err != nil {
		return nil, fmt.Errorf("runtime: exec %q: %w", s.query, err)
	}
	return res, nil
}

func (s *Statement) String() string {
	return fmt.Sprintf("%s %v", s.query, s.args)
}
