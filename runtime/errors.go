package runtime

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConstraint is matched by errors of statements violating a NOT NULL,
// UNIQUE, PRIMARY KEY or FOREIGN KEY constraint.
var ErrConstraint = errors.New("runtime: constraint failed")

// QueryError wraps the error of a statement run on a table.
type QueryError struct {
	Table string
	Op    string // "select", "count", "insert", "update" or "delete"
	Err   error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("runtime: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports constraint violations as ErrConstraint.
func (e *QueryError) Is(target error) bool {
	return target == ErrConstraint && strings.Contains(e.Err.Error(), "constraint failed")
}

// newQueryError returns nil for a nil err.
func newQueryError(table, op string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Table: table, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	var e *QueryError
	return errors.As(err, &e)
}

// IsConstraintError returns true if err reports a constraint violation.
func IsConstraintError(err error) bool {
	return errors.Is(err, ErrConstraint)
}
