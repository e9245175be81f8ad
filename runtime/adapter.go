package runtime

import (
	"errors"
	"fmt"
)

// ErrNoAutoIncrement is returned when an insert reports no row id.
var ErrNoAutoIncrement = errors.New("runtime: no row id")

// Table is implemented by every generated adapter.
type Table interface {
	TableName() string
}

// QueryAdapter reads models of type T from query results.
type QueryAdapter[T any] interface {
	Table
	NewInstance() *T
	LoadFromCursor(cursor *Cursor, model *T, db Database) error
}

// ModelAdapter stores models of type T in their table.
type ModelAdapter[T any] interface {
	QueryAdapter[T]
	InsertStatementQuery() string
	UpdateStatementQuery() string
	DeleteStatementQuery() string
	BindToInsertStatement(stmt *Statement, model *T, start int)
	BindToUpdateStatement(stmt *Statement, model *T)
	BindToDeleteStatement(stmt *Statement, model *T)
	PrimaryConditionClause(model *T) *OperatorGroup
	Exists(model *T, db Database) (bool, error)
	SaveForeignKeys(model *T, db Database) error
	DeleteForeignKeys(model *T, db Database) error
	UpdateAutoIncrement(model *T, id int64)
}

func selectQuery(table string, clause *OperatorGroup, suffix string) (string, []any) {
	where, args := clause.SQL()
	return fmt.Sprintf("SELECT * FROM %s WHERE %s%s", quote(table), where, suffix), args
}

// Select returns the models of the rows matching clause.
func Select[T any](db Database, adapter QueryAdapter[T], clause *OperatorGroup) ([]*T, error) {
	query, args := selectQuery(adapter.TableName(), clause, "")
	cursor, err := open(db, adapter.TableName(), "select", query, args)
	if err != nil {
		return nil, err
	}
	models := make([]*T, 0, cursor.Len())
	for cursor.Next() {
		m := adapter.NewInstance()
		if err := adapter.LoadFromCursor(cursor, m, db); err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// QuerySingle returns the model of the first row matching clause, or nil
// when no row matches.
func QuerySingle[T any](db Database, adapter QueryAdapter[T], clause *OperatorGroup) (*T, error) {
	query, args := selectQuery(adapter.TableName(), clause, " LIMIT 1")
	cursor, err := open(db, adapter.TableName(), "select", query, args)
	if err != nil {
		return nil, err
	}
	if !cursor.Next() {
		return nil, nil
	}
	m := adapter.NewInstance()
	if err := adapter.LoadFromCursor(cursor, m, db); err != nil {
		return nil, err
	}
	return m, nil
}

// Count returns the number of rows of the table matching clause.
func Count(db Database, t Table, clause *OperatorGroup) (int64, error) {
	where, args := clause.SQL()
	cursor, err := open(db, t.TableName(), "count", fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quote(t.TableName()), where), args)
	if err != nil {
		return 0, err
	}
	if !cursor.Next() {
		return 0, nil
	}
	return cursor.GetInt64(0), nil
}

func open(db Database, table, op, query string, args []any) (*Cursor, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, newQueryError(table, op, err)
	}
	cursor, err := NewCursor(rows)
	return cursor, newQueryError(table, op, err)
}

// Save inserts or updates m. The related models declared for save
// cascading are saved first. An insert assigns the row id to the
// auto-increment field of m.
func Save[T any](db Database, adapter ModelAdapter[T], m *T) error {
	if m == nil {
		return fmt.Errorf("runtime: save %s: nil model", adapter.TableName())
	}
	if err := adapter.SaveForeignKeys(m, db); err != nil {
		return err
	}
	exists, err := adapter.Exists(m, db)
	if err != nil {
		return err
	}
	if exists {
		stmt := NewStatement(adapter.UpdateStatementQuery())
		adapter.BindToUpdateStatement(stmt, m)
		_, err := stmt.Exec(db)
		return newQueryError(adapter.TableName(), "update", err)
	}
	return Insert(db, adapter, m)
}

// Insert inserts m without checking for an existing row.
func Insert[T any](db Database, adapter ModelAdapter[T], m *T) error {
	stmt := NewStatement(adapter.InsertStatementQuery())
	adapter.BindToInsertStatement(stmt, m, 1)
	res, err := stmt.Exec(db)
	if err != nil {
		return newQueryError(adapter.TableName(), "insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoAutoIncrement, err)
	}
	adapter.UpdateAutoIncrement(m, id)
	return nil
}

// Delete deletes the row of m, then the related models declared for delete
// cascading.
func Delete[T any](db Database, adapter ModelAdapter[T], m *T) error {
	if m == nil {
		return fmt.Errorf("runtime: delete %s: nil model", adapter.TableName())
	}
	stmt := NewStatement(adapter.DeleteStatementQuery())
	adapter.BindToDeleteStatement(stmt, m)
	if _, err := stmt.Exec(db); err != nil {
		return newQueryError(adapter.TableName(), "delete", err)
	}
	return adapter.DeleteForeignKeys(m, db)
}

// Migrate runs the creation statements in order.
func Migrate(db Database, statements []string) error {
	for _, s := range statements {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("runtime: migrate %q: %w", s, err)
		}
	}
	return nil
}
