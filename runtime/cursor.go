package runtime

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Cursor iterates over the rows of a query result. The rows are read into
// memory when the cursor is created, so that loading a row may run further
// queries on the same connection.
type Cursor struct {
	columns []string
	index   map[string]int
	rows    [][]any
	pos     int
}

// NewCursor reads and closes rows.
func NewCursor(rows *sql.Rows) (*Cursor, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("runtime: read columns: %w", err)
	}
	c := &Cursor{columns: cols, index: make(map[string]int, len(cols)), pos: -1}
	for i, name := range cols {
		if _, ok := c.index[name]; !ok {
			c.index[name] = i
		}
	}
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("runtime: scan row: %w", err)
		}
		c.rows = append(c.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runtime: read rows: %w", err)
	}
	return c, nil
}

// NewCursorFromRows returns a cursor over in-memory rows.
func NewCursorFromRows(columns []string, rows ...[]any) *Cursor {
	c := &Cursor{columns: columns, index: make(map[string]int, len(columns)), rows: rows, pos: -1}
	for i, name := range columns {
		if _, ok := c.index[name]; !ok {
			c.index[name] = i
		}
	}
	return c
}

// Next moves to the next row and reports if there is one.
func (c *Cursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}
	c.pos++
	return true
}

// Len returns the number of rows.
func (c *Cursor) Len() int { return len(c.rows) }

// Columns returns the column names of the result.
func (c *Cursor) Columns() []string { return c.columns }

// GetColumnIndex returns the position of the named column, or -1.
func (c *Cursor) GetColumnIndex(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

func (c *Cursor) value(idx int) any {
	if c.pos < 0 || c.pos >= len(c.rows) {
		panic("runtime: cursor is not on a row")
	}
	row := c.rows[c.pos]
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// IsNull reports if the value at idx is NULL or idx is out of range.
func (c *Cursor) IsNull(idx int) bool {
	return c.value(idx) == nil
}

// GetInt64 returns the value at idx as an integer. NULL reads as 0.
func (c *Cursor) GetInt64(idx int) int64 {
	switch v := c.value(idx).(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case bool:
		return BoolInt(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// GetInt returns the value at idx as an int.
func (c *Cursor) GetInt(idx int) int { return int(c.GetInt64(idx)) }

// GetInt32 returns the value at idx as an int32.
func (c *Cursor) GetInt32(idx int) int32 { return int32(c.GetInt64(idx)) }

// GetBool returns if the value at idx is a non-zero integer.
func (c *Cursor) GetBool(idx int) bool {
	if v, ok := c.value(idx).(bool); ok {
		return v
	}
	return c.GetInt64(idx) != 0
}

// GetFloat64 returns the value at idx as a float. NULL reads as 0.
func (c *Cursor) GetFloat64(idx int) float64 {
	switch v := c.value(idx).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// GetFloat32 returns the value at idx as a float32.
func (c *Cursor) GetFloat32(idx int) float32 { return float32(c.GetFloat64(idx)) }

// GetString returns the value at idx as text. NULL reads as "".
func (c *Cursor) GetString(idx int) string {
	switch v := c.value(idx).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// GetBytes returns the value at idx as bytes. NULL reads as nil.
func (c *Cursor) GetBytes(idx int) []byte {
	switch v := c.value(idx).(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	case nil:
		return nil
	default:
		return []byte(c.GetString(idx))
	}
}

// ValueOrDefault reads the value at idx with get, or returns def when the
// column is missing or NULL.
func ValueOrDefault[T any](c *Cursor, idx int, get func(int) T, def T) T {
	if idx == -1 || c.IsNull(idx) {
		return def
	}
	return get(idx)
}

// PtrOrDefault is ValueOrDefault for pointer fields.
func PtrOrDefault[T any](c *Cursor, idx int, get func(int) T, def *T) *T {
	if idx == -1 || c.IsNull(idx) {
		return def
	}
	v := get(idx)
	return &v
}
