package runtime

import (
	"fmt"
	"slices"
	"strings"
)

// ContentValues is an ordered set of column values. Keys keep the order of
// their first Put.
type ContentValues struct {
	keys   []string
	values map[string]any
}

// NewContentValues returns an empty set.
func NewContentValues() *ContentValues {
	return &ContentValues{values: make(map[string]any)}
}

// Put sets the value of a column. Booleans are stored as integers.
func (c *ContentValues) Put(key string, v any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = normalize(v)
}

// PutNull sets a column to NULL.
func (c *ContentValues) PutNull(key string) {
	c.Put(key, nil)
}

// Get returns the value of a column and whether it is set.
func (c *ContentValues) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// IsNull reports if the column is set to NULL.
func (c *ContentValues) IsNull(key string) bool {
	v, ok := c.values[key]
	return ok && v == nil
}

// Keys returns the columns in insertion order.
func (c *ContentValues) Keys() []string {
	return slices.Clone(c.keys)
}

// Len returns the number of columns set.
func (c *ContentValues) Len() int { return len(c.keys) }

// Insert returns an INSERT statement of the values into table.
func (c *ContentValues) Insert(table string) *Statement {
	cols := make([]string, len(c.keys))
	for i, k := range c.keys {
		cols[i] = quote(k)
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	stmt := NewStatement(fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)", quote(table), strings.Join(cols, ","), marks))
	for i, k := range c.keys {
		stmt.bind(i+1, c.values[k])
	}
	return stmt
}

func (c *ContentValues) String() string {
	var b strings.Builder
	for i, k := range c.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, c.values[k])
	}
	return b.String()
}

func quote(name string) string {
	return "`" + name + "`"
}
