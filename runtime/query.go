package runtime

import (
	"strings"
)

// Property is a column of a table usable in query conditions.
type Property struct {
	Table  string
	Column string
	// Inverted is set on properties compared with the storage value of a
	// converted field rather than the model value.
	Inverted bool
}

// NewProperty returns the property of column in table.
func NewProperty(table, column string) Property {
	return Property{Table: table, Column: column}
}

// InvertProperty returns the property compared by storage value.
func (p Property) InvertProperty() Property {
	p.Inverted = true
	return p
}

// Name returns the qualified, quoted name of the column.
func (p Property) Name() string {
	if p.Table == "" {
		return quote(p.Column)
	}
	return quote(p.Table) + "." + quote(p.Column)
}

// Eq returns the condition column = v. A nil v compares with IS NULL.
func (p Property) Eq(v any) Condition {
	return Condition{Property: p, Op: "=", Value: normalize(v)}
}

// NotEq returns the condition column != v. A nil v compares with IS NOT NULL.
func (p Property) NotEq(v any) Condition {
	return Condition{Property: p, Op: "!=", Value: normalize(v)}
}

// GT returns the condition column > v.
func (p Property) GT(v any) Condition {
	return Condition{Property: p, Op: ">", Value: normalize(v)}
}

// LT returns the condition column < v.
func (p Property) LT(v any) Condition {
	return Condition{Property: p, Op: "<", Value: normalize(v)}
}

// Like returns the condition column LIKE pattern.
func (p Property) Like(pattern string) Condition {
	return Condition{Property: p, Op: "LIKE", Value: pattern}
}

// Condition compares a property with a value.
type Condition struct {
	Property Property
	Op       string
	Value    any
}

// SQL returns the condition text and its arguments.
func (c Condition) SQL() (string, []any) {
	if c.Value == nil {
		switch c.Op {
		case "=":
			return c.Property.Name() + " IS NULL", nil
		case "!=":
			return c.Property.Name() + " IS NOT NULL", nil
		}
	}
	return c.Property.Name() + " " + c.Op + " ?", []any{c.Value}
}

// OperatorGroup joins conditions with AND.
type OperatorGroup struct {
	conds []Condition
}

// Clause returns an empty group.
func Clause() *OperatorGroup {
	return &OperatorGroup{}
}

// And appends c to the group.
func (g *OperatorGroup) And(c Condition) *OperatorGroup {
	g.conds = append(g.conds, c)
	return g
}

// Len returns the number of conditions.
func (g *OperatorGroup) Len() int { return len(g.conds) }

// SQL returns the WHERE expression of the group and its arguments. An
// empty group matches every row.
func (g *OperatorGroup) SQL() (string, []any) {
	if g == nil || len(g.conds) == 0 {
		return "1", nil
	}
	var (
		parts []string
		args  []any
	)
	for _, c := range g.conds {
		s, a := c.SQL()
		parts = append(parts, s)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args
}
