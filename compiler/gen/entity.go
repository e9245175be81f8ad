package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/load"
	"github.com/syssam/litegen/schema/field"
)

// UniqueGroup is a table-level UNIQUE constraint.
type UniqueGroup struct {
	Number   int
	Conflict string
}

// IndexGroup is an index over the columns of the fields joining it.
type IndexGroup struct {
	Number int
	Name   string
	Unique bool
}

// Entity is an annotated model mapped to a table, a view, a query result or
// a column map. It is built once when the graph is created and never
// changed after resolution.
type Entity struct {
	Name               string
	Table              string
	Kind               load.Kind
	PkgPath            string
	Database           string
	PrimaryKeyConflict string
	InsertConflict     string
	UpdateConflict     string
	Ordered            bool // cursor columns are read by position
	AssignDefaults     bool
	BooleanIsGetters   bool
	UniqueGroups       []UniqueGroup
	IndexGroups        []IndexGroup
	Columns            []*Column
	Pos                string

	graph    *Graph
	physical []PhysicalColumn
}

// PhysicalColumn is one column of the table of an entity.
type PhysicalColumn struct {
	Name     string
	Field    *Column              // declaring column
	Def      *ReferenceDefinition // nil for plain columns
	Combiner Combiner
}

// PropertyName returns the name of the query property of the column.
func (p PhysicalColumn) PropertyName() string { return pascal(p.Name) }

// Type returns the TypeInfo of the model, without pointer.
func (e *Entity) Type() field.TypeInfo {
	return field.TypeInfo{Type: field.TypeModel, Ident: e.Name, PkgPath: e.PkgPath}
}

// TypeCode returns the Go type of the model.
func (e *Entity) TypeCode() *jen.Statement {
	return jen.Qual(e.PkgPath, e.Name)
}

// HasTable reports if the entity is stored in its own table.
func (e *Entity) HasTable() bool { return e.Kind == load.KindTable }

// HasAdapter reports if an adapter is generated for the entity. Column maps
// are loaded inline by the entities embedding them.
func (e *Entity) HasAdapter() bool { return e.Kind != load.KindColumnMap }

// AdapterName returns the name of the generated adapter type.
func (e *Entity) AdapterName() string { return e.Name + "Adapter" }

// AdapterVar returns the name of the package variable holding the adapter.
func (e *Entity) AdapterVar() string { return plural(e.Name) }

// TableVar returns the name of the package variable holding the query
// properties of the table.
func (e *Entity) TableVar() string { return e.Name + "Table" }

// Column returns the declared column with the given property name.
func (e *Entity) Column(name string) *Column {
	for _, c := range e.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PrimaryColumns returns the declared primary-key columns in declaration order.
func (e *Entity) PrimaryColumns() []*Column {
	var cols []*Column
	for _, c := range e.Columns {
		if c.ColumnType.IsPrimary() {
			cols = append(cols, c)
		}
	}
	return cols
}

// AutoIncrementColumn returns the column SQLite assigns, or nil.
func (e *Entity) AutoIncrementColumn() *Column {
	for _, c := range e.Columns {
		if c.ColumnType.IsAuto() {
			return c
		}
	}
	return nil
}

// References returns the relationship columns of the entity.
func (e *Entity) References() []*Column {
	var cols []*Column
	for _, c := range e.Columns {
		if c.Reference != nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// Converters returns the converters used by the columns of the entity,
// including those of referenced keys, ordered by first use.
func (e *Entity) Converters() []*Converter {
	var convs []*Converter
	add := func(c *Converter) {
		if c != nil && !slices.Contains(convs, c) {
			convs = append(convs, c)
		}
	}
	for _, p := range e.PhysicalColumns() {
		if p.Def != nil {
			add(p.Def.Converter)
		} else {
			add(p.Field.Converter)
		}
	}
	return convs
}

// PhysicalColumns returns the columns of the table in declaration order,
// with the resolved columns of every reference in place of its field.
func (e *Entity) PhysicalColumns() []PhysicalColumn {
	return e.physical
}

// resolvePhysical computes the physical columns once all references of the
// entity are resolved.
func (e *Entity) resolvePhysical() {
	e.physical = e.physical[:0]
	for _, c := range e.Columns {
		if c.Reference == nil {
			e.physical = append(e.physical, PhysicalColumn{Name: c.Column, Field: c, Combiner: c.Combiner})
			continue
		}
		defs, err := e.graph.References(c.Reference)
		if err != nil {
			continue
		}
		for _, d := range defs {
			e.physical = append(e.physical, PhysicalColumn{Name: d.Column, Field: c, Def: d, Combiner: d.Combiner})
		}
	}
}

// ColumnNames returns the names of the physical columns.
func (e *Entity) ColumnNames() []string {
	names := make([]string, len(e.physical))
	for i, p := range e.physical {
		names[i] = p.Name
	}
	return names
}

// insertColumns returns the physical columns written by INSERT.
func (e *Entity) insertColumns() []PhysicalColumn {
	var cols []PhysicalColumn
	for _, p := range e.physical {
		if p.Def == nil && p.Field.ColumnType.IsAuto() {
			continue
		}
		cols = append(cols, p)
	}
	return cols
}

// primaryPhysical returns the physical columns of the primary key.
func (e *Entity) primaryPhysical() []PhysicalColumn {
	var cols []PhysicalColumn
	for _, p := range e.physical {
		if p.Field.ColumnType.IsPrimary() {
			cols = append(cols, p)
		}
	}
	return cols
}

func names(cols []PhysicalColumn) []string {
	ns := make([]string, len(cols))
	for i, c := range cols {
		ns[i] = c.Name
	}
	return ns
}

// CreationQuery returns the CREATE TABLE statement of the entity, or an
// empty string for entities without a table.
func (e *Entity) CreationQuery() string {
	if !e.HasTable() {
		return ""
	}
	var defs []string
	for _, p := range e.physical {
		if p.Def != nil {
			defs = append(defs, p.Def.CreationFragment())
		} else {
			defs = append(defs, p.Field.CreationFragment())
		}
	}
	for _, u := range e.UniqueGroups {
		cols := e.groupColumns(func(c *Column) []int { return c.UniqueGroups }, u.Number)
		if len(cols) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "UNIQUE(%s)", quoteAll(cols))
		writeConflict(&b, u.Conflict)
		defs = append(defs, b.String())
	}
	var plain []string
	for _, p := range e.primaryPhysical() {
		if p.Def != nil || p.Field.ColumnType == ColumnPrimary {
			plain = append(plain, p.Name)
		}
	}
	if len(plain) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "PRIMARY KEY(%s)", quoteAll(plain))
		writeConflict(&b, keyword(e.PrimaryKeyConflict))
		defs = append(defs, b.String())
	}
	if e.graph == nil || e.graph.Config.HasFeature(FeatureForeignKeys) {
		for _, c := range e.References() {
			if fk := e.foreignKeyConstraint(c); fk != "" {
				defs = append(defs, fk)
			}
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(%s)", quote(e.Table), strings.Join(defs, ", "))
}

// foreignKeyConstraint returns the FOREIGN KEY clause of a reference column.
func (e *Entity) foreignKeyConstraint(c *Column) string {
	r := c.Reference
	if r.Kind != RelationForeignKey {
		return ""
	}
	defs, err := e.graph.References(r)
	if err != nil || len(defs) == 0 {
		return ""
	}
	local := make([]string, len(defs))
	remote := make([]string, len(defs))
	for i, d := range defs {
		local[i] = d.Column
		remote[i] = d.ReferencedColumn
	}
	var b strings.Builder
	fmt.Fprintf(&b, "FOREIGN KEY(%s) REFERENCES %s(%s) ON UPDATE %s ON DELETE %s",
		quoteAll(local), quote(e.graph.Entity(r.Target).Table), quoteAll(remote), r.OnUpdate, r.OnDelete)
	if r.Deferred {
		b.WriteString(" DEFERRABLE INITIALLY DEFERRED")
	}
	return b.String()
}

// groupColumns returns the physical columns of the fields in group number n.
func (e *Entity) groupColumns(groups func(*Column) []int, n int) []string {
	var cols []string
	for _, p := range e.physical {
		if slices.Contains(groups(p.Field), n) {
			cols = append(cols, p.Name)
		}
	}
	return cols
}

// IndexQueries returns the CREATE INDEX statements of the index groups.
func (e *Entity) IndexQueries() []string {
	if !e.HasTable() {
		return nil
	}
	var qs []string
	for _, ig := range e.IndexGroups {
		cols := e.groupColumns(func(c *Column) []int { return c.IndexGroups }, ig.Number)
		if len(cols) == 0 {
			continue
		}
		unique := ""
		if ig.Unique {
			unique = "UNIQUE "
		}
		qs = append(qs, fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s(%s)", unique, quote(ig.Name), quote(e.Table), quoteAll(cols)))
	}
	return qs
}

// InsertQuery returns the INSERT statement binding every column SQLite does
// not assign, in physical order.
func (e *Entity) InsertQuery() string {
	cols := e.insertColumns()
	verb := "INSERT"
	if c := keyword(e.InsertConflict); c != "" {
		verb += " OR " + c
	}
	if len(cols) == 0 {
		return fmt.Sprintf("%s INTO %s DEFAULT VALUES", verb, quote(e.Table))
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	return fmt.Sprintf("%s INTO %s(%s) VALUES (%s)", verb, quote(e.Table), quoteAll(names(cols)), marks)
}

// UpdateQuery returns the UPDATE statement setting every column, followed
// by the primary-key condition.
func (e *Entity) UpdateQuery() string {
	verb := "UPDATE"
	if c := keyword(e.UpdateConflict); c != "" {
		verb += " OR " + c
	}
	sets := make([]string, len(e.physical))
	for i, p := range e.physical {
		sets[i] = quote(p.Name) + "=?"
	}
	return fmt.Sprintf("%s %s SET %s WHERE %s", verb, quote(e.Table), strings.Join(sets, ","), e.primaryCondition())
}

// DeleteQuery returns the DELETE statement of one row by primary key.
func (e *Entity) DeleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", quote(e.Table), e.primaryCondition())
}

func (e *Entity) primaryCondition() string {
	pk := e.primaryPhysical()
	conds := make([]string, len(pk))
	for i, p := range pk {
		conds[i] = quote(p.Name) + "=?"
	}
	return strings.Join(conds, " AND ")
}

// validate reports the structural problems of a resolved entity.
func (e *Entity) validate() {
	g := e.graph
	seen := make(map[string]bool, len(e.physical))
	for _, p := range e.physical {
		if seen[p.Name] {
			g.report(p.Field.validationError(fmt.Sprintf("duplicate column %q", p.Name), nil))
		}
		seen[p.Name] = true
	}
	if e.Kind == load.KindColumnMap {
		for _, c := range e.Columns {
			if c.ColumnType.IsPrimary() {
				g.report(c.validationError("column maps have no primary key", nil))
			}
		}
		return
	}
	if !e.HasTable() {
		return
	}
	pk := e.PrimaryColumns()
	if len(pk) == 0 {
		err := NewValidationError(e.Name, "", nil, "table has no primary key")
		err.Pos = e.Pos
		g.report(err)
	}
	var autos int
	for _, c := range pk {
		if !c.ColumnType.IsAuto() {
			continue
		}
		autos++
		if c.Reference != nil || c.Converter != nil || !c.Type.Type.Integer() || c.Type.Type == field.TypeBool || c.Type.Type == field.TypeByte {
			g.report(c.validationError(fmt.Sprintf("%s columns must be integer fields without converter", c.ColumnType), c.Type.Type))
		}
	}
	if autos > 0 && len(pk) > 1 {
		g.report(pk[0].validationError("an auto-increment or row id column must be the only primary key column", nil))
	}
	groups := func(declared []int, used func(*Column) []int, kind string) {
		for _, c := range e.Columns {
			for _, n := range used(c) {
				if !slices.Contains(declared, n) {
					g.report(c.validationError(fmt.Sprintf("%s group %d is not declared", kind, n), nil))
				}
			}
		}
	}
	uniques := make([]int, len(e.UniqueGroups))
	for i, u := range e.UniqueGroups {
		uniques[i] = u.Number
	}
	indexes := make([]int, len(e.IndexGroups))
	for i, ig := range e.IndexGroups {
		indexes[i] = ig.Number
	}
	groups(uniques, func(c *Column) []int { return c.UniqueGroups }, "unique")
	groups(indexes, func(c *Column) []int { return c.IndexGroups }, "index")
}
