package gen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/load"
	"github.com/syssam/litegen/schema/field"
)

// RelationKind is the kind of a relationship column.
type RelationKind uint8

// Relationship kinds.
const (
	// RelationForeignKey references the primary key (or explicit columns) of
	// another table and emits a FOREIGN KEY constraint.
	RelationForeignKey RelationKind = iota
	// RelationColumnMap embeds the columns of a value object into the table.
	RelationColumnMap
)

func (k RelationKind) String() string {
	if k == RelationColumnMap {
		return "column_map"
	}
	return "foreign_key"
}

// ReferenceSpec is one declared (local column, referenced column) pair.
type ReferenceSpec struct {
	Column       string
	Referenced   string
	NotNull      bool
	NullConflict string
	Default      string
	Converter    string
}

// Reference is the relationship of a column to another entity. Its physical
// columns are resolved by the graph on first use and memoized.
type Reference struct {
	id            int
	Kind          RelationKind
	Field         *Column // relationship column
	Target        string  // referenced entity name
	Specs         []ReferenceSpec
	Stubbed       bool
	OnUpdate      string
	OnDelete      string
	Deferred      bool
	SaveCascade   bool
	DeleteCascade bool
}

// NewForeignKey returns a foreign-key reference of field to the entity target.
func NewForeignKey(f *Column, target string, specs ...ReferenceSpec) *Reference {
	return &Reference{
		Kind:     RelationForeignKey,
		Field:    f,
		Target:   target,
		Specs:    specs,
		OnUpdate: "NO ACTION",
		OnDelete: "NO ACTION",
	}
}

// NewColumnMap returns a column-map reference of field to the value
// object target. Column maps are always loaded as stubs.
func NewColumnMap(f *Column, target string, specs ...ReferenceSpec) *Reference {
	return &Reference{
		Kind:    RelationColumnMap,
		Field:   f,
		Target:  target,
		Specs:   specs,
		Stubbed: true,
	}
}

func newReference(f *Column, d *load.Reference) *Reference {
	specs := make([]ReferenceSpec, len(d.References))
	for i, s := range d.References {
		specs[i] = ReferenceSpec{
			Column:       s.Column,
			Referenced:   s.Referenced,
			NotNull:      s.NotNull,
			NullConflict: keyword(s.NullConflict),
			Default:      s.Default,
			Converter:    s.Converter,
		}
	}
	if d.RelationKind() == load.RelationColumnMap {
		return NewColumnMap(f, d.Entity, specs...)
	}
	r := NewForeignKey(f, d.Entity, specs...)
	r.Stubbed = d.Stubbed
	if a := keyword(d.OnUpdate); a != "" {
		r.OnUpdate = a
	}
	if a := keyword(d.OnDelete); a != "" {
		r.OnDelete = a
	}
	r.Deferred = d.Deferred
	r.SaveCascade = d.SaveCascade
	r.DeleteCascade = d.DeleteCascade
	return r
}

// ReferenceDefinition is one physical column of a resolved reference. It
// mirrors a scalar column (Leaf) of the referenced entity, reached from the
// relationship value through Path when the referenced key is itself a
// reference.
type ReferenceDefinition struct {
	Column           string // local physical column
	ReferencedColumn string // physical column of the referenced table
	Leaf             *Column
	Path             []*Column // relationship columns between the value and the leaf owner
	NotNull          bool
	NullConflict     string
	Default          string
	Converter        *Converter
	Combiner         Combiner
}

// Type returns the type of the leaf field.
func (d *ReferenceDefinition) Type() field.TypeInfo { return d.Leaf.Type }

// SQLType returns the type of the physical column.
func (d *ReferenceDefinition) SQLType() string {
	return Affinity(d.Combiner.StorageType().Type)
}

// CreationFragment returns the definition of the column in a CREATE TABLE
// statement.
func (d *ReferenceDefinition) CreationFragment() string {
	var b strings.Builder
	b.WriteString(quote(d.Column))
	b.WriteByte(' ')
	b.WriteString(d.SQLType())
	if sql, ok := goLiteralToSQL(d.Default); ok {
		b.WriteString(" DEFAULT ")
		b.WriteString(sql)
	}
	if d.NotNull {
		b.WriteString(" NOT NULL")
		writeConflict(&b, d.NullConflict)
	}
	return b.String()
}

// Owner returns the expression of the object holding the leaf field, for
// the model expression model.
func (d *ReferenceDefinition) Owner(f *Column, model jen.Code) *jen.Statement {
	owner := AccessGet(f.Accessor, model)
	for _, p := range d.Path {
		owner = AccessGet(p.Accessor, owner)
	}
	return owner
}

// Guards returns the pointer expressions that must be non-nil before the
// leaf field can be read, outermost first.
func (d *ReferenceDefinition) Guards(f *Column, model jen.Code) []jen.Code {
	var guards []jen.Code
	owner := AccessGet(f.Accessor, model)
	if f.Nillable() {
		guards = append(guards, owner)
	}
	for _, p := range d.Path {
		owner = AccessGet(p.Accessor, owner)
		if p.Nillable() {
			guards = append(guards, owner)
		}
	}
	return guards
}

// LoadDefault returns the value assigned when the column is NULL.
func (d *ReferenceDefinition) LoadDefault() *jen.Statement {
	return loadDefault(d.Leaf.Type, d.Default, d.Combiner)
}

// StoreDefault returns the storage value written for a nil leaf pointer.
func (d *ReferenceDefinition) StoreDefault() jen.Code {
	return storeDefault(d.Leaf.Type, d.Default, d.Combiner)
}

// resolution states of a reference.
type refState uint8

const (
	refUnresolved refState = iota
	refResolving
	refResolved
	refFailed
)

// refSlot is the arena entry of one reference.
type refSlot struct {
	ref   *Reference
	state refState
	defs  []*ReferenceDefinition
	err   error
}

// register adds r to the arena of the graph.
func (g *Graph) register(r *Reference) {
	r.id = len(g.refs)
	g.refs = append(g.refs, &refSlot{ref: r})
}

// References returns the physical columns of r, resolving them on first use.
// Resolution runs once per reference; later calls return the memoized
// result. A reference reached again while it is being resolved is circular.
func (g *Graph) References(r *Reference) ([]*ReferenceDefinition, error) {
	slot := g.refs[r.id]
	switch slot.state {
	case refResolved:
		return slot.defs, nil
	case refFailed:
		return nil, slot.err
	case refResolving:
		return nil, g.refError(r, "reference depends on itself", ErrCircularReference)
	}
	slot.state = refResolving
	defs, err := g.resolve(r)
	if err != nil {
		slot.state, slot.err = refFailed, err
		g.report(err)
		return nil, err
	}
	slot.state, slot.defs = refResolved, defs
	g.Config.Log().Debug("litegen: reference resolved",
		"entity", r.Field.Entity.Name, "field", r.Field.Name, "target", r.Target, "columns", len(defs))
	return defs, nil
}

// MustReferences is References for a graph known to be valid.
func (g *Graph) MustReferences(r *Reference) []*ReferenceDefinition {
	defs, err := g.References(r)
	if err != nil {
		panic(err)
	}
	return defs
}

func (g *Graph) refError(r *Reference, msg string, cause error) *ReferenceError {
	err := NewReferenceError(r.Field.Entity.Name, r.Target, r.Field.Name, msg, cause)
	err.Pos = r.Field.Pos
	return err
}

// resolve computes the physical columns of r.
func (g *Graph) resolve(r *Reference) ([]*ReferenceDefinition, error) {
	f := r.Field
	target := g.Entity(r.Target)
	if target == nil {
		return nil, g.refError(r, fmt.Sprintf("could not find referenced entity %q", r.Target), nil)
	}
	switch {
	case r.Kind == RelationForeignKey && target.Kind != load.KindTable:
		return nil, g.refError(r, fmt.Sprintf("foreign keys must reference a table, %s is a %s", target.Name, target.Kind), nil)
	case r.Kind == RelationColumnMap && target.Kind != load.KindColumnMap:
		return nil, g.refError(r, fmt.Sprintf("column maps must reference a column map, %s is a %s", target.Name, target.Kind), nil)
	case r.Kind == RelationForeignKey && !f.Nillable():
		return nil, g.refError(r, "foreign key fields must be pointers", nil)
	case r.Kind == RelationForeignKey && f.NotNull:
		return nil, g.refError(r, "foreign key fields cannot be NOT NULL, a nil field is stored as NULL", nil)
	}
	var (
		defs []*ReferenceDefinition
		err  error
	)
	if len(r.Specs) > 0 {
		defs, err = g.resolveExplicit(r, target)
	} else {
		defs, err = g.resolveImplicit(r, target)
	}
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		if d.NotNull && r.Kind == RelationForeignKey {
			return nil, g.refError(r, fmt.Sprintf("column %s cannot be NOT NULL, the foreign key field is nillable", d.Column), nil)
		}
	}
	if len(defs) == 1 && r.Kind == RelationColumnMap {
		f.Column = defs[0].Column
	}
	return defs, nil
}

// resolveExplicit looks up every declared referenced column.
func (g *Graph) resolveExplicit(r *Reference, target *Entity) ([]*ReferenceDefinition, error) {
	defs := make([]*ReferenceDefinition, 0, len(r.Specs))
	for _, s := range r.Specs {
		if s.Column == "" || s.Referenced == "" {
			return nil, g.refError(r, "empty reference name", nil)
		}
		found, err := g.lookupColumn(r, target, s.Referenced)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, g.refError(r, fmt.Sprintf("could not find referenced column %q in %s", s.Referenced, target.Name), nil)
		}
		d := *found
		d.Column = s.Column
		d.ReferencedColumn = s.Referenced
		if err := g.applySpec(r, &d, s); err != nil {
			return nil, err
		}
		defs = append(defs, &d)
	}
	return defs, nil
}

// lookupColumn finds the physical column name among the columns of e.
// Scalar columns match first. A column contributed by another reference of
// e resolves that reference; the field of r itself is skipped.
func (g *Graph) lookupColumn(r *Reference, e *Entity, name string) (*ReferenceDefinition, error) {
	for _, c := range e.Columns {
		if c.Reference == nil && c.Column == name {
			return leafDefinition(c), nil
		}
	}
	for _, c := range e.Columns {
		if c.Reference == nil || c == r.Field {
			continue
		}
		nested, err := g.References(c.Reference)
		if err != nil {
			return nil, err
		}
		for _, n := range nested {
			if n.Column == name {
				return prepend(c, n), nil
			}
		}
	}
	return nil, nil
}

// resolveImplicit mirrors the primary key of a table, or every column of a
// column map, in declaration order.
func (g *Graph) resolveImplicit(r *Reference, target *Entity) ([]*ReferenceDefinition, error) {
	cols := target.Columns
	if r.Kind == RelationForeignKey {
		cols = target.PrimaryColumns()
		if len(cols) == 0 {
			return nil, g.refError(r, fmt.Sprintf("referenced entity %s has no primary key", target.Name), nil)
		}
	}
	var defs []*ReferenceDefinition
	for _, c := range cols {
		if c.Reference == nil {
			d := leafDefinition(c)
			defs = append(defs, d)
			continue
		}
		nested, err := g.References(c.Reference)
		if err != nil {
			return nil, g.refError(r, fmt.Sprintf("cannot resolve key %s of %s", c.Name, target.Name), err)
		}
		for _, n := range nested {
			defs = append(defs, prepend(c, n))
		}
	}
	f := r.Field
	for _, d := range defs {
		d.ReferencedColumn = d.Column
		if len(defs) == 1 && f.ColumnType.IsPrimary() {
			d.Column = f.Column
		} else {
			d.Column = f.Column + "_" + d.ReferencedColumn
		}
	}
	return defs, nil
}

// leafDefinition mirrors the scalar column c.
func leafDefinition(c *Column) *ReferenceDefinition {
	return &ReferenceDefinition{
		Column:    c.Column,
		Leaf:      c,
		Default:   c.Default,
		Converter: c.Converter,
		Combiner:  c.Combiner,
	}
}

// prepend returns a copy of the nested definition n of the relationship
// column c, reached through c.
func prepend(c *Column, n *ReferenceDefinition) *ReferenceDefinition {
	d := *n
	d.Path = append([]*Column{c}, n.Path...)
	d.NotNull, d.NullConflict = false, ""
	return &d
}

// applySpec applies the declared overrides of one explicit reference.
func (g *Graph) applySpec(r *Reference, d *ReferenceDefinition, s ReferenceSpec) error {
	d.NotNull = s.NotNull
	d.NullConflict = s.NullConflict
	if s.Default != "" {
		lit, err := normalizeLiteral(d.Leaf.Type.Type, s.Default)
		if err != nil {
			return g.refError(r, fmt.Sprintf("column %s", s.Column), err)
		}
		d.Default = lit
	}
	if s.Converter == "" {
		return nil
	}
	conv, err := g.Converters.Resolve(s.Converter, d.Leaf.Type)
	if err != nil {
		return g.refError(r, fmt.Sprintf("column %s", s.Column), err)
	}
	d.Converter = conv
	d.Combiner = NewCombiner(g.rt(), d.Leaf.Accessor, d.Leaf.Type, conv.Accessors(g.rt())...)
	return nil
}
