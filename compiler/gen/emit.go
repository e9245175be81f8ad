package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/schema/field"
)

// defaultKind selects the default handed to the access combiners.
type defaultKind uint8

const (
	noDefaults defaultKind = iota
	storeDefaults
)

// emitColumns emits the code of newCombiner for cols, in physical order,
// starting at index. Relationship columns are handled as one group behind
// the nil checks of their owner. With reuse set, plain columns use the
// temporaries declared by an earlier call in the same scope. It returns the
// index following the last physical column.
func (e *Entity) emitColumns(g *jen.Group, cols []*Column, index int, defaults defaultKind, reuse bool, newCombiner func(Combiner) AccessCombiner) int {
	model := jen.Id(ModelVar)
	for _, c := range cols {
		if c.Reference == nil {
			var def jen.Code
			if defaults == storeDefaults {
				def = c.StoreDefault()
			}
			t := c.target(model, index, def)
			t.DefineProperty = !reuse
			newCombiner(c.Combiner).AddCode(g, t)
			index++
			continue
		}
		fk := &ForeignKeyAccessCombiner{DefineProperty: true}
		seen := make(map[string]bool)
		for _, d := range e.graph.MustReferences(c.Reference) {
			for _, guard := range d.Guards(c, model) {
				if key := fmt.Sprintf("%#v", guard); !seen[key] {
					seen[key] = true
					fk.Guards = append(fk.Guards, guard)
				}
			}
			var def jen.Code
			if defaults == storeDefaults {
				def = d.StoreDefault()
			}
			fk.Fields = append(fk.Fields, ForeignKeyAccessField{
				Column:   d.Column,
				Property: e.property(d.Column),
				Default:  def,
				Owner:    d.Owner(c, model),
				Combiner: newCombiner(d.Combiner),
			})
		}
		index = fk.AddCode(g, index)
	}
	return index
}

// property returns the query property of the physical column name.
func (e *Entity) property(column string) *jen.Statement {
	return jen.Id(e.TableVar()).Dot(pascal(column))
}

// insertable returns the declared columns written by INSERT.
func (e *Entity) insertable() []*Column {
	var cols []*Column
	for _, c := range e.Columns {
		if c.Reference == nil && c.ColumnType.IsAuto() {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// BindToContentValues emits the body storing every column of the model
// into runtime.ContentValues.
func (e *Entity) BindToContentValues(g *jen.Group) {
	names := NewNameAllocator()
	e.emitColumns(g, e.Columns, 0, storeDefaults, false, func(cb Combiner) AccessCombiner {
		return &ContentValuesCombiner{Combiner: cb, Names: names}
	})
}

// BindToInsertValues is BindToContentValues without the columns SQLite
// assigns.
func (e *Entity) BindToInsertValues(g *jen.Group) {
	names := NewNameAllocator()
	e.emitColumns(g, e.insertable(), 0, storeDefaults, false, func(cb Combiner) AccessCombiner {
		return &ContentValuesCombiner{Combiner: cb, Names: names}
	})
}

// BindToInsertStatement emits the body binding the insert columns to the
// positions following start, in the order of InsertQuery.
func (e *Entity) BindToInsertStatement(g *jen.Group) {
	names := NewNameAllocator()
	e.emitColumns(g, e.insertable(), 0, storeDefaults, false, func(cb Combiner) AccessCombiner {
		return &SqliteStatementAccessCombiner{Combiner: cb, Names: names, Start: StartVar}
	})
}

// BindToUpdateStatement emits the body binding every column, then the
// primary key, in the order of UpdateQuery.
func (e *Entity) BindToUpdateStatement(g *jen.Group) {
	names := NewNameAllocator()
	bind := func(cb Combiner) AccessCombiner {
		return &SqliteStatementAccessCombiner{Combiner: cb, Names: names}
	}
	next := e.emitColumns(g, e.Columns, 1, storeDefaults, false, bind)
	e.emitColumns(g, e.PrimaryColumns(), next, storeDefaults, true, bind)
}

// BindToDeleteStatement emits the body binding the primary key in the order
// of DeleteQuery.
func (e *Entity) BindToDeleteStatement(g *jen.Group) {
	names := NewNameAllocator()
	e.emitColumns(g, e.PrimaryColumns(), 1, storeDefaults, false, func(cb Combiner) AccessCombiner {
		return &SqliteStatementAccessCombiner{Combiner: cb, Names: names}
	})
}

// LoadFromCursor emits the body reading the model from the current row of
// a cursor. Relationships are queried through the adapter of their entity,
// or created with only their key fields set when stubbed.
func (e *Entity) LoadFromCursor(g *jen.Group) {
	names := NewNameAllocator()
	model := jen.Id(ModelVar)
	index := 0
	for _, c := range e.Columns {
		if c.Reference == nil {
			var def jen.Code
			if e.AssignDefaults {
				def = c.LoadDefault()
			}
			lc := &LoadFromCursorAccessCombiner{Combiner: c.Combiner, Names: names, Ordered: e.Ordered, AssignDefaults: e.AssignDefaults}
			lc.AddCode(g, c.target(model, index, def))
			index++
			continue
		}
		index = e.referenceLoader(c, names).AddCode(g, model, index)
	}
	g.Return(jen.Nil())
}

func (e *Entity) referenceLoader(c *Column, names *NameAllocator) *ForeignKeyLoadFromCursorCombiner {
	r := c.Reference
	target := e.graph.Entity(r.Target)
	model := jen.Id(ModelVar)
	fl := &ForeignKeyLoadFromCursorCombiner{
		Field:   c.Accessor,
		Type:    c.Type,
		Stubbed: r.Stubbed,
		Names:   names,
		Runtime: e.graph.rt(),
	}
	if !r.Stubbed {
		fl.Adapter = jen.Id(target.AdapterVar())
	}
	defs := e.graph.MustReferences(r)
	if r.Stubbed {
		fl.Stubs = stubs(c, defs, model)
	}
	for _, d := range defs {
		fl.Fields = append(fl.Fields, &PartialLoadFromCursorAccessCombiner{
			Column:     d.Column,
			Referenced: target.property(d.ReferencedColumn),
			Combiner:   d.Combiner,
			Owner:      d.Owner(c, model),
			Ordered:    e.Ordered,
		})
	}
	return fl
}

// stubs returns the objects created before the key fields of a stubbed
// relationship are assigned, outermost first.
func stubs(c *Column, defs []*ReferenceDefinition, model jen.Code) []Stub {
	var (
		out  []Stub
		seen = make(map[string]bool)
	)
	add := func(a Accessor, owner jen.Code, t field.TypeInfo) {
		key := fmt.Sprintf("%#v", AccessGet(a, owner))
		if seen[key] || !t.Nillable {
			return
		}
		seen[key] = true
		out = append(out, Stub{Field: a, Owner: owner, Type: t.Elem()})
	}
	add(c.Accessor, model, c.Type)
	for _, d := range defs {
		owner := AccessGet(c.Accessor, model)
		for _, p := range d.Path {
			add(p.Accessor, owner, p.Type)
			owner = AccessGet(p.Accessor, owner)
		}
	}
	return out
}

// PrimaryConditionClause emits the body returning the clause selecting the
// row of the model by primary key.
func (e *Entity) PrimaryConditionClause(g *jen.Group) {
	names := NewNameAllocator()
	g.Id(ClauseVar).Op(":=").Qual(e.graph.rt(), "Clause").Call()
	e.emitColumns(g, e.PrimaryColumns(), 0, noDefaults, false, func(cb Combiner) AccessCombiner {
		return &PrimaryReferenceAccessCombiner{Combiner: cb, Names: names}
	})
	g.Return(jen.Id(ClauseVar))
}

// Exists emits the body reporting if the row of the model is stored.
func (e *Entity) Exists(g *jen.Group) {
	names := NewNameAllocator()
	model := jen.Id(ModelVar)
	if auto := e.AutoIncrementColumn(); auto != nil {
		ec := &ExistenceAccessCombiner{
			Combiner:   auto.Combiner,
			Names:      names,
			AutoRowID:  true,
			QuickCheck: auto.QuickCheck,
			Adapter:    jen.Id(Receiver),
		}
		ec.AddCode(g, auto.target(model, 0, nil))
		return
	}
	ec := &ExistenceAccessCombiner{Combiner: Combiner{Runtime: e.graph.rt()}, Names: names, Adapter: jen.Id(Receiver)}
	ec.AddCode(g, Target{Model: model})
}

// SaveForeignKeys emits the body saving the related models of the
// relationships declared with save cascading.
func (e *Entity) SaveForeignKeys(g *jen.Group) {
	for _, c := range e.References() {
		if r := c.Reference; r.Kind == RelationForeignKey && r.SaveCascade {
			sc := &SaveModelAccessCombiner{Combiner: c.Combiner, Adapter: jen.Id(e.graph.Entity(r.Target).AdapterVar())}
			sc.AddCode(g, Target{Model: jen.Id(ModelVar)})
		}
	}
	g.Return(jen.Nil())
}

// DeleteForeignKeys emits the body deleting the related models of the
// relationships declared with delete cascading.
func (e *Entity) DeleteForeignKeys(g *jen.Group) {
	for _, c := range e.References() {
		if r := c.Reference; r.Kind == RelationForeignKey && r.DeleteCascade {
			dc := &DeleteModelAccessCombiner{Combiner: c.Combiner, Adapter: jen.Id(e.graph.Entity(r.Target).AdapterVar())}
			dc.AddCode(g, Target{Model: jen.Id(ModelVar)})
		}
	}
	g.Return(jen.Nil())
}

// UpdateAutoIncrement emits the body assigning the row id returned by an
// insert to the auto-increment field. Entities without one emit nothing.
func (e *Entity) UpdateAutoIncrement(g *jen.Group) {
	auto := e.AutoIncrementColumn()
	if auto == nil {
		return
	}
	var v jen.Code = jen.Id("id")
	if t := auto.Type.Elem(); t.Type != field.TypeInt64 || t.Named() {
		v = TypeCode(t, e.graph.rt()).Call(v)
	}
	g.Add(auto.Combiner.Assign(v, jen.Id(ModelVar)))
}

// PropertyValue emits the body returning the model value of a physical
// column, or nil for unknown columns and unset relationships.
func (e *Entity) PropertyValue(g *jen.Group) {
	names := NewNameAllocator()
	model := jen.Id(ModelVar)
	g.Switch(jen.Id(ColumnVar)).BlockFunc(func(g *jen.Group) {
		for _, p := range e.physical {
			g.Case(jen.Lit(p.Name)).BlockFunc(func(g *jen.Group) {
				sc := &SimpleAccessCombiner{Combiner: p.Combiner, Names: names}
				if p.Def == nil {
					sc.AddCode(g, p.Field.target(model, 0, nil))
					return
				}
				fk := &ForeignKeyAccessCombiner{
					Guards: p.Def.Guards(p.Field, model),
					Fields: []ForeignKeyAccessField{{
						Column:   p.Name,
						Property: e.property(p.Name),
						Owner:    p.Def.Owner(p.Field, model),
						Combiner: sc,
					}},
				}
				fk.AddCode(g, 0)
			})
		}
	})
	g.Return(jen.Nil())
}
