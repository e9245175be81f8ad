package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/schema/field"
)

// ForeignKeyAccessField is one physical column of a reference handled by a
// ForeignKeyAccessCombiner.
type ForeignKeyAccessField struct {
	Column   string
	Property jen.Code // query property of the local column
	Default  jen.Code
	Owner    jen.Code // object holding the referenced field, e.g. model.Author
	Combiner AccessCombiner
}

// ForeignKeyAccessCombiner emits the code of all columns of a reference
// behind one guard: every column is handled when the guards hold, and every
// column gets its null form otherwise. Without guards the columns are
// handled unconditionally.
type ForeignKeyAccessCombiner struct {
	Guards         []jen.Code // expressions that must not be nil
	Fields         []ForeignKeyAccessField
	DefineProperty bool
}

// AddCode emits the code for the columns starting at index and returns the
// index following the last column.
func (c *ForeignKeyAccessCombiner) AddCode(g *jen.Group, index int) int {
	target := func(i int, f ForeignKeyAccessField) Target {
		return Target{
			Column:         f.Column,
			Property:       f.Property,
			Default:        f.Default,
			Index:          index + i,
			Model:          f.Owner,
			DefineProperty: c.DefineProperty,
		}
	}
	if len(c.Guards) == 0 {
		for i, f := range c.Fields {
			f.Combiner.AddCode(g, target(i, f))
		}
		return index + len(c.Fields)
	}
	g.If(nonNil(c.Guards)).BlockFunc(func(g *jen.Group) {
		for i, f := range c.Fields {
			f.Combiner.AddCode(g, target(i, f))
		}
	}).Else().BlockFunc(func(g *jen.Group) {
		for i, f := range c.Fields {
			f.Combiner.AddNull(g, target(i, f))
		}
	})
	return index + len(c.Fields)
}

func nonNil(exprs []jen.Code) *jen.Statement {
	s := &jen.Statement{}
	for i, e := range exprs {
		if i > 0 {
			s.Op("&&")
		}
		s.Add(e).Op("!=").Nil()
	}
	return s
}

// PartialLoadFromCursorAccessCombiner reads one column of a reference from
// a cursor, either as a condition of the query loading the related model or
// as a field of a stub.
type PartialLoadFromCursorAccessCombiner struct {
	Column     string
	Referenced jen.Code // query property of the referenced column
	Combiner   Combiner // accessor chain of the referenced field
	Owner      jen.Code // object holding the referenced field
	Ordered    bool

	index jen.Code
}

// addColumnIndex declares the variable holding the cursor index of the column.
func (c *PartialLoadFromCursorAccessCombiner) addColumnIndex(g *jen.Group, index int, names *NameAllocator) {
	if c.Ordered {
		c.index = jen.Lit(index)
		return
	}
	name := names.Get("index" + pascal(c.Column))
	g.Id(name).Op(":=").Id(CursorVar).Dot("GetColumnIndex").Call(jen.Lit(c.Column))
	c.index = jen.Id(name)
}

// indexCheck returns the condition under which the column holds a value.
func (c *PartialLoadFromCursorAccessCombiner) indexCheck() *jen.Statement {
	notNull := jen.Op("!").Id(CursorVar).Dot("IsNull").Call(c.index)
	if c.Ordered {
		return notNull
	}
	return jen.Add(c.index).Op("!=").Lit(-1).Op("&&").Add(notNull)
}

// condition returns the equality of the referenced column and the stored value.
func (c *PartialLoadFromCursorAccessCombiner) condition() *jen.Statement {
	get := "Get" + methodSuffix(c.Combiner.StorageType().Type)
	property := jen.Add(c.Referenced)
	if c.Combiner.Wrapper != nil && !IsPrimitiveTarget(c.Combiner.Wrapper) {
		property.Dot("InvertProperty").Call()
	}
	return property.Dot("Eq").Call(jen.Id(CursorVar).Dot(get).Call(c.index))
}

// addRetrieval assigns the column value to the referenced field of the stub.
func (c *PartialLoadFromCursorAccessCombiner) addRetrieval(g *jen.Group) {
	cc := c.Combiner
	get := "Get" + methodSuffix(cc.ReadType().Type)
	read := cc.FromStorage(jen.Id(CursorVar).Dot(get).Call(c.index))
	if cc.Wrapper != nil && Fallible(cc.Wrapper) {
		g.If(jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(read), jen.Err().Op("==").Nil()).
			Block(cc.Assign(jen.Id("v"), c.Owner))
		return
	}
	g.Add(cc.Assign(read, c.Owner))
}

// Stub is an object created before the fields of a stubbed reference are
// assigned. Only pointer fields need one.
type Stub struct {
	Field Accessor       // field holding the object
	Owner jen.Code       // object holding Field
	Type  field.TypeInfo // type of the object, without pointer
}

// ForeignKeyLoadFromCursorCombiner loads a reference from the columns of a
// cursor. When every column holds a value, the related model is queried by
// the referenced columns, or for a stubbed reference created with only the
// referenced fields set. Otherwise a pointer field is set to nil. Queried
// references are always pointer fields.
type ForeignKeyLoadFromCursorCombiner struct {
	Field   Accessor
	Type    field.TypeInfo // type of the reference field
	Adapter jen.Code       // adapter of the referenced entity
	Stubbed bool
	Stubs   []Stub // objects to create, outermost first, when Stubbed
	Fields  []*PartialLoadFromCursorAccessCombiner
	Names   *NameAllocator
	Runtime string
}

// AddCode emits the loading code for the columns starting at cursor
// position index and returns the position following the last column.
func (c *ForeignKeyLoadFromCursorCombiner) AddCode(g *jen.Group, model jen.Code, index int) int {
	check := &jen.Statement{}
	for i, f := range c.Fields {
		f.addColumnIndex(g, index+i, c.Names)
		if i > 0 {
			check.Op("&&")
		}
		check.Add(f.indexCheck())
	}
	body := func(g *jen.Group) {
		if !c.Stubbed {
			clause := jen.Qual(c.Runtime, "Clause").Call()
			for _, f := range c.Fields {
				clause.Dot("And").Call(f.condition())
			}
			ref := c.Names.Get("ref" + pascal(Property(c.Field)))
			g.List(jen.Id(ref), jen.Err()).Op(":=").Qual(c.Runtime, "QuerySingle").Types(TypeCode(c.Type.Elem(), c.Runtime)).Call(jen.Id(DBVar), c.Adapter, clause)
			g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
			g.Add(AccessSet(c.Field, jen.Id(ref), model, false))
			return
		}
		for _, s := range c.Stubs {
			g.Add(AccessSet(s.Field, jen.Op("&").Qual(s.Type.PkgPath, s.Type.Ident).Values(), s.Owner, false))
		}
		for _, f := range c.Fields {
			f.addRetrieval(g)
		}
	}
	s := jen.If(check).BlockFunc(body)
	if c.Type.Nillable {
		s.Else().Block(AccessSet(c.Field, jen.Nil(), model, false))
	}
	g.Add(s)
	return index + len(c.Fields)
}
