package gen

import (
	"github.com/dave/jennifer/jen"
)

// Identifiers shared by the generated adapter methods.
const (
	ModelVar     = "model"
	ValuesVar    = "values"
	StatementVar = "stmt"
	StartVar     = "start"
	CursorVar    = "cursor"
	DBVar        = "db"
	ClauseVar    = "clause"
	ColumnVar    = "column"
	Receiver     = "a"
)

// Target is the per-column input of an AccessCombiner.
type Target struct {
	Column         string   // physical column name
	Property       jen.Code // query property of the column, e.g. UserTable.ID
	Default        jen.Code // nil when the column has no default
	Index          int      // bind position or cursor position of the column
	Model          jen.Code // expression of the object holding the field
	DefineProperty bool     // declare the hoisted temporary, see Combiner.fieldAccess
}

// AccessCombiner emits the code of one concern for one column.
type AccessCombiner interface {
	// AddCode emits the code handling the column value.
	AddCode(g *jen.Group, t Target)
	// AddNull emits the code handling an absent value, used by the null
	// branch of foreign keys.
	AddNull(g *jen.Group, t Target)
}

// SimpleAccessCombiner returns the field value.
type SimpleAccessCombiner struct {
	Combiner
	Names *NameAllocator
}

// AddCode implements AccessCombiner.
func (c *SimpleAccessCombiner) AddCode(g *jen.Group, t Target) {
	access := c.fieldAccess(g, t.Model, c.Names, false, t.DefineProperty)
	if !c.Primitive() {
		access = jen.Qual(c.Runtime, "ValueOrNil").Call(access)
	}
	g.Return(access)
}

// AddNull implements AccessCombiner.
func (c *SimpleAccessCombiner) AddNull(g *jen.Group, _ Target) {
	g.Return(jen.Nil())
}

// ExistenceAccessCombiner emits the body of an Exists method from the
// auto-increment key of an entity.
//
// With AutoRowID and QuickCheck, a key that passes the quick check returns
// true without a query: a positive key, or a nil pointer key. Any other key
// falls through to the COUNT query over the primary condition. With AutoRowID
// alone, a key that is unset or not positive returns false before the query.
type ExistenceAccessCombiner struct {
	Combiner
	Names      *NameAllocator
	AutoRowID  bool
	QuickCheck bool
	Adapter    jen.Code // adapter the count query runs against
}

// AddCode implements AccessCombiner.
func (c *ExistenceAccessCombiner) AddCode(g *jen.Group, t Target) {
	if c.AutoRowID {
		access := c.fieldAccess(g, t.Model, c.Names, false, t.DefineProperty)
		var positive *jen.Statement
		if c.Primitive() {
			positive = jen.Add(access).Op(">").Lit(0)
		} else {
			positive = jen.Add(access).Op("!=").Nil().Op("&&").Op("*").Add(access).Op(">").Lit(0)
		}
		if c.QuickCheck {
			quick := positive
			if !c.Primitive() {
				quick = jen.Add(positive).Op("||").Add(access).Op("==").Nil()
			}
			g.If(quick).Block(jen.Return(jen.True(), jen.Nil()))
		} else {
			g.If(jen.Op("!").Add(parens(positive))).Block(jen.Return(jen.False(), jen.Nil()))
		}
	}
	g.List(jen.Id("n"), jen.Err()).Op(":=").Qual(c.Runtime, "Count").Call(
		jen.Id(DBVar),
		c.Adapter,
		jen.Id(Receiver).Dot("PrimaryConditionClause").Call(t.Model),
	)
	g.Return(jen.Id("n").Op(">").Lit(0), jen.Err())
}

// AddNull implements AccessCombiner.
func (c *ExistenceAccessCombiner) AddNull(*jen.Group, Target) {}

func parens(s *jen.Statement) *jen.Statement {
	if len(*s) == 1 {
		return s
	}
	return jen.Parens(s)
}

// ContentValuesCombiner puts the column value into runtime.ContentValues.
// A pointer field holding nil stores its default, or NULL without one.
type ContentValuesCombiner struct {
	Combiner
	Names *NameAllocator
}

// AddCode implements AccessCombiner.
func (c *ContentValuesCombiner) AddCode(g *jen.Group, t Target) {
	access := c.fieldAccess(g, t.Model, c.Names, true, t.DefineProperty)
	var value *jen.Statement
	switch {
	case c.Primitive():
		value = c.Stored(access)
	case t.Default != nil:
		value = jen.Qual(c.Runtime, "Coalesce").Call(c.StoredPtr(access), t.Default)
	default:
		value = jen.Qual(c.Runtime, "ValueOrNil").Call(c.StoredPtr(access))
	}
	g.Id(ValuesVar).Dot("Put").Call(jen.Lit(t.Column), value)
}

// AddNull implements AccessCombiner.
func (c *ContentValuesCombiner) AddNull(g *jen.Group, t Target) {
	g.Id(ValuesVar).Dot("PutNull").Call(jen.Lit(t.Column))
}

// SqliteStatementAccessCombiner binds the column value to a runtime.Statement.
// Positions are Start+Index, or Index alone when Start is empty.
type SqliteStatementAccessCombiner struct {
	Combiner
	Names *NameAllocator
	Start string
}

func (c *SqliteStatementAccessCombiner) position(index int) *jen.Statement {
	if c.Start == "" {
		return jen.Lit(index)
	}
	return jen.Id(c.Start).Op("+").Lit(index)
}

// AddCode implements AccessCombiner.
func (c *SqliteStatementAccessCombiner) AddCode(g *jen.Group, t Target) {
	access := c.fieldAccess(g, t.Model, c.Names, true, t.DefineProperty)
	bind := "Bind" + methodSuffix(c.StorageType().Type)
	stmt := jen.Id(StatementVar)
	switch {
	case c.Primitive():
		g.Add(stmt).Dot(bind).Call(c.position(t.Index), c.Stored(access))
	case t.Default != nil:
		g.If(jen.Add(access).Op("!=").Nil()).Block(
			jen.Add(stmt).Dot(bind).Call(c.position(t.Index), c.Stored(jen.Op("*").Add(access))),
		).Else().Block(
			jen.Add(stmt).Dot(bind).Call(c.position(t.Index), t.Default),
		)
	default:
		g.Qual(c.Runtime, "BindOrNull").Call(stmt, jen.Add(stmt).Dot(bind), c.position(t.Index), c.StoredPtr(access))
	}
}

// AddNull implements AccessCombiner.
func (c *SqliteStatementAccessCombiner) AddNull(g *jen.Group, t Target) {
	g.Id(StatementVar).Dot("BindNull").Call(c.position(t.Index))
}

// LoadFromCursorAccessCombiner reads the column from a runtime.Cursor into
// the field. Columns are found by name unless Ordered is set, in which case
// the Target index is the cursor position.
//
// Wrapped columns are read only when present and not NULL. The default is
// assigned otherwise when AssignDefaults is set; without it the field keeps
// its current value. Enum values that fail to parse take the same path.
// Unwrapped columns go through runtime.ValueOrDefault.
type LoadFromCursorAccessCombiner struct {
	Combiner
	Names          *NameAllocator
	Ordered        bool
	AssignDefaults bool
}

func (c *LoadFromCursorAccessCombiner) index(t Target) *jen.Statement {
	if c.Ordered {
		return jen.Lit(t.Index)
	}
	return jen.Id(CursorVar).Dot("GetColumnIndex").Call(jen.Lit(t.Column))
}

// AddCode implements AccessCombiner.
func (c *LoadFromCursorAccessCombiner) AddCode(g *jen.Group, t Target) {
	cursor := jen.Id(CursorVar)
	get := "Get" + methodSuffix(c.ReadType().Type)
	if c.Wrapper == nil {
		def := t.Default
		if !c.AssignDefaults || def == nil {
			def = AccessGet(c.Field, t.Model)
		}
		helper := "ValueOrDefault"
		if !c.Primitive() {
			helper = "PtrOrDefault"
		}
		value := jen.Qual(c.Runtime, helper).Call(cursor, c.index(t), jen.Add(cursor).Dot(get), def)
		g.Add(AccessSet(c.Field, value, t.Model, false))
		return
	}
	var (
		cond  []jen.Code
		index jen.Code
	)
	if c.Ordered {
		index = jen.Lit(t.Index)
		cond = []jen.Code{jen.Op("!").Add(cursor).Dot("IsNull").Call(index)}
	} else {
		index = jen.Id("index")
		cond = []jen.Code{
			jen.Id("index").Op(":=").Add(c.index(t)),
			jen.Id("index").Op("!=").Lit(-1).Op("&&").Op("!").Add(cursor).Dot("IsNull").Call(jen.Id("index")),
		}
	}
	read := c.FromStorage(jen.Add(cursor).Dot(get).Call(index))
	var assign jen.Code
	if Fallible(c.Wrapper) {
		parse := jen.If(jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(read), jen.Err().Op("==").Nil()).
			Block(c.Assign(jen.Id("v"), t.Model))
		if c.AssignDefaults && t.Default != nil {
			parse.Else().Block(c.AssignDefault(t.Default, t.Model))
		}
		assign = parse
	} else {
		assign = c.Assign(read, t.Model)
	}
	s := jen.If(cond...).Block(assign)
	if c.AssignDefaults && t.Default != nil {
		s.Else().Block(c.AssignDefault(t.Default, t.Model))
	}
	g.Add(s)
}

// AddNull implements AccessCombiner.
func (c *LoadFromCursorAccessCombiner) AddNull(g *jen.Group, t Target) {
	if t.Default != nil {
		g.Add(c.AssignDefault(t.Default, t.Model))
	}
}

// PrimaryReferenceAccessCombiner appends the equality of the column and the
// field value to a query clause. Wrapped values other than booleans are
// compared in their storage representation against the inverted property.
type PrimaryReferenceAccessCombiner struct {
	Combiner
	Names *NameAllocator
}

// AddCode implements AccessCombiner.
func (c *PrimaryReferenceAccessCombiner) AddCode(g *jen.Group, t Target) {
	_, boolean := c.Wrapper.(BooleanAccessor)
	useWrapper := c.Wrapper != nil && !boolean
	access := c.fieldAccess(g, t.Model, c.Names, useWrapper, t.DefineProperty)
	if !c.Primitive() {
		access = jen.Qual(c.Runtime, "ValueOrNil").Call(access)
	}
	property := jen.Add(t.Property)
	if c.Wrapper != nil && !IsPrimitiveTarget(c.Wrapper) {
		property.Dot("InvertProperty").Call()
	}
	g.Id(ClauseVar).Dot("And").Call(property.Dot("Eq").Call(access))
}

// AddNull implements AccessCombiner.
func (c *PrimaryReferenceAccessCombiner) AddNull(g *jen.Group, t Target) {
	g.Id(ClauseVar).Dot("And").Call(jen.Add(t.Property).Dot("Eq").Call(jen.Nil()))
}

// SaveModelAccessCombiner saves a related model through its adapter when it
// is set. A nil relationship is skipped.
type SaveModelAccessCombiner struct {
	Combiner
	Adapter jen.Code
}

// AddCode implements AccessCombiner.
func (c *SaveModelAccessCombiner) AddCode(g *jen.Group, t Target) {
	cascade(g, c.Combiner, "Save", c.Adapter, AccessGet(c.Field, t.Model))
}

// AddNull implements AccessCombiner.
func (c *SaveModelAccessCombiner) AddNull(*jen.Group, Target) {}

// DeleteModelAccessCombiner deletes a related model through its adapter when
// it is set. A nil relationship is skipped.
type DeleteModelAccessCombiner struct {
	Combiner
	Adapter jen.Code
}

// AddCode implements AccessCombiner.
func (c *DeleteModelAccessCombiner) AddCode(g *jen.Group, t Target) {
	cascade(g, c.Combiner, "Delete", c.Adapter, AccessGet(c.Field, t.Model))
}

// AddNull implements AccessCombiner.
func (c *DeleteModelAccessCombiner) AddNull(*jen.Group, Target) {}

func cascade(g *jen.Group, c Combiner, op string, adapter jen.Code, access *jen.Statement) {
	call := jen.Qual(c.Runtime, op).Types(TypeCode(c.FieldType.Elem(), c.Runtime)).Call(jen.Id(DBVar), adapter, access)
	g.If(jen.Add(access).Op("!=").Nil()).Block(
		jen.If(
			jen.Err().Op(":=").Add(call),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
	)
}

var (
	_ AccessCombiner = (*SimpleAccessCombiner)(nil)
	_ AccessCombiner = (*ExistenceAccessCombiner)(nil)
	_ AccessCombiner = (*ContentValuesCombiner)(nil)
	_ AccessCombiner = (*SqliteStatementAccessCombiner)(nil)
	_ AccessCombiner = (*LoadFromCursorAccessCombiner)(nil)
	_ AccessCombiner = (*PrimaryReferenceAccessCombiner)(nil)
	_ AccessCombiner = (*SaveModelAccessCombiner)(nil)
	_ AccessCombiner = (*DeleteModelAccessCombiner)(nil)
)
