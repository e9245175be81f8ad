package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/schema/field"
)

// Combiner binds the field accessor of a column to the wrappers converting
// its value to storage. It is built once per resolved column and never
// changed afterwards.
type Combiner struct {
	Field       Accessor
	FieldType   field.TypeInfo
	Wrapper     Accessor // nil without conversion
	WrapperType field.TypeInfo
	SubWrapper  Accessor // nil unless the wrapper output needs another conversion
	Runtime     string
}

// NewCombiner returns the combiner of a field accessor and at most two
// wrappers. Deeper chains are not supported and panic.
func NewCombiner(rt string, fieldAccessor Accessor, fieldType field.TypeInfo, wrappers ...Accessor) Combiner {
	if !IsFieldAccessor(fieldAccessor) {
		panic(fmt.Sprintf("litegen/gen: %T is not a field accessor", fieldAccessor))
	}
	if len(wrappers) > 2 {
		panic(fmt.Errorf("%w: %d wrappers on property %q", ErrUnsupportedNesting, len(wrappers), Property(fieldAccessor)))
	}
	c := Combiner{Field: fieldAccessor, FieldType: fieldType, Runtime: rt}
	for i, w := range wrappers {
		if w == nil || IsFieldAccessor(w) {
			panic(fmt.Sprintf("litegen/gen: invalid wrapper %T on property %q", w, Property(fieldAccessor)))
		}
		if i == 0 {
			c.Wrapper = w
			c.WrapperType = outputType(w, fieldType)
		} else {
			c.SubWrapper = w
		}
	}
	return c
}

// Primitive reports if the model holds the field value directly.
func (c Combiner) Primitive() bool {
	return c.FieldType.Primitive()
}

// StorageType returns the type bound to statements and content values.
func (c Combiner) StorageType() field.TypeInfo {
	switch {
	case c.SubWrapper != nil:
		return outputType(c.SubWrapper, c.WrapperType)
	case c.Wrapper != nil:
		return c.WrapperType
	default:
		return c.FieldType
	}
}

// ReadType returns the type read from a cursor before the wrappers convert it.
func (c Combiner) ReadType() field.TypeInfo {
	switch {
	case c.SubWrapper != nil:
		return inputType(c.SubWrapper, c.WrapperType)
	case c.Wrapper != nil:
		return inputType(c.Wrapper, c.FieldType)
	default:
		return c.FieldType.Elem()
	}
}

// Stored returns the storage value of v, the result of the wrapper get.
func (c Combiner) Stored(v jen.Code) *jen.Statement {
	if c.SubWrapper != nil {
		return AccessGet(c.SubWrapper, v)
	}
	return jen.Add(v)
}

// StoredPtr is Stored for a pointer value.
func (c Combiner) StoredPtr(v jen.Code) *jen.Statement {
	if c.SubWrapper != nil {
		return jen.Qual(c.Runtime, "MapPtr").Call(v, AccessFunc(c.SubWrapper))
	}
	return jen.Add(v)
}

// FromStorage converts a value read from a cursor to the field type.
// The result is an expression, or a two-valued call when the wrapper is Fallible.
func (c Combiner) FromStorage(v jen.Code) *jen.Statement {
	s := jen.Add(v)
	if c.SubWrapper != nil {
		s = AccessSet(c.SubWrapper, s, nil, false)
	}
	if c.Wrapper != nil {
		s = AccessSet(c.Wrapper, s, nil, false)
	}
	return s
}

// Assign returns the statement storing a model-typed value into the field.
// Pointer fields take the address through runtime.Ptr.
func (c Combiner) Assign(v, model jen.Code) *jen.Statement {
	if !c.Primitive() {
		v = jen.Qual(c.Runtime, "Ptr").Call(v)
	}
	return AccessSet(c.Field, v, model, false)
}

// AssignDefault returns the statement storing a default into the field.
// The default already has the field type.
func (c Combiner) AssignDefault(def, model jen.Code) *jen.Statement {
	if c.Wrapper != nil {
		def = AccessSet(c.Wrapper, def, nil, true)
	}
	return AccessSet(c.Field, def, model, true)
}

// fieldAccess returns the expression accessing the field value, converted by
// the wrapper when useWrapper is set. A wrapped pointer field is converted
// once into a temporary named ref{Property} that later statements reuse; the
// temporary is declared in g when defineProperty is set.
func (c Combiner) fieldAccess(g *jen.Group, model jen.Code, names *NameAllocator, useWrapper, defineProperty bool) *jen.Statement {
	access := AccessGet(c.Field, model)
	if c.Wrapper == nil || !useWrapper {
		return access
	}
	if c.Primitive() {
		return AccessGet(c.Wrapper, access)
	}
	key := fmt.Sprintf("%#v", access)
	name := names.Lookup(key, "ref"+pascal(Property(c.Field)))
	if defineProperty {
		g.Id(name).Op(":=").Qual(c.Runtime, "MapPtr").Call(access, AccessFunc(c.Wrapper))
	}
	return jen.Id(name)
}
