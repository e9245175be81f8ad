package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/load"
	"github.com/syssam/litegen/schema/field"
)

// Converter is a type converter between a model type and a type SQLite can
// store. Generated adapters hold one value of the converter type per
// converter they use and call its DBValue and ModelValue methods.
type Converter struct {
	Name    string
	PkgPath string
	Model   field.TypeInfo
	DB      field.TypeInfo
	Global  bool
	Pos     string
}

// FieldName returns the adapter field holding the converter.
func (c *Converter) FieldName() string {
	return "converter" + pascal(c.Name)
}

// TypeCode returns the Go type of the converter.
func (c *Converter) TypeCode() *jen.Statement {
	return jen.Qual(c.PkgPath, c.Name)
}

// Accessors returns the wrapper and, when the stored type needs one, the
// sub-wrapper converting values through c.
func (c *Converter) Accessors(rt string) []Accessor {
	ws := []Accessor{TypeConverterAccessor{Receiver: Receiver, Converter: c.FieldName(), DB: c.DB}}
	if c.DB.Type == field.TypeBlob {
		ws = append(ws, BlobAccessor{Runtime: rt})
	}
	return ws
}

// matches reports if the converter accepts values of t.
func (c *Converter) matches(t field.TypeInfo) bool {
	m, t := c.Model.Elem(), t.Elem()
	return m.Type == t.Type && m.Ident == t.Ident && m.PkgPath == t.PkgPath
}

// ConverterRegistry holds the converters of a project. Converters are
// looked up by name, global converters also by model type.
type ConverterRegistry struct {
	byName map[string]*Converter
	global []*Converter
}

// NewConverterRegistry registers the declared converters. Invalid
// declarations are reported to diag and skipped.
func NewConverterRegistry(decls []*load.Converter, diag *Diagnostics) *ConverterRegistry {
	r := &ConverterRegistry{byName: make(map[string]*Converter, len(decls))}
	for _, d := range decls {
		c := &Converter{
			Name:    d.Name,
			PkgPath: d.Package,
			Model:   d.Model.Elem(),
			DB:      d.DB.Elem(),
			Global:  d.Global,
			Pos:     d.Pos,
		}
		if err := r.add(c); err != nil {
			err.Pos = c.Pos
			diag.Report(err)
		}
	}
	return r
}

func (r *ConverterRegistry) add(c *Converter) *SchemaError {
	if _, ok := r.byName[c.Name]; ok {
		return NewSchemaError(c.Name, "", "duplicate converter", nil)
	}
	if !storable(c.DB.Type) || c.DB.Named() {
		return NewSchemaError(c.Name, "", fmt.Sprintf("converter produces %s, which SQLite cannot store", c.DB), nil)
	}
	if c.Global {
		for _, g := range r.global {
			if g.matches(c.Model) {
				return NewSchemaError(c.Name, "", fmt.Sprintf("global converter for %s already declared by %s", c.Model, g.Name), nil)
			}
		}
		r.global = append(r.global, c)
	}
	r.byName[c.Name] = c
	return nil
}

// Lookup returns the converter with the given name.
func (r *ConverterRegistry) Lookup(name string) (*Converter, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// ForType returns the global converter of the model type t, or nil.
func (r *ConverterRegistry) ForType(t field.TypeInfo) *Converter {
	for _, c := range r.global {
		if c.matches(t) {
			return c
		}
	}
	return nil
}

// Resolve returns the converter of a field: the explicitly named one, or
// the global converter of its type. It returns nil without error when the
// field needs no converter.
func (r *ConverterRegistry) Resolve(name string, t field.TypeInfo) (*Converter, error) {
	if name != "" {
		c, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: no converter named %q", ErrUnresolvedConverter, name)
		}
		if !c.matches(t) {
			return nil, fmt.Errorf("%w: converter %s converts %s, not %s", ErrUnresolvedConverter, name, c.Model, t.Elem())
		}
		return c, nil
	}
	if c := r.ForType(t); c != nil {
		return c, nil
	}
	if !t.Type.Native() {
		return nil, fmt.Errorf("%w: no converter registered for %s", ErrUnresolvedConverter, t.Elem())
	}
	return nil, nil
}
