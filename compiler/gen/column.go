package gen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/load"
	"github.com/syssam/litegen/schema/field"
)

// ColumnType classifies the role of a column in the primary key.
type ColumnType uint8

// Column types. A row id takes precedence over auto-increment, which takes
// precedence over a plain primary key.
const (
	ColumnNormal ColumnType = iota
	ColumnPrimary
	ColumnPrimaryAutoIncrement
	ColumnRowID
)

var columnTypeNames = [...]string{
	ColumnNormal:               "normal",
	ColumnPrimary:              "primary",
	ColumnPrimaryAutoIncrement: "primary_auto_increment",
	ColumnRowID:                "row_id",
}

func (t ColumnType) String() string {
	if int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return "invalid"
}

// IsPrimary reports if columns of this type are part of the primary key.
func (t ColumnType) IsPrimary() bool { return t != ColumnNormal }

// IsAuto reports if SQLite assigns the value of columns of this type.
func (t ColumnType) IsAuto() bool {
	return t == ColumnPrimaryAutoIncrement || t == ColumnRowID
}

func columnType(pk *load.PrimaryKey) ColumnType {
	switch {
	case pk == nil:
		return ColumnNormal
	case pk.RowID:
		return ColumnRowID
	case pk.AutoIncrement:
		return ColumnPrimaryAutoIncrement
	default:
		return ColumnPrimary
	}
}

// Column is one declared field of an entity. A plain column maps to one
// physical column; a relationship column (Reference != nil) maps to the
// columns resolved for its reference.
type Column struct {
	Entity         *Entity
	Name           string // declared property name
	Column         string // physical column name
	Type           field.TypeInfo
	ColumnType     ColumnType
	QuickCheck     bool
	NotNull        bool
	NullConflict   string
	Unique         bool
	UniqueConflict string
	UniqueGroups   []int
	IndexGroups    []int
	Length         int
	Collate        string
	Default        string // Go literal of the declared default, empty without one
	Converter      *Converter
	Accessor       Accessor
	Combiner       Combiner
	Reference      *Reference
	Pos            string
}

// newColumn resolves a declared field. Configuration errors are reported
// to the graph diagnostics and the column is returned anyway, so that
// resolution of the remaining fields goes on.
func newColumn(g *Graph, e *Entity, f *load.Field) *Column {
	c := &Column{
		Entity:         e,
		Name:           f.Name,
		Column:         f.ColumnName(),
		Type:           *f.Info,
		ColumnType:     columnType(f.PrimaryKey),
		NullConflict:   keyword(f.NullConflict),
		Unique:         f.Unique,
		UniqueConflict: keyword(f.UniqueConflict),
		UniqueGroups:   f.UniqueGroups,
		IndexGroups:    f.IndexGroups,
		Length:         f.Length,
		Collate:        f.Collate,
		Pos:            f.Pos,
	}
	if f.PrimaryKey != nil {
		c.QuickCheck = f.PrimaryKey.QuickCheck
	}
	c.Accessor = c.fieldAccessor(g, f)
	if f.Reference != nil {
		c.NotNull = f.NotNull
		c.Reference = newReference(c, f.Reference)
		c.Combiner = NewCombiner(g.rt(), c.Accessor, c.Type)
		return c
	}
	c.NotNull = f.NotNull || c.implicitNotNull()
	c.Default = c.normalizeDefault(g, f.Default)
	if c.Default == "" && c.NotNull && c.Type.Type == field.TypeString && !c.Type.Named() {
		c.Default = `""`
	}
	c.Combiner = NewCombiner(g.rt(), c.Accessor, c.Type, c.wrappers(g, f.Converter)...)
	return c
}

// implicitNotNull reports if the column is NOT NULL without declaring it:
// values held directly by the model are never nil, except byte slices and
// columns SQLite assigns.
func (c *Column) implicitNotNull() bool {
	if c.Type.Nillable || c.ColumnType.IsAuto() {
		return false
	}
	return c.Type.Type != field.TypeBytes && c.Type.Type != field.TypeBlob
}

// fieldAccessor selects the accessor reaching the field, by visibility.
func (c *Column) fieldAccessor(g *Graph, f *load.Field) Accessor {
	switch f.FieldVisibility() {
	case load.VisibilityPrivate:
		isBool := c.Type.Type == field.TypeBool
		return GetterSetterAccessor{
			Property: f.Name,
			Getter:   GetterName(f.Name, f.Getter, isBool, c.Entity.BooleanIsGetters),
			Setter:   SetterName(f.Name, f.Setter, isBool, c.Entity.BooleanIsGetters),
		}
	case load.VisibilityPackage:
		a := HelperAccessor{
			Property: f.Name,
			PkgPath:  c.Entity.PkgPath,
			Helper:   HelperName(c.Entity.Name, g.Config.HelperSeparator),
			Getter:   "Get" + pascal(f.Name),
			Setter:   "Set" + pascal(f.Name),
		}
		g.Helpers.Register(a.PkgPath, a.Helper, c.Entity.Name, HelperMethod{
			Field:  f.Name,
			Type:   c.Type,
			Getter: a.Getter,
			Setter: a.Setter,
		})
		return a
	default:
		return DirectAccessor{Property: pascal(f.Name)}
	}
}

// wrappers selects the wrapper accessors converting the field to storage.
func (c *Column) wrappers(g *Graph, converter string) []Accessor {
	conv, err := g.Converters.Resolve(converter, c.Type)
	if err != nil {
		g.report(c.schemaError("", err))
		return nil
	}
	if conv != nil {
		c.Converter = conv
		return conv.Accessors(g.rt())
	}
	return c.typeWrappers(g)
}

func (c *Column) typeWrappers(g *Graph) []Accessor {
	switch c.Type.Type {
	case field.TypeEnum:
		if !c.Type.Named() {
			g.report(c.schemaError("enum fields need a named type", nil))
			return nil
		}
		return []Accessor{EnumAccessor{Enum: c.Type.Elem()}}
	case field.TypeBlob:
		return []Accessor{BlobAccessor{Runtime: g.rt()}}
	case field.TypeBool:
		return []Accessor{BooleanAccessor{Runtime: g.rt()}}
	case field.TypeRune:
		return []Accessor{CharAccessor{Runtime: g.rt()}}
	case field.TypeByte:
		return []Accessor{ByteAccessor{Runtime: g.rt()}}
	}
	return nil
}

// normalizeDefault validates a declared default and returns its Go literal.
// Invalid defaults are reported and dropped.
func (c *Column) normalizeDefault(g *Graph, lit string) string {
	lit, err := normalizeLiteral(c.Type.Type, lit)
	if err != nil {
		g.report(c.schemaError(err.Error(), nil))
		return ""
	}
	return lit
}

// normalizeLiteral validates a default of type t and returns its Go
// literal. Strings and runes are quoted when written bare. Numbers are
// rewritten in decimal, so that the Go and SQL defaults agree.
func normalizeLiteral(t field.Type, lit string) (string, error) {
	lit = strings.TrimSpace(lit)
	if lit == "" {
		return "", nil
	}
	switch t {
	case field.TypeString, field.TypeEnum:
		if !isQuoted(lit) {
			lit = strconv.Quote(lit)
		}
	case field.TypeRune:
		if utf8.RuneCountInString(lit) == 1 {
			r, _ := utf8.DecodeRuneInString(lit)
			lit = strconv.QuoteRune(r)
		}
		if v, err := strconv.Unquote(lit); err != nil || !strings.HasPrefix(lit, "'") || utf8.RuneCountInString(v) != 1 {
			return "", fmt.Errorf("invalid rune default %s", lit)
		}
	case field.TypeBool:
		if lit != "true" && lit != "false" {
			return "", fmt.Errorf("invalid bool default %s", lit)
		}
	case field.TypeByte, field.TypeInt, field.TypeInt32, field.TypeInt64:
		v, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return "", fmt.Errorf("invalid integer default %s", lit)
		}
		lit = strconv.FormatInt(v, 10)
	case field.TypeFloat32, field.TypeFloat64:
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return "", fmt.Errorf("invalid float default %s", lit)
		}
		lit = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return "", fmt.Errorf("%s fields cannot declare a default", t)
	}
	return lit, nil
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '`') && s[len(s)-1] == q
}

func (c *Column) schemaError(msg string, cause error) *SchemaError {
	err := NewSchemaError(c.Entity.Name, c.Name, msg, cause)
	err.Pos = c.Pos
	return err
}

func (c *Column) validationError(msg string, value any) *ValidationError {
	err := NewValidationError(c.Entity.Name, c.Name, value, msg)
	err.Pos = c.Pos
	return err
}

// Nillable reports if the model holds the field through a pointer.
func (c *Column) Nillable() bool { return c.Type.Nillable }

// PropertyName returns the name of the query property of the column.
func (c *Column) PropertyName() string { return pascal(c.Column) }

// Property returns the query property of the column.
func (c *Column) Property() *jen.Statement {
	return jen.Id(c.Entity.TableVar()).Dot(c.PropertyName())
}

// SQLType returns the type of the physical column.
func (c *Column) SQLType() string {
	return Affinity(c.Combiner.StorageType().Type)
}

// ModelDefault returns the default in the model representation, without
// pointer. Columns without a declared default use the zero value.
func (c *Column) ModelDefault() *jen.Statement {
	return modelDefault(c.Type, c.Default, c.Combiner.Runtime)
}

// LoadDefault returns the value assigned to the field when the column is
// NULL or missing from a cursor: the model default for values, nil or a
// pointer to the declared default for pointers.
func (c *Column) LoadDefault() *jen.Statement {
	return loadDefault(c.Type, c.Default, c.Combiner)
}

// StoreDefault returns the storage value written for a nil pointer field,
// or nil when NULL is written.
func (c *Column) StoreDefault() jen.Code {
	return storeDefault(c.Type, c.Default, c.Combiner)
}

func modelDefault(t field.TypeInfo, lit, rt string) *jen.Statement {
	if lit == "" {
		return zeroValue(t.Elem(), rt)
	}
	if t.Named() {
		return jen.Qual(t.PkgPath, t.Ident).Call(jen.Op(lit))
	}
	return jen.Op(lit)
}

func loadDefault(t field.TypeInfo, lit string, cb Combiner) *jen.Statement {
	if !t.Nillable {
		return modelDefault(t, lit, cb.Runtime)
	}
	if lit == "" {
		return jen.Nil()
	}
	return jen.Qual(cb.Runtime, "Ptr").Types(TypeCode(t.Elem(), cb.Runtime)).Call(modelDefault(t, lit, cb.Runtime))
}

func storeDefault(t field.TypeInfo, lit string, cb Combiner) jen.Code {
	if !t.Nillable || lit == "" {
		return nil
	}
	def := modelDefault(t, lit, cb.Runtime)
	if cb.Wrapper != nil {
		def = AccessGet(cb.Wrapper, def)
	}
	return cb.Stored(def)
}

// CreationFragment returns the definition of the column in a CREATE TABLE
// statement.
func (c *Column) CreationFragment() string {
	var b strings.Builder
	b.WriteString(quote(c.Column))
	b.WriteByte(' ')
	b.WriteString(c.SQLType())
	if c.Length > 0 {
		fmt.Fprintf(&b, "(%d)", c.Length)
	}
	if sql, ok := goLiteralToSQL(c.Default); ok {
		b.WriteString(" DEFAULT ")
		b.WriteString(sql)
	}
	conflict := keyword(c.Entity.PrimaryKeyConflict)
	switch c.ColumnType {
	case ColumnPrimaryAutoIncrement:
		b.WriteString(" PRIMARY KEY")
		writeConflict(&b, conflict)
		b.WriteString(" AUTOINCREMENT")
	case ColumnRowID:
		b.WriteString(" PRIMARY KEY")
		writeConflict(&b, conflict)
	}
	if c.Collate != "" {
		b.WriteString(" COLLATE ")
		b.WriteString(c.Collate)
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
		writeConflict(&b, c.UniqueConflict)
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
		writeConflict(&b, c.NullConflict)
	}
	return b.String()
}

func writeConflict(b *strings.Builder, conflict string) {
	if conflict != "" {
		b.WriteString(" ON CONFLICT ")
		b.WriteString(conflict)
	}
}

// target returns the per-column input of the access combiners.
func (c *Column) target(model jen.Code, index int, def jen.Code) Target {
	return Target{
		Column:         c.Column,
		Property:       c.Property(),
		Default:        def,
		Index:          index,
		Model:          model,
		DefineProperty: true,
	}
}
