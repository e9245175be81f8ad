package gen

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/schema/field"
)

// Accessor describes how generated code reads or writes one value.
//
// The set of accessors is closed. Field accessors (DirectAccessor,
// GetterSetterAccessor and HelperAccessor) reach a field of a model.
// Wrapper accessors (TypeConverterAccessor, EnumAccessor, BlobAccessor,
// BooleanAccessor, CharAccessor and ByteAccessor) convert a value between
// its model and its storage representation. Accessors hold no state beyond
// their construction and AccessGet and AccessSet may be called any number
// of times.
type Accessor interface {
	accessor()
}

type (
	// DirectAccessor reads and writes an exported struct field.
	DirectAccessor struct {
		Property string
	}

	// GetterSetterAccessor goes through exported methods of the model.
	GetterSetterAccessor struct {
		Property string
		Getter   string
		Setter   string
	}

	// HelperAccessor goes through a helper type generated into the model
	// package, for unexported fields that have no accessor methods.
	HelperAccessor struct {
		Property string
		PkgPath  string // model package
		Helper   string // helper type name, e.g. UserHelper
		Getter   string
		Setter   string
	}

	// TypeConverterAccessor converts through a converter instance held by
	// the generated adapter.
	TypeConverterAccessor struct {
		Receiver  string // adapter receiver name
		Converter string // adapter field holding the converter
		Qualifier string // optional property of the value to convert
		DB        field.TypeInfo
	}

	// EnumAccessor stores an enum by its string value.
	EnumAccessor struct {
		Enum field.TypeInfo
	}

	// BlobAccessor stores a runtime.Blob as bytes.
	BlobAccessor struct {
		Runtime string
	}

	// BooleanAccessor stores a bool as an integer.
	BooleanAccessor struct {
		Runtime string
	}

	// CharAccessor stores a rune as a one character string.
	CharAccessor struct {
		Runtime string
	}

	// ByteAccessor stores a byte as an integer.
	ByteAccessor struct {
		Runtime string
	}
)

func (DirectAccessor) accessor()        {}
func (GetterSetterAccessor) accessor()  {}
func (HelperAccessor) accessor()        {}
func (TypeConverterAccessor) accessor() {}
func (EnumAccessor) accessor()          {}
func (BlobAccessor) accessor()          {}
func (BooleanAccessor) accessor()       {}
func (CharAccessor) accessor()          {}
func (ByteAccessor) accessor()          {}

// AccessGet returns the expression reading a value through a. For field
// accessors existing is the model, for wrappers it is the value to convert.
func AccessGet(a Accessor, existing jen.Code) *jen.Statement {
	switch a := a.(type) {
	case DirectAccessor:
		if existing == nil {
			return jen.Id(a.Property)
		}
		return jen.Add(existing).Dot(a.Property)
	case GetterSetterAccessor:
		if existing == nil {
			return jen.Id(a.Getter).Call()
		}
		return jen.Add(existing).Dot(a.Getter).Call()
	case HelperAccessor:
		return jen.Qual(a.PkgPath, a.Helper).Values().Dot(a.Getter).Call(existing)
	case TypeConverterAccessor:
		return jen.Id(a.Receiver).Dot(a.Converter).Dot("DBValue").Call(qualify(existing, a.Qualifier))
	case EnumAccessor:
		return jen.Qual(a.Enum.PkgPath, a.Enum.Ident).Dot("String").Call(existing)
	case BlobAccessor:
		return jen.Qual(a.Runtime, "Blob").Dot("Bytes").Call(existing)
	case BooleanAccessor:
		return jen.Qual(a.Runtime, "BoolInt").Call(existing)
	case CharAccessor:
		return jen.String().Call(existing)
	case ByteAccessor:
		return jen.Int64().Call(existing)
	default:
		panic(unknownAccessor(a))
	}
}

// AccessSet returns the code writing value through a. Field accessors return
// a statement assigning to target. Wrappers return the converted expression
// and ignore target. A default value is already in the model representation
// and passes through wrappers unchanged.
func AccessSet(a Accessor, value, target jen.Code, isDefault bool) *jen.Statement {
	switch a := a.(type) {
	case DirectAccessor:
		if target == nil {
			return jen.Id(a.Property).Op("=").Add(value)
		}
		return jen.Add(target).Dot(a.Property).Op("=").Add(value)
	case GetterSetterAccessor:
		if target == nil {
			return jen.Id(a.Setter).Call(value)
		}
		return jen.Add(target).Dot(a.Setter).Call(value)
	case HelperAccessor:
		return jen.Qual(a.PkgPath, a.Helper).Values().Dot(a.Setter).Call(target, value)
	}
	if isDefault {
		return jen.Add(value)
	}
	switch a := a.(type) {
	case TypeConverterAccessor:
		return jen.Id(a.Receiver).Dot(a.Converter).Dot("ModelValue").Call(qualify(value, a.Qualifier))
	case EnumAccessor:
		return jen.Qual(a.Enum.PkgPath, "Parse"+a.Enum.Ident).Call(value)
	case BlobAccessor:
		return jen.Qual(a.Runtime, "NewBlob").Call(value)
	case BooleanAccessor:
		return jen.Add(value)
	case CharAccessor:
		return jen.Qual(a.Runtime, "FirstRune").Call(value)
	case ByteAccessor:
		return jen.Byte().Call(value)
	default:
		panic(unknownAccessor(a))
	}
}

// AccessFunc returns the function value equivalent to AccessGet on a
// wrapper, for use with runtime.MapPtr.
func AccessFunc(a Accessor) *jen.Statement {
	switch a := a.(type) {
	case TypeConverterAccessor:
		if a.Qualifier != "" {
			panic(fmt.Sprintf("litegen/gen: converter %s qualified by %s has no function form", a.Converter, a.Qualifier))
		}
		return jen.Id(a.Receiver).Dot(a.Converter).Dot("DBValue")
	case EnumAccessor:
		return jen.Qual(a.Enum.PkgPath, a.Enum.Ident).Dot("String")
	case BlobAccessor:
		return jen.Qual(a.Runtime, "Blob").Dot("Bytes")
	case BooleanAccessor:
		return jen.Qual(a.Runtime, "BoolInt")
	case CharAccessor:
		return jen.Qual(a.Runtime, "RuneString")
	case ByteAccessor:
		return jen.Qual(a.Runtime, "ByteInt")
	default:
		panic(fmt.Sprintf("litegen/gen: %T has no function form", a))
	}
}

// IsFieldAccessor reports if a reaches a model field rather than converting a value.
func IsFieldAccessor(a Accessor) bool {
	switch a.(type) {
	case DirectAccessor, GetterSetterAccessor, HelperAccessor:
		return true
	}
	return false
}

// IsPrimitiveTarget reports if a query property compares the value produced
// by a as is. Other wrappers produce the storage representation and are
// compared against the inverted property.
func IsPrimitiveTarget(a Accessor) bool {
	switch a.(type) {
	case DirectAccessor, GetterSetterAccessor, HelperAccessor, BooleanAccessor:
		return true
	case TypeConverterAccessor, EnumAccessor, BlobAccessor, CharAccessor, ByteAccessor:
		return false
	default:
		panic(unknownAccessor(a))
	}
}

// Fallible reports if the set expression of a returns a value and an error.
func Fallible(a Accessor) bool {
	_, ok := a.(EnumAccessor)
	return ok
}

// Property returns the model property reached by a field accessor.
func Property(a Accessor) string {
	switch a := a.(type) {
	case DirectAccessor:
		return a.Property
	case GetterSetterAccessor:
		return a.Property
	case HelperAccessor:
		return a.Property
	}
	return ""
}

// outputType returns the type of the value produced by AccessGet(a, v) when v has type in.
func outputType(a Accessor, in field.TypeInfo) field.TypeInfo {
	out := field.TypeInfo{Nillable: in.Nillable}
	switch a := a.(type) {
	case DirectAccessor, GetterSetterAccessor, HelperAccessor:
		return in
	case TypeConverterAccessor:
		out = a.DB
		out.Nillable = in.Nillable
	case EnumAccessor, CharAccessor:
		out.Type = field.TypeString
	case BlobAccessor:
		out.Type = field.TypeBytes
	case BooleanAccessor, ByteAccessor:
		out.Type = field.TypeInt64
	default:
		panic(unknownAccessor(a))
	}
	return out
}

// inputType returns the storage type AccessSet(a, v) expects for v.
func inputType(a Accessor, model field.TypeInfo) field.TypeInfo {
	switch a := a.(type) {
	case DirectAccessor, GetterSetterAccessor, HelperAccessor:
		return model.Elem()
	case TypeConverterAccessor:
		return a.DB.Elem()
	case EnumAccessor, CharAccessor:
		return field.TypeInfo{Type: field.TypeString}
	case BlobAccessor:
		return field.TypeInfo{Type: field.TypeBytes}
	case BooleanAccessor:
		return field.TypeInfo{Type: field.TypeBool}
	case ByteAccessor:
		return field.TypeInfo{Type: field.TypeInt64}
	default:
		panic(unknownAccessor(a))
	}
}

func qualify(v jen.Code, qualifier string) jen.Code {
	if qualifier == "" {
		return v
	}
	return jen.Add(v).Dot(qualifier)
}

func unknownAccessor(a Accessor) string {
	return fmt.Sprintf("litegen/gen: unknown accessor %T", a)
}

// GetterName derives the getter method of a private property. An explicit
// name wins. Booleans use an Is prefix when isGetters is set. A property that
// already carries the prefix is used as is, exported.
func GetterName(property, explicit string, isBool, isGetters bool) string {
	if explicit != "" {
		return explicit
	}
	if isBool && isGetters {
		if hasAccessorPrefix(property, "is") {
			return export(property)
		}
		return "Is" + pascal(property)
	}
	if hasAccessorPrefix(property, "get") {
		return export(property)
	}
	return "Get" + pascal(property)
}

// SetterName derives the setter method of a private property. A leading Is
// is stripped before the Set prefix is added.
func SetterName(property, explicit string, isBool, isGetters bool) string {
	if explicit != "" {
		return explicit
	}
	if hasAccessorPrefix(property, "set") {
		return export(property)
	}
	if isBool && hasAccessorPrefix(property, "is") {
		property = property[2:]
	}
	return "Set" + pascal(property)
}

// hasAccessorPrefix reports if name starts with prefix (ignoring case)
// followed by the start of a new word.
func hasAccessorPrefix(name, prefix string) bool {
	if len(name) <= len(prefix) || !hasPrefixFold(name, prefix) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[len(prefix):])
	return unicode.IsUpper(r) || r == '_'
}

func export(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}
