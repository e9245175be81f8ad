package field

import (
	"fmt"
	"strings"
)

// A Type represents a field type.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeByte
	TypeRune
	TypeInt
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBytes
	TypeBlob
	TypeEnum
	TypeModel
	TypeOther
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeByte:    "byte",
	TypeRune:    "rune",
	TypeInt:     "int",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeString:  "string",
	TypeBytes:   "bytes",
	TypeBlob:    "blob",
	TypeEnum:    "enum",
	TypeModel:   "model",
	TypeOther:   "other",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is known.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t >= TypeInt && t <= TypeFloat64
}

// Integer reports if the given type is stored with INTEGER affinity.
func (t Type) Integer() bool {
	return t >= TypeBool && t <= TypeInt64 && t != TypeRune
}

// Native reports if values of this type can be stored without a type converter.
func (t Type) Native() bool {
	return t.Valid() && t != TypeModel && t != TypeOther
}

// ParseType parses the textual type name as written in schema files.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "char":
		return TypeRune, nil
	case "uint8":
		return TypeByte, nil
	case "[]byte":
		return TypeBytes, nil
	case "float", "double":
		return TypeFloat64, nil
	case "long":
		return TypeInt64, nil
	}
	for t := TypeBool; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TypeInfo holds the full info of a field type.
type TypeInfo struct {
	Type     Type   `json:"kind" yaml:"kind" msgpack:"kind"`
	Nillable bool   `json:"nillable,omitempty" yaml:"nillable,omitempty" msgpack:"nillable,omitempty"`
	Ident    string `json:"ident,omitempty" yaml:"ident,omitempty" msgpack:"ident,omitempty"`
	PkgPath  string `json:"pkg,omitempty" yaml:"pkg,omitempty" msgpack:"pkg,omitempty"`
}

// String returns the Go spelling of the type.
func (t TypeInfo) String() string {
	var b strings.Builder
	if t.Nillable {
		b.WriteByte('*')
	}
	switch {
	case t.Ident != "":
		if t.PkgPath != "" {
			b.WriteString(t.PkgName())
			b.WriteByte('.')
		}
		b.WriteString(t.Ident)
	case t.Type == TypeBytes:
		b.WriteString("[]byte")
	case t.Type == TypeBlob:
		b.WriteString("runtime.Blob")
	default:
		b.WriteString(t.Type.String())
	}
	return b.String()
}

// PkgName returns the last path element of the type's package.
func (t TypeInfo) PkgName() string {
	if i := strings.LastIndexByte(t.PkgPath, '/'); i >= 0 {
		return t.PkgPath[i+1:]
	}
	return t.PkgPath
}

// Primitive reports if the model holds the value directly instead of through
// a pointer. Primitive values need no nil checks in generated code.
func (t TypeInfo) Primitive() bool {
	return !t.Nillable
}

// Named reports if the type is a user-declared named type.
func (t TypeInfo) Named() bool { return t.Ident != "" }

// Elem returns a copy of the type info with the pointer removed.
func (t TypeInfo) Elem() TypeInfo {
	t.Nillable = false
	return t
}
