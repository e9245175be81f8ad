package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/schema/field"
)

// SQLite storage affinities.
const (
	AffinityInteger = "INTEGER"
	AffinityReal    = "REAL"
	AffinityText    = "TEXT"
	AffinityBlob    = "BLOB"
)

// Affinity returns the SQLite column type storing values of t.
func Affinity(t field.Type) string {
	switch t {
	case field.TypeBool, field.TypeByte, field.TypeInt, field.TypeInt32, field.TypeInt64:
		return AffinityInteger
	case field.TypeFloat32, field.TypeFloat64:
		return AffinityReal
	case field.TypeString, field.TypeEnum, field.TypeRune:
		return AffinityText
	case field.TypeBytes, field.TypeBlob:
		return AffinityBlob
	default:
		panic(fmt.Sprintf("litegen/gen: no storage affinity for %s", t))
	}
}

// methodSuffix returns the suffix of the runtime.Statement Bind and the
// runtime.Cursor Get methods handling values of t.
func methodSuffix(t field.Type) string {
	switch t {
	case field.TypeBool:
		return "Bool"
	case field.TypeInt:
		return "Int"
	case field.TypeInt32:
		return "Int32"
	case field.TypeByte, field.TypeInt64:
		return "Int64"
	case field.TypeFloat32:
		return "Float32"
	case field.TypeFloat64:
		return "Float64"
	case field.TypeString, field.TypeEnum, field.TypeRune:
		return "String"
	case field.TypeBytes, field.TypeBlob:
		return "Bytes"
	default:
		panic(fmt.Sprintf("litegen/gen: no bind method for %s", t))
	}
}

// storable reports if a converter may produce values of t.
func storable(t field.Type) bool {
	switch t {
	case field.TypeBool, field.TypeInt, field.TypeInt32, field.TypeInt64,
		field.TypeFloat32, field.TypeFloat64, field.TypeString, field.TypeBytes, field.TypeBlob:
		return true
	}
	return false
}

// TypeCode returns the Go type of info. rt is the import path of the runtime package.
func TypeCode(info field.TypeInfo, rt string) *jen.Statement {
	s := &jen.Statement{}
	if info.Nillable {
		s.Op("*")
	}
	switch {
	case info.Ident != "":
		s.Qual(info.PkgPath, info.Ident)
	case info.Type == field.TypeBytes:
		s.Index().Byte()
	case info.Type == field.TypeBlob:
		s.Qual(rt, "Blob")
	default:
		s.Id(info.Type.String())
	}
	return s
}

// zeroValue returns the zero value of a non-pointer type.
func zeroValue(info field.TypeInfo, rt string) *jen.Statement {
	switch {
	case info.Type == field.TypeEnum && info.Ident != "":
		return jen.Qual(info.PkgPath, info.Ident).Call(jen.Lit(""))
	case info.Ident != "":
		return jen.Op("*").New(jen.Qual(info.PkgPath, info.Ident))
	}
	switch info.Type {
	case field.TypeBool:
		return jen.False()
	case field.TypeString:
		return jen.Lit("")
	case field.TypeBytes:
		return jen.Nil()
	case field.TypeBlob:
		return jen.Qual(rt, "Blob").Values()
	default:
		return jen.Lit(0)
	}
}
