// Package field holds the field type taxonomy shared by the schema loader
// and the code generator.
//
// A field type is described by a [TypeInfo]: the storage-independent kind of
// the value, whether the model holds it behind a pointer (nillable), and for
// named types the Go identifier and its import path:
//
//	field.TypeInfo{Type: field.TypeInt64}                             // int64
//	field.TypeInfo{Type: field.TypeString, Nillable: true}            // *string
//	field.TypeInfo{Type: field.TypeEnum, Ident: "Status", PkgPath: m} // m.Status
//	field.TypeInfo{Type: field.TypeModel, Ident: "User", PkgPath: m}  // *m.User
//
// Kinds that SQLite stores natively need no type converter. [TypeModel]
// fields are relationships, and [TypeOther] fields always need a converter.
package field
