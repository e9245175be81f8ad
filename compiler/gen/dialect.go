package gen

import "github.com/dave/jennifer/jen"

// Dialect emits the files of one target database from a resolved graph.
// Methods are called concurrently by the JenniferGenerator and must not
// mutate the graph.
type Dialect interface {
	// Name returns the dialect name, e.g. "sqlite".
	Name() string
	// GenAdapter generates the adapter of an entity ({entity}_adapter.go).
	GenAdapter(e *Entity) *jen.File
	// GenDatabase generates the graph-level database file (database.go).
	GenDatabase() *jen.File
	// GenHelper generates the helper type of a model package
	// ({entity}_helper.go).
	GenHelper(h *HelperType) *jen.File
}

// DialectFactory creates the dialect of a generation run.
type DialectFactory func(*Graph) Dialect
