// Package sqlite implements the gen.Dialect of the SQLite adapters.
//
// Usage:
//
//	graph, err := gen.NewGraph(cfg, project)
//	if err != nil {
//		return err
//	}
//	err = sqlite.Generate(ctx, graph)
//
// Generated code structure:
//
//	{target}/
//	├── {entity}_adapter.go  # Table properties, adapter type and methods
//	└── database.go          # Migrations of all tables
//	{models}/
//	└── {entity}_helper.go   # Access to unexported model fields
package sqlite

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/gen"
)

// Dialect emits the SQLite adapters of a graph.
type Dialect struct {
	graph *gen.Graph
}

var _ gen.Dialect = (*Dialect)(nil)

// NewDialect returns the dialect of g.
func NewDialect(g *gen.Graph) gen.Dialect {
	return &Dialect{graph: g}
}

// Name implements gen.Dialect.
func (d *Dialect) Name() string { return "sqlite" }

// GenAdapter implements gen.Dialect.
func (d *Dialect) GenAdapter(e *gen.Entity) *jen.File {
	f := d.graph.NewFile()
	genTable(d.graph, f, e)
	genAdapter(d.graph, f, e)
	return f
}

// GenDatabase implements gen.Dialect.
func (d *Dialect) GenDatabase() *jen.File {
	f := d.graph.NewFile()
	genDatabase(d.graph, f)
	return f
}

// GenHelper implements gen.Dialect.
func (d *Dialect) GenHelper(h *gen.HelperType) *jen.File {
	return genHelper(d.graph, h)
}

// Generate writes the SQLite adapters of the resolved graph g.
func Generate(ctx context.Context, g *gen.Graph) error {
	return gen.Generate(ctx, g, NewDialect)
}
