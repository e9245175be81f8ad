package sqlite

import (
	"cmp"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/gen"
)

// genDatabase generates database.go: the creation and index queries of all
// tables in registration order, and per database when the entities name
// more than one.
func genDatabase(g *gen.Graph, f *jen.File) {
	rt := g.RuntimePkg()
	tables := g.Tables()
	f.Comment("Migrations returns the creation and index queries of all tables.")
	f.Func().Id("Migrations").Params().Index().String().Block(
		jen.Return(migrations(tables)),
	)
	f.Line()
	f.Comment("Migrate creates the tables and indexes that do not exist in db.")
	f.Func().Id("Migrate").Params(jen.Id(gen.DBVar).Qual(rt, "Database")).Error().Block(
		jen.Return(jen.Qual(rt, "Migrate").Call(jen.Id(gen.DBVar), jen.Id("Migrations").Call())),
	)
	var (
		names []string
		byDB  = make(map[string][]*gen.Entity)
	)
	for _, e := range tables {
		db := cmp.Or(e.Database, "main")
		if _, ok := byDB[db]; !ok {
			names = append(names, db)
		}
		byDB[db] = append(byDB[db], e)
	}
	if len(names) < 2 {
		return
	}
	f.Line()
	f.Comment("DatabaseMigrations returns the queries of the tables of the named")
	f.Comment("database, or nil for an unknown name.")
	f.Func().Id("DatabaseMigrations").Params(jen.Id("name").String()).Index().String().Block(
		jen.Switch(jen.Id("name")).BlockFunc(func(g *jen.Group) {
			for _, n := range names {
				g.Case(jen.Lit(n)).Block(jen.Return(migrations(byDB[n])))
			}
		}),
		jen.Return(jen.Nil()),
	)
}

func migrations(tables []*gen.Entity) *jen.Statement {
	return jen.Index().String().ValuesFunc(func(g *jen.Group) {
		for _, e := range tables {
			g.Line().Lit(e.CreationQuery())
			for _, q := range e.IndexQueries() {
				g.Line().Lit(q)
			}
		}
		g.Line()
	})
}
