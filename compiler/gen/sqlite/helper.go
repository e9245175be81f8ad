package sqlite

import (
	"path"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/gen"
)

// genHelper generates the helper type of h into its model package. The
// helper has one getter and one setter per unexported field the adapters
// reach.
func genHelper(g *gen.Graph, h *gen.HelperType) *jen.File {
	f := jen.NewFilePathName(h.PkgPath, path.Base(h.PkgPath))
	f.HeaderComment(g.HeaderComment())
	model := jen.Id("m").Op("*").Id(h.Entity)
	f.Commentf("%s gives the generated adapters access to the unexported fields of %s.", h.Name, h.Entity)
	f.Type().Id(h.Name).Struct()
	for _, m := range h.Methods {
		t := gen.TypeCode(m.Type, g.RuntimePkg())
		f.Line()
		f.Commentf("%s returns the %s field of m.", m.Getter, m.Field)
		f.Func().Params(jen.Id(h.Name)).Id(m.Getter).Params(model.Clone()).Add(t.Clone()).Block(
			jen.Return(jen.Id("m").Dot(m.Field)),
		)
		f.Line()
		f.Commentf("%s sets the %s field of m.", m.Setter, m.Field)
		f.Func().Params(jen.Id(h.Name)).Id(m.Setter).Params(model.Clone(), jen.Id("v").Add(t)).Block(
			jen.Id("m").Dot(m.Field).Op("=").Id("v"),
		)
	}
	return f
}
