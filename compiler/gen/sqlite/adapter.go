package sqlite

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/litegen/compiler/gen"
)

// genTable generates the {Entity}Table var holding one query property per
// physical column.
func genTable(g *gen.Graph, f *jen.File, e *gen.Entity) {
	rt := g.RuntimePkg()
	cols := e.PhysicalColumns()
	f.Commentf("%s holds the query properties of the columns of %s.", e.TableVar(), e.Table)
	f.Var().Id(e.TableVar()).Op("=").StructFunc(func(s *jen.Group) {
		for _, c := range cols {
			s.Id(c.PropertyName()).Qual(rt, "Property")
		}
	}).Values(jen.DictFunc(func(d jen.Dict) {
		for _, c := range cols {
			d[jen.Id(c.PropertyName())] = jen.Qual(rt, "NewProperty").Call(jen.Lit(e.Table), jen.Lit(c.Name))
		}
	}))
}

// genAdapter generates the adapter type of e, its constructor, the package
// var holding it and its methods. Views and queries only get the methods
// reading models.
func genAdapter(g *gen.Graph, f *jen.File, e *gen.Entity) {
	rt := g.RuntimePkg()
	name := e.AdapterName()
	f.Commentf("%s maps %s models to the %s %s.", name, e.Name, e.Table, e.Kind)
	f.Type().Id(name).StructFunc(func(s *jen.Group) {
		for _, c := range e.Converters() {
			s.Id(c.FieldName()).Add(c.TypeCode())
		}
	})
	f.Commentf("New%s returns a new %s.", name, name)
	f.Func().Id("New"+name).Params().Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values()),
	)
	f.Commentf("%s is the adapter of %s.", e.AdapterVar(), e.Name)
	f.Var().Id(e.AdapterVar()).Op("=").Id("New" + name).Call()

	iface := "QueryAdapter"
	if e.HasTable() {
		iface = "ModelAdapter"
	}
	f.Var().Id("_").Qual(rt, iface).Types(e.TypeCode()).Op("=").Parens(jen.Op("*").Id(name)).Call(jen.Nil())

	m := &methods{f: f, rt: rt, adapter: name, model: e.TypeCode()}
	m.add("TableName", nil, jen.String(), func(g *jen.Group) {
		g.Return(jen.Lit(e.Table))
	})
	m.add("NewInstance", nil, jen.Op("*").Add(e.TypeCode()), func(g *jen.Group) {
		g.Return(jen.Op("&").Add(e.TypeCode()).Values())
	})
	m.add("LoadFromCursor",
		[]jen.Code{jen.Id(gen.CursorVar).Op("*").Qual(rt, "Cursor"), m.modelParam(), m.dbParam()},
		jen.Error(), e.LoadFromCursor)
	m.add("PropertyValue",
		[]jen.Code{m.modelParam(), jen.Id(gen.ColumnVar).String()},
		jen.Any(), e.PropertyValue)
	if !e.HasTable() {
		return
	}
	m.add("CreationQuery", nil, jen.String(), func(g *jen.Group) {
		g.Return(jen.Lit(e.CreationQuery()))
	})
	m.add("IndexQueries", nil, jen.Index().String(), func(g *jen.Group) {
		qs := e.IndexQueries()
		if len(qs) == 0 {
			g.Return(jen.Nil())
			return
		}
		g.Return(jen.Index().String().ValuesFunc(func(g *jen.Group) {
			for _, q := range qs {
				g.Lit(q)
			}
		}))
	})
	m.add("InsertStatementQuery", nil, jen.String(), func(g *jen.Group) {
		g.Return(jen.Lit(e.InsertQuery()))
	})
	m.add("UpdateStatementQuery", nil, jen.String(), func(g *jen.Group) {
		g.Return(jen.Lit(e.UpdateQuery()))
	})
	m.add("DeleteStatementQuery", nil, jen.String(), func(g *jen.Group) {
		g.Return(jen.Lit(e.DeleteQuery()))
	})
	values := jen.Id(gen.ValuesVar).Op("*").Qual(rt, "ContentValues")
	m.add("BindToContentValues", []jen.Code{values, m.modelParam()}, nil, e.BindToContentValues)
	m.add("BindToInsertValues", []jen.Code{values.Clone(), m.modelParam()}, nil, e.BindToInsertValues)
	stmt := jen.Id(gen.StatementVar).Op("*").Qual(rt, "Statement")
	m.add("BindToInsertStatement",
		[]jen.Code{stmt, m.modelParam(), jen.Id(gen.StartVar).Int()},
		nil, e.BindToInsertStatement)
	m.add("BindToUpdateStatement", []jen.Code{stmt.Clone(), m.modelParam()}, nil, e.BindToUpdateStatement)
	m.add("BindToDeleteStatement", []jen.Code{stmt.Clone(), m.modelParam()}, nil, e.BindToDeleteStatement)
	m.add("PrimaryConditionClause", []jen.Code{m.modelParam()},
		jen.Op("*").Qual(rt, "OperatorGroup"), e.PrimaryConditionClause)
	m.add("Exists", []jen.Code{m.modelParam(), m.dbParam()},
		jen.Parens(jen.List(jen.Bool(), jen.Error())), e.Exists)
	m.add("SaveForeignKeys", []jen.Code{m.modelParam(), m.dbParam()}, jen.Error(), e.SaveForeignKeys)
	m.add("DeleteForeignKeys", []jen.Code{m.modelParam(), m.dbParam()}, jen.Error(), e.DeleteForeignKeys)
	m.add("UpdateAutoIncrement", []jen.Code{m.modelParam(), jen.Id("id").Int64()}, nil, e.UpdateAutoIncrement)
}

// methods adds the methods of one adapter type to a file.
type methods struct {
	f       *jen.File
	rt      string
	adapter string
	model   *jen.Statement
}

func (m *methods) modelParam() jen.Code {
	return jen.Id(gen.ModelVar).Op("*").Add(m.model.Clone())
}

func (m *methods) dbParam() jen.Code {
	return jen.Id(gen.DBVar).Qual(m.rt, "Database")
}

// add generates the method name with the given parameters and results. A
// nil result declares no results.
func (m *methods) add(name string, params []jen.Code, result jen.Code, body func(*jen.Group)) {
	s := m.f.Func().Params(jen.Id(gen.Receiver).Op("*").Id(m.adapter)).Id(name).Params(params...)
	if result != nil {
		s.Add(result)
	}
	s.BlockFunc(body)
	m.f.Line()
}
