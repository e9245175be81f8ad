package gen

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"

	"github.com/syssam/litegen/schema/field"
)

func target(column string, index int, def jen.Code) Target {
	return Target{
		Column:         column,
		Property:       jen.Id("UserTable").Dot(pascal(column)),
		Default:        def,
		Index:          index,
		Model:          jen.Id(ModelVar),
		DefineProperty: true,
	}
}

func emit(c AccessCombiner, t Target) string {
	return render(func(g *jen.Group) { c.AddCode(g, t) })
}

func emitNull(c AccessCombiner, t Target) string {
	return render(func(g *jen.Group) { c.AddNull(g, t) })
}

func TestSimpleAccessCombiner(t *testing.T) {
	names := NewNameAllocator()
	c := &SimpleAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: names}
	assertCode(t, emit(c, target("name", 0, nil)), "return model.Name")
	assertCode(t, emitNull(c, target("name", 0, nil)), "return nil")

	ptr := &SimpleAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: names}
	assertCode(t, emit(ptr, target("nick", 0, nil)), "return runtime.ValueOrNil(model.Nick)")

	// Property values stay in the model representation.
	conv := &SimpleAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Created"}, timeType, timeConverter()), Names: names}
	code := emit(conv, target("created", 0, nil))
	assertCode(t, code, "return model.Created")
	assertNoCode(t, code, "DBValue")
}

func TestExistenceAccessCombiner(t *testing.T) {
	id := NewCombiner(testRuntime, DirectAccessor{Property: "ID"}, int64Type)
	ptrID := NewCombiner(testRuntime, DirectAccessor{Property: "ID"}, ptrInt64Type)

	t.Run("quick check", func(t *testing.T) {
		c := &ExistenceAccessCombiner{Combiner: id, Names: NewNameAllocator(), AutoRowID: true, QuickCheck: true, Adapter: jen.Id("a")}
		code := emit(c, target("id", 0, nil))
		// A zero key is not taken as absent: it falls through to the query.
		assertCode(t, code,
			"if model.ID > 0 { return true, nil }",
			"n, err := runtime.Count(db, a, a.PrimaryConditionClause(model))",
			"return n > 0, err",
		)
		assertNoCode(t, code, "return false, nil")
	})

	t.Run("quick check on pointer", func(t *testing.T) {
		c := &ExistenceAccessCombiner{Combiner: ptrID, Names: NewNameAllocator(), AutoRowID: true, QuickCheck: true, Adapter: jen.Id("a")}
		code := emit(c, target("id", 0, nil))
		assertCode(t, code,
			"if model.ID != nil && *model.ID > 0 || model.ID == nil { return true, nil }",
			"n, err := runtime.Count(db, a, a.PrimaryConditionClause(model))",
		)
		assertNoCode(t, code, "return false, nil")
	})

	t.Run("pointer key without quick check", func(t *testing.T) {
		c := &ExistenceAccessCombiner{Combiner: ptrID, Names: NewNameAllocator(), AutoRowID: true, Adapter: jen.Id("a")}
		code := emit(c, target("id", 0, nil))
		assertCode(t, code,
			"if !(model.ID != nil && *model.ID > 0) { return false, nil }",
			"n, err := runtime.Count(db, a, a.PrimaryConditionClause(model))",
		)
		assertNoCode(t, code, "== nil")
	})

	t.Run("in-memory check before query", func(t *testing.T) {
		c := &ExistenceAccessCombiner{Combiner: id, Names: NewNameAllocator(), AutoRowID: true, Adapter: jen.Id("a")}
		assertCode(t, emit(c, target("id", 0, nil)),
			"if !(model.ID > 0) { return false, nil }",
			"n, err := runtime.Count(db, a, a.PrimaryConditionClause(model))",
			"return n > 0, err",
		)
	})

	t.Run("query only", func(t *testing.T) {
		c := &ExistenceAccessCombiner{Combiner: Combiner{Runtime: testRuntime}, Names: NewNameAllocator(), Adapter: jen.Id("a")}
		code := emit(c, Target{Model: jen.Id(ModelVar)})
		assertCode(t, code, "n, err := runtime.Count(db, a, a.PrimaryConditionClause(model))")
		assertNoCode(t, code, "if !")
	})

	t.Run("no null form", func(t *testing.T) {
		c := &ExistenceAccessCombiner{Combiner: id, Names: NewNameAllocator(), AutoRowID: true}
		assert.Equal(t, "funcf(){}", compact(emitNull(c, target("id", 0, nil))))
	})
}

func TestContentValuesCombiner(t *testing.T) {
	t.Run("primitive", func(t *testing.T) {
		c := &ContentValuesCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("name", 0, nil)), `values.Put("name", model.Name)`)
	})

	t.Run("pointer with default", func(t *testing.T) {
		c := &ContentValuesCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("nick", 0, jen.Lit("anon"))), `values.Put("nick", runtime.Coalesce(model.Nick, "anon"))`)
	})

	t.Run("pointer without default", func(t *testing.T) {
		c := &ContentValuesCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("nick", 0, nil)), `values.Put("nick", runtime.ValueOrNil(model.Nick))`)
	})

	t.Run("converted", func(t *testing.T) {
		c := &ContentValuesCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Created"}, timeType, timeConverter()), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("created", 0, nil)), `values.Put("created", a.converterTimeConverter.DBValue(model.Created))`)
	})

	t.Run("null", func(t *testing.T) {
		c := &ContentValuesCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: NewNameAllocator()}
		assertCode(t, emitNull(c, target("nick", 0, nil)), `values.PutNull("nick")`)
	})
}

func TestSqliteStatementAccessCombiner(t *testing.T) {
	t.Run("relative position", func(t *testing.T) {
		c := &SqliteStatementAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: NewNameAllocator(), Start: StartVar}
		assertCode(t, emit(c, target("name", 2, nil)), "stmt.BindString(start + 2, model.Name)")
	})

	t.Run("absolute position", func(t *testing.T) {
		c := &SqliteStatementAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "ID"}, int64Type), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("id", 5, nil)), "stmt.BindInt64(5, model.ID)")
	})

	t.Run("pointer with default", func(t *testing.T) {
		c := &SqliteStatementAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("nick", 1, jen.Lit("anon"))),
			"if model.Nick != nil { stmt.BindString(1, *model.Nick) } else { stmt.BindString(1, \"anon\") }",
		)
	})

	t.Run("pointer without default", func(t *testing.T) {
		c := &SqliteStatementAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("nick", 1, nil)), "runtime.BindOrNull(stmt, stmt.BindString, 1, model.Nick)")
	})

	t.Run("wrapped pointer", func(t *testing.T) {
		ptrTime := timeType
		ptrTime.Nillable = true
		c := &SqliteStatementAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Created"}, ptrTime, timeConverter()), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("created", 3, nil)),
			"refCreated := runtime.MapPtr(model.Created, a.converterTimeConverter.DBValue)",
			"runtime.BindOrNull(stmt, stmt.BindInt64, 3, refCreated)",
		)
	})

	t.Run("null", func(t *testing.T) {
		c := &SqliteStatementAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: NewNameAllocator(), Start: StartVar}
		assertCode(t, emitNull(c, target("name", 4, nil)), "stmt.BindNull(start + 4)")
	})
}

func TestLoadFromCursorAccessCombiner(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: NewNameAllocator(), AssignDefaults: true}
		assertCode(t, emit(c, target("name", 1, jen.Lit(""))),
			`model.Name = runtime.ValueOrDefault(cursor, cursor.GetColumnIndex("name"), cursor.GetString, "")`,
		)
	})

	t.Run("ordered", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: NewNameAllocator(), Ordered: true, AssignDefaults: true}
		assertCode(t, emit(c, target("name", 1, jen.Lit(""))),
			`model.Name = runtime.ValueOrDefault(cursor, 1, cursor.GetString, "")`,
		)
	})

	t.Run("keeps the current value without defaults", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Nick"}, ptrStringType), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("nick", 0, jen.Nil())),
			`model.Nick = runtime.PtrOrDefault(cursor, cursor.GetColumnIndex("nick"), cursor.GetString, model.Nick)`,
		)
	})

	t.Run("wrapped", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Created"}, timeType, timeConverter()), Names: NewNameAllocator(), AssignDefaults: true}
		assertCode(t, emit(c, target("created", 2, jen.Id("zero"))),
			`if index := cursor.GetColumnIndex("created"); index != -1 && !cursor.IsNull(index) {`,
			"model.Created = a.converterTimeConverter.ModelValue(cursor.GetInt64(index))",
			"} else { model.Created = zero }",
		)
	})

	t.Run("wrapped ordered without defaults", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Created"}, timeType, timeConverter()), Names: NewNameAllocator(), Ordered: true}
		code := emit(c, target("created", 2, jen.Id("zero")))
		assertCode(t, code,
			"if !cursor.IsNull(2) {",
			"model.Created = a.converterTimeConverter.ModelValue(cursor.GetInt64(2))",
		)
		assertNoCode(t, code, "else")
	})

	t.Run("enum parse failure takes the default", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Status"}, statusType, EnumAccessor{Enum: statusType}), Names: NewNameAllocator(), AssignDefaults: true}
		assertCode(t, emit(c, target("status", 0, jen.Id("def"))),
			"if v, err := models.ParseStatus(cursor.GetString(index)); err == nil { model.Status = v } else { model.Status = def }",
		)
	})

	t.Run("null assigns the default", func(t *testing.T) {
		c := &LoadFromCursorAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Name"}, stringType), Names: NewNameAllocator(), AssignDefaults: true}
		assertCode(t, emitNull(c, target("name", 0, jen.Lit("x"))), `model.Name = "x"`)
		assert.Equal(t, "funcf(){}", compact(emitNull(c, target("name", 0, nil))))
	})
}

func TestPrimaryReferenceAccessCombiner(t *testing.T) {
	t.Run("primitive", func(t *testing.T) {
		c := &PrimaryReferenceAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "ID"}, int64Type), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("id", 0, nil)), "clause.And(UserTable.ID.Eq(model.ID))")
	})

	t.Run("pointer", func(t *testing.T) {
		c := &PrimaryReferenceAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "ID"}, ptrInt64Type), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("id", 0, nil)), "clause.And(UserTable.ID.Eq(runtime.ValueOrNil(model.ID)))")
	})

	t.Run("converted value against the inverted property", func(t *testing.T) {
		c := &PrimaryReferenceAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Created"}, timeType, timeConverter()), Names: NewNameAllocator()}
		assertCode(t, emit(c, target("created", 0, nil)),
			"clause.And(UserTable.Created.InvertProperty().Eq(a.converterTimeConverter.DBValue(model.Created)))",
		)
	})

	t.Run("boolean compares the model value", func(t *testing.T) {
		boolType := field.TypeInfo{Type: field.TypeBool}
		c := &PrimaryReferenceAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "Flag"}, boolType, BooleanAccessor{Runtime: testRuntime}), Names: NewNameAllocator()}
		code := emit(c, target("flag", 0, nil))
		assertCode(t, code, "clause.And(UserTable.Flag.Eq(model.Flag))")
		assertNoCode(t, code, "InvertProperty", "BoolInt")
	})

	t.Run("null", func(t *testing.T) {
		c := &PrimaryReferenceAccessCombiner{Combiner: NewCombiner(testRuntime, DirectAccessor{Property: "ID"}, int64Type), Names: NewNameAllocator()}
		assertCode(t, emitNull(c, target("id", 0, nil)), "clause.And(UserTable.ID.Eq(nil))")
	})
}

func TestCascadeCombiners(t *testing.T) {
	user := field.TypeInfo{Type: field.TypeModel, Ident: "User", PkgPath: testModels, Nillable: true}
	cb := NewCombiner(testRuntime, DirectAccessor{Property: "Author"}, user)

	save := &SaveModelAccessCombiner{Combiner: cb, Adapter: jen.Id("Users")}
	assertCode(t, emit(save, Target{Model: jen.Id(ModelVar)}),
		"if model.Author != nil { if err := runtime.Save[models.User](db, Users, model.Author); err != nil { return err } }",
	)

	del := &DeleteModelAccessCombiner{Combiner: cb, Adapter: jen.Id("Users")}
	assertCode(t, emit(del, Target{Model: jen.Id(ModelVar)}),
		"if err := runtime.Delete[models.User](db, Users, model.Author); err != nil",
	)
	assert.Equal(t, "funcf(){}", compact(emitNull(del, Target{})))
}
