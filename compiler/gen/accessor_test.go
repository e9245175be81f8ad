package gen

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"

	"github.com/syssam/litegen/schema/field"
)

func TestAccessGet(t *testing.T) {
	m := jen.Id("m")
	tests := []struct {
		name     string
		accessor Accessor
		existing jen.Code
		want     string
	}{
		{"direct", DirectAccessor{Property: "Name"}, m, "m.Name"},
		{"direct without model", DirectAccessor{Property: "Name"}, nil, "Name"},
		{"getter", GetterSetterAccessor{Property: "name", Getter: "GetName", Setter: "SetName"}, m, "m.GetName()"},
		{"getter without model", GetterSetterAccessor{Getter: "GetName"}, nil, "GetName()"},
		{"helper", HelperAccessor{Property: "nickname", PkgPath: testModels, Helper: "UserHelper", Getter: "GetNickname"}, m, "models.UserHelper{}.GetNickname(m)"},
		{"converter", TypeConverterAccessor{Receiver: "a", Converter: "converterTime"}, m, "a.converterTime.DBValue(m)"},
		{"qualified converter", TypeConverterAccessor{Receiver: "a", Converter: "converterTime", Qualifier: "At"}, m, "a.converterTime.DBValue(m.At)"},
		{"enum", EnumAccessor{Enum: field.TypeInfo{Type: field.TypeEnum, Ident: "Status", PkgPath: testModels}}, m, "models.Status.String(m)"},
		{"blob", BlobAccessor{Runtime: testRuntime}, m, "runtime.Blob.Bytes(m)"},
		{"bool", BooleanAccessor{Runtime: testRuntime}, m, "runtime.BoolInt(m)"},
		{"char", CharAccessor{Runtime: testRuntime}, m, "string(m)"},
		{"byte", ByteAccessor{Runtime: testRuntime}, m, "int64(m)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, compact(tt.want), compact(renderCode(AccessGet(tt.accessor, tt.existing))))
		})
	}
}

func TestAccessSet(t *testing.T) {
	m, v := jen.Id("m"), jen.Id("v")
	tests := []struct {
		name      string
		accessor  Accessor
		target    jen.Code
		isDefault bool
		want      string
	}{
		{"direct", DirectAccessor{Property: "Name"}, m, false, "m.Name = v"},
		{"direct without model", DirectAccessor{Property: "Name"}, nil, false, "Name = v"},
		{"setter", GetterSetterAccessor{Getter: "GetName", Setter: "SetName"}, m, false, "m.SetName(v)"},
		{"helper", HelperAccessor{PkgPath: testModels, Helper: "UserHelper", Setter: "SetNickname"}, m, false, "models.UserHelper{}.SetNickname(m, v)"},
		{"converter", TypeConverterAccessor{Receiver: "a", Converter: "converterTime"}, nil, false, "a.converterTime.ModelValue(v)"},
		{"enum", EnumAccessor{Enum: field.TypeInfo{Type: field.TypeEnum, Ident: "Status", PkgPath: testModels}}, nil, false, "models.ParseStatus(v)"},
		{"blob", BlobAccessor{Runtime: testRuntime}, nil, false, "runtime.NewBlob(v)"},
		{"bool", BooleanAccessor{Runtime: testRuntime}, nil, false, "v"},
		{"char", CharAccessor{Runtime: testRuntime}, nil, false, "runtime.FirstRune(v)"},
		{"byte", ByteAccessor{Runtime: testRuntime}, nil, false, "byte(v)"},
		{"default through converter", TypeConverterAccessor{Receiver: "a", Converter: "converterTime"}, nil, true, "v"},
		{"default through enum", EnumAccessor{Enum: field.TypeInfo{Type: field.TypeEnum, Ident: "Status", PkgPath: testModels}}, nil, true, "v"},
		{"default into field", DirectAccessor{Property: "Name"}, m, true, "m.Name = v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, compact(tt.want), compact(renderCode(AccessSet(tt.accessor, v, tt.target, tt.isDefault))))
		})
	}
}

func TestAccessFunc(t *testing.T) {
	assert.Equal(t, "a.converterTime.DBValue", compact(renderCode(AccessFunc(TypeConverterAccessor{Receiver: "a", Converter: "converterTime"}))))
	assert.Equal(t, "runtime.Blob.Bytes", compact(renderCode(AccessFunc(BlobAccessor{Runtime: testRuntime}))))
	assert.Equal(t, "runtime.BoolInt", compact(renderCode(AccessFunc(BooleanAccessor{Runtime: testRuntime}))))
	assert.Equal(t, "runtime.RuneString", compact(renderCode(AccessFunc(CharAccessor{Runtime: testRuntime}))))
	assert.Equal(t, "runtime.ByteInt", compact(renderCode(AccessFunc(ByteAccessor{Runtime: testRuntime}))))

	assert.Panics(t, func() { AccessFunc(DirectAccessor{Property: "Name"}) })
	assert.Panics(t, func() {
		AccessFunc(TypeConverterAccessor{Receiver: "a", Converter: "converterTime", Qualifier: "At"})
	})
}

func TestAccessorClassification(t *testing.T) {
	fields := []Accessor{DirectAccessor{}, GetterSetterAccessor{}, HelperAccessor{}}
	wrappers := []Accessor{TypeConverterAccessor{}, EnumAccessor{}, BlobAccessor{}, BooleanAccessor{}, CharAccessor{}, ByteAccessor{}}
	for _, a := range fields {
		assert.True(t, IsFieldAccessor(a), "%T", a)
		assert.True(t, IsPrimitiveTarget(a), "%T", a)
	}
	for _, a := range wrappers {
		assert.False(t, IsFieldAccessor(a), "%T", a)
	}
	assert.True(t, IsPrimitiveTarget(BooleanAccessor{}))
	assert.False(t, IsPrimitiveTarget(EnumAccessor{}))
	assert.False(t, IsPrimitiveTarget(TypeConverterAccessor{}))
	assert.False(t, IsPrimitiveTarget(BlobAccessor{}))

	assert.True(t, Fallible(EnumAccessor{}))
	assert.False(t, Fallible(TypeConverterAccessor{}))

	assert.Equal(t, "Name", Property(DirectAccessor{Property: "Name"}))
	assert.Equal(t, "name", Property(GetterSetterAccessor{Property: "name"}))
	assert.Equal(t, "nickname", Property(HelperAccessor{Property: "nickname"}))
	assert.Empty(t, Property(BlobAccessor{}))
}

func TestOutputAndInputType(t *testing.T) {
	ptrString := field.TypeInfo{Type: field.TypeString, Nillable: true}
	assert.Equal(t, ptrString, outputType(DirectAccessor{}, ptrString))

	enum := field.TypeInfo{Type: field.TypeEnum, Ident: "Status", PkgPath: testModels, Nillable: true}
	assert.Equal(t, field.TypeInfo{Type: field.TypeString, Nillable: true}, outputType(EnumAccessor{}, enum))
	assert.Equal(t, field.TypeInfo{Type: field.TypeString}, inputType(EnumAccessor{}, enum))

	conv := TypeConverterAccessor{DB: field.TypeInfo{Type: field.TypeInt64}}
	other := field.TypeInfo{Type: field.TypeOther, Ident: "Time", PkgPath: "time"}
	assert.Equal(t, field.TypeInfo{Type: field.TypeInt64}, outputType(conv, other))
	assert.Equal(t, field.TypeInfo{Type: field.TypeInt64}, inputType(conv, other))

	assert.Equal(t, field.TypeBytes, outputType(BlobAccessor{}, field.TypeInfo{Type: field.TypeBlob}).Type)
	assert.Equal(t, field.TypeInt64, outputType(BooleanAccessor{}, field.TypeInfo{Type: field.TypeBool}).Type)
	assert.Equal(t, field.TypeBool, inputType(BooleanAccessor{}, field.TypeInfo{Type: field.TypeBool}).Type)
	assert.Equal(t, field.TypeInt64, inputType(ByteAccessor{}, field.TypeInfo{Type: field.TypeByte}).Type)
}

func TestGetterSetterNames(t *testing.T) {
	tests := []struct {
		property  string
		explicit  [2]string
		isBool    bool
		isGetters bool
		getter    string
		setter    string
	}{
		{property: "name", getter: "GetName", setter: "SetName"},
		{property: "author_id", getter: "GetAuthorID", setter: "SetAuthorID"},
		{property: "active", isBool: true, getter: "GetActive", setter: "SetActive"},
		{property: "active", isBool: true, isGetters: true, getter: "IsActive", setter: "SetActive"},
		{property: "isActive", isBool: true, isGetters: true, getter: "IsActive", setter: "SetActive"},
		{property: "island", isBool: true, isGetters: true, getter: "IsIsland", setter: "SetIsland"},
		{property: "getValue", getter: "GetValue", setter: "SetGetValue"},
		{property: "setting", getter: "GetSetting", setter: "SetSetting"},
		{property: "name", explicit: [2]string{"Name", "Rename"}, getter: "Name", setter: "Rename"},
	}
	for _, tt := range tests {
		t.Run(tt.property+"/"+tt.getter, func(t *testing.T) {
			assert.Equal(t, tt.getter, GetterName(tt.property, tt.explicit[0], tt.isBool, tt.isGetters))
			assert.Equal(t, tt.setter, SetterName(tt.property, tt.explicit[1], tt.isBool, tt.isGetters))
		})
	}
}
