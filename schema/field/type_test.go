package field_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/litegen/schema/field"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want field.Type
	}{
		{"int64", field.TypeInt64},
		{"long", field.TypeInt64},
		{"Char", field.TypeRune},
		{"uint8", field.TypeByte},
		{"[]byte", field.TypeBytes},
		{"double", field.TypeFloat64},
		{" enum ", field.TypeEnum},
		{"model", field.TypeModel},
	}
	for _, tt := range tests {
		got, err := field.ParseType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := field.ParseType("decimal")
	require.Error(t, err)
}

func TestType_Predicates(t *testing.T) {
	assert.True(t, field.TypeInt32.Numeric())
	assert.False(t, field.TypeString.Numeric())
	assert.True(t, field.TypeBool.Integer())
	assert.False(t, field.TypeRune.Integer())
	assert.True(t, field.TypeEnum.Native())
	assert.False(t, field.TypeOther.Native())
	assert.False(t, field.TypeModel.Native())
	assert.False(t, field.TypeInvalid.Valid())
	assert.Equal(t, "invalid", field.Type(200).String())
}

func TestTypeInfo_Decode(t *testing.T) {
	var info field.TypeInfo
	require.NoError(t, yaml.Unmarshal([]byte("kind: enum\nnillable: true\nident: Status\npkg: example.com/app/models\n"), &info))
	assert.Equal(t, field.TypeEnum, info.Type)
	assert.True(t, info.Nillable)
	assert.Equal(t, "*models.Status", info.String())
	assert.False(t, info.Primitive())
	assert.Equal(t, "models.Status", info.Elem().String())

	var raw field.TypeInfo
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"bytes"}`), &raw))
	assert.Equal(t, "[]byte", raw.String())
	assert.True(t, raw.Primitive())
}
