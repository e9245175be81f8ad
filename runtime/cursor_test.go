package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	c := NewCursorFromRows([]string{"id", "name", "score", "data", "flag"},
		[]any{int64(7), "ada", 1.5, []byte("xy"), int64(1)},
		[]any{nil, nil, nil, nil, nil},
	)
	require.True(t, c.Next())
	assert.Equal(t, 1, c.GetColumnIndex("name"))
	assert.Equal(t, -1, c.GetColumnIndex("missing"))
	assert.EqualValues(t, 7, c.GetInt64(0))
	assert.Equal(t, 7, c.GetInt(0))
	assert.Equal(t, "ada", c.GetString(1))
	assert.InDelta(t, 1.5, c.GetFloat64(2), 0)
	assert.Equal(t, []byte("xy"), c.GetBytes(3))
	assert.True(t, c.GetBool(4))
	assert.False(t, c.IsNull(0))

	require.True(t, c.Next())
	assert.True(t, c.IsNull(0))
	assert.Equal(t, "", c.GetString(1))
	assert.Nil(t, c.GetBytes(3))
	assert.False(t, c.Next())
}

func TestValueOrDefault(t *testing.T) {
	c := NewCursorFromRows([]string{"n", "s"}, []any{int64(3), nil})
	require.True(t, c.Next())

	assert.EqualValues(t, 3, ValueOrDefault(c, 0, c.GetInt64, 9))
	assert.EqualValues(t, 9, ValueOrDefault(c, -1, c.GetInt64, 9))
	assert.Equal(t, "def", ValueOrDefault(c, 1, c.GetString, "def"))

	p := PtrOrDefault(c, 0, c.GetInt64, nil)
	require.NotNil(t, p)
	assert.EqualValues(t, 3, *p)
	assert.Nil(t, PtrOrDefault(c, 1, c.GetString, nil))
	assert.Equal(t, "x", *PtrOrDefault(c, c.GetColumnIndex("missing"), c.GetString, Ptr("x")))
}

func TestStatement(t *testing.T) {
	s := NewStatement("INSERT INTO t VALUES (?,?,?,?)")
	s.BindInt64(1, 5)
	s.BindBool(3, true)
	BindOrNull(s, s.BindString, 4, nil)
	BindOrNull(s, s.BindString, 2, Ptr("v"))
	assert.Equal(t, []any{int64(5), "v", int64(1), nil}, s.Args())
	assert.Panics(t, func() { s.BindNull(0) })
}

func TestHelpers(t *testing.T) {
	assert.Nil(t, MapPtr[int, string](nil, func(int) string { return "x" }))
	assert.Equal(t, "2", *MapPtr(Ptr(2), func(i int) string { return string(rune('0' + i)) }))
	assert.Nil(t, ValueOrNil[int](nil))
	assert.Equal(t, 4, ValueOrNil(Ptr(4)))
	assert.Equal(t, 8, Coalesce[int](nil, 8))
	assert.Equal(t, 'h', FirstRune("hi"))
	assert.Equal(t, rune(0), FirstRune(""))
	assert.Equal(t, "é", RuneString('é'))
	assert.EqualValues(t, 255, ByteInt(255))
	assert.Equal(t, []byte("b"), NewBlob([]byte("b")).Bytes())
}

func TestContentValues(t *testing.T) {
	v := NewContentValues()
	v.Put("name", "ada")
	v.PutNull("author_id")
	v.Put("active", true)
	v.Put("name", "grace")

	assert.Equal(t, []string{"name", "author_id", "active"}, v.Keys())
	assert.True(t, v.IsNull("author_id"))
	got, ok := v.Get("active")
	assert.True(t, ok)
	assert.EqualValues(t, 1, got)

	stmt := v.Insert("user")
	assert.Equal(t, "INSERT INTO `user`(`name`,`author_id`,`active`) VALUES (?,?,?)", stmt.Query())
	assert.Equal(t, []any{"grace", nil, int64(1)}, stmt.Args())
}

func TestOperatorGroup(t *testing.T) {
	id := NewProperty("user", "id")
	name := NewProperty("user", "name")

	where, args := Clause().And(id.Eq(1)).And(name.Eq(nil)).SQL()
	assert.Equal(t, "`user`.`id` = ? AND `user`.`name` IS NULL", where)
	assert.Equal(t, []any{1}, args)

	where, args = Clause().SQL()
	assert.Equal(t, "1", where)
	assert.Empty(t, args)

	assert.True(t, id.InvertProperty().Inverted)
	assert.False(t, id.Inverted)
}
