package tuple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/types"
)

func TestJoinRow_PositionalAccess(t *testing.T) {
	left := NewBuilder(2).AddInt(1).AddString("a").Build()
	right := NewBuilder(1).AddNull().Build()

	jr := NewJoinRow(left, right)
	require.Equal(t, 3, jr.Len())
	assert.Equal(t, "1", jr.Get(0).String())
	assert.Equal(t, "a", jr.Get(1).String())
	assert.Nil(t, jr.Get(2))
	assert.Equal(t, "1\ta\tNULL", jr.String())

	flat := Materialize(jr)
	assert.True(t, Equal(jr, flat))
}

func TestJoinRow_Nested(t *testing.T) {
	a := NewTuple(types.NewIntField(1))
	b := NewTuple(types.NewIntField(2), types.NewIntField(3))
	c := NewTuple(types.NewIntField(4))

	jr := NewJoinRow(NewJoinRow(a, b), c)
	require.Equal(t, 4, jr.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, int64(i+1), jr.Get(i).(*types.IntField).Val)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NullRow(2), NullRow(2)))
	assert.False(t, Equal(NullRow(2), NullRow(3)))
	assert.False(t, Equal(NewBuilder(1).AddInt(1).Build(), NullRow(1)))
	assert.True(t, Equal(NewBuilder(1).AddString("x").Build(), NewBuilder(1).AddString("x").Build()))
}

func TestMetaData(t *testing.T) {
	md, err := NewMetaDataOf([]string{"id", "name"}, []types.Type{types.IntType, types.StringType})
	require.NoError(t, err)
	assert.Equal(t, 2, md.ColumnCount())

	idx, err := md.FindColumn("NAME")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = md.ColumnType(5)
	assert.Error(t, err)

	_, err = NewMetaDataOf([]string{"id"}, nil)
	assert.Error(t, err)

	proj, err := md.Project([]int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "STRING(name),INT(id)", proj.String())

	other := NewMetaData(Column{Name: "v", Type: types.FloatType})
	combined := Combine(md, other, false, true)
	assert.Equal(t, 3, combined.ColumnCount())
	assert.True(t, combined.Columns[2].Nullable)
	assert.False(t, md.Equals(combined))

	require.NoError(t, CheckWidth(NullRow(3), combined))
	assert.Error(t, CheckWidth(NullRow(2), combined))
}
