package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/iterator"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

func users() *iterator.RowsOperator {
	md := tuple.NewMetaData(
		tuple.Column{Name: "id", Type: types.IntType},
		tuple.Column{Name: "name", Type: types.StringType, Nullable: true},
	)
	return iterator.NewRowsOperator(md, []tuple.Row{
		tuple.NewTuple(types.NewIntField(1), types.NewStringField("amy")),
		tuple.NewTuple(types.NewIntField(2), nil),
	})
}

func TestResultSet_ReadsOneBasedColumns(t *testing.T) {
	rs := New(users())
	defer rs.Close()

	assert.Equal(t, 2, rs.ColumnCount())
	label, err := rs.ColumnLabel(2)
	require.NoError(t, err)
	assert.Equal(t, "name", label)

	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	v, err := rs.GetValue(1, types.IntType)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.False(t, rs.WasNull())

	v, err = rs.GetValue(1, types.StringType)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = rs.GetValue(2, types.StringType)
	require.NoError(t, err)
	assert.Equal(t, "amy", v)

	ok, err = rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	v, err = rs.GetValue(2, types.StringType)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, rs.WasNull())

	ok, err = rs.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResultSet_ColumnIndexErrors(t *testing.T) {
	rs := New(users())

	_, err := rs.GetField(1)
	assert.Error(t, err, "no current row before Next")

	_, err = rs.Next()
	require.NoError(t, err)

	for _, idx := range []int{0, 3} {
		_, err := rs.GetField(idx)
		assert.Error(t, err, "index %d", idx)
	}
	require.NoError(t, rs.Close())
}

func TestResultSet_CloseIsIdempotent(t *testing.T) {
	rs := New(users())
	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())

	ok, err := rs.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
