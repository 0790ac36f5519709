package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dberror "shardexec/pkg/error"
	"shardexec/pkg/evaluator"
	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// ============================================================================
// HELPERS
// ============================================================================

func outerRows() *iterator.RowsOperator {
	md := tuple.NewMetaData(tuple.Column{Name: "id", Type: types.IntType})
	return iterator.NewRowsOperator(md, []tuple.Row{
		tuple.NewTuple(types.NewIntField(1)),
		tuple.NewTuple(types.NewIntField(2)),
		tuple.NewTuple(types.NewIntField(3)),
	})
}

func innerRows() *iterator.RowsOperator {
	md := tuple.NewMetaData(
		tuple.Column{Name: "id", Type: types.IntType},
		tuple.Column{Name: "val", Type: types.StringType},
	)
	return iterator.NewRowsOperator(md, []tuple.Row{
		tuple.NewTuple(types.NewIntField(2), types.NewStringField("x")),
		tuple.NewTuple(types.NewIntField(2), types.NewStringField("y")),
	})
}

// counting wraps an operator and counts calls reaching it.
type counting struct {
	iterator.Operator
	inits  int
	moves  int
	closes int
}

func (c *counting) Init() error {
	c.inits++
	return c.Operator.Init()
}

func (c *counting) MoveNext() (bool, error) {
	c.moves++
	return c.Operator.MoveNext()
}

func (c *counting) Close() error {
	c.closes++
	return c.Operator.Close()
}

func newJoin(t *testing.T, outer, inner iterator.Operator, jt plan.JoinType, innerOnLeft bool) *NestedLoopJoin {
	t.Helper()
	left, right := 0, 1
	if innerOnLeft {
		left, right = 0, 2
	}
	md := ConditionMetaData(outer.MetaData(), inner.MetaData(), innerOnLeft)
	cond, err := evaluator.Compile(plan.Eq(plan.Col(left), plan.Col(right)), md, nil)
	require.NoError(t, err)

	j, err := NewNestedLoopJoin(outer, inner, jt, cond, innerOnLeft)
	require.NoError(t, err)
	return j
}

func format(t *testing.T, op iterator.Operator) []string {
	t.Helper()
	rows, err := iterator.Collect(op)
	require.NoError(t, err)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = tuple.Format(r)
	}
	return out
}

// ============================================================================
// NESTED LOOP JOIN TESTS
// ============================================================================

func TestNestedLoopJoin_JoinTypes(t *testing.T) {
	tests := []struct {
		joinType plan.JoinType
		width    int
		want     []string
	}{
		{plan.InnerJoin, 3, []string{"2\t2\tx", "2\t2\ty"}},
		{plan.LeftJoin, 3, []string{"1\tNULL\tNULL", "2\t2\tx", "2\t2\ty", "3\tNULL\tNULL"}},
		{plan.SemiJoin, 1, []string{"2"}},
		{plan.AntiJoin, 1, []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.joinType.String(), func(t *testing.T) {
			j := newJoin(t, outerRows(), innerRows(), tt.joinType, false)
			defer j.Close()

			assert.Equal(t, tt.width, j.MetaData().ColumnCount())
			assert.Equal(t, tt.want, format(t, j))
		})
	}
}

func TestNestedLoopJoin_InnerOnLeft(t *testing.T) {
	j := newJoin(t, outerRows(), innerRows(), plan.LeftJoin, true)
	defer j.Close()

	md := j.MetaData()
	assert.Equal(t, "val", md.Columns[1].Name)
	assert.True(t, md.Columns[0].Nullable)
	assert.False(t, md.Columns[2].Nullable)
	assert.Equal(t, []string{"NULL\tNULL\t1", "2\tx\t2", "2\ty\t2", "NULL\tNULL\t3"}, format(t, j))
}

func TestNestedLoopJoin_NilConditionIsCrossProduct(t *testing.T) {
	j, err := NewNestedLoopJoin(outerRows(), innerRows(), plan.InnerJoin, nil, false)
	require.NoError(t, err)

	n, err := iterator.Count(j)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestNestedLoopJoin_EmptySides(t *testing.T) {
	emptyInner := iterator.NewEmptyOperator(innerRows().MetaData())
	j := newJoin(t, outerRows(), emptyInner, plan.LeftJoin, false)
	assert.Equal(t, []string{"1\tNULL\tNULL", "2\tNULL\tNULL", "3\tNULL\tNULL"}, format(t, j))

	emptyOuter := iterator.NewEmptyOperator(outerRows().MetaData())
	j = newJoin(t, emptyOuter, innerRows(), plan.AntiJoin, false)
	assert.Empty(t, format(t, j))
}

func TestNestedLoopJoin_InnerRunsOnce(t *testing.T) {
	inner := &counting{Operator: innerRows()}
	j := newJoin(t, outerRows(), inner, plan.InnerJoin, false)

	_, err := iterator.Collect(j)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.moves, "two rows plus end of stream")
}

func TestNestedLoopJoin_InitOnce(t *testing.T) {
	outer := &counting{Operator: outerRows()}
	inner := &counting{Operator: innerRows()}
	j := newJoin(t, outer, inner, plan.InnerJoin, false)

	require.NoError(t, j.Init())
	require.NoError(t, j.Init())
	_, err := j.MoveNext()
	require.NoError(t, err)

	assert.Equal(t, 1, outer.inits)
	assert.Equal(t, 1, inner.inits)
}

func TestNestedLoopJoin_CloseOnce(t *testing.T) {
	outer := &counting{Operator: outerRows()}
	inner := &counting{Operator: innerRows()}
	j := newJoin(t, outer, inner, plan.SemiJoin, false)

	_, err := j.MoveNext()
	require.NoError(t, err)

	require.NoError(t, j.Close())
	require.NoError(t, j.Close())
	assert.Equal(t, 1, outer.closes)
	assert.Equal(t, 1, inner.closes)
}

func TestNestedLoopJoin_CloseWithoutInit(t *testing.T) {
	outer := &counting{Operator: outerRows()}
	inner := &counting{Operator: innerRows()}
	j := newJoin(t, outer, inner, plan.InnerJoin, false)

	require.NoError(t, j.Close())
	assert.Equal(t, 1, outer.closes)
	assert.Equal(t, 1, inner.closes)
	assert.Equal(t, 0, inner.inits)
}

func TestNewNestedLoopJoin_Invalid(t *testing.T) {
	_, err := NewNestedLoopJoin(outerRows(), innerRows(), plan.JoinType(42), nil, false)
	require.Error(t, err)
	assert.True(t, dberror.HasCode(err, dberror.CodeInvalidArgument))

	_, err = NewNestedLoopJoin(nil, innerRows(), plan.InnerJoin, nil, false)
	assert.True(t, dberror.HasCode(err, dberror.CodeInvalidArgument))
}

func TestNewBufferedOperator_NilChild(t *testing.T) {
	_, err := NewBufferedOperator(nil)
	require.Error(t, err)
	assert.True(t, dberror.HasCode(err, dberror.CodeInvalidArgument))
	assert.True(t, dberror.HasCategory(err, dberror.ErrCategoryUser))
}

// ============================================================================
// BUFFERED OPERATOR TESTS
// ============================================================================

func TestBufferedOperator_Replay(t *testing.T) {
	child := &counting{Operator: innerRows()}
	b, err := NewBufferedOperator(child)
	require.NoError(t, err)

	assert.Equal(t, 0, b.Len())
	first := format(t, b)
	require.NoError(t, b.Reset())
	second := format(t, b)

	assert.Equal(t, []string{"2\tx", "2\ty"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 3, child.moves)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 1, child.closes)
}

func TestBufferedOperator_ResetBeforeInit(t *testing.T) {
	b, err := NewBufferedOperator(innerRows())
	require.NoError(t, err)

	require.NoError(t, b.Reset())
	assert.Len(t, format(t, b), 2)

	_, err = b.Current()
	assert.Error(t, err)
}
