package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

func TestLimitValue_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		value   LimitValue
		params  []any
		def     int64
		want    int64
		wantErr bool
	}{
		{name: "unset uses default", value: LimitValue{}, def: 7, want: 7},
		{name: "literal", value: LimitOf(3), want: 3},
		{name: "literal zero", value: LimitOf(0), def: 9, want: 0},
		{name: "param int64", value: LimitParam(1), params: []any{"x", int64(5)}, want: 5},
		{name: "param int", value: LimitParam(0), params: []any{4}, want: 4},
		{name: "param string digits", value: LimitParam(0), params: []any{"12"}, want: 12},
		{name: "param out of range", value: LimitParam(2), params: []any{1}, wantErr: true},
		{name: "param null", value: LimitParam(0), params: []any{nil}, wantErr: true},
		{name: "negative literal", value: LimitOf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Resolve(tt.params, tt.def)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLimitValue_String(t *testing.T) {
	assert.Equal(t, "none", LimitValue{}.String())
	assert.Equal(t, "10", LimitOf(10).String())
	assert.Equal(t, "?2", LimitParam(2).String())
	assert.True(t, LimitParam(0).IsParam())
	assert.False(t, LimitOf(1).IsParam())
}

func TestCollation_Validate(t *testing.T) {
	assert.NoError(t, Collation{Asc(0), Desc(1)}.Validate(2))
	assert.Error(t, Collation{Asc(2)}.Validate(2))
	assert.Error(t, Collation{}.Validate(2))
	assert.Equal(t, "[$0 ASC NULLS FIRST, $1 DESC NULLS LAST]", Collation{Asc(0), Desc(1)}.String())
}

func TestExprString(t *testing.T) {
	cond := And(
		Eq(&ColumnRef{Index: 0, Name: "id"}, Param(0)),
		NewCall(OpLike, Col(1), Lit("a'b%")),
		NewCall(OpIsNull, Col(2)),
	)
	assert.Equal(t, "(((id = ?0) AND ($1 LIKE 'a''b%')) AND ($2 IS NULL))", cond.String())
	assert.Nil(t, And())
	assert.Equal(t, "NULL", Lit(nil).String())
	assert.Equal(t, 1, OpNot.Arity())
	assert.Equal(t, 2, OpAdd.Arity())
}

func TestExplain(t *testing.T) {
	scan := func(sql string) *ScanNode {
		return &ScanNode{
			SQL:     sql,
			Columns: []tuple.Column{{Name: "id", Type: types.IntType}},
		}
	}
	root := &LimitNode{
		Input: &MergeSortNode{
			Inputs:    []PlanNode{scan("SELECT id FROM t_order"), scan("SELECT id FROM t_user")},
			Collation: Collation{Asc(0)},
			Fetch:     LimitOf(10),
		},
		Offset: LimitParam(0),
	}
	root.SetCardinality(10)

	want := "Limit(offset=?0) rows=10\n" +
		"  -> MergeSort(inputs=2, order=[$0 ASC NULLS FIRST], fetch=10)\n" +
		"    -> Scan(sql=\"SELECT id FROM t_order\", columns=1)\n" +
		"    -> Scan(sql=\"SELECT id FROM t_user\", columns=1)"
	assert.Equal(t, want, Explain(root))
}
