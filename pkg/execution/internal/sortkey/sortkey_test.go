package sortkey

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

func md() *tuple.MetaData {
	return tuple.NewMetaData(
		tuple.Column{Name: "a", Type: types.IntType, Nullable: true},
		tuple.Column{Name: "b", Type: types.StringType},
	)
}

func row(a any, b string) tuple.Row {
	var f types.Field
	if a != nil {
		f = types.NewIntField(int64(a.(int)))
	}
	return tuple.NewTuple(f, types.NewStringField(b))
}

func TestComparator(t *testing.T) {
	tests := []struct {
		name string
		keys plan.Collation
		a, b tuple.Row
		want int
	}{
		{"asc less", plan.Collation{plan.Asc(0)}, row(1, "x"), row(2, "x"), -1},
		{"desc less becomes greater", plan.Collation{plan.Desc(0)}, row(1, "x"), row(2, "x"), 1},
		{"tie broken by second key", plan.Collation{plan.Asc(0), plan.Desc(1)}, row(1, "a"), row(1, "b"), 1},
		{"full tie", plan.Collation{plan.Asc(0), plan.Asc(1)}, row(1, "a"), row(1, "a"), 0},
		{"nulls first", plan.Collation{plan.Asc(0)}, row(nil, "x"), row(1, "x"), -1},
		{"nulls last on desc", plan.Collation{plan.Desc(0)}, row(nil, "x"), row(1, "x"), 1},
		{"nulls first on desc", plan.Collation{{Column: 0, Descending: true, Nulls: plan.NullsFirst}}, row(nil, "x"), row(1, "x"), -1},
		{"both null", plan.Collation{plan.Asc(0)}, row(nil, "x"), row(nil, "y"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.keys, md())
			require.NoError(t, err)
			got, err := c.Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sign(got))
		})
	}
}

func TestNew_InvalidColumn(t *testing.T) {
	_, err := New(plan.Collation{plan.Asc(5)}, md())
	assert.Error(t, err)
}

func TestSorter_Stable(t *testing.T) {
	c, err := New(plan.Collation{plan.Asc(0)}, md())
	require.NoError(t, err)

	s := &Sorter{
		Rows: []tuple.Row{row(2, "first"), row(1, "a"), row(2, "second"), row(1, "b")},
		Cmp:  c,
	}
	sort.Stable(s)
	require.NoError(t, s.Err)

	got := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		got[i] = r.Get(1).String()
	}
	assert.Equal(t, []string{"a", "b", "first", "second"}, got)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
