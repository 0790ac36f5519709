package aggregation

import (
	"testing"

	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

func BenchmarkHashAggregate(b *testing.B) {
	md := tuple.NewMetaData(
		tuple.Column{Name: "user_id", Type: types.IntType},
		tuple.Column{Name: "amount", Type: types.IntType},
	)
	rows := make([]tuple.Row, 10000)
	for i := range rows {
		rows[i] = tuple.NewTuple(types.NewIntField(int64(i%100)), types.NewIntField(int64(i)))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sum, err := NewFunction(plan.AggregateCall{Kind: plan.AggSum, Column: 1}, md)
		if err != nil {
			b.Fatal(err)
		}
		op, err := NewHashAggregate(iterator.NewRowsOperator(md, rows), []int{0}, []Function{sum})
		if err != nil {
			b.Fatal(err)
		}
		n, err := iterator.Count(op)
		if err != nil || n != 100 {
			b.Fatalf("groups = %d, err = %v", n, err)
		}
		_ = op.Close()
	}
}
