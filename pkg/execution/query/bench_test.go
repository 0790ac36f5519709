package query

import (
	"math/rand"
	"testing"

	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

func benchRows(n int) []tuple.Row {
	r := rand.New(rand.NewSource(1))
	rows := make([]tuple.Row, n)
	for i := range rows {
		rows[i] = tuple.NewTuple(types.NewIntField(int64(i)), types.NewIntField(r.Int63n(1000)))
	}
	return rows
}

func drainBench(b *testing.B, op iterator.Operator) {
	if _, err := iterator.Count(op); err != nil {
		b.Fatal(err)
	}
	_ = op.Close()
}

func BenchmarkSort(b *testing.B) {
	rows := benchRows(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op, err := NewSort(iterator.NewRowsOperator(scoreMeta(), rows), plan.Collation{plan.Asc(1)})
		if err != nil {
			b.Fatal(err)
		}
		drainBench(b, op)
	}
}

func BenchmarkTopN(b *testing.B) {
	rows := benchRows(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op, err := NewTopN(iterator.NewRowsOperator(scoreMeta(), rows), plan.Collation{plan.Asc(1)},
			plan.LimitOf(10), plan.LimitOf(100), nil)
		if err != nil {
			b.Fatal(err)
		}
		drainBench(b, op)
	}
}
