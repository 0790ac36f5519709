package aggregation

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
	dberror "shardexec/pkg/error"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// Accumulator folds the rows of one group into an aggregate value.
type Accumulator interface {
	// Aggregate folds row into the running state.
	Aggregate(row tuple.Row) error

	// Result returns the current aggregate value; nil is NULL.
	Result() types.Field
}

// Factory returns an accumulator in its zero state. A factory captures the
// aggregate's configuration only, so it can be called once per group.
type Factory func() Accumulator

// Function is one aggregate output column.
type Function struct {
	Name string
	Type types.Type
	New  Factory
}

// NewFunction resolves call against the input row shape. SUM and AVG accept
// numeric columns only; AVG over INT or DECIMAL yields DECIMAL.
func NewFunction(call plan.AggregateCall, input *tuple.MetaData) (Function, error) {
	name := call.Name
	if name == "" {
		name = call.String()
	}

	if call.Kind == plan.AggCountStar {
		if call.Distinct {
			return Function{}, dberror.InvalidArgument("HashAggregate", "COUNT(*) cannot be DISTINCT")
		}
		return Function{Name: name, Type: types.IntType, New: func() Accumulator { return &countAcc{} }}, nil
	}

	colType, err := input.ColumnType(call.Column)
	if err != nil {
		return Function{}, dberror.InvalidArgument("HashAggregate", "%s: %v", call, err)
	}

	col := call.Column
	var fn Function
	switch call.Kind {
	case plan.AggCount:
		fn = Function{Type: types.IntType, New: func() Accumulator { return &countAcc{column: col, skipNulls: true} }}

	case plan.AggSum:
		switch colType {
		case types.IntType:
			fn = Function{Type: types.IntType, New: func() Accumulator { return &intSumAcc{column: col} }}
		case types.FloatType:
			fn = Function{Type: types.FloatType, New: func() Accumulator { return &floatSumAcc{column: col} }}
		case types.DecimalType:
			fn = Function{Type: types.DecimalType, New: func() Accumulator { return newDecimalSumAcc(col) }}
		default:
			return Function{}, typeError(call, colType)
		}

	case plan.AggAvg:
		switch colType {
		case types.IntType, types.DecimalType:
			fn = Function{Type: types.DecimalType, New: func() Accumulator { return &avgAcc{sum: newDecimalSumAcc(col)} }}
		case types.FloatType:
			fn = Function{Type: types.FloatType, New: func() Accumulator { return &floatAvgAcc{sum: floatSumAcc{column: col}} }}
		default:
			return Function{}, typeError(call, colType)
		}

	case plan.AggMin, plan.AggMax:
		want := -1
		if call.Kind == plan.AggMax {
			want = 1
		}
		fn = Function{Type: colType, New: func() Accumulator { return &extremeAcc{column: col, want: want} }}

	default:
		return Function{}, dberror.InvalidArgument("HashAggregate", "unknown aggregate kind %d", int(call.Kind))
	}

	fn.Name = name
	if call.Distinct {
		inner := fn.New
		fn.New = func() Accumulator { return &distinctAcc{column: col, seen: newGroupTable[struct{}](), inner: inner()} }
	}
	return fn, nil
}

func typeError(call plan.AggregateCall, t types.Type) error {
	return &dberror.DBError{
		Code:      dberror.CodeTypeMismatch,
		Category:  dberror.ErrCategoryUser,
		Message:   fmt.Sprintf("%s does not accept %s", call.Kind, t),
		Component: "HashAggregate",
		Cause:     fmt.Errorf("%s over %s", call, t),
	}
}

// countAcc counts rows, or non-NULL values of column when skipNulls is set.
type countAcc struct {
	column    int
	skipNulls bool
	n         int64
}

func (a *countAcc) Aggregate(row tuple.Row) error {
	if a.skipNulls && row.Get(a.column) == nil {
		return nil
	}
	a.n++
	return nil
}

func (a *countAcc) Result() types.Field { return types.NewIntField(a.n) }

type intSumAcc struct {
	column int
	sum    int64
	seen   bool
}

func (a *intSumAcc) Aggregate(row tuple.Row) error {
	v := row.Get(a.column)
	if v == nil {
		return nil
	}
	x, ok := v.(*types.IntField)
	if !ok {
		return fmt.Errorf("SUM expected INT, got %s", v.Type())
	}
	if (x.Val > 0 && a.sum > math.MaxInt64-x.Val) || (x.Val < 0 && a.sum < math.MinInt64-x.Val) {
		return fmt.Errorf("SUM overflows INT")
	}
	a.sum += x.Val
	a.seen = true
	return nil
}

func (a *intSumAcc) Result() types.Field {
	if !a.seen {
		return nil
	}
	return types.NewIntField(a.sum)
}

type floatSumAcc struct {
	column int
	sum    float64
	n      int64
}

func (a *floatSumAcc) Aggregate(row tuple.Row) error {
	v := row.Get(a.column)
	if v == nil {
		return nil
	}
	x, err := types.ToFloat64(v)
	if err != nil {
		return err
	}
	a.sum += x
	a.n++
	return nil
}

func (a *floatSumAcc) Result() types.Field {
	if a.n == 0 {
		return nil
	}
	return types.NewFloatField(a.sum)
}

type decimalSumAcc struct {
	column int
	sum    apd.Decimal
	n      int64
}

func newDecimalSumAcc(column int) *decimalSumAcc {
	return &decimalSumAcc{column: column}
}

func (a *decimalSumAcc) Aggregate(row tuple.Row) error {
	v := row.Get(a.column)
	if v == nil {
		return nil
	}
	x, err := types.ToDecimal(v)
	if err != nil {
		return err
	}
	if _, err := types.DecimalContext.Add(&a.sum, &a.sum, x); err != nil {
		return err
	}
	a.n++
	return nil
}

func (a *decimalSumAcc) Result() types.Field {
	if a.n == 0 {
		return nil
	}
	return types.NewDecimalField(new(apd.Decimal).Set(&a.sum))
}

type avgAcc struct {
	sum *decimalSumAcc
}

func (a *avgAcc) Aggregate(row tuple.Row) error {
	return a.sum.Aggregate(row)
}

func (a *avgAcc) Result() types.Field {
	if a.sum.n == 0 {
		return nil
	}
	q := new(apd.Decimal)
	if _, err := types.DecimalContext.Quo(q, &a.sum.sum, apd.New(a.sum.n, 0)); err != nil {
		return nil
	}
	q.Reduce(q)
	return types.NewDecimalField(q)
}

type floatAvgAcc struct {
	sum floatSumAcc
}

func (a *floatAvgAcc) Aggregate(row tuple.Row) error {
	return a.sum.Aggregate(row)
}

func (a *floatAvgAcc) Result() types.Field {
	if a.sum.n == 0 {
		return nil
	}
	return types.NewFloatField(a.sum.sum / float64(a.sum.n))
}

// extremeAcc keeps the smallest (want=-1) or largest (want=1) non-NULL value.
type extremeAcc struct {
	column int
	want   int
	best   types.Field
}

func (a *extremeAcc) Aggregate(row tuple.Row) error {
	v := row.Get(a.column)
	if v == nil {
		return nil
	}
	if a.best == nil {
		a.best = v
		return nil
	}
	c, err := types.CompareFields(v, a.best)
	if err != nil {
		return err
	}
	if (a.want < 0 && c < 0) || (a.want > 0 && c > 0) {
		a.best = v
	}
	return nil
}

func (a *extremeAcc) Result() types.Field { return a.best }

// distinctAcc passes each distinct non-NULL value of column to inner once.
type distinctAcc struct {
	column int
	seen   *groupTable[struct{}]
	inner  Accumulator
}

func (a *distinctAcc) Aggregate(row tuple.Row) error {
	v := row.Get(a.column)
	if v == nil {
		return nil
	}
	key := GroupByKey{values: []types.Field{v}, hash: hashValues([]types.Field{v})}
	if a.seen.contains(key) {
		return nil
	}
	a.seen.find(key, func() struct{} { return struct{}{} })
	return a.inner.Aggregate(row)
}

func (a *distinctAcc) Result() types.Field { return a.inner.Result() }
