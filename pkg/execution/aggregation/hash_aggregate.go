// Package aggregation implements grouped aggregation over a child stream.
package aggregation

import (
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/iterator"
	"shardexec/pkg/metrics"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// HashAggregate groups its child's rows by a list of columns and folds every
// group through a list of aggregate functions.
//
// Init drains the child completely. Each output row holds the group-by
// values in group-by order followed by the aggregate results, one row per
// distinct key, in the order keys were first seen. With no group-by columns
// and an empty child, a single row is produced whose COUNTs are 0 and whose
// other aggregates are NULL.
type HashAggregate struct {
	*iterator.UnaryOperator
	md        *tuple.MetaData
	groupBy   []int
	functions []Function
	rows      *iterator.SliceIterator[tuple.Row]
}

// NewHashAggregate creates an aggregate of child.
func NewHashAggregate(child iterator.Operator, groupBy []int, functions []Function) (*HashAggregate, error) {
	if child == nil {
		return nil, dberror.InvalidArgument("HashAggregate", "child operator cannot be nil")
	}

	input := child.MetaData()
	cols := make([]tuple.Column, 0, len(groupBy)+len(functions))
	for _, idx := range groupBy {
		if idx < 0 || idx >= input.ColumnCount() {
			return nil, dberror.InvalidArgument("HashAggregate", "group-by column %d out of range [0, %d)", idx, input.ColumnCount())
		}
		cols = append(cols, input.Columns[idx])
	}
	for i, fn := range functions {
		if fn.New == nil {
			return nil, dberror.InvalidArgument("HashAggregate", "aggregate %d has no factory", i)
		}
		cols = append(cols, tuple.Column{Name: fn.Name, Type: fn.Type, Nullable: true})
	}

	h := &HashAggregate{
		md:        tuple.NewMetaData(cols...),
		groupBy:   append([]int(nil), groupBy...),
		functions: append([]Function(nil), functions...),
	}
	unary, err := iterator.NewUnaryOperator("HashAggregate", child, h.aggregate)
	if err != nil {
		return nil, err
	}
	h.UnaryOperator = unary
	return h, nil
}

func (h *HashAggregate) MetaData() *tuple.MetaData {
	return h.md
}

func (h *HashAggregate) newAccumulators() []Accumulator {
	accs := make([]Accumulator, len(h.functions))
	for i, fn := range h.functions {
		accs[i] = fn.New()
	}
	return accs
}

func (h *HashAggregate) aggregate() error {
	groups := newGroupTable[[]Accumulator]()

	for {
		row, err := h.FetchNext()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}

		accs := groups.find(NewGroupByKey(row, h.groupBy), h.newAccumulators)
		for i, acc := range accs {
			if err := acc.Aggregate(row); err != nil {
				return fmt.Errorf("aggregate %s: %w", h.functions[i].Name, err)
			}
		}
	}

	if groups.Len() == 0 && len(h.groupBy) == 0 {
		groups.find(GroupByKey{}, h.newAccumulators)
	}

	rows := make([]tuple.Row, groups.Len())
	for g, key := range groups.keys {
		fields := make([]types.Field, 0, h.md.ColumnCount())
		fields = append(fields, key.Values()...)
		for _, acc := range groups.states[g] {
			fields = append(fields, acc.Result())
		}
		rows[g] = tuple.NewTuple(fields...)
	}

	metrics.ObserveRows(h.Name(), len(rows))
	h.rows = iterator.NewSliceIterator(rows)
	return nil
}

func (h *HashAggregate) MoveNext() (bool, error) {
	if err := h.Init(); err != nil {
		return false, err
	}
	return h.rows.MoveNext(), nil
}

func (h *HashAggregate) Current() (tuple.Row, error) {
	if h.rows == nil {
		return nil, fmt.Errorf("%s has no current row", h.Name())
	}
	row := h.rows.Current()
	if row == nil {
		return nil, fmt.Errorf("%s has no current row", h.Name())
	}
	return row, nil
}

// Groups returns the number of groups produced. It is zero before Init.
func (h *HashAggregate) Groups() int {
	if h.rows == nil {
		return 0
	}
	return h.rows.Len()
}
