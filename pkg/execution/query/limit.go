package query

import (
	"fmt"

	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/primitives"
	"shardexec/pkg/tuple"
)

// Limit implements OFFSET and FETCH over an unordered or already ordered
// child. The offset rows are skipped during Init; after that each MoveNext
// spends one unit of the fetch budget.
//
// Example: SELECT * FROM t_order LIMIT 10 OFFSET 5
// Returns 10 rows starting from the 6th row.
type Limit struct {
	*iterator.UnaryOperator
	params    []any
	offset    plan.LimitValue
	fetch     plan.LimitValue
	remaining primitives.RowCount
	row       tuple.Row
}

// NewLimit creates a limit over child. offset and fetch are resolved against
// params during Init.
func NewLimit(child iterator.Operator, offset, fetch plan.LimitValue, params []any) (*Limit, error) {
	l := &Limit{
		params: params,
		offset: offset,
		fetch:  fetch,
	}
	unary, err := iterator.NewUnaryOperator("Limit", child, l.skipOffset)
	if err != nil {
		return nil, err
	}
	l.UnaryOperator = unary
	return l, nil
}

// skipOffset discards offset rows. If there are fewer, it stops early.
func (l *Limit) skipOffset() error {
	offset, fetch, err := resolveWindow(l.offset, l.fetch, l.params)
	if err != nil {
		return err
	}
	l.remaining = primitives.RowCount(fetch)

	if l.remaining == 0 {
		return nil
	}
	_, err = iterator.Skip(l.Child(), offset)
	return err
}

func (l *Limit) MoveNext() (bool, error) {
	if err := l.Init(); err != nil {
		return false, err
	}
	if l.remaining <= 0 {
		l.row = nil
		return false, nil
	}

	row, err := l.FetchNext()
	if err != nil || row == nil {
		l.row = nil
		return false, err
	}
	l.row = row
	l.remaining--
	return true, nil
}

func (l *Limit) Current() (tuple.Row, error) {
	if l.row == nil {
		return nil, fmt.Errorf("%s has no current row", l.Name())
	}
	return l.row, nil
}
