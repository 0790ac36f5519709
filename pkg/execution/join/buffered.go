package join

import (
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/iterator"
	"shardexec/pkg/metrics"
	"shardexec/pkg/tuple"
)

// BufferedOperator drains its child into memory on Init so the rows can be
// replayed. Reset only rewinds the cursor; the child runs once.
type BufferedOperator struct {
	*iterator.BaseOperator
	child iterator.Operator
	rows  *iterator.SliceIterator[tuple.Row]
}

// NewBufferedOperator wraps child. Closing the buffer closes child.
func NewBufferedOperator(child iterator.Operator) (*BufferedOperator, error) {
	if child == nil {
		return nil, dberror.InvalidArgument("BufferedOperator", "child operator cannot be nil")
	}
	b := &BufferedOperator{child: child}
	b.BaseOperator = iterator.NewBaseOperator("BufferedOperator", b.buffer, child.Close)
	return b, nil
}

func (b *BufferedOperator) buffer() error {
	if err := b.child.Init(); err != nil {
		return err
	}
	rows, err := iterator.Collect(b.child)
	if err != nil {
		return err
	}
	metrics.ObserveRows(b.Name(), len(rows))
	b.rows = iterator.NewSliceIterator(rows)
	return nil
}

func (b *BufferedOperator) MetaData() *tuple.MetaData {
	return b.child.MetaData()
}

func (b *BufferedOperator) MoveNext() (bool, error) {
	if err := b.Init(); err != nil {
		return false, err
	}
	return b.rows.MoveNext(), nil
}

func (b *BufferedOperator) Current() (tuple.Row, error) {
	if b.rows == nil {
		return nil, fmt.Errorf("%s has no current row", b.Name())
	}
	row := b.rows.Current()
	if row == nil {
		return nil, fmt.Errorf("%s has no current row", b.Name())
	}
	return row, nil
}

// Reset rewinds to the first buffered row.
func (b *BufferedOperator) Reset() error {
	if err := b.Init(); err != nil {
		return err
	}
	b.rows.Reset()
	return nil
}

// Len returns the number of buffered rows. It is zero before Init.
func (b *BufferedOperator) Len() int {
	if b.rows == nil {
		return 0
	}
	return b.rows.Len()
}
