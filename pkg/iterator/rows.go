package iterator

import (
	"shardexec/pkg/tuple"
)

// RowsOperator serves a fixed list of in-memory rows. It is replayable and is
// used for empty results, literal value lists and tests.
type RowsOperator struct {
	*BaseOperator
	md     *tuple.MetaData
	cursor *SliceIterator[tuple.Row]
}

// NewRowsOperator creates an operator over rows. rows may be nil.
func NewRowsOperator(md *tuple.MetaData, rows []tuple.Row) *RowsOperator {
	return &RowsOperator{
		BaseOperator: NewBaseOperator("RowsOperator", nil, nil),
		md:           md,
		cursor:       NewSliceIterator(rows),
	}
}

// NewEmptyOperator returns an operator with zero rows that still carries md.
func NewEmptyOperator(md *tuple.MetaData) *RowsOperator {
	op := NewRowsOperator(md, nil)
	op.BaseOperator = NewBaseOperator("EmptyOperator", nil, nil)
	return op
}

func (r *RowsOperator) MetaData() *tuple.MetaData {
	return r.md
}

func (r *RowsOperator) MoveNext() (bool, error) {
	if err := r.Init(); err != nil {
		return false, err
	}
	return r.cursor.MoveNext(), nil
}

func (r *RowsOperator) Current() (tuple.Row, error) {
	return r.cursor.Current(), nil
}

// Reset rewinds to the first row.
func (r *RowsOperator) Reset() error {
	r.cursor.Reset()
	return nil
}
