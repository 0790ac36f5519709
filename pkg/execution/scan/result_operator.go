package scan

import (
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/iterator"
	"shardexec/pkg/tuple"
)

// ResultOperator adapts one raw QueryResult into the operator stream.
// Closing the operator closes the result.
type ResultOperator struct {
	*iterator.BaseOperator
	result QueryResult
}

// NewResultOperator wraps result.
func NewResultOperator(result QueryResult) *ResultOperator {
	return &ResultOperator{
		BaseOperator: iterator.NewBaseOperator("ResultOperator", nil, result.Close),
		result:       result,
	}
}

func (r *ResultOperator) MetaData() *tuple.MetaData {
	return r.result.MetaData()
}

func (r *ResultOperator) MoveNext() (bool, error) {
	if err := r.Init(); err != nil {
		return false, err
	}
	ok, err := r.result.Next()
	if err != nil {
		return false, dberror.RowFailed(err, "MoveNext", r.Name())
	}
	return ok, nil
}

func (r *ResultOperator) Current() (tuple.Row, error) {
	row := r.result.Row()
	if row == nil {
		return nil, fmt.Errorf("%s has no current row", r.Name())
	}
	return row, nil
}

// Reset rewinds a materialized result. Streaming results cannot rewind.
func (r *ResultOperator) Reset() error {
	if m, ok := r.result.(*MemoryQueryResult); ok {
		m.Rewind()
		return nil
	}
	return r.BaseOperator.Reset()
}
