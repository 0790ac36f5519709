// Package result adapts an operator tree to a cursor with 1-based column
// access, the shape protocol layers consume.
package result

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"shardexec/pkg/iterator"
	"shardexec/pkg/metrics"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// ResultSet reads rows from the root operator of a query. It is not safe for
// concurrent use.
type ResultSet struct {
	root     iterator.Operator
	row      tuple.Row
	wasNull  bool
	done     bool
	closed   bool
	closeErr error
}

// New wraps root. Closing the result set closes root.
func New(root iterator.Operator) *ResultSet {
	return &ResultSet{root: root}
}

// MetaData describes the columns of every row.
func (r *ResultSet) MetaData() *tuple.MetaData {
	return r.root.MetaData()
}

// ColumnCount returns the number of columns.
func (r *ResultSet) ColumnCount() int {
	return r.root.MetaData().ColumnCount()
}

// ColumnLabel returns the name of the 1-based column.
func (r *ResultSet) ColumnLabel(columnIndex int) (string, error) {
	return r.root.MetaData().ColumnName(columnIndex - 1)
}

// Next advances to the next row. It reports false at the end of the rows and
// after Close.
func (r *ResultSet) Next() (bool, error) {
	if r.closed || r.done {
		return false, nil
	}

	ok, err := r.root.MoveNext()
	if err != nil {
		r.finish("error")
		return false, err
	}
	if !ok {
		r.row = nil
		r.finish("ok")
		return false, nil
	}

	row, err := r.root.Current()
	if err != nil {
		r.finish("error")
		return false, err
	}
	r.row = row
	return true, nil
}

func (r *ResultSet) finish(status string) {
	if r.done {
		return
	}
	r.done = true
	metrics.QueryCounter.WithLabelValues(status).Inc()
}

// GetField returns the value of the 1-based column of the current row; nil
// is NULL.
func (r *ResultSet) GetField(columnIndex int) (types.Field, error) {
	if r.row == nil {
		return nil, errors.New("no current row")
	}
	if columnIndex < 1 || columnIndex > r.row.Len() {
		return nil, fmt.Errorf("column index %d out of range [1, %d]", columnIndex, r.row.Len())
	}
	f := r.row.Get(columnIndex - 1)
	r.wasNull = f == nil
	return f, nil
}

// GetValue returns the 1-based column of the current row converted to t as a
// plain Go value. NULL yields nil and sets WasNull.
func (r *ResultSet) GetValue(columnIndex int, t types.Type) (any, error) {
	f, err := r.GetField(columnIndex)
	if err != nil || f == nil {
		return nil, err
	}
	if f.Type() == t {
		return f.Value(), nil
	}
	converted, err := types.FromDriverValue(f.Value(), t)
	if err != nil {
		return nil, errors.Wrapf(err, "column %d", columnIndex)
	}
	return converted.Value(), nil
}

// WasNull reports whether the last value read was NULL.
func (r *ResultSet) WasNull() bool {
	return r.wasNull
}

// Close releases the operator tree. It is safe to call more than once.
func (r *ResultSet) Close() error {
	if r.closed {
		return r.closeErr
	}
	r.closed = true
	r.row = nil
	r.closeErr = r.root.Close()
	return r.closeErr
}
