package iterator

import (
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/tuple"
)

// UnaryOperator provides a base implementation for operators with a single child.
// It combines BaseOperator's lifecycle with child operator management,
// eliminating boilerplate code in Calc, Sort, TopN, HashAggregate and similar operators.
//
// UnaryOperator handles:
// - Initializing the child before the operator's own init hook
// - Closing the child exactly once
// - Providing FetchNext helper for reading from the child
// - Forwarding metadata from the child
type UnaryOperator struct {
	*BaseOperator
	executor Operator
}

// NewUnaryOperator creates a new unary operator base with the given child and init hook.
func NewUnaryOperator(name string, child Operator, initFunc InitFunc) (*UnaryOperator, error) {
	if child == nil {
		return nil, dberror.InvalidArgument(name, "child operator cannot be nil")
	}

	u := &UnaryOperator{executor: child}
	u.BaseOperator = NewBaseOperator(name, func() error {
		if err := child.Init(); err != nil {
			return err
		}
		if initFunc != nil {
			return initFunc()
		}
		return nil
	}, child.Close)
	return u, nil
}

// FetchNext retrieves the next row from the child operator.
// Returns the row if available, nil if no more rows, or error.
// Handles all the MoveNext/Current ceremony internally.
func (u *UnaryOperator) FetchNext() (tuple.Row, error) {
	return FetchNext(u.executor)
}

// MetaData returns the child's metadata.
// Operators that transform the row shape should override this method.
func (u *UnaryOperator) MetaData() *tuple.MetaData {
	return u.executor.MetaData()
}

// Child returns the child operator (useful for inspection/testing).
func (u *UnaryOperator) Child() Operator {
	return u.executor
}

// FetchNext advances op and returns its current row, or nil at end of stream.
func FetchNext(op Operator) (tuple.Row, error) {
	ok, err := op.MoveNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	r, err := op.Current()
	if err != nil {
		return nil, fmt.Errorf("error getting current row from child: %w", err)
	}
	return r, nil
}
