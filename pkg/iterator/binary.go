package iterator

import (
	"github.com/cockroachdb/errors"
	dberror "shardexec/pkg/error"
)

// BinaryOperator provides a base implementation for operators with two children.
// Both children are closed exactly once, and a failure closing one side does
// not prevent closing the other.
type BinaryOperator struct {
	*BaseOperator
	outer Operator
	inner Operator
}

// NewBinaryOperator creates a new binary operator base. The init hook is
// responsible for initializing the children, since joins wrap one side first.
func NewBinaryOperator(name string, outer, inner Operator, initFunc InitFunc) (*BinaryOperator, error) {
	if outer == nil {
		return nil, dberror.InvalidArgument(name, "outer child operator cannot be nil")
	}
	if inner == nil {
		return nil, dberror.InvalidArgument(name, "inner child operator cannot be nil")
	}

	b := &BinaryOperator{outer: outer, inner: inner}
	b.BaseOperator = NewBaseOperator(name, initFunc, b.closeChildren)
	return b, nil
}

func (b *BinaryOperator) closeChildren() error {
	var errs error
	if err := b.outer.Close(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "outer child close"))
	}
	if err := b.inner.Close(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "inner child close"))
	}
	return errs
}

// Outer returns the outer (driving) child.
func (b *BinaryOperator) Outer() Operator {
	return b.outer
}

// Inner returns the inner child.
func (b *BinaryOperator) Inner() Operator {
	return b.inner
}
