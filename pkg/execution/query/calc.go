// Package query holds the single-child operators that shape a row stream:
// filtering and projection, sorting, bounded top-N and plain offset/fetch.
package query

import (
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/evaluator"
	"shardexec/pkg/iterator"
	"shardexec/pkg/tuple"
)

// Calc filters its child by an optional condition and projects each passing
// row through a list of expressions.
//
// The projection is lazy: Current evaluates every expression against the
// child's current row on each call, so two calls without an intervening
// MoveNext yield equal rows. With no projections the child row passes through
// unchanged. A condition that evaluates to NULL rejects the row.
type Calc struct {
	*iterator.UnaryOperator
	md          *tuple.MetaData
	condition   evaluator.Evaluator
	projections []evaluator.Evaluator
	row         tuple.Row
}

// NewCalc creates a Calc over child. condition may be nil; names label the
// projected columns and must match projections in length.
func NewCalc(child iterator.Operator, condition evaluator.Evaluator, projections []evaluator.Evaluator, names []string) (*Calc, error) {
	if len(projections) != len(names) {
		return nil, dberror.InvalidArgument("Calc", "%d projections but %d column names", len(projections), len(names))
	}

	c := &Calc{
		condition:   condition,
		projections: projections,
	}
	unary, err := iterator.NewUnaryOperator("Calc", child, nil)
	if err != nil {
		return nil, err
	}
	c.UnaryOperator = unary

	if len(projections) == 0 {
		c.md = child.MetaData()
		return c, nil
	}

	cols := make([]tuple.Column, len(projections))
	for i, p := range projections {
		cols[i] = tuple.Column{Name: names[i], Type: p.Type(), Nullable: true}
	}
	c.md = tuple.NewMetaData(cols...)
	return c, nil
}

func (c *Calc) MetaData() *tuple.MetaData {
	return c.md
}

// MoveNext pulls child rows until one satisfies the condition.
func (c *Calc) MoveNext() (bool, error) {
	if err := c.Init(); err != nil {
		return false, err
	}

	for {
		row, err := c.FetchNext()
		if err != nil {
			return false, err
		}
		if row == nil {
			c.row = nil
			return false, nil
		}

		ok, err := c.accept(row)
		if err != nil {
			return false, err
		}
		if ok {
			c.row = row
			return true, nil
		}
	}
}

func (c *Calc) accept(row tuple.Row) (bool, error) {
	if c.condition == nil {
		return true, nil
	}
	v, err := c.condition.Eval(row)
	if err != nil {
		return false, fmt.Errorf("condition %s: %w", c.condition, err)
	}
	return evaluator.IsTrue(v), nil
}

func (c *Calc) Current() (tuple.Row, error) {
	if c.row == nil {
		return nil, fmt.Errorf("%s has no current row", c.Name())
	}
	if len(c.projections) == 0 {
		return c.row, nil
	}

	b := tuple.NewBuilder(len(c.projections))
	for i, p := range c.projections {
		v, err := p.Eval(c.row)
		if err != nil {
			return nil, dberror.RowFailed(fmt.Errorf("projection %d (%s): %w", i, p, err), "Current", c.Name())
		}
		b.AddField(v)
	}
	return b.Build(), nil
}
