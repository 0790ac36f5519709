package evaluator

import (
	"fmt"

	"shardexec/pkg/plan"
	"shardexec/pkg/primitives"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

var predicates = map[plan.Op]primitives.Predicate{
	plan.OpEq:   primitives.Equals,
	plan.OpNe:   primitives.NotEqual,
	plan.OpLt:   primitives.LessThan,
	plan.OpLe:   primitives.LessThanOrEqual,
	plan.OpGt:   primitives.GreaterThan,
	plan.OpGe:   primitives.GreaterThanOrEqual,
	plan.OpLike: primitives.Like,
}

type comparisonEval struct {
	pred        primitives.Predicate
	left, right Evaluator
}

func newComparison(op plan.Op, left, right Evaluator) (Evaluator, error) {
	pred, ok := predicates[op]
	if !ok {
		return nil, fmt.Errorf("%s is not a comparison", op)
	}
	if pred == primitives.Like && (left.Type() != types.StringType || right.Type() != types.StringType) {
		return nil, fmt.Errorf("LIKE requires STRING operands, got %s and %s", left.Type(), right.Type())
	}
	return &comparisonEval{pred: pred, left: left, right: right}, nil
}

func (c *comparisonEval) Eval(row tuple.Row) (types.Field, error) {
	l, err := c.left.Eval(row)
	if err != nil {
		return nil, err
	}
	r, err := c.right.Eval(row)
	if err != nil {
		return nil, err
	}
	if l == nil || r == nil {
		return nil, nil
	}

	ok, err := l.Compare(c.pred, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return boolField(ok), nil
}

func (c *comparisonEval) Type() types.Type { return types.BoolType }

func (c *comparisonEval) String() string {
	return fmt.Sprintf("(%s %s %s)", c.left, c.pred, c.right)
}
