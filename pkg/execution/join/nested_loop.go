// Package join implements the nested-loop join and the buffered inner side it
// re-scans once per outer row.
package join

import (
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/evaluator"
	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
)

type joinState int

const (
	advanceOuter joinState = iota
	advanceInner
)

// NestedLoopJoin joins every outer row against a buffered copy of the inner
// side.
//
// Output per join type:
//   - INNER: one row per matching (outer, inner) pair
//   - LEFT: as INNER, plus the outer row with a NULL inner side when nothing matched
//   - SEMI: the outer row once if anything matched
//   - ANTI: the outer row if nothing matched
//
// INNER and LEFT rows place the outer columns first unless innerOnLeft is
// set. SEMI and ANTI rows carry the outer columns only. The condition is
// evaluated against the combined row in INNER/LEFT column order; a nil
// condition matches every pair.
type NestedLoopJoin struct {
	*iterator.BinaryOperator
	joinType    plan.JoinType
	condition   evaluator.Evaluator
	innerOnLeft bool
	md          *tuple.MetaData
	inner       *BufferedOperator
	nullInner   tuple.Row

	state    joinState
	outerRow tuple.Row
	matched  bool
	current  tuple.Row
}

// NewNestedLoopJoin creates the join. inner is wrapped in a BufferedOperator
// unless it already is one.
func NewNestedLoopJoin(outer, inner iterator.Operator, joinType plan.JoinType, condition evaluator.Evaluator, innerOnLeft bool) (*NestedLoopJoin, error) {
	if !joinType.Valid() {
		return nil, dberror.InvalidArgument("NestedLoopJoin", "unknown join type %d", int(joinType))
	}
	if outer == nil || inner == nil {
		return nil, dberror.InvalidArgument("NestedLoopJoin", "both children are required")
	}

	buffered, ok := inner.(*BufferedOperator)
	if !ok {
		var err error
		if buffered, err = NewBufferedOperator(inner); err != nil {
			return nil, err
		}
	}

	j := &NestedLoopJoin{
		joinType:    joinType,
		condition:   condition,
		innerOnLeft: innerOnLeft,
		md:          OutputMetaData(outer.MetaData(), inner.MetaData(), joinType, innerOnLeft),
		inner:       buffered,
		nullInner:   tuple.NullRow(inner.MetaData().ColumnCount()),
	}
	binary, err := iterator.NewBinaryOperator("NestedLoopJoin", outer, buffered, j.initialize)
	if err != nil {
		return nil, err
	}
	j.BinaryOperator = binary
	return j, nil
}

// ConditionMetaData is the row shape the join condition is compiled against.
func ConditionMetaData(outer, inner *tuple.MetaData, innerOnLeft bool) *tuple.MetaData {
	if innerOnLeft {
		return tuple.Combine(inner, outer, false, false)
	}
	return tuple.Combine(outer, inner, false, false)
}

// OutputMetaData is the row shape a join of joinType produces.
func OutputMetaData(outer, inner *tuple.MetaData, joinType plan.JoinType, innerOnLeft bool) *tuple.MetaData {
	switch joinType {
	case plan.SemiJoin, plan.AntiJoin:
		return outer
	case plan.LeftJoin:
		if innerOnLeft {
			return tuple.Combine(inner, outer, true, false)
		}
		return tuple.Combine(outer, inner, false, true)
	default:
		return ConditionMetaData(outer, inner, innerOnLeft)
	}
}

func (j *NestedLoopJoin) initialize() error {
	if err := j.Outer().Init(); err != nil {
		return fmt.Errorf("outer: %w", err)
	}
	if err := j.inner.Init(); err != nil {
		return fmt.Errorf("inner: %w", err)
	}
	j.state = advanceOuter
	return nil
}

func (j *NestedLoopJoin) MetaData() *tuple.MetaData {
	return j.md
}

func (j *NestedLoopJoin) pair(outer, inner tuple.Row) tuple.Row {
	if j.innerOnLeft {
		return tuple.NewJoinRow(inner, outer)
	}
	return tuple.NewJoinRow(outer, inner)
}

func (j *NestedLoopJoin) matches(inner tuple.Row) (bool, error) {
	if j.condition == nil {
		return true, nil
	}
	v, err := j.condition.Eval(j.pair(j.outerRow, inner))
	if err != nil {
		return false, fmt.Errorf("join condition %s: %w", j.condition, err)
	}
	return evaluator.IsTrue(v), nil
}

func (j *NestedLoopJoin) MoveNext() (bool, error) {
	if err := j.Init(); err != nil {
		return false, err
	}

	for {
		switch j.state {
		case advanceOuter:
			row, err := iterator.FetchNext(j.Outer())
			if err != nil {
				return false, err
			}
			if row == nil {
				j.current = nil
				return false, nil
			}
			if err := j.inner.Reset(); err != nil {
				return false, err
			}
			j.outerRow = row
			j.matched = false
			j.state = advanceInner

		case advanceInner:
			row, err := iterator.FetchNext(j.inner)
			if err != nil {
				return false, err
			}
			if row == nil {
				j.state = advanceOuter
				if j.matched {
					continue
				}
				switch j.joinType {
				case plan.LeftJoin:
					j.current = j.pair(j.outerRow, j.nullInner)
					return true, nil
				case plan.AntiJoin:
					j.current = j.outerRow
					return true, nil
				}
				continue
			}

			ok, err := j.matches(row)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			j.matched = true

			switch j.joinType {
			case plan.InnerJoin, plan.LeftJoin:
				j.current = j.pair(j.outerRow, row)
				return true, nil
			case plan.SemiJoin:
				j.state = advanceOuter
				j.current = j.outerRow
				return true, nil
			case plan.AntiJoin:
				// one match disqualifies the outer row
				j.state = advanceOuter
			default:
				return false, dberror.InvalidArgument(j.Name(), "unknown join type %d", int(j.joinType))
			}
		}
	}
}

func (j *NestedLoopJoin) Current() (tuple.Row, error) {
	if j.current == nil {
		return nil, fmt.Errorf("%s has no current row", j.Name())
	}
	return j.current, nil
}
