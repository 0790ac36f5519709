package evaluator

import (
	"fmt"

	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

var (
	trueField  = types.NewBoolField(true)
	falseField = types.NewBoolField(false)
)

func boolField(b bool) types.Field {
	if b {
		return trueField
	}
	return falseField
}

// truth maps a value onto three-valued logic: 1 true, 0 false, -1 unknown.
func truth(f types.Field) int {
	if f == nil {
		return -1
	}
	if IsTrue(f) {
		return 1
	}
	return 0
}

type andEval struct {
	left, right Evaluator
}

func (a *andEval) Eval(row tuple.Row) (types.Field, error) {
	l, err := a.left.Eval(row)
	if err != nil {
		return nil, err
	}
	lt := truth(l)
	if lt == 0 {
		return falseField, nil
	}

	r, err := a.right.Eval(row)
	if err != nil {
		return nil, err
	}
	rt := truth(r)
	switch {
	case rt == 0:
		return falseField, nil
	case lt == 1 && rt == 1:
		return trueField, nil
	default:
		return nil, nil
	}
}

func (a *andEval) Type() types.Type { return types.BoolType }

func (a *andEval) String() string {
	return fmt.Sprintf("(%s AND %s)", a.left, a.right)
}

type orEval struct {
	left, right Evaluator
}

func (o *orEval) Eval(row tuple.Row) (types.Field, error) {
	l, err := o.left.Eval(row)
	if err != nil {
		return nil, err
	}
	lt := truth(l)
	if lt == 1 {
		return trueField, nil
	}

	r, err := o.right.Eval(row)
	if err != nil {
		return nil, err
	}
	rt := truth(r)
	switch {
	case rt == 1:
		return trueField, nil
	case lt == 0 && rt == 0:
		return falseField, nil
	default:
		return nil, nil
	}
}

func (o *orEval) Type() types.Type { return types.BoolType }

func (o *orEval) String() string {
	return fmt.Sprintf("(%s OR %s)", o.left, o.right)
}

type notEval struct {
	arg Evaluator
}

func (n *notEval) Eval(row tuple.Row) (types.Field, error) {
	v, err := n.arg.Eval(row)
	if err != nil || v == nil {
		return nil, err
	}
	return boolField(!IsTrue(v)), nil
}

func (n *notEval) Type() types.Type { return types.BoolType }

func (n *notEval) String() string {
	return fmt.Sprintf("(NOT %s)", n.arg)
}

type isNullEval struct {
	arg    Evaluator
	negate bool
}

func (n *isNullEval) Eval(row tuple.Row) (types.Field, error) {
	v, err := n.arg.Eval(row)
	if err != nil {
		return nil, err
	}
	return boolField((v == nil) != n.negate), nil
}

func (n *isNullEval) Type() types.Type { return types.BoolType }

func (n *isNullEval) String() string {
	if n.negate {
		return fmt.Sprintf("(%s IS NOT NULL)", n.arg)
	}
	return fmt.Sprintf("(%s IS NULL)", n.arg)
}
