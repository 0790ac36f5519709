package evaluator

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

type arithmeticEval struct {
	op          plan.Op
	left, right Evaluator
	typ         types.Type
}

// arithmeticType picks the result type: DECIMAL wins over FLOAT wins over INT;
// dividing two INTs yields DECIMAL.
func arithmeticType(op plan.Op, l, r types.Type) (types.Type, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return 0, fmt.Errorf("%s requires numeric operands, got %s and %s", op, l, r)
	}
	switch {
	case l == types.DecimalType || r == types.DecimalType:
		return types.DecimalType, nil
	case l == types.FloatType || r == types.FloatType:
		return types.FloatType, nil
	case op == plan.OpDiv:
		return types.DecimalType, nil
	default:
		return types.IntType, nil
	}
}

func newArithmetic(op plan.Op, left, right Evaluator) (Evaluator, error) {
	typ, err := arithmeticType(op, left.Type(), right.Type())
	if err != nil {
		return nil, err
	}
	return &arithmeticEval{op: op, left: left, right: right, typ: typ}, nil
}

func (a *arithmeticEval) Eval(row tuple.Row) (types.Field, error) {
	l, err := a.left.Eval(row)
	if err != nil {
		return nil, err
	}
	r, err := a.right.Eval(row)
	if err != nil {
		return nil, err
	}
	if l == nil || r == nil {
		return nil, nil
	}

	switch a.typ {
	case types.IntType:
		x, xok := l.(*types.IntField)
		y, yok := r.(*types.IntField)
		if !xok || !yok {
			return nil, fmt.Errorf("%s: expected INT operands, got %s and %s", a, l.Type(), r.Type())
		}
		return intArithmetic(a.op, x.Val, y.Val)
	case types.FloatType:
		x, err := types.ToFloat64(l)
		if err != nil {
			return nil, err
		}
		y, err := types.ToFloat64(r)
		if err != nil {
			return nil, err
		}
		return floatArithmetic(a.op, x, y), nil
	default:
		x, err := types.ToDecimal(l)
		if err != nil {
			return nil, err
		}
		y, err := types.ToDecimal(r)
		if err != nil {
			return nil, err
		}
		return decimalArithmetic(a.op, x, y)
	}
}

func (a *arithmeticEval) Type() types.Type { return a.typ }

func (a *arithmeticEval) String() string {
	return fmt.Sprintf("(%s %s %s)", a.left, a.op, a.right)
}

func intArithmetic(op plan.Op, x, y int64) (types.Field, error) {
	var z int64
	switch op {
	case plan.OpAdd:
		z = x + y
		if (z > x) != (y > 0) {
			return nil, overflow(op, x, y)
		}
	case plan.OpSub:
		z = x - y
		if (z < x) != (y > 0) {
			return nil, overflow(op, x, y)
		}
	case plan.OpMul:
		if x == 0 || y == 0 {
			return types.NewIntField(0), nil
		}
		z = x * y
		if z/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return nil, overflow(op, x, y)
		}
	default:
		return nil, fmt.Errorf("unsupported INT operator %s", op)
	}
	return types.NewIntField(z), nil
}

func overflow(op plan.Op, x, y int64) error {
	return fmt.Errorf("INT overflow in %d %s %d", x, op, y)
}

// floatArithmetic returns NULL on division by zero.
func floatArithmetic(op plan.Op, x, y float64) types.Field {
	switch op {
	case plan.OpAdd:
		return types.NewFloatField(x + y)
	case plan.OpSub:
		return types.NewFloatField(x - y)
	case plan.OpMul:
		return types.NewFloatField(x * y)
	default:
		if y == 0 {
			return nil
		}
		return types.NewFloatField(x / y)
	}
}

// decimalArithmetic returns NULL on division by zero.
func decimalArithmetic(op plan.Op, x, y *apd.Decimal) (types.Field, error) {
	z := new(apd.Decimal)
	var err error
	switch op {
	case plan.OpAdd:
		_, err = types.DecimalContext.Add(z, x, y)
	case plan.OpSub:
		_, err = types.DecimalContext.Sub(z, x, y)
	case plan.OpMul:
		_, err = types.DecimalContext.Mul(z, x, y)
	default:
		if y.IsZero() {
			return nil, nil
		}
		_, err = types.DecimalContext.Quo(z, x, y)
		if err == nil {
			z.Reduce(z)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("DECIMAL %s: %w", op, err)
	}
	return types.NewDecimalField(z), nil
}

type negateEval struct {
	arg Evaluator
}

func newNegate(arg Evaluator) (Evaluator, error) {
	if !arg.Type().IsNumeric() {
		return nil, fmt.Errorf("unary minus requires a numeric operand, got %s", arg.Type())
	}
	return &negateEval{arg: arg}, nil
}

func (n *negateEval) Eval(row tuple.Row) (types.Field, error) {
	v, err := n.arg.Eval(row)
	if err != nil || v == nil {
		return nil, err
	}
	switch x := v.(type) {
	case *types.IntField:
		if x.Val == math.MinInt64 {
			return nil, fmt.Errorf("INT overflow negating %d", x.Val)
		}
		return types.NewIntField(-x.Val), nil
	case *types.FloatField:
		return types.NewFloatField(-x.Val), nil
	case *types.DecimalField:
		return types.NewDecimalField(new(apd.Decimal).Neg(x.Decimal)), nil
	default:
		return nil, fmt.Errorf("cannot negate %s", v.Type())
	}
}

func (n *negateEval) Type() types.Type { return n.arg.Type() }

func (n *negateEval) String() string {
	return fmt.Sprintf("(-%s)", n.arg)
}
