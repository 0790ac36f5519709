// Package evaluator compiles plan expressions into evaluators that compute a
// value from a row. NULL is the nil Field and propagates through every
// operator except AND, OR and the IS [NOT] NULL checks, which follow SQL
// three-valued logic.
package evaluator

import (
	"fmt"

	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// Evaluator computes a scalar value from a row.
type Evaluator interface {
	// Eval returns the value for row. A nil Field is SQL NULL.
	Eval(row tuple.Row) (types.Field, error)

	// Type returns the static result type.
	Type() types.Type

	String() string
}

// IsTrue reports whether a predicate result selects the row. NULL and FALSE
// both reject; a non-zero INT accepts.
func IsTrue(f types.Field) bool {
	switch v := f.(type) {
	case *types.BoolField:
		return v.Val
	case *types.IntField:
		return v.Val != 0
	default:
		return false
	}
}

// Compile turns expr into an Evaluator over rows shaped like input. Parameter
// references are resolved against params here, once per query.
func Compile(expr plan.Expr, input *tuple.MetaData, params []any) (Evaluator, error) {
	c := &compiler{input: input, params: params}
	return c.compile(expr)
}

// CompileAll compiles a list of expressions against the same input. A failure
// names the index of the offending expression.
func CompileAll(exprs []plan.Expr, input *tuple.MetaData, params []any) ([]Evaluator, error) {
	out := make([]Evaluator, len(exprs))
	for i, e := range exprs {
		ev, err := Compile(e, input, params)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		out[i] = ev
	}
	return out, nil
}

type compiler struct {
	input  *tuple.MetaData
	params []any
}

func (c *compiler) compile(expr plan.Expr) (Evaluator, error) {
	switch e := expr.(type) {
	case nil:
		return nil, fmt.Errorf("cannot compile nil expression")

	case *plan.ColumnRef:
		t, err := c.input.ColumnType(e.Index)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", e, err)
		}
		return &columnEval{index: e.Index, typ: t, name: e.String()}, nil

	case *plan.Literal:
		return &constEval{value: e.Value, typ: e.Type}, nil

	case *plan.ParamRef:
		if e.Index < 0 || e.Index >= len(c.params) {
			return nil, fmt.Errorf("parameter ?%d out of range (%d parameters bound)", e.Index, len(c.params))
		}
		f, err := types.NewField(c.params[e.Index])
		if err != nil {
			return nil, fmt.Errorf("parameter ?%d: %w", e.Index, err)
		}
		typ := types.StringType
		if f != nil {
			typ = f.Type()
		}
		return &constEval{value: f, typ: typ}, nil

	case *plan.Call:
		return c.compileCall(e)

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (c *compiler) compileCall(call *plan.Call) (Evaluator, error) {
	if len(call.Args) != call.Op.Arity() {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", call.Op, call.Op.Arity(), len(call.Args))
	}

	args := make([]Evaluator, len(call.Args))
	for i, a := range call.Args {
		ev, err := c.compile(a)
		if err != nil {
			return nil, err
		}
		args[i] = ev
	}

	switch call.Op {
	case plan.OpEq, plan.OpNe, plan.OpLt, plan.OpLe, plan.OpGt, plan.OpGe, plan.OpLike:
		return newComparison(call.Op, args[0], args[1])
	case plan.OpAnd:
		return &andEval{left: args[0], right: args[1]}, nil
	case plan.OpOr:
		return &orEval{left: args[0], right: args[1]}, nil
	case plan.OpNot:
		return &notEval{arg: args[0]}, nil
	case plan.OpIsNull:
		return &isNullEval{arg: args[0]}, nil
	case plan.OpIsNotNull:
		return &isNullEval{arg: args[0], negate: true}, nil
	case plan.OpAdd, plan.OpSub, plan.OpMul, plan.OpDiv:
		return newArithmetic(call.Op, args[0], args[1])
	case plan.OpNeg:
		return newNegate(args[0])
	default:
		return nil, fmt.Errorf("unsupported operator %s", call.Op)
	}
}

type columnEval struct {
	index int
	typ   types.Type
	name  string
}

func (c *columnEval) Eval(row tuple.Row) (types.Field, error) {
	if c.index >= row.Len() {
		return nil, fmt.Errorf("column %s out of bounds (row has %d columns)", c.name, row.Len())
	}
	return row.Get(c.index), nil
}

func (c *columnEval) Type() types.Type { return c.typ }
func (c *columnEval) String() string   { return c.name }

type constEval struct {
	value types.Field
	typ   types.Type
}

func (c *constEval) Eval(tuple.Row) (types.Field, error) {
	return c.value, nil
}

func (c *constEval) Type() types.Type { return c.typ }

func (c *constEval) String() string {
	if c.value == nil {
		return "NULL"
	}
	return c.value.String()
}

// Column returns an evaluator reading column index of type t.
func Column(index int, t types.Type) Evaluator {
	return &columnEval{index: index, typ: t, name: fmt.Sprintf("$%d", index)}
}

// Const returns an evaluator yielding f.
func Const(f types.Field) Evaluator {
	typ := types.StringType
	if f != nil {
		typ = f.Type()
	}
	return &constEval{value: f, typ: typ}
}
