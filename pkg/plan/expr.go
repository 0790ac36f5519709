package plan

import (
	"fmt"
	"strings"

	"shardexec/pkg/types"
)

// Expr is a scalar expression in a plan node. Evaluation happens in the
// evaluator package; plan expressions are plain data.
type Expr interface {
	String() string
	exprNode()
}

// ColumnRef reads column Index (0-based) of the input row.
type ColumnRef struct {
	Index int
	Name  string
}

// Literal is a constant. A nil Value is NULL of type Type.
type Literal struct {
	Value types.Field
	Type  types.Type
}

// ParamRef reads bound parameter Index (0-based) from the execution context.
type ParamRef struct {
	Index int
}

// Op is the operator of a Call.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLike
	OpAnd
	OpOr
	OpNot
	OpIsNull
	OpIsNotNull
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
)

var opNames = map[Op]string{
	OpEq: "=", OpNe: "<>", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpLike: "LIKE", OpAnd: "AND", OpOr: "OR", OpNot: "NOT",
	OpIsNull: "IS NULL", OpIsNotNull: "IS NOT NULL",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpNeg: "-",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// Arity returns the number of arguments o takes.
func (o Op) Arity() int {
	switch o {
	case OpNot, OpIsNull, OpIsNotNull, OpNeg:
		return 1
	default:
		return 2
	}
}

// Call applies Op to Args.
type Call struct {
	Op   Op
	Args []Expr
}

func (*ColumnRef) exprNode() {}
func (*Literal) exprNode()   {}
func (*ParamRef) exprNode()  {}
func (*Call) exprNode()      {}

func (c *ColumnRef) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("$%d", c.Index)
}

func (l *Literal) String() string {
	if l.Value == nil {
		return "NULL"
	}
	if l.Value.Type() == types.StringType {
		return "'" + strings.ReplaceAll(l.Value.String(), "'", "''") + "'"
	}
	return l.Value.String()
}

func (p *ParamRef) String() string {
	return fmt.Sprintf("?%d", p.Index)
}

func (c *Call) String() string {
	switch {
	case c.Op == OpIsNull || c.Op == OpIsNotNull:
		return fmt.Sprintf("(%s %s)", argString(c.Args, 0), c.Op)
	case c.Op == OpNot:
		return fmt.Sprintf("(NOT %s)", argString(c.Args, 0))
	case c.Op == OpNeg:
		return fmt.Sprintf("(-%s)", argString(c.Args, 0))
	default:
		return fmt.Sprintf("(%s %s %s)", argString(c.Args, 0), c.Op, argString(c.Args, 1))
	}
}

func argString(args []Expr, i int) string {
	if i >= len(args) || args[i] == nil {
		return "?"
	}
	return args[i].String()
}

// Col is shorthand for a ColumnRef.
func Col(index int) *ColumnRef {
	return &ColumnRef{Index: index}
}

// Lit builds a Literal from a plain Go value. It panics on an unsupported
// value type and is meant for plans built in code and tests.
func Lit(v any) *Literal {
	f, err := types.NewField(v)
	if err != nil {
		panic(err)
	}
	if f == nil {
		return &Literal{Type: types.StringType}
	}
	return &Literal{Value: f, Type: f.Type()}
}

// Param is shorthand for a ParamRef.
func Param(index int) *ParamRef {
	return &ParamRef{Index: index}
}

// NewCall builds a Call.
func NewCall(op Op, args ...Expr) *Call {
	return &Call{Op: op, Args: args}
}

// Eq builds left = right.
func Eq(left, right Expr) *Call {
	return NewCall(OpEq, left, right)
}

// And folds the given conditions with AND. It returns nil when conds is empty.
func And(conds ...Expr) Expr {
	var out Expr
	for _, c := range conds {
		if c == nil {
			continue
		}
		if out == nil {
			out = c
			continue
		}
		out = NewCall(OpAnd, out, c)
	}
	return out
}
