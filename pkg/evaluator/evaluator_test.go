package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

func testMeta() *tuple.MetaData {
	return tuple.NewMetaData(
		tuple.Column{Name: "id", Type: types.IntType},
		tuple.Column{Name: "name", Type: types.StringType, Nullable: true},
		tuple.Column{Name: "price", Type: types.DecimalType, Nullable: true},
		tuple.Column{Name: "score", Type: types.FloatType},
	)
}

func testRow(t *testing.T) tuple.Row {
	price, err := types.NewDecimalFromString("10.50")
	require.NoError(t, err)
	return tuple.NewTuple(
		types.NewIntField(7),
		nil,
		price,
		types.NewFloatField(2.5),
	)
}

func evalExpr(t *testing.T, expr plan.Expr, params ...any) types.Field {
	t.Helper()
	ev, err := Compile(expr, testMeta(), params)
	require.NoError(t, err)
	f, err := ev.Eval(testRow(t))
	require.NoError(t, err)
	return f
}

func TestCompile_Comparisons(t *testing.T) {
	tests := []struct {
		name string
		expr plan.Expr
		want types.Field
	}{
		{"int equals literal", plan.Eq(plan.Col(0), plan.Lit(7)), trueField},
		{"int vs float promotion", plan.NewCall(plan.OpLt, plan.Col(0), plan.Lit(7.5)), trueField},
		{"decimal vs int", plan.NewCall(plan.OpGt, plan.Col(2), plan.Lit(10)), trueField},
		{"not equal", plan.NewCall(plan.OpNe, plan.Col(0), plan.Lit(7)), falseField},
		{"null operand yields null", plan.Eq(plan.Col(1), plan.Lit("x")), nil},
		{"param resolved", plan.Eq(plan.Col(0), plan.Param(0)), trueField},
		{"like", plan.NewCall(plan.OpLike, plan.Lit("order_1"), plan.Lit("order%")), trueField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalExpr(t, tt.expr, int64(7))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equals(got), "got %v", got)
		})
	}
}

func TestCompile_ThreeValuedLogic(t *testing.T) {
	null := plan.Eq(plan.Col(1), plan.Lit("x"))
	yes := plan.Eq(plan.Col(0), plan.Lit(7))
	no := plan.Eq(plan.Col(0), plan.Lit(8))

	tests := []struct {
		name string
		expr plan.Expr
		want types.Field
	}{
		{"null AND false", plan.NewCall(plan.OpAnd, null, no), falseField},
		{"null AND true", plan.NewCall(plan.OpAnd, null, yes), nil},
		{"false AND null", plan.NewCall(plan.OpAnd, no, null), falseField},
		{"null OR true", plan.NewCall(plan.OpOr, null, yes), trueField},
		{"null OR false", plan.NewCall(plan.OpOr, null, no), nil},
		{"false OR false", plan.NewCall(plan.OpOr, no, no), falseField},
		{"NOT null", plan.NewCall(plan.OpNot, null), nil},
		{"NOT false", plan.NewCall(plan.OpNot, no), trueField},
		{"IS NULL", plan.NewCall(plan.OpIsNull, plan.Col(1)), trueField},
		{"IS NOT NULL", plan.NewCall(plan.OpIsNotNull, plan.Col(1)), falseField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalExpr(t, tt.expr)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equals(got), "got %v", got)
		})
	}
}

func TestCompile_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		expr     plan.Expr
		wantType types.Type
		want     string
	}{
		{"int plus int", plan.NewCall(plan.OpAdd, plan.Col(0), plan.Lit(3)), types.IntType, "10"},
		{"int times float", plan.NewCall(plan.OpMul, plan.Col(0), plan.Col(3)), types.FloatType, "17.5"},
		{"decimal minus int", plan.NewCall(plan.OpSub, plan.Col(2), plan.Lit(1)), types.DecimalType, "9.50"},
		{"int div int is decimal", plan.NewCall(plan.OpDiv, plan.Col(0), plan.Lit(2)), types.DecimalType, "3.5"},
		{"negate", plan.NewCall(plan.OpNeg, plan.Col(0)), types.IntType, "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Compile(tt.expr, testMeta(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, ev.Type())

			got, err := ev.Eval(testRow(t))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCompile_DivisionByZeroIsNull(t *testing.T) {
	got := evalExpr(t, plan.NewCall(plan.OpDiv, plan.Col(0), plan.Lit(0)))
	assert.Nil(t, got)
}

func TestCompile_IntOverflow(t *testing.T) {
	ev, err := Compile(plan.NewCall(plan.OpAdd, plan.Lit(int64(1<<62)), plan.Lit(int64(1<<62))), testMeta(), nil)
	require.NoError(t, err)
	_, err = ev.Eval(testRow(t))
	assert.Error(t, err)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		expr   plan.Expr
		params []any
	}{
		{"nil expression", nil, nil},
		{"column out of bounds", plan.Col(9), nil},
		{"param out of range", plan.Param(1), []any{1}},
		{"wrong arity", plan.NewCall(plan.OpEq, plan.Col(0)), nil},
		{"like on int", plan.NewCall(plan.OpLike, plan.Col(0), plan.Lit("1%")), nil},
		{"arithmetic on string", plan.NewCall(plan.OpAdd, plan.Col(1), plan.Lit(1)), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr, testMeta(), tt.params)
			assert.Error(t, err)
		})
	}
}

func TestCompileAll(t *testing.T) {
	evs, err := CompileAll([]plan.Expr{plan.Col(0), plan.Col(3)}, testMeta(), nil)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	f, err := evs[1].Eval(testRow(t))
	require.NoError(t, err)
	assert.Equal(t, types.NewFloatField(2.5), f)

	_, err = CompileAll([]plan.Expr{plan.Col(0), plan.Col(9)}, testMeta(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expression 1")
}

func TestIsTrue(t *testing.T) {
	assert.True(t, IsTrue(types.NewBoolField(true)))
	assert.False(t, IsTrue(types.NewBoolField(false)))
	assert.False(t, IsTrue(nil))
	assert.True(t, IsTrue(types.NewIntField(2)))
	assert.False(t, IsTrue(types.NewIntField(0)))
	assert.False(t, IsTrue(types.NewStringField("true")))
}
