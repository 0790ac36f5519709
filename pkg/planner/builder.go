// Package planner turns a physical plan tree into an operator tree.
package planner

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	dberror "shardexec/pkg/error"
	"shardexec/pkg/evaluator"
	"shardexec/pkg/execution"
	"shardexec/pkg/execution/aggregation"
	"shardexec/pkg/execution/join"
	"shardexec/pkg/execution/query"
	"shardexec/pkg/execution/scan"
	"shardexec/pkg/execution/setops"
	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/result"
)

// Builder builds operators for one query. Every operator it creates shares
// the builder's execution context.
type Builder struct {
	ctx *execution.Context
	log *zap.Logger
}

// NewBuilder creates a builder for ctx.
func NewBuilder(ctx *execution.Context) *Builder {
	return &Builder{ctx: ctx, log: ctx.Logger()}
}

// Build returns the operator tree for node. Children are built first and then
// wrapped by their parent. An unknown node type fails with an unsupported
// error; any operator already built for the tree is closed on failure.
func (b *Builder) Build(node plan.PlanNode) (iterator.Operator, error) {
	op, err := b.build(node)
	if err != nil {
		return nil, err
	}
	b.log.Debug("operator tree built", zap.String("plan", plan.Explain(node)))
	return op, nil
}

// Query builds node and wraps the tree in a result set.
func (b *Builder) Query(node plan.PlanNode) (*result.ResultSet, error) {
	op, err := b.Build(node)
	if err != nil {
		return nil, err
	}
	return result.New(op), nil
}

func (b *Builder) build(node plan.PlanNode) (iterator.Operator, error) {
	if node == nil {
		return nil, dberror.InvalidArgument("Builder", "plan node is nil")
	}

	var children []iterator.Operator
	for i, child := range node.GetChildren() {
		op, err := b.build(child)
		if err != nil {
			closeAll(children)
			return nil, errors.Wrapf(err, "%s child %d", node.GetNodeType(), i)
		}
		children = append(children, op)
	}

	op, err := b.create(node, children)
	if err != nil {
		closeAll(children)
		return nil, err
	}
	return op, nil
}

func (b *Builder) create(node plan.PlanNode, children []iterator.Operator) (iterator.Operator, error) {
	params := b.ctx.Parameters()

	switch n := node.(type) {
	case *plan.ScanNode:
		return scan.NewScanOperator(b.ctx, n)

	case *plan.UnionNode:
		return setops.NewMultiOperator(children)

	case *plan.MergeSortNode:
		return setops.NewMergeSort(children, n.Collation, n.Offset, n.Fetch, params)

	case *plan.CalcNode:
		return b.calc(n, children[0])

	case *plan.HashAggregateNode:
		functions := make([]aggregation.Function, len(n.Aggregates))
		for i, call := range n.Aggregates {
			fn, err := aggregation.NewFunction(call, children[0].MetaData())
			if err != nil {
				return nil, err
			}
			functions[i] = fn
		}
		return aggregation.NewHashAggregate(children[0], n.GroupBy, functions)

	case *plan.SortNode:
		return query.NewSort(children[0], n.Collation)

	case *plan.LimitSortNode:
		if n.Fetch.IsSet() {
			return query.NewTopN(children[0], n.Collation, n.Offset, n.Fetch, params)
		}
		sorted, err := query.NewSort(children[0], n.Collation)
		if err != nil {
			return nil, err
		}
		return query.NewLimit(sorted, n.Offset, n.Fetch, params)

	case *plan.LimitNode:
		return query.NewLimit(children[0], n.Offset, n.Fetch, params)

	case *plan.NestedLoopJoinNode:
		outer, inner := children[0], children[1]
		var cond evaluator.Evaluator
		if n.Condition != nil {
			md := join.ConditionMetaData(outer.MetaData(), inner.MetaData(), n.InnerOnLeft)
			var err error
			if cond, err = evaluator.Compile(n.Condition, md, params); err != nil {
				return nil, err
			}
		}
		return join.NewNestedLoopJoin(outer, inner, n.JoinType, cond, n.InnerOnLeft)

	default:
		return nil, &dberror.DBError{
			Code:      dberror.CodeUnsupportedPlan,
			Category:  dberror.ErrCategoryUnsupported,
			Message:   fmt.Sprintf("unsupported plan node %s", node.GetNodeType()),
			Operation: "Build",
			Component: "Builder",
			Cause:     errors.Newf("no operator for %T", node),
		}
	}
}

func (b *Builder) calc(n *plan.CalcNode, child iterator.Operator) (iterator.Operator, error) {
	md := child.MetaData()
	params := b.ctx.Parameters()

	var cond evaluator.Evaluator
	if n.Condition != nil {
		var err error
		if cond, err = evaluator.Compile(n.Condition, md, params); err != nil {
			return nil, err
		}
	}

	exprs := make([]plan.Expr, len(n.Projections))
	names := make([]string, len(n.Projections))
	for i, p := range n.Projections {
		exprs[i] = p.Expr
		names[i] = p.Name
		if names[i] == "" && p.Expr != nil {
			names[i] = p.Expr.String()
		}
	}
	projections, err := evaluator.CompileAll(exprs, md, params)
	if err != nil {
		return nil, errors.Wrap(err, "projection")
	}
	return query.NewCalc(child, cond, projections, names)
}

func closeAll(ops []iterator.Operator) {
	for _, op := range ops {
		_ = op.Close()
	}
}
