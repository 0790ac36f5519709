package plan

import (
	"shardexec/pkg/tuple"
)

// PlanNode represents a node in the physical plan tree handed to the executor.
// The planner and optimizer that produce it live outside this module; the
// executor only reads nodes.
type PlanNode interface {
	// GetChildren returns the input nodes in build order.
	GetChildren() []PlanNode

	// GetNodeType returns the type of this node (for debugging/visualization)
	GetNodeType() string

	// String returns a one-line description of this node without its children.
	String() string

	// GetCardinality returns the optimizer's row estimate, or 0 when unknown.
	GetCardinality() int64
}

// BasePlanNode provides common functionality for all plan nodes
type BasePlanNode struct {
	Cardinality int64
}

func (b *BasePlanNode) GetCardinality() int64 {
	return b.Cardinality
}

// SetCardinality sets the estimated row count (used by the optimizer).
func (b *BasePlanNode) SetCardinality(card int64) {
	b.Cardinality = card
}

// ConnectionMode is the scan-side result consumption policy.
type ConnectionMode int

const (
	// ModeAuto lets the scan pick a mode from the connection budget.
	ModeAuto ConnectionMode = iota
	// ModeMemory fully materializes each unit's result and releases its cursor.
	ModeMemory
	// ModeStream keeps one cursor open per unit and pulls incrementally.
	ModeStream
)

func (m ConnectionMode) String() string {
	switch m {
	case ModeAuto:
		return "AUTO"
	case ModeMemory:
		return "MEMORY"
	case ModeStream:
		return "STREAM"
	default:
		return "UNKNOWN"
	}
}

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	SemiJoin
	AntiJoin
)

func (jt JoinType) String() string {
	switch jt {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case SemiJoin:
		return "SEMI"
	case AntiJoin:
		return "ANTI"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether jt is a join type the executor implements.
func (jt JoinType) Valid() bool {
	return jt >= InnerJoin && jt <= AntiJoin
}

// Projection is one output column of a CalcNode.
type Projection struct {
	Name string
	Expr Expr
}

// AggregateKind names a built-in aggregate function.
type AggregateKind int

const (
	AggCountStar AggregateKind = iota
	AggCount
	AggSum
	AggAvg
	AggMin
	AggMax
)

func (k AggregateKind) String() string {
	switch k {
	case AggCountStar, AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return "UNKNOWN"
	}
}

// AggregateCall is one aggregate in the SELECT list of a HashAggregateNode.
// Column is ignored for AggCountStar.
type AggregateCall struct {
	Kind     AggregateKind
	Column   int
	Distinct bool
	Name     string
}

// ScanNode is a leaf that runs the rewritten SQL on every routed data source.
// SQL is written against logical table names; Columns describes the row shape
// every data source returns.
type ScanNode struct {
	BasePlanNode
	SQL     string
	Columns []tuple.Column
	Mode    ConnectionMode
}

// UnionNode concatenates its inputs in order.
type UnionNode struct {
	BasePlanNode
	Inputs []PlanNode
}

// MergeSortNode merges inputs that are each sorted by Collation.
type MergeSortNode struct {
	BasePlanNode
	Inputs    []PlanNode
	Collation Collation
	Offset    LimitValue
	Fetch     LimitValue
}

// NestedLoopJoinNode joins Outer against a buffered Inner. Condition refers to
// columns of the combined row in output order. InnerOnLeft places the inner
// row's columns first in the output.
type NestedLoopJoinNode struct {
	BasePlanNode
	Outer       PlanNode
	Inner       PlanNode
	JoinType    JoinType
	Condition   Expr
	InnerOnLeft bool
}

// CalcNode filters and projects its input. A nil Condition keeps every row;
// empty Projections pass the input row through.
type CalcNode struct {
	BasePlanNode
	Input       PlanNode
	Condition   Expr
	Projections []Projection
}

// HashAggregateNode groups its input by GroupBy columns.
type HashAggregateNode struct {
	BasePlanNode
	Input      PlanNode
	GroupBy    []int
	Aggregates []AggregateCall
}

// SortNode fully sorts its input.
type SortNode struct {
	BasePlanNode
	Input     PlanNode
	Collation Collation
}

// LimitSortNode keeps the Offset+Fetch best rows of its input by Collation.
type LimitSortNode struct {
	BasePlanNode
	Input     PlanNode
	Collation Collation
	Offset    LimitValue
	Fetch     LimitValue
}

// LimitNode applies offset and fetch to its input without reordering.
type LimitNode struct {
	BasePlanNode
	Input  PlanNode
	Offset LimitValue
	Fetch  LimitValue
}
