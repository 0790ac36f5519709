package plan

import (
	"fmt"
	"strings"
)

func (s *ScanNode) GetNodeType() string          { return "Scan" }
func (s *ScanNode) GetChildren() []PlanNode      { return nil }
func (u *UnionNode) GetNodeType() string         { return "Union" }
func (u *UnionNode) GetChildren() []PlanNode     { return u.Inputs }
func (m *MergeSortNode) GetNodeType() string     { return "MergeSort" }
func (m *MergeSortNode) GetChildren() []PlanNode { return m.Inputs }

func (s *ScanNode) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scan(sql=%q, columns=%d", s.SQL, len(s.Columns)))
	if s.Mode != ModeAuto {
		sb.WriteString(fmt.Sprintf(", mode=%s", s.Mode))
	}
	sb.WriteString(")")
	return sb.String()
}

func (u *UnionNode) String() string {
	return fmt.Sprintf("Union(inputs=%d)", len(u.Inputs))
}

func (m *MergeSortNode) String() string {
	return fmt.Sprintf("MergeSort(inputs=%d, order=%s%s)", len(m.Inputs), m.Collation, limitSuffix(m.Offset, m.Fetch))
}

func (j *NestedLoopJoinNode) GetNodeType() string { return "NestedLoopJoin" }

func (j *NestedLoopJoinNode) GetChildren() []PlanNode {
	return []PlanNode{j.Outer, j.Inner}
}

func (j *NestedLoopJoinNode) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("NestedLoopJoin(%s", j.JoinType))
	if j.Condition != nil {
		sb.WriteString(fmt.Sprintf(", on=%s", j.Condition))
	}
	if j.InnerOnLeft {
		sb.WriteString(", inner-on-left")
	}
	sb.WriteString(")")
	return sb.String()
}

func (c *CalcNode) GetNodeType() string     { return "Calc" }
func (c *CalcNode) GetChildren() []PlanNode { return []PlanNode{c.Input} }

func (c *CalcNode) String() string {
	var sb strings.Builder
	sb.WriteString("Calc(")
	if c.Condition != nil {
		sb.WriteString(fmt.Sprintf("where=%s", c.Condition))
	}
	if len(c.Projections) > 0 {
		if c.Condition != nil {
			sb.WriteString(", ")
		}
		names := make([]string, len(c.Projections))
		for i, p := range c.Projections {
			names[i] = fmt.Sprintf("%s AS %s", p.Expr, p.Name)
		}
		sb.WriteString("select=")
		sb.WriteString(strings.Join(names, ", "))
	}
	sb.WriteString(")")
	return sb.String()
}

func (h *HashAggregateNode) GetNodeType() string     { return "HashAggregate" }
func (h *HashAggregateNode) GetChildren() []PlanNode { return []PlanNode{h.Input} }

func (h *HashAggregateNode) String() string {
	aggs := make([]string, len(h.Aggregates))
	for i, a := range h.Aggregates {
		aggs[i] = a.String()
	}
	return fmt.Sprintf("HashAggregate(group=%v, aggs=[%s])", h.GroupBy, strings.Join(aggs, ", "))
}

func (a AggregateCall) String() string {
	if a.Kind == AggCountStar {
		return "COUNT(*)"
	}
	if a.Distinct {
		return fmt.Sprintf("%s(DISTINCT $%d)", a.Kind, a.Column)
	}
	return fmt.Sprintf("%s($%d)", a.Kind, a.Column)
}

func (s *SortNode) GetNodeType() string     { return "Sort" }
func (s *SortNode) GetChildren() []PlanNode { return []PlanNode{s.Input} }

func (s *SortNode) String() string {
	return fmt.Sprintf("Sort(order=%s)", s.Collation)
}

func (l *LimitSortNode) GetNodeType() string     { return "LimitSort" }
func (l *LimitSortNode) GetChildren() []PlanNode { return []PlanNode{l.Input} }

func (l *LimitSortNode) String() string {
	return fmt.Sprintf("LimitSort(order=%s%s)", l.Collation, limitSuffix(l.Offset, l.Fetch))
}

func (l *LimitNode) GetNodeType() string     { return "Limit" }
func (l *LimitNode) GetChildren() []PlanNode { return []PlanNode{l.Input} }

func (l *LimitNode) String() string {
	return fmt.Sprintf("Limit(%s)", strings.TrimPrefix(limitSuffix(l.Offset, l.Fetch), ", "))
}

func limitSuffix(offset, fetch LimitValue) string {
	var sb strings.Builder
	if offset.IsSet() {
		sb.WriteString(fmt.Sprintf(", offset=%s", offset))
	}
	if fetch.IsSet() {
		sb.WriteString(fmt.Sprintf(", fetch=%s", fetch))
	}
	return sb.String()
}
