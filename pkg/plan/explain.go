package plan

import (
	"fmt"
	"strings"
)

// Explain renders the plan tree rooted at node, one node per line, children
// indented below their parent.
func Explain(node PlanNode) string {
	var sb strings.Builder
	explain(&sb, node, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func explain(sb *strings.Builder, node PlanNode, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if depth > 0 {
		sb.WriteString("-> ")
	}
	if node == nil {
		sb.WriteString("<nil>\n")
		return
	}

	sb.WriteString(node.String())
	if card := node.GetCardinality(); card > 0 {
		sb.WriteString(fmt.Sprintf(" rows=%d", card))
	}
	sb.WriteString("\n")

	for _, child := range node.GetChildren() {
		explain(sb, child, depth+1)
	}
}
