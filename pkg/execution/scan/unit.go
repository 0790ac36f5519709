package scan

import (
	"fmt"

	"shardexec/pkg/plan"
	"shardexec/pkg/route"
)

// ExecutionUnit is one physical statement bound for one data source.
type ExecutionUnit struct {
	DataSource string
	SQL        string
	Parameters []any
}

func (u ExecutionUnit) String() string {
	return fmt.Sprintf("%s ::: %s ::: %v", u.DataSource, u.SQL, u.Parameters)
}

// BuildUnits rewrites sql for every routed unit. The logical table names are
// replaced by each unit's actual names; parameters are shared by all units.
func BuildUnits(sql string, params []any, rc *route.Context) []ExecutionUnit {
	if rc == nil {
		return nil
	}
	units := make([]ExecutionUnit, len(rc.Units))
	for i, u := range rc.Units {
		units[i] = ExecutionUnit{
			DataSource: u.DataSource,
			SQL:        route.Rewrite(sql, u.TableMappers),
			Parameters: params,
		}
	}
	return units
}

// unitGroup is the set of units one data source runs for a query, with the
// connection mode and connection count chosen for it.
type unitGroup struct {
	dataSource  string
	mode        plan.ConnectionMode
	connections int
	units       []int // indexes into the unit list
}

// groupUnits groups units by data source in first-seen order.
func groupUnits(units []ExecutionUnit, hint plan.ConnectionMode, maxConnectionsSizePerQuery int) []unitGroup {
	index := make(map[string]int)
	var groups []unitGroup
	for i, u := range units {
		g, ok := index[u.DataSource]
		if !ok {
			g = len(groups)
			index[u.DataSource] = g
			groups = append(groups, unitGroup{dataSource: u.DataSource})
		}
		groups[g].units = append(groups[g].units, i)
	}

	for i := range groups {
		g := &groups[i]
		g.mode = chooseMode(hint, len(g.units), maxConnectionsSizePerQuery)
		g.connections = len(g.units)
		if g.mode == plan.ModeMemory && g.connections > maxConnectionsSizePerQuery {
			g.connections = max(maxConnectionsSizePerQuery, 1)
		}
	}
	return groups
}

// chooseMode streams when every unit of a data source can hold its own
// connection within the per-query budget, and materializes otherwise. A
// non-auto hint wins.
func chooseMode(hint plan.ConnectionMode, units, maxConnectionsSizePerQuery int) plan.ConnectionMode {
	if hint != plan.ModeAuto {
		return hint
	}
	if units <= maxConnectionsSizePerQuery {
		return plan.ModeStream
	}
	return plan.ModeMemory
}

// assign returns the units connection c of g runs, round robin.
func (g unitGroup) assign(c int) []int {
	var out []int
	for i := c; i < len(g.units); i += g.connections {
		out = append(out, g.units[i])
	}
	return out
}
