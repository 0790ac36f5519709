// Package route carries the routing decision for one query: which data
// sources a logical scan hits and how logical table names map onto the
// actual tables on each of them.
package route

import (
	"regexp"
	"sort"
	"strings"
)

// TableMapper maps one logical table onto its actual table on a data source.
type TableMapper struct {
	LogicTable  string
	ActualTable string
}

// Unit is one routed target: a data source plus the tables it serves.
type Unit struct {
	DataSource   string
	TableMappers []TableMapper
}

// Context is the routing result for one query. It is read-only once built.
type Context struct {
	Units []Unit
}

// NewContext returns a routing context over units.
func NewContext(units ...Unit) *Context {
	return &Context{Units: units}
}

// Broadcast routes to every data source in names without renaming any table.
func Broadcast(names ...string) *Context {
	units := make([]Unit, len(names))
	for i, name := range names {
		units[i] = Unit{DataSource: name}
	}
	return &Context{Units: units}
}

// DataSourceNames returns the distinct data source names in first-seen order.
func (c *Context) DataSourceNames() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(c.Units))
	names := make([]string, 0, len(c.Units))
	for _, u := range c.Units {
		if _, ok := seen[u.DataSource]; ok {
			continue
		}
		seen[u.DataSource] = struct{}{}
		names = append(names, u.DataSource)
	}
	return names
}

// Rewrite replaces every logical table name in sql with its actual name.
// Names match case-insensitively on identifier boundaries; text inside
// single-quoted literals is left alone.
func Rewrite(sql string, mappers []TableMapper) string {
	if len(mappers) == 0 {
		return sql
	}

	actual := make(map[string]string, len(mappers))
	names := make([]string, 0, len(mappers))
	for _, m := range mappers {
		key := strings.ToLower(m.LogicTable)
		if key == "" || strings.EqualFold(m.LogicTable, m.ActualTable) {
			continue
		}
		if _, dup := actual[key]; !dup {
			names = append(names, regexp.QuoteMeta(m.LogicTable))
		}
		actual[key] = m.ActualTable
	}
	if len(names) == 0 {
		return sql
	}

	// longest first so t_order_item is not split by t_order
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	re := regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)

	var sb strings.Builder
	for i, part := range splitQuoted(sql) {
		if i%2 == 1 {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(re.ReplaceAllStringFunc(part, func(m string) string {
			return actual[strings.ToLower(m)]
		}))
	}
	return sb.String()
}

// splitQuoted splits sql into alternating unquoted and single-quoted parts.
// Odd indexes hold the quoted literals including their quotes.
func splitQuoted(sql string) []string {
	var parts []string
	start, inQuote := 0, false
	for i := 0; i < len(sql); i++ {
		if sql[i] != '\'' {
			continue
		}
		if inQuote {
			if i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			parts = append(parts, sql[start:i+1])
			start = i + 1
		} else {
			parts = append(parts, sql[start:i])
			start = i
		}
		inQuote = !inQuote
	}
	parts = append(parts, sql[start:])
	return parts
}
