package tuple

import (
	"fmt"
	"strings"

	"shardexec/pkg/types"
)

// Column describes one output column of an operator.
type Column struct {
	Name     string
	Type     types.Type
	Nullable bool
}

// MetaData describes the shape of the rows an operator produces. It is known
// at construction time, before the operator is initialized.
type MetaData struct {
	Columns []Column
}

// NewMetaData copies columns into a new descriptor.
func NewMetaData(columns ...Column) *MetaData {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &MetaData{Columns: cols}
}

// NewMetaDataOf builds nullable columns from parallel name and type slices.
func NewMetaDataOf(names []string, columnTypes []types.Type) (*MetaData, error) {
	if len(names) != len(columnTypes) {
		return nil, fmt.Errorf("column names length (%d) must match column types length (%d)",
			len(names), len(columnTypes))
	}
	cols := make([]Column, len(names))
	for i := range names {
		cols[i] = Column{Name: names[i], Type: columnTypes[i], Nullable: true}
	}
	return &MetaData{Columns: cols}, nil
}

// ColumnCount returns the number of columns.
func (md *MetaData) ColumnCount() int {
	return len(md.Columns)
}

// ColumnName returns the name of the ith column (0-based).
func (md *MetaData) ColumnName(i int) (string, error) {
	if i < 0 || i >= len(md.Columns) {
		return "", fmt.Errorf("column index %d out of bounds [0, %d)", i, len(md.Columns))
	}
	return md.Columns[i].Name, nil
}

// ColumnType returns the type of the ith column (0-based).
func (md *MetaData) ColumnType(i int) (types.Type, error) {
	if i < 0 || i >= len(md.Columns) {
		return 0, fmt.Errorf("column index %d out of bounds [0, %d)", i, len(md.Columns))
	}
	return md.Columns[i].Type, nil
}

// Types returns the column types in order.
func (md *MetaData) Types() []types.Type {
	out := make([]types.Type, len(md.Columns))
	for i, c := range md.Columns {
		out[i] = c.Type
	}
	return out
}

// FindColumn locates a column by name, case-insensitively.
func (md *MetaData) FindColumn(name string) (int, error) {
	for i, c := range md.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %s not found", name)
}

// Equals checks if two descriptors have the same column types in the same order.
// Column names are not compared.
func (md *MetaData) Equals(other *MetaData) bool {
	if other == nil || len(md.Columns) != len(other.Columns) {
		return false
	}
	for i := range md.Columns {
		if md.Columns[i].Type != other.Columns[i].Type {
			return false
		}
	}
	return true
}

// String returns "TYPE(name),TYPE(name),...".
func (md *MetaData) String() string {
	parts := make([]string, len(md.Columns))
	for i, c := range md.Columns {
		parts[i] = fmt.Sprintf("%s(%s)", c.Type, c.Name)
	}
	return strings.Join(parts, ",")
}

// Combine merges two descriptors: all columns of left followed by all columns of right.
// Columns of a side that may be null-extended by an outer join become nullable.
func Combine(left, right *MetaData, nullableLeft, nullableRight bool) *MetaData {
	cols := make([]Column, 0, len(left.Columns)+len(right.Columns))
	for _, c := range left.Columns {
		c.Nullable = c.Nullable || nullableLeft
		cols = append(cols, c)
	}
	for _, c := range right.Columns {
		c.Nullable = c.Nullable || nullableRight
		cols = append(cols, c)
	}
	return &MetaData{Columns: cols}
}

// Project returns a descriptor with the selected columns of md, in the given order.
func (md *MetaData) Project(indexes []int) (*MetaData, error) {
	cols := make([]Column, len(indexes))
	for i, idx := range indexes {
		if idx < 0 || idx >= len(md.Columns) {
			return nil, fmt.Errorf("column index %d out of bounds [0, %d)", idx, len(md.Columns))
		}
		cols[i] = md.Columns[idx]
	}
	return &MetaData{Columns: cols}, nil
}
