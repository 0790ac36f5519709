package tuple

import (
	"fmt"
	"strings"

	"shardexec/pkg/types"
)

// Row is one fixed-width, positionally addressed output row. Positions are
// 0-based; a nil Field is SQL NULL. Rows are immutable once constructed.
type Row interface {
	// Len returns the number of columns.
	Len() int

	// Get returns the value at position i. It panics if i is out of range,
	// like a slice index.
	Get(i int) types.Field
}

// Tuple is the slice-backed Row produced by scans, projections and aggregates.
type Tuple struct {
	fields []types.Field
}

// NewTuple creates a row owning fields. Callers must not modify fields afterwards.
func NewTuple(fields ...types.Field) *Tuple {
	return &Tuple{fields: fields}
}

// NullRow returns an all-NULL row of width n.
func NullRow(n int) *Tuple {
	return &Tuple{fields: make([]types.Field, n)}
}

func (t *Tuple) Len() int {
	return len(t.fields)
}

func (t *Tuple) Get(i int) types.Field {
	return t.fields[i]
}

// String returns a string representation of this row
// Format: field1\tfield2\t...\tfieldN
func (t *Tuple) String() string {
	return Format(t)
}

// JoinRow is the logical concatenation of two rows. It stores both halves
// separately so a join match does not copy either side.
type JoinRow struct {
	left  Row
	right Row
}

// NewJoinRow concatenates left followed by right.
func NewJoinRow(left, right Row) *JoinRow {
	return &JoinRow{left: left, right: right}
}

func (j *JoinRow) Len() int {
	return j.left.Len() + j.right.Len()
}

func (j *JoinRow) Get(i int) types.Field {
	if n := j.left.Len(); i >= n {
		return j.right.Get(i - n)
	}
	return j.left.Get(i)
}

func (j *JoinRow) String() string {
	return Format(j)
}

// Values copies the row into a fresh slice.
func Values(r Row) []types.Field {
	out := make([]types.Field, r.Len())
	for i := range out {
		out[i] = r.Get(i)
	}
	return out
}

// Materialize flattens any Row into a Tuple.
func Materialize(r Row) *Tuple {
	if t, ok := r.(*Tuple); ok {
		return t
	}
	return &Tuple{fields: Values(r)}
}

// Equal reports whether two rows have the same width and equal values,
// treating two NULLs as equal.
func Equal(a, b Row) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		x, y := a.Get(i), b.Get(i)
		switch {
		case x == nil && y == nil:
			continue
		case x == nil || y == nil:
			return false
		case !x.Equals(y):
			return false
		}
	}
	return true
}

// Format renders the row tab separated, with "NULL" for nulls.
func Format(r Row) string {
	parts := make([]string, r.Len())
	for i := range parts {
		if f := r.Get(i); f != nil {
			parts[i] = f.String()
		} else {
			parts[i] = "NULL"
		}
	}
	return strings.Join(parts, "\t")
}

// CheckWidth validates that r matches the width announced by md.
func CheckWidth(r Row, md *MetaData) error {
	if r.Len() != md.ColumnCount() {
		return fmt.Errorf("row has %d columns, metadata declares %d", r.Len(), md.ColumnCount())
	}
	return nil
}
