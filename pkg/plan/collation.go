package plan

import (
	"fmt"
	"strings"
)

// NullOrder places NULLs relative to non-null values.
type NullOrder int

const (
	NullsFirst NullOrder = iota
	NullsLast
)

// SortKey orders rows by one column.
type SortKey struct {
	Column     int
	Descending bool
	Nulls      NullOrder
}

// Asc returns an ascending key with NULLs first.
func Asc(column int) SortKey {
	return SortKey{Column: column, Nulls: NullsFirst}
}

// Desc returns a descending key with NULLs last.
func Desc(column int) SortKey {
	return SortKey{Column: column, Descending: true, Nulls: NullsLast}
}

func (k SortKey) String() string {
	dir := "ASC"
	if k.Descending {
		dir = "DESC"
	}
	nulls := "NULLS FIRST"
	if k.Nulls == NullsLast {
		nulls = "NULLS LAST"
	}
	return fmt.Sprintf("$%d %s %s", k.Column, dir, nulls)
}

// Collation is an ordered list of sort keys; earlier keys take precedence.
type Collation []SortKey

func (c Collation) String() string {
	keys := make([]string, len(c))
	for i, k := range c {
		keys[i] = k.String()
	}
	return "[" + strings.Join(keys, ", ") + "]"
}

// Validate checks that every key addresses a column below width.
func (c Collation) Validate(width int) error {
	if len(c) == 0 {
		return fmt.Errorf("collation must have at least one key")
	}
	for _, k := range c {
		if k.Column < 0 || k.Column >= width {
			return fmt.Errorf("sort column %d out of bounds (row has %d columns)", k.Column, width)
		}
	}
	return nil
}
