// Package sortkey turns a collation into a row comparator shared by the sort,
// top-N and merge-sort operators.
package sortkey

import (
	"fmt"

	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// Comparator orders rows by a collation. NULL placement follows each key's
// null order and is not flipped by a descending direction.
type Comparator struct {
	keys plan.Collation
}

// New builds a comparator for rows of md, validating every key against it.
func New(c plan.Collation, md *tuple.MetaData) (*Comparator, error) {
	if err := c.Validate(md.ColumnCount()); err != nil {
		return nil, err
	}
	return &Comparator{keys: append(plan.Collation(nil), c...)}, nil
}

// Compare returns the three-way ordering of a and b.
func (c *Comparator) Compare(a, b tuple.Row) (int, error) {
	for _, k := range c.keys {
		r, err := compareKey(k, a.Get(k.Column), b.Get(k.Column))
		if err != nil {
			return 0, fmt.Errorf("sort key $%d: %w", k.Column, err)
		}
		if r != 0 {
			return r, nil
		}
	}
	return 0, nil
}

func compareKey(k plan.SortKey, x, y types.Field) (int, error) {
	switch {
	case x == nil && y == nil:
		return 0, nil
	case x == nil:
		return nullSide(k), nil
	case y == nil:
		return -nullSide(k), nil
	}

	r, err := types.CompareFields(x, y)
	if err != nil {
		return 0, err
	}
	if k.Descending {
		r = -r
	}
	return r, nil
}

func nullSide(k plan.SortKey) int {
	if k.Nulls == plan.NullsLast {
		return 1
	}
	return -1
}

// Sorter sorts rows with a comparator, recording the first comparison error
// since sort.Interface cannot return one.
type Sorter struct {
	Rows []tuple.Row
	Cmp  *Comparator
	Err  error
}

func (s *Sorter) Len() int      { return len(s.Rows) }
func (s *Sorter) Swap(i, j int) { s.Rows[i], s.Rows[j] = s.Rows[j], s.Rows[i] }

func (s *Sorter) Less(i, j int) bool {
	if s.Err != nil {
		return false
	}
	r, err := s.Cmp.Compare(s.Rows[i], s.Rows[j])
	if err != nil {
		s.Err = err
		return false
	}
	return r < 0
}
