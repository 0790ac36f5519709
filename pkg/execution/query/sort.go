package query

import (
	"fmt"
	"sort"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/execution/internal/sortkey"
	"shardexec/pkg/iterator"
	"shardexec/pkg/metrics"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
)

// Sort orders tuples by a collation.
//
// Implementation:
//   - Materializes all rows from the child during Init (blocking operator)
//   - Sorts them stably, so rows the collation ranks equal keep input order
//   - Streams the sorted rows
//
// Performance Characteristics:
//   - Time: O(n log n)
//   - Space: O(n) to hold every row
type Sort struct {
	*iterator.UnaryOperator
	cmp    *sortkey.Comparator
	sorted *iterator.SliceIterator[tuple.Row]
}

// NewSort creates a sort of child by collation.
func NewSort(child iterator.Operator, collation plan.Collation) (*Sort, error) {
	if child == nil {
		return nil, dberror.InvalidArgument("Sort", "child operator cannot be nil")
	}
	cmp, err := sortkey.New(collation, child.MetaData())
	if err != nil {
		return nil, err
	}

	s := &Sort{cmp: cmp}
	unary, err := iterator.NewUnaryOperator("Sort", child, s.materialize)
	if err != nil {
		return nil, err
	}
	s.UnaryOperator = unary
	return s, nil
}

func (s *Sort) materialize() error {
	rows, err := drain(s.Child())
	if err != nil {
		return err
	}

	sorter := &sortkey.Sorter{Rows: rows, Cmp: s.cmp}
	sort.Stable(sorter)
	if sorter.Err != nil {
		return fmt.Errorf("error sorting rows: %w", sorter.Err)
	}

	metrics.ObserveRows(s.Name(), len(rows))
	s.sorted = iterator.NewSliceIterator(rows)
	return nil
}

func (s *Sort) MoveNext() (bool, error) {
	if err := s.Init(); err != nil {
		return false, err
	}
	return s.sorted.MoveNext(), nil
}

func (s *Sort) Current() (tuple.Row, error) {
	return currentOf(s.sorted, s.Name())
}

// Reset rewinds to the first sorted row without sorting again.
func (s *Sort) Reset() error {
	if err := s.Init(); err != nil {
		return err
	}
	s.sorted.Reset()
	return nil
}

// drain reads every remaining row of op.
func drain(op iterator.Operator) ([]tuple.Row, error) {
	var rows []tuple.Row
	for {
		row, err := iterator.FetchNext(op)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

func currentOf(it *iterator.SliceIterator[tuple.Row], name string) (tuple.Row, error) {
	if it == nil {
		return nil, fmt.Errorf("%s has no current row", name)
	}
	row := it.Current()
	if row == nil {
		return nil, fmt.Errorf("%s has no current row", name)
	}
	return row, nil
}
