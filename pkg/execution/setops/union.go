package setops

import (
	"fmt"

	"github.com/cockroachdb/errors"
	dberror "shardexec/pkg/error"
	"shardexec/pkg/iterator"
	"shardexec/pkg/tuple"
)

// MultiOperator concatenates the streams of its children in list order.
// There is no merging and no ordering across children: every row of child i
// comes before every row of child i+1.
//
// Init initializes every child eagerly, so a failing data source is reported
// before the first row is returned.
type MultiOperator struct {
	*iterator.BaseOperator
	children []iterator.Operator
	md       *tuple.MetaData
	active   int
}

// NewMultiOperator creates a union over children. The list must be non-empty
// and every child must produce rows of the same width.
func NewMultiOperator(children []iterator.Operator) (*MultiOperator, error) {
	md, err := commonMetaData("MultiOperator", children)
	if err != nil {
		return nil, err
	}

	m := &MultiOperator{
		children: append([]iterator.Operator(nil), children...),
		md:       md,
	}
	m.BaseOperator = iterator.NewBaseOperator("MultiOperator", m.initChildren, m.closeChildren)
	return m, nil
}

func commonMetaData(component string, children []iterator.Operator) (*tuple.MetaData, error) {
	if len(children) == 0 {
		return nil, dberror.InvalidArgument(component, "at least one child operator is required")
	}

	md := children[0].MetaData()
	for i, child := range children {
		if child == nil {
			return nil, dberror.InvalidArgument(component, "child operator %d is nil", i)
		}
		if child.MetaData().ColumnCount() != md.ColumnCount() {
			return nil, dberror.InvalidArgument(component,
				"child %d has %d columns, expected %d", i, child.MetaData().ColumnCount(), md.ColumnCount())
		}
	}
	return md, nil
}

func (m *MultiOperator) initChildren() error {
	return initAll(m.children)
}

func initAll(children []iterator.Operator) error {
	for i, child := range children {
		if err := child.Init(); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

func (m *MultiOperator) closeChildren() error {
	return closeAll(m.children)
}

func closeAll(children []iterator.Operator) error {
	var err error
	for _, child := range children {
		err = errors.CombineErrors(err, child.Close())
	}
	return err
}

func (m *MultiOperator) MetaData() *tuple.MetaData {
	return m.md
}

// MoveNext advances the active child and moves to the next child in list
// order when it is exhausted.
func (m *MultiOperator) MoveNext() (bool, error) {
	if err := m.Init(); err != nil {
		return false, err
	}

	for m.active < len(m.children) {
		ok, err := m.children[m.active].MoveNext()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		m.active++
	}
	return false, nil
}

// Current delegates to the active child.
func (m *MultiOperator) Current() (tuple.Row, error) {
	if m.active >= len(m.children) {
		return nil, fmt.Errorf("MultiOperator has no current row")
	}
	return m.children[m.active].Current()
}

// Children returns the child operators.
func (m *MultiOperator) Children() []iterator.Operator {
	return m.children
}
