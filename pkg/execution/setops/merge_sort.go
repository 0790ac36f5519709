package setops

import (
	"container/heap"
	"fmt"

	"shardexec/pkg/execution/internal/sortkey"
	"shardexec/pkg/iterator"
	"shardexec/pkg/plan"
	"shardexec/pkg/primitives"
	"shardexec/pkg/tuple"
)

// MergeSort merges children that are each already sorted by the same
// collation into one globally sorted stream. It is a lazy k-way merge: at any
// time it holds one pending row per child in a min-heap.
//
// Offset and fetch are resolved against the bound parameters during Init.
// The offset rows are discarded in Init; after that every MoveNext spends one
// unit of the fetch budget, so an input of S rows yields max(0, min(F, S-O))
// rows. Rows that compare equal are produced in child order.
type MergeSort struct {
	*iterator.BaseOperator
	children []iterator.Operator
	md       *tuple.MetaData
	cmp      *sortkey.Comparator
	params   []any
	offset   plan.LimitValue
	fetch    plan.LimitValue

	queue     *mergeQueue
	current   tuple.Row
	remaining primitives.RowCount
}

// NewMergeSort creates a merge over children sorted by collation.
func NewMergeSort(children []iterator.Operator, collation plan.Collation, offset, fetch plan.LimitValue, params []any) (*MergeSort, error) {
	md, err := commonMetaData("MergeSort", children)
	if err != nil {
		return nil, err
	}
	cmp, err := sortkey.New(collation, md)
	if err != nil {
		return nil, err
	}

	m := &MergeSort{
		children: append([]iterator.Operator(nil), children...),
		md:       md,
		cmp:      cmp,
		params:   params,
		offset:   offset,
		fetch:    fetch,
	}
	m.BaseOperator = iterator.NewBaseOperator("MergeSort", m.initialize, m.closeChildren)
	return m, nil
}

func (m *MergeSort) initialize() error {
	offset, err := m.offset.Resolve(m.params, 0)
	if err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	fetch, err := m.fetch.Resolve(m.params, int64(primitives.Unbounded))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	m.remaining = primitives.RowCount(fetch)

	if err := initAll(m.children); err != nil {
		return err
	}

	m.queue = &mergeQueue{cmp: m.cmp}
	for i := range m.children {
		if err := m.advance(i); err != nil {
			return err
		}
	}

	for skipped := int64(0); skipped < offset && m.queue.Len() > 0; skipped++ {
		if _, err := m.pop(); err != nil {
			return err
		}
	}
	return nil
}

// advance pulls the next row of child i into the queue.
func (m *MergeSort) advance(i int) error {
	ok, err := m.children[i].MoveNext()
	if err != nil || !ok {
		return err
	}
	row, err := m.children[i].Current()
	if err != nil {
		return err
	}

	heap.Push(m.queue, mergeEntry{row: row, child: i})
	return m.queue.takeErr()
}

// pop removes the smallest pending row and refills from its child.
func (m *MergeSort) pop() (tuple.Row, error) {
	e := heap.Pop(m.queue).(mergeEntry)
	if err := m.queue.takeErr(); err != nil {
		return nil, err
	}
	return e.row, m.advance(e.child)
}

func (m *MergeSort) closeChildren() error {
	return closeAll(m.children)
}

func (m *MergeSort) MetaData() *tuple.MetaData {
	return m.md
}

func (m *MergeSort) MoveNext() (bool, error) {
	if err := m.Init(); err != nil {
		return false, err
	}

	if m.remaining <= 0 || m.queue.Len() == 0 {
		m.current = nil
		return false, nil
	}

	row, err := m.pop()
	if err != nil {
		return false, err
	}
	m.current = row
	m.remaining--
	return true, nil
}

func (m *MergeSort) Current() (tuple.Row, error) {
	if m.current == nil {
		return nil, fmt.Errorf("MergeSort has no current row")
	}
	return m.current, nil
}

type mergeEntry struct {
	row   tuple.Row
	child int
}

// mergeQueue is a min-heap of pending rows. Comparison errors are recorded and
// surfaced after the heap operation returns.
type mergeQueue struct {
	entries []mergeEntry
	cmp     *sortkey.Comparator
	err     error
}

func (q *mergeQueue) Len() int { return len(q.entries) }

func (q *mergeQueue) Less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	r, err := q.cmp.Compare(a.row, b.row)
	if err != nil {
		if q.err == nil {
			q.err = err
		}
		return false
	}
	if r != 0 {
		return r < 0
	}
	return a.child < b.child
}

func (q *mergeQueue) Swap(i, j int) { q.entries[i], q.entries[j] = q.entries[j], q.entries[i] }

func (q *mergeQueue) Push(x any) {
	q.entries = append(q.entries, x.(mergeEntry))
}

func (q *mergeQueue) Pop() any {
	n := len(q.entries)
	e := q.entries[n-1]
	q.entries[n-1] = mergeEntry{}
	q.entries = q.entries[:n-1]
	return e
}

func (q *mergeQueue) takeErr() error {
	err := q.err
	q.err = nil
	return err
}
