package query

import (
	"container/heap"
	"fmt"

	dberror "shardexec/pkg/error"
	"shardexec/pkg/execution/internal/sortkey"
	"shardexec/pkg/iterator"
	"shardexec/pkg/metrics"
	"shardexec/pkg/plan"
	"shardexec/pkg/primitives"
	"shardexec/pkg/tuple"
)

// boundedHeap keeps the best rows seen so far under a comparator, never more
// than limit of them. Its root is the worst kept row, so eviction pops the
// root. Rows that compare equal rank by arrival, earlier first.
type boundedHeap struct {
	cmp     *sortkey.Comparator
	limit   int64
	entries []heapEntry
	seq     int64
	err     error
}

type heapEntry struct {
	row tuple.Row
	seq int64
}

func newBoundedHeap(cmp *sortkey.Comparator, limit int64) *boundedHeap {
	return &boundedHeap{cmp: cmp, limit: limit}
}

// Offer adds row, evicting the worst row when the bound is exceeded.
func (h *boundedHeap) Offer(row tuple.Row) error {
	heap.Push(h, heapEntry{row: row, seq: h.seq})
	h.seq++
	if int64(h.Len()) > h.limit {
		heap.Pop(h)
	}
	return h.takeErr()
}

// Drain empties the heap and returns the kept rows best first.
func (h *boundedHeap) Drain() ([]tuple.Row, error) {
	rows := make([]tuple.Row, h.Len())
	for i := len(rows) - 1; i >= 0; i-- {
		rows[i] = heap.Pop(h).(heapEntry).row
	}
	return rows, h.takeErr()
}

func (h *boundedHeap) takeErr() error {
	err := h.err
	h.err = nil
	return err
}

func (h *boundedHeap) Len() int { return len(h.entries) }

// Less ranks the worse row first, the inverse of the output order.
func (h *boundedHeap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	r, err := h.cmp.Compare(a.row, b.row)
	if err != nil {
		if h.err == nil {
			h.err = err
		}
		return false
	}
	if r != 0 {
		return r > 0
	}
	return a.seq > b.seq
}

func (h *boundedHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *boundedHeap) Push(x any) {
	h.entries = append(h.entries, x.(heapEntry))
}

func (h *boundedHeap) Pop() any {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries[n-1] = heapEntry{}
	h.entries = h.entries[:n-1]
	return e
}

// TopN returns the window [offset, offset+fetch) of its child sorted by a
// collation while holding at most offset+fetch rows in memory. Every child
// row is still read once. The result equals a stable full sort followed by
// the same offset and fetch.
type TopN struct {
	*iterator.UnaryOperator
	cmp    *sortkey.Comparator
	params []any
	offset plan.LimitValue
	fetch  plan.LimitValue
	sorted *iterator.SliceIterator[tuple.Row]
}

// NewTopN creates a top-N of child. offset and fetch are resolved against
// params during Init.
func NewTopN(child iterator.Operator, collation plan.Collation, offset, fetch plan.LimitValue, params []any) (*TopN, error) {
	if child == nil {
		return nil, dberror.InvalidArgument("TopN", "child operator cannot be nil")
	}
	cmp, err := sortkey.New(collation, child.MetaData())
	if err != nil {
		return nil, err
	}

	t := &TopN{
		cmp:    cmp,
		params: params,
		offset: offset,
		fetch:  fetch,
	}
	unary, err := iterator.NewUnaryOperator("TopN", child, t.materialize)
	if err != nil {
		return nil, err
	}
	t.UnaryOperator = unary
	return t, nil
}

func (t *TopN) materialize() error {
	offset, fetch, err := resolveWindow(t.offset, t.fetch, t.params)
	if err != nil {
		return err
	}

	bound := int64(primitives.Unbounded)
	if fetch < bound-offset {
		bound = offset + fetch
	}

	var rows []tuple.Row
	if bound > 0 {
		h := newBoundedHeap(t.cmp, bound)
		for {
			row, err := t.FetchNext()
			if err != nil {
				return err
			}
			if row == nil {
				break
			}
			if err := h.Offer(row); err != nil {
				return fmt.Errorf("error ranking rows: %w", err)
			}
		}
		if rows, err = h.Drain(); err != nil {
			return fmt.Errorf("error ranking rows: %w", err)
		}
	}

	if offset >= int64(len(rows)) {
		rows = nil
	} else {
		rows = rows[offset:]
	}
	metrics.ObserveRows(t.Name(), len(rows))
	t.sorted = iterator.NewSliceIterator(rows)
	return nil
}

func (t *TopN) MoveNext() (bool, error) {
	if err := t.Init(); err != nil {
		return false, err
	}
	return t.sorted.MoveNext(), nil
}

func (t *TopN) Current() (tuple.Row, error) {
	return currentOf(t.sorted, t.Name())
}

func resolveWindow(offset, fetch plan.LimitValue, params []any) (int64, int64, error) {
	o, err := offset.Resolve(params, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("offset: %w", err)
	}
	f, err := fetch.Resolve(params, int64(primitives.Unbounded))
	if err != nil {
		return 0, 0, fmt.Errorf("fetch: %w", err)
	}
	return o, f, nil
}
