package iterator

// SliceIterator is a cursor over materialized data. It encapsulates the common
// pattern of iterating through buffered rows, eliminating duplicate slice+index
// logic across Sort, TopN, HashAggregate and the buffered join side.
//
// The cursor starts before the first element: MoveNext must be called before
// Current. Reset is O(1).
type SliceIterator[T any] struct {
	data []T
	pos  int
}

// NewSliceIterator creates a new cursor over the given slice.
func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{
		data: data,
		pos:  -1,
	}
}

// MoveNext advances the cursor and reports whether it points at an element.
func (it *SliceIterator[T]) MoveNext() bool {
	if it.pos < len(it.data) {
		it.pos++
	}
	return it.pos < len(it.data)
}

// Current returns the element under the cursor, or the zero value when the
// cursor is not on an element.
func (it *SliceIterator[T]) Current() T {
	var zero T
	if it.pos < 0 || it.pos >= len(it.data) {
		return zero
	}
	return it.data[it.pos]
}

// Reset moves the cursor back before the first element.
func (it *SliceIterator[T]) Reset() {
	it.pos = -1
}

// Len returns the total number of elements in the slice.
func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}

// Remaining returns the number of elements MoveNext can still yield.
func (it *SliceIterator[T]) Remaining() int {
	if it.pos >= len(it.data) {
		return 0
	}
	return len(it.data) - it.pos - 1
}
