package iterator

import "shardexec/pkg/tuple"

// Operator is the contract every node of a compiled operator tree satisfies.
// Operators are pulled by a single consumer: MoveNext advances, Current reads.
//
// Lifecycle: construct (cheap, no I/O), Init once, MoveNext/Current until
// MoveNext reports false, Close. MoveNext initializes the operator on first
// use, so calling Init explicitly is optional.
type Operator interface {
	// MetaData returns the shape of produced rows. It is available right after
	// construction and never requires Init.
	MetaData() *tuple.MetaData

	// Init performs all non-trivial setup exactly once. Concurrent callers block
	// until the single in-flight initialization finishes and then observe its result.
	Init() error

	// MoveNext advances to the next row and reports whether one exists.
	MoveNext() (bool, error)

	// Current returns the row produced by the last successful MoveNext.
	// Its result is undefined before the first successful MoveNext.
	Current() (tuple.Row, error)

	// Reset rewinds to the first row. Only replayable operators support it;
	// others return an unsupported error.
	Reset() error

	// Close releases held resources and closes children. It is idempotent and
	// safe on operators that were never initialized.
	Close() error
}

// Named is implemented by operators that report a display name for logs and errors.
type Named interface {
	Name() string
}
