package primitives

import "math"

// HashCode represents a hash value (e.g., for group keys or statement cache keys).
// It is typically computed for fast comparisons or lookups.
type HashCode uint64

// ColumnID identifies a column within a row (0-based).
type ColumnID uint32

// ParamIndex is the 0-based ordinal of a bound parameter in the execution context.
type ParamIndex int

// RowCount counts rows produced or skipped by an operator.
type RowCount int64

// Sentinel values for invalid/unset identifiers
const (
	InvalidColumnID ColumnID = math.MaxUint32

	// Unbounded marks a fetch budget with no upper limit.
	Unbounded RowCount = math.MaxInt64
)
