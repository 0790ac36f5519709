package types

import "shardexec/pkg/primitives"

// Field is one non-null typed value. SQL NULL is represented by a nil Field.
// Fields are immutable once constructed.
type Field interface {
	// Compare applies op between this field and other. Incomparable types yield an error.
	Compare(op primitives.Predicate, other Field) (bool, error)

	// Type returns the logical type of the value.
	Type() Type

	String() string

	// Equals is strict value equality within one type. It is consistent with Hash.
	Equals(other Field) bool

	Hash() primitives.HashCode

	// Value returns the plain Go value, suitable for database/sql arguments.
	Value() any
}
