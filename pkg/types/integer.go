package types

import (
	"strconv"

	"shardexec/pkg/primitives"
)

// IntField represents a 64-bit signed integer value.
type IntField struct {
	Val int64
}

func NewIntField(value int64) *IntField {
	return &IntField{Val: value}
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	return compareWith(f, op, other)
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(f.Val, 10)
}

func (f *IntField) Equals(other Field) bool {
	otherField, ok := other.(*IntField)
	if !ok {
		return false
	}
	return f.Val == otherField.Val
}

func (f *IntField) Hash() primitives.HashCode {
	return hashTagged(IntType, toBytes64(uint64(f.Val))) // #nosec G115
}

func (f *IntField) Value() any {
	return f.Val
}
