package types

import (
	"strconv"

	"shardexec/pkg/primitives"
)

// BoolField represents a boolean value. FALSE orders before TRUE.
type BoolField struct {
	Val bool
}

func NewBoolField(value bool) *BoolField {
	return &BoolField{Val: value}
}

func (b *BoolField) Compare(op primitives.Predicate, other Field) (bool, error) {
	return compareWith(b, op, other)
}

func (b *BoolField) Type() Type {
	return BoolType
}

func (b *BoolField) String() string {
	return strconv.FormatBool(b.Val)
}

func (b *BoolField) Equals(other Field) bool {
	otherField, ok := other.(*BoolField)
	if !ok {
		return false
	}
	return b.Val == otherField.Val
}

func (b *BoolField) Hash() primitives.HashCode {
	if b.Val {
		return hashTagged(BoolType, []byte{1})
	}
	return hashTagged(BoolType, []byte{0})
}

func (b *BoolField) Value() any {
	return b.Val
}
