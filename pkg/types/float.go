package types

import (
	"math"
	"strconv"

	"shardexec/pkg/primitives"
)

// FloatField represents a 64-bit IEEE 754 floating point value.
type FloatField struct {
	Val float64
}

func NewFloatField(value float64) *FloatField {
	return &FloatField{Val: value}
}

func (f *FloatField) Compare(op primitives.Predicate, other Field) (bool, error) {
	return compareWith(f, op, other)
}

func (f *FloatField) Type() Type {
	return FloatType
}

func (f *FloatField) String() string {
	return strconv.FormatFloat(f.Val, 'g', -1, 64)
}

func (f *FloatField) Equals(other Field) bool {
	otherField, ok := other.(*FloatField)
	if !ok {
		return false
	}
	return f.Val == otherField.Val
}

// Hash treats +0 and -0 as the same value, matching Equals.
func (f *FloatField) Hash() primitives.HashCode {
	v := f.Val
	if v == 0 {
		v = 0
	}
	return hashTagged(FloatType, toBytes64(math.Float64bits(v)))
}

func (f *FloatField) Value() any {
	return f.Val
}
