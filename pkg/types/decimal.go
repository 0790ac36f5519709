package types

import (
	"github.com/cockroachdb/apd/v3"
	"shardexec/pkg/primitives"
)

// DecimalContext is the arithmetic context shared by decimal aggregation and evaluation.
var DecimalContext = apd.BaseContext.WithPrecision(34)

// DecimalField represents an exact decimal value. The wrapped decimal must not be
// mutated after construction.
type DecimalField struct {
	Decimal *apd.Decimal
}

func NewDecimalField(d *apd.Decimal) *DecimalField {
	return &DecimalField{Decimal: d}
}

// NewDecimalFromString parses s as an exact decimal.
func NewDecimalFromString(s string) (*DecimalField, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &DecimalField{Decimal: d}, nil
}

// NewDecimalFromInt64 converts v exactly.
func NewDecimalFromInt64(v int64) *DecimalField {
	return &DecimalField{Decimal: apd.New(v, 0)}
}

func (f *DecimalField) Compare(op primitives.Predicate, other Field) (bool, error) {
	return compareWith(f, op, other)
}

func (f *DecimalField) Type() Type {
	return DecimalType
}

func (f *DecimalField) String() string {
	return f.Decimal.String()
}

// Equals compares numerically, so 1.0 equals 1.00.
func (f *DecimalField) Equals(other Field) bool {
	otherField, ok := other.(*DecimalField)
	if !ok {
		return false
	}
	return f.Decimal.Cmp(otherField.Decimal) == 0
}

func (f *DecimalField) Hash() primitives.HashCode {
	var reduced apd.Decimal
	reduced.Reduce(f.Decimal)
	if reduced.IsZero() {
		reduced.Negative = false
		reduced.Exponent = 0
	}
	return hashTagged(DecimalType, []byte(reduced.String()))
}

// Value returns the decimal text, which every SQL driver accepts as an argument.
func (f *DecimalField) Value() any {
	return f.Decimal.String()
}
