package types

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"shardexec/pkg/primitives"
)

// CompareFields returns the three-way ordering of two non-null fields.
// INT, FLOAT and DECIMAL are mutually comparable through numeric promotion;
// STRING and BYTES compare bytewise. Any other mix is a type mismatch.
func CompareFields(a, b Field) (int, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("cannot order NULL values directly")
	}

	if a.Type().IsNumeric() && b.Type().IsNumeric() {
		return compareNumeric(a, b)
	}

	switch x := a.(type) {
	case *StringField:
		switch y := b.(type) {
		case *StringField:
			return cmp.Compare(x.Val, y.Val), nil
		case *BytesField:
			return bytes.Compare([]byte(x.Val), y.Data), nil
		}
	case *BytesField:
		switch y := b.(type) {
		case *BytesField:
			return bytes.Compare(x.Data, y.Data), nil
		case *StringField:
			return bytes.Compare(x.Data, []byte(y.Val)), nil
		}
	case *BoolField:
		if y, ok := b.(*BoolField); ok {
			return compareBool(x.Val, y.Val), nil
		}
	case *TimestampField:
		if y, ok := b.(*TimestampField); ok {
			return x.Time.Compare(y.Time), nil
		}
	}

	return 0, typeMismatch(a, b)
}

func compareNumeric(a, b Field) (int, error) {
	if a.Type() == IntType && b.Type() == IntType {
		return cmp.Compare(a.(*IntField).Val, b.(*IntField).Val), nil
	}

	if a.Type() == DecimalType || b.Type() == DecimalType {
		x, err := ToDecimal(a)
		if err != nil {
			return 0, err
		}
		y, err := ToDecimal(b)
		if err != nil {
			return 0, err
		}
		return x.Cmp(y), nil
	}

	x, _ := ToFloat64(a)
	y, _ := ToFloat64(b)
	return cmp.Compare(x, y), nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// compareWith is the shared implementation of Field.Compare for ordered types.
func compareWith(f Field, op primitives.Predicate, other Field) (bool, error) {
	if other == nil {
		return false, nil
	}
	c, err := CompareFields(f, other)
	if err != nil {
		return false, err
	}
	return op.FromOrdering(c), nil
}

func typeMismatch(a, b Field) error {
	return fmt.Errorf("type mismatch: cannot compare %s with %s", a.Type(), b.Type())
}

// ToFloat64 converts a numeric field to float64.
func ToFloat64(f Field) (float64, error) {
	switch v := f.(type) {
	case *IntField:
		return float64(v.Val), nil
	case *FloatField:
		return v.Val, nil
	case *DecimalField:
		return v.Decimal.Float64()
	default:
		return 0, fmt.Errorf("%s is not numeric", f.Type())
	}
}

// ToDecimal converts a numeric field to an exact decimal. The result is a fresh value.
func ToDecimal(f Field) (*apd.Decimal, error) {
	switch v := f.(type) {
	case *IntField:
		return apd.New(v.Val, 0), nil
	case *FloatField:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(v.Val); err != nil {
			return nil, err
		}
		return d, nil
	case *DecimalField:
		return new(apd.Decimal).Set(v.Decimal), nil
	default:
		return nil, fmt.Errorf("%s is not numeric", f.Type())
	}
}
