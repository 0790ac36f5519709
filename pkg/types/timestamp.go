package types

import (
	"time"

	"shardexec/pkg/primitives"
)

const timestampLayout = "2006-01-02 15:04:05.999999999"

// TimestampField represents a point in time, normalized to UTC.
type TimestampField struct {
	Time time.Time
}

func NewTimestampField(t time.Time) *TimestampField {
	return &TimestampField{Time: t.UTC()}
}

func (f *TimestampField) Compare(op primitives.Predicate, other Field) (bool, error) {
	return compareWith(f, op, other)
}

func (f *TimestampField) Type() Type {
	return TimestampType
}

func (f *TimestampField) String() string {
	return f.Time.Format(timestampLayout)
}

func (f *TimestampField) Equals(other Field) bool {
	otherField, ok := other.(*TimestampField)
	if !ok {
		return false
	}
	return f.Time.Equal(otherField.Time)
}

func (f *TimestampField) Hash() primitives.HashCode {
	return hashTagged(TimestampType, toBytes64(uint64(f.Time.UnixNano()))) // #nosec G115
}

func (f *TimestampField) Value() any {
	return f.Time
}
