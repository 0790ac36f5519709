package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

var timestampFormats = []string{
	time.RFC3339Nano,
	timestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FromDriverValue converts a value scanned from database/sql into a Field of the
// declared column type. A nil value is SQL NULL and yields a nil Field.
func FromDriverValue(v any, t Type) (Field, error) {
	if v == nil {
		return nil, nil
	}

	switch t {
	case IntType:
		return toInt(v)
	case FloatType:
		return toFloat(v)
	case DecimalType:
		return toDecimal(v)
	case StringType:
		return toString(v), nil
	case BoolType:
		return toBool(v)
	case BytesType:
		return toBytes(v), nil
	case TimestampType:
		return toTimestamp(v)
	default:
		return nil, fmt.Errorf("unsupported column type %v", t)
	}
}

// NewField infers the type from a plain Go value. It is used for literals and
// bound parameters. Fields are passed through unchanged.
func NewField(v any) (Field, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Field:
		return x, nil
	case int:
		return NewIntField(int64(x)), nil
	case int8:
		return NewIntField(int64(x)), nil
	case int16:
		return NewIntField(int64(x)), nil
	case int32:
		return NewIntField(int64(x)), nil
	case int64:
		return NewIntField(x), nil
	case uint8:
		return NewIntField(int64(x)), nil
	case uint16:
		return NewIntField(int64(x)), nil
	case uint32:
		return NewIntField(int64(x)), nil
	case float32:
		return NewFloatField(float64(x)), nil
	case float64:
		return NewFloatField(x), nil
	case string:
		return NewStringField(x), nil
	case bool:
		return NewBoolField(x), nil
	case []byte:
		return NewBytesField(x), nil
	case time.Time:
		return NewTimestampField(x), nil
	case *apd.Decimal:
		return NewDecimalField(new(apd.Decimal).Set(x)), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func asText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

func toInt(v any) (Field, error) {
	switch x := v.(type) {
	case *IntField:
		return x, nil
	case int64:
		return NewIntField(x), nil
	case int32:
		return NewIntField(int64(x)), nil
	case int:
		return NewIntField(int64(x)), nil
	case uint64:
		return NewIntField(int64(x)), nil // #nosec G115
	case float64:
		if x != float64(int64(x)) {
			return nil, fmt.Errorf("cannot convert %v to INT without loss", x)
		}
		return NewIntField(int64(x)), nil
	case bool:
		if x {
			return NewIntField(1), nil
		}
		return NewIntField(0), nil
	}
	if s, ok := asText(v); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to INT: %w", s, err)
		}
		return NewIntField(n), nil
	}
	return nil, fmt.Errorf("cannot convert %T to INT", v)
}

func toFloat(v any) (Field, error) {
	switch x := v.(type) {
	case float64:
		return NewFloatField(x), nil
	case float32:
		return NewFloatField(float64(x)), nil
	case int64:
		return NewFloatField(float64(x)), nil
	case int:
		return NewFloatField(float64(x)), nil
	}
	if s, ok := asText(v); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to FLOAT: %w", s, err)
		}
		return NewFloatField(f), nil
	}
	return nil, fmt.Errorf("cannot convert %T to FLOAT", v)
}

func toDecimal(v any) (Field, error) {
	switch x := v.(type) {
	case int64:
		return NewDecimalFromInt64(x), nil
	case int:
		return NewDecimalFromInt64(int64(x)), nil
	case float64:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(x); err != nil {
			return nil, err
		}
		return NewDecimalField(d), nil
	case *apd.Decimal:
		return NewDecimalField(new(apd.Decimal).Set(x)), nil
	}
	if s, ok := asText(v); ok {
		f, err := NewDecimalFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to DECIMAL: %w", s, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert %T to DECIMAL", v)
}

func toString(v any) Field {
	if s, ok := asText(v); ok {
		return NewStringField(s)
	}
	if t, ok := v.(time.Time); ok {
		return NewStringField(NewTimestampField(t).String())
	}
	return NewStringField(fmt.Sprint(v))
}

func toBool(v any) (Field, error) {
	switch x := v.(type) {
	case bool:
		return NewBoolField(x), nil
	case int64:
		return NewBoolField(x != 0), nil
	case int:
		return NewBoolField(x != 0), nil
	}
	if s, ok := asText(v); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to BOOL: %w", s, err)
		}
		return NewBoolField(b), nil
	}
	return nil, fmt.Errorf("cannot convert %T to BOOL", v)
}

func toBytes(v any) Field {
	switch x := v.(type) {
	case []byte:
		return NewBytesField(x)
	case string:
		return NewBytesField([]byte(x))
	}
	return NewBytesField([]byte(fmt.Sprint(v)))
}

func toTimestamp(v any) (Field, error) {
	if t, ok := v.(time.Time); ok {
		return NewTimestampField(t), nil
	}
	if s, ok := asText(v); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timestampFormats {
			if t, err := time.Parse(layout, s); err == nil {
				return NewTimestampField(t), nil
			}
		}
		return nil, fmt.Errorf("cannot convert %q to TIMESTAMP", s)
	}
	return nil, fmt.Errorf("cannot convert %T to TIMESTAMP", v)
}
