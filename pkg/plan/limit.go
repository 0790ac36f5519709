package plan

import (
	"fmt"

	"shardexec/pkg/types"
)

type limitKind int

const (
	limitUnset limitKind = iota
	limitLiteral
	limitParam
)

// LimitValue is an offset or fetch count. It is either absent, a literal
// from the plan, or a parameter ordinal resolved against the bound parameters
// when the operator initializes. The zero value is absent.
type LimitValue struct {
	kind  limitKind
	value int64
	param int
}

// LimitOf returns a literal limit value.
func LimitOf(n int64) LimitValue {
	return LimitValue{kind: limitLiteral, value: n}
}

// LimitParam returns a limit value read from parameter ordinal index.
func LimitParam(index int) LimitValue {
	return LimitValue{kind: limitParam, param: index}
}

// IsSet reports whether the value is present.
func (l LimitValue) IsSet() bool {
	return l.kind != limitUnset
}

// IsParam reports whether the value comes from a bound parameter.
func (l LimitValue) IsParam() bool {
	return l.kind == limitParam
}

// Resolve returns the count, or def when the value is absent. Negative
// counts are rejected.
func (l LimitValue) Resolve(params []any, def int64) (int64, error) {
	var n int64
	switch l.kind {
	case limitUnset:
		return def, nil
	case limitLiteral:
		n = l.value
	case limitParam:
		if l.param < 0 || l.param >= len(params) {
			return 0, fmt.Errorf("limit parameter ?%d out of range (%d parameters bound)", l.param, len(params))
		}
		f, err := types.FromDriverValue(params[l.param], types.IntType)
		if err != nil {
			return 0, fmt.Errorf("limit parameter ?%d: %w", l.param, err)
		}
		if f == nil {
			return 0, fmt.Errorf("limit parameter ?%d is NULL", l.param)
		}
		n = f.(*types.IntField).Val
	}

	if n < 0 {
		return 0, fmt.Errorf("limit value %d must not be negative", n)
	}
	return n, nil
}

func (l LimitValue) String() string {
	switch l.kind {
	case limitLiteral:
		return fmt.Sprintf("%d", l.value)
	case limitParam:
		return fmt.Sprintf("?%d", l.param)
	default:
		return "none"
	}
}
