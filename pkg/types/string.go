package types

import (
	"shardexec/pkg/primitives"
)

// StringField represents a variable-length character value.
type StringField struct {
	Val string
}

func NewStringField(value string) *StringField {
	return &StringField{Val: value}
}

// Compare performs a comparison operation between this StringField and another Field
// using the specified predicate. String comparisons are performed lexicographically;
// LIKE treats other as a pattern with % and _ wildcards.
func (s *StringField) Compare(op primitives.Predicate, other Field) (bool, error) {
	if op == primitives.Like {
		pattern, ok := other.(*StringField)
		if !ok {
			return false, typeMismatch(s, other)
		}
		return matchLike(s.Val, pattern.Val), nil
	}
	return compareWith(s, op, other)
}

func (s *StringField) Type() Type {
	return StringType
}

func (s *StringField) String() string {
	return s.Val
}

func (s *StringField) Equals(other Field) bool {
	otherField, ok := other.(*StringField)
	if !ok {
		return false
	}
	return s.Val == otherField.Val
}

func (s *StringField) Hash() primitives.HashCode {
	return hashTagged(StringType, []byte(s.Val))
}

func (s *StringField) Value() any {
	return s.Val
}

// matchLike implements SQL LIKE without escape characters.
func matchLike(value, pattern string) bool {
	v, p := []rune(value), []rune(pattern)
	vi, pi := 0, 0
	star, mark := -1, 0

	for vi < len(v) {
		switch {
		case pi < len(p) && (p[pi] == '_' || p[pi] == v[vi]):
			vi++
			pi++
		case pi < len(p) && p[pi] == '%':
			star = pi
			mark = vi
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			vi = mark
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}
