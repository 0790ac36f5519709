package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicate_FromOrdering(t *testing.T) {
	tests := []struct {
		op   Predicate
		cmp  int
		want bool
	}{
		{Equals, 0, true},
		{Equals, 1, false},
		{LessThan, -1, true},
		{LessThan, 0, false},
		{GreaterThan, 1, true},
		{LessThanOrEqual, 0, true},
		{GreaterThanOrEqual, -1, false},
		{NotEqual, 1, true},
		{NotEqual, 0, false},
		{Like, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.FromOrdering(tt.cmp))
		})
	}
}
