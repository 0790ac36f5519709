package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles_PlainWriter(t *testing.T) {
	st := newStyles(&bytes.Buffer{})

	tests := []struct {
		n    int
		want string
	}{
		{0, "(0 rows)"},
		{1, "(1 row)"},
		{3, "(3 rows)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, st.rowCount(tt.n))
	}
	assert.Equal(t, "NULL", st.null)
}

func TestStyles_ExplainIsBoxed(t *testing.T) {
	st := newStyles(&bytes.Buffer{})
	box := st.explain("Limit(fetch=1)\n  Scan\n")

	lines := strings.Split(box, "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.True(t, strings.HasPrefix(lines[3], "╰"))
	assert.Contains(t, lines[1], "Limit(fetch=1)")
	assert.Contains(t, lines[2], "  Scan")
}
