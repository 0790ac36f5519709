package tuple

import (
	"time"

	"shardexec/pkg/types"
)

// Builder provides a fluent interface for constructing rows, mostly in tests
// and for literal value lists.
type Builder struct {
	fields []types.Field
}

// NewBuilder creates a builder with capacity for n columns.
func NewBuilder(n int) *Builder {
	return &Builder{fields: make([]types.Field, 0, n)}
}

// AddInt adds an integer field at the current index
func (b *Builder) AddInt(value int64) *Builder {
	b.fields = append(b.fields, types.NewIntField(value))
	return b
}

// AddString adds a string field at the current index
func (b *Builder) AddString(value string) *Builder {
	b.fields = append(b.fields, types.NewStringField(value))
	return b
}

// AddFloat adds a float field at the current index
func (b *Builder) AddFloat(value float64) *Builder {
	b.fields = append(b.fields, types.NewFloatField(value))
	return b
}

// AddBool adds a boolean field at the current index
func (b *Builder) AddBool(value bool) *Builder {
	b.fields = append(b.fields, types.NewBoolField(value))
	return b
}

// AddTimestamp adds a timestamp field at the current index
func (b *Builder) AddTimestamp(value time.Time) *Builder {
	b.fields = append(b.fields, types.NewTimestampField(value))
	return b
}

// AddNull adds SQL NULL at the current index
func (b *Builder) AddNull() *Builder {
	b.fields = append(b.fields, nil)
	return b
}

// AddField adds an arbitrary (possibly nil) field
func (b *Builder) AddField(f types.Field) *Builder {
	b.fields = append(b.fields, f)
	return b
}

// Build returns the row. The builder must not be reused.
func (b *Builder) Build() *Tuple {
	return NewTuple(b.fields...)
}
