package types

import (
	"bytes"
	"encoding/hex"

	"shardexec/pkg/primitives"
)

// BytesField represents a binary string.
type BytesField struct {
	Data []byte
}

// NewBytesField copies data so the field does not alias driver buffers.
func NewBytesField(data []byte) *BytesField {
	return &BytesField{Data: bytes.Clone(data)}
}

func (f *BytesField) Compare(op primitives.Predicate, other Field) (bool, error) {
	return compareWith(f, op, other)
}

func (f *BytesField) Type() Type {
	return BytesType
}

func (f *BytesField) String() string {
	return "\\x" + hex.EncodeToString(f.Data)
}

func (f *BytesField) Equals(other Field) bool {
	otherField, ok := other.(*BytesField)
	if !ok {
		return false
	}
	return bytes.Equal(f.Data, otherField.Data)
}

func (f *BytesField) Hash() primitives.HashCode {
	return hashTagged(BytesType, f.Data)
}

func (f *BytesField) Value() any {
	return f.Data
}
