package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDriverValue(t *testing.T) {
	ts := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name    string
		value   any
		typ     Type
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "null", value: nil, typ: IntType, wantNil: true},
		{name: "int64", value: int64(12), typ: IntType, want: "12"},
		{name: "int from bytes", value: []byte(" 34 "), typ: IntType, want: "34"},
		{name: "int from lossy float", value: 1.5, typ: IntType, wantErr: true},
		{name: "float from bytes", value: []byte("2.5"), typ: FloatType, want: "2.5"},
		{name: "decimal from bytes", value: []byte("10.20"), typ: DecimalType, want: "10.20"},
		{name: "decimal from int", value: int64(3), typ: DecimalType, want: "3"},
		{name: "string from bytes", value: []byte("abc"), typ: StringType, want: "abc"},
		{name: "string from int", value: int64(9), typ: StringType, want: "9"},
		{name: "bool from int", value: int64(1), typ: BoolType, want: "true"},
		{name: "bool from text", value: "false", typ: BoolType, want: "false"},
		{name: "bad bool", value: "maybe", typ: BoolType, wantErr: true},
		{name: "timestamp", value: ts, typ: TimestampType, want: "2023-05-06 07:08:09"},
		{name: "timestamp from text", value: []byte("2023-05-06 07:08:09"), typ: TimestampType, want: "2023-05-06 07:08:09"},
		{name: "bytes", value: []byte{0xab}, typ: BytesType, want: "\\xab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromDriverValue(tt.value, tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.typ, got.Type())
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewField(t *testing.T) {
	f, err := NewField(int32(4))
	require.NoError(t, err)
	assert.Equal(t, IntType, f.Type())

	f, err = NewField("x")
	require.NoError(t, err)
	assert.Equal(t, StringType, f.Type())

	f, err = NewField(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	same := NewIntField(1)
	f, err = NewField(same)
	require.NoError(t, err)
	assert.Same(t, same, f)

	_, err = NewField(struct{}{})
	assert.Error(t, err)
}

func TestTypeFromDatabaseTypeName(t *testing.T) {
	assert.Equal(t, IntType, TypeFromDatabaseTypeName("BIGINT"))
	assert.Equal(t, DecimalType, TypeFromDatabaseTypeName("DECIMAL"))
	assert.Equal(t, FloatType, TypeFromDatabaseTypeName("DOUBLE"))
	assert.Equal(t, StringType, TypeFromDatabaseTypeName("VARCHAR"))
	assert.Equal(t, TimestampType, TypeFromDatabaseTypeName("DATETIME"))
	assert.Equal(t, BytesType, TypeFromDatabaseTypeName("BLOB"))
	assert.Equal(t, StringType, TypeFromDatabaseTypeName(""))

	typ, ok := ParseType("bigint")
	assert.True(t, ok)
	assert.Equal(t, IntType, typ)
	_, ok = ParseType("geometry")
	assert.False(t, ok)
}
