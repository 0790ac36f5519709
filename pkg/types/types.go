package types

import "strings"

// Type is the logical SQL type of a column.
type Type int

const (
	IntType Type = iota
	FloatType
	DecimalType
	StringType
	BoolType
	BytesType
	TimestampType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT"
	case FloatType:
		return "FLOAT"
	case DecimalType:
		return "DECIMAL"
	case StringType:
		return "STRING"
	case BoolType:
		return "BOOL"
	case BytesType:
		return "BYTES"
	case TimestampType:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// IsNumeric reports whether values of t take part in numeric promotion.
func (t Type) IsNumeric() bool {
	return t == IntType || t == FloatType || t == DecimalType
}

// ParseType accepts the names produced by Type.String, case-insensitively.
func ParseType(name string) (Type, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INT", "INTEGER", "BIGINT":
		return IntType, true
	case "FLOAT", "DOUBLE":
		return FloatType, true
	case "DECIMAL", "NUMERIC":
		return DecimalType, true
	case "STRING", "TEXT", "VARCHAR":
		return StringType, true
	case "BOOL", "BOOLEAN":
		return BoolType, true
	case "BYTES", "BLOB":
		return BytesType, true
	case "TIMESTAMP", "DATETIME":
		return TimestampType, true
	}
	return 0, false
}

// TypeFromDatabaseTypeName maps a driver's column type name
// (sql.ColumnType.DatabaseTypeName) onto a logical type. Unknown names map to STRING.
func TypeFromDatabaseTypeName(name string) Type {
	n := strings.ToUpper(name)
	switch {
	case n == "":
		return StringType
	case strings.Contains(n, "INT") || n == "SERIAL" || n == "BIGSERIAL":
		return IntType
	case strings.Contains(n, "DEC") || strings.Contains(n, "NUMERIC"):
		return DecimalType
	case strings.Contains(n, "FLOAT") || strings.Contains(n, "DOUBLE") || n == "REAL":
		return FloatType
	case strings.Contains(n, "BOOL") || n == "BIT":
		return BoolType
	case strings.Contains(n, "BLOB") || n == "BYTEA" || strings.Contains(n, "BINARY"):
		return BytesType
	case strings.Contains(n, "TIME") || n == "DATE":
		return TimestampType
	default:
		return StringType
	}
}
