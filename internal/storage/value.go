package storage

// ColumnType is the declared type of a column. The numeric values double as
// the type codes in the binary snapshot format.
type ColumnType uint8

const (
	TypeInt  ColumnType = 1
	TypeText ColumnType = 2
	TypeBool ColumnType = 3
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeText:
		return "VARCHAR"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// ColumnTypeFromName maps the SQL type keyword to its ColumnType.
func ColumnTypeFromName(name string) (ColumnType, bool) {
	switch name {
	case "INT":
		return TypeInt, true
	case "VARCHAR":
		return TypeText, true
	case "BOOLEAN":
		return TypeBool, true
	default:
		return 0, false
	}
}

// Column is one table column. Order within a table is significant: it defines
// positional INSERT mapping and the binary row layout.
type Column struct {
	Name string
	Type ColumnType
}

// Row maps column name to value. Values are int64, string or bool.
type Row map[string]any

// coerceValue normalizes v for storage in col, widening smaller Go integer
// types to int64. A decimal literal never fits an INT column.
func coerceValue(col Column, v any) (any, error) {
	switch col.Type {
	case TypeInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int:
			return int64(x), nil
		case int32:
			return int64(x), nil
		default:
			return nil, schemaErrorf("column '%s' expects INT, got %T", col.Name, v)
		}
	case TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, schemaErrorf("column '%s' expects VARCHAR, got %T", col.Name, v)
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, schemaErrorf("column '%s' expects BOOLEAN, got %T", col.Name, v)
	default:
		return nil, schemaErrorf("column '%s' has unsupported type %d", col.Name, uint8(col.Type))
	}
}
