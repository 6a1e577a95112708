package storage

import "fmt"

// SchemaError covers every schema-level failure: duplicate table on create,
// missing table on reference, missing or extra columns on insert, unknown
// ORDER BY column, unknown column type.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return "storage: " + e.Msg
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}
