package executor

import "github.com/tuannm99/topql/internal/storage"

// Result is the generic statement result returned to the caller.
//
// Message is set for DDL/DML; Rows/Columns/Count for SELECT; RowsAffected
// for INSERT, UPDATE and DELETE.
type Result struct {
	Message      string
	Columns      []string
	Rows         []storage.Row
	Count        int
	RowsAffected int
}
