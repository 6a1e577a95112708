package parser

// Statement is the root interface for all SQL statements.
type Statement interface {
	stmtNode()
}

// ----- CREATE TABLE -----

type ColumnDef struct {
	Name string
	Type string // "INT", "VARCHAR", "BOOLEAN"
}

type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) stmtNode() {}

// ----- INSERT -----

// InsertStmt holds literal values only. Columns is nil when the statement
// relies on the table's positional column order.
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    []any
}

func (*InsertStmt) stmtNode() {}

// ----- SELECT -----

// SelectStmt projection is either the single entry "*" or an explicit
// column list. Limit is -1 when absent.
type SelectStmt struct {
	Columns   []string
	TableName string
	Where     *WhereClause
	OrderBy   string
	Limit     int
}

func (*SelectStmt) stmtNode() {}

// ----- UPDATE -----

type Assignment struct {
	Column string
	Value  any
}

type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       *WhereClause
}

func (*UpdateStmt) stmtNode() {}

// ----- DELETE -----

type DeleteStmt struct {
	TableName string
	Where     *WhereClause
}

func (*DeleteStmt) stmtNode() {}

// ----- WHERE -----

type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Condition is one "column operator literal" comparison. Operator is the
// source spelling: = != < > <= >=.
type Condition struct {
	Column   string
	Operator string
	Value    any
}

// WhereClause is a flat condition list joined by len(Conditions)-1 logical
// operators. There is no nesting and no precedence: evaluation folds the
// conditions strictly left to right.
type WhereClause struct {
	Conditions []Condition
	Operators  []LogicalOp
}
