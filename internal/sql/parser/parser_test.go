package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/topql/internal/sql/lexer"
)

func parse(t *testing.T, sql string) (Statement, error) {
	t.Helper()
	tokens, err := lexer.New(sql).Tokenize()
	require.NoError(t, err)
	return New(tokens).Parse()
}

func mustParse(t *testing.T, sql string) Statement {
	t.Helper()
	stmt, err := parse(t, sql)
	require.NoError(t, err)
	return stmt
}

func TestParse_CreateTable(t *testing.T) {
	stmt := mustParse(t, "CREATE TABLE users (id INT, name VARCHAR(50), active BOOLEAN)")

	s, ok := stmt.(*CreateTableStmt)
	require.True(t, ok, "want *CreateTableStmt, got %T", stmt)

	assert.Equal(t, "users", s.TableName)
	require.Len(t, s.Columns, 3)
	assert.Equal(t, ColumnDef{Name: "id", Type: "INT"}, s.Columns[0])
	assert.Equal(t, ColumnDef{Name: "name", Type: "VARCHAR"}, s.Columns[1])
	assert.Equal(t, ColumnDef{Name: "active", Type: "BOOLEAN"}, s.Columns[2])
}

func TestParse_CreateTable_VarcharSizeDiscarded(t *testing.T) {
	stmt := mustParse(t, "CREATE TABLE t (a VARCHAR(255), b VARCHAR)")

	s := stmt.(*CreateTableStmt)
	assert.Equal(t, "VARCHAR", s.Columns[0].Type)
	assert.Equal(t, "VARCHAR", s.Columns[1].Type)
}

func TestParse_CreateTable_BadType(t *testing.T) {
	_, err := parse(t, "CREATE TABLE t (a FLOAT)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected data type")
}

func TestParse_Insert(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO users VALUES (1, 'Alice', TRUE)")

	s, ok := stmt.(*InsertStmt)
	require.True(t, ok, "want *InsertStmt, got %T", stmt)

	assert.Equal(t, "users", s.TableName)
	assert.Nil(t, s.Columns)
	assert.Equal(t, []any{int64(1), "Alice", true}, s.Values)
}

func TestParse_Insert_ColumnSubset(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO users (id, name) VALUES (1, 'Alice')")

	s := stmt.(*InsertStmt)
	assert.Equal(t, []string{"id", "name"}, s.Columns)
	assert.Equal(t, []any{int64(1), "Alice"}, s.Values)
}

func TestParse_Insert_DecimalLiteral(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO t VALUES (1.5)")

	s := stmt.(*InsertStmt)
	assert.Equal(t, []any{1.5}, s.Values)
}

func TestParse_Select_Star(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM users")

	s, ok := stmt.(*SelectStmt)
	require.True(t, ok, "want *SelectStmt, got %T", stmt)

	assert.Equal(t, []string{"*"}, s.Columns)
	assert.Equal(t, "users", s.TableName)
	assert.Nil(t, s.Where)
	assert.Empty(t, s.OrderBy)
	assert.Equal(t, -1, s.Limit)
}

func TestParse_Select_ColumnsOrderLimit(t *testing.T) {
	stmt := mustParse(t, "SELECT id, name FROM users ORDER BY age LIMIT 10")

	s := stmt.(*SelectStmt)
	assert.Equal(t, []string{"id", "name"}, s.Columns)
	assert.Equal(t, "age", s.OrderBy)
	assert.Equal(t, 10, s.Limit)
}

func TestParse_Select_Where(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM users WHERE age > 25 AND active = TRUE")

	s := stmt.(*SelectStmt)
	require.NotNil(t, s.Where)
	require.Len(t, s.Where.Conditions, 2)
	assert.Equal(t, Condition{Column: "age", Operator: ">", Value: int64(25)}, s.Where.Conditions[0])
	assert.Equal(t, Condition{Column: "active", Operator: "=", Value: true}, s.Where.Conditions[1])
	assert.Equal(t, []LogicalOp{OpAnd}, s.Where.Operators)
}

func TestParse_Where_MixedConnectivesStayFlat(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM t WHERE a = 1 OR b = 2 AND c = 3")

	s := stmt.(*SelectStmt)
	require.Len(t, s.Where.Conditions, 3)
	// No precedence: the connective list is kept in source order.
	assert.Equal(t, []LogicalOp{OpOr, OpAnd}, s.Where.Operators)
}

func TestParse_Where_AllOperators(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM t WHERE a = 1 AND b != 2 AND c < 3 AND d > 4 AND e <= 5 AND f >= 6")

	s := stmt.(*SelectStmt)
	ops := make([]string, 0, 6)
	for _, c := range s.Where.Conditions {
		ops = append(ops, c.Operator)
	}
	assert.Equal(t, []string{"=", "!=", "<", ">", "<=", ">="}, ops)
}

func TestParse_Update(t *testing.T) {
	stmt := mustParse(t, "UPDATE users SET age = 31, name = 'Bob' WHERE id = 1")

	s, ok := stmt.(*UpdateStmt)
	require.True(t, ok, "want *UpdateStmt, got %T", stmt)

	assert.Equal(t, "users", s.TableName)
	assert.Equal(t, []Assignment{
		{Column: "age", Value: int64(31)},
		{Column: "name", Value: "Bob"},
	}, s.Assignments)
	require.NotNil(t, s.Where)
}

func TestParse_Update_NoWhere(t *testing.T) {
	stmt := mustParse(t, "UPDATE users SET active = FALSE")

	s := stmt.(*UpdateStmt)
	assert.Nil(t, s.Where)
	assert.Equal(t, []Assignment{{Column: "active", Value: false}}, s.Assignments)
}

func TestParse_Delete(t *testing.T) {
	stmt := mustParse(t, "DELETE FROM users WHERE age < 18")

	s, ok := stmt.(*DeleteStmt)
	require.True(t, ok, "want *DeleteStmt, got %T", stmt)

	assert.Equal(t, "users", s.TableName)
	require.NotNil(t, s.Where)
}

func TestParse_Delete_NoWhere(t *testing.T) {
	s := mustParse(t, "DELETE FROM users").(*DeleteStmt)
	assert.Nil(t, s.Where)
}

func TestParse_TrailingSemicolonAccepted(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM users;")
	assert.IsType(t, &SelectStmt{}, stmt)
}

func TestParse_UnknownStatement(t *testing.T) {
	_, err := parse(t, "EXPLAIN stuff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected statement")
}

func TestParse_ExpectedVsFound(t *testing.T) {
	_, err := parse(t, "CREATE TABLE (id INT)")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, lexer.IDENT, parseErr.Expected)
	assert.Equal(t, lexer.LPAREN, parseErr.Found)
}

func TestParse_LimitMustBeInteger(t *testing.T) {
	_, err := parse(t, "SELECT * FROM t LIMIT 2.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIMIT")
}

func TestParse_WhereMissingOperator(t *testing.T) {
	_, err := parse(t, "SELECT * FROM t WHERE a 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comparison operator")
}
