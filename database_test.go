package topql

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/topql/internal/storage"
)

func seed(t *testing.T, db *Database) {
	t.Helper()
	_, err := db.ExecuteMany([]string{
		"CREATE TABLE users (id INT, name VARCHAR(50), age INT, active BOOLEAN)",
		"INSERT INTO users VALUES (1, 'Alice', 30, TRUE)",
		"INSERT INTO users VALUES (2, 'Bob', 25, TRUE)",
		"INSERT INTO users VALUES (3, 'Charlie', 35, FALSE)",
	})
	require.NoError(t, err)
}

func rowNames(rows []storage.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["name"].(string))
	}
	return out
}

func TestDatabase_EndToEnd(t *testing.T) {
	db := New()
	seed(t, db)

	res, err := db.Execute("SELECT * FROM users WHERE age > 25 AND active = TRUE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, rowNames(res.Rows))

	res, err = db.Execute("SELECT * FROM users WHERE age < 28 OR age > 33")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Charlie"}, rowNames(res.Rows))

	res, err = db.Execute("SELECT name FROM users ORDER BY age LIMIT 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Alice"}, rowNames(res.Rows))
}

func TestDatabase_ExecuteLexError(t *testing.T) {
	db := New()

	_, err := db.Execute("SELECT ! FROM t")
	require.Error(t, err)
}

func TestDatabase_ExecuteManyStopsAtFirstFailure(t *testing.T) {
	db := New()

	results, err := db.ExecuteMany([]string{
		"CREATE TABLE t (id INT)",
		"INSERT INTO t VALUES (1, 2)",
		"INSERT INTO t VALUES (3)",
	})
	require.Error(t, err)
	assert.Len(t, results, 1)

	res, err := db.Execute("SELECT * FROM t")
	require.NoError(t, err)
	assert.Zero(t, res.Count)
}

func TestDatabase_ListAndDescribe(t *testing.T) {
	db := New()
	seed(t, db)
	_, err := db.Execute("CREATE TABLE empty_one (id INT)")
	require.NoError(t, err)

	assert.Equal(t, []string{"empty_one", "users"}, db.ListTables())

	info, err := db.DescribeTable("users")
	require.NoError(t, err)
	assert.Equal(t, "users", info.Name)
	assert.Equal(t, 3, info.RowCount)
	require.Len(t, info.Columns, 4)
	assert.Equal(t, storage.Column{Name: "age", Type: storage.TypeInt}, info.Columns[2])

	_, err = db.DescribeTable("ghost")
	var schemaErr *storage.SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestDatabase_PersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	require.NoError(t, err)
	seed(t, db)

	_, err = os.Stat(filepath.Join(dir, "users.bin"))
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)

	res, err := reopened.Execute("SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, rowNames(res.Rows))
	assert.Equal(t, int64(30), res.Rows[0]["age"])
	assert.Equal(t, true, res.Rows[0]["active"])
}

func TestDatabase_UpdateAndDeletePersist(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	require.NoError(t, err)
	seed(t, db)

	_, err = db.Execute("UPDATE users SET age = 26 WHERE name = 'Bob'")
	require.NoError(t, err)
	_, err = db.Execute("DELETE FROM users WHERE name = 'Charlie'")
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)

	res, err := reopened.Execute("SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, rowNames(res.Rows))
	assert.Equal(t, int64(26), res.Rows[1]["age"])
}

func TestDatabase_EnablePersistenceAtRuntime(t *testing.T) {
	dir := t.TempDir()

	db := New()
	seed(t, db)
	require.NoError(t, db.EnablePersistence(dir))

	_, err := os.Stat(filepath.Join(dir, "users.bin"))
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)
	res, err := reopened.Execute("SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
}

func TestDatabase_DropTableRemovesSnapshot(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	require.NoError(t, err)
	seed(t, db)

	require.NoError(t, db.DropTable("users"))
	assert.Empty(t, db.ListTables())

	_, err = os.Stat(filepath.Join(dir, "users.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestDatabase_SnapshotHistoryRequiresPersistence(t *testing.T) {
	db := New()

	err := db.EnableSnapshotHistory()
	require.Error(t, err)
}

func TestDatabase_SnapshotHistoryRecordsStatements(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, db.EnableSnapshotHistory())

	_, err = db.Execute("CREATE TABLE t (id INT)")
	require.NoError(t, err)
	_, err = db.Execute("INSERT INTO t VALUES (1)")
	require.NoError(t, err)

	entries, err := db.History().Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "INSERT INTO t VALUES (1)", entries[0].Message)
	assert.Equal(t, "CREATE TABLE t (id INT)", entries[1].Message)
}
