// Package topql is the embeddable database handle: it wires the SQL pipeline
// (lexer, parser, executor) to the storage engine and optionally persists
// every table as a binary snapshot, with a git-backed history of snapshots.
package topql

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/topql/internal/binfmt"
	"github.com/tuannm99/topql/internal/history"
	"github.com/tuannm99/topql/internal/sql/executor"
	"github.com/tuannm99/topql/internal/sql/lexer"
	"github.com/tuannm99/topql/internal/sql/parser"
	"github.com/tuannm99/topql/internal/storage"
)

type Database struct {
	engine  *storage.Engine
	exec    *executor.Executor
	store   *binfmt.Store
	history *history.Log
}

// Result is re-exported so callers only import this package.
type Result = executor.Result

// TableInfo describes one table for introspection.
type TableInfo struct {
	Name     string
	Columns  []storage.Column
	RowCount int
}

// New creates an in-memory database with no persistence.
func New() *Database {
	engine := storage.NewEngine()
	return &Database{
		engine: engine,
		exec:   executor.New(engine),
	}
}

// Open creates a database persisted under dataDir and loads every snapshot
// found there. Tables come back with fresh row ids in snapshot row order.
func Open(dataDir string) (*Database, error) {
	db := New()
	if err := db.EnablePersistence(dataDir); err != nil {
		return nil, err
	}
	return db, nil
}

// EnablePersistence switches the database to snapshot mode: existing
// snapshots under dataDir are loaded first, then every current table is
// written out, and from now on each mutating statement rewrites the
// snapshot of the table it touched.
func (db *Database) EnablePersistence(dataDir string) error {
	store, err := binfmt.NewStore(dataDir)
	if err != nil {
		return err
	}

	names, err := store.ListTables()
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, exists := db.engine.Table(name); exists == nil {
			continue
		}
		cols, rows, err := store.Load(name)
		if err != nil {
			return err
		}
		tbl, err := db.engine.CreateTable(name, cols)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := tbl.Insert(row); err != nil {
				return fmt.Errorf("topql: restore table '%s': %w", name, err)
			}
		}
	}

	db.store = store
	return db.snapshotAll()
}

// EnableSnapshotHistory starts committing the data directory to a git
// repository after every persisted mutation. Persistence must be enabled
// first.
func (db *Database) EnableSnapshotHistory() error {
	if db.store == nil {
		return fmt.Errorf("topql: snapshot history requires persistence")
	}
	log, err := history.Open(db.store.Dir())
	if err != nil {
		return err
	}
	db.history = log
	return nil
}

// History returns the snapshot history log, or nil when disabled.
func (db *Database) History() *history.Log { return db.history }

// Execute runs one SQL statement end to end. After a successful mutation
// the touched table's snapshot is rewritten; a failed snapshot write fails
// the statement. History commits are best effort.
func (db *Database) Execute(sql string) (*Result, error) {
	tokens, err := lexer.New(sql).Tokenize()
	if err != nil {
		return nil, err
	}
	stmt, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, err
	}

	res, err := db.exec.Execute(stmt)
	if err != nil {
		return nil, err
	}

	if name, mutated := mutatedTable(stmt); mutated && db.store != nil {
		tbl, err := db.engine.Table(name)
		if err != nil {
			return nil, err
		}
		if err := db.store.Save(tbl); err != nil {
			return nil, err
		}
		db.commitHistory(sql)
	}
	return res, nil
}

// ExecuteMany runs statements in order and stops at the first failure,
// returning the results of the statements that succeeded.
func (db *Database) ExecuteMany(sqls []string) ([]*Result, error) {
	results := make([]*Result, 0, len(sqls))
	for _, sql := range sqls {
		res, err := db.Execute(sql)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (db *Database) ListTables() []string { return db.engine.ListTables() }

func (db *Database) DescribeTable(name string) (*TableInfo, error) {
	tbl, err := db.engine.Table(name)
	if err != nil {
		return nil, err
	}
	return &TableInfo{
		Name:     tbl.Name(),
		Columns:  tbl.Columns(),
		RowCount: tbl.RowCount(),
	}, nil
}

// DropTable removes a table and, when persistence is on, its snapshot.
func (db *Database) DropTable(name string) error {
	if err := db.engine.DropTable(name); err != nil {
		return err
	}
	if db.store != nil {
		if err := db.store.Remove(name); err != nil {
			return err
		}
		db.commitHistory(fmt.Sprintf("DROP TABLE %s", name))
	}
	return nil
}

func (db *Database) snapshotAll() error {
	for _, name := range db.engine.ListTables() {
		tbl, err := db.engine.Table(name)
		if err != nil {
			return err
		}
		if err := db.store.Save(tbl); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) commitHistory(message string) {
	if db.history == nil {
		return
	}
	if err := db.history.Commit(message); err != nil {
		slog.Warn("snapshot history commit failed", "error", err)
	}
}

// mutatedTable reports which table a statement changed, if any.
func mutatedTable(stmt parser.Statement) (string, bool) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return s.TableName, true
	case *parser.InsertStmt:
		return s.TableName, true
	case *parser.UpdateStmt:
		return s.TableName, true
	case *parser.DeleteStmt:
		return s.TableName, true
	default:
		return "", false
	}
}
