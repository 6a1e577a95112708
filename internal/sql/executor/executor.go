// Package executor dispatches parsed statements to the storage engine and
// shapes responses. It adds no validation of its own: every storage error
// propagates unchanged.
package executor

import (
	"fmt"

	"github.com/tuannm99/topql/internal/sql/parser"
	"github.com/tuannm99/topql/internal/storage"
)

// Executor executes statement ASTs against an Engine.
type Executor struct {
	engine *storage.Engine
}

func New(engine *storage.Engine) *Executor {
	return &Executor{engine: engine}
}

// Execute pattern-matches the closed statement set; each variant maps to one
// storage call.
func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.execCreateTable(s)
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	case *parser.UpdateStmt:
		return e.execUpdate(s)
	case *parser.DeleteStmt:
		return e.execDelete(s)
	default:
		return nil, fmt.Errorf("executor: unsupported statement type %T", stmt)
	}
}

func (e *Executor) execCreateTable(s *parser.CreateTableStmt) (*Result, error) {
	cols := make([]storage.Column, 0, len(s.Columns))
	for _, def := range s.Columns {
		typ, ok := storage.ColumnTypeFromName(def.Type)
		if !ok {
			return nil, &storage.SchemaError{Msg: fmt.Sprintf("unknown column type '%s'", def.Type)}
		}
		cols = append(cols, storage.Column{Name: def.Name, Type: typ})
	}

	if _, err := e.engine.CreateTable(s.TableName, cols); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Table '%s' created successfully", s.TableName)}, nil
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	tbl, err := e.engine.Table(s.TableName)
	if err != nil {
		return nil, err
	}

	row := make(storage.Row, len(s.Values))
	if len(s.Columns) > 0 {
		if len(s.Columns) != len(s.Values) {
			return nil, &storage.SchemaError{Msg: "column count does not match value count"}
		}
		for i, col := range s.Columns {
			row[col] = s.Values[i]
		}
	} else {
		cols := tbl.Columns()
		if len(cols) != len(s.Values) {
			return nil, &storage.SchemaError{Msg: fmt.Sprintf(
				"value count %d does not match table column count %d", len(s.Values), len(cols))}
		}
		for i, col := range cols {
			row[col.Name] = s.Values[i]
		}
	}

	if _, err := tbl.Insert(row); err != nil {
		return nil, err
	}
	return &Result{Message: "1 row inserted", RowsAffected: 1}, nil
}

func (e *Executor) execSelect(s *parser.SelectStmt) (*Result, error) {
	tbl, err := e.engine.Table(s.TableName)
	if err != nil {
		return nil, err
	}

	rows, err := tbl.Select(s.Columns, toPredicate(s.Where), s.OrderBy, s.Limit)
	if err != nil {
		return nil, err
	}

	var header []string
	if len(s.Columns) == 1 && s.Columns[0] == "*" {
		for _, c := range tbl.Columns() {
			header = append(header, c.Name)
		}
	} else {
		header = s.Columns
	}

	return &Result{Columns: header, Rows: rows, Count: len(rows)}, nil
}

func (e *Executor) execUpdate(s *parser.UpdateStmt) (*Result, error) {
	tbl, err := e.engine.Table(s.TableName)
	if err != nil {
		return nil, err
	}

	assigns := make(map[string]any, len(s.Assignments))
	for _, a := range s.Assignments {
		assigns[a.Column] = a.Value
	}

	n, err := tbl.Update(assigns, toPredicate(s.Where))
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("%d row(s) updated", n), RowsAffected: n}, nil
}

func (e *Executor) execDelete(s *parser.DeleteStmt) (*Result, error) {
	tbl, err := e.engine.Table(s.TableName)
	if err != nil {
		return nil, err
	}

	n, err := tbl.Delete(toPredicate(s.Where))
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("%d row(s) deleted", n), RowsAffected: n}, nil
}

// toPredicate lowers the parsed WHERE clause to the storage predicate,
// preserving the flat left-to-right connective list.
func toPredicate(w *parser.WhereClause) *storage.Predicate {
	if w == nil {
		return nil
	}
	p := &storage.Predicate{
		Conds: make([]storage.Condition, 0, len(w.Conditions)),
		Ops:   make([]storage.LogicalOp, 0, len(w.Operators)),
	}
	for _, c := range w.Conditions {
		p.Conds = append(p.Conds, storage.Condition{
			Column: c.Column,
			Op:     storage.CompareOp(c.Operator),
			Value:  c.Value,
		})
	}
	for _, op := range w.Operators {
		if op == parser.OpAnd {
			p.Ops = append(p.Ops, storage.LogicAnd)
		} else {
			p.Ops = append(p.Ops, storage.LogicOr)
		}
	}
	return p
}
