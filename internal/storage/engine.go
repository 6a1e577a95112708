// Package storage implements the in-memory table store: typed rows keyed by
// immutable row ids, with one ordered secondary index per column kept in
// lockstep with the row store.
package storage

import "sort"

// Engine manages every table in a database. It is not safe for concurrent
// use; hosts must serialize access externally.
type Engine struct {
	tables map[string]*Table
}

func NewEngine() *Engine {
	return &Engine{tables: make(map[string]*Table)}
}

// CreateTable fails with SchemaError when the name is taken or a column name
// repeats.
func (e *Engine) CreateTable(name string, cols []Column) (*Table, error) {
	if _, exists := e.tables[name]; exists {
		return nil, schemaErrorf("table '%s' already exists", name)
	}
	t, err := newTable(name, cols)
	if err != nil {
		return nil, err
	}
	e.tables[name] = t
	return t, nil
}

// Table fails with SchemaError when the table does not exist.
func (e *Engine) Table(name string) (*Table, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, schemaErrorf("table '%s' does not exist", name)
	}
	return t, nil
}

// DropTable fails with SchemaError when the table does not exist.
func (e *Engine) DropTable(name string) error {
	if _, ok := e.tables[name]; !ok {
		return schemaErrorf("table '%s' does not exist", name)
	}
	delete(e.tables, name)
	return nil
}

// ListTables returns the table names sorted.
func (e *Engine) ListTables() []string {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
