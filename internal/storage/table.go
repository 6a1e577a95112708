package storage

import (
	"maps"
	"sort"

	"github.com/tuannm99/topql/internal/index"
)

// Table owns its columns, rows and per-column secondary indexes.
//
// Every row gets an immutable int64 row id at insert time, starting at 1 and
// never reused; the id is the only handle the indexes hold. seq keeps the
// ids in insertion order and drives result ordering for both filter paths.
type Table struct {
	name    string
	cols    []Column
	colPos  map[string]int
	seq     []int64
	rows    map[int64]Row
	indexes map[string]*index.Index
	nextID  int64
}

func newTable(name string, cols []Column) (*Table, error) {
	t := &Table{
		name:    name,
		cols:    cols,
		colPos:  make(map[string]int, len(cols)),
		rows:    make(map[int64]Row),
		indexes: make(map[string]*index.Index, len(cols)),
		nextID:  1,
	}
	for i, c := range cols {
		if _, dup := t.colPos[c.Name]; dup {
			return nil, schemaErrorf("duplicate column '%s' in table '%s'", c.Name, name)
		}
		t.colPos[c.Name] = i
		t.indexes[c.Name] = index.New()
	}
	return t, nil
}

func (t *Table) Name() string { return t.name }

// Columns returns the column definitions in declaration order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

func (t *Table) RowCount() int { return len(t.rows) }

// Rows returns every current row in row-id-sequence order. Rows are copies.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, len(t.seq))
	for _, id := range t.seq {
		out = append(out, maps.Clone(t.rows[id]))
	}
	return out
}

// Insert validates that row's column set equals the table's column set
// exactly, coerces each value to its column type, assigns the next row id
// and registers the row in every column index.
func (t *Table) Insert(row Row) (int64, error) {
	for _, c := range t.cols {
		if _, ok := row[c.Name]; !ok {
			return 0, schemaErrorf("missing value for column '%s'", c.Name)
		}
	}
	for name := range row {
		if _, ok := t.colPos[name]; !ok {
			return 0, schemaErrorf("unknown column '%s'", name)
		}
	}

	stored := make(Row, len(t.cols))
	for _, c := range t.cols {
		v, err := coerceValue(c, row[c.Name])
		if err != nil {
			return 0, err
		}
		stored[c.Name] = v
	}

	id := t.nextID
	t.nextID++
	t.rows[id] = stored
	t.seq = append(t.seq, id)
	for _, c := range t.cols {
		t.indexes[c.Name].Insert(stored[c.Name], id)
	}
	return id, nil
}

// Select runs the fixed pipeline filter -> order -> limit -> project.
// A negative limit means no truncation. Projection "*" (or an empty list)
// returns full rows; an explicit list restricts each row to the requested
// columns, silently skipping names the row does not carry.
func (t *Table) Select(columns []string, where *Predicate, orderBy string, limit int) ([]Row, error) {
	ids := t.filterIDs(where)

	result := make([]Row, 0, len(ids))
	for _, id := range ids {
		result = append(result, t.rows[id])
	}

	if orderBy != "" {
		if _, ok := t.colPos[orderBy]; !ok {
			return nil, schemaErrorf("unknown column for ORDER BY: '%s'", orderBy)
		}
		sort.SliceStable(result, func(i, j int) bool {
			c, _ := index.Compare(result[i][orderBy], result[j][orderBy])
			return c < 0
		})
	}

	if limit >= 0 && limit < len(result) {
		result = result[:limit]
	}

	star := len(columns) == 0 || (len(columns) == 1 && columns[0] == "*")
	projected := make([]Row, 0, len(result))
	for _, row := range result {
		if star {
			projected = append(projected, maps.Clone(row))
			continue
		}
		sel := make(Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok {
				sel[col] = v
			}
		}
		projected = append(projected, sel)
	}
	return projected, nil
}

// Update applies assignments to every row matched by where (all rows when
// where is nil) and moves the affected index entries. Assignments naming
// columns the table does not have are skipped. Returns the number of rows
// touched, not the number of values changed.
func (t *Table) Update(assignments map[string]any, where *Predicate) (int, error) {
	ids := t.filterIDs(where)

	// Validate types up front so a failed update touches nothing.
	checked := make(map[string]any, len(assignments))
	for _, c := range t.cols {
		v, ok := assignments[c.Name]
		if !ok {
			continue
		}
		cv, err := coerceValue(c, v)
		if err != nil {
			return 0, err
		}
		checked[c.Name] = cv
	}

	for _, id := range ids {
		row := t.rows[id]
		for col, v := range checked {
			old := row[col]
			row[col] = v
			t.indexes[col].Update(old, v, id)
		}
	}
	return len(ids), nil
}

// Delete removes every row matched by where (all rows when where is nil),
// retiring each row id from the row store and from every column index.
// Returns the number of rows removed.
func (t *Table) Delete(where *Predicate) (int, error) {
	ids := t.filterIDs(where)
	if len(ids) == 0 {
		return 0, nil
	}

	removed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		for _, c := range t.cols {
			t.indexes[c.Name].Remove(row[c.Name], id)
		}
		delete(t.rows, id)
		removed[id] = struct{}{}
	}

	kept := t.seq[:0]
	for _, id := range t.seq {
		if _, gone := removed[id]; !gone {
			kept = append(kept, id)
		}
	}
	t.seq = kept
	return len(ids), nil
}
