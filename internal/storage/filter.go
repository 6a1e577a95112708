package storage

import "github.com/tuannm99/topql/internal/index"

// filterIDs resolves a predicate to the matching row ids in row-id-sequence
// order. A nil predicate matches everything. The indexed fold is used when
// every referenced column has an index; otherwise the row scan evaluates the
// same fold directly. The two paths return identical results, so which one
// ran is not observable from outside.
func (t *Table) filterIDs(p *Predicate) []int64 {
	if p == nil {
		out := make([]int64, len(t.seq))
		copy(out, t.seq)
		return out
	}
	if len(p.Conds) == 0 {
		return nil
	}
	if ids, ok := t.indexIDs(p); ok {
		return ids
	}
	return t.scanIDs(p)
}

// indexIDs evaluates the predicate through the secondary indexes: one row-id
// set per condition, folded left to right with AND=intersection, OR=union.
// ok is false when some referenced column has no index, which sends the
// caller down the scan path.
func (t *Table) indexIDs(p *Predicate) ([]int64, bool) {
	sets := make([]index.IDSet, 0, len(p.Conds))
	for _, c := range p.Conds {
		ix, ok := t.indexes[c.Column]
		if !ok {
			return nil, false
		}
		sets = append(sets, ix.Query(string(c.Op), c.Value))
	}

	combined := sets[0]
	for i, op := range p.Ops {
		next := sets[i+1]
		if op == LogicAnd {
			combined = intersect(combined, next)
		} else {
			combined = union(combined, next)
		}
	}

	out := make([]int64, 0, len(combined))
	for _, id := range t.seq {
		if _, hit := combined[id]; hit {
			out = append(out, id)
		}
	}
	return out, true
}

// scanIDs evaluates the predicate row by row with the identical left-to-right
// boolean fold.
func (t *Table) scanIDs(p *Predicate) []int64 {
	out := make([]int64, 0, len(t.seq))
	for _, id := range t.seq {
		row := t.rows[id]

		match := evalCondition(row, p.Conds[0])
		for i, op := range p.Ops {
			next := evalCondition(row, p.Conds[i+1])
			if op == LogicAnd {
				match = match && next
			} else {
				match = match || next
			}
		}
		if match {
			out = append(out, id)
		}
	}
	return out
}

func intersect(a, b index.IDSet) index.IDSet {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(index.IDSet, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func union(a, b index.IDSet) index.IDSet {
	out := make(index.IDSet, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}
