// Package index provides the per-column secondary index: an ordered mapping
// from column value to the set of row ids currently holding that value.
package index

import "sort"

// IDSet is a set of row ids.
type IDSet map[int64]struct{}

// Compare defines the ordering used for index keys and row comparisons:
// numbers (int64/float64) order numerically, strings lexicographically and
// booleans false before true. ok is false when the two values are not
// comparable; callers decide what a non-comparable pair means for them.
func Compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return cmpOrdered(av, bv), true
		case float64:
			return cmpOrdered(float64(av), bv), true
		}
	case float64:
		switch bv := b.(type) {
		case int64:
			return cmpOrdered(av, float64(bv)), true
		case float64:
			return cmpOrdered(av, bv), true
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmpOrdered(av, bv), true
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return cmpOrdered(boolInt(av), boolInt(bv)), true
		}
	}
	return 0, false
}

func cmpOrdered[T int | int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Index keeps keys sorted, each with a non-empty id set. Keys within one
// index are homogeneous because a column holds a single type.
type Index struct {
	keys []any
	sets []IDSet
}

func New() *Index {
	return &Index{}
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.keys) }

// lowerBound returns the leftmost position whose key is >= value.
func (ix *Index) lowerBound(value any) int {
	return sort.Search(len(ix.keys), func(i int) bool {
		c, _ := Compare(ix.keys[i], value)
		return c >= 0
	})
}

// upperBound returns the leftmost position whose key is > value.
func (ix *Index) upperBound(value any) int {
	return sort.Search(len(ix.keys), func(i int) bool {
		c, _ := Compare(ix.keys[i], value)
		return c > 0
	})
}

// Insert adds id under key, creating the key slot in sorted position if it
// does not exist yet.
func (ix *Index) Insert(key any, id int64) {
	i := ix.lowerBound(key)
	if i < len(ix.keys) {
		if c, ok := Compare(ix.keys[i], key); ok && c == 0 {
			ix.sets[i][id] = struct{}{}
			return
		}
	}
	ix.keys = append(ix.keys, nil)
	copy(ix.keys[i+1:], ix.keys[i:])
	ix.keys[i] = key

	ix.sets = append(ix.sets, nil)
	copy(ix.sets[i+1:], ix.sets[i:])
	ix.sets[i] = IDSet{id: {}}
}

// Remove discards id from the set at key, dropping the key slot when its set
// becomes empty. Removing an absent id is a no-op.
func (ix *Index) Remove(key any, id int64) {
	i := ix.lowerBound(key)
	if i >= len(ix.keys) {
		return
	}
	if c, ok := Compare(ix.keys[i], key); !ok || c != 0 {
		return
	}
	s := ix.sets[i]
	if _, present := s[id]; !present {
		return
	}
	delete(s, id)
	if len(s) == 0 {
		ix.keys = append(ix.keys[:i], ix.keys[i+1:]...)
		ix.sets = append(ix.sets[:i], ix.sets[i+1:]...)
	}
}

// Update moves id from oldKey to newKey. Equal keys are a no-op.
func (ix *Index) Update(oldKey, newKey any, id int64) {
	if c, ok := Compare(oldKey, newKey); ok && c == 0 {
		return
	}
	ix.Remove(oldKey, id)
	ix.Insert(newKey, id)
}

// Query returns the set of row ids matching "key <op> value" for
// op in = != < > <= >=. The result set is owned by the caller.
//
// A value that is not comparable with the index's keys matches nothing for
// = and the ordered operators, and everything for !=. That mirrors how the
// row scan treats cross-type comparisons, keeping both filter paths
// equivalent.
func (ix *Index) Query(op string, value any) IDSet {
	result := IDSet{}
	if len(ix.keys) == 0 {
		return result
	}

	if _, ok := Compare(ix.keys[0], value); !ok {
		if op == "!=" {
			ix.collect(result, 0, len(ix.keys))
		}
		return result
	}

	switch op {
	case "=":
		i := ix.lowerBound(value)
		if i < len(ix.keys) {
			if c, _ := Compare(ix.keys[i], value); c == 0 {
				for id := range ix.sets[i] {
					result[id] = struct{}{}
				}
			}
		}
	case "!=":
		i := ix.lowerBound(value)
		j := ix.upperBound(value)
		ix.collect(result, 0, i)
		ix.collect(result, j, len(ix.keys))
	case "<":
		ix.collect(result, 0, ix.lowerBound(value))
	case ">":
		ix.collect(result, ix.upperBound(value), len(ix.keys))
	case "<=":
		ix.collect(result, 0, ix.upperBound(value))
	case ">=":
		ix.collect(result, ix.lowerBound(value), len(ix.keys))
	}
	return result
}

func (ix *Index) collect(dst IDSet, from, to int) {
	for i := from; i < to; i++ {
		for id := range ix.sets[i] {
			dst[id] = struct{}{}
		}
	}
}
