package storage

import "github.com/tuannm99/topql/internal/index"

// CompareOp is a WHERE comparison operator, spelled as in the source text.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpGt CompareOp = ">"
	OpLe CompareOp = "<="
	OpGe CompareOp = ">="
)

type LogicalOp uint8

const (
	LogicAnd LogicalOp = iota
	LogicOr
)

// Condition is one "column op literal" comparison.
type Condition struct {
	Column string
	Op     CompareOp
	Value  any
}

// Predicate is a flat condition list with len(Conds)-1 connectives, folded
// strictly left to right: AND intersects, OR unions. There is no nesting and
// no AND-over-OR precedence.
type Predicate struct {
	Conds []Condition
	Ops   []LogicalOp
}

// evalCondition applies one condition to a row. A column absent from the row
// contributes false rather than an error. Cross-type comparisons: equality is
// false, inequality is true, ordered operators are false.
func evalCondition(row Row, c Condition) bool {
	v, ok := row[c.Column]
	if !ok {
		return false
	}

	cmp, ok := index.Compare(v, c.Value)
	if !ok {
		return c.Op == OpNe
	}

	switch c.Op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpGt:
		return cmp > 0
	case OpLe:
		return cmp <= 0
	case OpGe:
		return cmp >= 0
	default:
		return false
	}
}
