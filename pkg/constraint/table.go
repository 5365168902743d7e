package constraint

import (
	"fmt"
	"strings"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Table is the extensional constraint of §3: a k-column × r-row matrix of
// Intervals over k Variables, satisfied when the tuple of domains contains
// some row. Generalizes `.seed/table.go`'s integer-tuple Table (row/column
// GAC over exact values) to interval-valued columns: a row is "compatible" when
// every column interval overlaps the variable's current domain, and
// contraction narrows each variable to the hull of the surviving rows'
// column intervals rather than to a discrete supported-value set.
type Table struct {
	vars  []*ncsp.Variable
	rows  [][]interval.Interval // len(rows[i]) == len(vars)
	scope *ncsp.Scope
}

// NewTable validates and builds a Table constraint. Contract: len(vars) > 0,
// every row has exactly len(vars) entries.
func NewTable(vars []*ncsp.Variable, rows [][]interval.Interval) (*Table, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("constraint: table vars cannot be empty")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("constraint: table rows cannot be empty")
	}
	k := len(vars)
	copied := make([][]interval.Interval, len(rows))
	for i, row := range rows {
		if len(row) != k {
			return nil, fmt.Errorf("constraint: table row %d has arity %d, expected %d", i, len(row), k)
		}
		copied[i] = append([]interval.Interval(nil), row...)
	}
	return &Table{vars: vars, rows: copied, scope: ncsp.NewScope(vars...)}, nil
}

func (t *Table) Scope() *ncsp.Scope { return t.scope }

// compatibleRows returns the indices of rows where every column interval
// overlaps the box's current value for that variable.
func (t *Table) compatibleRows(box *ncsp.IntervalBox) []int {
	var out []int
	for ri, row := range t.rows {
		ok := true
		for ci, v := range t.vars {
			if row[ci].IsDisjoint(box.Get(v)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, ri)
		}
	}
	return out
}

func (t *Table) IsSatisfied(box *ncsp.IntervalBox) ncsp.Proof {
	compat := t.compatibleRows(box)
	if len(compat) == 0 {
		return ncsp.Empty
	}
	if len(compat) == 1 {
		row := t.rows[compat[0]]
		inner := true
		for ci, v := range t.vars {
			if !row[ci].ContainsInterval(box.Get(v)) {
				inner = false
				break
			}
		}
		if inner {
			return ncsp.Inner
		}
	}
	return ncsp.Maybe
}

// Violation has no natural continuous distance for an extensional table;
// report 0 when at least one row is compatible, else a fixed penalty, the
// same coarse measure `.seed/table.go`'s Table constraint implies by only
// distinguishing consistent/inconsistent.
func (t *Table) Violation(box *ncsp.IntervalBox) float64 {
	if len(t.compatibleRows(box)) == 0 {
		return 1
	}
	return 0
}

// Contract drops incompatible rows, then narrows each variable to the hull
// of the surviving rows' column intervals (§4.4: "drop rows infeasible in
// box, then per-column project remaining rows' column bounds onto the
// variable's domain").
func (t *Table) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	compat := t.compatibleRows(box)
	if len(compat) == 0 {
		return ncsp.Empty
	}
	k := len(t.vars)
	support := make([]interval.Interval, k)
	for i := range support {
		support[i] = interval.Empty()
	}
	for _, ri := range compat {
		row := t.rows[ri]
		for ci := range support {
			support[ci] = support[ci].Hull(row[ci])
		}
	}
	empty := false
	for ci, v := range t.vars {
		box.Narrow(v, support[ci])
		if box.Get(v).IsEmpty() {
			empty = true
		}
	}
	if empty {
		return ncsp.Empty
	}
	if len(compat) == 1 {
		row := t.rows[compat[0]]
		inner := true
		for ci, v := range t.vars {
			if !row[ci].ContainsInterval(box.Get(v)) {
				inner = false
				break
			}
		}
		if inner {
			return ncsp.Inner
		}
	}
	return ncsp.Maybe
}

func (t *Table) String() string {
	names := make([]string, len(t.vars))
	for i, v := range t.vars {
		names[i] = v.Name()
	}
	return fmt.Sprintf("Table(%s, rows=%d)", strings.Join(names, ","), len(t.rows))
}
