package constraint

import (
	"fmt"
	"math"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
)

// RangeConstraint is f ∈ [a,b] (§3), a single DagFun over f with the bound
// interval itself as the image — no subtraction needed, unlike Arithmetic.
type RangeConstraint struct {
	fun   *dag.DagFun
	scope *ncsp.Scope
}

// NewRange inserts f into d with image [lo,hi].
func NewRange(d *dag.DAG, f term.Term, lo, hi float64) (*RangeConstraint, error) {
	if lo > hi {
		return nil, fmt.Errorf("constraint: range bounds inverted [%v,%v]", lo, hi)
	}
	root := d.Insert(f)
	return &RangeConstraint{fun: dag.NewDagFun(d, root, interval.New(lo, hi)), scope: f.Scope()}, nil
}

func (r *RangeConstraint) Scope() *ncsp.Scope { return r.scope }

func (r *RangeConstraint) IsSatisfied(box *ncsp.IntervalBox) ncsp.Proof {
	v := r.fun.IntervalEval(box)
	if v.IsEmpty() {
		return ncsp.Empty
	}
	if v.IsDisjoint(r.fun.Image) {
		return ncsp.Empty
	}
	if r.fun.Image.ContainsInterval(v) {
		return ncsp.Inner
	}
	return ncsp.Maybe
}

func (r *RangeConstraint) Violation(box *ncsp.IntervalBox) float64 {
	v := r.fun.IntervalEval(box)
	if v.IsEmpty() {
		return math.Inf(1)
	}
	if v.Hi() < r.fun.Image.Lo() {
		return r.fun.Image.Lo() - v.Hi()
	}
	if v.Lo() > r.fun.Image.Hi() {
		return v.Lo() - r.fun.Image.Hi()
	}
	return 0
}

func (r *RangeConstraint) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	return r.fun.HC4Revise(box, ctx)
}

func (r *RangeConstraint) String() string {
	return fmt.Sprintf("Range(image=%s)", r.fun.Image)
}
