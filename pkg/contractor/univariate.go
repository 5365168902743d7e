package contractor

import (
	"math"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// UnivariateFunc is a one-dimensional interval function with its
// derivative, the abstraction UniIntervalNewton and ContractorBC3 operate
// over (§4.5).
type UnivariateFunc interface {
	Eval(x interval.Interval) interval.Interval
	Deriv(x interval.Interval) interval.Interval
}

// DagThickFunc adapts a DagFun's one-variable "thick function" (§4.3:
// evalOnly enables BC3's one-dimensional thick function) to
// UnivariateFunc: all coordinates of base except v stay fixed at base's
// current interval, v varies as the argument to Eval/Deriv.
type DagThickFunc struct {
	Fun  *dag.DagFun
	V    *ncsp.Variable
	Base *ncsp.IntervalBox
}

func (f *DagThickFunc) Eval(x interval.Interval) interval.Interval {
	f.Fun.IntervalEval(f.Base)
	return f.Fun.EvalOnly(f.Base, f.V, x)
}

// Deriv computes the partial derivative of Fun with respect to V at x,
// other coordinates fixed to Base, via a full forward+reverse pass on a
// scratch box (reverse-mode AD is not substitution-aware, so this clones
// Base rather than reusing EvalOnly's narrower substitution pass).
func (f *DagThickFunc) Deriv(x interval.Interval) interval.Interval {
	box := f.Base.Clone()
	box.Set(f.V, x)
	f.Fun.IntervalEval(box)
	ok := f.Fun.IntervalDiff(box)
	idx, found := f.Fun.DAG().VarNode(f.V)
	if !found {
		return interval.Whole()
	}
	dv := f.Fun.DAG().Node(idx).Dv
	if !ok {
		return interval.Whole()
	}
	return dv
}

// UniIntervalNewton performs the univariate interval Newton step of §4.5:
// N(x) = c − f(c)/f′(x), c = mid(x), using extended division when f′(x)
// contains 0 (the resulting pair is intersected with x and unioned).
// Iterates until relative-width tolerance, maxIter, or FEASIBLE.
type UniIntervalNewton struct {
	f       UnivariateFunc
	xtol    float64
	maxIter int
}

func NewUniIntervalNewton(f UnivariateFunc, xtol float64, maxIter int) *UniIntervalNewton {
	if maxIter <= 0 {
		maxIter = 50
	}
	return &UniIntervalNewton{f: f, xtol: xtol, maxIter: maxIter}
}

// Step narrows x toward a root of f and reports the resulting Proof:
// EMPTY on empty result, FEASIBLE on N(x) ⊆ x without gap (existence and
// uniqueness certified), MAYBE otherwise.
func (n *UniIntervalNewton) Step(x interval.Interval) (interval.Interval, ncsp.Proof) {
	cur := x
	for iter := 0; iter < n.maxIter; iter++ {
		if cur.IsEmpty() {
			return cur, ncsp.Empty
		}
		c := interval.Point(cur.Mid())
		fc := n.f.Eval(c)
		fprime := n.f.Deriv(cur)

		single, right, two := interval.DivExt(fc, fprime)
		var next interval.Interval
		feasible := false
		if !two {
			candidate := interval.Sub(c, single)
			next = candidate.Inter(cur)
			feasible = !candidate.IsEmpty() && cur.ContainsInterval(candidate) && !candidate.Equal(cur)
		} else {
			leftCand := interval.Sub(c, single).Inter(cur)
			rightCand := interval.Sub(c, right).Inter(cur)
			next = leftCand.Hull(rightCand)
			feasible = false // a genuine gap means uniqueness is not yet certified
		}

		if next.IsEmpty() {
			return next, ncsp.Empty
		}
		if feasible && cur.ContainsInterval(next) {
			return next, ncsp.Feasible
		}
		stalled := cur.Width()-next.Width() <= n.xtol*maxOf(cur.Width(), 1)
		cur = next
		if stalled {
			break
		}
	}
	return cur, ncsp.Maybe
}

func (n *UniIntervalNewton) String() string { return "UniIntervalNewton" }

// Search is the recursive variant of §4.5: bisect-and-recurse on MAYBE
// until every piece is canonical (width ≤ xtol) or certified, returning
// the union of certified/canonical enclosures.
func (n *UniIntervalNewton) Search(x interval.Interval, depth int) []interval.Interval {
	if x.IsEmpty() {
		return nil
	}
	next, proof := n.Step(x)
	switch proof {
	case ncsp.Empty:
		return nil
	case ncsp.Feasible:
		return []interval.Interval{next}
	}
	if next.Width() <= n.xtol*math.Max(1, next.Mag()) || depth <= 0 {
		return []interval.Interval{next}
	}
	mid := next.Mid()
	left := interval.New(next.Lo(), mid)
	right := interval.New(mid, next.Hi())
	var out []interval.Interval
	out = append(out, n.Search(left, depth-1)...)
	out = append(out, n.Search(right, depth-1)...)
	return out
}
