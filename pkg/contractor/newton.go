package contractor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// IntervalGaussSeidel solves A·x = b in place on x (§4.5): per row i,
// x_i := ((b_i − Σ_{j≠i} A_ij·x_j) ÷ A_ii) ∩ x_i, skipping rows whose
// diagonal contains 0. The outer loop stops on an empty coordinate, every
// coordinate's relative width falling below xtol, the largest per-sweep
// contraction falling below dtol, or maxIter.
func IntervalGaussSeidel(A [][]interval.Interval, b []interval.Interval, x []interval.Interval, xtol, dtol float64, maxIter int) ncsp.Proof {
	n := len(x)
	for iter := 0; iter < maxIter; iter++ {
		maxContraction := 0.0
		for i := 0; i < n; i++ {
			if A[i][i].Contains(0) {
				continue
			}
			sum := b[i]
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				sum = interval.Sub(sum, interval.Mul(A[i][j], x[j]))
			}
			candidate := interval.Div(sum, A[i][i]).Inter(x[i])
			if candidate.IsEmpty() {
				return ncsp.Empty
			}
			before := x[i].Width()
			x[i] = candidate
			after := x[i].Width()
			if before > 0 {
				if c := (before - after) / before; c > maxContraction {
					maxContraction = c
				}
			}
		}
		widthOK := true
		for i := range x {
			if x[i].RelWidth() > xtol {
				widthOK = false
				break
			}
		}
		if widthOK || maxContraction <= dtol {
			return ncsp.Maybe
		}
	}
	return ncsp.Maybe
}

// MidInverse inverts mid via Gauss-Jordan elimination with partial
// pivoting (§4.5's "P = mid(A)⁻¹"), rejecting the precondition when the
// best available pivot falls below minpiv.
func MidInverse(mid *mat.Dense, minpiv float64) (*mat.Dense, bool) {
	n, _ := mid.Dims()
	aug := mat.NewDense(n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, mid.At(i, j))
		}
		aug.Set(i, n+i, 1)
	}
	for col := 0; col < n; col++ {
		piv := col
		best := math.Abs(aug.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug.At(r, col)); v > best {
				best, piv = v, r
			}
		}
		if best < minpiv {
			return nil, false
		}
		if piv != col {
			for j := 0; j < 2*n; j++ {
				a, b := aug.At(col, j), aug.At(piv, j)
				aug.Set(col, j, b)
				aug.Set(piv, j, a)
			}
		}
		pivVal := aug.At(col, col)
		for j := 0; j < 2*n; j++ {
			aug.Set(col, j, aug.At(col, j)/pivVal)
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug.At(r, col)
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug.Set(r, j, aug.At(r, j)-factor*aug.At(col, j))
			}
		}
	}
	inv := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			inv.Set(i, j, aug.At(i, n+j))
		}
	}
	return inv, true
}

// System is the square system of n functions over n variables multivariate
// Newton operates on (§4.5).
type System struct {
	Funs []*dag.DagFun
	Vars []*ncsp.Variable
}

// Jacobian evaluates interval partial derivatives ∂Funs[i]/∂Vars[j] over
// box. Reverse-mode AD yields every partial of one function in a single
// IntervalDiff pass, so this runs one pass per function, not per variable.
func (s *System) Jacobian(box *ncsp.IntervalBox) ([][]interval.Interval, bool) {
	n := len(s.Funs)
	J := make([][]interval.Interval, n)
	ok := true
	for i, f := range s.Funs {
		f.IntervalEval(box)
		if !f.IntervalDiff(box) {
			ok = false
		}
		row := make([]interval.Interval, len(s.Vars))
		for j, v := range s.Vars {
			idx, found := f.DAG().VarNode(v)
			if !found {
				row[j] = interval.Point(0)
				continue
			}
			row[j] = f.DAG().Node(idx).Dv
		}
		J[i] = row
	}
	return J, ok
}

// evalAt evaluates every function at a real point (Hansen's refinement
// evaluates the residual at the box midpoint).
func (s *System) evalAt(point map[int]float64) []interval.Interval {
	out := make([]interval.Interval, len(s.Funs))
	for i, f := range s.Funs {
		out[i] = interval.Point(f.RealEval(point))
	}
	return out
}

// IntervalNewton is the multivariate Newton contractor of §4.5: builds the
// Jacobian, solves J·(box−m) = −F(m) via (preconditioned) interval
// Gauss-Seidel, and intersects the result with box.
type IntervalNewton struct {
	sys     *System
	scope   *ncsp.Scope
	xtol    float64
	dtol    float64
	minpiv  float64
	maxIter int
}

func NewIntervalNewton(sys *System, xtol, dtol, minpiv float64, maxIter int) *IntervalNewton {
	if maxIter <= 0 {
		maxIter = 30
	}
	return &IntervalNewton{sys: sys, scope: ncsp.NewScope(sys.Vars...), xtol: xtol, dtol: dtol, minpiv: minpiv, maxIter: maxIter}
}

func (in *IntervalNewton) Scope() *ncsp.Scope { return in.scope }

func (in *IntervalNewton) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	n := len(in.sys.Vars)
	if n == 0 || len(in.sys.Funs) != n {
		return ncsp.Maybe
	}

	m := make(map[int]float64, n)
	x := make([]interval.Interval, n)
	for i, v := range in.sys.Vars {
		iv := box.Get(v)
		m[v.ID()] = iv.Mid()
		x[i] = iv
	}

	J, ok := in.sys.Jacobian(box)
	if !ok {
		return ncsp.Maybe
	}

	fm := in.sys.evalAt(m)
	negFm := make([]interval.Interval, n)
	for i := range fm {
		negFm[i] = interval.Neg(fm[i])
	}

	delta := make([]interval.Interval, n)
	for i, v := range in.sys.Vars {
		delta[i] = interval.Sub(x[i], interval.Point(m[v.ID()]))
	}

	midA := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			midA.Set(i, j, J[i][j].Mid())
		}
	}

	A, b := J, negFm
	if P, invOK := MidInverse(midA, in.minpiv); invOK {
		A, b = precondition(P, J), preconditionVec(P, negFm)
	}

	proof := IntervalGaussSeidel(A, b, delta, in.xtol, in.dtol, in.maxIter)
	if proof == ncsp.Empty {
		for _, v := range in.sys.Vars {
			box.Narrow(v, interval.Empty())
		}
		return ncsp.Empty
	}

	for i, v := range in.sys.Vars {
		newX := interval.Add(interval.Point(m[v.ID()]), delta[i]).Inter(box.Get(v))
		box.Narrow(v, newX)
		if box.Get(v).IsEmpty() {
			return ncsp.Empty
		}
	}
	return ncsp.Maybe
}

// Certify attempts to promote a MAYBE box to FEASIBLE via inflation
// (§4.5): starting from mid(box), inflate by (delta,chi) and apply one
// Newton step; once the refined box is strictly contained in the inflated
// box, existence and uniqueness follow from the Miranda/Brouwer argument.
func (in *IntervalNewton) Certify(box *ncsp.IntervalBox, inflateDelta, inflateChi float64, maxIter int) ncsp.Proof {
	n := len(in.sys.Vars)
	cur := make([]interval.Interval, n)
	for i, v := range in.sys.Vars {
		cur[i] = interval.Point(box.Get(v).Mid())
	}

	for iter := 0; iter < maxIter; iter++ {
		inflated := make([]interval.Interval, n)
		for i := range cur {
			inflated[i] = cur[i].Inflate(inflateDelta, inflateChi)
		}

		scratch := box.Clone()
		for i, v := range in.sys.Vars {
			scratch.Narrow(v, inflated[i])
		}

		proof := in.Contract(scratch, dag.NewDagContext())
		if proof == ncsp.Empty {
			return ncsp.Maybe
		}

		refined := make([]interval.Interval, n)
		strictlyContained := true
		for i, v := range in.sys.Vars {
			refined[i] = scratch.Get(v)
			if !inflated[i].ContainsInterval(refined[i]) || refined[i].Equal(inflated[i]) {
				strictlyContained = false
			}
		}
		if strictlyContained {
			for i, v := range in.sys.Vars {
				box.Narrow(v, refined[i])
			}
			return ncsp.Feasible
		}
		cur = refined
	}
	return ncsp.Maybe
}

func precondition(P *mat.Dense, J [][]interval.Interval) [][]interval.Interval {
	n := len(J)
	out := make([][]interval.Interval, n)
	for i := 0; i < n; i++ {
		row := make([]interval.Interval, n)
		for j := 0; j < n; j++ {
			sum := interval.Point(0)
			for k := 0; k < n; k++ {
				sum = interval.Add(sum, interval.Mul(interval.Point(P.At(i, k)), J[k][j]))
			}
			row[j] = sum
		}
		out[i] = row
	}
	return out
}

func preconditionVec(P *mat.Dense, b []interval.Interval) []interval.Interval {
	n := len(b)
	out := make([]interval.Interval, n)
	for i := 0; i < n; i++ {
		sum := interval.Point(0)
		for k := 0; k < n; k++ {
			sum = interval.Add(sum, interval.Mul(interval.Point(P.At(i, k)), b[k]))
		}
		out[i] = sum
	}
	return out
}

func (in *IntervalNewton) String() string {
	return fmt.Sprintf("IntervalNewton(%d eqns)", len(in.sys.Funs))
}
