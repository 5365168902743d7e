package dag

import (
	"math"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// IntervalDiff is reverse-mode automatic differentiation (§4.3): seeds
// root.Dv := [1,1], all others := 0, then in reverse topological order each
// op adds its partial times the parent's Dv to each child's Dv. Requires
// IntervalEval to have populated Val first. Returns false iff any partial
// derivative contained a removable singularity (e.g. division by an
// interval containing 0), matching the "Returns false iff ..." contract.
func (f *DagFun) IntervalDiff(box *ncsp.IntervalBox) (ok bool) {
	d := f.dag
	ok = true
	for _, idx := range f.Nodes {
		d.nodes[idx].Dv = interval.Point(0)
	}
	d.nodes[f.Root].Dv = interval.Point(1)
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		idx := f.Nodes[i]
		n := d.nodes[idx]
		if n.Dv.IsEmpty() {
			continue
		}
		switch n.Kind {
		case KindConst, KindVar:
			// leaves accumulate; nothing to propagate further.
		case KindLin:
			for _, e := range n.LinEntries {
				vn := d.nodes[e.VarIndex]
				contrib := interval.Mul(interval.Point(e.Coef), n.Dv)
				vn.Dv = interval.Add(vn.Dv, contrib)
			}
		default:
			if !diffOp(d, n) {
				ok = false
			}
		}
	}
	return ok
}

func diffOp(d *DAG, n *Node) bool {
	if n.Op.IsUnary() {
		c := d.nodes[n.Children[0]]
		partial, valid := unaryPartial(n.Op, c.Val)
		c.Dv = interval.Add(c.Dv, interval.Mul(partial, n.Dv))
		return valid
	}
	cx := d.nodes[n.Children[0]]
	if n.Op == SymPowInt {
		if n.N == 0 {
			return true
		}
		partial := interval.Mul(interval.Point(float64(n.N)), interval.PowInt(cx.Val, n.N-1))
		cx.Dv = interval.Add(cx.Dv, interval.Mul(partial, n.Dv))
		return true
	}
	cy := d.nodes[n.Children[1]]
	px, py, valid := binaryPartials(n.Op, cx.Val, cy.Val)
	cx.Dv = interval.Add(cx.Dv, interval.Mul(px, n.Dv))
	cy.Dv = interval.Add(cy.Dv, interval.Mul(py, n.Dv))
	return valid
}

func unaryPartial(op OpSym, x interval.Interval) (interval.Interval, bool) {
	switch op {
	case SymNeg:
		return interval.Point(-1), true
	case SymAbs:
		if x.Lo() > 0 {
			return interval.Point(1), true
		}
		if x.Hi() < 0 {
			return interval.Point(-1), true
		}
		return interval.New(-1, 1), true
	case SymSgn:
		if !x.Contains(0) {
			return interval.Point(0), true
		}
		return interval.Point(0), true // sgn is 0 a.e.; singular only at x=0 exactly
	case SymSqr:
		return interval.Mul(interval.Point(2), x), true
	case SymSqrt:
		if x.Lo() <= 0 {
			return interval.Whole(), false
		}
		return interval.Div(interval.Point(1), interval.Mul(interval.Point(2), interval.Sqrt(x))), true
	case SymExp:
		return interval.Exp(x), true
	case SymLog:
		if x.Contains(0) {
			return interval.Whole(), false
		}
		return interval.Div(interval.Point(1), x), true
	case SymSin:
		return interval.Cos(x), true
	case SymCos:
		return interval.Neg(interval.Sin(x)), true
	case SymTan:
		t := interval.Tan(x)
		return interval.Add(interval.Point(1), interval.Sqr(t)), true
	}
	return interval.Whole(), false
}

func binaryPartials(op OpSym, x, y interval.Interval) (px, py interval.Interval, ok bool) {
	switch op {
	case SymAdd:
		return interval.Point(1), interval.Point(1), true
	case SymSub:
		return interval.Point(1), interval.Point(-1), true
	case SymMul:
		return y, x, true
	case SymDiv:
		if y.Contains(0) {
			return interval.Whole(), interval.Whole(), false
		}
		return interval.Div(interval.Point(1), y), interval.Neg(interval.Div(x, interval.Sqr(y))), true
	case SymMin:
		return strictSidePartial(x, y, true), strictSidePartial(y, x, true), true
	case SymMax:
		return strictSidePartial(x, y, false), strictSidePartial(y, x, false), true
	}
	return interval.Whole(), interval.Whole(), false
}

// strictSidePartial returns 1 when a is strictly the min/max side, 0 on the
// strict other side, and [0,1] otherwise (§4.3 min/max differentiation
// rule).
func strictSidePartial(a, b interval.Interval, wantMin bool) interval.Interval {
	var aIsSide, bIsSide bool
	if wantMin {
		aIsSide = a.Hi() < b.Lo()
		bIsSide = b.Hi() < a.Lo()
	} else {
		aIsSide = a.Lo() > b.Hi()
		bIsSide = b.Lo() > a.Hi()
	}
	switch {
	case aIsSide:
		return interval.Point(1)
	case bIsSide:
		return interval.Point(0)
	default:
		return interval.New(0, 1)
	}
}

// RealEval evaluates the function at a single point (round-to-nearest),
// used by the prover and the polytope Taylor creator (§4.3).
func (f *DagFun) RealEval(point map[int]float64) float64 {
	d := f.dag
	for _, idx := range f.Nodes {
		n := d.nodes[idx]
		n.Rval = evalRealNode(d, n, point)
	}
	return d.nodes[f.Root].Rval
}

func evalRealNode(d *DAG, n *Node, point map[int]float64) float64 {
	switch n.Kind {
	case KindConst:
		return n.ConstVal.Mid()
	case KindVar:
		return point[n.VarRef.ID()]
	case KindLin:
		acc := n.LinConst
		for _, e := range n.LinEntries {
			vn := d.nodes[e.VarIndex]
			acc += e.Coef * point[vn.VarRef.ID()]
		}
		return acc
	default:
		return evalRealOp(d, n)
	}
}

func evalRealOp(d *DAG, n *Node) float64 {
	if n.Op.IsUnary() {
		x := d.nodes[n.Children[0]].Rval
		return applyUnaryReal(n.Op, x)
	}
	x := d.nodes[n.Children[0]].Rval
	if n.Op == SymPowInt {
		return math.Pow(x, float64(n.N))
	}
	y := d.nodes[n.Children[1]].Rval
	return applyBinaryReal(n.Op, x, y)
}

func applyUnaryReal(op OpSym, x float64) float64 {
	switch op {
	case SymNeg:
		return -x
	case SymAbs:
		return math.Abs(x)
	case SymSgn:
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	case SymSqr:
		return x * x
	case SymSqrt:
		return math.Sqrt(x)
	case SymExp:
		return math.Exp(x)
	case SymLog:
		return math.Log(x)
	case SymCos:
		return math.Cos(x)
	case SymSin:
		return math.Sin(x)
	case SymTan:
		return math.Tan(x)
	}
	return math.NaN()
}

func applyBinaryReal(op OpSym, x, y float64) float64 {
	switch op {
	case SymAdd:
		return x + y
	case SymSub:
		return x - y
	case SymMul:
		return x * y
	case SymDiv:
		return x / y
	case SymMin:
		return math.Min(x, y)
	case SymMax:
		return math.Max(x, y)
	}
	return math.NaN()
}

// RealDiff computes the gradient at point via reverse-mode AD on f64,
// using the identical rule set as IntervalDiff but on point derivatives
// (§4.3: "identical algorithms on f64 with round-to-nearest").
func (f *DagFun) RealDiff(point map[int]float64) map[int]float64 {
	d := f.dag
	f.RealEval(point)
	for _, idx := range f.Nodes {
		d.nodes[idx].Rdv = 0
	}
	d.nodes[f.Root].Rdv = 1
	grad := make(map[int]float64)
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		idx := f.Nodes[i]
		n := d.nodes[idx]
		switch n.Kind {
		case KindVar:
			grad[n.VarRef.ID()] += n.Rdv
		case KindLin:
			for _, e := range n.LinEntries {
				vn := d.nodes[e.VarIndex]
				vn.Rdv += e.Coef * n.Rdv
			}
		case KindOp:
			realDiffOp(d, n)
		}
	}
	return grad
}

func realDiffOp(d *DAG, n *Node) {
	if n.Op.IsUnary() {
		c := d.nodes[n.Children[0]]
		c.Rdv += realUnaryPartial(n.Op, c.Rval) * n.Rdv
		return
	}
	cx := d.nodes[n.Children[0]]
	if n.Op == SymPowInt {
		cx.Rdv += float64(n.N) * math.Pow(cx.Rval, float64(n.N-1)) * n.Rdv
		return
	}
	cy := d.nodes[n.Children[1]]
	px, py := realBinaryPartials(n.Op, cx.Rval, cy.Rval)
	cx.Rdv += px * n.Rdv
	cy.Rdv += py * n.Rdv
}

func realUnaryPartial(op OpSym, x float64) float64 {
	switch op {
	case SymNeg:
		return -1
	case SymAbs:
		if x >= 0 {
			return 1
		}
		return -1
	case SymSgn:
		return 0
	case SymSqr:
		return 2 * x
	case SymSqrt:
		return 1 / (2 * math.Sqrt(x))
	case SymExp:
		return math.Exp(x)
	case SymLog:
		return 1 / x
	case SymSin:
		return math.Cos(x)
	case SymCos:
		return -math.Sin(x)
	case SymTan:
		t := math.Tan(x)
		return 1 + t*t
	}
	return math.NaN()
}

func realBinaryPartials(op OpSym, x, y float64) (float64, float64) {
	switch op {
	case SymAdd:
		return 1, 1
	case SymSub:
		return 1, -1
	case SymMul:
		return y, x
	case SymDiv:
		return 1 / y, -x / (y * y)
	case SymMin:
		if x < y {
			return 1, 0
		}
		return 0, 1
	case SymMax:
		if x > y {
			return 1, 0
		}
		return 0, 1
	}
	return math.NaN(), math.NaN()
}
