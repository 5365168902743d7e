package dag

import (
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// varIndexOf returns the scope position of v in box, or -1.
func varIndexOf(box *ncsp.IntervalBox, v *ncsp.Variable) int {
	return box.Scope().IndexOf(v)
}

// IntervalEval is the forward pass (§4.3): for each node in topological
// order, compute node.Val from child Vals and the operator's interval op.
// If the root value is empty the constraint is infeasible.
func (f *DagFun) IntervalEval(box *ncsp.IntervalBox) interval.Interval {
	d := f.dag
	for _, idx := range f.Nodes {
		n := d.nodes[idx]
		n.Val = evalNodeForward(d, n, box)
	}
	return d.nodes[f.Root].Val
}

func evalNodeForward(d *DAG, n *Node, box *ncsp.IntervalBox) interval.Interval {
	switch n.Kind {
	case KindConst:
		return n.ConstVal
	case KindVar:
		i := varIndexOf(box, n.VarRef)
		if i < 0 {
			return interval.Whole()
		}
		return box.At(i)
	case KindLin:
		acc := interval.Point(n.LinConst)
		for _, e := range n.LinEntries {
			vn := d.nodes[e.VarIndex]
			i := varIndexOf(box, vn.VarRef)
			var vx interval.Interval
			if i < 0 {
				vx = interval.Whole()
			} else {
				vx = box.At(i)
			}
			acc = interval.Add(acc, interval.Mul(interval.Point(e.Coef), vx))
		}
		return acc
	default:
		return evalOp(d, n)
	}
}

func evalOp(d *DAG, n *Node) interval.Interval {
	if n.Op.IsUnary() {
		x := d.nodes[n.Children[0]].Val
		return applyUnary(n.Op, x)
	}
	x := d.nodes[n.Children[0]].Val
	if n.Op == SymPowInt {
		return interval.PowInt(x, n.N)
	}
	y := d.nodes[n.Children[1]].Val
	return applyBinary(n.Op, x, y)
}

func applyUnary(op OpSym, x interval.Interval) interval.Interval {
	switch op {
	case SymNeg:
		return interval.Neg(x)
	case SymAbs:
		return interval.Abs(x)
	case SymSgn:
		return interval.Sgn(x)
	case SymSqr:
		return interval.Sqr(x)
	case SymSqrt:
		return interval.Sqrt(x)
	case SymExp:
		return interval.Exp(x)
	case SymLog:
		return interval.Log(x)
	case SymCos:
		return interval.Cos(x)
	case SymSin:
		return interval.Sin(x)
	case SymTan:
		return interval.Tan(x)
	}
	return interval.Empty()
}

func applyBinary(op OpSym, x, y interval.Interval) interval.Interval {
	switch op {
	case SymAdd:
		return interval.Add(x, y)
	case SymSub:
		return interval.Sub(x, y)
	case SymMul:
		return interval.Mul(x, y)
	case SymDiv:
		return interval.Div(x, y)
	case SymMin:
		return interval.Min(x, y)
	case SymMax:
		return interval.Max(x, y)
	}
	return interval.Empty()
}

// EvalOnly recomputes only nodes whose support includes v, using xv as v's
// value in place of the box (§4.3: "enables BC3's one-dimensional thick
// function"). Other Var nodes still read from box.
func (f *DagFun) EvalOnly(box *ncsp.IntervalBox, v *ncsp.Variable, xv interval.Interval) interval.Interval {
	d := f.dag
	for _, idx := range f.Nodes {
		n := d.nodes[idx]
		if !n.Support.Test(v.ID()) {
			continue
		}
		if n.Kind == KindVar && n.VarRef.ID() == v.ID() {
			n.Val = xv
			continue
		}
		n.Val = evalNodeForwardSubst(d, n, box, v, xv)
	}
	return d.nodes[f.Root].Val
}

func evalNodeForwardSubst(d *DAG, n *Node, box *ncsp.IntervalBox, v *ncsp.Variable, xv interval.Interval) interval.Interval {
	switch n.Kind {
	case KindConst:
		return n.ConstVal
	case KindVar:
		if n.VarRef.ID() == v.ID() {
			return xv
		}
		i := varIndexOf(box, n.VarRef)
		if i < 0 {
			return interval.Whole()
		}
		return box.At(i)
	case KindLin:
		acc := interval.Point(n.LinConst)
		for _, e := range n.LinEntries {
			vn := d.nodes[e.VarIndex]
			var vx interval.Interval
			if vn.VarRef.ID() == v.ID() {
				vx = xv
			} else if i := varIndexOf(box, vn.VarRef); i >= 0 {
				vx = box.At(i)
			} else {
				vx = interval.Whole()
			}
			acc = interval.Add(acc, interval.Mul(interval.Point(e.Coef), vx))
		}
		return acc
	default:
		return evalOp(d, n)
	}
}

// HC4Revise is the constraint-level projection of §4.3: forward-evaluate,
// classify against Image, then backward-project onto every Var node,
// narrowing box in place. Returns the resulting Proof.
func (f *DagFun) HC4Revise(box *ncsp.IntervalBox, ctx *DagContext) ncsp.Proof {
	d := f.dag
	rootVal := f.IntervalEval(box)
	if rootVal.IsEmpty() {
		return ncsp.Empty
	}
	if f.Image.ContainsInterval(rootVal) {
		return ncsp.Inner
	}
	if rootVal.IsDisjoint(f.Image) {
		return ncsp.Empty
	}

	// Seed root.Dom := root.Val ∩ Image. Every other node's Dom must be
	// seeded to its baseline (the per-context universe, or the persisted
	// overlay for shared nodes) before the backward loop runs: nodes are
	// visited in descending index order, so a node's parents are always
	// processed before the node itself, and each backwardOp/backwardLin
	// call narrows a child's Dom via Inter rather than replacing it. Seeding
	// inside the loop at the node's own iteration would clobber whatever
	// its parent(s) already intersected into it one or more iterations
	// earlier.
	d.nodes[f.Root].Dom = rootVal.Inter(f.Image)
	for _, idx := range f.Nodes {
		if idx == f.Root {
			continue
		}
		n := d.nodes[idx]
		if len(n.Parents) > 1 {
			n.Dom = ctx.Dom(idx)
		} else {
			n.Dom = interval.Whole()
		}
	}
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		n := d.nodes[f.Nodes[i]]
		if n.Kind == KindOp {
			backwardOp(d, n)
		} else if n.Kind == KindLin {
			backwardLin(d, n)
		}
	}
	for _, idx := range f.Nodes {
		n := d.nodes[idx]
		if len(n.Parents) > 1 {
			ctx.SetDom(idx, n.Dom)
		}
	}

	empty := false
	for _, idx := range f.Nodes {
		n := d.nodes[idx]
		if n.Kind == KindVar {
			i := varIndexOf(box, n.VarRef)
			if i < 0 {
				continue
			}
			box.NarrowAt(i, n.Dom)
			if box.At(i).IsEmpty() {
				empty = true
			}
		}
	}
	if empty {
		return ncsp.Empty
	}
	return ncsp.Maybe
}

// backwardOp applies each child's inverse projector, intersecting the
// child's existing Dom with the projected result — for shared nodes (>1
// parent) this is how "multiple parent paths jointly contract" (§4.3).
func backwardOp(d *DAG, n *Node) {
	if n.Op.IsUnary() {
		c := d.nodes[n.Children[0]]
		proj := projectUnary(n.Op, c.Val, n.Dom)
		c.Dom = c.Dom.Inter(proj)
		return
	}
	cx := d.nodes[n.Children[0]]
	if n.Op == SymPowInt {
		proj := interval.PowPX(cx.Val, n.N, n.Dom)
		cx.Dom = cx.Dom.Inter(proj)
		return
	}
	cy := d.nodes[n.Children[1]]
	px, py := projectBinary(n.Op, cx.Val, cy.Val, n.Dom)
	cx.Dom = cx.Dom.Inter(px)
	cy.Dom = cy.Dom.Inter(py)
}

func backwardLin(d *DAG, n *Node) {
	// Treat the Lin node as a sum of scaled variables: project the image
	// back onto each term by isolating it (z - sum of the rest)/coef.
	k := len(n.LinEntries)
	if k == 0 {
		return
	}
	terms := make([]interval.Interval, k)
	for i, e := range n.LinEntries {
		vn := d.nodes[e.VarIndex]
		terms[i] = interval.Mul(interval.Point(e.Coef), vn.Val)
	}
	for i, e := range n.LinEntries {
		rest := interval.Point(n.LinConst)
		for j := range terms {
			if j == i {
				continue
			}
			rest = interval.Add(rest, terms[j])
		}
		target := interval.Sub(n.Dom, rest)
		vn := d.nodes[e.VarIndex]
		projected := interval.Div(target, interval.Point(e.Coef))
		vn.Dom = vn.Dom.Inter(projected)
	}
}

func projectUnary(op OpSym, x, z interval.Interval) interval.Interval {
	switch op {
	case SymNeg:
		return interval.UsubPX(z)
	case SymAbs:
		return interval.AbsPX(x, z)
	case SymSgn:
		return interval.SgnPX(x, z)
	case SymSqr:
		return interval.SqrPX(x, z)
	case SymSqrt:
		return interval.SqrtPX(x, z)
	case SymExp:
		return interval.ExpPX(x, z)
	case SymLog:
		return interval.LogPX(x, z)
	case SymCos:
		return interval.CosPX(x, z)
	case SymSin:
		return interval.SinPX(x, z)
	case SymTan:
		return interval.TanPX(x, z)
	}
	return x
}

func projectBinary(op OpSym, x, y, z interval.Interval) (interval.Interval, interval.Interval) {
	switch op {
	case SymAdd:
		return interval.AddPX(x, y, z), interval.AddPY(x, y, z)
	case SymSub:
		return interval.SubPX(x, y, z), interval.SubPY(x, y, z)
	case SymMul:
		return interval.MulPX(x, y, z), interval.MulPY(x, y, z)
	case SymDiv:
		return interval.DivPX(x, y, z), interval.DivPY(x, y, z)
	case SymMin:
		return interval.MinPX(x, y, z), interval.MinPY(x, y, z)
	case SymMax:
		return interval.MaxPX(x, y, z), interval.MaxPY(x, y, z)
	}
	return x, y
}

// HC4ReviseNeg applies the negation of this constraint (§4.3): split Image
// into complement pieces, project each separately on a cloned box, and
// union-hull the results per variable.
func (f *DagFun) HC4ReviseNeg(box *ncsp.IntervalBox, ctx *DagContext) ncsp.Proof {
	left, right := f.Image.Complement()
	var results []*ncsp.IntervalBox
	var proofs []ncsp.Proof
	for _, piece := range []interval.Interval{left, right} {
		if piece.IsEmpty() {
			continue
		}
		clone := box.Clone()
		sub := &DagFun{Root: f.Root, Image: piece, Nodes: f.Nodes, dag: f.dag}
		p := sub.HC4Revise(clone, ctx.Child())
		if p != ncsp.Empty {
			results = append(results, clone)
			proofs = append(proofs, p)
		}
	}
	if len(results) == 0 {
		return ncsp.Empty
	}
	scope := box.Scope()
	merged := results[0]
	for _, r := range results[1:] {
		for i := 0; i < scope.Len(); i++ {
			merged.SetAt(i, merged.At(i).Hull(r.At(i)))
		}
	}
	for i := 0; i < scope.Len(); i++ {
		box.SetAt(i, merged.At(i))
	}
	best := ncsp.Empty
	for _, p := range proofs {
		if p > best {
			best = p
		}
	}
	if best == ncsp.Inner {
		best = ncsp.Maybe // negated INNER image is only ever a partial piece
	}
	return best
}
