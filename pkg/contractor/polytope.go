package contractor

import (
	"fmt"
	"math"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/lp"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// PolytopeStyle selects ContractorPolytope's linearization (§4.5).
type PolytopeStyle int

const (
	RLT PolytopeStyle = iota
	Taylor
)

func (s PolytopeStyle) String() string {
	if s == Taylor {
		return "Taylor"
	}
	return "RLT"
}

// ContractorPolytope builds a linear outer approximation of the feasible
// set, then minimizes/maximizes each variable over the polytope to shrink
// its interval (§4.5). style selects between the RLT node-by-node creator
// and the Taylor corner-linearization creator.
type ContractorPolytope struct {
	dag    *dag.DAG
	funs   []*dag.DagFun
	vars   []*ncsp.Variable
	scope  *ncsp.Scope
	style  PolytopeStyle
	solver lp.Solver
	eqTol  float64
}

func NewContractorPolytope(d *dag.DAG, funs []*dag.DagFun, vars []*ncsp.Variable, style PolytopeStyle, solver lp.Solver, eqTol float64) *ContractorPolytope {
	return &ContractorPolytope{dag: d, funs: funs, vars: vars, scope: ncsp.NewScope(vars...), style: style, solver: solver, eqTol: eqTol}
}

func (c *ContractorPolytope) Scope() *ncsp.Scope { return c.scope }

func (c *ContractorPolytope) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	var p *lp.Problem
	var colOf map[int]int
	switch c.style {
	case Taylor:
		p, colOf = c.buildTaylor(box)
	default:
		p, colOf = c.buildRLT(box)
	}
	if p == nil {
		return ncsp.Maybe
	}

	best := ncsp.Maybe
	for _, v := range c.vars {
		col, ok := colOf[v.ID()]
		if !ok {
			continue
		}
		cur := box.Get(v)
		lo, hi := cur.Lo(), cur.Hi()

		for j := range p.C {
			p.C[j] = 0
		}
		p.C[col] = 1
		solMin, err := c.solver.Solve(p)
		minOK := err == nil && solMin != nil && solMin.Status == lp.Optimal
		var safeLo float64
		if minOK {
			safeLo = safeBound(p, solMin)
		}

		p.C[col] = -1
		solMax, err := c.solver.Solve(p)
		maxOK := err == nil && solMax != nil && solMax.Status == lp.Optimal
		var safeHi float64
		if maxOK {
			safeHi = safeBound(p, solMax)
		}

		if !minOK && !maxOK &&
			((err == nil && solMin != nil && solMin.Status == lp.Infeasible) ||
				(err == nil && solMax != nil && solMax.Status == lp.Infeasible)) {
			box.Narrow(v, interval.Empty())
			return ncsp.Empty
		}

		if minOK && safeLo > lo {
			lo = interval.RoundDown(safeLo)
		}
		if maxOK && -safeHi < hi {
			hi = interval.RoundUp(-safeHi)
		}
		if lo > hi {
			box.Narrow(v, interval.Empty())
			return ncsp.Empty
		}
		narrowed := interval.New(lo, hi)
		box.Narrow(v, narrowed)
		if box.Get(v).Width() < cur.Width() {
			best = ncsp.Maybe
		}
	}
	return best
}

// safeBound recovers a certified lower bound on min(p.C . x) over p's
// feasible set from sol's dual multipliers (§4.5 "reinterpreting dual
// certificates with interval arithmetic"), rather than trusting the
// solver's own Obj, which can carry accumulated simplex floating error.
// By weak LP duality, for ANY y >= 0:
//
//	g(y) = sum_j min_{Lo_j<=x_j<=Hi_j} (C_j + (A^T y)_j) x_j  -  y.B
//
// is a valid lower bound on min(C.x) subject to A.x<=B, Lo<=x<=Hi, because
// y.(A.x-B) <= 0 for every feasible x. This holds for the reported dual
// whether or not it is exactly optimal (and even if the solver's sign
// convention for Dual turns out to differ: clamping negative components to
// zero below only degrades g(y) towards the trivial box bound, it can
// never make g(y) unsound).
func safeBound(p *lp.Problem, sol *lp.Solution) float64 {
	y := make([]float64, len(p.A))
	for i := range y {
		if i < len(sol.Dual) && sol.Dual[i] > 0 {
			y[i] = sol.Dual[i]
		}
	}
	g := 0.0
	for i, bi := range p.B {
		g -= y[i] * bi
	}
	for j, cj := range p.C {
		r := cj
		for i, row := range p.A {
			r += y[i] * row[j]
		}
		switch {
		case r == 0:
			// avoid 0 * (+-Inf) = NaN when the column has an unbounded side.
		case r > 0:
			g += r * p.Lo[j]
		default:
			g += r * p.Hi[j]
		}
	}
	return g
}

// buildRLT assigns one LP column per reachable DAG node, bounded by the
// node's evaluated interval, and adds per-op-node RLT inequalities: exact
// for add/sub, McCormick envelope for mul, convex/concave tangent-chord
// envelopes for the differentiable unary ops, and a sound but linkage-free
// box fallback (the node's own evaluated interval, unrelated to its
// children's columns) for ops whose envelope this reference implementation
// does not derive (div, pow_int, min, max, abs, sgn, trig) — noted in
// DESIGN.md as a soundness-preserving simplification.
func (c *ContractorPolytope) buildRLT(box *ncsp.IntervalBox) (*lp.Problem, map[int]int) {
	nodes := make(map[int]bool)
	for _, f := range c.funs {
		f.IntervalEval(box)
		for _, idx := range f.Nodes {
			nodes[idx] = true
		}
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	col := make(map[int]int, len(nodes))
	order := make([]int, 0, len(nodes))
	for idx := range nodes {
		order = append(order, idx)
	}
	insertionSortInts(order)
	for i, idx := range order {
		col[idx] = i
	}
	n := len(order)

	lo := make([]float64, n)
	hi := make([]float64, n)
	for i, idx := range order {
		v := c.dag.Node(idx).Val
		lo[i], hi[i] = v.Lo(), v.Hi()
	}

	var rows [][]float64
	var rhs []float64
	addRow := func(coefs map[int]float64, relLE float64) {
		row := make([]float64, n)
		for j, a := range coefs {
			row[j] = a
		}
		rows = append(rows, row)
		rhs = append(rhs, relLE)
	}

	for _, idx := range order {
		node := c.dag.Node(idx)
		if node.Kind != dag.KindOp {
			continue
		}
		z := col[idx]
		switch node.Op {
		case dag.SymAdd:
			x, y := col[node.Children[0]], col[node.Children[1]]
			addRow(map[int]float64{z: 1, x: -1, y: -1}, 0)
			addRow(map[int]float64{z: -1, x: 1, y: 1}, 0)
		case dag.SymSub:
			x, y := col[node.Children[0]], col[node.Children[1]]
			addRow(map[int]float64{z: 1, x: -1, y: 1}, 0)
			addRow(map[int]float64{z: -1, x: 1, y: -1}, 0)
		case dag.SymNeg:
			x := col[node.Children[0]]
			addRow(map[int]float64{z: 1, x: 1}, 0)
			addRow(map[int]float64{z: -1, x: -1}, 0)
		case dag.SymMul:
			x, y := col[node.Children[0]], col[node.Children[1]]
			xl, xh := lo[x], hi[x]
			yl, yh := lo[y], hi[y]
			// McCormick envelope for z = x*y, RHS rounded outward (up, since
			// every row here is a "<= rhs" inequality) so floating error in
			// the product never tightens the relaxation.
			addRow(map[int]float64{z: -1, x: yl, y: xl}, interval.RoundUp(xl*yl))
			addRow(map[int]float64{z: -1, x: yh, y: xh}, interval.RoundUp(xh*yh))
			addRow(map[int]float64{z: 1, x: -yh, y: -xl}, interval.RoundUp(-xl*yh))
			addRow(map[int]float64{z: 1, x: -yl, y: -xh}, interval.RoundUp(-xh*yl))
		case dag.SymSqr:
			x := col[node.Children[0]]
			c.envelopeConvex(addRow, z, x, lo[x], hi[x], func(t float64) float64 { return t * t }, func(t float64) float64 { return 2 * t })
		case dag.SymExp:
			x := col[node.Children[0]]
			c.envelopeConvex(addRow, z, x, lo[x], hi[x], math.Exp, math.Exp)
		case dag.SymLog:
			xl := col[node.Children[0]]
			if lo[xl] > 0 {
				c.envelopeConcave(addRow, z, xl, lo[xl], hi[xl], math.Log, func(t float64) float64 { return 1 / t })
			}
		case dag.SymSqrt:
			xl := col[node.Children[0]]
			if lo[xl] >= 0 {
				c.envelopeConcave(addRow, z, xl, lo[xl], hi[xl], math.Sqrt, func(t float64) float64 {
					if t <= 0 {
						return math.Inf(1)
					}
					return 0.5 / math.Sqrt(t)
				})
			}
		default:
			// Linkage-free fallback: z stays bounded by its own evaluated
			// interval (already encoded in lo/hi), no RLT inequality added.
		}
	}

	for _, f := range c.funs {
		img := f.Image
		if img.IsPoint() {
			rows = append(rows, rowOf(col[f.Root], 1, n))
			rhs = append(rhs, img.Hi()+c.eqTol)
			rows = append(rows, rowOf(col[f.Root], -1, n))
			rhs = append(rhs, -img.Lo()+c.eqTol)
			continue
		}
		if !math.IsInf(img.Hi(), 1) {
			rows = append(rows, rowOf(col[f.Root], 1, n))
			rhs = append(rhs, img.Hi())
		}
		if !math.IsInf(img.Lo(), -1) {
			rows = append(rows, rowOf(col[f.Root], -1, n))
			rhs = append(rhs, -img.Lo())
		}
	}

	colOf := make(map[int]int, len(c.vars))
	for _, v := range c.vars {
		if idx, ok := c.dag.VarNode(v); ok {
			if j, ok2 := col[idx]; ok2 {
				colOf[v.ID()] = j
			}
		}
	}

	p := &lp.Problem{C: make([]float64, n), A: rows, B: rhs, Lo: lo, Hi: hi}
	return p, colOf
}

func rowOf(col int, coef float64, n int) []float64 {
	row := make([]float64, n)
	row[col] = coef
	return row
}

// envelopeConvex adds a tangent lower bound at the midpoint and a chord
// upper bound, sound for any convex f on [lo,hi].
func (c *ContractorPolytope) envelopeConvex(addRow func(map[int]float64, float64), z, x int, lo, hi float64, f, fprime func(float64) float64) {
	if math.IsInf(lo, -1) || math.IsInf(hi, 1) {
		return
	}
	mid := (lo + hi) / 2
	slope := fprime(mid)
	intercept := f(mid) - slope*mid
	// z >= slope*x + intercept  =>  -z + slope*x <= -intercept, RHS rounded
	// outward so tangent evaluation error can't turn the lower bound unsound.
	addRow(map[int]float64{z: -1, x: slope}, interval.RoundUp(-intercept))

	chordSlope := (f(hi) - f(lo)) / (hi - lo)
	chordIntercept := f(lo) - chordSlope*lo
	// z <= chordSlope*x + chordIntercept
	addRow(map[int]float64{z: 1, x: -chordSlope}, interval.RoundUp(chordIntercept))
}

// envelopeConcave is envelopeConvex's mirror: tangent upper bound, chord
// lower bound, sound for any concave f on [lo,hi].
func (c *ContractorPolytope) envelopeConcave(addRow func(map[int]float64, float64), z, x int, lo, hi float64, f, fprime func(float64) float64) {
	if math.IsInf(lo, -1) || math.IsInf(hi, 1) || lo <= 0 {
		return
	}
	mid := (lo + hi) / 2
	slope := fprime(mid)
	intercept := f(mid) - slope*mid
	// z <= slope*x + intercept, RHS rounded outward for the same reason as
	// envelopeConvex's tangent row.
	addRow(map[int]float64{z: 1, x: -slope}, interval.RoundUp(intercept))

	chordSlope := (f(hi) - f(lo)) / (hi - lo)
	chordIntercept := f(lo) - chordSlope*lo
	// z >= chordSlope*x + chordIntercept  =>  -z + chordSlope*x <= -chordIntercept
	addRow(map[int]float64{z: -1, x: chordSlope}, interval.RoundUp(-chordIntercept))
}

// buildTaylor assigns one LP column per problem variable and, for each
// function, adds up to four linear constraints anchored at two opposite
// box corners using outward-rounded derivatives (§4.5).
func (c *ContractorPolytope) buildTaylor(box *ncsp.IntervalBox) (*lp.Problem, map[int]int) {
	n := len(c.vars)
	if n == 0 {
		return nil, nil
	}
	lo := make([]float64, n)
	hi := make([]float64, n)
	colOf := make(map[int]int, n)
	c1 := make(map[int]float64, n)
	c2 := make(map[int]float64, n)
	for i, v := range c.vars {
		iv := box.Get(v)
		lo[i], hi[i] = iv.Lo(), iv.Hi()
		colOf[v.ID()] = i
		c1[v.ID()] = iv.Lo()
		c2[v.ID()] = iv.Hi()
	}

	var rows [][]float64
	var rhs []float64
	// addCorner anchors f's linearization at corner (cornerIsLo selects which
	// of the two opposite box corners it is). (x_i - corner_i) has a fixed
	// sign over the whole box — >=0 at the lo corner, <=0 at the hi corner —
	// so a sound linear *lower* envelope of f needs, per variable, the
	// derivative-interval endpoint that *minimizes* D_i*(x_i-corner_i), and a
	// sound linear *upper* envelope needs the endpoint that *maximizes* it.
	// Collapsing the derivative interval to its midpoint (as a plain Taylor
	// expansion would) drops the gradient's radius and is unsound: it can
	// cut a feasible point whenever rad(D_i) > 0. This mirrors the
	// corner-sign derivative selection in Reformulation.cpp rather than a
	// textbook midpoint Taylor form.
	addCorner := func(f *dag.DagFun, corner map[int]float64, cornerIsLo bool) {
		f.IntervalEval(box)
		if !f.IntervalDiff(box) {
			return
		}
		fc := f.RealEval(corner)
		rowLower := make([]float64, n)
		rowUpper := make([]float64, n)
		baseLower, baseUpper := 0.0, 0.0
		for i, v := range c.vars {
			idx, ok := c.dag.VarNode(v)
			if !ok {
				continue
			}
			dv := c.dag.Node(idx).Dv
			dlo, dhi := dv.Lo(), dv.Hi()
			slopeLower, slopeUpper := dhi, dlo
			if cornerIsLo {
				slopeLower, slopeUpper = dlo, dhi
			}
			rowLower[i] = slopeLower
			rowUpper[i] = slopeUpper
			baseLower += slopeLower * corner[v.ID()]
			baseUpper += slopeUpper * corner[v.ID()]
		}
		img := f.Image
		if !math.IsInf(img.Hi(), 1) {
			// f_lower(x) = fc + slopeLower.(x-corner) <= f(x), so
			// f_lower(x) <= img.Hi() is a sound relaxation of f(x) <= img.Hi().
			rows = append(rows, rowLower)
			rhs = append(rhs, interval.RoundUp(img.Hi()-(fc-baseLower)))
		}
		if !math.IsInf(img.Lo(), -1) {
			// f_upper(x) = fc + slopeUpper.(x-corner) >= f(x), so
			// f_upper(x) >= img.Lo() is a sound relaxation of f(x) >= img.Lo(),
			// written as the <= row -slopeUpper.x <= (fc-baseUpper)-img.Lo().
			neg := make([]float64, n)
			for i, s := range rowUpper {
				neg[i] = -s
			}
			rows = append(rows, neg)
			rhs = append(rhs, interval.RoundUp((fc-baseUpper)-img.Lo()))
		}
	}

	for _, f := range c.funs {
		addCorner(f, c1, true)
		addCorner(f, c2, false)
	}

	p := &lp.Problem{C: make([]float64, n), A: rows, B: rhs, Lo: lo, Hi: hi}
	return p, colOf
}

func insertionSortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

func (c *ContractorPolytope) String() string {
	return fmt.Sprintf("Polytope(%s, %d funs)", c.style, len(c.funs))
}
