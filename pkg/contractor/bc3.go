package contractor

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// ContractorBC3 enforces box-consistency on one variable of one function
// (§4.5): finds the outermost [c,d] ⊆ box[v] such that the thick function
// F_B(v) = f(box with v free) has image intersecting the constraint's
// image at both endpoints, via a stack-based peeling search that falls
// back to UniIntervalNewton on the remainder once peeling fails.
// Applicable only when v occurs exactly once in the function (nbOccurrences).
type ContractorBC3 struct {
	fun        *dag.DagFun
	v          *ncsp.Variable
	scope      *ncsp.Scope
	peelFactor float64
	xtol       float64
	maxIter    int
}

// NewBC3 builds a BC3 contractor for fun's single occurrence of v.
func NewBC3(fun *dag.DagFun, v *ncsp.Variable, peelFactor, xtol float64, maxIter int) *ContractorBC3 {
	if maxIter <= 0 {
		maxIter = 100
	}
	if peelFactor <= 0 {
		peelFactor = 0.1
	}
	return &ContractorBC3{fun: fun, v: v, scope: ncsp.NewScope(v), peelFactor: peelFactor, xtol: xtol, maxIter: maxIter}
}

func (c *ContractorBC3) Scope() *ncsp.Scope { return c.scope }

func (c *ContractorBC3) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	thick := &DagThickFunc{Fun: c.fun, V: c.v, Base: box}
	y := box.Get(c.v)

	whole := thick.Eval(y)
	if whole.Inter(c.fun.Image).IsEmpty() {
		box.Narrow(c.v, interval.Empty())
		return ncsp.Empty
	}
	if c.fun.Image.ContainsInterval(whole) {
		return ncsp.Inner
	}

	left, lp := c.shrink(y, thick, true)
	if lp == ncsp.Empty {
		box.Narrow(c.v, interval.Empty())
		return ncsp.Empty
	}
	right, rp := c.shrink(y, thick, false)
	if rp == ncsp.Empty {
		box.Narrow(c.v, interval.Empty())
		return ncsp.Empty
	}

	result := interval.New(left.Lo(), right.Hi()).Inter(y)
	box.Narrow(c.v, result)
	if box.Get(c.v).IsEmpty() {
		return ncsp.Empty
	}
	return ncsp.Maybe
}

// shrink implements steps 2/3 of §4.5's BC3 algorithm: repeatedly peel a
// small slice of width peelFactor·width(y) from one side; if the slice is
// consistent (its thick-function image overlaps the constraint image) it
// is the bound; else apply univariate Newton to the remainder, bisecting
// and pushing both halves whenever Newton leaves a non-canonical MAYBE.
func (c *ContractorBC3) shrink(y interval.Interval, thick *DagThickFunc, fromLeft bool) (interval.Interval, ncsp.Proof) {
	newton := NewUniIntervalNewton(thick, c.xtol, c.maxIter)
	stack := []interval.Interval{y}
	iter := 0
	for len(stack) > 0 && iter < c.maxIter {
		iter++
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsEmpty() {
			continue
		}

		width := cur.Width()
		peelWidth := c.peelFactor * width
		var slice, rest interval.Interval
		if fromLeft {
			slice = interval.New(cur.Lo(), cur.Lo()+peelWidth)
			rest = interval.New(cur.Lo()+peelWidth, cur.Hi())
		} else {
			slice = interval.New(cur.Hi()-peelWidth, cur.Hi())
			rest = interval.New(cur.Lo(), cur.Hi()-peelWidth)
		}

		if thick.Eval(slice).Overlaps(c.fun.Image) {
			return slice, ncsp.Maybe
		}

		next, proof := newton.Step(rest)
		switch proof {
		case ncsp.Empty:
			continue
		case ncsp.Feasible:
			if fromLeft {
				return interval.New(next.Lo(), cur.Hi()), ncsp.Feasible
			}
			return interval.New(cur.Lo(), next.Hi()), ncsp.Feasible
		default:
			if next.RelWidth() <= c.xtol {
				if fromLeft {
					return interval.New(next.Lo(), cur.Hi()), ncsp.Maybe
				}
				return interval.New(cur.Lo(), next.Hi()), ncsp.Maybe
			}
			mid := next.Mid()
			lower, upper := interval.New(next.Lo(), mid), interval.New(mid, next.Hi())
			if fromLeft {
				stack = append(stack, upper, lower)
			} else {
				stack = append(stack, lower, upper)
			}
		}
	}
	return interval.Empty(), ncsp.Empty
}

func (c *ContractorBC3) String() string { return fmt.Sprintf("BC3(%s)", c.v) }
