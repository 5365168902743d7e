package contractor

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Propagator runs contractors on a dependency-driven queue (§4.5): a
// variable touched (its width shrank) re-queues every contractor whose
// scope contains that variable, until the queue is empty or no contractor
// improves. Grounded on `.seed/solver.go`'s fixed-point propagate loop,
// generalized from "rerun every constraint every round" to a dependency
// queue, the shape `.seed/solver.go`'s own doc comment on
// PropagationConstraint anticipates ("constraints to communicate via the
// shared propagation queue").
type Propagator struct {
	contractors []Contractor
	scope       *ncsp.Scope
	widthTol    float64
}

// NewPropagator builds a Propagator over cs. widthTol is the minimum
// relative width shrink that counts as "touched" and triggers a re-queue.
func NewPropagator(widthTol float64, cs ...Contractor) *Propagator {
	scope := ncsp.NewScope()
	for _, c := range cs {
		scope = scope.Union(c.Scope())
	}
	return &Propagator{contractors: cs, scope: scope, widthTol: widthTol}
}

func (p *Propagator) Scope() *ncsp.Scope { return p.scope }

func (p *Propagator) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	n := len(p.contractors)
	if n == 0 {
		return ncsp.Inner
	}
	queued := make([]bool, n)
	queue := make([]int, n)
	for i := range queue {
		queue[i] = i
		queued[i] = true
	}

	widths := make(map[int]float64, p.scope.Len())
	for i := 0; i < p.scope.Len(); i++ {
		v := p.scope.At(i)
		widths[v.ID()] = box.Get(v).Width()
	}

	best := ncsp.Inner
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		queued[i] = false

		c := p.contractors[i]
		proof := c.Contract(box, ctx)
		if proof == ncsp.Empty {
			return ncsp.Empty
		}
		if proof < best {
			best = proof
		}

		cs := c.Scope()
		for vi := 0; vi < cs.Len(); vi++ {
			v := cs.At(vi)
			before := widths[v.ID()]
			after := box.Get(v).Width()
			if before-after <= p.widthTol*maxOf(before, 1) {
				continue
			}
			widths[v.ID()] = after
			for j, other := range p.contractors {
				if j == i || queued[j] {
					continue
				}
				if other.Scope().Contains(v) {
					queue = append(queue, j)
					queued[j] = true
				}
			}
		}
	}
	return best
}

func (p *Propagator) String() string { return fmt.Sprintf("Propagator(%d contractors)", len(p.contractors)) }
