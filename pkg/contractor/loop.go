package contractor

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// ContractorLoop applies op in a fixed-point loop (§4.5), stopping when box
// fails to improve relatively by tol on any coordinate, or op returns
// EMPTY. Grounded on `.seed/solver.go`'s Solver.propagate fixed-point loop,
// generalized from a list-of-constraints fixpoint to a single wrapped op
// re-applied until no coordinate moves.
type ContractorLoop struct {
	op      Contractor
	tol     float64
	maxIter int
}

// NewLoop wraps op with a relative-width stopping tolerance tol and an
// iteration cap (`.seed/solver.go`'s maxIterations safety valve against a
// non-terminating propagation).
func NewLoop(op Contractor, tol float64, maxIter int) *ContractorLoop {
	if maxIter <= 0 {
		maxIter = 1000
	}
	return &ContractorLoop{op: op, tol: tol, maxIter: maxIter}
}

func (l *ContractorLoop) Scope() *ncsp.Scope { return l.op.Scope() }

func (l *ContractorLoop) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	scope := l.op.Scope()
	last := ncsp.Maybe
	for iter := 0; iter < l.maxIter; iter++ {
		widthBefore := make([]float64, scope.Len())
		for i := 0; i < scope.Len(); i++ {
			idx := box.Scope().IndexOf(scope.At(i))
			if idx >= 0 {
				widthBefore[i] = box.At(idx).Width()
			}
		}

		proof := l.op.Contract(box, ctx)
		last = proof
		if proof == ncsp.Empty || proof == ncsp.Inner {
			return proof
		}

		improved := false
		for i := 0; i < scope.Len(); i++ {
			idx := box.Scope().IndexOf(scope.At(i))
			if idx < 0 {
				continue
			}
			after := box.At(idx).Width()
			if widthBefore[i]-after > l.tol*maxOf(widthBefore[i], 1) {
				improved = true
				break
			}
		}
		if !improved {
			return proof
		}
	}
	return last
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (l *ContractorLoop) String() string { return fmt.Sprintf("Loop(%s, tol=%v)", l.op, l.tol) }
