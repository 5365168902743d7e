package contractor

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// ContractorVar3B is variable-wise 3B shaving (§4.5): slice box[v], test op
// on each slice with v restricted, drop leading EMPTY slices from the left
// and from the right, then set box[v] := hull(surviving-left.lo,
// surviving-right.hi). Skips variables whose width is below varMinWidth
// or which are unbounded.
type ContractorVar3B struct {
	op          Contractor
	v           *ncsp.Variable
	slicer      Slicer
	varMinWidth float64
}

func NewVar3B(op Contractor, v *ncsp.Variable, slicer Slicer, varMinWidth float64) *ContractorVar3B {
	return &ContractorVar3B{op: op, v: v, slicer: slicer, varMinWidth: varMinWidth}
}

func (c *ContractorVar3B) Scope() *ncsp.Scope { return ncsp.NewScope(c.v) }

func (c *ContractorVar3B) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	y := box.Get(c.v)
	if !y.IsBounded() || y.Width() < c.varMinWidth {
		return ncsp.Maybe
	}

	slices := c.slicer.Slice(y)
	if len(slices) == 0 {
		return ncsp.Maybe
	}

	survives := func(s interval.Interval) bool {
		trial := box.Clone()
		trial.Narrow(c.v, s)
		return c.op.Contract(trial, ctx.Child()) != ncsp.Empty
	}

	leftIdx := -1
	for i, s := range slices {
		if survives(s) {
			leftIdx = i
			break
		}
	}
	if leftIdx < 0 {
		box.Narrow(c.v, interval.Empty())
		return ncsp.Empty
	}

	rightIdx := -1
	for i := len(slices) - 1; i >= 0; i-- {
		if survives(slices[i]) {
			rightIdx = i
			break
		}
	}

	result := interval.New(slices[leftIdx].Lo(), slices[rightIdx].Hi())
	box.Narrow(c.v, result)
	if box.Get(c.v).IsEmpty() {
		return ncsp.Empty
	}
	return ncsp.Maybe
}

func (c *ContractorVar3B) String() string { return fmt.Sprintf("Var3B(%s, %s)", c.v, c.slicer) }
