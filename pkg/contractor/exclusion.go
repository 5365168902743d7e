package contractor

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// ContractorExclusionRegion removes duplicate solution clusters from
// future search nodes (§4.5): given a proven feasible region, it builds a
// separating test and uses it to reject nodes that fall entirely inside
// an already-reported cluster, without tightening the box otherwise.
//
// Rather than deriving symbolic barrier functions per §4.5's literal
// wording (which needs a sign-definite separating function per excluded
// region — out of scope for a from-scratch reference implementation, see
// DESIGN.md), this reference implementation separates regions directly on
// the IntervalBox: a region is excluded once the candidate box is
// entirely contained in its hull. This is sound (a box fully inside an
// already-certified cluster can contribute no new solution) though less
// discriminating than a true barrier function near a cluster's boundary.
type ContractorExclusionRegion struct {
	scope    *ncsp.Scope
	excluded []*ncsp.IntervalBox
}

func NewExclusionRegion(scope *ncsp.Scope) *ContractorExclusionRegion {
	return &ContractorExclusionRegion{scope: scope}
}

// Exclude registers region as an already-certified/reported cluster.
func (c *ContractorExclusionRegion) Exclude(region *ncsp.IntervalBox) {
	c.excluded = append(c.excluded, region)
}

func (c *ContractorExclusionRegion) Scope() *ncsp.Scope { return c.scope }

func (c *ContractorExclusionRegion) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	for _, region := range c.excluded {
		if containedIn(box, region) {
			return ncsp.Empty
		}
	}
	return ncsp.Maybe
}

func containedIn(box, region *ncsp.IntervalBox) bool {
	for i := 0; i < box.Scope().Len(); i++ {
		v := box.Scope().At(i)
		if !region.Scope().Contains(v) {
			return false
		}
		if !region.Get(v).ContainsInterval(box.Get(v)) {
			return false
		}
	}
	return true
}

func (c *ContractorExclusionRegion) String() string {
	return fmt.Sprintf("ExclusionRegion(%d clusters)", len(c.excluded))
}
