// Package contractor implements the contractor algebra of §4.5: HC4, BC3,
// univariate and multivariate interval Newton, polytope relaxation, the
// fixed-point loop, 3B shaving, exclusion regions, and the pool/propagator
// composites, all polymorphic over {scope, contract, print}.
package contractor

import (
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Contractor is the shared capability set of §4.5: every contractor
// operates in place on an IntervalBox and returns a Proof certificate.
type Contractor interface {
	Scope() *ncsp.Scope
	Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof
	String() string
}
