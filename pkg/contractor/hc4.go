package contractor

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// HC4Contractor is a single application of a constraint's hc4Revise (§4.5).
type HC4Contractor struct {
	c constraint.Constraint
}

// NewHC4 wraps c as a Contractor.
func NewHC4(c constraint.Constraint) *HC4Contractor { return &HC4Contractor{c: c} }

func (h *HC4Contractor) Scope() *ncsp.Scope { return h.c.Scope() }

func (h *HC4Contractor) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	return h.c.Contract(box, ctx)
}

func (h *HC4Contractor) String() string { return fmt.Sprintf("HC4(%s)", h.c) }
