package constraint

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Conditional is guard ⇒ body (§3), both themselves Constraints.
type Conditional struct {
	guard Constraint
	body  Constraint
	scope *ncsp.Scope
}

// NewConditional builds guard ⇒ body over the union of both scopes.
func NewConditional(guard, body Constraint) *Conditional {
	return &Conditional{guard: guard, body: body, scope: guard.Scope().Union(body.Scope())}
}

func (c *Conditional) Scope() *ncsp.Scope { return c.scope }

func (c *Conditional) IsSatisfied(box *ncsp.IntervalBox) ncsp.Proof {
	switch c.guard.IsSatisfied(box) {
	case ncsp.Empty:
		return ncsp.Inner // vacuously true: guard never holds
	case ncsp.Inner:
		return c.body.IsSatisfied(box)
	default:
		bodyProof := c.body.IsSatisfied(box)
		if bodyProof == ncsp.Inner {
			return ncsp.Inner // body holds regardless of guard
		}
		return ncsp.Maybe
	}
}

// Violation reports the body's violation when the guard is possibly true,
// and zero when the guard is certainly false (vacuous truth).
func (c *Conditional) Violation(box *ncsp.IntervalBox) float64 {
	if c.guard.IsSatisfied(box) == ncsp.Empty {
		return 0
	}
	return c.body.Violation(box)
}

// Contract implements the guarded contraction of §4.4: if guard is INNER,
// contract body; if guard is EMPTY, nothing (the implication is vacuously
// true and must not constrain box); otherwise tentatively contract both
// (narrowing information from either branch is still sound — an
// implication restricts the feasible set no matter which side is taken).
func (c *Conditional) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	switch c.guard.IsSatisfied(box) {
	case ncsp.Empty:
		return ncsp.Inner
	case ncsp.Inner:
		return c.body.Contract(box, ctx)
	default:
		gp := c.guard.Contract(box, ctx)
		if box.IsEmpty() {
			return ncsp.Empty
		}
		bp := c.body.Contract(box, ctx)
		if bp == ncsp.Empty && gp == ncsp.Empty {
			return ncsp.Empty
		}
		if bp == ncsp.Inner {
			return ncsp.Inner
		}
		return ncsp.Maybe
	}
}

func (c *Conditional) String() string {
	return fmt.Sprintf("Conditional(%s => %s)", c.guard, c.body)
}
