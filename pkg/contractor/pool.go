package contractor

import (
	"fmt"
	"strings"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Pool applies a sequence of contractors in a fixed order (§4.5
// "composite contractors"), the deterministic-ordering sibling of
// Propagator.
type Pool struct {
	contractors []Contractor
	scope       *ncsp.Scope
}

// NewPool builds a Pool over cs, unioning their scopes.
func NewPool(cs ...Contractor) *Pool {
	scope := ncsp.NewScope()
	for _, c := range cs {
		scope = scope.Union(c.Scope())
	}
	return &Pool{contractors: cs, scope: scope}
}

func (p *Pool) Scope() *ncsp.Scope { return p.scope }

func (p *Pool) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	best := ncsp.Inner
	for _, c := range p.contractors {
		proof := c.Contract(box, ctx)
		if proof == ncsp.Empty {
			return ncsp.Empty
		}
		if proof < best {
			best = proof
		}
	}
	return best
}

func (p *Pool) String() string {
	names := make([]string, len(p.contractors))
	for i, c := range p.contractors {
		names[i] = c.String()
	}
	return fmt.Sprintf("Pool[%s]", strings.Join(names, ", "))
}
