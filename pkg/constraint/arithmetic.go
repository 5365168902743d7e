package constraint

import (
	"fmt"
	"math"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
)

// Arithmetic is f rel g (§3: "Binary arithmetic: f=g, f≤g, f<g, f≥g, f>g"),
// represented internally as a single DagFun over f−g with an image interval
// chosen per relation, the standard reduction to one equation/inequality
// against a constant bound.
//
// Strict relations (<, >) are rounded to their non-strict closed-interval
// counterparts for contraction purposes — a closed interval cannot represent
// an open bound, so hc4Revise for Lt/Gt contracts exactly as Le/Ge; only
// IsSatisfied distinguishes strict satisfaction (it reports MAYBE rather
// than INNER when the image boundary is touched).
type Arithmetic struct {
	rel   Relation
	fun   *dag.DagFun
	scope *ncsp.Scope
}

// NewArithmetic inserts f−g into d and builds the DagFun with the image
// appropriate to rel.
func NewArithmetic(d *dag.DAG, f, g term.Term, rel Relation) (*Arithmetic, error) {
	diff := term.Sub(f, g)
	scope := diff.Scope()
	root := d.Insert(diff)

	var image interval.Interval
	switch rel {
	case Eq:
		image = interval.Point(0)
	case Le, Lt:
		image = interval.New(math.Inf(-1), 0)
	case Ge, Gt:
		image = interval.New(0, math.Inf(1))
	default:
		return nil, fmt.Errorf("constraint: unknown relation %v", rel)
	}

	return &Arithmetic{rel: rel, fun: dag.NewDagFun(d, root, image), scope: scope}, nil
}

func (a *Arithmetic) Scope() *ncsp.Scope { return a.scope }

// Fun exposes the underlying DagFun so callers that need a system of
// equations directly — the multivariate Newton contractor and the SSR/ASR
// selectors (§4.5/§4.6) — can assemble a contractor.System from a
// problem's Arithmetic constraints without re-deriving f−g themselves.
func (a *Arithmetic) Fun() *dag.DagFun { return a.fun }

func (a *Arithmetic) IsSatisfied(box *ncsp.IntervalBox) ncsp.Proof {
	v := a.fun.IntervalEval(box)
	if v.IsEmpty() {
		return ncsp.Empty
	}
	if v.IsDisjoint(a.fun.Image) {
		return ncsp.Empty
	}
	if a.fun.Image.ContainsInterval(v) {
		if (a.rel == Lt || a.rel == Gt) && boundaryTouches(a.rel, v) {
			return ncsp.Maybe
		}
		return ncsp.Inner
	}
	return ncsp.Maybe
}

// boundaryTouches reports whether v reaches the excluded strict boundary
// (0 for Lt/Gt), which keeps strict relations from over-claiming INNER.
func boundaryTouches(rel Relation, v interval.Interval) bool {
	switch rel {
	case Lt:
		return v.Hi() >= 0
	case Gt:
		return v.Lo() <= 0
	default:
		return false
	}
}

// Violation is the one-sided distance from the evaluated image to the
// admissible set (§4.4), zero on MAYBE/INNER.
func (a *Arithmetic) Violation(box *ncsp.IntervalBox) float64 {
	v := a.fun.IntervalEval(box)
	if v.IsEmpty() {
		return math.Inf(1)
	}
	switch a.rel {
	case Eq:
		if v.Contains(0) {
			return 0
		}
		if v.Hi() < 0 {
			return -v.Hi()
		}
		return v.Lo()
	case Le, Lt:
		if v.Lo() <= 0 {
			return 0
		}
		return v.Lo()
	default: // Ge, Gt
		if v.Hi() >= 0 {
			return 0
		}
		return -v.Hi()
	}
}

func (a *Arithmetic) Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof {
	return a.fun.HC4Revise(box, ctx)
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("Arithmetic(%s 0, image=%s)", a.rel, a.fun.Image)
}
