package solver

import (
	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/problem"
)

// PreprocessResult is what the Preprocessor hands to the driver (§4.7): the
// reduced problem restricted to the residual (non-fixed) scope, the fixed
// values to reintroduce in the output, and whether root propagation already
// proved infeasibility.
type PreprocessResult struct {
	Reduced         *problem.Problem
	Fixed           map[*ncsp.Variable]float64
	Infeasible      bool
	RootProof       ncsp.Proof
	DroppedInactive int
}

// Preprocess runs §4.7's four steps: propagate op to fixpoint on p's
// initial box, detect singleton (now-fixed) variables, drop constraints
// whose root evaluation is already INNER, and report infeasibility.
func Preprocess(p *problem.Problem, op contractor.Contractor, fixedTol float64) *PreprocessResult {
	box := p.InitialBox.Clone()
	ctx := dag.NewDagContext()
	proof := op.Contract(box, ctx)

	res := &PreprocessResult{Fixed: map[*ncsp.Variable]float64{}, RootProof: proof}
	if proof == ncsp.Empty || box.IsEmpty() {
		res.Infeasible = true
		return res
	}

	residualVars := make([]*ncsp.Variable, 0, len(p.Vars))
	residualIvals := make([]interval.Interval, 0, len(p.Vars))
	for i, v := range p.Vars {
		iv := box.At(i)
		if iv.Width() <= fixedTol {
			res.Fixed[v] = iv.Mid()
			continue
		}
		residualVars = append(residualVars, v)
		residualIvals = append(residualIvals, iv)
	}

	reduced := problem.New(p.Name)
	reduced.Bank = p.Bank
	reduced.Vars = residualVars
	reduced.InitialBox = ncsp.NewIntervalBox(reduced.Scope(), residualIvals)

	for _, c := range p.Constraints {
		if c.IsSatisfied(box) == ncsp.Inner {
			res.DroppedInactive++
			continue
		}
		reduced.AddConstraint(c)
	}

	res.Reduced = reduced
	return res
}
