package solver

import (
	"time"

	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/lp"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/problem"
	"github.com/paveproof/ncsp/pkg/search"
)

// funProvider is satisfied by the constraint kinds that expose their
// underlying DagFun directly (currently only constraint.Arithmetic). It
// lets BuildParams assemble a contractor.System — needed by the
// multivariate Newton certifier and the SSR/ASR selectors (§4.5/§4.6) —
// from a problem's constraint list without re-deriving each one's f−g.
type funProvider interface {
	Fun() *dag.DagFun
}

// BuildParams wires a parsed ParamSet (§6) into a Params ready for Solve,
// over p's constraint set. Grounded on .seed/strategy.go's
// StrategyConfig/registry pattern, generalized from discrete
// labeling/search strategies to the continuous contractor/selector/slicer
// trio.
func BuildParams(p *problem.Problem, ps *problem.ParamSet) (*Params, error) {
	base := make([]contractor.Contractor, 0, len(p.Constraints))
	for _, c := range p.Constraints {
		base = append(base, contractor.NewHC4(c))
	}
	prop := contractor.NewPropagator(ps.LoopContractorTol, base...)
	var op contractor.Contractor = contractor.NewLoop(prop, ps.LoopContractorTol, ps.PropagationIterLimit)

	if ps.PropagationWithPolytope == "RLT" || ps.PropagationWithPolytope == "TAYLOR" {
		if funs, vars, ok := assembleSystem(p); ok {
			style := contractor.RLT
			if ps.PropagationWithPolytope == "TAYLOR" {
				style = contractor.Taylor
			}
			poly := contractor.NewContractorPolytope(p.DAG(), funs, vars, style, lp.NewDenseSimplex(), ps.RelaxationEqTol)
			op = contractor.NewPool(op, poly)
		}
	}

	params := DefaultParams(op)
	params.Selector = buildSelector(p, ps)
	params.Slicer = buildSlicer(ps)
	params.Policy = buildPolicy(ps)
	params.SolutionClusterGap = ps.SolutionClusterGap

	if ps.PropagationWithNewton == "YES" {
		if funs, vars, ok := assembleSystem(p); ok {
			sys := &contractor.System{Funs: funs, Vars: vars}
			params.Newton = contractor.NewIntervalNewton(sys, ps.NewtonRelTol, ps.GaussSeidelDTol, ps.GaussianMinPivot, ps.NewtonCertifyIterLimit)
			params.InflateDelta = ps.InflationDelta
			params.InflateChi = ps.InflationChi
			params.NewtonMaxIter = ps.NewtonCertifyIterLimit
		}
	}

	params.Limits = Limits{
		MaxTime:      time.Duration(ps.TimeLimitSec * float64(time.Second)),
		MaxNodes:     ps.NodeLimit,
		MaxSolutions: ps.SolutionLimit,
		MaxDepth:     ps.DepthLimit,
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func buildSelector(p *problem.Problem, ps *problem.ParamSet) search.Selector {
	if sel, ok := search.SelectorRegistry[ps.SplitSelector]; ok {
		return sel()
	}
	if funs, vars, ok := assembleSystem(p); ok {
		sys := &contractor.System{Funs: funs, Vars: vars}
		switch ps.SplitSelector {
		case "SSR":
			return search.SSR{Sys: sys}
		case "ASR":
			return search.ASR{Sys: sys}
		}
	}
	return search.MaxDom{}
}

func buildSlicer(ps *problem.ParamSet) search.Slicer {
	switch ps.SplitSlicer {
	case "PEELING":
		return search.NewPeeling(ps.BC3PeelFactor)
	case "PARTITION":
		return search.NewPartition(3)
	default:
		return contractor.Bisection{}
	}
}

func buildPolicy(ps *problem.ParamSet) search.Policy {
	switch ps.BPNodeSelection {
	case "BFS":
		return search.BFS
	case "DMDFS":
		return search.DMDFS
	default:
		return search.DFS
	}
}

// assembleSystem builds a contractor.System over every one of p's
// constraints, succeeding only when all of them are Arithmetic (or another
// funProvider) — Table and Conditional constraints carry no DagFun, so a
// problem mixing those opts out of Newton/SSR/ASR and falls back silently
// to MaxDom / no certification.
func assembleSystem(p *problem.Problem) ([]*dag.DagFun, []*ncsp.Variable, bool) {
	funs := make([]*dag.DagFun, 0, len(p.Constraints))
	for _, c := range p.Constraints {
		fp, ok := c.(funProvider)
		if !ok {
			return nil, nil, false
		}
		funs = append(funs, fp.Fun())
	}
	return funs, p.Vars, true
}
