package solver

import (
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/problem"
)

// ClassifySolutionStatus names the per-run solution status of §6's stdout
// report (feasible/unfeasible/no-proof/no-solution) — distinct from
// Status, which tracks whether the search tree was fully explored.
func ClassifySolutionStatus(pre *PreprocessResult, res *Result) string {
	if pre != nil && pre.Infeasible {
		return "unfeasible"
	}
	if len(res.Solutions) == 0 {
		return "no-solution"
	}
	for _, n := range res.Solutions {
		if n.Proof == ncsp.Feasible || n.Proof == ncsp.Inner {
			return "feasible"
		}
	}
	return "no-proof"
}

// ExpandSolution lifts a box reported over a preprocessed (reduced)
// problem's scope back to the original problem's full scope, filling in
// every variable Preprocess fixed to a point value. Variables are matched
// by identity: Preprocess keeps the same *ncsp.Variable pointers in its
// reduced problem, so this never needs name-based lookup.
func ExpandSolution(original *problem.Problem, pre *PreprocessResult, reducedBox *ncsp.IntervalBox) *ncsp.IntervalBox {
	scope := original.Scope()
	reducedScope := reducedBox.Scope()
	ivals := make([]interval.Interval, scope.Len())
	for i := 0; i < scope.Len(); i++ {
		v := scope.At(i)
		if val, ok := pre.Fixed[v]; ok {
			ivals[i] = interval.Point(val)
			continue
		}
		ivals[i] = reducedBox.At(reducedScope.IndexOf(v))
	}
	return ncsp.NewIntervalBox(scope, ivals)
}
