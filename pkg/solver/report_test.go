package solver

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/problem"
	"github.com/paveproof/ncsp/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestClassifySolutionStatusUnfeasibleWhenPreprocessInfeasible(t *testing.T) {
	pre := &PreprocessResult{Infeasible: true}
	res := &Result{}
	assert.Equal(t, "unfeasible", ClassifySolutionStatus(pre, res))
}

func TestClassifySolutionStatusNoSolutionWhenEmptySolutionList(t *testing.T) {
	res := &Result{}
	assert.Equal(t, "no-solution", ClassifySolutionStatus(nil, res))
}

func TestClassifySolutionStatusFeasibleWhenAnySolutionCertified(t *testing.T) {
	res := &Result{Solutions: []*search.Node{{Proof: ncsp.Feasible}}}
	assert.Equal(t, "feasible", ClassifySolutionStatus(nil, res))
}

func TestClassifySolutionStatusNoProofWhenOnlyMaybeSolutions(t *testing.T) {
	res := &Result{Solutions: []*search.Node{{Proof: ncsp.Maybe}}}
	assert.Equal(t, "no-proof", ClassifySolutionStatus(nil, res))
}

func TestExpandSolutionFillsFixedVariablesAsPoints(t *testing.T) {
	p := problem.New("p")
	x := p.Bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := p.Bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	p.Vars = []*ncsp.Variable{x, y}

	pre := &PreprocessResult{Fixed: map[*ncsp.Variable]float64{x: 5}}
	reducedBox := ncsp.NewIntervalBox(ncsp.NewScope(y), []interval.Interval{interval.New(1, 2)})

	full := ExpandSolution(p, pre, reducedBox)
	assert.True(t, full.At(0).IsPoint())
	assert.Equal(t, 5.0, full.At(0).Lo())
	assert.Equal(t, 1.0, full.At(1).Lo())
	assert.Equal(t, 2.0, full.At(1).Hi())
}
