package solver

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/problem"
	"github.com/paveproof/ncsp/pkg/search"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circleProblem(t *testing.T) *problem.Problem {
	t.Helper()
	p := problem.New("circle")
	x := p.Bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := p.Bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	p.Vars = []*ncsp.Variable{x, y}
	p.InitialBox = ncsp.NewIntervalBox(p.Scope(), []interval.Interval{interval.New(-2, 2), interval.New(-2, 2)})

	c, err := constraint.NewArithmetic(p.DAG(), term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y))), term.ConstF(1), constraint.Eq)
	require.NoError(t, err)
	p.AddConstraint(c)
	return p
}

func TestBuildParamsWiresDefaultSelectorAndSlicer(t *testing.T) {
	p := circleProblem(t)
	ps := problem.DefaultParamSet()

	params, err := BuildParams(p, ps)
	require.NoError(t, err)
	assert.Equal(t, "MaxDom", params.Selector.Name())
	assert.Equal(t, search.DFS, params.Policy)
	assert.Nil(t, params.Newton)
}

func TestBuildParamsWiresNewtonWhenRequested(t *testing.T) {
	p := circleProblem(t)
	ps := problem.DefaultParamSet()
	ps.PropagationWithNewton = "YES"

	params, err := BuildParams(p, ps)
	require.NoError(t, err)
	assert.NotNil(t, params.Newton)
}

func TestBuildParamsWiresSSRSelectorOverArithmeticSystem(t *testing.T) {
	p := circleProblem(t)
	ps := problem.DefaultParamSet()
	ps.SplitSelector = "SSR"

	params, err := BuildParams(p, ps)
	require.NoError(t, err)
	assert.Equal(t, "SSR", params.Selector.Name())
}

func TestBuildParamsTranslatesLimits(t *testing.T) {
	p := circleProblem(t)
	ps := problem.DefaultParamSet()
	ps.TimeLimitSec = 2
	ps.NodeLimit = 500

	params, err := BuildParams(p, ps)
	require.NoError(t, err)
	assert.Equal(t, 2e9, float64(params.Limits.MaxTime))
	assert.Equal(t, 500, params.Limits.MaxNodes)
}
