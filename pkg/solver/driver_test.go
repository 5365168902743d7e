package solver

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circleXYProblem(tol ncsp.Tolerance) (*ncsp.Variable, *ncsp.Variable, contractor.Contractor, *ncsp.IntervalBox) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, tol)
	y := bank.NewVariable("y", ncsp.Real, tol)

	d := dag.NewDAG()
	c, err := constraint.NewArithmetic(d, term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y))), term.ConstF(1), constraint.Eq)
	if err != nil {
		panic(err)
	}

	op := contractor.NewHC4(c)
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{
		interval.New(-2, 2),
		interval.New(-2, 2),
	})
	return x, y, op, box
}

func TestSolveFindsEnclosuresOnUnitCircle(t *testing.T) {
	tol := ncsp.Tolerance{Value: 0.05, Relative: false}
	_, _, op, box := circleXYProblem(tol)

	params := DefaultParams(op)
	res, err := Solve(box, params)
	require.NoError(t, err)
	assert.Equal(t, Complete, res.Status)
	assert.NotEmpty(t, res.Solutions)
	for _, n := range res.Solutions {
		assert.NotEqual(t, ncsp.Empty, n.Proof)
	}
}

func TestSolveRespectsNodeLimit(t *testing.T) {
	tol := ncsp.Tolerance{Value: 1e-6, Relative: false}
	_, _, op, box := circleXYProblem(tol)

	params := DefaultParams(op)
	params.Limits.MaxNodes = 3
	res, err := Solve(box, params)
	require.NoError(t, err)
	assert.Equal(t, Partial, res.Status)
	assert.Equal(t, "NODE_LIMIT", res.LimitHit)
	assert.LessOrEqual(t, res.Nodes, 4)
}

func TestSolveReportsEmptyWhenBoxDisjointFromConstraint(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()
	c, err := constraint.NewArithmetic(d, term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y))), term.ConstF(1), constraint.Eq)
	require.NoError(t, err)

	op := contractor.NewHC4(c)
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{
		interval.New(10, 20),
		interval.New(10, 20),
	})

	params := DefaultParams(op)
	res, err := Solve(box, params)
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)
	assert.Equal(t, Complete, res.Status)
}

func TestCanonicalTrueWhenEveryCoordinateWithinTolerance(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.Tolerance{Value: 1, Relative: false})
	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 0.5)})
	assert.True(t, canonical(box))
}
