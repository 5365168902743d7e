package verify

import (
	"context"
	"testing"

	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquareConstraint(t *testing.T) (*ncsp.Variable, *ncsp.Variable, constraint.Constraint) {
	t.Helper()
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()
	c, err := constraint.NewRange(d, term.Add(term.Var(x), term.Var(y)), 0, 2)
	require.NoError(t, err)
	return x, y, c
}

func TestVerifyReportsNoFailuresForATrulyContainedSolution(t *testing.T) {
	x, y, c := unitSquareConstraint(t)
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 0.5), interval.New(0, 0.5)})

	rep, err := Verify(context.Background(), []*ncsp.IntervalBox{box}, []constraint.Constraint{c}, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, rep.Sound())
	assert.Equal(t, 1, rep.SolutionsChecked)
}

func TestVerifyFlagsAnOverclaimedBox(t *testing.T) {
	x, y, c := unitSquareConstraint(t)
	scope := ncsp.NewScope(x, y)
	// x+y reaches up to 4 here, well outside [0,2]: sampled points must fail.
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 2), interval.New(0, 2)})

	rep, err := Verify(context.Background(), []*ncsp.IntervalBox{box}, []constraint.Constraint{c}, Options{Samples: 256, Epsilon: 1e-9, Seed: 7})
	require.NoError(t, err)
	assert.False(t, rep.Sound())
	assert.NotEmpty(t, rep.Failures)
}

func TestVerifyIsReproducibleForAFixedSeed(t *testing.T) {
	x, y, c := unitSquareConstraint(t)
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 2), interval.New(0, 2)})
	opts := Options{Samples: 32, Epsilon: 1e-9, Seed: 42}

	rep1, err := Verify(context.Background(), []*ncsp.IntervalBox{box}, []constraint.Constraint{c}, opts)
	require.NoError(t, err)
	rep2, err := Verify(context.Background(), []*ncsp.IntervalBox{box}, []constraint.Constraint{c}, opts)
	require.NoError(t, err)

	assert.Equal(t, len(rep1.Failures), len(rep2.Failures))
}
