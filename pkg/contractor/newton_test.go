package contractor

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// System: x^2 + y^2 - 1 = 0, x - y = 0 -> roots at (±√2/2, ±√2/2).
func setupCircleDiagonalSystem() (*ncsp.Variable, *ncsp.Variable, *System) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()

	f1root := d.Insert(term.Sub(term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y))), term.ConstF(1)))
	f1 := dag.NewDagFun(d, f1root, interval.Point(0))

	f2root := d.Insert(term.Sub(term.Var(x), term.Var(y)))
	f2 := dag.NewDagFun(d, f2root, interval.Point(0))

	sys := &System{Funs: []*dag.DagFun{f1, f2}, Vars: []*ncsp.Variable{x, y}}
	return x, y, sys
}

func TestIntervalNewtonNarrowsTowardDiagonalRoot(t *testing.T) {
	x, y, sys := setupCircleDiagonalSystem()
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0.5, 0.9), interval.New(0.5, 0.9)})
	ctx := dag.NewDagContext()

	newton := NewIntervalNewton(sys, 1e-10, 1e-10, 1e-10, 30)
	proof := newton.Contract(box, ctx)
	require.NotEqual(t, ncsp.Empty, proof)
	assert.True(t, box.Get(x).Contains(0.7071067811865476) || box.Get(x).Width() < 0.4)
}

func TestIntervalNewtonEmptyWhenNoRootInBox(t *testing.T) {
	x, y, sys := setupCircleDiagonalSystem()
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(5, 6), interval.New(5, 6)})
	ctx := dag.NewDagContext()

	newton := NewIntervalNewton(sys, 1e-10, 1e-10, 1e-10, 30)
	proof := newton.Contract(box, ctx)
	assert.Equal(t, ncsp.Empty, proof)
}

func TestIntervalGaussSeidelSolvesDiagonalSystem(t *testing.T) {
	A := [][]interval.Interval{
		{interval.Point(2), interval.Point(0)},
		{interval.Point(0), interval.Point(4)},
	}
	b := []interval.Interval{interval.Point(4), interval.Point(8)}
	x := []interval.Interval{interval.New(-10, 10), interval.New(-10, 10)}

	proof := IntervalGaussSeidel(A, b, x, 1e-9, 1e-12, 20)
	assert.NotEqual(t, ncsp.Empty, proof)
	assert.InDelta(t, 2, x[0].Mid(), 1e-6)
	assert.InDelta(t, 2, x[1].Mid(), 1e-6)
}
