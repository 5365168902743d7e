package constraint

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupXY() (*ncsp.Variable, *ncsp.Variable) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	return x, y
}

func TestArithmeticEqContractsCircle(t *testing.T) {
	x, y := setupXY()
	d := dag.NewDAG()
	lhs := term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y)))
	c, err := NewArithmetic(d, lhs, term.ConstF(1), Eq)
	require.NoError(t, err)

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(-2, 2), interval.New(-2, 2)})
	ctx := dag.NewDagContext()

	proof := c.Contract(box, ctx)
	assert.Equal(t, ncsp.Maybe, proof)
	assert.InDelta(t, -1, box.Get(x).Lo(), 1e-9)
	assert.InDelta(t, 1, box.Get(x).Hi(), 1e-9)
}

func TestArithmeticLeViolation(t *testing.T) {
	x, _ := setupXY()
	d := dag.NewDAG()
	c, err := NewArithmetic(d, term.Var(x), term.ConstF(0), Le)
	require.NoError(t, err)

	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.Point(5)})
	// x evaluates through a Lin node: the 1·x product and the +0 sum each
	// round the lower bound down one ULP.
	assert.Equal(t, interval.RoundDown(interval.RoundDown(5)), c.Violation(box))

	box2 := ncsp.NewIntervalBox(scope, []interval.Interval{interval.Point(-5)})
	assert.Equal(t, 0.0, c.Violation(box2))
}

func TestRangeInnerWhenFullyContained(t *testing.T) {
	x, _ := setupXY()
	d := dag.NewDAG()
	r, err := NewRange(d, term.Var(x), 0, 10)
	require.NoError(t, err)

	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(2, 3)})
	assert.Equal(t, ncsp.Inner, r.IsSatisfied(box))
}

func TestTableDropsIncompatibleRowsAndNarrows(t *testing.T) {
	x, y := setupXY()
	rows := [][]interval.Interval{
		{interval.Point(1), interval.Point(1)},
		{interval.Point(2), interval.Point(3)},
	}
	tbl, err := NewTable([]*ncsp.Variable{x, y}, rows)
	require.NoError(t, err)

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(1.5, 2.5), interval.New(0, 5)})
	ctx := dag.NewDagContext()
	proof := tbl.Contract(box, ctx)
	assert.Equal(t, ncsp.Inner, proof)
	assert.True(t, box.Get(x).Equal(interval.Point(2)))
	assert.True(t, box.Get(y).Equal(interval.Point(3)))
}

func TestTableEmptyWhenNoRowCompatible(t *testing.T) {
	x, y := setupXY()
	rows := [][]interval.Interval{{interval.Point(1), interval.Point(1)}}
	tbl, err := NewTable([]*ncsp.Variable{x, y}, rows)
	require.NoError(t, err)

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.Point(9), interval.Point(9)})
	ctx := dag.NewDagContext()
	assert.Equal(t, ncsp.Empty, tbl.Contract(box, ctx))
}

func TestConditionalVacuousWhenGuardEmpty(t *testing.T) {
	x, _ := setupXY()
	d := dag.NewDAG()
	guard, err := NewArithmetic(d, term.Var(x), term.ConstF(0), Lt)
	require.NoError(t, err)
	body, err := NewRange(d, term.Var(x), 100, 200)
	require.NoError(t, err)
	cond := NewConditional(guard, body)

	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(1, 2)})
	ctx := dag.NewDagContext()
	proof := cond.Contract(box, ctx)
	assert.Equal(t, ncsp.Inner, proof)
	// guard certainly false (x in [1,2] is never < 0) so body must not
	// have narrowed box.
	assert.True(t, box.Get(x).Equal(interval.New(1, 2)))
}
