package contractor

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/lp"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolytopeRLTKeepsSolutionsOfSumConstraint(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()
	root := d.Insert(term.Add(term.Var(x), term.Var(y)))
	f := dag.NewDagFun(d, root, interval.New(8, 10))

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 10), interval.New(0, 10)})
	ctx := dag.NewDagContext()

	c := NewContractorPolytope(d, []*dag.DagFun{f}, []*ncsp.Variable{x, y}, RLT, lp.NewDenseSimplex(), 1e-9)
	proof := c.Contract(box, ctx)
	require.NotEqual(t, ncsp.Empty, proof)
	// x+y>=8 with y<=10 forces x>=-2 (no-op here); x+y<=10 with y>=0 keeps x<=10.
	assert.True(t, box.Get(x).Lo() >= -1e-6)
}

func TestPolytopeRLTDetectsEmptySumRange(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()
	root := d.Insert(term.Add(term.Var(x), term.Var(y)))
	f := dag.NewDagFun(d, root, interval.New(100, 200))

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 1), interval.New(0, 1)})
	ctx := dag.NewDagContext()

	c := NewContractorPolytope(d, []*dag.DagFun{f}, []*ncsp.Variable{x, y}, RLT, lp.NewDenseSimplex(), 1e-9)
	proof := c.Contract(box, ctx)
	assert.Equal(t, ncsp.Empty, proof)
}
