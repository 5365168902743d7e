package prover

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/search"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
)

func TestCertifyUpgradesMaybeToFeasibleNearRoot(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)

	d1 := dag.NewDAG()
	r1 := d1.Insert(term.Sub(term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y))), term.ConstF(1)))
	f1 := dag.NewDagFun(d1, r1, interval.Point(0))

	d2 := dag.NewDAG()
	r2 := d2.Insert(term.Sub(term.Var(x), term.Var(y)))
	f2 := dag.NewDagFun(d2, r2, interval.Point(0))

	sys := &contractor.System{Funs: []*dag.DagFun{f1, f2}, Vars: []*ncsp.Variable{x, y}}
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{
		interval.New(0.6, 0.8),
		interval.New(0.6, 0.8),
	})
	n := &search.Node{ID: 0, Box: box, Ctx: dag.NewDagContext(), Proof: ncsp.Maybe}

	c := NewCertifier(sys, 1e-10, 1e-10, 1e-10, 0.01, 1.1, 20)
	proof := c.Certify(n)
	assert.Equal(t, ncsp.Feasible, proof)
	assert.Equal(t, ncsp.Feasible, n.Proof)
}

func TestCertifyLeavesInnerNodeUntouched(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()
	r := d.Insert(term.Var(x))
	f := dag.NewDagFun(d, r, interval.New(-100, 100))
	sys := &contractor.System{Funs: []*dag.DagFun{f}, Vars: []*ncsp.Variable{x}}

	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 1)})
	n := &search.Node{ID: 0, Box: box, Ctx: dag.NewDagContext(), Proof: ncsp.Inner}

	c := NewCertifier(sys, 1e-10, 1e-10, 1e-10, 0.01, 1.1, 20)
	proof := c.Certify(n)
	assert.Equal(t, ncsp.Inner, proof)
}
