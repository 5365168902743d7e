package prover

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solutionNode(id int, lo, hi float64, proof ncsp.Proof, scope *ncsp.Scope) *search.Node {
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(lo, hi)})
	return &search.Node{ID: id, Box: box, Ctx: dag.NewDagContext(), Proof: proof}
}

func TestClusterMergesNearbySolutions(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x)

	a := solutionNode(0, 0.0, 0.1, ncsp.Feasible, scope)
	b := solutionNode(1, 0.1001, 0.2, ncsp.Feasible, scope)

	merged := Cluster([]*search.Node{a, b}, 1e-3)
	require.Len(t, merged, 1)
	assert.Equal(t, interval.New(0, 0.2), merged[0].Box.At(0))
}

func TestClusterKeepsFarApartSolutionsSeparate(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x)

	a := solutionNode(0, 0, 0.1, ncsp.Feasible, scope)
	b := solutionNode(1, 10, 10.1, ncsp.Feasible, scope)

	merged := Cluster([]*search.Node{a, b}, 1e-3)
	assert.Len(t, merged, 2)
}

func TestClusterPrefersStrongerProof(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x)

	a := solutionNode(0, 0, 0.1, ncsp.Maybe, scope)
	b := solutionNode(1, 0.1, 0.2, ncsp.Inner, scope)

	merged := Cluster([]*search.Node{a, b}, 1e-3)
	require.Len(t, merged, 1)
	assert.Equal(t, ncsp.Inner, merged[0].Proof)
}
