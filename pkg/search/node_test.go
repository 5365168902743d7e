package search

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildNarrowsOwnBoxAndLeavesParentUntouched(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 10)})

	root := &Node{ID: 0, Depth: 0, Box: box, Ctx: dag.NewDagContext(), Proof: ncsp.Maybe, ParentID: -1}
	left := root.Child(1, x, interval.New(0, 5))

	assert.Equal(t, interval.New(0, 10), root.Box.Get(x))
	assert.Equal(t, interval.New(0, 5), left.Box.Get(x))
	assert.Equal(t, 1, left.Depth)
	assert.Equal(t, 0, left.ParentID)
	require.NotSame(t, root.Ctx, left.Ctx)
}
