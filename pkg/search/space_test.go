package search

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxWith(bank *ncsp.Bank, lo, hi float64) (*ncsp.Variable, *ncsp.IntervalBox) {
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x)
	return x, ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(lo, hi)})
}

func TestSpaceDFSPopsMostRecentlyPushed(t *testing.T) {
	bank := ncsp.NewBank()
	s := NewSpace(DFS, 0)
	_, box := boxWith(bank, 0, 1)
	root := s.NewRoot(box)
	a := root.Child(s.AllocID(), box.Scope().At(0), interval.New(0, 0.5))
	b := root.Child(s.AllocID(), box.Scope().At(0), interval.New(0.5, 1))
	s.Push(a)
	s.Push(b)

	n, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, b.ID, n.ID)
}

func TestSpaceBFSPopsInFIFOOrder(t *testing.T) {
	bank := ncsp.NewBank()
	s := NewSpace(BFS, 0)
	_, box := boxWith(bank, 0, 1)
	root := s.NewRoot(box)
	a := root.Child(s.AllocID(), box.Scope().At(0), interval.New(0, 0.5))
	b := root.Child(s.AllocID(), box.Scope().At(0), interval.New(0.5, 1))
	s.Push(a)
	s.Push(b)

	n, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, a.ID, n.ID)
}

func TestSpacePopOnEmptyReturnsFalse(t *testing.T) {
	s := NewSpace(DFS, 0)
	_, ok := s.Pop()
	assert.False(t, ok)
}

func TestPendingHullCoversAllPendingBoxes(t *testing.T) {
	bank := ncsp.NewBank()
	s := NewSpace(DFS, 0)
	_, box := boxWith(bank, 0, 1)
	root := s.NewRoot(box)
	a := root.Child(s.AllocID(), box.Scope().At(0), interval.New(0, 0.3))
	b := root.Child(s.AllocID(), box.Scope().At(0), interval.New(0.7, 1))
	s.Push(a)
	s.Push(b)

	hull := s.PendingHull()
	require.NotNil(t, hull)
	assert.Equal(t, interval.New(0, 1), hull.At(0))
}

func TestAddSolutionAccumulates(t *testing.T) {
	bank := ncsp.NewBank()
	s := NewSpace(DFS, 0)
	_, box := boxWith(bank, 0, 1)
	root := s.NewRoot(box)
	s.AddSolution(root)
	assert.Len(t, s.Solutions(), 1)
}
