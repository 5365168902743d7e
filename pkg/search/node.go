package search

import (
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Node is one search-tree vertex (§4.6): an id, depth, an owned box and
// DagContext snapshot, a proof certificate (initially MAYBE), and the
// parent id plus the split that produced it.
type Node struct {
	ID         int
	Depth      int
	Box        *ncsp.IntervalBox
	Ctx        *dag.DagContext
	Proof      ncsp.Proof
	ParentID   int
	SplitVar   *ncsp.Variable
	SplitSlice interval.Interval
}

// Child derives a new pending node narrowing v to slice, one depth deeper,
// owning a cloned box and a context child overlay (§9's copy-on-write
// design note, mirrored from `.seed/solver.go`'s SolverState chain).
func (n *Node) Child(id int, v *ncsp.Variable, slice interval.Interval) *Node {
	box := n.Box.Clone()
	box.Narrow(v, slice)
	return &Node{
		ID:         id,
		Depth:      n.Depth + 1,
		Box:        box,
		Ctx:        n.Ctx.Child(),
		Proof:      ncsp.Maybe,
		ParentID:   n.ID,
		SplitVar:   v,
		SplitSlice: slice,
	}
}
