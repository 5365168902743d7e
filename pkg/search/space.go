package search

import (
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Policy is the pending-node insertion/removal discipline (§4.6).
type Policy int

const (
	DFS Policy = iota
	BFS
	DMDFS
)

func (p Policy) String() string {
	switch p {
	case BFS:
		return "BFS"
	case DMDFS:
		return "DMDFS"
	default:
		return "DFS"
	}
}

// Space is the branch-and-prune frontier: a pending-node queue under one
// Policy, plus the accumulated solution-node list (§4.6). Grounded on
// `.seed/search.go`'s stack-based DFS loop, generalized to the three named
// policies.
type Space struct {
	policy     Policy
	dmdfsDepth int
	pending    []*Node
	solutions  []*Node
	nextID     int
}

// NewSpace builds an empty Space. dmdfsDepth is only consulted for DMDFS.
func NewSpace(policy Policy, dmdfsDepth int) *Space {
	return &Space{policy: policy, dmdfsDepth: dmdfsDepth}
}

// NewRoot allocates node 0 over box with a fresh DagContext.
func (s *Space) NewRoot(box *ncsp.IntervalBox) *Node {
	id := s.AllocID()
	return &Node{ID: id, Depth: 0, Box: box, Ctx: dag.NewDagContext(), Proof: ncsp.Maybe, ParentID: -1}
}

func (s *Space) AllocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// Push enqueues n for future popping.
func (s *Space) Push(n *Node) { s.pending = append(s.pending, n) }

// Pop removes and returns the next node per policy; false if empty.
func (s *Space) Pop() (*Node, bool) {
	if len(s.pending) == 0 {
		return nil, false
	}
	switch s.policy {
	case BFS:
		n := s.pending[0]
		s.pending = s.pending[1:]
		return n, true
	case DMDFS:
		for i := len(s.pending) - 1; i >= 0; i-- {
			if s.pending[i].Depth < s.dmdfsDepth {
				n := s.pending[i]
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				return n, true
			}
		}
		bestIdx := 0
		bestWidth := totalWidth(s.pending[0])
		for i := 1; i < len(s.pending); i++ {
			if w := totalWidth(s.pending[i]); w > bestWidth {
				bestWidth, bestIdx = w, i
			}
		}
		n := s.pending[bestIdx]
		s.pending = append(s.pending[:bestIdx], s.pending[bestIdx+1:]...)
		return n, true
	default:
		n := s.pending[len(s.pending)-1]
		s.pending = s.pending[:len(s.pending)-1]
		return n, true
	}
}

func totalWidth(n *Node) float64 {
	total := 0.0
	for i := 0; i < n.Box.Scope().Len(); i++ {
		total += n.Box.At(i).Width()
	}
	return total
}

func (s *Space) Len() int { return len(s.pending) }

// AddSolution records a terminal node (§4.6: proof ∈ {INNER, FEASIBLE,
// MAYBE-with-width-under-tolerance}).
func (s *Space) AddSolution(n *Node) { s.solutions = append(s.solutions, n) }

func (s *Space) Solutions() []*Node { return s.solutions }

func (s *Space) Pending() []*Node { return s.pending }

// PendingHull returns the per-variable hull of every still-pending box,
// exposed on partial termination (§4.6 Limits).
func (s *Space) PendingHull() *ncsp.IntervalBox {
	if len(s.pending) == 0 {
		return nil
	}
	scope := s.pending[0].Box.Scope()
	ivals := make([]interval.Interval, scope.Len())
	for i := range ivals {
		ivals[i] = s.pending[0].Box.At(i)
	}
	for _, n := range s.pending[1:] {
		for i := 0; i < scope.Len(); i++ {
			ivals[i] = ivals[i].Hull(n.Box.At(i))
		}
	}
	return ncsp.NewIntervalBox(scope, ivals)
}
