package solver

import (
	"time"

	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/prover"
	"github.com/paveproof/ncsp/pkg/search"
)

// Status is the solving status of §7 (distinct from each solution's own
// proof/solution status): whether the search tree was fully explored.
type Status int

const (
	Complete Status = iota
	Partial
	Aborted
)

func (s Status) String() string {
	switch s {
	case Partial:
		return "partial"
	case Aborted:
		return "aborted"
	default:
		return "complete"
	}
}

// Result is the driver's outcome: the clustered solution list, the status
// and which limit (if any) triggered it, the node count, and — on partial
// termination — the pending-node hull (§4.6 Limits paragraph).
type Result struct {
	Solutions    []*search.Node
	Status       Status
	LimitHit     string
	Nodes        int
	PendingHull  *ncsp.IntervalBox
	PendingCount int
}

// Solve runs the branch-and-prune loop of §4.6 over the initial box,
// driven by params. Grounded on .seed/solver.go's Solve()/search() shape,
// generalized from discrete backtracking to continuous interval splitting.
func Solve(initial *ncsp.IntervalBox, p *Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	space := search.NewSpace(p.Policy, p.DMDFSDepth)
	root := space.NewRoot(initial)
	space.Push(root)

	var deadline time.Time
	if p.Limits.MaxTime > 0 {
		deadline = time.Now().Add(p.Limits.MaxTime)
	}

	nodes := 0
	limitHit := ""

	for space.Len() > 0 {
		if p.Limits.MaxNodes > 0 && nodes >= p.Limits.MaxNodes {
			limitHit = "NODE_LIMIT"
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			limitHit = "TIME_LIMIT"
			break
		}
		if p.Limits.MaxSolutions > 0 && len(space.Solutions()) >= p.Limits.MaxSolutions {
			limitHit = "SOLUTION_LIMIT"
			break
		}

		node, ok := space.Pop()
		if !ok {
			break
		}
		nodes++

		proof := p.Contractor.Contract(node.Box, node.Ctx)
		node.Proof = proof
		if proof == ncsp.Empty {
			continue
		}

		if canonical(node.Box) {
			space.AddSolution(node)
			continue
		}
		if proof == ncsp.Inner {
			space.AddSolution(node)
			continue
		}

		v, ok := p.Selector.Select(node.Box)
		if !ok {
			if p.Newton != nil {
				node.Proof = p.Newton.Certify(node.Box, p.InflateDelta, p.InflateChi, p.NewtonMaxIter)
			}
			space.AddSolution(node)
			continue
		}

		if p.Limits.MaxDepth > 0 && node.Depth >= p.Limits.MaxDepth {
			space.AddSolution(node)
			continue
		}

		for _, slice := range p.Slicer.Slice(node.Box.Get(v)) {
			child := node.Child(space.AllocID(), v, slice)
			if child.Box.IsEmpty() {
				continue
			}
			space.Push(child)
		}
	}

	status := Complete
	if limitHit != "" {
		status = Partial
	}

	solutions := prover.Cluster(space.Solutions(), p.SolutionClusterGap)

	res := &Result{
		Solutions:    solutions,
		Status:       status,
		LimitHit:     limitHit,
		Nodes:        nodes,
		PendingCount: space.Len(),
	}
	if status == Partial {
		res.PendingHull = space.PendingHull()
	}
	return res, nil
}

// canonical reports whether every coordinate of box satisfies its
// variable's tolerance (§4.6's box_is_canonical_or_tolerance check).
func canonical(box *ncsp.IntervalBox) bool {
	scope := box.Scope()
	for i := 0; i < scope.Len(); i++ {
		v := scope.At(i)
		iv := box.At(i)
		if !v.Tolerance().Satisfied(iv.Width(), iv.Mid()) {
			return false
		}
	}
	return true
}
