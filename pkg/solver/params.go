// Package solver implements §4.6/§4.7: the Preprocessor and the
// branch-and-prune driver loop, composed over pkg/contractor, pkg/search
// and pkg/prover. Grounded on the Solver/StrategyConfig shape of
// `.seed/solver.go` and `.seed/strategy.go`, generalized from discrete
// backtracking to continuous branch-and-prune.
package solver

import (
	"time"

	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/ncsperr"
	"github.com/paveproof/ncsp/pkg/search"
)

// Limits bounds the search (§4.6's Limits paragraph); a zero field means
// "no limit" for that dimension.
type Limits struct {
	MaxTime      time.Duration
	MaxNodes     int
	MaxSolutions int
	MaxDepth     int
}

// Params configures one solve (§4.6/§4.7), grounded on
// `.seed/strategy.go`'s StrategyConfig composition-of-pluggable-strategies
// pattern.
type Params struct {
	Policy     search.Policy
	DMDFSDepth int
	Selector   search.Selector
	Slicer     search.Slicer
	Contractor contractor.Contractor

	// Certification (optional: nil Newton skips certification entirely,
	// leaving terminal MAYBE nodes as MAYBE).
	Newton             *contractor.IntervalNewton
	InflateDelta       float64
	InflateChi         float64
	NewtonMaxIter      int
	SolutionClusterGap float64

	Limits Limits
}

// DefaultParams returns a configuration with standard heuristics: MaxDom
// selection, bisection slicing, DFS traversal, no certification, no
// limits.
func DefaultParams(op contractor.Contractor) *Params {
	return &Params{
		Policy:             search.DFS,
		Selector:           search.MaxDom{},
		Slicer:             contractor.Bisection{},
		Contractor:         op,
		SolutionClusterGap: 1e-6,
	}
}

// Validate reports a configuration missing a required component.
func (p *Params) Validate() error {
	if p.Selector == nil {
		return ncsperr.NewConfigError("Selector", "cannot be nil")
	}
	if p.Slicer == nil {
		return ncsperr.NewConfigError("Slicer", "cannot be nil")
	}
	if p.Contractor == nil {
		return ncsperr.NewConfigError("Contractor", "cannot be nil")
	}
	if p.SolutionClusterGap < 0 {
		return ncsperr.NewConfigError("SolutionClusterGap", "must be non-negative")
	}
	return nil
}
