package search

import "github.com/paveproof/ncsp/pkg/contractor"

// Slicer is pkg/contractor's Slicer, re-exported so search call sites don't
// need to import pkg/contractor directly for the common case.
type Slicer = contractor.Slicer

// SlicerRegistry resolves a Slicer by name (§4.6), grounded on
// `.seed/strategy.go`'s StrategyConfig registry pattern.
var SlicerRegistry = map[string]func() Slicer{
	"Bisection": func() Slicer { return contractor.Bisection{} },
}

// NewPeeling and NewPartition are constructors for the parameterized
// slicers (Peeling needs a factor, Partition needs a count), kept separate
// from the no-argument SlicerRegistry entries.
func NewPeeling(factor float64) Slicer { return contractor.Peeling{Factor: factor} }
func NewPartition(n int) Slicer        { return contractor.Partition{N: n} }
