package prover

import (
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/search"
)

// Cluster merges solution nodes whose boxes' hull-gap is ≤ gap on every
// coordinate (§4.6's Certification paragraph). Merging keeps the node with
// the stronger proof (Inner > Feasible > Maybe) and replaces its box with
// the hull of every member, so a cluster's reported enclosure covers all of
// its merged solutions.
func Cluster(solutions []*search.Node, gap float64) []*search.Node {
	merged := make([]*search.Node, 0, len(solutions))
	for _, n := range solutions {
		placed := false
		for _, m := range merged {
			if withinGap(m.Box, n.Box, gap) {
				m.Box = m.Box.Clone()
				hullInto(m.Box, n.Box)
				if n.Proof > m.Proof {
					m.Proof = n.Proof
				}
				placed = true
				break
			}
		}
		if !placed {
			merged = append(merged, n)
		}
	}
	return merged
}

func withinGap(a, b *ncsp.IntervalBox, gap float64) bool {
	scope := a.Scope()
	if scope.Len() != b.Scope().Len() {
		return false
	}
	for i := 0; i < scope.Len(); i++ {
		ai, bi := a.At(i), b.At(i)
		d := gapBetween(ai.Lo(), ai.Hi(), bi.Lo(), bi.Hi())
		if d > gap {
			return false
		}
	}
	return true
}

// gapBetween returns the separation between two 1-D intervals: 0 when they
// overlap, else the distance between the nearer endpoints.
func gapBetween(aLo, aHi, bLo, bHi float64) float64 {
	if aHi < bLo {
		return bLo - aHi
	}
	if bHi < aLo {
		return aLo - bHi
	}
	return 0
}

func hullInto(dst, src *ncsp.IntervalBox) {
	for i := 0; i < dst.Scope().Len(); i++ {
		dst.SetAt(i, dst.At(i).Hull(src.At(i)))
	}
}
