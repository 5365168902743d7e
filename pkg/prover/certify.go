// Package prover implements §4.6's Certification step: promoting a
// terminal MAYBE node to FEASIBLE via inflated multivariate Newton, and
// clustering near-duplicate solutions. No `.seed` counterpart exists — a
// discrete finite-domain solver has no continuous existence proof to
// certify — so this package follows §4.6's Certification paragraph
// directly.
package prover

import (
	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/search"
)

// Certifier upgrades a terminal MAYBE node's proof to FEASIBLE when its box
// contains a square system of equations and the inflated Newton test
// succeeds.
type Certifier struct {
	newton       *contractor.IntervalNewton
	inflateDelta float64
	inflateChi   float64
	maxIter      int
}

func NewCertifier(sys *contractor.System, xtol, dtol, minpiv, inflateDelta, inflateChi float64, maxIter int) *Certifier {
	return &Certifier{
		newton:       contractor.NewIntervalNewton(sys, xtol, dtol, minpiv, maxIter),
		inflateDelta: inflateDelta,
		inflateChi:   inflateChi,
		maxIter:      maxIter,
	}
}

// Certify runs the inflated Newton test on n.Box and, on success, upgrades
// n.Proof in place from Maybe to Feasible. It never downgrades an existing
// Inner/Feasible proof and leaves Empty/Maybe nodes whose test fails
// untouched (the caller keeps treating them as MAYBE).
func (c *Certifier) Certify(n *search.Node) ncsp.Proof {
	if n.Proof == ncsp.Inner || n.Proof == ncsp.Feasible {
		return n.Proof
	}
	proof := c.newton.Certify(n.Box, c.inflateDelta, c.inflateChi, c.maxIter)
	if proof == ncsp.Feasible {
		n.Proof = ncsp.Feasible
	}
	return n.Proof
}
