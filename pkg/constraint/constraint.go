// Package constraint implements the Constraint variants of §4.4: binary
// arithmetic, range, table, and conditional constraints, each honoring the
// shared contract isSatisfied/violation/contract over an IntervalBox.
package constraint

import (
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Constraint is the capability set every variant implements (§4.4): scope,
// satisfaction classification, a violation measure for branch selection,
// and in-place contraction returning a Proof.
type Constraint interface {
	Scope() *ncsp.Scope
	IsSatisfied(box *ncsp.IntervalBox) ncsp.Proof
	Violation(box *ncsp.IntervalBox) float64
	Contract(box *ncsp.IntervalBox, ctx *dag.DagContext) ncsp.Proof
	String() string
}

// Relation is the comparison operator of a Binary arithmetic constraint.
type Relation int

const (
	Eq Relation = iota
	Le
	Lt
	Ge
	Gt
)

func (r Relation) String() string {
	switch r {
	case Eq:
		return "="
	case Le:
		return "<="
	case Lt:
		return "<"
	case Ge:
		return ">="
	case Gt:
		return ">"
	default:
		return "?"
	}
}
