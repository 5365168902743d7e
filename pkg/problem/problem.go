// Package problem holds the NCSP model (§3/§6): the variable bank, the
// constraint set, and the initial box, plus the external interfaces that
// read and write it — a grammar-based ProblemSource, a KEY=value
// ParamSource, a solution-file writer, and a StatsSink. Grounded on
// realpaver's Problem (original_source/src/realpaver/Problem.hpp): a name,
// an owned variable bank, and an accumulated constraint list.
package problem

import (
	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Problem is a named NCSP instance: the variables in scope, the
// constraints over them, and the initial box those variables start in.
// All constraints share one DAG (§3's lifecycle note: "DAG constructed
// once from the Constraint set") so common subexpressions across
// constraints are deduplicated.
type Problem struct {
	Name        string
	Bank        *ncsp.Bank
	Vars        []*ncsp.Variable
	Constraints []constraint.Constraint
	InitialBox  *ncsp.IntervalBox
	dag         *dag.DAG
}

// New builds an empty named problem over a fresh variable bank and DAG.
func New(name string) *Problem {
	return &Problem{Name: name, Bank: ncsp.NewBank(), dag: dag.NewDAG()}
}

// DAG is the shared expression graph every constraint inserts its terms
// into.
func (p *Problem) DAG() *dag.DAG {
	if p.dag == nil {
		p.dag = dag.NewDAG()
	}
	return p.dag
}

// Scope is the problem's full variable scope, in declaration order.
func (p *Problem) Scope() *ncsp.Scope {
	return ncsp.NewScope(p.Vars...)
}

// AddConstraint appends c to the problem's constraint set.
func (p *Problem) AddConstraint(c constraint.Constraint) {
	p.Constraints = append(p.Constraints, c)
}
