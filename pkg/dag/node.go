package dag

import (
	"fmt"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// NodeKind discriminates the four node shapes of §3: Const(value),
// Var(variable), Op(sym, children), Lin(constant, [(coef,var_node)]).
type NodeKind int

const (
	KindConst NodeKind = iota
	KindVar
	KindOp
	KindLin
)

// OpSym is the closed operator set for Op nodes, unary and binary together
// (§3, §4.2). PowInt carries its exponent in Node.N.
type OpSym int

const (
	SymNeg OpSym = iota
	SymAbs
	SymSgn
	SymSqr
	SymSqrt
	SymExp
	SymLog
	SymCos
	SymSin
	SymTan
	SymAdd
	SymSub
	SymMul
	SymDiv
	SymMin
	SymMax
	SymPowInt
)

func (s OpSym) IsUnary() bool { return s <= SymTan }

func (s OpSym) String() string {
	names := [...]string{"neg", "abs", "sgn", "sqr", "sqrt", "exp", "log", "cos", "sin", "tan",
		"+", "-", "*", "/", "min", "max", "pow"}
	return names[s]
}

// LinEntry is one (coefficient, variable-node-index) pair of a Lin node.
type LinEntry struct {
	Coef     float64
	VarIndex int // index of the corresponding KindVar node
}

// Node is one arena-allocated DAG vertex (§3, §9 "arena-allocated nodes
// addressed by dense indices"). Node indices are dense and topologically
// ordered: for every Op/Lin node k, every child index < k (§3 invariant).
type Node struct {
	Kind NodeKind

	// KindConst
	ConstVal interval.Interval

	// KindVar
	VarRef *ncsp.Variable

	// KindOp
	Op       OpSym
	Children []int
	N        int // PowInt exponent

	// KindLin
	LinConst   float64
	LinEntries []LinEntry

	Support  *Bitset // variable ids reachable from this node
	Parents  []int   // indices of nodes that reference this one

	// Per-pass scratch fields (§3, §5): mutated on every pass, must not be
	// relied upon across calls without an explicit overlay (DagContext).
	Val  interval.Interval // forward interval image
	Dv   interval.Interval // reverse-mode AD accumulator
	Rval float64           // real (point) evaluation
	Rdv  float64           // real derivative accumulator
	Dom  interval.Interval // projection domain written by hc4Revise's backward pass
}

func (n *Node) addParent(idx int) {
	for _, p := range n.Parents {
		if p == idx {
			return
		}
	}
	n.Parents = append(n.Parents, idx)
}

// NbOccurrences counts reachable Var(v) leaves under this node — used by
// contractors to pick algorithms (BC3 requires exactly one occurrence,
// §3). d is the owning DAG, needed to walk children.
func (d *DAG) NbOccurrences(nodeIdx int, v *ncsp.Variable) int {
	count := 0
	d.walk(nodeIdx, func(n *Node) {
		if n.Kind == KindVar && n.VarRef.ID() == v.ID() {
			count++
		}
		if n.Kind == KindLin {
			for _, e := range n.LinEntries {
				if d.nodes[e.VarIndex].VarRef.ID() == v.ID() {
					count++
				}
			}
		}
	})
	return count
}

func (d *DAG) walk(root int, f func(*Node)) {
	seen := make(map[int]bool)
	var rec func(i int)
	rec = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		n := d.nodes[i]
		f(n)
		for _, c := range n.Children {
			rec(c)
		}
		if n.Kind == KindLin {
			for _, e := range n.LinEntries {
				rec(e.VarIndex)
			}
		}
	}
	rec(root)
}

// String renders a node for debugging.
func (n *Node) String() string {
	switch n.Kind {
	case KindConst:
		return n.ConstVal.String()
	case KindVar:
		return n.VarRef.Name()
	case KindLin:
		s := fmt.Sprintf("%v", n.LinConst)
		for _, e := range n.LinEntries {
			s += fmt.Sprintf("+%v*v%d", e.Coef, e.VarIndex)
		}
		return s
	default:
		return fmt.Sprintf("%s(%v)", n.Op, n.Children)
	}
}
