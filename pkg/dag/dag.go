// Package dag implements the maximally-shared expression graph (§4.3): a
// directed acyclic graph over the union of all Constraint expressions, with
// deduplicating insertion, and the forward/backward/differentiation passes
// contractors drive.
package dag

import (
	"hash/fnv"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
)

// DAG is the arena: dense, topologically ordered nodes plus a hash index
// used to deduplicate structurally-equal insertions (§3 invariant:
// "Insertion is deduplicating"). Ownership follows §9's design note: the
// DAG owns the arena, DagFun holds a node-index subset, contractors hold a
// shared handle to the DAG (single-threaded, so a plain pointer suffices —
// no reference counting is needed the way §9 suggests for a refcounted
// language).
type DAG struct {
	nodes []*Node
	index map[uint64][]int
	vars  map[int]int // variable id -> its KindVar node index
}

// NewDAG returns an empty arena.
func NewDAG() *DAG {
	return &DAG{index: make(map[uint64][]int), vars: make(map[int]int)}
}

// Len returns the number of arena nodes.
func (d *DAG) Len() int { return len(d.nodes) }

// Node returns the node at index i.
func (d *DAG) Node(i int) *Node { return d.nodes[i] }

// VarNode returns v's KindVar node index, if v has been inserted into d.
func (d *DAG) VarNode(v *ncsp.Variable) (int, bool) {
	idx, ok := d.vars[v.ID()]
	return idx, ok
}

func (d *DAG) insert(n *Node, h uint64) int {
	for _, cand := range d.index[h] {
		if structurallyEqual(d.nodes[cand], n) {
			return cand
		}
	}
	idx := len(d.nodes)
	d.nodes = append(d.nodes, n)
	d.index[h] = append(d.index[h], idx)
	for _, c := range n.Children {
		d.nodes[c].addParent(idx)
	}
	if n.Kind == KindLin {
		for _, e := range n.LinEntries {
			d.nodes[e.VarIndex].addParent(idx)
		}
	}
	return idx
}

func structurallyEqual(a, b *Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindConst:
		return a.ConstVal.Equal(b.ConstVal)
	case KindVar:
		return a.VarRef.ID() == b.VarRef.ID()
	case KindOp:
		if a.Op != b.Op || a.N != b.N || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if a.Children[i] != b.Children[i] {
				return false
			}
		}
		return true
	case KindLin:
		if a.LinConst != b.LinConst || len(a.LinEntries) != len(b.LinEntries) {
			return false
		}
		for i := range a.LinEntries {
			if a.LinEntries[i] != b.LinEntries[i] {
				return false
			}
		}
		return true
	}
	return false
}

func hashConst(v interval.Interval) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{0})
	writeFloat(h, v.Lo())
	writeFloat(h, v.Hi())
	return h.Sum64()
}

func hashVar(id int) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{1})
	writeInt(h, id)
	return h.Sum64()
}

func hashOp(op OpSym, n int, children []int) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{2})
	writeInt(h, int(op))
	writeInt(h, n)
	for _, c := range children {
		writeInt(h, c)
	}
	return h.Sum64()
}

func hashLin(c float64, entries []LinEntry) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{3})
	writeFloat(h, c)
	for _, e := range entries {
		writeFloat(h, e.Coef)
		writeInt(h, e.VarIndex)
	}
	return h.Sum64()
}

func writeFloat(h interface{ Write([]byte) (int, error) }, v float64) {
	bitsOf := uint64FromFloat(v)
	writeInt(h, int(bitsOf))
}

func writeInt(h interface{ Write([]byte) (int, error) }, v int) {
	buf := make([]byte, 8)
	u := uint64(v)
	for i := 0; i < 8; i++ {
		buf[i] = byte(u >> (8 * i))
	}
	_, _ = h.Write(buf)
}

func uint64FromFloat(v float64) uint64 {
	return floatBits(v)
}

// insertConst inserts (or finds) a Const node.
func (d *DAG) insertConst(v interval.Interval) int {
	n := &Node{Kind: KindConst, ConstVal: v, Support: NewBitset()}
	return d.insert(n, hashConst(v))
}

// insertVar inserts (or finds) a Var node for v, memoized by variable id.
func (d *DAG) insertVar(v *ncsp.Variable) int {
	if idx, ok := d.vars[v.ID()]; ok {
		return idx
	}
	sup := NewBitset()
	sup.Set(v.ID())
	n := &Node{Kind: KindVar, VarRef: v, Support: sup}
	idx := d.insert(n, hashVar(v.ID()))
	d.vars[v.ID()] = idx
	return idx
}

func (d *DAG) insertOp(op OpSym, n int, children []int) int {
	sup := NewBitset()
	for _, c := range children {
		sup = sup.Union(d.nodes[c].Support)
	}
	node := &Node{Kind: KindOp, Op: op, Children: children, N: n, Support: sup}
	return d.insert(node, hashOp(op, n, children))
}

func (d *DAG) insertLin(c float64, entries []LinEntry) int {
	sup := NewBitset()
	for _, e := range entries {
		sup.Set(d.nodes[e.VarIndex].VarRef.ID())
	}
	node := &Node{Kind: KindLin, LinConst: c, LinEntries: entries, Support: sup}
	return d.insert(node, hashLin(c, entries))
}

// Insert walks t (a term.Term) bottom-up via the TermCreator visitor and
// returns the root node index, deduplicating every subterm against the
// arena (§4.3 Build).
func (d *DAG) Insert(t term.Term) int {
	tc := &termCreator{dag: d}
	t.Accept(tc)
	return tc.result
}

// termCreator is the TermCreator visitor of §4.3.
type termCreator struct {
	dag    *DAG
	result int
}

func (tc *termCreator) VisitConst(t *term.ConstTerm) {
	tc.result = tc.dag.insertConst(t.Val)
}

func (tc *termCreator) VisitVar(t *term.VarTerm) {
	tc.result = tc.dag.insertVar(t.V)
}

func (tc *termCreator) VisitUnary(t *term.UnaryTerm) {
	child := tc.dag.Insert(t.X)
	tc.result = tc.dag.insertOp(unaryOpSym(t.Op), 0, []int{child})
}

func (tc *termCreator) VisitBinary(t *term.BinaryTerm) {
	x := tc.dag.Insert(t.X)
	if t.Op == term.OpPowInt {
		tc.result = tc.dag.insertOp(SymPowInt, t.N, []int{x})
		return
	}
	y := tc.dag.Insert(t.Y)
	tc.result = tc.dag.insertOp(binaryOpSym(t.Op), 0, []int{x, y})
}

func (tc *termCreator) VisitLin(t *term.LinTerm) {
	entries := make([]LinEntry, len(t.Vars))
	for i, v := range t.Vars {
		entries[i] = LinEntry{Coef: t.Coefs[i], VarIndex: tc.dag.insertVar(v)}
	}
	tc.result = tc.dag.insertLin(t.Const, entries)
}

func unaryOpSym(op term.UnaryOp) OpSym {
	switch op {
	case term.OpNeg:
		return SymNeg
	case term.OpAbs:
		return SymAbs
	case term.OpSgn:
		return SymSgn
	case term.OpSqr:
		return SymSqr
	case term.OpSqrt:
		return SymSqrt
	case term.OpExp:
		return SymExp
	case term.OpLog:
		return SymLog
	case term.OpCos:
		return SymCos
	case term.OpSin:
		return SymSin
	case term.OpTan:
		return SymTan
	}
	panic("dag: unknown unary op")
}

func binaryOpSym(op term.BinaryOp) OpSym {
	switch op {
	case term.OpAdd:
		return SymAdd
	case term.OpSub:
		return SymSub
	case term.OpMul:
		return SymMul
	case term.OpDiv:
		return SymDiv
	case term.OpMin:
		return SymMin
	case term.OpMax:
		return SymMax
	}
	panic("dag: unknown binary op")
}
