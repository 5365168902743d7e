// Package term builds the problem's algebraic skeleton (§4.2): Terms are
// immutable, hash-consed-by-structure expression trees with a fixed,
// closed operator set, dispatched exclusively through a Visitor so adding
// an operator is a controlled, single-point edit.
package term

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// UnaryOp enumerates the unary operator set (§3).
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpAbs
	OpSgn
	OpSqr
	OpSqrt
	OpExp
	OpLog
	OpCos
	OpSin
	OpTan
)

func (op UnaryOp) String() string {
	return [...]string{"neg", "abs", "sgn", "sqr", "sqrt", "exp", "log", "cos", "sin", "tan"}[op]
}

// BinaryOp enumerates the binary operator set (§3). PowInt carries its
// exponent separately on BinaryTerm.N since the set of valid exponents is
// unbounded.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpPowInt
)

func (op BinaryOp) String() string {
	return [...]string{"+", "-", "*", "/", "min", "max", "pow"}[op]
}

// Term is a shared-pointer handle to an immutable TermRep variant. Visitors
// are the sole dispatch mechanism (§4.2).
type Term interface {
	// Scope returns the set of variables reachable from this subterm.
	Scope() *ncsp.Scope
	// Hash returns a structural hash of the term. DAG insertion does not
	// call it; pkg/dag deduplicates nodes by its own structural keys.
	Hash() uint64
	Accept(v Visitor)
	String() string
}

// Visitor dispatches over the five Term variants.
type Visitor interface {
	VisitConst(t *ConstTerm)
	VisitVar(t *VarTerm)
	VisitUnary(t *UnaryTerm)
	VisitBinary(t *BinaryTerm)
	VisitLin(t *LinTerm)
}

// ConstTerm is a constant Interval leaf.
type ConstTerm struct {
	Val   interval.Interval
	scope *ncsp.Scope
}

func (t *ConstTerm) Scope() *ncsp.Scope { return t.scope }
func (t *ConstTerm) Accept(v Visitor)   { v.VisitConst(t) }
func (t *ConstTerm) String() string     { return t.Val.String() }
func (t *ConstTerm) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "const:%v:%v", t.Val.Lo(), t.Val.Hi())
	return h.Sum64()
}

// VarTerm is a leaf referencing a Variable.
type VarTerm struct {
	V     *ncsp.Variable
	scope *ncsp.Scope
}

func (t *VarTerm) Scope() *ncsp.Scope { return t.scope }
func (t *VarTerm) Accept(v Visitor)   { v.VisitVar(t) }
func (t *VarTerm) String() string     { return t.V.Name() }
func (t *VarTerm) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "var:%d", t.V.ID())
	return h.Sum64()
}

// UnaryTerm applies a unary operator to a single child.
type UnaryTerm struct {
	Op    UnaryOp
	X     Term
	scope *ncsp.Scope
}

func (t *UnaryTerm) Scope() *ncsp.Scope { return t.scope }
func (t *UnaryTerm) Accept(v Visitor)   { v.VisitUnary(t) }
func (t *UnaryTerm) String() string     { return fmt.Sprintf("%s(%s)", t.Op, t.X) }
func (t *UnaryTerm) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "u:%d:%d", t.Op, t.X.Hash())
	return h.Sum64()
}

// BinaryTerm applies a binary operator to two children. N carries the
// exponent when Op==OpPowInt.
type BinaryTerm struct {
	Op    BinaryOp
	X, Y  Term
	N     int
	scope *ncsp.Scope
}

func (t *BinaryTerm) Scope() *ncsp.Scope { return t.scope }
func (t *BinaryTerm) Accept(v Visitor)   { v.VisitBinary(t) }
func (t *BinaryTerm) String() string {
	if t.Op == OpPowInt {
		return fmt.Sprintf("pow(%s,%d)", t.X, t.N)
	}
	return fmt.Sprintf("(%s %s %s)", t.X, t.Op, t.Y)
}
func (t *BinaryTerm) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "b:%d:%d:%d:%d", t.Op, t.N, t.X.Hash(), t.Y.Hash())
	return h.Sum64()
}

// LinTerm is the canonical linear form: constant + Σ coef·var (§3, §4.2).
// Vars is kept sorted by variable id; coefficients on the same variable are
// pre-combined and zero-coefficient terms dropped by the builder.
type LinTerm struct {
	Const  float64
	Coefs  []float64
	Vars   []*ncsp.Variable
	scope  *ncsp.Scope
}

func (t *LinTerm) Scope() *ncsp.Scope { return t.scope }
func (t *LinTerm) Accept(v Visitor)   { v.VisitLin(t) }
func (t *LinTerm) String() string {
	s := fmt.Sprintf("%v", t.Const)
	for i, v := range t.Vars {
		s += fmt.Sprintf(" + %v*%s", t.Coefs[i], v.Name())
	}
	return s
}
func (t *LinTerm) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "lin:%v", t.Const)
	for i, v := range t.Vars {
		fmt.Fprintf(h, ":%d=%v", v.ID(), t.Coefs[i])
	}
	return h.Sum64()
}

func scopeOf(terms ...Term) *ncsp.Scope {
	var s *ncsp.Scope
	for _, t := range terms {
		if t == nil {
			continue
		}
		if s == nil {
			s = t.Scope()
			continue
		}
		s = s.Union(t.Scope())
	}
	if s == nil {
		s = ncsp.NewScope()
	}
	return s
}

func linScope(vars []*ncsp.Variable) *ncsp.Scope { return ncsp.NewScope(vars...) }

// sortLinEntries sorts coefficient/variable pairs by variable id, combining
// duplicates and dropping zero coefficients, per §4.2's local
// canonicalization rule for Lin nodes.
func sortLinEntries(vars []*ncsp.Variable, coefs []float64) ([]*ncsp.Variable, []float64) {
	type entry struct {
		v *ncsp.Variable
		c float64
	}
	byID := make(map[int]*entry)
	order := make([]int, 0, len(vars))
	for i, v := range vars {
		if e, ok := byID[v.ID()]; ok {
			e.c += coefs[i]
		} else {
			byID[v.ID()] = &entry{v: v, c: coefs[i]}
			order = append(order, v.ID())
		}
	}
	sort.Ints(order)
	outV := make([]*ncsp.Variable, 0, len(order))
	outC := make([]float64, 0, len(order))
	for _, id := range order {
		e := byID[id]
		if e.c == 0 {
			continue
		}
		outV = append(outV, e.v)
		outC = append(outC, e.c)
	}
	return outV, outC
}
