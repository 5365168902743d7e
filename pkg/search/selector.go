// Package search implements the branch-and-prune engine's space
// representation and variable/slice selection policies (§4.6): Node, Space
// (DFS/BFS/DMDFS pending-node policies), Selector (MaxDom/LF/SF/SSR/ASR/
// SLF/Hybrid), and the Slicer registry wrapping pkg/contractor's slicers.
// Grounded on the pluggable-strategy shape of `.seed/strategy.go`'s
// LabelingStrategy/SearchStrategy interfaces and `.seed/labeling.go`'s
// concrete heuristics, generalized from discrete value ordering to
// continuous interval splitting.
package search

import (
	"math"

	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Selector chooses the next variable to split, declining ("no splittable
// variable") when every domain is canonical or below tolerance (§4.6).
type Selector interface {
	Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool)
	Name() string
}

func discretizedSize(v *ncsp.Variable, width float64, mid float64) float64 {
	tol := v.Tolerance()
	denom := tol.Value
	if tol.Relative {
		d := math.Abs(mid)
		if d < 1 {
			d = 1
		}
		denom = tol.Value * d
	}
	if denom <= 0 {
		denom = 1e-300
	}
	return width / denom
}

func splittable(v *ncsp.Variable, width, mid float64) bool {
	return !v.Tolerance().Satisfied(width, mid)
}

// MaxDom picks the variable with the largest discretized domain
// (width/tolerance).
type MaxDom struct{}

func (MaxDom) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) {
	return extremeBySize(box, true)
}
func (MaxDom) Name() string { return "MaxDom" }

// LF (largest-first) is MaxDom under the name §4.6 gives the heuristic.
type LF struct{}

func (LF) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) { return extremeBySize(box, true) }
func (LF) Name() string                                        { return "LF" }

// SF (smallest-first) picks the smallest non-canonical discretized domain.
type SF struct{}

func (SF) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) { return extremeBySize(box, false) }
func (SF) Name() string                                        { return "SF" }

func extremeBySize(box *ncsp.IntervalBox, wantMax bool) (*ncsp.Variable, bool) {
	var best *ncsp.Variable
	bestSize := 0.0
	found := false
	for i := 0; i < box.Scope().Len(); i++ {
		v := box.Scope().At(i)
		iv := box.At(i)
		w, m := iv.Width(), iv.Mid()
		if !splittable(v, w, m) {
			continue
		}
		size := discretizedSize(v, w, m)
		if !found || (wantMax && size > bestSize) || (!wantMax && size < bestSize) {
			best, bestSize, found = v, size, true
		}
	}
	return best, found
}

// SLF picks integer variables first (smallest domain among them), falling
// back to real variables (largest domain).
type SLF struct{}

func (SLF) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) {
	var bestInt *ncsp.Variable
	bestIntSize := 0.0
	foundInt := false
	for i := 0; i < box.Scope().Len(); i++ {
		v := box.Scope().At(i)
		if v.Kind() != ncsp.Integer && v.Kind() != ncsp.Binary {
			continue
		}
		iv := box.At(i)
		w, m := iv.Width(), iv.Mid()
		if !splittable(v, w, m) {
			continue
		}
		size := discretizedSize(v, w, m)
		if !foundInt || size < bestIntSize {
			bestInt, bestIntSize, foundInt = v, size, true
		}
	}
	if foundInt {
		return bestInt, true
	}
	return extremeBySize(box, true)
}
func (SLF) Name() string { return "SLF" }

// EquationSystem is the (functions, variables) pair SSR/ASR score against;
// a thin re-export of contractor.System's shape to keep the selector
// constructors self-describing.
type EquationSystem = contractor.System

// SSR (Smear Sum Relative) evaluates the Jacobian on box; for each function
// it normalizes row entries s_ij = |J_ij|·width(x_j) by the row sum, sums
// columns, and picks the arg-max (§4.6).
type SSR struct {
	Sys *EquationSystem
}

func (s SSR) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) {
	return jacobianScore(s.Sys, box, func(rowSum float64) float64 {
		if rowSum == 0 {
			return 0
		}
		return 1 / rowSum
	})
}
func (s SSR) Name() string { return "SSR" }

// ASR (Affine Sum Relative) approximates §4.6's affine-coefficient-sum
// heuristic using the same Jacobian data SSR uses: each variable scores the
// unnormalized sum of |J_ij|·width(x_j) over the functions (every row has
// weight 1, with no per-function normalization), rather than a maintained
// affine form —
// pkg/dag carries no affine-arithmetic representation, so a literal AAF
// implementation is out of scope for a selection heuristic (see
// DESIGN.md).
type ASR struct {
	Sys *EquationSystem
}

func (s ASR) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) {
	return jacobianScore(s.Sys, box, func(rowSum float64) float64 {
		return 1
	})
}
func (s ASR) Name() string { return "ASR" }

func jacobianScore(sys *EquationSystem, box *ncsp.IntervalBox, weight func(rowSum float64) float64) (*ncsp.Variable, bool) {
	J, _ := sys.Jacobian(box)
	n := len(sys.Vars)
	scores := make([]float64, n)
	for i := range J {
		rowSum := 0.0
		widths := make([]float64, n)
		for j, v := range sys.Vars {
			widths[j] = box.Get(v).Width()
			rowSum += math.Abs(J[i][j].Mag()) * widths[j]
		}
		w := weight(rowSum)
		for j := range sys.Vars {
			scores[j] += math.Abs(J[i][j].Mag()) * widths[j] * w
		}
	}
	var best *ncsp.Variable
	bestScore := -1.0
	found := false
	for j, v := range sys.Vars {
		iv := box.Get(v)
		if !splittable(v, iv.Width(), iv.Mid()) {
			continue
		}
		if !found || scores[j] > bestScore {
			best, bestScore, found = v, scores[j], true
		}
	}
	return best, found
}

// Hybrid alternates between A (with relative frequency freq) and B.
type Hybrid struct {
	A, B  Selector
	Freq  float64
	accum float64
}

func NewHybrid(a, b Selector, freq float64) *Hybrid {
	return &Hybrid{A: a, B: b, Freq: freq}
}

func (h *Hybrid) Select(box *ncsp.IntervalBox) (*ncsp.Variable, bool) {
	h.accum += h.Freq
	if h.accum >= 1 {
		h.accum -= 1
		if v, ok := h.A.Select(box); ok {
			return v, ok
		}
		return h.B.Select(box)
	}
	if v, ok := h.B.Select(box); ok {
		return v, ok
	}
	return h.A.Select(box)
}
func (h *Hybrid) Name() string { return "Hybrid(" + h.A.Name() + "," + h.B.Name() + ")" }

// SelectorRegistry resolves a Selector by name, grounded on
// `.seed/strategy.go`'s StrategyConfig/registry pattern.
var SelectorRegistry = map[string]func() Selector{
	"MaxDom": func() Selector { return MaxDom{} },
	"LF":     func() Selector { return LF{} },
	"SF":     func() Selector { return SF{} },
	"SLF":    func() Selector { return SLF{} },
}
