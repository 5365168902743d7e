// Package lp provides the LP driver of §4.5's ContractorPolytope: no LP
// library ships in the example corpus (see DESIGN.md), so Solver is a small
// interface with DenseSimplex as the reference implementation, built on
// gonum/mat the way the pack's numerical repos build linear-algebra-heavy
// components.
package lp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Status classifies a solve outcome.
type Status int

const (
	Optimal Status = iota
	Infeasible
	Unbounded
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	default:
		return "UNKNOWN"
	}
}

// Problem is minimize C·x subject to A·x ≤ B (row-wise) and Lo ≤ x ≤ Hi.
// Bounds must be finite in every coordinate the caller wants enforced;
// infinite bounds are simply omitted from the generated tableau rows.
type Problem struct {
	C      []float64
	A      [][]float64
	B      []float64
	Lo, Hi []float64
}

// Solution is the LP driver's result (§4.5: "recover primal solution and
// dual multipliers").
type Solution struct {
	Status Status
	X      []float64
	Obj    float64
	// Dual holds the final reduced cost of each row's slack column — the
	// shadow price ContractorPolytope.safeBound reinterprets with interval
	// arithmetic into a certified objective bound (§4.5), rather than
	// trusting Obj directly. Any component can be numerically off (or even
	// wrong in sign) without making that reinterpretation unsound: weak LP
	// duality holds for every nonnegative dual vector, not just the exact
	// optimal one.
	Dual []float64
}

// Solver is the LP driver capability ContractorPolytope depends on.
type Solver interface {
	Solve(p *Problem) (*Solution, error)
}

// DenseSimplex is a Big-M primal simplex over a dense tableau. Variable
// bounds are folded into extra ≤ rows (x_j ≤ Hi_j after shifting to
// x'_j = x_j − Lo_j ≥ 0); every row additionally carries its own artificial
// variable so the initial basis is always feasible regardless of sign.
type DenseSimplex struct {
	MaxIter int
}

// NewDenseSimplex returns a DenseSimplex with a generous default iteration
// cap; LPs in this domain are small (one column per DAG node or per
// problem variable).
func NewDenseSimplex() *DenseSimplex { return &DenseSimplex{MaxIter: 2000} }

const bigM = 1e7
const eps = 1e-9

func (s *DenseSimplex) Solve(p *Problem) (*Solution, error) {
	n := len(p.C)
	if n == 0 {
		return nil, fmt.Errorf("lp: empty objective")
	}
	if len(p.Lo) != n || len(p.Hi) != n {
		return nil, fmt.Errorf("lp: bounds length mismatch")
	}

	rows := make([][]float64, 0, len(p.A)+n)
	rhs := make([]float64, 0, len(p.B)+n)
	for i, row := range p.A {
		if len(row) != n {
			return nil, fmt.Errorf("lp: row %d length mismatch", i)
		}
		shifted := make([]float64, n)
		b := p.B[i]
		for j, a := range row {
			shifted[j] = a
			if !math.IsInf(p.Lo[j], -1) {
				b -= a * p.Lo[j]
			}
		}
		rows = append(rows, shifted)
		rhs = append(rhs, b)
	}
	for j := 0; j < n; j++ {
		if math.IsInf(p.Hi[j], 1) || math.IsInf(p.Lo[j], -1) {
			continue
		}
		row := make([]float64, n)
		row[j] = 1
		rows = append(rows, row)
		rhs = append(rhs, p.Hi[j]-p.Lo[j])
	}

	m := len(rows)
	if m == 0 {
		return nil, fmt.Errorf("lp: no finite constraint rows (every variable unbounded)")
	}

	// Columns: n structural, m slack, m artificial, +1 rhs.
	slackOf := func(i int) int { return n + i }
	artOf := func(i int) int { return n + m + i }
	total := n + 2*m
	tab := mat.NewDense(m+1, total+1, nil)

	for i := 0; i < m; i++ {
		sign := 1.0
		if rhs[i] < 0 {
			sign = -1.0
		}
		for j := 0; j < n; j++ {
			tab.Set(i, j, sign*rows[i][j])
		}
		tab.Set(i, slackOf(i), sign)
		tab.Set(i, artOf(i), 1)
		tab.Set(i, total, sign*rhs[i])
	}
	for j := 0; j < n; j++ {
		tab.Set(m, j, p.C[j])
	}
	for i := 0; i < m; i++ {
		tab.Set(m, artOf(i), bigM)
	}
	// Price out the artificial basis so each artificial column reads reduced
	// cost 0 in its own (currently basic) row: each artificial is costed M,
	// then objective row −= M·Σrows.
	for i := 0; i < m; i++ {
		for j := 0; j <= total; j++ {
			tab.Set(m, j, tab.At(m, j)-bigM*tab.At(i, j))
		}
	}

	basis := make([]int, m)
	for i := 0; i < m; i++ {
		basis[i] = artOf(i)
	}

	for iter := 0; iter < s.MaxIter; iter++ {
		pivCol := -1
		best := -eps
		for j := 0; j < total; j++ {
			if tab.At(m, j) < best {
				best = tab.At(m, j)
				pivCol = j
			}
		}
		if pivCol < 0 {
			break
		}
		pivRow := -1
		bestRatio := math.Inf(1)
		for i := 0; i < m; i++ {
			a := tab.At(i, pivCol)
			if a > eps {
				ratio := tab.At(i, total) / a
				if ratio < bestRatio-eps {
					bestRatio = ratio
					pivRow = i
				}
			}
		}
		if pivRow < 0 {
			return &Solution{Status: Unbounded}, nil
		}
		pivot(tab, pivRow, pivCol)
		basis[pivRow] = pivCol
	}

	for i, b := range basis {
		if b >= n+m && tab.At(i, total) > 1e-6 {
			return &Solution{Status: Infeasible}, nil
		}
	}

	x := make([]float64, n)
	for i, b := range basis {
		if b < n {
			x[b] = tab.At(i, total)
		}
	}
	for j := range x {
		x[j] += p.Lo[j]
	}

	obj := 0.0
	for j := 0; j < n; j++ {
		obj += p.C[j] * x[j]
	}

	dual := make([]float64, len(p.A))
	for i := 0; i < len(p.A) && i < m; i++ {
		dual[i] = tab.At(m, slackOf(i))
	}

	return &Solution{Status: Optimal, X: x, Obj: obj, Dual: dual}, nil
}

func pivot(tab *mat.Dense, row, col int) {
	rows, cols := tab.Dims()
	piv := tab.At(row, col)
	for j := 0; j < cols; j++ {
		tab.Set(row, j, tab.At(row, j)/piv)
	}
	for i := 0; i < rows; i++ {
		if i == row {
			continue
		}
		factor := tab.At(i, col)
		if factor == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			tab.Set(i, j, tab.At(i, j)-factor*tab.At(row, j))
		}
	}
}
