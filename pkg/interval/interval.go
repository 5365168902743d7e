// Package interval implements rigorous interval arithmetic with outward
// rounding: a closed connected subset of ℝ∪{±∞}, or the empty set, together
// with the relational projectors that let a constraint propagate a result
// interval back onto its operands.
package interval

import "math"

// Interval is a closed connected subset of the extended reals, or Empty.
// The zero value is NOT a valid interval; use Empty() or New.
type Interval struct {
	lo, hi float64
	empty  bool
}

// Empty returns the empty interval.
func Empty() Interval { return Interval{empty: true} }

// Whole returns (−∞, +∞).
func Whole() Interval { return Interval{lo: math.Inf(-1), hi: math.Inf(1)} }

// New returns the interval [lo, hi]. If lo > hi the result is Empty.
func New(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return Empty()
	}
	return Interval{lo: lo, hi: hi}
}

// Point returns the degenerate interval [v, v].
func Point(v float64) Interval { return Interval{lo: v, hi: v} }

// Lo returns the lower bound. Undefined (NaN) on an empty interval.
func (x Interval) Lo() float64 {
	if x.empty {
		return math.NaN()
	}
	return x.lo
}

// Hi returns the upper bound. Undefined (NaN) on an empty interval.
func (x Interval) Hi() float64 {
	if x.empty {
		return math.NaN()
	}
	return x.hi
}

// IsEmpty reports whether x is the empty interval.
func (x Interval) IsEmpty() bool { return x.empty }

// IsPoint reports whether x is a single degenerate point.
func (x Interval) IsPoint() bool { return !x.empty && x.lo == x.hi }

// IsBounded reports whether both endpoints are finite.
func (x Interval) IsBounded() bool {
	return !x.empty && !math.IsInf(x.lo, 0) && !math.IsInf(x.hi, 0)
}

// Width returns hi-lo, rounded outward (i.e. never under-reported). Returns
// +Inf for unbounded intervals and 0 for Empty by convention.
func (x Interval) Width() float64 {
	if x.empty {
		return 0
	}
	return RoundUp(x.hi - x.lo)
}

// RelWidth returns the width relative to magnitude, used by tolerance tests:
// width / max(1, |mid|).
func (x Interval) RelWidth() float64 {
	if x.empty {
		return 0
	}
	d := math.Max(1, math.Abs(x.Mid()))
	return x.Width() / d
}

// Mid returns the midpoint, rounded to nearest (not outward — used for
// splitting and as a Newton iterate, never as a sound bound).
func (x Interval) Mid() float64 {
	if x.empty {
		return math.NaN()
	}
	if math.IsInf(x.lo, -1) && math.IsInf(x.hi, 1) {
		return 0
	}
	if math.IsInf(x.lo, -1) {
		return -math.MaxFloat64
	}
	if math.IsInf(x.hi, 1) {
		return math.MaxFloat64
	}
	return x.lo + 0.5*(x.hi-x.lo)
}

// Mag returns the magnitude max(|lo|,|hi|).
func (x Interval) Mag() float64 {
	if x.empty {
		return 0
	}
	return math.Max(math.Abs(x.lo), math.Abs(x.hi))
}

// Mig returns the mignitude: min |v| for v in x, 0 if 0∈x.
func (x Interval) Mig() float64 {
	if x.empty {
		return 0
	}
	if x.Contains(0) {
		return 0
	}
	return math.Min(math.Abs(x.lo), math.Abs(x.hi))
}

// Contains reports whether v lies in x.
func (x Interval) Contains(v float64) bool {
	return !x.empty && x.lo <= v && v <= x.hi
}

// ContainsInterval reports whether y ⊆ x.
func (x Interval) ContainsInterval(y Interval) bool {
	if y.empty {
		return true
	}
	if x.empty {
		return false
	}
	return x.lo <= y.lo && y.hi <= x.hi
}

// Overlaps reports whether x ∩ y ≠ ∅.
func (x Interval) Overlaps(y Interval) bool {
	if x.empty || y.empty {
		return false
	}
	return x.lo <= y.hi && y.lo <= x.hi
}

// IsDisjoint is the negation of Overlaps, except both-empty counts as disjoint.
func (x Interval) IsDisjoint(y Interval) bool { return !x.Overlaps(y) }

// Equal reports exact bound equality, both-empty counting as equal.
func (x Interval) Equal(y Interval) bool {
	if x.empty || y.empty {
		return x.empty == y.empty
	}
	return x.lo == y.lo && x.hi == y.hi
}

// Hull returns the smallest interval containing both x and y: x | y.
func (x Interval) Hull(y Interval) Interval {
	if x.empty {
		return y
	}
	if y.empty {
		return x
	}
	return Interval{lo: math.Min(x.lo, y.lo), hi: math.Max(x.hi, y.hi)}
}

// Inter returns x ∩ y, rounded inward is not needed since both bounds are
// exact representable endpoints already; the result is exact.
func (x Interval) Inter(y Interval) Interval {
	if x.empty || y.empty {
		return Empty()
	}
	lo := math.Max(x.lo, y.lo)
	hi := math.Min(x.hi, y.hi)
	if lo > hi {
		return Empty()
	}
	return Interval{lo: lo, hi: hi}
}

// Diff returns x \ y as up to two disjoint pieces. The second piece is
// Empty if the difference is connected (or empty, or equals x).
func (x Interval) Diff(y Interval) (Interval, Interval) {
	if x.empty {
		return Empty(), Empty()
	}
	if y.empty {
		return x, Empty()
	}
	inter := x.Inter(y)
	if inter.empty {
		return x, Empty()
	}
	var left, right Interval
	if x.lo < inter.lo {
		left = New(x.lo, prevBelow(inter.lo))
	} else {
		left = Empty()
	}
	if inter.hi < x.hi {
		right = New(nextAbove(inter.hi), x.hi)
	} else {
		right = Empty()
	}
	if left.empty {
		return right, Empty()
	}
	return left, right
}

// Complement returns the up-to-two pieces of ℝ \ x.
func (x Interval) Complement() (Interval, Interval) {
	return Whole().Diff(x)
}

func prevBelow(v float64) float64 {
	if math.IsInf(v, -1) {
		return v
	}
	return math.Nextafter(v, math.Inf(-1))
}

func nextAbove(v float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	return math.Nextafter(v, math.Inf(1))
}

// Inflate returns m + δ·(x−m) + χ·[−1,1], the box expansion used by
// interval-Newton certification, with m = Mid(x), δ>1, χ>0.
func (x Interval) Inflate(delta, chi float64) Interval {
	if x.empty {
		return x
	}
	m := x.Mid()
	lo := RoundDown(m + delta*(x.lo-m) - chi)
	hi := RoundUp(m + delta*(x.hi-m) + chi)
	return Interval{lo: lo, hi: hi}
}

// String renders "[lo, hi]" or "∅".
func (x Interval) String() string {
	if x.empty {
		return "∅"
	}
	return "[" + trimFloat(x.lo) + ", " + trimFloat(x.hi) + "]"
}

func trimFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "+inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return formatFloat(v)
}
