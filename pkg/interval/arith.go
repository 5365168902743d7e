package interval

import "math"

// Add returns x+y with outward rounding.
func Add(x, y Interval) Interval {
	if x.empty || y.empty {
		return Empty()
	}
	return New(RoundDown(x.lo+y.lo), RoundUp(x.hi+y.hi))
}

// Sub returns x-y with outward rounding.
func Sub(x, y Interval) Interval {
	if x.empty || y.empty {
		return Empty()
	}
	return New(RoundDown(x.lo-y.hi), RoundUp(x.hi-y.lo))
}

// Neg returns -x.
func Neg(x Interval) Interval {
	if x.empty {
		return Empty()
	}
	return Interval{lo: -x.hi, hi: -x.lo}
}

// Mul returns x*y with outward rounding.
func Mul(x, y Interval) Interval {
	if x.empty || y.empty {
		return Empty()
	}
	a, b, c, d := x.lo*y.lo, x.lo*y.hi, x.hi*y.lo, x.hi*y.hi
	lo := math.Min(math.Min(a, b), math.Min(c, d))
	hi := math.Max(math.Max(a, b), math.Max(c, d))
	return New(RoundDown(lo), RoundUp(hi))
}

// Div returns the hull of x/y. Where DivExt splits the quotient into two
// pieces (0 strictly inside y), Div returns the hull of both pieces; use
// DivExt to keep them apart.
func Div(x, y Interval) Interval {
	single, right, two := DivExt(x, y)
	if two {
		return single.Hull(right)
	}
	return single
}

// DivExt computes extended division per §4.1/§9: "Model as a sum type
// {Single(Interval), TwoPieces(Interval, Interval)}". Returns (single, _,
// false) for the ordinary case, or (left, right, true) when the divisor
// straddles zero and the quotient must split into two pieces (a gap is
// produced around ±∞). When two is false, right is Empty() and unused.
func DivExt(x, y Interval) (single, right Interval, two bool) {
	if x.empty || y.empty {
		return Empty(), Empty(), false
	}
	if y.lo == 0 && y.hi == 0 {
		return Empty(), Empty(), false
	}
	if !y.Contains(0) {
		recip := reciprocalBounded(y)
		return Mul(x, recip), Empty(), false
	}
	if x.Contains(0) {
		// x contains 0 and y contains 0: result is the whole line.
		return Whole(), Empty(), false
	}
	// 0 strictly interior (or boundary) to y, 0 not in x: split.
	if y.lo < 0 && y.hi == 0 {
		return divPositiveSplitLeft(x, y), Empty(), false
	}
	if y.lo == 0 && y.hi > 0 {
		return divPositiveSplitRight(x, y), Empty(), false
	}
	// y.lo < 0 < y.hi strictly: two genuine pieces.
	yNeg := New(y.lo, 0)
	yPos := New(0, y.hi)
	left := divHalf(x, yNeg)
	rightPiece := divHalf(x, yPos)
	return left, rightPiece, true
}

func divHalf(x, yHalf Interval) Interval {
	// yHalf touches 0 at exactly one end; treat the touching end as an
	// asymptote, producing an unbounded interval on that side.
	if yHalf.lo == 0 {
		return divPositiveSplitRight(x, yHalf)
	}
	return divPositiveSplitLeft(x, yHalf)
}

// divPositiveSplitLeft handles y = [lo, 0], lo<0, 0 not in x.
func divPositiveSplitLeft(x, y Interval) Interval {
	// x / [lo, -eps] as eps -> 0 gives an unbounded bound on one side.
	if x.hi <= 0 {
		return New(RoundDown(x.hi/y.lo), math.Inf(1))
	}
	return New(math.Inf(-1), RoundUp(x.lo/y.lo))
}

// divPositiveSplitRight handles y = [0, hi], hi>0, 0 not in x.
func divPositiveSplitRight(x, y Interval) Interval {
	if x.hi <= 0 {
		return New(math.Inf(-1), RoundUp(x.hi/y.hi))
	}
	return New(RoundDown(x.lo/y.hi), math.Inf(1))
}

func reciprocalBounded(y Interval) Interval {
	lo := 1 / y.hi
	hi := 1 / y.lo
	if y.hi == 0 {
		lo = math.Inf(-1)
	}
	if y.lo == 0 {
		hi = math.Inf(1)
	}
	return New(RoundDown(math.Min(lo, hi)), RoundUp(math.Max(lo, hi)))
}

// Min returns the interval hull of min(x,y) pointwise.
func Min(x, y Interval) Interval {
	if x.empty || y.empty {
		return Empty()
	}
	return New(math.Min(x.lo, y.lo), math.Min(x.hi, y.hi))
}

// Max returns the interval hull of max(x,y) pointwise.
func Max(x, y Interval) Interval {
	if x.empty || y.empty {
		return Empty()
	}
	return New(math.Max(x.lo, y.lo), math.Max(x.hi, y.hi))
}

// Abs returns |x|.
func Abs(x Interval) Interval {
	if x.empty {
		return Empty()
	}
	if x.lo >= 0 {
		return x
	}
	if x.hi <= 0 {
		return Neg(x)
	}
	return New(0, math.Max(-x.lo, x.hi))
}

// Sgn returns the interval image of the sign function.
func Sgn(x Interval) Interval {
	if x.empty {
		return Empty()
	}
	lo, hi := 0.0, 0.0
	switch {
	case x.lo < 0:
		lo = -1
	case x.lo > 0:
		lo = 1
	}
	switch {
	case x.hi < 0:
		hi = -1
	case x.hi > 0:
		hi = 1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return New(lo, hi)
}

// Sqr returns x².
func Sqr(x Interval) Interval {
	if x.empty {
		return Empty()
	}
	if x.lo >= 0 {
		return New(RoundDown(x.lo*x.lo), RoundUp(x.hi*x.hi))
	}
	if x.hi <= 0 {
		return New(RoundDown(x.hi*x.hi), RoundUp(x.lo*x.lo))
	}
	return New(0, RoundUp(math.Max(x.lo*x.lo, x.hi*x.hi)))
}

// Sqrt returns √x, clamped to x≥0 (√ of a negative part is empty).
func Sqrt(x Interval) Interval {
	nonneg := x.Inter(New(0, math.Inf(1)))
	if nonneg.empty {
		return Empty()
	}
	return New(RoundDown(math.Sqrt(nonneg.lo)), RoundUp(math.Sqrt(nonneg.hi)))
}

// PowInt returns x^n for integer n≥0 (n<0 implemented via Div(1,PowInt(x,-n))).
func PowInt(x Interval, n int) Interval {
	if x.empty {
		return Empty()
	}
	if n == 0 {
		return Point(1)
	}
	if n < 0 {
		return Div(Point(1), PowInt(x, -n))
	}
	if n == 2 {
		return Sqr(x)
	}
	if n%2 == 0 {
		if x.lo >= 0 {
			return New(RoundDown(math.Pow(x.lo, float64(n))), RoundUp(math.Pow(x.hi, float64(n))))
		}
		if x.hi <= 0 {
			return New(RoundDown(math.Pow(-x.hi, float64(n))), RoundUp(math.Pow(-x.lo, float64(n))))
		}
		m := math.Max(math.Pow(-x.lo, float64(n)), math.Pow(x.hi, float64(n)))
		return New(0, RoundUp(m))
	}
	// odd power: monotone increasing
	return New(RoundDown(math.Copysign(math.Pow(math.Abs(x.lo), float64(n)), x.lo)),
		RoundUp(math.Copysign(math.Pow(math.Abs(x.hi), float64(n)), x.hi)))
}

// Exp returns e^x.
func Exp(x Interval) Interval {
	if x.empty {
		return Empty()
	}
	return New(RoundDown(math.Exp(x.lo)), RoundUp(math.Exp(x.hi)))
}

// Log returns ln(x), clamped to x>0.
func Log(x Interval) Interval {
	pos := x.Inter(New(math.SmallestNonzeroFloat64, math.Inf(1)))
	if pos.empty {
		return Empty()
	}
	return New(RoundDown(math.Log(pos.lo)), RoundUp(math.Log(pos.hi)))
}

// Sin returns the interval image of sin over x. A conservative fallback to
// [-1,1] is used once the width exceeds 2π, since tracking monotonic arcs
// precisely needs periodic case analysis; within a period it tracks
// critical points exactly.
func Sin(x Interval) Interval { return trig(x, math.Sin, math.Pi/2) }

// Cos returns the interval image of cos over x, same discipline as Sin.
func Cos(x Interval) Interval { return trig(x, math.Cos, 0) }

func trig(x Interval, f func(float64) float64, peakPhase float64) Interval {
	if x.empty {
		return Empty()
	}
	if x.Width() >= 2*math.Pi {
		return New(-1, 1)
	}
	lo, hi := f(x.lo), f(x.hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	// Check whether a critical point (where derivative is 0) of f, i.e.
	// x = peakPhase + k*pi/2 steps of pi, falls inside [x.lo, x.hi].
	for k := math.Floor((x.lo - peakPhase) / math.Pi); ; k++ {
		crit := peakPhase + k*math.Pi
		if crit > x.hi {
			break
		}
		if crit >= x.lo {
			v := f(crit)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return New(RoundDown(lo), RoundUp(hi))
}

// Tan returns the interval image of tan over x; Whole() if x straddles an
// asymptote at pi/2 + k*pi.
func Tan(x Interval) Interval {
	if x.empty {
		return Empty()
	}
	for k := math.Floor((x.lo - math.Pi/2) / math.Pi); ; k++ {
		asym := math.Pi/2 + k*math.Pi
		if asym > x.hi {
			break
		}
		if asym > x.lo && asym < x.hi {
			return Whole()
		}
	}
	lo, hi := math.Tan(x.lo), math.Tan(x.hi)
	if lo > hi {
		return Whole()
	}
	return New(RoundDown(lo), RoundUp(hi))
}
