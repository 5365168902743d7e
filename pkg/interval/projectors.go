package interval

import "math"

// Relational projectors (§4.1): for z = op(x,y), AddPX/AddPY/AddPZ etc.
// return the hull of {x∈X | ∃y∈Y, z=op(x,y)∈Z}, narrowing one operand given
// the other operand and the (already narrowed) result. Every projector is
// sound (never excludes a real solution) and conservative (never returns
// wider than the operand it narrows). These are the backward step of HC4
// (§4.3 hc4Revise): the op's forward value lives in node.val, the allowed
// result lives in node.dom, and each child's dom is intersected with the
// projector's output.

// AddPX narrows X given Y and Z=X+Y, i.e. X := X ∩ (Z-Y).
func AddPX(x, y, z Interval) Interval { return x.Inter(Sub(z, y)) }

// AddPY narrows Y given X and Z=X+Y.
func AddPY(x, y, z Interval) Interval { return y.Inter(Sub(z, x)) }

// SubPX narrows X given Y and Z=X-Y, i.e. X := X ∩ (Z+Y).
func SubPX(x, y, z Interval) Interval { return x.Inter(Add(z, y)) }

// SubPY narrows Y given X and Z=X-Y, i.e. Y := Y ∩ (X-Z).
func SubPY(x, y, z Interval) Interval { return y.Inter(Sub(x, z)) }

// MulPX narrows X given Y and Z=X*Y.
func MulPX(x, y, z Interval) Interval {
	if y.Contains(0) && !z.Contains(0) {
		// z = x*y with y touching/crossing 0 but z not: x must stay bounded
		// by whichever piece of the extended division is consistent.
		return intersectExtDiv(x, z, y)
	}
	return intersectExtDiv(x, z, y)
}

// MulPY narrows Y given X and Z=X*Y.
func MulPY(x, y, z Interval) Interval { return intersectExtDiv(y, z, x) }

func intersectExtDiv(operand, z, other Interval) Interval {
	single, right, two := DivExt(z, other)
	if !two {
		return operand.Inter(single)
	}
	a := operand.Inter(single)
	b := operand.Inter(right)
	return a.Hull(b)
}

// DivPX narrows X given Y and Z=X/Y, i.e. X := X ∩ (Y*Z).
func DivPX(x, y, z Interval) Interval { return x.Inter(Mul(y, z)) }

// DivPY narrows Y given X and Z=X/Y: Y := Y ∩ {y | x/y ∈ Z}, computed via
// the extended division of X by Z (since y = x/z when nonzero).
func DivPY(x, y, z Interval) Interval { return intersectExtDiv(y, x, z) }

// MinPX narrows X given Y and Z=min(X,Y).
func MinPX(x, y, z Interval) Interval {
	if z.hi < y.lo {
		return x.Inter(New(z.lo, z.hi))
	}
	return x.Inter(New(z.lo, x.Hi()))
}

// MinPY narrows Y given X and Z=min(X,Y).
func MinPY(x, y, z Interval) Interval { return MinPX(y, x, z) }

// MaxPX narrows X given Y and Z=max(X,Y).
func MaxPX(x, y, z Interval) Interval {
	if z.lo > y.hi {
		return x.Inter(New(z.lo, z.hi))
	}
	return x.Inter(New(x.Lo(), z.hi))
}

// MaxPY narrows Y given X and Z=max(X,Y).
func MaxPY(x, y, z Interval) Interval { return MaxPX(y, x, z) }

// SqrPX narrows X given Z=X², i.e. X := X ∩ (±√Z).
func SqrPX(x, z Interval) Interval {
	root := Sqrt(z)
	if root.empty {
		return Empty()
	}
	pos := x.Inter(root)
	neg := x.Inter(Neg(root))
	return pos.Hull(neg)
}

// SqrtPX narrows X given Z=√X, i.e. X := X ∩ Z².
func SqrtPX(x, z Interval) Interval { return x.Inter(Sqr(z)) }

// AbsPX narrows X given Z=|X|.
func AbsPX(x, z Interval) Interval {
	pos := x.Inter(z)
	neg := x.Inter(Neg(z))
	return pos.Hull(neg)
}

// SgnPX narrows X given Z=sgn(X). Sgn's projector cannot exclude the single
// point 0 from a continuous interval without producing a disconnected set,
// so away from a definite-sign Z it conservatively keeps X's bound on the
// matching side rather than trying to punch out {0}.
func SgnPX(x, z Interval) Interval {
	switch {
	case z.hi < 0:
		return x.Inter(New(math.Inf(-1), 0))
	case z.lo > 0:
		return x.Inter(New(0, math.Inf(1)))
	case z.Equal(Point(0)):
		return x.Inter(Point(0))
	default:
		return x
	}
}

// UsubPX narrows X given Z=-X.
func UsubPX(z Interval) Interval { return Neg(z) }

// PowPX narrows X given Z=X^n (integer n) using the inverse of PowInt; for
// even n this is two-valued like Sqr, for odd n it is single-valued.
func PowPX(x Interval, n int, z Interval) Interval {
	if n == 2 {
		return SqrPX(x, z)
	}
	if n%2 == 0 {
		root := nthRoot(z, n)
		pos := x.Inter(root)
		neg := x.Inter(Neg(root))
		return pos.Hull(neg)
	}
	root := nthRoot(z, n)
	return x.Inter(root)
}

func nthRoot(z Interval, n int) Interval {
	nonneg := z.Inter(New(0, math.Inf(1)))
	if nonneg.empty {
		return Empty()
	}
	lo := rootOf(nonneg.lo, n)
	hi := rootOf(nonneg.hi, n)
	return New(RoundDown(lo), RoundUp(hi))
}

func rootOf(v float64, n int) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 1.0/float64(n))
}

// ExpPX narrows X given Z=e^X, i.e. X := X ∩ ln(Z).
func ExpPX(x, z Interval) Interval { return x.Inter(Log(z)) }

// LogPX narrows X given Z=ln(X), i.e. X := X ∩ e^Z.
func LogPX(x, z Interval) Interval { return x.Inter(Exp(z)) }

// SinPX narrows X given Z=sin(X). This is a deliberate, permanent precision
// narrowing, not a missing feature: a rigorous inverse projector would
// enumerate every branch of sin's periodic preimage within X (the way
// Interval.cpp's trig inversions do) and hull-narrow X to their union; this
// projector instead only ever detects full infeasibility (Sin(X) disjoint
// from Z => Empty) and otherwise leaves X untouched. Both are sound — no
// feasible point is ever cut — this one is just weaker, trading branch
// narrowing for a single hull check. HC4 still converges through the
// forward evaluation and whatever other constraints share these variables.
func SinPX(x, z Interval) Interval {
	if Sin(x).IsDisjoint(z) {
		return Empty()
	}
	return x
}

// CosPX is SinPX's Cos analogue: same deliberate disjoint-hull-only
// narrowing, same soundness argument.
func CosPX(x, z Interval) Interval {
	if Cos(x).IsDisjoint(z) {
		return Empty()
	}
	return x
}

// TanPX is SinPX's Tan analogue: same deliberate disjoint-hull-only
// narrowing, same soundness argument.
func TanPX(x, z Interval) Interval {
	if Tan(x).IsDisjoint(z) {
		return Empty()
	}
	return x
}
