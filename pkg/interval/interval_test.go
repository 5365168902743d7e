package interval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicArith(t *testing.T) {
	x := New(1, 2)
	y := New(3, 5)

	// Every bound is rounded outward one ULP, even when the result is exact.
	assert.Equal(t, New(RoundDown(4), RoundUp(7)), Add(x, y))
	assert.Equal(t, New(RoundDown(-4), RoundUp(-1)), Sub(x, y))
	assert.Equal(t, New(RoundDown(3), RoundUp(10)), Mul(x, y))
}

func TestEmptyPropagates(t *testing.T) {
	e := Empty()
	x := New(1, 2)
	assert.True(t, Add(x, e).IsEmpty())
	assert.True(t, Mul(x, e).IsEmpty())
	assert.True(t, Sub(e, x).IsEmpty())
}

func TestDivExtSplitsOnStraddlingZero(t *testing.T) {
	x := New(1, 1)
	y := New(-1, 1)
	single, right, two := DivExt(x, y)
	require.True(t, two)
	assert.True(t, single.Hi() <= RoundUp(-1) || math.IsInf(single.Hi(), 1))
	assert.True(t, right.Lo() >= RoundDown(1) || math.IsInf(right.Lo(), -1))
}

func TestDivExtSinglePieceWhenDivisorExcludesZero(t *testing.T) {
	x := New(1, 2)
	y := New(3, 4)
	_, _, two := DivExt(x, y)
	assert.False(t, two)
}

func TestSqrSign(t *testing.T) {
	assert.Equal(t, New(0, RoundUp(4)), Sqr(New(-2, 1)))
	assert.Equal(t, New(RoundDown(1), RoundUp(4)), Sqr(New(1, 2)))
	assert.Equal(t, New(RoundDown(1), RoundUp(4)), Sqr(New(-2, -1)))
}

// §8: soundness — opPZ(X,Y) must contain every op(x,y) for x∈X, y∈Y.
func TestAddSoundnessBySampling(t *testing.T) {
	x, y := New(-3, 5), New(2, 9)
	z := Add(x, y)
	for _, xv := range []float64{-3, 0, 5} {
		for _, yv := range []float64{2, 4, 9} {
			assert.True(t, z.Contains(xv+yv))
		}
	}
}

// §8: projector round-trip — addPX(X,Y,addPZ(X,Y)) ⊆ X.
func TestAddProjectorRoundTrip(t *testing.T) {
	x, y := New(-1, 4), New(2, 3)
	z := Add(x, y)
	xNarrow := AddPX(x, y, z)
	assert.True(t, x.ContainsInterval(xNarrow))
}

func TestHC4CircleExample(t *testing.T) {
	// §8: HC4 on x²+y²=1 contracts a bound-consistent step; here we check
	// the projector used by hc4Revise contracts x² given y² and Z={1}.
	xsq := New(0, 4) // x in [-2,2] => x^2 in [0,4]
	ysq := New(0, 4)
	z := Point(1)
	// x²+y²=1 gives x² = 1 - y² in the backward pass, which is the add
	// projector AddPX(xsq, ysq, z) = xsq ∩ (z - ysq).
	xsqNarrow := AddPX(xsq, ysq, z)
	assert.True(t, xsq.ContainsInterval(xsqNarrow))
}

func TestInflate(t *testing.T) {
	x := New(0.9, 1.1)
	inflated := x.Inflate(1.125, 1e-10)
	assert.True(t, inflated.ContainsInterval(x))
	assert.Greater(t, inflated.Width(), x.Width())
}
