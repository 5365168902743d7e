package ncsp

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankInternsRepeatedScopes(t *testing.T) {
	bank := NewBank()
	x := bank.NewVariable("x", Real, DefaultTolerance)
	y := bank.NewVariable("y", Real, DefaultTolerance)

	s1 := bank.Intern([]*Variable{x, y})
	s2 := bank.Intern([]*Variable{y, x})
	assert.Same(t, s1, s2, "scopes with the same variable set must share representation")
}

func TestScopeOrderedByID(t *testing.T) {
	bank := NewBank()
	a := bank.NewVariable("a", Real, DefaultTolerance)
	b := bank.NewVariable("b", Real, DefaultTolerance)
	c := bank.NewVariable("c", Real, DefaultTolerance)

	s := NewScope(c, a, b)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, a.ID(), s.At(0).ID())
	assert.Equal(t, b.ID(), s.At(1).ID())
	assert.Equal(t, c.ID(), s.At(2).ID())
}

func TestIntervalBoxNarrowAndClone(t *testing.T) {
	bank := NewBank()
	x := bank.NewVariable("x", Real, DefaultTolerance)
	s := NewScope(x)
	box := NewIntervalBox(s, []interval.Interval{interval.New(-2, 2)})

	clone := box.Clone()
	box.Narrow(x, interval.New(0, 2))

	assert.True(t, box.Get(x).Equal(interval.New(0, 2)))
	assert.True(t, clone.Get(x).Equal(interval.New(-2, 2)), "clone must be unaffected by narrowing the original")
}

func TestDomainBoxToIntervalBoxRoundTrip(t *testing.T) {
	bank := NewBank()
	x := bank.NewVariable("x", Real, DefaultTolerance)
	s := NewScope(x)
	db := NewDomainBox(s, []Domain{IntervalDomain{I: interval.New(1, 5)}})

	ib := db.ToIntervalBox()
	assert.True(t, ib.Get(x).Equal(interval.New(1, 5)))

	back := ib.ToDomainBox()
	assert.True(t, back.Get(x).Hull().Equal(interval.New(1, 5)))
}

func TestIntegerDomainRoundTripRounds(t *testing.T) {
	bank := NewBank()
	i := bank.NewVariable("i", Integer, DefaultTolerance)
	s := NewScope(i)
	ib := NewIntervalBox(s, []interval.Interval{interval.New(1.2, 4.8)})
	back := ib.ToDomainBox()
	r, ok := back.Get(i).(Range)
	require.True(t, ok)
	assert.Equal(t, 2, r.Lo)
	assert.Equal(t, 4, r.Hi)
}

func TestMaxWidthIndex(t *testing.T) {
	bank := NewBank()
	x := bank.NewVariable("x", Real, DefaultTolerance)
	y := bank.NewVariable("y", Real, DefaultTolerance)
	s := NewScope(x, y)
	ib := NewIntervalBox(s, []interval.Interval{interval.New(0, 1), interval.New(-5, 5)})
	idx, w := ib.MaxWidthIndex()
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 10.0, w, 1e-9)
}
