package search

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/contractor"
	"github.com/paveproof/ncsp/pkg/dag"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoVarBox(bank *ncsp.Bank) (*ncsp.Variable, *ncsp.Variable, *ncsp.IntervalBox) {
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{
		interval.New(-1, 5),
		interval.New(0, 1),
	})
	return x, y, box
}

func TestMaxDomPicksWidestDomain(t *testing.T) {
	bank := ncsp.NewBank()
	x, _, box := twoVarBox(bank)

	v, ok := MaxDom{}.Select(box)
	require.True(t, ok)
	assert.Equal(t, x, v)
}

func TestSFPicksNarrowestDomain(t *testing.T) {
	bank := ncsp.NewBank()
	_, y, box := twoVarBox(bank)

	v, ok := SF{}.Select(box)
	require.True(t, ok)
	assert.Equal(t, y, v)
}

func TestSelectorDeclinesWhenEveryDomainIsCanonical(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.Point(1)})

	_, ok := MaxDom{}.Select(box)
	assert.False(t, ok)
}

func TestSLFPrefersIntegerVariables(t *testing.T) {
	bank := ncsp.NewBank()
	i := bank.NewVariable("i", ncsp.Integer, ncsp.DefaultTolerance)
	r := bank.NewVariable("r", ncsp.Real, ncsp.DefaultTolerance)
	scope := ncsp.NewScope(i, r)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{
		interval.New(0, 10),
		interval.New(0, 100),
	})

	v, ok := SLF{}.Select(box)
	require.True(t, ok)
	assert.Equal(t, i, v)
}

func TestSSRPicksVariableWithLargestJacobianContribution(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	d := dag.NewDAG()
	root := d.Insert(term.Add(term.Mul(term.ConstF(10), term.Var(x)), term.Var(y)))
	f := dag.NewDagFun(d, root, interval.Point(0))

	sys := &contractor.System{Funs: []*dag.DagFun{f}, Vars: []*ncsp.Variable{x, y}}
	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{
		interval.New(-1, 1),
		interval.New(-1, 1),
	})

	v, ok := (SSR{Sys: sys}).Select(box)
	require.True(t, ok)
	assert.Equal(t, x, v)
}

func TestHybridAlternatesBetweenSelectors(t *testing.T) {
	bank := ncsp.NewBank()
	x, y, box := twoVarBox(bank)

	// freq 0.5 accumulates to 1 on every second call: the first call uses SF
	// (narrowest, y), the second MaxDom (widest, x).
	h := NewHybrid(MaxDom{}, SF{}, 0.5)
	first, ok := h.Select(box)
	require.True(t, ok)
	assert.Equal(t, y, first)
	second, ok := h.Select(box)
	require.True(t, ok)
	assert.Equal(t, x, second)
}

func TestSelectorRegistryResolvesByName(t *testing.T) {
	ctor, ok := SelectorRegistry["MaxDom"]
	require.True(t, ok)
	assert.Equal(t, "MaxDom", ctor().Name())
}
