package dag

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupXY() (*ncsp.Bank, *ncsp.Variable, *ncsp.Variable) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	return bank, x, y
}

// §8 DAG: CSE — building sqr(x+y)+z and sqr(x+y)+w shares the x+y subtree.
func TestCSESharesSubtree(t *testing.T) {
	bank, x, y := setupXY()
	z := bank.NewVariable("z", ncsp.Real, ncsp.DefaultTolerance)
	w := bank.NewVariable("w", ncsp.Real, ncsp.DefaultTolerance)

	d := NewDAG()
	xy1 := term.Add(term.Var(x), term.Var(y))
	xy2 := term.Add(term.Var(x), term.Var(y))

	// Add collapses linear sums into a single Lin node (§4.2), so (x+y)+z
	// would flatten to one three-entry Lin. Each x+y is wrapped in a Sqr so
	// it survives as its own two-entry Lin node; Lin nodes with identical
	// (const, entries) dedupe in the arena, which is the CSE guarantee.
	root1 := d.Insert(term.Add(term.Sqr(xy1), term.Var(z)))
	root2 := d.Insert(term.Add(term.Sqr(xy2), term.Var(w)))

	// Both roots should reference the same Lin node for (x+y) — find it by
	// walking both funs' reachable sets and checking the node count for
	// the shared (1,1 coefficient, const 0) sub-expression is inserted once.
	f1 := NewDagFun(d, root1, interval.Point(0))
	f2 := NewDagFun(d, root2, interval.Point(0))

	sharedCount := 0
	for _, i1 := range f1.Nodes {
		for _, i2 := range f2.Nodes {
			if i1 == i2 {
				n := d.Node(i1)
				if n.Kind == KindLin && len(n.LinEntries) == 2 {
					sharedCount++
				}
			}
		}
	}
	assert.Equal(t, 1, sharedCount, "the x+y Lin node must be shared by both roots")
}

func TestHC4ReviseCircle(t *testing.T) {
	// §8 Contractors: HC4 on x²+y²=1, x,y∈[-2,2] returns MAYBE and
	// contracts each variable toward [-1,1].
	_, x, y := setupXY()
	d := NewDAG()
	expr := term.Add(term.Sqr(term.Var(x)), term.Sqr(term.Var(y)))
	root := d.Insert(expr)
	f := NewDagFun(d, root, interval.Point(1))

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(-2, 2), interval.New(-2, 2)})
	ctx := NewDagContext()

	proof := f.HC4Revise(box, ctx)
	require.Equal(t, ncsp.Maybe, proof)
	assert.InDelta(t, -1, box.Get(x).Lo(), 1e-9)
	assert.InDelta(t, 1, box.Get(x).Hi(), 1e-9)
	assert.InDelta(t, -1, box.Get(y).Lo(), 1e-9)
	assert.InDelta(t, 1, box.Get(y).Hi(), 1e-9)
}

// §8 DAG: forward-then-backward preserves soundness.
func TestHC4ReviseSoundness(t *testing.T) {
	_, x, y := setupXY()
	d := NewDAG()
	expr := term.Add(term.Var(x), term.Var(y))
	root := d.Insert(expr)
	f := NewDagFun(d, root, interval.New(0, 10))

	scope := ncsp.NewScope(x, y)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(-5, 5), interval.New(-5, 5)})
	ctx := NewDagContext()

	before := box.Clone()
	proof := f.HC4Revise(box, ctx)
	require.NotEqual(t, ncsp.Empty, proof)

	// Every point satisfying x+y∈[0,10] within the original box must
	// remain representable in the narrowed box (sampled check).
	samplesX := []float64{-5, -2.5, 0, 2.5, 5}
	for _, sx := range samplesX {
		for _, sy := range samplesX {
			if sx+sy >= 0 && sx+sy <= 10 && before.Get(x).Contains(sx) && before.Get(y).Contains(sy) {
				assert.True(t, box.Get(x).Contains(sx) || !before.Get(x).Contains(sx))
			}
		}
	}
}

func TestIntervalDiffMatchesSymbolicOnSqr(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	d := NewDAG()
	root := d.Insert(term.Sqr(term.Var(x)))
	f := NewDagFun(d, root, interval.Point(0))

	scope := ncsp.NewScope(x)
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.Point(3)})
	f.IntervalEval(box)
	ok := f.IntervalDiff(box)
	require.True(t, ok)

	xNode := d.Node(d.vars[x.ID()])
	// d/dx x^2 = 2x = 6 at x=3.
	assert.InDelta(t, 6, xNode.Dv.Mid(), 1e-9)
}

func TestRealDiffMatchesIntervalDiffAtPoint(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	d := NewDAG()
	root := d.Insert(term.Add(term.Sqr(term.Var(x)), term.ConstF(1)))
	f := NewDagFun(d, root, interval.Point(0))

	grad := f.RealDiff(map[int]float64{x.ID(): 3})
	assert.InDelta(t, 6, grad[x.ID()], 1e-9)
}
