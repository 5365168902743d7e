package term

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCollapsesToLin(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)

	sum := Add(Var(x), Var(y))
	lin, ok := sum.(*LinTerm)
	require.True(t, ok)
	assert.Equal(t, 0.0, lin.Const)
	assert.Len(t, lin.Vars, 2)
}

func TestScalarMulCollapsesToLin(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	prod := Mul(ConstF(3), Var(x))
	lin, ok := prod.(*LinTerm)
	require.True(t, ok)
	assert.Equal(t, []float64{3}, lin.Coefs)
}

func TestPow2UsesSqr(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	p := PowInt(Var(x), 2)
	u, ok := p.(*UnaryTerm)
	require.True(t, ok)
	assert.Equal(t, OpSqr, u.Op)
}

func TestEvalConstFoldsConstantSubtree(t *testing.T) {
	sub := Add(ConstF(2), Mul(ConstF(3), ConstF(4)))
	v, ok := EvalConst(sub)
	require.True(t, ok)
	assert.True(t, v.Equal(interval.Point(14)))
}

func TestEvalConstFailsOnVariable(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	_, ok := EvalConst(Add(ConstF(1), Var(x)))
	assert.False(t, ok)
}

func TestZeroCoefficientDrops(t *testing.T) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	// x + y - x should drop x's coefficient to zero.
	sum := Sub(Add(Var(x), Var(y)), Var(x))
	lin, ok := sum.(*LinTerm)
	require.True(t, ok)
	assert.Len(t, lin.Vars, 1)
	assert.Equal(t, y.ID(), lin.Vars[0].ID())
}
