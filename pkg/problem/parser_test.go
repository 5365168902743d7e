package problem

import (
	"testing"

	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesVariablesAndSimpleConstraint(t *testing.T) {
	src := `
Variables x in [-2, 2], y in [-2, 2];
Constraints x^2 + y^2 <= 1;
`
	p, err := NewGrammarSource("circle", src).Load()
	require.NoError(t, err)
	require.Len(t, p.Vars, 2)
	assert.Equal(t, "x", p.Vars[0].Name())
	assert.Equal(t, "y", p.Vars[1].Name())
	require.Len(t, p.Constraints, 1)
	assert.Equal(t, -2.0, p.InitialBox.At(0).Lo())
	assert.Equal(t, 2.0, p.InitialBox.At(0).Hi())
}

func TestLoadAppliesVariableToleranceAndIntegerKind(t *testing.T) {
	src := `
Variables x in [0, 10] tol 1e-4A, i integer in [0, 5];
Constraints x >= 0;
`
	p, err := NewGrammarSource("p", src).Load()
	require.NoError(t, err)
	require.Len(t, p.Vars, 2)
	assert.InDelta(t, 1e-4, p.Vars[0].Tolerance().Value, 1e-12)
	assert.Equal(t, ncsp.Integer, p.Vars[1].Kind())
}

func TestLoadResolvesConstantsAndAliases(t *testing.T) {
	src := `
Variables x in [0, 10];
Constants c = 5;
Aliases e = x + c;
Constraints e == 10;
`
	p, err := NewGrammarSource("p", src).Load()
	require.NoError(t, err)
	require.Len(t, p.Constraints, 1)
}

func TestLoadExpandsUserFunctionCall(t *testing.T) {
	src := `
Variables x in [-5, 5], y in [-5, 5];
Functions f(u, v) = u*u + v;
Constraints f(x, y) == 0;
`
	p, err := NewGrammarSource("p", src).Load()
	require.NoError(t, err)
	require.Len(t, p.Constraints, 1)
	assert.Equal(t, 2, p.Constraints[0].Scope().Len())
}

func TestLoadParsesTableConstraint(t *testing.T) {
	src := `
Variables x in [0, 5], y in [0, 5];
Constraints table({x,y}, {0,1, 2,3});
`
	p, err := NewGrammarSource("p", src).Load()
	require.NoError(t, err)
	require.Len(t, p.Constraints, 1)
}

func TestLoadRejectsUndeclaredIdentifier(t *testing.T) {
	src := `
Variables x in [0, 5];
Constraints x + z <= 1;
`
	_, err := NewGrammarSource("p", src).Load()
	require.Error(t, err)
}

func TestLoadRejectsMalformedVariableSection(t *testing.T) {
	src := `Variables x [0, 5];`
	_, err := NewGrammarSource("p", src).Load()
	require.Error(t, err)
}
