package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVParamSourceParsesRecognizedKeys(t *testing.T) {
	src := `
# a comment line
TIME_LIMIT = 30.5
NODE_LIMIT = 1000
SOLUTION_LIMIT = 5
XTOL = 1e-8A
SPLIT_SELECTOR = SSR
PREPROCESSING = NO
`
	p, err := NewKVParamSource(src).Load()
	require.NoError(t, err)
	assert.Equal(t, 30.5, p.TimeLimitSec)
	assert.Equal(t, 1000, p.NodeLimit)
	assert.Equal(t, 5, p.SolutionLimit)
	assert.Equal(t, "1e-8A", p.XTol)
	assert.Equal(t, "SSR", p.SplitSelector)
	assert.Equal(t, "NO", p.Preprocessing)
}

func TestKVParamSourceKeepsUnknownKeysInExtra(t *testing.T) {
	p, err := NewKVParamSource("CUSTOM_FLAG = 7\n").Load()
	require.NoError(t, err)
	assert.Equal(t, "7", p.Extra["CUSTOM_FLAG"])
}

func TestKVParamSourceRejectsMalformedLine(t *testing.T) {
	_, err := NewKVParamSource("NOT_A_KV_LINE\n").Load()
	require.Error(t, err)
}

func TestKVParamSourceRejectsNonNumericLimit(t *testing.T) {
	_, err := NewKVParamSource("NODE_LIMIT = abc\n").Load()
	require.Error(t, err)
}

func TestDefaultParamSetMatchesDocumentedDefaults(t *testing.T) {
	p := DefaultParamSet()
	assert.Equal(t, "HC4", p.PropagationBase)
	assert.Equal(t, "BISECTION", p.SplitSlicer)
	assert.Equal(t, "DFS", p.BPNodeSelection)
	assert.Equal(t, 1e-6, p.SolutionClusterGap)
	assert.Equal(t, "STD", p.DisplayRegion)
	assert.Equal(t, 1.125, p.InflationDelta)
}

func TestKVParamSourceParsesFactorsAndIterationCaps(t *testing.T) {
	src := `
INFLATION_DELTA = 1.5
INFLATION_CHI = 1e-8
BC3_PEEL_FACTOR = 0.2
NEWTON_CERTIFY_ITER_LIMIT = 30
PROPAGATION_WITH_NEWTON = YES
DISPLAY_REGION = VEC
`
	p, err := NewKVParamSource(src).Load()
	require.NoError(t, err)
	assert.Equal(t, 1.5, p.InflationDelta)
	assert.Equal(t, 1e-8, p.InflationChi)
	assert.Equal(t, 0.2, p.BC3PeelFactor)
	assert.Equal(t, 30, p.NewtonCertifyIterLimit)
	assert.Equal(t, "YES", p.PropagationWithNewton)
	assert.Equal(t, "VEC", p.DisplayRegion)
}
