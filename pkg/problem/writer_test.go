package problem

import (
	"strings"
	"testing"

	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoVarScope() (*ncsp.Variable, *ncsp.Variable, *ncsp.Scope) {
	bank := ncsp.NewBank()
	x := bank.NewVariable("x", ncsp.Real, ncsp.DefaultTolerance)
	y := bank.NewVariable("y", ncsp.Real, ncsp.DefaultTolerance)
	return x, y, ncsp.NewScope(x, y)
}

func TestWriteSolutionsRendersOnePerLine(t *testing.T) {
	_, _, scope := twoVarScope()
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 1), interval.New(2, 3)})
	rep := &Report{Solutions: []SolutionBox{{Box: box, Proof: ncsp.Feasible}}}

	var buf strings.Builder
	require.NoError(t, WriteSolutions(&buf, scope, rep, false))
	out := buf.String()
	assert.Contains(t, out, "SOLUTION 1")
	assert.Contains(t, out, "safe")
	assert.Contains(t, out, "x = [0, 1]")
	assert.Contains(t, out, "y = [2, 3]")
}

func TestWriteSolutionsRendersVecScopeLine(t *testing.T) {
	_, _, scope := twoVarScope()
	box := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(0, 1), interval.New(2, 3)})
	rep := &Report{Solutions: []SolutionBox{{Box: box, Proof: ncsp.Inner}}}

	var buf strings.Builder
	require.NoError(t, WriteSolutions(&buf, scope, rep, true))
	out := buf.String()
	assert.Contains(t, out, "inner")
	assert.Contains(t, out, "SCOPE = [0,1] [2,3]")
}

func TestWriteSolutionsAppendsPendingHullOnPartialStatus(t *testing.T) {
	_, _, scope := twoVarScope()
	hull := ncsp.NewIntervalBox(scope, []interval.Interval{interval.New(-1, 1), interval.New(-1, 1)})
	rep := &Report{Partial: true, PendingHull: hull, PendingCount: 3}

	var buf strings.Builder
	require.NoError(t, WriteSolutions(&buf, scope, rep, false))
	assert.Contains(t, buf.String(), "HULL OF PENDING NODES 3")
}
