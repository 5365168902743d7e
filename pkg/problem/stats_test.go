package problem

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologStatsSinkEmitsOneEvent(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	sink := NewZerologStatsSink(logger)

	sink.Report(Stats{ProblemName: "circle", Nodes: 12, Solutions: 2, Status: "complete"})

	out := buf.String()
	assert.Contains(t, out, "circle")
	assert.Contains(t, out, "solve finished")
}

func TestNopStatsSinkDiscardsReport(t *testing.T) {
	assert.NotPanics(t, func() { NopStatsSink{}.Report(Stats{}) })
}

func TestWriteStatsFileRendersKeyValueLines(t *testing.T) {
	var buf strings.Builder
	st := Stats{
		ProblemName: "circle",
		NumVars:     2,
		Nodes:       10,
		Solutions:   1,
		Status:      "complete",
		Elapsed:     250 * time.Millisecond,
	}
	require.NoError(t, WriteStatsFile(&buf, st))
	out := buf.String()
	assert.Contains(t, out, "PROBLEM = circle")
	assert.Contains(t, out, "NODES = 10")
	assert.Contains(t, out, "STATUS = complete")
	assert.Contains(t, out, "ELAPSED_SEC = 0.25")
}
