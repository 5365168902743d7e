package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const circleProblemText = `
Variables x in [-2, 2], y in [-2, 2];
Constraints x^2 + y^2 == 1;
`

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRunWritesSideEffectFilesAndReport(t *testing.T) {
	dir := t.TempDir()
	problemPath := writeFile(t, dir, "circle.ncsp", circleProblemText)
	paramsPath := writeFile(t, dir, "circle.par", "NODE_LIMIT = 5000\nXTOL = 1e-6A\n")

	var out bytes.Buffer
	err := run(&out, problemPath, paramsPath)
	require.NoError(t, err)

	base := filepath.Join(dir, "circle")
	for _, ext := range []string{".sol", ".sta", ".log"} {
		_, statErr := os.Stat(base + ext)
		assert.NoError(t, statErr, "expected %s to be written", ext)
	}

	report := out.String()
	assert.Contains(t, report, "input file")
	assert.Contains(t, report, "search status")
	assert.Contains(t, report, "solution status")
}

func TestRunReportsUsageErrorOnMissingProblemFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := run(&out, filepath.Join(dir, "does-not-exist.ncsp"), "")
	assert.Error(t, err)
}

func TestRunReportsParseErrorOnMalformedProblemFile(t *testing.T) {
	dir := t.TempDir()
	problemPath := writeFile(t, dir, "bad.ncsp", "Variables x [0, 5];")

	var out bytes.Buffer
	err := run(&out, problemPath, "")
	assert.Error(t, err)
}

func TestRootCmdWiresParamsFlag(t *testing.T) {
	dir := t.TempDir()
	problemPath := writeFile(t, dir, "circle.ncsp", circleProblemText)
	paramsPath := writeFile(t, dir, "circle.par", "NODE_LIMIT = 2000\n")

	cmd := newRootCmd()
	cmd.SetArgs([]string{problemPath, "-p", paramsPath})
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "input file")
}
