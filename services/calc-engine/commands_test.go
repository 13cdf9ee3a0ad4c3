package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial_analysis/pkg/core/calc"
)

const sampleFile = "../../testdata/acme.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze_JSON(t *testing.T) {
	out, err := run(t, "analyze", "--file", sampleFile, "--company", "Acme", "--sector", "manufacturing")
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.EqualValues(t, calc.Total(), rep["total_metric_count"])
	assert.Equal(t, "Acme", rep["metadata"].(map[string]any)["company_name"])
}

func TestAnalyze_Markdown(t *testing.T) {
	out, err := run(t, "analyze", "--file", sampleFile, "--company", "Acme", "--format", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Financial Analysis: Acme"))
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err, "file is required")

	_, err = run(t, "analyze", "--file", sampleFile, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "analyze", "--file", sampleFile, "--sector", "astrology")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "--file", sampleFile)
	require.NoError(t, err)
	assert.Contains(t, out, "OK    balance_sheet")

	path := filepath.Join(t.TempDir(), "off.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"balance_sheet": {"total_assets": 100, "total_liabilities": 30, "total_equity": 50}}`), 0o644))
	out, err = run(t, "check", "--file", path)
	assert.ErrorContains(t, err, "1 integrity check(s) failed")
	assert.Contains(t, out, "out of balance by 20.00")
}

func TestRoster(t *testing.T) {
	out, err := run(t, "roster")
	require.NoError(t, err)
	assert.Contains(t, out, "current_ratio")
	assert.Contains(t, out, "altman_z_score")
}

func TestBenchmarks(t *testing.T) {
	out, err := run(t, "benchmarks", "--sector", "banking")
	require.NoError(t, err)
	assert.Contains(t, out, "debt_to_equity")

	_, err = run(t, "benchmarks", "--sector", "astrology")
	assert.ErrorContains(t, err, "unknown sector")
}
