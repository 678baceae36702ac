package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("BREAKEVEN_DATA_DIR", dir)
	for _, key := range []string{
		"REDIS_ADDR", "REPORT_PATH", "GO_PORT", "LOG_LEVEL",
		"SENSITIVITY_WORKERS", "RECOMMENDATION_THRESHOLD_YEARS",
		"ARCHIVE_ENDPOINT", "ARCHIVE_BUCKET",
		"ARCHIVE_ACCESS_KEY_ID", "ARCHIVE_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestDepositCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "deposit")
	require.NoError(t, err)

	assert.Contains(t, out, "Principal: 3,000,000.00, rate: 19.00%, years: 5")
	assert.Contains(t, out, "Final amount: 7,159,060.98")
	assert.Contains(t, out, "Total income: 4,159,060.98")
}

func TestDepositCommand_RejectsBadYears(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "deposit", "--years", "0")
	assert.Error(t, err)
}

func TestDepositCommand_RejectsNonFinite(t *testing.T) {
	setupEnv(t)

	for _, args := range [][]string{
		{"--rate", "NaN"},
		{"--rate", "Inf"},
		{"--principal", "Inf"},
		{"--principal", "NaN"},
		{"--rate", "1e300", "--years", "3"},
	} {
		_, err := execute(t, append([]string{"deposit"}, args...)...)
		assert.Error(t, err, args)
	}
}

func TestRunCommand_OverflowingScenario(t *testing.T) {
	dir := setupEnv(t)

	scenario := filepath.Join(dir, "overflow.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte("deposit_rate: 1e300\n"), 0644))

	_, err := execute(t, "run", "--scenario", scenario)
	assert.Error(t, err)
}

func TestSensitivityCommand_DefaultRange(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "sensitivity", "--workers", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "5.00%")
	assert.Contains(t, out, "25.00%")
	assert.Contains(t, out, "2 of 10 sampled rates reach break-even (from 22.78%, years 8-9)")
}

func TestSensitivityCommand_RejectsBadRange(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "sensitivity", "--samples", "0")
	assert.Error(t, err)
}

func TestRunCommand_Defaults(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Break-even is not reached within the horizon.")
	assert.Contains(t, out, "Recommendation: favor deposit")

	reportPath := filepath.Join(dir, "investment_report.txt")
	assert.Contains(t, out, "Report written to "+reportPath)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Investment report")
	assert.Contains(t, string(content), "Recommendation: favor deposit")
}

func TestRunCommand_ScenarioAndThreshold(t *testing.T) {
	dir := setupEnv(t)

	scenario := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte("deposit_rate: 0.35\n"), 0644))
	reportPath := filepath.Join(dir, "reports", "custom.txt")

	out, err := execute(t, "run", "--scenario", scenario, "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Break-even reached after 5 years.")
	assert.Contains(t, out, "Recommendation: requires further risk analysis")
	assert.FileExists(t, reportPath)

	out, err = execute(t, "run", "--scenario", scenario, "--report", reportPath, "--threshold", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Recommendation: favor real estate purchase")
}

func TestRunCommand_InvalidScenario(t *testing.T) {
	dir := setupEnv(t)

	scenario := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte("investment_horizon_years: 0\n"), 0644))

	_, err := execute(t, "run", "--scenario", scenario)
	assert.Error(t, err)
}
