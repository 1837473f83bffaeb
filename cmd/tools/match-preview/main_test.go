package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "testdata/profiles.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	out, err := run(t, "rank", "--profiles", fixture, "--subject", "e1")
	require.NoError(t, err)

	assert.Contains(t, out, "Tom Reid")
	assert.Contains(t, out, "91%")
	assert.Contains(t, out, "Excellent")
	assert.Contains(t, out, "Priya")
	assert.NotContains(t, out, "m3", "zero-score candidates fall under the floor")
	assert.NotContains(t, out, "e2", "same-role profiles are never candidates")
	assert.Contains(t, out, "Showing 2 of 2 matches at or above 10%")
}

func TestRankCommand_Limit(t *testing.T) {
	out, err := run(t, "rank", "-p", fixture, "-s", "e1", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Tom Reid")
	assert.NotContains(t, out, "Priya")
	assert.Contains(t, out, "Showing 1 of 2 matches")
}

func TestRankCommand_Errors(t *testing.T) {
	_, err := run(t, "rank", "--profiles", fixture, "--subject", "ghost")
	assert.ErrorContains(t, err, "PROFILE_NOT_FOUND")

	_, err = run(t, "rank", "--profiles", "testdata/missing.json", "--subject", "e1")
	assert.ErrorContains(t, err, "open profiles")

	_, err = run(t, "rank", "--profiles", fixture)
	assert.ErrorContains(t, err, "subject")
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, "score", "-p", fixture, "-s", "e1", "-c", "m1")
	require.NoError(t, err)
	assert.Contains(t, out, "e1 -> m1: 61 points, 91% (Excellent)")
	assert.Contains(t, out, "Notably more experienced")
	assert.Contains(t, out, "profession")

	out, err = run(t, "score", "-p", fixture, "-s", "e1", "-c", "m1", "--closeness")
	require.NoError(t, err)
	assert.Contains(t, out, "Moderately close in age")
}

func TestScoreCommand_NoReasons(t *testing.T) {
	out, err := run(t, "score", "-p", fixture, "-s", "e1", "-c", "m3")
	require.NoError(t, err)
	assert.Contains(t, out, "0 points, 0% (Poor)")
	assert.Contains(t, out, "No matching reasons")
}

func TestScoreCommand_SameRole(t *testing.T) {
	_, err := run(t, "score", "-p", fixture, "-s", "e1", "-c", "e2")
	assert.ErrorContains(t, err, "needs a mentor")
}

func TestLevelsCommand(t *testing.T) {
	out, err := run(t, "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "GCSEs")
	assert.Contains(t, out, "Doctorate/PhD")
	assert.Less(t, bytes.Index([]byte(out), []byte("GCSEs")), bytes.Index([]byte(out), []byte("Doctorate/PhD")))
}

func TestTasksCommand(t *testing.T) {
	out, err := run(t, "tasks", "--registry", "../../../configs/activity-registry.json")
	require.NoError(t, err)
	assert.Contains(t, out, "rank-candidates")
	assert.Contains(t, out, "calculate-match-score")
	assert.Contains(t, out, "check-match-eligibility")
	assert.Contains(t, out, "Registry 1.0.0: 3 task types")

	_, err = run(t, "tasks", "--registry", "testdata/missing.json")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "match-preview")
	assert.Contains(t, out, "Version: dev")
}
