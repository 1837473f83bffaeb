package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cms "mentor-matching/internal/workers/matching/calculate-match-score"
	cme "mentor-matching/internal/workers/matching/check-match-eligibility"
	rc "mentor-matching/internal/workers/matching/rank-candidates"
)

func TestShippedRegistryCoversWorkers(t *testing.T) {
	missing, err := unregisteredTaskTypes(filepath.Join("..", "..", activityRegistryPath),
		[]string{rc.TaskType, cms.TaskType, cme.TaskType})
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestUnregisteredTaskTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities": [
		{"id": "rank", "displayName": "Rank", "category": "matching", "taskType": "rank-candidates"}
	]}`), 0o644))

	missing, err := unregisteredTaskTypes(path, []string{"rank-candidates", "calculate-match-score"})
	require.NoError(t, err)
	assert.Equal(t, []string{"calculate-match-score"}, missing)

	require.NoError(t, os.WriteFile(path, []byte(`{"activities": []}`), 0o644))
	_, err = unregisteredTaskTypes(path, nil)
	assert.ErrorContains(t, err, "no activities")
}
