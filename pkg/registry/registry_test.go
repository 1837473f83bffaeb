package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(writeRegistry(t, `{
		"version": "1.0.0",
		"activities": [
			{"id": "rank", "displayName": "Rank", "category": "matching", "taskType": "rank-candidates"}
		]
	}`))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	a, ok := reg.Find("rank-candidates")
	require.True(t, ok)
	assert.Equal(t, "Rank", a.DisplayName)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))

	_, err = LoadRegistry(writeRegistry(t, `{"activities": [`))
	assert.ErrorContains(t, err, "parse registry")
}

func TestValidate(t *testing.T) {
	valid := Activity{ID: "a", DisplayName: "A", Category: "matching", TaskType: "a"}

	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{"empty", nil, "no activities"},
		{"missing id", []Activity{{DisplayName: "A", Category: "c", TaskType: "a"}}, "ID"},
		{"duplicate id", []Activity{valid, {ID: "a", DisplayName: "B", Category: "c", TaskType: "b"}}, "duplicate activity ID"},
		{"missing task type", []Activity{{ID: "a", DisplayName: "A", Category: "c"}}, "TaskType"},
		{"duplicate task type", []Activity{valid, {ID: "b", DisplayName: "B", Category: "c", TaskType: "a"}}, "duplicate task type"},
		{"missing category", []Activity{{ID: "a", DisplayName: "A", TaskType: "a"}}, "Category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: tt.activities}
			assert.ErrorContains(t, reg.Validate(), tt.wantErr)
		})
	}
}
