package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor-matching/internal/matching"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: mentoring
    user: matcher
`

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "mentor-matching", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.HealthPort)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "mentor-matching", cfg.Observability.ServiceName)

	m := cfg.Matching
	assert.Equal(t, matching.DefaultWeights(), m.Weights)
	assert.Equal(t, SourcePostgres, m.CandidateSource)
	assert.Equal(t, FetchBatch, m.FetchMode)
	assert.Equal(t, 8, m.Concurrency)
	assert.Equal(t, 2*time.Second, GetDuration(m.CandidateTimeout))
	assert.Equal(t, "mentor_profiles", m.Index)
	assert.Equal(t, 50, m.MaxItems)
	assert.True(t, m.DefaultOlderMentorPreferred())
}

func TestLoadFromFile_MatchingSection(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: zeebe:26500
database:
  elasticsearch:
    addresses: ["http://es:9200"]
workers:
  rank-candidates:
    enabled: true
    max_jobs_active: 12
matching:
  candidate_source: elasticsearch
  fetch_mode: fanout
  concurrency: 4
  older_mentor_preferred: false
  weights:
    profession: 30
    skills: 10
    industries: 10
    education_level: 6
    hobbies: 4
    county: 4
    age: 6
    religion: 0
`))
	require.NoError(t, err)

	assert.Equal(t, "http://es:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, SourceElasticsearch, cfg.Matching.CandidateSource)
	assert.Equal(t, FetchFanout, cfg.Matching.FetchMode)
	assert.Equal(t, 4, cfg.Matching.Concurrency)
	assert.False(t, cfg.Matching.DefaultOlderMentorPreferred())
	assert.Equal(t, 30, cfg.Matching.Weights.Profession)
	assert.Equal(t, 0, cfg.Matching.Weights.Religion)

	wc := GetWorkerConfig(cfg, "rank-candidates")
	assert.Equal(t, 12, wc.MaxJobsActive)
	assert.Equal(t, 30000, wc.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "calculate-match-score"))
}

func TestLoadFromFile_PartialWeights(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML+`
matching:
  weights:
    profession: 25
    religion: 0
`))
	require.NoError(t, err)

	want := matching.DefaultWeights()
	want.Profession = 25
	want.Religion = 0
	assert.Equal(t, want, cfg.Matching.Weights)
	assert.Equal(t, 70, cfg.Matching.Weights.MaxScore())
}

func TestLoadFromFile_WeightEnvOverride(t *testing.T) {
	t.Setenv("MATCHING_WEIGHTS_SKILLS", "18")
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 18, cfg.Matching.Weights.Skills)
	assert.Equal(t, 20, cfg.Matching.Weights.Profession)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("MM_DB_HOST", "db.internal")
	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: ${MM_DB_HOST}
    database: mentoring
    user: matcher
`))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "host=db.internal")
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing broker",
			body: `
database:
  postgres: {host: h, database: d, user: u}
`,
			want: "camunda.broker_address",
		},
		{
			name: "postgres source without host",
			body: `
camunda: {broker_address: b}
`,
			want: "database.postgres.host",
		},
		{
			name: "elasticsearch source without address",
			body: `
camunda: {broker_address: b}
matching: {candidate_source: elasticsearch}
`,
			want: "database.elasticsearch",
		},
		{
			name: "unknown source",
			body: `
camunda: {broker_address: b}
matching: {candidate_source: mongo}
`,
			want: "candidate_source",
		},
		{
			name: "unknown fetch mode",
			body: minimalYAML + `
matching: {fetch_mode: stream}
`,
			want: "fetch_mode",
		},
		{
			name: "negative weight",
			body: minimalYAML + `
matching:
  weights: {profession: -1, skills: 1}
`,
			want: "matching.weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			t.Setenv("DB_USER", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
