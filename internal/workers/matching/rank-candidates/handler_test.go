package rankcandidates

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mentor-matching/internal/common/errors"
	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
	"mentor-matching/internal/profilestore"
)

func profile(id string, isMentor bool, mut func(p *models.Profile)) *models.Profile {
	p := &models.Profile{
		ID:             id,
		IsMentor:       isMentor,
		IsMentee:       !isMentor,
		Age:            25,
		EducationLevel: models.EducationBachelors,
	}
	if mut != nil {
		mut(p)
	}
	return p
}

// testStore: one mentee subject, four mentors of falling quality and a second
// mentee that must never show up in the subject's list.
func testStore() *profilestore.MemoryStore {
	return profilestore.NewMemoryStore(
		profile("e1", false, func(p *models.Profile) {
			p.FirstName, p.LastName = "Amira", "Khan"
			p.Profession = "Software Engineer"
			p.County = "Kent"
			p.LookingFor = []string{"Go", "SQL"}
			p.Industries = []string{"Tech"}
		}),
		profile("m-none", true, nil),
		profile("m-low", true, func(p *models.Profile) {
			p.County = "Surrey"
			p.Industries = []string{"Tech"}
		}),
		profile("m-strong", true, func(p *models.Profile) {
			p.FirstName, p.LastName = "Tom", "Reid"
			p.Profession = "Software Engineer"
			p.County = "Kent"
			p.Skills = []string{"Go", "SQL"}
			p.Industries = []string{"Tech"}
		}),
		profile("m-mid", true, func(p *models.Profile) {
			p.County = "Kent"
			p.Skills = []string{"Go"}
		}),
		profile("e2", false, func(p *models.Profile) {
			p.County = "Kent"
			p.Skills = []string{"Go", "SQL"}
		}),
	)
}

func newTestHandler(t *testing.T, cfg *Config) *Handler {
	t.Helper()
	calc, err := matching.NewCalculator(matching.DefaultWeights())
	require.NoError(t, err)
	store := testStore()
	log := logger.NewTestLogger(t)
	ranker := matching.NewRanker(profilestore.NewBatchRetriever(store, store), calc, log)
	if cfg == nil {
		cfg = LoadConfig()
	}
	return NewHandler(cfg, ranker, nil, log)
}

func candidateIDs(matches []Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.CandidateID)
	}
	return ids
}

func TestHandler_Execute_RanksAndFilters(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{SubjectID: "e1"})
	require.NoError(t, err)

	assert.Equal(t, "e1", out.SubjectID)
	_, err = uuid.Parse(out.RankingID)
	assert.NoError(t, err, "rankingId must be a uuid")

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, []string{"m-strong", "m-mid", "m-low"}, candidateIDs(out.Matches))

	top := out.Matches[0]
	assert.Equal(t, "Tom Reid", top.DisplayName)
	assert.Equal(t, 64, top.Score)
	assert.Equal(t, 96, top.Percentage)
	assert.Equal(t, matching.StrengthExcellent, top.Strength)
	assert.Equal(t, []string{
		"Same county",
		"Desired profession matched",
		"2 skill(s) matched",
		"1 industry matched",
	}, top.Reasons)
	assert.Equal(t, []string{
		matching.CategoryCounty,
		matching.CategoryProfession,
		matching.CategorySkills,
		matching.CategoryIndustries,
	}, top.ReasonCategories)

	assert.Equal(t, 28, out.Matches[1].Percentage)
	assert.Equal(t, matching.StrengthPoor, out.Matches[1].Strength)
	assert.Equal(t, 15, out.Matches[2].Percentage)
}

func TestHandler_Execute_ClosenessMode(t *testing.T) {
	h := newTestHandler(t, nil)
	closeness := false

	out, err := h.Execute(context.Background(), &Input{SubjectID: "e1", OlderMentorPreferred: &closeness})
	require.NoError(t, err)

	// same-age pairs earn the full age weight, which lifts m-strong past 100%
	require.NotEmpty(t, out.Matches)
	assert.Equal(t, "m-strong", out.Matches[0].CandidateID)
	assert.Equal(t, 70, out.Matches[0].Score)
	assert.Equal(t, 100, out.Matches[0].Percentage)
}

func TestHandler_Execute_Pagination(t *testing.T) {
	tests := []struct {
		name     string
		maxItems int
		input    Input
		want     []string
	}{
		{"default limit uses max items", 2, Input{}, []string{"m-strong", "m-mid"}},
		{"limit and offset", 50, Input{Limit: 1, Offset: 1}, []string{"m-mid"}},
		{"limit capped by max items", 1, Input{Limit: 10}, []string{"m-strong"}},
		{"offset past end", 50, Input{Offset: 5}, []string{}},
		{"negative offset starts at the top", 50, Input{Limit: 1, Offset: -2}, []string{"m-strong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			cfg.MaxItems = tt.maxItems
			h := newTestHandler(t, cfg)

			tt.input.SubjectID = "e1"
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, 3, out.Total)
			assert.Equal(t, tt.want, candidateIDs(out.Matches))
		})
	}
}

func TestHandler_Execute_UnknownSubject(t *testing.T) {
	h := newTestHandler(t, nil)

	_, err := h.Execute(context.Background(), &Input{SubjectID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, matching.ErrProfileNotFound))
	assert.Equal(t, apperrors.ErrCodeProfileNotFound, apperrors.FromMatchingError(err).Code)
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		vars    string
		wantErr bool
	}{
		{"minimal", `{"subjectId": "e1"}`, false},
		{"full", `{"subjectId": "e1", "olderMentorPreferred": false, "limit": 5, "offset": 10}`, false},
		{"missing subject", `{"limit": 5}`, true},
		{"empty subject", `{"subjectId": ""}`, true},
		{"negative offset", `{"subjectId": "e1", "offset": -1}`, true},
		{"wrong flag type", `{"subjectId": "e1", "olderMentorPreferred": "yes"}`, true},
		{"not json", `subjectId=e1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := parseInput(tt.vars)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "e1", input.SubjectID)
				return
			}
			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
		})
	}
}

func TestParseInput_FlagOverride(t *testing.T) {
	input, err := parseInput(`{"subjectId": "e1", "olderMentorPreferred": false}`)
	require.NoError(t, err)
	require.NotNil(t, input.OlderMentorPreferred)
	assert.False(t, *input.OlderMentorPreferred)

	input, err = parseInput(`{"subjectId": "e1"}`)
	require.NoError(t, err)
	assert.Nil(t, input.OlderMentorPreferred)
}
