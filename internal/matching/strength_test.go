package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrengthLabel(t *testing.T) {
	cases := map[int]string{
		100: StrengthExcellent,
		90:  StrengthExcellent,
		89:  StrengthGreat,
		80:  StrengthGreat,
		75:  StrengthGood,
		70:  StrengthGood,
		50:  StrengthFair,
		49:  StrengthPoor,
		0:   StrengthPoor,
	}
	for pct, want := range cases {
		assert.Equal(t, want, StrengthLabel(pct), "percentage %d", pct)
	}
}

func TestReasonCategories(t *testing.T) {
	reasons := []string{
		"Higher mentor education level",
		"Same county",
		"Potentially desired profession matched",
		"Significantly more experienced mentor",
		"Very close in age",
		"3 hobby/interests matched",
		"2 skill(s) matched",
		"1 industry matched",
		"4 industries matched",
		"Something new",
	}
	assert.Equal(t, []string{
		CategoryEducation,
		CategoryCounty,
		CategoryProfession,
		CategoryAge,
		CategoryAge,
		CategoryHobbies,
		CategorySkills,
		CategoryIndustries,
		CategoryIndustries,
		CategoryOther,
	}, ReasonCategories(reasons))
}

func TestEducationLevels(t *testing.T) {
	levels := EducationLevels()
	require.Len(t, levels, 10)
	assert.Equal(t, "GCSEs", levels[0])
	assert.Equal(t, "Doctorate/PhD", levels[len(levels)-1])

	prev := -1
	for _, l := range levels {
		rank, err := EncodeEducation(l)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank, prev)
		prev = rank
	}

	_, err := EncodeEducation("gcses")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 67, w.MaxScore())
	assert.NoError(t, w.Validate())

	w.Age = -2
	assert.Error(t, w.Validate())
	assert.Error(t, Weights{}.Validate())
}
