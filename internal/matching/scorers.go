package matching

import (
	"fmt"
	"math"
	"strings"

	"mentor-matching/internal/models"
)

// softAgeDiffLimit is the age gap, in years, at which the age ramp saturates.
const softAgeDiffLimit = 25

const (
	reasonEducation          = "Higher mentor education level"
	reasonCounty             = "Same county"
	reasonProfessionFull     = "Desired profession matched"
	reasonProfessionPartial  = "Potentially desired profession matched"
	reasonHobbiesSuffix      = "hobby/interests matched"
	reasonSkillsSuffix       = "skill(s) matched"
	reasonIndustrySingular   = "industry matched"
	reasonIndustriesSuffix   = "industries matched"
	reasonExperienced        = "More experienced mentor"
	reasonNotablyExperienced = "Notably more experienced mentor"
	reasonSignificantlyExp   = "Significantly more experienced mentor"
	reasonVeryClose          = "Very close in age"
	reasonModeratelyClose    = "Moderately close in age"
)

type ageTier struct {
	years  int
	reason string
}

// Ascending: the first tier whose threshold is above the gap wins.
var experienceTiers = []ageTier{
	{10, reasonExperienced},
	{15, reasonNotablyExperienced},
	{20, reasonSignificantlyExp},
}

// Descending: the first tier whose threshold the gap exceeds wins.
var closenessTiers = []ageTier{
	{10, reasonModeratelyClose},
	{5, reasonVeryClose},
}

func scoreEducation(weight int, subject, candidate *models.Profile) (int, string, error) {
	subjectRank, err := EncodeEducation(subject.EducationLevel)
	if err != nil {
		return 0, "", fmt.Errorf("profile %s: %w", subject.ID, err)
	}
	candidateRank, err := EncodeEducation(candidate.EducationLevel)
	if err != nil {
		return 0, "", fmt.Errorf("profile %s: %w", candidate.ID, err)
	}

	delta := 0.5 * float64(weight) * float64(subjectRank-candidateRank)
	if delta < 0 {
		if subject.IsMentor {
			return 0, "", nil
		}
		delta = -delta
	}
	if delta <= 0 {
		return 0, "", nil
	}
	return int(math.Ceil(delta)), reasonEducation, nil
}

// scoreExact awards weight when both values are equal and non-empty.
func scoreExact(weight int, a, b string) int {
	if a == "" || a != b {
		return 0
	}
	return weight
}

func scoreCounty(weight int, subject, candidate *models.Profile) (int, string) {
	points := scoreExact(weight, strings.TrimSpace(subject.County), strings.TrimSpace(candidate.County))
	if points == 0 {
		return 0, ""
	}
	return points, reasonCounty
}

// scoreReligion never produces a reason; the signal is scored but not shown.
func scoreReligion(weight int, subject, candidate *models.Profile) int {
	return scoreExact(weight, strings.TrimSpace(subject.Religion), strings.TrimSpace(candidate.Religion))
}

func scoreProfession(weight int, subject, candidate *models.Profile) (int, string) {
	subjectCurrent := strings.TrimSpace(subject.Profession)
	candidateCurrent := strings.TrimSpace(candidate.Profession)
	subjectPast := nonEmpty(subject.PastProfessions)
	candidatePast := nonEmpty(candidate.PastProfessions)

	fullMatch := contains(subjectPast, candidateCurrent) ||
		contains(candidatePast, subjectCurrent) ||
		(subjectCurrent != "" && subjectCurrent == candidateCurrent) ||
		countOverlap(subjectPast, candidatePast) > 0
	if fullMatch {
		return weight, reasonProfessionFull
	}

	subjectCurrentWords := tokenize(subjectCurrent)
	candidateCurrentWords := tokenize(candidateCurrent)
	subjectPastWords := tokenize(strings.Join(subjectPast, " "))
	candidatePastWords := tokenize(strings.Join(candidatePast, " "))

	partial := countOverlap(subjectCurrentWords, candidatePastWords) > 0 ||
		countOverlap(candidateCurrentWords, subjectPastWords) > 0 ||
		countOverlap(subjectCurrentWords, candidateCurrentWords) > 0
	if !partial {
		return 0, ""
	}

	points := weight / 2
	if points == 0 {
		return 0, ""
	}
	return points, reasonProfessionPartial
}

func scoreAge(weight int, subject, candidate *models.Profile, olderMentorPreferred bool) (int, string) {
	gap := subject.Age - candidate.Age
	if gap < 0 {
		gap = -gap
	}

	var points int
	var reason string
	if olderMentorPreferred {
		mentorAge, menteeAge := subject.Age, candidate.Age
		if !subject.IsMentor {
			mentorAge, menteeAge = candidate.Age, subject.Age
		}
		if mentorAge < menteeAge {
			return 0, ""
		}
		points = int(math.Ceil(float64(weight) * float64(gap) / softAgeDiffLimit))
		if points > weight {
			points = weight
		}
		for _, tier := range experienceTiers {
			if gap < tier.years {
				reason = tier.reason
				break
			}
		}
	} else {
		if gap >= softAgeDiffLimit {
			return 0, ""
		}
		points = int(math.Ceil(float64(weight) - float64(gap*weight)/softAgeDiffLimit))
		if points < 0 {
			points = 0
		}
		for _, tier := range closenessTiers {
			if gap > tier.years {
				reason = tier.reason
				break
			}
		}
	}

	if points == 0 {
		return 0, ""
	}
	return points, reason
}

func scoreHobbies(weight int, subject, candidate *models.Profile) (int, string) {
	n := countOverlap(subject.Hobbies, candidate.Hobbies)
	if n == 0 || weight == 0 {
		return 0, ""
	}
	return n * weight, fmt.Sprintf("%d %s", n, reasonHobbiesSuffix)
}

// scoreSkills compares what the mentor offers with what the mentee is looking for.
func scoreSkills(weight int, subject, candidate *models.Profile) (int, string) {
	var n int
	if subject.IsMentor {
		n = countOverlap(subject.Skills, candidate.LookingFor)
	} else {
		n = countOverlap(subject.LookingFor, candidate.Skills)
	}
	if n == 0 || weight == 0 {
		return 0, ""
	}
	return n * weight, fmt.Sprintf("%d %s", n, reasonSkillsSuffix)
}

func scoreIndustries(weight int, subject, candidate *models.Profile) (int, string) {
	n := countOverlap(subject.Industries, candidate.Industries)
	if n == 0 || weight == 0 {
		return 0, ""
	}
	if n == 1 {
		return weight, "1 " + reasonIndustrySingular
	}
	return n * weight, fmt.Sprintf("%d %s", n, reasonIndustriesSuffix)
}

// countOverlap returns the size of the set intersection of a and b.
func countOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		if v != "" {
			inB[v] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(a))
	n := 0
	for _, v := range a {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := inB[v]; ok {
			n++
		}
	}
	return n
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
