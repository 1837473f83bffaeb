// Package matching scores mentor/mentee compatibility and ranks candidate pools.
package matching

import (
	"errors"
	"fmt"
	"math"

	"mentor-matching/internal/models"
)

var (
	ErrUnknownCategory = errors.New("UNKNOWN_CATEGORY")
	ErrProfileNotFound = errors.New("PROFILE_NOT_FOUND")
)

// DefaultOlderMentorPreferred is the age mode used when callers do not choose one.
const DefaultOlderMentorPreferred = true

// MatchResult is the computed compatibility of one candidate with a subject.
type MatchResult struct {
	Candidate  *models.Profile `json:"candidate"`
	Score      int             `json:"score"`
	Percentage int             `json:"percentage"`
	Reasons    []string        `json:"reasons"`
}

// Calculator combines every feature scorer under a fixed weight table.
type Calculator struct {
	weights  Weights
	maxScore int
}

func NewCalculator(weights Weights) (*Calculator, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &Calculator{weights: weights, maxScore: weights.MaxScore()}, nil
}

// Calculate scores candidate against subject. Reasons follow scorer order:
// education, county, profession, age, religion, hobbies, skills, industries.
func (c *Calculator) Calculate(subject, candidate *models.Profile, olderMentorPreferred bool) (*MatchResult, error) {
	w := c.weights
	score := 0
	reasons := make([]string, 0, 8)
	add := func(points int, reason string) {
		score += points
		if points > 0 && reason != "" {
			reasons = append(reasons, reason)
		}
	}

	points, reason, err := scoreEducation(w.EducationLevel, subject, candidate)
	if err != nil {
		return nil, err
	}
	add(points, reason)
	add(scoreCounty(w.County, subject, candidate))
	add(scoreProfession(w.Profession, subject, candidate))
	add(scoreAge(w.Age, subject, candidate, olderMentorPreferred))
	add(scoreReligion(w.Religion, subject, candidate), "")
	add(scoreHobbies(w.Hobbies, subject, candidate))
	add(scoreSkills(w.Skills, subject, candidate))
	add(scoreIndustries(w.Industries, subject, candidate))

	return &MatchResult{
		Candidate:  candidate,
		Score:      score,
		Percentage: c.percentage(score),
		Reasons:    reasons,
	}, nil
}

func (c *Calculator) percentage(score int) int {
	pct := float64(score) / float64(c.maxScore) * 100
	pct = math.Max(0, math.Min(100, pct))
	return int(math.Round(pct))
}
