package calculatematchscore

import (
	"mentor-matching/internal/common/validation"
	"mentor-matching/internal/models"
)

// Input names each side either by id or inline; an inline profile wins.
type Input struct {
	SubjectID            string          `json:"subjectId"`
	CandidateID          string          `json:"candidateId"`
	SubjectProfile       *models.Profile `json:"subjectProfile,omitempty"`
	CandidateProfile     *models.Profile `json:"candidateProfile,omitempty"`
	OlderMentorPreferred *bool           `json:"olderMentorPreferred,omitempty"`
}

type Output struct {
	SubjectID        string   `json:"subjectId"`
	CandidateID      string   `json:"candidateId"`
	Score            int      `json:"score"`
	Percentage       int      `json:"percentage"`
	Strength         string   `json:"strength"`
	Reasons          []string `json:"reasons"`
	ReasonCategories []string `json:"reasonCategories"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "subjectId":            {"type": "string", "minLength": 1},
    "candidateId":          {"type": "string", "minLength": 1},
    "subjectProfile":       {"$ref": "#/definitions/profile"},
    "candidateProfile":     {"$ref": "#/definitions/profile"},
    "olderMentorPreferred": {"type": "boolean"}
  },
  "allOf": [
    {"anyOf": [{"required": ["subjectId"]}, {"required": ["subjectProfile"]}]},
    {"anyOf": [{"required": ["candidateId"]}, {"required": ["candidateProfile"]}]}
  ],
  "definitions": {"profile": ` + validation.ProfileSchema + `}
}`)
