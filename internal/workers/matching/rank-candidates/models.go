package rankcandidates

import "mentor-matching/internal/common/validation"

type Input struct {
	SubjectID            string `json:"subjectId"`
	OlderMentorPreferred *bool  `json:"olderMentorPreferred,omitempty"`
	Limit                int    `json:"limit"`
	Offset               int    `json:"offset"`
}

type Output struct {
	RankingID string  `json:"rankingId"`
	SubjectID string  `json:"subjectId"`
	Total     int     `json:"total"`
	Matches   []Match `json:"matches"`
}

type Match struct {
	CandidateID      string   `json:"candidateId"`
	DisplayName      string   `json:"displayName"`
	Score            int      `json:"score"`
	Percentage       int      `json:"percentage"`
	Strength         string   `json:"strength"`
	Reasons          []string `json:"reasons"`
	ReasonCategories []string `json:"reasonCategories"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["subjectId"],
  "properties": {
    "subjectId":            {"type": "string", "minLength": 1},
    "olderMentorPreferred": {"type": "boolean"},
    "limit":                {"type": "integer", "minimum": 0},
    "offset":               {"type": "integer", "minimum": 0}
  }
}`)
