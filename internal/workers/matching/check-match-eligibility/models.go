package checkmatcheligibility

import "mentor-matching/internal/common/validation"

type Input struct {
	SubjectID            string `json:"subjectId"`
	TargetID             string `json:"targetId"`
	OlderMentorPreferred *bool  `json:"olderMentorPreferred,omitempty"`
}

// Output.Percentage is zero when the target is not eligible.
type Output struct {
	SubjectID  string `json:"subjectId"`
	TargetID   string `json:"targetId"`
	Eligible   bool   `json:"eligible"`
	Percentage int    `json:"percentage"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["subjectId", "targetId"],
  "properties": {
    "subjectId":            {"type": "string", "minLength": 1},
    "targetId":             {"type": "string", "minLength": 1},
    "olderMentorPreferred": {"type": "boolean"}
  }
}`)
