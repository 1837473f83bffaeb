package matching

import (
	"fmt"
	"sort"

	"mentor-matching/internal/models"
)

// educationRanks maps each accepted education level to an ordinal rank.
// Vocational tracks sit at the rank they are treated as equivalent to.
var educationRanks = map[string]int{
	models.EducationGCSEs:            0,
	models.EducationALevels:          1,
	models.EducationBTEC:             1,
	models.EducationOther:            1,
	models.EducationFoundationDegree: 2,
	models.EducationBachelors:        3,
	models.EducationNVQ:              3,
	models.EducationApprenticeship:   3,
	models.EducationMasters:          4,
	models.EducationDoctorate:        5,
}

// EncodeEducation returns the ordinal rank of an education level.
// Unmapped values, including the empty string, fail with ErrUnknownCategory.
func EncodeEducation(level string) (int, error) {
	rank, ok := educationRanks[level]
	if !ok {
		return 0, fmt.Errorf("%w: education level %q", ErrUnknownCategory, level)
	}
	return rank, nil
}

// EducationLevels lists the vocabulary ordered by rank, then name.
func EducationLevels() []string {
	levels := make([]string, 0, len(educationRanks))
	for level := range educationRanks {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		ri, rj := educationRanks[levels[i]], educationRanks[levels[j]]
		if ri != rj {
			return ri < rj
		}
		return levels[i] < levels[j]
	})
	return levels
}
