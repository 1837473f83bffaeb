package matching

import "strings"

// Strength labels shown next to a match percentage.
const (
	StrengthExcellent = "Excellent"
	StrengthGreat     = "Great"
	StrengthGood      = "Good"
	StrengthFair      = "Fair"
	StrengthPoor      = "Poor"
)

func StrengthLabel(percentage int) string {
	switch {
	case percentage >= 90:
		return StrengthExcellent
	case percentage >= 80:
		return StrengthGreat
	case percentage >= 70:
		return StrengthGood
	case percentage >= 50:
		return StrengthFair
	default:
		return StrengthPoor
	}
}

// Reason categories, used by callers to group or iconise reasons.
const (
	CategoryEducation  = "education"
	CategoryAge        = "age"
	CategoryProfession = "profession"
	CategoryHobbies    = "hobbies"
	CategoryIndustries = "industries"
	CategorySkills     = "skills"
	CategoryCounty     = "county"
	CategoryOther      = "other"
)

var reasonCategoryMarkers = []struct {
	category string
	markers  []string
}{
	{CategoryEducation, []string{"education level"}},
	{CategoryAge, []string{"in age", "experienced mentor"}},
	{CategoryProfession, []string{"profession matched"}},
	{CategoryHobbies, []string{reasonHobbiesSuffix}},
	{CategoryIndustries, []string{reasonIndustrySingular, reasonIndustriesSuffix}},
	{CategorySkills, []string{reasonSkillsSuffix}},
	{CategoryCounty, []string{"county"}},
}

// ReasonCategory classifies a reason string produced by the Calculator.
func ReasonCategory(reason string) string {
	lower := strings.ToLower(reason)
	for _, rc := range reasonCategoryMarkers {
		for _, m := range rc.markers {
			if strings.Contains(lower, strings.ToLower(m)) {
				return rc.category
			}
		}
	}
	return CategoryOther
}

// ReasonCategories maps every reason to its category, preserving order.
func ReasonCategories(reasons []string) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = ReasonCategory(r)
	}
	return out
}
