package matching

import "fmt"

// Weights is the per-feature point table. Multi-value features (skills,
// hobbies, industries) are awarded per overlapping item.
type Weights struct {
	Profession     int `mapstructure:"profession" json:"profession"`
	Skills         int `mapstructure:"skills" json:"skills"`
	Industries     int `mapstructure:"industries" json:"industries"`
	EducationLevel int `mapstructure:"education_level" json:"educationLevel"`
	Hobbies        int `mapstructure:"hobbies" json:"hobbies"`
	County         int `mapstructure:"county" json:"county"`
	Age            int `mapstructure:"age" json:"age"`
	Religion       int `mapstructure:"religion" json:"religion"`
}

func DefaultWeights() Weights {
	return Weights{
		Profession:     20,
		Skills:         15,
		Industries:     10,
		EducationLevel: 6,
		Hobbies:        4,
		County:         4,
		Age:            6,
		Religion:       2,
	}
}

// MaxScore is the normalisation denominator: one unit of every feature.
// Dense multi-value overlaps can exceed it, percentages are clamped.
func (w Weights) MaxScore() int {
	return w.Profession + w.Skills + w.Industries + w.EducationLevel +
		w.Hobbies + w.County + w.Age + w.Religion
}

func (w Weights) Validate() error {
	fields := map[string]int{
		"profession":      w.Profession,
		"skills":          w.Skills,
		"industries":      w.Industries,
		"education_level": w.EducationLevel,
		"hobbies":         w.Hobbies,
		"county":          w.County,
		"age":             w.Age,
		"religion":        w.Religion,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %d", name, v)
		}
	}
	if w.MaxScore() == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}
