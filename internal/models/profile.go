package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRole = errors.New("INVALID_PROFILE_ROLE")
)

// Role is the side of the mentorship a profile is on.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Opposite returns the role a profile of this role is matched against.
func (r Role) Opposite() Role {
	if r == RoleMentor {
		return RoleMentee
	}
	return RoleMentor
}

func (r Role) IsMentor() bool {
	return r == RoleMentor
}

// Education levels accepted on a profile.
const (
	EducationGCSEs            = "GCSEs"
	EducationALevels          = "A-Levels"
	EducationBTEC             = "BTEC"
	EducationFoundationDegree = "Foundation Degree"
	EducationBachelors        = "Bachelor's Degree"
	EducationMasters          = "Master's Degree"
	EducationDoctorate        = "Doctorate/PhD"
	EducationNVQ              = "NVQ/SVQ"
	EducationApprenticeship   = "Apprenticeship"
	EducationOther            = "Other"
)

// Profile is one mentor or mentee as seen by the matching engine.
type Profile struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	IsMentor        bool     `json:"isMentor"`
	IsMentee        bool     `json:"isMentee"`
	Age             int      `json:"age"`
	EducationLevel  string   `json:"educationLevel"`
	Profession      string   `json:"profession"`
	PastProfessions []string `json:"pastProfessions"`
	County          string   `json:"county"`
	Religion        string   `json:"religion,omitempty"`
	Hobbies         []string `json:"hobbies"`
	Skills          []string `json:"skills"`
	LookingFor      []string `json:"lookingFor"`
	Industries      []string `json:"industries"`
}

// Validate checks that exactly one role flag is set.
func (p *Profile) Validate() error {
	if p.IsMentor == p.IsMentee {
		return fmt.Errorf("%w: profile %q must be exactly one of mentor or mentee", ErrInvalidRole, p.ID)
	}
	return nil
}

// Role derives the profile role from its flags. Callers should Validate first.
func (p *Profile) Role() Role {
	if p.IsMentor {
		return RoleMentor
	}
	return RoleMentee
}

// DisplayName returns "First Last", or a short id-based fallback.
func (p *Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	id := p.ID
	if r := []rune(id); len(r) > 8 {
		id = string(r[:8])
	}
	if p.IsMentee {
		return "Mentee " + id
	}
	return "Mentor " + id
}
