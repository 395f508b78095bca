// Package types provides type definitions for structured data used throughout the candidate-fit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// CandidateProfile is the structured form of a resume produced by the extraction stage.
// Scorers treat it as read-only input.
type CandidateProfile struct {
	Name                 string           `json:"name"`
	Summary              string           `json:"summary,omitempty"`
	Skills               []string         `json:"skills"`
	WorkExperience       []WorkExperience `json:"work_experience" validate:"dive"`
	Education            []Education      `json:"education" validate:"dive"`
	Certifications       []string         `json:"certifications"`
	TotalYearsExperience float64          `json:"total_years_experience" validate:"gte=0"`
}

// WorkExperience represents a single job in the candidate's work history
type WorkExperience struct {
	Company     string `json:"company"`
	JobTitle    string `json:"job_title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"` // "Present" for the current role
	Description string `json:"description,omitempty"`
}

// Education represents a single education entry
type Education struct {
	Institution  string `json:"institution"`
	DegreeLevel  string `json:"degree_level"` // free text, e.g. "BSc", "Master of Science"
	FieldOfStudy string `json:"field_of_study"`
	Year         string `json:"year,omitempty"`
}

// IsEmpty reports whether the profile carries nothing that could be scored.
func (p *CandidateProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Name == "" && p.Summary == "" && len(p.Skills) == 0 &&
		len(p.WorkExperience) == 0 && len(p.Education) == 0 && len(p.Certifications) == 0
}

// Validate validates the CandidateProfile using the validator.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
