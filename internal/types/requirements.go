package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// LogicType is the satisfaction rule for a grouped skill requirement
type LogicType string

const (
	// LogicAnd requires every skill in the group
	LogicAnd LogicType = "AND"
	// LogicOr requires at least one skill in the group
	LogicOr LogicType = "OR"
	// LogicAtLeastN requires CountRequired skills in the group
	LogicAtLeastN LogicType = "AT_LEAST_N"
)

// JobRequirements is the structured form of a job description produced by the requirements stage
type JobRequirements struct {
	RoleName               string               `json:"role_name"`
	RequiredYears          float64              `json:"required_years" validate:"gte=0"`
	PrimaryRequirements    []Requirement        `json:"primary_requirements" validate:"dive"`
	Responsibilities       []string             `json:"responsibilities"`
	EducationRequirement   EducationRequirement `json:"education_requirement"`
	RequiredCertifications []string             `json:"required_certifications"`
}

// Requirement is an atomic requirement unit, optionally grouped under a category
type Requirement struct {
	ID            int       `json:"id"`
	Text          string    `json:"text" validate:"required"`
	Category      string    `json:"category,omitempty"`
	LogicType     LogicType `json:"logic_type,omitempty" validate:"omitempty,oneof=AND OR AT_LEAST_N"`
	CountRequired int       `json:"count_required,omitempty" validate:"gte=0"`
}

// EducationRequirement describes the minimum degree and the accepted majors
type EducationRequirement struct {
	RequiredLevel string   `json:"required_level"`
	ValidMajors   []string `json:"valid_majors"`
}

// RequirementGroup is a set of requirement items evaluated together under one logic type
type RequirementGroup struct {
	Name          string
	LogicType     LogicType
	CountRequired int
	Items         []string
}

// HasRequirements reports whether any primary requirement or responsibility is present
func (r *JobRequirements) HasRequirements() bool {
	return r != nil && (len(r.PrimaryRequirements) > 0 || len(r.Responsibilities) > 0)
}

// HasCertifications reports whether the job lists any required certification
func (r *JobRequirements) HasCertifications() bool {
	if r == nil {
		return false
	}
	for _, c := range r.RequiredCertifications {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// Groups derives requirement groups. Items sharing a category form one group whose
// logic type comes from the first item that sets it (AND by default). Uncategorised
// items are single-item groups named by their text. Responsibilities are used only
// when there are no primary requirements.
func (r *JobRequirements) Groups() []RequirementGroup {
	if r == nil {
		return nil
	}

	if len(r.PrimaryRequirements) == 0 {
		groups := make([]RequirementGroup, 0, len(r.Responsibilities))
		for _, resp := range r.Responsibilities {
			if strings.TrimSpace(resp) == "" {
				continue
			}
			groups = append(groups, RequirementGroup{Name: resp, LogicType: LogicAnd, Items: []string{resp}})
		}
		return groups
	}

	groups := make([]RequirementGroup, 0, len(r.PrimaryRequirements))
	byCategory := make(map[string]int)
	for _, req := range r.PrimaryRequirements {
		if strings.TrimSpace(req.Text) == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(req.Category))
		if key == "" {
			groups = append(groups, RequirementGroup{
				Name:          req.Text,
				LogicType:     logicOrDefault(req.LogicType),
				CountRequired: req.CountRequired,
				Items:         []string{req.Text},
			})
			continue
		}

		idx, ok := byCategory[key]
		if !ok {
			byCategory[key] = len(groups)
			groups = append(groups, RequirementGroup{Name: req.Category})
			idx = len(groups) - 1
		}
		g := &groups[idx]
		if g.LogicType == "" && req.LogicType != "" {
			g.LogicType = req.LogicType
			g.CountRequired = req.CountRequired
		}
		g.Items = append(g.Items, req.Text)
	}

	for i := range groups {
		groups[i].LogicType = logicOrDefault(groups[i].LogicType)
	}
	return groups
}

// CriteriaItems returns the requirement texts sent to the judgment provider.
// Five or more primary requirements are used alone; otherwise responsibilities
// are appended to give the provider enough context.
func (r *JobRequirements) CriteriaItems() []string {
	if r == nil {
		return nil
	}
	items := make([]string, 0, len(r.PrimaryRequirements)+len(r.Responsibilities))
	for _, req := range r.PrimaryRequirements {
		if req.Category != "" {
			items = append(items, req.Category+": "+req.Text)
		} else {
			items = append(items, req.Text)
		}
	}
	if len(r.PrimaryRequirements) >= 5 {
		return items
	}
	return append(items, r.Responsibilities...)
}

// Validate validates the JobRequirements using the validator.
func (r *JobRequirements) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Sanitize replaces malformed values with neutral defaults so scorers never see them.
func (r *JobRequirements) Sanitize() {
	if r.RequiredYears < 0 {
		r.RequiredYears = 0
	}
	kept := r.PrimaryRequirements[:0]
	for _, req := range r.PrimaryRequirements {
		if strings.TrimSpace(req.Text) == "" {
			continue
		}
		req.LogicType = LogicType(strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(string(req.LogicType)))))
		switch req.LogicType {
		case "", LogicAnd, LogicOr, LogicAtLeastN:
		default:
			req.LogicType = LogicAnd
		}
		if req.CountRequired < 0 {
			req.CountRequired = 0
		}
		kept = append(kept, req)
	}
	r.PrimaryRequirements = kept
	if r.EducationRequirement.ValidMajors == nil {
		r.EducationRequirement.ValidMajors = []string{}
	}
}

func logicOrDefault(l LogicType) LogicType {
	if l == "" {
		return LogicAnd
	}
	return l
}
