// Package judgment supplies the semantic relevance judgments the deterministic scorers consume.
package judgment

import (
	"context"

	"github.com/jonathan/candidate-fit/internal/types"
)

// Provider answers one batched judgment request for a candidate and a role
type Provider interface {
	Judge(ctx context.Context, req Request) (Response, error)
}

// Request carries everything a provider needs to judge a candidate
type Request struct {
	RoleName         string                  `json:"role_name"`
	RequirementItems []string                `json:"requirement_items"`
	Categories       []string                `json:"categories,omitempty"`
	Profile          *types.CandidateProfile `json:"candidate_profile"`
}

// WorkAnalysis judges one work history entry by its index in the profile
type WorkAnalysis struct {
	JobIndex       int                  `json:"job_index"`
	RelevanceLevel types.RelevanceLevel `json:"relevance_level"`
}

// SkillAnalysis judges one requirement category
type SkillAnalysis struct {
	Category   string           `json:"category"`
	MatchLevel types.MatchLevel `json:"match_level"`
}

// EducationAnalysis judges one education entry by its index in the profile
type EducationAnalysis struct {
	EducationIndex int    `json:"education_index"`
	IsRelevant     bool   `json:"is_relevant"`
	DegreeLevel    string `json:"degree_level,omitempty"`
}

// Response is the provider's answer. Any of the lists may be empty.
type Response struct {
	WorkExperienceAnalysis []WorkAnalysis      `json:"work_experience_analysis"`
	SkillAnalysis          []SkillAnalysis     `json:"skill_analysis"`
	EducationAnalysis      []EducationAnalysis `json:"education_analysis"`
}

// Empty reports whether the response carries no judgment at all
func (r Response) Empty() bool {
	return len(r.WorkExperienceAnalysis) == 0 && len(r.SkillAnalysis) == 0 && len(r.EducationAnalysis) == 0
}

// Judgments converts the response into lookup maps. Later entries for the same key win.
func (r Response) Judgments() *types.Judgments {
	j := &types.Judgments{}
	for _, w := range r.WorkExperienceAnalysis {
		if j.Work == nil {
			j.Work = make(map[int]types.RelevanceLevel)
		}
		j.Work[w.JobIndex] = w.RelevanceLevel
	}
	for _, s := range r.SkillAnalysis {
		j.SetSkill(s.Category, s.MatchLevel)
	}
	for _, e := range r.EducationAnalysis {
		if j.Education == nil {
			j.Education = make(map[int]types.EducationJudgment)
		}
		j.Education[e.EducationIndex] = types.EducationJudgment{
			IsRelevant:  e.IsRelevant,
			DegreeLevel: e.DegreeLevel,
		}
	}
	return j
}

// NewRequest builds a request for a profile against parsed requirements
func NewRequest(profile *types.CandidateProfile, reqs *types.JobRequirements) Request {
	req := Request{Profile: profile}
	if reqs == nil {
		return req
	}
	req.RoleName = reqs.RoleName
	req.RequirementItems = reqs.CriteriaItems()
	for _, group := range reqs.Groups() {
		req.Categories = append(req.Categories, group.Name)
	}
	return req
}
