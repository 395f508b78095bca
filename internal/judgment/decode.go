package judgment

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/schemas"
	"github.com/jonathan/candidate-fit/internal/types"
)

// Bounds limits the indices a response may reference
type Bounds struct {
	Jobs      int
	Education int
}

// BoundsFor returns the index bounds of a profile
func BoundsFor(profile *types.CandidateProfile) Bounds {
	if profile == nil {
		return Bounds{}
	}
	return Bounds{Jobs: len(profile.WorkExperience), Education: len(profile.Education)}
}

type rawResponse struct {
	Work      []json.RawMessage `json:"work_experience_analysis"`
	Skills    []json.RawMessage `json:"skill_analysis"`
	Education []json.RawMessage `json:"education_analysis"`
}

type rawWork struct {
	JobIndex       *int                 `json:"job_index"`
	RelevanceLevel types.RelevanceLevel `json:"relevance_level"`
}

type rawSkill struct {
	Category   string           `json:"category"`
	MatchLevel types.MatchLevel `json:"match_level"`
}

type rawEducation struct {
	EducationIndex *int   `json:"education_index"`
	IsRelevant     *bool  `json:"is_relevant"`
	DegreeLevel    string `json:"degree_level"`
}

// Decode turns raw provider text into a Response. It never fails: text that is not a
// JSON object or that violates the response schema yields an empty Response, and
// entries with unknown levels or out-of-range indices are dropped.
func Decode(text string, bounds Bounds) Response {
	body := llm.ExtractJSONObject(text)
	if body == "" {
		return Response{}
	}
	if err := schemas.Validate(schemas.JudgmentResponse, []byte(body)); err != nil {
		return Response{}
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return Response{}
	}

	var resp Response
	for _, item := range raw.Work {
		var w rawWork
		if json.Unmarshal(item, &w) != nil || w.JobIndex == nil {
			continue
		}
		if *w.JobIndex < 0 || *w.JobIndex >= bounds.Jobs || w.RelevanceLevel == types.RelevanceUnknown {
			continue
		}
		resp.WorkExperienceAnalysis = append(resp.WorkExperienceAnalysis, WorkAnalysis{
			JobIndex:       *w.JobIndex,
			RelevanceLevel: w.RelevanceLevel,
		})
	}
	for _, item := range raw.Skills {
		var s rawSkill
		if json.Unmarshal(item, &s) != nil {
			continue
		}
		if strings.TrimSpace(s.Category) == "" || s.MatchLevel == types.MatchUnknown {
			continue
		}
		resp.SkillAnalysis = append(resp.SkillAnalysis, SkillAnalysis{
			Category:   strings.TrimSpace(s.Category),
			MatchLevel: s.MatchLevel,
		})
	}
	for _, item := range raw.Education {
		var e rawEducation
		if json.Unmarshal(item, &e) != nil || e.EducationIndex == nil || e.IsRelevant == nil {
			continue
		}
		if *e.EducationIndex < 0 || *e.EducationIndex >= bounds.Education {
			continue
		}
		resp.EducationAnalysis = append(resp.EducationAnalysis, EducationAnalysis{
			EducationIndex: *e.EducationIndex,
			IsRelevant:     *e.IsRelevant,
			DegreeLevel:    strings.TrimSpace(e.DegreeLevel),
		})
	}
	return resp
}
