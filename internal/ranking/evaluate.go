package ranking

import (
	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/types"
)

// FitResult is the deterministic evaluation of one candidate against one job
type FitResult struct {
	Breakdown       types.ScoreBreakdown
	Skills          SkillAssessment
	RelevantYears   float64
	ExperienceLevel string
}

// Evaluate runs every scorer over structured inputs and aggregates the result.
// Missing judgments fall back to the deterministic heuristics.
func Evaluate(calc *experience.Calculator, profile *types.CandidateProfile, reqs *types.JobRequirements, judgments *types.Judgments) FitResult {
	if calc == nil {
		calc = experience.NewCalculator()
	}
	if profile == nil {
		profile = &types.CandidateProfile{}
	}
	if reqs == nil {
		reqs = &types.JobRequirements{}
	}

	skills := AssessSkills(reqs.Groups(), profile, judgments)
	relevant := calc.RelevantYears(profile.WorkExperience, judgments, reqs.RoleName)
	experienceScore := ScoreExperience(relevant, reqs.RequiredYears)
	educationScore := ScoreEducation(profile.Education, reqs.EducationRequirement, judgments)
	certScore := ScoreCertifications(profile.Certifications, reqs.RequiredCertifications)

	breakdown := Aggregate(skills.Score, experienceScore, educationScore, certScore, reqs.HasCertifications())
	breakdown.Breakdown.RelevantYearsCalculated = experience.Round2(relevant)

	return FitResult{
		Breakdown:       breakdown,
		Skills:          skills,
		RelevantYears:   relevant,
		ExperienceLevel: experience.Level(calc.TotalYears(profile.WorkExperience)),
	}
}
