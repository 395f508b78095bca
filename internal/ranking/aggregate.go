package ranking

import (
	"math"

	"github.com/jonathan/candidate-fit/internal/types"
)

// Canonical weight table in whole percent
var (
	weightsWithCertifications = types.Weights{Skill: 40, Experience: 30, Education: 15, Certification: 15}
	weightsNoCertifications   = types.Weights{Skill: 45, Experience: 35, Education: 20, Certification: 0}
)

// SelectWeights returns the weight table. Without certification requirements the
// certification share moves to the other three components.
func SelectWeights(hasCertRequirements bool) types.Weights {
	if hasCertRequirements {
		return weightsWithCertifications
	}
	return weightsNoCertifications
}

// Aggregate combines component scores into the base fit score.
// base = round(Σ weight × component), clamped to [0,100].
func Aggregate(skill, experience, education, certification int, hasCertRequirements bool) types.ScoreBreakdown {
	w := SelectWeights(hasCertRequirements)
	skill = clampScore(skill)
	experience = clampScore(experience)
	education = clampScore(education)
	certification = clampScore(certification)

	weighted := types.WeightedScores{
		Skill:         contribution(w.Skill, skill),
		Experience:    contribution(w.Experience, experience),
		Education:     contribution(w.Education, education),
		Certification: contribution(w.Certification, certification),
	}

	// Integer arithmetic keeps the sum exact before the single rounding step.
	total := w.Skill*skill + w.Experience*experience + w.Education*education + w.Certification*certification
	base := clampScore(int(math.Round(float64(total) / 100)))

	return types.ScoreBreakdown{
		BaseScore: base,
		Breakdown: types.ComponentScores{
			SkillMatch:          skill,
			ExperienceRelevance: experience,
			EducationFit:        education,
			Certifications:      certification,
		},
		Weighted: weighted,
		Weights:  w,
	}
}

// ScoreExperience compares relevant years against required years. No requirement scores 100.
func ScoreExperience(relevantYears, requiredYears float64) int {
	if requiredYears <= 0 {
		return 100
	}
	if relevantYears <= 0 {
		return 0
	}
	return clampScore(int(math.Round(relevantYears / requiredYears * 100)))
}

func contribution(weight, score int) float64 {
	return float64(weight*score) / 100
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// CompetencyScore blends skill match and certifications by their relative weights
func CompetencyScore(skill, certification int, hasCertRequirements bool) int {
	w := SelectWeights(hasCertRequirements)
	return blend(clampScore(skill), w.Skill, clampScore(certification), w.Certification)
}

// ExperienceCategoryScore blends experience relevance and education fit by their relative weights
func ExperienceCategoryScore(experience, education int, hasCertRequirements bool) int {
	w := SelectWeights(hasCertRequirements)
	return blend(clampScore(experience), w.Experience, clampScore(education), w.Education)
}

func blend(a, wa, b, wb int) int {
	if wa+wb == 0 {
		return 0
	}
	return clampScore(int(math.Round(float64(a*wa+b*wb) / float64(wa+wb))))
}
