package extraction

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/prompts"
	"github.com/jonathan/candidate-fit/internal/schemas"
	"github.com/jonathan/candidate-fit/internal/types"
)

// ExtractProfile builds a structured candidate profile from resume text.
// Skills are normalized and the total years are recomputed from the work history.
func (m *StageModel) ExtractProfile(ctx context.Context, resumeText string) (*types.CandidateProfile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return &types.CandidateProfile{}, nil
	}

	var profile types.CandidateProfile
	err := m.generate(ctx, prompts.ExtractProfile, llm.TierStandard, map[string]string{
		"ResumeText": resumeText,
	}, schemas.CandidateProfile, &profile)
	if err != nil {
		return nil, err
	}

	FinalizeProfile(m.calculator, &profile)
	m.logger.Debug("profile extracted",
		zap.Int("jobs", len(profile.WorkExperience)),
		zap.Int("skills", len(profile.Skills)),
		zap.Float64("total_years", profile.TotalYearsExperience))
	return &profile, nil
}

// FinalizeProfile normalizes a profile in place. When the work history is non-empty the
// computed total years replace whatever the source reported.
func FinalizeProfile(calc *experience.Calculator, profile *types.CandidateProfile) {
	if profile == nil {
		return
	}
	profile.Skills = parsing.NormalizeSkills(profile.Skills)
	profile.Certifications = dedupeTrimmed(profile.Certifications)
	if profile.TotalYearsExperience < 0 {
		profile.TotalYearsExperience = 0
	}
	if len(profile.WorkExperience) > 0 {
		if calc == nil {
			calc = experience.NewCalculator()
		}
		profile.TotalYearsExperience = experience.Round2(calc.TotalYears(profile.WorkExperience))
	}
}

func dedupeTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := parsing.NormalizeCertification(v)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
