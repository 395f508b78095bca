package ranking

import (
	"testing"
	"time"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate_EndToEnd(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	calc := experience.NewCalculator(experience.WithClock(func() time.Time { return now }))

	profile := &types.CandidateProfile{
		Skills:               []string{"Go"},
		TotalYearsExperience: 5,
		WorkExperience: []types.WorkExperience{
			{Company: "Acme", JobTitle: "Software Engineer", StartDate: "2019-01", EndDate: "Present"},
		},
	}
	reqs := &types.JobRequirements{RoleName: "Software Engineer", RequiredYears: 3}
	judgments := &types.Judgments{Work: map[int]types.RelevanceLevel{0: types.RelevanceHigh}}

	got := Evaluate(calc, profile, reqs, judgments)
	assert.Equal(t, 100, got.Breakdown.Breakdown.ExperienceRelevance)
	assert.InDelta(t, 5.0, got.Breakdown.Breakdown.RelevantYearsCalculated, 0.01)
	assert.Equal(t, "Mid-Level", got.ExperienceLevel)
}

func TestEvaluate_ZeroRequiredYears(t *testing.T) {
	got := Evaluate(nil, &types.CandidateProfile{}, &types.JobRequirements{RequiredYears: 0}, nil)
	assert.Equal(t, 100, got.Breakdown.Breakdown.ExperienceRelevance)
}

func TestEvaluate_NilInputsUseNeutralDefaults(t *testing.T) {
	got := Evaluate(nil, nil, nil, nil)
	assert.Equal(t, 100, got.Breakdown.BaseScore, "no requirements in any dimension scores full marks")
	assert.Equal(t, 0, got.Breakdown.Weights.Certification)
}

func TestConfidence(t *testing.T) {
	full := &types.CandidateProfile{
		Skills:         []string{"go"},
		WorkExperience: []types.WorkExperience{{}},
		Education:      []types.Education{{}},
	}
	partial := &types.CandidateProfile{Skills: []string{"go"}, WorkExperience: []types.WorkExperience{{}}}

	assert.Equal(t, 100, Confidence(full, &types.Alignment{Aligned: true}))
	assert.Equal(t, 60, Confidence(full, &types.Alignment{Aligned: false, Flags: []string{"JD-Role Mismatch"}}))
	assert.Equal(t, 79, Confidence(partial, &types.Alignment{Aligned: true, Flags: []string{"vague posting"}}))
	assert.Equal(t, 82, Confidence(nil, nil))
}
