package judgment

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/candidate-fit/internal/llm/llmtest"
	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleRequest() Request {
	return Request{
		RoleName:         "Data Engineer",
		RequirementItems: []string{"Pipelines: Spark", "Cloud: GCP"},
		Categories:       []string{"Pipelines", "Cloud"},
		Profile: &types.CandidateProfile{
			Skills: []string{"spark", "python"},
			WorkExperience: []types.WorkExperience{
				{Company: "Acme", JobTitle: "Analyst / Data Engineer", StartDate: "2020-01", EndDate: "Present", Description: "Batch jobs"},
			},
			Education: []types.Education{{Institution: "MIT", DegreeLevel: "BSc", FieldOfStudy: "Statistics"}},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(sampleRequest())
	require.NoError(t, err)

	assert.Contains(t, prompt, `"Data Engineer"`)
	assert.Contains(t, prompt, "- Cloud: GCP")
	assert.Contains(t, prompt, "[0] Analyst / Data Engineer at Acme (2020-01 to Present): Batch jobs")
	assert.Contains(t, prompt, "[0] BSc in Statistics, MIT")
	assert.Contains(t, prompt, "spark, python")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildPrompt_EmptyProfile(t *testing.T) {
	prompt, err := BuildPrompt(Request{RoleName: "Nurse"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "(none)")
}

func TestLLMProvider_Judge(t *testing.T) {
	client := llmtest.Returning(`{"work_experience_analysis":[{"job_index":0,"relevance_level":"High"}],"skill_analysis":[{"category":"Cloud","match_level":"No-Match"}]}`)
	provider := NewLLMProvider(client)

	resp, err := provider.Judge(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, client.Calls())
	assert.Equal(t, types.RelevanceHigh, resp.WorkExperienceAnalysis[0].RelevanceLevel)
	assert.Equal(t, types.MatchNone, resp.SkillAnalysis[0].MatchLevel)
}

func TestLLMProvider_ClientFailure(t *testing.T) {
	provider := NewLLMProvider(llmtest.Failing(errors.New("quota exceeded")))

	_, err := provider.Judge(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.True(t, parsing.IsAPICallError(err))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLLMProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLLMProvider(llmtest.Returning(`{}`)).Judge(ctx, sampleRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLLMProvider_UnusableResponseLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	provider := NewLLMProvider(llmtest.Returning("sorry, no JSON today"), WithLogger(zap.New(core)))

	resp, err := provider.Judge(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.True(t, resp.Empty())
	assert.Equal(t, 1, logs.FilterMessage("judgment response unusable").Len())
}

func TestStatic(t *testing.T) {
	want := Response{SkillAnalysis: []SkillAnalysis{{Category: "Go", MatchLevel: types.MatchStrong}}}
	s := &Static{Response: want}

	got, err := s.Judge(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.Calls())

	failing := &Static{Err: errors.New("down")}
	_, err = failing.Judge(context.Background(), Request{})
	assert.EqualError(t, err, "down")
}

func TestFunc(t *testing.T) {
	var seen string
	f := Func(func(_ context.Context, req Request) (Response, error) {
		seen = req.RoleName
		return Response{}, nil
	})
	_, err := f.Judge(context.Background(), Request{RoleName: "Chef"})
	require.NoError(t, err)
	assert.Equal(t, "Chef", seen)
}
