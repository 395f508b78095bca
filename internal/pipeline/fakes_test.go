package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/candidate-fit/internal/judgment"
	"github.com/jonathan/candidate-fit/internal/types"
)

var testNow = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// fakeModel is a StageModel whose answers are fixed per method
type fakeModel struct {
	mu    sync.Mutex
	calls map[string]int

	requirements *types.JobRequirements
	inferred     *types.JobRequirements
	alignment    *types.Alignment
	profile      *types.CandidateProfile
	culture      *types.CultureEvaluation
	feedback     *types.Feedback

	parseErr   error
	cultureErr error
}

func (m *fakeModel) count(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *fakeModel) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *fakeModel) ParseRequirements(_ context.Context, _, roleName string) (*types.JobRequirements, error) {
	m.count("ParseRequirements")
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	reqs := *m.requirements
	if roleName != "" {
		reqs.RoleName = roleName
	}
	return &reqs, nil
}

func (m *fakeModel) InferRequirements(_ context.Context, roleName string) (*types.JobRequirements, error) {
	m.count("InferRequirements")
	if m.inferred == nil {
		return &types.JobRequirements{RoleName: roleName}, nil
	}
	inferred := *m.inferred
	return &inferred, nil
}

func (m *fakeModel) CheckAlignment(context.Context, string, *types.JobRequirements) (*types.Alignment, error) {
	m.count("CheckAlignment")
	a := *m.alignment
	return &a, nil
}

func (m *fakeModel) ExtractProfile(context.Context, string) (*types.CandidateProfile, error) {
	m.count("ExtractProfile")
	p := *m.profile
	return &p, nil
}

func (m *fakeModel) EvaluateCulture(context.Context, *types.JobRequirements, *types.CandidateProfile) (*types.CultureEvaluation, error) {
	m.count("EvaluateCulture")
	if m.cultureErr != nil {
		return nil, m.cultureErr
	}
	c := *m.culture
	return &c, nil
}

func (m *fakeModel) WriteFeedback(_ context.Context, roleName string, eval *types.FinalEvaluation) (*types.Feedback, error) {
	m.count("WriteFeedback")
	f := *m.feedback
	f.Summary = roleName + ": " + f.Summary
	return &f, nil
}

// enteringModel closes entered the first time the culture stage starts
type enteringModel struct {
	*fakeModel
	entered chan struct{}
	once    sync.Once
}

func (m *enteringModel) EvaluateCulture(ctx context.Context, reqs *types.JobRequirements, profile *types.CandidateProfile) (*types.CultureEvaluation, error) {
	m.once.Do(func() { close(m.entered) })
	return m.fakeModel.EvaluateCulture(ctx, reqs, profile)
}

func testRequirements() *types.JobRequirements {
	return &types.JobRequirements{
		RoleName:      "Backend Engineer",
		RequiredYears: 2,
		PrimaryRequirements: []types.Requirement{
			{ID: 1, Text: "Go", Category: "Languages"},
			{ID: 2, Text: "PostgreSQL", Category: "Databases"},
		},
		Responsibilities:     []string{"Build APIs"},
		EducationRequirement: types.EducationRequirement{ValidMajors: []string{}},
	}
}

func testProfile() *types.CandidateProfile {
	return &types.CandidateProfile{
		Name:   "Ada",
		Skills: []string{"go", "postgresql"},
		WorkExperience: []types.WorkExperience{
			{Company: "Acme", JobTitle: "Software Engineer", StartDate: "2020-01", EndDate: "Present"},
		},
		Education: []types.Education{{Institution: "MIT", DegreeLevel: "BSc", FieldOfStudy: "Computer Science"}},
	}
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		requirements: testRequirements(),
		alignment:    &types.Alignment{Aligned: true},
		profile:      testProfile(),
		culture:      &types.CultureEvaluation{Score: 70, StageNotes: types.StageNotes{Strengths: []string{"Clear communicator"}}},
		feedback:     &types.Feedback{Summary: "good fit", InterviewQuestions: []string{"Why Go?"}},
	}
}

func testJudgments() judgment.Response {
	return judgment.Response{
		WorkExperienceAnalysis: []judgment.WorkAnalysis{{JobIndex: 0, RelevanceLevel: types.RelevanceHigh}},
		SkillAnalysis: []judgment.SkillAnalysis{
			{Category: "Languages", MatchLevel: types.MatchStrong},
			{Category: "Databases", MatchLevel: types.MatchPartial},
		},
		EducationAnalysis: []judgment.EducationAnalysis{{EducationIndex: 0, IsRelevant: true}},
	}
}

func testInput() Input {
	return Input{ResumeText: "Ada's resume", JobText: "Backend Engineer posting", RoleName: "Backend Engineer"}
}

func noWaitRetry() Option {
	return WithRetryPolicy(RetryPolicy{MaxAttempts: 3})
}
