package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-fit/internal/llm/llmtest"
	"github.com/jonathan/candidate-fit/internal/pipeline"
)

const (
	keyParse     = "Extract the requirements"
	keyAlignment = "Decide whether this job description"
	keyProfile   = "Extract a structured candidate profile"
	keyJudge     = "You are assessing a candidate"
	keyCulture   = "Assess the soft skills"
	keyFeedback  = "Write feedback"
)

func stageModel() *llmtest.Fake {
	return llmtest.ByPrompt(
		[]string{keyParse, keyAlignment, keyProfile, keyJudge, keyCulture, keyFeedback},
		map[string]string{
			keyParse: `{"role_name": "Backend Engineer", "required_years": 2,
				"primary_requirements": [{"text": "Go", "category": "Languages"}],
				"responsibilities": ["Own services"]}`,
			keyAlignment: `{"aligned": true, "flags": [], "reasoning": "Backend posting"}`,
			keyProfile: `{"name": "Ada", "skills": ["Go"],
				"work_experience": [{"company": "Acme", "job_title": "Engineer", "start_date": "2019-01", "end_date": "2023-01"}]}`,
			keyJudge: `{"work_experience_analysis": [{"job_index": 0, "relevance_level": "High"}],
				"skill_analysis": [{"category": "Languages", "match_level": "Strong"}],
				"education_analysis": []}`,
			keyCulture:  `{"score": 70, "reasoning": "Collaborative", "strengths": ["mentoring"]}`,
			keyFeedback: `{"summary": "Strong Go background", "interview_questions": ["Describe an outage you handled"]}`,
		})
}

func writeInputs(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Ada Lovelace\nEngineer at Acme 2019-2023, Go services")
	job := writeFile(t, dir, "job.html", `<html><body><main><h1>Backend Engineer</h1><ul><li>Go</li></ul></main></body></html>`)
	return dir, resume, job
}

func TestEvaluate_FullRun(t *testing.T) {
	clearKeys(t)
	client := stageModel()
	a, out := testApp(client)
	dir, resume, job := writeInputs(t)
	statePath := filepath.Join(dir, "state.json")

	err := execute(t, a, "evaluate", "--api-key", "k", "--resume", resume, "--job", job,
		"--role", "Backend Engineer", "--explain", "--out", statePath)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "RUN STATUS")
	assert.Contains(t, output, "FINAL EVALUATION")
	assert.Contains(t, output, "Strong Go background")
	assert.True(t, client.Closed())

	var jobPrompt string
	for _, p := range client.Prompts() {
		if strings.Contains(p, keyParse) {
			jobPrompt = p
			break
		}
	}
	assert.Contains(t, jobPrompt, "- Go", "HTML postings are converted to text")

	data, err := os.ReadFile(statePath)
	require.NoError(t, err)
	state, err := pipeline.ParseState(data)
	require.NoError(t, err)
	assert.Equal(t, pipeline.PhaseDone, state.Phase)
	require.True(t, state.FinalEval.Filled())
	assert.True(t, state.Feedback.Filled())
}

func TestEvaluate_ResumesFromState(t *testing.T) {
	clearKeys(t)
	first := stageModel()
	a, _ := testApp(first)
	dir, resume, job := writeInputs(t)
	statePath := filepath.Join(dir, "state.json")
	require.NoError(t, execute(t, a, "evaluate", "--api-key", "k", "--resume", resume, "--job", job, "--out", statePath))

	second := stageModel()
	b, out := testApp(second)
	require.NoError(t, execute(t, b, "evaluate", "--api-key", "k", "--from-state", statePath, "--explain"))

	assert.Equal(t, 1, second.Calls(), "only the narrative runs for a finished state")
	assert.Contains(t, second.Prompts()[0], keyFeedback)
	assert.Contains(t, out.String(), "FEEDBACK")
}

func TestEvaluate_ProviderDownStillScores(t *testing.T) {
	clearKeys(t)
	t.Setenv("FIT_RETRY_BACKOFF", "1ms")
	client := llmtest.Failing(llmtest.ErrUnavailable)
	a, out := testApp(client)
	_, resume, job := writeInputs(t)

	err := execute(t, a, "evaluate", "--api-key", "k", "--resume", resume, "--job", job)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "degraded")
	assert.Contains(t, out.String(), "FINAL EVALUATION")
}

func TestEvaluate_Errors(t *testing.T) {
	clearKeys(t)
	dir, resume, job := writeInputs(t)
	emptyResume := writeFile(t, dir, "empty.txt", "   ")
	badState := writeFile(t, dir, "bad.json", "{")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no model", []string{"evaluate", "--resume", resume, "--job", job}, "needs a model"},
		{"missing resume file", []string{"evaluate", "--api-key", "k", "--resume", filepath.Join(dir, "nope.txt")}, "failed to load resume"},
		{"nothing to evaluate", []string{"evaluate", "--api-key", "k", "--resume", emptyResume}, "fatal input"},
		{"bad state", []string{"evaluate", "--api-key", "k", "--from-state", badState}, "failed to parse state file"},
		{"state with inputs", []string{"evaluate", "--api-key", "k", "--from-state", badState, "--resume", resume}, "none of the others"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := testApp(stageModel())
			err := execute(t, a, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
