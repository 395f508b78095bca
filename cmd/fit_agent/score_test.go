package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/candidate-fit/internal/export"
	"github.com/jonathan/candidate-fit/internal/llm/llmtest"
)

const (
	requirementsJSON = `{
		"role_name": "Backend Engineer",
		"required_years": 2,
		"primary_requirements": [
			{"text": "Go", "category": "Languages"},
			{"text": "PostgreSQL", "category": "Databases"}
		]
	}`
	strongProfileJSON = `{
		"name": "Alice",
		"skills": ["Go", "PostgreSQL"],
		"work_experience": [{"company": "Acme", "job_title": "Backend Engineer", "start_date": "2018-01", "end_date": "2023-01"}],
		"education": [{"degree_level": "BSc", "field_of_study": "Computer Science"}]
	}`
	weakProfileJSON = `{"name": "Bob", "skills": ["Excel"]}`
)

func TestScore_HeuristicsOnly(t *testing.T) {
	clearKeys(t)
	a, out := testApp(nil)
	dir := t.TempDir()
	reqs := writeFile(t, dir, "reqs.json", requirementsJSON)
	alice := writeFile(t, dir, "alice.json", strongProfileJSON)
	bob := writeFile(t, dir, "bob.json", weakProfileJSON)
	xlsx := filepath.Join(dir, "ranked.xlsx")

	err := execute(t, a, "score", "--profile", bob, "--profile", alice, "--requirements", reqs, "--xlsx", xlsx)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "SCORE BREAKDOWN: alice.json")
	assert.Contains(t, output, "SCORE BREAKDOWN: bob.json")
	assert.Contains(t, output, "1. alice.json")
	assert.Contains(t, output, "2. bob.json")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue(export.SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", v)
}

func TestScore_UsesJudgmentModel(t *testing.T) {
	clearKeys(t)
	client := llmtest.Returning(`{
		"work_experience_analysis": [{"job_index": 0, "relevance_level": "High"}],
		"skill_analysis": [{"category": "Languages", "match_level": "Strong"}, {"category": "Databases", "match_level": "Strong"}],
		"education_analysis": [{"education_index": 0, "is_relevant": true, "degree_level": "Bachelor"}]
	}`)
	a, out := testApp(client)
	dir := t.TempDir()
	reqs := writeFile(t, dir, "reqs.json", requirementsJSON)
	alice := writeFile(t, dir, "alice.json", strongProfileJSON)

	err := execute(t, a, "score", "--api-key", "test-key", "--profile", alice, "--requirements", reqs, "--role", "Platform Engineer")
	require.NoError(t, err)

	assert.Equal(t, 1, client.Calls(), "one batched judgment per candidate")
	assert.True(t, client.Closed())
	assert.Contains(t, client.Prompts()[0], "Platform Engineer")
	assert.Contains(t, out.String(), "1. alice.json")
}

func TestScore_InputErrors(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	reqs := writeFile(t, dir, "reqs.json", requirementsJSON)
	profile := writeFile(t, dir, "p.json", strongProfileJSON)
	badReqs := writeFile(t, dir, "bad_reqs.json", `{"required_years": "three"}`)
	badProfile := writeFile(t, dir, "bad_profile.json", `{"skills": "Go"}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing profile flag", []string{"score", "--requirements", reqs}, "profile"},
		{"missing requirements flag", []string{"score", "--profile", profile}, "requirements"},
		{"requirements schema", []string{"score", "--profile", profile, "--requirements", badReqs}, "job_requirements schema"},
		{"profile schema", []string{"score", "--profile", badProfile, "--requirements", reqs}, "candidate_profile schema"},
		{"missing file", []string{"score", "--profile", filepath.Join(dir, "nope.json"), "--requirements", reqs}, "failed to read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := testApp(nil)
			err := execute(t, a, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
