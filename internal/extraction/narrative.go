package extraction

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/prompts"
	"github.com/jonathan/candidate-fit/internal/types"
)

// CheckAlignment asks whether the posting describes the stated role
func (m *StageModel) CheckAlignment(ctx context.Context, roleName string, reqs *types.JobRequirements) (*types.Alignment, error) {
	var alignment types.Alignment
	err := m.generate(ctx, prompts.CheckAlignment, llm.TierLite, map[string]string{
		"RoleName":     orUnknown(roleName),
		"Requirements": FormatRequirements(reqs),
	}, "", &alignment)
	if err != nil {
		return nil, err
	}
	alignment.Flags = dedupeTrimmed(alignment.Flags)
	return &alignment, nil
}

// EvaluateCulture scores the soft skills and working style the candidate shows for the role
func (m *StageModel) EvaluateCulture(ctx context.Context, reqs *types.JobRequirements, profile *types.CandidateProfile) (*types.CultureEvaluation, error) {
	var responsibilities []string
	roleName := ""
	if reqs != nil {
		responsibilities = reqs.Responsibilities
		roleName = reqs.RoleName
	}

	// Models sometimes answer with fractional scores
	var raw struct {
		types.StageNotes
		Score float64 `json:"score"`
	}
	err := m.generate(ctx, prompts.EvaluateCulture, llm.TierStandard, map[string]string{
		"RoleName":         orUnknown(roleName),
		"Responsibilities": bulletList(responsibilities),
		"Profile":          describeProfile(profile),
	}, "", &raw)
	if err != nil {
		return nil, err
	}
	return &types.CultureEvaluation{
		StageNotes: raw.StageNotes,
		Score:      clamp(int(math.Round(raw.Score))),
	}, nil
}

// WriteFeedback produces the narrative summary, interview questions and email for a scored candidate
func (m *StageModel) WriteFeedback(ctx context.Context, roleName string, eval *types.FinalEvaluation) (*types.Feedback, error) {
	if eval == nil {
		return nil, &parsing.ValidationError{Field: "final_evaluation", Message: "nothing to explain"}
	}

	var feedback types.Feedback
	err := m.generate(ctx, prompts.WriteFeedback, llm.TierAdvanced, map[string]string{
		"RoleName":   orUnknown(roleName),
		"FinalScore": fmt.Sprint(eval.FinalScore),
		"Competency": fmt.Sprint(eval.CategoryScores.Competency),
		"Experience": fmt.Sprint(eval.CategoryScores.Experience),
		"SoftSkills": fmt.Sprint(eval.CategoryScores.SoftSkills),
		"Strengths":  joinOrNone(eval.Strengths),
		"Weaknesses": joinOrNone(eval.Weaknesses),
	}, "", &feedback)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func describeProfile(profile *types.CandidateProfile) string {
	if profile == nil {
		return "(none)"
	}
	var sb strings.Builder
	if profile.Summary != "" {
		sb.WriteString("Summary: ")
		sb.WriteString(profile.Summary)
		sb.WriteString("\n")
	}
	for _, job := range profile.WorkExperience {
		fmt.Fprintf(&sb, "- %s at %s: %s\n", job.JobTitle, job.Company, job.Description)
	}
	if sb.Len() == 0 {
		return "(none)"
	}
	return strings.TrimRight(sb.String(), "\n")
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return "- " + strings.Join(items, "\n- ")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, "; ")
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
