package judgment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/logging"
	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/prompts"
	"github.com/jonathan/candidate-fit/internal/types"
)

// LLMProvider asks a language model for the batched judgments
type LLMProvider struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// Option configures an LLMProvider
type Option func(*LLMProvider)

// WithLogger sets the logger used for decode diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(p *LLMProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTier overrides the model tier used for judgments
func WithTier(tier llm.ModelTier) Option {
	return func(p *LLMProvider) { p.tier = tier }
}

// NewLLMProvider wraps a client. The caller keeps ownership of the client.
func NewLLMProvider(client llm.Client, opts ...Option) *LLMProvider {
	p := &LLMProvider{client: client, tier: llm.TierLite, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Judge implements Provider. Transport failures are returned as *parsing.APICallError;
// unusable model output is not an error and yields a partial or empty Response.
func (p *LLMProvider) Judge(ctx context.Context, req Request) (Response, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return Response{}, err
	}

	text, err := p.client.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		return Response{}, &parsing.APICallError{
			Stage:   string(prompts.JudgeFit),
			Message: "failed to generate judgments",
			Cause:   err,
		}
	}

	resp := Decode(text, BoundsFor(req.Profile))
	if resp.Empty() && strings.TrimSpace(text) != "" {
		p.logger.Warn("judgment response unusable",
			zap.String("model", p.client.GetModel(p.tier)),
			zap.Int("response_bytes", len(text)),
			zap.String("response", logging.Truncate(text, 200)))
	} else {
		p.logger.Debug("judgments decoded",
			zap.Int("work", len(resp.WorkExperienceAnalysis)),
			zap.Int("skills", len(resp.SkillAnalysis)),
			zap.Int("education", len(resp.EducationAnalysis)))
	}
	return resp, nil
}

// BuildPrompt renders the judgment prompt for a request
func BuildPrompt(req Request) (string, error) {
	profile := req.Profile
	if profile == nil {
		profile = &types.CandidateProfile{}
	}
	return prompts.RenderFit(prompts.JudgeFit, map[string]string{
		"RoleName":       req.RoleName,
		"Requirements":   bulletList(req.RequirementItems),
		"Categories":     bulletList(req.Categories),
		"WorkExperience": formatWork(profile.WorkExperience),
		"Education":      formatEducation(profile.Education),
		"Skills":         orNone(strings.Join(profile.Skills, ", ")),
	})
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatWork(jobs []types.WorkExperience) string {
	if len(jobs) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(jobs))
	for i, job := range jobs {
		line := fmt.Sprintf("[%d] %s at %s (%s to %s)", i, orNone(job.JobTitle), orNone(job.Company),
			orNone(job.StartDate), orNone(job.EndDate))
		if desc := strings.TrimSpace(job.Description); desc != "" {
			line += ": " + desc
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatEducation(entries []types.Education) string {
	if len(entries) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("[%d] %s in %s, %s", i, orNone(e.DegreeLevel),
			orNone(e.FieldOfStudy), orNone(e.Institution)))
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
