// Package extraction turns raw resume and job description text into structured inputs
// and runs the narrative model stages around scoring.
package extraction

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/prompts"
	"github.com/jonathan/candidate-fit/internal/schemas"
)

// StageModel runs the model-backed pipeline stages against an llm.Client
type StageModel struct {
	client     llm.Client
	calculator *experience.Calculator
	logger     *zap.Logger
}

// Option configures a StageModel
type Option func(*StageModel)

// WithLogger sets the logger used by the stages
func WithLogger(logger *zap.Logger) Option {
	return func(m *StageModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithCalculator sets the calculator used to derive total years of experience
func WithCalculator(calc *experience.Calculator) Option {
	return func(m *StageModel) {
		if calc != nil {
			m.calculator = calc
		}
	}
}

// NewStageModel wraps a client. The caller keeps ownership of the client.
func NewStageModel(client llm.Client, opts ...Option) *StageModel {
	m := &StageModel{client: client, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.calculator == nil {
		m.calculator = experience.NewCalculator(experience.WithLogger(m.logger))
	}
	return m
}

// generate renders a prompt, calls the model and decodes the JSON object it returns into out.
// When schema is non-empty the object is validated before decoding.
func (m *StageModel) generate(ctx context.Context, stage prompts.Key, tier llm.ModelTier, data map[string]string, schema schemas.Name, out any) error {
	prompt, err := prompts.RenderFit(stage, data)
	if err != nil {
		return err
	}

	text, err := m.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &parsing.APICallError{Stage: string(stage), Message: "model call failed", Cause: err}
	}

	body := llm.ExtractJSONObject(text)
	if body == "" {
		return &parsing.ParseError{Message: string(stage) + ": response contains no JSON object"}
	}
	if schema != "" {
		if err := schemas.Validate(schema, []byte(body)); err != nil {
			return &parsing.ParseError{Message: string(stage) + ": response failed schema validation", Cause: err}
		}
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return &parsing.ParseError{Message: string(stage) + ": failed to parse JSON response", Cause: err}
	}

	m.logger.Debug("stage response decoded",
		zap.String("stage", string(stage)),
		zap.String("model", m.client.GetModel(tier)))
	return nil
}
