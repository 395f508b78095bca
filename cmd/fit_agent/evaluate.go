package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/extraction"
	"github.com/jonathan/candidate-fit/internal/ingestion"
	"github.com/jonathan/candidate-fit/internal/judgment"
	"github.com/jonathan/candidate-fit/internal/observability"
	"github.com/jonathan/candidate-fit/internal/pipeline"
)

type evaluateOptions struct {
	resume    string
	job       string
	role      string
	explain   bool
	timeout   time.Duration
	out       string
	fromState string
}

func newEvaluateCmd(a *app) *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the full staged evaluation of a resume against a job posting",
		Long: "Parse the job posting and resume, check the posting against the stated role, run the " +
			"technical, experience and soft-skills evaluations concurrently and aggregate them. " +
			"With --explain a narrative with interview questions is written as well.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEvaluate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.resume, "resume", "", "resume text or HTML file")
	cmd.Flags().StringVar(&opts.job, "job", "", "job posting text or HTML file")
	cmd.Flags().StringVar(&opts.role, "role", "", "role the candidate applies for")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "write narrative feedback after scoring")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "limit for the whole run (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the final run state as JSON to this path")
	cmd.Flags().StringVar(&opts.fromState, "from-state", "", "continue a run from a state JSON file written with --out")
	cmd.MarkFlagsMutuallyExclusive("from-state", "resume")
	cmd.MarkFlagsMutuallyExclusive("from-state", "job")
	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	cfg, logger, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx := cmd.Context()

	snapshot, err := opts.initialState()
	if err != nil {
		return err
	}
	if !cfg.HasModel() {
		return errors.New("evaluate needs a model: set an API key (--api-key, FIT_API_KEY or GEMINI_API_KEY) or a Vertex project")
	}

	client, err := a.newClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	calc := experience.NewCalculator(experience.WithLogger(logger))
	model := extraction.NewStageModel(client, extraction.WithLogger(logger), extraction.WithCalculator(calc))
	deps := pipeline.Dependencies{
		Judge:    judgment.NewLLMProvider(client, judgment.WithLogger(logger)),
		Model:    model,
		Narrator: model,
	}

	options := orchestratorOptions(cfg, logger)
	if opts.timeout > 0 {
		options = append(options, pipeline.WithTimeout(opts.timeout))
	}
	if opts.explain {
		options = append(options, pipeline.WithFeedback(true))
	}
	options = append(options, pipeline.WithProgress(func(e pipeline.ProgressEvent) {
		logger.Info("stage progress", zap.String("stage", e.Step), zap.String("message", e.Message), zap.String("category", e.Category), zap.Bool("degraded", e.Degraded))
	}))
	orch := pipeline.New(deps, options...)

	state, runErr := orch.Resume(ctx, snapshot)

	printer := observability.NewPrinter(a.stdout)
	printer.PrintRunStatus(state)
	printer.PrintAlignment(state.Alignment.Get())
	printer.PrintFinalEvaluation(state.FinalEval.Get())
	printer.PrintFeedback(state.Feedback.Get())

	if opts.out != "" {
		if err := writeState(opts.out, state); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// initialState builds the run state from files, or loads a saved state
func (o *evaluateOptions) initialState() (*pipeline.PipelineState, error) {
	if o.fromState != "" {
		data, err := os.ReadFile(o.fromState)
		if err != nil {
			return nil, fmt.Errorf("failed to read state file: %w", err)
		}
		state, err := pipeline.ParseState(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse state file %s: %w", o.fromState, err)
		}
		return state, nil
	}

	input := pipeline.Input{RoleName: o.role}
	if o.resume != "" {
		doc, err := ingestion.LoadText(o.resume)
		if err != nil {
			return nil, fmt.Errorf("failed to load resume: %w", err)
		}
		input.ResumeText = doc.Text
	}
	if o.job != "" {
		doc, err := ingestion.LoadText(o.job)
		if err != nil {
			return nil, fmt.Errorf("failed to load job posting: %w", err)
		}
		input.JobText = doc.Text
	}
	return pipeline.NewState(input), nil
}

func writeState(path string, state *pipeline.PipelineState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
