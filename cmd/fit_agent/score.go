package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/config"
	"github.com/jonathan/candidate-fit/internal/export"
	"github.com/jonathan/candidate-fit/internal/judgment"
	"github.com/jonathan/candidate-fit/internal/observability"
	"github.com/jonathan/candidate-fit/internal/pipeline"
	"github.com/jonathan/candidate-fit/internal/schemas"
	"github.com/jonathan/candidate-fit/internal/types"
)

type scoreOptions struct {
	profiles     []string
	requirements string
	role         string
	xlsx         string
}

func newScoreCmd(a *app) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score structured candidate profiles against structured job requirements",
		Long: "Score one or more candidate profile JSON files against a job requirements JSON file. " +
			"Uses a single batched judgment call per candidate when a model is configured, and the " +
			"deterministic heuristics otherwise.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runScore(cmd, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.profiles, "profile", "p", nil, "candidate profile JSON file (repeatable)")
	cmd.Flags().StringVarP(&opts.requirements, "requirements", "r", "", "job requirements JSON file")
	cmd.Flags().StringVar(&opts.role, "role", "", "role name (overrides the requirements file)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write a ranked workbook to this path")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("requirements")
	return cmd
}

func (a *app) runScore(cmd *cobra.Command, opts *scoreOptions) error {
	cfg, logger, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx := cmd.Context()

	reqs, err := loadRequirements(opts.requirements)
	if err != nil {
		return err
	}
	roleName := opts.role
	if roleName == "" {
		roleName = reqs.RoleName
	}

	deps := pipeline.Dependencies{}
	if cfg.HasModel() {
		client, err := a.newClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		deps.Judge = judgment.NewLLMProvider(client, judgment.WithLogger(logger))
	} else {
		logger.Warn("no model configured, scoring with heuristics only")
	}
	orch := pipeline.New(deps, orchestratorOptions(cfg, logger)...)

	printer := observability.NewPrinter(a.stdout)
	rows := make([]export.Row, 0, len(opts.profiles))
	for _, path := range opts.profiles {
		name := filepath.Base(path)
		profile, err := loadProfile(path)
		if err != nil {
			return err
		}

		state, err := orch.QuickScore(ctx, pipeline.Input{RoleName: roleName, Profile: profile, Requirements: reqs})
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.Error("scoring failed", zap.String("profile", name), zap.Error(err))
		}
		rows = append(rows, export.RowFromState(name, state))

		if final := state.FinalEval.Get(); final != nil {
			printer.PrintBreakdown(name, &final.Breakdown)
		}
	}

	if opts.xlsx != "" {
		if err := export.WriteWorkbook(opts.xlsx, roleName, rows); err != nil {
			return err
		}
		logger.Info("workbook written", zap.String("path", opts.xlsx), zap.Int("candidates", len(rows)))
	}

	for i, row := range export.Rank(rows) {
		fmt.Fprintf(a.stdout, "%d. %s  %d\n", i+1, row.Candidate, row.FinalScore)
	}
	return nil
}

func orchestratorOptions(cfg *config.Config, logger *zap.Logger) []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithTimeout(cfg.Timeout),
		pipeline.WithRetryPolicy(pipeline.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     cfg.Retry.Backoff,
		}),
		pipeline.WithFeedback(cfg.Feedback),
	}
}

// loadRequirements reads a requirements file, checks it against the schema and
// the field constraints
func loadRequirements(path string) (*types.JobRequirements, error) {
	data, err := readValidated(schemas.JobRequirements, path)
	if err != nil {
		return nil, err
	}
	var reqs types.JobRequirements
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse requirements %s: %w", path, err)
	}
	reqs.Sanitize()
	if err := reqs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid requirements %s: %w", path, err)
	}
	return &reqs, nil
}

func loadProfile(path string) (*types.CandidateProfile, error) {
	data, err := readValidated(schemas.CandidateProfile, path)
	if err != nil {
		return nil, err
	}
	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &profile, nil
}

func readValidated(name schemas.Name, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.Validate(name, data); err != nil {
		return nil, fmt.Errorf("%s does not match the %s schema: %w", path, name, err)
	}
	return data, nil
}
