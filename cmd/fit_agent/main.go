// Package main provides the fit_agent CLI, which scores candidates against job requirements.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/config"
	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/logging"
)

// app holds the collaborators commands share; tests replace newClient and the writers
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient func(ctx context.Context, cfg *config.Config) (llm.Client, error)

	cfgFile string
}

func defaultApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newClient: func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
			return llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fit_agent",
		Short:         "Candidate fit scoring",
		Long:          "fit_agent scores how well candidates fit a job: a fast composite score from structured profiles, or a full staged evaluation from resume and job posting text.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML or JSON)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("api-key", "", "Gemini API key (overrides FIT_API_KEY and GEMINI_API_KEY)")
	flags.String("provider", "", "model provider: gemini or vertex")

	root.AddCommand(newScoreCmd(a), newEvaluateCmd(a))
	return root
}

// setup loads and validates configuration and builds the logger for a command
func (a *app) setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(defaultApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
