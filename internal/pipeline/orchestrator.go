// Package pipeline orchestrates the candidate evaluation stages: requirement parsing,
// alignment, profile extraction, the three concurrent specialist evaluations,
// aggregation and the optional narrative.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/judgment"
	"github.com/jonathan/candidate-fit/internal/pipeline/steps"
	"github.com/jonathan/candidate-fit/internal/types"
)

// StageModel runs the model-backed stages that turn text into structured inputs
type StageModel interface {
	ParseRequirements(ctx context.Context, jobText, roleName string) (*types.JobRequirements, error)
	InferRequirements(ctx context.Context, roleName string) (*types.JobRequirements, error)
	CheckAlignment(ctx context.Context, roleName string, reqs *types.JobRequirements) (*types.Alignment, error)
	ExtractProfile(ctx context.Context, resumeText string) (*types.CandidateProfile, error)
	EvaluateCulture(ctx context.Context, reqs *types.JobRequirements, profile *types.CandidateProfile) (*types.CultureEvaluation, error)
}

// Narrator writes the feedback for a finished evaluation
type Narrator interface {
	WriteFeedback(ctx context.Context, roleName string, eval *types.FinalEvaluation) (*types.Feedback, error)
}

// Dependencies are the external collaborators of an Orchestrator
type Dependencies struct {
	Judge    judgment.Provider
	Model    StageModel
	Narrator Narrator
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. Events of one run are
// delivered sequentially from the goroutine that called Run.
type ProgressCallback func(event ProgressEvent)

var (
	errNoModel = errors.New("no stage model configured")

	// ErrNotScored is returned by Explain for a state without a final evaluation
	ErrNotScored = errors.New("state has no final evaluation")
	// ErrNoNarrator is returned by Explain when no Narrator is configured
	ErrNoNarrator = errors.New("no narrator configured")
)

// Orchestrator runs evaluations. It holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	deps     Dependencies
	retry    RetryPolicy
	timeout  time.Duration
	feedback bool
	progress ProgressCallback
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithRetryPolicy sets the per-stage retry policy
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *Orchestrator) { o.retry = policy }
}

// WithTimeout bounds a whole run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithFeedback enables the narrative stage after aggregation
func WithFeedback(enabled bool) Option {
	return func(o *Orchestrator) { o.feedback = enabled }
}

// WithProgress sets the progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(o *Orchestrator) { o.progress = cb }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the source of "now" for experience calculations
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an Orchestrator. A nil Judge is replaced by an empty static provider,
// which leaves every score to the deterministic heuristics.
func New(deps Dependencies, opts ...Option) *Orchestrator {
	if deps.Judge == nil {
		deps.Judge = &judgment.Static{}
	}
	o := &Orchestrator{
		deps:   deps,
		retry:  DefaultRetryPolicy(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run evaluates one candidate against one job
func (o *Orchestrator) Run(ctx context.Context, input Input) (*PipelineState, error) {
	return o.Resume(ctx, NewState(input))
}

// Resume continues a run from a state snapshot. Stages whose slot is already filled
// are skipped. The snapshot itself is not modified.
func (o *Orchestrator) Resume(ctx context.Context, snapshot *PipelineState) (*PipelineState, error) {
	state := snapshot.Snapshot()
	if state == nil {
		state = NewState(Input{})
	}
	log := o.logger.With(zap.String("run_id", state.RunID.String()))

	if fatalInput(state) {
		return o.fail(state, log, ErrFatalInput)
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	levels, err := steps.Order()
	if err != nil {
		return o.fail(state, log, err)
	}

	log.Info("evaluation started", zap.String("role", state.RoleName))
	sequential := map[string]func() error{
		steps.ParseRequirements: func() error { return o.parseRequirements(ctx, state, log) },
		steps.CheckAlignment:    func() error { return o.checkAlignment(ctx, state, log) },
		steps.ExtractProfile:    func() error { return o.extractProfile(ctx, state, log) },
		steps.Aggregate:         func() error { return o.aggregate(ctx, state, log) },
		steps.WriteFeedback: func() error {
			if !o.feedback || o.deps.Narrator == nil || state.Feedback.Filled() {
				return nil
			}
			return o.writeFeedback(ctx, state, log)
		},
	}

	completed := make(map[string]bool)
	for _, level := range levels {
		for _, step := range level {
			if err := steps.ValidateDependencies(step, completed); err != nil {
				return o.fail(state, log, err)
			}
		}
		if run, ok := sequential[level[0]]; ok && len(level) == 1 {
			err = run()
		} else {
			err = o.evaluate(ctx, state, log, level)
		}
		if err != nil {
			return o.fail(state, log, err)
		}
		for _, step := range level {
			completed[step] = true
		}
	}

	state.Phase = PhaseDone
	if final := state.FinalEval.Get(); final != nil {
		log.Info("evaluation finished",
			zap.Int("final_score", final.FinalScore),
			zap.Int("confidence", final.Confidence),
			zap.Int("version", state.Version))
	}
	return state, nil
}

func (o *Orchestrator) fail(state *PipelineState, log *zap.Logger, err error) (*PipelineState, error) {
	state.Phase = PhaseFailed
	state.Error = err.Error()
	log.Error("evaluation failed", zap.Error(err))
	if errors.Is(err, ErrFatalInput) {
		return state, err
	}
	return state, fmt.Errorf("evaluation aborted: %w", err)
}

func (o *Orchestrator) emit(state *PipelineState, step, message string, degraded bool, content any) {
	if o.progress == nil {
		return
	}
	o.progress(ProgressEvent{
		Step:     step,
		Category: steps.StepRegistry[step].Category,
		Message:  message,
		RunID:    state.RunID.String(),
		Degraded: degraded,
		Content:  content,
	})
}

// attempt runs fn under the retry policy. Panics are recovered and not retried.
func (o *Orchestrator) attempt(ctx context.Context, step string, fn func(ctx context.Context) error) (int, error) {
	return o.retry.Do(ctx, func(ctx context.Context) error {
		err := protect(step, func() error { return fn(ctx) })
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			return Permanent(err)
		}
		return err
	})
}

// record logs and reports the outcome of a stage
func record[T any](o *Orchestrator, state *PipelineState, log *zap.Logger, step string, result *Result[T]) {
	if result.Degraded {
		log.Warn("stage degraded",
			zap.String("stage", step),
			zap.String("kind", string(result.Kind)),
			zap.Int("attempts", result.Attempts),
			zap.String("reason", result.Reason))
		o.emit(state, step, "degraded: "+result.Reason, true, result.Value)
		return
	}
	log.Debug("stage completed", zap.String("stage", step), zap.Int("attempts", result.Attempts))
	o.emit(state, step, "completed", false, result.Value)
}

func (o *Orchestrator) skipped(state *PipelineState, log *zap.Logger, step string) {
	log.Debug("stage skipped", zap.String("stage", step))
	o.emit(state, step, "skipped: already available", false, nil)
}

func (o *Orchestrator) calculator(log *zap.Logger) *experience.Calculator {
	return experience.NewCalculator(experience.WithClock(o.now), experience.WithLogger(log))
}

// fatalInput reports whether neither a candidate nor a job was supplied
func fatalInput(s *PipelineState) bool {
	noCandidate := strings.TrimSpace(s.ResumeText) == "" && s.Profile.Get().IsEmpty()
	noJob := strings.TrimSpace(s.JobText) == "" && requirementsEmpty(s.Requirements.Get())
	return noCandidate && noJob
}

func requirementsEmpty(r *types.JobRequirements) bool {
	return r == nil || (!r.HasRequirements() && !r.HasCertifications() &&
		r.RequiredYears == 0 && strings.TrimSpace(r.EducationRequirement.RequiredLevel) == "")
}

// branch is one specialist stage of the concurrent level
type branch struct {
	filled bool
	run    func(ctx context.Context) (*PipelineState, error)
	record func(delta *PipelineState)
}

func (o *Orchestrator) branches(state *PipelineState, reqs *types.JobRequirements, profile *types.CandidateProfile, log *zap.Logger) map[string]branch {
	return map[string]branch{
		steps.EvaluateTech: {
			filled: state.TechEval.Filled(),
			run: func(ctx context.Context) (*PipelineState, error) {
				result, err := o.evaluateTech(ctx, reqs, profile)
				return &PipelineState{TechEval: result}, err
			},
			record: func(d *PipelineState) { record(o, state, log, steps.EvaluateTech, d.TechEval) },
		},
		steps.EvaluateExperience: {
			filled: state.ExperienceEval.Filled(),
			run: func(ctx context.Context) (*PipelineState, error) {
				result, err := o.evaluateExperience(ctx, reqs, profile, log)
				return &PipelineState{ExperienceEval: result}, err
			},
			record: func(d *PipelineState) { record(o, state, log, steps.EvaluateExperience, d.ExperienceEval) },
		},
		steps.EvaluateCulture: {
			filled: state.CultureEval.Filled(),
			run: func(ctx context.Context) (*PipelineState, error) {
				result, err := o.evaluateCulture(ctx, reqs, profile)
				return &PipelineState{CultureEval: result}, err
			},
			record: func(d *PipelineState) { record(o, state, log, steps.EvaluateCulture, d.CultureEval) },
		},
	}
}

// evaluate runs the specialist stages of one level concurrently. Each branch writes only
// its own delta; deltas are merged in level order after every branch has finished.
func (o *Orchestrator) evaluate(ctx context.Context, state *PipelineState, log *zap.Logger, level []string) error {
	reqs := state.Requirements.Get()
	if reqs == nil {
		reqs = &types.JobRequirements{}
	}
	profile := state.Profile.Get()
	if profile == nil {
		profile = &types.CandidateProfile{}
	}

	branches := o.branches(state, reqs, profile, log)
	deltas := make([]*PipelineState, len(level))
	g, gctx := errgroup.WithContext(ctx)
	for i, step := range level {
		b, ok := branches[step]
		if !ok {
			return fmt.Errorf("stage %s cannot run concurrently", step)
		}
		if b.filled {
			continue
		}
		g.Go(func() error {
			delta, err := b.run(gctx)
			if err != nil {
				return err
			}
			deltas[i] = delta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, step := range level {
		if deltas[i] != nil && state.Merge(deltas[i]) {
			branches[step].record(deltas[i])
		} else {
			o.skipped(state, log, step)
		}
	}
	state.Phase = PhaseEvaluated
	return nil
}
