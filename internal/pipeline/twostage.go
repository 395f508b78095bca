package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/judgment"
	"github.com/jonathan/candidate-fit/internal/pipeline/steps"
	"github.com/jonathan/candidate-fit/internal/ranking"
	"github.com/jonathan/candidate-fit/internal/types"
)

// QuickScore produces a score without the narrative stages. Requirements and profile
// come from the input or their parsing stages; the scorers then run with a single
// batched judgment call. Alignment, the specialist slots and feedback are left empty.
func (o *Orchestrator) QuickScore(ctx context.Context, input Input) (*PipelineState, error) {
	state := NewState(input)
	log := o.logger.With(zap.String("run_id", state.RunID.String()), zap.Bool("quick", true))

	if fatalInput(state) {
		return o.fail(state, log, ErrFatalInput)
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if err := o.parseRequirements(ctx, state, log); err != nil {
		return o.fail(state, log, err)
	}
	if err := o.extractProfile(ctx, state, log); err != nil {
		return o.fail(state, log, err)
	}

	reqs := state.Requirements.Get()
	profile := state.Profile.Get()

	var judgments *types.Judgments
	attempts, judgeErr := o.attempt(ctx, steps.Aggregate, func(ctx context.Context) error {
		resp, err := o.deps.Judge.Judge(ctx, judgment.NewRequest(profile, reqs))
		if err != nil {
			return err
		}
		judgments = resp.Judgments()
		return nil
	})
	if err := ctx.Err(); err != nil {
		return o.fail(state, log, err)
	}

	final, err := safely(steps.Aggregate, func() *types.FinalEvaluation {
		return quickEvaluation(o.calculator(log), reqs, profile, judgments)
	})
	var result *Result[types.FinalEvaluation]
	switch {
	case err != nil:
		result = Degrade(&types.FinalEvaluation{}, err, attempts)
	case judgeErr != nil:
		result = Degrade(final, judgeErr, attempts)
	default:
		result = Ok(final, attempts)
	}
	if profile != nil {
		for _, issue := range o.calculator(log).DateIssues(profile.WorkExperience) {
			result.Notes = append(result.Notes, Note{Kind: Classify(issue), Message: issue.Error()})
		}
	}

	state.Merge(&PipelineState{FinalEval: result})
	record(o, state, log, steps.Aggregate, result)
	state.Phase = PhaseDone
	return state, nil
}

// Explain runs only the narrative stage on a copy of a scored state
func (o *Orchestrator) Explain(ctx context.Context, snapshot *PipelineState) (*PipelineState, error) {
	if snapshot == nil || !snapshot.FinalEval.Filled() {
		return nil, ErrNotScored
	}
	if o.deps.Narrator == nil {
		return nil, ErrNoNarrator
	}

	state := snapshot.Snapshot()
	log := o.logger.With(zap.String("run_id", state.RunID.String()))
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if err := o.writeFeedback(ctx, state, log); err != nil {
		return o.fail(state, log, err)
	}
	state.Phase = PhaseDone
	return state, nil
}

func quickEvaluation(calc *experience.Calculator, reqs *types.JobRequirements, profile *types.CandidateProfile, judgments *types.Judgments) *types.FinalEvaluation {
	fit := ranking.Evaluate(calc, profile, reqs, judgments)
	components := fit.Breakdown.Breakdown
	hasCerts := reqs.HasCertifications()

	final := &types.FinalEvaluation{
		FinalScore: fit.Breakdown.BaseScore,
		CategoryScores: types.CategoryScores{
			Competency: ranking.CompetencyScore(components.SkillMatch, components.Certifications, hasCerts),
			Experience: ranking.ExperienceCategoryScore(components.ExperienceRelevance, components.EducationFit, hasCerts),
		},
		Strengths:       []string{},
		Weaknesses:      []string{},
		Breakdown:       fit.Breakdown,
		Confidence:      ranking.Confidence(profile, nil),
		ExperienceLevel: fit.ExperienceLevel,
	}
	for _, name := range fit.Skills.Matched {
		final.Strengths = append(final.Strengths, "Meets requirement: "+name)
	}
	for _, name := range fit.Skills.Missing {
		final.Weaknesses = append(final.Weaknesses, "Gap in requirement: "+name)
	}
	return final
}
