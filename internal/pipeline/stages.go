package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/extraction"
	"github.com/jonathan/candidate-fit/internal/judgment"
	"github.com/jonathan/candidate-fit/internal/pipeline/steps"
	"github.com/jonathan/candidate-fit/internal/ranking"
	"github.com/jonathan/candidate-fit/internal/types"
)

func (o *Orchestrator) parseRequirements(ctx context.Context, state *PipelineState, log *zap.Logger) error {
	step := steps.ParseRequirements
	if state.Requirements.Filled() && !state.Requirements.Skipped {
		o.skipped(state, log, step)
		state.Phase = PhaseRequirementsParsed
		return nil
	}

	var result *Result[types.JobRequirements]
	if state.Requirements.Filled() {
		result = state.Requirements
	} else {
		var reqs *types.JobRequirements
		attempts, err := o.attempt(ctx, step, func(ctx context.Context) error {
			if strings.TrimSpace(state.JobText) == "" {
				reqs = extraction.DefaultRequirements(state.RoleName)
				return nil
			}
			if o.deps.Model == nil {
				return Permanent(errNoModel)
			}
			parsed, err := o.deps.Model.ParseRequirements(ctx, state.JobText, state.RoleName)
			if err != nil {
				return err
			}
			reqs = parsed
			return nil
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result = Degrade(extraction.DefaultRequirements(state.RoleName), err, attempts)
		} else {
			result = Ok(reqs, attempts)
		}
	}

	if !result.Value.HasRequirements() {
		if err := o.inferRequirements(ctx, state, result, log); err != nil {
			return err
		}
	}

	state.Merge(&PipelineState{Requirements: result})
	state.Phase = PhaseRequirementsParsed
	record(o, state, log, step, result)
	return nil
}

// inferRequirements substitutes a standard requirement set for the role when the
// posting listed none. A failure leaves the requirements empty and adds a note.
func (o *Orchestrator) inferRequirements(ctx context.Context, state *PipelineState, result *Result[types.JobRequirements], log *zap.Logger) error {
	roleName := result.Value.RoleName
	if roleName == "" {
		roleName = state.RoleName
	}
	if strings.TrimSpace(roleName) == "" || o.deps.Model == nil {
		return nil
	}

	var inferred *types.JobRequirements
	_, err := o.attempt(ctx, steps.ParseRequirements, func(ctx context.Context) error {
		r, err := o.deps.Model.InferRequirements(ctx, roleName)
		if err != nil {
			return err
		}
		inferred = r
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		log.Warn("requirement inference failed", zap.String("role", roleName), zap.Error(err))
		result.Notes = append(result.Notes, Note{Kind: Classify(err), Message: "requirement inference failed: " + err.Error()})
		return nil
	}

	extraction.MergeInferred(result.Value, inferred)
	result.Notes = append(result.Notes, Note{
		Kind:    KindMalformedInput,
		Message: fmt.Sprintf("no requirements listed; inferred %d for %s", len(result.Value.PrimaryRequirements), roleName),
	})
	return nil
}

func (o *Orchestrator) checkAlignment(ctx context.Context, state *PipelineState, log *zap.Logger) error {
	step := steps.CheckAlignment
	if state.Alignment.Filled() {
		o.skipped(state, log, step)
		state.Phase = PhaseAlignmentChecked
		return nil
	}

	roleName := state.RoleName
	reqs := state.Requirements.Get()
	if roleName == "" && reqs != nil {
		roleName = reqs.RoleName
	}

	var alignment *types.Alignment
	attempts, err := o.attempt(ctx, step, func(ctx context.Context) error {
		if o.deps.Model == nil {
			return Permanent(errNoModel)
		}
		a, err := o.deps.Model.CheckAlignment(ctx, roleName, reqs)
		if err != nil {
			return err
		}
		alignment = a
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var result *Result[types.Alignment]
	if err != nil {
		result = Degrade(&types.Alignment{Aligned: true, Reasoning: "alignment not checked: " + err.Error()}, err, attempts)
	} else {
		result = Ok(alignment, attempts)
	}
	state.Merge(&PipelineState{Alignment: result})
	state.Phase = PhaseAlignmentChecked
	record(o, state, log, step, result)
	return nil
}

func (o *Orchestrator) extractProfile(ctx context.Context, state *PipelineState, log *zap.Logger) error {
	step := steps.ExtractProfile
	if state.Profile.Filled() && !state.Profile.Skipped {
		o.skipped(state, log, step)
		state.Phase = PhaseProfileExtracted
		return nil
	}

	var result *Result[types.CandidateProfile]
	if state.Profile.Filled() {
		// Supplied profiles get the same normalization as extracted ones
		extraction.FinalizeProfile(o.calculator(log), state.Profile.Value)
		result = state.Profile
	} else {
		var profile *types.CandidateProfile
		attempts, err := o.attempt(ctx, step, func(ctx context.Context) error {
			if strings.TrimSpace(state.ResumeText) == "" {
				profile = &types.CandidateProfile{}
				return nil
			}
			if o.deps.Model == nil {
				return Permanent(errNoModel)
			}
			p, err := o.deps.Model.ExtractProfile(ctx, state.ResumeText)
			if err != nil {
				return err
			}
			profile = p
			return nil
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result = Degrade(&types.CandidateProfile{}, err, attempts)
		} else {
			result = Ok(profile, attempts)
		}
	}

	state.Merge(&PipelineState{Profile: result})
	state.Phase = PhaseProfileExtracted
	record(o, state, log, step, result)
	return nil
}

func (o *Orchestrator) evaluateTech(ctx context.Context, reqs *types.JobRequirements, profile *types.CandidateProfile) (*Result[types.TechEvaluation], error) {
	step := steps.EvaluateTech
	var eval *types.TechEvaluation
	attempts, err := o.attempt(ctx, step, func(ctx context.Context) error {
		resp, err := o.deps.Judge.Judge(ctx, judgment.NewRequest(profile, reqs))
		if err != nil {
			return err
		}
		judgments := resp.Judgments()
		judgments.Work, judgments.Education = nil, nil
		eval = techEvaluation(reqs, profile, judgments)
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err == nil {
		return Ok(eval, attempts), nil
	}

	fallback, fbErr := safely(step, func() *types.TechEvaluation { return techEvaluation(reqs, profile, nil) })
	if fbErr != nil {
		fallback = &types.TechEvaluation{}
	}
	fallback.Reasoning = "heuristic scoring after judgment failure: " + err.Error()
	return Degrade(fallback, err, attempts), nil
}

func (o *Orchestrator) evaluateExperience(ctx context.Context, reqs *types.JobRequirements, profile *types.CandidateProfile, log *zap.Logger) (*Result[types.ExperienceEvaluation], error) {
	step := steps.EvaluateExperience
	calc := o.calculator(log)

	var eval *types.ExperienceEvaluation
	attempts, err := o.attempt(ctx, step, func(ctx context.Context) error {
		resp, err := o.deps.Judge.Judge(ctx, judgment.NewRequest(profile, reqs))
		if err != nil {
			return err
		}
		judgments := resp.Judgments()
		judgments.Skills = nil
		eval = experienceEvaluation(calc, reqs, profile, judgments)
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var result *Result[types.ExperienceEvaluation]
	if err == nil {
		result = Ok(eval, attempts)
	} else {
		fallback, fbErr := safely(step, func() *types.ExperienceEvaluation { return experienceEvaluation(calc, reqs, profile, nil) })
		if fbErr != nil {
			fallback = &types.ExperienceEvaluation{}
		}
		fallback.Reasoning = "heuristic scoring after judgment failure: " + err.Error()
		result = Degrade(fallback, err, attempts)
	}

	for _, issue := range calc.DateIssues(profile.WorkExperience) {
		result.Notes = append(result.Notes, Note{Kind: Classify(issue), Message: issue.Error()})
	}
	return result, nil
}

func (o *Orchestrator) evaluateCulture(ctx context.Context, reqs *types.JobRequirements, profile *types.CandidateProfile) (*Result[types.CultureEvaluation], error) {
	var eval *types.CultureEvaluation
	attempts, err := o.attempt(ctx, steps.EvaluateCulture, func(ctx context.Context) error {
		if o.deps.Model == nil {
			return Permanent(errNoModel)
		}
		e, err := o.deps.Model.EvaluateCulture(ctx, reqs, profile)
		if err != nil {
			return err
		}
		eval = e
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return Degrade(&types.CultureEvaluation{
			StageNotes: types.StageNotes{Reasoning: err.Error()},
		}, err, attempts), nil
	}
	return Ok(eval, attempts), nil
}

func (o *Orchestrator) aggregate(ctx context.Context, state *PipelineState, log *zap.Logger) error {
	step := steps.Aggregate
	if state.FinalEval.Filled() {
		o.skipped(state, log, step)
		state.Phase = PhaseAggregated
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	final, err := safely(step, func() *types.FinalEvaluation {
		return finalEvaluation(
			state.Requirements.Get(),
			state.Profile.Get(),
			state.Alignment.Get(),
			state.TechEval.Get(),
			state.ExperienceEval.Get(),
			state.CultureEval.Get(),
		)
	})
	var result *Result[types.FinalEvaluation]
	if err != nil {
		result = Degrade(&types.FinalEvaluation{}, err, 1)
	} else {
		result = Ok(final, 1)
	}

	state.Merge(&PipelineState{FinalEval: result})
	state.Phase = PhaseAggregated
	record(o, state, log, step, result)
	return nil
}

func (o *Orchestrator) writeFeedback(ctx context.Context, state *PipelineState, log *zap.Logger) error {
	step := steps.WriteFeedback
	roleName := state.RoleName
	if reqs := state.Requirements.Get(); roleName == "" && reqs != nil {
		roleName = reqs.RoleName
	}

	var feedback *types.Feedback
	attempts, err := o.attempt(ctx, step, func(ctx context.Context) error {
		f, err := o.deps.Narrator.WriteFeedback(ctx, roleName, state.FinalEval.Get())
		if err != nil {
			return err
		}
		feedback = f
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var result *Result[types.Feedback]
	if err != nil {
		result = Degrade(&types.Feedback{}, err, attempts)
	} else {
		result = Ok(feedback, attempts)
	}
	state.Merge(&PipelineState{Feedback: result})
	state.Phase = PhaseFeedbackGenerated
	record(o, state, log, step, result)
	return nil
}

// safely calls fn, converting a panic into an error
func safely[T any](step string, fn func() *T) (value *T, err error) {
	err = protect(step, func() error {
		value = fn()
		return nil
	})
	return value, err
}

func techEvaluation(reqs *types.JobRequirements, profile *types.CandidateProfile, judgments *types.Judgments) *types.TechEvaluation {
	skills := ranking.AssessSkills(reqs.Groups(), profile, judgments)
	certs := ranking.ScoreCertifications(profile.Certifications, reqs.RequiredCertifications)
	hasCerts := reqs.HasCertifications()

	eval := &types.TechEvaluation{
		Score:          ranking.CompetencyScore(skills.Score, certs, hasCerts),
		SkillMatch:     skills.Score,
		Certifications: certs,
	}
	if judgments != nil {
		eval.Judgments = *judgments
	}
	for _, name := range skills.Matched {
		eval.Strengths = append(eval.Strengths, "Meets requirement: "+name)
	}
	for _, name := range skills.Missing {
		eval.Weaknesses = append(eval.Weaknesses, "Gap in requirement: "+name)
	}
	if hasCerts && certs < 100 {
		eval.Weaknesses = append(eval.Weaknesses, "Missing required certifications")
	}
	total := len(skills.Matched) + len(skills.Missing)
	eval.Reasoning = fmt.Sprintf("%d of %d requirement groups satisfied; certifications %d/100", len(skills.Matched), total, certs)
	return eval
}

func experienceEvaluation(calc *experience.Calculator, reqs *types.JobRequirements, profile *types.CandidateProfile, judgments *types.Judgments) *types.ExperienceEvaluation {
	relevant := calc.RelevantYears(profile.WorkExperience, judgments, reqs.RoleName)
	experienceScore := ranking.ScoreExperience(relevant, reqs.RequiredYears)
	educationScore := ranking.ScoreEducation(profile.Education, reqs.EducationRequirement, judgments)

	eval := &types.ExperienceEvaluation{
		Score:               ranking.ExperienceCategoryScore(experienceScore, educationScore, reqs.HasCertifications()),
		ExperienceRelevance: experienceScore,
		EducationFit:        educationScore,
		RelevantYears:       experience.Round2(relevant),
		Level:               experience.Level(calc.TotalYears(profile.WorkExperience)),
	}
	if judgments != nil {
		eval.Judgments = *judgments
	}

	if reqs.RequiredYears > 0 {
		summary := fmt.Sprintf("%.1f relevant years against %.1f required", relevant, reqs.RequiredYears)
		if experienceScore >= 100 {
			eval.Strengths = append(eval.Strengths, summary)
		} else {
			eval.Weaknesses = append(eval.Weaknesses, summary)
		}
	}
	if reqs.EducationRequirement.RequiredLevel != "" {
		if educationScore >= 100 {
			eval.Strengths = append(eval.Strengths, "Meets education requirement")
		} else {
			eval.Weaknesses = append(eval.Weaknesses, "Education below requirement")
		}
	}
	eval.Reasoning = fmt.Sprintf("%.2f relevant years, %s level; experience %d/100, education %d/100",
		eval.RelevantYears, eval.Level, experienceScore, educationScore)
	return eval
}

// finalEvaluation combines whatever the specialist stages produced. Missing stage
// outputs count as zero scores.
func finalEvaluation(reqs *types.JobRequirements, profile *types.CandidateProfile, alignment *types.Alignment,
	tech *types.TechEvaluation, exp *types.ExperienceEvaluation, culture *types.CultureEvaluation) *types.FinalEvaluation {
	if tech == nil {
		tech = &types.TechEvaluation{}
	}
	if exp == nil {
		exp = &types.ExperienceEvaluation{}
	}
	if culture == nil {
		culture = &types.CultureEvaluation{}
	}

	breakdown := ranking.Aggregate(tech.SkillMatch, exp.ExperienceRelevance, exp.EducationFit, tech.Certifications, reqs.HasCertifications())
	breakdown.Breakdown.RelevantYearsCalculated = exp.RelevantYears

	final := &types.FinalEvaluation{
		FinalScore: breakdown.BaseScore,
		CategoryScores: types.CategoryScores{
			Competency: tech.Score,
			Experience: exp.Score,
			SoftSkills: culture.Score,
		},
		Breakdown:       breakdown,
		Confidence:      ranking.Confidence(profile, alignment),
		ExperienceLevel: exp.Level,
	}
	for _, notes := range []types.StageNotes{tech.StageNotes, exp.StageNotes, culture.StageNotes} {
		final.Strengths = append(final.Strengths, notes.Strengths...)
		final.Weaknesses = append(final.Weaknesses, notes.Weaknesses...)
	}
	if final.Strengths == nil {
		final.Strengths = []string{}
	}
	if final.Weaknesses == nil {
		final.Weaknesses = []string{}
	}
	return final
}
