package pipeline

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-fit/internal/pipeline/steps"
	"github.com/jonathan/candidate-fit/internal/types"
)

// Phase is the last state transition a run reached
type Phase string

// Phases in execution order
const (
	PhaseCreated            Phase = "Created"
	PhaseRequirementsParsed Phase = "RequirementsParsed"
	PhaseAlignmentChecked   Phase = "AlignmentChecked"
	PhaseProfileExtracted   Phase = "ProfileExtracted"
	PhaseEvaluated          Phase = "Evaluated"
	PhaseAggregated         Phase = "Aggregated"
	PhaseFeedbackGenerated  Phase = "FeedbackGenerated"
	PhaseDone               Phase = "Done"
	PhaseFailed             Phase = "Failed"
)

// Input is what a caller supplies for one evaluation. Pre-structured values take
// the place of the stage that would otherwise derive them from text.
type Input struct {
	ResumeText   string                  `json:"resume_text,omitempty"`
	JobText      string                  `json:"job_text,omitempty"`
	RoleName     string                  `json:"role_name,omitempty"`
	Profile      *types.CandidateProfile `json:"profile,omitempty"`
	Requirements *types.JobRequirements  `json:"requirements,omitempty"`
}

// PipelineState is the per-request record of every stage output. Each slot has a
// single writer; the three specialist slots are written by concurrent branches
// through separate deltas that are merged at the fan-in barrier.
type PipelineState struct {
	RunID      uuid.UUID `json:"run_id"`
	Phase      Phase     `json:"phase"`
	Version    int       `json:"version"`
	ResumeText string    `json:"resume_text,omitempty"`
	JobText    string    `json:"job_text,omitempty"`
	RoleName   string    `json:"role_name,omitempty"`
	Error      string    `json:"error,omitempty"`

	Requirements   *Result[types.JobRequirements]      `json:"requirements,omitempty"`
	Alignment      *Result[types.Alignment]            `json:"alignment,omitempty"`
	Profile        *Result[types.CandidateProfile]     `json:"profile,omitempty"`
	TechEval       *Result[types.TechEvaluation]       `json:"tech_eval,omitempty"`
	ExperienceEval *Result[types.ExperienceEvaluation] `json:"experience_eval,omitempty"`
	CultureEval    *Result[types.CultureEvaluation]    `json:"culture_eval,omitempty"`
	FinalEval      *Result[types.FinalEvaluation]      `json:"final_eval,omitempty"`
	Feedback       *Result[types.Feedback]             `json:"feedback,omitempty"`
}

// NewState creates the initial state for an input. Pre-structured inputs fill their
// slots so the corresponding stages are skipped.
func NewState(input Input) *PipelineState {
	s := &PipelineState{
		RunID:      uuid.New(),
		Phase:      PhaseCreated,
		ResumeText: input.ResumeText,
		JobText:    input.JobText,
		RoleName:   input.RoleName,
	}
	if input.Requirements != nil {
		reqs := cloneJSON(input.Requirements)
		if s.RoleName != "" {
			reqs.RoleName = s.RoleName
		}
		reqs.Sanitize()
		s.Requirements = Provided(reqs)
	}
	if input.Profile != nil {
		s.Profile = Provided(cloneJSON(input.Profile))
	}
	return s
}

// Merge copies every non-nil slot of delta into s; the last non-nil value wins.
// Version is incremented once when anything changed. It returns whether s changed.
func (s *PipelineState) Merge(delta *PipelineState) bool {
	if delta == nil {
		return false
	}
	changed := false
	mergeSlot(&s.Requirements, delta.Requirements, &changed)
	mergeSlot(&s.Alignment, delta.Alignment, &changed)
	mergeSlot(&s.Profile, delta.Profile, &changed)
	mergeSlot(&s.TechEval, delta.TechEval, &changed)
	mergeSlot(&s.ExperienceEval, delta.ExperienceEval, &changed)
	mergeSlot(&s.CultureEval, delta.CultureEval, &changed)
	mergeSlot(&s.FinalEval, delta.FinalEval, &changed)
	mergeSlot(&s.Feedback, delta.Feedback, &changed)
	if changed {
		s.Version++
	}
	return changed
}

func mergeSlot[T any](dst **Result[T], src *Result[T], changed *bool) {
	if src == nil {
		return
	}
	*dst = src
	*changed = true
}

// StageStatus summarises one filled slot of the state
type StageStatus struct {
	Stage    string
	Degraded bool
	Skipped  bool
	Kind     ErrorKind
	Attempts int
	Notes    []Note
}

// Statuses lists the filled slots in execution order
func (s *PipelineState) Statuses() []StageStatus {
	if s == nil {
		return nil
	}
	var out []StageStatus
	out = appendStatus(out, steps.ParseRequirements, s.Requirements)
	out = appendStatus(out, steps.CheckAlignment, s.Alignment)
	out = appendStatus(out, steps.ExtractProfile, s.Profile)
	out = appendStatus(out, steps.EvaluateTech, s.TechEval)
	out = appendStatus(out, steps.EvaluateExperience, s.ExperienceEval)
	out = appendStatus(out, steps.EvaluateCulture, s.CultureEval)
	out = appendStatus(out, steps.Aggregate, s.FinalEval)
	out = appendStatus(out, steps.WriteFeedback, s.Feedback)
	return out
}

func appendStatus[T any](out []StageStatus, stage string, r *Result[T]) []StageStatus {
	if !r.Filled() {
		return out
	}
	return append(out, StageStatus{
		Stage:    stage,
		Degraded: r.Degraded,
		Skipped:  r.Skipped,
		Kind:     r.Kind,
		Attempts: r.Attempts,
		Notes:    r.Notes,
	})
}

// Snapshot returns a deep copy of the state
func (s *PipelineState) Snapshot() *PipelineState {
	if s == nil {
		return nil
	}
	return cloneJSON(s)
}

// Failed reports whether the run ended in the Failed phase
func (s *PipelineState) Failed() bool {
	return s != nil && s.Phase == PhaseFailed
}

// ParseState decodes a state previously written with json.Marshal
func ParseState(data []byte) (*PipelineState, error) {
	var s PipelineState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// cloneJSON deep-copies a value through its JSON form. Every pipeline type
// round-trips through JSON.
func cloneJSON[T any](v *T) *T {
	data, err := json.Marshal(v)
	if err != nil {
		panic("pipeline: value is not JSON serializable: " + err.Error())
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic("pipeline: value does not round-trip through JSON: " + err.Error())
	}
	return &out
}
