package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/prompts"
	"github.com/jonathan/candidate-fit/internal/schemas"
	"github.com/jonathan/candidate-fit/internal/types"
)

// ParseRequirements extracts structured requirements from job description text.
// roleName, when set, overrides the role the model reads from the posting.
func (m *StageModel) ParseRequirements(ctx context.Context, jobText, roleName string) (*types.JobRequirements, error) {
	if strings.TrimSpace(jobText) == "" {
		return DefaultRequirements(roleName), nil
	}

	var reqs types.JobRequirements
	err := m.generate(ctx, prompts.ParseRequirements, llm.TierStandard, map[string]string{
		"RoleName": orUnknown(roleName),
		"JobText":  jobText,
	}, schemas.JobRequirements, &reqs)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(roleName) != "" {
		reqs.RoleName = strings.TrimSpace(roleName)
	}
	reqs.Sanitize()
	NumberRequirements(&reqs)
	return &reqs, nil
}

// InferRequirements asks the model for the standard requirements of a role whose posting
// listed none. Only the requirement lists of the result are populated.
func (m *StageModel) InferRequirements(ctx context.Context, roleName string) (*types.JobRequirements, error) {
	var inferred types.JobRequirements
	err := m.generate(ctx, prompts.InferRequirements, llm.TierStandard, map[string]string{
		"RoleName": orUnknown(roleName),
	}, schemas.JobRequirements, &inferred)
	if err != nil {
		return nil, err
	}
	inferred.RoleName = roleName
	inferred.Sanitize()
	NumberRequirements(&inferred)
	return &inferred, nil
}

// DefaultRequirements is the neutral requirement set used when nothing could be parsed
func DefaultRequirements(roleName string) *types.JobRequirements {
	reqs := &types.JobRequirements{RoleName: strings.TrimSpace(roleName)}
	reqs.Sanitize()
	return reqs
}

// MergeInferred copies inferred requirement lists into reqs when reqs has none.
// Years, education and certifications are left as parsed.
func MergeInferred(reqs, inferred *types.JobRequirements) {
	if reqs == nil || inferred == nil || reqs.HasRequirements() {
		return
	}
	reqs.PrimaryRequirements = append([]types.Requirement(nil), inferred.PrimaryRequirements...)
	reqs.Responsibilities = append([]string(nil), inferred.Responsibilities...)
	NumberRequirements(reqs)
}

// NumberRequirements assigns sequential IDs to requirements the model left unnumbered
func NumberRequirements(reqs *types.JobRequirements) {
	next := 1
	for _, r := range reqs.PrimaryRequirements {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	for i := range reqs.PrimaryRequirements {
		if reqs.PrimaryRequirements[i].ID <= 0 {
			reqs.PrimaryRequirements[i].ID = next
			next++
		}
	}
}

// FormatRequirements renders requirements as indented JSON for prompts
func FormatRequirements(reqs *types.JobRequirements) string {
	if reqs == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not stated)"
	}
	return s
}
