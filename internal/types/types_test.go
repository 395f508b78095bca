package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelevanceLevel(t *testing.T) {
	tests := []struct {
		in   string
		want RelevanceLevel
	}{
		{"High", RelevanceHigh},
		{"  partial ", RelevancePartial},
		{"LOW", RelevanceLow},
		{"None", RelevanceNone},
		{"Relevant", RelevanceHigh},
		{"Irrelevant", RelevanceNone},
		{"somewhat", RelevanceUnknown},
		{"", RelevanceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRelevanceLevel(tt.in))
		})
	}
}

func TestRelevanceLevel_Weight(t *testing.T) {
	assert.Equal(t, 1.0, RelevanceHigh.Weight())
	assert.Equal(t, 1.0, RelevancePartial.Weight())
	assert.Equal(t, 0.0, RelevanceLow.Weight())
	assert.Equal(t, 0.0, RelevanceNone.Weight())
	assert.Equal(t, 0.0, RelevanceUnknown.Weight())
}

func TestMatchLevel_Matched(t *testing.T) {
	matched := []MatchLevel{MatchStrong, MatchConfirmed, MatchLikely}
	unmatched := []MatchLevel{MatchPartial, MatchNone, MatchUncertain, MatchNotMatched, MatchUnknown}
	for _, m := range matched {
		assert.True(t, m.Matched(), "%q should count as matched", m)
	}
	for _, m := range unmatched {
		assert.False(t, m.Matched(), "%q should not count as matched", m)
	}
}

func TestMatchLevel_UnmarshalJSON(t *testing.T) {
	var levels []MatchLevel
	err := json.Unmarshal([]byte(`["strong","No-Match","not_matched","LIKELY",7,"bogus"]`), &levels)
	require.NoError(t, err)
	assert.Equal(t, []MatchLevel{MatchStrong, MatchNone, MatchNotMatched, MatchLikely, MatchUnknown, MatchUnknown}, levels)
}

func TestJudgments_MissingKeysAreUnknown(t *testing.T) {
	var nilJudgments *Judgments
	_, ok := nilJudgments.WorkRelevance(0)
	assert.False(t, ok)

	j := &Judgments{Work: map[int]RelevanceLevel{0: RelevanceHigh, 1: RelevanceUnknown}}
	j.SetSkill("  Cloud   Platforms ", MatchStrong)

	level, ok := j.WorkRelevance(0)
	assert.True(t, ok)
	assert.Equal(t, RelevanceHigh, level)

	_, ok = j.WorkRelevance(1)
	assert.False(t, ok, "unknown level should be treated as missing")

	match, ok := j.SkillMatch("cloud platforms")
	assert.True(t, ok)
	assert.Equal(t, MatchStrong, match)

	_, ok = j.EducationEntry(0)
	assert.False(t, ok)
}

func TestJobRequirements_Groups(t *testing.T) {
	reqs := &JobRequirements{
		PrimaryRequirements: []Requirement{
			{ID: 1, Text: "Python", Category: "Languages", LogicType: LogicOr},
			{ID: 2, Text: "Go", Category: "languages"},
			{ID: 3, Text: "Kubernetes"},
			{ID: 4, Text: "   "},
		},
		Responsibilities: []string{"Build APIs"},
	}

	groups := reqs.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Languages", groups[0].Name)
	assert.Equal(t, LogicOr, groups[0].LogicType)
	assert.Equal(t, []string{"Python", "Go"}, groups[0].Items)
	assert.Equal(t, "Kubernetes", groups[1].Name)
	assert.Equal(t, LogicAnd, groups[1].LogicType)
}

func TestJobRequirements_GroupsFallBackToResponsibilities(t *testing.T) {
	reqs := &JobRequirements{Responsibilities: []string{"Build APIs", "", "Mentor engineers"}}

	groups := reqs.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Build APIs"}, groups[0].Items)
	assert.Equal(t, "Mentor engineers", groups[1].Name)
}

func TestJobRequirements_CriteriaItems(t *testing.T) {
	few := &JobRequirements{
		PrimaryRequirements: []Requirement{{Text: "Go", Category: "Languages"}},
		Responsibilities:    []string{"Own services"},
	}
	assert.Equal(t, []string{"Languages: Go", "Own services"}, few.CriteriaItems())

	many := &JobRequirements{Responsibilities: []string{"Own services"}}
	for i := 0; i < 5; i++ {
		many.PrimaryRequirements = append(many.PrimaryRequirements, Requirement{Text: "skill"})
	}
	assert.Len(t, many.CriteriaItems(), 5, "five or more primary requirements are used alone")
}

func TestJobRequirements_HasCertifications(t *testing.T) {
	assert.False(t, (&JobRequirements{}).HasCertifications())
	assert.False(t, (&JobRequirements{RequiredCertifications: []string{" "}}).HasCertifications())
	assert.True(t, (&JobRequirements{RequiredCertifications: []string{"CKA"}}).HasCertifications())
}

func TestJobRequirements_ValidateAndSanitize(t *testing.T) {
	reqs := &JobRequirements{
		RequiredYears: -2,
		PrimaryRequirements: []Requirement{
			{Text: "Go", LogicType: "SOME"},
			{Text: ""},
			{Text: "Three of Java, Kotlin, Scala", LogicType: "at-least-n", CountRequired: 3},
		},
	}
	assert.Error(t, reqs.Validate())

	reqs.Sanitize()
	assert.Equal(t, 0.0, reqs.RequiredYears)
	require.Len(t, reqs.PrimaryRequirements, 2)
	assert.Equal(t, LogicAnd, reqs.PrimaryRequirements[0].LogicType)
	assert.Equal(t, LogicAtLeastN, reqs.PrimaryRequirements[1].LogicType)
	assert.NotNil(t, reqs.EducationRequirement.ValidMajors)
	assert.NoError(t, reqs.Validate())
}

func TestCandidateProfile_IsEmpty(t *testing.T) {
	var p *CandidateProfile
	assert.True(t, p.IsEmpty())
	assert.True(t, (&CandidateProfile{}).IsEmpty())
	assert.False(t, (&CandidateProfile{Skills: []string{"go"}}).IsEmpty())
}

func TestWeights_Sum(t *testing.T) {
	assert.Equal(t, 100, Weights{Skill: 40, Experience: 30, Education: 15, Certification: 15}.Sum())
}
