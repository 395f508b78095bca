package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/types"
)

// requirementStopWords are phrasing words stripped from requirement text before the
// full-text fallback check
var requirementStopWords = map[string]bool{
	"experience": true, "experienced": true, "years": true, "year": true, "with": true,
	"strong": true, "knowledge": true, "of": true, "in": true, "and": true, "or": true,
	"the": true, "a": true, "an": true, "using": true, "familiarity": true, "familiar": true,
	"proficiency": true, "proficient": true, "skills": true, "skill": true, "ability": true,
	"to": true, "working": true, "understanding": true, "good": true, "excellent": true,
	"solid": true, "plus": true, "including": true, "such": true, "as": true, "on": true,
	"for": true, "must": true, "should": true, "have": true, "hands": true, "preferred": true,
	"required": true, "related": true, "similar": true, "deep": true, "expertise": true,
	"+": true,
}

// SkillAssessment is the competency score together with the groups behind it
type SkillAssessment struct {
	Score   int
	Matched []string
	Missing []string
}

// ScoreSkills returns the competency score for the requirement groups
func ScoreSkills(groups []types.RequirementGroup, profile *types.CandidateProfile, judgments *types.Judgments) int {
	return AssessSkills(groups, profile, judgments).Score
}

// AssessSkills scores requirement groups. A group with a category judgment matches when the
// judged level is Strong, Confirmed or Likely. Unjudged groups apply their logic type to the
// candidate's skills and a full-text blob of the profile. No groups scores 100.
func AssessSkills(groups []types.RequirementGroup, profile *types.CandidateProfile, judgments *types.Judgments) SkillAssessment {
	if len(groups) == 0 {
		return SkillAssessment{Score: 100}
	}

	ev := newSkillEvidence(profile)
	var out SkillAssessment
	for _, g := range groups {
		ok := false
		if level, judged := judgments.SkillMatch(g.Name); judged {
			ok = level.Matched()
		} else {
			ok = ev.satisfies(g)
		}
		if ok {
			out.Matched = append(out.Matched, g.Name)
		} else {
			out.Missing = append(out.Missing, g.Name)
		}
	}
	out.Score = int(math.Round(float64(len(out.Matched)) / float64(len(groups)) * 100))
	return out
}

// skillEvidence indexes what a profile says about the candidate's skills
type skillEvidence struct {
	skills      map[string]struct{}
	skillTokens []map[string]struct{}
	blob        map[string]struct{}
}

func newSkillEvidence(profile *types.CandidateProfile) *skillEvidence {
	ev := &skillEvidence{
		skills: make(map[string]struct{}),
		blob:   make(map[string]struct{}),
	}
	if profile == nil {
		return ev
	}

	for _, skill := range profile.Skills {
		n := parsing.NormalizeSkill(skill)
		if n == "" {
			continue
		}
		ev.skills[n] = struct{}{}
		ev.skillTokens = append(ev.skillTokens, canonicalTokens(skill))
	}

	ev.addText(profile.Summary)
	for _, job := range profile.WorkExperience {
		ev.addText(job.JobTitle)
		ev.addText(job.Description)
	}
	for _, edu := range profile.Education {
		ev.addText(edu.DegreeLevel)
		ev.addText(edu.FieldOfStudy)
	}
	return ev
}

func (ev *skillEvidence) addText(text string) {
	for tok := range canonicalTokens(text) {
		ev.blob[tok] = struct{}{}
	}
}

// present reports whether one requirement item is evidenced by the profile
func (ev *skillEvidence) present(item string) bool {
	if _, ok := ev.skills[parsing.NormalizeSkill(item)]; ok {
		return true
	}

	itemTokens := canonicalTokens(item)
	for _, st := range ev.skillTokens {
		if len(st) > 0 && subset(st, itemTokens) {
			return true
		}
	}

	content := make(map[string]struct{})
	for tok := range itemTokens {
		if !requirementStopWords[tok] {
			content[tok] = struct{}{}
		}
	}
	return len(content) > 0 && subset(content, ev.blob)
}

// satisfies applies the group's logic type
func (ev *skillEvidence) satisfies(g types.RequirementGroup) bool {
	if len(g.Items) == 0 {
		return false
	}
	hits := 0
	for _, item := range g.Items {
		if ev.present(item) {
			hits++
		}
	}

	switch g.LogicType {
	case types.LogicOr:
		return hits >= 1
	case types.LogicAtLeastN:
		need := g.CountRequired
		if need < 1 {
			need = 1
		}
		if need > len(g.Items) {
			need = len(g.Items)
		}
		return hits >= need
	default:
		return hits == len(g.Items)
	}
}

// canonicalTokens tokenizes text and resolves each word's skill alias. Multi-word
// aliases ("ml" to "machine learning") contribute each of their words.
func canonicalTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range parsing.Tokens(text) {
		for _, word := range strings.Fields(parsing.NormalizeSkill(tok)) {
			set[word] = struct{}{}
		}
	}
	return set
}

func subset(small, big map[string]struct{}) bool {
	for tok := range small {
		if _, ok := big[tok]; !ok {
			return false
		}
	}
	return true
}
