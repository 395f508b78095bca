package types

import (
	"encoding/json"
	"strings"
)

// RelevanceLevel classifies how applicable a work history entry is to the target role
type RelevanceLevel string

// Relevance levels. The zero value means unknown.
const (
	RelevanceUnknown RelevanceLevel = ""
	RelevanceHigh    RelevanceLevel = "High"
	RelevancePartial RelevanceLevel = "Partial"
	RelevanceLow     RelevanceLevel = "Low"
	RelevanceNone    RelevanceLevel = "None"
)

// ParseRelevanceLevel maps free text onto a RelevanceLevel, returning RelevanceUnknown for anything else.
// The binary Relevant/Irrelevant vocabulary is accepted as High/None.
func ParseRelevanceLevel(s string) RelevanceLevel {
	switch enumKey(s) {
	case "high", "relevant":
		return RelevanceHigh
	case "partial", "medium":
		return RelevancePartial
	case "low":
		return RelevanceLow
	case "none", "irrelevant", "not relevant":
		return RelevanceNone
	default:
		return RelevanceUnknown
	}
}

// Weight returns the multiplier applied to a job's duration. High and Partial collapse
// to Relevant (1.0), Low and None to Irrelevant (0.0).
func (r RelevanceLevel) Weight() float64 {
	switch r {
	case RelevanceHigh, RelevancePartial:
		return 1.0
	default:
		return 0.0
	}
}

// UnmarshalJSON accepts any casing and maps unknown values to RelevanceUnknown
func (r *RelevanceLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*r = RelevanceUnknown
		return nil
	}
	*r = ParseRelevanceLevel(s)
	return nil
}

// MatchLevel classifies how well the candidate covers a skill category.
// Both the three-level and the four-level vocabularies are represented.
type MatchLevel string

// Match levels. The zero value means unknown.
const (
	MatchUnknown    MatchLevel = ""
	MatchStrong     MatchLevel = "Strong"
	MatchPartial    MatchLevel = "Partial"
	MatchNone       MatchLevel = "No-Match"
	MatchConfirmed  MatchLevel = "Confirmed"
	MatchLikely     MatchLevel = "Likely"
	MatchUncertain  MatchLevel = "Uncertain"
	MatchNotMatched MatchLevel = "Not-Matched"
)

// ParseMatchLevel maps free text onto a MatchLevel, returning MatchUnknown for anything else
func ParseMatchLevel(s string) MatchLevel {
	switch enumKey(s) {
	case "strong":
		return MatchStrong
	case "partial":
		return MatchPartial
	case "no match", "nomatch", "none":
		return MatchNone
	case "confirmed":
		return MatchConfirmed
	case "likely":
		return MatchLikely
	case "uncertain":
		return MatchUncertain
	case "not matched", "notmatched":
		return MatchNotMatched
	default:
		return MatchUnknown
	}
}

// Matched reports whether the level counts the category as satisfied
func (m MatchLevel) Matched() bool {
	return m == MatchStrong || m == MatchConfirmed || m == MatchLikely
}

// UnmarshalJSON accepts any casing and maps unknown values to MatchUnknown
func (m *MatchLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = MatchUnknown
		return nil
	}
	*m = ParseMatchLevel(s)
	return nil
}

// EducationJudgment is the provider's view of a single education entry
type EducationJudgment struct {
	IsRelevant  bool   `json:"is_relevant"`
	DegreeLevel string `json:"degree_level,omitempty"`
}

// Judgments holds semantic judgments keyed by stable indices into the profile
// and by requirement category. A missing key means unknown.
type Judgments struct {
	Work      map[int]RelevanceLevel    `json:"work,omitempty"`
	Skills    map[string]MatchLevel     `json:"skills,omitempty"`
	Education map[int]EducationJudgment `json:"education,omitempty"`
}

// WorkRelevance returns the judged relevance for a job index. Unknown levels report false.
func (j *Judgments) WorkRelevance(jobIndex int) (RelevanceLevel, bool) {
	if j == nil || j.Work == nil {
		return RelevanceUnknown, false
	}
	level, ok := j.Work[jobIndex]
	if !ok || level == RelevanceUnknown {
		return RelevanceUnknown, false
	}
	return level, true
}

// SkillMatch returns the judged match level for a category
func (j *Judgments) SkillMatch(category string) (MatchLevel, bool) {
	if j == nil || j.Skills == nil {
		return MatchUnknown, false
	}
	level, ok := j.Skills[CategoryKey(category)]
	if !ok || level == MatchUnknown {
		return MatchUnknown, false
	}
	return level, true
}

// EducationEntry returns the judgment for an education index
func (j *Judgments) EducationEntry(index int) (EducationJudgment, bool) {
	if j == nil || j.Education == nil {
		return EducationJudgment{}, false
	}
	e, ok := j.Education[index]
	return e, ok
}

// SetSkill records a category judgment under its lookup key
func (j *Judgments) SetSkill(category string, level MatchLevel) {
	if j.Skills == nil {
		j.Skills = make(map[string]MatchLevel)
	}
	j.Skills[CategoryKey(category)] = level
}

// CategoryKey is the case- and spacing-insensitive lookup key for a category name
func CategoryKey(category string) string {
	return strings.Join(strings.Fields(strings.ToLower(category)), " ")
}

func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
