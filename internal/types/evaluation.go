package types

// Weights are component weights in whole percent; they always sum to 100
type Weights struct {
	Skill         int `json:"skill"`
	Experience    int `json:"experience"`
	Education     int `json:"education"`
	Certification int `json:"certification"`
}

// Sum returns the total of all weights
func (w Weights) Sum() int {
	return w.Skill + w.Experience + w.Education + w.Certification
}

// ComponentScores are the per-dimension scores, each in [0,100]
type ComponentScores struct {
	SkillMatch              int     `json:"skill_match"`
	ExperienceRelevance     int     `json:"experience_relevance"`
	EducationFit            int     `json:"education_fit"`
	Certifications          int     `json:"certifications"`
	RelevantYearsCalculated float64 `json:"relevant_years_calculated"`
}

// WeightedScores are the weighted contribution of each component to the base score
type WeightedScores struct {
	Skill         float64 `json:"weighted_skill"`
	Experience    float64 `json:"weighted_experience"`
	Education     float64 `json:"weighted_education"`
	Certification float64 `json:"weighted_certification"`
}

// ScoreBreakdown is the output of the composite aggregator
type ScoreBreakdown struct {
	BaseScore int             `json:"base_score"`
	Breakdown ComponentScores `json:"breakdown"`
	Weighted  WeightedScores  `json:"weighted"`
	Weights   Weights         `json:"weights"`
}

// Alignment records whether the job description matches the stated role
type Alignment struct {
	Aligned   bool     `json:"aligned"`
	Flags     []string `json:"flags,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// StageNotes carries the qualitative part of a specialist stage output
type StageNotes struct {
	Reasoning  string   `json:"reasoning,omitempty"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// TechEvaluation is the output of the technical competency stage
type TechEvaluation struct {
	StageNotes
	Score          int       `json:"score"`
	SkillMatch     int       `json:"skill_match"`
	Certifications int       `json:"certifications"`
	Judgments      Judgments `json:"judgments"`
}

// ExperienceEvaluation is the output of the experience and education stage
type ExperienceEvaluation struct {
	StageNotes
	Score               int       `json:"score"`
	ExperienceRelevance int       `json:"experience_relevance"`
	EducationFit        int       `json:"education_fit"`
	RelevantYears       float64   `json:"relevant_years"`
	Level               string    `json:"level"`
	Judgments           Judgments `json:"judgments"`
}

// CultureEvaluation is the output of the soft-skills stage
type CultureEvaluation struct {
	StageNotes
	Score int `json:"score"`
}

// CategoryScores are the per-category scores of the final evaluation
type CategoryScores struct {
	Competency int `json:"competency"`
	Experience int `json:"experience"`
	SoftSkills int `json:"soft_skills"`
}

// FinalEvaluation is the output of the aggregation stage
type FinalEvaluation struct {
	FinalScore      int            `json:"final_score"`
	CategoryScores  CategoryScores `json:"category_scores"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Breakdown       ScoreBreakdown `json:"score_breakdown"`
	Confidence      int            `json:"confidence"`
	ExperienceLevel string         `json:"experience_level,omitempty"`
}

// Feedback is the narrative produced after scoring
type Feedback struct {
	Summary            string   `json:"summary"`
	InterviewQuestions []string `json:"interview_questions,omitempty"`
	Email              string   `json:"email,omitempty"`
}
