package ranking

import (
	"testing"

	"github.com/jonathan/candidate-fit/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestParseDegreeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PhD", DegreeDoctorate},
		{"Doctorate in Physics", DegreeDoctorate},
		{"Master of Science", DegreeMaster},
		{"M.S.", DegreeMaster},
		{"MBA", DegreeMaster},
		{"Bachelor's degree", DegreeBachelor},
		{"B.Sc.", DegreeBachelor},
		{"BS in Computer Science", DegreeBachelor},
		{"Associate of Arts", DegreeAssociate},
		{"High School Diploma", DegreeDiploma},
		{"", DegreeNone},
		{"Not specified", DegreeNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDegreeLevel(tt.in))
		})
	}
}

func TestParseRequiredLevel_LowestNamedLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"BS/MS in Computer Science", DegreeBachelor},
		{"Bachelor's or Master's", DegreeBachelor},
		{"Master's or PhD", DegreeMaster},
		{"PhD", DegreeDoctorate},
		{"", DegreeNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRequiredLevel(tt.in))
		})
	}
	assert.Equal(t, DegreeMaster, ParseDegreeLevel("BS/MS in Computer Science"), "a candidate's degree text keeps its highest level")
}

func TestScoreEducation_AlternativeLevelsAcceptLowest(t *testing.T) {
	edu := []types.Education{{DegreeLevel: "Bachelor", FieldOfStudy: "Computer Science"}}

	assert.Equal(t, 100, ScoreEducation(edu, types.EducationRequirement{RequiredLevel: "BS/MS in Computer Science"}, nil))
	assert.Equal(t, 100, ScoreEducation(edu, types.EducationRequirement{RequiredLevel: "Bachelor's or Master's"}, nil))
}

func TestScoreEducation_GenericMajorWords(t *testing.T) {
	tests := []struct {
		name   string
		majors []string
		edu    types.Education
		want   int
	}{
		{"science major", []string{"Science"}, types.Education{DegreeLevel: "BSc", FieldOfStudy: "Computer Science"}, 100},
		{"arts major", []string{"Arts"}, types.Education{DegreeLevel: "BA", FieldOfStudy: "Fine Arts"}, 100},
		{"unrelated field", []string{"Arts"}, types.Education{DegreeLevel: "BSc", FieldOfStudy: "Chemistry"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := types.EducationRequirement{RequiredLevel: "Bachelor", ValidMajors: tt.majors}
			assert.Equal(t, tt.want, ScoreEducation([]types.Education{tt.edu}, req, nil))
		})
	}
}

func TestScoreEducation_NoRequiredLevel(t *testing.T) {
	score := ScoreEducation(nil, types.EducationRequirement{}, nil)
	assert.Equal(t, 100, score, "No required level should return full score")
}

func TestScoreEducation_NoCandidateEducation(t *testing.T) {
	score := ScoreEducation(nil, types.EducationRequirement{RequiredLevel: "Bachelor"}, nil)
	assert.Equal(t, 0, score)
}

func TestScoreEducation_LevelLadder(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Master"}

	assert.Equal(t, 100, ScoreEducation([]types.Education{{DegreeLevel: "PhD"}}, req, nil), "above requirement")
	assert.Equal(t, 100, ScoreEducation([]types.Education{{DegreeLevel: "MSc"}}, req, nil), "meets requirement")
	assert.Equal(t, 50, ScoreEducation([]types.Education{{DegreeLevel: "Bachelor"}}, req, nil), "one level below")
	assert.Equal(t, 0, ScoreEducation([]types.Education{{DegreeLevel: "Associate"}}, req, nil), "two levels below")
}

func TestScoreEducation_FieldGatesLevel(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Bachelor", ValidMajors: []string{"Computer Science"}}
	edu := []types.Education{{DegreeLevel: "PhD", FieldOfStudy: "Biology"}}

	assert.Equal(t, 0, ScoreEducation(edu, req, nil), "PhD in Biology must not satisfy a Computer Science requirement")
}

func TestScoreEducation_RelatedFieldPasses(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Bachelor", ValidMajors: []string{"Computer Science"}}
	edu := []types.Education{{DegreeLevel: "BEng", FieldOfStudy: "Software Engineering"}}

	assert.Equal(t, 100, ScoreEducation(edu, req, nil))
}

func TestScoreEducation_BestOfEntries(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Master", ValidMajors: []string{"Computer Science", "Mathematics"}}
	edu := []types.Education{
		{DegreeLevel: "PhD", FieldOfStudy: "History"},
		{DegreeLevel: "Bachelor", FieldOfStudy: "Applied Mathematics"},
	}

	assert.Equal(t, 50, ScoreEducation(edu, req, nil))
}

func TestScoreEducation_FieldFallsBackToDegreeText(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Bachelor", ValidMajors: []string{"Computer Science"}}
	edu := []types.Education{{DegreeLevel: "BSc Computer Science"}}

	assert.Equal(t, 100, ScoreEducation(edu, req, nil))
}

func TestScoreEducation_JudgmentOverridesFieldHeuristic(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Bachelor", ValidMajors: []string{"Computer Science"}}
	edu := []types.Education{{DegreeLevel: "Bachelor", FieldOfStudy: "Informatics"}}

	assert.Equal(t, 0, ScoreEducation(edu, req, nil), "heuristic finds no overlap")

	judged := &types.Judgments{Education: map[int]types.EducationJudgment{0: {IsRelevant: true}}}
	assert.Equal(t, 100, ScoreEducation(edu, req, judged))
}

func TestScoreEducation_JudgedDegreeLevelFillsUnparseableLevel(t *testing.T) {
	req := types.EducationRequirement{RequiredLevel: "Master"}
	edu := []types.Education{{DegreeLevel: "Diplom-Ingenieur"}}
	judged := &types.Judgments{Education: map[int]types.EducationJudgment{0: {IsRelevant: true, DegreeLevel: "Master"}}}

	assert.Equal(t, 100, ScoreEducation(edu, req, judged))
}
