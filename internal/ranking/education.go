// Package ranking provides the deterministic scorers and the composite aggregator for candidate fit.
package ranking

import (
	"strings"

	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/types"
)

// Degree ladder levels
const (
	DegreeNone      = 0
	DegreeDiploma   = 1
	DegreeAssociate = 2
	DegreeBachelor  = 3
	DegreeMaster    = 4
	DegreeDoctorate = 5
)

// degreeKeywords maps degree words and abbreviations to ladder levels
var degreeKeywords = map[string]int{
	"phd": DegreeDoctorate, "doctorate": DegreeDoctorate, "doctoral": DegreeDoctorate,
	"doctor": DegreeDoctorate, "dphil": DegreeDoctorate, "edd": DegreeDoctorate,

	"master": DegreeMaster, "masters": DegreeMaster, "msc": DegreeMaster, "ms": DegreeMaster,
	"ma": DegreeMaster, "meng": DegreeMaster, "mba": DegreeMaster, "mphil": DegreeMaster,
	"mtech": DegreeMaster, "postgraduate": DegreeMaster,

	"bachelor": DegreeBachelor, "bachelors": DegreeBachelor, "bsc": DegreeBachelor,
	"bs": DegreeBachelor, "ba": DegreeBachelor, "beng": DegreeBachelor, "btech": DegreeBachelor,
	"bba": DegreeBachelor, "undergraduate": DegreeBachelor,

	"associate": DegreeAssociate, "associates": DegreeAssociate, "aa": DegreeAssociate,
	"aas": DegreeAssociate,

	"diploma": DegreeDiploma, "ged": DegreeDiploma, "hnd": DegreeDiploma,
}

// fieldStopWords carry no information about the field of study
var fieldStopWords = map[string]bool{
	"of": true, "and": true, "in": true, "the": true, "for": true, "with": true, "&": true,
	"science": true, "sciences": true, "studies": true, "arts": true, "art": true,
	"general": true, "degree": true, "bachelor": true, "bachelors": true, "master": true,
	"masters": true, "bs": true, "ba": true, "bsc": true, "ms": true, "msc": true, "phd": true,
}

// relatedFields lists fields that satisfy a required major without sharing a word with it
var relatedFields = map[string][]string{
	"computer science":       {"software engineering", "computer engineering", "information technology", "cs"},
	"software engineering":   {"computer science", "computer engineering", "cs"},
	"data science":           {"statistics", "mathematics", "computer science", "machine learning"},
	"statistics":             {"mathematics", "data science", "economics"},
	"mathematics":            {"statistics", "physics", "computer science"},
	"electrical engineering": {"computer engineering", "electronics"},
}

// ParseDegreeLevel maps free-text degree names ("BSc", "B.S.", "Master's", "PhD") onto the
// ladder, returning the highest level mentioned or DegreeNone.
func ParseDegreeLevel(text string) int {
	best := DegreeNone
	for _, level := range degreeLevels(text) {
		if level > best {
			best = level
		}
	}
	return best
}

// ParseRequiredLevel reads a requirement's degree text. A requirement naming several
// levels ("BS/MS", "Bachelor's or Master's") is met by the lowest of them.
func ParseRequiredLevel(text string) int {
	lowest := DegreeNone
	for _, level := range degreeLevels(text) {
		if lowest == DegreeNone || level < lowest {
			lowest = level
		}
	}
	return lowest
}

func degreeLevels(text string) []int {
	s := strings.ToLower(text)
	s = strings.NewReplacer(".", "", "'", "", "’", "").Replace(s)
	var levels []int
	for _, word := range parsing.Tokens(s) {
		if level, ok := degreeKeywords[word]; ok {
			levels = append(levels, level)
		}
	}
	return levels
}

// ScoreEducation scores candidate education against the requirement as the best entry.
// No required level scores 100 and an empty history scores 0. For each entry the field
// of study gates the level: an entry outside the valid majors scores 0; otherwise meeting
// the level scores 100 and falling one level short scores 50.
func ScoreEducation(education []types.Education, req types.EducationRequirement, judgments *types.Judgments) int {
	required := ParseRequiredLevel(req.RequiredLevel)
	if required == DegreeNone {
		return 100
	}
	if len(education) == 0 {
		return 0
	}

	best := 0
	for i, edu := range education {
		judged, hasJudgment := judgments.EducationEntry(i)

		if len(req.ValidMajors) > 0 {
			relevant := fieldMatchesMajors(edu, req.ValidMajors)
			if hasJudgment {
				relevant = judged.IsRelevant
			}
			if !relevant {
				continue
			}
		}

		level := ParseDegreeLevel(edu.DegreeLevel)
		if level == DegreeNone && hasJudgment {
			level = ParseDegreeLevel(judged.DegreeLevel)
		}

		score := 0
		switch {
		case level >= required:
			score = 100
		case level == required-1:
			score = 50
		}
		if score > best {
			best = score
		}
	}
	return best
}

// fieldMatchesMajors reports whether the entry's field shares a significant token with,
// or is a known relative of, any valid major. The degree text stands in for a blank field.
// A major made only of generic words ("Science", "Arts") is compared on those words.
func fieldMatchesMajors(edu types.Education, majors []string) bool {
	field := edu.FieldOfStudy
	if strings.TrimSpace(field) == "" {
		field = edu.DegreeLevel
	}
	fieldAll := parsing.TokenSet(field, nil)
	if len(fieldAll) == 0 {
		return false
	}
	fieldTokens := parsing.TokenSet(field, fieldStopWords)
	fieldKey := strings.Join(parsing.Tokens(field), " ")

	for _, major := range majors {
		majorTokens, against := parsing.TokenSet(major, fieldStopWords), fieldTokens
		if len(majorTokens) == 0 {
			majorTokens, against = parsing.TokenSet(major, nil), fieldAll
		}
		for tok := range majorTokens {
			if _, ok := against[tok]; ok {
				return true
			}
		}
		for _, related := range relatedFields[strings.Join(parsing.Tokens(major), " ")] {
			if strings.Contains(fieldKey, related) {
				return true
			}
		}
	}
	return false
}
