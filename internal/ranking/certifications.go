package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/candidate-fit/internal/parsing"
)

// certLevels is the certification hierarchy; a name without a level token is level 0
var certLevels = map[string]int{
	"associate":    1,
	"professional": 2,
	"expert":       3,
}

// subjectOverlapThreshold is the share of the required subject a candidate cert must cover
const subjectOverlapThreshold = 0.6

type certification struct {
	level   int
	subject map[string]struct{}
}

func parseCertification(name string) certification {
	c := certification{subject: make(map[string]struct{})}
	for _, tok := range strings.Fields(parsing.NormalizeCertification(name)) {
		if level, ok := certLevels[tok]; ok {
			if level > c.level {
				c.level = level
			}
			continue
		}
		c.subject[tok] = struct{}{}
	}
	return c
}

// ScoreCertifications returns the percentage of required certifications the candidate
// satisfies. A requirement is satisfied by a candidate cert covering at least 60% of its
// subject words at an equal or higher level.
func ScoreCertifications(candidate, required []string) int {
	reqs := make([]certification, 0, len(required))
	for _, r := range required {
		if strings.TrimSpace(r) == "" {
			continue
		}
		reqs = append(reqs, parseCertification(r))
	}
	if len(reqs) == 0 {
		return 100
	}

	held := make([]certification, 0, len(candidate))
	for _, c := range candidate {
		if strings.TrimSpace(c) == "" {
			continue
		}
		held = append(held, parseCertification(c))
	}
	if len(held) == 0 {
		return 0
	}

	matched := 0
	for _, req := range reqs {
		for _, have := range held {
			if have.level >= req.level && subjectOverlap(req.subject, have.subject) >= subjectOverlapThreshold {
				matched++
				break
			}
		}
	}
	return int(math.Round(float64(matched) / float64(len(reqs)) * 100))
}

// subjectOverlap is the share of required subject words present in the candidate subject.
// A requirement that is only a level word is fully covered.
func subjectOverlap(required, candidate map[string]struct{}) float64 {
	if len(required) == 0 {
		return 1
	}
	hits := 0
	for tok := range required {
		if _, ok := candidate[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(required))
}
