package ranking

import (
	"strings"

	"github.com/jonathan/candidate-fit/internal/types"
)

// RoleMismatchFlag marks a job description that does not describe the stated role
const RoleMismatchFlag = "jd-role mismatch"

// Confidence rates how much the score can be trusted: 60% profile completeness
// (skills, work experience, education present) and 40% absence of alignment flags.
func Confidence(profile *types.CandidateProfile, alignment *types.Alignment) int {
	present := 0
	if profile != nil {
		if len(profile.Skills) > 0 {
			present++
		}
		if len(profile.WorkExperience) > 0 {
			present++
		}
		if len(profile.Education) > 0 {
			present++
		}
	}

	completeness := 70.0
	switch present {
	case 3:
		completeness = 100
	case 2:
		completeness = 85
	}

	bias := 100.0
	if alignment != nil {
		switch {
		case hasMismatchFlag(alignment.Flags):
			bias = 0
		case len(alignment.Flags) > 0 || !alignment.Aligned:
			bias = 70
		}
	}

	return int(completeness*0.6 + bias*0.4)
}

func hasMismatchFlag(flags []string) bool {
	for _, f := range flags {
		if strings.EqualFold(strings.TrimSpace(f), RoleMismatchFlag) {
			return true
		}
	}
	return false
}
