package experience

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-fit/internal/parsing"
	"github.com/jonathan/candidate-fit/internal/types"
)

// titleStopWords are excluded from the title-to-role overlap test
var titleStopWords = map[string]bool{
	"senior": true, "sr": true, "junior": true, "jr": true, "lead": true, "principal": true,
	"staff": true, "manager": true, "head": true, "chief": true, "director": true,
	"intern": true, "trainee": true, "associate": true, "assistant": true, "vp": true,
	"i": true, "ii": true, "iii": true, "iv": true, "of": true, "the": true, "and": true,
	"&": true, "/": true, "|": true, "a": true, "an": true, "for": true, "to": true,
}

// Calculator computes durations and relevance-weighted years for a work history
type Calculator struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Calculator
type Option func(*Calculator)

// WithClock sets the source of "now" used for open-ended jobs
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used to report unparseable dates
func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator creates a Calculator using the wall clock and a no-op logger by default
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// JobDuration returns the length of the job at index in years. Unparseable dates yield 0;
// DateIssues reports them.
func (c *Calculator) JobDuration(index int, job types.WorkExperience) float64 {
	start, end, issue := c.span(index, job)
	if issue != nil {
		return 0
	}
	return DurationYears(start, end)
}

func (c *Calculator) span(index int, job types.WorkExperience) (time.Time, time.Time, *UnparseableDateError) {
	now := c.now()
	start, ok := ParseInstant(job.StartDate, now)
	if !ok {
		return time.Time{}, time.Time{}, &UnparseableDateError{JobIndex: index, Field: "start_date", Value: job.StartDate}
	}
	end, ok := ParseInstant(job.EndDate, now)
	if !ok {
		return time.Time{}, time.Time{}, &UnparseableDateError{JobIndex: index, Field: "end_date", Value: job.EndDate}
	}
	return start, end, nil
}

// TotalYears sums the duration of every job
func (c *Calculator) TotalYears(jobs []types.WorkExperience) float64 {
	total := 0.0
	for i, job := range jobs {
		total += c.JobDuration(i, job)
	}
	return total
}

// RelevantYears sums each job's duration weighted by its relevance. Judged jobs use the
// binary policy of types.RelevanceLevel.Weight; unjudged jobs count fully when their
// title shares a token with the role name.
func (c *Calculator) RelevantYears(jobs []types.WorkExperience, judgments *types.Judgments, roleName string) float64 {
	total := 0.0
	for i, job := range jobs {
		weight := 0.0
		if level, ok := judgments.WorkRelevance(i); ok {
			weight = level.Weight()
		} else if TitleMatchesRole(job.JobTitle, roleName) {
			weight = 1.0
		}
		if weight == 0 {
			continue
		}
		total += c.JobDuration(i, job) * weight
	}
	return total
}

// TitleMatchesRole reports whether a job title shares a non-seniority token with the role.
// A dual title such as "Biochemist/Web Developer" matches when either half does, and the
// job then counts in full. A role with no usable tokens matches every title.
func TitleMatchesRole(title, roleName string) bool {
	roleTokens := parsing.TokenSet(roleName, titleStopWords)
	if len(roleTokens) == 0 {
		return true
	}
	for tok := range parsing.TokenSet(title, titleStopWords) {
		if _, ok := roleTokens[tok]; ok {
			return true
		}
	}
	return false
}

// Level buckets years of experience into a seniority label
func Level(years float64) string {
	switch {
	case years <= 2:
		return "Junior"
	case years <= 6:
		return "Mid-Level"
	default:
		return "Senior"
	}
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DateIssues returns an error for every work history date that cannot be read and logs
// each one as a warning.
func (c *Calculator) DateIssues(jobs []types.WorkExperience) []*UnparseableDateError {
	var issues []*UnparseableDateError
	for i, job := range jobs {
		if _, _, issue := c.span(i, job); issue != nil {
			c.logger.Warn("work history date skipped", zap.Error(issue))
			issues = append(issues, issue)
		}
	}
	return issues
}
