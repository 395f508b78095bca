// Package observability provides formatted console output for CLI runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-fit/internal/pipeline"
	"github.com/jonathan/candidate-fit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output of scores and evaluations
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// writeList appends up to maxItemsToShow bullet items under a heading
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintBreakdown outputs a composite score with its components and weights.
func (p *Printer) PrintBreakdown(label string, breakdown *types.ScoreBreakdown) {
	if breakdown == nil {
		return
	}

	b := breakdown.Breakdown
	w := breakdown.Weights
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Base score:      %d\n\n", breakdown.BaseScore))
	sb.WriteString(fmt.Sprintf("Skills:          %3d  (weight %d%%)\n", b.SkillMatch, w.Skill))
	sb.WriteString(fmt.Sprintf("Experience:      %3d  (weight %d%%)\n", b.ExperienceRelevance, w.Experience))
	sb.WriteString(fmt.Sprintf("Education:       %3d  (weight %d%%)\n", b.EducationFit, w.Education))
	sb.WriteString(fmt.Sprintf("Certifications:  %3d  (weight %d%%)\n", b.Certifications, w.Certification))
	sb.WriteString(fmt.Sprintf("Relevant years:  %.2f", b.RelevantYearsCalculated))

	title := "SCORE BREAKDOWN"
	if label != "" {
		title += ": " + label
	}
	p.printBox(title, sb.String())
}

// PrintFinalEvaluation outputs the final score, category scores, strengths and weaknesses.
func (p *Printer) PrintFinalEvaluation(eval *types.FinalEvaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Final score:  %d\n", eval.FinalScore))
	sb.WriteString(fmt.Sprintf("Confidence:   %d\n", eval.Confidence))
	if eval.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:        %s\n", eval.ExperienceLevel))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Competency:   %d\n", eval.CategoryScores.Competency))
	sb.WriteString(fmt.Sprintf("Experience:   %d\n", eval.CategoryScores.Experience))
	sb.WriteString(fmt.Sprintf("Soft skills:  %d\n", eval.CategoryScores.SoftSkills))

	var lists strings.Builder
	writeList(&lists, "Strengths", eval.Strengths)
	writeList(&lists, "Weaknesses", eval.Weaknesses)
	if lists.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(lists.String())
	}

	p.printBox("FINAL EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAlignment outputs the result of the job description alignment check.
func (p *Printer) PrintAlignment(alignment *types.Alignment) {
	if alignment == nil {
		return
	}

	var sb strings.Builder
	if alignment.Aligned {
		sb.WriteString("✅ Job description matches the role\n")
	} else {
		sb.WriteString("⚠ Job description does not match the role\n")
	}
	writeList(&sb, "Flags", alignment.Flags)
	if alignment.Reasoning != "" {
		sb.WriteString(alignment.Reasoning)
	}

	p.printBox("ALIGNMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs the narrative feedback.
func (p *Printer) PrintFeedback(feedback *types.Feedback) {
	if feedback == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(feedback.Summary + "\n")
	if len(feedback.InterviewQuestions) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Interview questions", feedback.InterviewQuestions)
	}

	p.printBox("FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunStatus outputs one line per filled stage slot, marking degraded and
// supplied results and listing stage notes.
func (p *Printer) PrintRunStatus(state *pipeline.PipelineState) {
	if state == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:    %s\n", state.RunID))
	sb.WriteString(fmt.Sprintf("Phase:  %s\n\n", state.Phase))
	for _, s := range state.Statuses() {
		sb.WriteString(fmt.Sprintf("%-20s %s\n", s.Stage, describeStatus(s)))
		for _, note := range s.Notes {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", note.Message))
		}
	}
	if state.Error != "" {
		sb.WriteString("\n" + state.Error)
	}

	p.printBox("RUN STATUS", strings.TrimSuffix(sb.String(), "\n"))
}

func describeStatus(s pipeline.StageStatus) string {
	switch {
	case s.Skipped:
		return "supplied"
	case s.Degraded:
		return fmt.Sprintf("degraded (%s, %d attempts)", s.Kind, s.Attempts)
	default:
		return "ok"
	}
}
